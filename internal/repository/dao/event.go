package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrRegistrationExists   = errors.New("user is already registered for this event")
)

type Event struct {
	ID             uint   `gorm:"primaryKey"`
	Title          string `gorm:"size:200;not null"`
	Description    string
	OrganizationID *uint  `gorm:"index"`
	CreatedBy      uint   `gorm:"not null"`
	EventType      string `gorm:"size:12;not null;default:OPTIONAL"`

	EventDate     *time.Time `gorm:"index"`
	StartDatetime *time.Time `gorm:"index"`
	EndDatetime   *time.Time

	Venue                string `gorm:"size:200"`
	Capacity             *uint
	RegistrationDeadline *time.Time
	Points               *int
	IsPublic             bool `gorm:"not null;default:true"`
	Pinned               bool `gorm:"not null;default:false"`

	EnableMorningIn    bool `gorm:"not null;default:true"`
	EnableMorningOut   bool `gorm:"not null;default:false"`
	EnableAfternoonIn  bool `gorm:"not null;default:false"`
	EnableAfternoonOut bool `gorm:"not null;default:false"`

	// Per-slot wall-clock windows, stored as "HH:MM".
	MorningInStart    *string `gorm:"size:5"`
	MorningInEnd      *string `gorm:"size:5"`
	MorningOutStart   *string `gorm:"size:5"`
	MorningOutEnd     *string `gorm:"size:5"`
	AfternoonInStart  *string `gorm:"size:5"`
	AfternoonInEnd    *string `gorm:"size:5"`
	AfternoonOutStart *string `gorm:"size:5"`
	AfternoonOutEnd   *string `gorm:"size:5"`

	AttendanceWindowStart *time.Time
	AttendanceWindowEnd   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Registration struct {
	ID          uint   `gorm:"primaryKey"`
	EventID     uint   `gorm:"not null;uniqueIndex:uniq_registration_event_user;index:idx_registration_event_status"`
	UserID      uint   `gorm:"not null;uniqueIndex:uniq_registration_event_user"`
	Status      string `gorm:"size:16;not null;default:PRE;index:idx_registration_event_status"`
	IsMandatory bool   `gorm:"not null;default:false"`
	CheckedInAt *time.Time
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}
	return event, nil
}

func (d *EventDAO) Update(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Save(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}
	return event, nil
}

func (d *EventDAO) GetByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) ListPublic(ctx context.Context) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Where("is_public = ?", true).
		Order("pinned DESC, event_date DESC, start_datetime DESC").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) ListByOrganization(ctx context.Context, organizationID uint) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("event_date DESC, start_datetime DESC").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

// ListMandatoryUpcoming returns the organization's mandatory events that have
// not started yet. New members get registered to these on join.
func (d *EventDAO) ListMandatoryUpcoming(ctx context.Context, organizationID uint, now time.Time) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Where("organization_id = ? AND event_type = ? AND start_datetime > ?", organizationID, "MANDATORY", now).
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) GetRegistration(ctx context.Context, eventID, userID uint) (Registration, error) {
	var reg Registration

	result := d.db.WithContext(ctx).First(&reg, "event_id = ? AND user_id = ?", eventID, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Registration{}, ErrRegistrationNotFound
		}
		return Registration{}, result.Error
	}

	return reg, nil
}

func (d *EventDAO) InsertRegistration(ctx context.Context, reg Registration) (Registration, error) {
	result := d.db.WithContext(ctx).Create(&reg)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return Registration{}, ErrRegistrationExists
		}
		return Registration{}, result.Error
	}
	return reg, nil
}

func (d *EventDAO) UpdateRegistration(ctx context.Context, reg Registration) (Registration, error) {
	result := d.db.WithContext(ctx).Save(&reg)
	if result.Error != nil {
		return Registration{}, result.Error
	}
	return reg, nil
}

func (d *EventDAO) CountRegistered(ctx context.Context, eventID uint) (int, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Registration{}).
		Where("event_id = ? AND status <> ?", eventID, "CANCELLED").
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return int(count), nil
}

func (d *EventDAO) ListRegistrationsByUser(ctx context.Context, userID uint) ([]Registration, error) {
	var regs []Registration

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&regs)
	if result.Error != nil {
		return nil, result.Error
	}

	return regs, nil
}
