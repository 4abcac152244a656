package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrExcuseNotFound = errors.New("excuse not found")

type Excuse struct {
	ID          uint   `gorm:"primaryKey"`
	EventID     uint   `gorm:"not null;index:idx_excuse_event_user"`
	UserID      uint   `gorm:"not null;index:idx_excuse_event_user"`
	Scope       string `gorm:"size:15;not null;default:ALL"`
	Reason      string `gorm:"not null"`
	ProofLink   string `gorm:"size:500"`
	Status      string `gorm:"size:12;not null;default:PENDING;index"`
	ReviewedBy  *uint
	ReviewedAt  *time.Time
	ReviewNotes string
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

type ExcuseDAO struct {
	db *gorm.DB
}

func NewExcuseDAO(db *gorm.DB) *ExcuseDAO {
	return &ExcuseDAO{
		db: db,
	}
}

func (d *ExcuseDAO) Insert(ctx context.Context, excuse Excuse) (Excuse, error) {
	result := d.db.WithContext(ctx).Create(&excuse)
	if result.Error != nil {
		return Excuse{}, result.Error
	}
	return excuse, nil
}

func (d *ExcuseDAO) GetByID(ctx context.Context, id uint) (Excuse, error) {
	var excuse Excuse

	result := d.db.WithContext(ctx).First(&excuse, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Excuse{}, ErrExcuseNotFound
		}
		return Excuse{}, result.Error
	}

	return excuse, nil
}

func (d *ExcuseDAO) Update(ctx context.Context, excuse Excuse) (Excuse, error) {
	result := d.db.WithContext(ctx).Save(&excuse)
	if result.Error != nil {
		return Excuse{}, result.Error
	}
	return excuse, nil
}

// ListActiveByEventAndUser returns pending and approved excuses. Rejected
// excuses don't block a resubmission.
func (d *ExcuseDAO) ListActiveByEventAndUser(ctx context.Context, eventID, userID uint) ([]Excuse, error) {
	var excuses []Excuse

	result := d.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ? AND status IN ?", eventID, userID, []string{"PENDING", "APPROVED"}).
		Find(&excuses)
	if result.Error != nil {
		return nil, result.Error
	}

	return excuses, nil
}

// ListByEventAndUser returns every excuse regardless of status, newest
// first. Used for the student's own history.
func (d *ExcuseDAO) ListByEventAndUser(ctx context.Context, eventID, userID uint) ([]Excuse, error) {
	var excuses []Excuse

	result := d.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Order("created_at DESC").
		Find(&excuses)
	if result.Error != nil {
		return nil, result.Error
	}

	return excuses, nil
}

func (d *ExcuseDAO) ListPending(ctx context.Context) ([]Excuse, error) {
	var excuses []Excuse

	result := d.db.WithContext(ctx).
		Where("status = ?", "PENDING").
		Order("created_at DESC").
		Find(&excuses)
	if result.Error != nil {
		return nil, result.Error
	}

	return excuses, nil
}
