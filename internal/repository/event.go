package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/campus-pulse/pulse-api/internal/domain"
	"github.com/campus-pulse/pulse-api/internal/repository/dao"
)

var (
	ErrEventNotFound        = dao.ErrEventNotFound
	ErrRegistrationNotFound = dao.ErrRegistrationNotFound
	ErrRegistrationExists   = dao.ErrRegistrationExists
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	Update(ctx context.Context, event dao.Event) (dao.Event, error)
	GetByID(ctx context.Context, id uint) (dao.Event, error)
	ListPublic(ctx context.Context) ([]dao.Event, error)
	ListByOrganization(ctx context.Context, organizationID uint) ([]dao.Event, error)
	ListMandatoryUpcoming(ctx context.Context, organizationID uint, now time.Time) ([]dao.Event, error)
	GetRegistration(ctx context.Context, eventID, userID uint) (dao.Registration, error)
	InsertRegistration(ctx context.Context, reg dao.Registration) (dao.Registration, error)
	UpdateRegistration(ctx context.Context, reg dao.Registration) (dao.Registration, error)
	CountRegistered(ctx context.Context, eventID uint) (int, error)
	ListRegistrationsByUser(ctx context.Context, userID uint) ([]dao.Registration, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func timeOfDayToDAO(t *domain.TimeOfDay) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}

func timeOfDayFromDAO(s *string) *domain.TimeOfDay {
	if s == nil {
		return nil
	}
	t, err := domain.ParseTimeOfDay(*s)
	if err != nil {
		// Malformed stored value; treat as unset rather than poisoning reads.
		return nil
	}
	return &t
}

func (r *EventRepository) domainToDao(e domain.Event) dao.Event {
	return dao.Event{
		ID:                    e.ID,
		Title:                 e.Title,
		Description:           e.Description,
		OrganizationID:        e.OrganizationID,
		CreatedBy:             e.CreatedBy,
		EventType:             string(e.Type),
		EventDate:             e.EventDate,
		StartDatetime:         e.StartDatetime,
		EndDatetime:           e.EndDatetime,
		Venue:                 e.Venue,
		Capacity:              e.Capacity,
		RegistrationDeadline:  e.RegistrationDeadline,
		Points:                e.Points,
		IsPublic:              e.IsPublic,
		Pinned:                e.Pinned,
		EnableMorningIn:       e.MorningIn.Enabled,
		EnableMorningOut:      e.MorningOut.Enabled,
		EnableAfternoonIn:     e.AfternoonIn.Enabled,
		EnableAfternoonOut:    e.AfternoonOut.Enabled,
		MorningInStart:        timeOfDayToDAO(e.MorningIn.Start),
		MorningInEnd:          timeOfDayToDAO(e.MorningIn.End),
		MorningOutStart:       timeOfDayToDAO(e.MorningOut.Start),
		MorningOutEnd:         timeOfDayToDAO(e.MorningOut.End),
		AfternoonInStart:      timeOfDayToDAO(e.AfternoonIn.Start),
		AfternoonInEnd:        timeOfDayToDAO(e.AfternoonIn.End),
		AfternoonOutStart:     timeOfDayToDAO(e.AfternoonOut.Start),
		AfternoonOutEnd:       timeOfDayToDAO(e.AfternoonOut.End),
		AttendanceWindowStart: e.AttendanceWindowStart,
		AttendanceWindowEnd:   e.AttendanceWindowEnd,
		CreatedAt:             e.CreatedAt,
		UpdatedAt:             e.UpdatedAt,
	}
}

func (r *EventRepository) daoToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:                   e.ID,
		Title:                e.Title,
		Description:          e.Description,
		OrganizationID:       e.OrganizationID,
		CreatedBy:            e.CreatedBy,
		Type:                 domain.EventType(e.EventType),
		EventDate:            e.EventDate,
		StartDatetime:        e.StartDatetime,
		EndDatetime:          e.EndDatetime,
		Venue:                e.Venue,
		Capacity:             e.Capacity,
		RegistrationDeadline: e.RegistrationDeadline,
		Points:               e.Points,
		IsPublic:             e.IsPublic,
		Pinned:               e.Pinned,
		MorningIn: domain.SlotConfig{
			Enabled: e.EnableMorningIn,
			Start:   timeOfDayFromDAO(e.MorningInStart),
			End:     timeOfDayFromDAO(e.MorningInEnd),
		},
		MorningOut: domain.SlotConfig{
			Enabled: e.EnableMorningOut,
			Start:   timeOfDayFromDAO(e.MorningOutStart),
			End:     timeOfDayFromDAO(e.MorningOutEnd),
		},
		AfternoonIn: domain.SlotConfig{
			Enabled: e.EnableAfternoonIn,
			Start:   timeOfDayFromDAO(e.AfternoonInStart),
			End:     timeOfDayFromDAO(e.AfternoonInEnd),
		},
		AfternoonOut: domain.SlotConfig{
			Enabled: e.EnableAfternoonOut,
			Start:   timeOfDayFromDAO(e.AfternoonOutStart),
			End:     timeOfDayFromDAO(e.AfternoonOutEnd),
		},
		AttendanceWindowStart: e.AttendanceWindowStart,
		AttendanceWindowEnd:   e.AttendanceWindowEnd,
		CreatedAt:             e.CreatedAt,
		UpdatedAt:             e.UpdatedAt,
	}
}

func (r *EventRepository) daosToDomain(events []dao.Event) []domain.Event {
	out := make([]domain.Event, len(events))
	for i, e := range events {
		out[i] = r.daoToDomain(e)
	}
	return out
}

func (r *EventRepository) regDaoToDomain(reg dao.Registration) domain.Registration {
	return domain.Registration{
		ID:           reg.ID,
		EventID:      reg.EventID,
		UserID:       reg.UserID,
		Status:       domain.RegistrationStatus(reg.Status),
		IsMandatory:  reg.IsMandatory,
		RegisteredAt: reg.CreatedAt,
		CheckedInAt:  reg.CheckedInAt,
		Notes:        reg.Notes,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *EventRepository) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uint) (domain.Event, error) {
	event, err := r.dao.GetByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.GetByID -> %w", err)
	}

	return r.daoToDomain(event), nil
}

func (r *EventRepository) ListPublic(ctx context.Context) ([]domain.Event, error) {
	events, err := r.dao.ListPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListPublic -> %w", err)
	}

	return r.daosToDomain(events), nil
}

func (r *EventRepository) ListByOrganization(ctx context.Context, organizationID uint) ([]domain.Event, error) {
	events, err := r.dao.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByOrganization -> %w", err)
	}

	return r.daosToDomain(events), nil
}

func (r *EventRepository) ListMandatoryUpcoming(ctx context.Context, organizationID uint, now time.Time) ([]domain.Event, error) {
	events, err := r.dao.ListMandatoryUpcoming(ctx, organizationID, now)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListMandatoryUpcoming -> %w", err)
	}

	return r.daosToDomain(events), nil
}

func (r *EventRepository) GetRegistration(ctx context.Context, eventID, userID uint) (domain.Registration, error) {
	reg, err := r.dao.GetRegistration(ctx, eventID, userID)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.GetRegistration -> %w", err)
	}

	return r.regDaoToDomain(reg), nil
}

func (r *EventRepository) CreateRegistration(ctx context.Context, reg domain.Registration) (domain.Registration, error) {
	created, err := r.dao.InsertRegistration(ctx, dao.Registration{
		EventID:     reg.EventID,
		UserID:      reg.UserID,
		Status:      string(reg.Status),
		IsMandatory: reg.IsMandatory,
		Notes:       reg.Notes,
	})
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.InsertRegistration -> %w", err)
	}

	return r.regDaoToDomain(created), nil
}

func (r *EventRepository) UpdateRegistration(ctx context.Context, reg domain.Registration) (domain.Registration, error) {
	updated, err := r.dao.UpdateRegistration(ctx, dao.Registration{
		ID:          reg.ID,
		EventID:     reg.EventID,
		UserID:      reg.UserID,
		Status:      string(reg.Status),
		IsMandatory: reg.IsMandatory,
		CheckedInAt: reg.CheckedInAt,
		Notes:       reg.Notes,
		CreatedAt:   reg.RegisteredAt,
	})
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.UpdateRegistration -> %w", err)
	}

	return r.regDaoToDomain(updated), nil
}

func (r *EventRepository) CountRegistered(ctx context.Context, eventID uint) (int, error) {
	count, err := r.dao.CountRegistered(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountRegistered -> %w", err)
	}

	return count, nil
}

func (r *EventRepository) ListRegistrationsByUser(ctx context.Context, userID uint) ([]domain.Registration, error) {
	regsDAO, err := r.dao.ListRegistrationsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListRegistrationsByUser -> %w", err)
	}

	regs := make([]domain.Registration, len(regsDAO))
	for i, reg := range regsDAO {
		regs[i] = r.regDaoToDomain(reg)
	}

	return regs, nil
}
