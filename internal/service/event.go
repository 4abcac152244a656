package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campus-pulse/pulse-api/internal/domain"
	"github.com/campus-pulse/pulse-api/internal/repository"
)

var (
	ErrEventNotFound          = repository.ErrEventNotFound
	ErrRegistrationNotFound   = repository.ErrRegistrationNotFound
	ErrPermissionDenied       = errors.New("permission denied")
	ErrEventFull              = errors.New("event is at capacity")
	ErrRegistrationClosed     = errors.New("registration deadline has passed")
	ErrAlreadyRegistered      = errors.New("already registered for this event")
	ErrRegistrationIsRequired = errors.New("registration for a mandatory event cannot be cancelled")
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	GetByID(ctx context.Context, id uint) (domain.Event, error)
	ListPublic(ctx context.Context) ([]domain.Event, error)
	ListByOrganization(ctx context.Context, organizationID uint) ([]domain.Event, error)
	ListMandatoryUpcoming(ctx context.Context, organizationID uint, now time.Time) ([]domain.Event, error)
	GetRegistration(ctx context.Context, eventID, userID uint) (domain.Registration, error)
	CreateRegistration(ctx context.Context, reg domain.Registration) (domain.Registration, error)
	UpdateRegistration(ctx context.Context, reg domain.Registration) (domain.Registration, error)
	CountRegistered(ctx context.Context, eventID uint) (int, error)
	ListRegistrationsByUser(ctx context.Context, userID uint) ([]domain.Registration, error)
}

type EventOrganizationRepository interface {
	IsOrganizer(ctx context.Context, organizationID, userID uint) (bool, error)
	ListMembers(ctx context.Context, organizationID uint) ([]domain.OrganizationMembership, error)
}

type EventUserRepository interface {
	FindProfileByUserID(ctx context.Context, userID uint) (domain.UserProfile, error)
}

type EventService struct {
	repo     EventRepository
	orgRepo  EventOrganizationRepository
	userRepo EventUserRepository
	now      func() time.Time
}

func NewEventService(repo EventRepository, orgRepo EventOrganizationRepository, userRepo EventUserRepository) *EventService {
	return &EventService{
		repo:     repo,
		orgRepo:  orgRepo,
		userRepo: userRepo,
		now:      time.Now,
	}
}

// canManage reports whether the user may create or edit events for the given
// organization: site admins always, organizers for their own organization.
func (s *EventService) canManage(ctx context.Context, userID uint, organizationID *uint) (bool, error) {
	profile, err := s.userRepo.FindProfileByUserID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("s.userRepo.FindProfileByUserID -> %w", err)
	}
	if profile.IsAdmin() {
		return true, nil
	}
	if organizationID == nil {
		return false, nil
	}

	ok, err := s.orgRepo.IsOrganizer(ctx, *organizationID, userID)
	if err != nil {
		return false, fmt.Errorf("s.orgRepo.IsOrganizer -> %w", err)
	}

	return ok, nil
}

// CreateEvent stores the event and, for mandatory organization events,
// registers every current member up front. Registration here is explicit
// orchestration, not a storage side effect, so partial failures are logged
// and the remaining members still get registered.
func (s *EventService) CreateEvent(ctx context.Context, creatorID uint, event domain.Event) (domain.Event, error) {
	ok, err := s.canManage(ctx, creatorID, event.OrganizationID)
	if err != nil {
		return domain.Event{}, err
	}
	if !ok {
		return domain.Event{}, ErrPermissionDenied
	}

	event.CreatedBy = creatorID
	event.DeriveTimestamps()

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if created.IsMandatory() && created.OrganizationID != nil {
		if err := s.registerAllMembers(ctx, created); err != nil {
			return domain.Event{}, err
		}
	}

	return created, nil
}

func (s *EventService) registerAllMembers(ctx context.Context, event domain.Event) error {
	members, err := s.orgRepo.ListMembers(ctx, *event.OrganizationID)
	if err != nil {
		return fmt.Errorf("s.orgRepo.ListMembers -> %w", err)
	}

	for _, m := range members {
		_, err := s.repo.CreateRegistration(ctx, domain.Registration{
			EventID:     event.ID,
			UserID:      m.UserID,
			Status:      domain.RegistrationPreRegistered,
			IsMandatory: true,
		})
		if err != nil {
			if errors.Is(err, repository.ErrRegistrationExists) {
				continue
			}
			zap.L().Error("failed to auto-register member",
				zap.Uint("event_id", event.ID),
				zap.Uint("user_id", m.UserID),
				zap.Error(err),
			)
		}
	}

	return nil
}

// RegisterForMandatoryEvents signs a new member up for every upcoming
// mandatory event of the organization they just joined.
func (s *EventService) RegisterForMandatoryEvents(ctx context.Context, organizationID, userID uint) error {
	events, err := s.repo.ListMandatoryUpcoming(ctx, organizationID, s.now())
	if err != nil {
		return fmt.Errorf("s.repo.ListMandatoryUpcoming -> %w", err)
	}

	for _, event := range events {
		_, err := s.repo.CreateRegistration(ctx, domain.Registration{
			EventID:     event.ID,
			UserID:      userID,
			Status:      domain.RegistrationPreRegistered,
			IsMandatory: true,
		})
		if err != nil && !errors.Is(err, repository.ErrRegistrationExists) {
			return fmt.Errorf("s.repo.CreateRegistration -> %w", err)
		}
	}

	return nil
}

func (s *EventService) UpdateEvent(ctx context.Context, editorID uint, event domain.Event) (domain.Event, error) {
	existing, err := s.repo.GetByID(ctx, event.ID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	ok, err := s.canManage(ctx, editorID, existing.OrganizationID)
	if err != nil {
		return domain.Event{}, err
	}
	if !ok {
		return domain.Event{}, ErrPermissionDenied
	}

	event.CreatedBy = existing.CreatedBy
	event.CreatedAt = existing.CreatedAt
	event.DeriveTimestamps()

	updated, err := s.repo.Update(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	return event, nil
}

func (s *EventService) ListPublicEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.ListPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListPublic -> %w", err)
	}

	return events, nil
}

func (s *EventService) ListOrganizationEvents(ctx context.Context, organizationID uint) ([]domain.Event, error) {
	events, err := s.repo.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByOrganization -> %w", err)
	}

	return events, nil
}

// Register signs a user up for an event, enforcing the deadline and capacity.
// A cancelled registration is revived instead of inserting a new row.
func (s *EventService) Register(ctx context.Context, eventID, userID uint) (domain.Registration, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	now := s.now()
	if event.RegistrationDeadline != nil && now.After(*event.RegistrationDeadline) {
		return domain.Registration{}, ErrRegistrationClosed
	}

	existing, err := s.repo.GetRegistration(ctx, eventID, userID)
	if err == nil {
		if !existing.IsCancelled() {
			return domain.Registration{}, ErrAlreadyRegistered
		}
		existing.Status = domain.RegistrationPreRegistered
		revived, err := s.repo.UpdateRegistration(ctx, existing)
		if err != nil {
			return domain.Registration{}, fmt.Errorf("s.repo.UpdateRegistration -> %w", err)
		}
		return revived, nil
	}
	if !errors.Is(err, repository.ErrRegistrationNotFound) {
		return domain.Registration{}, fmt.Errorf("s.repo.GetRegistration -> %w", err)
	}

	count, err := s.repo.CountRegistered(ctx, eventID)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.CountRegistered -> %w", err)
	}
	if event.IsFull(count) {
		return domain.Registration{}, ErrEventFull
	}

	reg, err := s.repo.CreateRegistration(ctx, domain.Registration{
		EventID:     eventID,
		UserID:      userID,
		Status:      domain.RegistrationPreRegistered,
		IsMandatory: event.IsMandatory(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrRegistrationExists) {
			return domain.Registration{}, ErrAlreadyRegistered
		}
		return domain.Registration{}, fmt.Errorf("s.repo.CreateRegistration -> %w", err)
	}

	return reg, nil
}

// CancelRegistration marks the registration cancelled. Mandatory
// registrations cannot be cancelled by the student.
func (s *EventService) CancelRegistration(ctx context.Context, eventID, userID uint) error {
	reg, err := s.repo.GetRegistration(ctx, eventID, userID)
	if err != nil {
		return fmt.Errorf("s.repo.GetRegistration -> %w", err)
	}

	if reg.IsMandatory {
		return ErrRegistrationIsRequired
	}

	reg.Status = domain.RegistrationCancelled
	if _, err := s.repo.UpdateRegistration(ctx, reg); err != nil {
		return fmt.Errorf("s.repo.UpdateRegistration -> %w", err)
	}

	return nil
}

func (s *EventService) ListMyRegistrations(ctx context.Context, userID uint) ([]domain.Registration, error) {
	regs, err := s.repo.ListRegistrationsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListRegistrationsByUser -> %w", err)
	}

	return regs, nil
}
