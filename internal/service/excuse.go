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
	ErrExcuseNotFound        = repository.ErrExcuseNotFound
	ErrExcuseAlreadyReviewed = errors.New("excuse has already been reviewed")
	ErrExcuseExists          = errors.New("an active excuse already covers this scope")
	ErrNotMandatoryEvent     = errors.New("excuses can only be submitted for mandatory events")
	ErrInvalidExcuseScope    = errors.New("invalid excuse scope")
)

type ExcuseRepository interface {
	Create(ctx context.Context, excuse domain.Excuse) (domain.Excuse, error)
	GetByID(ctx context.Context, id uint) (domain.Excuse, error)
	Update(ctx context.Context, excuse domain.Excuse) (domain.Excuse, error)
	ListActiveByEventAndUser(ctx context.Context, eventID, userID uint) ([]domain.Excuse, error)
	ListByEventAndUser(ctx context.Context, eventID, userID uint) ([]domain.Excuse, error)
	ListPending(ctx context.Context) ([]domain.Excuse, error)
}

type ExcuseAttendanceRepository interface {
	CreateRecord(ctx context.Context, record domain.AttendanceRecord) (domain.AttendanceRecord, error)
	RecordedSet(ctx context.Context, eventID, userID uint) (domain.RecordedScanSet, error)
}

type ExcuseEventRepository interface {
	GetByID(ctx context.Context, id uint) (domain.Event, error)
	GetRegistration(ctx context.Context, eventID, userID uint) (domain.Registration, error)
}

// DecisionMailer sends the review outcome to the student. Delivery is
// best-effort inside the mailer itself.
type DecisionMailer interface {
	SendExcuseDecision(to, eventTitle, status, notes string)
}

type ExcuseService struct {
	repo     ExcuseRepository
	attRepo  ExcuseAttendanceRepository
	evtRepo  ExcuseEventRepository
	orgRepo  AttendanceOrganizationRepository
	userRepo AttendanceUserRepository
	points   AttendancePointsService
	mailer   DecisionMailer
	now      func() time.Time
}

func NewExcuseService(
	repo ExcuseRepository,
	attRepo ExcuseAttendanceRepository,
	evtRepo ExcuseEventRepository,
	orgRepo AttendanceOrganizationRepository,
	userRepo AttendanceUserRepository,
	points AttendancePointsService,
	mailer DecisionMailer,
) *ExcuseService {
	return &ExcuseService{
		repo:     repo,
		attRepo:  attRepo,
		evtRepo:  evtRepo,
		orgRepo:  orgRepo,
		userRepo: userRepo,
		points:   points,
		mailer:   mailer,
		now:      time.Now,
	}
}

// Submit files an excuse for a mandatory event the student is registered to.
// At most one pending or approved excuse may cover any given scan type; a
// rejected excuse never blocks resubmission.
func (s *ExcuseService) Submit(ctx context.Context, userID, eventID uint, scope domain.ExcuseScope, reason, proofLink string) (domain.Excuse, error) {
	if !scope.IsValid() {
		return domain.Excuse{}, ErrInvalidExcuseScope
	}

	event, err := s.evtRepo.GetByID(ctx, eventID)
	if err != nil {
		return domain.Excuse{}, fmt.Errorf("s.evtRepo.GetByID -> %w", err)
	}
	if !event.IsMandatory() {
		return domain.Excuse{}, ErrNotMandatoryEvent
	}

	reg, err := s.evtRepo.GetRegistration(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrRegistrationNotFound) {
			return domain.Excuse{}, ErrNotRegistered
		}
		return domain.Excuse{}, fmt.Errorf("s.evtRepo.GetRegistration -> %w", err)
	}
	if reg.IsCancelled() {
		return domain.Excuse{}, ErrNotRegistered
	}

	// A scope that covers no enabled scan type would excuse nothing and
	// slip past the overlap check below.
	candidate := domain.Excuse{EventID: eventID, UserID: userID, Scope: scope}
	if len(candidate.CoveredScanTypes(&event)) == 0 {
		return domain.Excuse{}, ErrInvalidExcuseScope
	}

	active, err := s.repo.ListActiveByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return domain.Excuse{}, fmt.Errorf("s.repo.ListActiveByEventAndUser -> %w", err)
	}
	for i := range active {
		if scopesOverlap(&event, &active[i], &candidate) {
			return domain.Excuse{}, ErrExcuseExists
		}
	}

	created, err := s.repo.Create(ctx, domain.Excuse{
		EventID:   eventID,
		UserID:    userID,
		Scope:     scope,
		Reason:    reason,
		ProofLink: proofLink,
		Status:    domain.ExcusePending,
	})
	if err != nil {
		return domain.Excuse{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// scopesOverlap reports whether two excuses cover at least one common enabled
// scan type on the event.
func scopesOverlap(event *domain.Event, a, b *domain.Excuse) bool {
	covered := make(map[domain.ScanType]bool)
	for _, t := range a.CoveredScanTypes(event) {
		covered[t] = true
	}
	for _, t := range b.CoveredScanTypes(event) {
		if covered[t] {
			return true
		}
	}
	return false
}

func (s *ExcuseService) canReview(ctx context.Context, reviewerID uint, event *domain.Event) (bool, error) {
	profile, err := s.userRepo.FindProfileByUserID(ctx, reviewerID)
	if err != nil {
		return false, fmt.Errorf("s.userRepo.FindProfileByUserID -> %w", err)
	}
	if profile.IsAdmin() {
		return true, nil
	}
	if event.OrganizationID == nil {
		return false, nil
	}

	ok, err := s.orgRepo.IsOrganizer(ctx, *event.OrganizationID, reviewerID)
	if err != nil {
		return false, fmt.Errorf("s.orgRepo.IsOrganizer -> %w", err)
	}

	return ok, nil
}

// Review decides a pending excuse. Approval synthesizes attendance records
// for every covered scan type the student hasn't already scanned, crediting
// the same per-scan award a real scan would have. Both outcomes are terminal:
// a reviewed excuse can never be re-reviewed, so approval side effects run at
// most once.
func (s *ExcuseService) Review(ctx context.Context, reviewerID, excuseID uint, approve bool, notes string) (domain.Excuse, error) {
	excuse, err := s.repo.GetByID(ctx, excuseID)
	if err != nil {
		return domain.Excuse{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	event, err := s.evtRepo.GetByID(ctx, excuse.EventID)
	if err != nil {
		return domain.Excuse{}, fmt.Errorf("s.evtRepo.GetByID -> %w", err)
	}

	ok, err := s.canReview(ctx, reviewerID, &event)
	if err != nil {
		return domain.Excuse{}, err
	}
	if !ok {
		return domain.Excuse{}, ErrPermissionDenied
	}

	if !excuse.IsPending() {
		return domain.Excuse{}, ErrExcuseAlreadyReviewed
	}

	now := s.now()
	excuse.ReviewedBy = &reviewerID
	excuse.ReviewedAt = &now
	excuse.ReviewNotes = notes

	if approve {
		excuse.Status = domain.ExcuseApproved
		if err := s.creditExcusedScans(ctx, reviewerID, &event, &excuse); err != nil {
			return domain.Excuse{}, err
		}
	} else {
		excuse.Status = domain.ExcuseRejected
	}

	updated, err := s.repo.Update(ctx, excuse)
	if err != nil {
		return domain.Excuse{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	s.notifyDecision(ctx, &updated, &event)

	return updated, nil
}

func (s *ExcuseService) creditExcusedScans(ctx context.Context, reviewerID uint, event *domain.Event, excuse *domain.Excuse) error {
	recorded, err := s.attRepo.RecordedSet(ctx, event.ID, excuse.UserID)
	if err != nil {
		return fmt.Errorf("s.attRepo.RecordedSet -> %w", err)
	}

	award := event.PerScanAward()
	for _, t := range excuse.CoveredScanTypes(event) {
		if recorded[t] {
			continue
		}

		_, err := s.attRepo.CreateRecord(ctx, domain.AttendanceRecord{
			EventID:       event.ID,
			UserID:        excuse.UserID,
			OrganizerID:   &reviewerID,
			ScanType:      t,
			PointsAwarded: award,
			Notes:         fmt.Sprintf("Excused: %s", excuse.Reason),
		})
		if err != nil {
			if errors.Is(err, repository.ErrDuplicateAttendance) {
				// Scanned concurrently with the review; the scan already paid.
				continue
			}
			return fmt.Errorf("s.attRepo.CreateRecord -> %w", err)
		}

		reason := fmt.Sprintf("Excused attendance: %s (%s)", event.Title, t.Label())
		if _, err := s.points.Credit(ctx, excuse.UserID, award, reason, &event.ID); err != nil {
			return fmt.Errorf("s.points.Credit -> %w", err)
		}
	}

	return nil
}

func (s *ExcuseService) notifyDecision(ctx context.Context, excuse *domain.Excuse, event *domain.Event) {
	user, err := s.userRepo.FindByID(ctx, excuse.UserID)
	if err != nil {
		zap.L().Warn("failed to load user for excuse notification",
			zap.Uint("user_id", excuse.UserID),
			zap.Error(err),
		)
		return
	}

	s.mailer.SendExcuseDecision(user.Email, event.Title, string(excuse.Status), excuse.ReviewNotes)
}

func (s *ExcuseService) GetExcuse(ctx context.Context, id uint) (domain.Excuse, error) {
	excuse, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Excuse{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	return excuse, nil
}

func (s *ExcuseService) ListPending(ctx context.Context, callerID uint) ([]domain.Excuse, error) {
	profile, err := s.userRepo.FindProfileByUserID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("s.userRepo.FindProfileByUserID -> %w", err)
	}
	if !profile.IsAdmin() && !profile.IsOrganizer() {
		return nil, ErrPermissionDenied
	}

	excuses, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListPending -> %w", err)
	}

	return excuses, nil
}

// ListMyExcuses is the student's own history, so rejected excuses are
// included too.
func (s *ExcuseService) ListMyExcuses(ctx context.Context, eventID, userID uint) ([]domain.Excuse, error) {
	excuses, err := s.repo.ListByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByEventAndUser -> %w", err)
	}

	return excuses, nil
}
