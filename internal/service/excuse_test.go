package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-pulse/pulse-api/internal/domain"
)

type excuseFixture struct {
	svc      *ExcuseService
	repo     *excuseRepoMock
	attRepo  *attendanceRepoMock
	evtRepo  *eventRepoMock
	orgRepo  *orgRepoMock
	userRepo *userRepoMock
	points   *pointsServiceMock
	mailer   *decisionMailerMock
}

func newExcuseFixture(event domain.Event) excuseFixture {
	reg := domain.Registration{
		ID:      1,
		EventID: event.ID,
		UserID:  42,
		Status:  domain.RegistrationPreRegistered,
	}

	f := excuseFixture{
		repo:    &excuseRepoMock{},
		attRepo: &attendanceRepoMock{},
		evtRepo: &eventRepoMock{event: event, reg: &reg},
		orgRepo: &orgRepoMock{organizer: true},
		userRepo: &userRepoMock{
			user:    domain.User{ID: 42, Email: "ana@example.com", Name: "Ana Reyes"},
			profile: domain.UserProfile{UserID: 9, Role: domain.RoleUser},
		},
		points: &pointsServiceMock{},
		mailer: &decisionMailerMock{},
	}

	f.svc = NewExcuseService(f.repo, f.attRepo, f.evtRepo, f.orgRepo, f.userRepo, f.points, f.mailer)
	f.svc.now = func() time.Time { return scanTestNow }

	return f
}

func TestExcuseService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending excuse", func(t *testing.T) {
		f := newExcuseFixture(scanTestEvent())

		excuse, err := f.svc.Submit(ctx, 42, 10, domain.ExcuseScopeAll, "medical appointment", "https://example.com/cert.pdf")
		require.NoError(t, err)

		assert.Equal(t, domain.ExcusePending, excuse.Status)
		assert.Equal(t, domain.ExcuseScopeAll, excuse.Scope)
		require.Len(t, f.repo.created, 1)
	})

	t.Run("rejects unknown scopes", func(t *testing.T) {
		f := newExcuseFixture(scanTestEvent())

		_, err := f.svc.Submit(ctx, 42, 10, domain.ExcuseScope("SOMETIMES"), "reason reason", "")
		assert.ErrorIs(t, err, ErrInvalidExcuseScope)
	})

	t.Run("rejects optional events", func(t *testing.T) {
		event := scanTestEvent()
		event.Type = domain.EventOptional
		f := newExcuseFixture(event)

		_, err := f.svc.Submit(ctx, 42, 10, domain.ExcuseScopeAll, "medical appointment", "")
		assert.ErrorIs(t, err, ErrNotMandatoryEvent)
	})

	t.Run("rejects unregistered students", func(t *testing.T) {
		f := newExcuseFixture(scanTestEvent())
		f.evtRepo.reg = nil

		_, err := f.svc.Submit(ctx, 42, 10, domain.ExcuseScopeAll, "medical appointment", "")
		assert.ErrorIs(t, err, ErrNotRegistered)
	})

	t.Run("rejects cancelled registrations", func(t *testing.T) {
		f := newExcuseFixture(scanTestEvent())
		f.evtRepo.reg.Status = domain.RegistrationCancelled

		_, err := f.svc.Submit(ctx, 42, 10, domain.ExcuseScopeAll, "medical appointment", "")
		assert.ErrorIs(t, err, ErrNotRegistered)
	})

	t.Run("rejects a scope for a disabled scan type", func(t *testing.T) {
		f := newExcuseFixture(scanTestEvent())

		_, err := f.svc.Submit(ctx, 42, 10, domain.ExcuseScopeMorningOut, "medical appointment", "")
		assert.ErrorIs(t, err, ErrInvalidExcuseScope)
		assert.Empty(t, f.repo.created)
	})

	t.Run("rejects any scope on an event with no slots enabled", func(t *testing.T) {
		event := scanTestEvent()
		event.MorningIn.Enabled = false
		event.AfternoonIn.Enabled = false
		f := newExcuseFixture(event)

		_, err := f.svc.Submit(ctx, 42, 10, domain.ExcuseScopeAll, "medical appointment", "")
		assert.ErrorIs(t, err, ErrInvalidExcuseScope)
		assert.Empty(t, f.repo.created)
	})

	t.Run("rejects an overlap with an active excuse", func(t *testing.T) {
		f := newExcuseFixture(scanTestEvent())
		f.repo.active = []domain.Excuse{
			{EventID: 10, UserID: 42, Scope: domain.ExcuseScopeAll, Status: domain.ExcusePending},
		}

		_, err := f.svc.Submit(ctx, 42, 10, domain.ExcuseScopeMorningIn, "medical appointment", "")
		assert.ErrorIs(t, err, ErrExcuseExists)
	})

	t.Run("disjoint scopes can coexist", func(t *testing.T) {
		f := newExcuseFixture(scanTestEvent())
		f.repo.active = []domain.Excuse{
			{EventID: 10, UserID: 42, Scope: domain.ExcuseScopeMorningIn, Status: domain.ExcuseApproved},
		}

		_, err := f.svc.Submit(ctx, 42, 10, domain.ExcuseScopeAfternoonIn, "class conflict", "")
		require.NoError(t, err)
	})
}

func TestExcuseService_Review(t *testing.T) {
	ctx := context.Background()

	pendingExcuse := func() domain.Excuse {
		return domain.Excuse{
			ID:      5,
			EventID: 10,
			UserID:  42,
			Scope:   domain.ExcuseScopeAll,
			Reason:  "hospitalized",
			Status:  domain.ExcusePending,
		}
	}

	t.Run("approval credits only uncovered scan types", func(t *testing.T) {
		f := newExcuseFixture(scanTestEvent())
		f.repo.excuse = pendingExcuse()
		// The student already scanned in the morning before going home.
		f.attRepo.recorded = domain.RecordedScanSet{domain.ScanMorningIn: true}

		updated, err := f.svc.Review(ctx, 9, 5, true, "proof checks out")
		require.NoError(t, err)

		assert.Equal(t, domain.ExcuseApproved, updated.Status)
		require.NotNil(t, updated.ReviewedBy)
		assert.Equal(t, uint(9), *updated.ReviewedBy)
		assert.NotNil(t, updated.ReviewedAt)
		assert.Equal(t, "proof checks out", updated.ReviewNotes)

		require.Len(t, f.attRepo.created, 1)
		record := f.attRepo.created[0]
		assert.Equal(t, domain.ScanAfternoonIn, record.ScanType)
		assert.Equal(t, 5, record.PointsAwarded)
		assert.Contains(t, record.Notes, "hospitalized")
		require.NotNil(t, record.OrganizerID)
		assert.Equal(t, uint(9), *record.OrganizerID)

		require.Len(t, f.points.credits, 1)
		assert.Equal(t, 5, f.points.credits[0].amount)
		assert.Contains(t, f.points.credits[0].reason, "Afternoon Time In")

		require.Len(t, f.mailer.sent, 1)
		assert.Equal(t, "ana@example.com", f.mailer.sent[0].to)
		assert.Equal(t, "APPROVED", f.mailer.sent[0].status)
	})

	t.Run("rejection has no attendance side effects", func(t *testing.T) {
		f := newExcuseFixture(scanTestEvent())
		f.repo.excuse = pendingExcuse()

		updated, err := f.svc.Review(ctx, 9, 5, false, "no proof attached")
		require.NoError(t, err)

		assert.Equal(t, domain.ExcuseRejected, updated.Status)
		assert.Empty(t, f.attRepo.created)
		assert.Empty(t, f.points.credits)

		require.Len(t, f.mailer.sent, 1)
		assert.Equal(t, "REJECTED", f.mailer.sent[0].status)
	})

	t.Run("a reviewed excuse cannot be reviewed again", func(t *testing.T) {
		f := newExcuseFixture(scanTestEvent())
		excuse := pendingExcuse()
		excuse.Status = domain.ExcuseApproved
		f.repo.excuse = excuse

		_, err := f.svc.Review(ctx, 9, 5, true, "")
		assert.ErrorIs(t, err, ErrExcuseAlreadyReviewed)
		assert.Empty(t, f.attRepo.created)
	})

	t.Run("plain members cannot review", func(t *testing.T) {
		f := newExcuseFixture(scanTestEvent())
		f.repo.excuse = pendingExcuse()
		f.orgRepo.organizer = false

		_, err := f.svc.Review(ctx, 9, 5, true, "")
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestExcuseService_ListPending(t *testing.T) {
	ctx := context.Background()

	f := newExcuseFixture(scanTestEvent())
	f.repo.pending = []domain.Excuse{{ID: 1, Status: domain.ExcusePending}}

	t.Run("plain users are denied", func(t *testing.T) {
		f.userRepo.profile.Role = domain.RoleUser
		_, err := f.svc.ListPending(ctx, 9)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("organizers see the queue", func(t *testing.T) {
		f.userRepo.profile.Role = domain.RoleOrganizer
		excuses, err := f.svc.ListPending(ctx, 9)
		require.NoError(t, err)
		assert.Len(t, excuses, 1)
	})
}

func TestExcuseService_ListMyExcuses(t *testing.T) {
	f := newExcuseFixture(scanTestEvent())
	f.repo.all = []domain.Excuse{
		{ID: 2, EventID: 10, UserID: 42, Status: domain.ExcuseRejected},
		{ID: 1, EventID: 10, UserID: 42, Status: domain.ExcusePending},
	}

	excuses, err := f.svc.ListMyExcuses(context.Background(), 10, 42)
	require.NoError(t, err)

	// The student's own history includes rejected excuses.
	require.Len(t, excuses, 2)
	assert.Equal(t, domain.ExcuseRejected, excuses[0].Status)
	assert.Equal(t, domain.ExcusePending, excuses[1].Status)
}
