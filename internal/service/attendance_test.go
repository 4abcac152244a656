package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-pulse/pulse-api/internal/domain"
)

// scanTestEvent is a mandatory organization event on 2025-03-10 with morning
// and afternoon check-ins enabled, so each scan is worth 10/2 = 5 points.
func scanTestEvent() domain.Event {
	date := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	orgID := uint(1)
	event := domain.Event{
		ID:             10,
		Title:          "General Assembly",
		OrganizationID: &orgID,
		Type:           domain.EventMandatory,
		EventDate:      &date,
		MorningIn:      domain.SlotConfig{Enabled: true},
		AfternoonIn:    domain.SlotConfig{Enabled: true},
	}
	event.DeriveTimestamps()
	return event
}

var scanTestNow = time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)

type attendanceFixture struct {
	svc      *AttendanceService
	repo     *attendanceRepoMock
	evtRepo  *eventRepoMock
	orgRepo  *orgRepoMock
	userRepo *userRepoMock
	points   *pointsServiceMock
}

func newAttendanceFixture(event domain.Event) attendanceFixture {
	reg := domain.Registration{
		ID:      1,
		EventID: event.ID,
		UserID:  42,
		Status:  domain.RegistrationPreRegistered,
	}

	f := attendanceFixture{
		repo: &attendanceRepoMock{
			qr: domain.QRCode{ID: 3, UserID: 42, Token: "qr-token", IsActive: true},
		},
		evtRepo: &eventRepoMock{event: event, reg: &reg},
		orgRepo: &orgRepoMock{organizer: true},
		userRepo: &userRepoMock{
			user:    domain.User{ID: 42, Email: "ana@example.com", Name: "Ana Reyes"},
			profile: domain.UserProfile{UserID: 7, Role: domain.RoleUser},
		},
		points: &pointsServiceMock{},
	}

	f.svc = NewAttendanceService(f.repo, f.evtRepo, f.orgRepo, f.userRepo, f.points, domain.DefaultWindowSlack)
	f.svc.now = func() time.Time { return scanTestNow }

	return f
}

func TestAttendanceService_RecordScan(t *testing.T) {
	ctx := context.Background()

	t.Run("successful scan records, credits and checks in", func(t *testing.T) {
		f := newAttendanceFixture(scanTestEvent())

		result, err := f.svc.RecordScan(ctx, 7, "qr-token", 10, domain.ScanMorningIn, "front gate")
		require.NoError(t, err)

		assert.Equal(t, 5, result.PointsAwarded)
		assert.Equal(t, "Ana Reyes", result.Student.Name)
		assert.False(t, result.FullyAttended)

		require.Len(t, f.repo.created, 1)
		record := f.repo.created[0]
		assert.Equal(t, uint(42), record.UserID)
		assert.Equal(t, domain.ScanMorningIn, record.ScanType)
		assert.Equal(t, 5, record.PointsAwarded)
		assert.Equal(t, "front gate", record.Notes)
		require.NotNil(t, record.OrganizerID)
		assert.Equal(t, uint(7), *record.OrganizerID)

		require.Len(t, f.points.credits, 1)
		assert.Equal(t, uint(42), f.points.credits[0].userID)
		assert.Equal(t, 5, f.points.credits[0].amount)
		assert.Contains(t, f.points.credits[0].reason, "Morning Time In")

		require.Len(t, f.evtRepo.updatedRegs, 1)
		assert.Equal(t, domain.RegistrationAttended, f.evtRepo.updatedRegs[0].Status)
		assert.NotNil(t, f.evtRepo.updatedRegs[0].CheckedInAt)

		assert.Equal(t, 1, f.repo.touchCount)
	})

	t.Run("final scan reports full attendance", func(t *testing.T) {
		f := newAttendanceFixture(scanTestEvent())
		f.repo.recorded = domain.RecordedScanSet{domain.ScanMorningIn: true}

		result, err := f.svc.RecordScan(ctx, 7, "qr-token", 10, domain.ScanAfternoonIn, "")
		require.NoError(t, err)
		assert.True(t, result.FullyAttended)
	})

	t.Run("duplicate scan type is rejected", func(t *testing.T) {
		f := newAttendanceFixture(scanTestEvent())
		f.repo.recorded = domain.RecordedScanSet{domain.ScanMorningIn: true}

		_, err := f.svc.RecordScan(ctx, 7, "qr-token", 10, domain.ScanMorningIn, "")
		assert.ErrorIs(t, err, ErrDuplicateScan)
		assert.Empty(t, f.repo.created)
		assert.Empty(t, f.points.credits)
	})

	t.Run("disabled scan type is rejected", func(t *testing.T) {
		f := newAttendanceFixture(scanTestEvent())

		_, err := f.svc.RecordScan(ctx, 7, "qr-token", 10, domain.ScanMorningOut, "")
		assert.ErrorIs(t, err, ErrScanTypeDisabled)
	})

	t.Run("unknown scan type is rejected", func(t *testing.T) {
		f := newAttendanceFixture(scanTestEvent())

		_, err := f.svc.RecordScan(ctx, 7, "qr-token", 10, domain.ScanType("LUNCH"), "")
		assert.ErrorIs(t, err, ErrInvalidScanType)
	})

	t.Run("scanning long after the event is rejected", func(t *testing.T) {
		f := newAttendanceFixture(scanTestEvent())
		f.svc.now = func() time.Time {
			return time.Date(2025, time.March, 20, 8, 0, 0, 0, time.UTC)
		}

		_, err := f.svc.RecordScan(ctx, 7, "qr-token", 10, domain.ScanMorningIn, "")
		assert.ErrorIs(t, err, ErrScanWindowClosed)
	})

	t.Run("scanning outside a bounded slot window is rejected", func(t *testing.T) {
		event := scanTestEvent()
		event.MorningIn.Start = &domain.TimeOfDay{Hour: 7}
		event.MorningIn.End = &domain.TimeOfDay{Hour: 9}
		f := newAttendanceFixture(event)
		f.svc.now = func() time.Time {
			return time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)
		}

		_, err := f.svc.RecordScan(ctx, 7, "qr-token", 10, domain.ScanMorningIn, "")
		assert.ErrorIs(t, err, ErrScanWindowClosed)
	})

	t.Run("scan before the event starts is rejected even inside the slot window", func(t *testing.T) {
		event := scanTestEvent()
		start := time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)
		end := time.Date(2025, time.March, 10, 17, 0, 0, 0, time.UTC)
		event.StartDatetime = &start
		event.EndDatetime = &end
		event.MorningIn.Start = &domain.TimeOfDay{Hour: 8}
		event.MorningIn.End = &domain.TimeOfDay{Hour: 9}
		f := newAttendanceFixture(event)
		f.svc.now = func() time.Time {
			return time.Date(2025, time.March, 10, 8, 30, 0, 0, time.UTC)
		}

		_, err := f.svc.RecordScan(ctx, 7, "qr-token", 10, domain.ScanMorningIn, "")
		assert.ErrorIs(t, err, ErrScanWindowClosed)
		assert.Empty(t, f.repo.created)
		assert.Empty(t, f.points.credits)
	})

	t.Run("non-organizer cannot scan", func(t *testing.T) {
		f := newAttendanceFixture(scanTestEvent())
		f.orgRepo.organizer = false

		_, err := f.svc.RecordScan(ctx, 7, "qr-token", 10, domain.ScanMorningIn, "")
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("site admin can scan without being an organizer", func(t *testing.T) {
		f := newAttendanceFixture(scanTestEvent())
		f.orgRepo.organizer = false
		f.userRepo.profile.Role = domain.RoleAdmin

		_, err := f.svc.RecordScan(ctx, 7, "qr-token", 10, domain.ScanMorningIn, "")
		require.NoError(t, err)
	})

	t.Run("unregistered student on an optional event is rejected", func(t *testing.T) {
		event := scanTestEvent()
		event.Type = domain.EventOptional
		f := newAttendanceFixture(event)
		f.evtRepo.reg = nil

		_, err := f.svc.RecordScan(ctx, 7, "qr-token", 10, domain.ScanMorningIn, "")
		assert.ErrorIs(t, err, ErrNotRegistered)
		assert.Empty(t, f.evtRepo.createdRegs)
	})

	t.Run("unregistered member on a mandatory event is registered on the spot", func(t *testing.T) {
		f := newAttendanceFixture(scanTestEvent())
		f.evtRepo.reg = nil

		_, err := f.svc.RecordScan(ctx, 7, "qr-token", 10, domain.ScanMorningIn, "")
		require.NoError(t, err)

		require.Len(t, f.evtRepo.createdRegs, 1)
		assert.True(t, f.evtRepo.createdRegs[0].IsMandatory)
		assert.Equal(t, domain.RegistrationPreRegistered, f.evtRepo.createdRegs[0].Status)
	})

	t.Run("cancelled registration cannot scan", func(t *testing.T) {
		f := newAttendanceFixture(scanTestEvent())
		f.evtRepo.reg.Status = domain.RegistrationCancelled

		_, err := f.svc.RecordScan(ctx, 7, "qr-token", 10, domain.ScanMorningIn, "")
		assert.ErrorIs(t, err, ErrNotRegistered)
	})
}

func TestAttendanceService_Status(t *testing.T) {
	f := newAttendanceFixture(scanTestEvent())
	f.repo.records = []domain.AttendanceRecord{
		{EventID: 10, UserID: 42, ScanType: domain.ScanMorningIn},
	}

	status, err := f.svc.Status(context.Background(), 10, 42)
	require.NoError(t, err)

	assert.Len(t, status.Records, 1)
	assert.False(t, status.FullyAttended)
	require.NotNil(t, status.NextScanType)
	assert.Equal(t, domain.ScanAfternoonIn, *status.NextScanType)
}

func TestAttendanceService_ListEventAttendance(t *testing.T) {
	f := newAttendanceFixture(scanTestEvent())
	f.repo.records = []domain.AttendanceRecord{{EventID: 10, UserID: 42}}

	records, err := f.svc.ListEventAttendance(context.Background(), 7, 10)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	f.orgRepo.organizer = false
	_, err = f.svc.ListEventAttendance(context.Background(), 7, 10)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
