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
	ErrQRCodeNotFound   = repository.ErrQRCodeNotFound
	ErrInvalidScanType  = errors.New("invalid scan type")
	ErrScanTypeDisabled = errors.New("scan type is not enabled for this event")
	ErrScanWindowClosed = errors.New("scan window is closed")
	ErrDuplicateScan    = errors.New("attendance already recorded for this scan type")
	ErrNotRegistered    = errors.New("student is not registered for this event")
)

type AttendanceRepository interface {
	CreateRecord(ctx context.Context, record domain.AttendanceRecord) (domain.AttendanceRecord, error)
	ListByEventAndUser(ctx context.Context, eventID, userID uint) ([]domain.AttendanceRecord, error)
	ListByEvent(ctx context.Context, eventID uint) ([]domain.AttendanceRecord, error)
	RecordedSet(ctx context.Context, eventID, userID uint) (domain.RecordedScanSet, error)
	FindQRCodeByToken(ctx context.Context, token string) (domain.QRCode, error)
	TouchQRCode(ctx context.Context, id uint, usedAt time.Time) error
}

type AttendanceEventRepository interface {
	GetByID(ctx context.Context, id uint) (domain.Event, error)
	GetRegistration(ctx context.Context, eventID, userID uint) (domain.Registration, error)
	CreateRegistration(ctx context.Context, reg domain.Registration) (domain.Registration, error)
	UpdateRegistration(ctx context.Context, reg domain.Registration) (domain.Registration, error)
}

type AttendanceOrganizationRepository interface {
	IsOrganizer(ctx context.Context, organizationID, userID uint) (bool, error)
}

type AttendanceUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindProfileByUserID(ctx context.Context, userID uint) (domain.UserProfile, error)
}

type AttendancePointsService interface {
	Credit(ctx context.Context, userID uint, amount int, reason string, eventID *uint) (domain.PointsTransaction, error)
}

// ScanResult is what the scanner UI shows after a successful scan.
type ScanResult struct {
	Record        domain.AttendanceRecord `json:"record"`
	Student       domain.User             `json:"student"`
	PointsAwarded int                     `json:"points_awarded"`
	FullyAttended bool                    `json:"fully_attended"`
}

// AttendanceStatus summarizes one student's progress at one event.
type AttendanceStatus struct {
	Records       []domain.AttendanceRecord `json:"records"`
	FullyAttended bool                      `json:"fully_attended"`
	NextScanType  *domain.ScanType          `json:"next_scan_type,omitempty"`
}

type AttendanceService struct {
	repo      AttendanceRepository
	eventRepo AttendanceEventRepository
	orgRepo   AttendanceOrganizationRepository
	userRepo  AttendanceUserRepository
	points    AttendancePointsService
	slack     domain.WindowSlack
	now       func() time.Time
}

func NewAttendanceService(
	repo AttendanceRepository,
	eventRepo AttendanceEventRepository,
	orgRepo AttendanceOrganizationRepository,
	userRepo AttendanceUserRepository,
	points AttendancePointsService,
	slack domain.WindowSlack,
) *AttendanceService {
	return &AttendanceService{
		repo:      repo,
		eventRepo: eventRepo,
		orgRepo:   orgRepo,
		userRepo:  userRepo,
		points:    points,
		slack:     slack,
		now:       time.Now,
	}
}

func (s *AttendanceService) canScanFor(ctx context.Context, scannerID uint, event *domain.Event) (bool, error) {
	profile, err := s.userRepo.FindProfileByUserID(ctx, scannerID)
	if err != nil {
		return false, fmt.Errorf("s.userRepo.FindProfileByUserID -> %w", err)
	}
	if profile.IsAdmin() {
		return true, nil
	}
	if event.OrganizationID == nil {
		return false, nil
	}

	ok, err := s.orgRepo.IsOrganizer(ctx, *event.OrganizationID, scannerID)
	if err != nil {
		return false, fmt.Errorf("s.orgRepo.IsOrganizer -> %w", err)
	}

	return ok, nil
}

// RecordScan is the scanner endpoint's whole flow: resolve the QR token,
// check the scan is allowed right now, insert the record and credit points.
// The (event, user, scan type) unique constraint is the final arbiter for
// concurrent duplicates; the pre-flight check only gives a cleaner error.
func (s *AttendanceService) RecordScan(ctx context.Context, scannerID uint, token string, eventID uint, scanType domain.ScanType, notes string) (ScanResult, error) {
	if !scanType.IsValid() {
		return ScanResult{}, ErrInvalidScanType
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return ScanResult{}, fmt.Errorf("s.eventRepo.GetByID -> %w", err)
	}

	ok, err := s.canScanFor(ctx, scannerID, &event)
	if err != nil {
		return ScanResult{}, err
	}
	if !ok {
		return ScanResult{}, ErrPermissionDenied
	}

	qr, err := s.repo.FindQRCodeByToken(ctx, token)
	if err != nil {
		return ScanResult{}, fmt.Errorf("s.repo.FindQRCodeByToken -> %w", err)
	}
	studentID := qr.UserID

	if !event.Slot(scanType).Enabled {
		return ScanResult{}, ErrScanTypeDisabled
	}

	now := s.now()
	if !event.CanScanAttendance(now, s.slack) {
		return ScanResult{}, ErrScanWindowClosed
	}
	// The event must be ongoing and now inside the slot window, not just
	// inside the overall attendance band.
	if !event.CanScan(scanType, now) {
		return ScanResult{}, ErrScanWindowClosed
	}

	reg, err := s.resolveRegistration(ctx, &event, studentID)
	if err != nil {
		return ScanResult{}, err
	}

	recorded, err := s.repo.RecordedSet(ctx, eventID, studentID)
	if err != nil {
		return ScanResult{}, fmt.Errorf("s.repo.RecordedSet -> %w", err)
	}
	if recorded[scanType] {
		return ScanResult{}, ErrDuplicateScan
	}

	award := event.PerScanAward()
	record, err := s.repo.CreateRecord(ctx, domain.AttendanceRecord{
		EventID:       eventID,
		UserID:        studentID,
		OrganizerID:   &scannerID,
		ScanType:      scanType,
		PointsAwarded: award,
		Notes:         notes,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateAttendance) {
			return ScanResult{}, ErrDuplicateScan
		}
		return ScanResult{}, fmt.Errorf("s.repo.CreateRecord -> %w", err)
	}
	recorded[scanType] = true

	reason := fmt.Sprintf("Attendance: %s (%s)", event.Title, scanType.Label())
	if _, err := s.points.Credit(ctx, studentID, award, reason, &eventID); err != nil {
		return ScanResult{}, fmt.Errorf("s.points.Credit -> %w", err)
	}

	if err := s.repo.TouchQRCode(ctx, qr.ID, now); err != nil {
		zap.L().Warn("failed to touch qr code", zap.Uint("qr_id", qr.ID), zap.Error(err))
	}

	if scanType.IsTimeIn() && reg.Status != domain.RegistrationAttended {
		reg.Status = domain.RegistrationAttended
		reg.CheckedInAt = &now
		if _, err := s.eventRepo.UpdateRegistration(ctx, reg); err != nil {
			zap.L().Error("failed to mark registration attended",
				zap.Uint("event_id", eventID),
				zap.Uint("user_id", studentID),
				zap.Error(err),
			)
		}
	}

	student, err := s.userRepo.FindByID(ctx, studentID)
	if err != nil {
		return ScanResult{}, fmt.Errorf("s.userRepo.FindByID -> %w", err)
	}

	return ScanResult{
		Record:        record,
		Student:       student,
		PointsAwarded: award,
		FullyAttended: domain.IsFullyAttended(&event, recorded),
	}, nil
}

// resolveRegistration loads the student's registration. Mandatory events
// accept unregistered members by registering them on the spot; optional
// events require an active registration.
func (s *AttendanceService) resolveRegistration(ctx context.Context, event *domain.Event, studentID uint) (domain.Registration, error) {
	reg, err := s.eventRepo.GetRegistration(ctx, event.ID, studentID)
	if err == nil {
		if reg.IsCancelled() {
			return domain.Registration{}, ErrNotRegistered
		}
		return reg, nil
	}
	if !errors.Is(err, repository.ErrRegistrationNotFound) {
		return domain.Registration{}, fmt.Errorf("s.eventRepo.GetRegistration -> %w", err)
	}

	if !event.IsMandatory() {
		return domain.Registration{}, ErrNotRegistered
	}

	created, err := s.eventRepo.CreateRegistration(ctx, domain.Registration{
		EventID:     event.ID,
		UserID:      studentID,
		Status:      domain.RegistrationPreRegistered,
		IsMandatory: true,
	})
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.eventRepo.CreateRegistration -> %w", err)
	}

	return created, nil
}

// Status reports a student's scan progress for an event.
func (s *AttendanceService) Status(ctx context.Context, eventID, userID uint) (AttendanceStatus, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return AttendanceStatus{}, fmt.Errorf("s.eventRepo.GetByID -> %w", err)
	}

	records, err := s.repo.ListByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return AttendanceStatus{}, fmt.Errorf("s.repo.ListByEventAndUser -> %w", err)
	}

	recorded := make(domain.RecordedScanSet, len(records))
	for _, rec := range records {
		recorded[rec.ScanType] = true
	}

	status := AttendanceStatus{
		Records:       records,
		FullyAttended: domain.IsFullyAttended(&event, recorded),
	}
	if next, ok := domain.NextEligibleScanType(&event, recorded, s.now()); ok {
		status.NextScanType = &next
	}

	return status, nil
}

// ListEventAttendance returns every scan for an event. Restricted to admins
// and the event's organizers.
func (s *AttendanceService) ListEventAttendance(ctx context.Context, callerID, eventID uint) ([]domain.AttendanceRecord, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.eventRepo.GetByID -> %w", err)
	}

	ok, err := s.canScanFor(ctx, callerID, &event)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPermissionDenied
	}

	records, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByEvent -> %w", err)
	}

	return records, nil
}
