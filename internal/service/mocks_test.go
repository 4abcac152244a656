package service

import (
	"context"
	"time"

	"github.com/campus-pulse/pulse-api/internal/domain"
	"github.com/campus-pulse/pulse-api/internal/repository"
)

// Hand-written mocks shared by the service tests. Each mock records the calls
// the test cares about so assertions can check side effects, not just results.

type attendanceRepoMock struct {
	recorded   domain.RecordedScanSet
	records    []domain.AttendanceRecord
	qr         domain.QRCode
	qrErr      error
	createErr  error
	created    []domain.AttendanceRecord
	touchCount int
}

func (m *attendanceRepoMock) CreateRecord(_ context.Context, record domain.AttendanceRecord) (domain.AttendanceRecord, error) {
	if m.createErr != nil {
		return domain.AttendanceRecord{}, m.createErr
	}
	record.ID = uint(len(m.created) + 1)
	m.created = append(m.created, record)
	return record, nil
}

func (m *attendanceRepoMock) ListByEventAndUser(context.Context, uint, uint) ([]domain.AttendanceRecord, error) {
	return m.records, nil
}

func (m *attendanceRepoMock) ListByEvent(context.Context, uint) ([]domain.AttendanceRecord, error) {
	return m.records, nil
}

func (m *attendanceRepoMock) RecordedSet(context.Context, uint, uint) (domain.RecordedScanSet, error) {
	set := make(domain.RecordedScanSet, len(m.recorded))
	for t, ok := range m.recorded {
		set[t] = ok
	}
	return set, nil
}

func (m *attendanceRepoMock) FindQRCodeByToken(context.Context, string) (domain.QRCode, error) {
	if m.qrErr != nil {
		return domain.QRCode{}, m.qrErr
	}
	return m.qr, nil
}

func (m *attendanceRepoMock) TouchQRCode(context.Context, uint, time.Time) error {
	m.touchCount++
	return nil
}

type eventRepoMock struct {
	event             domain.Event
	eventErr          error
	reg               *domain.Registration
	regErr            error
	createRegErr      error
	createdRegs       []domain.Registration
	updatedRegs       []domain.Registration
	createdEvents     []domain.Event
	updatedEvents     []domain.Event
	publicEvents      []domain.Event
	mandatoryUpcoming []domain.Event
	regsByUser        []domain.Registration
	registeredCount   int
}

func (m *eventRepoMock) Create(_ context.Context, event domain.Event) (domain.Event, error) {
	event.ID = uint(len(m.createdEvents) + 100)
	m.createdEvents = append(m.createdEvents, event)
	return event, nil
}

func (m *eventRepoMock) Update(_ context.Context, event domain.Event) (domain.Event, error) {
	m.updatedEvents = append(m.updatedEvents, event)
	return event, nil
}

func (m *eventRepoMock) GetByID(context.Context, uint) (domain.Event, error) {
	if m.eventErr != nil {
		return domain.Event{}, m.eventErr
	}
	return m.event, nil
}

func (m *eventRepoMock) ListPublic(context.Context) ([]domain.Event, error) {
	return m.publicEvents, nil
}

func (m *eventRepoMock) ListByOrganization(context.Context, uint) ([]domain.Event, error) {
	return m.publicEvents, nil
}

func (m *eventRepoMock) ListMandatoryUpcoming(context.Context, uint, time.Time) ([]domain.Event, error) {
	return m.mandatoryUpcoming, nil
}

func (m *eventRepoMock) GetRegistration(context.Context, uint, uint) (domain.Registration, error) {
	if m.regErr != nil {
		return domain.Registration{}, m.regErr
	}
	if m.reg == nil {
		return domain.Registration{}, repository.ErrRegistrationNotFound
	}
	return *m.reg, nil
}

func (m *eventRepoMock) CreateRegistration(_ context.Context, reg domain.Registration) (domain.Registration, error) {
	if m.createRegErr != nil {
		return domain.Registration{}, m.createRegErr
	}
	reg.ID = uint(len(m.createdRegs) + 1)
	m.createdRegs = append(m.createdRegs, reg)
	return reg, nil
}

func (m *eventRepoMock) UpdateRegistration(_ context.Context, reg domain.Registration) (domain.Registration, error) {
	m.updatedRegs = append(m.updatedRegs, reg)
	return reg, nil
}

func (m *eventRepoMock) CountRegistered(context.Context, uint) (int, error) {
	return m.registeredCount, nil
}

func (m *eventRepoMock) ListRegistrationsByUser(context.Context, uint) ([]domain.Registration, error) {
	return m.regsByUser, nil
}

type orgRepoMock struct {
	organizer bool
	members   []domain.OrganizationMembership
}

func (m *orgRepoMock) IsOrganizer(context.Context, uint, uint) (bool, error) {
	return m.organizer, nil
}

func (m *orgRepoMock) ListMembers(context.Context, uint) ([]domain.OrganizationMembership, error) {
	return m.members, nil
}

type userRepoMock struct {
	user       domain.User
	userErr    error
	profile    domain.UserProfile
	profileErr error
}

func (m *userRepoMock) FindByID(context.Context, uint) (domain.User, error) {
	if m.userErr != nil {
		return domain.User{}, m.userErr
	}
	return m.user, nil
}

func (m *userRepoMock) FindProfileByUserID(context.Context, uint) (domain.UserProfile, error) {
	if m.profileErr != nil {
		return domain.UserProfile{}, m.profileErr
	}
	return m.profile, nil
}

type pointsCredit struct {
	userID uint
	amount int
	reason string
}

type pointsServiceMock struct {
	credits   []pointsCredit
	creditErr error
}

func (m *pointsServiceMock) Credit(_ context.Context, userID uint, amount int, reason string, _ *uint) (domain.PointsTransaction, error) {
	if m.creditErr != nil {
		return domain.PointsTransaction{}, m.creditErr
	}
	m.credits = append(m.credits, pointsCredit{userID: userID, amount: amount, reason: reason})
	return domain.PointsTransaction{UserID: userID, Amount: amount, Reason: reason}, nil
}

type excuseRepoMock struct {
	excuse    domain.Excuse
	excuseErr error
	active    []domain.Excuse
	all       []domain.Excuse
	pending   []domain.Excuse
	created   []domain.Excuse
	updated   []domain.Excuse
}

func (m *excuseRepoMock) Create(_ context.Context, excuse domain.Excuse) (domain.Excuse, error) {
	excuse.ID = uint(len(m.created) + 1)
	m.created = append(m.created, excuse)
	return excuse, nil
}

func (m *excuseRepoMock) GetByID(context.Context, uint) (domain.Excuse, error) {
	if m.excuseErr != nil {
		return domain.Excuse{}, m.excuseErr
	}
	return m.excuse, nil
}

func (m *excuseRepoMock) Update(_ context.Context, excuse domain.Excuse) (domain.Excuse, error) {
	m.updated = append(m.updated, excuse)
	return excuse, nil
}

func (m *excuseRepoMock) ListActiveByEventAndUser(context.Context, uint, uint) ([]domain.Excuse, error) {
	return m.active, nil
}

func (m *excuseRepoMock) ListByEventAndUser(context.Context, uint, uint) ([]domain.Excuse, error) {
	return m.all, nil
}

func (m *excuseRepoMock) ListPending(context.Context) ([]domain.Excuse, error) {
	return m.pending, nil
}

type excuseDecisionMail struct {
	to         string
	eventTitle string
	status     string
	notes      string
}

type decisionMailerMock struct {
	sent []excuseDecisionMail
}

func (m *decisionMailerMock) SendExcuseDecision(to, eventTitle, status, notes string) {
	m.sent = append(m.sent, excuseDecisionMail{to: to, eventTitle: eventTitle, status: status, notes: notes})
}
