package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/campus-pulse/pulse-api/internal/domain"
	"github.com/campus-pulse/pulse-api/internal/repository/dao"
)

var (
	ErrDuplicateAttendance = dao.ErrDuplicateAttendance
	ErrQRCodeNotFound      = dao.ErrQRCodeNotFound
)

type AttendanceDAO interface {
	InsertRecord(ctx context.Context, record dao.AttendanceRecord) (dao.AttendanceRecord, error)
	ListByEventAndUser(ctx context.Context, eventID, userID uint) ([]dao.AttendanceRecord, error)
	ListByEvent(ctx context.Context, eventID uint) ([]dao.AttendanceRecord, error)
	FindQRCodeByToken(ctx context.Context, token string) (dao.QRCode, error)
	FindQRCodeByUserID(ctx context.Context, userID uint) (dao.QRCode, error)
	InsertQRCode(ctx context.Context, qr dao.QRCode) (dao.QRCode, error)
	TouchQRCode(ctx context.Context, id uint, usedAt time.Time) error
}

type AttendanceRepository struct {
	dao AttendanceDAO
}

func NewAttendanceRepository(dao AttendanceDAO) *AttendanceRepository {
	return &AttendanceRepository{
		dao: dao,
	}
}

func (r *AttendanceRepository) daoToDomain(rec dao.AttendanceRecord) domain.AttendanceRecord {
	return domain.AttendanceRecord{
		ID:            rec.ID,
		EventID:       rec.EventID,
		UserID:        rec.UserID,
		OrganizerID:   rec.OrganizerID,
		ScanType:      domain.ScanType(rec.ScanType),
		Timestamp:     rec.CreatedAt,
		PointsAwarded: rec.PointsAwarded,
		Notes:         rec.Notes,
	}
}

func (r *AttendanceRepository) daosToDomain(records []dao.AttendanceRecord) []domain.AttendanceRecord {
	out := make([]domain.AttendanceRecord, len(records))
	for i, rec := range records {
		out[i] = r.daoToDomain(rec)
	}
	return out
}

func (r *AttendanceRepository) qrDaoToDomain(qr dao.QRCode) domain.QRCode {
	return domain.QRCode{
		ID:         qr.ID,
		UserID:     qr.UserID,
		Token:      qr.Token,
		IsActive:   qr.IsActive,
		LastUsedAt: qr.LastUsedAt,
		CreatedAt:  qr.CreatedAt,
	}
}

func (r *AttendanceRepository) CreateRecord(ctx context.Context, record domain.AttendanceRecord) (domain.AttendanceRecord, error) {
	created, err := r.dao.InsertRecord(ctx, dao.AttendanceRecord{
		EventID:       record.EventID,
		UserID:        record.UserID,
		ScanType:      string(record.ScanType),
		OrganizerID:   record.OrganizerID,
		PointsAwarded: record.PointsAwarded,
		Notes:         record.Notes,
	})
	if err != nil {
		return domain.AttendanceRecord{}, fmt.Errorf("r.dao.InsertRecord -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *AttendanceRepository) ListByEventAndUser(ctx context.Context, eventID, userID uint) ([]domain.AttendanceRecord, error) {
	records, err := r.dao.ListByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByEventAndUser -> %w", err)
	}

	return r.daosToDomain(records), nil
}

func (r *AttendanceRepository) ListByEvent(ctx context.Context, eventID uint) ([]domain.AttendanceRecord, error) {
	records, err := r.dao.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByEvent -> %w", err)
	}

	return r.daosToDomain(records), nil
}

// RecordedSet collapses a user's records for an event into the set of scan
// types already taken.
func (r *AttendanceRepository) RecordedSet(ctx context.Context, eventID, userID uint) (domain.RecordedScanSet, error) {
	records, err := r.dao.ListByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByEventAndUser -> %w", err)
	}

	recorded := make(domain.RecordedScanSet, len(records))
	for _, rec := range records {
		recorded[domain.ScanType(rec.ScanType)] = true
	}

	return recorded, nil
}

func (r *AttendanceRepository) FindQRCodeByToken(ctx context.Context, token string) (domain.QRCode, error) {
	qr, err := r.dao.FindQRCodeByToken(ctx, token)
	if err != nil {
		return domain.QRCode{}, fmt.Errorf("r.dao.FindQRCodeByToken -> %w", err)
	}

	return r.qrDaoToDomain(qr), nil
}

func (r *AttendanceRepository) FindQRCodeByUserID(ctx context.Context, userID uint) (domain.QRCode, error) {
	qr, err := r.dao.FindQRCodeByUserID(ctx, userID)
	if err != nil {
		return domain.QRCode{}, fmt.Errorf("r.dao.FindQRCodeByUserID -> %w", err)
	}

	return r.qrDaoToDomain(qr), nil
}

func (r *AttendanceRepository) CreateQRCode(ctx context.Context, qr domain.QRCode) (domain.QRCode, error) {
	created, err := r.dao.InsertQRCode(ctx, dao.QRCode{
		UserID:   qr.UserID,
		Token:    qr.Token,
		IsActive: qr.IsActive,
	})
	if err != nil {
		return domain.QRCode{}, fmt.Errorf("r.dao.InsertQRCode -> %w", err)
	}

	return r.qrDaoToDomain(created), nil
}

func (r *AttendanceRepository) TouchQRCode(ctx context.Context, id uint, usedAt time.Time) error {
	if err := r.dao.TouchQRCode(ctx, id, usedAt); err != nil {
		return fmt.Errorf("r.dao.TouchQRCode -> %w", err)
	}
	return nil
}
