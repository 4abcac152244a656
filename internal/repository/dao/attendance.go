package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrDuplicateAttendance = errors.New("attendance already recorded for this scan type")
	ErrQRCodeNotFound      = errors.New("qr code not found")
)

type AttendanceRecord struct {
	ID          uint   `gorm:"primaryKey"`
	EventID     uint   `gorm:"not null;uniqueIndex:uniq_attendance_event_user_type;index:idx_attendance_event_user"`
	UserID      uint   `gorm:"not null;uniqueIndex:uniq_attendance_event_user_type;index:idx_attendance_event_user"`
	ScanType    string `gorm:"size:15;not null;uniqueIndex:uniq_attendance_event_user_type"`
	OrganizerID *uint
	// Set once at creation, never updated afterwards.
	PointsAwarded int `gorm:"not null;default:0"`
	Notes         string
	CreatedAt     time.Time `gorm:"index"`
}

type QRCode struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     uint   `gorm:"uniqueIndex;not null"`
	Token      string `gorm:"size:64;uniqueIndex;not null"`
	IsActive   bool   `gorm:"not null;default:true"`
	LastUsedAt *time.Time
	CreatedAt  time.Time
}

type AttendanceDAO struct {
	db *gorm.DB
}

func NewAttendanceDAO(db *gorm.DB) *AttendanceDAO {
	return &AttendanceDAO{
		db: db,
	}
}

// InsertRecord relies on the (event_id, user_id, scan_type) unique index to
// reject concurrent duplicate scans; the pre-flight existence check in the
// service only improves the error message.
func (d *AttendanceDAO) InsertRecord(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error) {
	result := d.db.WithContext(ctx).Create(&record)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return AttendanceRecord{}, ErrDuplicateAttendance
		}
		return AttendanceRecord{}, result.Error
	}

	return record, nil
}

func (d *AttendanceDAO) ListByEventAndUser(ctx context.Context, eventID, userID uint) ([]AttendanceRecord, error) {
	var records []AttendanceRecord

	result := d.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Order("created_at ASC").
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}

	return records, nil
}

func (d *AttendanceDAO) ListByEvent(ctx context.Context, eventID uint) ([]AttendanceRecord, error) {
	var records []AttendanceRecord

	result := d.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}

	return records, nil
}

func (d *AttendanceDAO) FindQRCodeByToken(ctx context.Context, token string) (QRCode, error) {
	var qr QRCode

	result := d.db.WithContext(ctx).First(&qr, "token = ? AND is_active = ?", token, true)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return QRCode{}, ErrQRCodeNotFound
		}
		return QRCode{}, result.Error
	}

	return qr, nil
}

func (d *AttendanceDAO) FindQRCodeByUserID(ctx context.Context, userID uint) (QRCode, error) {
	var qr QRCode

	result := d.db.WithContext(ctx).First(&qr, "user_id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return QRCode{}, ErrQRCodeNotFound
		}
		return QRCode{}, result.Error
	}

	return qr, nil
}

func (d *AttendanceDAO) InsertQRCode(ctx context.Context, qr QRCode) (QRCode, error) {
	result := d.db.WithContext(ctx).Create(&qr)
	if result.Error != nil {
		return QRCode{}, result.Error
	}
	return qr, nil
}

func (d *AttendanceDAO) TouchQRCode(ctx context.Context, id uint, usedAt time.Time) error {
	return d.db.WithContext(ctx).
		Model(&QRCode{}).
		Where("id = ?", id).
		Update("last_used_at", usedAt).Error
}
