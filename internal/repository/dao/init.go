package dao

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&UserProfile{},
		&Organization{},
		&OrganizationMembership{},
		&OrganizationInvite{},
		&Event{},
		&Registration{},
		&QRCode{},
		&AttendanceRecord{},
		&PointsTransaction{},
		&Excuse{},
	)
}

// isUniqueViolation matches duplicate-key failures from postgres and from the
// sqlite test database.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
