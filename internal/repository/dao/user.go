package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserEmailExists = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("user profile not found")
)

type User struct {
	ID uint `gorm:"primaryKey"`

	Email    string `gorm:"unique;not null"`
	Password string `gorm:"not null"`
	Name     string `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserProfile struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"uniqueIndex;not null"`
	User        User   `gorm:"foreignKey:UserID"`
	Role        string `gorm:"size:12;not null;default:USER"`
	Phone       string `gorm:"size:20"`
	Course      string `gorm:"size:100"`
	YearLevel   *uint
	TotalPoints int `gorm:"not null;default:0"`
}

type PointsTransaction struct {
	ID           uint `gorm:"primaryKey"`
	UserID       uint `gorm:"not null;index"`
	Amount       int  `gorm:"not null"`
	Reason       string
	EventID      *uint
	BalanceAfter int       `gorm:"not null"`
	CreatedAt    time.Time `gorm:"index"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

// Insert creates the user and their profile together.
func (d *UserDAO) Insert(ctx context.Context, user User, role string) (User, UserProfile, error) {
	var profile UserProfile

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrUserEmailExists
			}
			return err
		}

		profile = UserProfile{UserID: user.ID, Role: role}
		return tx.Create(&profile).Error
	})
	if err != nil {
		return User{}, UserProfile{}, err
	}

	return user, profile, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindProfileByUserID(ctx context.Context, userID uint) (UserProfile, error) {
	var profile UserProfile

	result := d.db.WithContext(ctx).First(&profile, "user_id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return UserProfile{}, ErrProfileNotFound
		}

		return UserProfile{}, result.Error
	}

	return profile, nil
}

// AddPoints appends a ledger entry and moves the cached total in one
// transaction. The profile row is locked on postgres so concurrent credits
// cannot lose updates.
func (d *UserDAO) AddPoints(ctx context.Context, userID uint, amount int, reason string, eventID *uint) (PointsTransaction, error) {
	var txn PointsTransaction

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx
		if tx.Dialector.Name() == "postgres" {
			query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var profile UserProfile
		if err := query.First(&profile, "user_id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProfileNotFound
			}
			return err
		}

		newTotal := profile.TotalPoints + amount
		if err := tx.Model(&UserProfile{}).
			Where("id = ?", profile.ID).
			Update("total_points", newTotal).Error; err != nil {
			return err
		}

		txn = PointsTransaction{
			UserID:       userID,
			Amount:       amount,
			Reason:       reason,
			EventID:      eventID,
			BalanceAfter: newTotal,
		}
		return tx.Create(&txn).Error
	})
	if err != nil {
		return PointsTransaction{}, err
	}

	return txn, nil
}

func (d *UserDAO) ListTransactions(ctx context.Context, userID uint) ([]PointsTransaction, error) {
	var txns []PointsTransaction

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&txns)
	if result.Error != nil {
		return nil, result.Error
	}

	return txns, nil
}

type LeaderboardRow struct {
	UserID      uint
	Name        string
	TotalPoints int
}

func (d *UserDAO) Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow

	result := d.db.WithContext(ctx).
		Table("user_profiles").
		Select("user_profiles.user_id, users.name, user_profiles.total_points").
		Joins("JOIN users ON users.id = user_profiles.user_id").
		Order("user_profiles.total_points DESC, user_profiles.user_id ASC").
		Limit(limit).
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}
