package repository

import (
	"context"
	"fmt"

	"github.com/campus-pulse/pulse-api/internal/domain"
	"github.com/campus-pulse/pulse-api/internal/repository/dao"
)

var (
	ErrUserEmailExists = dao.ErrUserEmailExists
	ErrUserNotFound    = dao.ErrUserNotFound
	ErrProfileNotFound = dao.ErrProfileNotFound
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User, role string) (dao.User, dao.UserProfile, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	FindProfileByUserID(ctx context.Context, userID uint) (dao.UserProfile, error)
	AddPoints(ctx context.Context, userID uint, amount int, reason string, eventID *uint) (dao.PointsTransaction, error)
	ListTransactions(ctx context.Context, userID uint) ([]dao.PointsTransaction, error)
	Leaderboard(ctx context.Context, limit int) ([]dao.LeaderboardRow, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.Password,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (r *UserRepository) profileDaoToDomain(p dao.UserProfile) domain.UserProfile {
	return domain.UserProfile{
		ID:          p.ID,
		UserID:      p.UserID,
		Role:        domain.Role(p.Role),
		Phone:       p.Phone,
		Course:      p.Course,
		YearLevel:   p.YearLevel,
		TotalPoints: p.TotalPoints,
	}
}

func (r *UserRepository) txnDaoToDomain(t dao.PointsTransaction) domain.PointsTransaction {
	return domain.PointsTransaction{
		ID:           t.ID,
		UserID:       t.UserID,
		Amount:       t.Amount,
		Reason:       t.Reason,
		EventID:      t.EventID,
		BalanceAfter: t.BalanceAfter,
		Timestamp:    t.CreatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User, role domain.Role) (domain.User, domain.UserProfile, error) {
	created, profile, err := r.dao.Insert(ctx, dao.User{
		Email:    user.Email,
		Password: user.Password,
		Name:     user.Name,
	}, string(role))
	if err != nil {
		return domain.User{}, domain.UserProfile{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), r.profileDaoToDomain(profile), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	user, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(user), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	user, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(user), nil
}

func (r *UserRepository) FindProfileByUserID(ctx context.Context, userID uint) (domain.UserProfile, error) {
	profile, err := r.dao.FindProfileByUserID(ctx, userID)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("r.dao.FindProfileByUserID -> %w", err)
	}

	return r.profileDaoToDomain(profile), nil
}

func (r *UserRepository) AddPoints(ctx context.Context, userID uint, amount int, reason string, eventID *uint) (domain.PointsTransaction, error) {
	txn, err := r.dao.AddPoints(ctx, userID, amount, reason, eventID)
	if err != nil {
		return domain.PointsTransaction{}, fmt.Errorf("r.dao.AddPoints -> %w", err)
	}

	return r.txnDaoToDomain(txn), nil
}

func (r *UserRepository) ListTransactions(ctx context.Context, userID uint) ([]domain.PointsTransaction, error) {
	txnsDAO, err := r.dao.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListTransactions -> %w", err)
	}

	txns := make([]domain.PointsTransaction, len(txnsDAO))
	for i, t := range txnsDAO {
		txns[i] = r.txnDaoToDomain(t)
	}

	return txns, nil
}

func (r *UserRepository) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.dao.Leaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Leaderboard -> %w", err)
	}

	entries := make([]domain.LeaderboardEntry, len(rows))
	for i, row := range rows {
		entries[i] = domain.LeaderboardEntry{
			UserID:      row.UserID,
			Name:        row.Name,
			TotalPoints: row.TotalPoints,
		}
	}

	return entries, nil
}
