package service

import (
	"context"
	"fmt"

	"github.com/campus-pulse/pulse-api/internal/domain"
)

const defaultLeaderboardLimit = 50

type PointsRepository interface {
	AddPoints(ctx context.Context, userID uint, amount int, reason string, eventID *uint) (domain.PointsTransaction, error)
	ListTransactions(ctx context.Context, userID uint) ([]domain.PointsTransaction, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

type PointsService struct {
	repo PointsRepository
}

func NewPointsService(repo PointsRepository) *PointsService {
	return &PointsService{
		repo: repo,
	}
}

// Credit adds points to a user's balance and appends a ledger entry in the
// same transaction. A zero amount is a no-op: no ledger entry is written.
func (s *PointsService) Credit(ctx context.Context, userID uint, amount int, reason string, eventID *uint) (domain.PointsTransaction, error) {
	if amount == 0 {
		return domain.PointsTransaction{}, nil
	}

	txn, err := s.repo.AddPoints(ctx, userID, amount, reason, eventID)
	if err != nil {
		return domain.PointsTransaction{}, fmt.Errorf("s.repo.AddPoints -> %w", err)
	}

	return txn, nil
}

// History returns the user's ledger, newest first.
func (s *PointsService) History(ctx context.Context, userID uint) ([]domain.PointsTransaction, error) {
	txns, err := s.repo.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListTransactions -> %w", err)
	}

	return txns, nil
}

func (s *PointsService) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	entries, err := s.repo.Leaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Leaderboard -> %w", err)
	}

	return entries, nil
}
