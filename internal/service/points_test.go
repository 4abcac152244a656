package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-pulse/pulse-api/internal/domain"
)

type pointsRepoMock struct {
	addCallCount int
	lastAmount   int
	lastReason   string
	txns         []domain.PointsTransaction
	entries      []domain.LeaderboardEntry
	lastLimit    int
}

func (m *pointsRepoMock) AddPoints(_ context.Context, userID uint, amount int, reason string, eventID *uint) (domain.PointsTransaction, error) {
	m.addCallCount++
	m.lastAmount = amount
	m.lastReason = reason
	return domain.PointsTransaction{
		UserID:       userID,
		Amount:       amount,
		Reason:       reason,
		EventID:      eventID,
		BalanceAfter: amount,
		Timestamp:    time.Now(),
	}, nil
}

func (m *pointsRepoMock) ListTransactions(context.Context, uint) ([]domain.PointsTransaction, error) {
	return m.txns, nil
}

func (m *pointsRepoMock) Leaderboard(_ context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	m.lastLimit = limit
	return m.entries, nil
}

func TestPointsService_Credit(t *testing.T) {
	ctx := context.Background()

	t.Run("credits through the repository", func(t *testing.T) {
		repo := &pointsRepoMock{}
		svc := NewPointsService(repo)

		txn, err := svc.Credit(ctx, 42, 5, "Attendance: Assembly (Morning Time In)", nil)
		require.NoError(t, err)

		assert.Equal(t, 5, txn.Amount)
		assert.Equal(t, 1, repo.addCallCount)
	})

	t.Run("zero amount writes no ledger entry", func(t *testing.T) {
		repo := &pointsRepoMock{}
		svc := NewPointsService(repo)

		txn, err := svc.Credit(ctx, 42, 0, "zero-budget event", nil)
		require.NoError(t, err)

		assert.Zero(t, txn.ID)
		assert.Equal(t, 0, repo.addCallCount)
	})
}

func TestPointsService_Leaderboard(t *testing.T) {
	ctx := context.Background()
	repo := &pointsRepoMock{entries: []domain.LeaderboardEntry{{UserID: 1}}}
	svc := NewPointsService(repo)

	_, err := svc.Leaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, defaultLeaderboardLimit, repo.lastLimit)

	_, err = svc.Leaderboard(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, repo.lastLimit)
}
