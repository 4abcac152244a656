package domain

import "time"

// PointsTransaction is one append-only ledger entry. BalanceAfter snapshots
// the profile's running total as of this entry, so the ledger alone is a
// full audit trail.
type PointsTransaction struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	Amount       int       `json:"amount"`
	Reason       string    `json:"reason"`
	EventID      *uint     `json:"event_id,omitempty"`
	BalanceAfter int       `json:"balance_after"`
	Timestamp    time.Time `json:"timestamp"`
}

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	UserID      uint   `json:"user_id"`
	Name        string `json:"name"`
	TotalPoints int    `json:"total_points"`
}
