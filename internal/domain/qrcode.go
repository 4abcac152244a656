package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// QRCode is a user's scannable attendance token. One global code per user;
// the token works for every organization.
type QRCode struct {
	ID         uint       `json:"id"`
	UserID     uint       `json:"user_id"`
	Token      string     `json:"token"`
	IsActive   bool       `json:"is_active"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewQRToken derives an opaque 32-char token from the user ID and a random
// component.
func NewQRToken(userID uint) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%s", userID, uuid.NewString())))
	return hex.EncodeToString(sum[:])[:32]
}
