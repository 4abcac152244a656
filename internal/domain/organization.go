package domain

import "time"

type OrganizationStatus string

const (
	OrganizationPending  OrganizationStatus = "PENDING"
	OrganizationApproved OrganizationStatus = "APPROVED"
	OrganizationRejected OrganizationStatus = "REJECTED"
)

type Organization struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	CreatedBy   uint               `json:"created_by"`
	JoinCode    string             `json:"join_code"`
	IsActive    bool               `json:"is_active"`
	Status      OrganizationStatus `json:"status"`
	ReviewedBy  *uint              `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time         `json:"reviewed_at,omitempty"`
	ReviewNotes string             `json:"review_notes,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func (o *Organization) IsApproved() bool {
	return o.Status == OrganizationApproved
}

type MembershipRole string

const (
	MembershipMember    MembershipRole = "MEMBER"
	MembershipOrganizer MembershipRole = "ORGANIZER"
	MembershipAdmin     MembershipRole = "ADMIN"
)

type JoinMethod string

const (
	JoinedViaCode   JoinMethod = "CODE"
	JoinedViaInvite JoinMethod = "INVITE"
)

type OrganizationMembership struct {
	ID             uint           `json:"id"`
	UserID         uint           `json:"user_id"`
	OrganizationID uint           `json:"organization_id"`
	Role           MembershipRole `json:"role"`
	JoinedVia      JoinMethod     `json:"joined_via"`
	JoinedAt       time.Time      `json:"joined_at"`
}

type OrganizationInvite struct {
	ID             uint       `json:"id"`
	OrganizationID uint       `json:"organization_id"`
	Token          string     `json:"token"`
	CreatedBy      *uint      `json:"created_by,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	UsedCount      uint       `json:"used_count"`
	MaxUses        *uint      `json:"max_uses,omitempty"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
}

// IsValid reports whether the invite can still admit members.
func (i *OrganizationInvite) IsValid(now time.Time) bool {
	if !i.IsActive {
		return false
	}
	if i.ExpiresAt != nil && now.After(*i.ExpiresAt) {
		return false
	}
	if i.MaxUses != nil && i.UsedCount >= *i.MaxUses {
		return false
	}
	return true
}
