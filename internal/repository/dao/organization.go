package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrMembershipExists     = errors.New("user is already a member of this organization")
	ErrMembershipNotFound   = errors.New("membership not found")
	ErrInviteNotFound       = errors.New("invite not found")
	ErrJoinCodeTaken        = errors.New("join code already in use")
)

type Organization struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:200;not null"`
	Description string
	CreatedBy   uint
	JoinCode    string `gorm:"size:20;uniqueIndex;not null"`
	IsActive    bool   `gorm:"not null;default:true"`
	Status      string `gorm:"size:12;not null;default:PENDING"`
	ReviewedBy  *uint
	ReviewedAt  *time.Time
	ReviewNotes string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type OrganizationMembership struct {
	ID             uint   `gorm:"primaryKey"`
	UserID         uint   `gorm:"not null;uniqueIndex:uniq_membership_user_org"`
	OrganizationID uint   `gorm:"not null;uniqueIndex:uniq_membership_user_org;index:idx_membership_org_role"`
	Role           string `gorm:"size:12;not null;default:MEMBER;index:idx_membership_org_role"`
	JoinedVia      string `gorm:"size:20;not null;default:CODE"`
	CreatedAt      time.Time
}

type OrganizationInvite struct {
	ID             uint   `gorm:"primaryKey"`
	OrganizationID uint   `gorm:"not null;index"`
	Token          string `gorm:"size:64;uniqueIndex;not null"`
	CreatedBy      *uint
	ExpiresAt      *time.Time
	UsedCount      uint `gorm:"not null;default:0"`
	MaxUses        *uint
	IsActive       bool `gorm:"not null;default:true"`
	CreatedAt      time.Time
}

type OrganizationDAO struct {
	db *gorm.DB
}

func NewOrganizationDAO(db *gorm.DB) *OrganizationDAO {
	return &OrganizationDAO{
		db: db,
	}
}

func (d *OrganizationDAO) Insert(ctx context.Context, org Organization) (Organization, error) {
	result := d.db.WithContext(ctx).Create(&org)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return Organization{}, ErrJoinCodeTaken
		}
		return Organization{}, result.Error
	}
	return org, nil
}

func (d *OrganizationDAO) Update(ctx context.Context, org Organization) (Organization, error) {
	result := d.db.WithContext(ctx).Save(&org)
	if result.Error != nil {
		return Organization{}, result.Error
	}
	return org, nil
}

func (d *OrganizationDAO) GetByID(ctx context.Context, id uint) (Organization, error) {
	var org Organization

	result := d.db.WithContext(ctx).First(&org, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Organization{}, ErrOrganizationNotFound
		}
		return Organization{}, result.Error
	}

	return org, nil
}

func (d *OrganizationDAO) GetByJoinCode(ctx context.Context, code string) (Organization, error) {
	var org Organization

	result := d.db.WithContext(ctx).First(&org, "join_code = ?", code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Organization{}, ErrOrganizationNotFound
		}
		return Organization{}, result.Error
	}

	return org, nil
}

func (d *OrganizationDAO) InsertMembership(ctx context.Context, m OrganizationMembership) (OrganizationMembership, error) {
	result := d.db.WithContext(ctx).Create(&m)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return OrganizationMembership{}, ErrMembershipExists
		}
		return OrganizationMembership{}, result.Error
	}
	return m, nil
}

func (d *OrganizationDAO) GetMembership(ctx context.Context, organizationID, userID uint) (OrganizationMembership, error) {
	var m OrganizationMembership

	result := d.db.WithContext(ctx).First(&m, "organization_id = ? AND user_id = ?", organizationID, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return OrganizationMembership{}, ErrMembershipNotFound
		}
		return OrganizationMembership{}, result.Error
	}

	return m, nil
}

func (d *OrganizationDAO) ListMembers(ctx context.Context, organizationID uint) ([]OrganizationMembership, error) {
	var members []OrganizationMembership

	result := d.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Find(&members)
	if result.Error != nil {
		return nil, result.Error
	}

	return members, nil
}

func (d *OrganizationDAO) IsOrganizer(ctx context.Context, organizationID, userID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&OrganizationMembership{}).
		Where("organization_id = ? AND user_id = ? AND role = ?", organizationID, userID, "ORGANIZER").
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *OrganizationDAO) FindActiveInvite(ctx context.Context, organizationID uint) (OrganizationInvite, error) {
	var invite OrganizationInvite

	result := d.db.WithContext(ctx).
		Where("organization_id = ? AND is_active = ?", organizationID, true).
		Order("created_at DESC").
		First(&invite)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return OrganizationInvite{}, ErrInviteNotFound
		}
		return OrganizationInvite{}, result.Error
	}

	return invite, nil
}

func (d *OrganizationDAO) GetInviteByToken(ctx context.Context, token string) (OrganizationInvite, error) {
	var invite OrganizationInvite

	result := d.db.WithContext(ctx).First(&invite, "token = ?", token)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return OrganizationInvite{}, ErrInviteNotFound
		}
		return OrganizationInvite{}, result.Error
	}

	return invite, nil
}

func (d *OrganizationDAO) InsertInvite(ctx context.Context, invite OrganizationInvite) (OrganizationInvite, error) {
	result := d.db.WithContext(ctx).Create(&invite)
	if result.Error != nil {
		return OrganizationInvite{}, result.Error
	}
	return invite, nil
}

func (d *OrganizationDAO) IncrementInviteUse(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).
		Model(&OrganizationInvite{}).
		Where("id = ?", id).
		Update("used_count", gorm.Expr("used_count + 1")).Error
}
