package repository

import (
	"context"
	"fmt"

	"github.com/campus-pulse/pulse-api/internal/domain"
	"github.com/campus-pulse/pulse-api/internal/repository/dao"
)

var (
	ErrOrganizationNotFound = dao.ErrOrganizationNotFound
	ErrMembershipExists     = dao.ErrMembershipExists
	ErrMembershipNotFound   = dao.ErrMembershipNotFound
	ErrInviteNotFound       = dao.ErrInviteNotFound
	ErrJoinCodeTaken        = dao.ErrJoinCodeTaken
)

type OrganizationDAO interface {
	Insert(ctx context.Context, org dao.Organization) (dao.Organization, error)
	Update(ctx context.Context, org dao.Organization) (dao.Organization, error)
	GetByID(ctx context.Context, id uint) (dao.Organization, error)
	GetByJoinCode(ctx context.Context, code string) (dao.Organization, error)
	InsertMembership(ctx context.Context, m dao.OrganizationMembership) (dao.OrganizationMembership, error)
	GetMembership(ctx context.Context, organizationID, userID uint) (dao.OrganizationMembership, error)
	ListMembers(ctx context.Context, organizationID uint) ([]dao.OrganizationMembership, error)
	IsOrganizer(ctx context.Context, organizationID, userID uint) (bool, error)
	FindActiveInvite(ctx context.Context, organizationID uint) (dao.OrganizationInvite, error)
	GetInviteByToken(ctx context.Context, token string) (dao.OrganizationInvite, error)
	InsertInvite(ctx context.Context, invite dao.OrganizationInvite) (dao.OrganizationInvite, error)
	IncrementInviteUse(ctx context.Context, id uint) error
}

type OrganizationRepository struct {
	dao OrganizationDAO
}

func NewOrganizationRepository(dao OrganizationDAO) *OrganizationRepository {
	return &OrganizationRepository{
		dao: dao,
	}
}

func (r *OrganizationRepository) daoToDomain(o dao.Organization) domain.Organization {
	return domain.Organization{
		ID:          o.ID,
		Name:        o.Name,
		Description: o.Description,
		CreatedBy:   o.CreatedBy,
		JoinCode:    o.JoinCode,
		IsActive:    o.IsActive,
		Status:      domain.OrganizationStatus(o.Status),
		ReviewedBy:  o.ReviewedBy,
		ReviewedAt:  o.ReviewedAt,
		ReviewNotes: o.ReviewNotes,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func (r *OrganizationRepository) membershipDaoToDomain(m dao.OrganizationMembership) domain.OrganizationMembership {
	return domain.OrganizationMembership{
		ID:             m.ID,
		UserID:         m.UserID,
		OrganizationID: m.OrganizationID,
		Role:           domain.MembershipRole(m.Role),
		JoinedVia:      domain.JoinMethod(m.JoinedVia),
		JoinedAt:       m.CreatedAt,
	}
}

func (r *OrganizationRepository) inviteDaoToDomain(i dao.OrganizationInvite) domain.OrganizationInvite {
	return domain.OrganizationInvite{
		ID:             i.ID,
		OrganizationID: i.OrganizationID,
		Token:          i.Token,
		CreatedBy:      i.CreatedBy,
		ExpiresAt:      i.ExpiresAt,
		UsedCount:      i.UsedCount,
		MaxUses:        i.MaxUses,
		IsActive:       i.IsActive,
		CreatedAt:      i.CreatedAt,
	}
}

func (r *OrganizationRepository) Create(ctx context.Context, org domain.Organization) (domain.Organization, error) {
	created, err := r.dao.Insert(ctx, dao.Organization{
		Name:        org.Name,
		Description: org.Description,
		CreatedBy:   org.CreatedBy,
		JoinCode:    org.JoinCode,
		IsActive:    org.IsActive,
		Status:      string(org.Status),
	})
	if err != nil {
		return domain.Organization{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *OrganizationRepository) Update(ctx context.Context, org domain.Organization) (domain.Organization, error) {
	updated, err := r.dao.Update(ctx, dao.Organization{
		ID:          org.ID,
		Name:        org.Name,
		Description: org.Description,
		CreatedBy:   org.CreatedBy,
		JoinCode:    org.JoinCode,
		IsActive:    org.IsActive,
		Status:      string(org.Status),
		ReviewedBy:  org.ReviewedBy,
		ReviewedAt:  org.ReviewedAt,
		ReviewNotes: org.ReviewNotes,
		CreatedAt:   org.CreatedAt,
	})
	if err != nil {
		return domain.Organization{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id uint) (domain.Organization, error) {
	org, err := r.dao.GetByID(ctx, id)
	if err != nil {
		return domain.Organization{}, fmt.Errorf("r.dao.GetByID -> %w", err)
	}

	return r.daoToDomain(org), nil
}

func (r *OrganizationRepository) GetByJoinCode(ctx context.Context, code string) (domain.Organization, error) {
	org, err := r.dao.GetByJoinCode(ctx, code)
	if err != nil {
		return domain.Organization{}, fmt.Errorf("r.dao.GetByJoinCode -> %w", err)
	}

	return r.daoToDomain(org), nil
}

func (r *OrganizationRepository) CreateMembership(ctx context.Context, m domain.OrganizationMembership) (domain.OrganizationMembership, error) {
	created, err := r.dao.InsertMembership(ctx, dao.OrganizationMembership{
		UserID:         m.UserID,
		OrganizationID: m.OrganizationID,
		Role:           string(m.Role),
		JoinedVia:      string(m.JoinedVia),
	})
	if err != nil {
		return domain.OrganizationMembership{}, fmt.Errorf("r.dao.InsertMembership -> %w", err)
	}

	return r.membershipDaoToDomain(created), nil
}

func (r *OrganizationRepository) GetMembership(ctx context.Context, organizationID, userID uint) (domain.OrganizationMembership, error) {
	m, err := r.dao.GetMembership(ctx, organizationID, userID)
	if err != nil {
		return domain.OrganizationMembership{}, fmt.Errorf("r.dao.GetMembership -> %w", err)
	}

	return r.membershipDaoToDomain(m), nil
}

func (r *OrganizationRepository) ListMembers(ctx context.Context, organizationID uint) ([]domain.OrganizationMembership, error) {
	membersDAO, err := r.dao.ListMembers(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListMembers -> %w", err)
	}

	members := make([]domain.OrganizationMembership, len(membersDAO))
	for i, m := range membersDAO {
		members[i] = r.membershipDaoToDomain(m)
	}

	return members, nil
}

func (r *OrganizationRepository) IsOrganizer(ctx context.Context, organizationID, userID uint) (bool, error) {
	ok, err := r.dao.IsOrganizer(ctx, organizationID, userID)
	if err != nil {
		return false, fmt.Errorf("r.dao.IsOrganizer -> %w", err)
	}

	return ok, nil
}

func (r *OrganizationRepository) FindActiveInvite(ctx context.Context, organizationID uint) (domain.OrganizationInvite, error) {
	invite, err := r.dao.FindActiveInvite(ctx, organizationID)
	if err != nil {
		return domain.OrganizationInvite{}, fmt.Errorf("r.dao.FindActiveInvite -> %w", err)
	}

	return r.inviteDaoToDomain(invite), nil
}

func (r *OrganizationRepository) GetInviteByToken(ctx context.Context, token string) (domain.OrganizationInvite, error) {
	invite, err := r.dao.GetInviteByToken(ctx, token)
	if err != nil {
		return domain.OrganizationInvite{}, fmt.Errorf("r.dao.GetInviteByToken -> %w", err)
	}

	return r.inviteDaoToDomain(invite), nil
}

func (r *OrganizationRepository) CreateInvite(ctx context.Context, invite domain.OrganizationInvite) (domain.OrganizationInvite, error) {
	created, err := r.dao.InsertInvite(ctx, dao.OrganizationInvite{
		OrganizationID: invite.OrganizationID,
		Token:          invite.Token,
		CreatedBy:      invite.CreatedBy,
		ExpiresAt:      invite.ExpiresAt,
		MaxUses:        invite.MaxUses,
		IsActive:       invite.IsActive,
	})
	if err != nil {
		return domain.OrganizationInvite{}, fmt.Errorf("r.dao.InsertInvite -> %w", err)
	}

	return r.inviteDaoToDomain(created), nil
}

func (r *OrganizationRepository) IncrementInviteUse(ctx context.Context, id uint) error {
	if err := r.dao.IncrementInviteUse(ctx, id); err != nil {
		return fmt.Errorf("r.dao.IncrementInviteUse -> %w", err)
	}
	return nil
}
