package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-pulse/pulse-api/internal/domain"
	"github.com/campus-pulse/pulse-api/internal/repository"
)

var (
	ErrOrganizationNotFound    = repository.ErrOrganizationNotFound
	ErrMembershipExists        = repository.ErrMembershipExists
	ErrMembershipNotFound      = repository.ErrMembershipNotFound
	ErrInviteNotFound          = repository.ErrInviteNotFound
	ErrInviteExpired           = errors.New("invite is no longer valid")
	ErrOrganizationNotApproved = errors.New("organization is not approved")
	ErrOrganizationReviewed    = errors.New("organization has already been reviewed")
)

type OrganizationRepository interface {
	Create(ctx context.Context, org domain.Organization) (domain.Organization, error)
	Update(ctx context.Context, org domain.Organization) (domain.Organization, error)
	GetByID(ctx context.Context, id uint) (domain.Organization, error)
	GetByJoinCode(ctx context.Context, code string) (domain.Organization, error)
	CreateMembership(ctx context.Context, m domain.OrganizationMembership) (domain.OrganizationMembership, error)
	GetMembership(ctx context.Context, organizationID, userID uint) (domain.OrganizationMembership, error)
	ListMembers(ctx context.Context, organizationID uint) ([]domain.OrganizationMembership, error)
	IsOrganizer(ctx context.Context, organizationID, userID uint) (bool, error)
	FindActiveInvite(ctx context.Context, organizationID uint) (domain.OrganizationInvite, error)
	GetInviteByToken(ctx context.Context, token string) (domain.OrganizationInvite, error)
	CreateInvite(ctx context.Context, invite domain.OrganizationInvite) (domain.OrganizationInvite, error)
	IncrementInviteUse(ctx context.Context, id uint) error
}

// MandatoryRegistrar signs new members up for the organization's upcoming
// mandatory events.
type MandatoryRegistrar interface {
	RegisterForMandatoryEvents(ctx context.Context, organizationID, userID uint) error
}

// OrganizationMailer notifies the creator of an approval decision.
type OrganizationMailer interface {
	SendOrganizationDecision(to, orgName, status, notes string)
}

type OrganizationService struct {
	repo      OrganizationRepository
	userRepo  AttendanceUserRepository
	registrar MandatoryRegistrar
	mailer    OrganizationMailer
	now       func() time.Time
}

func NewOrganizationService(
	repo OrganizationRepository,
	userRepo AttendanceUserRepository,
	registrar MandatoryRegistrar,
	mailer OrganizationMailer,
) *OrganizationService {
	return &OrganizationService{
		repo:      repo,
		userRepo:  userRepo,
		registrar: registrar,
		mailer:    mailer,
		now:       time.Now,
	}
}

func newJoinCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// Create files a new organization for admin review. The creator becomes its
// first organizer immediately so they can prepare events while pending.
func (s *OrganizationService) Create(ctx context.Context, creatorID uint, name, description string) (domain.Organization, error) {
	org := domain.Organization{
		Name:        name,
		Description: description,
		CreatedBy:   creatorID,
		JoinCode:    newJoinCode(),
		IsActive:    true,
		Status:      domain.OrganizationPending,
	}

	created, err := s.repo.Create(ctx, org)
	if err != nil {
		if errors.Is(err, repository.ErrJoinCodeTaken) {
			// Rare collision on the 8-char code; retry once with a fresh one.
			org.JoinCode = newJoinCode()
			created, err = s.repo.Create(ctx, org)
		}
		if err != nil {
			return domain.Organization{}, fmt.Errorf("s.repo.Create -> %w", err)
		}
	}

	_, err = s.repo.CreateMembership(ctx, domain.OrganizationMembership{
		UserID:         creatorID,
		OrganizationID: created.ID,
		Role:           domain.MembershipOrganizer,
		JoinedVia:      domain.JoinedViaCode,
	})
	if err != nil {
		return domain.Organization{}, fmt.Errorf("s.repo.CreateMembership -> %w", err)
	}

	return created, nil
}

// Review is the admin decision on a pending organization.
func (s *OrganizationService) Review(ctx context.Context, reviewerID, orgID uint, approve bool, notes string) (domain.Organization, error) {
	profile, err := s.userRepo.FindProfileByUserID(ctx, reviewerID)
	if err != nil {
		return domain.Organization{}, fmt.Errorf("s.userRepo.FindProfileByUserID -> %w", err)
	}
	if !profile.IsAdmin() {
		return domain.Organization{}, ErrPermissionDenied
	}

	org, err := s.repo.GetByID(ctx, orgID)
	if err != nil {
		return domain.Organization{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}
	if org.Status != domain.OrganizationPending {
		return domain.Organization{}, ErrOrganizationReviewed
	}

	now := s.now()
	org.ReviewedBy = &reviewerID
	org.ReviewedAt = &now
	org.ReviewNotes = notes
	if approve {
		org.Status = domain.OrganizationApproved
	} else {
		org.Status = domain.OrganizationRejected
	}

	updated, err := s.repo.Update(ctx, org)
	if err != nil {
		return domain.Organization{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	if creator, err := s.userRepo.FindByID(ctx, updated.CreatedBy); err == nil {
		s.mailer.SendOrganizationDecision(creator.Email, updated.Name, string(updated.Status), notes)
	} else {
		zap.L().Warn("failed to load organization creator for notification",
			zap.Uint("user_id", updated.CreatedBy),
			zap.Error(err),
		)
	}

	return updated, nil
}

// JoinByCode adds the user as a member and registers them for every upcoming
// mandatory event of the organization.
func (s *OrganizationService) JoinByCode(ctx context.Context, userID uint, code string) (domain.OrganizationMembership, error) {
	org, err := s.repo.GetByJoinCode(ctx, code)
	if err != nil {
		return domain.OrganizationMembership{}, fmt.Errorf("s.repo.GetByJoinCode -> %w", err)
	}

	return s.join(ctx, userID, &org, domain.JoinedViaCode)
}

// JoinByInvite admits the user through a shareable invite link.
func (s *OrganizationService) JoinByInvite(ctx context.Context, userID uint, token string) (domain.OrganizationMembership, error) {
	invite, err := s.repo.GetInviteByToken(ctx, token)
	if err != nil {
		return domain.OrganizationMembership{}, fmt.Errorf("s.repo.GetInviteByToken -> %w", err)
	}
	if !invite.IsValid(s.now()) {
		return domain.OrganizationMembership{}, ErrInviteExpired
	}

	org, err := s.repo.GetByID(ctx, invite.OrganizationID)
	if err != nil {
		return domain.OrganizationMembership{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	m, err := s.join(ctx, userID, &org, domain.JoinedViaInvite)
	if err != nil {
		return domain.OrganizationMembership{}, err
	}

	if err := s.repo.IncrementInviteUse(ctx, invite.ID); err != nil {
		zap.L().Warn("failed to increment invite use count",
			zap.Uint("invite_id", invite.ID),
			zap.Error(err),
		)
	}

	return m, nil
}

func (s *OrganizationService) join(ctx context.Context, userID uint, org *domain.Organization, via domain.JoinMethod) (domain.OrganizationMembership, error) {
	if !org.IsApproved() || !org.IsActive {
		return domain.OrganizationMembership{}, ErrOrganizationNotApproved
	}

	m, err := s.repo.CreateMembership(ctx, domain.OrganizationMembership{
		UserID:         userID,
		OrganizationID: org.ID,
		Role:           domain.MembershipMember,
		JoinedVia:      via,
	})
	if err != nil {
		if errors.Is(err, repository.ErrMembershipExists) {
			return domain.OrganizationMembership{}, ErrMembershipExists
		}
		return domain.OrganizationMembership{}, fmt.Errorf("s.repo.CreateMembership -> %w", err)
	}

	if err := s.registrar.RegisterForMandatoryEvents(ctx, org.ID, userID); err != nil {
		zap.L().Error("failed to register new member for mandatory events",
			zap.Uint("organization_id", org.ID),
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
	}

	return m, nil
}

// CreateInvite issues a shareable invite link. Only organizers may invite.
func (s *OrganizationService) CreateInvite(ctx context.Context, creatorID, orgID uint, expiresAt *time.Time, maxUses *uint) (domain.OrganizationInvite, error) {
	ok, err := s.repo.IsOrganizer(ctx, orgID, creatorID)
	if err != nil {
		return domain.OrganizationInvite{}, fmt.Errorf("s.repo.IsOrganizer -> %w", err)
	}
	if !ok {
		return domain.OrganizationInvite{}, ErrPermissionDenied
	}

	invite, err := s.repo.CreateInvite(ctx, domain.OrganizationInvite{
		OrganizationID: orgID,
		Token:          strings.ReplaceAll(uuid.NewString(), "-", ""),
		CreatedBy:      &creatorID,
		ExpiresAt:      expiresAt,
		MaxUses:        maxUses,
		IsActive:       true,
	})
	if err != nil {
		return domain.OrganizationInvite{}, fmt.Errorf("s.repo.CreateInvite -> %w", err)
	}

	return invite, nil
}

func (s *OrganizationService) GetOrganization(ctx context.Context, id uint) (domain.Organization, error) {
	org, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Organization{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	return org, nil
}

// ListMembers is restricted to members of the organization and admins.
func (s *OrganizationService) ListMembers(ctx context.Context, callerID, orgID uint) ([]domain.OrganizationMembership, error) {
	profile, err := s.userRepo.FindProfileByUserID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("s.userRepo.FindProfileByUserID -> %w", err)
	}
	if !profile.IsAdmin() {
		if _, err := s.repo.GetMembership(ctx, orgID, callerID); err != nil {
			if errors.Is(err, repository.ErrMembershipNotFound) {
				return nil, ErrPermissionDenied
			}
			return nil, fmt.Errorf("s.repo.GetMembership -> %w", err)
		}
	}

	members, err := s.repo.ListMembers(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListMembers -> %w", err)
	}

	return members, nil
}
