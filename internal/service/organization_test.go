package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-pulse/pulse-api/internal/domain"
	"github.com/campus-pulse/pulse-api/internal/repository"
)

type orgRepositoryMock struct {
	org                 domain.Organization
	orgErr              error
	createOrgErrs       []error
	createdOrgs         []domain.Organization
	updatedOrgs         []domain.Organization
	membership          *domain.OrganizationMembership
	createMembershipErr error
	createdMemberships  []domain.OrganizationMembership
	members             []domain.OrganizationMembership
	organizer           bool
	invite              domain.OrganizationInvite
	inviteErr           error
	createdInvites      []domain.OrganizationInvite
	incrementCount      int
}

func (m *orgRepositoryMock) Create(_ context.Context, org domain.Organization) (domain.Organization, error) {
	if len(m.createOrgErrs) > 0 {
		err := m.createOrgErrs[0]
		m.createOrgErrs = m.createOrgErrs[1:]
		if err != nil {
			return domain.Organization{}, err
		}
	}
	org.ID = uint(len(m.createdOrgs) + 1)
	m.createdOrgs = append(m.createdOrgs, org)
	return org, nil
}

func (m *orgRepositoryMock) Update(_ context.Context, org domain.Organization) (domain.Organization, error) {
	m.updatedOrgs = append(m.updatedOrgs, org)
	return org, nil
}

func (m *orgRepositoryMock) GetByID(context.Context, uint) (domain.Organization, error) {
	if m.orgErr != nil {
		return domain.Organization{}, m.orgErr
	}
	return m.org, nil
}

func (m *orgRepositoryMock) GetByJoinCode(context.Context, string) (domain.Organization, error) {
	if m.orgErr != nil {
		return domain.Organization{}, m.orgErr
	}
	return m.org, nil
}

func (m *orgRepositoryMock) CreateMembership(_ context.Context, membership domain.OrganizationMembership) (domain.OrganizationMembership, error) {
	if m.createMembershipErr != nil {
		return domain.OrganizationMembership{}, m.createMembershipErr
	}
	membership.ID = uint(len(m.createdMemberships) + 1)
	m.createdMemberships = append(m.createdMemberships, membership)
	return membership, nil
}

func (m *orgRepositoryMock) GetMembership(context.Context, uint, uint) (domain.OrganizationMembership, error) {
	if m.membership == nil {
		return domain.OrganizationMembership{}, repository.ErrMembershipNotFound
	}
	return *m.membership, nil
}

func (m *orgRepositoryMock) ListMembers(context.Context, uint) ([]domain.OrganizationMembership, error) {
	return m.members, nil
}

func (m *orgRepositoryMock) IsOrganizer(context.Context, uint, uint) (bool, error) {
	return m.organizer, nil
}

func (m *orgRepositoryMock) FindActiveInvite(context.Context, uint) (domain.OrganizationInvite, error) {
	if m.inviteErr != nil {
		return domain.OrganizationInvite{}, m.inviteErr
	}
	return m.invite, nil
}

func (m *orgRepositoryMock) GetInviteByToken(context.Context, string) (domain.OrganizationInvite, error) {
	if m.inviteErr != nil {
		return domain.OrganizationInvite{}, m.inviteErr
	}
	return m.invite, nil
}

func (m *orgRepositoryMock) CreateInvite(_ context.Context, invite domain.OrganizationInvite) (domain.OrganizationInvite, error) {
	invite.ID = uint(len(m.createdInvites) + 1)
	m.createdInvites = append(m.createdInvites, invite)
	return invite, nil
}

func (m *orgRepositoryMock) IncrementInviteUse(context.Context, uint) error {
	m.incrementCount++
	return nil
}

type registrarMock struct {
	calls []struct{ orgID, userID uint }
}

func (m *registrarMock) RegisterForMandatoryEvents(_ context.Context, organizationID, userID uint) error {
	m.calls = append(m.calls, struct{ orgID, userID uint }{organizationID, userID})
	return nil
}

type orgDecisionMail struct {
	to      string
	orgName string
	status  string
	notes   string
}

type orgMailerMock struct {
	sent []orgDecisionMail
}

func (m *orgMailerMock) SendOrganizationDecision(to, orgName, status, notes string) {
	m.sent = append(m.sent, orgDecisionMail{to: to, orgName: orgName, status: status, notes: notes})
}

type orgFixture struct {
	svc       *OrganizationService
	repo      *orgRepositoryMock
	userRepo  *userRepoMock
	registrar *registrarMock
	mailer    *orgMailerMock
}

func newOrgFixture() orgFixture {
	f := orgFixture{
		repo: &orgRepositoryMock{},
		userRepo: &userRepoMock{
			user:    domain.User{ID: 3, Email: "founder@example.com", Name: "Founder"},
			profile: domain.UserProfile{UserID: 9, Role: domain.RoleUser},
		},
		registrar: &registrarMock{},
		mailer:    &orgMailerMock{},
	}

	f.svc = NewOrganizationService(f.repo, f.userRepo, f.registrar, f.mailer)
	f.svc.now = func() time.Time { return scanTestNow }

	return f
}

func approvedOrg() domain.Organization {
	return domain.Organization{
		ID:        1,
		Name:      "Robotics Club",
		CreatedBy: 3,
		JoinCode:  "AB12CD34",
		IsActive:  true,
		Status:    domain.OrganizationApproved,
	}
}

func TestOrganizationService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("pending organization with the creator as organizer", func(t *testing.T) {
		f := newOrgFixture()

		org, err := f.svc.Create(ctx, 3, "Robotics Club", "we build robots")
		require.NoError(t, err)

		assert.Equal(t, domain.OrganizationPending, org.Status)
		assert.Len(t, org.JoinCode, 8)
		assert.True(t, org.IsActive)

		require.Len(t, f.repo.createdMemberships, 1)
		assert.Equal(t, uint(3), f.repo.createdMemberships[0].UserID)
		assert.Equal(t, domain.MembershipOrganizer, f.repo.createdMemberships[0].Role)
	})

	t.Run("join code collision retries once", func(t *testing.T) {
		f := newOrgFixture()
		f.repo.createOrgErrs = []error{repository.ErrJoinCodeTaken, nil}

		org, err := f.svc.Create(ctx, 3, "Robotics Club", "")
		require.NoError(t, err)
		assert.Len(t, org.JoinCode, 8)
		require.Len(t, f.repo.createdOrgs, 1)
	})
}

func TestOrganizationService_Review(t *testing.T) {
	ctx := context.Background()

	t.Run("only admins may review", func(t *testing.T) {
		f := newOrgFixture()

		_, err := f.svc.Review(ctx, 9, 1, true, "")
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("approval notifies the creator", func(t *testing.T) {
		f := newOrgFixture()
		f.userRepo.profile.Role = domain.RoleAdmin
		org := approvedOrg()
		org.Status = domain.OrganizationPending
		f.repo.org = org

		updated, err := f.svc.Review(ctx, 9, 1, true, "looks legit")
		require.NoError(t, err)

		assert.Equal(t, domain.OrganizationApproved, updated.Status)
		require.NotNil(t, updated.ReviewedBy)
		assert.Equal(t, uint(9), *updated.ReviewedBy)

		require.Len(t, f.mailer.sent, 1)
		assert.Equal(t, "founder@example.com", f.mailer.sent[0].to)
		assert.Equal(t, "APPROVED", f.mailer.sent[0].status)
	})

	t.Run("a decided organization cannot be re-reviewed", func(t *testing.T) {
		f := newOrgFixture()
		f.userRepo.profile.Role = domain.RoleAdmin
		f.repo.org = approvedOrg()

		_, err := f.svc.Review(ctx, 9, 1, false, "")
		assert.ErrorIs(t, err, ErrOrganizationReviewed)
	})
}

func TestOrganizationService_JoinByCode(t *testing.T) {
	ctx := context.Background()

	t.Run("joins and registers for mandatory events", func(t *testing.T) {
		f := newOrgFixture()
		f.repo.org = approvedOrg()

		m, err := f.svc.JoinByCode(ctx, 42, "AB12CD34")
		require.NoError(t, err)

		assert.Equal(t, domain.MembershipMember, m.Role)
		assert.Equal(t, domain.JoinedViaCode, m.JoinedVia)

		require.Len(t, f.registrar.calls, 1)
		assert.Equal(t, uint(1), f.registrar.calls[0].orgID)
		assert.Equal(t, uint(42), f.registrar.calls[0].userID)
	})

	t.Run("pending organizations cannot be joined", func(t *testing.T) {
		f := newOrgFixture()
		org := approvedOrg()
		org.Status = domain.OrganizationPending
		f.repo.org = org

		_, err := f.svc.JoinByCode(ctx, 42, "AB12CD34")
		assert.ErrorIs(t, err, ErrOrganizationNotApproved)
		assert.Empty(t, f.registrar.calls)
	})

	t.Run("joining twice is rejected", func(t *testing.T) {
		f := newOrgFixture()
		f.repo.org = approvedOrg()
		f.repo.createMembershipErr = repository.ErrMembershipExists

		_, err := f.svc.JoinByCode(ctx, 42, "AB12CD34")
		assert.ErrorIs(t, err, ErrMembershipExists)
	})
}

func TestOrganizationService_JoinByInvite(t *testing.T) {
	ctx := context.Background()

	t.Run("valid invite admits and counts the use", func(t *testing.T) {
		f := newOrgFixture()
		f.repo.org = approvedOrg()
		f.repo.invite = domain.OrganizationInvite{
			ID:             4,
			OrganizationID: 1,
			Token:          "invite-token",
			IsActive:       true,
		}

		m, err := f.svc.JoinByInvite(ctx, 42, "invite-token")
		require.NoError(t, err)

		assert.Equal(t, domain.JoinedViaInvite, m.JoinedVia)
		assert.Equal(t, 1, f.repo.incrementCount)
	})

	t.Run("expired invite is rejected", func(t *testing.T) {
		f := newOrgFixture()
		expired := scanTestNow.Add(-time.Hour)
		f.repo.invite = domain.OrganizationInvite{
			ID:             4,
			OrganizationID: 1,
			IsActive:       true,
			ExpiresAt:      &expired,
		}

		_, err := f.svc.JoinByInvite(ctx, 42, "invite-token")
		assert.ErrorIs(t, err, ErrInviteExpired)
	})

	t.Run("exhausted invite is rejected", func(t *testing.T) {
		f := newOrgFixture()
		maxUses := uint(5)
		f.repo.invite = domain.OrganizationInvite{
			ID:             4,
			OrganizationID: 1,
			IsActive:       true,
			UsedCount:      5,
			MaxUses:        &maxUses,
		}

		_, err := f.svc.JoinByInvite(ctx, 42, "invite-token")
		assert.ErrorIs(t, err, ErrInviteExpired)
	})
}

func TestOrganizationService_CreateInvite(t *testing.T) {
	ctx := context.Background()

	t.Run("organizers issue invites", func(t *testing.T) {
		f := newOrgFixture()
		f.repo.organizer = true

		invite, err := f.svc.CreateInvite(ctx, 3, 1, nil, nil)
		require.NoError(t, err)

		assert.Len(t, invite.Token, 32)
		assert.True(t, invite.IsActive)
		require.NotNil(t, invite.CreatedBy)
		assert.Equal(t, uint(3), *invite.CreatedBy)
	})

	t.Run("members cannot issue invites", func(t *testing.T) {
		f := newOrgFixture()

		_, err := f.svc.CreateInvite(ctx, 42, 1, nil, nil)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestOrganizationService_ListMembers(t *testing.T) {
	ctx := context.Background()

	t.Run("members see the roster", func(t *testing.T) {
		f := newOrgFixture()
		f.repo.membership = &domain.OrganizationMembership{UserID: 9, OrganizationID: 1}
		f.repo.members = []domain.OrganizationMembership{{UserID: 9}, {UserID: 42}}

		members, err := f.svc.ListMembers(ctx, 9, 1)
		require.NoError(t, err)
		assert.Len(t, members, 2)
	})

	t.Run("outsiders are denied", func(t *testing.T) {
		f := newOrgFixture()

		_, err := f.svc.ListMembers(ctx, 9, 1)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("admins bypass membership", func(t *testing.T) {
		f := newOrgFixture()
		f.userRepo.profile.Role = domain.RoleAdmin
		f.repo.members = []domain.OrganizationMembership{{UserID: 42}}

		members, err := f.svc.ListMembers(ctx, 9, 1)
		require.NoError(t, err)
		assert.Len(t, members, 1)
	})
}
