package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-pulse/pulse-api/internal/api/handler/v1/request"
	"github.com/campus-pulse/pulse-api/internal/api/handler/v1/response"
	"github.com/campus-pulse/pulse-api/internal/domain"
	"github.com/campus-pulse/pulse-api/internal/service"
)

type OrganizationService interface {
	Create(ctx context.Context, creatorID uint, name, description string) (domain.Organization, error)
	Review(ctx context.Context, reviewerID, orgID uint, approve bool, notes string) (domain.Organization, error)
	JoinByCode(ctx context.Context, userID uint, code string) (domain.OrganizationMembership, error)
	JoinByInvite(ctx context.Context, userID uint, token string) (domain.OrganizationMembership, error)
	CreateInvite(ctx context.Context, creatorID, orgID uint, expiresAt *time.Time, maxUses *uint) (domain.OrganizationInvite, error)
	GetOrganization(ctx context.Context, id uint) (domain.Organization, error)
	ListMembers(ctx context.Context, callerID, orgID uint) ([]domain.OrganizationMembership, error)
}

type OrganizationEventService interface {
	ListOrganizationEvents(ctx context.Context, organizationID uint) ([]domain.Event, error)
}

type OrganizationHandler struct {
	svc    OrganizationService
	evtSvc OrganizationEventService
}

func NewOrganizationHandler(svc OrganizationService, evtSvc OrganizationEventService) *OrganizationHandler {
	return &OrganizationHandler{
		svc:    svc,
		evtSvc: evtSvc,
	}
}

// HandleCreateOrganization godoc
// @Summary      Create an organization (pending admin approval)
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateOrganizationRequest  true  "organization details"
// @Success      201      {object}  domain.Organization
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /organizations [post]
// @Security     BearerAuth
func (h *OrganizationHandler) HandleCreateOrganization(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	req := request.CreateOrganizationRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	org, err := h.svc.Create(ctx.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateOrganization -> h.svc.Create -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, org)
}

// HandleReviewOrganization godoc
// @Summary      Approve or reject a pending organization (admin only)
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        orgID    path      int                                true  "organization ID"
// @Param        request  body      request.ReviewOrganizationRequest  true  "decision"
// @Success      200      {object}  domain.Organization
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /organizations/{orgID}/review [post]
// @Security     BearerAuth
func (h *OrganizationHandler) HandleReviewOrganization(ctx *gin.Context) {
	reviewerID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	orgID, respErr := parseIDParam(ctx, "orgID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	req := request.ReviewOrganizationRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	approve := req.Decision == string(domain.OrganizationApproved)
	org, err := h.svc.Review(ctx.Request.Context(), reviewerID, orgID, approve, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrganizationNotFound):
			response.RenderErr(ctx, response.ErrNotFound("organization", "ID", orgID))
		case errors.Is(err, service.ErrPermissionDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrOrganizationReviewed):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleReviewOrganization -> h.svc.Review -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, org)
}

// HandleJoinByCode godoc
// @Summary      Join an organization with its join code
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        request  body      request.JoinOrganizationRequest  true  "join code"
// @Success      201      {object}  domain.OrganizationMembership
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /organizations/join [post]
// @Security     BearerAuth
func (h *OrganizationHandler) HandleJoinByCode(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	req := request.JoinOrganizationRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	m, err := h.svc.JoinByCode(ctx.Request.Context(), userID, req.Code)
	if err != nil {
		h.renderJoinErr(ctx, err, req.Code)
		return
	}

	ctx.JSON(http.StatusCreated, m)
}

// HandleJoinByInvite godoc
// @Summary      Join an organization through an invite link
// @Tags         organizations
// @Produce      json
// @Param        token  path      string  true  "invite token"
// @Success      201    {object}  domain.OrganizationMembership
// @Failure      400    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /organizations/invites/{token} [post]
// @Security     BearerAuth
func (h *OrganizationHandler) HandleJoinByInvite(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	token := ctx.Param("token")
	if token == "" {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("missing invite token")))
		return
	}

	m, err := h.svc.JoinByInvite(ctx.Request.Context(), userID, token)
	if err != nil {
		h.renderJoinErr(ctx, err, token)
		return
	}

	ctx.JSON(http.StatusCreated, m)
}

func (h *OrganizationHandler) renderJoinErr(ctx *gin.Context, err error, key string) {
	switch {
	case errors.Is(err, service.ErrOrganizationNotFound), errors.Is(err, service.ErrInviteNotFound):
		response.RenderErr(ctx, response.ErrNotFound("organization", "code", key))
	case errors.Is(err, service.ErrMembershipExists):
		response.RenderErr(ctx, response.ErrConflict(err))
	case errors.Is(err, service.ErrOrganizationNotApproved), errors.Is(err, service.ErrInviteExpired):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	default:
		err = fmt.Errorf("v1.renderJoinErr -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

// HandleCreateInvite godoc
// @Summary      Create a shareable invite link (organizers only)
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        orgID    path      int                          true  "organization ID"
// @Param        request  body      request.CreateInviteRequest  true  "invite options"
// @Success      201      {object}  domain.OrganizationInvite
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /organizations/{orgID}/invites [post]
// @Security     BearerAuth
func (h *OrganizationHandler) HandleCreateInvite(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	orgID, respErr := parseIDParam(ctx, "orgID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	req := request.CreateInviteRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	invite, err := h.svc.CreateInvite(ctx.Request.Context(), userID, orgID, req.ExpiresAt, req.MaxUses)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateInvite -> h.svc.CreateInvite -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, invite)
}

// HandleGetOrganization godoc
// @Summary      Get an organization by ID
// @Tags         organizations
// @Produce      json
// @Param        orgID  path      int  true  "organization ID"
// @Success      200    {object}  domain.Organization
// @Failure      404    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /organizations/{orgID} [get]
// @Security     BearerAuth
func (h *OrganizationHandler) HandleGetOrganization(ctx *gin.Context) {
	orgID, respErr := parseIDParam(ctx, "orgID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	org, err := h.svc.GetOrganization(ctx.Request.Context(), orgID)
	if err != nil {
		if errors.Is(err, service.ErrOrganizationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("organization", "ID", orgID))
			return
		}

		err = fmt.Errorf("v1.HandleGetOrganization -> h.svc.GetOrganization -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, org)
}

// HandleListMembers godoc
// @Summary      List an organization's members
// @Tags         organizations
// @Produce      json
// @Param        orgID  path      int  true  "organization ID"
// @Success      200    {array}   domain.OrganizationMembership
// @Failure      403    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /organizations/{orgID}/members [get]
// @Security     BearerAuth
func (h *OrganizationHandler) HandleListMembers(ctx *gin.Context) {
	callerID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	orgID, respErr := parseIDParam(ctx, "orgID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	members, err := h.svc.ListMembers(ctx.Request.Context(), callerID, orgID)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}

		err = fmt.Errorf("v1.HandleListMembers -> h.svc.ListMembers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, members)
}

// HandleListOrganizationEvents godoc
// @Summary      List an organization's events
// @Tags         organizations
// @Produce      json
// @Param        orgID  path      int  true  "organization ID"
// @Success      200    {array}   domain.Event
// @Failure      500    {object}  response.Err
// @Router       /organizations/{orgID}/events [get]
// @Security     BearerAuth
func (h *OrganizationHandler) HandleListOrganizationEvents(ctx *gin.Context) {
	orgID, respErr := parseIDParam(ctx, "orgID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	events, err := h.evtSvc.ListOrganizationEvents(ctx.Request.Context(), orgID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListOrganizationEvents -> h.evtSvc.ListOrganizationEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, events)
}
