package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-pulse/pulse-api/internal/api/handler/v1/request"
	"github.com/campus-pulse/pulse-api/internal/api/handler/v1/response"
	"github.com/campus-pulse/pulse-api/internal/domain"
	"github.com/campus-pulse/pulse-api/internal/service"
)

type ExcuseService interface {
	Submit(ctx context.Context, userID, eventID uint, scope domain.ExcuseScope, reason, proofLink string) (domain.Excuse, error)
	Review(ctx context.Context, reviewerID, excuseID uint, approve bool, notes string) (domain.Excuse, error)
	ListPending(ctx context.Context, callerID uint) ([]domain.Excuse, error)
	ListMyExcuses(ctx context.Context, eventID, userID uint) ([]domain.Excuse, error)
}

type ExcuseHandler struct {
	svc ExcuseService
}

func NewExcuseHandler(svc ExcuseService) *ExcuseHandler {
	return &ExcuseHandler{
		svc: svc,
	}
}

// HandleSubmitExcuse godoc
// @Summary      Submit an excuse for a mandatory event
// @Tags         excuses
// @Accept       json
// @Produce      json
// @Param        request  body      request.SubmitExcuseRequest  true  "excuse details"
// @Success      201      {object}  domain.Excuse
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /excuses [post]
// @Security     BearerAuth
func (h *ExcuseHandler) HandleSubmitExcuse(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	req := request.SubmitExcuseRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	excuse, err := h.svc.Submit(ctx.Request.Context(), userID, req.EventID, domain.ExcuseScope(req.Scope), req.Reason, req.ProofLink)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", req.EventID))
		case errors.Is(err, service.ErrExcuseExists):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrNotMandatoryEvent),
			errors.Is(err, service.ErrInvalidExcuseScope),
			errors.Is(err, service.ErrNotRegistered):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleSubmitExcuse -> h.svc.Submit -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, excuse)
}

// HandleReviewExcuse godoc
// @Summary      Approve or reject a pending excuse
// @Description  Approval creates attendance records for every covered scan
// @Description  type the student hasn't scanned and credits the matching
// @Description  points. A reviewed excuse can never be re-reviewed.
// @Tags         excuses
// @Accept       json
// @Produce      json
// @Param        excuseID  path      int                          true  "excuse ID"
// @Param        request   body      request.ReviewExcuseRequest  true  "decision"
// @Success      200       {object}  domain.Excuse
// @Failure      400       {object}  response.Err
// @Failure      403       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      409       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /excuses/{excuseID}/review [post]
// @Security     BearerAuth
func (h *ExcuseHandler) HandleReviewExcuse(ctx *gin.Context) {
	reviewerID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	excuseID, respErr := parseIDParam(ctx, "excuseID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	req := request.ReviewExcuseRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	approve := req.Decision == string(domain.ExcuseApproved)
	excuse, err := h.svc.Review(ctx.Request.Context(), reviewerID, excuseID, approve, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExcuseNotFound):
			response.RenderErr(ctx, response.ErrNotFound("excuse", "ID", excuseID))
		case errors.Is(err, service.ErrPermissionDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrExcuseAlreadyReviewed):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleReviewExcuse -> h.svc.Review -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, excuse)
}

// HandleListPendingExcuses godoc
// @Summary      List every pending excuse
// @Tags         excuses
// @Produce      json
// @Success      200  {array}   domain.Excuse
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /excuses/pending [get]
// @Security     BearerAuth
func (h *ExcuseHandler) HandleListPendingExcuses(ctx *gin.Context) {
	callerID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	excuses, err := h.svc.ListPending(ctx.Request.Context(), callerID)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}

		err = fmt.Errorf("v1.HandleListPendingExcuses -> h.svc.ListPending -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, excuses)
}

// HandleListMyExcuses godoc
// @Summary      List the authenticated user's active excuses for an event
// @Tags         excuses
// @Produce      json
// @Param        eventID  path      int  true  "event ID"
// @Success      200      {array}   domain.Excuse
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/excuses/me [get]
// @Security     BearerAuth
func (h *ExcuseHandler) HandleListMyExcuses(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	excuses, err := h.svc.ListMyExcuses(ctx.Request.Context(), eventID, userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListMyExcuses -> h.svc.ListMyExcuses -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, excuses)
}
