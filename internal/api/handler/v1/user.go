package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-pulse/pulse-api/internal/api/handler/v1/response"
	"github.com/campus-pulse/pulse-api/internal/domain"
	"github.com/campus-pulse/pulse-api/internal/service"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	GetProfile(ctx context.Context, userID uint) (domain.UserProfile, error)
	GetQRCode(ctx context.Context, userID uint) (domain.QRCode, error)
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleGetMe godoc
// @Summary      Get the authenticated user with their profile
// @Tags         users
// @Produce      json
// @Success      200  {object}  response.SignupResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/me [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetMe(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetMe -> h.svc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	profile, err := h.svc.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetMe -> h.svc.GetProfile -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.SignupResponse{
		User:    user,
		Profile: profile,
	})
}

// HandleGetUser godoc
// @Summary      Get a user by ID
// @Tags         users
// @Produce      json
// @Param        userID  path      int  true  "user ID"
// @Success      200     {object}  domain.User
// @Failure      400     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /users/{userID} [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	userID, respErr := parseIDParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
			return
		}

		err = fmt.Errorf("v1.HandleGetUser -> h.svc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleGetMyQRCode godoc
// @Summary      Get the authenticated user's attendance QR code
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.QRCode
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/me/qrcode [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetMyQRCode(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	qr, err := h.svc.GetQRCode(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetMyQRCode -> h.svc.GetQRCode -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, qr)
}
