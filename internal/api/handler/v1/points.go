package v1

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campus-pulse/pulse-api/internal/api/handler/v1/response"
	"github.com/campus-pulse/pulse-api/internal/domain"
)

type PointsService interface {
	History(ctx context.Context, userID uint) ([]domain.PointsTransaction, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

type PointsHandler struct {
	svc PointsService
}

func NewPointsHandler(svc PointsService) *PointsHandler {
	return &PointsHandler{
		svc: svc,
	}
}

// HandleGetMyHistory godoc
// @Summary      Get the authenticated user's points ledger
// @Tags         points
// @Produce      json
// @Success      200  {array}   domain.PointsTransaction
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /points/history [get]
// @Security     BearerAuth
func (h *PointsHandler) HandleGetMyHistory(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	txns, err := h.svc.History(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetMyHistory -> h.svc.History -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, txns)
}

// HandleGetLeaderboard godoc
// @Summary      Get the points leaderboard
// @Tags         points
// @Produce      json
// @Param        limit  query     int  false  "max entries, default 50"
// @Success      200    {array}   domain.LeaderboardEntry
// @Failure      401    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /points/leaderboard [get]
// @Security     BearerAuth
func (h *PointsHandler) HandleGetLeaderboard(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "0"))

	entries, err := h.svc.Leaderboard(ctx.Request.Context(), limit)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetLeaderboard -> h.svc.Leaderboard -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, entries)
}
