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

type AttendanceService interface {
	RecordScan(ctx context.Context, scannerID uint, token string, eventID uint, scanType domain.ScanType, notes string) (service.ScanResult, error)
	Status(ctx context.Context, eventID, userID uint) (service.AttendanceStatus, error)
	ListEventAttendance(ctx context.Context, callerID, eventID uint) ([]domain.AttendanceRecord, error)
}

type AttendanceHandler struct {
	svc AttendanceService
}

func NewAttendanceHandler(svc AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		svc: svc,
	}
}

// HandleScan godoc
// @Summary      Record an attendance scan
// @Description  Scans a student's QR code for one of the event's enabled scan
// @Description  types. Each (event, student, scan type) pair is recorded at
// @Description  most once; points are credited per successful scan.
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                  true  "event ID"
// @Param        request  body      request.ScanRequest  true  "scan details"
// @Success      201      {object}  response.ScanResponse
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/scan [post]
// @Security     BearerAuth
func (h *AttendanceHandler) HandleScan(ctx *gin.Context) {
	scannerID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	req := request.ScanRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.RecordScan(ctx.Request.Context(), scannerID, req.Token, eventID, domain.ScanType(req.ScanType), req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrQRCodeNotFound):
			response.RenderErr(ctx, response.ErrNotFound("qr code", "token", req.Token))
		case errors.Is(err, service.ErrPermissionDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrDuplicateScan):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrInvalidScanType),
			errors.Is(err, service.ErrScanTypeDisabled),
			errors.Is(err, service.ErrScanWindowClosed),
			errors.Is(err, service.ErrNotRegistered):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleScan -> h.svc.RecordScan -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, response.ScanResponse{
		Message:       fmt.Sprintf("%s recorded for %s", result.Record.ScanType.Label(), result.Student.Name),
		Record:        result.Record,
		StudentID:     result.Student.ID,
		StudentName:   result.Student.Name,
		PointsAwarded: result.PointsAwarded,
		FullyAttended: result.FullyAttended,
	})
}

// HandleGetMyStatus godoc
// @Summary      Get the authenticated user's attendance status for an event
// @Tags         attendance
// @Produce      json
// @Param        eventID  path      int  true  "event ID"
// @Success      200      {object}  service.AttendanceStatus
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/attendance/me [get]
// @Security     BearerAuth
func (h *AttendanceHandler) HandleGetMyStatus(ctx *gin.Context) {
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

	status, err := h.svc.Status(ctx.Request.Context(), eventID, userID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleGetMyStatus -> h.svc.Status -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, status)
}

// HandleListEventAttendance godoc
// @Summary      List every scan recorded for an event
// @Tags         attendance
// @Produce      json
// @Param        eventID  path      int  true  "event ID"
// @Success      200      {array}   domain.AttendanceRecord
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/attendance [get]
// @Security     BearerAuth
func (h *AttendanceHandler) HandleListEventAttendance(ctx *gin.Context) {
	callerID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	records, err := h.svc.ListEventAttendance(ctx.Request.Context(), callerID, eventID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrPermissionDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleListEventAttendance -> h.svc.ListEventAttendance -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, records)
}
