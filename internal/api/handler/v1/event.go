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

type EventService interface {
	CreateEvent(ctx context.Context, creatorID uint, event domain.Event) (domain.Event, error)
	UpdateEvent(ctx context.Context, editorID uint, event domain.Event) (domain.Event, error)
	GetEvent(ctx context.Context, id uint) (domain.Event, error)
	ListPublicEvents(ctx context.Context) ([]domain.Event, error)
	ListOrganizationEvents(ctx context.Context, organizationID uint) ([]domain.Event, error)
	Register(ctx context.Context, eventID, userID uint) (domain.Registration, error)
	CancelRegistration(ctx context.Context, eventID, userID uint) error
	ListMyRegistrations(ctx context.Context, userID uint) ([]domain.Registration, error)
}

type EventHandler struct {
	svc EventService
}

func NewEventHandler(svc EventService) *EventHandler {
	return &EventHandler{
		svc: svc,
	}
}

func slotFromRequest(req *request.SlotRequest) (domain.SlotConfig, error) {
	if req == nil {
		return domain.SlotConfig{}, nil
	}

	slot := domain.SlotConfig{Enabled: req.Enabled}
	if req.Start != nil {
		start, err := domain.ParseTimeOfDay(*req.Start)
		if err != nil {
			return domain.SlotConfig{}, err
		}
		slot.Start = &start
	}
	if req.End != nil {
		end, err := domain.ParseTimeOfDay(*req.End)
		if err != nil {
			return domain.SlotConfig{}, err
		}
		slot.End = &end
	}

	return slot, nil
}

func eventFromRequest(req *request.CreateEventRequest) (domain.Event, error) {
	event := domain.Event{
		Title:                 req.Title,
		Description:           req.Description,
		OrganizationID:        req.OrganizationID,
		Type:                  domain.EventType(req.EventType),
		EventDate:             req.EventDate,
		StartDatetime:         req.StartDatetime,
		EndDatetime:           req.EndDatetime,
		Venue:                 req.Venue,
		Capacity:              req.Capacity,
		RegistrationDeadline:  req.RegistrationDeadline,
		Points:                req.Points,
		IsPublic:              req.IsPublic,
		Pinned:                req.Pinned,
		AttendanceWindowStart: req.AttendanceWindowStart,
		AttendanceWindowEnd:   req.AttendanceWindowEnd,
	}

	var err error
	if event.MorningIn, err = slotFromRequest(req.MorningIn); err != nil {
		return domain.Event{}, err
	}
	if event.MorningOut, err = slotFromRequest(req.MorningOut); err != nil {
		return domain.Event{}, err
	}
	if event.AfternoonIn, err = slotFromRequest(req.AfternoonIn); err != nil {
		return domain.Event{}, err
	}
	if event.AfternoonOut, err = slotFromRequest(req.AfternoonOut); err != nil {
		return domain.Event{}, err
	}

	// Morning check-in defaults on when the request doesn't configure slots.
	if req.MorningIn == nil && req.MorningOut == nil && req.AfternoonIn == nil && req.AfternoonOut == nil {
		event.MorningIn.Enabled = true
	}

	return event, nil
}

// HandleCreateEvent godoc
// @Summary      Create a new event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateEventRequest  true  "event details"
// @Success      201      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events [post]
// @Security     BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	req := request.CreateEventRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := eventFromRequest(&req)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.CreateEvent(ctx.Request.Context(), userID, event)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateEvent -> h.svc.CreateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleUpdateEvent godoc
// @Summary      Update an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                         true  "event ID"
// @Param        request  body      request.CreateEventRequest  true  "event details"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [put]
// @Security     BearerAuth
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
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

	req := request.CreateEventRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := eventFromRequest(&req)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	event.ID = eventID

	updated, err := h.svc.UpdateEvent(ctx.Request.Context(), userID, event)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrPermissionDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleUpdateEvent -> h.svc.UpdateEvent -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleGetEvent godoc
// @Summary      Get an event by ID
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "event ID"
// @Success      200      {object}  domain.Event
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [get]
// @Security     BearerAuth
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	event, err := h.svc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleGetEvent -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleListEvents godoc
// @Summary      List public events
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.Event
// @Failure      500  {object}  response.Err
// @Router       /events [get]
// @Security     BearerAuth
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	events, err := h.svc.ListPublicEvents(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListEvents -> h.svc.ListPublicEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleRegister godoc
// @Summary      Register for an event
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "event ID"
// @Success      201      {object}  domain.Registration
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/register [post]
// @Security     BearerAuth
func (h *EventHandler) HandleRegister(ctx *gin.Context) {
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

	reg, err := h.svc.Register(ctx.Request.Context(), eventID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrAlreadyRegistered):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrEventFull), errors.Is(err, service.ErrRegistrationClosed):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleRegister -> h.svc.Register -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, reg)
}

// HandleCancelRegistration godoc
// @Summary      Cancel a registration
// @Tags         events
// @Produce      json
// @Param        eventID  path  int  true  "event ID"
// @Success      204
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/register [delete]
// @Security     BearerAuth
func (h *EventHandler) HandleCancelRegistration(ctx *gin.Context) {
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

	if err := h.svc.CancelRegistration(ctx.Request.Context(), eventID, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrRegistrationNotFound):
			response.RenderErr(ctx, response.ErrNotFound("registration", "eventID", eventID))
		case errors.Is(err, service.ErrRegistrationIsRequired):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleCancelRegistration -> h.svc.CancelRegistration -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleListMyRegistrations godoc
// @Summary      List the authenticated user's registrations
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.Registration
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /registrations [get]
// @Security     BearerAuth
func (h *EventHandler) HandleListMyRegistrations(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	regs, err := h.svc.ListMyRegistrations(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListMyRegistrations -> h.svc.ListMyRegistrations -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, regs)
}
