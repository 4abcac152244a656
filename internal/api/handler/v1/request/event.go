package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// SlotRequest configures one scan type on an event. Times are "HH:MM".
type SlotRequest struct {
	Enabled bool    `json:"enabled"`
	Start   *string `json:"start,omitempty"`
	End     *string `json:"end,omitempty"`
}

func (req *SlotRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Start, validation.Date("15:04")),
		validation.Field(&req.End, validation.Date("15:04")),
	)
}

type CreateEventRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	OrganizationID *uint  `json:"organization_id,omitempty"`
	EventType      string `json:"event_type"`

	EventDate     *time.Time `json:"event_date,omitempty"`
	StartDatetime *time.Time `json:"start_datetime,omitempty"`
	EndDatetime   *time.Time `json:"end_datetime,omitempty"`

	Venue                string     `json:"venue"`
	Capacity             *uint      `json:"capacity,omitempty"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`
	Points               *int       `json:"points,omitempty"`
	IsPublic             bool       `json:"is_public"`
	Pinned               bool       `json:"pinned"`

	MorningIn    *SlotRequest `json:"morning_in,omitempty"`
	MorningOut   *SlotRequest `json:"morning_out,omitempty"`
	AfternoonIn  *SlotRequest `json:"afternoon_in,omitempty"`
	AfternoonOut *SlotRequest `json:"afternoon_out,omitempty"`

	AttendanceWindowStart *time.Time `json:"attendance_window_start,omitempty"`
	AttendanceWindowEnd   *time.Time `json:"attendance_window_end,omitempty"`
}

func (req *CreateEventRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 200)),
		validation.Field(&req.EventType, validation.Required, validation.In("MANDATORY", "OPTIONAL")),
		validation.Field(&req.Points, validation.Min(0)),
	)
	if err != nil {
		return err
	}

	for _, slot := range []*SlotRequest{req.MorningIn, req.MorningOut, req.AfternoonIn, req.AfternoonOut} {
		if slot == nil {
			continue
		}
		if err := slot.Validate(); err != nil {
			return err
		}
	}

	return nil
}
