package domain

import "time"

type RegistrationStatus string

const (
	RegistrationPreRegistered RegistrationStatus = "PRE"
	RegistrationConfirmed     RegistrationStatus = "CONFIRMED"
	RegistrationAttended      RegistrationStatus = "ATTENDED"
	RegistrationCancelled     RegistrationStatus = "CANCELLED"
	RegistrationNoShow        RegistrationStatus = "NO_SHOW"
)

type Registration struct {
	ID           uint               `json:"id"`
	EventID      uint               `json:"event_id"`
	UserID       uint               `json:"user_id"`
	Status       RegistrationStatus `json:"status"`
	IsMandatory  bool               `json:"is_mandatory"`
	RegisteredAt time.Time          `json:"registered_at"`
	CheckedInAt  *time.Time         `json:"checked_in_at,omitempty"`
	Notes        string             `json:"notes,omitempty"`
}

func (r *Registration) IsCancelled() bool {
	return r.Status == RegistrationCancelled
}
