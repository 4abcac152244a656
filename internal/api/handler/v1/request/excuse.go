package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type SubmitExcuseRequest struct {
	EventID   uint   `json:"event_id"`
	Scope     string `json:"scope"`
	Reason    string `json:"reason"`
	ProofLink string `json:"proof_link,omitempty"`
}

func (req *SubmitExcuseRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required),
		validation.Field(&req.Scope, validation.Required,
			validation.In("ALL", "MORNING_IN", "MORNING_OUT", "AFTERNOON_IN", "AFTERNOON_OUT")),
		validation.Field(&req.Reason, validation.Required, validation.Length(10, 2000)),
		validation.Field(&req.ProofLink, is.URL),
	)
}

type ReviewExcuseRequest struct {
	Decision string `json:"decision"`
	Notes    string `json:"notes,omitempty"`
}

func (req *ReviewExcuseRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Decision, validation.Required, validation.In("APPROVED", "REJECTED")),
	)
}
