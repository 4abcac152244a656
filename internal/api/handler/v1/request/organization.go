package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateOrganizationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (req *CreateOrganizationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 200)),
	)
}

type JoinOrganizationRequest struct {
	Code string `json:"code"`
}

func (req *JoinOrganizationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Code, validation.Required, validation.Length(4, 20)),
	)
}

type ReviewOrganizationRequest struct {
	Decision string `json:"decision"`
	Notes    string `json:"notes,omitempty"`
}

func (req *ReviewOrganizationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Decision, validation.Required, validation.In("APPROVED", "REJECTED")),
	)
}

type CreateInviteRequest struct {
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	MaxUses   *uint      `json:"max_uses,omitempty"`
}

func (req *CreateInviteRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.MaxUses, validation.Min(uint(1))),
	)
}
