package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type ScanRequest struct {
	Token    string `json:"token"`
	ScanType string `json:"scan_type"`
	Notes    string `json:"notes,omitempty"`
}

func (req *ScanRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Token, validation.Required),
		validation.Field(&req.ScanType, validation.Required,
			validation.In("MORNING_IN", "MORNING_OUT", "AFTERNOON_IN", "AFTERNOON_OUT")),
	)
}
