package response

import "github.com/campus-pulse/pulse-api/internal/domain"

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type SignupResponse struct {
	User    domain.User        `json:"user"`
	Profile domain.UserProfile `json:"profile"`
}
