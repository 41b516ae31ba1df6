package dto

import (
	"time"

	"github.com/ikram98ai/docgram/internal/model"
)

type BasicResponse struct {
	Ok        bool      `json:"ok"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBasicResponse(ok bool, details string) BasicResponse {
	return BasicResponse{
		Ok:        ok,
		Details:   details,
		Timestamp: time.Now(),
	}
}

type AuthResponse struct {
	AccessToken string     `json:"access_token"`
	User        model.User `json:"user"`
}
