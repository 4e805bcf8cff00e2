package server

import "github.com/autoemporium/showroom-assistant/internal/agent/model"

type ChatRequest struct {
	Message   string `json:"message" validate:"required,max=4000"`
	SessionID string `json:"session_id" validate:"omitempty,max=128"`
	UserID    string `json:"user_id" validate:"required,max=128"`
}

type ChatResponse struct {
	Response  string        `json:"response"`
	SessionID string        `json:"session_id"`
	State     model.Journey `json:"state"`
}

type JourneyRequest struct {
	SessionID string `params:"session_id" validate:"required,max=128"`
	UserID    string `query:"user_id" validate:"required,max=128"`
}

type JourneyResponse struct {
	State model.Journey `json:"state"`
}

type DeleteSessionsResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
