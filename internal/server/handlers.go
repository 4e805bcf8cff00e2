package server

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	errx "github.com/autoemporium/showroom-assistant/internal/core/error"
)

func (s *Server) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: "ok", Message: "showroom assistant is running"})
}

func (s *Server) Chat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("request body must be a JSON object")
	}
	req.Message = strings.TrimSpace(req.Message)
	req.UserID = strings.TrimSpace(req.UserID)
	req.SessionID = strings.TrimSpace(req.SessionID)
	if err := s.validateRequest(req); err != nil {
		return err
	}
	if req.SessionID == "" {
		req.SessionID = NewSessionID()
	}

	out, err := s.runner.ProcessTurn(c.UserContext(), req.SessionID, req.UserID, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(ChatResponse{
		Response:  out.ResponseText,
		SessionID: req.SessionID,
		State:     out.Journey,
	})
}

func (s *Server) Journey(c *fiber.Ctx) error {
	req := JourneyRequest{
		SessionID: strings.TrimSpace(c.Params("session_id")),
		UserID:    strings.TrimSpace(c.Query("user_id")),
	}
	if err := s.validateRequest(req); err != nil {
		return err
	}

	journey, err := s.runner.GetJourney(c.UserContext(), req.SessionID)
	if err != nil {
		return err
	}
	return c.JSON(JourneyResponse{State: journey})
}

// DeleteAllSessions reports a failed sweep in the body; the status stays 200.
func (s *Server) DeleteAllSessions(c *fiber.Ctx) error {
	if !s.runner.DeleteAllSessions(c.UserContext()) {
		return c.JSON(DeleteSessionsResponse{
			Success: false,
			Message: "failed to delete all sessions",
		})
	}
	return c.JSON(DeleteSessionsResponse{Success: true, Message: "all sessions deleted"})
}

// NewSessionID returns "session_" followed by 16 random hex characters.
func NewSessionID() string {
	return "session_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

// validateRequest turns validator failures into one 400 naming the fields.
func (s *Server) validateRequest(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errx.Validation(err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			msgs = append(msgs, fmt.Sprintf("%s is required", jsonName(fe.Field())))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", jsonName(fe.Field()), fe.Tag(), fe.Param()))
	}
	return errx.Validation(strings.Join(msgs, "; "))
}

func jsonName(field string) string {
	switch field {
	case "UserID":
		return "user_id"
	case "SessionID":
		return "session_id"
	default:
		return strings.ToLower(field)
	}
}
