package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/autoemporium/showroom-assistant/internal/agent/model"
	"github.com/autoemporium/showroom-assistant/internal/config"
	errx "github.com/autoemporium/showroom-assistant/internal/core/error"
	logx "github.com/autoemporium/showroom-assistant/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// TurnProcessor is what the HTTP surface needs from the turn runner.
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, threadID, userID, message string) (model.TurnOutput, error)
	GetJourney(ctx context.Context, threadID string) (model.Journey, error)
	DeleteAllSessions(ctx context.Context) bool
}

type Server struct {
	app      *fiber.App
	cfg      config.HTTPConfig
	runner   TurnProcessor
	validate *validator.Validate
}

func New(cfg config.HTTPConfig, runner TurnProcessor) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "showroom-assistant",
		BodyLimit:             1 * 1024 * 1024, // 1MB
		ReadTimeout:           2 * time.Minute,
		WriteTimeout:          2 * time.Minute,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	s := &Server{
		app:      app,
		cfg:      cfg,
		runner:   runner,
		validate: validator.New(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) registerRoutes() {
	s.app.Get("/", s.Health)
	s.app.Post("/chat", s.Chat)
	s.app.Get("/journey/:session_id", s.Journey)
	s.app.Delete("/sessions/all", s.DeleteAllSessions)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logx.Info().Int("port", s.cfg.Port).Msg("http server listening")
		errCh <- s.app.Listen(fmt.Sprintf(":%d", s.cfg.Port))
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logx.Info().Msg("http server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.app.ShutdownWithContext(shutdownCtx)
	}
}

// errorHandler renders every error as {"error": ...}. Server-side failures
// never leak their cause to the customer.
func errorHandler(c *fiber.Ctx, err error) error {
	status := errx.StatusOf(err)
	msg := errx.SystemErrorMessage

	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		msg = fe.Message
	} else if status < http.StatusInternalServerError {
		msg = err.Error()
	}

	if status >= http.StatusInternalServerError {
		logx.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Int("status", status).Msg("request failed")
	} else {
		logx.Debug().Err(err).Str("method", c.Method()).Str("path", c.Path()).Int("status", status).Msg("request rejected")
	}
	return c.Status(status).JSON(ErrorResponse{Error: msg})
}
