// Package server exposes the copilot over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/poiesic/triage/classify"
	"github.com/poiesic/triage/core"
)

// DefaultRequestTimeout bounds the work done for one request.
const DefaultRequestTimeout = time.Minute

// ErrServiceRequired is returned when no copilot service is provided.
var ErrServiceRequired = errors.New("copilot service required")

// Service is the copilot surface the API serves.
type Service interface {
	Classify(ctx context.Context, text string) core.Classification
	ClassifyAll(ctx context.Context, tickets []core.Ticket) ([]classify.Result, error)
	Answer(ctx context.Context, query string) core.Answer
	Ingest(ctx context.Context, docs ...core.Document) error
}

// Server is the HTTP API.
type Server struct {
	app     *fiber.App
	service Service
	tickets []core.Ticket
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithTickets sets the tickets served by /tickets.
func WithTickets(tickets []core.Ticket) Option {
	return func(s *Server) error {
		s.tickets = tickets
		return nil
	}
}

// WithRequestTimeout bounds each request. Zero disables the bound.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(s *Server) error {
		s.timeout = timeout
		return nil
	}
}

// New creates a Server with its routes registered.
func New(service Service, opts ...Option) (*Server, error) {
	if service == nil {
		return nil, ErrServiceRequired
	}

	s := &Server{
		service: service,
		timeout: DefaultRequestTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "server")

	s.app = fiber.New(fiber.Config{
		AppName:               "triage",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(recover.New())
	if s.timeout > 0 {
		s.app.Use(requestTimeout(s.timeout))
	}
	s.app.Use(s.requestLogger)
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.app.Get("/health", s.health)
	s.app.Get("/tickets", s.listTickets)
	s.app.Get("/tickets/:id", s.getTicket)
	s.app.Post("/classify", s.classify)
	s.app.Post("/answer", s.answer)
	s.app.Post("/documents", s.addDocuments)
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves on addr until ctx is canceled, then shuts down.
func (s *Server) Run(ctx context.Context, addr string) error {
	errc := make(chan error, 1)
	go func() {
		errc <- s.app.Listen(addr)
	}()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.app.ShutdownWithContext(shutdownCtx)
	}
}

func requestTimeout(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Debug("request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start))
	return err
}
