package server

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// apiError is rendered as {"error": {"code": ..., "message": ...}}.
type apiError struct {
	Status  int
	Code    string
	Message string
}

func (e *apiError) Error() string {
	return e.Message
}

func validationError(message string) error {
	return &apiError{Status: http.StatusBadRequest, Code: "VALIDATION_FAILED", Message: message}
}

func notFound(message string) error {
	return &apiError{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: message}
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var apiErr *apiError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &fiberErr):
		apiErr = &apiError{Status: fiberErr.Code, Code: http.StatusText(fiberErr.Code), Message: fiberErr.Message}
	default:
		apiErr = &apiError{Status: http.StatusInternalServerError, Code: "INTERNAL", Message: "internal error"}
	}

	if apiErr.Status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", c.Method(), "path", c.Path(), "err", err)
	}
	return c.Status(apiErr.Status).JSON(fiber.Map{"error": fiber.Map{
		"code":    apiErr.Code,
		"message": apiErr.Message,
	}})
}
