package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"dafoerum/internal/http/middleware"
	"dafoerum/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// serviceError translates an error returned by the services into a response.
// Not-found errors keep their message, anything unknown becomes a 500.
func serviceError(c *fiber.Ctx, err error) error {
	var nf *service.NotFoundError
	switch {
	case errors.As(err, &nf):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", nf.Error())
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrEmptyContent):
		return writeError(c, fiber.StatusBadRequest, "EMPTY_CONTENT", "post content cannot be empty")
	case errors.Is(err, service.ErrEmptySubject):
		return writeError(c, fiber.StatusBadRequest, "EMPTY_SUBJECT", "subject cannot be empty")
	case errors.Is(err, service.ErrEmptyName):
		return writeError(c, fiber.StatusBadRequest, "EMPTY_NAME", "name cannot be empty")
	case errors.Is(err, service.ErrContentTooLong):
		return writeError(c, fiber.StatusBadRequest, "CONTENT_TOO_LONG", "post content is too long")
	case errors.Is(err, service.ErrSubjectTooLong):
		return writeError(c, fiber.StatusBadRequest, "SUBJECT_TOO_LONG", "subject is too long")
	case errors.Is(err, service.ErrAttachmentsDisabled):
		return writeError(c, fiber.StatusServiceUnavailable, "ATTACHMENTS_DISABLED", "attachments are not enabled")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		case fiber.StatusTooManyRequests:
			return writeError(c, status, "RATE_LIMITED", "too many requests, slow down")
		case fiber.StatusServiceUnavailable:
			return writeError(c, status, "SERVICE_UNAVAILABLE", "service unavailable")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
