package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"creatorhome/internal/content"
	"creatorhome/internal/github"
	"creatorhome/internal/http/middleware"
	"creatorhome/internal/icon"
	"creatorhome/internal/manifest"
	"creatorhome/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string               `json:"code"`
	Message string               `json:"message"`
	Fields  []content.FieldError `json:"fields,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "CONFLICT", "TOKEN_REQUIRED")
// - message: human-readable safe message
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

// respondError maps a service error onto the error envelope. The messages of known
// errors are the same status lines the activity log shows; anything unexpected is
// reported generically.
func respondError(c *fiber.Ctx, err error) error {
	var verr *content.ValidationError
	var apiErr *github.APIError

	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(errorPayload{
			RequestID: requestIDFromCtx(c),
			Error:     errorEnvelope{Code: "INVALID_CONTENT", Message: verr.Error(), Fields: verr.Fields},
		})
	case errors.Is(err, service.ErrTokenRequired):
		return writeError(c, fiber.StatusUnauthorized, "TOKEN_REQUIRED", "a GitHub token is required to publish")
	case errors.Is(err, service.ErrUnauthorized):
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	case errors.Is(err, service.ErrConflict):
		return writeError(c, fiber.StatusConflict, "CONFLICT", err.Error()+". Reload and publish again.")
	case errors.Is(err, service.ErrInvalidContent), errors.Is(err, content.ErrArchiveNotArray):
		return writeError(c, fiber.StatusUnprocessableEntity, "INVALID_CONTENT", err.Error())
	case errors.Is(err, icon.ErrImageTooLarge):
		return writeError(c, fiber.StatusRequestEntityTooLarge, "IMAGE_TOO_LARGE", err.Error())
	case errors.Is(err, icon.ErrUnsupportedImage):
		return writeError(c, fiber.StatusUnprocessableEntity, "UNSUPPORTED_IMAGE", err.Error())
	case errors.Is(err, manifest.ErrInvalidManifest):
		return writeError(c, fiber.StatusUnprocessableEntity, "INVALID_MANIFEST", err.Error())
	case errors.Is(err, service.ErrImageRequired):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "id is required")
	case errors.Is(err, service.ErrNotFound), errors.Is(err, github.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrHistoryDisabled):
		return writeError(c, fiber.StatusNotImplemented, "NOT_CONFIGURED", err.Error())
	case errors.As(err, &apiErr),
		errors.Is(err, service.ErrPublicUnavailable),
		errors.Is(err, content.ErrNotObject):
		return writeError(c, fiber.StatusBadGateway, "UPSTREAM_ERROR", err.Error())
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusForbidden:
			return writeError(c, status, "FORBIDDEN", "only available from this machine")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "payload too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
