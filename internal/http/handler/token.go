package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"creatorhome/internal/activity"
	"creatorhome/internal/http/middleware"
	"creatorhome/internal/token"
)

type tokenRequest struct {
	Token string `json:"token"`
}

// TokenStatus reports whether the request would publish with a token.
// The token itself is never echoed.
func TokenStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"present": middleware.TokenFromCtx(c) != ""})
	}
}

// SetToken godoc
// @Summary Store the GitHub token on this device
// @Tags token
// @Accept json
// @Param body body tokenRequest true "token"
// @Success 204
// @Failure 400 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Router /api/token [put]
func SetToken(store token.Store, log *activity.Log) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req tokenRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be a JSON object with a token field")
		}
		if err := store.Set(req.Token); err != nil {
			if errors.Is(err, token.ErrEmptyToken) {
				return writeError(c, fiber.StatusBadRequest, "TOKEN_EMPTY", "token is empty")
			}
			log.Error(err)
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		log.Info("Token saved on this device.")
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ClearToken godoc
// @Summary Forget the stored GitHub token
// @Tags token
// @Success 204
// @Failure 403 {object} errorPayload
// @Router /api/token [delete]
func ClearToken(store token.Store, log *activity.Log) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := store.Clear(); err != nil {
			log.Error(err)
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		log.Info("Token cleared. Publish is disabled until a new token is set.")
		return c.SendStatus(fiber.StatusNoContent)
	}
}
