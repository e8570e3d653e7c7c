package handler

import (
	"github.com/gofiber/fiber/v2"

	"creatorhome/internal/http/middleware"
	"creatorhome/internal/service"
)

// GetContent godoc
// @Summary Load the published content document and its GitHub sha
// @Tags content
// @Produce json
// @Success 200 {object} service.LoadResult
// @Failure 502 {object} errorPayload
// @Router /api/content [get]
func GetContent(svc service.ContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Load(c.UserContext(), middleware.TokenFromCtx(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// PreviewContent godoc
// @Summary Render the exact JSON a publish would write
// @Tags content
// @Accept json
// @Produce json
// @Param body body service.PublishRequest true "document"
// @Success 200 {object} service.PreviewResult
// @Failure 422 {object} errorPayload
// @Router /api/content/preview [post]
func PreviewContent(svc service.ContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.PublishRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be a JSON object with a content field")
		}
		res, err := svc.Preview(req.Content)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// PublishContent godoc
// @Summary Commit the content document to GitHub
// @Description Re-checks the file sha before writing. A sha that moved since load is a 409; nothing is retried.
// @Tags content
// @Accept json
// @Produce json
// @Param body body service.PublishRequest true "document and the sha it was loaded at"
// @Success 200 {object} service.PublishResult
// @Failure 401 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Router /api/content [put]
func PublishContent(svc service.ContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.PublishRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be a JSON object with a content field")
		}
		res, err := svc.Publish(c.UserContext(), middleware.TokenFromCtx(c), req)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}
