package handler

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"creatorhome/internal/http/middleware"
	"creatorhome/internal/service"
)

const maxIconBytes = 8 << 20

// UploadIcon godoc
// @Summary Resize an image into the fan app icons and commit them
// @Tags assets
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PNG, JPEG or GIF"
// @Success 201 {object} service.IconResult
// @Failure 400 {object} errorPayload
// @Failure 413 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Router /api/icons [post]
func UploadIcon(svc service.AssetService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		if fh.Size > maxIconBytes {
			return writeError(c, fiber.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "icon must be at most 8 MiB")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		src, err := io.ReadAll(io.LimitReader(f, maxIconBytes))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot read uploaded file")
		}

		res, err := svc.UploadIcon(c.UserContext(), middleware.TokenFromCtx(c), src)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// BumpManifest godoc
// @Summary Increment the PWA manifest version, optionally syncing the creator identity
// @Tags assets
// @Accept json
// @Produce json
// @Param body body service.BumpRequest false "identity sync"
// @Success 200 {object} service.ManifestResult
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /api/manifest/bump [post]
func BumpManifest(svc service.AssetService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.BumpRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be a JSON object")
			}
		}
		res, err := svc.BumpManifest(c.UserContext(), middleware.TokenFromCtx(c), req)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}
