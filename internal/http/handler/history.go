package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"creatorhome/internal/model"
	"creatorhome/internal/service"
	"creatorhome/internal/storage"
)

type publishList struct {
	Items  []model.PublishEvent `json:"items"`
	Total  int                  `json:"total"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}

// ListPublishes godoc
// @Summary Publish history, newest first
// @Tags history
// @Produce json
// @Param limit query int false "page size" default(10)
// @Param offset query int false "offset" default(0)
// @Success 200 {object} publishList
// @Failure 501 {object} errorPayload
// @Router /api/publishes [get]
func ListPublishes(svc service.HistoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return respondError(c, err)
		}
		items := res.Items
		if items == nil {
			items = []model.PublishEvent{}
		}
		return c.JSON(publishList{Items: items, Total: res.Total, Limit: res.Limit, Offset: res.Offset})
	}
}

// GetSnapshot godoc
// @Summary Presigned download URL of a published document
// @Tags history
// @Produce json
// @Param id path string true "publish event id"
// @Param redirect query bool false "redirect to the object instead of returning JSON"
// @Success 200 {object} service.Snapshot
// @Failure 404 {object} errorPayload
// @Failure 501 {object} errorPayload
// @Router /api/publishes/{id}/snapshot [get]
func GetSnapshot(svc service.HistoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap, err := svc.SnapshotURL(c.UserContext(), c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		if c.QueryBool("redirect") {
			return c.Redirect(snap.URL, fiber.StatusFound)
		}
		return c.JSON(snap)
	}
}

type snapshotList struct {
	Items []storage.ObjectInfo `json:"items"`
}

// ListSnapshots godoc
// @Summary Stored snapshots of the content document, newest first
// @Tags history
// @Produce json
// @Param limit query int false "max items" default(10)
// @Success 200 {object} snapshotList
// @Failure 501 {object} errorPayload
// @Router /api/snapshots [get]
func ListSnapshots(svc service.HistoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		items, err := svc.Snapshots(c.UserContext(), limit)
		if err != nil {
			return respondError(c, err)
		}
		if items == nil {
			items = []storage.ObjectInfo{}
		}
		return c.JSON(snapshotList{Items: items})
	}
}

// GetSnapshotContent godoc
// @Summary Content of one stored snapshot
// @Tags history
// @Produce json
// @Param key query string true "snapshot key"
// @Success 200 {object} model.Content
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 501 {object} errorPayload
// @Router /api/snapshots/content [get]
func GetSnapshotContent(svc service.HistoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := svc.SnapshotContent(c.UserContext(), c.Query("key"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(doc)
	}
}
