package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"creatorhome/internal/activity"
)

type activityEntry struct {
	activity.Entry
	Line string `json:"line"`
}

// ListActivity godoc
// @Summary Status lines of recent dashboard operations, newest first
// @Tags activity
// @Produce json
// @Param limit query int false "max entries"
// @Success 200 {object} map[string]any
// @Router /api/activity [get]
func ListActivity(log *activity.Log) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "50"))
		if err != nil || limit < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}

		entries := log.Entries(limit)
		out := make([]activityEntry, 0, len(entries))
		for _, e := range entries {
			out = append(out, activityEntry{Entry: e, Line: e.String()})
		}
		return c.JSON(fiber.Map{"entries": out})
	}
}
