package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"creatorhome/internal/activity"
	"creatorhome/internal/fanapp"
	"creatorhome/internal/http/middleware"
	"creatorhome/internal/logging"
	"creatorhome/internal/service"
	"creatorhome/internal/token"
)

// Deps are the collaborators the API routes are built from. DB may be nil when
// publish history is disabled.
type Deps struct {
	DB       *sql.DB
	Content  service.ContentService
	Assets   service.AssetService
	History  service.HistoryService
	Activity *activity.Log
	Tokens   token.Store
	Logger   *logging.Logger
}

// RegisterRoutes attaches the health checks and the dashboard API to app. Requests
// from other machines must bring their own bearer token; the stored token and the
// token endpoints are reserved for same-origin requests from loopback.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api", middleware.Token(d.Tokens, d.Logger))

	api.Get("/content", GetContent(d.Content))
	api.Post("/content/preview", PreviewContent(d.Content))
	api.Put("/content", PublishContent(d.Content))

	api.Post("/icons", UploadIcon(d.Assets))
	api.Post("/manifest/bump", BumpManifest(d.Assets))

	api.Get("/token", TokenStatus())
	api.Put("/token", middleware.LocalOnly(), SetToken(d.Tokens, d.Activity))
	api.Delete("/token", middleware.LocalOnly(), ClearToken(d.Tokens, d.Activity))

	api.Get("/activity", ListActivity(d.Activity))

	api.Get("/publishes", ListPublishes(d.History))
	api.Get("/publishes/:id/snapshot", GetSnapshot(d.History))
	api.Get("/snapshots", ListSnapshots(d.History))
	api.Get("/snapshots/content", GetSnapshotContent(d.History))
}

// RegisterStatic mounts the dashboard and the fan app. It must run after every other
// route because the fan app owns the catch-all.
func RegisterStatic(app *fiber.App, fan, dashboard fanapp.Site) {
	app.Get("/dashboard", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard/", fiber.StatusMovedPermanently)
	})
	app.Get("/dashboard/*", dashboard.Handler())
	app.Get("/*", fan.Handler())
}
