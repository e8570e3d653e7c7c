package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"creatorhome/docs"
	"creatorhome/internal/app"
	"creatorhome/internal/config"
	"creatorhome/internal/fanapp"
	handlers "creatorhome/internal/http/handler"
	"creatorhome/internal/http/middleware"
	"creatorhome/internal/logging"
	"creatorhome/internal/otel"
)

// @title Creator Home API
// @version 1.0
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.Location())

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}

	// Services, plus the optional Postgres history and MinIO snapshot stores
	a, err := app.New(ctx, cfg, logger, app.Options{})
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	defer a.Close()

	metrics, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	srv := fiber.New(fiber.Config{
		AppName:      "creatorhome",
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    10 * 1024 * 1024,
	})

	// Register global middleware
	srv.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	srv.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	srv.Use(middleware.LoggerWith(logger))
	srv.Use(metrics.Handler())

	srv.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger UI with dynamic host and scheme
	srv.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	handlers.RegisterRoutes(srv, handlers.Deps{
		DB:       a.DB,
		Content:  a.Content,
		Assets:   a.Assets,
		History:  a.History,
		Activity: a.Activity,
		Tokens:   a.Tokens,
		Logger:   logger,
	})

	// Static sites own the catch-all and go last
	handlers.RegisterStatic(srv,
		fanapp.Site{Root: cfg.Site.FanAppDir, Mount: "/", BuildVersion: cfg.Site.BuildVersion, Logger: logger},
		fanapp.Site{Root: cfg.Site.DashboardDir, Mount: "/dashboard", BuildVersion: cfg.Site.BuildVersion, Logger: logger},
	)

	go func() {
		<-ctx.Done()
		logger.Event("server", "shutdown", "starting", nil)

		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.ShutdownWithContext(sctx); err != nil {
			logger.Error("server", "shutdown_failed", err, nil)
		}
		if err := shutdownTracing(sctx); err != nil {
			logger.Error("server", "tracing_shutdown_failed", err, nil)
		}
	}()

	addr := ":" + cfg.Port
	logger.Event("server", "listening", "success", map[string]any{
		"addr":      addr,
		"repo":      cfg.GitHub.Label(),
		"fan_app":   cfg.Site.FanAppDir,
		"dashboard": cfg.Site.DashboardDir,
		"build":     cfg.Site.BuildVersion,
		"history":   a.Events != nil,
		"snapshots": a.Snapshots != nil,
	})

	if err := srv.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
