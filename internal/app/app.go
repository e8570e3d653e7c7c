// Package app assembles the service graph shared by the API server and the CLI.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"creatorhome/internal/activity"
	"creatorhome/internal/config"
	"creatorhome/internal/database"
	"creatorhome/internal/database/migration"
	"creatorhome/internal/github"
	"creatorhome/internal/logging"
	"creatorhome/internal/repository"
	"creatorhome/internal/repository/postgres"
	"creatorhome/internal/service"
	"creatorhome/internal/storage"
	"creatorhome/internal/token"
)

// App holds the wired services. DB, Events and Snapshots stay nil when their side
// store is not configured.
type App struct {
	Config    *config.AppConfig
	Logger    *logging.Logger
	Activity  *activity.Log
	Tokens    token.Store
	GitHub    github.Contents
	DB        *sql.DB
	Events    repository.PublishEventRepository
	Snapshots storage.Storage

	Content service.ContentService
	Assets  service.AssetService
	History service.HistoryService
}

// Options override collaborators that are otherwise built from configuration.
type Options struct {
	GitHub github.Contents
	Public service.PublicSource
	Tokens token.Store
}

// New validates cfg and builds every service. Side stores are connected only when
// configured; a failure to reach one is returned so the caller decides whether to abort.
func New(ctx context.Context, cfg *config.AppConfig, log *logging.Logger, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.New(os.Stdout, cfg.Location())
	}

	a := &App{
		Config:   cfg,
		Logger:   log,
		Activity: activity.New(cfg.ActivityLogSize, cfg.Location()),
		Tokens:   opts.Tokens,
		GitHub:   opts.GitHub,
	}
	if a.Tokens == nil {
		a.Tokens = token.NewFileStore(cfg.TokenFile)
	}
	if a.GitHub == nil {
		a.GitHub = github.NewClient(cfg.GitHub, nil)
	}
	public := opts.Public
	if public == nil {
		public = service.NewPublicSource(cfg.Site.PublicContentURL, nil)
	}

	if cfg.Database.Enabled() {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			_ = db.Close()
			return nil, err
		}
		a.DB = db
		a.Events = postgres.NewPublishEventPostgres(db)
	} else {
		log.Event("app", "history_configured", "disabled", map[string]any{"reason": "DB_HOST not set"})
	}

	if cfg.MinIO.Enabled() {
		store, err := storage.NewMinIO(cfg.MinIO)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize object storage: %w", err)
		}
		a.Snapshots = store
	} else {
		log.Event("app", "snapshots_configured", "disabled", map[string]any{"reason": "MINIO_ENDPOINT not set"})
	}

	a.Content = service.NewContentService(service.ContentOptions{
		GitHub:        a.GitHub,
		Public:        public,
		Activity:      a.Activity,
		Logger:        log,
		Events:        a.Events,
		Snapshots:     a.Snapshots,
		Path:          cfg.GitHub.ContentPath,
		RepoLabel:     cfg.GitHub.Label(),
		CommitMessage: cfg.GitHub.CommitMessage,
	})
	a.Assets = service.NewAssetService(service.AssetOptions{
		GitHub:       a.GitHub,
		Activity:     a.Activity,
		ManifestPath: cfg.GitHub.ManifestPath,
		IconDir:      cfg.GitHub.IconDir,
	})
	a.History = service.NewHistoryService(a.Events, a.Snapshots, cfg.GitHub.ContentPath)

	return a, nil
}

// Close releases the database pool if one was opened.
func (a *App) Close() {
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

// Token resolves the token for one operation: an explicit value wins over the store.
func (a *App) Token(explicit string) (string, error) {
	return token.Resolve(a.Tokens, explicit)
}
