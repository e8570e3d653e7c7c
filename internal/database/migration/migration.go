package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"creatorhome/internal/logging"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_publish_events",
		SQL: `CREATE TABLE IF NOT EXISTS publish_events (
  id           UUID        PRIMARY KEY,
  path         TEXT        NOT NULL,
  status       TEXT        NOT NULL CHECK (status IN ('succeeded', 'failed', 'conflict')),
  base_sha     TEXT        NOT NULL DEFAULT '',
  content_sha  TEXT        NOT NULL DEFAULT '',
  commit_sha   TEXT        NOT NULL DEFAULT '',
  snapshot_key TEXT        NOT NULL DEFAULT '',
  message      TEXT        NOT NULL DEFAULT '',
  size         BIGINT      NOT NULL DEFAULT 0 CHECK (size >= 0),
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_publish_events_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_publish_events_created_at ON publish_events (created_at DESC);`,
	},
	{
		Name: "create_index_publish_events_path_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_publish_events_path_status ON publish_events (path, status, created_at DESC);`,
	},
}

const component = "database"

// EnsureMigrated creates the publish history schema unless the sentinel table already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *logging.Logger, dbHost string) error {
	start := time.Now()
	log.Event(component, "db_migration_check", "starting", map[string]any{"db_host": dbHost})

	var exists bool
	err := db.QueryRowContext(ctx, "SELECT to_regclass('public.publish_events') IS NOT NULL").Scan(&exists)
	if err != nil {
		err = fmt.Errorf("failed to check sentinel table: %w", err)
		log.Error(component, "db_migration_failed", err, map[string]any{
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return err
	}

	if exists {
		log.Event(component, "db_migration_skip", "success", map[string]any{
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	log.Event(component, "db_migration_start", "in_progress", map[string]any{"db_host": dbHost})

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error(component, "db_migration_failed", err, map[string]any{
				"migration_step":   step.Name,
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Event(component, "db_migration_step", "success", map[string]any{
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	log.Event(component, "db_migration_success", "success", map[string]any{
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}
