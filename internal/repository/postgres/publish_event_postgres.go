package postgres

import (
	"context"
	"database/sql"

	"creatorhome/internal/model"
	"creatorhome/internal/repository"
)

// PublishEventPostgres is a PostgreSQL implementation of repository.PublishEventRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type PublishEventPostgres struct {
	db *sql.DB
}

// NewPublishEventPostgres creates a new PublishEventPostgres repository.
func NewPublishEventPostgres(db *sql.DB) *PublishEventPostgres {
	return &PublishEventPostgres{db: db}
}

var _ repository.PublishEventRepository = (*PublishEventPostgres)(nil)

const eventColumns = `id, path, status, base_sha, content_sha, commit_sha, snapshot_key, message, size, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(s scanner) (*model.PublishEvent, error) {
	var ev model.PublishEvent
	var status string
	if err := s.Scan(
		&ev.ID,
		&ev.Path,
		&status,
		&ev.BaseSHA,
		&ev.ContentSHA,
		&ev.CommitSHA,
		&ev.SnapshotKey,
		&ev.Message,
		&ev.Size,
		&ev.CreatedAt,
	); err != nil {
		return nil, err
	}
	ev.Status = model.PublishStatus(status)
	return &ev, nil
}

// Create inserts a publish event row and returns the stored record.
func (r *PublishEventPostgres) Create(ctx context.Context, ev *model.PublishEvent) (*model.PublishEvent, error) {
	const q = `
		INSERT INTO publish_events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + eventColumns
	row := r.db.QueryRowContext(ctx, q,
		ev.ID,
		ev.Path,
		string(ev.Status),
		ev.BaseSHA,
		ev.ContentSHA,
		ev.CommitSHA,
		ev.SnapshotKey,
		ev.Message,
		ev.Size,
		ev.CreatedAt,
	)
	return scanEvent(row)
}

// FindByID fetches a single publish event. A missing row returns sql.ErrNoRows.
func (r *PublishEventPostgres) FindByID(ctx context.Context, id string) (*model.PublishEvent, error) {
	const q = `SELECT ` + eventColumns + ` FROM publish_events WHERE id = $1`
	return scanEvent(r.db.QueryRowContext(ctx, q, id))
}

// LatestSucceeded fetches the newest successful publish of path.
func (r *PublishEventPostgres) LatestSucceeded(ctx context.Context, path string) (*model.PublishEvent, error) {
	const q = `SELECT ` + eventColumns + ` FROM publish_events
		WHERE path = $1 AND status = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1`
	return scanEvent(r.db.QueryRowContext(ctx, q, path, string(model.PublishSucceeded)))
}

// List returns publish events using LIMIT/OFFSET pagination and a total count.
func (r *PublishEventPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.PublishEvent], error) {
	const qCount = `SELECT COUNT(*) FROM publish_events`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `SELECT ` + eventColumns + ` FROM publish_events
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.PublishEvent, 0)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.PublishEvent]{
		Items: items,
		Total: total,
	}, nil
}
