package repository

import (
	"context"

	"creatorhome/internal/model"
)

// PublishEventRepository stores the publish history using SQL queries only.
// No business logic here, only persistence operations.
type PublishEventRepository interface {
	// Create inserts a new publish event and returns the stored row.
	Create(ctx context.Context, ev *model.PublishEvent) (*model.PublishEvent, error)

	// FindByID returns a publish event by its ID.
	FindByID(ctx context.Context, id string) (*model.PublishEvent, error)

	// List returns a page of publish events, newest first, with the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.PublishEvent], error)

	// LatestSucceeded returns the most recent successful publish of path.
	LatestSucceeded(ctx context.Context, path string) (*model.PublishEvent, error)
}
