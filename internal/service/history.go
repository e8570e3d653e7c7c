package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"creatorhome/internal/content"
	"creatorhome/internal/model"
	"creatorhome/internal/repository"
	"creatorhome/internal/storage"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
	snapshotURLExpiry   = 15 * time.Minute
	maxSnapshotBytes    = 1 << 20
)

// Snapshot is a time-limited download link for a published document.
type Snapshot struct {
	EventID   string    `json:"event_id"`
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HistoryService reads the publish history kept by the optional side stores.
type HistoryService interface {
	// List returns publish events newest first. Limit defaults to 10 and is capped at 100;
	// the result carries the values actually used.
	List(ctx context.Context, limit, offset int) (*repository.PageResult[model.PublishEvent], error)

	// SnapshotURL presigns the snapshot stored for a publish event.
	SnapshotURL(ctx context.Context, id string) (*Snapshot, error)

	// Snapshots lists stored snapshots of the content document, newest first. It only
	// needs the bucket, so it works without Postgres.
	Snapshots(ctx context.Context, limit int) ([]storage.ObjectInfo, error)

	// SnapshotContent reads one stored snapshot back as content.
	SnapshotContent(ctx context.Context, key string) (model.Content, error)
}

type historyService struct {
	events    repository.PublishEventRepository
	snapshots storage.Storage
	path      string
	now       func() time.Time
}

// NewHistoryService constructs a new HistoryService for the content document at path.
// Either store may be nil.
func NewHistoryService(events repository.PublishEventRepository, snapshots storage.Storage, path string) HistoryService {
	return &historyService{events: events, snapshots: snapshots, path: path, now: time.Now}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		return maxHistoryLimit
	}
	return limit
}

func (s *historyService) List(ctx context.Context, limit, offset int) (*repository.PageResult[model.PublishEvent], error) {
	if s.events == nil {
		return nil, ErrHistoryDisabled
	}
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}
	res, err := s.events.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	res.Limit, res.Offset = limit, offset
	return res, nil
}

func (s *historyService) SnapshotURL(ctx context.Context, id string) (*Snapshot, error) {
	if s.events == nil || s.snapshots == nil {
		return nil, ErrHistoryDisabled
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrIDRequired
	}
	// Event ids are UUID columns; anything else cannot exist.
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	ev, err := s.events.FindByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if ev.SnapshotKey == "" {
		return nil, fmt.Errorf("%w: publish %s has no snapshot", ErrNotFound, id)
	}

	u, err := s.snapshots.PresignGet(ctx, ev.SnapshotKey, snapshotURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign snapshot: %w", err)
	}
	return &Snapshot{
		EventID:   ev.ID,
		Key:       ev.SnapshotKey,
		URL:       u,
		ExpiresAt: s.now().Add(snapshotURLExpiry).UTC(),
	}, nil
}

func (s *historyService) Snapshots(ctx context.Context, limit int) ([]storage.ObjectInfo, error) {
	if s.snapshots == nil {
		return nil, ErrHistoryDisabled
	}
	objs, err := s.snapshots.List(ctx, storage.SnapshotDir(s.path), clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return objs, nil
}

func (s *historyService) SnapshotContent(ctx context.Context, key string) (model.Content, error) {
	if s.snapshots == nil {
		return model.Content{}, ErrHistoryDisabled
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return model.Content{}, ErrIDRequired
	}
	if !strings.HasPrefix(key, storage.SnapshotDir(s.path)) || strings.Contains(key, "..") {
		return model.Content{}, ErrNotFound
	}

	rc, _, err := s.snapshots.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return model.Content{}, ErrNotFound
	}
	if err != nil {
		return model.Content{}, fmt.Errorf("read snapshot: %w", err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(io.LimitReader(rc, maxSnapshotBytes))
	if err != nil {
		return model.Content{}, fmt.Errorf("read snapshot: %w", err)
	}
	return content.Decode(raw)
}
