package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"creatorhome/internal/activity"
	"creatorhome/internal/content"
	"creatorhome/internal/github"
	"creatorhome/internal/logging"
	"creatorhome/internal/model"
	"creatorhome/internal/repository"
	"creatorhome/internal/storage"
)

var tracer = otel.Tracer("creatorhome/internal/service")

// LoadResult is the document as fans currently see it, plus the sha needed to publish.
type LoadResult struct {
	Content     model.Content       `json:"content"`
	SHA         string              `json:"sha,omitempty"`
	Repo        string              `json:"repo"`
	LastPublish *model.PublishEvent `json:"last_publish,omitempty"`
}

// PreviewResult is the exact JSON a publish would write.
type PreviewResult struct {
	JSON   string `json:"json"`
	IsLive bool   `json:"is_live"`
	Status string `json:"status"`
}

// PublishRequest is a full replacement of the content document.
// BaseSHA is the sha returned by Load; when set, a document that moved since is not overwritten.
type PublishRequest struct {
	Content model.Content `json:"content"`
	BaseSHA string        `json:"sha,omitempty"`
	Message string        `json:"message,omitempty"`
}

// PublishResult reports a successful commit.
type PublishResult struct {
	ContentSHA  string `json:"content_sha"`
	CommitSHA   string `json:"commit_sha,omitempty"`
	PreviousSHA string `json:"previous_sha,omitempty"`
	Created     bool   `json:"created"`
	EventID     string `json:"event_id,omitempty"`
	SnapshotKey string `json:"snapshot_key,omitempty"`
	Status      string `json:"status"`
}

// ContentService defines the creator's load, preview and publish use cases.
type ContentService interface {
	// Load reads the public document and, when a token is given, its current sha.
	Load(ctx context.Context, token string) (*LoadResult, error)

	// Preview validates and encodes c without touching the network.
	Preview(c model.Content) (*PreviewResult, error)

	// Publish commits the document with an optimistic-concurrency check. Nothing is
	// retried: a conflict is reported and the creator reloads.
	Publish(ctx context.Context, token string, req PublishRequest) (*PublishResult, error)
}

// ContentOptions wires a ContentService. Events and Snapshots are optional side stores.
type ContentOptions struct {
	GitHub        github.Contents
	Public        PublicSource
	Activity      *activity.Log
	Logger        *logging.Logger
	Events        repository.PublishEventRepository
	Snapshots     storage.Storage
	Path          string
	RepoLabel     string
	CommitMessage string
}

type contentService struct {
	committer
	public    PublicSource
	logger    *logging.Logger
	events    repository.PublishEventRepository
	snapshots storage.Storage
	path      string
	repoLabel string
	message   string
	now       func() time.Time
}

// NewContentService constructs a new ContentService.
func NewContentService(opts ContentOptions) ContentService {
	if opts.Activity == nil {
		opts.Activity = activity.New(activity.DefaultSize, nil)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.CommitMessage == "" {
		opts.CommitMessage = "publish content.json via creator dashboard"
	}
	return &contentService{
		committer: committer{gh: opts.GitHub, log: opts.Activity},
		public:    opts.Public,
		logger:    opts.Logger,
		events:    opts.Events,
		snapshots: opts.Snapshots,
		path:      opts.Path,
		repoLabel: opts.RepoLabel,
		message:   opts.CommitMessage,
		now:       time.Now,
	}
}

func (s *contentService) Load(ctx context.Context, token string) (*LoadResult, error) {
	ctx, span := tracer.Start(ctx, "ContentService.Load")
	defer span.End()

	out := &LoadResult{Repo: s.repoLabel}
	if token != "" {
		// The document and its sha come from the same read, so a lagging Pages
		// deployment can never pair old content with the current sha.
		s.log.Info("Loading content.json from GitHub (authority path)…")
		f, err := s.gh.GetFile(ctx, token, s.path)
		switch {
		case err == nil:
			doc, err := content.Decode(f.Content)
			if err != nil {
				return nil, s.fail(span, err)
			}
			out.Content, out.SHA = doc, f.SHA
			out.LastPublish = s.lastPublish(ctx)
			s.log.Info("GitHub sha loaded: %s", f.SHA)
			s.log.Info("Ready.")
			return out, nil
		case errors.Is(err, github.ErrNotFound):
			s.log.Info("%s is not in the repository yet; publish will create it.", s.path)
		default:
			return nil, s.fail(span, err)
		}
	}

	s.log.Info("Loading current content.json (public)…")
	raw, err := s.public.Fetch(ctx)
	if err != nil {
		return nil, s.fail(span, err)
	}
	doc, err := content.Decode(raw)
	if err != nil {
		return nil, s.fail(span, err)
	}
	s.log.Info("Loaded public content.json.")

	out.Content = doc
	out.LastPublish = s.lastPublish(ctx)
	if token == "" {
		s.log.Info("No token present. Sha not loaded. Publish remains disabled.")
		return out, nil
	}
	s.log.Info("Ready.")
	return out, nil
}

func (s *contentService) Preview(c model.Content) (*PreviewResult, error) {
	b, err := content.Encode(c)
	if err != nil {
		return nil, err
	}
	n := content.Normalize(c)
	status := "STATUS: LIVE = false"
	if n.IsLive {
		status = "STATUS: LIVE = true"
	}
	return &PreviewResult{JSON: string(b), IsLive: n.IsLive, Status: status}, nil
}

func (s *contentService) Publish(ctx context.Context, token string, req PublishRequest) (*PublishResult, error) {
	// Both gates run before any network call.
	if token == "" {
		return nil, s.fail(nil, ErrTokenRequired)
	}
	data, err := content.Encode(req.Content)
	if err != nil {
		return nil, s.fail(nil, err)
	}

	ctx, span := tracer.Start(ctx, "ContentService.Publish")
	defer span.End()
	span.SetAttributes(attribute.String("content.path", s.path), attribute.Int("content.size", len(data)))

	message := req.Message
	if message == "" {
		message = s.message
	}

	res, err := s.commit(ctx, token, s.path, message, data, req.BaseSHA)
	if err != nil {
		status := model.PublishFailed
		if errors.Is(err, ErrConflict) {
			status = model.PublishConflict
		}
		s.record(ctx, &model.PublishEvent{
			Path:    s.path,
			Status:  status,
			BaseSHA: req.BaseSHA,
			Message: err.Error(),
			Size:    int64(len(data)),
		})
		return nil, s.fail(span, err)
	}

	out := &PublishResult{
		ContentSHA:  res.ContentSHA,
		CommitSHA:   res.CommitSHA,
		PreviousSHA: res.PreviousSHA,
		Created:     res.Created,
		Status:      "STATUS: not-live published",
	}
	if content.Normalize(req.Content).IsLive {
		out.Status = "STATUS: LIVE published"
	}
	newSHA := res.ContentSHA
	if newSHA == "" {
		newSHA = "(sha updated)"
	}
	s.log.Info("Publish success. New sha: %s", newSHA)

	out.SnapshotKey = s.snapshot(ctx, data, res)
	if ev := s.record(ctx, &model.PublishEvent{
		Path:        s.path,
		Status:      model.PublishSucceeded,
		BaseSHA:     res.PreviousSHA,
		ContentSHA:  res.ContentSHA,
		CommitSHA:   res.CommitSHA,
		SnapshotKey: out.SnapshotKey,
		Message:     message,
		Size:        int64(len(data)),
	}); ev != nil {
		out.EventID = ev.ID
	}
	return out, nil
}

// lastPublish looks up the latest recorded publish. A missing history is not an error.
func (s *contentService) lastPublish(ctx context.Context) *model.PublishEvent {
	if s.events == nil {
		return nil
	}
	ev, err := s.events.LatestSucceeded(ctx, s.path)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Error("service", "last_publish_failed", err, map[string]any{"path": s.path})
		}
		return nil
	}
	return ev
}

// snapshot copies the published bytes to object storage. Failures only get logged:
// the commit already happened.
func (s *contentService) snapshot(ctx context.Context, data []byte, res *commitResult) string {
	if s.snapshots == nil {
		return ""
	}
	sha := res.ContentSHA
	if sha == "" {
		sha = res.CommitSHA
	}
	key := storage.SnapshotKey(s.path, s.now(), sha)
	_, err := s.snapshots.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: "application/json",
		Metadata:    map[string]string{"content-sha": res.ContentSHA, "commit-sha": res.CommitSHA},
	})
	if err != nil {
		s.logger.Error("service", "snapshot_failed", err, map[string]any{"key": key})
		return ""
	}
	return key
}

// record stores a publish event. Failures only get logged.
func (s *contentService) record(ctx context.Context, ev *model.PublishEvent) *model.PublishEvent {
	if s.events == nil {
		return nil
	}
	ev.ID = uuid.NewString()
	ev.CreatedAt = s.now().UTC()
	stored, err := s.events.Create(ctx, ev)
	if err != nil {
		s.logger.Error("service", "publish_event_failed", err, map[string]any{"path": ev.Path, "publish_status": string(ev.Status)})
		return nil
	}
	return stored
}
