package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"creatorhome/internal/activity"
	"creatorhome/internal/github"
)

// commitResult describes a write that reached the hosting repository.
type commitResult struct {
	PreviousSHA string
	ContentSHA  string
	CommitSHA   string
	Created     bool
}

// committer runs the read-sha, check, write sequence shared by every file the
// dashboard publishes. It never retries: a conflict goes back to the creator.
type committer struct {
	gh  github.Contents
	log *activity.Log
}

// commit re-fetches the current sha of path and writes data with it. When baseSHA is
// set and the file moved since the caller read it, the write is refused locally.
func (c *committer) commit(ctx context.Context, token, path, message string, data []byte, baseSHA string) (*commitResult, error) {
	c.log.Info("Re-checking GitHub sha for %s…", path)
	current, err := c.gh.GetFile(ctx, token, path)
	var sha string
	switch {
	case err == nil:
		sha = current.SHA
	case errors.Is(err, github.ErrNotFound):
		if baseSHA != "" {
			return nil, fmt.Errorf("%w: %s was deleted", github.ErrConflict, path)
		}
		c.log.Info("%s does not exist yet; it will be created.", path)
	default:
		return nil, err
	}

	if baseSHA != "" && baseSHA != sha {
		return nil, fmt.Errorf("%w: loaded sha %s, repository has %s", github.ErrConflict, short(baseSHA), short(sha))
	}

	c.log.Info("Publishing (committing) %s to repo…", path)
	res, err := c.gh.PutFile(ctx, token, github.PutRequest{
		Path:    path,
		Message: message,
		Content: data,
		SHA:     sha,
	})
	if err != nil {
		return nil, err
	}
	return &commitResult{
		PreviousSHA: sha,
		ContentSHA:  res.ContentSHA,
		CommitSHA:   res.CommitSHA,
		Created:     sha == "",
	}, nil
}

// fail surfaces err on the activity log and the trace span, then returns it unchanged.
func (c *committer) fail(span trace.Span, err error) error {
	c.log.Error(err)
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func short(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	if sha == "" {
		return "(none)"
	}
	return sha
}
