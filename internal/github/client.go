// Package github talks to the GitHub REST contents API on behalf of the creator.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v69/github"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"creatorhome/internal/config"
)

const maxErrorBody = 220

// Client is a contents API client bound to one repository and branch.
// It is safe for concurrent use by multiple goroutines.
type Client struct {
	api    *gogithub.Client
	owner  string
	repo   string
	branch string
}

var _ Contents = (*Client)(nil)

// NewClient builds a Client from configuration. A nil httpClient gets an otelhttp
// instrumented client with the configured timeout.
func NewClient(cfg config.GitHubConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := time.Duration(cfg.TimeoutSec) * time.Second
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	api := gogithub.NewClient(httpClient)
	// go-github requires the trailing slash; enterprise hosts are configured with their
	// full /api/v3 root.
	if base := strings.TrimRight(cfg.APIURL, "/"); base != "" {
		if u, err := url.Parse(base + "/"); err == nil {
			api.BaseURL = u
		}
	}
	return &Client{
		api:    api,
		owner:  cfg.Owner,
		repo:   cfg.Repo,
		branch: cfg.Branch,
	}
}

func (c *Client) authed(token string) *gogithub.Client {
	return c.api.WithAuthToken(strings.TrimSpace(token))
}

// GetFile reads path at the configured branch and decodes its base64 content.
func (c *Client) GetFile(ctx context.Context, token, path string) (*File, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrTokenRequired
	}

	var opts *gogithub.RepositoryContentGetOptions
	if c.branch != "" {
		opts = &gogithub.RepositoryContentGetOptions{Ref: c.branch}
	}
	file, dir, _, err := c.authed(token).Repositories.GetContents(ctx, c.owner, c.repo, trimPath(path), opts)
	if err != nil {
		return nil, mapError(http.MethodGet, err)
	}
	if file == nil || dir != nil {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if file.GetSHA() == "" {
		return nil, fmt.Errorf("github response missing sha")
	}

	// GitHub wraps base64 at 60 columns; the decoder skips the newlines.
	text, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode file content: %w", err)
	}
	return &File{Path: file.GetPath(), SHA: file.GetSHA(), Content: []byte(text)}, nil
}

// PutFile commits req.Content to req.Path on the configured branch. An empty SHA creates
// the file; GitHub refuses both a stale sha and a missing one on an existing file.
func (c *Client) PutFile(ctx context.Context, token string, in PutRequest) (*PutResult, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrTokenRequired
	}

	opts := &gogithub.RepositoryContentFileOptions{
		Message: gogithub.Ptr(in.Message),
		Content: in.Content,
	}
	if c.branch != "" {
		opts.Branch = gogithub.Ptr(c.branch)
	}

	api := c.authed(token)
	var (
		res *gogithub.RepositoryContentResponse
		err error
	)
	if in.SHA == "" {
		res, _, err = api.Repositories.CreateFile(ctx, c.owner, c.repo, trimPath(in.Path), opts)
	} else {
		opts.SHA = gogithub.Ptr(in.SHA)
		res, _, err = api.Repositories.UpdateFile(ctx, c.owner, c.repo, trimPath(in.Path), opts)
	}
	if err != nil {
		return nil, mapError(http.MethodPut, err)
	}

	out := &PutResult{}
	if res != nil {
		out.ContentSHA = res.Content.GetSHA()
		out.CommitSHA = res.Commit.GetSHA()
	}
	return out, nil
}

func trimPath(path string) string {
	return strings.Trim(path, "/")
}

// mapError folds go-github's typed errors onto the package sentinels, keeping the
// status and message in an APIError.
func mapError(method string, err error) error {
	var (
		status int
		msg    string
		limit  bool
	)
	var errResp *gogithub.ErrorResponse
	var rateErr *gogithub.RateLimitError
	var abuseErr *gogithub.AbuseRateLimitError
	switch {
	case errors.As(err, &rateErr):
		status, msg, limit = responseStatus(rateErr.Response), rateErr.Message, true
	case errors.As(err, &abuseErr):
		status, msg, limit = responseStatus(abuseErr.Response), abuseErr.Message, true
	case errors.As(err, &errResp):
		status, msg = responseStatus(errResp.Response), errResp.Message
	default:
		return fmt.Errorf("github %s contents: %w", method, err)
	}

	msg = strings.TrimSpace(msg)
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	apiErr := &APIError{Method: method, Status: status, Body: msg}
	if limit {
		return apiErr
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrUnauthorized, apiErr)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, apiErr)
	case http.StatusConflict:
		return fmt.Errorf("%w: %w", ErrConflict, apiErr)
	case http.StatusUnprocessableEntity:
		if strings.Contains(strings.ToLower(msg), "sha") {
			return fmt.Errorf("%w: %w", ErrConflict, apiErr)
		}
	}
	return apiErr
}

func responseStatus(res *http.Response) int {
	if res == nil {
		return 0
	}
	return res.StatusCode
}
