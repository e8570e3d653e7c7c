package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxDocumentBytes = 1 << 20

// ErrPublicUnavailable marks failures to read the document from the public site.
var ErrPublicUnavailable = errors.New("failed to load content.json")

// PublicSource reads the content document the way a fan's browser does.
type PublicSource interface {
	Fetch(ctx context.Context) ([]byte, error)
}

type httpPublicSource struct {
	client *http.Client
	url    string
	now    func() time.Time
}

// NewPublicSource reads rawURL with a cache-busting query parameter on every call.
// A nil client gets an otelhttp instrumented one.
func NewPublicSource(rawURL string, client *http.Client) PublicSource {
	if client == nil {
		client = &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &httpPublicSource{client: client, url: rawURL, now: time.Now}
}

func (s *httpPublicSource) Fetch(ctx context.Context) ([]byte, error) {
	u, err := url.Parse(s.url)
	if err != nil {
		return nil, fmt.Errorf("invalid public content url: %w", err)
	}
	q := u.Query()
	q.Set("ts", strconv.FormatInt(s.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build public request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPublicUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("%w (%d)", ErrPublicUnavailable, res.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(res.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrPublicUnavailable, err)
	}
	return b, nil
}
