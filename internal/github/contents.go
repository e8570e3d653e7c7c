package github

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrTokenRequired = errors.New("missing creator token")
	ErrUnauthorized  = errors.New("github rejected the token")
	ErrNotFound      = errors.New("file not found in repository")
	ErrConflict      = errors.New("file changed on github since it was loaded")
)

// File is a repository file as returned by the contents API.
type File struct {
	Path    string
	SHA     string
	Content []byte
}

// PutRequest describes a commit of a single file. An empty SHA creates the file.
type PutRequest struct {
	Path    string
	Message string
	Content []byte
	SHA     string
}

// PutResult carries the identifiers GitHub assigned to the write.
type PutResult struct {
	ContentSHA string
	CommitSHA  string
}

// SHA returns the new file sha, or the commit sha when the response lacked one.
func (r *PutResult) SHA() string {
	if r.ContentSHA != "" {
		return r.ContentSHA
	}
	return r.CommitSHA
}

// Contents is the slice of the GitHub contents API the publisher relies on.
type Contents interface {
	// GetFile reads a file and its current sha.
	GetFile(ctx context.Context, token, path string) (*File, error)
	// PutFile creates or updates a file; the write is rejected when SHA is stale.
	PutFile(ctx context.Context, token string, req PutRequest) (*PutResult, error)
}

// APIError is a non-2xx response that did not map onto a sentinel error.
type APIError struct {
	Method string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GitHub %s contents failed (%d). %s", e.Method, e.Status, e.Body)
}
