// Package storage keeps copies of every published content document in an S3-compatible
// bucket. The bucket is a side store: the hosting repository stays authoritative.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// ErrNotFound is returned by Get for a key the bucket does not hold.
var ErrNotFound = errors.New("object not found")

// SnapshotPrefix is the key prefix under which published documents are stored.
const SnapshotPrefix = "snapshots/"

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size"`
	ETag         string            `json:"etag,omitempty"`
	ContentType  string            `json:"content_type,omitempty"`
	LastModified time.Time         `json:"last_modified"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Storage is a reusable, S3-compatible object storage client interface.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// List returns objects under prefix, newest first.
	List(ctx context.Context, prefix string, limit int) ([]ObjectInfo, error)
	// PresignGet returns a time-limited URL that can be used to download the object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// SnapshotKey names the snapshot of a document published at t with content sha.
// Keys sort chronologically.
func SnapshotKey(path string, t time.Time, sha string) string {
	if sha == "" {
		sha = "unknown"
	}
	return fmt.Sprintf("%s%s-%s.json", SnapshotDir(path), t.UTC().Format("20060102T150405Z"), sha)
}

// SnapshotDir is the prefix shared by every snapshot of path.
func SnapshotDir(path string) string {
	name := strings.NewReplacer("/", "_", " ", "-").Replace(strings.Trim(path, "/"))
	return SnapshotPrefix + name + "/"
}
