package model

import "time"

// PublishStatus is the outcome of a publish attempt.
type PublishStatus string

const (
	PublishSucceeded PublishStatus = "succeeded"
	PublishFailed    PublishStatus = "failed"
	PublishConflict  PublishStatus = "conflict"
)

// PublishEvent records one attempt to commit a file to the hosting repository.
// This is a pure domain model with no database-specific dependencies or tags.
type PublishEvent struct {
	ID          string        `json:"id"`
	Path        string        `json:"path"`
	Status      PublishStatus `json:"status"`
	BaseSHA     string        `json:"base_sha,omitempty"`
	ContentSHA  string        `json:"content_sha,omitempty"`
	CommitSHA   string        `json:"commit_sha,omitempty"`
	SnapshotKey string        `json:"snapshot_key,omitempty"`
	Message     string        `json:"message"`
	Size        int64         `json:"size"`
	CreatedAt   time.Time     `json:"created_at"`
}
