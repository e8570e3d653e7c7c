package service

import (
	"errors"

	"creatorhome/internal/content"
	"creatorhome/internal/github"
)

var (
	ErrTokenRequired   = github.ErrTokenRequired
	ErrUnauthorized    = github.ErrUnauthorized
	ErrConflict        = github.ErrConflict
	ErrInvalidContent  = content.ErrInvalidContent
	ErrNotFound        = errors.New("not found")
	ErrIDRequired      = errors.New("id is required")
	ErrHistoryDisabled = errors.New("publish history is not configured")
	ErrImageRequired   = errors.New("image is required")
)
