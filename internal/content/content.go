// Package content decodes, cleans, validates and encodes the creator's content document.
//
// Encoding is canonical: a fixed key order, two-space indentation, no HTML escaping and
// no trailing newline, so a document that was written by Encode and read back by Decode
// encodes to the same bytes again.
package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"creatorhome/internal/model"
)

var (
	ErrInvalidContent  = errors.New("invalid content")
	ErrNotObject       = errors.New("content document must be a JSON object")
	ErrArchiveNotArray = errors.New("archive must be valid JSON ARRAY (or empty)")
)

var textPolicy = bluemonday.StrictPolicy()

// FieldError names one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every rejected field of a document.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid content: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidContent }

// Decode parses a document tolerantly: unknown keys are ignored and legacy field names
// are folded into the current shape.
func Decode(raw []byte) (model.Content, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return model.Content{}, ErrNotObject
	}
	var c model.Content
	if err := json.Unmarshal(trimmed, &c); err != nil {
		return model.Content{}, fmt.Errorf("decode content: %w", err)
	}
	return c, nil
}

// Normalize trims every string field, strips markup from free text and drops links
// that carry neither label nor url.
func Normalize(c model.Content) model.Content {
	out := c
	out.Name = plainText(c.Name)
	out.Bio = plainText(c.Bio)
	out.Theme = strings.TrimSpace(c.Theme)
	out.BackgroundColor = strings.TrimSpace(c.BackgroundColor)
	out.LiveTitle = plainText(c.LiveTitle)
	out.StreamURL = strings.TrimSpace(c.StreamURL)
	out.Announcement = plainText(c.Announcement)
	out.ContactEmail = strings.TrimSpace(c.ContactEmail)
	out.ContactLabel = plainText(c.ContactLabel)

	out.Links = nil
	for _, l := range c.Links {
		l.Label = plainText(l.Label)
		l.URL = strings.TrimSpace(l.URL)
		if l.Label == "" && l.URL == "" {
			continue
		}
		out.Links = append(out.Links, l)
	}

	out.Archive = nil
	if len(c.Archive) > 0 {
		out.Archive = append([]json.RawMessage(nil), c.Archive...)
	}
	return out
}

// plainText trims s and, only when it contains markup characters, removes tags.
// Plain strings pass through untouched so entities like "&amp;" typed by the creator survive.
// Sanitized output stays escaped: it never contains '<' or '>', so a second pass is a no-op.
func plainText(s string) string {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, "<>") {
		return s
	}
	return strings.TrimSpace(textPolicy.Sanitize(s))
}

// Validate reports every field that would make the published document unusable by the fan app.
func Validate(c model.Content) error {
	var fields []FieldError
	add := func(field, msg string) {
		fields = append(fields, FieldError{Field: field, Message: msg})
	}

	if c.StreamURL != "" && !isWebURL(c.StreamURL) {
		add("streamUrl", "must be an absolute http(s) url")
	}
	for i, l := range c.Links {
		name := fmt.Sprintf("links[%d]", i)
		if l.URL == "" {
			add(name+".url", "is required")
		} else if !isWebURL(l.URL) {
			add(name+".url", "must be an absolute http(s) url")
		}
	}
	if c.ContactEmail != "" {
		if _, err := mail.ParseAddress(c.ContactEmail); err != nil {
			add("contactEmail", "must be a valid email address")
		}
	}
	for i, item := range c.Archive {
		if !json.Valid(item) {
			add(fmt.Sprintf("archive[%d]", i), "must be valid JSON")
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func isWebURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Encode normalizes and validates c, then serializes it canonically.
func Encode(c model.Content) ([]byte, error) {
	n := Normalize(c)
	if err := Validate(n); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(n); err != nil {
		return nil, fmt.Errorf("encode content: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ParseArchive reads the archive as typed into the dashboard: empty means no archive,
// anything else must be a JSON array.
func ParseArchive(text string) ([]json.RawMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, ErrArchiveNotArray
	}
	return items, nil
}
