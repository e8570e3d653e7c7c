// Package fanapp serves the fan app and the creator dashboard as static sites with the
// cache behaviour their service workers expect.
package fanapp

import (
	"bytes"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"creatorhome/internal/logging"
)

// BuildVersionPlaceholder is replaced in service worker scripts so each deploy gets its
// own cache names.
const BuildVersionPlaceholder = "__BUILD_VERSION__"

const (
	contentFile     = "content.json"
	noStore         = "no-store"
	noCache         = "no-cache"
	longLived       = "public, max-age=86400"
	staleRevalidate = "public, max-age=0, stale-while-revalidate=86400"
)

var serviceWorkers = map[string]bool{
	"service-worker.js": true,
	"sw.js":             true,
}

// CachePolicy returns the Cache-Control value for a file name.
func CachePolicy(name string) string {
	base := strings.ToLower(path.Base(name))
	if base == contentFile {
		return noStore
	}
	if serviceWorkers[base] || base == "manifest.json" {
		return noCache
	}

	switch path.Ext(base) {
	case ".html", ".htm", ".js", ".mjs", ".css", ".webmanifest":
		return noCache
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".avif", ".svg", ".ico",
		".woff", ".woff2", ".ttf", ".otf", ".eot":
		return longLived
	default:
		return staleRevalidate
	}
}

// Site is one static directory mounted under a URL prefix.
type Site struct {
	Root         string
	Mount        string
	BuildVersion string
	Logger       *logging.Logger
}

// Handler serves files under Root for routes registered with a trailing wildcard.
func (s Site) Handler() fiber.Handler {
	if s.Logger == nil {
		s.Logger = logging.Default()
	}
	if s.BuildVersion == "" {
		s.BuildVersion = "dev"
	}
	mount := "/" + strings.Trim(s.Mount, "/")
	if mount != "/" {
		mount += "/"
	}

	return func(c *fiber.Ctx) error {
		rel, ok := cleanPath(c.Params("*"))
		if !ok {
			return fiber.ErrNotFound
		}

		full := filepath.Join(s.Root, filepath.FromSlash(rel))
		info, err := os.Stat(full)
		if err == nil && info.IsDir() {
			rel = path.Join(rel, "index.html")
			full = filepath.Join(full, "index.html")
			info, err = os.Stat(full)
		}

		base := path.Base(rel)
		if base == contentFile && (err != nil || info.IsDir()) {
			return s.emptyContent(c, rel, err)
		}
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fiber.ErrNotFound
			}
			return err
		}
		if info.IsDir() {
			return fiber.ErrNotFound
		}

		if serviceWorkers[strings.ToLower(base)] {
			return s.serviceWorker(c, full, mount)
		}

		c.Type(strings.TrimPrefix(path.Ext(base), "."))
		if err := c.SendFile(full); err != nil {
			return err
		}
		c.Set(fiber.HeaderCacheControl, CachePolicy(base))
		return nil
	}
}

// emptyContent answers like the fan service worker does when content.json is unreachable.
func (s Site) emptyContent(c *fiber.Ctx, rel string, cause error) error {
	fields := map[string]any{"path": rel, "root": s.Root}
	if cause != nil {
		fields["reason"] = cause.Error()
	}
	s.Logger.Event("fanapp", "content_fallback", "degraded", fields)

	c.Set(fiber.HeaderCacheControl, noStore)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(fiber.StatusOK).SendString("{}")
}

func (s Site) serviceWorker(c *fiber.Ctx, full, mount string) error {
	b, err := os.ReadFile(full)
	if err != nil {
		return err
	}
	b = bytes.ReplaceAll(b, []byte(BuildVersionPlaceholder), []byte(s.BuildVersion))

	c.Set(fiber.HeaderCacheControl, noCache)
	c.Set("Service-Worker-Allowed", mount)
	c.Set(fiber.HeaderContentType, "text/javascript; charset=utf-8")
	return c.Send(b)
}

// cleanPath unescapes p and refuses any form of parent traversal.
func cleanPath(p string) (string, bool) {
	unescaped, err := url.PathUnescape(p)
	if err != nil {
		return "", false
	}
	unescaped = strings.ReplaceAll(unescaped, "\\", "/")
	for _, seg := range strings.Split(unescaped, "/") {
		if seg == ".." {
			return "", false
		}
	}
	rel := strings.TrimPrefix(path.Clean("/"+unescaped), "/")
	if rel == "" {
		rel = "."
	}
	return rel, true
}
