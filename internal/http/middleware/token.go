package middleware

import (
	"net"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"creatorhome/internal/logging"
	"creatorhome/internal/token"
)

// TokenLocalKey is the Fiber locals key holding the GitHub token for the request.
const TokenLocalKey = "github_token"

// isLocal is replaced in tests; app.Test requests never come from loopback.
var isLocal = LocalRequest

// Token resolves the creator token. An Authorization bearer header always wins. The
// stored token is only used for same-origin requests from this machine, so fans
// reaching the public listener can never publish with it. A missing token is not an
// error here; the publish path rejects it.
func Token(store token.Store, log *logging.Logger) fiber.Handler {
	if log == nil {
		log = logging.Default()
	}
	return func(c *fiber.Ctx) error {
		if tok := bearer(c.Get(fiber.HeaderAuthorization)); tok != "" {
			c.Locals(TokenLocalKey, tok)
			return c.Next()
		}

		var tok string
		if isLocal(c) {
			var err error
			tok, err = token.Resolve(store, "")
			if err != nil {
				log.Error("http", "token_read_failed", err, map[string]any{"path": c.Path()})
			}
		}
		c.Locals(TokenLocalKey, tok)
		return c.Next()
	}
}

// LocalOnly rejects requests that are not same-origin requests from loopback.
func LocalOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !isLocal(c) {
			return fiber.ErrForbidden
		}
		return c.Next()
	}
}

// LocalRequest reports whether c came from loopback and was not issued by another site.
func LocalRequest(c *fiber.Ctx) bool {
	return localRequest(c.Context().RemoteIP(), c.Get("Sec-Fetch-Site"), c.Get(fiber.HeaderOrigin), c.Get(fiber.HeaderHost))
}

// localRequest holds the decision so it can be tested without a socket. Browsers send
// Sec-Fetch-Site on every request; older ones still send Origin on cross-site writes.
func localRequest(ip net.IP, fetchSite, origin, host string) bool {
	if ip == nil || !ip.IsLoopback() {
		return false
	}
	switch strings.ToLower(fetchSite) {
	case "", "same-origin", "none":
	default:
		return false
	}
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, host)
}

// TokenFromCtx returns the token stored by Token.
func TokenFromCtx(c *fiber.Ctx) string {
	s, _ := c.Locals(TokenLocalKey).(string)
	return s
}

func bearer(h string) string {
	scheme, value, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(value)
}
