package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creatorhome/internal/app"
	"creatorhome/internal/content"
	"creatorhome/internal/github/githubtest"
	"creatorhome/internal/service"
)

const contentPath = "Fan App/content.json"

// setupEnv points the configuration at a fake GitHub API and a fake Pages host
// serving whatever the fake repository currently holds.
func setupEnv(t *testing.T) *githubtest.Server {
	t.Helper()
	gh := githubtest.NewServer("tok")
	t.Cleanup(gh.Close)

	pages := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, ok := gh.File(contentPath)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(b)
	}))
	t.Cleanup(pages.Close)

	t.Setenv("GITHUB_API_URL", gh.URL)
	t.Setenv("GITHUB_OWNER", "nova")
	t.Setenv("GITHUB_REPO", "home")
	t.Setenv("GITHUB_BRANCH", "main")
	t.Setenv("GITHUB_CONTENT_PATH", contentPath)
	t.Setenv("PUBLIC_CONTENT_URL", pages.URL+"/content.json")
	t.Setenv("TOKEN_FILE", filepath.Join(t.TempDir(), "token"))
	t.Setenv("DB_HOST", "")
	t.Setenv("MINIO_ENDPOINT", "")
	return gh
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd(app.Options{})
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeContent(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "content.json")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestToken(t *testing.T) {
	setupEnv(t)

	out, _, err := run(t, "token", "status")
	require.NoError(t, err)
	assert.Equal(t, "No token stored.\n", out)

	out, _, err = run(t, "token", "set", "  tok  ")
	require.NoError(t, err)
	assert.Equal(t, "Token saved locally.\n", out)

	out, _, err = run(t, "token", "status")
	require.NoError(t, err)
	assert.Equal(t, "Token stored.\n", out)

	out, _, err = run(t, "token", "clear")
	require.NoError(t, err)
	assert.Equal(t, "Token cleared.\n", out)

	out, _, err = run(t, "token", "status")
	require.NoError(t, err)
	assert.Equal(t, "No token stored.\n", out)
}

func TestPublishAndLoad(t *testing.T) {
	gh := setupEnv(t)
	file := writeContent(t, `{"name":" Nova ","isLive":true,"streamUrl":"https://twitch.tv/nova"}`)

	_, _, err := run(t, "publish", "-f", file)
	assert.ErrorIs(t, err, service.ErrTokenRequired)
	assert.Zero(t, gh.Requests())

	_, _, err = run(t, "token", "set", "tok")
	require.NoError(t, err)

	out, errOut, err := run(t, "publish", "-f", file, "-m", "go live")
	require.NoError(t, err)
	assert.Contains(t, out, `"created": true`)
	assert.Contains(t, out, `"status": "STATUS: LIVE published"`)
	assert.Contains(t, errOut, "Publish success. New sha:")

	stored, ok := gh.File(contentPath)
	require.True(t, ok)
	assert.Contains(t, string(stored), `"name": "Nova"`)

	out, errOut, err = run(t, "load")
	require.NoError(t, err)
	assert.Equal(t, string(stored)+"\n", out)
	assert.Contains(t, errOut, "sha: "+githubtest.BlobSHA(stored))

	// A document that moved since the sha was read is never overwritten.
	gh.SetFile(contentPath, []byte(`{"name":"Someone else"}`))
	commits := gh.Commits()
	_, _, err = run(t, "publish", "-f", file, "--sha", githubtest.BlobSHA(stored))
	assert.ErrorIs(t, err, service.ErrConflict)
	assert.Equal(t, commits, gh.Commits())

	_, _, err = run(t, "load", "--token", "wrong")
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestPreview(t *testing.T) {
	file := writeContent(t, `{"name":"Nova","links":[{"label":"Shop","url":"ftp://shop"}]}`)

	_, _, err := run(t, "preview", "-f", file)
	var verr *content.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "links[0].url", verr.Fields[0].Field)

	file = writeContent(t, `{"name":"Nova","isLive":false}`)
	out, errOut, err := run(t, "preview", "-f", file)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Nova","isLive":false}`, out)
	assert.Contains(t, errOut, "STATUS: LIVE = false")
}

func TestHistoryDisabled(t *testing.T) {
	setupEnv(t)

	tests := [][]string{
		{"history", "list"},
		{"history", "snapshot", "3f1c2a7e-5b7d-4c1e-9a55-0c2f7d1e8b10"},
		{"history", "snapshots"},
		{"history", "show", "snapshots/Fan-App_content.json/20260504T193000Z-abc.json"},
	}
	for _, args := range tests {
		t.Run(args[1], func(t *testing.T) {
			_, _, err := run(t, args...)
			assert.ErrorIs(t, err, service.ErrHistoryDisabled)
		})
	}
}

func TestInvalidConfig(t *testing.T) {
	setupEnv(t)
	t.Setenv("GITHUB_OWNER", "")

	_, _, err := run(t, "load")
	assert.ErrorContains(t, err, "GITHUB_OWNER")
}
