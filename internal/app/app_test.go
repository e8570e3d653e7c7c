package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creatorhome/internal/config"
	"creatorhome/internal/github/githubtest"
	"creatorhome/internal/logging"
	"creatorhome/internal/model"
	"creatorhome/internal/service"
)

func testConfig(t *testing.T, apiURL, publicURL string) *config.AppConfig {
	t.Helper()
	return &config.AppConfig{
		Timezone:        "UTC",
		TokenFile:       filepath.Join(t.TempDir(), "token"),
		ActivityLogSize: 20,
		GitHub: config.GitHubConfig{
			APIURL:       apiURL,
			Owner:        "nova",
			Repo:         "home",
			Branch:       "main",
			ContentPath:  "Fan App/content.json",
			ManifestPath: "Fan App/manifest.json",
			IconDir:      "Fan App/icons",
			TimeoutSec:   5,
		},
		Site: config.SiteConfig{PublicContentURL: publicURL},
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1", "https://nova.github.io/home/content.json")
	cfg.GitHub.Owner = ""

	_, err := New(context.Background(), cfg, logging.New(&bytes.Buffer{}, time.UTC), Options{})
	assert.ErrorContains(t, err, "GITHUB_OWNER")
}

func TestNew_PublishWithoutSideStores(t *testing.T) {
	gh := githubtest.NewServer("tok")
	defer gh.Close()

	pages := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := gh.File("Fan App/content.json")
		if b == nil {
			b = []byte(`{}`)
		}
		_, _ = w.Write(b)
	}))
	defer pages.Close()

	var logs bytes.Buffer
	cfg := testConfig(t, gh.URL, pages.URL+"/content.json")
	a, err := New(context.Background(), cfg, logging.New(&logs, time.UTC), Options{})
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.DB)
	assert.Contains(t, logs.String(), "history_configured")
	assert.Contains(t, logs.String(), "snapshots_configured")

	tok, err := a.Token("")
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, a.Tokens.Set("tok"))
	tok, err = a.Token("")
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)

	tok, err = a.Token("override")
	require.NoError(t, err)
	assert.Equal(t, "override", tok)

	res, err := a.Content.Publish(context.Background(), "tok", service.PublishRequest{
		Content: model.Content{Name: "Nova", IsLive: true},
	})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Empty(t, res.EventID)
	assert.Empty(t, res.SnapshotKey)

	loaded, err := a.Content.Load(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "Nova", loaded.Content.Name)
	assert.Equal(t, res.ContentSHA, loaded.SHA)
	assert.Equal(t, "nova/home@main", loaded.Repo)

	_, err = a.History.List(context.Background(), 10, 0)
	assert.ErrorIs(t, err, service.ErrHistoryDisabled)

	assert.NotEmpty(t, a.Activity.Entries(0))
}
