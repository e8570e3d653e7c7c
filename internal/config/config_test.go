package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("GITHUB_OWNER", "soliddreamz")
	t.Setenv("GITHUB_REPO", "Base-Creator-Land")
	t.Setenv("GITHUB_API_URL", "https://ghe.example.com/api/v3/")
	t.Setenv("PUBLIC_CONTENT_URL", "")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Database.Enabled())
	assert.True(t, cfg.MinIO.UseSSL)
	assert.False(t, cfg.MinIO.Enabled())
	assert.Equal(t, "main", cfg.GitHub.Branch)
	assert.Equal(t, "Fan App/content.json", cfg.GitHub.ContentPath)
	assert.Equal(t, "https://ghe.example.com/api/v3", cfg.GitHub.APIURL)
	assert.Equal(t, "soliddreamz/Base-Creator-Land@main", cfg.GitHub.Label())
	assert.Equal(t, "https://soliddreamz.github.io/Base-Creator-Land/Fan%20App/content.json", cfg.Site.PublicContentURL)
	assert.Equal(t, "dev", cfg.Site.BuildVersion)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Run("missing owner and repo", func(t *testing.T) {
		cfg := &AppConfig{GitHub: GitHubConfig{Branch: "main", ContentPath: "content.json"}}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GITHUB_OWNER")
		assert.Contains(t, err.Error(), "GITHUB_REPO")
	})

	t.Run("invalid public url", func(t *testing.T) {
		cfg := &AppConfig{
			GitHub: GitHubConfig{Owner: "o", Repo: "r", Branch: "main", ContentPath: "content.json"},
			Site:   SiteConfig{PublicContentURL: "not a url"},
		}
		assert.Error(t, cfg.Validate())
	})
}

func TestDefaultPublicContentURL(t *testing.T) {
	assert.Equal(t, "", DefaultPublicContentURL(GitHubConfig{Owner: "o"}))
	assert.Equal(t,
		"https://o.github.io/r/content.json",
		DefaultPublicContentURL(GitHubConfig{Owner: "o", Repo: "r", ContentPath: "/content.json"}),
	)
}

func TestLocation(t *testing.T) {
	cfg := &AppConfig{Timezone: "Nowhere/Invalid"}
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Timezone = "UTC"
	assert.Equal(t, "UTC", cfg.Location().String())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}
