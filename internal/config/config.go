package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
// An empty Host disables the publish history.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// Enabled reports whether a database was configured.
func (c DatabaseConfig) Enabled() bool { return c.Host != "" }

// MinIOConfig holds object storage settings for published document snapshots.
// An empty Endpoint disables snapshots.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether object storage was configured.
func (c MinIOConfig) Enabled() bool { return c.Endpoint != "" }

// GitHubConfig locates the content document and its sibling assets in the hosting repository.
type GitHubConfig struct {
	APIURL        string
	Owner         string
	Repo          string
	Branch        string
	ContentPath   string
	ManifestPath  string
	IconDir       string
	CommitMessage string
	TimeoutSec    int
}

// Label renders owner/repo@branch for status lines.
func (c GitHubConfig) Label() string {
	return fmt.Sprintf("%s/%s@%s", c.Owner, c.Repo, c.Branch)
}

// SiteConfig describes the static fan app and dashboard hosted by the API process.
type SiteConfig struct {
	FanAppDir        string
	DashboardDir     string
	BuildVersion     string
	PublicContentURL string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port            string
	Timezone        string
	TokenFile       string
	ActivityLogSize int
	GitHub          GitHubConfig
	Site            SiteConfig
	Database        DatabaseConfig
	MinIO           MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	gh := GitHubConfig{
		APIURL:        strings.TrimRight(getEnv("GITHUB_API_URL", "https://api.github.com"), "/"),
		Owner:         getEnv("GITHUB_OWNER", ""),
		Repo:          getEnv("GITHUB_REPO", ""),
		Branch:        getEnv("GITHUB_BRANCH", "main"),
		ContentPath:   getEnv("GITHUB_CONTENT_PATH", "Fan App/content.json"),
		ManifestPath:  getEnv("GITHUB_MANIFEST_PATH", "Fan App/manifest.json"),
		IconDir:       getEnv("GITHUB_ICON_DIR", "Fan App/icons"),
		CommitMessage: getEnv("GITHUB_COMMIT_MESSAGE", "publish content.json via creator dashboard"),
		TimeoutSec:    getEnvInt("HTTP_TIMEOUT_SEC", 15),
	}

	return &AppConfig{
		Port:            getEnv("PORT", "8080"),
		Timezone:        getEnv("APP_TIMEZONE", "UTC"),
		TokenFile:       getEnv("TOKEN_FILE", defaultTokenFile()),
		ActivityLogSize: getEnvInt("ACTIVITY_LOG_SIZE", 200),
		GitHub:          gh,
		Site: SiteConfig{
			FanAppDir:        getEnv("FAN_APP_DIR", "Fan App"),
			DashboardDir:     getEnv("DASHBOARD_DIR", "creator-Dashboard"),
			BuildVersion:     getEnv("BUILD_VERSION", "dev"),
			PublicContentURL: getEnv("PUBLIC_CONTENT_URL", DefaultPublicContentURL(gh)),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

// Validate checks the settings every command needs to reach the hosting repository.
func (c *AppConfig) Validate() error {
	var missing []string
	if c.GitHub.Owner == "" {
		missing = append(missing, "GITHUB_OWNER")
	}
	if c.GitHub.Repo == "" {
		missing = append(missing, "GITHUB_REPO")
	}
	if c.GitHub.Branch == "" {
		missing = append(missing, "GITHUB_BRANCH")
	}
	if c.GitHub.ContentPath == "" {
		missing = append(missing, "GITHUB_CONTENT_PATH")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.Site.PublicContentURL == "" {
		return errors.New("PUBLIC_CONTENT_URL could not be derived")
	}
	if _, err := url.ParseRequestURI(c.Site.PublicContentURL); err != nil {
		return fmt.Errorf("invalid PUBLIC_CONTENT_URL: %w", err)
	}
	return nil
}

// Location resolves the configured timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DefaultPublicContentURL derives the GitHub Pages URL of the content document.
// Each path segment is escaped on its own so "Fan App" becomes "Fan%20App".
func DefaultPublicContentURL(gh GitHubConfig) string {
	if gh.Owner == "" || gh.Repo == "" || gh.ContentPath == "" {
		return ""
	}
	segs := strings.Split(strings.Trim(gh.ContentPath, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("https://%s.github.io/%s/%s", gh.Owner, gh.Repo, strings.Join(segs, "/"))
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".creatorhome-token"
	}
	return filepath.Join(dir, "creatorhome", "token")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
