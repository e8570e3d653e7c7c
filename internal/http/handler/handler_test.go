package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"creatorhome/internal/activity"
	"creatorhome/internal/config"
	"creatorhome/internal/content"
	"creatorhome/internal/fanapp"
	"creatorhome/internal/github"
	"creatorhome/internal/github/githubtest"
	"creatorhome/internal/http/middleware"
	"creatorhome/internal/icon"
	"creatorhome/internal/logging"
	"creatorhome/internal/model"
	"creatorhome/internal/repository"
	"creatorhome/internal/service"
	"creatorhome/internal/storage"
	serviceMocks "creatorhome/internal/service/mocks"
	"creatorhome/internal/token"
	tokenMocks "creatorhome/internal/token/mocks"
)

// withToken puts tok where middleware.Token would.
func withToken(tok string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.TokenLocalKey, tok)
		return c.Next()
	}
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})

	t.Run("history disabled", func(t *testing.T) {
		app := fiber.New()
		app.Get("/health", HealthCheck(nil))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "disabled", body["history"])
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetContent(t *testing.T) {
	mockSvc := new(serviceMocks.MockContentService)
	app := fiber.New()
	app.Get("/api/content", withToken("tok"), GetContent(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Load", mock.Anything, "tok").
			Return(&service.LoadResult{Content: model.Content{Name: "Nova"}, SHA: "abc"}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/content", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body service.LoadResult
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "Nova", body.Content.Name)
		assert.Equal(t, "abc", body.SHA)
		mockSvc.AssertExpectations(t)
	})

	t.Run("public site down", func(t *testing.T) {
		mockSvc.On("Load", mock.Anything, "tok").
			Return(nil, fmt.Errorf("%w (503)", service.ErrPublicUnavailable)).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/content", nil))

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "UPSTREAM_ERROR", body.Error.Code)
		assert.Equal(t, "failed to load content.json (503)", body.Error.Message)
		mockSvc.AssertExpectations(t)
	})
}

func TestPublishContent(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMocks func(svc *serviceMocks.MockContentService)
		wantStatus int
		wantCode   string
	}{
		{
			name: "success",
			body: `{"content":{"name":"Nova","isLive":true},"sha":"abc"}`,
			setupMocks: func(svc *serviceMocks.MockContentService) {
				svc.On("Publish", mock.Anything, "tok", mock.MatchedBy(func(r service.PublishRequest) bool {
					return r.BaseSHA == "abc" && r.Content.Name == "Nova" && r.Content.IsLive
				})).Return(&service.PublishResult{ContentSHA: "def"}, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed body",
			body:       `{"content":`,
			setupMocks: func(svc *serviceMocks.MockContentService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_BODY",
		},
		{
			name: "no token",
			body: `{"content":{}}`,
			setupMocks: func(svc *serviceMocks.MockContentService) {
				svc.On("Publish", mock.Anything, "tok", mock.Anything).Return(nil, service.ErrTokenRequired).Once()
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "TOKEN_REQUIRED",
		},
		{
			name: "bad token",
			body: `{"content":{}}`,
			setupMocks: func(svc *serviceMocks.MockContentService) {
				svc.On("Publish", mock.Anything, "tok", mock.Anything).
					Return(nil, fmt.Errorf("%w: %w", github.ErrUnauthorized, &github.APIError{Method: "PUT", Status: 401})).Once()
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
		},
		{
			name: "stale sha",
			body: `{"content":{},"sha":"old"}`,
			setupMocks: func(svc *serviceMocks.MockContentService) {
				svc.On("Publish", mock.Anything, "tok", mock.Anything).Return(nil, service.ErrConflict).Once()
			},
			wantStatus: http.StatusConflict,
			wantCode:   "CONFLICT",
		},
		{
			name: "invalid content",
			body: `{"content":{"streamUrl":"nope"}}`,
			setupMocks: func(svc *serviceMocks.MockContentService) {
				svc.On("Publish", mock.Anything, "tok", mock.Anything).Return(nil, &content.ValidationError{
					Fields: []content.FieldError{{Field: "streamUrl", Message: "must be an absolute http(s) url"}},
				}).Once()
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "INVALID_CONTENT",
		},
		{
			name: "github failure",
			body: `{"content":{}}`,
			setupMocks: func(svc *serviceMocks.MockContentService) {
				svc.On("Publish", mock.Anything, "tok", mock.Anything).
					Return(nil, &github.APIError{Method: "PUT", Status: 500, Body: "boom"}).Once()
			},
			wantStatus: http.StatusBadGateway,
			wantCode:   "UPSTREAM_ERROR",
		},
		{
			name: "unexpected failure",
			body: `{"content":{}}`,
			setupMocks: func(svc *serviceMocks.MockContentService) {
				svc.On("Publish", mock.Anything, "tok", mock.Anything).Return(nil, errors.New("disk full")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(serviceMocks.MockContentService)
			tt.setupMocks(mockSvc)

			app := fiber.New()
			app.Put("/api/content", withToken("tok"), PublishContent(mockSvc))

			resp, err := app.Test(jsonRequest(http.MethodPut, "/api/content", tt.body))
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, resp).Error.Code)
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestPublishContent_ValidationFields(t *testing.T) {
	mockSvc := new(serviceMocks.MockContentService)
	mockSvc.On("Publish", mock.Anything, "", mock.Anything).Return(nil, &content.ValidationError{
		Fields: []content.FieldError{{Field: "links[0].url", Message: "is required"}},
	})

	app := fiber.New()
	app.Put("/api/content", PublishContent(mockSvc))

	resp, _ := app.Test(jsonRequest(http.MethodPut, "/api/content", `{"content":{}}`))

	body := decodeError(t, resp)
	require.Len(t, body.Error.Fields, 1)
	assert.Equal(t, "links[0].url", body.Error.Fields[0].Field)
}

func TestPreviewContent(t *testing.T) {
	mockSvc := new(serviceMocks.MockContentService)
	app := fiber.New()
	app.Post("/api/content/preview", PreviewContent(mockSvc))

	mockSvc.On("Preview", model.Content{Name: "Nova"}).
		Return(&service.PreviewResult{JSON: "{\n  \"name\": \"Nova\",\n  \"isLive\": false\n}", Status: "STATUS: LIVE = false"}, nil).Once()

	resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/content/preview", `{"content":{"name":"Nova"}}`))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body service.PreviewResult
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "STATUS: LIVE = false", body.Status)
	mockSvc.AssertExpectations(t)
}

func multipartBody(t *testing.T, field, name string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, name)
	require.NoError(t, err)
	part.Write(data)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadIcon(t *testing.T) {
	mockSvc := new(serviceMocks.MockAssetService)
	app := fiber.New()
	app.Post("/api/icons", withToken("tok"), UploadIcon(mockSvc))

	t.Run("success", func(t *testing.T) {
		body, ct := multipartBody(t, "file", "logo.png", []byte("pngdata"))
		mockSvc.On("UploadIcon", mock.Anything, "tok", []byte("pngdata")).
			Return(&service.IconResult{Icons: []service.CommittedFile{{Path: "Fan App/icons/icon-192.png"}}}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/icons", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var res service.IconResult
		json.NewDecoder(resp.Body).Decode(&res)
		require.Len(t, res.Icons, 1)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/icons", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		body, ct := multipartBody(t, "file", "logo.txt", []byte("hello"))
		mockSvc.On("UploadIcon", mock.Anything, "tok", []byte("hello")).
			Return(nil, errors.New("upload failed")).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/icons", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("image too large", func(t *testing.T) {
		body, ct := multipartBody(t, "file", "huge.png", []byte("huge"))
		mockSvc.On("UploadIcon", mock.Anything, "tok", []byte("huge")).
			Return(nil, fmt.Errorf("%w: 10000x10000", icon.ErrImageTooLarge)).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/icons", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
		assert.Equal(t, "IMAGE_TOO_LARGE", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("unsupported image", func(t *testing.T) {
		body, ct := multipartBody(t, "file", "logo.bmp", []byte("bmp"))
		mockSvc.On("UploadIcon", mock.Anything, "tok", []byte("bmp")).
			Return(nil, icon.ErrUnsupportedImage).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/icons", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, "UNSUPPORTED_IMAGE", decodeError(t, resp).Error.Code)
	})
}

func TestBumpManifest(t *testing.T) {
	mockSvc := new(serviceMocks.MockAssetService)
	app := fiber.New()
	app.Post("/api/manifest/bump", withToken("tok"), BumpManifest(mockSvc))

	t.Run("empty body bumps version", func(t *testing.T) {
		mockSvc.On("BumpManifest", mock.Anything, "tok", service.BumpRequest{}).
			Return(&service.ManifestResult{OldVersion: "1.0.0", NewVersion: "1.0.1"}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/api/manifest/bump", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var res service.ManifestResult
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "1.0.1", res.NewVersion)
		mockSvc.AssertExpectations(t)
	})

	t.Run("identity sync", func(t *testing.T) {
		mockSvc.On("BumpManifest", mock.Anything, "tok", service.BumpRequest{Name: "Nova"}).
			Return(&service.ManifestResult{NameChanged: true}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/manifest/bump", `{"name":"Nova"}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("manifest missing", func(t *testing.T) {
		mockSvc.On("BumpManifest", mock.Anything, "tok", service.BumpRequest{}).
			Return(nil, fmt.Errorf("%w: Fan App/manifest.json", service.ErrNotFound)).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/api/manifest/bump", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})
}

func TestTokenHandlers(t *testing.T) {
	log := activity.New(10, time.UTC)

	t.Run("set", func(t *testing.T) {
		store := new(tokenMocks.MockStore)
		store.On("Set", "ghp_new").Return(nil).Once()

		app := fiber.New()
		app.Put("/api/token", SetToken(store, log))
		resp, _ := app.Test(jsonRequest(http.MethodPut, "/api/token", `{"token":"ghp_new"}`))

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, "Token saved on this device.", log.Entries(1)[0].Message)
		store.AssertExpectations(t)
	})

	t.Run("set empty", func(t *testing.T) {
		store := new(tokenMocks.MockStore)
		store.On("Set", " ").Return(token.ErrEmptyToken).Once()

		app := fiber.New()
		app.Put("/api/token", SetToken(store, log))
		resp, _ := app.Test(jsonRequest(http.MethodPut, "/api/token", `{"token":" "}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "TOKEN_EMPTY", decodeError(t, resp).Error.Code)
		store.AssertExpectations(t)
	})

	t.Run("set failure", func(t *testing.T) {
		store := new(tokenMocks.MockStore)
		store.On("Set", "ghp_new").Return(errors.New("read-only file system")).Once()

		app := fiber.New()
		app.Put("/api/token", SetToken(store, log))
		resp, _ := app.Test(jsonRequest(http.MethodPut, "/api/token", `{"token":"ghp_new"}`))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "ERROR: read-only file system", log.Entries(1)[0].Message)
		store.AssertExpectations(t)
	})

	t.Run("clear", func(t *testing.T) {
		store := new(tokenMocks.MockStore)
		store.On("Clear").Return(nil).Once()

		app := fiber.New()
		app.Delete("/api/token", ClearToken(store, log))
		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/api/token", nil))

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		store.AssertExpectations(t)
	})

	t.Run("status never echoes the token", func(t *testing.T) {
		app := fiber.New()
		app.Get("/api/token", withToken("ghp_secret"), TokenStatus())
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/token", nil))

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.JSONEq(t, `{"present":true}`, buf.String())
	})
}

func TestListActivity(t *testing.T) {
	log := activity.New(10, time.UTC)
	log.Info("first")
	log.Info("second")

	app := fiber.New()
	app.Get("/api/activity", ListActivity(log))

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/activity?limit=1", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Entries []activityEntry `json:"entries"`
	}
	json.NewDecoder(resp.Body).Decode(&body)
	require.Len(t, body.Entries, 1)
	assert.Equal(t, "second", body.Entries[0].Message)
	assert.True(t, strings.HasSuffix(body.Entries[0].Line, "] second"))

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/api/activity?limit=x", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListPublishes(t *testing.T) {
	mockSvc := new(serviceMocks.MockHistoryService)
	app := fiber.New()
	app.Get("/api/publishes", ListPublishes(mockSvc))

	t.Run("success", func(t *testing.T) {
		page := &repository.PageResult[model.PublishEvent]{
			Items: []model.PublishEvent{{ID: "evt-1", Status: model.PublishSucceeded}},
			Total: 1,
			Limit: 10,
		}
		mockSvc.On("List", mock.Anything, 10, 0).Return(page, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/publishes?limit=10&offset=0", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result publishList
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("reports the clamped page", func(t *testing.T) {
		page := &repository.PageResult[model.PublishEvent]{Total: 300, Limit: 100, Offset: 0}
		mockSvc.On("List", mock.Anything, 1000, -5).Return(page, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/publishes?limit=1000&offset=-5", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result publishList
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, 100, result.Limit)
		assert.Equal(t, 0, result.Offset)
		assert.NotNil(t, result.Items)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/publishes?limit=abc", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid offset", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/publishes?offset=abc", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_OFFSET", decodeError(t, resp).Error.Code)
	})

	t.Run("history disabled", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, 10, 0).Return(nil, service.ErrHistoryDisabled).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/publishes", nil))

		assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
		assert.Equal(t, "NOT_CONFIGURED", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestGetSnapshot(t *testing.T) {
	mockSvc := new(serviceMocks.MockHistoryService)
	app := fiber.New()
	app.Get("/api/publishes/:id/snapshot", GetSnapshot(mockSvc))

	snap := &service.Snapshot{EventID: "evt-1", URL: "https://minio.local/s.json?sig=x"}

	t.Run("json", func(t *testing.T) {
		mockSvc.On("SnapshotURL", mock.Anything, "evt-1").Return(snap, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/publishes/evt-1/snapshot", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body service.Snapshot
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, snap.URL, body.URL)
	})

	t.Run("redirect", func(t *testing.T) {
		mockSvc.On("SnapshotURL", mock.Anything, "evt-1").Return(snap, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/publishes/evt-1/snapshot?redirect=true", nil))

		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, snap.URL, resp.Header.Get("Location"))
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("SnapshotURL", mock.Anything, "nope").Return(nil, service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/publishes/nope/snapshot", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	mockSvc.AssertExpectations(t)
}

func TestListSnapshots(t *testing.T) {
	mockSvc := new(serviceMocks.MockHistoryService)
	app := fiber.New()
	app.Get("/api/snapshots", ListSnapshots(mockSvc))

	tests := []struct {
		name       string
		url        string
		setupMocks func()
		wantStatus int
		wantCode   string
		wantKeys   []string
	}{
		{
			name: "success",
			url:  "/api/snapshots?limit=2",
			setupMocks: func() {
				mockSvc.On("Snapshots", mock.Anything, 2).Return([]storage.ObjectInfo{
					{Key: "snapshots/content.json/20260504T193000Z-b.json"},
					{Key: "snapshots/content.json/20260503T193000Z-a.json"},
				}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantKeys: []string{
				"snapshots/content.json/20260504T193000Z-b.json",
				"snapshots/content.json/20260503T193000Z-a.json",
			},
		},
		{
			name: "empty bucket",
			url:  "/api/snapshots",
			setupMocks: func() {
				mockSvc.On("Snapshots", mock.Anything, 10).Return(nil, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantKeys:   []string{},
		},
		{
			name:       "invalid limit",
			url:        "/api/snapshots?limit=x",
			setupMocks: func() {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_LIMIT",
		},
		{
			name: "bucket not configured",
			url:  "/api/snapshots",
			setupMocks: func() {
				mockSvc.On("Snapshots", mock.Anything, 10).Return(nil, service.ErrHistoryDisabled).Once()
			},
			wantStatus: http.StatusNotImplemented,
			wantCode:   "NOT_CONFIGURED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMocks()

			resp, _ := app.Test(httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, resp).Error.Code)
				return
			}
			var body struct {
				Items []struct {
					Key string `json:"key"`
				} `json:"items"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			keys := []string{}
			for _, it := range body.Items {
				keys = append(keys, it.Key)
			}
			assert.Equal(t, tt.wantKeys, keys)
		})
	}
	mockSvc.AssertExpectations(t)
}

func TestGetSnapshotContent(t *testing.T) {
	mockSvc := new(serviceMocks.MockHistoryService)
	app := fiber.New()
	app.Get("/api/snapshots/content", GetSnapshotContent(mockSvc))

	key := "snapshots/content.json/20260504T193000Z-b.json"

	t.Run("success", func(t *testing.T) {
		mockSvc.On("SnapshotContent", mock.Anything, key).Return(model.Content{Name: "Nova", IsLive: true}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/snapshots/content?key="+url.QueryEscape(key), nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body model.Content
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "Nova", body.Name)
		assert.True(t, body.IsLive)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("SnapshotContent", mock.Anything, "snapshots/other.json").Return(model.Content{}, service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/snapshots/content?key=snapshots/other.json", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("missing key", func(t *testing.T) {
		mockSvc.On("SnapshotContent", mock.Anything, "").Return(model.Content{}, service.ErrIDRequired).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/snapshots/content", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

func TestRouting(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<h1>fan</h1>"), 0o644))

	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	contentSvc := new(serviceMocks.MockContentService)
	store := new(tokenMocks.MockStore)
	logger := logging.New(&bytes.Buffer{}, time.UTC)
	RegisterRoutes(app, Deps{
		Content:  contentSvc,
		Assets:   new(serviceMocks.MockAssetService),
		History:  new(serviceMocks.MockHistoryService),
		Activity: activity.New(10, time.UTC),
		Tokens:   store,
		Logger:   logger,
	})
	RegisterStatic(app,
		fanapp.Site{Root: root, Mount: "/", Logger: logger},
		fanapp.Site{Root: t.TempDir(), Mount: "/dashboard", Logger: logger},
	)

	t.Run("remote request without header gets no stored token", func(t *testing.T) {
		contentSvc.On("Load", mock.Anything, "").Return(&service.LoadResult{}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/content", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		contentSvc.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("token endpoints are local only", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPut, "/api/token", `{"token":"ghp_evil"}`))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Error.Code)

		resp, _ = app.Test(httptest.NewRequest(http.MethodDelete, "/api/token", nil))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		store.AssertExpectations(t)
	})

	t.Run("fan app is served at root", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))
	})

	t.Run("dashboard without slash redirects", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		assert.Equal(t, http.StatusMovedPermanently, resp.StatusCode)
		assert.Equal(t, "/dashboard/", resp.Header.Get("Location"))
	})

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
	})
}

// newStoredTokenApp serves the API backed by a fake repository, with "tok" already
// stored on this machine.
func newStoredTokenApp(t *testing.T) (*fiber.App, *githubtest.Server) {
	t.Helper()
	gh := githubtest.NewServer("tok")
	t.Cleanup(gh.Close)

	store := token.NewFileStore(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, store.Set("tok"))

	logger := logging.New(&bytes.Buffer{}, time.UTC)
	contentSvc := service.NewContentService(service.ContentOptions{
		GitHub: github.NewClient(config.GitHubConfig{
			APIURL: gh.URL, Owner: "nova", Repo: "home", Branch: "main", TimeoutSec: 5,
		}, nil),
		Public: service.NewPublicSource(gh.URL+"/pages/content.json", nil),
		Logger: logger,
		Path:   "Fan App/content.json",
	})

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(), DisableStartupMessage: true})
	RegisterRoutes(app, Deps{
		Content:  contentSvc,
		Assets:   new(serviceMocks.MockAssetService),
		History:  new(serviceMocks.MockHistoryService),
		Activity: activity.New(10, time.UTC),
		Tokens:   store,
		Logger:   logger,
	})
	return app, gh
}

const defaceBody = `{"content":{"name":"defaced","announcement":"pwned"}}`

func TestPublish_StoredTokenRequiresLocalRequest(t *testing.T) {
	app, gh := newStoredTokenApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPut, "/api/content", defaceBody))
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "TOKEN_REQUIRED", decodeError(t, resp).Error.Code)
	assert.Zero(t, gh.Commits())
	_, stored := gh.File("Fan App/content.json")
	assert.False(t, stored)
}

func TestPublish_StoredTokenOverLoopback(t *testing.T) {
	app, gh := newStoredTokenApp(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	put := func(headers map[string]string) *http.Response {
		req, err := http.NewRequest(http.MethodPut, "http://"+ln.Addr().String()+"/api/content", strings.NewReader(defaceBody))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	resp := put(map[string]string{"Sec-Fetch-Site": "cross-site", "Origin": "https://evil.example"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, gh.Commits())

	resp = put(map[string]string{"Sec-Fetch-Site": "same-origin"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, gh.Commits())
}
