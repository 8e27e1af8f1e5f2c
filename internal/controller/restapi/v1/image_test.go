package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/andreyxaxa/Image-Gallery/config"
	"github.com/andreyxaxa/Image-Gallery/internal/controller/restapi"
	"github.com/andreyxaxa/Image-Gallery/internal/dto"
	"github.com/andreyxaxa/Image-Gallery/internal/entity"
	"github.com/andreyxaxa/Image-Gallery/pkg/httpserver"
	"github.com/andreyxaxa/Image-Gallery/pkg/logger"
	"github.com/andreyxaxa/Image-Gallery/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImageUseCase struct {
	uploadCalls int
	listCalls   int
	searchCalls int
	deleteFound bool
	healthErr   error
}

func (f *fakeImageUseCase) Upload(_ context.Context, data []byte, contentType string, opts dto.UploadOptions) (*entity.Asset, error) {
	f.uploadCalls++

	return &entity.Asset{
		PublicID:     "gallery/cat",
		URL:          "https://cdn.example.com/gallery/cat.jpg",
		Format:       "jpg",
		Width:        800,
		Height:       600,
		Bytes:        int64(len(data)),
		CreatedAt:    time.Now(),
		ThumbnailURL: "https://cdn.example.com/c_fill,h_200,w_200/q_auto/f_auto/gallery/cat",
		Tags:         opts.Tags,
	}, nil
}

func (f *fakeImageUseCase) Get(_ context.Context, publicID string) (*entity.Asset, error) {
	if publicID != "gallery/cat" {
		return nil, fmt.Errorf("ImageUseCase - Get - uc.gateway.Fetch: %w", errs.ErrNotFound)
	}

	return &entity.Asset{PublicID: publicID}, nil
}

func (f *fakeImageUseCase) Delete(_ context.Context, _ string) (bool, error) {
	found := f.deleteFound
	f.deleteFound = false

	return found, nil
}

func (f *fakeImageUseCase) List(_ context.Context, params dto.ListParams) (*entity.AssetPage, error) {
	f.listCalls++

	return &entity.AssetPage{Assets: []entity.Asset{}, NextCursor: ""}, nil
}

func (f *fakeImageUseCase) Search(_ context.Context, _ dto.SearchParams) (*entity.AssetPage, error) {
	f.searchCalls++

	return &entity.AssetPage{}, nil
}

func (f *fakeImageUseCase) BulkDelete(_ context.Context, publicIDs []string) (*entity.BulkDeleteResult, error) {
	deleted := make(map[string]string, len(publicIDs))
	partial := false

	for _, id := range publicIDs {
		if strings.HasPrefix(id, "missing") {
			deleted[id] = "not_found"
			partial = true
		} else {
			deleted[id] = "deleted"
		}
	}

	return &entity.BulkDeleteResult{Deleted: deleted, Partial: partial}, nil
}

func (f *fakeImageUseCase) Usage(_ context.Context) (*entity.Usage, error) {
	return &entity.Usage{
		Storage: entity.ResourceUsage{Used: 512, Limit: 1024, PercentUsed: 50},
	}, nil
}

func (f *fakeImageUseCase) Health(_ context.Context) error {
	return f.healthErr
}

func testConfig() *config.Config {
	return &config.Config{
		App:  config.App{Env: "test"},
		HTTP: config.HTTP{Port: "8080"},
		Log:  config.Log{Level: "error"},
		Upload: config.Upload{
			MaxFileSize:    1024 * 1024,
			AllowedFormats: []string{"jpg", "jpeg", "png", "gif", "webp", "svg"},
		},
		CORS:      config.CORS{AllowedOrigins: "*"},
		RateLimit: config.RateLimit{Max: 1000, Window: 15 * time.Minute},
		Storage:   config.Storage{Provider: "cloudinary"},
	}
}

func newTestApp(t *testing.T, img *fakeImageUseCase) *fiber.App {
	t.Helper()

	return newTestAppWithConfig(t, testConfig(), img)
}

func newTestAppWithConfig(t *testing.T, cfg *config.Config, img *fakeImageUseCase) *fiber.App {
	t.Helper()

	l := logger.New(cfg.Log.Level)

	// same server wiring as app.Run, body limit included
	srv := httpserver.New(
		l,
		httpserver.BodyLimit(int(cfg.Upload.MaxFileSize)+1024*1024),
		httpserver.ErrorHandler(restapi.ErrorHandler(cfg, l)),
	)
	restapi.NewRouter(srv.App, cfg, img, l)

	return srv.App
}

func multipartUpload(t *testing.T, filename, contentType string, data []byte, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	require.NoError(t, err)

	_, err = part.Write(data)
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}

	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/images/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	return req
}

func decodeBody(t *testing.T, res *http.Response) map[string]interface{} {
	t.Helper()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))

	return body
}

func TestUploadSucceeds(t *testing.T) {
	img := &fakeImageUseCase{}
	app := newTestApp(t, img)

	req := multipartUpload(t, "cat.jpg", "image/jpeg", []byte("jpeg bytes"), map[string]string{
		"folder": "gallery",
		"tags":   "pets, cute",
	})

	res, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, 1, img.uploadCalls)

	body := decodeBody(t, res)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "gallery/cat", data["publicId"])
	assert.NotEmpty(t, data["thumbnailUrl"])
}

func TestUploadAcceptsFileAboveStockBodyLimit(t *testing.T) {
	img := &fakeImageUseCase{}
	cfg := testConfig()
	cfg.Upload.MaxFileSize = 10 * 1024 * 1024
	app := newTestAppWithConfig(t, cfg, img)

	// 5MiB sits above fiber's stock 4MiB body limit but below the ceiling
	data := bytes.Repeat([]byte("x"), 5*1024*1024)
	req := multipartUpload(t, "large.jpg", "image/jpeg", data, nil)

	res, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, 1, img.uploadCalls)
}

func TestUploadRejectsOversizedFileBeforeGateway(t *testing.T) {
	img := &fakeImageUseCase{}
	app := newTestApp(t, img)

	big := bytes.Repeat([]byte("x"), 1024*1024+1)
	req := multipartUpload(t, "big.jpg", "image/jpeg", big, nil)

	res, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Zero(t, img.uploadCalls)

	body := decodeBody(t, res)
	assert.Equal(t, false, body["success"])
}

func TestUploadRejectsDisallowedExtensionBeforeGateway(t *testing.T) {
	img := &fakeImageUseCase{}
	app := newTestApp(t, img)

	req := multipartUpload(t, "malware.exe", "image/jpeg", []byte("data"), nil)

	res, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Zero(t, img.uploadCalls)
}

func TestUploadRejectsMissingFile(t *testing.T) {
	img := &fakeImageUseCase{}
	app := newTestApp(t, img)

	req := httptest.NewRequest(http.MethodPost, "/images/upload", nil)

	res, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Zero(t, img.uploadCalls)
}

func TestUploadRejectsOverlongFolder(t *testing.T) {
	img := &fakeImageUseCase{}
	app := newTestApp(t, img)

	req := multipartUpload(t, "cat.jpg", "image/jpeg", []byte("data"), map[string]string{
		"folder": strings.Repeat("f", 101),
	})

	res, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Zero(t, img.uploadCalls)
}

func TestGetUnknownImageReturns404Envelope(t *testing.T) {
	app := newTestApp(t, &fakeImageUseCase{})

	req := httptest.NewRequest(http.MethodGet, "/images/never-uploaded", nil)

	res, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	body := decodeBody(t, res)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Image not found", body["error"])
}

func TestGetImageWithSlashInID(t *testing.T) {
	app := newTestApp(t, &fakeImageUseCase{})

	req := httptest.NewRequest(http.MethodGet, "/images/gallery/cat", nil)

	res, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)

	body := decodeBody(t, res)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "gallery/cat", data["publicId"])
}

func TestDeleteTwiceBothSucceed(t *testing.T) {
	img := &fakeImageUseCase{deleteFound: true}
	app := newTestApp(t, img)

	res, err := app.Test(httptest.NewRequest(http.MethodDelete, "/images/gallery/cat", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	body := decodeBody(t, res)
	assert.Equal(t, "Image deleted successfully", body["message"])

	res, err = app.Test(httptest.NewRequest(http.MethodDelete, "/images/gallery/cat", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	body = decodeBody(t, res)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Image not found, nothing to delete", body["message"])
}

func TestSearchWithoutExpressionRejectedBeforeGateway(t *testing.T) {
	img := &fakeImageUseCase{}
	app := newTestApp(t, img)

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/images/search/query", nil), -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Zero(t, img.searchCalls)
}

func TestListRejectsOutOfRangeMaxResults(t *testing.T) {
	app := newTestApp(t, &fakeImageUseCase{})

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/images?maxResults=501", nil), -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestListRejectsUnusableMaxResults(t *testing.T) {
	img := &fakeImageUseCase{}
	app := newTestApp(t, img)

	// explicit zero and garbage must not silently become the default
	for _, q := range []string{"maxResults=0", "maxResults=abc"} {
		res, err := app.Test(httptest.NewRequest(http.MethodGet, "/images?"+q, nil), -1)
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, res.StatusCode, q)
	}

	assert.Zero(t, img.listCalls)
}

func TestListDefaultsMaxResultsWhenAbsent(t *testing.T) {
	img := &fakeImageUseCase{}
	app := newTestApp(t, img)

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/images", nil), -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 1, img.listCalls)
}

func TestSearchRejectsUnusableMaxResults(t *testing.T) {
	img := &fakeImageUseCase{}
	app := newTestApp(t, img)

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/images/search/query?expression=cat&maxResults=abc", nil), -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Zero(t, img.searchCalls)
}

func TestBulkDeleteValidatesIDCount(t *testing.T) {
	app := newTestApp(t, &fakeImageUseCase{})

	payload := `{"publicIds": []}`
	req := httptest.NewRequest(http.MethodPost, "/images/bulk-delete", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestBulkDeleteReportsPartialOutcome(t *testing.T) {
	app := newTestApp(t, &fakeImageUseCase{})

	payload := `{"publicIds": ["gallery/cat", "missing-one"]}`
	req := httptest.NewRequest(http.MethodPost, "/images/bulk-delete", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)

	body := decodeBody(t, res)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["partial"])

	deleted := data["deleted"].(map[string]interface{})
	assert.Equal(t, "deleted", deleted["gallery/cat"])
	assert.Equal(t, "not_found", deleted["missing-one"])
}

func TestUsageStats(t *testing.T) {
	app := newTestApp(t, &fakeImageUseCase{})

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/images/stats/usage", nil), -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)

	body := decodeBody(t, res)
	data := body["data"].(map[string]interface{})
	storage := data["storage"].(map[string]interface{})
	assert.Equal(t, 50.0, storage["percentUsed"])
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, &fakeImageUseCase{})

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestHealthReportsProviderOutage(t *testing.T) {
	app := newTestApp(t, &fakeImageUseCase{healthErr: errs.Upstream(nil, "provider down")})

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)

	body := decodeBody(t, res)
	assert.Equal(t, false, body["success"])
}
