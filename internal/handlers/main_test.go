package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/farellandr/certportal/config"
	"github.com/farellandr/certportal/internal/portal"
	"github.com/farellandr/certportal/internal/server"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "s3cret-pass"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	t      *testing.T
	portal *portal.Portal
	router http.Handler
	token  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, nil)
}

// newTestEnvWith lets a test adjust the configuration before the portal
// starts.
func newTestEnvWith(t *testing.T, configure func(*config.Config)) *testEnv {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{
		Env:             "test",
		JWTSecret:       "0123456789abcdef0123456789abcdef",
		JWTTTL:          time.Hour,
		Locale:          "pt-BR",
		ExportScale:     1,
		MaxImportBytes:  1 << 20,
		MaxImageBytes:   1 << 20,
		FinderRateLimit: 1000,
		FinderBurst:     1000,
		LoginRateLimit:  1000,
		LoginBurst:      1000,
		AdminName:       "Admin",
		AdminEmail:      adminEmail,
		AdminPassword:   adminPassword,
		Database: config.DatabaseConfig{
			Driver: config.DriverSQLite,
			Path:   filepath.Join(dir, "portal.db"),
		},
	}

	if configure != nil {
		configure(cfg)
	}

	db, err := config.InitDatabase(cfg.Database)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p, err := portal.New(cfg, db, logger)
	require.NoError(t, err)
	require.NoError(t, p.Start(context.Background()))
	t.Cleanup(func() { _ = p.Close(context.Background()) })

	return &testEnv{t: t, portal: p, router: server.NewRouter(p)}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	if e.token != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) json(method, path string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return e.do(req)
}

type formFile struct {
	field string
	name  string
	data  []byte
}

func (e *testEnv) multipart(method, path string, fields map[string]string, files ...formFile) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(e.t, mw.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(e.t, err)
		_, err = fw.Write(f.data)
		require.NoError(e.t, err)
	}
	require.NoError(e.t, mw.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return e.do(req)
}

func (e *testEnv) login() {
	w := e.json(http.MethodPost, "/v1/auth/login", map[string]string{"email": adminEmail, "password": adminPassword})
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	decode(e.t, w, &resp)
	e.token = resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

type created struct {
	Event struct {
		ID string `json:"id"`
	} `json:"event"`
	Category struct {
		ID string `json:"id"`
	} `json:"category"`
	Template struct {
		ID string `json:"id"`
	} `json:"template"`
}

func (e *testEnv) createEvent(name, date string) string {
	w := e.json(http.MethodPost, "/v1/admin/events", map[string]string{"name": name, "date": date})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	var c created
	decode(e.t, w, &c)
	return c.Event.ID
}

func (e *testEnv) createCategory(name string) string {
	w := e.json(http.MethodPost, "/v1/admin/categories", map[string]string{"name": name})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	var c created
	decode(e.t, w, &c)
	return c.Category.ID
}

func (e *testEnv) createTemplate(categoryID, eventID, text string) string {
	w := e.multipart(http.MethodPost, "/v1/admin/templates", map[string]string{
		"name":        "Default",
		"category_id": categoryID,
		"event_id":    eventID,
		"text":        text,
	})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	var c created
	decode(e.t, w, &c)
	return c.Template.ID
}

func (e *testEnv) importCSV(eventID, categoryID, csv string) *httptest.ResponseRecorder {
	return e.multipart(http.MethodPost, "/v1/admin/imports", map[string]string{
		"event_id":    eventID,
		"category_id": categoryID,
	}, formFile{field: "file", name: "participants.csv", data: []byte(csv)})
}
