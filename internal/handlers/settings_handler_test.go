package handlers_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farellandr/certportal/internal/domain"
	"github.com/farellandr/certportal/internal/models"
)

type brandingResponse struct {
	Theme   domain.ThemeConfig `json:"theme"`
	Logo    string             `json:"logo"`
	Presets []string           `json:"presets"`
}

func TestUpdateThemeReachesBrandingAndDatabase(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	w := env.json(http.MethodPut, "/v1/admin/settings/theme", map[string]string{"preset": "emerald"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	env.token = ""
	w = env.json(http.MethodGet, "/v1/branding", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var branding brandingResponse
	decode(t, w, &branding)
	assert.Equal(t, "emerald", branding.Theme.Name)
	assert.Contains(t, branding.Presets, "emerald")

	assert.Eventually(t, func() bool {
		var stored domain.ThemeConfig
		err := env.portal.Repo.GetSetting(context.Background(), models.SettingTheme, &stored)
		return err == nil && stored.Name == "emerald"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestUpdateThemeValidation(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	w := env.json(http.MethodPut, "/v1/admin/settings/theme", map[string]string{"preset": "neon"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.json(http.MethodPut, "/v1/admin/settings/theme", map[string][]string{"shades": {"#000000"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.json(http.MethodPut, "/v1/admin/settings/theme", map[string][]string{
		"shades": {"#ffffff", "#dddddd", "#999999", "#555555", "zzz"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.json(http.MethodPut, "/v1/admin/settings/theme", map[string][]string{
		"shades": {"#ffffff", "#dddddd", "#999999", "#555555", "#111111"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.CustomThemeName, env.portal.Store.State().Theme.Name)
}

func TestUploadLogo(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		img.Set(x, 10, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	w := env.multipart(http.MethodPost, "/v1/admin/settings/logo", nil, formFile{field: "logo", name: "logo.png", data: buf.Bytes()})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Contains(t, env.portal.Store.State().Logo, "data:image/")

	w = env.multipart(http.MethodPost, "/v1/admin/settings/logo", nil, formFile{field: "logo", name: "logo.png", data: []byte("plain text")})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAdminState(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	env.createEvent("GopherCon", "2024-05-01")

	w := env.json(http.MethodGet, "/v1/admin/state", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		State struct {
			Events  []domain.Event `json:"events"`
			Session domain.Session `json:"session"`
		} `json:"state"`
		PendingSyncs int `json:"pending_syncs"`
	}
	decode(t, w, &resp)
	assert.Len(t, resp.State.Events, 1)
	assert.True(t, resp.State.Session.Authenticated)
	assert.GreaterOrEqual(t, resp.PendingSyncs, 0)
}

func TestPages(t *testing.T) {
	env := newTestEnv(t)

	w := env.json(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Find your certificate")

	w = env.json(http.MethodGet, "/admin", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
