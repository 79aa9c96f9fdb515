package handlers_test

import (
	"bytes"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farellandr/certportal/internal/domain"
)

type finderResponse struct {
	Found        bool `json:"found"`
	Certificates []struct {
		ParticipantID string `json:"participantId"`
		Name          string `json:"name"`
		EventName     string `json:"eventName"`
		Available     bool   `json:"available"`
		Exporting     bool   `json:"exporting"`
		Reason        string `json:"reason"`
		PDFURL        string `json:"pdfUrl"`
		PNGURL        string `json:"pngUrl"`
		PreviewURL    string `json:"previewUrl"`
	} `json:"certificates"`
}

func (e *testEnv) find(email string) finderResponse {
	w := e.json(http.MethodGet, "/v1/certificates?email="+email, nil)
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())
	var resp finderResponse
	decode(e.t, w, &resp)
	return resp
}

func TestFindAndDownloadCertificate(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	event := env.createEvent("GopherCon", "2024-05-01")
	category := env.createCategory("Speaker")
	env.createTemplate(category, "", "Certificamos que {{PARTICIPANT_NAME}} participou de {{EVENT_NAME}}")
	require.Equal(t, http.StatusCreated, env.importCSV(event, category, "name,email\nAna Souza,ana@example.com\n").Code)

	env.token = ""
	resp := env.find("%20ANA@Example.com%20")
	require.True(t, resp.Found)
	require.Len(t, resp.Certificates, 1)
	found := resp.Certificates[0]
	assert.Equal(t, "Ana Souza", found.Name)
	assert.Equal(t, "GopherCon", found.EventName)
	assert.True(t, found.Available)
	require.NotEmpty(t, found.PDFURL)

	w := env.json(http.MethodGet, found.PDFURL, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".pdf")

	w = env.json(http.MethodGet, found.PNGURL, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = env.json(http.MethodGet, found.PreviewURL, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ana Souza")
}

func TestFindCertificatesNoMatch(t *testing.T) {
	env := newTestEnv(t)

	resp := env.find("x@y.com")
	assert.False(t, resp.Found)
	assert.NotNil(t, resp.Certificates)
	assert.Empty(t, resp.Certificates)

	w := env.json(http.MethodGet, "/v1/certificates", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFindCertificateWithoutTemplate(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	event := env.createEvent("GopherCon", "2024-05-01")
	category := env.createCategory("Listener")
	require.Equal(t, http.StatusCreated, env.importCSV(event, category, "name,email\nAna,ana@example.com\n").Code)

	resp := env.find("ana@example.com")
	require.True(t, resp.Found)
	require.Len(t, resp.Certificates, 1)
	assert.False(t, resp.Certificates[0].Available)
	assert.NotEmpty(t, resp.Certificates[0].Reason)
	assert.Equal(t, "GopherCon", resp.Certificates[0].EventName)
	assert.Empty(t, resp.Certificates[0].PDFURL)

	id := resp.Certificates[0].ParticipantID
	w := env.json(http.MethodGet, "/v1/admin/participants/"+id+"/certificate.pdf", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestEventTemplateOverridesCategoryTemplate(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	event := env.createEvent("GopherCon", "2024-05-01")
	category := env.createCategory("Speaker")
	env.createTemplate(category, "", "Generic {{PARTICIPANT_NAME}}")
	env.createTemplate(category, event, "Special {{PARTICIPANT_NAME}}")
	require.Equal(t, http.StatusCreated, env.importCSV(event, category, "name,email\nAna,ana@example.com\n").Code)

	resp := env.find("ana@example.com")
	require.Len(t, resp.Certificates, 1)

	w := env.json(http.MethodGet, resp.Certificates[0].PreviewURL, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Special Ana")
	assert.NotContains(t, w.Body.String(), "Generic Ana")
}

func TestCertificateLinkRequiresValidToken(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	event := env.createEvent("GopherCon", "2024-05-01")
	category := env.createCategory("Speaker")
	env.createTemplate(category, "", "Hello {{PARTICIPANT_NAME}}")
	require.Equal(t, http.StatusCreated, env.importCSV(event, category, "name,email\nAna,ana@example.com\n").Code)

	resp := env.find("ana@example.com")
	require.Len(t, resp.Certificates, 1)
	id := resp.Certificates[0].ParticipantID

	w := env.json(http.MethodGet, "/v1/certificates/"+id+"/pdf", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.json(http.MethodGet, "/v1/certificates/"+id+"/pdf?token=forged", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	tampered := strings.Replace(resp.Certificates[0].PDFURL, id, "00000000-0000-0000-0000-000000000000", 1)
	w = env.json(http.MethodGet, tampered, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminParticipantCertificate(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	event := env.createEvent("GopherCon", "2024-05-01")
	category := env.createCategory("Speaker")
	env.createTemplate(category, "", "Hello {{PARTICIPANT_NAME}}")
	require.Equal(t, http.StatusCreated, env.importCSV(event, category, "name,email\nAna,ana@example.com\n").Code)

	participants := env.portal.Store.State().Participants
	require.Len(t, participants, 1)

	w := env.json(http.MethodGet, "/v1/admin/participants/"+participants[0].ID.String()+"/certificate.pdf", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestFindCertificatesReportsExportInProgress(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	event := env.createEvent("GopherCon", "2024-05-01")
	category := env.createCategory("Speaker")
	env.createTemplate(category, "", "Hello {{PARTICIPANT_NAME}}")
	require.Equal(t, http.StatusCreated, env.importCSV(event, category, "name,email\nAna,ana@example.com\n").Code)

	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	env.portal.Exporter.WithVerifyLink(func(domain.Participant) string {
		entered <- struct{}{}
		<-release
		return "https://certs.example.com/verify"
	})

	resp := env.find("ana@example.com")
	require.Len(t, resp.Certificates, 1)
	assert.False(t, resp.Certificates[0].Exporting)

	done := make(chan int, 1)
	go func() {
		req := httptest.NewRequest(http.MethodGet, resp.Certificates[0].PDFURL, nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		done <- w.Code
	}()
	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("export never started")
	}

	busy := env.find("ana@example.com")
	require.Len(t, busy.Certificates, 1)
	assert.True(t, busy.Certificates[0].Exporting)

	close(release)
	assert.Equal(t, http.StatusOK, <-done)
	assert.False(t, env.find("ana@example.com").Certificates[0].Exporting)
}

func TestCertificateDownloadNamesNonASCIIFiles(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	event := env.createEvent("GopherCon", "2024-05-01")
	category := env.createCategory("Speaker")
	env.createTemplate(category, "", "Hello {{PARTICIPANT_NAME}}")
	require.Equal(t, http.StatusCreated, env.importCSV(event, category, "name,email\nJoão Silva,joao@example.com\n").Code)

	resp := env.find("joao@example.com")
	require.Len(t, resp.Certificates, 1)

	w := env.json(http.MethodGet, resp.Certificates[0].PDFURL, nil)
	require.Equal(t, http.StatusOK, w.Code)

	disposition := w.Header().Get("Content-Disposition")
	assert.Contains(t, disposition, "filename*=utf-8''certificate_Jo%C3%A3o_Silva_GopherCon.pdf")
	_, params, err := mime.ParseMediaType(disposition)
	require.NoError(t, err)
	assert.Equal(t, "certificate_João_Silva_GopherCon.pdf", params["filename"])
}
