package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type importResponse struct {
	Import struct {
		ID           string `json:"id"`
		FileName     string `json:"fileName"`
		Count        int    `json:"count"`
		CategoryName string `json:"categoryName"`
	} `json:"import"`
	Phase   string `json:"phase"`
	Skipped int    `json:"skipped"`
}

func TestCreateImport(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	event := env.createEvent("GopherCon", "2024-05-01")
	category := env.createCategory("Speaker")

	w := env.importCSV(event, category, "Name,Email,Var1\nAna,ana@example.com,Track A\n,missing@example.com,\nBia,bia@example.com,\n")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp importResponse
	decode(t, w, &resp)
	assert.Equal(t, "participants.csv", resp.Import.FileName)
	assert.Equal(t, 2, resp.Import.Count)
	assert.Equal(t, "Speaker", resp.Import.CategoryName)
	assert.Equal(t, "success", resp.Phase)
	assert.Equal(t, 1, resp.Skipped)

	s := env.portal.Store.State()
	assert.Len(t, s.Participants, 2)
	require.Len(t, s.ImportHistory, 1)

	w = env.json(http.MethodGet, "/v1/admin/participants?import_id="+resp.Import.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)

	w = env.json(http.MethodGet, "/v1/admin/imports", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), resp.Import.ID)
}

func TestCreateImportRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	event := env.createEvent("GopherCon", "2024-05-01")
	category := env.createCategory("Speaker")

	w := env.importCSV(event, category, "name,email\n,\n")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = env.importCSV(event, category, "name,phone\nAna,123\n")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.importCSV("not-a-uuid", category, "name,email\nAna,ana@example.com\n")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.multipart(http.MethodPost, "/v1/admin/imports", map[string]string{
		"event_id":    event,
		"category_id": category,
	}, formFile{field: "file", name: "participants.pdf", data: []byte("name,email\n")})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, env.portal.Store.State().Participants)
	assert.Empty(t, env.portal.Store.State().ImportHistory)
}

func TestDeleteImportRemovesItsParticipants(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	event := env.createEvent("GopherCon", "2024-05-01")
	category := env.createCategory("Speaker")

	w := env.importCSV(event, category, "name,email\nAna,ana@example.com\n")
	require.Equal(t, http.StatusCreated, w.Code)
	var first importResponse
	decode(t, w, &first)
	require.Equal(t, http.StatusCreated, env.importCSV(event, category, "name,email\nBia,bia@example.com\n").Code)

	w = env.json(http.MethodDelete, "/v1/admin/imports/"+first.Import.ID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	s := env.portal.Store.State()
	require.Len(t, s.Participants, 1)
	assert.Equal(t, "Bia", s.Participants[0].Name)
	assert.Len(t, s.ImportHistory, 1)

	resp := env.find("ana@example.com")
	assert.False(t, resp.Found)
}

func TestDownloadSampleCSV(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	w := env.json(http.MethodGet, "/v1/admin/imports/sample.csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "name,email")
}
