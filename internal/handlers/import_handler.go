package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/certportal/internal/helpers"
	"github.com/farellandr/certportal/internal/importer"
	"github.com/farellandr/certportal/internal/state"
)

// CreateImport takes a multipart form with file, event_id and category_id.
func CreateImport(c *gin.Context) {
	eventID, okEvent := helpers.ParseUUID(c.PostForm("event_id"))
	categoryID, okCategory := helpers.ParseUUID(c.PostForm("category_id"))
	if !okEvent || !okCategory {
		helpers.RespondWithError(c, http.StatusBadRequest, "Valid event_id and category_id are required.")
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Import file is required.")
		return
	}

	p, ok := getPortal(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	event, err := p.Repo.GetEvent(ctx, eventID)
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Error retrieving event.")
		return
	}
	category, err := p.Repo.GetCategory(ctx, categoryID)
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Error retrieving category.")
		return
	}

	data, err := helpers.ReadUpload(fileHeader, helpers.ImportUploadConfig(p.Config.MaxImportBytes))
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Failed to read import file.")
		return
	}

	req := importer.Request{
		FileName: filepath.Base(fileHeader.Filename),
		Data:     data,
		Event:    event,
		Category: category,
	}
	result, err := p.Importer.Import(ctx, req, func(phase importer.Phase) {
		p.Logger.Debug("import phase", "file", req.FileName, "phase", phase)
	})
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Failed to import participants.")
		return
	}

	p.Store.Dispatch(ctx, state.ImportCompleted{Record: result.Record, Participants: result.Participants})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Participants imported successfully.",
		"import":  result.Record,
		"phase":   result.Phase,
		"skipped": result.Skipped,
	})
}

func ListImports(c *gin.Context) {
	page, ok := pagination(c)
	if !ok {
		return
	}
	p, ok := getPortal(c)
	if !ok {
		return
	}

	imports, total, err := p.Repo.ListImports(c.Request.Context(), page.Bounds())
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Error retrieving import history.")
		return
	}

	resp := page.Response(total)
	resp["imports"] = imports
	c.JSON(http.StatusOK, resp)
}

// DeleteImport removes the batch and every participant it created.
func DeleteImport(c *gin.Context) {
	id, ok := idParam(c, "import")
	if !ok {
		return
	}
	p, ok := getPortal(c)
	if !ok {
		return
	}

	if err := p.Repo.DeleteImport(c.Request.Context(), id); err != nil {
		helpers.RespondWithDomainError(c, err, "Failed to delete import.")
		return
	}
	p.Store.Dispatch(c.Request.Context(), state.ImportDeleted{ID: id})

	c.JSON(http.StatusOK, gin.H{"message": "Import deleted successfully."})
}

func DownloadSampleCSV(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="participants_sample.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", importer.SampleCSV())
}
