package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/farellandr/certportal/internal/certificate"
	"github.com/farellandr/certportal/internal/domain"
	"github.com/farellandr/certportal/internal/helpers"
	"github.com/farellandr/certportal/internal/media"
	"github.com/farellandr/certportal/internal/portal"
	"github.com/farellandr/certportal/internal/repository"
	"github.com/farellandr/certportal/internal/state"
)

// templateFromForm reads the multipart template form. The background file
// is optional; without it the template keeps current.BackgroundImage.
func templateFromForm(c *gin.Context, p *portal.Portal, current domain.Template) (domain.Template, bool) {
	name := strings.TrimSpace(c.PostForm("name"))
	text := c.PostForm("text")
	if name == "" || strings.TrimSpace(text) == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Missing required fields.")
		return domain.Template{}, false
	}

	categoryID, ok := helpers.ParseUUID(c.PostForm("category_id"))
	if !ok {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid category ID.")
		return domain.Template{}, false
	}
	eventID, ok := helpers.ParseOptionalUUID(c.PostForm("event_id"))
	if !ok {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return domain.Template{}, false
	}

	ctx := c.Request.Context()
	if _, err := p.Repo.GetCategory(ctx, categoryID); err != nil {
		helpers.RespondWithDomainError(c, err, "Error retrieving category.")
		return domain.Template{}, false
	}
	if eventID != nil {
		if _, err := p.Repo.GetEvent(ctx, *eventID); err != nil {
			helpers.RespondWithDomainError(c, err, "Error retrieving event.")
			return domain.Template{}, false
		}
	}

	tmpl := domain.Template{
		ID:              current.ID,
		Name:            name,
		CategoryID:      categoryID,
		EventID:         eventID,
		BackgroundImage: current.BackgroundImage,
		Text:            text,
	}

	if fileHeader, err := c.FormFile("background"); err == nil {
		data, err := helpers.ReadUpload(fileHeader, helpers.ImageUploadConfig(p.Config.MaxImageBytes))
		if err != nil {
			helpers.RespondWithDomainError(c, err, "Failed to read background image.")
			return domain.Template{}, false
		}
		uri, err := media.Normalize(data, media.BackgroundLimits)
		if err != nil {
			helpers.RespondWithDomainError(c, err, "Failed to process background image.")
			return domain.Template{}, false
		}
		tmpl.BackgroundImage = uri
	} else if c.PostForm("clear_background") == "true" {
		tmpl.BackgroundImage = ""
	}

	return tmpl, true
}

func CreateTemplate(c *gin.Context) {
	p, ok := getPortal(c)
	if !ok {
		return
	}
	tmpl, ok := templateFromForm(c, p, domain.Template{})
	if !ok {
		return
	}

	tmpl, err := p.Repo.CreateTemplate(c.Request.Context(), tmpl)
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Failed to create template.")
		return
	}
	p.Store.Dispatch(c.Request.Context(), state.TemplateSaved{Template: tmpl})

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Template created successfully.",
		"template": tmpl,
	})
}

func GetTemplate(c *gin.Context) {
	id, ok := idParam(c, "template")
	if !ok {
		return
	}
	p, ok := getPortal(c)
	if !ok {
		return
	}

	tmpl, err := p.Repo.GetTemplate(c.Request.Context(), id)
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Error retrieving template.")
		return
	}

	c.JSON(http.StatusOK, tmpl)
}

func ListTemplates(c *gin.Context) {
	page, ok := pagination(c)
	if !ok {
		return
	}
	categoryID, okCategory := helpers.ParseOptionalUUID(c.Query("category_id"))
	eventID, okEvent := helpers.ParseOptionalUUID(c.Query("event_id"))
	if !okCategory || !okEvent {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid filter ID.")
		return
	}
	p, ok := getPortal(c)
	if !ok {
		return
	}

	filter := repository.TemplateFilter{CategoryID: categoryID, EventID: eventID}
	templates, total, err := p.Repo.ListTemplates(c.Request.Context(), filter, page.Bounds())
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Error retrieving templates.")
		return
	}

	resp := page.Response(total)
	resp["templates"] = templates
	resp["placeholders"] = certificate.Placeholders()
	c.JSON(http.StatusOK, resp)
}

func UpdateTemplate(c *gin.Context) {
	id, ok := idParam(c, "template")
	if !ok {
		return
	}
	p, ok := getPortal(c)
	if !ok {
		return
	}

	current, err := p.Repo.GetTemplate(c.Request.Context(), id)
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Error retrieving template.")
		return
	}
	tmpl, ok := templateFromForm(c, p, current)
	if !ok {
		return
	}

	tmpl, err = p.Repo.UpdateTemplate(c.Request.Context(), tmpl)
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Failed to update template.")
		return
	}
	p.Store.Dispatch(c.Request.Context(), state.TemplateSaved{Template: tmpl})

	c.JSON(http.StatusOK, gin.H{
		"message":  "Template updated successfully.",
		"template": tmpl,
	})
}

func DeleteTemplate(c *gin.Context) {
	id, ok := idParam(c, "template")
	if !ok {
		return
	}
	p, ok := getPortal(c)
	if !ok {
		return
	}

	if err := p.Repo.DeleteTemplate(c.Request.Context(), id); err != nil {
		helpers.RespondWithDomainError(c, err, "Failed to delete template.")
		return
	}
	p.Store.Dispatch(c.Request.Context(), state.TemplateDeleted{ID: id})

	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully."})
}

// PreviewTemplate renders the template with sample participant data, as HTML
// by default or as a PNG with ?format=png.
func PreviewTemplate(c *gin.Context) {
	id, ok := idParam(c, "template")
	if !ok {
		return
	}
	p, ok := getPortal(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	tmpl, err := p.Repo.GetTemplate(ctx, id)
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Error retrieving template.")
		return
	}

	event := domain.Event{ID: uuid.New(), Name: "Sample Event", Date: domain.DateOnly(time.Now())}
	if tmpl.EventID != nil {
		stored, err := p.Repo.GetEvent(ctx, *tmpl.EventID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			helpers.RespondWithDomainError(c, err, "Error retrieving event.")
			return
		}
		if err == nil {
			event = stored
		}
	}

	cert := domain.Certificate{
		Participant: domain.Participant{
			ID:         uuid.New(),
			Name:       "Participant Name",
			Email:      "participant@example.com",
			EventID:    event.ID,
			CategoryID: tmpl.CategoryID,
			Var1:       "Variable 1",
			Var2:       "Variable 2",
			Var3:       "Variable 3",
		},
		Event:    event,
		Template: tmpl,
	}

	if c.Query("format") == certificate.FormatPNG {
		artifact, err := p.Exporter.PNG(ctx, cert)
		if err != nil {
			helpers.RespondWithDomainError(c, err, "Failed to render preview.")
			return
		}
		c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
		return
	}

	page, err := p.Exporter.Renderer().PreviewHTML(cert)
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Failed to render preview.")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
