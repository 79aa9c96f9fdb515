package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/certportal/internal/helpers"
	"github.com/farellandr/certportal/internal/repository"
	"github.com/farellandr/certportal/internal/state"
)

func ListParticipants(c *gin.Context) {
	page, ok := pagination(c)
	if !ok {
		return
	}
	eventID, okEvent := helpers.ParseOptionalUUID(c.Query("event_id"))
	categoryID, okCategory := helpers.ParseOptionalUUID(c.Query("category_id"))
	importID, okImport := helpers.ParseOptionalUUID(c.Query("import_id"))
	if !okEvent || !okCategory || !okImport {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid filter ID.")
		return
	}
	p, ok := getPortal(c)
	if !ok {
		return
	}

	filter := repository.ParticipantFilter{EventID: eventID, CategoryID: categoryID, ImportID: importID}
	participants, total, err := p.Repo.ListParticipants(c.Request.Context(), filter, page.Bounds())
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Error retrieving participants.")
		return
	}

	resp := page.Response(total)
	resp["participants"] = participants
	c.JSON(http.StatusOK, resp)
}

func GetParticipant(c *gin.Context) {
	id, ok := idParam(c, "participant")
	if !ok {
		return
	}
	p, ok := getPortal(c)
	if !ok {
		return
	}

	participant, err := p.Repo.GetParticipant(c.Request.Context(), id)
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Error retrieving participant.")
		return
	}

	c.JSON(http.StatusOK, participant)
}

func DeleteParticipant(c *gin.Context) {
	id, ok := idParam(c, "participant")
	if !ok {
		return
	}
	p, ok := getPortal(c)
	if !ok {
		return
	}

	if err := p.Repo.DeleteParticipant(c.Request.Context(), id); err != nil {
		helpers.RespondWithDomainError(c, err, "Failed to delete participant.")
		return
	}
	p.Store.Dispatch(c.Request.Context(), state.ParticipantDeleted{ID: id})

	c.JSON(http.StatusOK, gin.H{"message": "Participant deleted successfully."})
}

// DownloadParticipantCertificate exports a participant's certificate for an
// administrator, without a signed link.
func DownloadParticipantCertificate(c *gin.Context) {
	id, ok := idParam(c, "participant")
	if !ok {
		return
	}
	p, ok := getPortal(c)
	if !ok {
		return
	}

	participant, err := p.Repo.GetParticipant(c.Request.Context(), id)
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Error retrieving participant.")
		return
	}
	exportCertificate(c, p, participant, formatPDF)
}
