package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/farellandr/certportal/internal/helpers"
	"github.com/farellandr/certportal/internal/middleware"
	"github.com/farellandr/certportal/internal/portal"
)

func getPortal(c *gin.Context) (*portal.Portal, bool) {
	p := middleware.GetPortal(c)
	if p == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Portal not configured.")
		return nil, false
	}
	return p, true
}

func idParam(c *gin.Context, what string) (uuid.UUID, bool) {
	id, ok := helpers.ParseUUID(c.Param("id"))
	if !ok {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid "+what+" ID.")
	}
	return id, ok
}

func pagination(c *gin.Context) (helpers.Pagination, bool) {
	p, err := helpers.ParsePagination(c)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page or limit.")
		return helpers.Pagination{}, false
	}
	return p, true
}
