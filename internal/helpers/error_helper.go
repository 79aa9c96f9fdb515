package helpers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/certportal/internal/auth"
	"github.com/farellandr/certportal/internal/certificate"
	"github.com/farellandr/certportal/internal/domain"
	"github.com/farellandr/certportal/internal/importer"
	"github.com/farellandr/certportal/internal/media"
	"github.com/farellandr/certportal/internal/repository"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func HTTPStatusText(code int) string {
	return http.StatusText(code)
}

func RespondWithError(c *gin.Context, statusCode int, customMessage string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   HTTPStatusText(statusCode),
		Message: customMessage,
	})
}

// StatusForError maps a known error to its response status. Unknown errors
// are remote failures.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenRevoked):
		return http.StatusUnauthorized
	case errors.Is(err, certificate.ErrNoTemplate),
		errors.Is(err, certificate.ErrUnknownEvent),
		errors.Is(err, importer.ErrNoValidRows):
		return http.StatusUnprocessableEntity
	case errors.Is(err, importer.ErrMissingHeader),
		errors.Is(err, importer.ErrMissingColumn),
		errors.Is(err, importer.ErrUnsupportedFormat),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, domain.ErrUnknownTheme),
		errors.Is(err, domain.ErrInvalidShade),
		errors.Is(err, media.ErrUnsupportedImage),
		errors.Is(err, media.ErrInvalidDataURI),
		errors.Is(err, ErrFileTooLarge),
		errors.Is(err, ErrFileType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithDomainError writes err with its mapped status. Server errors use
// fallback as the message so internals are not leaked.
func RespondWithDomainError(c *gin.Context, err error, fallback string) {
	status := StatusForError(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		message = fallback
	}
	RespondWithError(c, status, message)
}
