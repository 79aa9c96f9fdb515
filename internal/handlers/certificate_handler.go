package handlers

import (
	"errors"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/farellandr/certportal/internal/certificate"
	"github.com/farellandr/certportal/internal/domain"
	"github.com/farellandr/certportal/internal/helpers"
	"github.com/farellandr/certportal/internal/portal"
)

type exportFormat string

const (
	formatPDF     exportFormat = certificate.FormatPDF
	formatPNG     exportFormat = certificate.FormatPNG
	formatPreview exportFormat = certificate.FormatPreview
)

type CertificateResult struct {
	ParticipantID uuid.UUID `json:"participantId"`
	Name          string    `json:"name"`
	EventName     string    `json:"eventName"`
	EventDate     time.Time `json:"eventDate"`
	Available     bool      `json:"available"`
	Exporting     bool      `json:"exporting"`
	Reason        string    `json:"reason,omitempty"`
	PDFURL        string    `json:"pdfUrl,omitempty"`
	PNGURL        string    `json:"pngUrl,omitempty"`
	PreviewURL    string    `json:"previewUrl,omitempty"`
}

func certificateURL(p *portal.Portal, participant domain.Participant, format exportFormat) string {
	return p.Signer.Link(participant.ID, participant.Email, string(format))
}

// FindCertificates is the public finder. An email with no participants is an
// empty result, not an error.
func FindCertificates(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Email is required.")
		return
	}
	p, ok := getPortal(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	participants, err := p.Repo.FindParticipantsByEmail(ctx, email)
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Error searching certificates.")
		return
	}

	results := make([]CertificateResult, 0, len(participants))
	for _, participant := range participants {
		result := CertificateResult{ParticipantID: participant.ID, Name: participant.Name}

		cert, err := p.Certificate(ctx, participant)
		switch {
		case err == nil:
			result.EventName = cert.Event.Name
			result.EventDate = cert.Event.Date
			result.Available = true
			result.Exporting = p.Exporter.Busy(participant.ID)
			result.PDFURL = certificateURL(p, participant, formatPDF)
			result.PNGURL = certificateURL(p, participant, formatPNG)
			result.PreviewURL = certificateURL(p, participant, formatPreview)
		case errors.Is(err, certificate.ErrNoTemplate), errors.Is(err, certificate.ErrUnknownEvent):
			result.Reason = err.Error()
			if event, evErr := p.Repo.GetEvent(ctx, participant.EventID); evErr == nil {
				result.EventName = event.Name
				result.EventDate = event.Date
			}
		default:
			helpers.RespondWithDomainError(c, err, "Error searching certificates.")
			return
		}
		results = append(results, result)
	}

	c.JSON(http.StatusOK, gin.H{
		"found":        len(results) > 0,
		"certificates": results,
	})
}

func DownloadCertificatePDF(c *gin.Context) {
	downloadSignedCertificate(c, formatPDF)
}

func DownloadCertificatePNG(c *gin.Context) {
	downloadSignedCertificate(c, formatPNG)
}

func PreviewCertificate(c *gin.Context) {
	downloadSignedCertificate(c, formatPreview)
}

func downloadSignedCertificate(c *gin.Context, format exportFormat) {
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
		helpers.RespondWithDomainError(c, err, "Error retrieving certificate.")
		return
	}
	if !p.Signer.Verify(participant.ID, participant.Email, c.Query("token")) {
		helpers.RespondWithError(c, http.StatusForbidden, "Invalid certificate link.")
		return
	}

	exportCertificate(c, p, participant, format)
}

func exportCertificate(c *gin.Context, p *portal.Portal, participant domain.Participant, format exportFormat) {
	ctx := c.Request.Context()

	cert, err := p.Certificate(ctx, participant)
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Error preparing certificate.")
		return
	}

	if format == formatPreview {
		page, err := p.Exporter.Renderer().PreviewHTML(cert)
		if err != nil {
			helpers.RespondWithDomainError(c, err, "Failed to render certificate.")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
		return
	}

	var artifact *certificate.Artifact
	if format == formatPNG {
		artifact, err = p.Exporter.PNG(ctx, cert)
	} else {
		artifact, err = p.Exporter.PDF(ctx, cert)
	}
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Failed to export certificate.")
		return
	}

	c.Header("Content-Disposition", attachment(artifact.FileName))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}

// attachment builds a Content-Disposition value. Non-ASCII names are sent in
// the RFC 2231 filename* form.
func attachment(fileName string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": fileName}); v != "" {
		return v
	}
	return "attachment"
}
