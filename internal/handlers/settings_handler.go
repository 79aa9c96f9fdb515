package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/certportal/internal/domain"
	"github.com/farellandr/certportal/internal/helpers"
	"github.com/farellandr/certportal/internal/media"
	"github.com/farellandr/certportal/internal/state"
)

// ThemeRequest selects a preset by name or supplies five custom shades.
type ThemeRequest struct {
	Preset string   `json:"preset"`
	Shades []string `json:"shades"`
}

func GetBranding(c *gin.Context) {
	p, ok := getPortal(c)
	if !ok {
		return
	}
	s := p.Store.State()

	c.JSON(http.StatusOK, gin.H{
		"theme":   s.Theme,
		"logo":    s.Logo,
		"presets": domain.PresetThemeNames(),
	})
}

func GetAdminState(c *gin.Context) {
	p, ok := getPortal(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state":         p.Store.State(),
		"pending_syncs": len(p.Outbox.Pending()),
	})
}

func UpdateTheme(c *gin.Context) {
	var req ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	var theme domain.ThemeConfig
	var err error
	switch {
	case req.Preset != "":
		theme, err = domain.PresetTheme(req.Preset)
	case len(req.Shades) == 5:
		theme, err = domain.CustomTheme([5]string(req.Shades))
	default:
		helpers.RespondWithError(c, http.StatusBadRequest, "Provide a preset name or exactly five shades.")
		return
	}
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Failed to update theme.")
		return
	}

	p, ok := getPortal(c)
	if !ok {
		return
	}
	p.Store.Dispatch(c.Request.Context(), state.ThemeChanged{Theme: theme})

	c.JSON(http.StatusOK, gin.H{
		"message": "Theme updated successfully.",
		"theme":   theme,
	})
}

func UploadLogo(c *gin.Context) {
	fileHeader, err := c.FormFile("logo")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Logo file is required.")
		return
	}
	p, ok := getPortal(c)
	if !ok {
		return
	}

	data, err := helpers.ReadUpload(fileHeader, helpers.ImageUploadConfig(p.Config.MaxImageBytes))
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Failed to read logo.")
		return
	}
	logo, err := media.Normalize(data, media.LogoLimits)
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Failed to process logo.")
		return
	}

	p.Store.Dispatch(c.Request.Context(), state.LogoChanged{Logo: logo})

	c.JSON(http.StatusOK, gin.H{
		"message": "Logo updated successfully.",
		"logo":    logo,
	})
}
