package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/certportal/internal/domain"
)

//go:embed pages/*.html
var pageFS embed.FS

var pages = template.Must(template.ParseFS(pageFS, "pages/*.html"))

type pageData struct {
	Theme domain.ThemeConfig
	Logo  template.URL
}

func renderPage(c *gin.Context, name string) {
	p, ok := getPortal(c)
	if !ok {
		return
	}
	s := p.Store.State()

	var buf bytes.Buffer
	data := pageData{Theme: s.Theme, Logo: template.URL(s.Logo)}
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Failed to render page.")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// FinderPage serves the public certificate finder.
func FinderPage(c *gin.Context) {
	renderPage(c, "finder.html")
}

// AdminPage serves the administrator shell. Sign-in and tab switching
// happen client-side against the JSON API.
func AdminPage(c *gin.Context) {
	renderPage(c, "admin.html")
}
