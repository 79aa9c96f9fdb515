package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/farellandr/certportal/internal/portal"
)

const portalKey = "portal"

func PortalMiddleware(p *portal.Portal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(portalKey, p)
		c.Next()
	}
}

func GetPortal(c *gin.Context) *portal.Portal {
	p, exists := c.Get(portalKey)
	if !exists {
		return nil
	}
	return p.(*portal.Portal)
}
