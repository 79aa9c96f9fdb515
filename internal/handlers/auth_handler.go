package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/certportal/internal/helpers"
	"github.com/farellandr/certportal/internal/middleware"
	"github.com/farellandr/certportal/internal/state"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	p, ok := getPortal(c)
	if !ok {
		return
	}

	session, err := p.Auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Failed to sign in.")
		return
	}

	p.Store.Dispatch(c.Request.Context(), state.LoggedIn{User: session.User})

	c.JSON(http.StatusOK, gin.H{
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
		"user":       session.User,
	})
}

func Logout(c *gin.Context) {
	p, ok := getPortal(c)
	if !ok {
		return
	}
	session, exists := middleware.GetSession(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Session not found.")
		return
	}

	if err := p.Auth.SignOut(c.Request.Context(), session); err != nil {
		helpers.RespondWithDomainError(c, err, "Failed to sign out.")
		return
	}
	p.Store.Dispatch(c.Request.Context(), state.LoggedOut{})

	c.JSON(http.StatusOK, gin.H{"message": "Signed out successfully."})
}

func GetSession(c *gin.Context) {
	session, exists := middleware.GetSession(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Session not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user":          session.User,
		"expires_at":    session.ExpiresAt,
	})
}
