package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/certportal/internal/domain"
	"github.com/farellandr/certportal/internal/helpers"
	"github.com/farellandr/certportal/internal/middleware"
	"github.com/farellandr/certportal/internal/state"
)

type ProfileRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type PasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func UpdateProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}
	adminID, exists := middleware.GetAdminID(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Admin ID not found in token.")
		return
	}
	p, ok := getPortal(c)
	if !ok {
		return
	}

	user, err := p.Auth.UpdateProfile(c.Request.Context(), adminID, domain.User{Name: req.Name, Email: req.Email})
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Failed to update profile.")
		return
	}
	p.Store.Dispatch(c.Request.Context(), state.ProfileUpdated{User: user})

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully.",
		"user":    user,
	})
}

func ChangePassword(c *gin.Context) {
	var req PasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}
	adminID, exists := middleware.GetAdminID(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Admin ID not found in token.")
		return
	}
	p, ok := getPortal(c)
	if !ok {
		return
	}

	if err := p.Auth.ChangePassword(c.Request.Context(), adminID, req.CurrentPassword, req.NewPassword); err != nil {
		helpers.RespondWithDomainError(c, err, "Failed to change password.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully."})
}
