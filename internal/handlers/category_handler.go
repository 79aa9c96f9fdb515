package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/certportal/internal/domain"
	"github.com/farellandr/certportal/internal/helpers"
	"github.com/farellandr/certportal/internal/state"
)

type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Category name is required.")
		return
	}

	p, ok := getPortal(c)
	if !ok {
		return
	}

	category, err := p.Repo.CreateCategory(c.Request.Context(), domain.Category{Name: strings.TrimSpace(req.Name)})
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Failed to create category.")
		return
	}
	p.Store.Dispatch(c.Request.Context(), state.CategorySaved{Category: category})

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Category created successfully.",
		"category": category,
	})
}

func ListCategories(c *gin.Context) {
	page, ok := pagination(c)
	if !ok {
		return
	}
	p, ok := getPortal(c)
	if !ok {
		return
	}

	categories, total, err := p.Repo.ListCategories(c.Request.Context(), page.Bounds())
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Error retrieving categories.")
		return
	}

	resp := page.Response(total)
	resp["categories"] = categories
	c.JSON(http.StatusOK, resp)
}

func UpdateCategory(c *gin.Context) {
	id, ok := idParam(c, "category")
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Category name is required.")
		return
	}

	p, ok := getPortal(c)
	if !ok {
		return
	}

	category, err := p.Repo.UpdateCategory(c.Request.Context(), domain.Category{ID: id, Name: strings.TrimSpace(req.Name)})
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Failed to update category.")
		return
	}
	p.Store.Dispatch(c.Request.Context(), state.CategorySaved{Category: category})

	c.JSON(http.StatusOK, gin.H{
		"message":  "Category updated successfully.",
		"category": category,
	})
}

// DeleteCategory leaves templates and participants of the category in place.
func DeleteCategory(c *gin.Context) {
	id, ok := idParam(c, "category")
	if !ok {
		return
	}
	p, ok := getPortal(c)
	if !ok {
		return
	}

	if err := p.Repo.DeleteCategory(c.Request.Context(), id); err != nil {
		helpers.RespondWithDomainError(c, err, "Failed to delete category.")
		return
	}
	p.Store.Dispatch(c.Request.Context(), state.CategoryDeleted{ID: id})

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully."})
}
