package handlers

import (
	"errors"
	"net/http"

	"proprental/internal/common"
	"proprental/internal/models"
	"proprental/internal/services"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// CategoryHandlers handles category-related HTTP requests
type CategoryHandlers struct {
	categoryService services.CategoryService
}

func NewCategoryHandlers(categoryService services.CategoryService) *CategoryHandlers {
	return &CategoryHandlers{categoryService: categoryService}
}

// ListCategories returns all main categories with nested subcategories
func (h *CategoryHandlers) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()

	categories, err := h.categoryService.ListTree(ctx)
	if err != nil {
		return common.SendServerError(c, "Failed to list categories")
	}
	return c.JSON(http.StatusOK, categories)
}

// GetCategory returns category details by ID
func (h *CategoryHandlers) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid category ID format")
	}

	category, err := h.categoryService.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return common.SendNotFoundError(c, "Category")
		}
		return common.SendServerError(c, "Failed to get category")
	}
	return c.JSON(http.StatusOK, category)
}

type CategoryRequest struct {
	Name     string     `json:"name"`
	ParentID *uuid.UUID `json:"parent"`
}

// CreateCategory handles creating a new category or subcategory
func (h *CategoryHandlers) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	category := &models.Category{
		Name:     req.Name,
		ParentID: req.ParentID,
	}
	if err := h.categoryService.Create(ctx, category); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory handles renaming or reparenting a category
func (h *CategoryHandlers) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid category ID format")
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	category := &models.Category{
		ID:       id,
		Name:     req.Name,
		ParentID: req.ParentID,
	}
	if err := h.categoryService.Update(ctx, category); err != nil {
		if err == pgx.ErrNoRows {
			return common.SendNotFoundError(c, "Category")
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory deletes a category. The delete is refused while any product
// still references the category or one of its subcategories.
func (h *CategoryHandlers) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid category ID format")
	}

	if err := h.categoryService.Delete(ctx, id); err != nil {
		if errors.Is(err, services.ErrCategoryInUse) {
			return common.SendConflictError(c, err.Error())
		}
		if err == pgx.ErrNoRows {
			return common.SendNotFoundError(c, "Category")
		}
		return common.SendServerError(c, "Failed to delete category")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Category deleted successfully"})
}
