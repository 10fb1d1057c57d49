package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotevault/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotevault/internal/app"
	"github.com/jsamuelsen/quotevault/internal/domain"
)

// CategoryHandler handles category-related HTTP endpoints.
type CategoryHandler struct {
	store *app.QuoteService
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(store *app.QuoteService) *CategoryHandler {
	return &CategoryHandler{
		store: store,
	}
}

// CategoriesResponse lists the available categories and the active filter.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
	Selected   string   `json:"selected"`
}

// SelectCategoryRequest is the request body for changing the active filter.
type SelectCategoryRequest struct {
	Category string `json:"category" validate:"required,notempty"`
}

// List handles GET /api/v1/categories.
// Returns the distinct categories in the store, sorted, with "all" first,
// plus the active filter.
func (h *CategoryHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, CategoriesResponse{
		Categories: h.store.Categories(),
		Selected:   h.store.SelectedCategory(),
	})
}

// Select handles PUT /api/v1/categories/selected.
// Sets and persists the active filter. The value must be "all" or a
// category present in the store.
func (h *CategoryHandler) Select(c *gin.Context) {
	var req SelectCategoryRequest

	err := dto.BindAndValidate(c, &req)
	if err != nil {
		if errors.Is(err, dto.ErrBinding) {
			dto.HandleError(c, domain.NewValidationError("body", "invalid JSON body"))
			return
		}

		dto.HandleValidationErrors(c, dto.ValidationErrors(err))

		return
	}

	err = h.store.SetSelectedCategory(c.Request.Context(), req.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, CategoriesResponse{
		Categories: h.store.Categories(),
		Selected:   h.store.SelectedCategory(),
	})
}

// RegisterCategoryRoutes registers category routes on the given router group.
func (h *CategoryHandler) RegisterCategoryRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	categories.GET("", h.List)
	categories.PUT("/selected", h.Select)
}
