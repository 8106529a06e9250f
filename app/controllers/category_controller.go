package controllers

import (
	"errors"
	"net/http"

	"github.com/zaikahq/zaika/app/models"
	"github.com/zaikahq/zaika/app/services"
	"github.com/zaikahq/zaika/pkg/ctx"
	"github.com/zaikahq/zaika/pkg/logger"
)

type CategoryController struct {
	catalog *services.CatalogService
}

func NewCategoryController(catalog *services.CatalogService) *CategoryController {
	return &CategoryController{catalog: catalog}
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// List handles GET /api/categories. Supports ?search=.
func (ct *CategoryController) List(c *ctx.Context) {
	cats, err := ct.catalog.ListCategories(c.Context(), c.Query("search"))
	if err != nil {
		logger.WithCtx(c.Context()).Error("catalog: category list failed", "error", err)
		c.Error(http.StatusInternalServerError, "could not load categories")
		return
	}
	c.Success(cats)
}

// Show handles GET /api/categories/{id}.
func (ct *CategoryController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
		return
	}

	cat, err := ct.catalog.GetCategory(c.Context(), id)
	if errors.Is(err, services.ErrCategoryNotFound) {
		c.NotFound()
		return
	}
	if err != nil {
		logger.WithCtx(c.Context()).Error("catalog: category fetch failed", "error", err)
		c.Error(http.StatusInternalServerError, "could not load category")
		return
	}
	c.Success(cat)
}

// Create handles POST /api/categories (admin).
func (ct *CategoryController) Create(c *ctx.Context) {
	var req categoryRequest
	if !c.BindJSON(&req) {
		return
	}

	cat := models.Category{Name: req.Name}
	if err := ct.catalog.CreateCategory(c.Context(), &cat); err != nil {
		logger.WithCtx(c.Context()).Error("catalog: category create failed", "error", err)
		c.Error(http.StatusInternalServerError, "could not create category")
		return
	}
	c.Created(cat)
}

// Update handles PUT /api/categories/{id} (admin).
func (ct *CategoryController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
		return
	}

	var req categoryRequest
	if !c.BindJSON(&req) {
		return
	}

	cat, err := ct.catalog.UpdateCategory(c.Context(), id, req.Name)
	switch {
	case err == nil:
		c.Success(cat)
	case errors.Is(err, services.ErrCategoryNotFound):
		c.NotFound()
	default:
		logger.WithCtx(c.Context()).Error("catalog: category update failed", "error", err)
		c.Error(http.StatusInternalServerError, "could not update category")
	}
}

// Delete handles DELETE /api/categories/{id} (admin).
func (ct *CategoryController) Delete(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
		return
	}

	err := ct.catalog.DeleteCategory(c.Context(), id)
	switch {
	case err == nil:
		c.Success(map[string]uint{"deleted": id})
	case errors.Is(err, services.ErrCategoryNotFound):
		c.NotFound()
	default:
		logger.WithCtx(c.Context()).Error("catalog: category delete failed", "error", err)
		c.Error(http.StatusInternalServerError, "could not delete category")
	}
}
