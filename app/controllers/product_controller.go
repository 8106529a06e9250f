package controllers

import (
	"errors"
	"net/http"

	"github.com/zaikahq/zaika/app/models"
	"github.com/zaikahq/zaika/app/services"
	"github.com/zaikahq/zaika/pkg/ctx"
	"github.com/zaikahq/zaika/pkg/logger"
	"github.com/zaikahq/zaika/pkg/response"
)

// maxImageBytes caps product image uploads at 5 MiB.
const maxImageBytes = 5 << 20

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

type productRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	Description string  `json:"description" validate:"nullable,max=2000"`
	Price       float64 `json:"price" validate:"required,gte=0"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	CategoryID  uint    `json:"category_id" validate:"required"`
}

// List handles GET /api/products. Supports ?search=, ?page= and ?limit=.
func (ct *ProductController) List(c *ctx.Context) {
	items, p, err := ct.catalog.ListProducts(
		c.Context(),
		c.Query("search"),
		c.QueryInt("page", 1),
		c.QueryInt("limit", 20),
	)
	if err != nil {
		logger.WithCtx(c.Context()).Error("catalog: product list failed", "error", err)
		c.Error(http.StatusInternalServerError, "could not load products")
		return
	}
	response.Paginated(c.W, items, p)
}

// Show handles GET /api/products/{id}.
func (ct *ProductController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
		return
	}

	p, err := ct.catalog.GetProduct(c.Context(), id)
	if errors.Is(err, services.ErrProductNotFound) {
		c.NotFound()
		return
	}
	if err != nil {
		logger.WithCtx(c.Context()).Error("catalog: product fetch failed", "error", err)
		c.Error(http.StatusInternalServerError, "could not load product")
		return
	}
	c.Success(p)
}

// Create handles POST /api/products (admin).
func (ct *ProductController) Create(c *ctx.Context) {
	var req productRequest
	if !c.BindJSON(&req) {
		return
	}

	p := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		CategoryID:  req.CategoryID,
	}
	if err := ct.catalog.CreateProduct(c.Context(), &p); err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			c.ValidationError(map[string]string{"category_id": "category does not exist"})
			return
		}
		logger.WithCtx(c.Context()).Error("catalog: product create failed", "error", err)
		c.Error(http.StatusInternalServerError, "could not create product")
		return
	}
	c.Created(p)
}

// Update handles PUT /api/products/{id} (admin).
func (ct *ProductController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
		return
	}

	var req productRequest
	if !c.BindJSON(&req) {
		return
	}

	p, err := ct.catalog.UpdateProduct(c.Context(), id, models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		CategoryID:  req.CategoryID,
	})
	switch {
	case err == nil:
		c.Success(p)
	case errors.Is(err, services.ErrProductNotFound):
		c.NotFound()
	case errors.Is(err, services.ErrCategoryNotFound):
		c.ValidationError(map[string]string{"category_id": "category does not exist"})
	default:
		logger.WithCtx(c.Context()).Error("catalog: product update failed", "error", err)
		c.Error(http.StatusInternalServerError, "could not update product")
	}
}

// Delete handles DELETE /api/products/{id} (admin).
func (ct *ProductController) Delete(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
		return
	}

	err := ct.catalog.DeleteProduct(c.Context(), id)
	switch {
	case err == nil:
		c.Success(map[string]uint{"deleted": id})
	case errors.Is(err, services.ErrProductNotFound):
		c.NotFound()
	default:
		logger.WithCtx(c.Context()).Error("catalog: product delete failed", "error", err)
		c.Error(http.StatusInternalServerError, "could not delete product")
	}
}

// UploadImage handles POST /api/products/{id}/image (admin, multipart form,
// field "image").
func (ct *ProductController) UploadImage(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
		return
	}

	if err := c.R.ParseMultipartForm(maxImageBytes); err != nil {
		c.ValidationError(map[string]string{"image": "multipart form required"})
		return
	}

	file, header, err := c.R.FormFile("image")
	if err != nil {
		c.ValidationError(map[string]string{"image": "image file required"})
		return
	}
	defer file.Close()

	p, err := ct.catalog.AttachImage(c.Context(), id, header.Filename, file)
	switch {
	case err == nil:
		c.Success(p)
	case errors.Is(err, services.ErrProductNotFound):
		c.NotFound()
	default:
		logger.WithCtx(c.Context()).Error("catalog: image upload failed", "error", err)
		c.Error(http.StatusInternalServerError, "could not store image")
	}
}
