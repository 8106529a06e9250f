package controllers

import (
	"errors"
	"net/http"

	"github.com/zaikahq/zaika/app/services"
	"github.com/zaikahq/zaika/pkg/ctx"
	"github.com/zaikahq/zaika/pkg/logger"
	"github.com/zaikahq/zaika/pkg/middleware"
)

type RestaurantController struct {
	catalog *services.CatalogService
}

func NewRestaurantController(catalog *services.CatalogService) *RestaurantController {
	return &RestaurantController{catalog: catalog}
}

type restaurantRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=200"`
	Address string `json:"address" validate:"required,max=500"`
}

// List handles GET /api/restaurants. Returns the summary view only; the
// menu is served by Show.
func (ct *RestaurantController) List(c *ctx.Context) {
	rests, err := ct.catalog.ListRestaurants(c.Context(), c.Query("search"))
	if err != nil {
		logger.WithCtx(c.Context()).Error("catalog: restaurant list failed", "error", err)
		c.Error(http.StatusInternalServerError, "could not load restaurants")
		return
	}
	c.Success(rests)
}

// Show handles GET /api/restaurants/{id}, menu categories included.
func (ct *RestaurantController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
		return
	}

	detail, err := ct.catalog.GetRestaurant(c.Context(), id)
	if errors.Is(err, services.ErrRestaurantNotFound) {
		c.NotFound()
		return
	}
	if err != nil {
		logger.WithCtx(c.Context()).Error("catalog: restaurant fetch failed", "error", err)
		c.Error(http.StatusInternalServerError, "could not load restaurant")
		return
	}
	c.Success(detail)
}

// Create handles POST /api/restaurants (role restaurant). The owner is the
// authenticated user.
func (ct *RestaurantController) Create(c *ctx.Context) {
	userID, ok := middleware.UserIDFromCtx(c.R)
	if !ok {
		c.Unauthorized()
		return
	}

	var req restaurantRequest
	if !c.BindJSON(&req) {
		return
	}

	r, err := ct.catalog.CreateRestaurant(c.Context(), userID, req.Name, req.Address)
	if err != nil {
		logger.WithCtx(c.Context()).Error("catalog: restaurant create failed", "error", err)
		c.Error(http.StatusInternalServerError, "could not create restaurant")
		return
	}
	c.Created(r)
}
