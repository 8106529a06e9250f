package controllers

import (
	"errors"
	"net/http"

	"github.com/zaikahq/zaika/app/services"
	"github.com/zaikahq/zaika/pkg/ctx"
	"github.com/zaikahq/zaika/pkg/logger"
	"github.com/zaikahq/zaika/pkg/middleware"
)

// CartController exposes the cart over HTTP. All handlers require the auth
// middleware; the user id always comes from the token, never the body.
type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

type addToCartRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"gte=0"`
}

// Add handles POST /api/cart.
func (ct *CartController) Add(c *ctx.Context) {
	userID, ok := middleware.UserIDFromCtx(c.R)
	if !ok {
		c.Unauthorized()
		return
	}

	var req addToCartRequest
	if !c.BindJSON(&req) {
		return
	}

	err := ct.carts.AddToCart(c.Context(), userID, req.ProductID, req.Quantity)
	ct.respond(c, err, "Product added to cart.")
}

// List handles GET /api/cart. An optional ?search= filters the lines by
// product name, description or category name.
func (ct *CartController) List(c *ctx.Context) {
	userID, ok := middleware.UserIDFromCtx(c.R)
	if !ok {
		c.Unauthorized()
		return
	}

	lines, err := ct.carts.ListCart(c.Context(), userID, c.Query("search"))
	if err != nil {
		logger.WithCtx(c.Context()).Error("cart: list failed", "error", err)
		c.Error(http.StatusInternalServerError, "could not load cart")
		return
	}
	c.Success(lines)
}

// Increment handles GET /api/cart/{id}/increment.
func (ct *CartController) Increment(c *ctx.Context) {
	userID, ok := middleware.UserIDFromCtx(c.R)
	if !ok {
		c.Unauthorized()
		return
	}
	itemID, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
		return
	}

	err := ct.carts.IncrementOne(c.Context(), userID, itemID)
	ct.respond(c, err, "Added one more.")
}

// Decrement handles GET /api/cart/{id}/decrement.
func (ct *CartController) Decrement(c *ctx.Context) {
	userID, ok := middleware.UserIDFromCtx(c.R)
	if !ok {
		c.Unauthorized()
		return
	}
	itemID, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
		return
	}

	err := ct.carts.DecrementOne(c.Context(), userID, itemID)
	ct.respond(c, err, "Removed one.")
}

// Remove handles DELETE /api/cart/{id}.
func (ct *CartController) Remove(c *ctx.Context) {
	userID, ok := middleware.UserIDFromCtx(c.R)
	if !ok {
		c.Unauthorized()
		return
	}
	itemID, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
		return
	}

	err := ct.carts.RemoveFromCart(c.Context(), userID, itemID)
	ct.respond(c, err, "Removed from cart.")
}

// respond maps service results onto the outcome contract. Business limits
// (sold out, nothing left) answer 200 with a code so clients can react
// without parsing error statuses.
func (ct *CartController) respond(c *ctx.Context, err error, doneDetail string) {
	switch {
	case err == nil:
		c.Outcome(doneDetail, services.CodeDone)
	case errors.Is(err, services.ErrSoldOut):
		c.Outcome("No stock left for this product.", services.CodeSoldOut)
	case errors.Is(err, services.ErrNothingToRemove):
		c.Outcome("Nothing left to remove.", services.CodeNoMore)
	case errors.Is(err, services.ErrProductNotFound), errors.Is(err, services.ErrCartItemNotFound):
		c.NotFound()
	case errors.Is(err, services.ErrAlreadyInCart):
		c.Conflict("Product is already in your cart.")
	case errors.Is(err, services.ErrInvalidQuantity):
		c.ValidationError(map[string]string{"quantity": "must be zero or more"})
	default:
		logger.WithCtx(c.Context()).Error("cart: operation failed", "error", err)
		c.Error(http.StatusInternalServerError, "something went wrong")
	}
}
