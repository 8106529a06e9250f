// Package routes wires controllers onto the router.
package routes

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/zaikahq/zaika/app/controllers"
	"github.com/zaikahq/zaika/app/models"
	"github.com/zaikahq/zaika/app/services"
	"github.com/zaikahq/zaika/pkg/ctx"
	"github.com/zaikahq/zaika/pkg/metrics"
	"github.com/zaikahq/zaika/pkg/middleware"
	"github.com/zaikahq/zaika/pkg/rbac"
	"github.com/zaikahq/zaika/pkg/response"
	"github.com/zaikahq/zaika/pkg/router"
	"github.com/zaikahq/zaika/pkg/ws"
)

// RegisterAPI mounts every HTTP endpoint. The ws hub is shared with the
// stock-changed listener so live clients see quantity updates.
func RegisterAPI(r *router.Router, db *gorm.DB, hub *ws.Hub) error {
	authCtl := controllers.NewAuthController(services.NewAuthService(db))
	cartCtl := controllers.NewCartController(services.NewCartService(db))

	catalog := services.NewCatalogService(db)
	productCtl := controllers.NewProductController(catalog)
	categoryCtl := controllers.NewCategoryController(catalog)
	restaurantCtl := controllers.NewRestaurantController(catalog)

	gqlCtl, err := controllers.NewGraphQLController(catalog)
	if err != nil {
		return err
	}

	admin := rbac.HasRole(models.RoleAdmin)

	api := r.Group("/api")

	// Auth.
	api.Post("/register", "auth.register", ctx.Wrap(authCtl.Register))
	api.Post("/login", "auth.login", ctx.Wrap(authCtl.Login))
	api.Post("/refresh", "auth.refresh", ctx.Wrap(authCtl.Refresh))

	// Catalog reads are public.
	api.Get("/categories", "categories.list", ctx.Wrap(categoryCtl.List))
	api.Get("/categories/{id}", "categories.show", ctx.Wrap(categoryCtl.Show))
	api.Get("/products", "products.list", ctx.Wrap(productCtl.List))
	api.Get("/products/{id}", "products.show", ctx.Wrap(productCtl.Show))
	api.Get("/restaurants", "restaurants.list", ctx.Wrap(restaurantCtl.List))
	api.Get("/restaurants/{id}", "restaurants.show", ctx.Wrap(restaurantCtl.Show))

	// Catalog writes need the admin role.
	api.Post("/categories", "categories.create", ctx.Wrap(categoryCtl.Create), middleware.Auth, admin)
	api.Put("/categories/{id}", "categories.update", ctx.Wrap(categoryCtl.Update), middleware.Auth, admin)
	api.Delete("/categories/{id}", "categories.delete", ctx.Wrap(categoryCtl.Delete), middleware.Auth, admin)
	api.Post("/products", "products.create", ctx.Wrap(productCtl.Create), middleware.Auth, admin)
	api.Put("/products/{id}", "products.update", ctx.Wrap(productCtl.Update), middleware.Auth, admin)
	api.Delete("/products/{id}", "products.delete", ctx.Wrap(productCtl.Delete), middleware.Auth, admin)
	api.Post("/products/{id}/image", "products.image", ctx.Wrap(productCtl.UploadImage), middleware.Auth, admin)

	// Restaurant owners manage their own listing.
	api.Post("/restaurants", "restaurants.create", ctx.Wrap(restaurantCtl.Create),
		middleware.Auth, rbac.HasRole(models.RoleRestaurant, models.RoleAdmin))

	// Cart, always authenticated.
	cart := api.Group("/cart", middleware.Auth)
	cart.Get("/", "cart.list", ctx.Wrap(cartCtl.List))
	cart.Post("/", "cart.add", ctx.Wrap(cartCtl.Add))
	cart.Get("/{id}/increment", "cart.increment", ctx.Wrap(cartCtl.Increment))
	cart.Get("/{id}/decrement", "cart.decrement", ctx.Wrap(cartCtl.Decrement))
	cart.Delete("/{id}", "cart.remove", ctx.Wrap(cartCtl.Remove))

	// Catalog GraphQL queries.
	api.Get("/graphql", "graphql.get", ctx.Wrap(gqlCtl.Handle))
	api.Post("/graphql", "graphql.post", ctx.Wrap(gqlCtl.Handle))

	// Live stock feed.
	api.Handle("/stock/live", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ws.Upgrade(w, req, hub)
	}))

	r.HandleFunc("/metrics", metrics.Handler())
	r.Get("/healthz", "healthz", func(w http.ResponseWriter, req *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})

	return nil
}
