package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func ok(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func TestNamedRouteLookup(t *testing.T) {
	r := New()
	r.Get("/products/{id}", "products.show", ok)

	path, found := r.Path("products.show")
	if !found || path != "/products/{id}" {
		t.Fatalf("Path() = %q, %v", path, found)
	}

	url, err := r.URL("products.show", map[string]string{"id": "9"})
	if err != nil || url != "/products/9" {
		t.Fatalf("URL() = %q, %v", url, err)
	}

	if _, err := r.URL("products.show", nil); err == nil {
		t.Fatal("URL() with missing params should error")
	}
	if _, err := r.URL("nope", nil); err == nil {
		t.Fatal("URL() for unknown route should error")
	}
}

func TestGroupPrefixAndMiddleware(t *testing.T) {
	var order []string
	mw := func(tag string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, tag)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := New()
	api := r.Group("/api", mw("outer"))
	cart := api.Group("/cart", mw("inner"))
	cart.Get("/{id}/increment", "cart.increment", ok)

	req := httptest.NewRequest(http.MethodGet, "/api/cart/3/increment", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Fatalf("middleware order = %v", order)
	}
}

func TestRoutesListing(t *testing.T) {
	r := New()
	r.Get("/healthz", "healthz", ok)
	api := r.Group("/api")
	api.Post("/cart", "cart.add", ok)

	routes := r.Routes()
	if len(routes) != 2 {
		t.Fatalf("Routes() len = %d", len(routes))
	}
	if routes[1].Method != http.MethodPost || routes[1].Path != "/api/cart" || routes[1].Name != "cart.add" {
		t.Fatalf("Routes()[1] = %+v", routes[1])
	}
}
