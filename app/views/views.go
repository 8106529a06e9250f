// Package views holds the read-model shapes returned by list endpoints.
package views

import "github.com/zaikahq/zaika/app/models"

// CartLine is one cart row joined with its product and category columns.
type CartLine struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	Quantity    int     `json:"quantity"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImagePath   string  `json:"image_path"`
	Category    string  `json:"category"`
}

// RestaurantSummary is the fixed listing shape for restaurants.
type RestaurantSummary struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// NewRestaurantSummary maps a model to its summary view.
func NewRestaurantSummary(r models.Restaurant) RestaurantSummary {
	return RestaurantSummary{ID: r.ID, Name: r.Name, Address: r.Address}
}

// RestaurantDetail is the full single-restaurant shape, menu included.
type RestaurantDetail struct {
	RestaurantSummary
	OwnerID    uint              `json:"owner_id"`
	Categories []models.Category `json:"categories"`
}

// NewRestaurantDetail maps a model (with Categories preloaded) to its
// detail view.
func NewRestaurantDetail(r models.Restaurant) RestaurantDetail {
	return RestaurantDetail{
		RestaurantSummary: NewRestaurantSummary(r),
		OwnerID:           r.OwnerID,
		Categories:        r.Categories,
	}
}

// AuthTokens is the login/refresh response body.
type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// StockUpdate is the JSON broadcast over the live stock WebSocket.
type StockUpdate struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}
