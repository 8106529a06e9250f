package models

import "gorm.io/gorm"

// Category groups products, optionally under a restaurant's menu.
type Category struct {
	gorm.Model
	Name         string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	RestaurantID *uint  `gorm:"index" json:"restaurant_id,omitempty"`
}

// Restaurant is a seller on the marketplace.
type Restaurant struct {
	gorm.Model
	Name       string     `gorm:"size:255;not null;index" json:"name"`
	Address    string     `gorm:"size:512" json:"address"`
	OwnerID    uint       `gorm:"not null;index" json:"owner_id"`
	Categories []Category `gorm:"foreignKey:RestaurantID" json:"categories,omitempty"`
}

// Product is a sellable catalog item.
//
// Quantity is the number of units currently available for sale. Units
// reserved in carts are not counted here; for any product the sum of
// Quantity and all cart-line quantities stays constant between restocks.
type Product struct {
	gorm.Model
	Name        string   `gorm:"size:255;not null;index" json:"name"`
	Description string   `gorm:"type:text" json:"description"`
	Price       float64  `gorm:"not null;default:0" json:"price"`
	Quantity    int      `gorm:"not null;default:0" json:"quantity"`
	ImagePath   string   `gorm:"size:512" json:"image_path"`
	CategoryID  uint     `gorm:"not null;index" json:"category_id"`
	Category    Category `json:"category,omitempty"`
}
