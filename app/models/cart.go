package models

import "time"

// CartItem is one user's reservation of units of one product.
//
// No gorm.Model here: soft deletes would leave tombstones that collide
// with the (user_id, product_id) unique index when a user re-adds a
// product after removing it. Rows are deleted for real.
type CartItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Quantity  int       `gorm:"not null;default:0" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product Product `json:"product,omitempty"`
}
