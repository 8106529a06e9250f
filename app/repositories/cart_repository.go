package repositories

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/zaikahq/zaika/app/models"
	"github.com/zaikahq/zaika/app/views"
	"github.com/zaikahq/zaika/pkg/metrics"
)

// CartRepository handles database operations for CartItem.
//
// Every lookup is scoped to the owning user: a cart item id on its own is
// never enough to read or modify a row.
type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *CartRepository) WithTx(tx *gorm.DB) *CartRepository {
	return &CartRepository{db: tx}
}

// Find returns the user's cart item by id.
func (r *CartRepository) Find(userID, itemID uint) (models.CartItem, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var item models.CartItem
	err := r.db.Where("user_id = ? AND id = ?", userID, itemID).First(&item).Error
	return item, err
}

// FindForUpdate returns the user's cart item by id, holding a row lock for
// the remainder of the surrounding transaction.
func (r *CartRepository) FindForUpdate(userID, itemID uint) (models.CartItem, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var item models.CartItem
	err := lockForUpdate(r.db).
		Where("user_id = ? AND id = ?", userID, itemID).
		First(&item).Error
	return item, err
}

// FindByUserAndProduct returns the user's cart line for a product, if any.
func (r *CartRepository) FindByUserAndProduct(userID, productID uint) (models.CartItem, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var item models.CartItem
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
	return item, err
}

// Create persists a new cart line.
func (r *CartRepository) Create(item *models.CartItem) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return r.db.Create(item).Error
}

// Save persists changes to an existing cart line.
func (r *CartRepository) Save(item *models.CartItem) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return r.db.Save(item).Error
}

// Delete removes a cart line.
func (r *CartRepository) Delete(item *models.CartItem) error {
	defer metrics.ObserveDBQuery("delete", time.Now())
	return r.db.Delete(item).Error
}

// ListByUser returns the user's cart lines in insertion order, each joined
// with its product and category columns. A non-empty term filters lines by
// case-insensitive substring match over product name, description and
// category name.
func (r *CartRepository) ListByUser(userID uint, term string) ([]views.CartLine, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	q := r.db.Model(&models.CartItem{}).
		Select(`cart_items.id, cart_items.product_id, cart_items.quantity,
			products.name, products.description, products.price, products.image_path,
			categories.name AS category`).
		Joins("JOIN products ON products.id = cart_items.product_id").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Where("cart_items.user_id = ?", userID)

	if term != "" {
		needle := "%" + strings.ToLower(term) + "%"
		q = q.Where(
			"LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ? OR LOWER(categories.name) LIKE ?",
			needle, needle, needle,
		)
	}

	var lines []views.CartLine
	err := q.Order("cart_items.id").Scan(&lines).Error
	return lines, err
}

// StaleBefore returns every cart line (any user) not touched since cutoff.
func (r *CartRepository) StaleBefore(cutoff time.Time) ([]models.CartItem, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var items []models.CartItem
	err := r.db.Where("updated_at < ?", cutoff).Order("id").Find(&items).Error
	return items, err
}
