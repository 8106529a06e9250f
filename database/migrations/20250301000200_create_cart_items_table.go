package migrations

import (
	"gorm.io/gorm"

	"github.com/zaikahq/zaika/app/models"
	"github.com/zaikahq/zaika/pkg/migration"
)

func init() {
	migration.Register("20250301000200_create_cart_items_table", &CreateCartItemsTable{})
}

// CreateCartItemsTable creates the cart lines with the one-line-per-product
// unique index on (user_id, product_id). Rows are hard deleted; a tombstone
// would block the same product from being re-added.
type CreateCartItemsTable struct{}

func (m *CreateCartItemsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.CartItem{})
}

func (m *CreateCartItemsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("cart_items")
}
