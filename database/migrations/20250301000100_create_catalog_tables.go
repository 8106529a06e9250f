package migrations

import (
	"gorm.io/gorm"

	"github.com/zaikahq/zaika/app/models"
	"github.com/zaikahq/zaika/pkg/migration"
)

func init() {
	migration.Register("20250301000100_create_catalog_tables", &CreateCatalogTables{})
}

type CreateCatalogTables struct{}

func (m *CreateCatalogTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Restaurant{}, &models.Category{}, &models.Product{})
}

func (m *CreateCatalogTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products", "categories", "restaurants")
}
