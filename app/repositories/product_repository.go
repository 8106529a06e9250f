// Package repositories contains the data-access layer. Repositories take an
// explicit *gorm.DB so services can rebind them inside a transaction with
// WithTx; they enforce no business invariants themselves.
package repositories

import (
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zaikahq/zaika/app/models"
	"github.com/zaikahq/zaika/pkg/metrics"
	"github.com/zaikahq/zaika/pkg/orm"
)

// lockForUpdate applies SELECT ... FOR UPDATE row locking where the dialect
// supports it. sqlite rejects FOR UPDATE; its single-writer lock already
// serialises concurrent transactions.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

// Find looks up a product by primary key, category preloaded.
func (r *ProductRepository) Find(id uint) (models.Product, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var p models.Product
	err := r.db.Preload("Category").First(&p, id).Error
	return p, err
}

// FindForUpdate looks up a product by primary key holding a row lock for
// the remainder of the surrounding transaction.
func (r *ProductRepository) FindForUpdate(id uint) (models.Product, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var p models.Product
	err := lockForUpdate(r.db).First(&p, id).Error
	return p, err
}

// Create persists a new product.
func (r *ProductRepository) Create(p *models.Product) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return r.db.Create(p).Error
}

// Save persists changes to an existing product.
func (r *ProductRepository) Save(p *models.Product) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return r.db.Save(p).Error
}

// Delete removes a product by primary key.
func (r *ProductRepository) Delete(id uint) error {
	defer metrics.ObserveDBQuery("delete", time.Now())
	return r.db.Delete(&models.Product{}, id).Error
}

// Search returns products whose name, description or category name contains
// term (case-insensitive), paginated. An empty term lists everything.
func (r *ProductRepository) Search(term string, page, limit int) ([]models.Product, orm.Pagination, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	q := r.db.Model(&models.Product{}).
		Joins("LEFT JOIN categories ON categories.id = products.category_id")

	if term != "" {
		needle := "%" + strings.ToLower(term) + "%"
		q = q.Where(
			"LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ? OR LOWER(categories.name) LIKE ?",
			needle, needle, needle,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, orm.Pagination{}, err
	}

	p := orm.NewPagination(page, limit, total)

	var products []models.Product
	err := q.Preload("Category").
		Order("products.id").
		Scopes(p.Scope()).
		Find(&products).Error
	return products, p, err
}
