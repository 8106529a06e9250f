package repositories

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/zaikahq/zaika/app/models"
	"github.com/zaikahq/zaika/pkg/metrics"
)

// CategoryRepository handles database operations for Category.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *CategoryRepository) WithTx(tx *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: tx}
}

func (r *CategoryRepository) Find(id uint) (models.Category, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var c models.Category
	err := r.db.First(&c, id).Error
	return c, err
}

// Search lists categories, optionally filtered by a case-insensitive
// substring of the name.
func (r *CategoryRepository) Search(term string) ([]models.Category, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	q := r.db.Model(&models.Category{})
	if term != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(term)+"%")
	}

	var cats []models.Category
	err := q.Order("id").Find(&cats).Error
	return cats, err
}

func (r *CategoryRepository) Create(c *models.Category) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return r.db.Create(c).Error
}

func (r *CategoryRepository) Save(c *models.Category) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return r.db.Save(c).Error
}

func (r *CategoryRepository) Delete(id uint) error {
	defer metrics.ObserveDBQuery("delete", time.Now())
	return r.db.Delete(&models.Category{}, id).Error
}
