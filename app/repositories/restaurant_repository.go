package repositories

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/zaikahq/zaika/app/models"
	"github.com/zaikahq/zaika/pkg/metrics"
)

// RestaurantRepository handles database operations for Restaurant.
type RestaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *RestaurantRepository) WithTx(tx *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{db: tx}
}

// Find returns a restaurant with its menu categories preloaded.
func (r *RestaurantRepository) Find(id uint) (models.Restaurant, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var rest models.Restaurant
	err := r.db.Preload("Categories").First(&rest, id).Error
	return rest, err
}

// Search lists restaurants, optionally filtered by a case-insensitive
// substring of the name.
func (r *RestaurantRepository) Search(term string) ([]models.Restaurant, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	q := r.db.Model(&models.Restaurant{})
	if term != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(term)+"%")
	}

	var rests []models.Restaurant
	err := q.Order("id").Find(&rests).Error
	return rests, err
}

func (r *RestaurantRepository) Create(rest *models.Restaurant) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return r.db.Create(rest).Error
}

func (r *RestaurantRepository) Save(rest *models.Restaurant) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return r.db.Save(rest).Error
}

func (r *RestaurantRepository) Delete(id uint) error {
	defer metrics.ObserveDBQuery("delete", time.Now())
	return r.db.Delete(&models.Restaurant{}, id).Error
}
