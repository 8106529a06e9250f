package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"github.com/zaikahq/zaika/app/models"
	"github.com/zaikahq/zaika/app/repositories"
	"github.com/zaikahq/zaika/app/views"
	"github.com/zaikahq/zaika/pkg/cache"
	"github.com/zaikahq/zaika/pkg/collection"
	"github.com/zaikahq/zaika/pkg/logger"
	"github.com/zaikahq/zaika/pkg/orm"
	"github.com/zaikahq/zaika/pkg/storage"
)

const (
	cachePrefix     = "catalog:"
	catalogCacheTTL = 5 * time.Minute
)

var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrRestaurantNotFound = errors.New("restaurant not found")
)

// CatalogService manages products, categories and restaurants. Unfiltered
// product pages are served from Redis; any catalog mutation (and any stock
// movement, via the cache invalidation listener) drops the whole prefix.
type CatalogService struct {
	db          *gorm.DB
	products    *repositories.ProductRepository
	categories  *repositories.CategoryRepository
	restaurants *repositories.RestaurantRepository
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{
		db:          db,
		products:    repositories.NewProductRepository(db),
		categories:  repositories.NewCategoryRepository(db),
		restaurants: repositories.NewRestaurantRepository(db),
	}
}

// InvalidateCache drops every cached catalog page.
func InvalidateCache() {
	if err := cache.ForgetPrefix(cachePrefix); err != nil {
		logger.Warn("catalog: cache invalidation failed", "error", err)
	}
}

// ------------------- Products -------------------

type productPage struct {
	Items      []models.Product `json:"items"`
	Pagination orm.Pagination   `json:"pagination"`
}

// ListProducts returns a product page, filtered by term when non-empty.
// Unfiltered pages are cached; search results always hit the database.
func (s *CatalogService) ListProducts(ctx context.Context, term string, page, limit int) ([]models.Product, orm.Pagination, error) {
	if term == "" {
		key := fmt.Sprintf("%sproducts:page:%d:limit:%d", cachePrefix, page, limit)

		var cached productPage
		if cache.Get(key, &cached) {
			return cached.Items, cached.Pagination, nil
		}

		items, p, err := s.products.WithTx(s.db.WithContext(ctx)).Search("", page, limit)
		if err != nil {
			return nil, orm.Pagination{}, err
		}
		if err := cache.Set(key, productPage{Items: items, Pagination: p}, catalogCacheTTL); err != nil {
			logger.Warn("catalog: cache write failed", "key", key, "error", err)
		}
		return items, p, nil
	}

	return s.products.WithTx(s.db.WithContext(ctx)).Search(term, page, limit)
}

// GetProduct returns a single product with its category.
func (s *CatalogService) GetProduct(ctx context.Context, id uint) (models.Product, error) {
	p, err := s.products.WithTx(s.db.WithContext(ctx)).Find(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

// CreateProduct persists a new product under an existing category.
func (s *CatalogService) CreateProduct(ctx context.Context, p *models.Product) error {
	tx := s.db.WithContext(ctx)
	if _, err := s.categories.WithTx(tx).Find(p.CategoryID); errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCategoryNotFound
	} else if err != nil {
		return err
	}

	if err := s.products.WithTx(tx).Create(p); err != nil {
		return err
	}
	InvalidateCache()
	return nil
}

// UpdateProduct applies name, description, price, quantity and category
// changes to an existing product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, changes models.Product) (models.Product, error) {
	tx := s.db.WithContext(ctx)

	p, err := s.products.WithTx(tx).Find(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, err
	}

	if changes.CategoryID != 0 && changes.CategoryID != p.CategoryID {
		if _, err := s.categories.WithTx(tx).Find(changes.CategoryID); errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, ErrCategoryNotFound
		} else if err != nil {
			return models.Product{}, err
		}
		p.CategoryID = changes.CategoryID
	}

	p.Name = changes.Name
	p.Description = changes.Description
	p.Price = changes.Price
	p.Quantity = changes.Quantity

	if err := s.products.WithTx(tx).Save(&p); err != nil {
		return models.Product{}, err
	}
	InvalidateCache()
	return p, nil
}

// DeleteProduct removes a product from the catalog.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	tx := s.db.WithContext(ctx)
	if _, err := s.products.WithTx(tx).Find(id); errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductNotFound
	} else if err != nil {
		return err
	}

	if err := s.products.WithTx(tx).Delete(id); err != nil {
		return err
	}
	InvalidateCache()
	return nil
}

// AttachImage streams an uploaded file to the configured disk and records
// its path on the product.
func (s *CatalogService) AttachImage(ctx context.Context, id uint, filename string, r io.Reader) (models.Product, error) {
	tx := s.db.WithContext(ctx)

	p, err := s.products.WithTx(tx).Find(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, err
	}

	path := fmt.Sprintf("products/%d/%d%s", id, time.Now().UnixNano(), filepath.Ext(filename))
	if err := storage.PutStream(path, r); err != nil {
		return models.Product{}, fmt.Errorf("catalog: store image: %w", err)
	}

	old := p.ImagePath
	p.ImagePath = path
	if err := s.products.WithTx(tx).Save(&p); err != nil {
		return models.Product{}, err
	}

	if old != "" {
		if err := storage.Delete(old); err != nil {
			logger.Warn("catalog: old image cleanup failed", "path", old, "error", err)
		}
	}
	InvalidateCache()
	return p, nil
}

// ------------------- Categories -------------------

// ListCategories returns all categories, optionally filtered by name.
// The unfiltered list is cached.
func (s *CatalogService) ListCategories(ctx context.Context, term string) ([]models.Category, error) {
	if term == "" {
		var cats []models.Category
		err := orm.CachedFind(
			s.db.WithContext(ctx).Model(&models.Category{}).Order("id"),
			cachePrefix+"categories", catalogCacheTTL, &cats,
		)
		return cats, err
	}
	return s.categories.WithTx(s.db.WithContext(ctx)).Search(term)
}

// GetCategory returns a single category.
func (s *CatalogService) GetCategory(ctx context.Context, id uint) (models.Category, error) {
	c, err := s.categories.WithTx(s.db.WithContext(ctx)).Find(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Category{}, ErrCategoryNotFound
	}
	return c, err
}

func (s *CatalogService) CreateCategory(ctx context.Context, c *models.Category) error {
	if err := s.categories.WithTx(s.db.WithContext(ctx)).Create(c); err != nil {
		return err
	}
	InvalidateCache()
	return nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, name string) (models.Category, error) {
	tx := s.db.WithContext(ctx)

	c, err := s.categories.WithTx(tx).Find(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Category{}, ErrCategoryNotFound
	}
	if err != nil {
		return models.Category{}, err
	}

	c.Name = name
	if err := s.categories.WithTx(tx).Save(&c); err != nil {
		return models.Category{}, err
	}
	InvalidateCache()
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	tx := s.db.WithContext(ctx)
	if _, err := s.categories.WithTx(tx).Find(id); errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCategoryNotFound
	} else if err != nil {
		return err
	}

	if err := s.categories.WithTx(tx).Delete(id); err != nil {
		return err
	}
	InvalidateCache()
	return nil
}

// ------------------- Restaurants -------------------

// ListRestaurants returns restaurant summaries, filtered by name when term
// is non-empty.
func (s *CatalogService) ListRestaurants(ctx context.Context, term string) ([]views.RestaurantSummary, error) {
	rests, err := s.restaurants.WithTx(s.db.WithContext(ctx)).Search(term)
	if err != nil {
		return nil, err
	}
	return collection.Map(rests, views.NewRestaurantSummary), nil
}

// GetRestaurant returns one restaurant with its menu categories.
func (s *CatalogService) GetRestaurant(ctx context.Context, id uint) (views.RestaurantDetail, error) {
	r, err := s.restaurants.WithTx(s.db.WithContext(ctx)).Find(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return views.RestaurantDetail{}, ErrRestaurantNotFound
	}
	if err != nil {
		return views.RestaurantDetail{}, err
	}
	return views.NewRestaurantDetail(r), nil
}

// CreateRestaurant persists a restaurant owned by the given user.
func (s *CatalogService) CreateRestaurant(ctx context.Context, ownerID uint, name, address string) (models.Restaurant, error) {
	r := models.Restaurant{Name: name, Address: address, OwnerID: ownerID}
	if err := s.restaurants.WithTx(s.db.WithContext(ctx)).Create(&r); err != nil {
		return models.Restaurant{}, err
	}
	return r, nil
}
