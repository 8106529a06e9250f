// Package orm provides small query helpers on top of gorm: pagination
// metadata and a cached-read path backed by pkg/cache.
package orm

import (
	"time"

	"github.com/zaikahq/zaika/pkg/cache"
	"gorm.io/gorm"
)

// Pagination carries page metadata alongside a paginated result set.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination normalizes page/limit and computes the page count.
func NewPagination(page, limit int, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// Offset returns the SQL offset for this page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Scope returns a gorm scope applying this pagination.
//
//	db.Scopes(p.Scope()).Find(&products)
func (p Pagination) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.Limit)
	}
}

// CachedFind runs Find on tx into dest, serving from and populating the
// cache under key. On a cache hit the database is not touched.
func CachedFind(tx *gorm.DB, key string, ttl time.Duration, dest interface{}) error {
	if cache.Get(key, dest) {
		return nil
	}

	if err := tx.Find(dest).Error; err != nil {
		return err
	}

	cache.Set(key, dest, ttl)
	return nil
}
