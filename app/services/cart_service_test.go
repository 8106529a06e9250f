package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/zaikahq/zaika/app/models"
	"github.com/zaikahq/zaika/app/views"
	"github.com/zaikahq/zaika/pkg/event"
)

var dbSeq int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:cartsvc%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
	))

	event.Flush()
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, qty int) models.Product {
	t.Helper()

	cat := models.Category{Name: fmt.Sprintf("Mains %d", atomic.AddInt64(&dbSeq, 1))}
	require.NoError(t, db.Create(&cat).Error)

	p := models.Product{Name: "Dal Makhani", Price: 280, Quantity: qty, CategoryID: cat.ID}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func getProduct(t *testing.T, db *gorm.DB, id uint) models.Product {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, id).Error)
	return p
}

func getCartItem(t *testing.T, db *gorm.DB, userID, productID uint) models.CartItem {
	t.Helper()
	var item models.CartItem
	require.NoError(t, db.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error)
	return item
}

// stockSum is product stock plus every cart claim on it. It must not change
// across cart operations.
func stockSum(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()

	p := getProduct(t, db, productID)

	var claimed struct{ Total int }
	require.NoError(t, db.Model(&models.CartItem{}).
		Select("COALESCE(SUM(quantity), 0) as total").
		Where("product_id = ?", productID).
		Scan(&claimed).Error)

	return p.Quantity + claimed.Total
}

func TestAddToCartZeroReservesSlotOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	p := seedProduct(t, db, 5)

	require.NoError(t, svc.AddToCart(context.Background(), 1, p.ID, 0))

	item := getCartItem(t, db, 1, p.ID)
	assert.Equal(t, 0, item.Quantity)
	assert.Equal(t, 5, getProduct(t, db, p.ID).Quantity)
}

func TestAddToCartClaimsUnits(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	p := seedProduct(t, db, 5)

	require.NoError(t, svc.AddToCart(context.Background(), 1, p.ID, 3))

	assert.Equal(t, 3, getCartItem(t, db, 1, p.ID).Quantity)
	assert.Equal(t, 2, getProduct(t, db, p.ID).Quantity)
	assert.Equal(t, 5, stockSum(t, db, p.ID))
}

func TestAddToCartSoldOutLeavesStateUntouched(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	p := seedProduct(t, db, 2)

	err := svc.AddToCart(context.Background(), 1, p.ID, 3)
	require.ErrorIs(t, err, ErrSoldOut)

	assert.Equal(t, 2, getProduct(t, db, p.ID).Quantity)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAddToCartRejectsDuplicateLine(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	p := seedProduct(t, db, 5)

	require.NoError(t, svc.AddToCart(context.Background(), 1, p.ID, 1))
	err := svc.AddToCart(context.Background(), 1, p.ID, 1)
	require.ErrorIs(t, err, ErrAlreadyInCart)

	// A second user can still add the same product.
	require.NoError(t, svc.AddToCart(context.Background(), 2, p.ID, 1))
	assert.Equal(t, 5, stockSum(t, db, p.ID))
}

func TestAddToCartUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)

	err := svc.AddToCart(context.Background(), 1, 999, 1)
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddToCartNegativeQuantity(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	p := seedProduct(t, db, 5)

	err := svc.AddToCart(context.Background(), 1, p.ID, -1)
	require.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, 5, getProduct(t, db, p.ID).Quantity)
}

func TestIncrementUntilSoldOut(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	p := seedProduct(t, db, 5)
	ctx := context.Background()

	require.NoError(t, svc.AddToCart(ctx, 1, p.ID, 0))
	item := getCartItem(t, db, 1, p.ID)

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.IncrementOne(ctx, 1, item.ID))
	}

	assert.Equal(t, 5, getCartItem(t, db, 1, p.ID).Quantity)
	assert.Equal(t, 0, getProduct(t, db, p.ID).Quantity)

	// The sixth unit does not exist.
	err := svc.IncrementOne(ctx, 1, item.ID)
	require.ErrorIs(t, err, ErrSoldOut)
	assert.Equal(t, 5, getCartItem(t, db, 1, p.ID).Quantity)
	assert.Equal(t, 0, getProduct(t, db, p.ID).Quantity)
}

func TestDecrementReturnsUnitToStock(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	p := seedProduct(t, db, 5)
	ctx := context.Background()

	require.NoError(t, svc.AddToCart(ctx, 1, p.ID, 5))
	item := getCartItem(t, db, 1, p.ID)

	require.NoError(t, svc.DecrementOne(ctx, 1, item.ID))

	assert.Equal(t, 4, getCartItem(t, db, 1, p.ID).Quantity)
	assert.Equal(t, 1, getProduct(t, db, p.ID).Quantity)
}

func TestDecrementEmptyLineIsNoMore(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	p := seedProduct(t, db, 5)
	ctx := context.Background()

	require.NoError(t, svc.AddToCart(ctx, 1, p.ID, 0))
	item := getCartItem(t, db, 1, p.ID)

	err := svc.DecrementOne(ctx, 1, item.ID)
	require.ErrorIs(t, err, ErrNothingToRemove)

	assert.Equal(t, 0, getCartItem(t, db, 1, p.ID).Quantity)
	assert.Equal(t, 5, getProduct(t, db, p.ID).Quantity)
}

func TestRemoveReturnsAllUnits(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	p := seedProduct(t, db, 5)
	ctx := context.Background()

	require.NoError(t, svc.AddToCart(ctx, 1, p.ID, 3))
	item := getCartItem(t, db, 1, p.ID)
	assert.Equal(t, 2, getProduct(t, db, p.ID).Quantity)

	require.NoError(t, svc.RemoveFromCart(ctx, 1, item.ID))

	assert.Equal(t, 5, getProduct(t, db, p.ID).Quantity)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("id = ?", item.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRemoveThenReAddSameProduct(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	p := seedProduct(t, db, 5)
	ctx := context.Background()

	require.NoError(t, svc.AddToCart(ctx, 1, p.ID, 2))
	item := getCartItem(t, db, 1, p.ID)
	require.NoError(t, svc.RemoveFromCart(ctx, 1, item.ID))

	// No tombstone blocks the unique (user_id, product_id) index.
	require.NoError(t, svc.AddToCart(ctx, 1, p.ID, 1))
	assert.Equal(t, 1, getCartItem(t, db, 1, p.ID).Quantity)
	assert.Equal(t, 5, stockSum(t, db, p.ID))
}

func TestForeignCartItemIsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	p := seedProduct(t, db, 5)
	ctx := context.Background()

	require.NoError(t, svc.AddToCart(ctx, 1, p.ID, 2))
	item := getCartItem(t, db, 1, p.ID)

	require.ErrorIs(t, svc.IncrementOne(ctx, 2, item.ID), ErrCartItemNotFound)
	require.ErrorIs(t, svc.DecrementOne(ctx, 2, item.ID), ErrCartItemNotFound)
	require.ErrorIs(t, svc.RemoveFromCart(ctx, 2, item.ID), ErrCartItemNotFound)

	// Owner state untouched.
	assert.Equal(t, 2, getCartItem(t, db, 1, p.ID).Quantity)
	assert.Equal(t, 3, getProduct(t, db, p.ID).Quantity)
}

func TestConservationAcrossSequences(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	p := seedProduct(t, db, 7)
	ctx := context.Background()

	check := func() {
		t.Helper()
		assert.Equal(t, 7, stockSum(t, db, p.ID))
		assert.GreaterOrEqual(t, getProduct(t, db, p.ID).Quantity, 0)

		var items []models.CartItem
		require.NoError(t, db.Where("product_id = ?", p.ID).Find(&items).Error)
		for _, item := range items {
			assert.GreaterOrEqual(t, item.Quantity, 0)
		}
	}

	require.NoError(t, svc.AddToCart(ctx, 1, p.ID, 2))
	check()
	require.NoError(t, svc.AddToCart(ctx, 2, p.ID, 3))
	check()

	u1 := getCartItem(t, db, 1, p.ID)
	u2 := getCartItem(t, db, 2, p.ID)

	require.NoError(t, svc.IncrementOne(ctx, 1, u1.ID))
	check()
	require.NoError(t, svc.IncrementOne(ctx, 2, u2.ID))
	check()

	// Stock is now 0; further claims bounce without moving anything.
	require.ErrorIs(t, svc.IncrementOne(ctx, 1, u1.ID), ErrSoldOut)
	check()

	require.NoError(t, svc.DecrementOne(ctx, 2, u2.ID))
	check()
	require.NoError(t, svc.RemoveFromCart(ctx, 1, u1.ID))
	check()
	require.NoError(t, svc.RemoveFromCart(ctx, 2, u2.ID))
	check()

	assert.Equal(t, 7, getProduct(t, db, p.ID).Quantity)
}

func TestListCartJoinsProductAndCategory(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	ctx := context.Background()

	cat := models.Category{Name: "Street Food"}
	require.NoError(t, db.Create(&cat).Error)
	pav := models.Product{Name: "Pav Bhaji", Description: "Buttery mash", Price: 150, Quantity: 10, CategoryID: cat.ID}
	vada := models.Product{Name: "Vada Pav", Description: "Bombay burger", Price: 40, Quantity: 10, CategoryID: cat.ID}
	require.NoError(t, db.Create(&pav).Error)
	require.NoError(t, db.Create(&vada).Error)

	require.NoError(t, svc.AddToCart(ctx, 1, pav.ID, 2))
	require.NoError(t, svc.AddToCart(ctx, 1, vada.ID, 1))

	lines, err := svc.ListCart(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "Pav Bhaji", lines[0].Name)
	assert.Equal(t, "Street Food", lines[0].Category)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 150.0, lines[0].Price)

	// Search narrows by product name, case-insensitive.
	lines, err = svc.ListCart(ctx, 1, "vada")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Vada Pav", lines[0].Name)

	// Another user sees nothing.
	lines, err = svc.ListCart(ctx, 2, "")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestReleaseStaleReturnsUnits(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	p := seedProduct(t, db, 5)
	ctx := context.Background()

	require.NoError(t, svc.AddToCart(ctx, 1, p.ID, 3))
	require.NoError(t, svc.AddToCart(ctx, 2, p.ID, 1))

	// Backdate only the first user's line past the cutoff.
	stale := getCartItem(t, db, 1, p.ID)
	require.NoError(t, db.Model(&models.CartItem{}).
		Where("id = ?", stale.ID).
		UpdateColumn("updated_at", time.Now().Add(-100*time.Hour)).Error)

	released, err := svc.ReleaseStale(ctx, 72*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, released)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("id = ?", stale.ID).Count(&count).Error)
	assert.Zero(t, count)

	// Fresh line survives, released units are back in stock.
	assert.Equal(t, 1, getCartItem(t, db, 2, p.ID).Quantity)
	assert.Equal(t, 4, getProduct(t, db, p.ID).Quantity)
	assert.Equal(t, 5, stockSum(t, db, p.ID))
}

func TestStockChangedEventFires(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	p := seedProduct(t, db, 5)
	ctx := context.Background()

	var got []views.StockUpdate
	event.Listen(EventStockChanged, func(payload interface{}) {
		if u, ok := payload.(views.StockUpdate); ok {
			got = append(got, u)
		}
	})
	t.Cleanup(event.Flush)

	require.NoError(t, svc.AddToCart(ctx, 1, p.ID, 2))
	item := getCartItem(t, db, 1, p.ID)
	require.NoError(t, svc.IncrementOne(ctx, 1, item.ID))

	// Zero-quantity adds move no stock and stay silent.
	p2 := seedProduct(t, db, 3)
	require.NoError(t, svc.AddToCart(ctx, 1, p2.ID, 0))

	require.Len(t, got, 2)
	assert.Equal(t, views.StockUpdate{ProductID: p.ID, Quantity: 3}, got[0])
	assert.Equal(t, views.StockUpdate{ProductID: p.ID, Quantity: 2}, got[1])
}
