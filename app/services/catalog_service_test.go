package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/zaikahq/zaika/app/models"
)

func seedCatalog(t *testing.T, db *gorm.DB) (models.Category, models.Category) {
	t.Helper()

	starters := models.Category{Name: "Starters"}
	mains := models.Category{Name: "Mains"}
	require.NoError(t, db.Create(&starters).Error)
	require.NoError(t, db.Create(&mains).Error)

	products := []models.Product{
		{Name: "Paneer Tikka", Description: "Char-grilled cottage cheese", Price: 240, Quantity: 30, CategoryID: starters.ID},
		{Name: "Hara Bhara Kabab", Description: "Spinach and peas patties", Price: 180, Quantity: 20, CategoryID: starters.ID},
		{Name: "Dal Makhani", Description: "Slow-cooked black lentils", Price: 280, Quantity: 25, CategoryID: mains.ID},
	}
	for i := range products {
		require.NoError(t, db.Create(&products[i]).Error)
	}
	return starters, mains
}

func TestListProductsSearchMatchesNameDescriptionAndCategory(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	seedCatalog(t, db)
	ctx := context.Background()

	items, p, err := svc.ListProducts(ctx, "", 1, 20)
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, int64(3), p.Total)

	// By name.
	items, _, err = svc.ListProducts(ctx, "paneer", 1, 20)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Paneer Tikka", items[0].Name)

	// By description.
	items, _, err = svc.ListProducts(ctx, "lentils", 1, 20)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Dal Makhani", items[0].Name)

	// By category name.
	items, _, err = svc.ListProducts(ctx, "starters", 1, 20)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestListProductsPaginates(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	seedCatalog(t, db)
	ctx := context.Background()

	items, p, err := svc.ListProducts(ctx, "", 1, 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(3), p.Total)
	assert.Equal(t, 2, p.Pages)

	items, _, err = svc.ListProducts(ctx, "", 2, 2)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCreateProductRequiresExistingCategory(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)

	p := models.Product{Name: "Kheer", Price: 90, Quantity: 10, CategoryID: 999}
	err := svc.CreateProduct(context.Background(), &p)
	require.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestUpdateProduct(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	_, mains := seedCatalog(t, db)
	ctx := context.Background()

	var p models.Product
	require.NoError(t, db.Where("name = ?", "Paneer Tikka").First(&p).Error)

	updated, err := svc.UpdateProduct(ctx, p.ID, models.Product{
		Name: "Paneer Tikka Masala", Description: "Now with gravy",
		Price: 290, Quantity: 12, CategoryID: mains.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Paneer Tikka Masala", updated.Name)
	assert.Equal(t, mains.ID, updated.CategoryID)
	assert.Equal(t, 12, updated.Quantity)

	_, err = svc.UpdateProduct(ctx, 999, models.Product{Name: "x"})
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteProduct(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	seedCatalog(t, db)
	ctx := context.Background()

	var p models.Product
	require.NoError(t, db.Where("name = ?", "Dal Makhani").First(&p).Error)

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	_, err := svc.GetProduct(ctx, p.ID)
	require.ErrorIs(t, err, ErrProductNotFound)

	require.ErrorIs(t, svc.DeleteProduct(ctx, p.ID), ErrProductNotFound)
}

func TestCategoryCRUD(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	cat := models.Category{Name: "Desserts"}
	require.NoError(t, svc.CreateCategory(ctx, &cat))
	require.NotZero(t, cat.ID)

	updated, err := svc.UpdateCategory(ctx, cat.ID, "Sweets")
	require.NoError(t, err)
	assert.Equal(t, "Sweets", updated.Name)

	cats, err := svc.ListCategories(ctx, "swee")
	require.NoError(t, err)
	require.Len(t, cats, 1)

	require.NoError(t, svc.DeleteCategory(ctx, cat.ID))
	_, err = svc.UpdateCategory(ctx, cat.ID, "x")
	require.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestRestaurantViews(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	r, err := svc.CreateRestaurant(ctx, 7, "Spice Villa", "12 MG Road, Pune")
	require.NoError(t, err)

	menu := models.Category{Name: "House Specials", RestaurantID: &r.ID}
	require.NoError(t, db.Create(&menu).Error)

	// Listing carries the summary shape only.
	summaries, err := svc.ListRestaurants(ctx, "spice")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Spice Villa", summaries[0].Name)
	assert.Equal(t, "12 MG Road, Pune", summaries[0].Address)

	// Detail includes the owner and the menu.
	detail, err := svc.GetRestaurant(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(7), detail.OwnerID)
	require.Len(t, detail.Categories, 1)
	assert.Equal(t, "House Specials", detail.Categories[0].Name)

	_, err = svc.GetRestaurant(ctx, 999)
	require.ErrorIs(t, err, ErrRestaurantNotFound)
}
