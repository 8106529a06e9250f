// Package seeders fills a fresh database with demo data.
package seeders

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/zaikahq/zaika/app/models"
	"github.com/zaikahq/zaika/pkg/auth"
	"github.com/zaikahq/zaika/pkg/logger"
)

// Run seeds demo users, restaurants, categories and products. Safe to run
// twice: it skips anything that already exists by its natural key.
func Run(db *gorm.DB) error {
	if err := seedUsers(db); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if err := seedCatalog(db); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	logger.Info("seed: done")
	return nil
}

func seedUsers(db *gorm.DB) error {
	users := []struct {
		name, email, password, role string
	}{
		{"Admin", "admin@zaika.app", "admin12345", models.RoleAdmin},
		{"Spice Villa", "owner@spicevilla.in", "owner12345", models.RoleRestaurant},
		{"Asha", "asha@example.com", "password123", models.RoleUser},
	}

	for _, u := range users {
		var existing models.User
		err := db.Where("email = ?", u.email).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := auth.HashPassword(u.password)
		if err != nil {
			return err
		}
		if err := db.Create(&models.User{
			Name: u.name, Email: u.email, Password: hash, Role: u.role,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedCatalog(db *gorm.DB) error {
	var owner models.User
	if err := db.Where("email = ?", "owner@spicevilla.in").First(&owner).Error; err != nil {
		return err
	}

	restaurant := models.Restaurant{Name: "Spice Villa", Address: "12 MG Road, Pune", OwnerID: owner.ID}
	var existing models.Restaurant
	err := db.Where("name = ?", restaurant.Name).First(&existing).Error
	switch {
	case err == nil:
		restaurant = existing
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := db.Create(&restaurant).Error; err != nil {
			return err
		}
	default:
		return err
	}

	categories := []string{"Starters", "Mains", "Desserts", "Beverages"}
	byName := make(map[string]uint, len(categories))
	for _, name := range categories {
		var cat models.Category
		err := db.Where("name = ?", name).First(&cat).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cat = models.Category{Name: name, RestaurantID: &restaurant.ID}
			if err := db.Create(&cat).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		byName[name] = cat.ID
	}

	products := []models.Product{
		{Name: "Paneer Tikka", Description: "Char-grilled cottage cheese", Price: 240, Quantity: 30, CategoryID: byName["Starters"]},
		{Name: "Dal Makhani", Description: "Slow-cooked black lentils", Price: 280, Quantity: 25, CategoryID: byName["Mains"]},
		{Name: "Hyderabadi Biryani", Description: "Dum-cooked basmati with saffron", Price: 340, Quantity: 20, CategoryID: byName["Mains"]},
		{Name: "Gulab Jamun", Description: "Two pieces, rose syrup", Price: 120, Quantity: 40, CategoryID: byName["Desserts"]},
		{Name: "Masala Chai", Description: "Spiced milk tea", Price: 60, Quantity: 100, CategoryID: byName["Beverages"]},
	}
	for _, p := range products {
		var got models.Product
		err := db.Where("name = ?", p.Name).First(&got).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&p).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}
