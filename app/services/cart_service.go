package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/zaikahq/zaika/app/jobs"
	"github.com/zaikahq/zaika/app/models"
	"github.com/zaikahq/zaika/app/repositories"
	"github.com/zaikahq/zaika/app/views"
	"github.com/zaikahq/zaika/pkg/event"
	"github.com/zaikahq/zaika/pkg/logger"
	"github.com/zaikahq/zaika/pkg/metrics"
	"github.com/zaikahq/zaika/pkg/queue"
)

// EventStockChanged is fired after any committed transaction that moved
// units between a product and a cart. Payload: views.StockUpdate.
const EventStockChanged = "product.stock_changed"

// CartService moves quantity units between products and cart lines.
//
// Every operation runs as a single database transaction that locks the
// product row (and the cart row where one exists) before reading it, so the
// sum of a product's stock and all cart claims on it never changes outside
// RemoveFromCart returning units or AddToCart claiming them.
type CartService struct {
	db       *gorm.DB
	products *repositories.ProductRepository
	carts    *repositories.CartRepository
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{
		db:       db,
		products: repositories.NewProductRepository(db),
		carts:    repositories.NewCartRepository(db),
	}
}

// AddToCart creates a cart line for the product, claiming qty units of its
// stock up front. qty may be zero, which reserves the line without claiming
// anything. Fails with ErrAlreadyInCart if the user already holds a line for
// this product, and with ErrSoldOut (no mutation) if stock cannot cover qty.
func (s *CartService) AddToCart(ctx context.Context, userID, productID uint, qty int) error {
	if qty < 0 {
		return ErrInvalidQuantity
	}

	var update views.StockUpdate
	var productName string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.products.WithTx(tx).FindForUpdate(productID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}

		if _, err := s.carts.WithTx(tx).FindByUserAndProduct(userID, productID); err == nil {
			return ErrAlreadyInCart
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if product.Quantity < qty {
			return ErrSoldOut
		}

		item := models.CartItem{UserID: userID, ProductID: productID, Quantity: qty}
		if err := s.carts.WithTx(tx).Create(&item); err != nil {
			return err
		}

		product.Quantity -= qty
		if err := s.products.WithTx(tx).Save(&product); err != nil {
			return err
		}

		update = views.StockUpdate{ProductID: product.ID, Quantity: product.Quantity}
		productName = product.Name
		return nil
	})

	return s.finish(ctx, "add", err, update, productName, qty > 0)
}

// IncrementOne moves one unit from the product's stock onto the user's cart
// line. Returns ErrSoldOut, without mutating anything, when stock is zero.
func (s *CartService) IncrementOne(ctx context.Context, userID, itemID uint) error {
	var update views.StockUpdate
	var productName string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.carts.WithTx(tx).FindForUpdate(userID, itemID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		if err != nil {
			return err
		}

		product, err := s.products.WithTx(tx).FindForUpdate(item.ProductID)
		if err != nil {
			return err
		}

		if product.Quantity <= 0 {
			return ErrSoldOut
		}

		item.Quantity++
		product.Quantity--

		if err := s.carts.WithTx(tx).Save(&item); err != nil {
			return err
		}
		if err := s.products.WithTx(tx).Save(&product); err != nil {
			return err
		}

		update = views.StockUpdate{ProductID: product.ID, Quantity: product.Quantity}
		productName = product.Name
		return nil
	})

	return s.finish(ctx, "increment", err, update, productName, true)
}

// DecrementOne returns one unit from the user's cart line to the product's
// stock. Returns ErrNothingToRemove, without mutating anything, when the
// line already holds zero units.
func (s *CartService) DecrementOne(ctx context.Context, userID, itemID uint) error {
	var update views.StockUpdate

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.carts.WithTx(tx).FindForUpdate(userID, itemID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		if err != nil {
			return err
		}

		if item.Quantity == 0 {
			return ErrNothingToRemove
		}

		product, err := s.products.WithTx(tx).FindForUpdate(item.ProductID)
		if err != nil {
			return err
		}

		item.Quantity--
		product.Quantity++

		if err := s.carts.WithTx(tx).Save(&item); err != nil {
			return err
		}
		if err := s.products.WithTx(tx).Save(&product); err != nil {
			return err
		}

		update = views.StockUpdate{ProductID: product.ID, Quantity: product.Quantity}
		return nil
	})

	return s.finish(ctx, "decrement", err, update, "", true)
}

// RemoveFromCart deletes the user's cart line and returns every unit it held
// to the product's stock.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, itemID uint) error {
	var update views.StockUpdate

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.carts.WithTx(tx).FindForUpdate(userID, itemID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		if err != nil {
			return err
		}

		product, err := s.products.WithTx(tx).FindForUpdate(item.ProductID)
		if err != nil {
			return err
		}

		product.Quantity += item.Quantity

		if err := s.carts.WithTx(tx).Delete(&item); err != nil {
			return err
		}
		if err := s.products.WithTx(tx).Save(&product); err != nil {
			return err
		}

		update = views.StockUpdate{ProductID: product.ID, Quantity: product.Quantity}
		return nil
	})

	return s.finish(ctx, "remove", err, update, "", true)
}

// ListCart returns the user's cart lines joined with product and category
// columns. A non-empty term filters them.
func (s *CartService) ListCart(ctx context.Context, userID uint, term string) ([]views.CartLine, error) {
	return s.carts.WithTx(s.db.WithContext(ctx)).ListByUser(userID, term)
}

// ReleaseStale returns the stock held by every cart line not touched within
// olderThan and deletes those lines. Each line is its own transaction so one
// conflict cannot block the rest of the sweep. Returns the number of lines
// released.
func (s *CartService) ReleaseStale(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)

	stale, err := s.carts.WithTx(s.db.WithContext(ctx)).StaleBefore(cutoff)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, line := range stale {
		var update views.StockUpdate
		freed := false

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			item, err := s.carts.WithTx(tx).FindForUpdate(line.UserID, line.ID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // already gone
			}
			if err != nil {
				return err
			}

			product, err := s.products.WithTx(tx).FindForUpdate(item.ProductID)
			if err != nil {
				return err
			}

			product.Quantity += item.Quantity

			if err := s.carts.WithTx(tx).Delete(&item); err != nil {
				return err
			}
			if err := s.products.WithTx(tx).Save(&product); err != nil {
				return err
			}

			update = views.StockUpdate{ProductID: product.ID, Quantity: product.Quantity}
			freed = true
			return nil
		})
		if err != nil {
			logger.WithCtx(ctx).Error("cart: stale release failed",
				"cart_item_id", line.ID, "error", err)
			continue
		}
		if !freed {
			continue
		}

		released++
		metrics.RecordCartOperation("release_stale", CodeDone)
		event.Fire(EventStockChanged, update)
	}

	if released > 0 {
		logger.WithCtx(ctx).Info("cart: released stale lines", "count", released)
	}
	return released, nil
}

// finish records the operation outcome and, on success, fires the stock
// event and reacts to the product hitting zero.
func (s *CartService) finish(ctx context.Context, op string, err error, update views.StockUpdate, productName string, stockMoved bool) error {
	switch {
	case err == nil:
		metrics.RecordCartOperation(op, CodeDone)
	case errors.Is(err, ErrSoldOut):
		metrics.RecordCartOperation(op, CodeSoldOut)
		return err
	case errors.Is(err, ErrNothingToRemove):
		metrics.RecordCartOperation(op, CodeNoMore)
		return err
	default:
		return err
	}

	if stockMoved {
		event.Fire(EventStockChanged, update)
	}

	if stockMoved && update.Quantity == 0 && (op == "add" || op == "increment") {
		metrics.ProductSoldOut.Inc()
		if err := queue.Dispatch(&jobs.StockAlertJob{ProductID: update.ProductID, Name: productName}); err != nil {
			logger.WithCtx(ctx).Error("cart: stock alert dispatch failed",
				"product_id", update.ProductID, "error", err)
		}
	}

	return nil
}
