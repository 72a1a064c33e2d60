// Package cart manages the line items of the active session's shopping
// cart. One ledger entry per product id; quantities never drop below one,
// an entry reaching zero is removed instead.
package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/quickcart-shop/quickcart/internal/events"
	"github.com/quickcart-shop/quickcart/internal/logging"
	"github.com/quickcart-shop/quickcart/internal/models"
	"github.com/quickcart-shop/quickcart/internal/storage"
)

var (
	ErrValidation = errors.New("validation")
	ErrEmptyCart  = errors.New("cart is empty")
)

const DefaultTaxRate = 0.08

type Service struct {
	Store    storage.Store
	Producer *events.Producer

	// TaxRate of zero means DefaultTaxRate; the zero value of Service is
	// usable without further setup.
	TaxRate float64

	mu sync.Mutex
}

// Add merges the product into the ledger: an existing entry gains one to its
// quantity, otherwise a new entry with quantity one is appended. Stock is
// deliberately not checked.
func (s *Service) Add(ctx context.Context, product models.Product) (models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.load(ctx)
	idx := indexOf(items, product.ID)
	if idx >= 0 {
		items[idx].Quantity++
	} else {
		items = append(items, models.CartItem{Product: product, Quantity: 1})
		idx = len(items) - 1
	}

	if err := s.save(ctx, items); err != nil {
		return models.CartItem{}, err
	}

	s.publish(ctx, map[string]any{
		"type":       "cart_item_added",
		"product_id": product.ID,
		"quantity":   items[idx].Quantity,
	})
	return items[idx], nil
}

// Remove deletes the entry for productID. Removing an absent entry is a
// no-op.
func (s *Service) Remove(ctx context.Context, productID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(ctx, productID)
}

// SetQuantity overwrites the entry's quantity. Anything below one behaves as
// Remove; an absent entry is left alone.
func (s *Service) SetQuantity(ctx context.Context, productID int, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity < 1 {
		return s.remove(ctx, productID)
	}

	items := s.load(ctx)
	idx := indexOf(items, productID)
	if idx < 0 {
		return nil
	}
	items[idx].Quantity = uint(quantity)
	if err := s.save(ctx, items); err != nil {
		return err
	}

	s.publish(ctx, map[string]any{
		"type":       "cart_quantity_changed",
		"product_id": productID,
		"quantity":   quantity,
	})
	return nil
}

// Clear empties the ledger unconditionally.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(ctx, []models.CartItem{}); err != nil {
		return err
	}
	s.publish(ctx, map[string]any{"type": "cart_cleared"})
	return nil
}

func (s *Service) Items(ctx context.Context) []models.CartItem {
	return s.load(ctx)
}

// ItemCount is the sum of quantities, not the number of distinct entries.
func (s *Service) ItemCount(ctx context.Context) int {
	count := 0
	for _, item := range s.load(ctx) {
		count += int(item.Quantity)
	}
	return count
}

// Totals derives subtotal, tax and total from the current ledger, each
// rounded to two decimal places for display. Pure read.
func (s *Service) Totals(ctx context.Context) models.Totals {
	return s.totalsOf(s.load(ctx))
}

// Checkout is the demo order flow: it rejects an empty cart, otherwise
// returns the final totals and empties the ledger.
func (s *Service) Checkout(ctx context.Context) (models.Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.load(ctx)
	if len(items) == 0 {
		return models.Totals{}, fmt.Errorf("%w: %w", ErrEmptyCart, ErrValidation)
	}

	totals := s.totalsOf(items)
	if err := s.save(ctx, []models.CartItem{}); err != nil {
		return models.Totals{}, err
	}

	s.publish(ctx, map[string]any{
		"type":  "order_placed",
		"total": totals.Total,
		"items": len(items),
	})
	return totals, nil
}

func (s *Service) totalsOf(items []models.CartItem) models.Totals {
	rate := s.TaxRate
	if rate == 0 {
		rate = DefaultTaxRate
	}

	subtotal := 0.0
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}
	tax := subtotal * rate
	return models.Totals{
		Subtotal: round2(subtotal),
		Tax:      round2(tax),
		Total:    round2(subtotal + tax),
	}
}

func (s *Service) remove(ctx context.Context, productID int) error {
	items := s.load(ctx)
	idx := indexOf(items, productID)
	if idx < 0 {
		return nil
	}

	items = append(items[:idx], items[idx+1:]...)
	if err := s.save(ctx, items); err != nil {
		return err
	}

	s.publish(ctx, map[string]any{
		"type":       "cart_item_removed",
		"product_id": productID,
	})
	return nil
}

func (s *Service) load(ctx context.Context) []models.CartItem {
	var items []models.CartItem
	s.Store.Get(ctx, storage.KeyCart, &items)
	return items
}

func (s *Service) save(ctx context.Context, items []models.CartItem) error {
	if err := s.Store.Set(ctx, storage.KeyCart, items); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, event map[string]any) {
	if s.Producer == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, events.TopicCartEvents, fmt.Sprint(event["product_id"]), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}

func indexOf(items []models.CartItem, productID int) int {
	for i, item := range items {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
