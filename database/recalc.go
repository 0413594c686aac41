package database

import (
	"context"
	"fmt"

	"delivery-backend/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// RecalculateOrderTotal recomputes every line final price of an order from
// its unit price and current add-on prices, then stores the new total.
// Running it twice without item changes leaves the order untouched.
func RecalculateOrderTotal(tx *gorm.DB, orderID uuid.UUID) (changed bool, err error) {
	var order models.Order
	if err := tx.Preload("Items.Addons").First(&order, "id = ?", orderID).Error; err != nil {
		return false, err
	}

	previous := order.Total
	stale := make([]bool, len(order.Items))
	for i := range order.Items {
		before := order.Items[i].FinalPrice
		order.Items[i].ComputeFinalPrice()
		stale[i] = !before.Equal(order.Items[i].FinalPrice)
	}
	order.ComputeTotal()

	for i, item := range order.Items {
		if !stale[i] {
			continue
		}
		if err := tx.Model(&models.OrderItem{}).Where("id = ?", item.ID).
			Update("final_price", item.FinalPrice).Error; err != nil {
			return false, err
		}
		changed = true
	}
	if !previous.Equal(order.Total) {
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("total", order.Total).Error; err != nil {
			return false, err
		}
		changed = true
	}
	return changed, nil
}

// RecalcResult summarizes a recalculation pass.
type RecalcResult struct {
	Total   int
	Changed int
	Failed  int
}

// ProgressFunc receives one call per processed order. It may be called from
// several goroutines at once.
type ProgressFunc func(orderID uuid.UUID, changed bool, err error)

// OrderIDs lists every order id, oldest first.
func OrderIDs(ctx context.Context, db *gorm.DB) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := db.WithContext(ctx).Model(&models.Order{}).Order("created_at ASC").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return ids, nil
}

// RecalculateOrderTotals runs RecalculateOrderTotal over the given orders
// with at most workers in flight. A failing order is reported and skipped;
// only context cancellation stops the pass.
func RecalculateOrderTotals(ctx context.Context, db *gorm.DB, ids []uuid.UUID, workers int, onProgress ProgressFunc) (RecalcResult, error) {
	if workers < 1 {
		workers = 1
	}
	results := make(chan bool, len(ids))
	failures := make(chan struct{}, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, id := range ids {
		id := id
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var changed bool
			err := db.WithContext(gctx).Transaction(func(tx *gorm.DB) error {
				var err error
				changed, err = RecalculateOrderTotal(tx, id)
				return err
			})
			if onProgress != nil {
				onProgress(id, changed, err)
			}
			if err != nil {
				failures <- struct{}{}
				return nil
			}
			results <- changed
			return nil
		})
	}
	err := g.Wait()
	close(results)
	close(failures)

	res := RecalcResult{Total: len(ids), Failed: len(failures)}
	for changed := range results {
		if changed {
			res.Changed++
		}
	}
	if err == nil {
		err = ctx.Err()
	}
	return res, err
}
