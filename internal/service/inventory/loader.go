package inventory

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/warehouse-tracker/internal/domain/models"
	"github.com/mamadbah2/warehouse-tracker/pkg/clients/inventoryapi"
)

// Load fetches products and the inventory summary independently. A failure
// of one never prevents the other from being applied; the combined error is
// returned for logging only.
func (c *Controller) Load(ctx context.Context) error {
	var productsErr, inventoryErr error

	var g errgroup.Group
	g.Go(func() error {
		productsErr = c.RefreshProducts(ctx)
		return nil
	})
	g.Go(func() error {
		inventoryErr = c.RefreshInventory(ctx)
		return nil
	})
	_ = g.Wait()

	return multierr.Combine(productsErr, inventoryErr)
}

// RefreshProducts replaces the cached product list. On failure the previous
// list is kept.
func (c *Controller) RefreshProducts(ctx context.Context) error {
	products, err := c.api.ListProducts(ctx)
	if err != nil {
		c.logger.Error("error fetching products", zap.Error(err))
		c.loadFailed(SectionProducts, fmt.Sprintf("Error fetching products: %s", inventoryapi.Message(err)))
		return fmt.Errorf("refresh products: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Products = products
	c.state.ProductsRefreshedAt = c.now().UTC()
	delete(c.state.LoadErrors, SectionProducts)
	c.logger.Debug("products refreshed", zap.Int("count", len(products)))
	return nil
}

// RefreshInventory replaces the cached inventory summary. On failure the
// previous summary is kept.
func (c *Controller) RefreshInventory(ctx context.Context) error {
	entries, err := c.api.InventorySummary(ctx)
	if err != nil {
		c.logger.Error("error fetching inventory", zap.Error(err))
		c.loadFailed(SectionInventory, fmt.Sprintf("Error fetching inventory: %s", inventoryapi.Message(err)))
		return fmt.Errorf("refresh inventory: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Inventory = entries
	c.state.InventoryRefreshedAt = c.now().UTC()
	delete(c.state.LoadErrors, SectionInventory)
	c.logger.Debug("inventory refreshed", zap.Int("count", len(entries)))
	return nil
}

func (c *Controller) loadFailed(section, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.LoadErrors[section] = message
	c.state.Notices = append(c.state.Notices, models.Notice{Level: models.NoticeError, Message: message})
}
