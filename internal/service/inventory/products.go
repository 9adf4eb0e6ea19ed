package inventory

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse-tracker/internal/domain/models"
	"github.com/mamadbah2/warehouse-tracker/pkg/clients/inventoryapi"
)

// AddProduct submits a new product. The submitted form stays in state until
// the API accepts it, so a failed attempt can be corrected and retried.
func (c *Controller) AddProduct(ctx context.Context, form models.ProductForm) (*models.Product, error) {
	c.mu.Lock()
	c.state.ProductForm = form
	c.mu.Unlock()

	normalized := normalizeProductForm(form)
	if err := validateProductForm(normalized); err != nil {
		c.notify(models.NoticeError, userMessage(err))
		return nil, err
	}

	created, err := c.api.CreateProduct(ctx, models.CreateProductRequest{
		Name:        normalized.Name,
		SKU:         normalized.SKU,
		Description: normalized.Description,
	})
	if err != nil {
		c.logger.Error("error adding product", zap.String("name", normalized.Name), zap.Error(err))
		c.notify(models.NoticeError, fmt.Sprintf("Error adding product: %s", inventoryapi.Message(err)))
		c.record(ctx, models.ActivityEntry{
			Action:  models.ActivityProductCreated,
			Outcome: models.OutcomeFailed,
			Product: normalized.Name,
			Message: inventoryapi.Message(err),
		})
		return nil, fmt.Errorf("add product: %w", err)
	}

	c.mu.Lock()
	c.state.Products = append(c.state.Products, *created)
	c.state.ProductForm = models.ProductForm{}
	c.state.Notices = append(c.state.Notices, models.Notice{
		Level:   models.NoticeInfo,
		Message: fmt.Sprintf("Product %q added.", created.Name),
	})
	c.mu.Unlock()

	c.logger.Info("product added", zap.Int64("id", created.ID), zap.String("name", created.Name))
	c.record(ctx, models.ActivityEntry{
		Action:  models.ActivityProductCreated,
		Outcome: models.OutcomeSucceeded,
		Product: created.Name,
	})

	// A new product shows up in the summary with zero stock.
	if err := c.RefreshInventory(ctx); err != nil {
		c.logger.Warn("inventory refresh after product add failed", zap.Error(err))
	}

	return created, nil
}

// userMessage strips the sentinel prefix from validation errors.
func userMessage(err error) string {
	return strings.TrimPrefix(err.Error(), ErrValidation.Error()+": ")
}
