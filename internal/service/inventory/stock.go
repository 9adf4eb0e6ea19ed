package inventory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse-tracker/internal/domain/models"
	"github.com/mamadbah2/warehouse-tracker/pkg/clients/inventoryapi"
)

// SubmitStock records a stock movement with a single detail line.
//
// OUT movements are checked against the last fetched inventory summary and
// rejected without calling the API when they ask for more than is on hand.
// The check is advisory: the API remains the final authority.
func (c *Controller) SubmitStock(ctx context.Context, form models.StockForm) (*models.Transaction, error) {
	c.mu.Lock()
	c.state.StockForm = form
	c.mu.Unlock()

	cmd, err := parseStockForm(form)
	if err != nil {
		c.notify(models.NoticeError, userMessage(err))
		return nil, err
	}

	c.mu.RLock()
	product, known := c.state.Product(cmd.ProductID)
	available := c.state.StockFor(cmd.ProductID)
	c.mu.RUnlock()
	productName := product.Name
	if !known {
		productName = fmt.Sprintf("#%d", cmd.ProductID)
	}

	if cmd.Type == models.TransactionOut && cmd.Quantity > available {
		rejection := &InsufficientStockError{Product: productName, Requested: cmd.Quantity, Available: available}
		c.logger.Info("stock out rejected locally",
			zap.Int64("product_id", cmd.ProductID),
			zap.Int("requested", cmd.Quantity),
			zap.Int("available", available))
		c.metrics.IncStockRejection()
		c.notify(models.NoticeError, rejection.Error())
		c.record(ctx, models.ActivityEntry{
			Action:          models.ActivityStockRejected,
			Outcome:         models.OutcomeRejected,
			Product:         productName,
			TransactionType: cmd.Type,
			Quantity:        cmd.Quantity,
			Message:         rejection.Error(),
		})
		return nil, rejection
	}

	created, err := c.api.CreateTransaction(ctx, models.CreateTransactionRequest{
		TransactionType: cmd.Type,
		Details:         []models.CreateTransactionDetail{{Product: cmd.ProductID, Quantity: cmd.Quantity}},
	})
	if err != nil {
		c.logger.Error("error handling stock transaction",
			zap.Int64("product_id", cmd.ProductID),
			zap.String("type", string(cmd.Type)),
			zap.Error(err))
		c.notify(models.NoticeError, fmt.Sprintf("Error handling stock transaction: %s", inventoryapi.Message(err)))
		c.record(ctx, models.ActivityEntry{
			Action:          models.ActivityStockSubmitted,
			Outcome:         models.OutcomeFailed,
			Product:         productName,
			TransactionType: cmd.Type,
			Quantity:        cmd.Quantity,
			Message:         inventoryapi.Message(err),
		})
		return nil, fmt.Errorf("submit stock transaction: %w", err)
	}

	// The summary is the authoritative post-state; never adjust it locally.
	if err := c.RefreshInventory(ctx); err != nil {
		c.logger.Warn("inventory refresh after stock transaction failed", zap.Error(err))
	}

	c.mu.Lock()
	c.state.StockForm = models.DefaultStockForm()
	c.state.Notices = append(c.state.Notices, models.Notice{
		Level:   models.NoticeInfo,
		Message: fmt.Sprintf("Recorded %s of %d for %s.", cmd.Type.Label(), cmd.Quantity, productName),
	})
	c.mu.Unlock()

	c.logger.Info("stock transaction recorded",
		zap.Int64("transaction_id", created.ID),
		zap.Int64("product_id", cmd.ProductID),
		zap.String("type", string(cmd.Type)),
		zap.Int("quantity", cmd.Quantity))
	c.record(ctx, models.ActivityEntry{
		Action:          models.ActivityStockSubmitted,
		Outcome:         models.OutcomeSucceeded,
		Product:         productName,
		TransactionType: cmd.Type,
		Quantity:        cmd.Quantity,
	})

	return created, nil
}
