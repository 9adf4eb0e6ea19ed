package inventory

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse-tracker/internal/domain/models"
)

const historyUnavailableMessage = "Unable to fetch transaction history"

// ResolveProduct maps the identifier carried by an inventory summary row onto
// a product. Ids win over names; a name that matches nothing still yields a
// product so the scoped history endpoint can be asked about it.
func (c *Controller) ResolveProduct(key string) (models.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.resolve(key)
}

func (s State) resolve(key string) (models.Product, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return models.Product{}, fmt.Errorf("%w: product is required", ErrValidation)
	}

	if id, err := strconv.ParseInt(key, 10, 64); err == nil {
		if p, ok := s.Product(id); ok {
			return p, nil
		}
	}

	for _, p := range s.Products {
		if p.Name == key {
			return p, nil
		}
	}
	for _, p := range s.Products {
		if strings.EqualFold(p.Name, key) {
			return p, nil
		}
	}

	for _, entry := range s.Inventory {
		if entry.Product == key {
			return models.Product{ID: entry.ProductID, Name: entry.Product, SKU: entry.SKU}, nil
		}
	}

	return models.Product{Name: key}, nil
}

// OpenHistory moves the history view to LOADING and resolves the product's
// transactions, falling back to the full transaction list when the scoped
// endpoint fails. Only the most recently issued open or close is applied;
// older lookups return ErrHistorySuperseded and leave the state untouched.
func (c *Controller) OpenHistory(ctx context.Context, key string) (models.HistoryView, error) {
	c.mu.Lock()
	product, err := c.state.resolve(key)
	if err != nil {
		c.mu.Unlock()
		c.notify(models.NoticeError, userMessage(err))
		return models.ClosedHistory(), err
	}
	c.historySeq++
	seq := c.historySeq
	c.state.History = models.HistoryView{
		Status:       models.HistoryLoading,
		Product:      product,
		Transactions: []models.Transaction{},
	}
	c.mu.Unlock()

	txs, source, fetchErr := c.fetchHistory(ctx, product)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.historySeq {
		c.logger.Debug("discarding stale history response", zap.String("product", product.Name), zap.Uint64("seq", seq))
		return models.ClosedHistory(), ErrHistorySuperseded
	}

	if fetchErr != nil {
		c.state.History = models.ClosedHistory()
		c.state.Notices = append(c.state.Notices, models.Notice{Level: models.NoticeError, Message: historyUnavailableMessage})
		return models.ClosedHistory(), fetchErr
	}

	view := models.HistoryView{
		Status:       models.HistoryOpen,
		Product:      product,
		Source:       source,
		Transactions: txs,
	}
	c.state.History = view
	view.Transactions = cloneTransactions(txs)
	return view, nil
}

// CloseHistory clears the history view and invalidates in-flight lookups.
func (c *Controller) CloseHistory() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.historySeq++
	c.state.History = models.ClosedHistory()
}

func (c *Controller) fetchHistory(ctx context.Context, product models.Product) ([]models.Transaction, models.HistorySource, error) {
	txs, err := c.api.ProductHistory(ctx, product.Name)
	if err == nil {
		return txs, models.HistorySourceScoped, nil
	}
	c.logger.Warn("error fetching transaction history, falling back to full list",
		zap.String("product", product.Name), zap.Error(err))
	c.metrics.IncHistoryFallback()

	all, fallbackErr := c.api.ListTransactions(ctx)
	if fallbackErr != nil {
		c.logger.Error("error fetching all transactions", zap.String("product", product.Name), zap.Error(fallbackErr))
		c.record(ctx, models.ActivityEntry{
			Action:  models.ActivityHistoryUnavailable,
			Outcome: models.OutcomeFailed,
			Product: product.Name,
			Message: fallbackErr.Error(),
		})
		return nil, "", fmt.Errorf("%w: %v", ErrHistoryUnavailable, fallbackErr)
	}

	c.record(ctx, models.ActivityEntry{
		Action:  models.ActivityHistoryFallback,
		Outcome: models.OutcomeSucceeded,
		Product: product.Name,
		Message: err.Error(),
	})
	return FilterHistory(all, product), models.HistorySourceFallback, nil
}

// FilterHistory keeps the transactions that touch the product and, inside
// each, only the detail lines for that product. Order is preserved.
func FilterHistory(txs []models.Transaction, product models.Product) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		var details []models.TransactionDetail
		for _, d := range tx.Details {
			if d.Matches(product) {
				details = append(details, d)
			}
		}
		if len(details) == 0 {
			continue
		}
		kept := tx
		kept.Details = details
		out = append(out, kept)
	}
	return out
}
