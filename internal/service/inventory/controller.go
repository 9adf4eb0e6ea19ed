package inventory

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse-tracker/internal/domain/models"
	"github.com/mamadbah2/warehouse-tracker/pkg/clients/inventoryapi"
	"github.com/mamadbah2/warehouse-tracker/pkg/metrics"
)

// Load error keys.
const (
	SectionProducts  = "products"
	SectionInventory = "inventory"
)

// Journal receives a record of every mutating interaction.
type Journal interface {
	Record(ctx context.Context, entry models.ActivityEntry) error
}

// State is the application state owned by the controller. Snapshot hands out
// deep copies so renderers never observe a half-applied update.
type State struct {
	Products             []models.Product        `json:"products"`
	Inventory            []models.InventoryEntry `json:"inventory"`
	ProductForm          models.ProductForm      `json:"product_form"`
	StockForm            models.StockForm        `json:"stock_form"`
	History              models.HistoryView      `json:"history"`
	Notices              []models.Notice         `json:"notices"`
	LoadErrors           map[string]string       `json:"load_errors,omitempty"`
	ProductsRefreshedAt  time.Time               `json:"products_refreshed_at"`
	InventoryRefreshedAt time.Time               `json:"inventory_refreshed_at"`
}

// Product looks a product up by id.
func (s State) Product(id int64) (models.Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// StockFor returns the current stock of a product according to the last
// fetched inventory summary. Unknown products have no stock.
func (s State) StockFor(productID int64) int {
	product, ok := s.Product(productID)
	if !ok {
		product = models.Product{ID: productID}
	}
	for _, entry := range s.Inventory {
		if entry.Matches(product) {
			return entry.CurrentStock
		}
	}
	return 0
}

func (s State) clone() State {
	out := s
	out.Products = append([]models.Product{}, s.Products...)
	out.Inventory = append([]models.InventoryEntry{}, s.Inventory...)
	out.Notices = append([]models.Notice{}, s.Notices...)
	out.History.Transactions = cloneTransactions(s.History.Transactions)
	out.LoadErrors = make(map[string]string, len(s.LoadErrors))
	for k, v := range s.LoadErrors {
		out.LoadErrors[k] = v
	}
	return out
}

func cloneTransactions(txs []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(txs))
	for i, tx := range txs {
		out[i] = tx
		out[i].Details = append([]models.TransactionDetail{}, tx.Details...)
	}
	return out
}

// Controller is the single owner of the inventory client state. Every user
// interaction goes through one of its methods.
type Controller struct {
	api     inventoryapi.Client
	journal Journal
	metrics *metrics.InventoryMetrics
	logger  *zap.Logger
	now     func() time.Time

	mu         sync.RWMutex
	state      State
	historySeq uint64
}

// NewController wires a controller with empty collections and default forms.
// journal and recorder may be nil.
func NewController(api inventoryapi.Client, journal Journal, recorder *metrics.InventoryMetrics, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		api:     api,
		journal: journal,
		metrics: recorder,
		logger:  logger,
		now:     time.Now,
		state: State{
			Products:   []models.Product{},
			Inventory:  []models.InventoryEntry{},
			StockForm:  models.DefaultStockForm(),
			History:    models.ClosedHistory(),
			Notices:    []models.Notice{},
			LoadErrors: map[string]string{},
		},
	}
}

// Snapshot returns a copy of the current state. It never touches the network.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

// TakeNotices returns pending user-visible messages and clears them.
func (c *Controller) TakeNotices() []models.Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	notices := c.state.Notices
	c.state.Notices = []models.Notice{}
	return notices
}

// CurrentStock reads the stock hint for a product from the latest summary.
func (c *Controller) CurrentStock(productID int64) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.StockFor(productID)
}

func (c *Controller) notify(level models.NoticeLevel, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Notices = append(c.state.Notices, models.Notice{Level: level, Message: message})
}

func (c *Controller) record(ctx context.Context, entry models.ActivityEntry) {
	if c.journal == nil {
		return
	}
	entry.At = c.now().UTC()
	if err := c.journal.Record(ctx, entry); err != nil {
		c.logger.Warn("failed to journal activity", zap.String("action", string(entry.Action)), zap.Error(err))
	}
}
