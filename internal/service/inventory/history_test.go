package inventory

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse-tracker/internal/domain/models"
	"github.com/mamadbah2/warehouse-tracker/internal/testkit"
)

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// seedMixed stores Widget and Gadget, one transaction touching both and one
// OUT for each.
func seedMixed(h *harness) (models.Product, models.Product) {
	widget := h.api.SeedProduct("Widget", "W-1", "test")
	gadget := h.api.SeedProduct("Gadget", "G-1", "other")
	h.api.SeedTransaction(models.TransactionIn,
		models.CreateTransactionDetail{Product: widget.ID, Quantity: 5},
		models.CreateTransactionDetail{Product: gadget.ID, Quantity: 7})
	h.api.SeedTransaction(models.TransactionOut, models.CreateTransactionDetail{Product: gadget.ID, Quantity: 2})
	h.api.SeedTransaction(models.TransactionOut, models.CreateTransactionDetail{Product: widget.ID, Quantity: 1})
	return widget, gadget
}

func TestOpenHistoryUsesScopedEndpoint(t *testing.T) {
	h := newHarness(t)
	widget, _ := seedMixed(h)
	require.NoError(t, h.ctrl.Load(context.Background()))

	view, err := h.ctrl.OpenHistory(context.Background(), "Widget")
	require.NoError(t, err)

	assert.Equal(t, models.HistoryOpen, view.Status)
	assert.Equal(t, models.HistorySourceScoped, view.Source)
	assert.Equal(t, widget, view.Product)
	require.Len(t, view.Transactions, 2)
	assert.Zero(t, h.api.Calls(testkit.RouteListTransactions))
	assert.Equal(t, view, h.ctrl.Snapshot().History)
}

func TestOpenHistoryFallsBackAndFilters(t *testing.T) {
	h := newHarness(t)
	widget, _ := seedMixed(h)
	require.NoError(t, h.ctrl.Load(context.Background()))
	h.api.Fail(testkit.RouteProductHistory, http.StatusNotFound)

	view, err := h.ctrl.OpenHistory(context.Background(), "Widget")
	require.NoError(t, err)

	assert.Equal(t, 1, h.api.Calls(testkit.RouteListTransactions))
	assert.Equal(t, models.HistorySourceFallback, view.Source)
	require.Len(t, view.Transactions, 2, "the Gadget-only transaction is dropped")
	for _, tx := range view.Transactions {
		require.Len(t, tx.Details, 1)
		assert.Equal(t, widget.ID, tx.Details[0].ProductID)
	}
	assert.Equal(t, models.TransactionIn, view.Transactions[0].Type)
	assert.Equal(t, 5, view.Transactions[0].Details[0].Quantity)
	assert.Equal(t, models.TransactionOut, view.Transactions[1].Type)
	assert.Contains(t, h.journal.actions(), models.ActivityHistoryFallback)
}

func TestOpenHistoryBothFailing(t *testing.T) {
	h := newHarness(t)
	seedMixed(h)
	require.NoError(t, h.ctrl.Load(context.Background()))
	h.ctrl.TakeNotices()
	h.api.Fail(testkit.RouteProductHistory, http.StatusNotFound)
	h.api.Fail(testkit.RouteListTransactions, http.StatusInternalServerError)

	_, err := h.ctrl.OpenHistory(context.Background(), "Widget")
	require.ErrorIs(t, err, ErrHistoryUnavailable)

	snap := h.ctrl.Snapshot()
	assert.Equal(t, models.HistoryClosed, snap.History.Status)
	assert.Empty(t, snap.History.Transactions)
	require.Len(t, snap.Notices, 1)
	assert.Equal(t, "Unable to fetch transaction history", snap.Notices[0].Message)
}

func TestEmptyHistoryDoesNotFallBack(t *testing.T) {
	h := newHarness(t)
	h.api.SeedProduct("Lonely", "L-1", "no movements")
	require.NoError(t, h.ctrl.Load(context.Background()))

	view, err := h.ctrl.OpenHistory(context.Background(), "Lonely")
	require.NoError(t, err)
	assert.Equal(t, models.HistoryOpen, view.Status)
	assert.Empty(t, view.Transactions)
	assert.Zero(t, h.api.Calls(testkit.RouteListTransactions))
}

func TestOpenHistoryByID(t *testing.T) {
	h := newHarness(t)
	_, gadget := seedMixed(h)
	require.NoError(t, h.ctrl.Load(context.Background()))

	view, err := h.ctrl.OpenHistory(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, gadget, view.Product)
	assert.Len(t, view.Transactions, 2)
}

func TestOpenHistoryRequiresKey(t *testing.T) {
	h := newHarness(t)
	_, err := h.ctrl.OpenHistory(context.Background(), "  ")
	require.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, h.api.TotalCalls())
}

func TestCloseHistoryClearsState(t *testing.T) {
	h := newHarness(t)
	seedMixed(h)
	require.NoError(t, h.ctrl.Load(context.Background()))
	_, err := h.ctrl.OpenHistory(context.Background(), "Widget")
	require.NoError(t, err)

	h.ctrl.CloseHistory()

	assert.Equal(t, models.ClosedHistory(), h.ctrl.Snapshot().History)
}

func TestFilterHistory(t *testing.T) {
	widget := models.Product{ID: 1, Name: "Widget"}
	txs := []models.Transaction{
		{ID: 1, Type: models.TransactionIn, Details: []models.TransactionDetail{
			{ID: 10, ProductID: 1, ProductName: "Widget", Quantity: 5},
			{ID: 11, ProductID: 2, ProductName: "Gadget", Quantity: 7},
		}},
		{ID: 2, Type: models.TransactionOut, Details: []models.TransactionDetail{
			{ID: 20, ProductID: 2, ProductName: "Gadget", Quantity: 1},
		}},
		{ID: 3, Type: models.TransactionOut, Details: []models.TransactionDetail{
			{ID: 30, ProductID: 1, ProductName: "Widget", Quantity: 2},
			{ID: 31, ProductID: 1, ProductName: "Widget", Quantity: 1},
		}},
		{ID: 4, Type: models.TransactionIn, Details: nil},
	}

	got := FilterHistory(txs, widget)

	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, []models.TransactionDetail{{ID: 10, ProductID: 1, ProductName: "Widget", Quantity: 5}}, got[0].Details)
	assert.Equal(t, int64(3), got[1].ID)
	assert.Len(t, got[1].Details, 2)
	assert.Len(t, txs[0].Details, 2, "input is not modified")
}

func TestFilterHistoryPrefersIDOverName(t *testing.T) {
	renamed := models.Product{ID: 1, Name: "Widget v2"}
	txs := []models.Transaction{
		{ID: 1, Details: []models.TransactionDetail{{ProductID: 1, ProductName: "Widget", Quantity: 1}}},
		{ID: 2, Details: []models.TransactionDetail{{ProductID: 9, ProductName: "Widget v2", Quantity: 1}}},
	}

	got := FilterHistory(txs, renamed)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

// gatedAPI blocks ProductHistory for a product until its gate is released.
type gatedAPI struct {
	stubAPI
	mu    sync.Mutex
	gates map[string]chan struct{}
}

func (g *gatedAPI) gate(name string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gates == nil {
		g.gates = map[string]chan struct{}{}
	}
	if _, ok := g.gates[name]; !ok {
		g.gates[name] = make(chan struct{})
	}
	return g.gates[name]
}

func (g *gatedAPI) ProductHistory(ctx context.Context, name string) ([]models.Transaction, error) {
	select {
	case <-g.gate(name):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return []models.Transaction{{ID: int64(len(name)), Type: models.TransactionIn, Details: []models.TransactionDetail{{ProductName: name, Quantity: 1}}}}, nil
}

func TestOverlappingHistoryLookupsKeepTheLatest(t *testing.T) {
	api := &gatedAPI{}
	ctrl := NewController(api, nil, nil, zap.NewNop())

	firstDone := make(chan error, 1)
	go func() {
		_, err := ctrl.OpenHistory(context.Background(), "Widget")
		firstDone <- err
	}()
	require.Eventually(t, func() bool {
		return ctrl.Snapshot().History.Product.Name == "Widget"
	}, timeout, tick)

	close(api.gate("Gadget"))
	view, err := ctrl.OpenHistory(context.Background(), "Gadget")
	require.NoError(t, err)
	assert.Equal(t, "Gadget", view.Product.Name)

	close(api.gate("Widget"))
	require.ErrorIs(t, <-firstDone, ErrHistorySuperseded)

	snap := ctrl.Snapshot()
	assert.Equal(t, models.HistoryOpen, snap.History.Status)
	assert.Equal(t, "Gadget", snap.History.Product.Name)
}

func TestCloseDiscardsInFlightLookup(t *testing.T) {
	api := &gatedAPI{}
	ctrl := NewController(api, nil, nil, zap.NewNop())

	done := make(chan error, 1)
	go func() {
		_, err := ctrl.OpenHistory(context.Background(), "Widget")
		done <- err
	}()
	require.Eventually(t, func() bool {
		return ctrl.Snapshot().History.Status == models.HistoryLoading
	}, timeout, tick)

	ctrl.CloseHistory()
	close(api.gate("Widget"))

	require.ErrorIs(t, <-done, ErrHistorySuperseded)
	assert.Equal(t, models.ClosedHistory(), ctrl.Snapshot().History)
}

// stubAPI fails every call; embed it and override what a test needs.
type stubAPI struct{}

var errStub = errors.New("not stubbed")

func (stubAPI) ListProducts(context.Context) ([]models.Product, error) { return nil, errStub }
func (stubAPI) CreateProduct(context.Context, models.CreateProductRequest) (*models.Product, error) {
	return nil, errStub
}
func (stubAPI) InventorySummary(context.Context) ([]models.InventoryEntry, error) { return nil, errStub }
func (stubAPI) CreateTransaction(context.Context, models.CreateTransactionRequest) (*models.Transaction, error) {
	return nil, errStub
}
func (stubAPI) ListTransactions(context.Context) ([]models.Transaction, error) { return nil, errStub }
func (stubAPI) ProductHistory(context.Context, string) ([]models.Transaction, error) {
	return nil, errStub
}

func TestResolveProduct(t *testing.T) {
	h := newHarness(t)
	widget, gadget := seedMixed(h)
	require.NoError(t, h.ctrl.Load(context.Background()))

	cases := []struct {
		key  string
		want models.Product
	}{
		{key: "1", want: widget},
		{key: "Gadget", want: gadget},
		{key: "gadget", want: gadget},
		{key: " Widget ", want: widget},
		{key: "Ghost", want: models.Product{Name: "Ghost"}},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			got, err := h.ctrl.ResolveProduct(tc.key)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
