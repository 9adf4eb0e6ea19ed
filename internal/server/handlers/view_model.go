package handlers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mamadbah2/warehouse-tracker/internal/domain/models"
	"github.com/mamadbah2/warehouse-tracker/internal/service/inventory"
)

const refreshedLayout = "Jan 2, 2006, 03:04:05 PM"

type dashboardView struct {
	Notices              []models.Notice
	LoadErrors           map[string]string
	Products             []productOption
	ProductList          []models.Product
	Inventory            []inventoryRow
	ProductForm          models.ProductForm
	StockForm            models.StockForm
	StockHint            string
	History              historyView
	InventoryRefreshedAt string
}

type productOption struct {
	ID       int64
	Label    string
	Stock    int
	Selected bool
}

type inventoryRow struct {
	Product      string
	SKU          string
	CurrentStock int
	HistoryKey   string
}

type historyView struct {
	Visible      bool
	Loading      bool
	ProductName  string
	Transactions []historyTransaction
}

// historyTransaction is one transaction block: a header with type and time,
// followed by the quantity of each detail line.
type historyTransaction struct {
	Class     string
	Label     string
	Timestamp string
	Lines     []int
}

func newDashboardView(state inventory.State, notices []models.Notice) dashboardView {
	view := dashboardView{
		Notices:     withoutLoadErrors(notices, state.LoadErrors),
		LoadErrors:  state.LoadErrors,
		ProductList: state.Products,
		ProductForm: state.ProductForm,
		StockForm:   state.StockForm,
		History:     newHistoryView(state.History),
	}
	if !state.InventoryRefreshedAt.IsZero() {
		view.InventoryRefreshedAt = state.InventoryRefreshedAt.Format(refreshedLayout)
	}

	selected, _ := strconv.ParseInt(state.StockForm.Product, 10, 64)
	for _, p := range state.Products {
		stock := state.StockFor(p.ID)
		view.Products = append(view.Products, productOption{
			ID:       p.ID,
			Label:    fmt.Sprintf("%s (Stock: %d)", p.Name, stock),
			Stock:    stock,
			Selected: p.ID == selected,
		})
	}

	if state.StockForm.TransactionType == string(models.TransactionOut) && selected > 0 {
		view.StockHint = fmt.Sprintf("Current stock: %d items available", state.StockFor(selected))
	}

	for _, entry := range state.Inventory {
		view.Inventory = append(view.Inventory, inventoryRow{
			Product:      entry.Product,
			SKU:          entry.SKU,
			CurrentStock: entry.CurrentStock,
			HistoryKey:   historyKey(state, entry),
		})
	}

	return view
}

// historyKey prefers the product id so renamed or oddly named products
// still resolve.
func historyKey(state inventory.State, entry models.InventoryEntry) string {
	if entry.ProductID != 0 {
		return strconv.FormatInt(entry.ProductID, 10)
	}
	for _, p := range state.Products {
		if entry.Matches(p) {
			return strconv.FormatInt(p.ID, 10)
		}
	}
	return url.PathEscape(entry.Key())
}

func newHistoryView(h models.HistoryView) historyView {
	view := historyView{
		Visible:     h.Status != models.HistoryClosed,
		Loading:     h.Status == models.HistoryLoading,
		ProductName: h.Product.Name,
	}
	for _, tx := range h.Transactions {
		block := historyTransaction{
			Class:     strings.ToLower(string(tx.Type)),
			Label:     tx.Type.Label(),
			Timestamp: tx.DisplayTime(),
			Lines:     make([]int, 0, len(tx.Details)),
		}
		for _, d := range tx.Details {
			block.Lines = append(block.Lines, d.Quantity)
		}
		view.Transactions = append(view.Transactions, block)
	}
	return view
}

// withoutLoadErrors drops notices already shown by a load-error banner.
func withoutLoadErrors(notices []models.Notice, loadErrors map[string]string) []models.Notice {
	if len(loadErrors) == 0 {
		return notices
	}
	shown := make(map[string]bool, len(loadErrors))
	for _, message := range loadErrors {
		shown[message] = true
	}
	out := make([]models.Notice, 0, len(notices))
	for _, n := range notices {
		if !shown[n.Message] {
			out = append(out, n)
		}
	}
	return out
}
