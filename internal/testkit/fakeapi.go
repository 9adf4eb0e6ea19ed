// Package testkit provides an in-memory stand-in for the inventory REST API.
package testkit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mamadbah2/warehouse-tracker/internal/domain/models"
)

// FakeAPI serves the inventory API routes under /api from memory. Failures can
// be injected per route and every request is counted.
type FakeAPI struct {
	mu       sync.Mutex
	products []models.Product
	txs      []fakeTransaction
	nextID   int64
	failures map[string]int
	calls    map[string]int
	clock    func() time.Time
}

type fakeTransaction struct {
	ID        int64
	Type      models.TransactionType
	Timestamp time.Time
	Details   []models.TransactionDetail
}

// NewFakeAPI returns an empty fake.
func NewFakeAPI() *FakeAPI {
	return &FakeAPI{
		nextID:   1,
		failures: map[string]int{},
		calls:    map[string]int{},
		clock:    func() time.Time { return time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC) },
	}
}

// Route keys used by Fail and Calls.
const (
	RouteListProducts      = "GET /products/"
	RouteCreateProduct     = "POST /products/"
	RouteInventorySummary  = "GET /inventory-summary/"
	RouteListTransactions  = "GET /transactions/"
	RouteCreateTransaction = "POST /transactions/"
	RouteProductHistory    = "GET /transactions/history/"
)

// SeedProduct stores a product and returns it with its id.
func (f *FakeAPI) SeedProduct(name, sku, description string) models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := models.Product{ID: f.nextID, Name: name, SKU: sku, Description: description}
	f.nextID++
	f.products = append(f.products, p)
	return p
}

// SeedTransaction stores a transaction with the given lines.
func (f *FakeAPI) SeedTransaction(typ models.TransactionType, lines ...models.CreateTransactionDetail) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.storeTransaction(typ, lines)
}

// Fail makes every request on route answer with status until cleared with 0.
func (f *FakeAPI) Fail(route string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status == 0 {
		delete(f.failures, route)
		return
	}
	f.failures[route] = status
}

// Calls returns how many requests hit route.
func (f *FakeAPI) Calls(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[route]
}

// TotalCalls returns the number of requests served.
func (f *FakeAPI) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// Summary computes the inventory summary the way the real API does.
func (f *FakeAPI) Summary() []models.InventoryEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.summaryLocked()
}

func (f *FakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api")
	route := r.Method + " " + path
	if strings.HasPrefix(path, "/transactions/history/") {
		route = RouteProductHistory
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[route]++

	if status, ok := f.failures[route]; ok {
		writeJSON(w, status, map[string]string{"error": fmt.Sprintf("injected failure on %s", route)})
		return
	}

	switch route {
	case RouteListProducts:
		writeJSON(w, http.StatusOK, f.products)
	case RouteCreateProduct:
		f.createProduct(w, r)
	case RouteInventorySummary:
		writeJSON(w, http.StatusOK, f.summaryLocked())
	case RouteListTransactions:
		writeJSON(w, http.StatusOK, f.listTransactions("timestamp", nil))
	case RouteCreateTransaction:
		f.createTransaction(w, r)
	case RouteProductHistory:
		f.history(w, r)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	}
}

func (f *FakeAPI) createProduct(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"name": {"This field may not be blank."}})
		return
	}
	for _, p := range f.products {
		if p.Name == req.Name {
			writeJSON(w, http.StatusBadRequest, map[string][]string{"name": {"prod mast with this name already exists."}})
			return
		}
	}
	p := models.Product{ID: f.nextID, Name: req.Name, SKU: req.SKU, Description: req.Description}
	f.nextID++
	f.products = append(f.products, p)
	writeJSON(w, http.StatusCreated, p)
}

func (f *FakeAPI) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}
	if req.TransactionType != models.TransactionIn && req.TransactionType != models.TransactionOut {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"transaction_type": {fmt.Sprintf("%q is not a valid choice.", req.TransactionType)}})
		return
	}
	for _, line := range req.Details {
		if _, ok := f.product(line.Product); !ok {
			writeJSON(w, http.StatusBadRequest, map[string][]string{"details": {fmt.Sprintf("Invalid pk %q - object does not exist.", fmt.Sprint(line.Product))}})
			return
		}
	}
	tx := f.storeTransaction(req.TransactionType, req.Details)
	writeJSON(w, http.StatusCreated, f.render(tx, "timestamp"))
}

func (f *FakeAPI) history(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSuffix(strings.TrimPrefix(r.URL.EscapedPath(), "/api/transactions/history/"), "/")
	name, err := url.PathUnescape(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var product *models.Product
	for i := range f.products {
		if f.products[i].Name == name {
			product = &f.products[i]
		}
	}
	if product == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("Product '%s' not found", name)})
		return
	}
	id := product.ID
	writeJSON(w, http.StatusOK, f.listTransactions("created_at", &id))
}

func (f *FakeAPI) storeTransaction(typ models.TransactionType, lines []models.CreateTransactionDetail) fakeTransaction {
	tx := fakeTransaction{ID: int64(len(f.txs) + 1), Type: typ, Timestamp: f.clock()}
	for i, line := range lines {
		p, _ := f.product(line.Product)
		tx.Details = append(tx.Details, models.TransactionDetail{
			ID:          int64(len(f.txs)*100 + i + 1),
			ProductID:   line.Product,
			ProductName: p.Name,
			Quantity:    line.Quantity,
		})
	}
	f.txs = append(f.txs, tx)
	return tx
}

func (f *FakeAPI) product(id int64) (models.Product, bool) {
	for _, p := range f.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func (f *FakeAPI) summaryLocked() []models.InventoryEntry {
	out := make([]models.InventoryEntry, 0, len(f.products))
	for _, p := range f.products {
		stock := 0
		for _, tx := range f.txs {
			for _, d := range tx.Details {
				if d.ProductID != p.ID {
					continue
				}
				if tx.Type == models.TransactionIn {
					stock += d.Quantity
				} else {
					stock -= d.Quantity
				}
			}
		}
		out = append(out, models.InventoryEntry{Product: p.Name, SKU: p.SKU, CurrentStock: stock})
	}
	return out
}

func (f *FakeAPI) listTransactions(timeKey string, onlyProduct *int64) []map[string]any {
	out := make([]map[string]any, 0, len(f.txs))
	for _, tx := range f.txs {
		if onlyProduct != nil {
			var details []models.TransactionDetail
			for _, d := range tx.Details {
				if d.ProductID == *onlyProduct {
					details = append(details, d)
				}
			}
			if len(details) == 0 {
				continue
			}
			tx.Details = details
		}
		out = append(out, f.render(tx, timeKey))
	}
	return out
}

func (f *FakeAPI) render(tx fakeTransaction, timeKey string) map[string]any {
	details := make([]map[string]any, 0, len(tx.Details))
	for _, d := range tx.Details {
		details = append(details, map[string]any{
			"id":           d.ID,
			"product_id":   d.ProductID,
			"product_name": d.ProductName,
			"quantity":     d.Quantity,
		})
	}
	return map[string]any{
		"id":               tx.ID,
		"transaction_type": tx.Type,
		timeKey:            tx.Timestamp.Format(time.RFC3339),
		"details":          details,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
