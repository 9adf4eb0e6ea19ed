package inventoryapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/warehouse-tracker/internal/config"
	"github.com/mamadbah2/warehouse-tracker/internal/domain/models"
	"github.com/mamadbah2/warehouse-tracker/pkg/metrics"
)

// Endpoint labels used for metrics and error messages.
const (
	EndpointListProducts      = "products.list"
	EndpointCreateProduct     = "products.create"
	EndpointInventorySummary  = "inventory.summary"
	EndpointCreateTransaction = "transactions.create"
	EndpointListTransactions  = "transactions.list"
	EndpointProductHistory    = "transactions.history"
)

// Client exposes the inventory REST API operations used by the application.
type Client interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error)
	InventorySummary(ctx context.Context) ([]models.InventoryEntry, error)
	CreateTransaction(ctx context.Context, req models.CreateTransactionRequest) (*models.Transaction, error)
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	ProductHistory(ctx context.Context, productName string) ([]models.Transaction, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	metrics    *metrics.InventoryMetrics
}

// NewClient builds an inventory API client using the provided configuration values.
func NewClient(cfg config.APIConfig, recorder *metrics.InventoryMetrics) *APIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &APIClient{
		httpClient: restyClient,
		metrics:    recorder,
	}
}

// ListProducts fetches every product.
func (c *APIClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, EndpointListProducts, c.httpClient.R().SetResult(&products), http.MethodGet, "/products/"); err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// CreateProduct registers a new product and returns it with its server-assigned id.
func (c *APIClient) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	created := new(models.Product)
	if err := c.do(ctx, EndpointCreateProduct, c.httpClient.R().SetBody(req).SetResult(created), http.MethodPost, "/products/"); err != nil {
		return nil, err
	}
	return created, nil
}

// InventorySummary fetches the server-computed stock per product.
func (c *APIClient) InventorySummary(ctx context.Context) ([]models.InventoryEntry, error) {
	var entries []models.InventoryEntry
	if err := c.do(ctx, EndpointInventorySummary, c.httpClient.R().SetResult(&entries), http.MethodGet, "/inventory-summary/"); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.InventoryEntry{}
	}
	return entries, nil
}

// CreateTransaction submits a stock movement.
func (c *APIClient) CreateTransaction(ctx context.Context, req models.CreateTransactionRequest) (*models.Transaction, error) {
	created := new(models.Transaction)
	if err := c.do(ctx, EndpointCreateTransaction, c.httpClient.R().SetBody(req).SetResult(created), http.MethodPost, "/transactions/"); err != nil {
		return nil, err
	}
	return created, nil
}

// ListTransactions fetches the full, unfiltered transaction list.
func (c *APIClient) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := c.do(ctx, EndpointListTransactions, c.httpClient.R().SetResult(&txs), http.MethodGet, "/transactions/"); err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	return txs, nil
}

// ProductHistory fetches the transactions scoped to one product name.
func (c *APIClient) ProductHistory(ctx context.Context, productName string) ([]models.Transaction, error) {
	if strings.TrimSpace(productName) == "" {
		return nil, fmt.Errorf("%s: product name must not be empty", EndpointProductHistory)
	}

	var txs []models.Transaction
	req := c.httpClient.R().
		SetPathParam("product", productName).
		SetResult(&txs)
	if err := c.do(ctx, EndpointProductHistory, req, http.MethodGet, "/transactions/history/{product}/"); err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	return txs, nil
}

func (c *APIClient) do(ctx context.Context, endpoint string, req *resty.Request, method, path string) error {
	start := time.Now()

	resp, err := req.SetContext(ctx).Execute(method, path)
	if err != nil {
		c.metrics.ObserveRequest(endpoint, metrics.OutcomeTransport, time.Since(start))
		return fmt.Errorf("%s: %w", endpoint, err)
	}

	if resp.IsError() {
		c.metrics.ObserveRequest(endpoint, metrics.OutcomeHTTPError, time.Since(start))
		return newAPIError(endpoint, resp.StatusCode(), resp.Body())
	}

	c.metrics.ObserveRequest(endpoint, metrics.OutcomeSuccess, time.Since(start))
	return nil
}
