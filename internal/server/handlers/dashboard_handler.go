package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse-tracker/internal/domain/models"
	"github.com/mamadbah2/warehouse-tracker/internal/server/views"
	"github.com/mamadbah2/warehouse-tracker/internal/service/inventory"
)

// InventoryService is the controller surface the dashboard drives.
type InventoryService interface {
	Snapshot() inventory.State
	TakeNotices() []models.Notice
	Load(ctx context.Context) error
	AddProduct(ctx context.Context, form models.ProductForm) (*models.Product, error)
	SubmitStock(ctx context.Context, form models.StockForm) (*models.Transaction, error)
	OpenHistory(ctx context.Context, key string) (models.HistoryView, error)
	CloseHistory()
}

// DashboardHandler serves the inventory dashboard and its form posts.
type DashboardHandler struct {
	svc    InventoryService
	views  *views.Renderer
	logger *zap.Logger
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(svc InventoryService, renderer *views.Renderer, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{svc: svc, views: renderer, logger: logger}
}

// Index renders the dashboard from the current state without calling the API.
func (h *DashboardHandler) Index(c *gin.Context) {
	h.renderDashboard(c)
}

// AddProduct handles the add-product form.
func (h *DashboardHandler) AddProduct(c *gin.Context) {
	var form models.ProductForm
	if err := c.ShouldBind(&form); err != nil {
		h.logger.Warn("invalid product form", zap.Error(err))
	}

	if _, err := h.svc.AddProduct(c.Request.Context(), form); err != nil {
		h.logger.Info("product not added", zap.Error(err))
	}
	redirectHome(c)
}

// SubmitStock handles the stock transaction form.
func (h *DashboardHandler) SubmitStock(c *gin.Context) {
	var form models.StockForm
	if err := c.ShouldBind(&form); err != nil {
		h.logger.Warn("invalid stock form", zap.Error(err))
	}

	if _, err := h.svc.SubmitStock(c.Request.Context(), form); err != nil {
		h.logger.Info("stock transaction not recorded", zap.Error(err))
	}
	redirectHome(c)
}

// OpenHistory loads the history of one summary row and renders the dashboard
// with the history modal.
func (h *DashboardHandler) OpenHistory(c *gin.Context) {
	key := c.Param("product")
	if _, err := h.svc.OpenHistory(c.Request.Context(), key); err != nil {
		switch {
		case errors.Is(err, inventory.ErrHistorySuperseded):
			h.logger.Debug("history lookup superseded", zap.String("product", key))
		default:
			h.logger.Warn("history lookup failed", zap.String("product", key), zap.Error(err))
		}
	}
	h.renderDashboard(c)
}

// CloseHistory dismisses the history modal.
func (h *DashboardHandler) CloseHistory(c *gin.Context) {
	h.svc.CloseHistory()
	redirectHome(c)
}

// Refresh reloads products and the inventory summary.
func (h *DashboardHandler) Refresh(c *gin.Context) {
	if err := h.svc.Load(c.Request.Context()); err != nil {
		h.logger.Warn("refresh incomplete", zap.Error(err))
	}
	redirectHome(c)
}

// Snapshot returns the current state as JSON.
func (h *DashboardHandler) Snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Snapshot())
}

func (h *DashboardHandler) renderDashboard(c *gin.Context) {
	state := h.svc.Snapshot()
	notices := h.svc.TakeNotices()

	// Render to a buffer first so a template error never produces half a page.
	var buf bytes.Buffer
	if err := h.views.Render(&buf, views.Dashboard, newDashboardView(state, notices)); err != nil {
		h.logger.Error("template rendering failed", zap.String("template", views.Dashboard), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "template rendering failed"})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		h.logger.Warn("error writing dashboard response", zap.Error(err))
	}
}

func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}
