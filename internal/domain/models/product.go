package models

// Product mirrors a product record owned by the inventory API.
type Product struct {
	ID          int64  `json:"id" bson:"id"`
	Name        string `json:"name" bson:"name"`
	SKU         string `json:"sku" bson:"sku"`
	Description string `json:"description" bson:"description"`
}

// CreateProductRequest is the payload accepted by POST /products/.
type CreateProductRequest struct {
	Name        string `json:"name"`
	SKU         string `json:"sku"`
	Description string `json:"description"`
}

// InventoryEntry is one row of the server-computed inventory summary.
// ProductID is only present when the API chooses to send it.
type InventoryEntry struct {
	ProductID    int64  `json:"product_id,omitempty"`
	Product      string `json:"product"`
	SKU          string `json:"sku,omitempty"`
	CurrentStock int    `json:"current_stock"`
}

// Matches reports whether the entry refers to the given product. The id wins
// when both sides carry one; otherwise the names must be equal. Product names
// are unique per exact spelling, so "widget" and "Widget" are different rows.
func (e InventoryEntry) Matches(p Product) bool {
	if e.ProductID != 0 && p.ID != 0 {
		return e.ProductID == p.ID
	}
	return e.Product != "" && e.Product == p.Name
}

// Key identifies the row in links back to the history view.
func (e InventoryEntry) Key() string {
	return e.Product
}
