package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TransactionType enumerates stock movement directions.
type TransactionType string

const (
	TransactionIn  TransactionType = "IN"
	TransactionOut TransactionType = "OUT"
)

// ParseTransactionType normalizes user input into a TransactionType.
func ParseTransactionType(raw string) (TransactionType, error) {
	switch TransactionType(strings.ToUpper(strings.TrimSpace(raw))) {
	case TransactionIn:
		return TransactionIn, nil
	case TransactionOut:
		return TransactionOut, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", raw)
	}
}

// Label is the heading shown above a transaction in the history view.
func (t TransactionType) Label() string {
	if t == TransactionIn {
		return "STOCK IN"
	}
	return "STOCK OUT"
}

// Transaction is an append-only stock movement composed of detail lines.
type Transaction struct {
	ID        int64               `json:"id"`
	Type      TransactionType     `json:"transaction_type"`
	Timestamp time.Time           `json:"timestamp"`
	RawTime   string              `json:"-"`
	Details   []TransactionDetail `json:"details"`
}

// UnmarshalJSON accepts both the list shape (timestamp) and the history shape
// (created_at). A timestamp that does not parse is kept verbatim in RawTime.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID        int64               `json:"id"`
		Type      TransactionType     `json:"transaction_type"`
		Timestamp *string             `json:"timestamp"`
		CreatedAt *string             `json:"created_at"`
		Details   []TransactionDetail `json:"details"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	t.ID = wire.ID
	t.Type = wire.Type
	t.Details = wire.Details
	if t.Details == nil {
		t.Details = []TransactionDetail{}
	}

	raw := ""
	switch {
	case wire.Timestamp != nil:
		raw = *wire.Timestamp
	case wire.CreatedAt != nil:
		raw = *wire.CreatedAt
	}
	t.RawTime = raw
	t.Timestamp = time.Time{}
	if raw != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			t.Timestamp = parsed
		}
	}
	return nil
}

// DisplayTime renders the timestamp for humans, falling back to the raw value.
func (t Transaction) DisplayTime() string {
	if t.Timestamp.IsZero() {
		return t.RawTime
	}
	return t.Timestamp.Format("Jan 2, 2006, 03:04:05 PM")
}

// TransactionDetail is one product line of a transaction.
type TransactionDetail struct {
	ID          int64  `json:"id,omitempty"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Quantity    int    `json:"quantity"`
}

// UnmarshalJSON accepts product_id/product_name and the creation shape where
// "product" carries either the id or the name.
func (d *TransactionDetail) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID          int64           `json:"id"`
		ProductID   *int64          `json:"product_id"`
		ProductName string          `json:"product_name"`
		Product     json.RawMessage `json:"product"`
		Quantity    int             `json:"quantity"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	d.ID = wire.ID
	d.ProductName = wire.ProductName
	d.Quantity = wire.Quantity
	d.ProductID = 0
	if wire.ProductID != nil {
		d.ProductID = *wire.ProductID
	}

	product := bytes.TrimSpace(wire.Product)
	if len(product) == 0 || bytes.Equal(product, []byte("null")) {
		return nil
	}
	if product[0] == '"' {
		var name string
		if err := json.Unmarshal(product, &name); err != nil {
			return fmt.Errorf("decode detail product: %w", err)
		}
		if d.ProductName == "" {
			d.ProductName = name
		}
		return nil
	}
	var id int64
	if err := json.Unmarshal(product, &id); err != nil {
		return fmt.Errorf("decode detail product: %w", err)
	}
	if d.ProductID == 0 {
		d.ProductID = id
	}
	return nil
}

// Matches reports whether the line belongs to the product. Ids are compared
// when both are known; the display name is only a fallback.
func (d TransactionDetail) Matches(p Product) bool {
	if p.ID != 0 && d.ProductID != 0 {
		return d.ProductID == p.ID
	}
	return d.ProductName != "" && d.ProductName == p.Name
}

// CreateTransactionRequest is the payload accepted by POST /transactions/.
type CreateTransactionRequest struct {
	TransactionType TransactionType           `json:"transaction_type"`
	Details         []CreateTransactionDetail `json:"details"`
}

// CreateTransactionDetail references a product by id.
type CreateTransactionDetail struct {
	Product  int64 `json:"product"`
	Quantity int   `json:"quantity"`
}
