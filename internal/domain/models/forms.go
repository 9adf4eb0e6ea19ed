package models

// ProductForm holds the raw add-product input as the user typed it.
type ProductForm struct {
	Name        string `json:"name" form:"name" validate:"required"`
	SKU         string `json:"sku" form:"sku" validate:"required"`
	Description string `json:"description" form:"description" validate:"required"`
}

// StockForm holds the raw stock transaction input. Product and Quantity stay
// strings so a rejected submission can be shown back exactly as entered.
type StockForm struct {
	TransactionType string `json:"transaction_type" form:"transaction_type"`
	Product         string `json:"product" form:"product"`
	Quantity        string `json:"quantity" form:"quantity"`
}

// DefaultStockForm is the form state after load and after a successful submission.
func DefaultStockForm() StockForm {
	return StockForm{TransactionType: string(TransactionIn)}
}

// StockCommand is a StockForm after coercion.
type StockCommand struct {
	Type      TransactionType `validate:"required,oneof=IN OUT"`
	ProductID int64           `validate:"required,gt=0"`
	Quantity  int             `validate:"required,gt=0"`
}
