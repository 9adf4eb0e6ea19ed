package inventory

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates the submitted form could not be turned into a request.
	ErrValidation = errors.New("invalid input")

	// ErrInsufficientStock indicates an OUT transaction asks for more than the last known stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrHistoryUnavailable indicates both the scoped history call and the full-list fallback failed.
	ErrHistoryUnavailable = errors.New("unable to fetch transaction history")

	// ErrHistorySuperseded indicates a newer open or close replaced this history lookup.
	ErrHistorySuperseded = errors.New("history lookup superseded")
)

// InsufficientStockError describes a locally rejected OUT transaction.
type InsufficientStockError struct {
	Product   string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Cannot remove %d items. Only %d items available in stock.", e.Requested, e.Available)
}

// Is lets errors.Is match ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
