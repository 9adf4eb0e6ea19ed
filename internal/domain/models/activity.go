package models

import "time"

// ActivityAction names an interaction recorded in the activity journal.
type ActivityAction string

const (
	ActivityProductCreated     ActivityAction = "product_created"
	ActivityStockSubmitted     ActivityAction = "stock_submitted"
	ActivityStockRejected      ActivityAction = "stock_rejected"
	ActivityHistoryFallback    ActivityAction = "history_fallback"
	ActivityHistoryUnavailable ActivityAction = "history_unavailable"
)

// ActivityOutcome is the result of a journaled interaction.
type ActivityOutcome string

const (
	OutcomeSucceeded ActivityOutcome = "succeeded"
	OutcomeFailed    ActivityOutcome = "failed"
	OutcomeRejected  ActivityOutcome = "rejected"
)

// ActivityEntry is one diagnostics record written to MongoDB. It is never read
// back to rebuild application state.
type ActivityEntry struct {
	Action          ActivityAction  `bson:"action" json:"action"`
	Outcome         ActivityOutcome `bson:"outcome" json:"outcome"`
	Product         string          `bson:"product,omitempty" json:"product,omitempty"`
	TransactionType TransactionType `bson:"transaction_type,omitempty" json:"transaction_type,omitempty"`
	Quantity        int             `bson:"quantity,omitempty" json:"quantity,omitempty"`
	Message         string          `bson:"message,omitempty" json:"message,omitempty"`
	At              time.Time       `bson:"at" json:"at"`
}
