package models

// HistoryStatus is the state of the transaction history view.
type HistoryStatus string

const (
	HistoryClosed  HistoryStatus = "CLOSED"
	HistoryLoading HistoryStatus = "LOADING"
	HistoryOpen    HistoryStatus = "OPEN"
)

// HistorySource tells which endpoint produced the displayed history.
type HistorySource string

const (
	HistorySourceScoped   HistorySource = "scoped"
	HistorySourceFallback HistorySource = "fallback"
)

// HistoryView is what the history modal renders.
type HistoryView struct {
	Status       HistoryStatus `json:"status"`
	Product      Product       `json:"product"`
	Source       HistorySource `json:"source,omitempty"`
	Transactions []Transaction `json:"transactions"`
}

// ClosedHistory is the empty history state.
func ClosedHistory() HistoryView {
	return HistoryView{Status: HistoryClosed, Transactions: []Transaction{}}
}

// NoticeLevel classifies user-visible messages.
type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is a message surfaced to the user after an interaction.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}
