package types

import "time"

// TradeState is a step in the execution lifecycle of a Draft.
type TradeState string

const (
	StatePending              TradeState = "pending"
	StatePreparing            TradeState = "preparing"
	StateAwaitingConfirmation TradeState = "awaiting_confirmation"
	StateSubmitted            TradeState = "submitted"
	StateSucceeded            TradeState = "succeeded"
	StateFailed               TradeState = "failed"
)

// Terminal reports whether no transitions leave this state.
func (s TradeState) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// StatusLine is the short human-readable description shown for each state.
func (s TradeState) StatusLine() string {
	switch s {
	case StatePending:
		return "Quote ready. Waiting for your confirmation."
	case StatePreparing:
		return "Preparing the transaction..."
	case StateAwaitingConfirmation:
		return "Waiting for wallet approval."
	case StateSubmitted:
		return "Transaction submitted. Waiting for the network."
	case StateSucceeded:
		return "Trade completed."
	case StateFailed:
		return "Trade failed."
	}
	return ""
}

// TradeStatusSummary is the serializable view of a trade's lifecycle that
// the chat UI and CLI render. Wallet approval itself is owned by the UI
// layer; this record only reflects it.
type TradeStatusSummary struct {
	TradeID    string     `json:"tradeId"`
	State      TradeState `json:"state"`
	StatusLine string     `json:"statusLine"`
	TxHash     string     `json:"txHash,omitempty"`
	Error      string     `json:"error,omitempty"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// TransactionPayload is a prepared, unsigned transaction. Signing and key
// custody stay with the external wallet collaborator.
type TransactionPayload struct {
	To       string `json:"to"`
	Data     string `json:"data"`
	Value    string `json:"value"`
	GasLimit string `json:"gasLimit"`
}

// ResolvedAmounts echoes the final input/output amounts bound to a prepared
// transaction, in human token units.
type ResolvedAmounts struct {
	InputAmount  string `json:"inputAmount"`
	OutputAmount string `json:"outputAmount"`
}
