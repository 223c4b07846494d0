// Package history is an optional activity log: parsed drafts and terminal
// trade outcomes, keyed by wallet. It feeds the recent-history context of
// the completion stage and the chat UI's transcript. It is display context
// only; it is never the source of truth for an order.
package history

import (
	"context"
	"time"

	"github.com/nlxchange/intent-engine/internal/llm"
	"github.com/nlxchange/intent-engine/pkg/types"
)

// ParseRecord is one logged parse turn.
type ParseRecord struct {
	ID            string
	WalletAddress string
	Text          string
	Mode          types.Mode
	ResponseText  string
	CreatedAt     time.Time
}

// StatusRecord is one logged terminal trade outcome.
type StatusRecord struct {
	TradeID       string
	WalletAddress string
	State         types.TradeState
	TxHash        string
	Error         string
	RecordedAt    time.Time
}

// Store is the interface for the activity log.
type Store interface {
	// RecordParse logs a parse turn.
	RecordParse(ctx context.Context, rec *ParseRecord) error

	// RecordStatus logs a terminal trade outcome.
	RecordStatus(ctx context.Context, rec *StatusRecord) error

	// RecentMessages returns the last n parse turns for a wallet, oldest
	// first, shaped as completion-stage context.
	RecentMessages(ctx context.Context, walletAddress string, n int) ([]llm.Message, error)

	// Close closes the store.
	Close() error
}
