package history

import (
	"context"

	"go.uber.org/zap"

	"github.com/nlxchange/intent-engine/internal/llm"
)

// ConsoleStore implements Store by logging only. It is the default: the
// engine is fully functional without any database.
type ConsoleStore struct {
	logger *zap.Logger
}

// NewConsoleStore creates a console store.
func NewConsoleStore(logger *zap.Logger) *ConsoleStore {
	return &ConsoleStore{logger: logger}
}

// RecordParse logs a parse turn.
func (c *ConsoleStore) RecordParse(_ context.Context, rec *ParseRecord) error {
	c.logger.Info("parse-recorded",
		zap.String("wallet", rec.WalletAddress),
		zap.String("mode", string(rec.Mode)))
	return nil
}

// RecordStatus logs a terminal trade outcome.
func (c *ConsoleStore) RecordStatus(_ context.Context, rec *StatusRecord) error {
	c.logger.Info("status-recorded",
		zap.String("trade-id", rec.TradeID),
		zap.String("state", string(rec.State)))
	return nil
}

// RecentMessages always returns nothing: the console store keeps no state.
func (c *ConsoleStore) RecentMessages(context.Context, string, int) ([]llm.Message, error) {
	return nil, nil
}

// Close is a no-op.
func (c *ConsoleStore) Close() error {
	return nil
}
