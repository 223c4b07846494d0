// Package lifecycle is the execution state machine. A Trade binds one Draft
// and advances Pending -> Preparing -> AwaitingConfirmation -> Submitted ->
// Succeeded | Failed. Terminal states absorb: once failed or succeeded, no
// transition leaves. There is no automatic retry anywhere; a failed trade is
// re-initiated from a fresh Pending trade.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nlxchange/intent-engine/pkg/types"
)

// Preparer requests the transaction payload from the execution backend.
type Preparer interface {
	Prepare(ctx context.Context, draft *types.Draft, inputAmount, walletAddress string) (*types.TransactionPayload, *types.ResolvedAmounts, error)
}

// Trade is one state machine instance.
type Trade struct {
	mu sync.Mutex

	id        string
	draft     *types.Draft
	state     types.TradeState
	txHash    string
	errDetail string
	updatedAt time.Time
	logger    *zap.Logger
}

// NewTrade creates a trade in Pending: the draft is validated and we are
// waiting for the user's go-ahead.
func NewTrade(draft *types.Draft, logger *zap.Logger) (*Trade, error) {
	if draft == nil {
		return nil, fmt.Errorf("draft cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &Trade{
		id:        uuid.NewString(),
		draft:     draft,
		state:     types.StatePending,
		updatedAt: time.Now(),
		logger:    logger,
	}, nil
}

// ID returns the trade identifier.
func (t *Trade) ID() string { return t.id }

// Confirm is the user's go-ahead. It advances Pending -> Preparing, asks the
// execution backend for the payload, then parks in AwaitingConfirmation for
// the wallet step (owned entirely by the external wallet collaborator). Any
// backend failure lands the trade in Failed.
//
// Conditional orders cannot be executed yet: order signing and orderbook
// submission are outside this engine, so they fail fast here instead of
// pretending to succeed.
func (t *Trade) Confirm(ctx context.Context, preparer Preparer, inputAmount, walletAddress string) (*types.TransactionPayload, *types.ResolvedAmounts, error) {
	if err := t.transition(types.StatePending, types.StatePreparing); err != nil {
		return nil, nil, err
	}

	if t.draft.Mode == types.ModeConditionalOrder {
		execErr := types.NewExecutionError(types.ErrPreparationFailed,
			"conditional orders are not executable yet", nil)
		t.fail(execErr.Error())
		return nil, nil, execErr
	}

	payload, resolved, err := preparer.Prepare(ctx, t.draft, inputAmount, walletAddress)
	if err != nil {
		t.fail(err.Error())
		return nil, nil, err
	}

	if err := t.transition(types.StatePreparing, types.StateAwaitingConfirmation); err != nil {
		return nil, nil, err
	}
	return payload, resolved, nil
}

// AttachTransaction records the wallet-returned transaction identifier and
// advances AwaitingConfirmation -> Submitted.
func (t *Trade) AttachTransaction(txHash string) error {
	if txHash == "" {
		return fmt.Errorf("transaction hash cannot be empty")
	}
	if err := t.transition(types.StateAwaitingConfirmation, types.StateSubmitted); err != nil {
		return err
	}
	t.mu.Lock()
	t.txHash = txHash
	t.mu.Unlock()
	return nil
}

// Complete advances Submitted -> Succeeded.
func (t *Trade) Complete() error {
	return t.transition(types.StateSubmitted, types.StateSucceeded)
}

// Fail moves any non-terminal state to Failed with the given detail. The
// wallet rejecting is reported through here too.
func (t *Trade) Fail(detail string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Terminal() {
		return fmt.Errorf("trade %s is already %s", t.id, t.state)
	}
	t.setStateLocked(types.StateFailed)
	t.errDetail = detail
	return nil
}

func (t *Trade) fail(detail string) {
	_ = t.Fail(detail)
}

// Summary returns the serializable view the UI renders.
func (t *Trade) Summary() types.TradeStatusSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return types.TradeStatusSummary{
		TradeID:    t.id,
		State:      t.state,
		StatusLine: t.state.StatusLine(),
		TxHash:     t.txHash,
		Error:      t.errDetail,
		UpdatedAt:  t.updatedAt,
	}
}

// transition moves from exactly `from` to `to`, rejecting anything else.
func (t *Trade) transition(from, to types.TradeState) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Terminal() {
		return fmt.Errorf("trade %s is terminal in state %s", t.id, t.state)
	}
	if t.state != from {
		return fmt.Errorf("trade %s is %s, cannot move %s -> %s", t.id, t.state, from, to)
	}
	t.setStateLocked(to)
	return nil
}

func (t *Trade) setStateLocked(to types.TradeState) {
	TransitionsTotal.WithLabelValues(string(t.state), string(to)).Inc()
	t.logger.Info("trade-state-changed",
		zap.String("trade-id", t.id),
		zap.String("from", string(t.state)),
		zap.String("to", string(to)))
	t.state = to
	t.updatedAt = time.Now()
}
