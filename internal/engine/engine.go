// Package engine runs the intent pipeline: parse -> validate -> execute.
package engine

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nlxchange/intent-engine/internal/executor"
	"github.com/nlxchange/intent-engine/internal/history"
	"github.com/nlxchange/intent-engine/internal/lifecycle"
	"github.com/nlxchange/intent-engine/internal/llm"
	"github.com/nlxchange/intent-engine/internal/parser"
	"github.com/nlxchange/intent-engine/internal/predicate"
	"github.com/nlxchange/intent-engine/internal/tokens"
	"github.com/nlxchange/intent-engine/internal/validator"
	"github.com/nlxchange/intent-engine/pkg/types"
)

// Engine is the pipeline orchestrator. The ordering is enforced by
// construction: validation takes a parsed Draft, execution takes a
// validated one.
type Engine struct {
	parser    *parser.Parser
	validator *validator.Validator
	executor  *executor.Executor
	store     history.Store
	logger    *zap.Logger
}

// New wires the pipeline.
func New(p *parser.Parser, v *validator.Validator, e *executor.Executor, store history.Store, logger *zap.Logger) (*Engine, error) {
	if p == nil || v == nil || e == nil {
		return nil, fmt.Errorf("parser, validator and executor are all required")
	}
	if store == nil {
		return nil, fmt.Errorf("history store cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &Engine{parser: p, validator: v, executor: e, store: store, logger: logger}, nil
}

// ParseRequest is one chat turn.
type ParseRequest struct {
	Text          string        `json:"text"`
	WalletAddress string        `json:"walletAddress,omitempty"`
	RecentHistory []llm.Message `json:"recentHistory,omitempty"`
}

// ParseResponse is what the UI renders for the turn.
type ParseResponse struct {
	Draft        *types.Draft              `json:"draft"`
	ResponseText string                    `json:"responseText"`
	Validation   *types.ValidationResult   `json:"validation,omitempty"`
	TradeStatus  *types.TradeStatusSummary `json:"tradeStatus,omitempty"`

	// Predicate is the hex-encoded trigger condition of a valid
	// conditional order, for embedding into the order payload downstream.
	Predicate string `json:"predicate,omitempty"`
}

// ParseTurn parses an instruction and, when the draft is actionable,
// validates it in the same turn so the UI can show a quote immediately.
func (e *Engine) ParseTurn(ctx context.Context, req ParseRequest) *ParseResponse {
	hist := req.RecentHistory
	if len(hist) == 0 && req.WalletAddress != "" {
		stored, err := e.store.RecentMessages(ctx, req.WalletAddress, 5)
		if err != nil {
			e.logger.Warn("recent-history-load-failed", zap.Error(err))
		} else {
			hist = stored
		}
	}

	draft := e.parser.Parse(ctx, req.Text, hist)
	resp := &ParseResponse{Draft: draft}

	switch draft.Mode {
	case types.ModeSwap, types.ModeConditionalOrder:
		resp.Validation = e.validator.Validate(ctx, draft)
		if resp.Validation.IsValid {
			if draft.Mode == types.ModeConditionalOrder {
				resp.Predicate = e.buildPredicateHex(draft)
			}
			if trade, err := lifecycle.NewTrade(draft, e.logger); err == nil {
				summary := trade.Summary()
				resp.TradeStatus = &summary
			}
		}
	case types.ModeTrendingQuery, types.ModeUnknown:
		// Nothing to validate.
	}

	resp.ResponseText = responseText(draft, resp.Validation)

	rec := &history.ParseRecord{
		ID:            uuid.NewString(),
		WalletAddress: req.WalletAddress,
		Text:          req.Text,
		Mode:          draft.Mode,
		ResponseText:  resp.ResponseText,
		CreatedAt:     time.Now(),
	}
	if err := e.store.RecordParse(ctx, rec); err != nil {
		e.logger.Warn("parse-record-failed", zap.Error(err))
	}

	return resp
}

// ValidateDraft re-checks a draft against live data. Results are never
// cached; every call re-quotes.
func (e *Engine) ValidateDraft(ctx context.Context, draft *types.Draft) *types.ValidationResult {
	return e.validator.Validate(ctx, draft)
}

// ExecuteRequest asks for a prepared transaction for a confirmed draft.
type ExecuteRequest struct {
	Draft         *types.Draft `json:"draft"`
	WalletAddress string       `json:"walletAddress"`
}

// ExecuteResponse carries the unsigned payload for the wallet collaborator.
type ExecuteResponse struct {
	TransactionPayload *types.TransactionPayload `json:"transactionPayload,omitempty"`
	ResolvedAmounts    *types.ResolvedAmounts    `json:"resolvedAmounts,omitempty"`
	TradeStatus        types.TradeStatusSummary  `json:"tradeStatus"`
	Error              string                    `json:"error,omitempty"`
}

// Execute re-validates the draft, then advances a fresh trade through
// preparation. The returned status is AwaitingConfirmation on success; the
// wallet step and final settlement are reported back by the UI layer.
func (e *Engine) Execute(ctx context.Context, req ExecuteRequest) (*ExecuteResponse, error) {
	if req.Draft == nil {
		return nil, fmt.Errorf("draft is required")
	}

	trade, err := lifecycle.NewTrade(req.Draft, e.logger)
	if err != nil {
		return nil, err
	}

	result := e.validator.Validate(ctx, req.Draft)
	if !result.IsValid {
		_ = trade.Fail(result.ErrorMessage)
		e.recordTerminal(ctx, trade, req.WalletAddress)
		return &ExecuteResponse{
			TradeStatus: trade.Summary(),
			Error:       fmt.Sprintf("%s (%s)", result.ErrorMessage, result.Hint),
		}, nil
	}

	payload, resolved, err := trade.Confirm(ctx, e.executor, result.RequiredInputAmount, req.WalletAddress)
	if err != nil {
		e.recordTerminal(ctx, trade, req.WalletAddress)
		return &ExecuteResponse{
			TradeStatus: trade.Summary(),
			Error:       err.Error(),
		}, nil
	}

	return &ExecuteResponse{
		TransactionPayload: payload,
		ResolvedAmounts:    resolved,
		TradeStatus:        trade.Summary(),
	}, nil
}

// buildPredicateHex encodes the trigger of a validated conditional order.
func (e *Engine) buildPredicateHex(draft *types.Draft) string {
	feed, err := tokens.PriceFeed(draft.SubjectToken(), draft.ChainID)
	if err != nil {
		return ""
	}
	threshold, err := predicate.ScalePrice(draft.TriggerPrice)
	if err != nil {
		return ""
	}
	p, err := predicate.FromComparator(draft.TriggerComparator, feed, threshold)
	if err != nil {
		return ""
	}
	encoded, err := p.Encode()
	if err != nil {
		return ""
	}
	return "0x" + hex.EncodeToString(encoded)
}

func (e *Engine) recordTerminal(ctx context.Context, trade *lifecycle.Trade, wallet string) {
	summary := trade.Summary()
	if !summary.State.Terminal() {
		return
	}
	err := e.store.RecordStatus(ctx, &history.StatusRecord{
		TradeID:       summary.TradeID,
		WalletAddress: wallet,
		State:         summary.State,
		TxHash:        summary.TxHash,
		Error:         summary.Error,
		RecordedAt:    time.Now(),
	})
	if err != nil {
		e.logger.Warn("status-record-failed", zap.Error(err))
	}
}
