// Package executor turns a validated swap draft into a prepared, unsigned
// transaction payload via the aggregator's firm-swap endpoint. Signing and
// submission belong to the external wallet collaborator.
package executor

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nlxchange/intent-engine/internal/amount"
	"github.com/nlxchange/intent-engine/internal/quote"
	"github.com/nlxchange/intent-engine/internal/tokens"
	"github.com/nlxchange/intent-engine/pkg/types"
)

// SwapSource is the slice of the aggregator client the executor needs.
type SwapSource interface {
	Swap(ctx context.Context, req quote.Request) (*quote.SwapPayload, error)
}

// Executor prepares transactions.
type Executor struct {
	swaps  SwapSource
	logger *zap.Logger
}

// Config holds executor configuration.
type Config struct {
	SwapSource SwapSource
	Logger     *zap.Logger
}

// New creates an executor.
func New(cfg *Config) (*Executor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.SwapSource == nil {
		return nil, fmt.Errorf("swap source cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &Executor{swaps: cfg.SwapSource, logger: cfg.Logger}, nil
}

// Prepare requests a firm transaction payload for the swap. inputAmount is
// the resolved exact-input amount in human units: draft.Amount for forward
// swaps, the validator's back-solved input for reverse ones. One external
// call.
func (e *Executor) Prepare(ctx context.Context, draft *types.Draft, inputAmount, walletAddress string) (*types.TransactionPayload, *types.ResolvedAmounts, error) {
	if draft == nil || draft.Mode != types.ModeSwap {
		return nil, nil, types.NewExecutionError(types.ErrPreparationFailed,
			"only swap drafts can be prepared", nil)
	}
	if walletAddress == "" {
		return nil, nil, types.NewExecutionError(types.ErrPreparationFailed,
			"wallet address is required", nil)
	}

	src, srcOK := tokens.Lookup(draft.SourceToken, draft.ChainID)
	dst, dstOK := tokens.Lookup(draft.DestToken, draft.ChainID)
	if !srcOK || !dstOK {
		return nil, nil, types.NewExecutionError(types.ErrPreparationFailed,
			fmt.Sprintf("%s/%s is not tradable on chain %d", draft.SourceToken, draft.DestToken, draft.ChainID), nil)
	}

	sellAmount, err := amount.ToBaseUnits(inputAmount, src.Decimals)
	if err != nil {
		return nil, nil, types.NewExecutionError(types.ErrPreparationFailed,
			"invalid input amount", err)
	}

	start := time.Now()
	payload, err := e.swaps.Swap(ctx, quote.Request{
		ChainID:         draft.ChainID,
		SrcToken:        src.Address,
		DstToken:        dst.Address,
		AmountBaseUnits: sellAmount,
		SlippageBps:     draft.SlippageBps,
		Taker:           walletAddress,
	})
	PrepareDurationSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		PrepareErrorsTotal.Inc()
		return nil, nil, types.NewExecutionError(types.ErrUpstreamFailed,
			"transaction preparation failed", err)
	}

	e.logger.Info("transaction-prepared",
		zap.Uint64("chain-id", draft.ChainID),
		zap.String("source-token", draft.SourceToken),
		zap.String("dest-token", draft.DestToken),
		zap.String("input-amount", inputAmount))

	return &types.TransactionPayload{
			To:       payload.To,
			Data:     payload.Data,
			Value:    payload.Value,
			GasLimit: payload.GasLimit,
		}, &types.ResolvedAmounts{
			InputAmount:  inputAmount,
			OutputAmount: amount.FromBaseUnits(payload.DstAmount, dst.Decimals),
		}, nil
}
