// Package validator checks a parsed Draft against live market data and
// produces a quote. One external quote call per invocation; the Draft itself
// is never mutated.
package validator

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/nlxchange/intent-engine/internal/amount"
	"github.com/nlxchange/intent-engine/internal/gas"
	"github.com/nlxchange/intent-engine/internal/quote"
	"github.com/nlxchange/intent-engine/internal/tokens"
	"github.com/nlxchange/intent-engine/pkg/types"
)

// defaultSwapGasUnits is used when the aggregator omits a gas figure.
const defaultSwapGasUnits = 250_000

// QuoteSource is the slice of the aggregator client the validator needs.
type QuoteSource interface {
	Price(ctx context.Context, req quote.Request) (*quote.Quote, error)
}

// GasPricer supplies a per-chain gas price in wei. Implementations never
// fail; they fall back internally.
type GasPricer interface {
	GasPrice(ctx context.Context, chainID uint64) *big.Int
}

// Validator validates drafts.
type Validator struct {
	quotes QuoteSource
	gas    GasPricer
	logger *zap.Logger
}

// Config holds validator configuration.
type Config struct {
	QuoteSource QuoteSource
	GasPricer   GasPricer
	Logger      *zap.Logger
}

// New creates a validator.
func New(cfg *Config) (*Validator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.QuoteSource == nil {
		return nil, fmt.Errorf("quote source cannot be nil")
	}
	if cfg.GasPricer == nil {
		return nil, fmt.Errorf("gas pricer cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &Validator{
		quotes: cfg.QuoteSource,
		gas:    cfg.GasPricer,
		logger: cfg.Logger,
	}, nil
}

// Validate checks draft against live data. Expected failures come back as a
// tagged invalid result, never as an error.
func (v *Validator) Validate(ctx context.Context, draft *types.Draft) *types.ValidationResult {
	start := time.Now()
	result := v.validate(ctx, draft)
	ValidationDurationSeconds.Observe(time.Since(start).Seconds())
	if result.IsValid {
		ValidationsTotal.WithLabelValues("valid").Inc()
	} else {
		ValidationsTotal.WithLabelValues(string(result.ErrorKind)).Inc()
	}
	return result
}

func (v *Validator) validate(ctx context.Context, draft *types.Draft) *types.ValidationResult {
	if draft == nil {
		return types.Invalid(types.ErrKindMissingField, "no draft to validate")
	}

	switch draft.Mode {
	case types.ModeSwap:
		return v.validateSwap(ctx, draft)
	case types.ModeConditionalOrder:
		return v.validateConditional(draft)
	default:
		return types.Invalid(types.ErrKindMissingField,
			fmt.Sprintf("a %s draft has nothing to validate", draft.Mode))
	}
}

func (v *Validator) validateSwap(ctx context.Context, draft *types.Draft) *types.ValidationResult {
	if !draft.StructurallyValid() {
		return types.Invalid(types.ErrKindMissingField, "swap requires source token, destination token and amount")
	}
	if !amount.IsPositiveDecimal(draft.Amount) {
		return types.Invalid(types.ErrKindMissingField, fmt.Sprintf("amount %q is not a positive decimal", draft.Amount))
	}

	src, srcOK := tokens.Lookup(draft.SourceToken, draft.ChainID)
	dst, dstOK := tokens.Lookup(draft.DestToken, draft.ChainID)
	if !srcOK || !dstOK {
		return types.Invalid(types.ErrKindUnsupportedPair,
			fmt.Sprintf("%s/%s is not tradable on chain %d", draft.SourceToken, draft.DestToken, draft.ChainID))
	}

	if draft.Reverse {
		return v.validateReverseSwap(ctx, draft, src, dst)
	}
	return v.validateForwardSwap(ctx, draft, src, dst)
}

// validateForwardSwap quotes exactly draft.Amount of the source token.
func (v *Validator) validateForwardSwap(ctx context.Context, draft *types.Draft, src, dst tokens.TokenInfo) *types.ValidationResult {
	sellAmount, err := amount.ToBaseUnits(draft.Amount, src.Decimals)
	if err != nil {
		return types.Invalid(types.ErrKindMissingField, err.Error())
	}

	q, err := v.quotes.Price(ctx, quote.Request{
		ChainID:         draft.ChainID,
		SrcToken:        src.Address,
		DstToken:        dst.Address,
		AmountBaseUnits: sellAmount,
		SlippageBps:     draft.SlippageBps,
	})
	if err != nil {
		return v.quoteFailure(draft, err)
	}

	return &types.ValidationResult{
		IsValid:              true,
		RequiredInputAmount:  draft.Amount,
		ExpectedOutputAmount: amount.FromBaseUnits(q.DstAmount, dst.Decimals),
		EstimatedGasCost:     v.estimateGasCost(ctx, draft.ChainID, q),
		Quote:                q.Raw,
	}
}

// validateReverseSwap solves for the input that yields draft.Amount of the
// destination token. The aggregator only answers exact-input, so one probe
// quote samples the exchange rate and the input is back-solved linearly.
// That assumes linear price impact; the result is marked approximate and is
// an estimate for display, not a guarantee of final on-chain output.
func (v *Validator) validateReverseSwap(ctx context.Context, draft *types.Draft, src, dst tokens.TokenInfo) *types.ValidationResult {
	desiredOut, err := amount.ToBaseUnits(draft.Amount, dst.Decimals)
	if err != nil {
		return types.Invalid(types.ErrKindMissingField, err.Error())
	}

	// Probe with one whole source token.
	probeIn := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(src.Decimals)), nil)
	q, err := v.quotes.Price(ctx, quote.Request{
		ChainID:         draft.ChainID,
		SrcToken:        src.Address,
		DstToken:        dst.Address,
		AmountBaseUnits: probeIn,
		SlippageBps:     draft.SlippageBps,
	})
	if err != nil {
		return v.quoteFailure(draft, err)
	}

	requiredIn, err := amount.SolveLinearInput(probeIn, q.DstAmount, desiredOut)
	if err != nil {
		return types.Invalid(types.ErrKindUpstream, err.Error())
	}

	return &types.ValidationResult{
		IsValid:              true,
		RequiredInputAmount:  amount.FromBaseUnits(requiredIn, src.Decimals),
		ExpectedOutputAmount: draft.Amount,
		EstimatedGasCost:     v.estimateGasCost(ctx, draft.ChainID, q),
		Approximate:          true,
		Quote:                q.Raw,
	}
}

// validateConditional checks the order fields and that a price feed exists
// for the subject token. No quote call: the trigger is oracle-priced.
func (v *Validator) validateConditional(draft *types.Draft) *types.ValidationResult {
	if !draft.StructurallyValid() {
		return types.Invalid(types.ErrKindMissingField,
			"conditional order requires a token, an action, a comparator and a trigger price")
	}
	if !amount.IsPositiveDecimal(draft.TriggerPrice) {
		return types.Invalid(types.ErrKindMissingField,
			fmt.Sprintf("trigger price %q is not a positive decimal", draft.TriggerPrice))
	}

	if _, err := tokens.PriceFeed(draft.SubjectToken(), draft.ChainID); err != nil {
		// No silent default: a missing feed makes the order unpriceable.
		return types.Invalid(types.ErrKindUnsupportedPair, err.Error())
	}

	return &types.ValidationResult{
		IsValid:             true,
		RequiredInputAmount: draft.Amount,
	}
}

func (v *Validator) quoteFailure(draft *types.Draft, err error) *types.ValidationResult {
	var pairErr *quote.UnsupportedPairError
	switch {
	case errors.Is(err, quote.ErrMissingCredential):
		return types.Invalid(types.ErrKindConfigMissing, err.Error())
	case errors.As(err, &pairErr):
		return types.Invalid(types.ErrKindUnsupportedPair,
			fmt.Sprintf("%s/%s is not tradable on chain %d", draft.SourceToken, draft.DestToken, draft.ChainID))
	default:
		v.logger.Warn("quote-call-failed",
			zap.Uint64("chain-id", draft.ChainID),
			zap.Error(err))
		return types.Invalid(types.ErrKindUpstream, err.Error())
	}
}

// estimateGasCost converts the quoted gas units into a native-currency
// amount. The aggregator's own gas price wins when present; otherwise the
// oracle supplies one (with its internal fixed fallback).
func (v *Validator) estimateGasCost(ctx context.Context, chainID uint64, q *quote.Quote) string {
	gasUnits := q.GasUnits
	if gasUnits == 0 {
		gasUnits = defaultSwapGasUnits
	}
	price := q.GasPriceWei
	if price == nil || price.Sign() <= 0 {
		price = v.gas.GasPrice(ctx, chainID)
	}
	return gas.CostInNative(gasUnits, price)
}
