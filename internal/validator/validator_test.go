package validator

import (
	"context"
	"math/big"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nlxchange/intent-engine/internal/quote"
	"github.com/nlxchange/intent-engine/internal/testutil"
	"github.com/nlxchange/intent-engine/pkg/types"
)

type fixedGasPricer struct {
	price *big.Int
}

func (f *fixedGasPricer) GasPrice(context.Context, uint64) *big.Int {
	return f.price
}

func newTestValidator(t *testing.T, agg *testutil.MockAggregator) *Validator {
	t.Helper()

	logger := zaptest.NewLogger(t)
	client, err := quote.NewClient(&quote.Config{
		BaseURL: agg.URL,
		APIKey:  "test-key",
		Logger:  logger,
	})
	require.NoError(t, err)

	v, err := New(&Config{
		QuoteSource: client,
		GasPricer:   &fixedGasPricer{price: big.NewInt(30_000_000_000)},
		Logger:      logger,
	})
	require.NoError(t, err)
	return v
}

func TestNew(t *testing.T) {
	t.Parallel()

	logger := zaptest.NewLogger(t)
	pricer := &fixedGasPricer{price: big.NewInt(1)}

	agg := testutil.NewMockAggregator("1000000")
	defer agg.Close()
	client, err := quote.NewClient(&quote.Config{BaseURL: agg.URL, APIKey: "k", Logger: logger})
	require.NoError(t, err)

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{name: "valid-config", config: &Config{QuoteSource: client, GasPricer: pricer, Logger: logger}},
		{name: "nil-config", config: nil, wantErr: true},
		{name: "nil-quote-source", config: &Config{GasPricer: pricer, Logger: logger}, wantErr: true},
		{name: "nil-gas-pricer", config: &Config{QuoteSource: client, Logger: logger}, wantErr: true},
		{name: "nil-logger", config: &Config{QuoteSource: client, GasPricer: pricer}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(tt.config)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidateForwardSwap(t *testing.T) {
	t.Parallel()

	// Selling 1 ETH yields 3000 USDC (6 decimals).
	agg := testutil.NewMockAggregator("3000000000")
	defer agg.Close()
	v := newTestValidator(t, agg)

	draft := testutil.CreateSwapDraft("ETH", "USDC", "1")
	result := v.Validate(context.Background(), draft)

	require.True(t, result.IsValid, "error: %s", result.ErrorMessage)
	assert.Equal(t, "1", result.RequiredInputAmount)
	assert.Equal(t, "3000", result.ExpectedOutputAmount)
	assert.False(t, result.Approximate)
	assert.NotEmpty(t, result.EstimatedGasCost)
	assert.NotEmpty(t, result.Quote)

	// Exactly one quote call, with the draft's exact sell amount in wei.
	assert.Equal(t, 1, agg.RequestCount())
	assert.Equal(t, "1000000000000000000", agg.Query().Get("sellAmount"))
	assert.Equal(t, "1", agg.Query().Get("chainId"))
}

func TestValidateReverseSwap(t *testing.T) {
	t.Parallel()

	// Probe: 1 ETH -> 2000 USDC. Wanting 1000 USDC back-solves to 0.5 ETH.
	agg := testutil.NewMockAggregator("2000000000")
	defer agg.Close()
	v := newTestValidator(t, agg)

	draft := testutil.CreateReverseSwapDraft("ETH", "USDC", "1000")
	result := v.Validate(context.Background(), draft)

	require.True(t, result.IsValid, "error: %s", result.ErrorMessage)
	assert.Equal(t, "0.5", result.RequiredInputAmount)
	assert.Equal(t, "1000", result.ExpectedOutputAmount)
	assert.True(t, result.Approximate, "reverse solve must be flagged approximate")

	// One probe quote of exactly one whole source token.
	assert.Equal(t, 1, agg.RequestCount())
	assert.Equal(t, "1000000000000000000", agg.Query().Get("sellAmount"))
}

func TestValidateSwapErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		draft    *types.Draft
		setup    func(agg *testutil.MockAggregator)
		wantKind types.ErrorKind
	}{
		{
			name:     "missing-amount",
			draft:    &types.Draft{Mode: types.ModeSwap, SourceToken: "ETH", DestToken: "USDC", ChainID: 1},
			wantKind: types.ErrKindMissingField,
		},
		{
			name:     "unknown-token",
			draft:    testutil.CreateSwapDraft("ETH", "PEPE", "1"),
			wantKind: types.ErrKindUnsupportedPair,
		},
		{
			name:     "unknown-chain",
			draft:    &types.Draft{Mode: types.ModeSwap, SourceToken: "ETH", DestToken: "USDC", Amount: "1", ChainID: 999},
			wantKind: types.ErrKindUnsupportedPair,
		},
		{
			name:  "aggregator-rejects-pair",
			draft: testutil.CreateSwapDraft("ETH", "USDC", "1"),
			setup: func(agg *testutil.MockAggregator) {
				agg.Fail(http.StatusBadRequest, "no liquidity")
			},
			wantKind: types.ErrKindUnsupportedPair,
		},
		{
			name:  "aggregator-unavailable",
			draft: testutil.CreateSwapDraft("ETH", "USDC", "1"),
			setup: func(agg *testutil.MockAggregator) {
				agg.Fail(http.StatusInternalServerError, "boom")
			},
			wantKind: types.ErrKindUpstream,
		},
		{
			name:  "credential-rejected",
			draft: testutil.CreateSwapDraft("ETH", "USDC", "1"),
			setup: func(agg *testutil.MockAggregator) {
				agg.Fail(http.StatusUnauthorized, "bad key")
			},
			wantKind: types.ErrKindConfigMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			agg := testutil.NewMockAggregator("1000000")
			defer agg.Close()
			if tt.setup != nil {
				tt.setup(agg)
			}
			v := newTestValidator(t, agg)

			result := v.Validate(context.Background(), tt.draft)
			require.False(t, result.IsValid)
			assert.Equal(t, tt.wantKind, result.ErrorKind)
			assert.NotEmpty(t, result.ErrorMessage)
			assert.NotEmpty(t, result.Hint, "invalid results always carry a remediation hint")
		})
	}
}

func TestValidateMissingCredentialConfigured(t *testing.T) {
	t.Parallel()

	logger := zaptest.NewLogger(t)
	agg := testutil.NewMockAggregator("1000000")
	defer agg.Close()

	// Client constructed without an API key: construction succeeds, the
	// quote call reports configuration-missing.
	client, err := quote.NewClient(&quote.Config{BaseURL: agg.URL, Logger: logger})
	require.NoError(t, err)

	v, err := New(&Config{
		QuoteSource: client,
		GasPricer:   &fixedGasPricer{price: big.NewInt(1)},
		Logger:      logger,
	})
	require.NoError(t, err)

	result := v.Validate(context.Background(), testutil.CreateSwapDraft("ETH", "USDC", "1"))
	require.False(t, result.IsValid)
	assert.Equal(t, types.ErrKindConfigMissing, result.ErrorKind)
	assert.Equal(t, 0, agg.RequestCount(), "no request leaves the process without a credential")
}

func TestValidateConditional(t *testing.T) {
	t.Parallel()

	agg := testutil.NewMockAggregator("1000000")
	defer agg.Close()
	v := newTestValidator(t, agg)

	result := v.Validate(context.Background(),
		testutil.CreateConditionalDraft("UNI", "sell", types.ComparatorGTE, "15", "100"))
	require.True(t, result.IsValid, "error: %s", result.ErrorMessage)
	assert.Equal(t, "100", result.RequiredInputAmount)
	assert.Equal(t, 0, agg.RequestCount(), "conditional validation makes no quote call")

	// Token with no configured price feed is rejected, never defaulted.
	result = v.Validate(context.Background(),
		testutil.CreateConditionalDraft("DAI", "sell", types.ComparatorGTE, "1.05", "100"))
	require.False(t, result.IsValid)
	assert.Equal(t, types.ErrKindUnsupportedPair, result.ErrorKind)
}

func TestValidateNonActionableModes(t *testing.T) {
	t.Parallel()

	agg := testutil.NewMockAggregator("1000000")
	defer agg.Close()
	v := newTestValidator(t, agg)

	for _, mode := range []types.Mode{types.ModeTrendingQuery, types.ModeUnknown} {
		result := v.Validate(context.Background(), &types.Draft{Mode: mode, ChainID: 1})
		assert.False(t, result.IsValid)
		assert.Equal(t, types.ErrKindMissingField, result.ErrorKind)
	}

	result := v.Validate(context.Background(), nil)
	assert.False(t, result.IsValid)
}
