package executor

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nlxchange/intent-engine/internal/quote"
	"github.com/nlxchange/intent-engine/internal/testutil"
	"github.com/nlxchange/intent-engine/pkg/types"
)

const testWallet = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"

func newTestExecutor(t *testing.T, agg *testutil.MockAggregator) *Executor {
	t.Helper()

	logger := zaptest.NewLogger(t)
	client, err := quote.NewClient(&quote.Config{
		BaseURL: agg.URL,
		APIKey:  "test-key",
		Logger:  logger,
	})
	require.NoError(t, err)

	e, err := New(&Config{SwapSource: client, Logger: logger})
	require.NoError(t, err)
	return e
}

func TestNew(t *testing.T) {
	t.Parallel()

	logger := zaptest.NewLogger(t)

	_, err := New(nil)
	require.Error(t, err)

	_, err = New(&Config{Logger: logger})
	require.Error(t, err)

	agg := testutil.NewMockAggregator("1")
	defer agg.Close()
	client, err := quote.NewClient(&quote.Config{BaseURL: agg.URL, APIKey: "k", Logger: logger})
	require.NoError(t, err)

	_, err = New(&Config{SwapSource: client})
	require.Error(t, err)

	_, err = New(&Config{SwapSource: client, Logger: logger})
	require.NoError(t, err)
}

func TestPrepare(t *testing.T) {
	t.Parallel()

	agg := testutil.NewMockAggregator("3000000000")
	defer agg.Close()
	e := newTestExecutor(t, agg)

	draft := testutil.CreateSwapDraft("ETH", "USDC", "1")
	payload, resolved, err := e.Prepare(context.Background(), draft, "1", testWallet)
	require.NoError(t, err)

	assert.Equal(t, "0x1111111111111111111111111111111111111111", payload.To)
	assert.Equal(t, "0xdeadbeef", payload.Data)
	assert.Equal(t, "0", payload.Value)
	assert.Equal(t, "250000", payload.GasLimit)

	assert.Equal(t, "1", resolved.InputAmount)
	assert.Equal(t, "3000", resolved.OutputAmount)

	// The firm quote carries the taker so the payload is signable as-is.
	assert.Equal(t, "/swap/v1/quote", agg.LastPath)
	assert.Equal(t, testWallet, agg.Query().Get("taker"))
	assert.Equal(t, 1, agg.RequestCount())
}

func TestPrepareUsesResolvedInputForReverseDrafts(t *testing.T) {
	t.Parallel()

	agg := testutil.NewMockAggregator("1000000000")
	defer agg.Close()
	e := newTestExecutor(t, agg)

	// The validator back-solved 0.5 ETH for this reverse draft; Prepare
	// must sell exactly that, not the draft's output amount.
	draft := testutil.CreateReverseSwapDraft("ETH", "USDC", "1000")
	_, resolved, err := e.Prepare(context.Background(), draft, "0.5", testWallet)
	require.NoError(t, err)

	assert.Equal(t, "0.5", resolved.InputAmount)
	assert.Equal(t, "500000000000000000", agg.Query().Get("sellAmount"))
}

func TestPrepareFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		draft       *types.Draft
		inputAmount string
		wallet      string
		setup       func(agg *testutil.MockAggregator)
		wantCode    types.ExecutionErrorCode
	}{
		{
			name:        "nil-draft",
			draft:       nil,
			inputAmount: "1",
			wallet:      testWallet,
			wantCode:    types.ErrPreparationFailed,
		},
		{
			name:        "conditional-draft",
			draft:       testutil.CreateConditionalDraft("UNI", "sell", types.ComparatorGTE, "15", "100"),
			inputAmount: "100",
			wallet:      testWallet,
			wantCode:    types.ErrPreparationFailed,
		},
		{
			name:        "missing-wallet",
			draft:       testutil.CreateSwapDraft("ETH", "USDC", "1"),
			inputAmount: "1",
			wantCode:    types.ErrPreparationFailed,
		},
		{
			name:        "unknown-token",
			draft:       testutil.CreateSwapDraft("ETH", "PEPE", "1"),
			inputAmount: "1",
			wallet:      testWallet,
			wantCode:    types.ErrPreparationFailed,
		},
		{
			name:        "malformed-input-amount",
			draft:       testutil.CreateSwapDraft("ETH", "USDC", "1"),
			inputAmount: "one",
			wallet:      testWallet,
			wantCode:    types.ErrPreparationFailed,
		},
		{
			name:        "upstream-failure",
			draft:       testutil.CreateSwapDraft("ETH", "USDC", "1"),
			inputAmount: "1",
			wallet:      testWallet,
			setup: func(agg *testutil.MockAggregator) {
				agg.Fail(http.StatusInternalServerError, "boom")
			},
			wantCode: types.ErrUpstreamFailed,
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
			e := newTestExecutor(t, agg)

			_, _, err := e.Prepare(context.Background(), tt.draft, tt.inputAmount, tt.wallet)
			require.Error(t, err)

			var execErr *types.ExecutionError
			require.ErrorAs(t, err, &execErr)
			assert.Equal(t, tt.wantCode, execErr.Code)
		})
	}
}
