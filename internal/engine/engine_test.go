package engine

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nlxchange/intent-engine/internal/executor"
	"github.com/nlxchange/intent-engine/internal/parser"
	"github.com/nlxchange/intent-engine/internal/quote"
	"github.com/nlxchange/intent-engine/internal/testutil"
	"github.com/nlxchange/intent-engine/internal/validator"
	"github.com/nlxchange/intent-engine/pkg/types"
)

const testWallet = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"

type fixedGasPricer struct{}

func (fixedGasPricer) GasPrice(context.Context, uint64) *big.Int {
	return big.NewInt(30_000_000_000)
}

func newTestEngine(t *testing.T, agg *testutil.MockAggregator, store *testutil.MemoryStore) *Engine {
	t.Helper()

	logger := zaptest.NewLogger(t)

	p, err := parser.New(&parser.Config{
		DefaultChainID:     1,
		DefaultSlippageBps: 100,
		Logger:             logger,
	})
	require.NoError(t, err)

	client, err := quote.NewClient(&quote.Config{
		BaseURL: agg.URL,
		APIKey:  "test-key",
		Logger:  logger,
	})
	require.NoError(t, err)

	v, err := validator.New(&validator.Config{
		QuoteSource: client,
		GasPricer:   fixedGasPricer{},
		Logger:      logger,
	})
	require.NoError(t, err)

	e, err := executor.New(&executor.Config{SwapSource: client, Logger: logger})
	require.NoError(t, err)

	eng, err := New(p, v, e, store, logger)
	require.NoError(t, err)
	return eng
}

func TestParseTurnSwap(t *testing.T) {
	t.Parallel()

	agg := testutil.NewMockAggregator("3000000000")
	defer agg.Close()
	store := testutil.NewMemoryStore()
	eng := newTestEngine(t, agg, store)

	resp := eng.ParseTurn(context.Background(), ParseRequest{
		Text:          "swap 1 ETH to USDC",
		WalletAddress: testWallet,
	})

	require.NotNil(t, resp.Draft)
	assert.Equal(t, types.ModeSwap, resp.Draft.Mode)

	require.NotNil(t, resp.Validation)
	require.True(t, resp.Validation.IsValid)
	assert.Equal(t, "3000", resp.Validation.ExpectedOutputAmount)

	require.NotNil(t, resp.TradeStatus)
	assert.Equal(t, types.StatePending, resp.TradeStatus.State)

	assert.Contains(t, resp.ResponseText, "1 ETH")
	assert.Contains(t, resp.ResponseText, "3000 USDC")
	assert.Empty(t, resp.Predicate)

	// The turn is logged for later conversation context.
	require.Len(t, store.Parses, 1)
	assert.Equal(t, "swap 1 ETH to USDC", store.Parses[0].Text)
	assert.Equal(t, types.ModeSwap, store.Parses[0].Mode)
}

func TestParseTurnConditionalEmitsPredicate(t *testing.T) {
	t.Parallel()

	agg := testutil.NewMockAggregator("1")
	defer agg.Close()
	eng := newTestEngine(t, agg, testutil.NewMemoryStore())

	resp := eng.ParseTurn(context.Background(), ParseRequest{Text: "sell 100 UNI if price >= 15"})

	require.NotNil(t, resp.Validation)
	require.True(t, resp.Validation.IsValid, "error: %s", resp.Validation.ErrorMessage)

	require.True(t, strings.HasPrefix(resp.Predicate, "0x"))
	// selector + feed word + threshold word
	assert.Len(t, resp.Predicate, 2+2*(4+32+32))
	assert.Equal(t, 0, agg.RequestCount(), "conditional turns never hit the aggregator")
}

func TestParseTurnUnknown(t *testing.T) {
	t.Parallel()

	agg := testutil.NewMockAggregator("1")
	defer agg.Close()
	eng := newTestEngine(t, agg, testutil.NewMemoryStore())

	resp := eng.ParseTurn(context.Background(), ParseRequest{Text: "how is the weather"})

	assert.Equal(t, types.ModeUnknown, resp.Draft.Mode)
	assert.Nil(t, resp.Validation)
	assert.Nil(t, resp.TradeStatus)
	assert.Contains(t, resp.ResponseText, "swap 1 ETH to USDC")
}

func TestParseTurnInvalidSwapExplains(t *testing.T) {
	t.Parallel()

	agg := testutil.NewMockAggregator("1")
	defer agg.Close()
	eng := newTestEngine(t, agg, testutil.NewMemoryStore())

	resp := eng.ParseTurn(context.Background(), ParseRequest{Text: "swap 1 ETH to PEPE"})

	require.NotNil(t, resp.Validation)
	assert.False(t, resp.Validation.IsValid)
	assert.Equal(t, types.ErrKindUnsupportedPair, resp.Validation.ErrorKind)
	assert.Contains(t, resp.ResponseText, "won't work")
	assert.Nil(t, resp.TradeStatus)
}

func TestExecuteForwardSwap(t *testing.T) {
	t.Parallel()

	agg := testutil.NewMockAggregator("3000000000")
	defer agg.Close()
	store := testutil.NewMemoryStore()
	eng := newTestEngine(t, agg, store)

	resp, err := eng.Execute(context.Background(), ExecuteRequest{
		Draft:         testutil.CreateSwapDraft("ETH", "USDC", "1"),
		WalletAddress: testWallet,
	})
	require.NoError(t, err)
	require.Empty(t, resp.Error)

	require.NotNil(t, resp.TransactionPayload)
	assert.NotEmpty(t, resp.TransactionPayload.To)
	assert.Equal(t, "1", resp.ResolvedAmounts.InputAmount)
	assert.Equal(t, types.StateAwaitingConfirmation, resp.TradeStatus.State)

	// Re-validation plus the firm swap call.
	assert.Equal(t, 2, agg.RequestCount())
}

func TestExecuteReverseSwapSellsSolvedInput(t *testing.T) {
	t.Parallel()

	// 1 ETH -> 2000 USDC; wanting 1000 USDC means selling 0.5 ETH.
	agg := testutil.NewMockAggregator("2000000000")
	defer agg.Close()
	eng := newTestEngine(t, agg, testutil.NewMemoryStore())

	resp, err := eng.Execute(context.Background(), ExecuteRequest{
		Draft:         testutil.CreateReverseSwapDraft("ETH", "USDC", "1000"),
		WalletAddress: testWallet,
	})
	require.NoError(t, err)
	require.Empty(t, resp.Error)

	assert.Equal(t, "0.5", resp.ResolvedAmounts.InputAmount)
	assert.Equal(t, "/swap/v1/quote", agg.LastPath)
	assert.Equal(t, "500000000000000000", agg.Query().Get("sellAmount"))
}

func TestExecuteInvalidDraftFailsTrade(t *testing.T) {
	t.Parallel()

	agg := testutil.NewMockAggregator("1")
	defer agg.Close()
	store := testutil.NewMemoryStore()
	eng := newTestEngine(t, agg, store)

	resp, err := eng.Execute(context.Background(), ExecuteRequest{
		Draft:         testutil.CreateSwapDraft("ETH", "PEPE", "1"),
		WalletAddress: testWallet,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Error)
	assert.Nil(t, resp.TransactionPayload)
	assert.Equal(t, types.StateFailed, resp.TradeStatus.State)

	// Terminal outcomes land in the activity log.
	require.Len(t, store.Statuses, 1)
	assert.Equal(t, types.StateFailed, store.Statuses[0].State)
}

func TestExecuteConditionalFailsFast(t *testing.T) {
	t.Parallel()

	agg := testutil.NewMockAggregator("1")
	defer agg.Close()
	eng := newTestEngine(t, agg, testutil.NewMemoryStore())

	resp, err := eng.Execute(context.Background(), ExecuteRequest{
		Draft:         testutil.CreateConditionalDraft("UNI", "sell", types.ComparatorGTE, "15", "100"),
		WalletAddress: testWallet,
	})
	require.NoError(t, err)

	assert.Contains(t, resp.Error, "not executable")
	assert.Equal(t, types.StateFailed, resp.TradeStatus.State)
}

func TestExecuteRequiresDraft(t *testing.T) {
	t.Parallel()

	agg := testutil.NewMockAggregator("1")
	defer agg.Close()
	eng := newTestEngine(t, agg, testutil.NewMemoryStore())

	_, err := eng.Execute(context.Background(), ExecuteRequest{WalletAddress: testWallet})
	require.Error(t, err)
}
