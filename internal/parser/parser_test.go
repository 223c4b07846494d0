package parser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nlxchange/intent-engine/internal/breaker"
	"github.com/nlxchange/intent-engine/internal/testutil"
	"github.com/nlxchange/intent-engine/internal/tokens"
	"github.com/nlxchange/intent-engine/pkg/types"
)

func newTestParser(t *testing.T, cfg *Config) *Parser {
	t.Helper()
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.DefaultChainID == 0 {
		cfg.DefaultChainID = tokens.ChainEthereum
	}
	if cfg.DefaultSlippageBps == 0 {
		cfg.DefaultSlippageBps = 100
	}
	if cfg.Logger == nil {
		cfg.Logger = zaptest.NewLogger(t)
	}
	p, err := New(cfg)
	require.NoError(t, err)
	return p
}

func TestNew(t *testing.T) {
	t.Parallel()

	logger := zaptest.NewLogger(t)

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:   "valid-config",
			config: &Config{DefaultChainID: 1, DefaultSlippageBps: 100, Logger: logger},
		},
		{
			name:    "nil-config",
			config:  nil,
			wantErr: true,
		},
		{
			name:    "zero-chain-id",
			config:  &Config{DefaultSlippageBps: 100, Logger: logger},
			wantErr: true,
		},
		{
			name:    "nil-logger",
			config:  &Config{DefaultChainID: 1, DefaultSlippageBps: 100},
			wantErr: true,
		},
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

func TestParseTemplates(t *testing.T) {
	t.Parallel()

	p := newTestParser(t, nil)

	tests := []struct {
		name string
		text string
		want types.Draft
	}{
		{
			name: "forward-swap",
			text: "swap 1 ETH to USDC",
			want: types.Draft{
				Mode: types.ModeSwap, SourceToken: "ETH", DestToken: "USDC",
				Amount: "1", ChainID: 1, SlippageBps: 100,
			},
		},
		{
			name: "forward-swap-casing-and-whitespace",
			text: "  SWAP   1   eth   TO   usdc  ",
			want: types.Draft{
				Mode: types.ModeSwap, SourceToken: "ETH", DestToken: "USDC",
				Amount: "1", ChainID: 1, SlippageBps: 100,
			},
		},
		{
			name: "reverse-swap-amount-next-to-destination",
			text: "swap ETH to 5 USDC",
			want: types.Draft{
				Mode: types.ModeSwap, SourceToken: "ETH", DestToken: "USDC",
				Amount: "5", Reverse: true, ChainID: 1, SlippageBps: 100,
			},
		},
		{
			name: "convert-verb",
			text: "convert 0.5 eth into dai",
			want: types.Draft{
				Mode: types.ModeSwap, SourceToken: "ETH", DestToken: "DAI",
				Amount: "0.5", ChainID: 1, SlippageBps: 100,
			},
		},
		{
			name: "swap-with-chain",
			text: "swap 2 ETH for USDC on base",
			want: types.Draft{
				Mode: types.ModeSwap, SourceToken: "ETH", DestToken: "USDC",
				Amount: "2", ChainID: tokens.ChainBase, SlippageBps: 100,
			},
		},
		{
			name: "conditional-sell",
			text: "sell 100 UNI if price >= 15",
			want: types.Draft{
				Mode: types.ModeConditionalOrder, SourceToken: "UNI", Amount: "100",
				Action: "sell", TriggerComparator: types.ComparatorGTE, TriggerPrice: "15",
				ChainID: 1, SlippageBps: 100,
			},
		},
		{
			name: "conditional-word-comparator",
			text: "buy 1 ETH when the price is below 2000",
			want: types.Draft{
				Mode: types.ModeConditionalOrder, SourceToken: "ETH", Amount: "1",
				Action: "buy", TriggerComparator: types.ComparatorLTE, TriggerPrice: "2000",
				ChainID: 1, SlippageBps: 100,
			},
		},
		{
			name: "conditional-dollar-sign",
			text: "sell 2 WBTC once price > $70000",
			want: types.Draft{
				Mode: types.ModeConditionalOrder, SourceToken: "WBTC", Amount: "2",
				Action: "sell", TriggerComparator: types.ComparatorGT, TriggerPrice: "70000",
				ChainID: 1, SlippageBps: 100,
			},
		},
		{
			name: "trending",
			text: "what's trending?",
			want: types.Draft{Mode: types.ModeTrendingQuery, ChainID: 1, SlippageBps: 100},
		},
		{
			name: "trending-with-chain",
			text: "show me trending tokens on base",
			want: types.Draft{Mode: types.ModeTrendingQuery, ChainID: tokens.ChainBase, SlippageBps: 100},
		},
		{
			name: "unrelated-text",
			text: "what is the weather today",
			want: types.Draft{Mode: types.ModeUnknown, ChainID: 1, SlippageBps: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := p.Parse(context.Background(), tt.text, nil)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseDowngradesInvalidDrafts(t *testing.T) {
	t.Parallel()

	p := newTestParser(t, nil)

	tests := []struct {
		name string
		text string
	}{
		{name: "zero-amount", text: "swap 0 ETH to USDC"},
		{name: "same-token-swap", text: "swap 1 ETH to ETH"},
		{name: "same-token-via-alias", text: "swap 1 eth to ethereum"},
		{name: "keyword-swap-missing-destination", text: "swap some eth please"},
		{name: "conditional-zero-price", text: "sell 100 UNI if price >= 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := p.Parse(context.Background(), tt.text, nil)
			assert.Equal(t, types.ModeUnknown, got.Mode)
			assert.Equal(t, uint64(1), got.ChainID)
		})
	}
}

func TestParseKeywordFallback(t *testing.T) {
	t.Parallel()

	p := newTestParser(t, nil)

	// Loose phrasing the templates miss but the vocabulary stage can scrape.
	got := p.Parse(context.Background(), "hey could you trade 2 eth into some usdc thanks", nil)
	assert.Equal(t, types.ModeSwap, got.Mode)
	assert.Equal(t, "ETH", got.SourceToken)
	assert.Equal(t, "USDC", got.DestToken)
	assert.Equal(t, "2", got.Amount)

	got = p.Parse(context.Background(), "set a stop loss on my 10 uni when price is under 5", nil)
	assert.Equal(t, types.ModeConditionalOrder, got.Mode)
	assert.Equal(t, "sell", got.Action)
	assert.Equal(t, "UNI", got.SourceToken)
	assert.Equal(t, types.ComparatorLTE, got.TriggerComparator)
	assert.Equal(t, "5", got.TriggerPrice)
}

func TestParseUsesInterpreterWhenTemplatesMiss(t *testing.T) {
	t.Parallel()

	mock := &testutil.MockInterpreter{
		Draft: &types.Draft{
			Mode:        types.ModeSwap,
			SourceToken: "ETH",
			DestToken:   "USDC",
			Amount:      "1",
			ChainID:     1,
		},
	}
	p := newTestParser(t, &Config{Interpreter: mock})

	got := p.Parse(context.Background(), "i want to move one ether into usd coin", nil)
	assert.Equal(t, types.ModeSwap, got.Mode)
	assert.Equal(t, 1, mock.CallCount())

	// Template hits never reach the interpreter.
	_ = p.Parse(context.Background(), "swap 1 ETH to USDC", nil)
	assert.Equal(t, 1, mock.CallCount())
}

func TestParseFallsBackWhenInterpreterFails(t *testing.T) {
	t.Parallel()

	mock := &testutil.MockInterpreter{Err: errors.New("service down")}
	p := newTestParser(t, &Config{Interpreter: mock})

	got := p.Parse(context.Background(), "hey could you trade 2 eth into some usdc", nil)
	assert.Equal(t, types.ModeSwap, got.Mode)
	assert.Equal(t, "ETH", got.SourceToken)
}

func TestParseSkipsInterpreterWhileBreakerOpen(t *testing.T) {
	t.Parallel()

	logger := zaptest.NewLogger(t)
	b, err := breaker.New(&breaker.Config{
		Name:             "test-llm",
		FailureThreshold: 2,
		Cooldown:         time.Hour,
		Logger:           logger,
	})
	require.NoError(t, err)

	mock := &testutil.MockInterpreter{Err: errors.New("service down")}
	p := newTestParser(t, &Config{Interpreter: mock, Breaker: b, Logger: logger})

	// Two failures open the breaker.
	_ = p.Parse(context.Background(), "gibberish one", nil)
	_ = p.Parse(context.Background(), "gibberish two", nil)
	require.False(t, b.Available())

	// The third parse must not touch the interpreter.
	_ = p.Parse(context.Background(), "gibberish three", nil)
	assert.Equal(t, 2, mock.CallCount())
}
