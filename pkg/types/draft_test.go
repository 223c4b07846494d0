package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructurallyValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		draft Draft
		want  bool
	}{
		{
			name:  "complete-swap",
			draft: Draft{Mode: ModeSwap, SourceToken: "ETH", DestToken: "USDC", Amount: "1"},
			want:  true,
		},
		{
			name:  "swap-missing-amount",
			draft: Draft{Mode: ModeSwap, SourceToken: "ETH", DestToken: "USDC"},
			want:  false,
		},
		{
			name:  "swap-missing-destination",
			draft: Draft{Mode: ModeSwap, SourceToken: "ETH", Amount: "1"},
			want:  false,
		},
		{
			name: "complete-conditional",
			draft: Draft{
				Mode: ModeConditionalOrder, SourceToken: "UNI", Action: "sell",
				TriggerComparator: ComparatorGTE, TriggerPrice: "15",
			},
			want: true,
		},
		{
			name: "conditional-bad-action",
			draft: Draft{
				Mode: ModeConditionalOrder, SourceToken: "UNI", Action: "hold",
				TriggerComparator: ComparatorGTE, TriggerPrice: "15",
			},
			want: false,
		},
		{
			name: "conditional-bad-comparator",
			draft: Draft{
				Mode: ModeConditionalOrder, SourceToken: "UNI", Action: "sell",
				TriggerComparator: "~", TriggerPrice: "15",
			},
			want: false,
		},
		{
			name: "conditional-missing-price",
			draft: Draft{
				Mode: ModeConditionalOrder, SourceToken: "UNI", Action: "sell",
				TriggerComparator: ComparatorGTE,
			},
			want: false,
		},
		{
			name:  "trending-always-valid",
			draft: Draft{Mode: ModeTrendingQuery},
			want:  true,
		},
		{
			name:  "unknown-always-valid",
			draft: Draft{Mode: ModeUnknown},
			want:  true,
		},
		{
			name:  "unrecognized-mode",
			draft: Draft{Mode: "limit"},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.draft.StructurallyValid())
		})
	}
}

func TestValidComparator(t *testing.T) {
	t.Parallel()

	for _, c := range []Comparator{ComparatorGTE, ComparatorLTE, ComparatorGT, ComparatorLT, ComparatorEQ} {
		assert.True(t, ValidComparator(c))
	}
	assert.False(t, ValidComparator("~"))
	assert.False(t, ValidComparator(""))
}

func TestInvalidCarriesHint(t *testing.T) {
	t.Parallel()

	for _, kind := range []ErrorKind{
		ErrKindMissingField, ErrKindUnsupportedPair, ErrKindUpstream, ErrKindConfigMissing,
	} {
		result := Invalid(kind, "detail")
		assert.False(t, result.IsValid)
		assert.Equal(t, kind, result.ErrorKind)
		assert.Equal(t, "detail", result.ErrorMessage)
		assert.NotEmpty(t, result.Hint)
	}
}

func TestTerminalStates(t *testing.T) {
	t.Parallel()

	assert.True(t, StateSucceeded.Terminal())
	assert.True(t, StateFailed.Terminal())
	for _, s := range []TradeState{StatePending, StatePreparing, StateAwaitingConfirmation, StateSubmitted} {
		assert.False(t, s.Terminal())
	}
}
