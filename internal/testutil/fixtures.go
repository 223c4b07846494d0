package testutil

import (
	"github.com/nlxchange/intent-engine/pkg/types"
)

// CreateSwapDraft creates a forward exact-input swap draft.
func CreateSwapDraft(src, dst, amount string) *types.Draft {
	return &types.Draft{
		Mode:        types.ModeSwap,
		SourceToken: src,
		DestToken:   dst,
		Amount:      amount,
		ChainID:     1,
		SlippageBps: 100,
	}
}

// CreateReverseSwapDraft creates an exact-output swap draft: the amount
// names the desired destination quantity.
func CreateReverseSwapDraft(src, dst, amount string) *types.Draft {
	draft := CreateSwapDraft(src, dst, amount)
	draft.Reverse = true
	return draft
}

// CreateConditionalDraft creates a price-triggered conditional order draft.
func CreateConditionalDraft(token, action string, cmp types.Comparator, price, amount string) *types.Draft {
	return &types.Draft{
		Mode:              types.ModeConditionalOrder,
		SourceToken:       token,
		Amount:            amount,
		Action:            action,
		TriggerComparator: cmp,
		TriggerPrice:      price,
		ChainID:           1,
		SlippageBps:       100,
	}
}
