package engine

import (
	"fmt"

	"github.com/nlxchange/intent-engine/pkg/types"
)

// responseText builds the human reply for a parse turn. Failure text always
// carries the remediation hint, kept separate from the raw upstream error.
func responseText(draft *types.Draft, result *types.ValidationResult) string {
	switch draft.Mode {
	case types.ModeSwap:
		return swapResponseText(draft, result)
	case types.ModeConditionalOrder:
		return conditionalResponseText(draft, result)
	case types.ModeTrendingQuery:
		return "Trending data isn't wired up here yet. I can quote swaps and set up conditional orders."
	default:
		return "I couldn't work out a trade from that. " +
			"Try something like \"swap 1 ETH to USDC\" or \"sell 100 UNI if price >= 15\"."
	}
}

func swapResponseText(draft *types.Draft, result *types.ValidationResult) string {
	if result == nil || !result.IsValid {
		return invalidText(result)
	}

	approx := ""
	if result.Approximate {
		approx = "about "
	}
	return fmt.Sprintf("You'd pay %s%s %s and receive about %s %s (network fee ≈ %s). Confirm to proceed.",
		approx, result.RequiredInputAmount, draft.SourceToken,
		result.ExpectedOutputAmount, draft.DestToken,
		result.EstimatedGasCost)
}

func conditionalResponseText(draft *types.Draft, result *types.ValidationResult) string {
	if result == nil || !result.IsValid {
		return invalidText(result)
	}
	return fmt.Sprintf("Order noted: %s %s %s when the price is %s %s USD. "+
		"Conditional orders can't be submitted on-chain yet.",
		draft.Action, draft.Amount, draft.SubjectToken(),
		draft.TriggerComparator, draft.TriggerPrice)
}

func invalidText(result *types.ValidationResult) string {
	if result == nil {
		return "I couldn't validate that trade."
	}
	return fmt.Sprintf("That trade won't work: %s. %s", result.ErrorMessage, result.Hint)
}
