package parser

import (
	"regexp"
	"strings"

	"github.com/nlxchange/intent-engine/pkg/types"
)

// The keyword stage runs when the templates miss and the completion service
// is unavailable. It classifies by vocabulary and scrapes whatever fields it
// can find, so an intent signal is not thrown away just because the LLM is
// down. Drafts it cannot fill completely are downgraded by finalize.

var (
	tradeKeywords       = []string{"swap", "convert", "exchange", "trade", "buy", "sell"}
	conditionalKeywords = []string{"if price", "when price", "stop loss", "take profit", "limit order"}
	trendingKeywords    = []string{"trending", "hot tokens", "popular tokens"}

	amountTokenRe = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s+([a-z]{2,6})\b`)
	bareTokenRe   = regexp.MustCompile(`\b(eth|ethereum|weth|btc|wbtc|usdc|usdt|dai|uni|link|matic|arb)\b`)
	looseCmpRe    = regexp.MustCompile(`price\s+(?:is\s+)?(>=|<=|=|>|<|above|below|over|under|at)\s*\$?([0-9]+(?:\.[0-9]+)?)`)
)

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// keywordFallback classifies by keyword presence. Returns a ModeUnknown
// draft when no vocabulary matches at all.
func keywordFallback(text string) *types.Draft {
	normalized := normalizeText(text)

	if containsAny(normalized, trendingKeywords) {
		return &types.Draft{Mode: types.ModeTrendingQuery}
	}

	if containsAny(normalized, conditionalKeywords) {
		return scrapeConditional(normalized)
	}

	if containsAny(normalized, tradeKeywords) {
		return scrapeSwap(normalized)
	}

	return &types.Draft{Mode: types.ModeUnknown}
}

// scrapeSwap pulls "N TOKEN" plus a second token mention out of loose text.
func scrapeSwap(text string) *types.Draft {
	draft := &types.Draft{Mode: types.ModeSwap}

	if m := amountTokenRe.FindStringSubmatch(text); m != nil {
		draft.Amount = m[1]
		draft.SourceToken = m[2]
	}

	for _, m := range bareTokenRe.FindAllString(text, -1) {
		if !strings.EqualFold(m, draft.SourceToken) {
			draft.DestToken = m
			break
		}
	}

	return draft
}

// scrapeConditional pulls action, size and trigger out of loose text.
func scrapeConditional(text string) *types.Draft {
	draft := &types.Draft{Mode: types.ModeConditionalOrder}

	if strings.Contains(text, "sell") || strings.Contains(text, "stop loss") {
		draft.Action = "sell"
	} else if strings.Contains(text, "buy") || strings.Contains(text, "take profit") {
		draft.Action = "buy"
	}

	if m := amountTokenRe.FindStringSubmatch(text); m != nil {
		draft.Amount = m[1]
		draft.SourceToken = m[2]
	} else if m := bareTokenRe.FindString(text); m != "" {
		draft.SourceToken = m
	}

	if m := looseCmpRe.FindStringSubmatch(text); m != nil {
		if cmp, ok := comparatorFromWord(m[1]); ok {
			draft.TriggerComparator = cmp
			draft.TriggerPrice = m[2]
		}
	}

	return draft
}
