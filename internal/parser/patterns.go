package parser

import (
	"regexp"
	"strings"

	"github.com/nlxchange/intent-engine/pkg/types"
)

// Deterministic templates for the dominant phrasings. Ordered: first match
// wins. All matching runs on a lowercased, whitespace-collapsed copy of the
// input, so casing and extra spaces never change the extracted fields.
var (
	whitespaceRe = regexp.MustCompile(`\s+`)

	// "swap 5 ETH to USDC [on base]" - amount next to the source token.
	swapForwardRe = regexp.MustCompile(
		`^(?:please\s+)?(?:swap|convert|trade|exchange)\s+([0-9]+(?:\.[0-9]+)?)\s+([a-z]+)\s+(?:to|for|into)\s+([a-z]+)(?:\s+on\s+([a-z]+))?[.!]?$`)

	// "swap ETH to 5 USDC [on base]" - amount next to the destination token,
	// meaning the user wants exactly that much output.
	swapReverseRe = regexp.MustCompile(
		`^(?:please\s+)?(?:swap|convert|trade|exchange)\s+([a-z]+)\s+(?:to|for|into)\s+([0-9]+(?:\.[0-9]+)?)\s+([a-z]+)(?:\s+on\s+([a-z]+))?[.!]?$`)

	// "sell 100 UNI if price >= 15" / "buy 1 ETH when the price is below 2000".
	conditionalRe = regexp.MustCompile(
		`^(?:please\s+)?(buy|sell)\s+([0-9]+(?:\.[0-9]+)?)\s+([a-z]+)\s+(?:if|when|once)\s+(?:the\s+)?price\s+(?:is\s+)?(>=|<=|=|>|<|above|below|over|under|at)\s*\$?([0-9]+(?:\.[0-9]+)?)[.!]?$`)

	// "trending [tokens] [on base]".
	trendingRe = regexp.MustCompile(
		`^(?:show\s+(?:me\s+)?|list\s+|what(?:'|i)?s\s+)?trending(?:\s+tokens?)?(?:\s+on\s+([a-z]+))?[?.!]?$`)
)

func normalizeText(text string) string {
	return strings.ToLower(strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " ")))
}

// comparatorFromWord maps both symbol and word comparators onto the draft
// comparator set.
func comparatorFromWord(w string) (types.Comparator, bool) {
	switch w {
	case ">=", "above", "over":
		return types.ComparatorGTE, true
	case "<=", "below", "under":
		return types.ComparatorLTE, true
	case ">":
		return types.ComparatorGT, true
	case "<":
		return types.ComparatorLT, true
	case "=", "at":
		return types.ComparatorEQ, true
	}
	return "", false
}

// matchPatterns runs the template stage. The returned draft carries raw
// token spellings; the chain name (possibly empty) is returned separately so
// the caller can resolve both against the alias tables.
func matchPatterns(text string) (draft *types.Draft, chainName string, ok bool) {
	normalized := normalizeText(text)

	if m := swapForwardRe.FindStringSubmatch(normalized); m != nil {
		return &types.Draft{
			Mode:        types.ModeSwap,
			Amount:      m[1],
			SourceToken: m[2],
			DestToken:   m[3],
		}, m[4], true
	}

	if m := swapReverseRe.FindStringSubmatch(normalized); m != nil {
		return &types.Draft{
			Mode:        types.ModeSwap,
			SourceToken: m[1],
			Amount:      m[2],
			DestToken:   m[3],
			Reverse:     true,
		}, m[4], true
	}

	if m := conditionalRe.FindStringSubmatch(normalized); m != nil {
		cmp, cmpOK := comparatorFromWord(m[4])
		if !cmpOK {
			return nil, "", false
		}
		return &types.Draft{
			Mode:              types.ModeConditionalOrder,
			Action:            m[1],
			Amount:            m[2],
			SourceToken:       m[3],
			TriggerComparator: cmp,
			TriggerPrice:      m[5],
		}, "", true
	}

	if m := trendingRe.FindStringSubmatch(normalized); m != nil {
		return &types.Draft{Mode: types.ModeTrendingQuery}, m[1], true
	}

	return nil, "", false
}
