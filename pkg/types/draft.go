package types

// Mode identifies what kind of action a parsed instruction asks for.
// Downstream behavior branches exhaustively on this tag.
type Mode string

const (
	ModeSwap             Mode = "swap"
	ModeConditionalOrder Mode = "conditional_order"
	ModeTrendingQuery    Mode = "trending_query"
	ModeUnknown          Mode = "unknown"
)

// Comparator is the trigger comparison of a conditional order.
type Comparator string

const (
	ComparatorGTE Comparator = ">="
	ComparatorLTE Comparator = "<="
	ComparatorGT  Comparator = ">"
	ComparatorLT  Comparator = "<"
	ComparatorEQ  Comparator = "="
)

// ValidComparator reports whether c is one of the supported comparators.
func ValidComparator(c Comparator) bool {
	switch c {
	case ComparatorGTE, ComparatorLTE, ComparatorGT, ComparatorLT, ComparatorEQ:
		return true
	}
	return false
}

// Draft is the canonical parsed-and-normalized trading intent.
//
// Drafts are immutable value objects: the parser creates one, nothing
// downstream mutates it. The validator pairs the original Draft with a fresh
// ValidationResult instead of altering it.
type Draft struct {
	Mode Mode `json:"mode"`

	// Swap fields. SourceToken/DestToken are canonical uppercase symbols.
	SourceToken string `json:"sourceToken,omitempty"`
	DestToken   string `json:"destToken,omitempty"`

	// Amount is a decimal string in human token units, always > 0 when set.
	// Reverse=true means Amount is the desired output quantity (buy exactly
	// N of DestToken); false means it is the input quantity.
	Amount  string `json:"amount,omitempty"`
	Reverse bool   `json:"reverse,omitempty"`

	ChainID     uint64 `json:"chainId"`
	SlippageBps int    `json:"slippageBps,omitempty"`

	// Conditional-order fields. The subject token is SourceToken.
	Action            string     `json:"action,omitempty"` // "buy" or "sell"
	TriggerComparator Comparator `json:"triggerComparator,omitempty"`
	TriggerPrice      string     `json:"triggerPrice,omitempty"` // decimal, USD
}

// StructurallyValid reports whether the Draft satisfies the field-presence
// invariants for its mode. The parser downgrades drafts that fail this check
// to ModeUnknown; the validator treats a failure as a missing-field error.
func (d *Draft) StructurallyValid() bool {
	switch d.Mode {
	case ModeSwap:
		return d.SourceToken != "" && d.DestToken != "" && d.Amount != ""
	case ModeConditionalOrder:
		return d.SourceToken != "" &&
			(d.Action == "buy" || d.Action == "sell") &&
			ValidComparator(d.TriggerComparator) &&
			d.TriggerPrice != ""
	case ModeTrendingQuery, ModeUnknown:
		return true
	}
	return false
}

// SubjectToken returns the token a conditional order acts on.
func (d *Draft) SubjectToken() string {
	return d.SourceToken
}
