package types

// ErrorKind classifies a validation failure so the caller can present
// differentiated guidance.
type ErrorKind string

const (
	ErrKindMissingField    ErrorKind = "missing-field"
	ErrKindUnsupportedPair ErrorKind = "unsupported-pair"
	ErrKindUpstream        ErrorKind = "upstream-unavailable"
	ErrKindConfigMissing   ErrorKind = "configuration-missing"
)

// ValidationResult is the outcome of checking a Draft against live market
// data. It is created fresh per validation call and never cached: quotes are
// time-sensitive.
type ValidationResult struct {
	IsValid bool `json:"isValid"`

	// Populated on success. Both amounts are decimal strings in human token
	// units and are resolved even for reverse drafts.
	RequiredInputAmount  string `json:"requiredInputAmount,omitempty"`
	ExpectedOutputAmount string `json:"expectedOutputAmount,omitempty"`
	EstimatedGasCost     string `json:"estimatedGasCost,omitempty"` // native currency

	// Approximate marks amounts derived by the linear reverse-swap solve.
	// Those are UI-level estimates, not a guarantee of on-chain output.
	Approximate bool `json:"approximate,omitempty"`

	// Quote is the raw upstream payload, kept for audit/display.
	Quote []byte `json:"quote,omitempty"`

	// Populated on failure.
	ErrorKind    ErrorKind `json:"errorKind,omitempty"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	Hint         string    `json:"hint,omitempty"`
}

// Invalid builds a failed result with a remediation hint for the kind.
func Invalid(kind ErrorKind, message string) *ValidationResult {
	return &ValidationResult{
		IsValid:      false,
		ErrorKind:    kind,
		ErrorMessage: message,
		Hint:         remediationHint(kind),
	}
}

// remediationHint maps an error kind to user-facing guidance, kept distinct
// from the raw upstream error text.
func remediationHint(kind ErrorKind) string {
	switch kind {
	case ErrKindMissingField:
		return "Rephrase the instruction with the token pair and amount, e.g. \"swap 1 ETH to USDC\"."
	case ErrKindUnsupportedPair:
		return "This pair is not tradable on the selected network. Try another network or token."
	case ErrKindUpstream:
		return "The quote service is temporarily unavailable. Try again in a moment."
	case ErrKindConfigMissing:
		return "The server is missing a required credential. Contact the operator."
	}
	return ""
}
