package types

import "fmt"

// ExecutionErrorCode classifies execution failures. All are recoverable by
// re-initiating from the pending state; there is no automatic retry.
type ExecutionErrorCode string

const (
	ErrPreparationFailed ExecutionErrorCode = "preparation-failed"
	ErrWalletRejected    ExecutionErrorCode = "wallet-rejected"
	ErrUpstreamFailed    ExecutionErrorCode = "upstream-failed"
)

// ExecutionError is an error raised while advancing a trade through the
// execution lifecycle.
type ExecutionError struct {
	Code    ExecutionErrorCode
	Message string
	Cause   error
}

func (e *ExecutionError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *ExecutionError) Unwrap() error { return e.Cause }

// NewExecutionError builds an ExecutionError wrapping an optional cause.
func NewExecutionError(code ExecutionErrorCode, message string, cause error) *ExecutionError {
	return &ExecutionError{Code: code, Message: message, Cause: cause}
}
