// Package llm is the AI-completion stage of the intent parser. The external
// service sits behind the narrow Interpreter interface so tests can swap in
// a deterministic stub.
package llm

import (
	"context"

	"github.com/nlxchange/intent-engine/pkg/types"
)

// Message is one prior chat turn supplied as parsing context.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Request carries the raw instruction plus optional conversation context.
type Request struct {
	Text           string
	RecentHistory  []Message
	DefaultChainID uint64
}

// Interpreter converts free text into a Draft using an external
// text-completion service. Implementations must bound the call with a
// timeout and make exactly one attempt per invocation.
type Interpreter interface {
	Interpret(ctx context.Context, req Request) (*types.Draft, error)
}
