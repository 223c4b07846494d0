// Package parser converts raw instruction text into a typed Draft. Three
// stages, first match wins: deterministic templates, an AI completion call,
// then a keyword heuristic. Parse never fails; the worst case is a Draft
// with mode unknown.
package parser

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nlxchange/intent-engine/internal/amount"
	"github.com/nlxchange/intent-engine/internal/breaker"
	"github.com/nlxchange/intent-engine/internal/llm"
	"github.com/nlxchange/intent-engine/internal/tokens"
	"github.com/nlxchange/intent-engine/pkg/types"
)

// Parser runs the three-stage parse pipeline.
type Parser struct {
	defaultChainID     uint64
	defaultSlippageBps int
	interpreter        llm.Interpreter
	llmBreaker         *breaker.UpstreamBreaker
	logger             *zap.Logger
}

// Config holds parser configuration. Interpreter and Breaker are optional:
// without an interpreter the pipeline is templates then keywords.
type Config struct {
	DefaultChainID     uint64
	DefaultSlippageBps int
	Interpreter        llm.Interpreter
	Breaker            *breaker.UpstreamBreaker
	Logger             *zap.Logger
}

// New creates a parser.
func New(cfg *Config) (*Parser, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.DefaultChainID == 0 {
		return nil, fmt.Errorf("default chain id cannot be zero")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &Parser{
		defaultChainID:     cfg.DefaultChainID,
		defaultSlippageBps: cfg.DefaultSlippageBps,
		interpreter:        cfg.Interpreter,
		llmBreaker:         cfg.Breaker,
		logger:             cfg.Logger,
	}, nil
}

// Parse produces a Draft for text. History is optional conversation context
// forwarded to the completion stage.
func (p *Parser) Parse(ctx context.Context, text string, history []llm.Message) *types.Draft {
	if draft, chainName, ok := matchPatterns(text); ok {
		ParseTotal.WithLabelValues("pattern").Inc()
		return p.finalize(draft, chainName)
	}

	if draft, ok := p.tryInterpreter(ctx, text, history); ok {
		ParseTotal.WithLabelValues("llm").Inc()
		return p.finalize(draft, "")
	}

	draft := keywordFallback(text)
	ParseTotal.WithLabelValues("keyword").Inc()
	return p.finalize(draft, "")
}

// tryInterpreter runs the AI completion stage: one external call, no
// retries, skipped entirely while the breaker is open.
func (p *Parser) tryInterpreter(ctx context.Context, text string, history []llm.Message) (*types.Draft, bool) {
	if p.interpreter == nil {
		return nil, false
	}
	if p.llmBreaker != nil && !p.llmBreaker.Available() {
		p.logger.Debug("llm-stage-skipped", zap.String("reason", "breaker-open"))
		return nil, false
	}

	draft, err := p.interpreter.Interpret(ctx, llm.Request{
		Text:           text,
		RecentHistory:  history,
		DefaultChainID: p.defaultChainID,
	})
	if err != nil {
		if p.llmBreaker != nil {
			p.llmBreaker.RecordFailure()
		}
		p.logger.Warn("llm-stage-failed", zap.Error(err))
		return nil, false
	}
	if p.llmBreaker != nil {
		p.llmBreaker.RecordSuccess()
	}
	return draft, true
}

// finalize re-applies normalization and enforces the structural invariants.
// A draft that would reach the validator with missing required fields is
// downgraded to unknown here: the parser never hands downstream a
// structurally invalid draft.
func (p *Parser) finalize(draft *types.Draft, chainName string) *types.Draft {
	out := *draft

	out.SourceToken = tokens.NormalizeToken(out.SourceToken)
	out.DestToken = tokens.NormalizeToken(out.DestToken)
	if out.ChainID == 0 {
		out.ChainID = tokens.ResolveChain(chainName, p.defaultChainID)
	}
	if out.SlippageBps == 0 {
		out.SlippageBps = p.defaultSlippageBps
	}

	if out.Amount != "" && !amount.IsPositiveDecimal(out.Amount) {
		p.logger.Debug("draft-downgraded", zap.String("reason", "non-positive-amount"))
		return p.unknown(out.ChainID)
	}
	if out.Mode == types.ModeConditionalOrder && out.TriggerPrice != "" &&
		!amount.IsPositiveDecimal(out.TriggerPrice) {
		return p.unknown(out.ChainID)
	}
	if out.Mode == types.ModeSwap && out.SourceToken == out.DestToken {
		return p.unknown(out.ChainID)
	}
	if !out.StructurallyValid() {
		DowngradesTotal.Inc()
		p.logger.Debug("draft-downgraded",
			zap.String("mode", string(out.Mode)),
			zap.String("reason", "missing-required-fields"))
		return p.unknown(out.ChainID)
	}

	return &out
}

func (p *Parser) unknown(chainID uint64) *types.Draft {
	return &types.Draft{Mode: types.ModeUnknown, ChainID: chainID, SlippageBps: p.defaultSlippageBps}
}
