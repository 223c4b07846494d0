// Package breaker guards optional upstream calls. When an upstream fails
// repeatedly the breaker opens for a cooldown and callers skip the upstream
// entirely, falling back to their degraded path. The parser uses this around
// the completion service so a dead LLM never stalls every parse.
package breaker

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// UpstreamBreaker opens after a run of consecutive failures and closes again
// after a cooldown. Reads are lock-free; hot paths call Available on every
// request.
type UpstreamBreaker struct {
	available atomic.Bool

	name             string
	failureThreshold int
	cooldown         time.Duration
	logger           *zap.Logger
	now              func() time.Time

	mu           sync.Mutex
	failures     int
	openedAt     time.Time
	reopensAfter time.Time
}

// Config holds breaker configuration.
type Config struct {
	Name             string
	FailureThreshold int
	Cooldown         time.Duration
	Logger           *zap.Logger
}

// New creates a breaker in the closed (available) state.
func New(cfg *Config) (*UpstreamBreaker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}
	if cfg.FailureThreshold <= 0 {
		return nil, fmt.Errorf("failure threshold must be positive")
	}
	if cfg.Cooldown <= 0 {
		return nil, fmt.Errorf("cooldown must be positive")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	b := &UpstreamBreaker{
		name:             cfg.Name,
		failureThreshold: cfg.FailureThreshold,
		cooldown:         cfg.Cooldown,
		logger:           cfg.Logger,
		now:              time.Now,
	}
	b.available.Store(true)
	BreakerAvailable.WithLabelValues(cfg.Name).Set(1)
	return b, nil
}

// Available reports whether the upstream should be tried. An open breaker
// past its cooldown closes again on the next call.
func (b *UpstreamBreaker) Available() bool {
	if b.available.Load() {
		return true
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.available.Load() && b.now().After(b.reopensAfter) {
		b.available.Store(true)
		b.failures = 0
		BreakerAvailable.WithLabelValues(b.name).Set(1)
		b.logger.Info("breaker-closed",
			zap.String("upstream", b.name),
			zap.Duration("open-for", b.now().Sub(b.openedAt)))
		return true
	}
	return false
}

// RecordSuccess resets the failure run.
func (b *UpstreamBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
}

// RecordFailure counts one upstream failure and opens the breaker when the
// run reaches the threshold.
func (b *UpstreamBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	BreakerFailuresTotal.WithLabelValues(b.name).Inc()
	if b.failures < b.failureThreshold || !b.available.Load() {
		return
	}

	b.available.Store(false)
	b.openedAt = b.now()
	b.reopensAfter = b.openedAt.Add(b.cooldown)
	BreakerAvailable.WithLabelValues(b.name).Set(0)
	BreakerOpensTotal.WithLabelValues(b.name).Inc()
	b.logger.Warn("breaker-opened",
		zap.String("upstream", b.name),
		zap.Int("consecutive-failures", b.failures),
		zap.Duration("cooldown", b.cooldown))
}
