// Package app wires the intent pipeline together and owns its lifecycle.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nlxchange/intent-engine/internal/breaker"
	"github.com/nlxchange/intent-engine/internal/engine"
	"github.com/nlxchange/intent-engine/internal/executor"
	"github.com/nlxchange/intent-engine/internal/gas"
	"github.com/nlxchange/intent-engine/internal/history"
	"github.com/nlxchange/intent-engine/internal/llm"
	"github.com/nlxchange/intent-engine/internal/parser"
	"github.com/nlxchange/intent-engine/internal/quote"
	"github.com/nlxchange/intent-engine/internal/validator"
	"github.com/nlxchange/intent-engine/pkg/config"
	"github.com/nlxchange/intent-engine/pkg/healthprobe"
	"github.com/nlxchange/intent-engine/pkg/httpserver"
)

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	engine        *engine.Engine
	store         history.Store
	gasOracle     *gas.Oracle
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
}

// New builds the application from configuration.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	store, err := newStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create history store: %w", err)
	}

	// The completion stage is optional: without a key the pipeline is
	// templates then keywords.
	var interpreter llm.Interpreter
	var llmBreaker *breaker.UpstreamBreaker
	if cfg.OpenAIAPIKey != "" {
		client, err := llm.NewOpenAIClient(&llm.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.LLMTimeout,
			Logger:  logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create completion client: %w", err)
		}
		interpreter = client

		llmBreaker, err = breaker.New(&breaker.Config{
			Name:             "completion-service",
			FailureThreshold: cfg.LLMBreakerThreshold,
			Cooldown:         cfg.LLMBreakerCooldown,
			Logger:           logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create llm breaker: %w", err)
		}
	} else {
		logger.Warn("completion-service-disabled", zap.String("reason", "no api key configured"))
	}

	intentParser, err := parser.New(&parser.Config{
		DefaultChainID:     cfg.DefaultChainID,
		DefaultSlippageBps: cfg.DefaultSlippageBps,
		Interpreter:        interpreter,
		Breaker:            llmBreaker,
		Logger:             logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create parser: %w", err)
	}

	quoteClient, err := quote.NewClient(&quote.Config{
		BaseURL: cfg.AggregatorBaseURL,
		APIKey:  cfg.AggregatorAPIKey,
		Timeout: cfg.QuoteTimeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create quote client: %w", err)
	}

	gasOracle, err := gas.NewOracle(&gas.Config{
		RPCURLs:  cfg.ChainRPCURLs,
		CacheTTL: cfg.GasCacheTTL,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create gas oracle: %w", err)
	}

	draftValidator, err := validator.New(&validator.Config{
		QuoteSource: quoteClient,
		GasPricer:   gasOracle,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create validator: %w", err)
	}

	txExecutor, err := executor.New(&executor.Config{
		SwapSource: quoteClient,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create executor: %w", err)
	}

	pipeline, err := engine.New(intentParser, draftValidator, txExecutor, store, logger)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	healthChecker := healthprobe.New()
	httpServer := httpserver.New(&httpserver.Config{
		Port:           cfg.HTTPPort,
		Logger:         logger,
		HealthChecker:  healthChecker,
		Pipeline:       pipeline,
		RequestTimeout: cfg.RequestTimeout,
	})

	return &App{
		cfg:           cfg,
		logger:        logger,
		engine:        pipeline,
		store:         store,
		gasOracle:     gasOracle,
		healthChecker: healthChecker,
		httpServer:    httpServer,
	}, nil
}

func newStore(cfg *config.Config, logger *zap.Logger) (history.Store, error) {
	if cfg.StorageMode == "postgres" {
		return history.NewPostgresStore(&history.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
	}
	return history.NewConsoleStore(logger), nil
}

// Engine exposes the pipeline for the one-shot CLI path.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully.
func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- a.httpServer.Start()
	}()

	a.healthChecker.SetReady(true)
	a.logger.Info("app-started", zap.String("port", a.cfg.HTTPPort))

	select {
	case <-ctx.Done():
		return a.shutdown()
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}
}

func (a *App) shutdown() error {
	a.logger.Info("app-shutting-down")
	a.healthChecker.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http-shutdown-failed", zap.Error(err))
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("store-close-failed", zap.Error(err))
	}
	a.gasOracle.Close()

	a.logger.Info("app-shutdown-complete")
	return nil
}
