// Package gas estimates transaction cost in the chain's native currency.
// Gas prices come from the chain RPC behind a short TTL cache; when the RPC
// is unreachable a conservative fixed price is used instead, so validation
// never fails because of gas estimation.
package gas

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/nlxchange/intent-engine/internal/amount"
)

const (
	nativeDecimals  = 18
	defaultCacheTTL = 15 * time.Second

	// 30 gwei: high enough to over- rather than under-estimate on every
	// supported chain.
	fallbackGasPriceWei = 30_000_000_000
)

// Oracle serves per-chain gas prices.
type Oracle struct {
	rpcURLs  map[uint64]string
	cache    *ristretto.Cache
	cacheTTL time.Duration
	logger   *zap.Logger

	// suggest is swapped out in tests.
	suggest func(ctx context.Context, rpcURL string) (*big.Int, error)
}

// Config holds oracle configuration.
type Config struct {
	RPCURLs  map[uint64]string // chain id -> RPC endpoint
	CacheTTL time.Duration
	Logger   *zap.Logger
}

// NewOracle creates a gas price oracle.
func NewOracle(cfg *Config) (*Oracle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1000,
		MaxCost:     100,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create gas price cache: %w", err)
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &Oracle{
		rpcURLs:  cfg.RPCURLs,
		cache:    cache,
		cacheTTL: ttl,
		logger:   cfg.Logger,
		suggest:  suggestViaRPC,
	}, nil
}

func suggestViaRPC(ctx context.Context, rpcURL string) (*big.Int, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial RPC: %w", err)
	}
	defer client.Close()

	price, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("suggest gas price: %w", err)
	}
	return price, nil
}

// GasPrice returns the current gas price for chainID in wei. Falls back to
// the fixed conservative price when no RPC is configured or the RPC fails.
func (o *Oracle) GasPrice(ctx context.Context, chainID uint64) *big.Int {
	key := fmt.Sprintf("gasprice:%d", chainID)
	if cached, found := o.cache.Get(key); found {
		if price, ok := cached.(*big.Int); ok {
			return new(big.Int).Set(price)
		}
	}

	rpcURL, ok := o.rpcURLs[chainID]
	if !ok {
		GasPriceFallbacksTotal.Inc()
		return big.NewInt(fallbackGasPriceWei)
	}

	price, err := o.suggest(ctx, rpcURL)
	if err != nil {
		o.logger.Warn("gas-price-fetch-failed",
			zap.Uint64("chain-id", chainID),
			zap.Error(err))
		GasPriceFallbacksTotal.Inc()
		return big.NewInt(fallbackGasPriceWei)
	}

	o.cache.SetWithTTL(key, new(big.Int).Set(price), 1, o.cacheTTL)
	GasPriceFetchesTotal.Inc()
	return price
}

// CostInNative renders gasUnits * priceWei as a decimal amount of the
// chain's native currency.
func CostInNative(gasUnits uint64, priceWei *big.Int) string {
	cost := new(big.Int).Mul(new(big.Int).SetUint64(gasUnits), priceWei)
	return amount.FromBaseUnits(cost, nativeDecimals)
}

// Close releases the cache.
func (o *Oracle) Close() {
	o.cache.Close()
}
