// Package tokens holds the static token/chain registries: alias
// normalization, chain name resolution, per-chain ERC-20 metadata and the
// price-feed registry. Everything here is a pure lookup over static tables.
package tokens

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NativeToken is the sentinel address aggregators use for the chain's
// native asset (ETH, MATIC, BNB).
var NativeToken = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

// Supported chain ids.
const (
	ChainEthereum uint64 = 1
	ChainOptimism uint64 = 10
	ChainBSC      uint64 = 56
	ChainPolygon  uint64 = 137
	ChainBase     uint64 = 8453
	ChainArbitrum uint64 = 42161
)

// tokenAliases maps common spellings to canonical uppercase symbols.
var tokenAliases = map[string]string{
	"ethereum": "ETH",
	"ether":    "ETH",
	"eth":      "ETH",
	"weth":     "WETH",
	"bitcoin":  "WBTC",
	"btc":      "WBTC",
	"wbtc":     "WBTC",
	"usdc":     "USDC",
	"usdt":     "USDT",
	"tether":   "USDT",
	"dai":      "DAI",
	"uniswap":  "UNI",
	"uni":      "UNI",
	"link":     "LINK",
	"matic":    "MATIC",
	"polygon":  "MATIC",
	"arb":      "ARB",
}

// chainAliases maps human chain names to numeric chain ids.
var chainAliases = map[string]uint64{
	"ethereum": ChainEthereum,
	"mainnet":  ChainEthereum,
	"eth":      ChainEthereum,
	"optimism": ChainOptimism,
	"op":       ChainOptimism,
	"bsc":      ChainBSC,
	"bnb":      ChainBSC,
	"polygon":  ChainPolygon,
	"matic":    ChainPolygon,
	"base":     ChainBase,
	"arbitrum": ChainArbitrum,
	"arb":      ChainArbitrum,
}

// NormalizeToken maps an alias to its canonical uppercase symbol. Unknown
// input falls back to uppercasing the raw string; it never fails.
func NormalizeToken(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if symbol, ok := tokenAliases[strings.ToLower(trimmed)]; ok {
		return symbol
	}
	return strings.ToUpper(trimmed)
}

// ResolveChain maps a human chain name to its chain id. Unknown or empty
// input falls back to defaultID; it never fails.
func ResolveChain(raw string, defaultID uint64) uint64 {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return defaultID
	}
	if id, ok := chainAliases[trimmed]; ok {
		return id
	}
	return defaultID
}

// TokenInfo is the per-chain metadata the quote layer needs.
type TokenInfo struct {
	Address  common.Address
	Decimals int
}

// tokenRegistry maps chain id -> symbol -> metadata.
var tokenRegistry = map[uint64]map[string]TokenInfo{
	ChainEthereum: {
		"ETH":  {NativeToken, 18},
		"WETH": {common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"), 18},
		"USDC": {common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"), 6},
		"USDT": {common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"), 6},
		"DAI":  {common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"), 18},
		"UNI":  {common.HexToAddress("0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984"), 18},
		"WBTC": {common.HexToAddress("0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599"), 8},
		"LINK": {common.HexToAddress("0x514910771AF9Ca656af840dff83E8264EcF986CA"), 18},
	},
	ChainBase: {
		"ETH":  {NativeToken, 18},
		"WETH": {common.HexToAddress("0x4200000000000000000000000000000000000006"), 18},
		"USDC": {common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"), 6},
		"DAI":  {common.HexToAddress("0x50c5725949A6F0c72E6C4a641F24049A917DB0Cb"), 18},
	},
	ChainPolygon: {
		"MATIC": {NativeToken, 18},
		"WETH":  {common.HexToAddress("0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619"), 18},
		"USDC":  {common.HexToAddress("0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359"), 6},
		"USDT":  {common.HexToAddress("0xc2132D05D31c914a87C6611C10748AEb04B58e8F"), 6},
	},
	ChainArbitrum: {
		"ETH":  {NativeToken, 18},
		"WETH": {common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"), 18},
		"USDC": {common.HexToAddress("0xaf88d065e77c8cC2239327C5EDb3A432268e5831"), 6},
		"ARB":  {common.HexToAddress("0x912CE59144191C1204E64559FE8253a0e49E6548"), 18},
	},
}

// Lookup returns the metadata for symbol on chainID.
// The second return is false when the token is not listed on that chain.
func Lookup(symbol string, chainID uint64) (TokenInfo, bool) {
	chain, ok := tokenRegistry[chainID]
	if !ok {
		return TokenInfo{}, false
	}
	info, ok := chain[strings.ToUpper(symbol)]
	return info, ok
}

// PairSupported reports whether both tokens are listed on chainID.
func PairSupported(src, dst string, chainID uint64) bool {
	if _, ok := Lookup(src, chainID); !ok {
		return false
	}
	_, ok := Lookup(dst, chainID)
	return ok
}
