package tokens

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// priceFeeds maps chain id -> symbol -> USD oracle aggregator address.
// Prices from these feeds are fixed-point with 8 decimals, which is also the
// scaling the predicate codec uses for thresholds.
var priceFeeds = map[uint64]map[string]common.Address{
	ChainEthereum: {
		"ETH":  common.HexToAddress("0x5f4eC3Df9cbd43714FE2740f5E3616155c5b8419"),
		"WBTC": common.HexToAddress("0xF4030086522a5bEEa4988F8cA5B36dbC97BeE88c"),
		"UNI":  common.HexToAddress("0x553303d460EE0afB37EdFf9bE42922D8FF63220e"),
		"LINK": common.HexToAddress("0x2c1d072e956AFFC0D435Cb7AC38EF18d24d9127c"),
		"USDC": common.HexToAddress("0x8fFfFfd4AfB6115b954Bd326cbe7B4BA576818f6"),
	},
	ChainBase: {
		"ETH":  common.HexToAddress("0x71041dddad3595F9CEd3DcCFBe3D1F4b0a16Bb70"),
		"USDC": common.HexToAddress("0x7e860098F58bBFC8648a4311b374B1D669a2bc6B"),
	},
	ChainPolygon: {
		"MATIC": common.HexToAddress("0xAB594600376Ec9fD91F8e885dADF0CE036862dE0"),
		"WETH":  common.HexToAddress("0xF9680D99D6C9589e2a93a78A04A279e509205945"),
	},
}

// FeedNotFoundError means no USD oracle is configured for (symbol, chain).
// This is a hard validation error, never a silent default.
type FeedNotFoundError struct {
	Symbol  string
	ChainID uint64
}

func (e *FeedNotFoundError) Error() string {
	return fmt.Sprintf("no price feed configured for %s on chain %d", e.Symbol, e.ChainID)
}

// PriceFeed returns the USD oracle address for symbol on chainID.
func PriceFeed(symbol string, chainID uint64) (common.Address, error) {
	chain, ok := priceFeeds[chainID]
	if !ok {
		return common.Address{}, &FeedNotFoundError{Symbol: symbol, ChainID: chainID}
	}
	addr, ok := chain[strings.ToUpper(symbol)]
	if !ok {
		return common.Address{}, &FeedNotFoundError{Symbol: symbol, ChainID: chainID}
	}
	return addr, nil
}
