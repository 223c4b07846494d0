package predicate

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nlxchange/intent-engine/pkg/types"
)

// StopLoss triggers when the feed price drops to or below threshold.
func StopLoss(feed common.Address, threshold *big.Int) *Predicate {
	return PriceBelow(feed, threshold)
}

// TakeProfit triggers when the feed price rises to or above threshold.
func TakeProfit(feed common.Address, threshold *big.Int) *Predicate {
	return PriceAbove(feed, threshold)
}

// TimeBoxed wraps a price condition so the order also becomes matchable once
// expiry passes, whatever the price does.
func TimeBoxed(price *Predicate, expiry uint64) *Predicate {
	return Or(price, TimeAfter(expiry))
}

// FromComparator maps a draft trigger comparator onto a price variant. The
// matcher evaluates above/below inclusively, so strict and non-strict
// comparators collapse to the same variant.
func FromComparator(cmp types.Comparator, feed common.Address, threshold *big.Int) (*Predicate, error) {
	switch cmp {
	case types.ComparatorGTE, types.ComparatorGT:
		return PriceAbove(feed, threshold), nil
	case types.ComparatorLTE, types.ComparatorLT:
		return PriceBelow(feed, threshold), nil
	case types.ComparatorEQ:
		return PriceEquals(feed, threshold), nil
	}
	return nil, fmt.Errorf("unsupported trigger comparator %q", cmp)
}
