package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nlxchange/intent-engine/internal/amount"
	"github.com/nlxchange/intent-engine/internal/predicate"
	"github.com/nlxchange/intent-engine/internal/tokens"
	"github.com/nlxchange/intent-engine/pkg/types"
)

//nolint:gochecknoglobals // Cobra boilerplate
var predicateCmd = &cobra.Command{
	Use:   "predicate",
	Short: "Encode and decode trigger predicates",
}

//nolint:gochecknoglobals // Cobra boilerplate
var predicateEncodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode a price trigger as predicate hex",
	Long: `Builds a price trigger predicate and prints its hex encoding.

  intent-engine predicate encode --token UNI --comparator ">=" --price 15
  intent-engine predicate encode --token ETH --comparator "<" --price 1800 --expiry 24h`,
	RunE: runPredicateEncode,
}

//nolint:gochecknoglobals // Cobra boilerplate
var predicateDecodeCmd = &cobra.Command{
	Use:   "decode [hex]",
	Short: "Decode predicate hex into a readable condition",
	Args:  cobra.ExactArgs(1),
	RunE:  runPredicateDecode,
}

//nolint:gochecknoglobals // Cobra flag targets
var (
	predToken      string
	predChainID    uint64
	predComparator string
	predPrice      string
	predExpiry     time.Duration
)

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(predicateCmd)
	predicateCmd.AddCommand(predicateEncodeCmd)
	predicateCmd.AddCommand(predicateDecodeCmd)

	predicateEncodeCmd.Flags().StringVarP(&predToken, "token", "t", "", "Token symbol the trigger watches")
	predicateEncodeCmd.Flags().Uint64VarP(&predChainID, "chain", "c", 1, "Chain id of the price feed")
	predicateEncodeCmd.Flags().StringVar(&predComparator, "comparator", ">=", "Trigger comparator (>=, >, <=, <, =)")
	predicateEncodeCmd.Flags().StringVarP(&predPrice, "price", "p", "", "Threshold price in USD")
	predicateEncodeCmd.Flags().DurationVar(&predExpiry, "expiry", 0, "Optional expiry; adds a time escape hatch")

	_ = predicateEncodeCmd.MarkFlagRequired("token")
	_ = predicateEncodeCmd.MarkFlagRequired("price")
}

func runPredicateEncode(cmd *cobra.Command, args []string) error {
	symbol := tokens.NormalizeToken(predToken)

	feed, err := tokens.PriceFeed(symbol, predChainID)
	if err != nil {
		return fmt.Errorf("resolve price feed: %w", err)
	}

	threshold, err := predicate.ScalePrice(predPrice)
	if err != nil {
		return fmt.Errorf("scale price: %w", err)
	}

	p, err := predicate.FromComparator(types.Comparator(predComparator), feed, threshold)
	if err != nil {
		return fmt.Errorf("build predicate: %w", err)
	}

	if predExpiry > 0 {
		expiry := uint64(time.Now().Add(predExpiry).Unix())
		p = predicate.Or(p, predicate.TimeAfter(expiry))
	}

	encoded, err := p.Encode()
	if err != nil {
		return fmt.Errorf("encode predicate: %w", err)
	}

	fmt.Println("0x" + hex.EncodeToString(encoded))
	return nil
}

func runPredicateDecode(cmd *cobra.Command, args []string) error {
	raw, err := hex.DecodeString(strings.TrimPrefix(args[0], "0x"))
	if err != nil {
		return fmt.Errorf("decode hex: %w", err)
	}

	p, err := predicate.Decode(raw)
	if err != nil {
		return fmt.Errorf("decode predicate: %w", err)
	}

	fmt.Println(describePredicate(p))
	return nil
}

func describePredicate(p *predicate.Predicate) string {
	switch p.Kind {
	case predicate.KindPriceAbove:
		return fmt.Sprintf("price(feed %s) >= %s", p.Feed.Hex(), describeThreshold(p))
	case predicate.KindPriceBelow:
		return fmt.Sprintf("price(feed %s) <= %s", p.Feed.Hex(), describeThreshold(p))
	case predicate.KindPriceEquals:
		return fmt.Sprintf("price(feed %s) == %s", p.Feed.Hex(), describeThreshold(p))
	case predicate.KindTimeAfter:
		return fmt.Sprintf("time >= %s", time.Unix(int64(p.Timestamp), 0).UTC().Format(time.RFC3339))
	case predicate.KindAnd:
		return fmt.Sprintf("(%s AND %s)", describePredicate(p.Left), describePredicate(p.Right))
	case predicate.KindOr:
		return fmt.Sprintf("(%s OR %s)", describePredicate(p.Left), describePredicate(p.Right))
	default:
		return "unknown"
	}
}

func describeThreshold(p *predicate.Predicate) string {
	return amount.FromBaseUnits(p.Threshold, predicate.PriceDecimals) + " USD"
}
