// Package predicate encodes conditional-order trigger logic into the fixed
// binary layout the on-chain order matcher consumes: a 4-byte discriminator
// followed by fixed-width big-endian operands. Composite variants nest two
// encoded predicates as length-prefixed blobs.
package predicate

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nlxchange/intent-engine/internal/amount"
)

// Kind is the logical variant of a Predicate.
type Kind uint8

const (
	KindPriceAbove Kind = iota
	KindPriceBelow
	KindPriceEquals
	KindTimeAfter
	KindAnd
	KindOr
)

// PriceDecimals is the fixed-point scaling of encoded thresholds, matching
// the oracle's 8-decimal convention.
const PriceDecimals = 8

// Variant discriminators. The matcher contract dispatches on these.
var (
	selPriceAbove  = [4]byte{0x4f, 0x88, 0xd1, 0x3e}
	selPriceBelow  = [4]byte{0xbf, 0x21, 0x6a, 0x90}
	selPriceEquals = [4]byte{0x2d, 0xc6, 0x5f, 0x71}
	selTimeAfter   = [4]byte{0x63, 0x59, 0x2c, 0x2b}
	selAnd         = [4]byte{0x91, 0x6c, 0x6f, 0xe5}
	selOr          = [4]byte{0x74, 0x26, 0x1f, 0x22}
)

const (
	wordLen        = 32
	pricePayload   = 2 * wordLen // feed word + threshold word
	timePayload    = wordLen
	childPrefixLen = 4
)

// Predicate is one node of the condition tree. Price variants carry a feed
// address and a threshold scaled by 10^PriceDecimals; TimeAfter carries a
// unix timestamp; And/Or carry two children.
type Predicate struct {
	Kind      Kind
	Feed      common.Address
	Threshold *big.Int
	Timestamp uint64
	Left      *Predicate
	Right     *Predicate
}

// DecodeError means the byte input does not match any well-formed encoding.
// Malformed lengths are rejected rather than silently truncated.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "decode predicate: " + e.Reason
}

func decodeErrorf(format string, args ...any) error {
	return &DecodeError{Reason: fmt.Sprintf(format, args...)}
}

// PriceAbove builds a feed-price >= threshold condition.
func PriceAbove(feed common.Address, threshold *big.Int) *Predicate {
	return &Predicate{Kind: KindPriceAbove, Feed: feed, Threshold: threshold}
}

// PriceBelow builds a feed-price <= threshold condition.
func PriceBelow(feed common.Address, threshold *big.Int) *Predicate {
	return &Predicate{Kind: KindPriceBelow, Feed: feed, Threshold: threshold}
}

// PriceEquals builds a feed-price == threshold condition.
func PriceEquals(feed common.Address, threshold *big.Int) *Predicate {
	return &Predicate{Kind: KindPriceEquals, Feed: feed, Threshold: threshold}
}

// TimeAfter builds a now >= timestamp condition.
func TimeAfter(timestamp uint64) *Predicate {
	return &Predicate{Kind: KindTimeAfter, Timestamp: timestamp}
}

// And combines two conditions; both must hold.
func And(left, right *Predicate) *Predicate {
	return &Predicate{Kind: KindAnd, Left: left, Right: right}
}

// Or combines two conditions; either may hold.
func Or(left, right *Predicate) *Predicate {
	return &Predicate{Kind: KindOr, Left: left, Right: right}
}

// ScalePrice converts a decimal price string to the fixed-point threshold
// representation.
func ScalePrice(decimal string) (*big.Int, error) {
	return amount.ToBaseUnits(decimal, PriceDecimals)
}

// Encode renders the predicate in its wire layout. Encoding is deterministic
// and total for well-formed trees.
func (p *Predicate) Encode() ([]byte, error) {
	switch p.Kind {
	case KindPriceAbove, KindPriceBelow, KindPriceEquals:
		if p.Threshold == nil || p.Threshold.Sign() < 0 {
			return nil, fmt.Errorf("price predicate requires a non-negative threshold")
		}
		if p.Threshold.BitLen() > 256 {
			return nil, fmt.Errorf("threshold exceeds 256 bits")
		}
		out := make([]byte, 4+pricePayload)
		copy(out, p.selector())
		copy(out[4+wordLen-common.AddressLength:4+wordLen], p.Feed.Bytes())
		p.Threshold.FillBytes(out[4+wordLen : 4+pricePayload])
		return out, nil

	case KindTimeAfter:
		out := make([]byte, 4+timePayload)
		copy(out, p.selector())
		binary.BigEndian.PutUint64(out[4+wordLen-8:4+wordLen], p.Timestamp)
		return out, nil

	case KindAnd, KindOr:
		if p.Left == nil || p.Right == nil {
			return nil, fmt.Errorf("composite predicate requires two children")
		}
		left, err := p.Left.Encode()
		if err != nil {
			return nil, err
		}
		right, err := p.Right.Encode()
		if err != nil {
			return nil, err
		}
		out := make([]byte, 0, 4+2*childPrefixLen+len(left)+len(right))
		out = append(out, p.selector()...)
		out = binary.BigEndian.AppendUint32(out, uint32(len(left)))
		out = append(out, left...)
		out = binary.BigEndian.AppendUint32(out, uint32(len(right)))
		out = append(out, right...)
		return out, nil
	}
	return nil, fmt.Errorf("unknown predicate kind %d", p.Kind)
}

// Decode parses an encoded predicate. Trailing bytes after a complete tree
// are rejected.
func Decode(data []byte) (*Predicate, error) {
	p, rest, err := decodeNode(data)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, decodeErrorf("%d trailing bytes after predicate", len(rest))
	}
	return p, nil
}

func decodeNode(data []byte) (*Predicate, []byte, error) {
	if len(data) < 4 {
		return nil, nil, decodeErrorf("input shorter than 4-byte discriminator")
	}
	var sel [4]byte
	copy(sel[:], data[:4])
	body := data[4:]

	switch sel {
	case selPriceAbove, selPriceBelow, selPriceEquals:
		if len(body) < pricePayload {
			return nil, nil, decodeErrorf("price predicate payload is %d bytes, want %d", len(body), pricePayload)
		}
		feedWord := body[:wordLen]
		for _, b := range feedWord[:wordLen-common.AddressLength] {
			if b != 0 {
				return nil, nil, decodeErrorf("feed operand has non-zero padding")
			}
		}
		p := &Predicate{
			Kind:      kindForSelector(sel),
			Feed:      common.BytesToAddress(feedWord[wordLen-common.AddressLength:]),
			Threshold: new(big.Int).SetBytes(body[wordLen:pricePayload]),
		}
		return p, body[pricePayload:], nil

	case selTimeAfter:
		if len(body) < timePayload {
			return nil, nil, decodeErrorf("time predicate payload is %d bytes, want %d", len(body), timePayload)
		}
		word := body[:wordLen]
		for _, b := range word[:wordLen-8] {
			if b != 0 {
				return nil, nil, decodeErrorf("timestamp operand exceeds 64 bits")
			}
		}
		p := &Predicate{
			Kind:      KindTimeAfter,
			Timestamp: binary.BigEndian.Uint64(word[wordLen-8:]),
		}
		return p, body[timePayload:], nil

	case selAnd, selOr:
		left, rest, err := decodeChild(body)
		if err != nil {
			return nil, nil, err
		}
		right, rest, err := decodeChild(rest)
		if err != nil {
			return nil, nil, err
		}
		p := &Predicate{Kind: kindForSelector(sel), Left: left, Right: right}
		return p, rest, nil
	}
	return nil, nil, decodeErrorf("unrecognized discriminator %x", sel)
}

func decodeChild(data []byte) (*Predicate, []byte, error) {
	if len(data) < childPrefixLen {
		return nil, nil, decodeErrorf("composite child missing length prefix")
	}
	childLen := int(binary.BigEndian.Uint32(data[:childPrefixLen]))
	data = data[childPrefixLen:]
	if childLen > len(data) {
		return nil, nil, decodeErrorf("composite child length %d exceeds remaining %d bytes", childLen, len(data))
	}
	child, rest, err := decodeNode(data[:childLen])
	if err != nil {
		return nil, nil, err
	}
	if len(rest) != 0 {
		return nil, nil, decodeErrorf("composite child has %d trailing bytes", len(rest))
	}
	return child, data[childLen:], nil
}

// Equal reports structural equality of two predicate trees.
func (p *Predicate) Equal(other *Predicate) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.Kind != other.Kind {
		return false
	}
	switch p.Kind {
	case KindPriceAbove, KindPriceBelow, KindPriceEquals:
		return p.Feed == other.Feed && p.Threshold.Cmp(other.Threshold) == 0
	case KindTimeAfter:
		return p.Timestamp == other.Timestamp
	case KindAnd, KindOr:
		return p.Left.Equal(other.Left) && p.Right.Equal(other.Right)
	}
	return false
}

func (p *Predicate) selector() []byte {
	sel := selectorForKind(p.Kind)
	return sel[:]
}

func selectorForKind(k Kind) [4]byte {
	switch k {
	case KindPriceAbove:
		return selPriceAbove
	case KindPriceBelow:
		return selPriceBelow
	case KindPriceEquals:
		return selPriceEquals
	case KindTimeAfter:
		return selTimeAfter
	case KindAnd:
		return selAnd
	}
	return selOr
}

func kindForSelector(sel [4]byte) Kind {
	switch sel {
	case selPriceAbove:
		return KindPriceAbove
	case selPriceBelow:
		return KindPriceBelow
	case selPriceEquals:
		return KindPriceEquals
	case selTimeAfter:
		return KindTimeAfter
	case selAnd:
		return KindAnd
	}
	return KindOr
}
