package syntax

import (
	"math/bits"
	"strings"

	"rcc/internal/token"
)

const setWords = (int(NumKinds) + 63) / 64

// TokenSet is a fixed-size bitset over the merged kind space.
// The zero value is the empty set. Membership and union cost do not
// depend on how many kinds the set holds.
type TokenSet struct {
	bits [setWords]uint64
}

// NewTokenSet builds a set from merged kinds.
func NewTokenSet(kinds ...Kind) TokenSet {
	var s TokenSet
	for _, k := range kinds {
		s = s.add(k)
	}
	return s
}

// TokenSetOf builds a set from token kinds.
func TokenSetOf(kinds ...token.Kind) TokenSet {
	var s TokenSet
	for _, k := range kinds {
		s = s.add(Tok(k))
	}
	return s
}

func (s TokenSet) add(k Kind) TokenSet {
	if k >= NumKinds {
		panic("syntax: kind " + k.String() + " outside the kind universe")
	}
	s.bits[k/64] |= 1 << (k % 64)
	return s
}

// Contains reports whether k is in the set.
func (s TokenSet) Contains(k Kind) bool {
	if k >= NumKinds {
		return false
	}
	return s.bits[k/64]&(1<<(k%64)) != 0
}

// Has is Contains for a token kind.
func (s TokenSet) Has(k token.Kind) bool {
	return s.Contains(Tok(k))
}

// Union returns the set of kinds in s or other.
func (s TokenSet) Union(other TokenSet) TokenSet {
	for i := range s.bits {
		s.bits[i] |= other.bits[i]
	}
	return s
}

// With returns s plus the given token kinds.
func (s TokenSet) With(kinds ...token.Kind) TokenSet {
	return s.Union(TokenSetOf(kinds...))
}

// Len returns the number of kinds in the set.
func (s TokenSet) Len() int {
	n := 0
	for _, w := range s.bits {
		n += bits.OnesCount64(w)
	}
	return n
}

// Kinds lists the members in ascending order.
func (s TokenSet) Kinds() []Kind {
	out := make([]Kind, 0, s.Len())
	for i, w := range s.bits {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			out = append(out, Kind(i*64+b)) //nolint:gosec // bounded by NumKinds
			w &= w - 1
		}
	}
	return out
}

func (s TokenSet) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range s.Kinds() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k.String())
	}
	sb.WriteByte('}')
	return sb.String()
}
