package types

import (
	"fmt"
	"strings"
)

// Variant is a bit set of patch variants. Each bit names one derivation rule
// relative to the base offsets.
type Variant uint8

const (
	// VariantDirect replaces BaseOld with BaseNew.
	VariantDirect Variant = 1 << iota
	// VariantPlus166 replaces BaseOld+166 with BaseNew+166.
	VariantPlus166
	// VariantPlus150 replaces BaseOld+150 with BaseNew+150.
	VariantPlus150
	// VariantUnprotect replaces the CD E4 43 6A signature with 09 00 09 00.
	VariantUnprotect

	// VariantNone is the empty set.
	VariantNone Variant = 0
	// VariantAll holds every known variant.
	VariantAll = VariantDirect | VariantPlus166 | VariantPlus150 | VariantUnprotect
)

// Variants lists every single variant in evaluation order.
var Variants = []Variant{VariantDirect, VariantPlus166, VariantPlus150, VariantUnprotect}

// Has reports whether every bit of v is set in s.
func (s Variant) Has(v Variant) bool { return v != 0 && s&v == v }

// String renders the set using the names of the classic hack4 switches.
func (s Variant) String() string {
	if s == VariantNone {
		return "none"
	}
	var parts []string
	for _, v := range Variants {
		if s.Has(v) {
			parts = append(parts, v.name())
		}
	}
	if rest := s &^ VariantAll; rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%02x", uint8(rest)))
	}
	return strings.Join(parts, "|")
}

func (s Variant) name() string {
	switch s {
	case VariantDirect:
		return "HACK0"
	case VariantPlus166:
		return "HACK1"
	case VariantPlus150:
		return "HACK2"
	case VariantUnprotect:
		return "UNPROTECT"
	}
	return s.String()
}

// Describe returns a human description of a single variant.
func (s Variant) Describe() string {
	switch s {
	case VariantDirect:
		return "old position"
	case VariantPlus166:
		return "old position + 166"
	case VariantPlus150:
		return "old position + 150"
	case VariantUnprotect:
		return "unprotect pattern"
	}
	return s.String()
}

// Config is the immutable input to a patch scan.
type Config struct {
	// BaseOld is the 32-bit value being searched for.
	BaseOld uint32
	// BaseNew is the 32-bit value written in place of BaseOld.
	BaseNew uint32
	// Variants selects which rules are derived from the bases.
	Variants Variant
	// Commit allows the scan to rewrite matches. When false the buffer is
	// never modified.
	Commit bool
}

// Validate returns ErrNoOpConfiguration when no known variant is enabled.
// Unknown bits alone produce no rules.
func (c Config) Validate() error {
	if c.Variants&VariantAll == VariantNone {
		return ErrNoOpConfiguration
	}
	return nil
}

const (
	// DefaultOldPos is the LBA-derived value found in stock boot binaries (45000).
	DefaultOldPos uint32 = 0xAFC8
	// DefaultNewPos is the usual self-boot data track LBA (11702).
	DefaultNewPos uint32 = 0x2DB6
)

// Options mirrors the hack4 command-line switches.
type Options struct {
	OldPos    uint32
	NewPos    uint32
	Hack0     bool // old -> new
	Hack1     bool // old+166 -> new+166
	Hack2     bool // old+150 -> new+150
	Hack3     bool // Hack1 and Hack2 together
	Unprotect bool
	Write     bool
}

// DefaultOptions returns Options with the stock base positions and nothing enabled.
func DefaultOptions() Options {
	return Options{OldPos: DefaultOldPos, NewPos: DefaultNewPos}
}

// Config converts the switches into a Config. Hack3 is additive with Hack1
// and Hack2 rather than exclusive.
func (o Options) Config() Config {
	var v Variant
	if o.Hack0 {
		v |= VariantDirect
	}
	if o.Hack1 || o.Hack3 {
		v |= VariantPlus166
	}
	if o.Hack2 || o.Hack3 {
		v |= VariantPlus150
	}
	if o.Unprotect {
		v |= VariantUnprotect
	}
	return Config{
		BaseOld:  o.OldPos,
		BaseNew:  o.NewPos,
		Variants: v,
		Commit:   o.Write,
	}
}
