package patch

import (
	"github.com/joshuapare/cdikit/internal/buf"
	"github.com/joshuapare/cdikit/pkg/types"
)

var (
	// UnprotectSignature is the SH-4 instruction pair that performs the
	// protection check in retail boot binaries.
	UnprotectSignature = []byte{0xCD, 0xE4, 0x43, 0x6A}

	// UnprotectReplacement overwrites the check with two NOPs.
	UnprotectReplacement = []byte{0x09, 0x00, 0x09, 0x00}
)

const (
	// Delta166 and Delta150 are the fixed distances from the base position
	// used by HACK1 and HACK2.
	Delta166 uint32 = 166
	Delta150 uint32 = 150
)

// Expand derives the ordered rule list for cfg. The order is always HACK0,
// HACK1, HACK2, UNPROTECT regardless of how the variants were enabled.
// Base arithmetic wraps modulo 2^32.
func Expand(cfg types.Config) []types.Rule {
	rules := make([]types.Rule, 0, len(types.Variants))
	if cfg.Variants.Has(types.VariantDirect) {
		rules = append(rules, intRule(types.VariantDirect, cfg.BaseOld, cfg.BaseNew))
	}
	if cfg.Variants.Has(types.VariantPlus166) {
		rules = append(rules, intRule(types.VariantPlus166, cfg.BaseOld+Delta166, cfg.BaseNew+Delta166))
	}
	if cfg.Variants.Has(types.VariantPlus150) {
		rules = append(rules, intRule(types.VariantPlus150, cfg.BaseOld+Delta150, cfg.BaseNew+Delta150))
	}
	if cfg.Variants.Has(types.VariantUnprotect) {
		rules = append(rules, types.Rule{
			Variant: types.VariantUnprotect,
			Kind:    types.RuleBytes,
			Search:  append([]byte(nil), UnprotectSignature...),
			Replace: append([]byte(nil), UnprotectReplacement...),
		})
	}
	return rules
}

func intRule(v types.Variant, search, replace uint32) types.Rule {
	return types.Rule{
		Variant:      v,
		Kind:         types.RuleInteger,
		Search:       buf.AppendU32(nil, search),
		Replace:      buf.AppendU32(nil, replace),
		SearchValue:  search,
		ReplaceValue: replace,
	}
}
