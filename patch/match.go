package patch

import (
	"github.com/joshuapare/cdikit/internal/buf"
	"github.com/joshuapare/cdikit/pkg/types"
)

// Matches reports whether pattern occurs in b at off. A window that does not
// fit in b is simply not a match.
func Matches(b []byte, off int, pattern []byte) bool {
	window, ok := buf.Slice(b, off, len(pattern))
	if !ok {
		return false
	}
	for i, c := range pattern {
		if window[i] != c {
			return false
		}
	}
	return true
}

// matchRule checks a single rule at off.
func matchRule(b []byte, off int, r *types.Rule) bool {
	if r.Kind == types.RuleInteger {
		if !buf.Has(b, off, 4) {
			return false
		}
		return buf.ReadU32(b, off) == r.SearchValue
	}
	return Matches(b, off, r.Search)
}

// applyRule writes the rule's replacement at off. The span is the same one
// matchRule just validated.
func applyRule(b []byte, off int, r *types.Rule) {
	if r.Kind == types.RuleInteger {
		buf.PutU32(b, off, r.ReplaceValue)
		return
	}
	copy(b[off:off+len(r.Replace)], r.Replace)
}
