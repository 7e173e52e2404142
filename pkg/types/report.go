package types

// RuleKind distinguishes integer rules from literal byte rules.
type RuleKind int

const (
	RuleInteger RuleKind = iota // 4-byte little-endian value
	RuleBytes                   // literal byte sequence
)

func (k RuleKind) String() string {
	if k == RuleBytes {
		return "bytes"
	}
	return "integer"
}

// Rule is one concrete search/replace pair derived from a Config.
// Search and Replace always have the same length.
type Rule struct {
	Variant Variant
	Kind    RuleKind

	Search  []byte
	Replace []byte

	// SearchValue and ReplaceValue are set for RuleInteger only.
	SearchValue  uint32
	ReplaceValue uint32
}

// Len is the width of the window the rule inspects.
func (r Rule) Len() int { return len(r.Search) }

// Finding records one match produced by a scan.
type Finding struct {
	Offset  int
	Variant Variant
	Applied bool
}

// Report is the result of applying a Config to a buffer.
type Report struct {
	Config   Config
	Rules    []Rule
	Findings []Finding
}

// Applied reports whether any finding rewrote the buffer.
func (r *Report) Applied() bool {
	for _, f := range r.Findings {
		if f.Applied {
			return true
		}
	}
	return false
}

// Count returns the number of findings for the given variant.
func (r *Report) Count(v Variant) int {
	n := 0
	for _, f := range r.Findings {
		if f.Variant == v {
			n++
		}
	}
	return n
}
