package patch

import (
	"github.com/joshuapare/cdikit/internal/buf"
	"github.com/joshuapare/cdikit/pkg/types"
)

// Scan walks b once and checks every rule at every offset where the rule's
// window fits. Rules are evaluated in slice order at each offset and never
// short-circuit one another. When commit is true a match is rewritten before
// the next check runs. The returned slice is b itself; it is never resized.
func Scan(b []byte, rules []types.Rule, commit bool) ([]byte, []types.Finding) {
	var findings []types.Finding

	// Each rule has its own valid range; scan up to the widest one.
	last := -1
	for i := range rules {
		if end, ok := buf.LastOffset(len(b), rules[i].Len()); ok && end > last {
			last = end
		}
	}

	for off := 0; off <= last; off++ {
		for i := range rules {
			r := &rules[i]
			if r.Len() == 0 || !matchRule(b, off, r) {
				continue
			}
			findings = append(findings, types.Finding{
				Offset:  off,
				Variant: r.Variant,
				Applied: commit,
			})
			if commit {
				applyRule(b, off, r)
			}
		}
	}
	return b, findings
}

// Apply validates cfg, expands it and scans b. A config with no variants
// returns types.ErrNoOpConfiguration without scanning.
func Apply(b []byte, cfg types.Config) (types.Report, error) {
	if err := cfg.Validate(); err != nil {
		return types.Report{Config: cfg}, err
	}
	rules := Expand(cfg)
	_, findings := Scan(b, rules, cfg.Commit)
	return types.Report{
		Config:   cfg,
		Rules:    rules,
		Findings: findings,
	}, nil
}
