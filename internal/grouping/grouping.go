// Package grouping decides, per namespace, whether type pages live directly
// under the namespace directory or under a kind-named subdirectory.
//
// The decision feeds both link-path computation and output-path computation,
// so it is precomputed once from the full entity set and read-only for the
// rest of the run. Recomputing per entity could let the two consumers
// disagree; computing once removes that hazard by construction.
package grouping

import (
	"git.home.luguber.info/inful/apimark/internal/config"
	"git.home.luguber.info/inful/apimark/internal/store"
)

// Policy answers IsGrouped for every namespace in the corpus.
type Policy struct {
	enabled  bool
	minCount int
	counts   map[string]int
}

// NewPolicy counts type-kind entities per namespace once, up front.
func NewPolicy(st *store.Store, cfg config.TypesGrouping) *Policy {
	counts := make(map[string]int)
	for _, e := range st.All() {
		if e.Kind.IsType() && e.Namespace != "" {
			counts[e.Namespace]++
		}
	}
	return &Policy{
		enabled:  cfg.Enabled,
		minCount: cfg.MinCount,
		counts:   counts,
	}
}

// IsGrouped reports whether the namespace's type pages nest under
// kind subdirectories. A namespace with exactly minCount type-kind
// entities is grouped; minCount-1 is not.
func (p *Policy) IsGrouped(namespace string) bool {
	return p.enabled && p.counts[namespace] >= p.minCount
}

// TypeCount returns the precomputed type-kind entity count for a namespace.
func (p *Policy) TypeCount(namespace string) int {
	return p.counts[namespace]
}
