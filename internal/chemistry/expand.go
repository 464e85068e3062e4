package chemistry

import "github.com/clbtools/clbtools/internal/roster"

// VariantMap groups display names by base name, keeping master-list order.
type VariantMap struct {
	bases  []string
	groups map[string][]string
}

// BuildVariantMap groups the master list by roster.ExtractBaseName.
func BuildVariantMap(masterList []string) *VariantMap {
	m := &VariantMap{groups: map[string][]string{}}
	for _, name := range masterList {
		if name == "" {
			continue
		}
		base := roster.ExtractBaseName(name)
		if _, ok := m.groups[base]; !ok {
			m.bases = append(m.bases, base)
		}
		m.groups[base] = append(m.groups[base], name)
	}
	return m
}

// Variants returns the names sharing base, or base itself when it has no group.
func (m *VariantMap) Variants(base string) []string {
	if m != nil {
		if v, ok := m.groups[base]; ok {
			return v
		}
	}
	return []string{base}
}

// Bases lists base names in first-seen order.
func (m *VariantMap) Bases() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.bases...)
}

// Expander spreads base-pair chemistry over every variant pair.
type Expander struct {
	Rules Rules
}

// ExpandVariants uses DefaultRules.
func ExpandVariants(pairs []Pair, variants *VariantMap) []Pair {
	return Expander{Rules: DefaultRules}.Expand(pairs, variants)
}

// Expand returns one pair per unordered variant pair with a nonzero final
// value. The first base pair to reach a variant pair decides it, even when
// its rules suppress the pair.
func (e Expander) Expand(pairs []Pair, variants *VariantMap) []Pair {
	var out []Pair
	seen := map[string]struct{}{}

	for _, bp := range pairs {
		left := variants.Variants(bp.Player1)
		right := variants.Variants(bp.Player2)
		for _, a := range left {
			for _, b := range right {
				if a == b {
					continue
				}
				key := PairKey(a, b)
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}

				final := e.Rules.Apply(a, b, bp.Chemistry)
				if final != 0 {
					out = append(out, NewPair(a, b, final))
				}
			}
		}
	}
	return out
}
