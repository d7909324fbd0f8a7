// Package chains canonicalizes free-text store chain names into a fixed
// vocabulary of display names.
package chains

import "strings"

// Normalizer resolves raw chain names against an alias table. The zero-cost
// fallback keeps unknown chains visible: anything that does not match an
// alias list is returned unchanged.
type Normalizer struct {
	table []ChainAliases
}

// NewNormalizer builds a normalizer over the given alias table. Pass
// BuildChainAliasTable() for the default vocabulary.
func NewNormalizer(table []ChainAliases) *Normalizer {
	return &Normalizer{table: table}
}

// Normalize maps a raw chain name to its canonical display name. The input is
// lower-cased and trimmed before alias lookup; an exact alias match anywhere
// in the table wins over a substring match, and earlier chains win ties.
// Empty input returns the empty string. Normalize is idempotent.
func (n *Normalizer) Normalize(rawName string) string {
	cleaned := strings.ToLower(strings.TrimSpace(rawName))
	if cleaned == "" {
		return ""
	}

	for _, chain := range n.table {
		for _, alias := range chain.Aliases {
			if cleaned == alias {
				return chain.Canonical
			}
		}
	}

	// Feeds often append legal suffixes or branch names ("רמי לוי שיווק
	// השקמה בע"מ סניף גבעתיים"), so fall back to containment.
	for _, chain := range n.table {
		for _, alias := range chain.Aliases {
			if strings.Contains(cleaned, alias) {
				return chain.Canonical
			}
		}
	}

	return rawName
}

// Known reports whether the raw name resolves to a canonical chain.
func (n *Normalizer) Known(rawName string) bool {
	normalized := n.Normalize(rawName)
	for _, chain := range n.table {
		if chain.Canonical == normalized {
			return true
		}
	}
	return false
}
