package chains

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAliases(t *testing.T) {
	n := NewNormalizer(BuildChainAliasTable())

	tests := []struct {
		raw  string
		want string
	}{
		{"shufersal", "שופרסל"},
		{"Shufersal Deal", "שופרסל"},
		{"  שופרסל שלי ", "שופרסל"},
		{"RAMI LEVY", "רמי לוי"},
		{"rami levi", "רמי לוי"},
		{"yochananoff", "יוחננוף"},
		{"Yohananof", "יוחננוף"},
		{"מ. יוחננוף ובניו", "יוחננוף"},
		{"mega baair", "קרפור"},
		{"Carrefour Market", "קרפור"},
		{"osher ad", "אושר עד"},
		{"tiv taam", "טיב טעם"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.raw))
		})
	}
}

func TestNormalizeContainmentFallback(t *testing.T) {
	n := NewNormalizer(BuildChainAliasTable())

	assert.Equal(t, "רמי לוי", n.Normalize("רמי לוי שיווק השקמה בעמ סניף גבעתיים"))
	assert.Equal(t, "שופרסל", n.Normalize("shufersal online - tel aviv"))
}

func TestNormalizeUnknownPassesThrough(t *testing.T) {
	n := NewNormalizer(BuildChainAliasTable())

	assert.Equal(t, "Foo Mart", n.Normalize("Foo Mart"))
	assert.False(t, n.Known("Foo Mart"))
	assert.True(t, n.Known("shufersal deal"))
}

func TestNormalizeEmpty(t *testing.T) {
	n := NewNormalizer(BuildChainAliasTable())

	assert.Equal(t, "", n.Normalize(""))
	assert.Equal(t, "", n.Normalize("   "))
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer(BuildChainAliasTable())

	inputs := []string{"shufersal deal", "רמי לוי שיווק השקמה", "Foo Mart", "", "Carrefour City"}
	for _, chain := range BuildChainAliasTable() {
		inputs = append(inputs, chain.Canonical)
		inputs = append(inputs, chain.Aliases...)
	}

	for _, s := range inputs {
		once := n.Normalize(s)
		assert.Equal(t, once, n.Normalize(once), "normalize must be idempotent for %q", s)
	}
}

func TestNormalizeInjectedTable(t *testing.T) {
	n := NewNormalizer([]ChainAliases{
		{Canonical: "חנות בדיקה", Aliases: []string{"test store", "חנות בדיקה"}},
	})

	assert.Equal(t, "חנות בדיקה", n.Normalize("Test Store"))
	assert.Equal(t, "shufersal", n.Normalize("shufersal"))
}
