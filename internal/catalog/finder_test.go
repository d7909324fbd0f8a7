package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type spyRepo struct {
	byCode    map[string][]Entry
	byName    map[string][]Entry
	chains    []string
	codeErr   error
	nameErr   error
	chainsErr error
	codeCalls []string
	nameCalls []string
}

func (s *spyRepo) QueryByCode(_ context.Context, codes []string) ([]Entry, error) {
	s.codeCalls = append(s.codeCalls, codes...)
	if s.codeErr != nil {
		return nil, s.codeErr
	}
	var out []Entry
	for _, c := range codes {
		out = append(out, s.byCode[c]...)
	}
	return out, nil
}

func (s *spyRepo) QueryByNameSubstring(_ context.Context, term string, _ int) ([]Entry, error) {
	s.nameCalls = append(s.nameCalls, term)
	if s.nameErr != nil {
		return nil, s.nameErr
	}
	return s.byName[term], nil
}

func (s *spyRepo) ListChains(context.Context) ([]string, error) {
	if s.chainsErr != nil {
		return nil, s.chainsErr
	}
	return s.chains, nil
}

func entry(chain, name string, price float64) Entry {
	return Entry{ProductCode: "729000001", ProductName: name, Price: price, StoreChain: chain}
}

func TestCodeTierShortCircuitsNameSearch(t *testing.T) {
	repo := &spyRepo{
		byCode: map[string][]Entry{
			"7290000000001": {entry("שופרסל", "חלב 3% תנובה", 6.0)},
		},
	}
	f := NewFinder(repo, nil, 0)

	got := f.FindCandidates(context.Background(), "חלב 3%", "7290000000001")

	assert.Len(t, got, 1)
	assert.Equal(t, []string{"7290000000001"}, repo.codeCalls)
	assert.Empty(t, repo.nameCalls, "name tier must not be consulted after a code hit")
}

func TestNameTierWhenNoCode(t *testing.T) {
	repo := &spyRepo{
		byName: map[string][]Entry{
			"חלב תנובה": {entry("רמי לוי", "חלב 3% תנובה 1 ליטר", 5.5)},
		},
	}
	f := NewFinder(repo, nil, 0)

	got := f.FindCandidates(context.Background(), "  חלב   תנובה ", "")

	assert.Len(t, got, 1)
	assert.Empty(t, repo.codeCalls)
	assert.Equal(t, []string{"חלב תנובה"}, repo.nameCalls, "term is whitespace-normalized")
}

func TestWordFallbackSkipsShortTokens(t *testing.T) {
	repo := &spyRepo{
		byName: map[string][]Entry{
			"תנובה": {entry("ויקטורי", "גבינה לבנה תנובה", 4.9)},
		},
	}
	f := NewFinder(repo, nil, 0)

	got := f.FindCandidates(context.Background(), "גבינה תנובה 5%", "")

	// Full-name tier misses, then per-word: "גבינה" and "תנובה" queried,
	// "5%" discarded as too short.
	assert.Len(t, got, 1)
	assert.Equal(t, []string{"גבינה תנובה 5%", "גבינה", "תנובה"}, repo.nameCalls)
}

func TestQueryErrorsDegradeToEmpty(t *testing.T) {
	repo := &spyRepo{codeErr: errors.New("dial tcp: refused"), nameErr: errors.New("dial tcp: refused")}
	f := NewFinder(repo, nil, 0)

	got := f.FindCandidates(context.Background(), "חלב תנובה", "7290000000001")

	assert.Empty(t, got)
}

func TestCodeErrorFallsThroughToName(t *testing.T) {
	repo := &spyRepo{
		codeErr: errors.New("timeout"),
		byName: map[string][]Entry{
			"קוטג": {entry("שופרסל", "קוטג' תנובה", 5.9)},
		},
	}
	f := NewFinder(repo, nil, 0)

	got := f.FindCandidates(context.Background(), "קוטג", "111")

	assert.Len(t, got, 1)
}

func TestMalformedRowsSkipped(t *testing.T) {
	repo := &spyRepo{
		byCode: map[string][]Entry{
			"111": {
				{ProductCode: "111", ProductName: "no price", StoreChain: "שופרסל"},
				{ProductCode: "111", ProductName: "no chain", Price: 3.5},
				{ProductCode: "111", ProductName: "ok", Price: 3.5, StoreChain: "שופרסל"},
			},
		},
	}
	f := NewFinder(repo, nil, 0)

	got := f.FindCandidates(context.Background(), "", "111")

	assert.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].ProductName)
}

func TestCatalogChains(t *testing.T) {
	repo := &spyRepo{chains: []string{"שופרסל", "רמי לוי"}}
	f := NewFinder(repo, nil, 0)

	assert.Equal(t, []string{"שופרסל", "רמי לוי"}, f.CatalogChains(context.Background()))
}

func TestCatalogChainsDegradesToNilOnError(t *testing.T) {
	repo := &spyRepo{chainsErr: errors.New("dial tcp: refused")}
	f := NewFinder(repo, nil, 0)

	assert.Nil(t, f.CatalogChains(context.Background()))
}

func TestEmptyNameAndCodeReturnsNothing(t *testing.T) {
	repo := &spyRepo{}
	f := NewFinder(repo, nil, 0)

	assert.Empty(t, f.FindCandidates(context.Background(), "   ", ""))
	assert.Empty(t, repo.codeCalls)
	assert.Empty(t, repo.nameCalls)
}
