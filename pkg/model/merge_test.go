package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hit(dom string, start, end int, evalue float64) RawHit {
	return RawHit{DomID: dom, Start: start, End: end, EValue: evalue}
}

func assertArchitecture(t *testing.T, domains []Domain) {
	t.Helper()
	for i := 1; i < len(domains); i++ {
		assert.LessOrEqual(t, domains[i-1].End, domains[i].Start,
			"domains must be sorted and non-overlapping")
	}
	for _, d := range domains {
		assert.Less(t, d.Start, d.End)
	}
}

func TestResolveDomainsMergesOverlap(t *testing.T) {
	hits := []RawHit{
		hit("X", 10, 40, 1e-5),
		hit("X", 30, 60, 1e-8),
	}

	domains := ResolveDomains(hits, true)

	require.Len(t, domains, 1)
	assert.Equal(t, Domain{DomID: "X", Start: 10, End: 60, EValue: 1e-8}, domains[0])
}

func TestResolveDomainsMergeOffDropsWeakerHit(t *testing.T) {
	hits := []RawHit{
		hit("A", 0, 100, 1e-3),
		hit("B", 10, 20, 1e-9),
	}

	domains := ResolveDomains(hits, false)

	require.Len(t, domains, 1)
	assert.Equal(t, "B", domains[0].DomID)
	assert.Equal(t, 10, domains[0].Start)
	assert.Equal(t, 20, domains[0].End)
}

func TestResolveDomainsKeepsDisjointHits(t *testing.T) {
	hits := []RawHit{
		hit("B", 60, 100, 1e-4),
		hit("A", 0, 50, 1e-3),
	}

	for _, merge := range []bool{true, false} {
		domains := ResolveDomains(hits, merge)

		require.Len(t, domains, 2)
		assert.Equal(t, "A", domains[0].DomID)
		assert.Equal(t, "B", domains[1].DomID)
		assertArchitecture(t, domains)
	}
}

func TestResolveDomainsSortedNonOverlapping(t *testing.T) {
	hits := []RawHit{
		hit("C", 80, 120, 1e-2),
		hit("A", 5, 30, 1e-6),
		hit("B", 25, 70, 1e-4),
		hit("A", 5, 45, 1e-3),
		hit("D", 200, 240, 1e-9),
	}

	for _, merge := range []bool{true, false} {
		assertArchitecture(t, ResolveDomains(hits, merge))
	}
}

func TestResolveDomainsIdempotent(t *testing.T) {
	hits := []RawHit{
		hit("C", 80, 120, 1e-2),
		hit("A", 5, 30, 1e-6),
		hit("B", 25, 70, 1e-4),
	}

	once := ResolveDomains(hits, true)
	again := ResolveDomains(HitsFromDomains(once), true)

	assert.Equal(t, once, again)
}

func TestResolveDomainsTieBreak(t *testing.T) {
	// Identical span: the smaller e-value wins regardless of input order.
	domains := ResolveDomains([]RawHit{
		hit("weak", 10, 50, 1e-2),
		hit("strong", 10, 50, 1e-7),
	}, false)

	require.Len(t, domains, 1)
	assert.Equal(t, "strong", domains[0].DomID)

	// Exact tie on everything: first encountered stays.
	domains = ResolveDomains([]RawHit{
		hit("first", 10, 50, 1e-7),
		hit("second", 10, 50, 1e-7),
	}, false)

	require.Len(t, domains, 1)
	assert.Equal(t, "first", domains[0].DomID)
}

func TestResolveDomainsKeepsBestBitScore(t *testing.T) {
	hits := []RawHit{
		{DomID: "R", Start: 0, End: 40, EValue: 1e-4, BitScore: 55, Round: 1},
		{DomID: "R", Start: 30, End: 80, EValue: 1e-2, BitScore: 90, Round: 2},
	}

	domains := ResolveDomains(hits, true)

	require.Len(t, domains, 1)
	assert.Equal(t, 80, domains[0].End)
	assert.Equal(t, 90.0, domains[0].BitScore)
	assert.Equal(t, 1e-4, domains[0].EValue)
}

func TestResolveDomainsEmptyInput(t *testing.T) {
	assert.Empty(t, ResolveDomains(nil, true))
	assert.Empty(t, ResolveDomains([]RawHit{}, false))
}
