// Overlap resolution: raw hits in, final domain architecture out.

package model

import "sort"

// ResolveDomains turns the raw hits of one protein into its final ordered,
// non-overlapping domain list. Hits are swept left to right; with merge
// enabled an overlapping hit extends the open domain and the more significant
// (smaller) e-value survives, with merge disabled the less significant hit is
// dropped whole. The input slice is not modified. Resolving an already
// resolved list returns it unchanged.
func ResolveDomains(hits []RawHit, merge bool) []Domain {

	if len(hits) == 0 {
		return nil
	}

	sorted := make([]RawHit, len(hits))
	copy(sorted, hits)

	// Start ascending, then end descending so a hit containing another comes
	// first, then e-value ascending. Stable, so exact ties keep input order.
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End > b.End
		}
		return a.EValue < b.EValue
	})

	domains := make([]Domain, 0, len(sorted))
	cur := domainFromHit(sorted[0])

	for _, h := range sorted[1:] {
		if h.Start >= cur.End {
			domains = append(domains, cur)
			cur = domainFromHit(h)
			continue
		}

		if merge {
			if h.End > cur.End {
				cur.End = h.End
			}
			if h.EValue < cur.EValue {
				cur.EValue = h.EValue
			}
			if h.BitScore > cur.BitScore {
				cur.BitScore = h.BitScore
			}
			continue
		}

		// Merge off: keep whichever hit is more significant. On an exact
		// e-value tie the current one was encountered first and stays.
		if h.EValue < cur.EValue {
			cur = domainFromHit(h)
		}
	}

	domains = append(domains, cur)

	return domains
}

func domainFromHit(h RawHit) Domain {
	return Domain{
		DomID:    h.DomID,
		Start:    h.Start,
		End:      h.End,
		EValue:   h.EValue,
		BitScore: h.BitScore,
		Round:    h.Round,
	}
}

// HitsFromDomains converts a resolved list back into raw hits, mostly so a
// caller can feed one protein's architecture through the sweep again.
func HitsFromDomains(domains []Domain) []RawHit {
	hits := make([]RawHit, 0, len(domains))
	for _, d := range domains {
		hits = append(hits, RawHit{
			DomID:    d.DomID,
			Start:    d.Start,
			End:      d.End,
			EValue:   d.EValue,
			BitScore: d.BitScore,
			Round:    d.Round,
		})
	}
	return hits
}
