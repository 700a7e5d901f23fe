// System assembly and family-level aggregation.

package model

import (
	"fmt"
	"sort"
)

// BuildOptions carry the per-run policies the core needs.
type BuildOptions struct {
	Merge         bool // extend overlapping hits instead of dropping one
	HoleThreshold int  // minimum retained hole length, residues
}

// BuildSystem resolves one protein's raw hits and assembles the immutable
// System record. Fails with InvalidProteinLength when the length cannot
// accommodate the hits.
func BuildSystem(accession, sysID, famID string, length int, hits []RawHit, opt BuildOptions) (*System, error) {

	domains := ResolveDomains(hits, opt.Merge)

	holes, uncovered, err := FindHoles(length, domains, opt.HoleThreshold)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", accession, err)
	}

	return &System{
		Accession: accession,
		SysID:     sysID,
		Family:    famID,
		Length:    length,
		Domains:   domains,
		Holes:     holes,
		Uncovered: uncovered,
	}, nil
}

// Aggregate freezes the family statistics: how many systems carry each
// domain id, and which ids clear the characteristic threshold. An empty
// family produces empty statistics, not an error.
func (f *Family) Aggregate(threshold float64) (*FamilyStats, error) {

	if err := checkThreshold(threshold); err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, sys := range f.Systems {
		for _, dom := range dedupeIDs(sys.Domains) {
			counts[dom]++
		}
	}

	st := &FamilyStats{
		Total:          len(f.Systems),
		Counts:         counts,
		Threshold:      threshold,
		Characteristic: characteristicSet(counts, len(f.Systems), threshold),
	}
	f.Stats = st

	return st, nil
}

// AggregateRescue is the rescue-mode variant: a hit only counts when its
// bitscore clears filt.MinScore and its round is accepted, and a domain id
// counts at most once per system (the earliest qualifying round is the one
// that counted). Returns EmptyFamily when nothing qualifies; the statistics
// are still produced so batch runs keep going.
func (f *Family) AggregateRescue(threshold float64, filt RescueFilter) (*FamilyStats, error) {

	if err := checkThreshold(threshold); err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	qualified := 0

	for _, sys := range f.Systems {
		// Earliest qualifying round per domain id within this system.
		best := make(map[string]int)
		for _, d := range sys.Domains {
			if d.BitScore < filt.MinScore || !filt.Rounds[d.Round] {
				continue
			}
			if r, ok := best[d.DomID]; !ok || d.Round < r {
				best[d.DomID] = d.Round
			}
		}
		if len(best) > 0 {
			qualified++
		}
		for dom := range best {
			counts[dom]++
		}
	}

	rf := filt
	st := &FamilyStats{
		Total:          len(f.Systems),
		Counts:         counts,
		Threshold:      threshold,
		Characteristic: characteristicSet(counts, len(f.Systems), threshold),
		Rescue:         &rf,
	}
	f.Stats = st

	if qualified == 0 {
		return st, fmt.Errorf("%w: family %s after rescue filtering", EmptyFamily, f.FamID)
	}

	return st, nil
}

func checkThreshold(threshold float64) error {
	if threshold < 0 || threshold > 1 {
		return fmt.Errorf("%w: characteristic threshold %v not in [0,1]", InvalidThreshold, threshold)
	}
	return nil
}

// dedupeIDs lists each domain id once, so repeats within one system count a
// single time.
func dedupeIDs(domains []Domain) []string {
	seen := make(map[string]bool, len(domains))
	var ids []string
	for _, d := range domains {
		if !seen[d.DomID] {
			seen[d.DomID] = true
			ids = append(ids, d.DomID)
		}
	}
	return ids
}

func characteristicSet(counts map[string]int, total int, threshold float64) []string {
	var char []string
	if total == 0 {
		return char
	}
	for dom, n := range counts {
		if float64(n)/float64(total) >= threshold {
			char = append(char, dom)
		}
	}
	sort.Strings(char)
	return char
}
