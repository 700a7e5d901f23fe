// Gap detection over a resolved domain list.

package model

import "fmt"

// FindHoles walks a protein's final domain list and returns the retained
// holes plus the total uncovered residue count. Domains and every computed
// gap, suppressed or not, partition [0, length) exactly, so the uncovered
// tally includes gaps the threshold dropped from the returned list.
//
// The domain list must already be sorted and non-overlapping (the merger's
// output). A protein with no domains becomes one BEGIN to END hole.
func FindHoles(length int, domains []Domain, threshold int) ([]Hole, int, error) {

	if length < 0 {
		return nil, 0, fmt.Errorf("%w: length %d", InvalidProteinLength, length)
	}

	if len(domains) == 0 {
		if length == 0 {
			return nil, 0, nil
		}
		var holes []Hole
		whole := Hole{Label: holeLabel(BeginMarker, EndMarker), Start: 0, End: length}
		if keepHole(whole, threshold) {
			holes = append(holes, whole)
		}
		return holes, length, nil
	}

	if length == 0 {
		return nil, 0, fmt.Errorf("%w: domains present but length unknown", InvalidProteinLength)
	}
	if last := domains[len(domains)-1].End; last > length {
		return nil, 0, fmt.Errorf("%w: domain ends at %d beyond length %d", InvalidProteinLength, last, length)
	}

	var holes []Hole
	uncovered := 0

	push := func(label string, start, end int) {
		if end <= start {
			return
		}
		h := Hole{Label: label, Start: start, End: end}
		uncovered += h.Len()
		if keepHole(h, threshold) {
			holes = append(holes, h)
		}
	}

	push(holeLabel(BeginMarker, domains[0].DomID), 0, domains[0].Start)

	for i := 1; i < len(domains); i++ {
		prev, next := domains[i-1], domains[i]
		push(holeLabel(prev.DomID, next.DomID), prev.End, next.Start)
	}

	last := domains[len(domains)-1]
	push(holeLabel(last.DomID, EndMarker), last.End, length)

	return holes, uncovered, nil
}

// keepHole is the retention policy for sub-threshold gaps, kept in one place
// on purpose. Suppressed holes still count toward the uncovered tally.
func keepHole(h Hole, threshold int) bool {
	return h.Len() > threshold
}

func holeLabel(left, right string) string {
	return fmt.Sprintf("%s to %s", left, right)
}
