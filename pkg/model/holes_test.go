package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dom(id string, start, end int) Domain {
	return Domain{DomID: id, Start: start, End: end, EValue: 1e-5}
}

func TestFindHolesBoundaryGaps(t *testing.T) {
	holes, uncovered, err := FindHoles(100, []Domain{dom("X", 10, 60)}, 5)

	require.NoError(t, err)
	require.Len(t, holes, 2)
	assert.Equal(t, Hole{Label: "BEGIN to X", Start: 0, End: 10}, holes[0])
	assert.Equal(t, Hole{Label: "X to END", Start: 60, End: 100}, holes[1])
	assert.Equal(t, 50, uncovered)
}

func TestFindHolesSuppressionThreshold(t *testing.T) {
	domains := []Domain{dom("A", 0, 50), dom("B", 60, 100)}

	// The 10-residue gap is noise at the default threshold.
	holes, uncovered, err := FindHoles(100, domains, 50)
	require.NoError(t, err)
	assert.Empty(t, holes)
	assert.Equal(t, 10, uncovered)

	// Lower the threshold and the same gap is reported.
	holes, uncovered, err = FindHoles(100, domains, 5)
	require.NoError(t, err)
	require.Len(t, holes, 1)
	assert.Equal(t, Hole{Label: "A to B", Start: 50, End: 60}, holes[0])
	assert.Equal(t, 10, uncovered)
}

func TestFindHolesNoDomains(t *testing.T) {
	holes, uncovered, err := FindHoles(200, nil, 50)

	require.NoError(t, err)
	require.Len(t, holes, 1)
	assert.Equal(t, Hole{Label: "BEGIN to END", Start: 0, End: 200}, holes[0])
	assert.Equal(t, 200, uncovered)
}

func TestFindHolesZeroLength(t *testing.T) {
	holes, uncovered, err := FindHoles(0, nil, 50)
	require.NoError(t, err)
	assert.Empty(t, holes)
	assert.Zero(t, uncovered)

	_, _, err = FindHoles(0, []Domain{dom("X", 0, 10)}, 50)
	assert.ErrorIs(t, err, InvalidProteinLength)
}

func TestFindHolesBadLength(t *testing.T) {
	_, _, err := FindHoles(-1, nil, 50)
	assert.ErrorIs(t, err, InvalidProteinLength)

	_, _, err = FindHoles(90, []Domain{dom("X", 10, 120)}, 50)
	assert.ErrorIs(t, err, InvalidProteinLength)
}

func TestFindHolesExactPartition(t *testing.T) {
	cases := []struct {
		name    string
		length  int
		domains []Domain
	}{
		{"no domains", 150, nil},
		{"single", 100, []Domain{dom("X", 10, 60)}},
		{"flush ends", 100, []Domain{dom("A", 0, 50), dom("B", 60, 100)}},
		{"three with gaps", 500, []Domain{dom("A", 20, 100), dom("B", 100, 230), dom("C", 400, 470)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Threshold 0 retains every positive gap, so retained holes and
			// the uncovered tally must agree.
			holes, uncovered, err := FindHoles(tc.length, tc.domains, 0)
			require.NoError(t, err)

			covered := 0
			for _, d := range tc.domains {
				covered += d.Len()
			}
			assert.Equal(t, tc.length, covered+uncovered)

			holeSum := 0
			for _, h := range holes {
				holeSum += h.Len()
			}
			assert.Equal(t, uncovered, holeSum)
		})
	}
}
