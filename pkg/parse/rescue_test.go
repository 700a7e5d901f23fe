package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcdb-tools/domarch/pkg/model"
)

func TestParseRescueFile(t *testing.T) {
	table := "# total domains: 12\n" +
		"1.A.1\t1.A.1.1.1:449\tP0AE06\tCDD438216:11-60\t95.2\t1e-20\t1\n" +
		"1.A.1\t1.A.1.1.1:449\tP0AE06\tCDD223496:100-180\t80\t0.001\t2\textra\tcolumns\n" +
		"1.A.1\t1.A.1.1.2\tQ9XYZ1\tCDD438216:5-90\t77.5\t1e-8\t1\n"

	groups, skipped, err := ParseRescueFile(writeTable(t, "1.A.1"+RescueSuffix, table))

	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, groups, 2)

	first := groups[0]
	assert.Equal(t, "1.A.1.1.1", first.SysID)
	assert.Equal(t, 449, first.Length, "embedded length is kept")
	require.Len(t, first.Hits, 2)

	assert.Equal(t, model.RawHit{
		Family: "1.A.1", SysID: "1.A.1.1.1", Accession: "P0AE06", Length: 449,
		DomID: "CDD438216", Start: 10, End: 60,
		EValue: 1e-20, BitScore: 95.2, Round: 1,
	}, first.Hits[0])
	assert.Equal(t, 2, first.Hits[1].Round)

	assert.Zero(t, groups[1].Length, "no embedded length on the second system")
}

func TestParseRescueRowRejects(t *testing.T) {
	cases := []struct {
		name string
		line string
	}{
		{"too few columns", "1.A.1\t1.A.1.1.1\tP0AE06\tCDD1:1-10\t95\t1e-20"},
		{"bad bitscore", "1.A.1\t1.A.1.1.1\tP0AE06\tCDD1:1-10\tscore\t1e-20\t1"},
		{"bad evalue", "1.A.1\t1.A.1.1.1\tP0AE06\tCDD1:1-10\t95\tnope\t1"},
		{"bad round", "1.A.1\t1.A.1.1.1\tP0AE06\tCDD1:1-10\t95\t1e-20\tfirst"},
		{"negative round", "1.A.1\t1.A.1.1.1\tP0AE06\tCDD1:1-10\t95\t1e-20\t-1"},
		{"bad embedded length", "1.A.1\t1.A.1.1.1:long\tP0AE06\tCDD1:1-10\t95\t1e-20\t1"},
		{"broken domain token", "1.A.1\t1.A.1.1.1\tP0AE06\tCDD1:10-2\t95\t1e-20\t1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseRescueRow("r.tsv", 1, tc.line)
			assert.ErrorIs(t, err, model.MalformedRecord)
		})
	}
}

func TestFamilyFromRescuePath(t *testing.T) {
	assert.Equal(t, "1.A.12", FamilyFromRescuePath("/data/rescue/1.A.12_rescuedDomains.tsv"))
	assert.Equal(t, "2.B.4", FamilyFromRescuePath("2.B.4_rescuedDomains.tsv"))
}
