package parse

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcdb-tools/domarch/pkg/model"
)

func writeTable(t *testing.T, name, content string) string {
	t.Helper()
	p := path.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestParseCDDFile(t *testing.T) {
	table := "# Fields: family, system, accession, domains\n" +
		"1.A.1\t1.A.1.1.1\tP0AE06\tCDD438216:11-60;CDD223496:100-180\n" +
		"\n" +
		"1.A.1\t1.A.1.1.2\tQ9XYZ1\tCDD438216:5-90\n" +
		"1.A.1\t1.A.1.1.3\tBROKEN\tCDD438216:90-5\n"

	groups, skipped, err := ParseCDDFile(writeTable(t, "1.A.1.tsv", table))

	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, groups, 2)

	first := groups[0]
	assert.Equal(t, "1.A.1", first.Family)
	assert.Equal(t, "1.A.1.1.1", first.SysID)
	assert.Equal(t, "P0AE06", first.Accession)
	assert.Zero(t, first.Length, "CDD rows carry no length")
	require.Len(t, first.Hits, 2)

	// 1-based inclusive 11-60 becomes [10, 60).
	assert.Equal(t, model.RawHit{
		Family: "1.A.1", SysID: "1.A.1.1.1", Accession: "P0AE06",
		DomID: "CDD438216", Start: 10, End: 60,
	}, first.Hits[0])
	assert.Zero(t, first.Hits[0].EValue)

	assert.Equal(t, "Q9XYZ1", groups[1].Accession)
}

func TestParseCDDRowRejects(t *testing.T) {
	cases := []struct {
		name string
		line string
	}{
		{"too few columns", "1.A.1\t1.A.1.1.1\tP0AE06"},
		{"empty accession", "1.A.1\t1.A.1.1.1\t\tCDD1:1-10"},
		{"empty domains", "1.A.1\t1.A.1.1.1\tP0AE06\t"},
		{"missing coords", "1.A.1\t1.A.1.1.1\tP0AE06\tCDD1"},
		{"non numeric", "1.A.1\t1.A.1.1.1\tP0AE06\tCDD1:a-10"},
		{"start after end", "1.A.1\t1.A.1.1.1\tP0AE06\tCDD1:10-2"},
		{"zero coordinate", "1.A.1\t1.A.1.1.1\tP0AE06\tCDD1:0-10"},
		{"only separators", "1.A.1\t1.A.1.1.1\tP0AE06\t;;"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseCDDRow("test.tsv", 1, tc.line)
			assert.ErrorIs(t, err, model.MalformedRecord)
		})
	}
}

func TestParseCDDRowStartNotBeforeEnd(t *testing.T) {
	_, err := parseCDDRow("test.tsv", 1, "1.A.1\t1.A.1.1.1\tP0AE06\tCDD1:5-5")

	require.Error(t, err)
	assert.ErrorIs(t, err, model.MalformedRecord)
}

func TestParseCDDFileGroupsAcrossRows(t *testing.T) {
	table := "1.A.1\t1.A.1.1.1\tP0AE06\tCDD1:1-10\n" +
		"1.A.1\t1.A.1.1.1\tP0AE06\tCDD2:20-30\n"

	groups, skipped, err := ParseCDDFile(writeTable(t, "fam.tsv", table))

	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Hits, 2)
}

func TestParseCDDFileMissing(t *testing.T) {
	_, _, err := ParseCDDFile("/nonexistent/fam.tsv")
	assert.Error(t, err)
}
