// CSV export of derived family architectures, column-compatible with the
// historical output so downstream notebooks keep working.

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tcdb-tools/domarch/pkg/model"
)

var csvHeader = []string{"Accession", "Length", "Family", "Subfamily", "Domains", "Separators"}

// WriteFamily emits one row per system. Domains are re-expressed in the
// input's 1-based inclusive coordinates; separators keep 0-based ones.
func WriteFamily(w io.Writer, fam *model.Family) error {

	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, sys := range fam.Systems {
		row := []string{
			sys.Accession,
			strconv.Itoa(sys.Length),
			sys.Family,
			sys.SysID,
			domainList(sys.Domains),
			separatorList(sys.Holes),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func domainList(domains []model.Domain) string {
	parts := make([]string, len(domains))
	for i, d := range domains {
		parts[i] = fmt.Sprintf("('%s', %d, %d, %s)", d.DomID, d.Start+1, d.End, floatRepr(d.EValue))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func separatorList(holes []model.Hole) string {
	parts := make([]string, len(holes))
	for i, h := range holes {
		parts[i] = fmt.Sprintf("('%s', %d, %d)", h.Label, h.Start, h.End)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// floatRepr matches how the historical exporter printed floats: shortest
// form, with integral values keeping a trailing .0.
func floatRepr(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
