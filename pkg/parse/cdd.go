package parse

import (
	"strings"

	"github.com/tcdb-tools/domarch/pkg/model"
)

// ParseCDDFile reads a per-family CDD hit table. Each row is
// family<TAB>system<TAB>accession<TAB>domains with the domains column holding
// semicolon-separated ID:START-END tokens; every token becomes one raw hit on
// the row's protein. CDD rows carry no e-value, so hits get 0 (the most
// significant value) and the merge tie-break still works.
func ParseCDDFile(path string) ([]*SystemHits, int, error) {
	return scanFile(path, parseCDDRow)
}

func parseCDDRow(file string, lineNo int, line string) ([]model.RawHit, error) {

	fields := strings.Split(line, "\t")
	if len(fields) < 4 {
		return nil, &model.RecordError{File: file, Line: lineNo,
			Msg: "want family, system, accession and domains columns"}
	}

	fam := strings.TrimSpace(fields[0])
	sysID := strings.TrimSpace(fields[1])
	acc := strings.TrimSpace(fields[2])
	doms := strings.TrimSpace(fields[3])

	if fam == "" || sysID == "" || acc == "" || doms == "" {
		return nil, &model.RecordError{File: file, Line: lineNo, Msg: "empty column"}
	}

	var hits []model.RawHit
	for _, token := range strings.Split(doms, ";") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		id, start, end, err := splitDomainToken(token)
		if err != nil {
			// The whole row is rejected, not just the broken token.
			return nil, &model.RecordError{File: file, Line: lineNo, Msg: err.Error()}
		}

		hits = append(hits, model.RawHit{
			Family:    fam,
			SysID:     sysID,
			Accession: acc,
			DomID:     id,
			Start:     start,
			End:       end,
		})
	}

	if len(hits) == 0 {
		return nil, &model.RecordError{File: file, Line: lineNo, Msg: "no domain tokens"}
	}

	return hits, nil
}
