package parse

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tcdb-tools/domarch/pkg/model"
)

// RescueSuffix is the naming convention for per-family rescue tables.
const RescueSuffix = "_rescuedDomains.tsv"

// FamilyFromRescuePath recovers the family id from a rescue file name.
func FamilyFromRescuePath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), RescueSuffix)
}

// ParseRescueFile reads a per-family rescue table. Each row is one hit:
// family<TAB>system<TAB>accession<TAB>domain<TAB>bitscore<TAB>evalue<TAB>round.
// The system column may embed the protein length as system:length; when
// present it beats the sequence store. Columns past the seventh are ignored.
func ParseRescueFile(path string) ([]*SystemHits, int, error) {
	return scanFile(path, parseRescueRow)
}

func parseRescueRow(file string, lineNo int, line string) ([]model.RawHit, error) {

	fields := strings.Split(line, "\t")
	if len(fields) < 7 {
		return nil, &model.RecordError{File: file, Line: lineNo,
			Msg: fmt.Sprintf("want 7 columns, got %d", len(fields))}
	}

	fam := strings.TrimSpace(fields[0])
	sysField := strings.TrimSpace(fields[1])
	acc := strings.TrimSpace(fields[2])
	domTok := strings.TrimSpace(fields[3])

	if fam == "" || sysField == "" || acc == "" || domTok == "" {
		return nil, &model.RecordError{File: file, Line: lineNo, Msg: "empty column"}
	}

	sysID, length, err := splitSystemField(sysField)
	if err != nil {
		return nil, &model.RecordError{File: file, Line: lineNo, Msg: err.Error()}
	}

	id, start, end, err := splitDomainToken(domTok)
	if err != nil {
		return nil, &model.RecordError{File: file, Line: lineNo, Msg: err.Error()}
	}

	bitscore, err := strconv.ParseFloat(strings.TrimSpace(fields[4]), 64)
	if err != nil {
		return nil, &model.RecordError{File: file, Line: lineNo, Msg: "bad bitscore: " + err.Error()}
	}

	evalue, err := strconv.ParseFloat(strings.TrimSpace(fields[5]), 64)
	if err != nil {
		return nil, &model.RecordError{File: file, Line: lineNo, Msg: "bad evalue: " + err.Error()}
	}

	round, err := strconv.Atoi(strings.TrimSpace(fields[6]))
	if err != nil || round < 0 {
		return nil, &model.RecordError{File: file, Line: lineNo, Msg: "bad rescue round: " + fields[6]}
	}

	return []model.RawHit{{
		Family:    fam,
		SysID:     sysID,
		Accession: acc,
		Length:    length,
		DomID:     id,
		Start:     start,
		End:       end,
		EValue:    evalue,
		BitScore:  bitscore,
		Round:     round,
	}}, nil
}

// splitSystemField handles the optional :length suffix on the system column.
func splitSystemField(field string) (string, int, error) {
	sysID, lenStr, ok := strings.Cut(field, ":")
	if !ok {
		return field, 0, nil
	}
	length, err := strconv.Atoi(lenStr)
	if err != nil || length < 0 {
		return "", 0, fmt.Errorf("system %q: bad embedded length", field)
	}
	return sysID, length, nil
}
