// Parsers for the flat hit tables produced by the upstream domain searches.
// Rows that cannot be read are skipped and logged, never fatal for the file.

package parse

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tcdb-tools/domarch/logger"
	"github.com/tcdb-tools/domarch/pkg/model"
)

// SystemHits groups the raw hits of one protein, in file order.
type SystemHits struct {
	Family    string
	SysID     string
	Accession string
	Length    int // length embedded in the file, 0 when absent
	Hits      []model.RawHit
}

// grouper buckets hits per protein while keeping first-seen order.
type grouper struct {
	order []*SystemHits
	byKey map[string]*SystemHits
}

func newGrouper() *grouper {
	return &grouper{byKey: make(map[string]*SystemHits)}
}

func (g *grouper) add(h model.RawHit) {
	key := h.Family + "|" + h.SysID + "|" + h.Accession
	sys, ok := g.byKey[key]
	if !ok {
		sys = &SystemHits{
			Family:    h.Family,
			SysID:     h.SysID,
			Accession: h.Accession,
		}
		g.byKey[key] = sys
		g.order = append(g.order, sys)
	}
	if sys.Length == 0 && h.Length > 0 {
		sys.Length = h.Length
	}
	sys.Hits = append(sys.Hits, h)
}

// rowFunc turns one data line into raw hits. A nil error with no hits is not
// allowed; malformed lines come back as *model.RecordError.
type rowFunc func(file string, lineNo int, line string) ([]model.RawHit, error)

// scanFile drives a row parser over a TSV file, skipping blank lines and
// `#` comments. Returns the grouped hits and the number of skipped rows.
func scanFile(path string, row rowFunc) ([]*SystemHits, int, error) {

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open hit table: %w", err)
	}
	defer f.Close()

	groups := newGrouper()
	skipped := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		hits, err := row(path, lineNo, line)
		if err != nil {
			skipped++
			logger.Warn("Skipping malformed record", zap.Error(err))
			continue
		}
		for _, h := range hits {
			groups.add(h)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, skipped, fmt.Errorf("read hit table %s: %w", path, err)
	}

	return groups.order, skipped, nil
}

// splitDomainToken takes one `ID:START-END` token (1-based, inclusive) and
// returns the id with 0-based half-open coordinates.
func splitDomainToken(token string) (string, int, int, error) {

	id, coords, ok := strings.Cut(token, ":")
	if !ok || id == "" {
		return "", 0, 0, fmt.Errorf("domain token %q: want ID:START-END", token)
	}

	first, second, ok := strings.Cut(coords, "-")
	if !ok {
		return "", 0, 0, fmt.Errorf("domain token %q: want ID:START-END", token)
	}

	fileStart, err := strconv.Atoi(first)
	if err != nil {
		return "", 0, 0, fmt.Errorf("domain token %q: bad start: %v", token, err)
	}
	fileEnd, err := strconv.Atoi(second)
	if err != nil {
		return "", 0, 0, fmt.Errorf("domain token %q: bad end: %v", token, err)
	}

	if fileStart < 1 || fileEnd < 1 {
		return "", 0, 0, fmt.Errorf("domain token %q: coordinates are 1-based", token)
	}
	if fileStart >= fileEnd {
		return "", 0, 0, fmt.Errorf("domain token %q: start not before end", token)
	}

	return id, fileStart - 1, fileEnd, nil
}
