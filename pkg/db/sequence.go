package db

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/tcdb-tools/domarch/internal/util"
)

// Defining possible error
var SequenceNotExists = errors.New("sequence folder does not exist")

type NoSequenceError struct {
	Msg string // additional context for the error
}

func (e *NoSequenceError) Error() string {
	return fmt.Sprintf("sequence error: %s", e.Msg)
}

// SequenceDB reads the flat per-family fasta files (tcdb-<family>.faa) that
// supply protein lengths for systems whose hit rows do not embed one.
type SequenceDB struct {
	Dir string
}

func NewSequenceDB(dir string) (*SequenceDB, error) {
	if !util.DirExists(dir) {
		return nil, fmt.Errorf("%w: %s", SequenceNotExists, dir)
	}
	return &SequenceDB{Dir: dir}, nil
}

// FamilyPath returns the fasta file holding a family's sequences.
func (seqdb *SequenceDB) FamilyPath(famID string) string {
	return path.Join(seqdb.Dir, fmt.Sprintf("tcdb-%s.faa", famID))
}

// Lengths scans a family fasta once and maps accession to residue count.
// The accession is the first whitespace-separated token of the header.
func (seqdb *SequenceDB) Lengths(famID string) (map[string]int, error) {

	fasta_file := seqdb.FamilyPath(famID)

	f, err := os.Open(fasta_file)
	if err != nil {
		return nil, &NoSequenceError{Msg: fmt.Sprintf("no sequence file for family %s (%s)", famID, fasta_file)}
	}
	defer f.Close()

	lengths := make(map[string]int)
	current := ""

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ">") {
			acc := headerAccession(line)
			if _, dup := lengths[acc]; acc == "" || dup {
				// Nameless or repeated record: the first one wins.
				current = ""
				continue
			}
			current = acc
			lengths[acc] = 0
			continue
		}

		if current != "" {
			lengths[current] += len(line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", fasta_file, err)
	}

	return lengths, nil
}

func headerAccession(header string) string {
	fields := strings.Fields(strings.TrimPrefix(header, ">"))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
