package model

// Boundary markers used in hole labels.
const (
	BeginMarker = "BEGIN"
	EndMarker   = "END"
)

// RawHit is one domain call straight out of an input file, already converted
// to 0-based half-open coordinates. Raw hits only live between the parser and
// the merger.
type RawHit struct {
	Family    string
	SysID     string
	Accession string
	Length    int // 0 when the row carries no length
	DomID     string
	Start     int
	End       int
	EValue    float64
	BitScore  float64
	Round     int // rescue round, 0 for direct hits
}

// Domain is one resolved region [Start, End) of a protein. Final per-protein
// lists are sorted by start and pairwise non-overlapping.
type Domain struct {
	DomID    string  `json:"dom_id"`
	Start    int     `json:"start"`
	End      int     `json:"end"`
	EValue   float64 `json:"evalue"`
	BitScore float64 `json:"bitscore,omitempty"`
	Round    int     `json:"rescue_round,omitempty"`
}

func (d Domain) Len() int {
	return d.End - d.Start
}

// Hole is a gap between consecutive domains, or between a protein boundary
// and its nearest domain. Label reads "LEFT to RIGHT" with BEGIN/END standing
// in at the boundaries.
type Hole struct {
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

func (h Hole) Len() int {
	return h.End - h.Start
}

// System is one protein record: its accession, length and derived
// architecture. Immutable once assembled by BuildSystem.
type System struct {
	Accession string   `json:"accession"`
	SysID     string   `json:"sys_id"`
	Family    string   `json:"fam_id"`
	Length    int      `json:"length"`
	Domains   []Domain `json:"domains"`
	Holes     []Hole   `json:"holes"`
	// Residues not covered by any domain, counting gaps the hole threshold
	// suppressed from Holes.
	Uncovered int `json:"uncovered"`
}

// RescueFilter is the trust policy applied to rescued hits before counting.
type RescueFilter struct {
	MinScore float64      `json:"min_score"`
	Rounds   map[int]bool `json:"rounds"`
}

// FamilyStats is the frozen outcome of aggregation.
type FamilyStats struct {
	Total          int            `json:"total_systems"`
	Counts         map[string]int `json:"domain_counts"`
	Threshold      float64        `json:"threshold"`
	Characteristic []string       `json:"characteristic"` // sorted dom ids
	Rescue         *RescueFilter  `json:"rescue,omitempty"`
}

// Frequency returns the share of systems carrying domID.
func (st *FamilyStats) Frequency(domID string) float64 {
	if st.Total == 0 {
		return 0
	}
	return float64(st.Counts[domID]) / float64(st.Total)
}

func (st *FamilyStats) IsCharacteristic(domID string) bool {
	for _, d := range st.Characteristic {
		if d == domID {
			return true
		}
	}
	return false
}

// Family groups the systems sharing a family id. Systems keep input order.
// Stats stays nil until Aggregate or AggregateRescue freezes it.
type Family struct {
	FamID   string       `json:"fam_id"`
	Systems []*System    `json:"systems"`
	Stats   *FamilyStats `json:"stats,omitempty"`
}

func NewFamily(famID string) *Family {
	return &Family{FamID: famID}
}

// Append adds one fully built system. Call before aggregation only.
func (f *Family) Append(sys *System) {
	f.Systems = append(f.Systems, sys)
}
