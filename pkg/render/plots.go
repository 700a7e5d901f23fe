// Per-family SVG plots over the frozen architecture model.

package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/tcdb-tools/domarch/pkg/model"
)

const (
	plotWidth   = 1000
	labelGutter = 150
	rightPad    = 30
	topPad      = 50
	rowHeight   = 30
	trackHeight = 14
	legendStep  = 22
)

// NamedPlot ties an artifact name to its renderer.
type NamedPlot struct {
	Name   string
	Render func(io.Writer, *model.Family) error
}

// FamilyPlots lists the plots a family gets: the standard set, plus the
// round-colored variant when the family was built from rescue data.
func FamilyPlots(fam *model.Family) []NamedPlot {
	plots := []NamedPlot{
		{Name: "general", Render: RenderGeneralPlot},
		{Name: "characteristic", Render: RenderCharacteristicPlot},
		{Name: "architecture", Render: RenderArchitecturePlot},
		{Name: "holes", Render: RenderHolesPlot},
		{Name: "summary", Render: RenderSummaryPlot},
	}
	if fam.Stats != nil && fam.Stats.Rescue != nil {
		plots = append(plots, NamedPlot{Name: "characteristic_rescue", Render: RenderRescuePlot})
	}
	return plots
}

// RenderGeneralPlot draws every system with all of its domains.
func RenderGeneralPlot(w io.Writer, fam *model.Family) error {
	return renderSystemRows(w, fam, fam.FamID+" domain architecture", nil)
}

// RenderCharacteristicPlot draws only the domains that clear the
// characteristic threshold. Needs frozen statistics.
func RenderCharacteristicPlot(w io.Writer, fam *model.Family) error {
	if fam.Stats == nil {
		return fmt.Errorf("family %s has no frozen statistics", fam.FamID)
	}
	char := make(map[string]bool, len(fam.Stats.Characteristic))
	for _, dom := range fam.Stats.Characteristic {
		char[dom] = true
	}
	keep := func(d model.Domain) bool { return char[d.DomID] }
	return renderSystemRows(w, fam, fam.FamID+" characteristic domains", keep)
}

// RenderRescuePlot draws rescued domains that survive the trust filter,
// colored by rescue round.
func RenderRescuePlot(w io.Writer, fam *model.Family) error {
	if fam.Stats == nil || fam.Stats.Rescue == nil {
		return fmt.Errorf("family %s has no rescue statistics", fam.FamID)
	}
	filt := fam.Stats.Rescue

	maxLen := maxSystemLength(fam)
	c := newCanvas(plotWidth, topPad+len(fam.Systems)*rowHeight+2*legendStep+20)
	c.text(labelGutter, 24, 16, "", fam.FamID+" rescued domains by round")

	for i, sys := range fam.Systems {
		y := float64(topPad + i*rowHeight)
		drawBackbone(c, sys, y, maxLen)
		for _, d := range sys.Domains {
			if d.BitScore < filt.MinScore || !filt.Rounds[d.Round] {
				continue
			}
			hover := fmt.Sprintf("%s %d-%d round %d score %.1f", d.DomID, d.Start+1, d.End, d.Round, d.BitScore)
			c.rect(xPos(d.Start, maxLen), y, xSpan(d.Len(), maxLen), trackHeight, roundColor(d.Round), hover)
		}
	}

	legendY := float64(topPad + len(fam.Systems)*rowHeight + 10)
	for i, round := range []int{1, 2, 3} {
		x := float64(labelGutter + i*170)
		c.rect(x, legendY, 12, 12, roundColor(round), "")
		label := fmt.Sprintf("round %d", round)
		if round == 3 {
			label = "round 3+"
		}
		c.text(x+18, legendY+11, 12, "", label)
	}

	return c.writeTo(w)
}

// RenderHolesPlot highlights the retained gaps; domains show as outlines.
func RenderHolesPlot(w io.Writer, fam *model.Family) error {
	maxLen := maxSystemLength(fam)
	colors := colorMap(fam)

	c := newCanvas(plotWidth, topPad+len(fam.Systems)*rowHeight+20)
	c.text(labelGutter, 24, 16, "", fam.FamID+" holes")

	for i, sys := range fam.Systems {
		y := float64(topPad + i*rowHeight)
		drawBackbone(c, sys, y, maxLen)
		for _, h := range sys.Holes {
			hover := fmt.Sprintf("%s %d-%d (%d aa)", h.Label, h.Start, h.End, h.Len())
			c.rect(xPos(h.Start, maxLen), y, xSpan(h.Len(), maxLen), trackHeight, holeFill, hover)
		}
		for _, d := range sys.Domains {
			c.outlineRect(xPos(d.Start, maxLen), y, xSpan(d.Len(), maxLen), trackHeight, colors[d.DomID])
		}
	}

	return c.writeTo(w)
}

// RenderSummaryPlot draws one frequency bar per domain id. Needs frozen
// statistics.
func RenderSummaryPlot(w io.Writer, fam *model.Family) error {
	if fam.Stats == nil {
		return fmt.Errorf("family %s has no frozen statistics", fam.FamID)
	}
	st := fam.Stats

	ids := make([]string, 0, len(st.Counts))
	for dom := range st.Counts {
		ids = append(ids, dom)
	}
	sort.Slice(ids, func(i, j int) bool {
		if st.Counts[ids[i]] != st.Counts[ids[j]] {
			return st.Counts[ids[i]] > st.Counts[ids[j]]
		}
		return ids[i] < ids[j]
	})

	colors := colorMap(fam)
	trackW := float64(plotWidth - labelGutter - rightPad)

	c := newCanvas(plotWidth, topPad+len(ids)*rowHeight+20)
	c.text(labelGutter, 24, 16, "", fmt.Sprintf("%s domain frequency (%d systems)", fam.FamID, st.Total))

	// Threshold marker.
	thresholdX := float64(labelGutter) + st.Threshold*trackW
	c.line(thresholdX, float64(topPad)-8, thresholdX, float64(topPad+len(ids)*rowHeight), "red")

	for i, dom := range ids {
		y := float64(topPad + i*rowHeight)
		ratio := st.Frequency(dom)

		fill := "#BBBBBB"
		if st.IsCharacteristic(dom) {
			fill = colors[dom]
			if fill == "" {
				fill = domainPalette[0]
			}
		}

		c.text(float64(labelGutter)-10, y+trackHeight-2, 12, "end", dom)
		hover := fmt.Sprintf("%d of %d systems (%.0f%%)", st.Counts[dom], st.Total, ratio*100)
		c.rect(float64(labelGutter), y, ratio*trackW, trackHeight, fill, hover)
		c.text(float64(labelGutter)+ratio*trackW+8, y+trackHeight-2, 12, "",
			fmt.Sprintf("%d/%d", st.Counts[dom], st.Total))
	}

	return c.writeTo(w)
}

// RenderArchitecturePlot draws the consensus architecture: the modal domain
// count across systems, each slot at its mean coordinates.
func RenderArchitecturePlot(w io.Writer, fam *model.Family) error {

	group, count := modalSystems(fam)
	colors := colorMap(fam)

	c := newCanvas(plotWidth, topPad+rowHeight+2*legendStep+40)
	title := fmt.Sprintf("%s consensus architecture (%d domains, %d of %d systems)",
		fam.FamID, count, len(group), len(fam.Systems))
	c.text(labelGutter, 24, 16, "", title)

	if len(group) == 0 {
		c.text(labelGutter, float64(topPad+rowHeight), 13, "", "no systems to summarize")
		return c.writeTo(w)
	}

	meanLen := 0.0
	for _, sys := range group {
		meanLen += float64(sys.Length)
	}
	meanLen /= float64(len(group))

	maxLen := int(meanLen)
	if maxLen < 1 {
		maxLen = 1
	}

	y := float64(topPad)
	c.text(float64(labelGutter)-10, y+trackHeight-2, 12, "end", "consensus")
	c.line(float64(labelGutter), y+trackHeight/2, xPos(maxLen, maxLen), y+trackHeight/2, "#888888")

	for slot := 0; slot < count; slot++ {
		meanStart, meanEnd := 0.0, 0.0
		names := make(map[string]int)
		for _, sys := range group {
			d := sys.Domains[slot]
			meanStart += float64(d.Start)
			meanEnd += float64(d.End)
			names[d.DomID]++
		}
		meanStart /= float64(len(group))
		meanEnd /= float64(len(group))
		dom := majorityName(names)

		x := float64(labelGutter) + meanStart*xSpan(1, maxLen)
		span := (meanEnd - meanStart) * xSpan(1, maxLen)
		hover := fmt.Sprintf("%s mean %.0f-%.0f (%d/%d systems)", dom, meanStart+1, meanEnd, names[dom], len(group))
		c.rect(x, y, span, trackHeight, colors[dom], hover)
		c.text(x, y+trackHeight+14, 11, "", dom)
	}

	c.text(float64(labelGutter), float64(topPad+rowHeight+legendStep+10), 12, "",
		fmt.Sprintf("mean length %.0f aa", meanLen))

	return c.writeTo(w)
}

func renderSystemRows(w io.Writer, fam *model.Family, title string, keep func(model.Domain) bool) error {
	maxLen := maxSystemLength(fam)
	colors := colorMap(fam)

	legendIDs := legendOrder(fam, keep)
	legendRows := (len(legendIDs) + 3) / 4

	c := newCanvas(plotWidth, topPad+len(fam.Systems)*rowHeight+legendRows*legendStep+30)
	c.text(labelGutter, 24, 16, "", title)

	for i, sys := range fam.Systems {
		y := float64(topPad + i*rowHeight)
		drawBackbone(c, sys, y, maxLen)
		for _, d := range sys.Domains {
			if keep != nil && !keep(d) {
				continue
			}
			hover := fmt.Sprintf("%s %d-%d evalue %g", d.DomID, d.Start+1, d.End, d.EValue)
			c.rect(xPos(d.Start, maxLen), y, xSpan(d.Len(), maxLen), trackHeight, colors[d.DomID], hover)
		}
	}

	legendY := topPad + len(fam.Systems)*rowHeight + 10
	for i, dom := range legendIDs {
		x := float64(labelGutter + (i%4)*200)
		y := float64(legendY + (i/4)*legendStep)
		c.rect(x, y, 12, 12, colors[dom], "")
		c.text(x+18, y+11, 12, "", dom)
	}

	return c.writeTo(w)
}

func drawBackbone(c *canvas, sys *model.System, y float64, maxLen int) {
	c.text(float64(labelGutter)-10, y+trackHeight-2, 12, "end", sys.Accession)
	mid := y + trackHeight/2
	c.line(float64(labelGutter), mid, xPos(sys.Length, maxLen), mid, "#888888")
}

func maxSystemLength(fam *model.Family) int {
	maxLen := 1
	for _, sys := range fam.Systems {
		if sys.Length > maxLen {
			maxLen = sys.Length
		}
	}
	return maxLen
}

func xPos(pos, maxLen int) float64 {
	return float64(labelGutter) + float64(pos)*xSpan(1, maxLen)
}

func xSpan(residues, maxLen int) float64 {
	return float64(residues) * float64(plotWidth-labelGutter-rightPad) / float64(maxLen)
}

// legendOrder lists domain ids by first appearance, honoring the plot's
// domain filter.
func legendOrder(fam *model.Family, keep func(model.Domain) bool) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, sys := range fam.Systems {
		for _, d := range sys.Domains {
			if keep != nil && !keep(d) {
				continue
			}
			if !seen[d.DomID] {
				seen[d.DomID] = true
				ids = append(ids, d.DomID)
			}
		}
	}
	return ids
}

// modalSystems picks the systems sharing the most common domain count.
// Ties go to the smaller count.
func modalSystems(fam *model.Family) ([]*model.System, int) {
	byCount := make(map[int][]*model.System)
	for _, sys := range fam.Systems {
		n := len(sys.Domains)
		byCount[n] = append(byCount[n], sys)
	}

	best, bestSize := 0, 0
	for n, group := range byCount {
		if len(group) > bestSize || (len(group) == bestSize && n < best) {
			best, bestSize = n, len(group)
		}
	}

	return byCount[best], best
}

func majorityName(names map[string]int) string {
	best, bestN := "", 0
	for name, n := range names {
		if n > bestN || (n == bestN && name < best) {
			best, bestN = name, n
		}
	}
	return best
}
