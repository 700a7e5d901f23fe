package render

import "github.com/tcdb-tools/domarch/pkg/model"

// domainPalette cycles when a family carries more ids than colors.
var domainPalette = []string{
	"#1F77B4", "#FF7F0E", "#2CA02C", "#D62728", "#9467BD",
	"#8C564B", "#E377C2", "#7F7F7F", "#BCBD22", "#17BECF",
}

const holeFill = "#D3D3D3"

// roundColor is the trust color of a rescue round: round 1 green, round 2
// orange, everything later red.
func roundColor(round int) string {
	switch round {
	case 1:
		return "green"
	case 2:
		return "orange"
	default:
		return "red"
	}
}

// colorMap assigns palette colors to domain ids by first appearance across
// the family, so a domain keeps its color in every plot of the family.
func colorMap(fam *model.Family) map[string]string {
	colors := make(map[string]string)
	next := 0
	for _, sys := range fam.Systems {
		for _, d := range sys.Domains {
			if _, ok := colors[d.DomID]; ok {
				continue
			}
			colors[d.DomID] = domainPalette[next%len(domainPalette)]
			next++
		}
	}
	return colors
}
