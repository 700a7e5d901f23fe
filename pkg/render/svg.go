// SVG scaffolding shared by the family plots.

package render

import (
	"fmt"
	"io"

	"github.com/beevik/etree"
)

type canvas struct {
	doc  *etree.Document
	root *etree.Element
}

func newCanvas(width, height int) *canvas {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	svg := doc.CreateElement("svg")
	svg.CreateAttr("xmlns", "http://www.w3.org/2000/svg")
	svg.CreateAttr("width", fmt.Sprintf("%d", width))
	svg.CreateAttr("height", fmt.Sprintf("%d", height))
	svg.CreateAttr("viewBox", fmt.Sprintf("0 0 %d %d", width, height))

	bg := svg.CreateElement("rect")
	bg.CreateAttr("width", "100%")
	bg.CreateAttr("height", "100%")
	bg.CreateAttr("fill", "white")

	return &canvas{doc: doc, root: svg}
}

// rect draws a box; hover carries an optional tooltip via a <title> child.
func (c *canvas) rect(x, y, w, h float64, fill string, hover string) {
	r := c.root.CreateElement("rect")
	r.CreateAttr("x", coord(x))
	r.CreateAttr("y", coord(y))
	r.CreateAttr("width", coord(w))
	r.CreateAttr("height", coord(h))
	r.CreateAttr("fill", fill)
	if hover != "" {
		r.CreateElement("title").SetText(hover)
	}
}

func (c *canvas) outlineRect(x, y, w, h float64, stroke string) {
	r := c.root.CreateElement("rect")
	r.CreateAttr("x", coord(x))
	r.CreateAttr("y", coord(y))
	r.CreateAttr("width", coord(w))
	r.CreateAttr("height", coord(h))
	r.CreateAttr("fill", "none")
	r.CreateAttr("stroke", stroke)
}

func (c *canvas) line(x1, y1, x2, y2 float64, stroke string) {
	l := c.root.CreateElement("line")
	l.CreateAttr("x1", coord(x1))
	l.CreateAttr("y1", coord(y1))
	l.CreateAttr("x2", coord(x2))
	l.CreateAttr("y2", coord(y2))
	l.CreateAttr("stroke", stroke)
	l.CreateAttr("stroke-width", "1")
}

func (c *canvas) text(x, y float64, size int, anchor, s string) {
	t := c.root.CreateElement("text")
	t.CreateAttr("x", coord(x))
	t.CreateAttr("y", coord(y))
	t.CreateAttr("font-size", fmt.Sprintf("%d", size))
	t.CreateAttr("font-family", "sans-serif")
	if anchor != "" {
		t.CreateAttr("text-anchor", anchor)
	}
	t.SetText(s)
}

func (c *canvas) writeTo(w io.Writer) error {
	c.doc.Indent(1)
	_, err := c.doc.WriteTo(w)
	return err
}

func coord(f float64) string {
	return fmt.Sprintf("%.1f", f)
}
