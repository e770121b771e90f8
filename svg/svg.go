// Package svg writes polylines and circles as SVG documents sized for pen
// plotting. This is a thin serialization adapter: geometry comes in as
// finished path values and goes out as stroked, unfilled vector paths.
package svg

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/etree"

	"github.com/pthm-cable/flowplot/path"
)

const xmlns = "http://www.w3.org/2000/svg"

// Circle is an (x, y, radius) mark.
type Circle struct {
	X, Y, R float64
}

// Exporter holds the shared document attributes for one output style.
type Exporter struct {
	Width       int
	Height      int
	StrokeWidth float64
	StrokeColor string
	Background  string // Empty = transparent
}

// NewExporter returns an exporter with plotter-friendly defaults: thin black
// strokes on a white background.
func NewExporter(width, height int) *Exporter {
	return &Exporter{
		Width:       width,
		Height:      height,
		StrokeWidth: 0.5,
		StrokeColor: "black",
		Background:  "white",
	}
}

// ExportLines writes lines to w as one SVG document. Lines with fewer than
// two points carry no ink and are dropped. With border set, a canvas-sized
// frame rect is drawn at double stroke width.
func (e *Exporter) ExportLines(w io.Writer, lines []path.Polyline, border bool) error {
	doc, root := e.document()
	if border {
		e.addBorder(root)
	}
	for _, line := range lines {
		e.addPath(root, line)
	}
	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}

// ExportCircles writes circles to w as one SVG document.
func (e *Exporter) ExportCircles(w io.Writer, circles []Circle, filled bool) error {
	doc, root := e.document()
	for _, c := range circles {
		e.addCircle(root, c, filled)
	}
	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}

// ExportMixed writes lines and circles together to w.
func (e *Exporter) ExportMixed(w io.Writer, lines []path.Polyline, circles []Circle, border bool) error {
	doc, root := e.document()
	if border {
		e.addBorder(root)
	}
	for _, line := range lines {
		e.addPath(root, line)
	}
	for _, c := range circles {
		e.addCircle(root, c, false)
	}
	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}

// WriteLinesFile is ExportLines to a file path.
func (e *Exporter) WriteLinesFile(filename string, lines []path.Polyline, border bool) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}
	if err := e.ExportLines(f, lines, border); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	return f.Close()
}

// document builds the SVG root with viewport sizing and optional background.
func (e *Exporter) document() (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("svg")
	root.CreateAttr("xmlns", xmlns)
	root.CreateAttr("width", fmt.Sprintf("%dpx", e.Width))
	root.CreateAttr("height", fmt.Sprintf("%dpx", e.Height))
	root.CreateAttr("viewBox", fmt.Sprintf("0 0 %d %d", e.Width, e.Height))

	if e.Background != "" {
		bg := root.CreateElement("rect")
		bg.CreateAttr("x", "0")
		bg.CreateAttr("y", "0")
		bg.CreateAttr("width", fmt.Sprintf("%d", e.Width))
		bg.CreateAttr("height", fmt.Sprintf("%d", e.Height))
		bg.CreateAttr("fill", e.Background)
	}

	return doc, root
}

func (e *Exporter) addBorder(root *etree.Element) {
	border := root.CreateElement("rect")
	border.CreateAttr("x", "0")
	border.CreateAttr("y", "0")
	border.CreateAttr("width", fmt.Sprintf("%d", e.Width))
	border.CreateAttr("height", fmt.Sprintf("%d", e.Height))
	border.CreateAttr("fill", "none")
	border.CreateAttr("stroke", e.StrokeColor)
	border.CreateAttr("stroke-width", formatFloat(e.StrokeWidth*2))
}

func (e *Exporter) addPath(root *etree.Element, line path.Polyline) {
	if len(line) < 2 {
		return
	}
	p := root.CreateElement("path")
	p.CreateAttr("d", pathData(line))
	p.CreateAttr("stroke", e.StrokeColor)
	p.CreateAttr("stroke-width", formatFloat(e.StrokeWidth))
	p.CreateAttr("fill", "none")
	p.CreateAttr("stroke-linecap", "round")
	p.CreateAttr("stroke-linejoin", "round")
}

func (e *Exporter) addCircle(root *etree.Element, c Circle, filled bool) {
	el := root.CreateElement("circle")
	el.CreateAttr("cx", formatFloat(c.X))
	el.CreateAttr("cy", formatFloat(c.Y))
	el.CreateAttr("r", formatFloat(c.R))
	el.CreateAttr("stroke", e.StrokeColor)
	el.CreateAttr("stroke-width", formatFloat(e.StrokeWidth))
	if filled {
		el.CreateAttr("fill", e.StrokeColor)
	} else {
		el.CreateAttr("fill", "none")
	}
}

// pathData renders a polyline as "M x,y L x,y ..." with two decimal places,
// enough for sub-millimeter pen accuracy at typical canvas scales.
func pathData(line path.Polyline) string {
	var b strings.Builder
	fmt.Fprintf(&b, "M %.2f,%.2f", line[0].X, line[0].Y)
	for _, pt := range line[1:] {
		fmt.Fprintf(&b, " L %.2f,%.2f", pt.X, pt.Y)
	}
	return b.String()
}

func formatFloat(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
