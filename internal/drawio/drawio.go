// Package drawio serializes refined detection sets to draw.io XML.
//
// Cells are written in compositing order (ascending layer rank, stable on
// ties, as element.SortForCompositing defines it). draw.io renders cells in
// document order, so the layer ordering carries straight through to
// occlusion; the serializer applies no ordering of its own beyond that.
package drawio

import (
	"encoding/xml"
	"fmt"

	"github.com/diagramlab/diagram-tools-mcp/internal/element"
)

type mxFile struct {
	XMLName xml.Name  `xml:"mxfile"`
	Host    string    `xml:"host,attr"`
	Diagram mxDiagram `xml:"diagram"`
}

type mxDiagram struct {
	ID    string       `xml:"id,attr"`
	Name  string       `xml:"name,attr"`
	Model mxGraphModel `xml:"mxGraphModel"`
}

type mxGraphModel struct {
	PageWidth  int    `xml:"pageWidth,attr"`
	PageHeight int    `xml:"pageHeight,attr"`
	Grid       int    `xml:"grid,attr"`
	Root       mxRoot `xml:"root"`
}

type mxRoot struct {
	Cells []mxCell `xml:"mxCell"`
}

type mxCell struct {
	ID       string      `xml:"id,attr"`
	Value    string      `xml:"value,attr,omitempty"`
	Style    string      `xml:"style,attr,omitempty"`
	Vertex   string      `xml:"vertex,attr,omitempty"`
	Edge     string      `xml:"edge,attr,omitempty"`
	Parent   string      `xml:"parent,attr,omitempty"`
	Geometry *mxGeometry `xml:"mxGeometry,omitempty"`
}

type mxGeometry struct {
	X        *float64  `xml:"x,attr,omitempty"`
	Y        *float64  `xml:"y,attr,omitempty"`
	Width    *float64  `xml:"width,attr,omitempty"`
	Height   *float64  `xml:"height,attr,omitempty"`
	Relative string    `xml:"relative,attr,omitempty"`
	As       string    `xml:"as,attr"`
	Points   []mxPoint `xml:"mxPoint,omitempty"`
}

type mxPoint struct {
	X  float64 `xml:"x,attr"`
	Y  float64 `xml:"y,attr"`
	As string  `xml:"as,attr"`
}

// Export serializes a detection set as a draw.io document sized
// width × height. Elements are written in compositing order.
func Export(set element.DetectionSet, width, height int) ([]byte, error) {
	cells := []mxCell{
		{ID: "0"},
		{ID: "1", Parent: "0"},
	}

	for _, e := range element.SortForCompositing(set.Elements) {
		cells = append(cells, cellFor(e))
	}

	doc := mxFile{
		Host: "diagram-tools-mcp",
		Diagram: mxDiagram{
			ID:   set.SourceImage,
			Name: "Page-1",
			Model: mxGraphModel{
				PageWidth:  width,
				PageHeight: height,
				Grid:       0,
				Root:       mxRoot{Cells: cells},
			},
		},
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal drawio document: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// Merge combines several exported documents into one: cells from every
// document after the first are appended to the first document's root, in
// the order given, skipping each document's structural "0" and "1" cells.
func Merge(docs [][]byte) ([]byte, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents to merge")
	}

	var base mxFile
	if err := xml.Unmarshal(docs[0], &base); err != nil {
		return nil, fmt.Errorf("failed to parse base document: %w", err)
	}

	for i, doc := range docs[1:] {
		var other mxFile
		if err := xml.Unmarshal(doc, &other); err != nil {
			return nil, fmt.Errorf("failed to parse document %d: %w", i+1, err)
		}
		for _, cell := range other.Diagram.Model.Root.Cells {
			if cell.ID == "0" || cell.ID == "1" {
				continue
			}
			base.Diagram.Model.Root.Cells = append(base.Diagram.Model.Root.Cells, cell)
		}
	}

	out, err := xml.MarshalIndent(base, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal merged document: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// cellFor converts one element to its mxCell. Arrows become edges anchored
// at their endpoint metadata when present; everything else becomes a vertex
// at the element's box.
func cellFor(e element.Element) mxCell {
	if e.Category == element.Arrow {
		if cell, ok := arrowCell(e); ok {
			return cell
		}
	}

	x, y := e.Box.X, e.Box.Y
	w, h := e.Box.Width, e.Box.Height
	return mxCell{
		ID:     e.ID,
		Value:  e.Content,
		Style:  styleFor(e),
		Vertex: "1",
		Parent: "1",
		Geometry: &mxGeometry{
			X: &x, Y: &y, Width: &w, Height: &h,
			As: "geometry",
		},
	}
}

func arrowCell(e element.Element) (mxCell, bool) {
	start, ok1 := pointMeta(e.Metadata["start_point"])
	end, ok2 := pointMeta(e.Metadata["end_point"])
	if !ok1 || !ok2 {
		return mxCell{}, false
	}

	return mxCell{
		ID:     e.ID,
		Style:  "edgeStyle=none;html=1;endArrow=classic;",
		Edge:   "1",
		Parent: "1",
		Geometry: &mxGeometry{
			Relative: "1",
			As:       "geometry",
			Points: []mxPoint{
				{X: start[0], Y: start[1], As: "sourcePoint"},
				{X: end[0], Y: end[1], As: "targetPoint"},
			},
		},
	}, true
}

// pointMeta extracts an (x, y) pair from arrow endpoint metadata, accepting
// both the detector's []float64 form and the []any form that survives a
// JSON round trip.
func pointMeta(v any) ([2]float64, bool) {
	switch p := v.(type) {
	case []float64:
		if len(p) == 2 {
			return [2]float64{p[0], p[1]}, true
		}
	case []any:
		if len(p) == 2 {
			x, xok := toFloat(p[0])
			y, yok := toFloat(p[1])
			if xok && yok {
				return [2]float64{x, y}, true
			}
		}
	}
	return [2]float64{}, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func styleFor(e element.Element) string {
	fill, _ := e.Metadata["fill_color"].(string)

	switch e.Category {
	case element.Background:
		if fill == "" {
			fill = "#ffffff"
		}
		return fmt.Sprintf("rounded=0;whiteSpace=wrap;html=1;fillColor=%s;strokeColor=none;", fill)
	case element.Image:
		return "shape=image;html=1;verticalLabelPosition=bottom;verticalAlign=top;"
	case element.Shape:
		style := "rounded=0;whiteSpace=wrap;html=1;"
		if shapeType, _ := e.Metadata["shape_type"].(string); shapeType == "ellipse" || shapeType == "circle" {
			style = "ellipse;whiteSpace=wrap;html=1;"
		}
		if fill != "" {
			style += "fillColor=" + fill + ";"
		}
		return style
	case element.Icon:
		return "rounded=1;whiteSpace=wrap;html=1;dashed=1;"
	case element.Text:
		return "text;html=1;align=center;verticalAlign=middle;"
	case element.Arrow:
		// An arrow without endpoint metadata renders as a vertex placeholder.
		return "rounded=0;whiteSpace=wrap;html=1;dashed=1;"
	default:
		return "rounded=0;whiteSpace=wrap;html=1;"
	}
}

// CellCount returns how many element cells (excluding the two structural
// root cells) a document holds. Used to sanity-check merges.
func CellCount(doc []byte) (int, error) {
	var f mxFile
	if err := xml.Unmarshal(doc, &f); err != nil {
		return 0, fmt.Errorf("failed to parse document: %w", err)
	}
	n := 0
	for _, c := range f.Diagram.Model.Root.Cells {
		if c.ID != "0" && c.ID != "1" {
			n++
		}
	}
	return n, nil
}

// ElementOrder returns the IDs of element cells in document order,
// excluding the two structural root cells.
func ElementOrder(doc []byte) ([]string, error) {
	var f mxFile
	if err := xml.Unmarshal(doc, &f); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	var ids []string
	for _, c := range f.Diagram.Model.Root.Cells {
		if c.ID == "0" || c.ID == "1" {
			continue
		}
		ids = append(ids, c.ID)
	}
	return ids, nil
}
