package drawio

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/diagramlab/diagram-tools-mcp/internal/element"
	"github.com/diagramlab/diagram-tools-mcp/internal/geometry"
)

func makeElement(t *testing.T, id string, cat element.Category, conf float64) element.Element {
	t.Helper()
	e, err := element.New(id, cat, geometry.Box{X: 10, Y: 10, Width: 100, Height: 50}, conf)
	if err != nil {
		t.Fatalf("New(%s): %v", id, err)
	}
	return e
}

func TestExport_CompositingOrder(t *testing.T) {
	set := element.DetectionSet{SourceImage: "diagram.png"}
	// Deliberately scrambled input: export must emit ascending layer rank.
	set.Add(makeElement(t, "txt1", element.Text, 0.9))
	set.Add(makeElement(t, "arrow1", element.Arrow, 0.8))
	set.Add(makeElement(t, "bg1", element.Background, 1.0))
	set.Add(makeElement(t, "shape1", element.Shape, 0.7))
	set.Add(makeElement(t, "icon1", element.Icon, 0.6))
	set.Add(makeElement(t, "img1", element.Image, 0.5))

	doc, err := Export(set, 800, 600)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	ids, err := ElementOrder(doc)
	if err != nil {
		t.Fatalf("ElementOrder: %v", err)
	}

	want := []string{"bg1", "img1", "shape1", "icon1", "txt1", "arrow1"}
	if len(ids) != len(want) {
		t.Fatalf("got %d cells, want %d", len(ids), len(want))
	}
	for i, id := range want {
		if ids[i] != id {
			t.Errorf("cell %d: got %q, want %q (full order %v)", i, ids[i], id, ids)
		}
	}
}

func TestExport_StructuralCells(t *testing.T) {
	set := element.DetectionSet{SourceImage: "empty.png"}

	doc, err := Export(set, 400, 300)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var f mxFile
	if err := xml.Unmarshal(doc, &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	cells := f.Diagram.Model.Root.Cells
	if len(cells) != 2 {
		t.Fatalf("empty set should export only structural cells, got %d", len(cells))
	}
	if cells[0].ID != "0" || cells[1].ID != "1" {
		t.Errorf("structural cells = %q, %q; want \"0\", \"1\"", cells[0].ID, cells[1].ID)
	}
	if cells[1].Parent != "0" {
		t.Errorf("cell 1 parent = %q, want \"0\"", cells[1].Parent)
	}
	if f.Diagram.Model.PageWidth != 400 || f.Diagram.Model.PageHeight != 300 {
		t.Errorf("page size = %dx%d, want 400x300",
			f.Diagram.Model.PageWidth, f.Diagram.Model.PageHeight)
	}
	if f.Diagram.ID != "empty.png" {
		t.Errorf("diagram id = %q, want source image path", f.Diagram.ID)
	}
}

func TestExport_VertexGeometryAndContent(t *testing.T) {
	e := makeElement(t, "shape1", element.Shape, 0.8)
	e.Content = "Start"
	e.Metadata = element.Metadata{"fill_color": "#ff0000", "shape_type": "rectangle"}

	set := element.DetectionSet{SourceImage: "one.png"}
	set.Add(e)

	doc, err := Export(set, 800, 600)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var f mxFile
	if err := xml.Unmarshal(doc, &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	cell := f.Diagram.Model.Root.Cells[2]
	if cell.Vertex != "1" {
		t.Errorf("shape should be a vertex, got vertex=%q edge=%q", cell.Vertex, cell.Edge)
	}
	if cell.Value != "Start" {
		t.Errorf("value = %q, want %q", cell.Value, "Start")
	}
	if !strings.Contains(cell.Style, "fillColor=#ff0000") {
		t.Errorf("style %q missing fill color", cell.Style)
	}
	g := cell.Geometry
	if g == nil {
		t.Fatal("vertex cell has no geometry")
	}
	if *g.X != 10 || *g.Y != 10 || *g.Width != 100 || *g.Height != 50 {
		t.Errorf("geometry = (%v,%v,%v,%v), want (10,10,100,50)", *g.X, *g.Y, *g.Width, *g.Height)
	}
}

func TestExport_ArrowWithEndpointsBecomesEdge(t *testing.T) {
	e := makeElement(t, "arrow1", element.Arrow, 0.9)
	e.Metadata = element.Metadata{
		"start_point": []float64{10, 35},
		"end_point":   []float64{110, 35},
	}

	set := element.DetectionSet{SourceImage: "arrow.png"}
	set.Add(e)

	doc, err := Export(set, 800, 600)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var f mxFile
	if err := xml.Unmarshal(doc, &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	cell := f.Diagram.Model.Root.Cells[2]
	if cell.Edge != "1" {
		t.Fatalf("arrow with endpoints should be an edge, got vertex=%q edge=%q", cell.Vertex, cell.Edge)
	}
	if cell.Geometry == nil || len(cell.Geometry.Points) != 2 {
		t.Fatal("edge geometry missing source/target points")
	}
	src, dst := cell.Geometry.Points[0], cell.Geometry.Points[1]
	if src.As != "sourcePoint" || dst.As != "targetPoint" {
		t.Errorf("point roles = %q, %q", src.As, dst.As)
	}
	if src.X != 10 || src.Y != 35 || dst.X != 110 || dst.Y != 35 {
		t.Errorf("endpoints = (%v,%v)->(%v,%v), want (10,35)->(110,35)", src.X, src.Y, dst.X, dst.Y)
	}
}

func TestExport_ArrowWithoutEndpointsFallsBackToVertex(t *testing.T) {
	set := element.DetectionSet{SourceImage: "arrow.png"}
	set.Add(makeElement(t, "arrow1", element.Arrow, 0.9))

	doc, err := Export(set, 800, 600)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var f mxFile
	if err := xml.Unmarshal(doc, &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	cell := f.Diagram.Model.Root.Cells[2]
	if cell.Vertex != "1" {
		t.Errorf("arrow without endpoint metadata should fall back to a vertex")
	}
}

func TestMerge(t *testing.T) {
	setA := element.DetectionSet{SourceImage: "a.png"}
	setA.Add(makeElement(t, "a-shape", element.Shape, 0.8))
	setB := element.DetectionSet{SourceImage: "b.png"}
	setB.Add(makeElement(t, "b-shape", element.Shape, 0.7))
	setB.Add(makeElement(t, "b-text", element.Text, 0.9))

	docA, err := Export(setA, 800, 600)
	if err != nil {
		t.Fatalf("Export a: %v", err)
	}
	docB, err := Export(setB, 800, 600)
	if err != nil {
		t.Fatalf("Export b: %v", err)
	}

	merged, err := Merge([][]byte{docA, docB})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	n, err := CellCount(merged)
	if err != nil {
		t.Fatalf("CellCount: %v", err)
	}
	if n != 3 {
		t.Errorf("merged cell count = %d, want 3", n)
	}

	ids, err := ElementOrder(merged)
	if err != nil {
		t.Fatalf("ElementOrder: %v", err)
	}
	want := []string{"a-shape", "b-shape", "b-text"}
	for i, id := range want {
		if ids[i] != id {
			t.Errorf("merged cell %d: got %q, want %q", i, ids[i], id)
		}
	}

	// Structural cells must not be duplicated.
	var f mxFile
	if err := xml.Unmarshal(merged, &f); err != nil {
		t.Fatalf("unmarshal merged: %v", err)
	}
	structural := 0
	for _, c := range f.Diagram.Model.Root.Cells {
		if c.ID == "0" || c.ID == "1" {
			structural++
		}
	}
	if structural != 2 {
		t.Errorf("merged document has %d structural cells, want 2", structural)
	}
}

func TestMerge_Errors(t *testing.T) {
	if _, err := Merge(nil); err == nil {
		t.Error("expected error for empty document list")
	}
	if _, err := Merge([][]byte{[]byte("<not-valid")}); err == nil {
		t.Error("expected error for malformed base document")
	}
}

func TestPointMeta_JSONRoundTripForm(t *testing.T) {
	// Metadata that crossed a JSON boundary carries []any of float64.
	p, ok := pointMeta([]any{float64(3), float64(4)})
	if !ok {
		t.Fatal("pointMeta rejected []any form")
	}
	if p[0] != 3 || p[1] != 4 {
		t.Errorf("pointMeta = %v, want [3 4]", p)
	}

	if _, ok := pointMeta("not a point"); ok {
		t.Error("pointMeta accepted a string")
	}
	if _, ok := pointMeta([]float64{1}); ok {
		t.Error("pointMeta accepted a one-element slice")
	}
}
