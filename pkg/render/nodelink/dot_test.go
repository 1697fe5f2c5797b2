package nodelink

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/ifctree/pkg/props"
)

func sampleRows() []*props.Row {
	wall := props.NewRow("Wall-01")
	attrs := props.NewRow("Attributes")
	attrs.Add(props.Field("Class", "IfcWall"), props.Field("Tag", "W1"))
	psets := props.NewRow("PropertySets")
	common := props.NewRow("Pset_WallCommon")
	common.Add(props.Field("Width", "0.30 m"))
	psets.Add(common)
	wall.Add(attrs, psets)
	return []*props.Row{wall}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleRows(), Options{})

	for _, want := range []string{
		"digraph G {",
		`n0 [label="Wall-01", fillcolor="#dbe8f5", fontsize=14];`,
		`n1 [label="Attributes", fillcolor="#eeeeee"];`,
		"n0 -> n1;",
		`label="Class: IfcWall"`,
		`label="Width: 0.30 m"`,
		"n4 -> n5;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTMaxDepth(t *testing.T) {
	dot := ToDOT(sampleRows(), Options{MaxDepth: 1})
	if strings.Contains(dot, "Class: IfcWall") {
		t.Errorf("depth 1 should stop at group rows:\n%s", dot)
	}
	if !strings.Contains(dot, `label="PropertySets"`) {
		t.Errorf("depth 1 should include group rows:\n%s", dot)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("Qto_WallBaseQuantities", 8); got != "Qto_Wal…" {
		t.Errorf("truncate long = %q", got)
	}
}

func TestLabelFallsBackToEntity(t *testing.T) {
	r := &props.Row{Data: map[string]any{props.KeyEntity: "IfcWall"}}
	if got := label(r); got != "IfcWall" {
		t.Errorf("label = %q", got)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := Render(context.Background(), sampleRows(), FormatSVG, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("Wall-01")) {
		t.Errorf("unexpected SVG output: %.200s", svg)
	}
}

func TestRenderDOTAndUnsupported(t *testing.T) {
	ctx := context.Background()
	dot, err := Render(ctx, sampleRows(), "DOT", Options{})
	if err != nil || !bytes.HasPrefix(dot, []byte("digraph")) {
		t.Errorf("Render dot = %.40s, %v", dot, err)
	}
	if _, err := Render(ctx, sampleRows(), "pdf", Options{}); err == nil {
		t.Error("pdf should be unsupported")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.50 200.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.50 200.00" width="100" height="200"`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
}
