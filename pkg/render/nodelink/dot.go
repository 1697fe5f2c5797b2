package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/ifctree/pkg/ifc"
	"github.com/matzehuels/ifctree/pkg/props"
)

// Output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Formats lists the supported output formats.
var Formats = []string{FormatDOT, FormatSVG, FormatPNG}

// Options configures diagram generation.
type Options struct {
	// MaxDepth limits how many levels below each root are drawn. Zero draws
	// the whole tree.
	MaxDepth int
	// MaxLabel truncates labels longer than this many runes. Defaults to 48.
	MaxLabel int
}

const defaultMaxLabel = 48

// ToDOT converts materialized rows to Graphviz DOT source. Each row becomes a
// box; group rows are filled, leaf rows show "Name: Value".
func ToDOT(rows []*props.Row, opts Options) string {
	if opts.MaxLabel <= 0 {
		opts.MaxLabel = defaultMaxLabel
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.15;\n")
	buf.WriteString("\n")

	w := &dotWriter{buf: &buf, opts: opts}
	for _, r := range rows {
		w.node(r, "", 0)
	}

	buf.WriteString("}\n")
	return buf.String()
}

type dotWriter struct {
	buf  *bytes.Buffer
	opts Options
	next int
}

func (w *dotWriter) node(r *props.Row, parent string, depth int) {
	id := "n" + strconv.Itoa(w.next)
	w.next++

	attrs := []string{fmt.Sprintf("label=%q", truncate(label(r), w.opts.MaxLabel))}
	switch {
	case depth == 0:
		attrs = append(attrs, "fillcolor=\"#dbe8f5\"", "fontsize=14")
	case r.HasChildren():
		attrs = append(attrs, "fillcolor=\"#eeeeee\"")
	}
	fmt.Fprintf(w.buf, "  %s [%s];\n", id, strings.Join(attrs, ", "))
	if parent != "" {
		fmt.Fprintf(w.buf, "  %s -> %s;\n", parent, id)
	}

	if w.opts.MaxDepth > 0 && depth >= w.opts.MaxDepth {
		return
	}
	for _, c := range r.Children {
		w.node(c, id, depth+1)
	}
}

func label(r *props.Row) string {
	name := r.Name()
	if name == "" {
		name = ifc.FormatScalar(r.Data[props.KeyEntity])
	}
	if v, ok := r.Value(); ok {
		return name + ": " + strings.TrimSpace(ifc.FormatScalar(v))
	}
	return name
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

// Render renders rows in the given format.
func Render(ctx context.Context, rows []*props.Row, format string, opts Options) ([]byte, error) {
	dot := ToDOT(rows, opts)
	switch strings.ToLower(format) {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return RenderSVG(ctx, dot)
	case FormatPNG:
		return RenderPNG(ctx, dot)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
