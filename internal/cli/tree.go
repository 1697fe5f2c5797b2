package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss/tree"

	"github.com/matzehuels/ifctree/pkg/ifc"
	ifcio "github.com/matzehuels/ifctree/pkg/io"
	"github.com/matzehuels/ifctree/pkg/props"
)

// formatTree prints rows as an indented terminal tree.
const formatTree = "tree"

// outputFormats are the --format values of the table commands.
var outputFormats = append([]string{formatTree}, ifcio.RowFormats...)

// writeRows writes rows to w as a tree, JSON or YAML.
func writeRows(w io.Writer, rows []*props.Row, format string) error {
	if !strings.EqualFold(format, formatTree) {
		return ifcio.WriteRows(w, rows, format)
	}
	for _, r := range rows {
		if _, err := fmt.Fprintln(w, rowTree(r).String()); err != nil {
			return err
		}
	}
	return nil
}

// rowTree converts a row and its children to a lipgloss tree.
func rowTree(r *props.Row) *tree.Tree {
	t := tree.Root(rowLabel(r)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(StyleDim).
		RootStyle(StyleTitle)
	for _, c := range r.Children {
		if c.HasChildren() {
			t.Child(rowTree(c).RootStyle(StyleValue))
			continue
		}
		t.Child(rowLabel(c))
	}
	return t
}

// labelKeys are the data keys rowLabel places itself.
var labelKeys = map[string]bool{
	props.KeyName:      true,
	props.KeyValue:     true,
	props.KeyEntity:    true,
	props.KeyHandle:    true,
	props.KeyModel:     true,
	props.KeyRelations: true,
}

// extraKeys returns the remaining data keys of r in sorted order. Attribute
// explorer rows carry their primitive attributes this way.
func extraKeys(r *props.Row) []string {
	var keys []string
	for k := range r.Data {
		if !labelKeys[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// rowLabel renders one row as "Entity Name: Value key=value #handle",
// leaving out the parts the row does not carry.
func rowLabel(r *props.Row) string {
	var parts []string
	if e := ifc.FormatScalar(r.Data[props.KeyEntity]); e != "" {
		parts = append(parts, StyleDim.Render(e))
	}
	name := r.Name()
	if v, ok := r.Value(); ok {
		name += ": " + StyleHighlight.Render(strings.TrimSpace(ifc.FormatScalar(v)))
	}
	if name != "" {
		parts = append(parts, name)
	}
	for _, k := range extraKeys(r) {
		parts = append(parts, StyleDim.Render(k+"=")+ifc.FormatScalar(r.Data[k]))
	}
	if h, ok := r.Data[props.KeyHandle]; ok {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("#%v", h)))
	}
	if len(parts) == 0 {
		return StyleDim.Render("(unnamed)")
	}
	return strings.Join(parts, " ")
}
