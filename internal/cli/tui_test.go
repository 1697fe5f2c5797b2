package cli

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/ifctree/pkg/props"
	"github.com/matzehuels/ifctree/pkg/store"
)

func browserRows() []*props.Row {
	wall := props.NewRow("Wall-01")
	attrs := props.NewRow("Attributes")
	attrs.Add(props.Field("Class", "IfcWall"))
	psets := props.NewRow("PropertySets")
	common := props.NewRow("Pset_WallCommon")
	common.Add(props.Field("IsExternal", true))
	psets.Add(common)
	wall.Add(attrs, psets)
	return []*props.Row{wall, props.NewRow("Window-01")}
}

func press(m RowBrowserModel, keys ...tea.KeyMsg) RowBrowserModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(RowBrowserModel)
	}
	return m
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestRowBrowserInitialState(t *testing.T) {
	m := NewRowBrowserModel("test", browserRows())
	// Roots expanded one level: Wall-01, Attributes, PropertySets, Window-01.
	assert.Equal(t, 4, m.Visible())
	assert.Equal(t, "Wall-01", m.Current().Name())
}

func TestRowBrowserNavigation(t *testing.T) {
	m := NewRowBrowserModel("test", browserRows())

	m = press(m, keyDown, keyDown)
	assert.Equal(t, "PropertySets", m.Current().Name())

	m = press(m, keyEnter)
	assert.Equal(t, 5, m.Visible(), "enter expands PropertySets")

	m = press(m, keyDown, keyRight)
	assert.Equal(t, "Pset_WallCommon", m.Current().Name())
	assert.Equal(t, 6, m.Visible())

	// Left on an expanded row collapses it, a second left moves to the parent.
	m = press(m, keyLeft)
	assert.Equal(t, 5, m.Visible())
	m = press(m, keyLeft)
	assert.Equal(t, "PropertySets", m.Current().Name())

	m = press(m, keyUp, keyUp, keyUp)
	assert.Equal(t, "Wall-01", m.Current().Name(), "cursor stops at the top")
}

func TestRowBrowserExpandCollapseAll(t *testing.T) {
	m := NewRowBrowserModel("test", browserRows())

	m = press(m, runeKey("E"))
	assert.Equal(t, 7, m.Visible())

	m = press(m, runeKey("j"), runeKey("j"), runeKey("C"))
	assert.Equal(t, 2, m.Visible())
	assert.Equal(t, 0, m.Cursor)
}

func TestRowBrowserCollapseKeepsCursorInRange(t *testing.T) {
	m := NewRowBrowserModel("test", browserRows())
	m = press(m, runeKey("E"))
	for i := 0; i < 10; i++ {
		m = press(m, keyDown)
	}
	assert.Equal(t, "Window-01", m.Current().Name())

	m = press(m, runeKey("C"))
	require.NotNil(t, m.Current())
}

func TestRowBrowserScrolls(t *testing.T) {
	m := NewRowBrowserModel("test", browserRows())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 8})
	m = next.(RowBrowserModel)
	require.Equal(t, 5, m.Height, "height never drops below five lines")

	m = press(m, runeKey("E"))
	for i := 0; i < 7; i++ {
		m = press(m, keyDown)
	}
	assert.Equal(t, 2, m.Offset)

	view := m.View()
	assert.Contains(t, view, "Window-01")
	assert.NotContains(t, view, "Wall-01\n", "the first line has scrolled away")
	assert.Contains(t, view, "[7/7]")
}

func TestRowBrowserQuit(t *testing.T) {
	m := NewRowBrowserModel("test", browserRows())
	_, cmd := m.Update(runeKey("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestRowBrowserView(t *testing.T) {
	view := NewRowBrowserModel("office · 2 elements", browserRows()).View()
	assert.Contains(t, view, "office · 2 elements")
	assert.Contains(t, view, "- Wall-01")
	assert.Contains(t, view, "+ PropertySets")
	assert.Contains(t, view, "Window-01")
}

func TestModelsTable(t *testing.T) {
	out := modelsTable([]store.ModelInfo{{ID: "office", Name: "Office Building", Entities: 18}})
	for _, want := range []string{"ID", "Entities", "office", "Office Building", "18"} {
		assert.Contains(t, out, want)
	}
}

func TestWriteRowsTree(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRows(&buf, browserRows(), "TREE"))
	out := buf.String()

	assert.Contains(t, out, "Wall-01")
	assert.Contains(t, out, "Class: IfcWall")
	assert.Contains(t, out, "IsExternal: true")
	assert.Less(t, strings.Index(out, "Attributes"), strings.Index(out, "PropertySets"))
}

func TestRowLabel(t *testing.T) {
	r := &props.Row{Data: map[string]any{
		props.KeyEntity: "IfcWall",
		props.KeyName:   "Wall-01",
		props.KeyHandle: uint32(20),
		props.KeyModel:  "office",
		"GlobalId":      "2O2Fr$t4X7Zf8NOew3FLOH",
	}}
	assert.Equal(t, "IfcWall Wall-01 GlobalId=2O2Fr$t4X7Zf8NOew3FLOH #20", rowLabel(r))
	assert.Equal(t, "(unnamed)", rowLabel(&props.Row{Data: map[string]any{}}))
}
