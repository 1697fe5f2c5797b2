package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/ifctree/pkg/errors"
	"github.com/matzehuels/ifctree/pkg/ifc"
	"github.com/matzehuels/ifctree/pkg/props"
)

func TestImportModel(t *testing.T) {
	m, err := ImportModel("testdata/office.json")
	if err != nil {
		t.Fatalf("ImportModel: %v", err)
	}
	if m.ID != "office" || m.DisplayName() != "Office Building" {
		t.Errorf("ID=%q name=%q", m.ID, m.DisplayName())
	}
	if len(m.Entities) != 18 {
		t.Errorf("got %d entities, want 18", len(m.Entities))
	}

	var wall *ifc.Entity
	for _, e := range m.Entities {
		if e.Model != "office" {
			t.Fatalf("entity %s not stamped with model ID", e.Handle)
		}
		if e.Handle == 20 {
			wall = e
		}
	}
	if wall == nil {
		t.Fatal("wall #20 missing")
	}
	if wall.Kind != ifc.KindWall {
		t.Errorf("kind %q should be normalized to %q", wall.Kind, ifc.KindWall)
	}
	if name, _ := wall.Name(); name != "Wall-01" {
		t.Errorf("wall name = %v", name)
	}
	if h, ok := wall.Ref("OwnerHistory"); !ok || h != 99 {
		t.Errorf("OwnerHistory = %v, %v", h, ok)
	}
	if v, _ := wall.Attr("Description"); !v.IsNull() {
		t.Errorf("Description should be null, got %+v", v)
	}
}

func TestImportModelDefaultsID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site-b.json")
	doc := `{"entities":[{"handle":1,"kind":"IFCSITE","attributes":[]}]}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	m, err := ImportModel(path)
	if err != nil {
		t.Fatalf("ImportModel: %v", err)
	}
	if m.ID != "site-b" || m.Entities[0].Model != "site-b" {
		t.Errorf("ID = %q, entity model = %q", m.ID, m.Entities[0].Model)
	}
}

func TestReadModelErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed", `{"entities": [`},
		{"missing kind", `{"entities":[{"handle":1}]}`},
		{"duplicate handle", `{"entities":[{"handle":1,"kind":"IFCWALL"},{"handle":1,"kind":"IFCSLAB"}]}`},
		{"unsafe id", `{"id":"../etc","entities":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadModel(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.GetCode(err) == "" {
				t.Errorf("error should carry a code: %v", err)
			}
		})
	}
}

func TestModelRoundTrip(t *testing.T) {
	m, err := ImportModel("testdata/office.json")
	if err != nil {
		t.Fatalf("ImportModel: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteModel(&buf, m); err != nil {
		t.Fatalf("WriteModel: %v", err)
	}
	again, err := ReadModel(&buf)
	if err != nil {
		t.Fatalf("ReadModel: %v", err)
	}
	if diff := cmp.Diff(m, again); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteRows(t *testing.T) {
	row := props.NewRow("Wall-01")
	attrs := props.NewRow("Attributes")
	attrs.Add(props.Field("Class", "IfcWall"))
	row.Add(attrs)
	rows := []*props.Row{row}

	var js bytes.Buffer
	if err := WriteRows(&js, rows, "JSON"); err != nil {
		t.Fatalf("WriteRows json: %v", err)
	}
	if !strings.Contains(js.String(), `"Value": "IfcWall"`) {
		t.Errorf("json output:\n%s", js.String())
	}

	var ys bytes.Buffer
	if err := WriteRows(&ys, rows, FormatYAML); err != nil {
		t.Fatalf("WriteRows yaml: %v", err)
	}
	var decoded []map[string]any
	if err := yaml.Unmarshal(ys.Bytes(), &decoded); err != nil {
		t.Fatalf("yaml output does not parse: %v\n%s", err, ys.String())
	}
	if len(decoded) != 1 || decoded[0]["data"].(map[string]any)["Name"] != "Wall-01" {
		t.Errorf("yaml output:\n%s", ys.String())
	}

	if err := WriteRows(&ys, rows, "xml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("WriteRows xml = %v, want INVALID_FORMAT", err)
	}

	var empty bytes.Buffer
	if err := WriteRows(&empty, nil, FormatJSON); err != nil || strings.TrimSpace(empty.String()) != "[]" {
		t.Errorf("empty rows = %q, %v", empty.String(), err)
	}
}
