package ifc

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher(t *testing.T) {
	valueAttr := Predicate(func(name string) bool { return strings.Contains(name, "Value") })

	tests := []struct {
		name    string
		matcher Matcher
		attr    string
		want    bool
	}{
		{"exact hit", Exact("Name"), "Name", true},
		{"exact miss", Exact("Name"), "LongName", false},
		{"predicate hit", valueAttr, "NominalValue", true},
		{"predicate miss", valueAttr, "Unit", false},
		{"zero matcher", Matcher{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.matcher.Matches(tt.attr); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.attr, got, tt.want)
			}
		})
	}

	assert.True(t, MatchAny(Exacts("OwnerHistory", "ObjectPlacement"), "ObjectPlacement"))
	assert.False(t, MatchAny(nil, "Name"))

	name, ok := Exact("Name").IsExact()
	assert.True(t, ok)
	assert.Equal(t, "Name", name)
	_, ok = valueAttr.IsExact()
	assert.False(t, ok)
}

func TestEntityAccessors(t *testing.T) {
	e := &Entity{
		Handle: 10,
		Kind:   KindPropertySet,
		Attributes: []Attribute{
			{Name: "OwnerHistory", Value: WeakRef(2)},
			{Name: "Name", Value: Primitive("IFCLABEL", "Pset_WallCommon")},
			{Name: "HasProperties", Value: RefList(11, 12)},
			{Name: "Description", Value: Value{}},
		},
	}

	assert.Equal(t, "Pset_WallCommon", e.Text("Name"))
	assert.Equal(t, []Handle{11, 12}, e.Refs("HasProperties"))

	_, ok := e.Ref("OwnerHistory")
	assert.False(t, ok, "weak references must not resolve")

	v, ok := e.Attr("Description")
	require.True(t, ok)
	assert.True(t, v.IsNull())

	_, ok = e.Scalar("Missing")
	assert.False(t, ok)
}

func TestFormatScalar(t *testing.T) {
	assert.Equal(t, "true", FormatScalar(true))
	assert.Equal(t, "0.25", FormatScalar(0.25))
	assert.Equal(t, "3", FormatScalar(float64(3)))
	assert.Equal(t, "", FormatScalar(nil))
	assert.Equal(t, "#7", Handle(7).String())
}

func TestEntityJSON(t *testing.T) {
	in := `{"handle":5,"kind":"IfcWall","attributes":[
		{"name":"Name","value":{"type":"IFCLABEL","value":"Wall-01"}},
		{"name":"OwnerHistory","value":{"ref":2,"weak":true}},
		{"name":"Tags","value":{"list":[{"ref":7},{"type":"IFCBOOLEAN","value":false}]}},
		{"name":"Description","value":null}
	]}`

	var e Entity
	require.NoError(t, json.Unmarshal([]byte(in), &e))
	assert.Equal(t, KindWall, e.Kind)
	assert.Equal(t, "Wall-01", e.Text("Name"))

	owner, _ := e.Attr("OwnerHistory")
	assert.True(t, owner.Weak)

	tags, _ := e.Attr("Tags")
	require.Len(t, tags.Items, 2)
	assert.Equal(t, false, tags.Items[1].Scalar)

	out, err := json.Marshal(&e)
	require.NoError(t, err)
	var again Entity
	require.NoError(t, json.Unmarshal(out, &again))
	assert.Equal(t, e, again)
}

func TestEntityJSONRejectsMissingHandle(t *testing.T) {
	var e Entity
	err := json.Unmarshal([]byte(`{"kind":"IFCWALL"}`), &e)
	assert.Error(t, err)
}

func TestKindLabel(t *testing.T) {
	assert.Equal(t, "IfcWall", KindWall.Label())
	assert.Equal(t, "IFCNOSUCHTHING", Kind("IFCNOSUCHTHING").Label())

	for _, tc := range []struct {
		kind Kind
		want string
	}{
		{"IFCROOF", "IfcRoof"},
		{"IFCSTAIR", "IfcStair"},
		{"IFCCURTAINWALL", "IfcCurtainWall"},
		{"IFCFURNISHINGELEMENT", "IfcFurnishingElement"},
		{"IFCCOVERING", "IfcCovering"},
		{"IFCFOOTING", "IfcFooting"},
		{"IFCPROCEDURE", "IfcProcedure"},
		{"IFCRELVOIDSELEMENT", "IfcRelVoidsElement"},
	} {
		assert.Equal(t, tc.want, tc.kind.Label(), tc.kind)
	}
}
