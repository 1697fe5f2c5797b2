package props

import (
	"context"
	"strconv"
	"strings"

	"github.com/matzehuels/ifctree/pkg/ifc"
)

// valueAttribute selects the attribute holding a property's value:
// NominalValue, EnumerationValues, LengthValue, AreaValue and so on.
var valueAttribute = ifc.Predicate(func(name string) bool {
	return strings.Contains(name, "Value")
})

// PropertySets renders IFCPROPERTYSET entities as a PropertySets row with one
// child per set. Entities of other kinds are ignored.
func (r *Resolver) PropertySets(ctx context.Context, sets []*ifc.Entity, displayUnits bool) *Row {
	return r.definitionSets(ctx, "PropertySets", ifc.KindPropertySet, "HasProperties", sets, displayUnits)
}

// QuantitySets renders IFCELEMENTQUANTITY entities as a QuantitySets row.
func (r *Resolver) QuantitySets(ctx context.Context, sets []*ifc.Entity, displayUnits bool) *Row {
	return r.definitionSets(ctx, "QuantitySets", ifc.KindElementQuantity, "Quantities", sets, displayUnits)
}

func (r *Resolver) definitionSets(ctx context.Context, label string, kind ifc.Kind, items string, sets []*ifc.Entity, displayUnits bool) *Row {
	row := NewRow(label)
	for _, set := range sets {
		if set.Kind != kind {
			continue
		}
		name, _ := set.Name()
		setRow := NewRow(name)
		for _, h := range set.Refs(items) {
			prop, ok := r.fetch(ctx, set.Model, h)
			if !ok {
				continue
			}
			v, ok := propertyValue(prop)
			if !ok {
				continue
			}
			propName, _ := prop.Name()
			setRow.Add(Field(propName, r.formatValue(ctx, set.Model, v, displayUnits)))
		}
		// Sets whose properties all failed to resolve are omitted.
		row.Add(nonEmpty(setRow))
	}
	return row
}

// propertyValue returns the first attribute selected by valueAttribute. A
// property whose value attribute is null has no value.
func propertyValue(prop *ifc.Entity) (ifc.Value, bool) {
	for _, a := range prop.Attributes {
		if valueAttribute.Matches(a.Name) {
			return a.Value, !a.Value.IsNull()
		}
	}
	return ifc.Value{}, false
}

// formatValue renders "<value> <symbol>". The separator is always present so
// values without a unit end in a single space.
func (r *Resolver) formatValue(ctx context.Context, model ifc.ModelID, v ifc.Value, displayUnits bool) string {
	text := valueText(v)
	symbol := ""
	if displayUnits && r.units != nil && v.Kind == ifc.ValuePrimitive {
		if u, ok := r.units.Resolve(ctx, model, v.Type); ok {
			symbol = u.Symbol
			if f, ok := v.Scalar.(float64); ok && u.Digits > 0 {
				text = strconv.FormatFloat(f, 'f', u.Digits, 64)
			}
		}
	}
	return text + " " + symbol
}

func valueText(v ifc.Value) string {
	switch v.Kind {
	case ifc.ValuePrimitive:
		return v.Text()
	case ifc.ValueReference:
		return v.Ref.String()
	case ifc.ValueList:
		parts := make([]string, 0, len(v.Items))
		for _, it := range v.Items {
			if !it.IsNull() {
				parts = append(parts, valueText(it))
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}
