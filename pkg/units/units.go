// Package units resolves display units for IFC measure values.
//
// A model declares its project units once, through an IfcUnitAssignment that
// lists IfcSIUnit and IfcConversionBasedUnit entities. Property and quantity
// values only carry their measure type (IFCLENGTHMEASURE, IFCAREAMEASURE, ...),
// so displaying "2.50 m" needs two lookups: measure type to unit type, and
// unit type to the unit the model assigned. [Resolver] performs both and caches
// the per-model unit table after the first request.
//
// Lookups that cannot be satisfied return false; callers fall back to the raw
// value without a symbol.
package units

import (
	"context"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/ifctree/pkg/ifc"
)

// DefaultDigits is used for unit types without a specific precision.
const DefaultDigits = 2

// measureUnits maps measure types to the unit type that governs them.
var measureUnits = map[string]string{
	"IFCLENGTHMEASURE":                   "LENGTHUNIT",
	"IFCPOSITIVELENGTHMEASURE":           "LENGTHUNIT",
	"IFCNONNEGATIVELENGTHMEASURE":        "LENGTHUNIT",
	"IFCAREAMEASURE":                     "AREAUNIT",
	"IFCVOLUMEMEASURE":                   "VOLUMEUNIT",
	"IFCPLANEANGLEMEASURE":               "PLANEANGLEUNIT",
	"IFCPOSITIVEPLANEANGLEMEASURE":       "PLANEANGLEUNIT",
	"IFCMASSMEASURE":                     "MASSUNIT",
	"IFCTIMEMEASURE":                     "TIMEUNIT",
	"IFCTHERMODYNAMICTEMPERATUREMEASURE": "THERMODYNAMICTEMPERATUREUNIT",
}

// unitDigits holds the display precision per unit type.
var unitDigits = map[string]int{
	"LENGTHUNIT":                   2,
	"AREAUNIT":                     2,
	"VOLUMEUNIT":                   3,
	"PLANEANGLEUNIT":               2,
	"MASSUNIT":                     2,
	"TIMEUNIT":                     0,
	"THERMODYNAMICTEMPERATUREUNIT": 1,
}

var siSymbols = map[string]string{
	"METRE":          "m",
	"SQUARE_METRE":   "m²",
	"CUBIC_METRE":    "m³",
	"RADIAN":         "rad",
	"GRAM":           "g",
	"SECOND":         "s",
	"KELVIN":         "K",
	"DEGREE_CELSIUS": "°C",
}

var siPrefixes = map[string]string{
	"KILO":  "k",
	"HECTO": "h",
	"DECA":  "da",
	"DECI":  "d",
	"CENTI": "c",
	"MILLI": "m",
	"MICRO": "µ",
}

var conversionSymbols = map[string]string{
	"FOOT":         "ft",
	"INCH":         "in",
	"SQUARE FOOT":  "ft²",
	"SQUARE INCH":  "in²",
	"CUBIC FOOT":   "ft³",
	"CUBIC INCH":   "in³",
	"DEGREE":       "°",
	"POUND":        "lb",
	"YARD":         "yd",
	"MILE":         "mi",
	"SQUARE YARD":  "yd²",
	"GALLON US":    "gal",
	"MINUTE":       "min",
	"HOUR":         "h",
	"DAY":          "d",
	"TONNE":        "t",
	"LITRE":        "l",
	"DEGREE ANGLE": "°",
}

// Resolver implements ifc.UnitResolver over an entity store. It is safe for
// concurrent use.
type Resolver struct {
	store  ifc.EntityStore
	logger *log.Logger
	digits int // forced precision, 0 for per-unit defaults

	mu     sync.Mutex
	gen    uint64 // bumped when cached tables become stale
	tables map[ifc.ModelID]map[string]ifc.Unit
	group  singleflight.Group
}

// NewResolver creates a resolver reading unit assignments from store.
// A nil logger discards output.
func NewResolver(store ifc.EntityStore, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{store: store, logger: logger, tables: make(map[ifc.ModelID]map[string]ifc.Unit)}
}

// SetDigits forces n decimal digits for every unit type. Zero restores the
// per-unit defaults. Unit tables already loaded are dropped.
func (r *Resolver) SetDigits(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.digits = max(n, 0)
	r.gen++
	clear(r.tables)
}

// Resolve implements ifc.UnitResolver.
func (r *Resolver) Resolve(ctx context.Context, model ifc.ModelID, valueType string) (ifc.Unit, bool) {
	unitType, ok := measureUnits[strings.ToUpper(valueType)]
	if !ok {
		return ifc.Unit{}, false
	}
	table := r.table(ctx, model)
	u, ok := table[unitType]
	return u, ok
}

// Forget drops the cached unit table of a model.
func (r *Resolver) Forget(model ifc.ModelID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	delete(r.tables, model)
}

// table returns the unit table of model. The store is read without holding
// r.mu; concurrent requests for the same model share one load.
func (r *Resolver) table(ctx context.Context, model ifc.ModelID) map[string]ifc.Unit {
	r.mu.Lock()
	t, ok := r.tables[model]
	gen, digits := r.gen, r.digits
	r.mu.Unlock()
	if ok {
		return t
	}

	key := string(model) + "\x00" + strconv.FormatUint(gen, 10)
	v, err, _ := r.group.Do(key, func() (any, error) {
		return r.load(ctx, model, digits)
	})
	if err != nil {
		// Not cached: a later request may succeed.
		r.logger.Warn("unit lookup failed", "model", model, "err", err)
		return nil
	}
	t = v.(map[string]ifc.Unit)

	r.mu.Lock()
	if r.gen == gen {
		r.tables[model] = t
	}
	r.mu.Unlock()
	return t
}

func (r *Resolver) load(ctx context.Context, model ifc.ModelID, forced int) (map[string]ifc.Unit, error) {
	assignments, err := r.store.EntitiesOfKind(ctx, model, ifc.KindUnitAssignment)
	if err != nil {
		return nil, err
	}
	t := make(map[string]ifc.Unit)
	for _, a := range assignments {
		for _, h := range a.Refs("Units") {
			u, err := r.store.Entity(ctx, model, h)
			if err != nil {
				continue
			}
			unitType := strings.ToUpper(u.Text("UnitType"))
			if unitType == "" {
				continue
			}
			if _, seen := t[unitType]; seen {
				continue
			}
			symbol, ok := symbolOf(u)
			if !ok {
				continue
			}
			digits, ok := unitDigits[unitType]
			switch {
			case forced > 0:
				digits = forced
			case !ok:
				digits = DefaultDigits
			}
			t[unitType] = ifc.Unit{Symbol: symbol, Digits: digits}
		}
	}
	return t, nil
}

// symbolOf derives the display symbol of an SI or conversion-based unit.
func symbolOf(u *ifc.Entity) (string, bool) {
	name := strings.ToUpper(strings.TrimSpace(u.Text("Name")))
	switch u.Kind {
	case ifc.KindSIUnit:
		base, ok := siSymbols[name]
		if !ok {
			return "", false
		}
		return siPrefixes[strings.ToUpper(u.Text("Prefix"))] + base, true
	case ifc.KindConversionBasedUnit:
		if s, ok := conversionSymbols[name]; ok {
			return s, true
		}
		if name == "" {
			return "", false
		}
		return strings.ToLower(name), true
	}
	return "", false
}

var _ ifc.UnitResolver = (*Resolver)(nil)
