package ifc

// Matcher selects attribute names either exactly or by predicate.
// The zero Matcher matches nothing.
type Matcher struct {
	exact string
	pred  func(string) bool
}

// Exact matches one attribute name.
func Exact(name string) Matcher { return Matcher{exact: name} }

// Predicate matches every name for which fn returns true.
func Predicate(fn func(name string) bool) Matcher { return Matcher{pred: fn} }

// Matches reports whether name is selected.
func (m Matcher) Matches(name string) bool {
	if m.pred != nil {
		return m.pred(name)
	}
	return m.exact != "" && m.exact == name
}

// IsExact reports whether m is an exact-name matcher and returns the name.
func (m Matcher) IsExact() (string, bool) {
	return m.exact, m.pred == nil && m.exact != ""
}

// MatchAny reports whether any matcher selects name.
func MatchAny(ms []Matcher, name string) bool {
	for _, m := range ms {
		if m.Matches(name) {
			return true
		}
	}
	return false
}

// Exacts builds exact matchers for names.
func Exacts(names ...string) []Matcher {
	out := make([]Matcher, len(names))
	for i, n := range names {
		out[i] = Exact(n)
	}
	return out
}
