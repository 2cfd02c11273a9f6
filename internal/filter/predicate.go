// Package filter turns category selections and search fields into predicates
// over the company directory, and renders those predicates as SQL.
package filter

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the format dates are compared in.
const DateLayout = "2006-01-02"

// Predicate is a boolean condition over company rows.
type Predicate interface {
	fmt.Stringer
	predicate()
}

type truePredicate struct{}

// True matches every row. It is the identity of AllOf and of an empty
// category filter.
var True Predicate = truePredicate{}

func (truePredicate) predicate() {}

func (truePredicate) String() string { return "TRUE" }

// IsTrue reports whether p applies no constraint.
func IsTrue(p Predicate) bool {
	_, ok := p.(truePredicate)
	return p == nil || ok
}

// Contains matches rows whose Field contains Value, ignoring case.
type Contains struct {
	Field string
	Value string
}

func (Contains) predicate() {}

func (c Contains) String() string {
	return fmt.Sprintf("%s ILIKE %s", c.Field, quote("%"+c.Value+"%"))
}

// Equals matches rows whose Field is exactly Value.
type Equals struct {
	Field string
	Value string
}

func (Equals) predicate() {}

func (e Equals) String() string {
	return fmt.Sprintf("%s = %s", e.Field, quote(e.Value))
}

// Range matches rows whose numeric Field lies within [Min, Max].
// A nil bound is open.
type Range struct {
	Min   *float64
	Max   *float64
	Field string
}

func (Range) predicate() {}

func (r Range) String() string {
	var parts []string
	if r.Min != nil {
		parts = append(parts, fmt.Sprintf("%s >= %s", r.Field, formatFloat(*r.Min)))
	}
	if r.Max != nil {
		parts = append(parts, fmt.Sprintf("%s <= %s", r.Field, formatFloat(*r.Max)))
	}
	return strings.Join(parts, " AND ")
}

// DateRange matches rows whose date Field lies within [From, To], compared
// by calendar day. A nil bound is open.
type DateRange struct {
	From  *time.Time
	To    *time.Time
	Field string
}

func (DateRange) predicate() {}

func (d DateRange) String() string {
	var parts []string
	if d.From != nil {
		parts = append(parts, fmt.Sprintf("%s >= %s", d.Field, quote(d.From.Format(DateLayout))))
	}
	if d.To != nil {
		parts = append(parts, fmt.Sprintf("%s <= %s", d.Field, quote(d.To.Format(DateLayout))))
	}
	return strings.Join(parts, " AND ")
}

// Or matches rows satisfying any of its terms.
type Or struct {
	Terms []Predicate
}

func (Or) predicate() {}

func (o Or) String() string {
	return join(o.Terms, " OR ", isConjunction)
}

// And matches rows satisfying all of its terms.
type And struct {
	Terms []Predicate
}

func (And) predicate() {}

func (a And) String() string {
	return join(a.Terms, " AND ", func(p Predicate) bool {
		_, isOr := p.(Or)
		return isOr
	})
}

// AnyOf combines terms with OR. No terms, or any term that is True, give
// True: an empty disjunction here means "no constraint", not "match nothing".
func AnyOf(terms ...Predicate) Predicate {
	kept := make([]Predicate, 0, len(terms))
	for _, t := range terms {
		if IsTrue(t) {
			return True
		}
		kept = append(kept, t)
	}
	return collapse(kept, func(ts []Predicate) Predicate { return Or{Terms: ts} })
}

// AllOf combines terms with AND, dropping True terms.
func AllOf(terms ...Predicate) Predicate {
	kept := make([]Predicate, 0, len(terms))
	for _, t := range terms {
		if !IsTrue(t) {
			kept = append(kept, t)
		}
	}
	return collapse(kept, func(ts []Predicate) Predicate { return And{Terms: ts} })
}

func collapse(terms []Predicate, combine func([]Predicate) Predicate) Predicate {
	switch len(terms) {
	case 0:
		return True
	case 1:
		return terms[0]
	default:
		return combine(terms)
	}
}

// isConjunction reports whether p renders as an AND of several conditions.
func isConjunction(p Predicate) bool {
	switch v := p.(type) {
	case And:
		return true
	case Range:
		return v.Min != nil && v.Max != nil
	case DateRange:
		return v.From != nil && v.To != nil
	}
	return false
}

func join(terms []Predicate, sep string, needsParens func(Predicate) bool) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		s := t.String()
		if needsParens(t) {
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, sep)
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
