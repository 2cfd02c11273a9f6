package filter

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// ErrInvalidField reports a field name that is not a plain column identifier.
var ErrInvalidField = errors.New("invalid filter field")

var fieldPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Dialect adapts rendering to a SQL engine.
type Dialect interface {
	// Placeholder returns the bind marker for the n-th argument, counting from 1.
	Placeholder(n int) string
	// ContainsClause renders a case-insensitive substring test of field
	// against the bind marker ph.
	ContainsClause(field, ph string) string
}

type postgresDialect struct{}

func (postgresDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (postgresDialect) ContainsClause(field, ph string) string {
	return fmt.Sprintf("%s ILIKE %s", field, ph)
}

// FoldFunc is the SQL function SQLite connections register as Fold, since
// the built-in lower() folds ASCII letters only.
const FoldFunc = "casefold"

// Fold returns the Unicode case folding of v, which must be text or NULL.
// NULL folds to the empty string.
func Fold(v any) string {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case []byte:
		s = string(t)
	case nil:
		return ""
	default:
		s = fmt.Sprint(t)
	}
	return cases.Fold().String(s)
}

type sqliteDialect struct{}

func (sqliteDialect) Placeholder(int) string { return "?" }

func (sqliteDialect) ContainsClause(field, ph string) string {
	return fmt.Sprintf("%s(%s) LIKE %s(%s) ESCAPE '\\'", FoldFunc, field, FoldFunc, ph)
}

// Dialects for the supported company stores.
var (
	Postgres Dialect = postgresDialect{}
	SQLite   Dialect = sqliteDialect{}
)

// Render produces a parameterized WHERE expression for p. Values are bound
// as arguments; LIKE wildcards in user input are escaped.
func Render(p Predicate, d Dialect) (string, []any, error) {
	r := &renderer{dialect: d}
	sql, err := r.render(p)
	if err != nil {
		return "", nil, err
	}
	return sql, r.args, nil
}

type renderer struct {
	dialect Dialect
	args    []any
}

func (r *renderer) bind(v any) string {
	r.args = append(r.args, v)
	return r.dialect.Placeholder(len(r.args))
}

func (r *renderer) render(p Predicate) (string, error) {
	switch v := p.(type) {
	case nil, truePredicate:
		return "1 = 1", nil
	case Contains:
		if err := checkField(v.Field); err != nil {
			return "", err
		}
		return r.dialect.ContainsClause(v.Field, r.bind("%"+EscapeLike(v.Value)+"%")), nil
	case Equals:
		if err := checkField(v.Field); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s = %s", v.Field, r.bind(v.Value)), nil
	case Range:
		if err := checkField(v.Field); err != nil {
			return "", err
		}
		var parts []string
		if v.Min != nil {
			parts = append(parts, fmt.Sprintf("%s >= %s", v.Field, r.bind(*v.Min)))
		}
		if v.Max != nil {
			parts = append(parts, fmt.Sprintf("%s <= %s", v.Field, r.bind(*v.Max)))
		}
		return joinOrTrue(parts), nil
	case DateRange:
		if err := checkField(v.Field); err != nil {
			return "", err
		}
		var parts []string
		if v.From != nil {
			parts = append(parts, fmt.Sprintf("%s >= %s", v.Field, r.bind(v.From.Format(DateLayout))))
		}
		if v.To != nil {
			parts = append(parts, fmt.Sprintf("%s <= %s", v.Field, r.bind(v.To.Format(DateLayout))))
		}
		return joinOrTrue(parts), nil
	case Or:
		return r.group(v.Terms, " OR ")
	case And:
		return r.group(v.Terms, " AND ")
	default:
		return "", fmt.Errorf("unsupported predicate %T", p)
	}
}

func (r *renderer) group(terms []Predicate, sep string) (string, error) {
	if len(terms) == 0 {
		return "1 = 1", nil
	}
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		s, err := r.render(t)
		if err != nil {
			return "", err
		}
		parts = append(parts, "("+s+")")
	}
	return strings.Join(parts, sep), nil
}

func joinOrTrue(parts []string) string {
	if len(parts) == 0 {
		return "1 = 1"
	}
	return strings.Join(parts, " AND ")
}

func checkField(field string) error {
	if !fieldPattern.MatchString(field) {
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	return nil
}

// EscapeLike escapes the LIKE wildcards and the escape character itself.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
