package repo

import (
	"fmt"
	"regexp"
	"strconv"

	"gorm.io/gorm"
)

// Constraint is a tagged query predicate over a collection: an equality or
// comparison filter on one document field, an ordering, or a result limit.
// Constraints compose conjunctively; their order does not affect the result
// set, only (for orderings) its presentation.
type Constraint struct {
	kind  constraintKind
	field string
	op    string
	value any
	desc  bool
	limit int
}

type constraintKind int

const (
	kindWhere constraintKind = iota
	kindOrderBy
	kindLimit
)

// Where filters on a document field. Supported operators: ==, !=, <, <=, >, >=
// (a bare "=" is accepted as an alias of "==").
func Where(field, op string, value any) Constraint {
	return Constraint{kind: kindWhere, field: field, op: op, value: value}
}

func OrderBy(field string, desc bool) Constraint {
	return Constraint{kind: kindOrderBy, field: field, desc: desc}
}

func Limit(n int) Constraint {
	return Constraint{kind: kindLimit, limit: n}
}

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var operators = map[string]string{
	"==": "=",
	"=":  "=",
	"!=": "<>",
	"<":  "<",
	"<=": "<=",
	">":  ">",
	">=": ">=",
}

func (c Constraint) apply(q *gorm.DB) (*gorm.DB, error) {
	switch c.kind {
	case kindWhere:
		if !fieldPattern.MatchString(c.field) {
			return nil, fmt.Errorf("invalid constraint field %q", c.field)
		}
		sqlOp, ok := operators[c.op]
		if !ok {
			return nil, fmt.Errorf("unsupported constraint operator %q", c.op)
		}
		return q.Where(fmt.Sprintf("data->>'%s' %s ?", c.field, sqlOp), jsonText(c.value)), nil
	case kindOrderBy:
		if !fieldPattern.MatchString(c.field) {
			return nil, fmt.Errorf("invalid constraint field %q", c.field)
		}
		dir := "ASC"
		if c.desc {
			dir = "DESC"
		}
		return q.Order(fmt.Sprintf("data->>'%s' %s", c.field, dir)), nil
	case kindLimit:
		return q.Limit(c.limit), nil
	}
	return nil, fmt.Errorf("unknown constraint kind %d", c.kind)
}

// jsonText renders the constraint value the way ->> renders jsonb scalars, so
// comparisons hold for strings, booleans and numbers alike.
func jsonText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
