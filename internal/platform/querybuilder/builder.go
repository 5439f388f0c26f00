// Package querybuilder assembles Postgres statements with numbered
// placeholders. Identifiers are trusted input and are written verbatim.
package querybuilder

import (
	"errors"
	"strconv"
	"strings"
)

// writer accumulates SQL text and its bound arguments.
type writer struct {
	sql  strings.Builder
	args []any
}

func (w *writer) raw(parts ...string) {
	for _, part := range parts {
		w.sql.WriteString(part)
	}
}

func (w *writer) bind(value any) {
	w.args = append(w.args, value)
	w.sql.WriteString("$")
	w.sql.WriteString(strconv.Itoa(len(w.args)))
}

// expr writes a fragment, binding each "?" to the next value. Extra "?"
// without a value stay as written.
func (w *writer) expr(fragment string, values []any) {
	next := 0
	for i := 0; i < len(fragment); i++ {
		if fragment[i] == '?' && next < len(values) {
			w.bind(values[next])
			next++
			continue
		}
		w.sql.WriteByte(fragment[i])
	}
}

func (w *writer) where(conditions []Condition) {
	for i, c := range conditions {
		if i == 0 {
			w.raw(" WHERE ")
		} else {
			w.raw(" AND ")
		}
		c.write(w)
	}
}

func (w *writer) result() (string, []any, error) {
	return w.sql.String(), w.args, nil
}

func requireName(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New(kind + " is required")
	}
	return nil
}

// Condition is one predicate of a WHERE clause. Conditions are ANDed.
type Condition interface {
	write(w *writer)
}

type conditionFunc func(w *writer)

func (f conditionFunc) write(w *writer) { f(w) }

func compare(column, operator string, value any) Condition {
	return conditionFunc(func(w *writer) {
		w.raw(column, " ", operator, " ")
		w.bind(value)
	})
}

func Eq(column string, value any) Condition  { return compare(column, "=", value) }
func Gte(column string, value any) Condition { return compare(column, ">=", value) }
func Lt(column string, value any) Condition  { return compare(column, "<", value) }
func Lte(column string, value any) Condition { return compare(column, "<=", value) }

// In matches any of values. An empty list matches nothing.
func In(column string, values []any) Condition {
	return conditionFunc(func(w *writer) {
		if len(values) == 0 {
			w.raw("1=0")
			return
		}
		w.raw(column, " IN (")
		for i, v := range values {
			if i > 0 {
				w.raw(", ")
			}
			w.bind(v)
		}
		w.raw(")")
	})
}

func IsNull(column string) Condition {
	return conditionFunc(func(w *writer) { w.raw(column, " IS NULL") })
}

func IsNotNull(column string) Condition {
	return conditionFunc(func(w *writer) { w.raw(column, " IS NOT NULL") })
}

// Expr is a raw predicate with "?" markers for values.
func Expr(fragment string, values ...any) Condition {
	return conditionFunc(func(w *writer) { w.expr(fragment, values) })
}
