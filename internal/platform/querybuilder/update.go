package querybuilder

import (
	"errors"
	"strings"
)

type assignment struct {
	column   string
	value    any
	fragment string
	isExpr   bool
}

type UpdateBuilder struct {
	table       string
	assignments []assignment
	where       []Condition
	suffix      string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.assignments = append(b.assignments, assignment{column: column, value: value})
	return b
}

// SetExpr assigns a raw expression such as NOW() or "wins + ?".
func (b *UpdateBuilder) SetExpr(column, fragment string, values ...any) *UpdateBuilder {
	b.assignments = append(b.assignments, assignment{column: column, fragment: fragment, value: values, isExpr: true})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) Suffix(sql string) *UpdateBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if err := requireName("update table", b.table); err != nil {
		return "", nil, err
	}
	if len(b.assignments) == 0 {
		return "", nil, errors.New("update assignments are required")
	}

	var w writer
	w.raw("UPDATE ", b.table, " SET ")
	for i, a := range b.assignments {
		if i > 0 {
			w.raw(", ")
		}
		w.raw(a.column, " = ")
		if a.isExpr {
			values, _ := a.value.([]any)
			w.expr(a.fragment, values)
			continue
		}
		w.bind(a.value)
	}
	w.where(b.where)
	if b.suffix != "" {
		w.raw(" ", b.suffix)
	}
	return w.result()
}
