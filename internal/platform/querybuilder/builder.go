// Package querybuilder renders the small set of PostgreSQL statements the
// repositories issue. Placeholders are numbered ($1, $2, ...) in the order
// arguments are bound.
package querybuilder

import (
	"errors"
	"strconv"
	"strings"
)

// sqlWriter accumulates statement text and bound arguments.
type sqlWriter struct {
	buf  strings.Builder
	args []any
}

func (w *sqlWriter) write(parts ...string) {
	for _, p := range parts {
		w.buf.WriteString(p)
	}
}

func (w *sqlWriter) bind(value any) {
	w.args = append(w.args, value)
	w.buf.WriteString("$")
	w.buf.WriteString(strconv.Itoa(len(w.args)))
}

// bindExpr copies expr, replacing each '?' with the next argument.
// Surplus '?' marks are kept as literal text.
func (w *sqlWriter) bindExpr(expr string, args []any) {
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' && next < len(args) {
			w.bind(args[next])
			next++
			continue
		}
		w.buf.WriteByte(expr[i])
	}
}

func (w *sqlWriter) where(conditions []Condition) {
	for i, c := range conditions {
		if i == 0 {
			w.write(" WHERE ")
		} else {
			w.write(" AND ")
		}
		c.render(w)
	}
}

func (w *sqlWriter) result() (string, []any, error) {
	return w.buf.String(), w.args, nil
}

// Condition is one AND-joined predicate of a WHERE clause.
type Condition interface {
	render(w *sqlWriter)
}

type compare struct {
	column   string
	operator string
	value    any
}

func (c compare) render(w *sqlWriter) {
	w.write(c.column, " ", c.operator, " ")
	w.bind(c.value)
}

func Eq(column string, value any) Condition {
	return compare{column: column, operator: "=", value: value}
}

// Lte renders "column <= value".
func Lte(column string, value any) Condition {
	return compare{column: column, operator: "<=", value: value}
}

type isNull string

func (c isNull) render(w *sqlWriter) {
	w.write(string(c), " IS NULL")
}

func IsNull(column string) Condition {
	return isNull(column)
}

type expr struct {
	sql  string
	args []any
}

func (c expr) render(w *sqlWriter) {
	w.bindExpr(c.sql, c.args)
}

// Expr embeds raw SQL with '?' placeholders, e.g.
// Expr("match_id = ANY(?)", pq.Array(ids)).
func Expr(sql string, args ...any) Condition {
	return expr{sql: sql, args: args}
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, errors.New("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, errors.New("select table is required")
	}

	var w sqlWriter
	w.write("SELECT ", strings.Join(b.columns, ", "), " FROM ", b.table)
	w.where(b.where)
	if len(b.orderBy) > 0 {
		w.write(" ORDER BY ", strings.Join(b.orderBy, ", "))
	}
	return w.result()
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	b.where = append(b.where, conditions...)
	return b
}

// ToSQL refuses to render a DELETE without conditions.
func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, errors.New("delete table is required")
	}
	if len(b.where) == 0 {
		return "", nil, errors.New("delete requires at least one condition")
	}

	var w sqlWriter
	w.write("DELETE FROM ", b.table)
	w.where(b.where)
	return w.result()
}

// insert renders a single-row INSERT followed by an optional raw suffix
// such as an ON CONFLICT clause.
func insert(table string, columns []string, values []any, suffix string) (string, []any, error) {
	if strings.TrimSpace(table) == "" {
		return "", nil, errors.New("insert table is required")
	}
	if len(columns) == 0 || len(columns) != len(values) {
		return "", nil, errors.New("insert needs one value per column")
	}

	var w sqlWriter
	w.write("INSERT INTO ", table, " (", strings.Join(columns, ", "), ") VALUES (")
	for i, v := range values {
		if i > 0 {
			w.write(", ")
		}
		w.bind(v)
	}
	w.write(")")
	if suffix = strings.TrimSpace(suffix); suffix != "" {
		w.write(" ", suffix)
	}
	return w.result()
}
