package postgres

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"costume-rental-backend/internal/repository"
)

// conditions accumulates WHERE clauses and their positional arguments.
type conditions struct {
	clauses []string
	args    []any
}

// add appends clause, binding each "?" in it to the next of values.
func (c *conditions) add(clause string, values ...any) {
	for _, v := range values {
		clause = strings.Replace(clause, "?", c.bind(v), 1)
	}
	c.clauses = append(c.clauses, clause)
}

// bind appends v to the arguments and returns its placeholder.
func (c *conditions) bind(v any) string {
	c.args = append(c.args, v)
	return fmt.Sprintf("$%d", len(c.args))
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// paginate binds LIMIT and OFFSET for page.
func (c *conditions) paginate(page repository.Page) string {
	page = page.Normalize()
	return fmt.Sprintf(" LIMIT %s OFFSET %s", c.bind(page.Limit), c.bind(page.Offset()))
}

// sortColumns whitelists the columns a list may be ordered by.
type sortColumns struct {
	columns  map[string]string
	fallback string
}

func (s sortColumns) orderBy(sort repository.Sort) string {
	column, ok := s.columns[sort.Field]
	if !ok {
		column = s.fallback
	}
	direction := "ASC"
	if sort.Desc {
		direction = "DESC"
	}
	return " ORDER BY " + column + " " + direction
}

// assignments accumulates SET clauses for partial updates.
type assignments struct {
	columns []string
	args    []any
}

func (a *assignments) set(column string, value any) {
	a.args = append(a.args, value)
	a.columns = append(a.columns, fmt.Sprintf("%s = $%d", column, len(a.args)))
}

func (a *assignments) empty() bool {
	return len(a.columns) == 0
}

// update renders an UPDATE of table with where bound to value through its single "?".
func (a *assignments) update(table, where string, value any) (string, []any) {
	args := append(append([]any{}, a.args...), value)
	where = strings.Replace(where, "?", fmt.Sprintf("$%d", len(args)), 1)
	return "UPDATE " + table + " SET " + strings.Join(a.columns, ", ") + ", updated_at = NOW() WHERE " + where, args
}

func likePattern(s string) string {
	return "%" + s + "%"
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// isUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
