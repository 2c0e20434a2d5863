package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/roach88/contactstore/internal/ir"
)

// Row is the raw form of one persisted record: the values of a Mapping's
// columns in order. Rows read back from SQLite carry the id first.
type Row []any

// Mapping is the two-way conversion between an entity and its table row.
// ToRow and FromRow are pure; they never touch the database.
type Mapping[E any] struct {
	// Table is the SQLite table name.
	Table string

	// Columns lists the persisted columns, excluding id.
	Columns []string

	// ToRow produces the values for Columns, in order.
	ToRow func(E) Row

	// FromRow builds an entity from id followed by the Columns values.
	// It must reject any value of unexpected type.
	FromRow func(Row) (E, error)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// insertQuery renders the INSERT statement for m.
func (m Mapping[E]) insertQuery() string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(m.Columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", m.Table, strings.Join(m.Columns, ", "), placeholders)
}

// selectQuery renders the ordered bulk SELECT for m.
func (m Mapping[E]) selectQuery() string {
	return fmt.Sprintf("SELECT id, %s FROM %s ORDER BY id ASC", strings.Join(m.Columns, ", "), m.Table)
}

// insertRow writes e and returns its assigned id.
func insertRow[E any](ctx context.Context, ex execer, m Mapping[E], e E) (int64, error) {
	row := m.ToRow(e)
	if len(row) != len(m.Columns) {
		return 0, fmt.Errorf("mapping for %s produced %d values for %d columns", m.Table, len(row), len(m.Columns))
	}

	result, err := ex.ExecContext(ctx, m.insertQuery(), row...)
	if err != nil {
		return 0, classify("insert", m.Table, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, classify("insert", m.Table, err)
	}
	return id, nil
}

// readAll returns every row of m's table ordered by id ascending.
//
// Returns an empty slice (not nil) if the table is empty. A row that fails
// its mapping aborts the read with KindMalformedRow.
func readAll[E any](ctx context.Context, q queryer, m Mapping[E]) ([]E, error) {
	rows, err := q.QueryContext(ctx, m.selectQuery())
	if err != nil {
		return nil, classify("query", m.Table, err)
	}
	defer rows.Close()

	width := len(m.Columns) + 1
	out := []E{}
	for rows.Next() {
		raw := make(Row, width)
		dest := make([]any, width)
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, malformedRow(m.Table, err)
		}

		e, err := m.FromRow(raw)
		if err != nil {
			return nil, malformedRow(m.Table, err)
		}
		out = append(out, e)
	}

	if err := rows.Err(); err != nil {
		return nil, classify("iterate", m.Table, err)
	}

	return out, nil
}

// countRows returns the number of rows in table.
func countRows(ctx context.Context, db *sql.DB, table string) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, classify("count", table, err)
	}
	return n, nil
}

// Column accessors used by FromRow implementations. Each one fails on NULL
// or on a value of the wrong storage class.

func (r Row) int64At(i int, column string) (int64, error) {
	if i >= len(r) {
		return 0, fmt.Errorf("column %s missing", column)
	}
	v, ok := r[i].(int64)
	if !ok {
		return 0, fmt.Errorf("column %s: expected integer, got %T", column, r[i])
	}
	return v, nil
}

func (r Row) intAt(i int, column string) (int, error) {
	v, err := r.int64At(i, column)
	return int(v), err
}

func (r Row) bytesAt(i int, column string) ([]byte, error) {
	if i >= len(r) {
		return nil, fmt.Errorf("column %s missing", column)
	}
	v, ok := r[i].([]byte)
	if !ok {
		return nil, fmt.Errorf("column %s: expected blob, got %T", column, r[i])
	}
	return v, nil
}

func (r Row) stringAt(i int, column string) (string, error) {
	if i >= len(r) {
		return "", fmt.Errorf("column %s missing", column)
	}
	switch v := r[i].(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("column %s: expected text, got %T", column, r[i])
	}
}

func (r Row) ephIDAt(i int, column string) (ir.EphID, error) {
	b, err := r.bytesAt(i, column)
	if err != nil {
		return ir.EphID{}, err
	}
	id, err := ir.ParseEphID(b)
	if err != nil {
		return ir.EphID{}, fmt.Errorf("column %s: %w", column, err)
	}
	return id, nil
}

func (r Row) dayAt(i int, column string) (ir.DayDate, error) {
	ms, err := r.int64At(i, column)
	if err != nil {
		return ir.DayDate{}, err
	}
	return ir.DayFromMillis(ms), nil
}
