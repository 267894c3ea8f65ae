// Package tabdb is the in-process execution core of a minimal tabular data
// store. An Engine holds typed tables, maintains hash indexes for columns
// flagged at creation, and evaluates structured queries (filter expression,
// projection, ordering, pagination) against stored rows.
//
// The core is single-threaded and synchronous: every operation runs to
// completion on the caller's goroutine with no I/O and no internal locking.
// Callers that need concurrent access must serialize externally, e.g. one
// mutex around the whole engine (the server package does exactly that).
// Nothing is persisted; all state is lost when the engine is dropped.
//
// Query text parsing lives in the parser package; this core consumes only
// the structured query.Query / query.Expr forms.
package tabdb

import (
	"fmt"

	"tabdb/query"
	"tabdb/value"
)

// Engine owns a mapping from table name to table. Engines are independent:
// two instances share no state, so tests can run them side by side.
type Engine struct {
	tables map[string]*table
}

// New returns an empty engine.
func New() *Engine {
	return &Engine{tables: make(map[string]*table)}
}

// CreateTable registers a new, empty table. Creation always succeeds: a
// prior table under the same name is silently replaced and its rows
// discarded (overwrite-on-create, by contract). Index maps for columns
// flagged Indexed are created here, empty.
func (e *Engine) CreateTable(name string, columns []Column) {
	e.tables[name] = newTable(columns)
}

// Tables returns the names of all registered tables.
func (e *Engine) Tables() []string {
	names := make([]string, 0, len(e.tables))
	for name := range e.tables {
		names = append(names, name)
	}
	return names
}

// Schema returns the column definitions of a table.
func (e *Engine) Schema(name string) ([]Column, error) {
	t, ok := e.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}
	cols := make([]Column, len(t.columns))
	copy(cols, t.columns)
	return cols, nil
}

// Insert appends one row to the named table. The row must carry exactly one
// value per column, each matching the declared column type or Null;
// violations return ErrTypeMismatch and leave the table and its indexes
// untouched.
func (e *Engine) Insert(tableName string, row []value.Value) error {
	t, ok := e.tables[tableName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrTableNotFound, tableName)
	}
	return t.insert(row)
}

// Select resolves q against the named table and returns the result rows.
// See the select executor in select.go for the step contract.
func (e *Engine) Select(tableName string, q query.Query) ([][]value.Value, error) {
	t, ok := e.tables[tableName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, tableName)
	}
	return t.selectRows(q)
}
