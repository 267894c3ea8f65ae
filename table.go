package tabdb

import (
	"fmt"

	"tabdb/value"
)

// Column declares one table column: its name (unique within the table), the
// scalar kind it accepts, and whether a hash index is maintained for it.
// Indexed is fixed at table creation; indexes are not retrofitted later.
// Every column implicitly admits Null in addition to its declared type.
type Column struct {
	Name    string
	Type    value.Type
	Indexed bool
}

// table owns an ordered column list (schema and positional row layout), an
// append-only row slice, and one hash index per indexed column mapping a
// cell value to the positions of the rows holding it, in insertion order.
//
// Invariants: every row has exactly one value per column, each matching (or
// Null for) the declared type; every index exactly reflects all rows
// inserted so far. Row positions are stable once assigned; indexes store
// positions, not values, and stay valid for the table's lifetime.
type table struct {
	columns []Column
	rows    [][]value.Value
	indexes map[string]map[value.Value][]int
}

func newTable(columns []Column) *table {
	t := &table{
		columns: columns,
		indexes: make(map[string]map[value.Value][]int),
	}
	for _, col := range columns {
		if col.Indexed {
			t.indexes[col.Name] = make(map[value.Value][]int)
		}
	}
	return t
}

// insert validates the row against the schema and, only if every check
// passes, appends it at the next position and updates every index. A failed
// insert leaves no row stored and no index mutated.
func (t *table) insert(row []value.Value) error {
	if len(row) != len(t.columns) {
		return fmt.Errorf("%w: got %d values for %d columns",
			ErrTypeMismatch, len(row), len(t.columns))
	}
	for i, col := range t.columns {
		if !row[i].Matches(col.Type) {
			return fmt.Errorf("%w: column %q expects %s, got %s",
				ErrTypeMismatch, col.Name, col.Type, row[i].T)
		}
	}

	pos := len(t.rows)
	t.rows = append(t.rows, row)
	for i, col := range t.columns {
		if idx, ok := t.indexes[col.Name]; ok {
			idx[row[i]] = append(idx[row[i]], pos)
		}
	}
	return nil
}

// columnPositions maps column name to row position for this schema.
func (t *table) columnPositions() map[string]int {
	cols := make(map[string]int, len(t.columns))
	for i, col := range t.columns {
		cols[col.Name] = i
	}
	return cols
}
