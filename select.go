package tabdb

import (
	"fmt"
	"sort"

	"tabdb/query"
	"tabdb/value"
)

// selectRows executes a query against one table. The step order is a firm
// contract: scan, filter, order, offset, project, limit. Limit and offset
// apply to the filtered-and-ordered set, never the raw table; projection is
// last and cannot affect which positions survive.
func (t *table) selectRows(q query.Query) ([][]value.Value, error) {
	cols := t.columnPositions()

	// Projection and order-by columns are validated before any scan.
	// Filter column references are the caller's contract and fail closed
	// during evaluation instead.
	for _, name := range q.Columns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
		}
	}
	if q.OrderBy != nil {
		if _, ok := cols[q.OrderBy.Column]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, q.OrderBy.Column)
		}
	}

	// Working set: row positions in storage order.
	positions := make([]int, len(t.rows))
	for i := range t.rows {
		positions[i] = i
	}

	if q.Filter != nil {
		if col, val, ok := query.IndexLookup(q.Filter); ok && t.indexes[col] != nil {
			// Index short-circuit: the bucket replaces the working set
			// outright, bypassing per-row evaluation. A missing key is an
			// empty result, not an error. Buckets are in insertion order.
			bucket := t.indexes[col][val]
			positions = make([]int, len(bucket))
			copy(positions, bucket)
		} else {
			matched := positions[:0]
			for _, pos := range positions {
				if query.EvalBool(q.Filter, t.rows[pos], cols) {
					matched = append(matched, pos)
				}
			}
			positions = matched
		}
	}

	if q.OrderBy != nil {
		at := cols[q.OrderBy.Column]
		// Stable: incomparable pairs (cross-kind, Null) keep equal rank and
		// their relative input order.
		sort.SliceStable(positions, func(i, j int) bool {
			cmp, ok := value.Compare(t.rows[positions[i]][at], t.rows[positions[j]][at])
			return ok && cmp < 0
		})
		if q.OrderBy.Desc {
			for i, j := 0, len(positions)-1; i < j; i, j = i+1, j-1 {
				positions[i], positions[j] = positions[j], positions[i]
			}
		}
	}

	if q.Offset > 0 {
		if q.Offset >= len(positions) {
			positions = nil
		} else {
			positions = positions[q.Offset:]
		}
	}

	rows := make([][]value.Value, 0, len(positions))
	for _, pos := range positions {
		if q.Columns == nil {
			full := make([]value.Value, len(t.rows[pos]))
			copy(full, t.rows[pos])
			rows = append(rows, full)
			continue
		}
		projected := make([]value.Value, len(q.Columns))
		for i, name := range q.Columns {
			projected[i] = t.rows[pos][cols[name]]
		}
		rows = append(rows, projected)
	}

	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}

	return rows, nil
}
