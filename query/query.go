package query

// OrderBy names the column the result set is sorted on. Desc reverses the
// ascending order after the sort.
type OrderBy struct {
	Column string
	Desc   bool
}

// Query is the structured form the engine executes. Zero values mean
// "absent": a nil Columns slice projects every column in schema order, a nil
// Filter keeps every row, Limit <= 0 is unlimited, Offset <= 0 starts at the
// first row, a nil OrderBy preserves storage order.
type Query struct {
	Columns []string
	Filter  Expr
	Limit   int
	Offset  int
	OrderBy *OrderBy
}
