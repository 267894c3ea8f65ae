// Package query defines the structured query form consumed by the tabdb
// engine: an immutable boolean expression tree (Expr) plus the Query
// envelope carrying projection, ordering and pagination.
//
// Expressions are built by the caller (or by the parser package) and passed
// by reference into evaluation; evaluation never mutates them.
package query

import (
	"tabdb/value"
)

// Operator is a comparison or logical operator on expression nodes.
type Operator string

const (
	OpEq  Operator = "="
	OpNeq Operator = "!="
	OpLt  Operator = "<"
	OpLte Operator = "<="
	OpGt  Operator = ">"
	OpGte Operator = ">="

	OpAnd Operator = "AND"
	OpOr  Operator = "OR"
)

// Expr is a node in the expression tree. Eval resolves the node against a
// single row, with cols mapping column names to row positions.
type Expr interface {
	Eval(row []value.Value, cols map[string]int) value.Value
}

// ColumnRef reads a column's value from the current row.
//
// A name absent from cols is a caller contract violation (the engine
// validates projection and order-by names, not filter references); the
// reference evaluates to Null so the enclosing predicate fails closed.
type ColumnRef struct {
	Name string
}

func (c *ColumnRef) Eval(row []value.Value, cols map[string]int) value.Value {
	pos, ok := cols[c.Name]
	if !ok || pos >= len(row) {
		return value.Null
	}
	return row[pos]
}

// Literal yields a constant value.
type Literal struct {
	Val value.Value
}

func (l *Literal) Eval([]value.Value, map[string]int) value.Value {
	return l.Val
}

// Comparison applies a comparison operator to two sub-expressions.
// Eq/Neq use kind-exact structural equality. The relational operators are
// true only when both operands are comparable (same kind, neither Null) and
// the relation holds; incomparable operands never satisfy them.
type Comparison struct {
	Op          Operator
	Left, Right Expr
}

func (e *Comparison) Eval(row []value.Value, cols map[string]int) value.Value {
	lv := e.Left.Eval(row, cols)
	rv := e.Right.Eval(row, cols)
	switch e.Op {
	case OpEq:
		return value.Bool(lv == rv)
	case OpNeq:
		return value.Bool(lv != rv)
	}
	cmp, ok := value.Compare(lv, rv)
	if !ok {
		return value.Bool(false)
	}
	switch e.Op {
	case OpLt:
		return value.Bool(cmp < 0)
	case OpLte:
		return value.Bool(cmp <= 0)
	case OpGt:
		return value.Bool(cmp > 0)
	case OpGte:
		return value.Bool(cmp >= 0)
	}
	return value.Bool(false)
}

// Logical combines two boolean sub-expressions with AND or OR. If either
// operand does not evaluate to a Bool the node yields Bool(false); this is
// a fail-closed policy, not a type error.
type Logical struct {
	Op          Operator
	Left, Right Expr
}

func (e *Logical) Eval(row []value.Value, cols map[string]int) value.Value {
	lv := e.Left.Eval(row, cols)
	rv := e.Right.Eval(row, cols)
	if lv.T != value.TypeBool || rv.T != value.TypeBool {
		return value.Bool(false)
	}
	if e.Op == OpAnd {
		return value.Bool(lv.B && rv.B)
	}
	return value.Bool(lv.B || rv.B)
}

// Constructor helpers. These are the intended public surface for building
// filters by hand; the parser package builds the same nodes from text.

func Col(name string) Expr   { return &ColumnRef{Name: name} }
func Lit(v value.Value) Expr { return &Literal{Val: v} }
func Eq(l, r Expr) Expr      { return &Comparison{Op: OpEq, Left: l, Right: r} }
func Neq(l, r Expr) Expr     { return &Comparison{Op: OpNeq, Left: l, Right: r} }
func Lt(l, r Expr) Expr      { return &Comparison{Op: OpLt, Left: l, Right: r} }
func Lte(l, r Expr) Expr     { return &Comparison{Op: OpLte, Left: l, Right: r} }
func Gt(l, r Expr) Expr      { return &Comparison{Op: OpGt, Left: l, Right: r} }
func Gte(l, r Expr) Expr     { return &Comparison{Op: OpGte, Left: l, Right: r} }
func And(l, r Expr) Expr     { return &Logical{Op: OpAnd, Left: l, Right: r} }
func Or(l, r Expr) Expr      { return &Logical{Op: OpOr, Left: l, Right: r} }

func Cmp(op Operator, l, r Expr) Expr {
	switch op {
	case OpAnd, OpOr:
		return &Logical{Op: op, Left: l, Right: r}
	}
	return &Comparison{Op: op, Left: l, Right: r}
}

// EvalBool evaluates e and unwraps the result to a primitive bool. Any
// non-Bool result is treated as false.
func EvalBool(e Expr, row []value.Value, cols map[string]int) bool {
	v := e.Eval(row, cols)
	return v.T == value.TypeBool && v.B
}

// IndexLookup recognizes the one expression shape eligible for direct index
// use: a top-level equality between exactly one column reference and one
// literal, in either operand order. Anything else, including an equality
// nested under AND/OR or any other comparison operator, is not recognized.
// The narrowness is deliberate; this is a pattern match, not a planner.
func IndexLookup(e Expr) (col string, val value.Value, ok bool) {
	cmp, isCmp := e.(*Comparison)
	if !isCmp || cmp.Op != OpEq {
		return "", value.Null, false
	}
	if c, isCol := cmp.Left.(*ColumnRef); isCol {
		if l, isLit := cmp.Right.(*Literal); isLit {
			return c.Name, l.Val, true
		}
	}
	if l, isLit := cmp.Left.(*Literal); isLit {
		if c, isCol := cmp.Right.(*ColumnRef); isCol {
			return c.Name, l.Val, true
		}
	}
	return "", value.Null, false
}
