package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabdb/value"
)

var (
	testCols = map[string]int{"id": 0, "name": 1, "active": 2}
	testRow  = []value.Value{value.Int(2), value.Text("Bob"), value.Bool(true)}
)

func TestColumnAndLiteral(t *testing.T) {
	assert.Equal(t, value.Int(2), Col("id").Eval(testRow, testCols))
	assert.Equal(t, value.Text("x"), Lit(value.Text("x")).Eval(testRow, testCols))
	// Unknown column fails closed to Null.
	assert.Equal(t, value.Null, Col("ghost").Eval(testRow, testCols))
}

func TestEqualityKindExact(t *testing.T) {
	assert.True(t, EvalBool(Eq(Col("id"), Lit(value.Int(2))), testRow, testCols))
	assert.False(t, EvalBool(Eq(Col("id"), Lit(value.Text("2"))), testRow, testCols))
	assert.True(t, EvalBool(Neq(Col("id"), Lit(value.Text("2"))), testRow, testCols))
	assert.True(t, EvalBool(Eq(Lit(value.Null), Lit(value.Null)), testRow, testCols))
}

func TestRelationalOperators(t *testing.T) {
	assert.True(t, EvalBool(Gt(Col("id"), Lit(value.Int(1))), testRow, testCols))
	assert.True(t, EvalBool(Gte(Col("id"), Lit(value.Int(2))), testRow, testCols))
	assert.True(t, EvalBool(Lte(Col("id"), Lit(value.Int(2))), testRow, testCols))
	assert.False(t, EvalBool(Lt(Col("id"), Lit(value.Int(2))), testRow, testCols))
	assert.True(t, EvalBool(Lt(Col("name"), Lit(value.Text("Zed"))), testRow, testCols))
	assert.True(t, EvalBool(Gt(Col("active"), Lit(value.Bool(false))), testRow, testCols))
}

func TestIncomparableNeverSatisfiesRelational(t *testing.T) {
	// Cross-kind and Null operands are incomparable; every relational
	// operator yields false, including Lte/Gte on Null-Null.
	assert.False(t, EvalBool(Lt(Col("id"), Lit(value.Text("3"))), testRow, testCols))
	assert.False(t, EvalBool(Gte(Col("id"), Lit(value.Null)), testRow, testCols))
	assert.False(t, EvalBool(Lte(Lit(value.Null), Lit(value.Null)), testRow, testCols))
}

func TestLogicalConnectives(t *testing.T) {
	tru := Lit(value.Bool(true))
	fls := Lit(value.Bool(false))
	assert.True(t, EvalBool(And(tru, tru), testRow, testCols))
	assert.False(t, EvalBool(And(tru, fls), testRow, testCols))
	assert.True(t, EvalBool(Or(fls, tru), testRow, testCols))
	assert.False(t, EvalBool(Or(fls, fls), testRow, testCols))
}

func TestLogicalFailsClosedOnNonBool(t *testing.T) {
	tru := Lit(value.Bool(true))
	// Non-Bool operands yield Bool(false), not an error: OR with one true
	// side still fails when the other side is a bare literal.
	assert.False(t, EvalBool(And(tru, Lit(value.Int(1))), testRow, testCols))
	assert.False(t, EvalBool(Or(tru, Lit(value.Int(1))), testRow, testCols))
}

func TestEvalBoolNonBoolIsFalse(t *testing.T) {
	assert.False(t, EvalBool(Lit(value.Int(1)), testRow, testCols))
	assert.False(t, EvalBool(Col("name"), testRow, testCols))
}

func TestIndexLookupRecognition(t *testing.T) {
	col, val, ok := IndexLookup(Eq(Col("id"), Lit(value.Int(7))))
	require.True(t, ok)
	assert.Equal(t, "id", col)
	assert.Equal(t, value.Int(7), val)

	// Either operand order is recognized.
	col, val, ok = IndexLookup(Eq(Lit(value.Int(7)), Col("id")))
	require.True(t, ok)
	assert.Equal(t, "id", col)
	assert.Equal(t, value.Int(7), val)
}

func TestIndexLookupStaysNarrow(t *testing.T) {
	eq := Eq(Col("id"), Lit(value.Int(7)))
	notRecognized := []Expr{
		Gt(Col("id"), Lit(value.Int(7))),     // wrong operator
		And(eq, Lit(value.Bool(true))),       // equality nested under AND
		Or(eq, eq),                           // nested under OR
		Eq(Col("id"), Col("id")),             // column on both sides
		Eq(Lit(value.Int(7)), Lit(value.Int(7))), // literal on both sides
	}
	for _, e := range notRecognized {
		_, _, ok := IndexLookup(e)
		assert.False(t, ok)
	}
}
