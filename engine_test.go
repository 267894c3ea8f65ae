package tabdb

import (
	"errors"
	"testing"

	"tabdb/query"
	"tabdb/value"
)

// usersEngine builds the users table used across the tests:
// id (int, indexed), name (text), active (bool).
func usersEngine() *Engine {
	e := New()
	e.CreateTable("users", []Column{
		{Name: "id", Type: value.TypeInt, Indexed: true},
		{Name: "name", Type: value.TypeText},
		{Name: "active", Type: value.TypeBool},
	})
	return e
}

func mustInsert(t *testing.T, e *Engine, table string, rows ...[]value.Value) {
	t.Helper()
	for _, row := range rows {
		if err := e.Insert(table, row); err != nil {
			t.Fatalf("insert %v: %v", row, err)
		}
	}
}

func TestInsertAndSelectAll(t *testing.T) {
	e := usersEngine()
	mustInsert(t, e, "users",
		[]value.Value{value.Int(1), value.Text("Alice"), value.Bool(true)},
		[]value.Value{value.Int(2), value.Text("Bob"), value.Bool(false)},
	)

	rows, err := e.Select("users", query.Query{})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][1] != value.Text("Alice") || rows[1][1] != value.Text("Bob") {
		t.Errorf("rows out of insertion order: %v", rows)
	}
}

func TestInsertTableNotFound(t *testing.T) {
	e := New()
	err := e.Insert("missing", []value.Value{value.Int(1)})
	if !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("expected ErrTableNotFound, got %v", err)
	}
}

func TestInsertArityMismatch(t *testing.T) {
	e := usersEngine()
	err := e.Insert("users", []value.Value{value.Int(1), value.Text("Alice")})
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch for short row, got %v", err)
	}
}

func TestInsertTypeGate(t *testing.T) {
	e := usersEngine()
	// First column wrong kind; the rest are valid.
	err := e.Insert("users", []value.Value{value.Text("x"), value.Text("y"), value.Bool(true)})
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}

	// The failed insert must leave no row and no index entry behind.
	rows, err := e.Select("users", query.Query{})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows after failed insert, got %d", len(rows))
	}
	for _, bucket := range e.tables["users"].indexes["id"] {
		t.Errorf("index bucket written by failed insert: %v", bucket)
	}
}

func TestInsertNullIntoTypedColumn(t *testing.T) {
	e := usersEngine()
	// Any column implicitly admits Null.
	if err := e.Insert("users", []value.Value{value.Null, value.Null, value.Null}); err != nil {
		t.Fatalf("null row rejected: %v", err)
	}
}

func TestCreateTableOverwrites(t *testing.T) {
	e := usersEngine()
	mustInsert(t, e, "users",
		[]value.Value{value.Int(1), value.Text("Alice"), value.Bool(true)},
	)

	// Re-creating under the same name discards prior rows.
	e.CreateTable("users", []Column{{Name: "id", Type: value.TypeInt}})
	rows, err := e.Select("users", query.Query{})
	if err != nil {
		t.Fatalf("select after re-create: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty table after re-create, got %d rows", len(rows))
	}
}

func TestIndependentEngines(t *testing.T) {
	a := usersEngine()
	b := New()
	if _, err := b.Select("users", query.Query{}); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("engines share state: %v", err)
	}
	if _, err := a.Select("users", query.Query{}); err != nil {
		t.Fatalf("select: %v", err)
	}
}

func TestSchema(t *testing.T) {
	e := usersEngine()
	cols, err := e.Schema("users")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if len(cols) != 3 || cols[0].Name != "id" || !cols[0].Indexed {
		t.Errorf("unexpected schema: %+v", cols)
	}
	if _, err := e.Schema("missing"); !errors.Is(err, ErrTableNotFound) {
		t.Errorf("expected ErrTableNotFound, got %v", err)
	}
}
