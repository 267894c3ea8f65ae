package tabdb

import (
	"testing"

	"tabdb/query"
	"tabdb/value"
)

// benchEngine seeds n rows into a table with one indexed and one unindexed
// copy of the same key column, so the two lookup paths can be compared.
func benchEngine(b *testing.B, n int) *Engine {
	b.Helper()
	e := New()
	e.CreateTable("items", []Column{
		{Name: "id", Type: value.TypeInt, Indexed: true},
		{Name: "id_raw", Type: value.TypeInt},
		{Name: "label", Type: value.TypeText},
	})
	for i := 0; i < n; i++ {
		err := e.Insert("items", []value.Value{
			value.Int(int64(i)), value.Int(int64(i)), value.Text("item"),
		})
		if err != nil {
			b.Fatal(err)
		}
	}
	return e
}

func BenchmarkSelectIndexLookup(b *testing.B) {
	e := benchEngine(b, 10000)
	q := query.Query{Filter: query.Eq(query.Col("id"), query.Lit(value.Int(9999)))}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Select("items", q); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSelectFullScan(b *testing.B) {
	e := benchEngine(b, 10000)
	q := query.Query{Filter: query.Eq(query.Col("id_raw"), query.Lit(value.Int(9999)))}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Select("items", q); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkInsert(b *testing.B) {
	e := benchEngine(b, 0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		err := e.Insert("items", []value.Value{
			value.Int(int64(i)), value.Int(int64(i)), value.Text("item"),
		})
		if err != nil {
			b.Fatal(err)
		}
	}
}
