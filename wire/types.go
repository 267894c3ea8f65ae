package wire

import "tabdb/value"

// ColumnDef mirrors a tabdb.Column for transport. Type is the textual type
// name ("int", "text", "bool", "null").
type ColumnDef struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Indexed bool   `json:"indexed,omitempty"`
}

// CreateTableRequest (OpCreateTable)
type CreateTableRequest struct {
	Token   string      `json:"token,omitempty"`
	Table   string      `json:"table"`
	Columns []ColumnDef `json:"columns"`
}

// InsertRequest (OpInsert)
type InsertRequest struct {
	Token string        `json:"token,omitempty"`
	Table string        `json:"table"`
	Row   []value.Value `json:"row"`
}

// QueryRequest (OpQuery) carries query text in the parser package's dialect;
// the server parses and executes it.
type QueryRequest struct {
	Token string `json:"token,omitempty"`
	SQL   string `json:"sql"`
}

// Reply (OpReply or OpError)
type Reply struct {
	Error   string          `json:"error,omitempty"`
	Columns []string        `json:"columns,omitempty"`
	Rows    [][]value.Value `json:"rows,omitempty"`
	Count   int             `json:"count,omitempty"`
}
