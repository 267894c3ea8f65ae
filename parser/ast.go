package parser

import (
	"tabdb"
	"tabdb/query"
	"tabdb/value"
)

// Statement is the common interface for all parsed statements.
type Statement interface {
	stmtNode()
}

// CreateTableStmt represents CREATE TABLE name (col TYPE [INDEXED], ...).
type CreateTableStmt struct {
	Table   string
	Columns []tabdb.Column
}

func (*CreateTableStmt) stmtNode() {}

// InsertStmt represents INSERT INTO name VALUES (lit, ...).
type InsertStmt struct {
	Table string
	Row   []value.Value
}

func (*InsertStmt) stmtNode() {}

// SelectStmt represents a SELECT; Query carries projection, filter,
// ordering and pagination in exactly the form the engine executes.
type SelectStmt struct {
	Table string
	Query query.Query
}

func (*SelectStmt) stmtNode() {}
