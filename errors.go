package tabdb

import "errors"

// Sentinel errors returned by the engine. Callers match them with
// errors.Is; returned errors wrap these with context (table, column).
var (
	ErrTableNotFound  = errors.New("table not found")
	ErrColumnNotFound = errors.New("column not found")
	ErrTypeMismatch   = errors.New("type mismatch")
)
