// Package parser turns the textual query dialect into the structured
// Statement / query.Query forms the tabdb engine consumes. The engine never
// parses text itself; this package is its only text-facing collaborator.
//
// Dialect:
//
//	CREATE TABLE users (id INT INDEXED, name TEXT, active BOOL)
//	INSERT INTO users VALUES (1, 'Alice', TRUE)
//	SELECT name, id FROM users WHERE id > 1 AND active = TRUE
//	    ORDER BY id DESC LIMIT 1 OFFSET 0
//
// Keywords are case-insensitive. WHERE supports =, !=, <>, <, <=, >, >=,
// AND, OR and parentheses; AND binds tighter than OR. Literals are signed
// integers, single-quoted strings, TRUE/FALSE and NULL. LIMIT 0 and
// OFFSET 0 are accepted and equivalent to omitting the clause: the engine
// treats a zero limit as unlimited and a zero offset as none.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"tabdb"
	"tabdb/query"
	"tabdb/value"
)

type parser struct {
	tokens []token
	pos    int
}

// Parse parses a single statement.
func Parse(input string) (Statement, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}

	var stmt Statement
	switch {
	case p.peek().keyword("SELECT"):
		stmt, err = p.parseSelect()
	case p.peek().keyword("INSERT"):
		stmt, err = p.parseInsert()
	case p.peek().keyword("CREATE"):
		stmt, err = p.parseCreateTable()
	default:
		return nil, fmt.Errorf("expected SELECT, INSERT or CREATE, got %q", p.peek().text)
	}
	if err != nil {
		return nil, err
	}

	// Optional trailing semicolon, then the input must be exhausted.
	if p.peek().kind == tokenSymbol && p.peek().text == ";" {
		p.next()
	}
	if p.peek().kind != tokenEOF {
		return nil, fmt.Errorf("unexpected trailing input %q", p.peek().text)
	}
	return stmt, nil
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

func (p *parser) expectKeyword(kw string) error {
	if !p.peek().keyword(kw) {
		return fmt.Errorf("expected %s, got %q", kw, p.peek().text)
	}
	p.next()
	return nil
}

func (p *parser) expectSymbol(sym string) error {
	t := p.peek()
	if t.kind != tokenSymbol || t.text != sym {
		return fmt.Errorf("expected %q, got %q", sym, t.text)
	}
	p.next()
	return nil
}

func (p *parser) expectIdent() (string, error) {
	t := p.peek()
	if t.kind != tokenIdent {
		return "", fmt.Errorf("expected identifier, got %q", t.text)
	}
	p.next()
	return t.text, nil
}

func (p *parser) parseCreateTable() (*CreateTableStmt, error) {
	if err := p.expectKeyword("CREATE"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}

	var columns []tabdb.Column
	for {
		colName, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		typeName, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		colType, err := value.ParseType(strings.ToLower(typeName))
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", colName, err)
		}
		col := tabdb.Column{Name: colName, Type: colType}
		if p.peek().keyword("INDEXED") {
			p.next()
			col.Indexed = true
		}
		columns = append(columns, col)

		if p.peek().kind == tokenSymbol && p.peek().text == "," {
			p.next()
			continue
		}
		break
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	return &CreateTableStmt{Table: name, Columns: columns}, nil
}

func (p *parser) parseInsert() (*InsertStmt, error) {
	if err := p.expectKeyword("INSERT"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("INTO"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("VALUES"); err != nil {
		return nil, err
	}
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}

	var row []value.Value
	for {
		v, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		row = append(row, v)
		if p.peek().kind == tokenSymbol && p.peek().text == "," {
			p.next()
			continue
		}
		break
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	return &InsertStmt{Table: name, Row: row}, nil
}

func (p *parser) parseSelect() (*SelectStmt, error) {
	if err := p.expectKeyword("SELECT"); err != nil {
		return nil, err
	}

	var q query.Query
	if p.peek().kind == tokenSymbol && p.peek().text == "*" {
		p.next()
	} else {
		for {
			col, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			q.Columns = append(q.Columns, col)
			if p.peek().kind == tokenSymbol && p.peek().text == "," {
				p.next()
				continue
			}
			break
		}
	}

	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	if p.peek().keyword("WHERE") {
		p.next()
		q.Filter, err = p.parseOr()
		if err != nil {
			return nil, err
		}
	}

	if p.peek().keyword("ORDER") {
		p.next()
		if err := p.expectKeyword("BY"); err != nil {
			return nil, err
		}
		col, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		order := &query.OrderBy{Column: col}
		if p.peek().keyword("DESC") {
			p.next()
			order.Desc = true
		} else if p.peek().keyword("ASC") {
			p.next()
		}
		q.OrderBy = order
	}

	if p.peek().keyword("LIMIT") {
		p.next()
		q.Limit, err = p.parseCount("LIMIT")
		if err != nil {
			return nil, err
		}
	}

	if p.peek().keyword("OFFSET") {
		p.next()
		q.Offset, err = p.parseCount("OFFSET")
		if err != nil {
			return nil, err
		}
	}

	return &SelectStmt{Table: name, Query: q}, nil
}

func (p *parser) parseCount(clause string) (int, error) {
	t := p.peek()
	if t.kind != tokenNumber {
		return 0, fmt.Errorf("%s expects a number, got %q", clause, t.text)
	}
	n, err := strconv.Atoi(t.text)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s expects a non-negative count, got %q", clause, t.text)
	}
	p.next()
	return n, nil
}

// parseOr parses a chain of OR-connected terms; OR binds loosest.
func (p *parser) parseOr() (query.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().keyword("OR") {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = query.Or(left, right)
	}
	return left, nil
}

func (p *parser) parseAnd() (query.Expr, error) {
	left, err := p.parsePredicate()
	if err != nil {
		return nil, err
	}
	for p.peek().keyword("AND") {
		p.next()
		right, err := p.parsePredicate()
		if err != nil {
			return nil, err
		}
		left = query.And(left, right)
	}
	return left, nil
}

// parsePredicate parses a parenthesized expression or a single comparison
// `operand op operand`.
func (p *parser) parsePredicate() (query.Expr, error) {
	if p.peek().kind == tokenSymbol && p.peek().text == "(" {
		p.next()
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		return e, nil
	}

	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	op, err := p.parseCompareOp()
	if err != nil {
		return nil, err
	}
	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return query.Cmp(op, left, right), nil
}

// parseOperand parses a column reference or a literal.
func (p *parser) parseOperand() (query.Expr, error) {
	t := p.peek()
	if t.kind == tokenIdent && !t.keyword("TRUE") && !t.keyword("FALSE") && !t.keyword("NULL") {
		p.next()
		return query.Col(t.text), nil
	}
	v, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	return query.Lit(v), nil
}

func (p *parser) parseCompareOp() (query.Operator, error) {
	t := p.peek()
	if t.kind != tokenSymbol {
		return "", fmt.Errorf("expected comparison operator, got %q", t.text)
	}
	var op query.Operator
	switch t.text {
	case "=":
		op = query.OpEq
	case "!=", "<>":
		op = query.OpNeq
	case "<":
		op = query.OpLt
	case "<=":
		op = query.OpLte
	case ">":
		op = query.OpGt
	case ">=":
		op = query.OpGte
	default:
		return "", fmt.Errorf("expected comparison operator, got %q", t.text)
	}
	p.next()
	return op, nil
}

func (p *parser) parseLiteral() (value.Value, error) {
	t := p.peek()
	switch {
	case t.kind == tokenNumber:
		i, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return value.Null, fmt.Errorf("bad integer %q: %w", t.text, err)
		}
		p.next()
		return value.Int(i), nil
	case t.kind == tokenString:
		p.next()
		return value.Text(t.text), nil
	case t.keyword("TRUE"):
		p.next()
		return value.Bool(true), nil
	case t.keyword("FALSE"):
		p.next()
		return value.Bool(false), nil
	case t.keyword("NULL"):
		p.next()
		return value.Null, nil
	}
	return value.Null, fmt.Errorf("expected literal, got %q", t.text)
}
