// Package client implements a TCP client for the tabdb wire protocol.
package client

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"tabdb/value"
	"tabdb/wire"
)

// Client is a connection to a tabdb server. A client carries at most one
// in-flight request; the mutex serializes concurrent callers.
type Client struct {
	addr  string
	token string
	conn  net.Conn
	mu    sync.Mutex
}

// Connect dials a tabdb server. token may be empty when the server runs
// without authentication.
func Connect(addr, token string) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", addr, err)
	}
	return &Client{addr: addr, token: token, conn: conn}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// roundTrip sends one request and reads one reply.
func (c *Client) roundTrip(op wire.OpCode, req interface{}) (*wire.Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil, errors.New("client is closed")
	}

	if err := wire.WriteMessage(c.conn, op, req); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}

	header, err := wire.ReadHeader(c.conn)
	if err != nil {
		return nil, fmt.Errorf("read reply header: %w", err)
	}
	var reply wire.Reply
	if err := wire.ReadBody(c.conn, header.Length, &reply); err != nil {
		return nil, fmt.Errorf("read reply body: %w", err)
	}
	if header.OpCode == wire.OpError {
		return nil, fmt.Errorf("server: %s", reply.Error)
	}
	if header.OpCode != wire.OpReply {
		return nil, fmt.Errorf("unexpected opcode %d", header.OpCode)
	}
	return &reply, nil
}

// Ping checks connectivity.
func (c *Client) Ping() error {
	_, err := c.roundTrip(wire.OpPing, nil)
	return err
}

// CreateTable creates (or replaces) a table on the server.
func (c *Client) CreateTable(table string, columns []wire.ColumnDef) error {
	_, err := c.roundTrip(wire.OpCreateTable, wire.CreateTableRequest{
		Token:   c.token,
		Table:   table,
		Columns: columns,
	})
	return err
}

// Insert appends one row to a table on the server.
func (c *Client) Insert(table string, row []value.Value) error {
	_, err := c.roundTrip(wire.OpInsert, wire.InsertRequest{
		Token: c.token,
		Table: table,
		Row:   row,
	})
	return err
}

// Query runs query text in the server's dialect and returns the result
// rows plus the projected column names.
func (c *Client) Query(sql string) ([]string, [][]value.Value, error) {
	reply, err := c.roundTrip(wire.OpQuery, wire.QueryRequest{Token: c.token, SQL: sql})
	if err != nil {
		return nil, nil, err
	}
	return reply.Columns, reply.Rows, nil
}
