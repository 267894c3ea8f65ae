// Package wire defines the network protocol spoken between the tabdb server
// and its clients.
//
// Message format:
//
//	[Header (5 bytes)] + [Body (JSON)]
//
// Header:
//   - OpCode (1 byte): operation type
//   - Length (4 bytes): uint32 big-endian size of Body
package wire

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// OpCode defines the operation type for the wire protocol.
type OpCode uint8

const (
	OpCreateTable OpCode = 1
	OpInsert      OpCode = 2
	OpQuery       OpCode = 3
	OpPing        OpCode = 4

	// Server responses
	OpReply OpCode = 10
	OpError OpCode = 11
)

// Header is the fixed-size message header.
type Header struct {
	OpCode OpCode
	Length uint32
}

const HeaderSize = 5

// MaxBodySize bounds a single message body; anything larger is rejected
// before allocation.
const MaxBodySize = 16 << 20

// WriteMessage encodes body as JSON and writes a framed message.
func WriteMessage(w io.Writer, op OpCode, body interface{}) error {
	var bodyBytes []byte
	var err error
	if body != nil {
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
	}

	header := make([]byte, HeaderSize)
	header[0] = byte(op)
	binary.BigEndian.PutUint32(header[1:], uint32(len(bodyBytes)))
	if _, err := w.Write(header); err != nil {
		return err
	}
	if len(bodyBytes) > 0 {
		if _, err := w.Write(bodyBytes); err != nil {
			return err
		}
	}
	return nil
}

// ReadHeader reads and decodes the message header.
func ReadHeader(r io.Reader) (Header, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Header{}, err
	}
	h := Header{
		OpCode: OpCode(buf[0]),
		Length: binary.BigEndian.Uint32(buf[1:]),
	}
	if h.Length > MaxBodySize {
		return Header{}, fmt.Errorf("body of %d bytes exceeds limit", h.Length)
	}
	return h, nil
}

// ReadRawBody reads exactly length bytes of body.
func ReadRawBody(r io.Reader, length uint32) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadBody reads the body and decodes it into v.
func ReadBody(r io.Reader, length uint32, v interface{}) error {
	raw, err := ReadRawBody(r, length)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}
