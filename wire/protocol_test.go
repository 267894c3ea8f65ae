package wire

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabdb/value"
)

func TestMessageRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	req := InsertRequest{
		Token: "secret",
		Table: "users",
		Row:   []value.Value{value.Int(1), value.Text("Alice"), value.Null},
	}
	require.NoError(t, WriteMessage(&buf, OpInsert, req))

	header, err := ReadHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, OpInsert, header.OpCode)
	assert.Equal(t, uint32(buf.Len()), header.Length)

	var got InsertRequest
	require.NoError(t, ReadBody(&buf, header.Length, &got))
	assert.Equal(t, req, got)
	assert.Zero(t, buf.Len(), "body must be fully consumed")
}

func TestEmptyBody(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMessage(&buf, OpPing, nil))
	assert.Equal(t, HeaderSize, buf.Len())

	header, err := ReadHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, OpPing, header.OpCode)
	assert.Zero(t, header.Length)

	var reply Reply
	require.NoError(t, ReadBody(&buf, header.Length, &reply))
}

func TestHeaderLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMessage(&buf, OpQuery, QueryRequest{SQL: "x"}))

	raw := buf.Bytes()
	assert.Equal(t, byte(OpQuery), raw[0])
	// Length is big-endian and counts only the body.
	bodyLen := len(raw) - HeaderSize
	assert.Equal(t, []byte{0, 0, 0, byte(bodyLen)}, raw[1:HeaderSize])
}

func TestReadHeaderRejectsOversizedBody(t *testing.T) {
	raw := []byte{byte(OpInsert), 0xFF, 0xFF, 0xFF, 0xFF}
	_, err := ReadHeader(bytes.NewReader(raw))
	assert.Error(t, err)
}

func TestReadHeaderShortRead(t *testing.T) {
	_, err := ReadHeader(bytes.NewReader([]byte{byte(OpPing), 0}))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReadRawBodyTruncated(t *testing.T) {
	_, err := ReadRawBody(bytes.NewReader([]byte("short")), 100)
	assert.Error(t, err)
}
