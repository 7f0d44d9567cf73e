package protocol

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// beLength renders n as the 8-byte big-endian field the wire format uses.
func beLength(n uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], n)
	return buf[:]
}

func TestEncodesPutCommand(t *testing.T) {
	var buf bytes.Buffer
	req := Request{Command: CommandPut, Key: "key", Value: []byte("value")}
	require.NoError(t, WriteRequest(&buf, req))

	var expected bytes.Buffer
	expected.WriteString("put\n")
	expected.WriteString("key\n")
	expected.Write(beLength(5))
	expected.WriteByte('\n')
	expected.WriteString("value")

	assert.Equal(t, expected.Bytes(), buf.Bytes())
}

func TestEncodesGetCommand(t *testing.T) {
	var buf bytes.Buffer
	req := Request{Command: CommandGet, Key: "key"}
	require.NoError(t, WriteRequest(&buf, req))

	var expected bytes.Buffer
	expected.WriteString("get\n")
	expected.WriteString("key\n")
	expected.Write(beLength(0))
	expected.WriteByte('\n')

	assert.Equal(t, expected.Bytes(), buf.Bytes())
}

func TestDecodesPutCommandWithValue(t *testing.T) {
	var wire bytes.Buffer
	wire.WriteString("put\nkey\n")
	wire.Write(beLength(5))
	wire.WriteByte('\n')
	wire.WriteString("value")

	req, err := ReadRequest(bufio.NewReader(&wire))
	require.NoError(t, err)
	assert.Equal(t, CommandPut, req.Command)
	assert.Equal(t, "key", req.Key)
	assert.Equal(t, []byte("value"), req.Value)
}

func TestDecodesGetCommand(t *testing.T) {
	var wire bytes.Buffer
	wire.WriteString("get\nkey\n")
	wire.Write(beLength(0))
	wire.WriteByte('\n')

	req, err := ReadRequest(bufio.NewReader(&wire))
	require.NoError(t, err)
	assert.Equal(t, CommandGet, req.Command)
	assert.Equal(t, "key", req.Key)
	assert.Empty(t, req.Value)
}

func TestDecodeRejectsUnknownCommand(t *testing.T) {
	var wire bytes.Buffer
	wire.WriteString("delete\nkey\n")
	wire.Write(beLength(0))

	_, err := ReadRequest(bufio.NewReader(&wire))
	assert.ErrorIs(t, err, ErrMalformedFrame)
}

func TestDecodeRejectsMissingLengthSeparator(t *testing.T) {
	var wire bytes.Buffer
	wire.WriteString("get\nkey\n")
	wire.Write(beLength(0))
	wire.WriteByte('X') // should have been '\n'

	_, err := ReadRequest(bufio.NewReader(&wire))
	assert.ErrorIs(t, err, ErrMalformedFrame)
}

func TestRequestRoundTrip(t *testing.T) {
	original := Request{Command: CommandPut, Key: "round-trip", Value: []byte("payload bytes")}

	var wire bytes.Buffer
	require.NoError(t, WriteRequest(&wire, original))

	decoded, err := ReadRequest(bufio.NewReader(&wire))
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
	assert.Zero(t, wire.Len(), "decoder must consume exactly the encoded bytes, leaving no residue")
}

func TestEncodesSuccessResultWithPayload(t *testing.T) {
	var buf bytes.Buffer
	resp := Response{Result: ResultSuccess, Data: []byte("cached data")}
	require.NoError(t, WriteResponse(&buf, resp))

	var expected bytes.Buffer
	expected.WriteString("success\n")
	expected.Write(beLength(11))
	expected.WriteByte('\n')
	expected.WriteString("cached data")

	assert.Equal(t, expected.Bytes(), buf.Bytes())
}

func TestNotFoundResponseEncoding(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResponse(&buf, NotFoundResponse()))

	var expected bytes.Buffer
	expected.WriteString("failure\n")
	expected.Write(beLength(9))
	expected.WriteByte('\n')
	expected.WriteString("Not Found")

	assert.Equal(t, expected.Bytes(), buf.Bytes())
}

func TestDecodesGetMissOverTheWire(t *testing.T) {
	var wire bytes.Buffer
	require.NoError(t, WriteResponse(&wire, NotFoundResponse()))

	resp, err := ReadResponse(bufio.NewReader(&wire))
	require.NoError(t, err)
	assert.Equal(t, ResultFailure, resp.Result)
	assert.Equal(t, uint64(9), uint64(len(resp.Data)))
	assert.Equal(t, "Not Found", string(resp.Data))
}

func TestResponseRoundTrip(t *testing.T) {
	original := Response{Result: ResultSuccess, Data: []byte("value bytes")}

	var wire bytes.Buffer
	require.NoError(t, WriteResponse(&wire, original))

	decoded, err := ReadResponse(bufio.NewReader(&wire))
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
	assert.Zero(t, wire.Len())
}

func TestReadRequestOnEmptyStreamReportsEOF(t *testing.T) {
	_, err := ReadRequest(bufio.NewReader(bytes.NewReader(nil)))
	assert.ErrorIs(t, err, io.EOF)
}

func TestPartialReadsAcrossMultipleWrites(t *testing.T) {
	// Simulate a frame arriving in pieces: io.Pipe blocks the reader goroutine
	// mid-frame exactly the way a slow socket would, which is the Go
	// equivalent of the reference codec's "need more bytes" return value.
	pr, pw := io.Pipe()
	reqCh := make(chan Request, 1)
	errCh := make(chan error, 1)

	go func() {
		req, err := ReadRequest(bufio.NewReader(pr))
		if err != nil {
			errCh <- err
			return
		}
		reqCh <- req
	}()

	var full bytes.Buffer
	require.NoError(t, WriteRequest(&full, Request{Command: CommandPut, Key: "chunked", Value: []byte("hello world")}))
	frame := full.Bytes()

	for _, chunk := range [][]byte{frame[:3], frame[3:10], frame[10:]} {
		_, err := pw.Write(chunk)
		require.NoError(t, err)
	}
	require.NoError(t, pw.Close())

	select {
	case req := <-reqCh:
		assert.Equal(t, "chunked", req.Key)
		assert.Equal(t, []byte("hello world"), req.Value)
	case err := <-errCh:
		t.Fatalf("unexpected decode error: %v", err)
	}
}
