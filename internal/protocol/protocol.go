// Package protocol implements the wire codec shared by the server and
// client: a length-prefixed, newline-separated framing, symmetric in both
// directions (spec §4.3).
//
//	request:  <command> '\n' <key> '\n' <length:8 big-endian> '\n' <value>
//	response: <result>  '\n' <length:8 big-endian> '\n' <data>
package protocol

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Command is the request tag: PUT or GET.
type Command uint8

const (
	CommandPut Command = iota
	CommandGet
)

func (c Command) String() string {
	switch c {
	case CommandPut:
		return "put"
	case CommandGet:
		return "get"
	default:
		return "unknown"
	}
}

// Result is the response tag: SUCCESS or FAILURE.
type Result uint8

const (
	ResultSuccess Result = iota
	ResultFailure
)

func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// NotFoundMessage is the fixed payload of a GET-miss response (spec §3).
const NotFoundMessage = "Not Found"

// ErrMalformedFrame identifies a frame that parsed far enough to be
// recognized as ill-formed (a bad command/result word, a missing length
// terminator) as distinct from a frame that simply hasn't arrived yet in
// full. A connection that produces this error should be closed (spec §4.3,
// §7); a plain io.EOF or io.ErrUnexpectedEOF mid-read is not malformed —
// it's either a clean close or the peer going away, and callers should
// treat it as "stop reading," not "protocol violation."
var ErrMalformedFrame = errors.New("protocol: malformed frame")

// Request is a decoded PUT or GET command.
type Request struct {
	Command Command
	Key     string
	Value   []byte
}

// Response is a decoded SUCCESS or FAILURE result.
type Response struct {
	Result Result
	Data   []byte
}

func parseCommand(word string) (Command, bool) {
	switch word {
	case "put":
		return CommandPut, true
	case "get":
		return CommandGet, true
	default:
		return 0, false
	}
}

func parseResult(word string) (Result, bool) {
	switch word {
	case "success":
		return ResultSuccess, true
	case "failure":
		return ResultFailure, true
	default:
		return 0, false
	}
}

// readLine reads up to and including the next '\n', returning the bytes
// before it. A short read (no '\n' found before the stream ends) surfaces
// as io.EOF from bufio.Reader.ReadBytes, which
// callers propagate as "incomplete frame, stop reading" rather than
// malformed.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadBytes('\n')
	if err != nil {
		return "", err
	}
	return string(line[:len(line)-1]), nil
}

// readLength reads the 8-byte big-endian length field and its mandatory
// trailing '\n' separator (spec §4.3: the newline is a framing byte, not
// part of the integer).
func readLength(r *bufio.Reader) (uint64, error) {
	var raw [8]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return 0, err
	}
	length := binary.BigEndian.Uint64(raw[:])

	sep, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	if sep != '\n' {
		return 0, errors.Wrapf(ErrMalformedFrame, "length field missing newline separator, got %q", sep)
	}
	return length, nil
}

// ReadRequest decodes one request frame from r, blocking until the full
// frame has arrived, the connection closes, or a malformed frame is
// detected. A request whose value extent runs past the available bytes
// blocks inside io.ReadFull exactly as a short read on any other field
// does — Go's blocking I/O gives the "need more bytes, wait" behavior the
// reference codec had to return as an explicit sentinel.
func ReadRequest(r *bufio.Reader) (Request, error) {
	commandWord, err := readLine(r)
	if err != nil {
		return Request{}, err
	}
	command, ok := parseCommand(commandWord)
	if !ok {
		return Request{}, errors.Wrapf(ErrMalformedFrame, "unrecognized command %q", commandWord)
	}

	key, err := readLine(r)
	if err != nil {
		return Request{}, errors.Wrap(err, "reading request key")
	}

	length, err := readLength(r)
	if err != nil {
		return Request{}, errors.Wrap(err, "reading request length")
	}

	value := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, value); err != nil {
			return Request{}, errors.Wrap(err, "reading request value")
		}
	}

	return Request{Command: command, Key: key, Value: value}, nil
}

// WriteRequest encodes req to w. Encoding is deterministic and total: it
// never fails for any in-memory Request value, but returns the
// underlying write error if w.Write does.
func WriteRequest(w io.Writer, req Request) error {
	buf := make([]byte, 0, len(req.Command.String())+1+len(req.Key)+1+8+1+len(req.Value))
	buf = append(buf, req.Command.String()...)
	buf = append(buf, '\n')
	buf = append(buf, req.Key...)
	buf = append(buf, '\n')

	var length [8]byte
	binary.BigEndian.PutUint64(length[:], uint64(len(req.Value)))
	buf = append(buf, length[:]...)
	buf = append(buf, '\n')
	buf = append(buf, req.Value...)

	_, err := w.Write(buf)
	return err
}

// ReadResponse decodes one response frame from r, with the same blocking
// and error semantics as ReadRequest.
func ReadResponse(r *bufio.Reader) (Response, error) {
	resultWord, err := readLine(r)
	if err != nil {
		return Response{}, err
	}
	result, ok := parseResult(resultWord)
	if !ok {
		return Response{}, errors.Wrapf(ErrMalformedFrame, "unrecognized result %q", resultWord)
	}

	length, err := readLength(r)
	if err != nil {
		return Response{}, errors.Wrap(err, "reading response length")
	}

	data := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, data); err != nil {
			return Response{}, errors.Wrap(err, "reading response data")
		}
	}

	return Response{Result: result, Data: data}, nil
}

// WriteResponse encodes resp to w.
func WriteResponse(w io.Writer, resp Response) error {
	buf := make([]byte, 0, len(resp.Result.String())+1+8+1+len(resp.Data))
	buf = append(buf, resp.Result.String()...)
	buf = append(buf, '\n')

	var length [8]byte
	binary.BigEndian.PutUint64(length[:], uint64(len(resp.Data)))
	buf = append(buf, length[:]...)
	buf = append(buf, '\n')
	buf = append(buf, resp.Data...)

	_, err := w.Write(buf)
	return err
}

// NotFoundResponse is the canonical GET-miss response (spec §3, §4.4).
func NotFoundResponse() Response {
	return Response{Result: ResultFailure, Data: []byte(NotFoundMessage)}
}
