package resp

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

type Type byte

const (
	SimpleString Type = '+'
	Error        Type = '-'
	Integer      Type = ':'
	BulkString   Type = '$'
	Array        Type = '*'
)

const (
	MaxBulkLength  = 512 << 20
	MaxArrayLength = 1 << 20
)

var (
	ErrInvalidType   = errors.New("invalid RESP type")
	ErrInvalidFormat = errors.New("invalid RESP format")
	// ErrIncomplete means the buffer ends inside a frame; more input is needed.
	ErrIncomplete = errors.New("incomplete RESP frame")
)

type Value struct {
	Type  Type
	Str   string
	Int   int64
	Array []Value
	Null  bool
}

// Decode reads one frame from the start of buf and returns it with the number
// of bytes it occupied. Lines that do not start with a RESP type byte are
// treated as inline commands and split on whitespace.
func Decode(buf []byte) (Value, int, error) {
	return decodeAt(buf, 0)
}

func decodeAt(buf []byte, pos int) (Value, int, error) {
	if pos >= len(buf) {
		return Value{}, 0, ErrIncomplete
	}

	switch t := Type(buf[pos]); t {
	case SimpleString, Error:
		line, next, err := readLine(buf, pos+1)
		if err != nil {
			return Value{}, 0, err
		}
		return Value{Type: t, Str: line}, next, nil
	case Integer:
		line, next, err := readLine(buf, pos+1)
		if err != nil {
			return Value{}, 0, err
		}
		num, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			return Value{}, 0, fmt.Errorf("%w: invalid integer", ErrInvalidFormat)
		}
		return Value{Type: Integer, Int: num}, next, nil
	case BulkString:
		return decodeBulkString(buf, pos+1)
	case Array:
		return decodeArray(buf, pos+1)
	default:
		if pos == 0 && isInlineStart(buf[pos]) {
			return decodeInline(buf)
		}
		return Value{}, 0, fmt.Errorf("%w: %q", ErrInvalidType, buf[pos])
	}
}

func decodeBulkString(buf []byte, pos int) (Value, int, error) {
	length, next, err := readLength(buf, pos, "bulk string", MaxBulkLength)
	if err != nil {
		return Value{}, 0, err
	}
	if length == -1 {
		return Value{Type: BulkString, Null: true}, next, nil
	}

	end := next + length
	if end+2 > len(buf) {
		return Value{}, 0, ErrIncomplete
	}
	if buf[end] != '\r' || buf[end+1] != '\n' {
		return Value{}, 0, fmt.Errorf("%w: missing CRLF after bulk string", ErrInvalidFormat)
	}
	return Value{Type: BulkString, Str: string(buf[next:end])}, end + 2, nil
}

func decodeArray(buf []byte, pos int) (Value, int, error) {
	count, next, err := readLength(buf, pos, "array", MaxArrayLength)
	if err != nil {
		return Value{}, 0, err
	}
	if count == -1 {
		return Value{Type: Array, Null: true}, next, nil
	}

	// the shortest element ("+\r\n") is 3 bytes, so size by what has arrived
	array := make([]Value, 0, min(count, (len(buf)-next)/3))
	for range count {
		var elem Value
		elem, next, err = decodeAt(buf, next)
		if err != nil {
			return Value{}, 0, err
		}
		array = append(array, elem)
	}
	return Value{Type: Array, Array: array}, next, nil
}

func decodeInline(buf []byte) (Value, int, error) {
	end := bytes.IndexByte(buf, '\n')
	if end < 0 {
		return Value{}, 0, ErrIncomplete
	}

	fields := bytes.Fields(buf[:end])
	array := make([]Value, len(fields))
	for i, f := range fields {
		array[i] = BulkStringValue(string(f))
	}
	return Value{Type: Array, Array: array}, end + 1, nil
}

func isInlineStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func readLength(buf []byte, pos int, what string, limit int) (int, int, error) {
	line, next, err := readLine(buf, pos)
	if err != nil {
		return 0, 0, err
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < -1 || n > limit {
		return 0, 0, fmt.Errorf("%w: invalid %s length", ErrInvalidFormat, what)
	}
	return n, next, nil
}

func readLine(buf []byte, pos int) (string, int, error) {
	i := bytes.IndexByte(buf[pos:], '\n')
	if i < 0 {
		return "", 0, ErrIncomplete
	}
	end := pos + i
	if i == 0 || buf[end-1] != '\r' {
		return "", 0, fmt.Errorf("%w: missing CRLF", ErrInvalidFormat)
	}
	return string(buf[pos : end-1]), end + 1, nil
}

// Parser decodes frames from a stream.
type Parser struct {
	reader io.Reader
	buf    []byte
	chunk  []byte
}

func NewParser(r io.Reader) *Parser {
	return &Parser{
		reader: r,
		chunk:  make([]byte, 4096),
	}
}

func (p *Parser) Parse() (Value, error) {
	for {
		if len(p.buf) > 0 {
			v, n, err := Decode(p.buf)
			if err == nil {
				p.buf = p.buf[n:]
				return v, nil
			}
			if !errors.Is(err, ErrIncomplete) {
				return Value{}, err
			}
		}

		n, err := p.reader.Read(p.chunk)
		p.buf = append(p.buf, p.chunk[:n]...)
		if n > 0 {
			continue
		}
		if err == io.EOF && len(p.buf) > 0 {
			return Value{}, io.ErrUnexpectedEOF
		}
		if err != nil {
			return Value{}, err
		}
	}
}
