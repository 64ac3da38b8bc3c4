package resp

import (
	"fmt"
	"io"
	"strconv"
)

type Serializer struct {
	writer  io.Writer
	scratch []byte
}

func NewSerializer(w io.Writer) *Serializer {
	return &Serializer{writer: w, scratch: make([]byte, 0, 64)}
}

func (s *Serializer) Serialize(v Value) error {
	switch v.Type {
	case SimpleString, Error:
		return s.writeLine(v.Type, v.Str)
	case Integer:
		return s.writeHeader(Integer, v.Int)
	case BulkString:
		if v.Null {
			return s.writeHeader(BulkString, -1)
		}
		if err := s.writeHeader(BulkString, int64(len(v.Str))); err != nil {
			return err
		}
		if _, err := io.WriteString(s.writer, v.Str); err != nil {
			return err
		}
		_, err := io.WriteString(s.writer, "\r\n")
		return err
	case Array:
		if v.Null {
			return s.writeHeader(Array, -1)
		}
		if err := s.writeHeader(Array, int64(len(v.Array))); err != nil {
			return err
		}
		for _, elem := range v.Array {
			if err := s.Serialize(elem); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %c", ErrInvalidType, v.Type)
	}
}

func (s *Serializer) writeHeader(t Type, n int64) error {
	s.scratch = append(s.scratch[:0], byte(t))
	s.scratch = strconv.AppendInt(s.scratch, n, 10)
	s.scratch = append(s.scratch, '\r', '\n')
	_, err := s.writer.Write(s.scratch)
	return err
}

func (s *Serializer) writeLine(t Type, str string) error {
	s.scratch = append(s.scratch[:0], byte(t))
	s.scratch = append(s.scratch, str...)
	s.scratch = append(s.scratch, '\r', '\n')
	_, err := s.writer.Write(s.scratch)
	return err
}

func SimpleStringValue(str string) Value {
	return Value{Type: SimpleString, Str: str}
}

func ErrorValue(str string) Value {
	return Value{Type: Error, Str: str}
}

func IntegerValue(num int64) Value {
	return Value{Type: Integer, Int: num}
}

func BulkStringValue(str string) Value {
	return Value{Type: BulkString, Str: str}
}

func NullBulkStringValue() Value {
	return Value{Type: BulkString, Null: true}
}

func ArrayValue(values ...Value) Value {
	if values == nil {
		values = []Value{}
	}
	return Value{Type: Array, Array: values}
}

func NullArrayValue() Value {
	return Value{Type: Array, Null: true}
}

func BulkStrings(strs []string) Value {
	values := make([]Value, len(strs))
	for i, s := range strs {
		values[i] = BulkStringValue(s)
	}
	return ArrayValue(values...)
}

func OKValue() Value {
	return SimpleStringValue("OK")
}

func PongValue() Value {
	return SimpleStringValue("PONG")
}

// Command builds the request frame a client sends for name and args.
func Command(name string, args ...string) Value {
	return BulkStrings(append([]string{name}, args...))
}

// Handler executes one command given its arguments (the command name excluded).
type Handler func(args []Value) Value
