package resp

import (
	"errors"
	"io"
	"runtime"
	"strings"
	"testing"
	"testing/iotest"
)

func TestDecodeFrames(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Value
		consumed int
	}{
		{
			name:     "simple string",
			input:    "+OK\r\n",
			expected: Value{Type: SimpleString, Str: "OK"},
			consumed: 5,
		},
		{
			name:     "empty simple string",
			input:    "+\r\n",
			expected: Value{Type: SimpleString, Str: ""},
			consumed: 3,
		},
		{
			name:     "error",
			input:    "-WRONGTYPE Operation against a key holding the wrong kind of value\r\n",
			expected: Value{Type: Error, Str: "WRONGTYPE Operation against a key holding the wrong kind of value"},
			consumed: 68,
		},
		{
			name:     "negative integer",
			input:    ":-42\r\n",
			expected: Value{Type: Integer, Int: -42},
			consumed: 6,
		},
		{
			name:     "bulk string",
			input:    "$5\r\nhello\r\n",
			expected: Value{Type: BulkString, Str: "hello"},
			consumed: 11,
		},
		{
			name:     "bulk string with CRLF inside",
			input:    "$7\r\nfoo\r\nba\r\n",
			expected: Value{Type: BulkString, Str: "foo\r\nba"},
			consumed: 13,
		},
		{
			name:     "empty bulk string",
			input:    "$0\r\n\r\n",
			expected: Value{Type: BulkString, Str: ""},
			consumed: 6,
		},
		{
			name:     "null bulk string",
			input:    "$-1\r\n",
			expected: Value{Type: BulkString, Null: true},
			consumed: 5,
		},
		{
			name:     "null array",
			input:    "*-1\r\n",
			expected: Value{Type: Array, Null: true},
			consumed: 5,
		},
		{
			name:  "command array",
			input: "*3\r\n$4\r\nHSET\r\n$1\r\nh\r\n$2\r\n13\r\n",
			expected: Value{Type: Array, Array: []Value{
				{Type: BulkString, Str: "HSET"},
				{Type: BulkString, Str: "h"},
				{Type: BulkString, Str: "13"},
			}},
			consumed: 29,
		},
		{
			name:  "nested array",
			input: "*2\r\n*1\r\n:1\r\n+x\r\n",
			expected: Value{Type: Array, Array: []Value{
				{Type: Array, Array: []Value{{Type: Integer, Int: 1}}},
				{Type: SimpleString, Str: "x"},
			}},
			consumed: 16,
		},
		{
			name:  "inline command",
			input: "SET  key value\r\n",
			expected: Value{Type: Array, Array: []Value{
				{Type: BulkString, Str: "SET"},
				{Type: BulkString, Str: "key"},
				{Type: BulkString, Str: "value"},
			}},
			consumed: 16,
		},
		{
			name:     "trailing bytes are left alone",
			input:    "+OK\r\n+NEXT\r\n",
			expected: Value{Type: SimpleString, Str: "OK"},
			consumed: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n, err := Decode([]byte(tt.input))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if n != tt.consumed {
				t.Errorf("Decode() consumed %d bytes, want %d", n, tt.consumed)
			}
			if !valuesEqual(got, tt.expected) {
				t.Errorf("Decode() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestDecodeIncomplete(t *testing.T) {
	full := "*2\r\n$3\r\nGET\r\n$3\r\nkey\r\n"

	for i := 0; i < len(full); i++ {
		_, _, err := Decode([]byte(full[:i]))
		if !errors.Is(err, ErrIncomplete) {
			t.Fatalf("prefix %q: expected ErrIncomplete, got %v", full[:i], err)
		}
	}

	if _, n, err := Decode([]byte(full)); err != nil || n != len(full) {
		t.Fatalf("full frame: n=%d err=%v", n, err)
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"unknown type byte", "!oops\r\n", ErrInvalidType},
		{"bad integer", ":abc\r\n", ErrInvalidFormat},
		{"missing CR", "+OK\n", ErrInvalidFormat},
		{"bad bulk length", "$x\r\n", ErrInvalidFormat},
		{"negative bulk length", "$-2\r\n", ErrInvalidFormat},
		{"bulk without CRLF", "$3\r\nabcde", ErrInvalidFormat},
		{"bad array length", "*z\r\n", ErrInvalidFormat},
		{"oversized array length", "*1048577\r\n", ErrInvalidFormat},
		{"huge array length", "*536870912\r\n", ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode([]byte(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode(%q) error = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestDecodeLargeArrayHeader(t *testing.T) {
	input := []byte("*1048576\r\n$4\r\nPING\r\n")

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, _, err := Decode(input)
	runtime.ReadMemStats(&after)

	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("Decode error = %v, want %v", err, ErrIncomplete)
	}
	if allocated := after.TotalAlloc - before.TotalAlloc; allocated > 1<<16 {
		t.Errorf("Decode of a %d byte header allocated %d bytes", len(input), allocated)
	}
}

func TestParserStream(t *testing.T) {
	input := "+OK\r\n:7\r\n*2\r\n$4\r\nECHO\r\n$2\r\nhi\r\n"
	parser := NewParser(iotest.OneByteReader(strings.NewReader(input)))

	expected := []Value{
		SimpleStringValue("OK"),
		IntegerValue(7),
		Command("ECHO", "hi"),
	}

	for i, want := range expected {
		got, err := parser.Parse()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if !valuesEqual(got, want) {
			t.Errorf("frame %d = %+v, want %+v", i, got, want)
		}
	}

	if _, err := parser.Parse(); err != io.EOF {
		t.Errorf("expected io.EOF at end of stream, got %v", err)
	}
}

func TestParserTruncatedStream(t *testing.T) {
	parser := NewParser(strings.NewReader("$10\r\nshort"))
	if _, err := parser.Parse(); err != io.ErrUnexpectedEOF {
		t.Errorf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func valuesEqual(a, b Value) bool {
	if a.Type != b.Type || a.Str != b.Str || a.Int != b.Int || a.Null != b.Null {
		return false
	}
	if len(a.Array) != len(b.Array) {
		return false
	}
	for i := range a.Array {
		if !valuesEqual(a.Array[i], b.Array[i]) {
			return false
		}
	}
	return true
}
