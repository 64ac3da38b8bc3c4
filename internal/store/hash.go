package store

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/cast"
)

// Hasher maps a key to an unsigned hash. The table reduces it modulo its
// current capacity.
type Hasher[K comparable] func(key K) uint64

// StringSumHash is the default hasher: the sum of each character code
// weighted by its 1-based position in the key's canonical string form.
// Cheap and deterministic, not collision resistant.
func StringSumHash[K comparable](key K) uint64 {
	var h uint64
	i := uint64(1)
	for _, c := range canonicalString(key) {
		h += uint64(c) * i
		i++
	}
	return h
}

func position(h uint64, capacity int) int {
	return int(h % uint64(capacity))
}

func canonicalString[K comparable](key K) string {
	v := any(key)
	if s, ok := v.(string); ok {
		return s
	}
	return canonicalValue(reflect.ValueOf(v))
}

// canonicalValue renders v so that values equal under == render identically.
func canonicalValue(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Invalid:
		return "<nil>"
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		// identity, not contents: a pointee can change while the key is stored
		return fmt.Sprintf("%#x", v.Pointer())
	case reflect.String:
		return v.String()
	case reflect.Float32, reflect.Float64:
		// +0 folds -0 into 0
		return cast.ToString(v.Float() + 0)
	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		return fmt.Sprint(complex(real(c)+0, imag(c)+0))
	case reflect.Interface:
		if v.IsNil() {
			return "<nil>"
		}
		return canonicalValue(v.Elem())
	case reflect.Struct:
		parts := make([]string, v.NumField())
		for i := range parts {
			parts[i] = canonicalValue(v.Field(i))
		}
		return "{" + strings.Join(parts, " ") + "}"
	case reflect.Array:
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = canonicalValue(v.Index(i))
		}
		return "[" + strings.Join(parts, " ") + "]"
	}

	if v.CanInterface() {
		if s, err := cast.ToStringE(v.Interface()); err == nil {
			return s
		}
	}
	return fmt.Sprint(v)
}

func isNilKey[K comparable](key K) bool {
	v := any(key)
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}
