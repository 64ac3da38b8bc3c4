package store

import (
	"testing"
)

func TestStringSumHash(t *testing.T) {
	tests := []struct {
		name string
		hash uint64
		want uint64
	}{
		{"empty string", StringSumHash(""), 0},
		{"single char", StringSumHash("a"), 97},
		{"two chars", StringSumHash("13"), '1'*1 + '3'*2},
		{"int key", StringSumHash(13), '1'*1 + '3'*2},
		{"negative int", StringSumHash(-1), '-'*1 + '1'*2},
		{"bool key", StringSumHash(true), 't'*1 + 'r'*2 + 'u'*3 + 'e'*4},
		{"non ascii", StringSumHash("é"), 0xe9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.hash != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, tt.hash)
			}
		})
	}
}

func TestStringSumHashDeterministic(t *testing.T) {
	type point struct{ X, Y int }

	if StringSumHash(point{1, 2}) != StringSumHash(point{1, 2}) {
		t.Error("Expected equal struct keys to hash equally")
	}

	x := 1
	p := &x
	before := StringSumHash(p)
	x = 2
	if StringSumHash(p) != before {
		t.Error("Expected pointer hash to ignore the pointee")
	}
}

func TestPosition(t *testing.T) {
	tests := []struct {
		h        uint64
		capacity int
		want     int
	}{
		{0, 8, 0},
		{7, 8, 7},
		{8, 8, 0},
		{'1' + '3'*2, 8, ('1' + '3'*2) % 8},
		{^uint64(0), 16, 15},
	}

	for _, tt := range tests {
		if got := position(tt.h, tt.capacity); got != tt.want {
			t.Errorf("position(%d, %d) = %d, want %d", tt.h, tt.capacity, got, tt.want)
		}
	}
}

func TestIsNilKey(t *testing.T) {
	var nilPtr *int
	var nilChan chan int
	x := 0

	tests := []struct {
		name  string
		isNil bool
	}{
		{"nil pointer", isNilKey(nilPtr)},
		{"nil chan", isNilKey(nilChan)},
		{"nil interface", isNilKey[any](nil)},
		{"typed nil in interface", isNilKey[any](nilPtr)},
	}
	for _, tt := range tests {
		if !tt.isNil {
			t.Errorf("%s: expected nil key", tt.name)
		}
	}

	if isNilKey(&x) || isNilKey("") || isNilKey(0) || isNilKey[any](0) {
		t.Error("Expected non-nil keys to be accepted")
	}
}
