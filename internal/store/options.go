package store

import (
	"fmt"
)

const (
	DefaultInitialCapacity = 8
	DefaultLoadFactor      = 0.7

	DefaultArrayCapacity = 4
)

// MissingKeyPolicy decides what HashMap.Set does with a key that is not present.
type MissingKeyPolicy byte

const (
	SetFailsOnMissing MissingKeyPolicy = iota
	SetInsertsMissing
)

func (p MissingKeyPolicy) String() string {
	switch p {
	case SetFailsOnMissing:
		return "fail"
	case SetInsertsMissing:
		return "insert"
	default:
		return fmt.Sprintf("MissingKeyPolicy(%d)", byte(p))
	}
}

type config[K comparable] struct {
	initialCapacity int
	loadFactor      float64
	missingKey      MissingKeyPolicy
	hasher          Hasher[K]
}

type Option[K comparable] func(*config[K])

// WithInitialCapacity sets the bucket count used at construction and after
// Clear. It is rounded up to a power of two.
func WithInitialCapacity[K comparable](n int) Option[K] {
	return func(c *config[K]) {
		if n < 1 {
			panic(fmt.Sprintf("store: initial capacity must be positive, got %d", n))
		}
		c.initialCapacity = roundUpPow2(n)
	}
}

func WithLoadFactor[K comparable](f float64) Option[K] {
	return func(c *config[K]) {
		if f <= 0 || f > 1 {
			panic(fmt.Sprintf("store: load factor must be in (0, 1], got %v", f))
		}
		c.loadFactor = f
	}
}

func WithMissingKeyPolicy[K comparable](p MissingKeyPolicy) Option[K] {
	return func(c *config[K]) {
		c.missingKey = p
	}
}

func WithHasher[K comparable](h Hasher[K]) Option[K] {
	return func(c *config[K]) {
		if h == nil {
			panic("store: nil hasher")
		}
		c.hasher = h
	}
}

func roundUpPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

type ArrayOption func(*arrayConfig)

type arrayConfig struct {
	initialCapacity int
}

func WithArrayCapacity(n int) ArrayOption {
	return func(c *arrayConfig) {
		if n < 1 {
			panic(fmt.Sprintf("store: array capacity must be positive, got %d", n))
		}
		c.initialCapacity = n
	}
}
