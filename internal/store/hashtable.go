package store

import (
	"iter"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

type entry[K comparable, V any] struct {
	key   K
	value V
	next  *entry[K, V]
}

type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// HashMap is a separately chained hash table. Each bucket holds the head of a
// singly linked chain; new entries are appended at the chain tail. The table
// doubles and rehashes before an insert would push the load factor over its
// threshold.
//
// A HashMap is not safe for concurrent use.
type HashMap[K comparable, V any] struct {
	buckets []*entry[K, V]
	count   int
	cfg     config[K]
}

func NewHashMap[K comparable, V any](opts ...Option[K]) *HashMap[K, V] {
	cfg := config[K]{
		initialCapacity: DefaultInitialCapacity,
		loadFactor:      DefaultLoadFactor,
		missingKey:      SetFailsOnMissing,
		hasher:          StringSumHash[K],
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &HashMap[K, V]{
		buckets: make([]*entry[K, V], cfg.initialCapacity),
		cfg:     cfg,
	}
}

func (m *HashMap[K, V]) Len() int {
	return m.count
}

func (m *HashMap[K, V]) Cap() int {
	return len(m.buckets)
}

func (m *HashMap[K, V]) LoadFactor() float64 {
	return float64(m.count) / float64(len(m.buckets))
}

func (m *HashMap[K, V]) bucket(key K) int {
	return position(m.cfg.hasher(key), len(m.buckets))
}

func (m *HashMap[K, V]) find(key K) *entry[K, V] {
	for e := m.buckets[m.bucket(key)]; e != nil; e = e.next {
		if e.key == key {
			return e
		}
	}
	return nil
}

func (m *HashMap[K, V]) Insert(key K, value V) error {
	if isNilKey(key) {
		return errors.Wrap(ErrNilKey, "insert")
	}
	if m.find(key) != nil {
		return errors.Wrapf(ErrDuplicateKey, "insert %v", key)
	}

	for float64(m.count+1)/float64(len(m.buckets)) > m.cfg.loadFactor {
		m.grow()
	}

	m.link(m.buckets, &entry[K, V]{key: key, value: value})
	m.count++
	return nil
}

// InsertAll inserts every entry it can and returns the combined failures.
func (m *HashMap[K, V]) InsertAll(entries ...Entry[K, V]) error {
	var err error
	for _, e := range entries {
		err = multierr.Append(err, m.Insert(e.Key, e.Value))
	}
	return err
}

func (m *HashMap[K, V]) Get(key K) (V, bool) {
	var zero V
	if isNilKey(key) {
		return zero, false
	}
	if e := m.find(key); e != nil {
		return e.value, true
	}
	return zero, false
}

func (m *HashMap[K, V]) At(key K) (V, error) {
	var zero V
	if isNilKey(key) {
		return zero, errors.Wrap(ErrNilKey, "at")
	}
	e := m.find(key)
	if e == nil {
		return zero, errors.Wrapf(ErrKeyNotFound, "at %v", key)
	}
	return e.value, nil
}

// Update calls fn with a pointer to the stored value. The pointer must not be
// retained after fn returns.
func (m *HashMap[K, V]) Update(key K, fn func(*V)) error {
	if isNilKey(key) {
		return errors.Wrap(ErrNilKey, "update")
	}
	e := m.find(key)
	if e == nil {
		return errors.Wrapf(ErrKeyNotFound, "update %v", key)
	}
	fn(&e.value)
	return nil
}

func (m *HashMap[K, V]) Set(key K, value V) error {
	if isNilKey(key) {
		return errors.Wrap(ErrNilKey, "set")
	}
	if e := m.find(key); e != nil {
		e.value = value
		return nil
	}
	if m.cfg.missingKey == SetInsertsMissing {
		return m.Insert(key, value)
	}
	return errors.Wrapf(ErrKeyNotFound, "set %v", key)
}

func (m *HashMap[K, V]) ContainsKey(key K) bool {
	if isNilKey(key) {
		return false
	}
	return m.find(key) != nil
}

func (m *HashMap[K, V]) Remove(key K) bool {
	if isNilKey(key) {
		return false
	}

	for link := &m.buckets[m.bucket(key)]; *link != nil; link = &(*link).next {
		if e := *link; e.key == key {
			*link = e.next
			e.next = nil
			m.count--
			return true
		}
	}
	return false
}

func (m *HashMap[K, V]) Delete(key K) error {
	if isNilKey(key) {
		return errors.Wrap(ErrNilKey, "delete")
	}
	if !m.Remove(key) {
		return errors.Wrapf(ErrKeyNotFound, "delete %v", key)
	}
	return nil
}

func (m *HashMap[K, V]) Clear() {
	m.buckets = make([]*entry[K, V], m.cfg.initialCapacity)
	m.count = 0
}

// All yields every pair, bucket by bucket and in chain order within a bucket.
// The map must not grow while the sequence is being consumed; removing the
// pair just yielded is allowed.
func (m *HashMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, head := range m.buckets {
			for e := head; e != nil; {
				next := e.next
				if !yield(e.key, e.value) {
					return
				}
				e = next
			}
		}
	}
}

func (m *HashMap[K, V]) Keys() []K {
	keys := make([]K, 0, m.count)
	for k := range m.All() {
		keys = append(keys, k)
	}
	return keys
}

func (m *HashMap[K, V]) Values() []V {
	values := make([]V, 0, m.count)
	for _, v := range m.All() {
		values = append(values, v)
	}
	return values
}

func (m *HashMap[K, V]) Entries() []Entry[K, V] {
	entries := make([]Entry[K, V], 0, m.count)
	for k, v := range m.All() {
		entries = append(entries, Entry[K, V]{Key: k, Value: v})
	}
	return entries
}

func (m *HashMap[K, V]) CopyTo(dst []Entry[K, V], offset int) error {
	if offset < 0 || len(dst)-offset < m.count {
		return errors.Wrapf(ErrInvalidArgument, "copy %d entries into %d slots at offset %d", m.count, len(dst), offset)
	}
	for k, v := range m.All() {
		dst[offset] = Entry[K, V]{Key: k, Value: v}
		offset++
	}
	return nil
}

// ContainsPair reports whether key is present and maps to value.
func ContainsPair[K, V comparable](m *HashMap[K, V], key K, value V) bool {
	v, ok := m.Get(key)
	return ok && v == value
}

func (m *HashMap[K, V]) grow() {
	buckets := make([]*entry[K, V], len(m.buckets)*2)
	for _, head := range m.buckets {
		for e := head; e != nil; {
			next := e.next
			e.next = nil
			m.link(buckets, e)
			e = next
		}
	}
	m.buckets = buckets
}

// link appends e to the tail of its chain in buckets, positioned against
// len(buckets).
func (m *HashMap[K, V]) link(buckets []*entry[K, V], e *entry[K, V]) {
	tail := &buckets[position(m.cfg.hasher(e.key), len(buckets))]
	for *tail != nil {
		tail = &(*tail).next
	}
	*tail = e
}
