package store

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

type ObjectType byte

const (
	ObjString ObjectType = iota
	ObjList
	ObjHash
	ObjSet
)

func (t ObjectType) String() string {
	switch t {
	case ObjString:
		return "string"
	case ObjList:
		return "list"
	case ObjHash:
		return "hash"
	case ObjSet:
		return "set"
	default:
		return "unknown"
	}
}

type Object struct {
	Type ObjectType
	Ptr  any
}

type KeyModifiedCallback func(key string)

type Stats struct {
	Keys       int
	Buckets    int
	LoadFactor float64
	Hits       int64
	Misses     int64
	Writes     int64
}

// Store is a keyspace of strings, hashes, lists and sets. Every operation
// holds the store lock for its whole duration, so the unsynchronised
// containers underneath are never touched concurrently.
type Store struct {
	mu                 sync.RWMutex
	data               *HashMap[string, *Object]
	keyModifiedHandler KeyModifiedCallback

	hits   atomic.Int64
	misses atomic.Int64
	writes atomic.Int64
}

func NewStore(opts ...Option[string]) *Store {
	opts = append([]Option[string]{WithMissingKeyPolicy[string](SetInsertsMissing)}, opts...)
	return &Store{
		data: NewHashMap[string, *Object](opts...),
	}
}

func (s *Store) SetKeyModifiedHandler(handler KeyModifiedCallback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keyModifiedHandler = handler
}

func (s *Store) notifyKeyModified(key string) {
	s.writes.Inc()
	if s.keyModifiedHandler != nil {
		s.keyModifiedHandler(key)
	}
}

// lookup returns (nil, nil) when key is absent.
func (s *Store) lookup(key string, typ ObjectType) (*Object, error) {
	obj, ok := s.data.Get(key)
	if !ok {
		s.misses.Inc()
		return nil, nil
	}
	s.hits.Inc()
	if obj.Type != typ {
		return nil, errors.WithStack(ErrWrongType)
	}
	return obj, nil
}

func (s *Store) removeIfEmpty(key string, n int) {
	if n == 0 {
		s.data.Remove(key)
	}
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.data.Set(key, &Object{Type: ObjString, Ptr: value}); err != nil {
		return err
	}
	s.notifyKeyModified(key)
	return nil
}

func (s *Store) SetNX(key, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.data.Insert(key, &Object{Type: ObjString, Ptr: value})
	if errors.Is(err, ErrDuplicateKey) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.notifyKeyModified(key)
	return true, nil
}

func (s *Store) SetXX(key, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.data.Update(key, func(obj **Object) {
		*obj = &Object{Type: ObjString, Ptr: value}
	})
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.notifyKeyModified(key)
	return true, nil
}

func (s *Store) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, err := s.lookup(key, ObjString)
	if err != nil {
		return "", err
	}
	if obj == nil {
		return "", errors.Wrapf(ErrKeyNotFound, "get %s", key)
	}
	return obj.Ptr.(string), nil
}

func (s *Store) Delete(keys ...string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := int64(0)
	for _, key := range keys {
		if s.data.Remove(key) {
			deleted++
			s.notifyKeyModified(key)
		}
	}
	return deleted
}

func (s *Store) Exists(keys ...string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := int64(0)
	for _, key := range keys {
		if s.data.ContainsKey(key) {
			found++
		}
	}
	return found
}

func (s *Store) Type(key string) (ObjectType, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.data.Get(key)
	if !ok {
		return 0, false
	}
	return obj.Type, true
}

func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Keys()
}

func (s *Store) DBSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Len()
}

func (s *Store) FlushDB() {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := s.data.Keys()
	s.data.Clear()
	for _, key := range keys {
		s.notifyKeyModified(key)
	}
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		Keys:       s.data.Len(),
		Buckets:    s.data.Cap(),
		LoadFactor: s.data.LoadFactor(),
		Hits:       s.hits.Load(),
		Misses:     s.misses.Load(),
		Writes:     s.writes.Load(),
	}
}

func (s *Store) getHash(key string) (*HashMap[string, string], error) {
	obj, err := s.lookup(key, ObjHash)
	if err != nil || obj == nil {
		return nil, err
	}
	return obj.Ptr.(*HashMap[string, string]), nil
}

func (s *Store) getOrCreateHash(key string) (*HashMap[string, string], error) {
	h, err := s.getHash(key)
	if err != nil || h != nil {
		return h, err
	}

	h = NewHashMap[string, string](WithMissingKeyPolicy[string](SetInsertsMissing))
	if err := s.data.Insert(key, &Object{Type: ObjHash, Ptr: h}); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Store) HSet(key, field, value string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.getOrCreateHash(key)
	if err != nil {
		return 0, err
	}

	added := int64(0)
	if !h.ContainsKey(field) {
		added = 1
	}
	if err := h.Set(field, value); err != nil {
		return 0, err
	}
	s.notifyKeyModified(key)
	return added, nil
}

func (s *Store) HSetNX(key, field, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.getOrCreateHash(key)
	if err != nil {
		return false, err
	}

	err = h.Insert(field, value)
	if errors.Is(err, ErrDuplicateKey) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.notifyKeyModified(key)
	return true, nil
}

func (s *Store) HGet(key, field string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, err := s.getHash(key)
	if err != nil {
		return "", err
	}
	if h == nil {
		return "", errors.Wrapf(ErrKeyNotFound, "hget %s", key)
	}
	return h.At(field)
}

func (s *Store) HDel(key string, fields ...string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.getHash(key)
	if err != nil || h == nil {
		return 0, err
	}

	deleted := int64(0)
	for _, field := range fields {
		if h.Remove(field) {
			deleted++
		}
	}

	if deleted > 0 {
		s.removeIfEmpty(key, h.Len())
		s.notifyKeyModified(key)
	}
	return deleted, nil
}

func (s *Store) HExists(key, field string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, err := s.getHash(key)
	if err != nil || h == nil {
		return false, err
	}
	return h.ContainsKey(field), nil
}

func (s *Store) HLen(key string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, err := s.getHash(key)
	if err != nil || h == nil {
		return 0, err
	}
	return int64(h.Len()), nil
}

func (s *Store) HGetAll(key string) ([]Entry[string, string], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, err := s.getHash(key)
	if err != nil || h == nil {
		return []Entry[string, string]{}, err
	}
	return h.Entries(), nil
}

func (s *Store) HKeys(key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, err := s.getHash(key)
	if err != nil || h == nil {
		return []string{}, err
	}
	return h.Keys(), nil
}

func (s *Store) HVals(key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, err := s.getHash(key)
	if err != nil || h == nil {
		return []string{}, err
	}
	return h.Values(), nil
}

func (s *Store) getList(key string) (*DynamicArray[string], error) {
	obj, err := s.lookup(key, ObjList)
	if err != nil || obj == nil {
		return nil, err
	}
	return obj.Ptr.(*DynamicArray[string]), nil
}

func (s *Store) getOrCreateList(key string) (*DynamicArray[string], error) {
	list, err := s.getList(key)
	if err != nil || list != nil {
		return list, err
	}

	list = NewDynamicArray[string]()
	if err := s.data.Insert(key, &Object{Type: ObjList, Ptr: list}); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) LPush(key string, values ...string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.getOrCreateList(key)
	if err != nil {
		return 0, err
	}

	for _, value := range values {
		if err := list.Insert(0, value); err != nil {
			return 0, err
		}
	}

	s.notifyKeyModified(key)
	return int64(list.Len()), nil
}

func (s *Store) RPush(key string, values ...string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.getOrCreateList(key)
	if err != nil {
		return 0, err
	}

	for _, value := range values {
		list.Add(value)
	}

	s.notifyKeyModified(key)
	return int64(list.Len()), nil
}

func (s *Store) LPop(key string) (string, error) {
	return s.pop(key, func(list *DynamicArray[string]) int { return 0 })
}

func (s *Store) RPop(key string) (string, error) {
	return s.pop(key, func(list *DynamicArray[string]) int { return list.Len() - 1 })
}

func (s *Store) pop(key string, at func(*DynamicArray[string]) int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.getList(key)
	if err != nil {
		return "", err
	}
	if list == nil {
		return "", errors.Wrapf(ErrKeyNotFound, "pop %s", key)
	}

	index := at(list)
	value, err := list.Get(index)
	if err != nil {
		return "", err
	}
	if err := list.RemoveAt(index); err != nil {
		return "", err
	}

	s.removeIfEmpty(key, list.Len())
	s.notifyKeyModified(key)
	return value, nil
}

func (s *Store) LLen(key string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list, err := s.getList(key)
	if err != nil || list == nil {
		return 0, err
	}
	return int64(list.Len()), nil
}

func normalizeIndex(index int64, length int) int {
	if index < 0 {
		index += int64(length)
	}
	return int(index)
}

func (s *Store) LIndex(key string, index int64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list, err := s.getList(key)
	if err != nil {
		return "", err
	}
	if list == nil {
		return "", errors.Wrapf(ErrKeyNotFound, "lindex %s", key)
	}
	return list.Get(normalizeIndex(index, list.Len()))
}

func (s *Store) LSet(key string, index int64, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.getList(key)
	if err != nil {
		return err
	}
	if list == nil {
		return errors.Wrapf(ErrKeyNotFound, "lset %s", key)
	}
	if err := list.Set(normalizeIndex(index, list.Len()), value); err != nil {
		return err
	}
	s.notifyKeyModified(key)
	return nil
}

// LInsert returns the new length, 0 when key does not exist and -1 when the
// pivot is not in the list.
func (s *Store) LInsert(key string, before bool, pivot, value string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.getList(key)
	if err != nil || list == nil {
		return 0, err
	}

	index := list.IndexOf(pivot)
	if index < 0 {
		return -1, nil
	}
	if !before {
		index++
	}
	if err := list.Insert(index, value); err != nil {
		return 0, err
	}

	s.notifyKeyModified(key)
	return int64(list.Len()), nil
}

// LRem removes up to count occurrences of value: from the head when count is
// positive, from the tail when negative, all of them when zero.
func (s *Store) LRem(key string, count int64, value string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.getList(key)
	if err != nil || list == nil {
		return 0, err
	}

	limit := int64(list.Len())
	if count > 0 && count < limit {
		limit = count
	} else if count < 0 && count > -limit {
		limit = -count
	}

	removed := int64(0)
	for removed < limit {
		index := list.IndexOf(value)
		if count < 0 {
			index = list.LastIndexOf(value)
		}
		if index < 0 {
			break
		}
		if err := list.RemoveAt(index); err != nil {
			return removed, err
		}
		removed++
	}

	if removed > 0 {
		s.removeIfEmpty(key, list.Len())
		s.notifyKeyModified(key)
	}
	return removed, nil
}

func (s *Store) LRange(key string, start, stop int64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list, err := s.getList(key)
	if err != nil || list == nil {
		return []string{}, err
	}

	length := int64(list.Len())
	if start < 0 {
		start = length + start
	}
	if stop < 0 {
		stop = length + stop
	}
	if start < 0 {
		start = 0
	}
	if stop >= length {
		stop = length - 1
	}
	if start > stop || start >= length {
		return []string{}, nil
	}

	result := make([]string, 0, stop-start+1)
	for i, v := range list.All() {
		if int64(i) > stop {
			break
		}
		if int64(i) >= start {
			result = append(result, v)
		}
	}
	return result, nil
}

// LPos returns the index of the first occurrence of value, or -1.
func (s *Store) LPos(key, value string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list, err := s.getList(key)
	if err != nil || list == nil {
		return -1, err
	}
	return int64(list.IndexOf(value)), nil
}

func (s *Store) getSet(key string) (*HashSet[string], error) {
	obj, err := s.lookup(key, ObjSet)
	if err != nil || obj == nil {
		return nil, err
	}
	return obj.Ptr.(*HashSet[string]), nil
}

func (s *Store) getOrCreateSet(key string) (*HashSet[string], error) {
	set, err := s.getSet(key)
	if err != nil || set != nil {
		return set, err
	}

	set = NewHashSet[string]()
	if err := s.data.Insert(key, &Object{Type: ObjSet, Ptr: set}); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *Store) SAdd(key string, members ...string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.getOrCreateSet(key)
	if err != nil {
		return 0, err
	}

	added := set.Add(members...)
	if added > 0 {
		s.notifyKeyModified(key)
	}
	return int64(added), nil
}

func (s *Store) SRem(key string, members ...string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.getSet(key)
	if err != nil || set == nil {
		return 0, err
	}

	removed := set.Remove(members...)
	if removed > 0 {
		s.removeIfEmpty(key, set.Len())
		s.notifyKeyModified(key)
	}
	return int64(removed), nil
}

func (s *Store) SIsMember(key, member string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, err := s.getSet(key)
	if err != nil || set == nil {
		return false, err
	}
	return set.Contains(member), nil
}

func (s *Store) SMembers(key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, err := s.getSet(key)
	if err != nil || set == nil {
		return []string{}, err
	}
	return set.Members(), nil
}

func (s *Store) SCard(key string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, err := s.getSet(key)
	if err != nil || set == nil {
		return 0, err
	}
	return int64(set.Len()), nil
}

func (s *Store) SPop(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.getSet(key)
	if err != nil {
		return "", err
	}
	if set == nil {
		return "", errors.Wrapf(ErrKeyNotFound, "spop %s", key)
	}

	member, _ := set.Pop()
	s.removeIfEmpty(key, set.Len())
	s.notifyKeyModified(key)
	return member, nil
}
