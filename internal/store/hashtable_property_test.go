package store

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireWellFormed checks count against capacity and that every node sits in
// the bucket its key hashes to under the current capacity.
func requireWellFormed[K comparable, V any](t *testing.T, m *HashMap[K, V]) {
	t.Helper()

	require.LessOrEqual(t, m.Len(), m.Cap())

	nodes := 0
	for i, head := range m.buckets {
		for e := head; e != nil; e = e.next {
			require.Equal(t, i, m.bucket(e.key), "key %v is in the wrong bucket", e.key)
			nodes++
		}
	}
	require.Equal(t, m.Len(), nodes)
}

func TestHashMapResizeStability(t *testing.T) {
	m := NewHashMap[int, int]()
	for i := 1; i <= 1000; i++ {
		require.NoError(t, m.Insert(i, i*10))
	}

	requireWellFormed(t, m)
	assert.Equal(t, 1000, m.Len())
	assert.LessOrEqual(t, m.LoadFactor(), DefaultLoadFactor)

	for i := 1; i <= 1000; i++ {
		v, ok := m.Get(i)
		require.True(t, ok, "key %d missing", i)
		require.Equal(t, i*10, v)
	}
}

func TestHashMapRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := NewHashMap[string, int]()
	want := map[string]int{}

	for len(want) < 500 {
		k := strconv.FormatInt(rng.Int63(), 36)
		if _, dup := want[k]; dup {
			continue
		}
		want[k] = len(want)
		require.NoError(t, m.Insert(k, want[k]))
	}

	for k, v := range want {
		assert.True(t, m.ContainsKey(k))
		got, ok := m.Get(k)
		assert.True(t, ok)
		assert.Equal(t, v, got)
	}
	requireWellFormed(t, m)
}

func TestHashMapRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := NewHashMap[int, string](WithInitialCapacity[int](2))
	model := map[int]string{}

	for i := 0; i < 5000; i++ {
		k := rng.Intn(300)
		switch rng.Intn(4) {
		case 0, 1:
			v := strconv.Itoa(i)
			err := m.Insert(k, v)
			if _, present := model[k]; present {
				require.ErrorIs(t, err, ErrDuplicateKey)
			} else {
				require.NoError(t, err)
				model[k] = v
			}
		case 2:
			_, present := model[k]
			require.Equal(t, present, m.Remove(k))
			delete(model, k)
		case 3:
			v := strconv.Itoa(-i)
			err := m.Set(k, v)
			if _, present := model[k]; present {
				require.NoError(t, err)
				model[k] = v
			} else {
				require.ErrorIs(t, err, ErrKeyNotFound)
			}
		}
		require.Equal(t, len(model), m.Len())
	}

	requireWellFormed(t, m)

	// every present pair comes out exactly once
	seen := map[int]string{}
	for k, v := range m.All() {
		_, dup := seen[k]
		require.False(t, dup, "key %d yielded twice", k)
		seen[k] = v
	}
	assert.Equal(t, model, seen)
}

func TestHashMapInstancesDoNotShareStorage(t *testing.T) {
	a := NewHashMap[string, int]()
	b := NewHashMap[string, int]()

	require.NoError(t, a.Insert("k", 1))
	assert.False(t, b.ContainsKey("k"))
	require.NoError(t, b.Insert("k", 2))

	v, _ := a.Get("k")
	assert.Equal(t, 1, v)
}
