package kv

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStoreGetPutDelete(t *testing.T) {
	s := NewMemoryStore()
	_, ok := s.Get([]byte("a"))
	assert.False(t, ok)

	s.Put([]byte("a"), []byte("1"))
	v, ok := s.Get([]byte("a"))
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), v)
	assert.True(t, s.Has([]byte("a")))

	s.Delete([]byte("a"))
	assert.False(t, s.Has([]byte("a")))
}

func TestMemoryStoreIteratePrefix(t *testing.T) {
	s := NewMemoryStore()
	s.Put([]byte("p/1"), []byte("x"))
	s.Put([]byte("p/2"), []byte("y"))
	s.Put([]byte("q/1"), []byte("z"))

	var got []string
	s.Iterate([]byte("p/"), func(k, v []byte) bool {
		got = append(got, string(k))
		return true
	})
	sort.Strings(got)
	assert.Equal(t, []string{"p/1", "p/2"}, got)
}

func TestMemoryStoreIterateStopsEarly(t *testing.T) {
	s := NewMemoryStore()
	s.Put([]byte("p/1"), []byte("x"))
	s.Put([]byte("p/2"), []byte("y"))

	count := 0
	s.Iterate([]byte("p/"), func(k, v []byte) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}

func TestCachedStoreReadThrough(t *testing.T) {
	back := NewMemoryStore()
	c := NewCachedStore(back, 32*1024)

	c.Put([]byte("k"), []byte("v"))
	v, ok := c.Get([]byte("k"))
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), v)

	// Value is visible directly on the backing store too.
	bv, ok := back.Get([]byte("k"))
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), bv)

	c.Delete([]byte("k"))
	assert.False(t, c.Has([]byte("k")))
}

type pair struct {
	A int
	B string
}

func TestMapSetGetDelete(t *testing.T) {
	store := NewMemoryStore()
	m := NewMap[uint32, pair](store, "t/", func(k uint32) []byte {
		return []byte{byte(k >> 24), byte(k >> 16), byte(k >> 8), byte(k)}
	})

	_, ok := m.Get(1)
	assert.False(t, ok)

	m.Set(1, pair{A: 7, B: "hi"})
	v, ok := m.Get(1)
	assert.True(t, ok)
	assert.Equal(t, pair{A: 7, B: "hi"}, v)
	assert.True(t, m.Has(1))

	m.Delete(1)
	assert.False(t, m.Has(1))
}
