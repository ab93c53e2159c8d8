package kv

import (
	"bytes"
	"encoding/gob"
)

// Map is a typed view over a Store: a logical map[K]V persisted under a
// fixed key prefix, encoded with gob. This is the generalization of
// go-ethereum's core/rawdb accessor convention (ReadHeader/WriteHeader
// layered over ethdb.Database) to an arbitrary key/value shape, since this
// router's maps (queues of structs, digests, per-channel metadata) have no
// consensus-critical wire format to match — only spec.md §6's requirement
// that "key names stable to preserve on-disk compatibility", which Map
// satisfies by taking a fixed prefix at construction.
type Map[K comparable, V any] struct {
	store     Store
	prefix    []byte
	keyCodec  func(K) []byte
}

// NewMap returns a Map persisting under prefix, using keyCodec to turn keys
// into their byte suffix.
func NewMap[K comparable, V any](store Store, prefix string, keyCodec func(K) []byte) *Map[K, V] {
	return &Map[K, V]{store: store, prefix: []byte(prefix), keyCodec: keyCodec}
}

func (m *Map[K, V]) fullKey(k K) []byte {
	return append(append([]byte{}, m.prefix...), m.keyCodec(k)...)
}

// Get returns the decoded value for k, or the zero value and false if
// absent.
func (m *Map[K, V]) Get(k K) (V, bool) {
	var zero V
	raw, ok := m.store.Get(m.fullKey(k))
	if !ok {
		return zero, false
	}
	var v V
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&v); err != nil {
		return zero, false
	}
	return v, true
}

// Set persists v under k.
func (m *Map[K, V]) Set(k K, v V) {
	var buf bytes.Buffer
	// gob requires registering concrete types for interface fields; this
	// router's stored values are always concrete structs/slices, so the
	// default encoder suffices.
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		panic("kv: unencodable value: " + err.Error())
	}
	m.store.Put(m.fullKey(k), buf.Bytes())
}

// Delete removes k.
func (m *Map[K, V]) Delete(k K) {
	m.store.Delete(m.fullKey(k))
}

// Has reports whether k is present.
func (m *Map[K, V]) Has(k K) bool {
	return m.store.Has(m.fullKey(k))
}
