// Package kv defines the keyed storage abstraction the router's engines
// persist their logical maps through (spec.md §3's DownwardMessageQueues,
// RelayDispatchQueues, HrmpChannels, and friends), modeled on
// ethdb.Database/ethdb.KeyValueStore (referenced via `ethdb.Database` in
// eth/filters/test_backend.go) — a minimal byte-oriented Get/Put/Delete/Has
// surface plus prefix iteration, with the concrete engine structures layered
// on top via the generic Map in codec.go.
//
// The transactional/commit semantics around this store are spec.md §1's
// explicit external collaborator (the host's atomic block-level commit);
// Store itself is deliberately synchronous and un-transactional — callers
// needing atomicity supply a Store backed by a transactional host.
package kv

// Store is the byte-oriented key/value surface every backend in this
// package implements.
type Store interface {
	Get(key []byte) ([]byte, bool)
	Put(key, value []byte)
	Delete(key []byte)
	Has(key []byte) bool
	// Iterate calls fn for every stored key with the given prefix, in
	// unspecified order, until fn returns false or keys are exhausted.
	Iterate(prefix []byte, fn func(key, value []byte) bool)
}
