// Package host declares the external collaborators the router is
// polymorphic over (spec.md §5/§6/§9): the block/session clock, the hashing
// primitive behind the MQC accumulator, the weight meter used to price
// storage reads/writes, the XCM executor invoked by the UMP dispatcher, and
// the deposit accounting ledger invoked by HRMP lifecycle transitions.
//
// Modeled on eth/filters.TestBackend (eth/filters/test_backend.go): a small
// interface standing in for a subsystem the router does not own, satisfied
// in production by the real runtime and in tests by an in-memory fake
// (package host/hosttest).
package host

import "github.com/relaychain/parachains-router/paratypes"

// Clock reports the relay chain's current position, advanced by the
// runtime framework outside the router's control.
type Clock interface {
	CurrentBlock() paratypes.BlockNumber
	CurrentSession() paratypes.SessionIndex
}

// Hashing is the collision-resistant hash function H behind the MQC
// accumulator (spec.md §4.1). Implementations must be deterministic and
// must match the publicly advertised scheme bit-for-bit.
type Hashing interface {
	Hash(data []byte) paratypes.Hash
}

// ReadsWrites is a (reads, writes) pair charged against a WeightMeter.
type ReadsWrites struct {
	Reads  uint64
	Writes uint64
}

// WeightMeter prices a number of storage reads/writes into a Weight. Pure:
// it must not itself read or write storage.
type WeightMeter interface {
	Weigh(rw ReadsWrites) paratypes.Weight
}

// Xcm is an opaque upward message payload, decoded and executed entirely by
// the XcmExecutor collaborator. The router never inspects its contents; it
// only knows how to estimate and cap its weight before execution
// (spec.md §4.3, §9 "XCM execution is stubbed").
type Xcm []byte

// XcmExecutor estimates and executes decoded upward messages. EstimateWeight
// is pure; Execute may have side effects in the encompassing runtime but
// always returns a Weight to charge, whether it succeeded or not.
type XcmExecutor interface {
	// Decode parses raw bytes into an Xcm, or reports a decode failure.
	Decode(raw []byte) (Xcm, bool)
	EstimateWeight(msg Xcm) paratypes.Weight
	// Execute runs msg, returning the weight actually consumed. The error
	// return indicates execution failure but the Weight is still charged
	// either way (spec.md §4.3 step 4: "both are charged").
	Execute(msg Xcm) (paratypes.Weight, error)
}

// Account is an opaque account identifier used only for deposit
// hold/release bookkeeping; the router never interprets it.
type Account []byte

// DepositAccounting holds and releases HRMP channel deposits. Out of scope
// for this module's economic logic (spec.md §1 Non-goals) beyond recording
// the calls; the real runtime's balances pallet (or equivalent) owns the
// actual transfer semantics.
type DepositAccounting interface {
	Hold(account Account, amount paratypes.Balance) error
	Release(account Account, amount paratypes.Balance) error
}
