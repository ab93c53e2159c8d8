// Package paratypes defines the primitive value types shared by every
// message-passing engine in this module: para identifiers, channel keys,
// the MQC hash type, and the weight/balance numerics used for dispatch
// budgets and HRMP deposits.
package paratypes

import (
	"fmt"

	"github.com/holiman/uint256"
)

// ParaId is the totally-ordered identifier of a child chain ("para") served
// by the relay chain. It is a plain uint32, matching the wire width used by
// the upstream parachains runtime.
type ParaId uint32

func (p ParaId) String() string { return fmt.Sprintf("para(%d)", uint32(p)) }

// BlockNumber is a monotonically increasing relay-chain block height.
type BlockNumber uint64

// SessionIndex is a monotonically increasing epoch counter; HRMP open
// requests age in units of SessionIndex.
type SessionIndex uint32

// HashLength is the output width of the configured MQC hashing collaborator.
const HashLength = 32

// Hash is the fixed-width output of the collision-resistant hash function H
// used by the MQC accumulator.
type Hash [HashLength]byte

// ZeroHash is the all-zero sentinel used as head₀ of a fresh MQC.
var ZeroHash = Hash{}

func (h Hash) String() string {
	return fmt.Sprintf("%x", h[:])
}

// IsZero reports whether h is the all-zero sentinel.
func (h Hash) IsZero() bool { return h == ZeroHash }

// ChannelId identifies a directed HRMP channel from Sender to Recipient.
// ChannelId is totally ordered lexicographically on (Sender, Recipient),
// which is the order every HRMP index and list in this module maintains.
type ChannelId struct {
	Sender    ParaId
	Recipient ParaId
}

func (c ChannelId) String() string {
	return fmt.Sprintf("%d->%d", uint32(c.Sender), uint32(c.Recipient))
}

// Less reports whether c sorts strictly before other under the channel
// ordering (sender first, then recipient).
func (c ChannelId) Less(other ChannelId) bool {
	if c.Sender != other.Sender {
		return c.Sender < other.Sender
	}
	return c.Recipient < other.Recipient
}

// Balance is a nonnegative deposit amount. Backed by uint256 so that
// accumulating per-channel or per-para deposits can never silently wrap.
type Balance struct {
	val *uint256.Int
}

// NewBalance constructs a Balance from a uint64 amount.
func NewBalance(v uint64) Balance {
	return Balance{val: uint256.NewInt(v)}
}

// ZeroBalance is the additive identity.
func ZeroBalance() Balance { return NewBalance(0) }

// Uint64 returns the low 64 bits of the balance. A value wider than 64 bits
// is truncated without error; deposits configured by a bounded Config stay
// within 64 bits.
func (b Balance) Uint64() uint64 {
	if b.val == nil {
		return 0
	}
	return b.val.Uint64()
}

// Add returns b + other.
func (b Balance) Add(other Balance) Balance {
	out := new(uint256.Int)
	out.Add(b.orZero(), other.orZero())
	return Balance{val: out}
}

func (b Balance) orZero() *uint256.Int {
	if b.val == nil {
		return uint256.NewInt(0)
	}
	return b.val
}

// GobEncode/GobDecode let Balance survive a round-trip through kv.Map's gob
// codec. uint256.Int's value lives behind the unexported val field, which
// gob's default struct encoding silently drops — this router persists HRMP
// deposits (paratypes.Balance fields in hrmp.OpenRequest/hrmp.Channel)
// through exactly that path, so the zero-value loss would otherwise be
// silent data corruption rather than a compile or test failure.
func (b Balance) GobEncode() ([]byte, error) {
	bz := b.orZero().Bytes32()
	return bz[:], nil
}

func (b *Balance) GobDecode(data []byte) error {
	var bz [32]byte
	copy(bz[:], data)
	b.val = new(uint256.Int).SetBytes32(bz[:])
	return nil
}

// Weight is an abstract per-operation cost unit, as reported by the host's
// WeightMeter and XcmExecutor collaborators.
type Weight struct {
	val *uint256.Int
}

// NewWeight constructs a Weight from a uint64 cost.
func NewWeight(v uint64) Weight {
	return Weight{val: uint256.NewInt(v)}
}

// ZeroWeight is the additive identity / "no cost incurred" value.
func ZeroWeight() Weight { return NewWeight(0) }

func (w Weight) orZero() *uint256.Int {
	if w.val == nil {
		return uint256.NewInt(0)
	}
	return w.val
}

// Add returns w + other.
func (w Weight) Add(other Weight) Weight {
	out := new(uint256.Int)
	out.Add(w.orZero(), other.orZero())
	return Weight{val: out}
}

// Uint64 returns the low 64 bits of the weight, truncating like
// Balance.Uint64.
func (w Weight) Uint64() uint64 {
	return w.orZero().Uint64()
}

// Cmp compares w against other: -1, 0, 1.
func (w Weight) Cmp(other Weight) int {
	return w.orZero().Cmp(other.orZero())
}

// GreaterOrEqual reports whether w >= other.
func (w Weight) GreaterOrEqual(other Weight) bool {
	return w.Cmp(other) >= 0
}

func (w Weight) String() string {
	return w.orZero().String()
}

// GobEncode/GobDecode mirror Balance's — see its comment. Weight values are
// not currently persisted through kv.Map (config.Config is held in memory,
// never gob-encoded), but the type is kept symmetric with Balance so any
// future persisted struct embedding a Weight does not silently corrupt.
func (w Weight) GobEncode() ([]byte, error) {
	bz := w.orZero().Bytes32()
	return bz[:], nil
}

func (w *Weight) GobDecode(data []byte) error {
	var bz [32]byte
	copy(bz[:], data)
	w.val = new(uint256.Int).SetBytes32(bz[:])
	return nil
}
