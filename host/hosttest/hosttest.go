// Package hosttest provides in-memory fakes for the host collaborator
// interfaces, grounded on eth/filters.TestBackend's pattern of a small
// struct satisfying a subsystem interface purely for test wiring.
package hosttest

import (
	"encoding/binary"
	"errors"
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/relaychain/parachains-router/host"
	"github.com/relaychain/parachains-router/paratypes"
)

// Clock is a manually-advanced fake implementing host.Clock.
type Clock struct {
	Block   paratypes.BlockNumber
	Session paratypes.SessionIndex
}

func (c *Clock) CurrentBlock() paratypes.BlockNumber     { return c.Block }
func (c *Clock) CurrentSession() paratypes.SessionIndex  { return c.Session }

// Hashing implements host.Hashing with BLAKE2b-256, the scheme
// original_source/runtime/parachains/src/router.rs uses for its MQC head.
type Hashing struct{}

func (Hashing) Hash(data []byte) paratypes.Hash {
	return paratypes.Hash(blake2b.Sum256(data))
}

// WeightMeter implements host.WeightMeter with a fixed per-read/per-write
// cost, enough to exercise callers that add up reported weight.
type WeightMeter struct {
	PerRead  uint64
	PerWrite uint64
}

func NewWeightMeter() WeightMeter {
	return WeightMeter{PerRead: 1, PerWrite: 2}
}

func (m WeightMeter) Weigh(rw host.ReadsWrites) paratypes.Weight {
	return paratypes.NewWeight(rw.Reads*m.PerRead + rw.Writes*m.PerWrite)
}

// XcmExecutor is a scriptable fake: every queued message is treated as a
// big-endian uint64 weight cost followed by a single status byte (0 = ok,
// nonzero = error), so tests can construct messages with precise,
// predictable weight without a real XCM decoder.
type XcmExecutor struct {
	// FailDecode, if set, makes Decode report failure for any payload
	// equal to one of these exact byte strings.
	FailDecode map[string]bool
}

func NewXcmExecutor() *XcmExecutor {
	return &XcmExecutor{FailDecode: map[string]bool{}}
}

// EncodeMessage builds a payload Decode/EstimateWeight/Execute understand:
// an 8-byte big-endian weight followed by a 1-byte ok/fail flag.
func EncodeMessage(weight uint64, fail bool) []byte {
	buf := make([]byte, 9)
	binary.BigEndian.PutUint64(buf[:8], weight)
	if fail {
		buf[8] = 1
	}
	return buf
}

func (x *XcmExecutor) Decode(raw []byte) (host.Xcm, bool) {
	if x.FailDecode[string(raw)] || len(raw) != 9 {
		return nil, false
	}
	return host.Xcm(raw), true
}

func (x *XcmExecutor) EstimateWeight(msg host.Xcm) paratypes.Weight {
	if len(msg) != 9 {
		return paratypes.ZeroWeight()
	}
	return paratypes.NewWeight(binary.BigEndian.Uint64(msg[:8]))
}

func (x *XcmExecutor) Execute(msg host.Xcm) (paratypes.Weight, error) {
	w := x.EstimateWeight(msg)
	if len(msg) == 9 && msg[8] != 0 {
		return w, errors.New("hosttest: simulated execution failure")
	}
	return w, nil
}

// DepositLedger is an in-memory host.DepositAccounting fake that records
// every Hold/Release call for assertions.
type DepositLedger struct {
	mu       sync.Mutex
	Balances map[string]paratypes.Balance
	Holds    []HoldCall
	Releases []HoldCall
}

type HoldCall struct {
	Account host.Account
	Amount  paratypes.Balance
}

func NewDepositLedger() *DepositLedger {
	return &DepositLedger{Balances: map[string]paratypes.Balance{}}
}

func (d *DepositLedger) Hold(account host.Account, amount paratypes.Balance) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Holds = append(d.Holds, HoldCall{Account: account, Amount: amount})
	d.Balances[string(account)] = d.Balances[string(account)].Add(amount)
	return nil
}

func (d *DepositLedger) Release(account host.Account, amount paratypes.Balance) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Releases = append(d.Releases, HoldCall{Account: account, Amount: amount})
	return nil
}
