// Package ump implements upward message passing: a per-para FIFO dispatch
// queue fed by candidate enactment, and a round-robin weight-budgeted
// dispatcher that drains those queues into the relay chain's own dispatch
// work (spec.md §4.3).
package ump

import (
	"errors"

	"github.com/relaychain/parachains-router/common"
	"github.com/relaychain/parachains-router/config"
	"github.com/relaychain/parachains-router/host"
	"github.com/relaychain/parachains-router/kv"
	"github.com/relaychain/parachains-router/paratypes"
	"github.com/relaychain/parachains-router/xlog"
	"github.com/relaychain/parachains-router/xmetrics"
)

// ErrUpwardMessagesRejected is returned by CheckUpwardMessages when any
// acceptance criterion in spec.md §4.3 fails. It is deliberately opaque:
// rejection invalidates the whole candidate, so there is no per-message
// partial acceptance to report.
var ErrUpwardMessagesRejected = errors.New("ump: upward messages rejected")

// QueueSize is the cached cardinality/byte-length pair spec.md §3 requires
// to stay in lockstep with the queue's actual contents.
type QueueSize struct {
	Count uint32
	Bytes uint32
}

func paraKey(p paratypes.ParaId) []byte {
	return []byte{byte(p >> 24), byte(p >> 16), byte(p >> 8), byte(p)}
}

func noKey(struct{}) []byte { return nil }

// Engine owns RelayDispatchQueues, RelayDispatchQueueSize, NeedsDispatch,
// and NextDispatchRoundStartWith for every para.
type Engine struct {
	store   kv.Store
	queues  *kv.Map[paratypes.ParaId, [][]byte]
	sizes   *kv.Map[paratypes.ParaId, QueueSize]
	needs   *kv.Map[struct{}, []paratypes.ParaId]
	nextRS  *kv.Map[struct{}, paratypes.ParaId]
	hasNext *kv.Map[struct{}, bool]
	log     xlog.Logger

	dispatchQueueGauge interface{ Update(int64) }
}

// New constructs a UMP Engine persisting into store.
func New(store kv.Store) *Engine {
	return &Engine{
		store:              store,
		queues:             kv.NewMap[paratypes.ParaId, [][]byte](store, kv.PrefixRelayDispatchQueues, paraKey),
		sizes:              kv.NewMap[paratypes.ParaId, QueueSize](store, kv.PrefixRelayDispatchQueueSize, paraKey),
		needs:              kv.NewMap[struct{}, []paratypes.ParaId](store, kv.PrefixNeedsDispatch, noKey),
		nextRS:             kv.NewMap[struct{}, paratypes.ParaId](store, kv.PrefixNextDispatchRoundStart, noKey),
		hasNext:            kv.NewMap[struct{}, bool](store, kv.PrefixNextDispatchRoundStart+"?", noKey),
		log:                xlog.New("ump"),
		dispatchQueueGauge: xmetrics.GetOrRegisterGauge("ump/needs_dispatch_len"),
	}
}

// NeedsDispatch returns the current ascending, duplicate-free list of paras
// with a nonempty dispatch queue.
func (e *Engine) NeedsDispatch() []paratypes.ParaId {
	v, _ := e.needs.Get(struct{}{})
	return v
}

func (e *Engine) setNeedsDispatch(v []paratypes.ParaId) {
	e.needs.Set(struct{}{}, v)
	e.dispatchQueueGauge.Update(int64(len(v)))
}

// NextDispatchRoundStartWith returns the para the dispatcher should resume
// from, and whether one is set.
func (e *Engine) NextDispatchRoundStartWith() (paratypes.ParaId, bool) {
	has, _ := e.hasNext.Get(struct{}{})
	if !has {
		return 0, false
	}
	v, _ := e.nextRS.Get(struct{}{})
	return v, true
}

func (e *Engine) setNextDispatchRoundStartWith(p paratypes.ParaId, ok bool) {
	e.hasNext.Set(struct{}{}, ok)
	if ok {
		e.nextRS.Set(struct{}{}, p)
	} else {
		e.nextRS.Delete(struct{}{})
	}
}

// QueueSizeOf returns the cached (count, bytes) for p.
func (e *Engine) QueueSizeOf(p paratypes.ParaId) QueueSize {
	sz, _ := e.sizes.Get(p)
	return sz
}

// CheckUpwardMessages implements spec.md §4.3's pure acceptance predicate:
// reject candidates that submit too many messages per call, or that would
// push a para's queue past its configured count/size caps. Side-effect
// free — no state is read-modify-written, only the cached size is
// consulted.
func (e *Engine) CheckUpwardMessages(cfg config.Config, p paratypes.ParaId, msgs [][]byte) error {
	if uint32(len(msgs)) > cfg.MaxUpwardMessageNumPerCandidate {
		return ErrUpwardMessagesRejected
	}

	cur := e.QueueSizeOf(p)
	var addedBytes uint64
	for _, m := range msgs {
		addedBytes += uint64(len(m))
	}

	newCount := uint64(cur.Count) + uint64(len(msgs))
	newBytes := uint64(cur.Bytes) + addedBytes

	if newCount > uint64(cfg.MaxUpwardQueueCount) || newBytes > uint64(cfg.MaxUpwardQueueSize) {
		return ErrUpwardMessagesRejected
	}
	return nil
}

// EnactUpwardMessages implements spec.md §4.3's enactment: extend the
// para's queue, refresh the cached size, and insert the para into
// NeedsDispatch if it wasn't already present. Returns the weight the host's
// WeightMeter assigns to the (3 reads, 3 writes) this touches, per
// spec.md's "weight_of(3 reads, 3 writes)" contract.
func (e *Engine) EnactUpwardMessages(meter host.WeightMeter, p paratypes.ParaId, msgs [][]byte) paratypes.Weight {
	if len(msgs) == 0 {
		return paratypes.ZeroWeight()
	}

	queue, _ := e.queues.Get(p)
	queue = append(queue, msgs...)
	e.queues.Set(p, queue)

	sz := e.QueueSizeOf(p)
	for _, m := range msgs {
		sz.Bytes += uint32(len(m))
	}
	sz.Count += uint32(len(msgs))
	e.sizes.Set(p, sz)

	nd := e.NeedsDispatch()
	if nd2, inserted := common.InsertUnique(nd, p); inserted {
		e.setNeedsDispatch(nd2)
	}

	e.log.Debug("enacted upward messages", "para", p, "count", len(msgs))
	return meter.Weigh(host.ReadsWrites{Reads: 3, Writes: 3})
}

// RemovePara deletes all UMP state for p and drops it from NeedsDispatch,
// clearing NextDispatchRoundStartWith iff it named p (spec.md §4.6, with
// the Open Question in §9 resolved as "clear", not "retain" — see
// DESIGN.md).
func (e *Engine) RemovePara(p paratypes.ParaId) {
	e.queues.Delete(p)
	e.sizes.Delete(p)

	nd := e.NeedsDispatch()
	if nd2, removed := common.RemoveValue(nd, p); removed {
		e.setNeedsDispatch(nd2)
	}

	if cur, ok := e.NextDispatchRoundStartWith(); ok && cur == p {
		e.setNextDispatchRoundStartWith(0, false)
	}
}
