// Package dmp implements downward message passing: the relay chain's
// per-para inbound queue and its MQC head (spec.md §4.2).
package dmp

import (
	"errors"

	"github.com/relaychain/parachains-router/config"
	"github.com/relaychain/parachains-router/host"
	"github.com/relaychain/parachains-router/kv"
	"github.com/relaychain/parachains-router/mqc"
	"github.com/relaychain/parachains-router/paratypes"
	"github.com/relaychain/parachains-router/xlog"
	"github.com/relaychain/parachains-router/xmetrics"
)

// ErrMessageTooLarge is returned by QueueDownwardMessage when the payload
// exceeds config.CriticalDownwardMessageSize (spec.md §7
// DownwardMessageTooLarge).
var ErrMessageTooLarge = errors.New("dmp: downward message too large")

// InboundDownwardMessage is one queued message awaiting a para's candidate
// to process it.
type InboundDownwardMessage struct {
	Msg    []byte
	SentAt paratypes.BlockNumber
}

func paraKey(p paratypes.ParaId) []byte {
	return []byte{byte(p >> 24), byte(p >> 16), byte(p >> 8), byte(p)}
}

// Engine owns DownwardMessageQueues and DownwardMessageQueueHeads for every
// para.
type Engine struct {
	hashing host.Hashing
	queues  *kv.Map[paratypes.ParaId, []InboundDownwardMessage]
	heads   *kv.Map[paratypes.ParaId, paratypes.Hash]
	log     xlog.Logger

	queueDepth xmetricsGauge
}

type xmetricsGauge = interface {
	Update(int64)
}

// New constructs a DMP Engine persisting into store.
func New(store kv.Store, hashing host.Hashing) *Engine {
	return &Engine{
		hashing:    hashing,
		queues:     kv.NewMap[paratypes.ParaId, []InboundDownwardMessage](store, kv.PrefixDownwardMessageQueues, paraKey),
		heads:      kv.NewMap[paratypes.ParaId, paratypes.Hash](store, kv.PrefixDownwardMessageQueueHeads, paraKey),
		log:        xlog.New("dmp"),
		queueDepth: xmetrics.GetOrRegisterGauge("dmp/queue_depth"),
	}
}

// QueueDownwardMessage enacts spec.md §4.2's queue_downward_message: reject
// oversize payloads, otherwise advance the MQC head and append the message.
func (e *Engine) QueueDownwardMessage(cfg config.Config, p paratypes.ParaId, block paratypes.BlockNumber, msg []byte) error {
	if uint32(len(msg)) > cfg.CriticalDownwardMessageSize {
		return ErrMessageTooLarge
	}

	head, _ := e.heads.Get(p)
	newHead := mqc.Append(e.hashing, head, block, msg)
	e.heads.Set(p, newHead)

	queue, _ := e.queues.Get(p)
	queue = append(queue, InboundDownwardMessage{Msg: msg, SentAt: block})
	e.queues.Set(p, queue)

	e.queueDepth.Update(int64(len(queue)))
	e.log.Debug("queued downward message", "para", p, "block", block, "len", len(msg))
	return nil
}

// CheckProcessedDownwardMessages implements the side-effect-free acceptance
// predicate from spec.md §4.2: valid iff the candidate claims to process
// zero messages against an empty queue, or a count between 1 and the
// current queue length (inclusive) against a nonempty one.
func (e *Engine) CheckProcessedDownwardMessages(p paratypes.ParaId, n uint32) bool {
	queue, _ := e.queues.Get(p)
	l := uint32(len(queue))
	if l == 0 {
		return n == 0
	}
	return n >= 1 && n <= l
}

// PruneDMQ drops the first n messages from p's queue. The MQC head is never
// modified by pruning (spec.md §4.2, §9: "head not reset on prune").
func (e *Engine) PruneDMQ(p paratypes.ParaId, n uint32) {
	queue, _ := e.queues.Get(p)
	if n == 0 {
		return
	}
	if int(n) >= len(queue) {
		e.queues.Set(p, nil)
		e.queueDepth.Update(0)
		return
	}
	remaining := append([]InboundDownwardMessage(nil), queue[n:]...)
	e.queues.Set(p, remaining)
	e.queueDepth.Update(int64(len(remaining)))
}

// DmqLength returns the current queue length for p.
func (e *Engine) DmqLength(p paratypes.ParaId) uint32 {
	queue, _ := e.queues.Get(p)
	return uint32(len(queue))
}

// DmqMqcHead returns p's current MQC head, or (zero, false) if the queue
// has never received a message since the last cleanup.
func (e *Engine) DmqMqcHead(p paratypes.ParaId) (paratypes.Hash, bool) {
	return e.heads.Get(p)
}

// RemovePara deletes all DMP state for p, invoked from session-boundary
// cleanup of an outgoing para (spec.md §4.6). This clears the head too —
// the one place the head is allowed to disappear, since the para itself no
// longer exists to verify against it.
func (e *Engine) RemovePara(p paratypes.ParaId) {
	e.queues.Delete(p)
	e.heads.Delete(p)
}
