package ump

import (
	"github.com/gammazero/deque"

	"github.com/relaychain/parachains-router/config"
	"github.com/relaychain/parachains-router/common"
	"github.com/relaychain/parachains-router/host"
	"github.com/relaychain/parachains-router/paratypes"
)

// ProcessPendingUpwardMessages implements the round-robin,
// weight-budgeted dispatcher of spec.md §4.3. It drains NeedsDispatch
// within cfg.PreferredDispatchableUpwardMessagesStepWeight, resuming from
// NextDispatchRoundStartWith so that fairness holds across blocks, and
// persists the updated queues, cached sizes, NeedsDispatch, and
// NextDispatchRoundStartWith before returning.
func (e *Engine) ProcessPendingUpwardMessages(cfg config.Config, executor host.XcmExecutor) {
	n := append([]paratypes.ParaId(nil), e.NeedsDispatch()...)
	if len(n) == 0 {
		e.setNextDispatchRoundStartWith(0, false)
		return
	}

	i := 0
	if start, ok := e.NextDispatchRoundStartWith(); ok {
		if idx := common.IndexOf(n, start); idx >= 0 {
			i = idx
		}
	}

	// queue_cache: lazily loaded per-para deques of raw messages, flushed
	// back to storage after the loop.
	cache := make(map[paratypes.ParaId]*deque.Deque[[]byte])
	touched := make(map[paratypes.ParaId]bool)

	loadQueue := func(p paratypes.ParaId) *deque.Deque[[]byte] {
		if q, ok := cache[p]; ok {
			return q
		}
		stored, _ := e.queues.Get(p)
		q := new(deque.Deque[[]byte])
		for _, m := range stored {
			q.PushBack(m)
		}
		cache[p] = q
		return q
	}

	weight := paratypes.ZeroWeight()
	stepWeight := cfg.PreferredDispatchableUpwardMessagesStepWeight
	criticalWeight := cfg.DispatchableUpwardMessageCriticalWeight

	for {
		if len(n) == 0 {
			break
		}

		preIndex := i
		p := n[preIndex]
		i = (i + 1) % len(n)

		if weight.GreaterOrEqual(stepWeight) {
			break
		}

		q := loadQueue(p)
		touched[p] = true

		if q.Len() > 0 {
			m := q.PopFront()
			if decoded, ok := executor.Decode(m); ok {
				if criticalWeight.GreaterOrEqual(executor.EstimateWeight(decoded)) {
					execWeight, _ := executor.Execute(decoded)
					weight = weight.Add(execWeight)
				}
				// Over-cap messages are dropped silently: no retry, no
				// surfaced error (spec.md §4.3 step 4).
			}
			// Decode failures are dropped silently too.
		}

		if q.Len() == 0 {
			n = append(n[:preIndex], n[preIndex+1:]...)
			if preIndex < i {
				i--
			}
		}
	}

	// Flush touched queues back to storage and recompute cached sizes.
	for p := range touched {
		q := cache[p]
		remaining := make([][]byte, 0, q.Len())
		for j := 0; j < q.Len(); j++ {
			remaining = append(remaining, q.At(j))
		}
		e.queues.Set(p, remaining)

		var bytes uint32
		for _, m := range remaining {
			bytes += uint32(len(m))
		}
		e.sizes.Set(p, QueueSize{Count: uint32(len(remaining)), Bytes: bytes})
	}

	e.setNeedsDispatch(n)
	if i < len(n) {
		e.setNextDispatchRoundStartWith(n[i], true)
	} else {
		e.setNextDispatchRoundStartWith(0, false)
	}
}
