package router

import (
	"github.com/relaychain/parachains-router/common"
	"github.com/relaychain/parachains-router/paratypes"
)

// Initialize implements spec.md §4.6's initializer_initialize: reserved for
// future per-block maintenance, returns a fixed zero weight in the minimal
// design.
func (r *Router) Initialize(now paratypes.BlockNumber) paratypes.Weight {
	return paratypes.ZeroWeight()
}

// Finalize implements spec.md §4.6's initializer_finalize: a no-op in the
// core.
func (r *Router) Finalize() {}

// ScheduleParaCleanup implements spec.md §4.6's schedule_para_cleanup:
// insert p into OutgoingParas preserving ascending order and uniqueness.
// Idempotent — scheduling an already-scheduled para is a no-op.
func (r *Router) ScheduleParaCleanup(p paratypes.ParaId) {
	cur := r.OutgoingParas()
	if next, inserted := common.InsertUnique(cur, p); inserted {
		r.outgoing.Set(struct{}{}, next)
		r.log.Debug("scheduled para cleanup", "para", p)
	}
}

// OnNewSession implements spec.md §4.6's initializer_on_new_session: drains
// OutgoingParas, removes each outgoing para's DMP/UMP footprint, synthesizes
// HRMP close requests for every channel touching it, then runs the HRMP
// session-boundary lifecycle (age, materialize, teardown) in that order.
func (r *Router) OnNewSession() {
	outgoing := r.OutgoingParas()
	r.outgoing.Set(struct{}{}, nil)

	for _, p := range outgoing {
		r.DMP.RemovePara(p)
		r.UMP.RemovePara(p)
		r.HRMP.ScheduleCloseForPara(p)
	}

	r.HRMP.AgeOpenRequests(r.cfg)
	r.HRMP.MaterializeConfirmed(r.cfg)
	closed := r.HRMP.ProcessCloseRequests()
	r.Wire.PruneClosedChannels(closed)

	if len(outgoing) > 0 {
		r.log.Info("processed session boundary cleanup", "paras", len(outgoing))
	}
}
