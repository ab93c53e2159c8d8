// Package router wires the DMP, UMP, and HRMP engines into the single
// host-polymorphic entry point spec.md §1 describes, and owns the
// session-boundary lifecycle hooks of spec.md §4.6.
package router

import (
	"github.com/relaychain/parachains-router/config"
	"github.com/relaychain/parachains-router/dmp"
	"github.com/relaychain/parachains-router/host"
	"github.com/relaychain/parachains-router/hrmp"
	"github.com/relaychain/parachains-router/kv"
	"github.com/relaychain/parachains-router/paratypes"
	"github.com/relaychain/parachains-router/ump"
	"github.com/relaychain/parachains-router/xlog"
)

func noKey(struct{}) []byte { return nil }

// Router is polymorphic over the host capability set spec.md §9 names
// (current_block, current_session, hash, weight_meter, xcm_executor,
// kv_store, config_read), expressed as the small interfaces in package
// host plus a live config.Config. It holds one instance of each engine and
// the OutgoingParas schedule.
type Router struct {
	cfg   config.Config
	clock host.Clock

	DMP  *dmp.Engine
	UMP  *ump.Engine
	HRMP *hrmp.Registry
	Wire *hrmp.Plane

	executor host.XcmExecutor

	outgoing *kv.Map[struct{}, []paratypes.ParaId]
	log      xlog.Logger
}

// New constructs a Router over store, using hashing and deposits for the
// DMP/HRMP engines and executor for UMP dispatch. cfg is the read-only
// tunable bundle consulted by every operation; clock provides
// current_block/current_session for lifecycle bookkeeping.
func New(store kv.Store, cfg config.Config, clock host.Clock, hashing host.Hashing, deposits host.DepositAccounting, executor host.XcmExecutor) *Router {
	registry := hrmp.NewRegistry(store, deposits)
	return &Router{
		cfg:      cfg,
		clock:    clock,
		DMP:      dmp.New(store, hashing),
		UMP:      ump.New(store),
		HRMP:     registry,
		Wire:     hrmp.NewPlane(store, registry, hashing),
		executor: executor,
		outgoing: kv.NewMap[struct{}, []paratypes.ParaId](store, kv.PrefixOutgoingParas, noKey),
		log:      xlog.New("router"),
	}
}

// Config returns the router's current configuration bundle.
func (r *Router) Config() config.Config { return r.cfg }

// OutgoingParas returns the ascending, duplicate-free list of paras
// scheduled for cleanup at the next session boundary.
func (r *Router) OutgoingParas() []paratypes.ParaId {
	v, _ := r.outgoing.Get(struct{}{})
	return v
}

// ProcessPendingUpwardMessages drains the UMP dispatch queues against the
// configured weight budget (spec.md §4.3).
func (r *Router) ProcessPendingUpwardMessages() {
	r.UMP.ProcessPendingUpwardMessages(r.cfg, r.executor)
}
