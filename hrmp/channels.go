package hrmp

import (
	"github.com/relaychain/parachains-router/common"
	"github.com/relaychain/parachains-router/config"
	"github.com/relaychain/parachains-router/host"
	"github.com/relaychain/parachains-router/kv"
	"github.com/relaychain/parachains-router/paratypes"
	"github.com/relaychain/parachains-router/xlog"
	"github.com/relaychain/parachains-router/xmetrics"
)

// Registry owns the HRMP channel open/accept/close lifecycle: pending open
// and close requests, materialized channels, and the ingress/egress indexes
// (spec.md §4.4).
type Registry struct {
	deposits host.DepositAccounting
	log      xlog.Logger

	openReq       *kv.Map[paratypes.ChannelId, OpenRequest]
	openReqList   *kv.Map[struct{}, []paratypes.ChannelId]
	openReqCount  *kv.Map[paratypes.ParaId, uint32]
	acceptedCount *kv.Map[paratypes.ParaId, uint32]

	closeReq     *kv.Map[paratypes.ChannelId, struct{}]
	closeReqList *kv.Map[struct{}, []paratypes.ChannelId]

	channels *kv.Map[paratypes.ChannelId, Channel]
	ingress  *kv.Map[paratypes.ParaId, []paratypes.ParaId]
	egress   *kv.Map[paratypes.ParaId, []paratypes.ParaId]

	channelsGauge    interface{ Update(int64) }
	openChannelCount int64
}

// NewRegistry constructs a Registry persisting into store, refunding and
// collecting deposits through deposits.
func NewRegistry(store kv.Store, deposits host.DepositAccounting) *Registry {
	return &Registry{
		deposits: deposits,
		log:      xlog.New("hrmp.registry"),

		openReq:       kv.NewMap[paratypes.ChannelId, OpenRequest](store, kv.PrefixHrmpOpenChannelRequests, channelKey),
		openReqList:   kv.NewMap[struct{}, []paratypes.ChannelId](store, kv.PrefixHrmpOpenChannelRequestsList, noKey),
		openReqCount:  kv.NewMap[paratypes.ParaId, uint32](store, kv.PrefixHrmpOpenChannelRequestCount, paraKey),
		acceptedCount: kv.NewMap[paratypes.ParaId, uint32](store, kv.PrefixHrmpAcceptedChannelReqCount, paraKey),

		closeReq:     kv.NewMap[paratypes.ChannelId, struct{}](store, kv.PrefixHrmpCloseChannelRequests, channelKey),
		closeReqList: kv.NewMap[struct{}, []paratypes.ChannelId](store, kv.PrefixHrmpCloseChannelReqList, noKey),

		channels: kv.NewMap[paratypes.ChannelId, Channel](store, kv.PrefixHrmpChannels, channelKey),
		ingress:  kv.NewMap[paratypes.ParaId, []paratypes.ParaId](store, kv.PrefixHrmpIngressChannelsIndex, paraKey),
		egress:   kv.NewMap[paratypes.ParaId, []paratypes.ParaId](store, kv.PrefixHrmpEgressChannelsIndex, paraKey),

		channelsGauge: xmetrics.GetOrRegisterGauge("hrmp/open_channels"),
	}
}

func paraAccount(p paratypes.ParaId) host.Account { return host.Account(paraKey(p)) }

// IngressOf returns the ascending, duplicate-free list of paras with an open
// channel into recipient p.
func (r *Registry) IngressOf(p paratypes.ParaId) []paratypes.ParaId {
	v, _ := r.ingress.Get(p)
	return v
}

// EgressOf returns the ascending, duplicate-free list of paras sender p has
// an open channel to.
func (r *Registry) EgressOf(p paratypes.ParaId) []paratypes.ParaId {
	v, _ := r.egress.Get(p)
	return v
}

// ChannelOf returns the open channel C, if any.
func (r *Registry) ChannelOf(c paratypes.ChannelId) (Channel, bool) {
	return r.channels.Get(c)
}

// Initiate implements spec.md §4.4's Initiate step: sender s proposes a
// channel to recipient r. Rejects a duplicate or already-pending channel, a
// sender already at its configured open-request cap, or limits that exceed
// the configured channel caps.
func (r *Registry) Initiate(cfg config.Config, s, recip paratypes.ParaId, limitPlaces, limitBytes, limitMessageSize uint32, senderDeposit paratypes.Balance) error {
	c := paratypes.ChannelId{Sender: s, Recipient: recip}

	if r.channels.Has(c) {
		return ErrOpenChannelExists
	}
	if r.openReq.Has(c) {
		return ErrOpenAlreadyPending
	}
	if count, _ := r.openReqCount.Get(s); count >= cfg.HrmpMaxParachainOutboundChannels {
		return ErrOpenSenderCapped
	}
	if limitPlaces > cfg.HrmpChannelMaxPlaces || limitBytes > cfg.HrmpChannelMaxBytes || limitMessageSize > cfg.HrmpChannelMaxMessageSize {
		return ErrOpenLimitsExceedCfg
	}

	if err := r.deposits.Hold(paraAccount(s), senderDeposit); err != nil {
		return err
	}

	r.openReq.Set(c, OpenRequest{
		Confirmed:        false,
		Age:              0,
		SenderDeposit:    senderDeposit,
		LimitUsedPlaces:  limitPlaces,
		LimitUsedBytes:   limitBytes,
		LimitMessageSize: limitMessageSize,
	})

	list, _ := r.openReqList.Get(struct{}{})
	if list2, ok := insertChannelSorted(list, c); ok {
		r.openReqList.Set(struct{}{}, list2)
	}
	r.openReqCount.Set(s, count1(r.openReqCount, s))

	r.log.Debug("hrmp open request initiated", "channel", c)
	return nil
}

// Accept implements spec.md §4.4's Accept step: recipient recip confirms a
// pending request from s.
func (r *Registry) Accept(cfg config.Config, s, recip paratypes.ParaId, recipientDeposit paratypes.Balance) error {
	c := paratypes.ChannelId{Sender: s, Recipient: recip}

	req, ok := r.openReq.Get(c)
	if !ok {
		return ErrAcceptNoSuchRequest
	}
	if req.Confirmed {
		return ErrAcceptAlreadyDone
	}
	if count, _ := r.acceptedCount.Get(recip); count >= cfg.HrmpMaxParachainInboundChannels {
		return ErrAcceptRecipientCap
	}
	if err := r.deposits.Hold(paraAccount(recip), recipientDeposit); err != nil {
		return err
	}

	req.Confirmed = true
	req.RecipientDeposit = recipientDeposit
	r.openReq.Set(c, req)
	r.acceptedCount.Set(recip, count1(r.acceptedCount, recip))

	r.log.Debug("hrmp open request accepted", "channel", c)
	return nil
}

// Close implements spec.md §4.4's Close step: either endpoint signals
// closure of an existing channel.
func (r *Registry) Close(c paratypes.ChannelId) error {
	if !r.channels.Has(c) {
		return ErrCloseNoSuchChannel
	}
	if r.closeReq.Has(c) {
		return nil
	}
	r.closeReq.Set(c, struct{}{})
	list, _ := r.closeReqList.Get(struct{}{})
	if list2, ok := insertChannelSorted(list, c); ok {
		r.closeReqList.Set(struct{}{}, list2)
	}
	return nil
}

// AgeOpenRequests implements spec.md §4.4's Ageing step, run at every
// session boundary: every pending open request's age is incremented; a
// request whose age reaches cfg.HrmpOpenRequestTTL is dropped and its
// sender deposit refunded.
func (r *Registry) AgeOpenRequests(cfg config.Config) {
	list, _ := r.openReqList.Get(struct{}{})
	kept := make([]paratypes.ChannelId, 0, len(list))

	for _, c := range list {
		req, ok := r.openReq.Get(c)
		if !ok {
			continue
		}
		req.Age++
		if req.Age >= cfg.HrmpOpenRequestTTL {
			r.dropOpenRequest(c, req)
			continue
		}
		r.openReq.Set(c, req)
		kept = append(kept, c)
	}
	r.openReqList.Set(struct{}{}, kept)
}

func (r *Registry) dropOpenRequest(c paratypes.ChannelId, req OpenRequest) {
	r.openReq.Delete(c)
	if count, ok := r.openReqCount.Get(c.Sender); ok && count > 0 {
		r.openReqCount.Set(c.Sender, count-1)
	}
	if req.Confirmed {
		if count, ok := r.acceptedCount.Get(c.Recipient); ok && count > 0 {
			r.acceptedCount.Set(c.Recipient, count-1)
		}
	}
	if err := r.deposits.Release(paraAccount(c.Sender), req.SenderDeposit); err != nil {
		r.log.Warn("hrmp sender deposit refund failed", "channel", c, "err", err)
	}
}

// MaterializeConfirmed implements spec.md §4.4's Materialize step: every
// confirmed open request becomes an open Channel, with both ingress/egress
// indexes updated and the request removed.
func (r *Registry) MaterializeConfirmed(cfg config.Config) {
	list, _ := r.openReqList.Get(struct{}{})
	kept := make([]paratypes.ChannelId, 0, len(list))

	for _, c := range list {
		req, ok := r.openReq.Get(c)
		if !ok {
			continue
		}
		if !req.Confirmed {
			kept = append(kept, c)
			continue
		}

		r.channels.Set(c, Channel{
			SenderDeposit:    req.SenderDeposit,
			RecipientDeposit: req.RecipientDeposit,
			LimitUsedPlaces:  req.LimitUsedPlaces,
			LimitUsedBytes:   req.LimitUsedBytes,
			LimitMessageSize: req.LimitMessageSize,
		})

		ingress, _ := r.ingress.Get(c.Recipient)
		if ingress2, ok := common.InsertUnique(ingress, c.Sender); ok {
			r.ingress.Set(c.Recipient, ingress2)
		}
		egress, _ := r.egress.Get(c.Sender)
		if egress2, ok := common.InsertUnique(egress, c.Recipient); ok {
			r.egress.Set(c.Sender, egress2)
		}

		r.openReq.Delete(c)
		if count, ok := r.openReqCount.Get(c.Sender); ok && count > 0 {
			r.openReqCount.Set(c.Sender, count-1)
		}
		if count, ok := r.acceptedCount.Get(c.Recipient); ok && count > 0 {
			r.acceptedCount.Set(c.Recipient, count-1)
		}
		r.bumpChannelsGauge(1)
		r.log.Info("hrmp channel opened", "channel", c)
	}
	r.openReqList.Set(struct{}{}, kept)
}

// ProcessCloseRequests implements spec.md §4.4's Teardown step: every
// pending close request tears down its channel and indexes, and releases
// both endpoints' deposits. It returns the torn-down channel ids so the
// caller can also clear the message plane's content/digest state for them
// (the Registry does not own that state — see Plane.PruneClosedChannels).
func (r *Registry) ProcessCloseRequests() []paratypes.ChannelId {
	list, _ := r.closeReqList.Get(struct{}{})
	var closed []paratypes.ChannelId
	for _, c := range list {
		ch, ok := r.channels.Get(c)
		if !ok {
			r.closeReq.Delete(c)
			continue
		}

		r.channels.Delete(c)
		r.closeReq.Delete(c)

		ingress, _ := r.ingress.Get(c.Recipient)
		if ingress2, ok := common.RemoveValue(ingress, c.Sender); ok {
			r.ingress.Set(c.Recipient, ingress2)
		}
		egress, _ := r.egress.Get(c.Sender)
		if egress2, ok := common.RemoveValue(egress, c.Recipient); ok {
			r.egress.Set(c.Sender, egress2)
		}

		if err := r.deposits.Release(paraAccount(c.Sender), ch.SenderDeposit); err != nil {
			r.log.Warn("hrmp sender deposit release failed", "channel", c, "err", err)
		}
		if err := r.deposits.Release(paraAccount(c.Recipient), ch.RecipientDeposit); err != nil {
			r.log.Warn("hrmp recipient deposit release failed", "channel", c, "err", err)
		}
		r.bumpChannelsGauge(-1)
		r.log.Info("hrmp channel closed", "channel", c)
		closed = append(closed, c)
	}
	r.closeReqList.Set(struct{}{}, nil)
	return closed
}

// ScheduleCloseForPara synthesizes a close request for every channel
// touching p (either as sender or recipient), as spec.md §4.6's
// on_new_session step 3 requires for an outgoing para.
func (r *Registry) ScheduleCloseForPara(p paratypes.ParaId) {
	for _, other := range r.EgressOf(p) {
		_ = r.Close(paratypes.ChannelId{Sender: p, Recipient: other})
	}
	for _, other := range r.IngressOf(p) {
		_ = r.Close(paratypes.ChannelId{Sender: other, Recipient: p})
	}
}

func (r *Registry) bumpChannelsGauge(delta int64) {
	r.openChannelCount += delta
	r.channelsGauge.Update(r.openChannelCount)
}

func count1(m *kv.Map[paratypes.ParaId, uint32], p paratypes.ParaId) uint32 {
	v, _ := m.Get(p)
	return v + 1
}
