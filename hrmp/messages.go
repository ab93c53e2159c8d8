package hrmp

import (
	"github.com/relaychain/parachains-router/common"
	"github.com/relaychain/parachains-router/host"
	"github.com/relaychain/parachains-router/kv"
	"github.com/relaychain/parachains-router/mqc"
	"github.com/relaychain/parachains-router/paratypes"
	"github.com/relaychain/parachains-router/xlog"
)

// Plane owns HrmpChannelContents, HrmpWatermarks, and HrmpChannelDigests:
// the per-channel message FIFO and the recipient-side acknowledgment
// protocol of spec.md §4.5. It reads channel metadata (limits, used
// places/bytes, mqc_head) from a Registry but owns the content/digest maps
// itself, mirroring spec.md §3's split between the registry's channel
// header and the plane's message-bearing state.
type Plane struct {
	registry *Registry
	hashing  host.Hashing
	log      xlog.Logger

	contents     *kv.Map[paratypes.ChannelId, []InboundHrmpMessage]
	watermarks   *kv.Map[paratypes.ParaId, paratypes.BlockNumber]
	hasWatermark *kv.Map[paratypes.ParaId, bool]
	digests      *kv.Map[paratypes.ParaId, []DigestEntry]
}

// NewPlane constructs a Plane over registry's channels, persisting message
// and watermark state into store.
func NewPlane(store kv.Store, registry *Registry, hashing host.Hashing) *Plane {
	return &Plane{
		registry: registry,
		hashing:  hashing,
		log:      xlog.New("hrmp.plane"),

		contents:     kv.NewMap[paratypes.ChannelId, []InboundHrmpMessage](store, kv.PrefixHrmpChannelContents, channelKey),
		watermarks:   kv.NewMap[paratypes.ParaId, paratypes.BlockNumber](store, kv.PrefixHrmpWatermarks, paraKey),
		hasWatermark: kv.NewMap[paratypes.ParaId, bool](store, kv.PrefixHrmpWatermarks+"?", paraKey),
		digests:      kv.NewMap[paratypes.ParaId, []DigestEntry](store, kv.PrefixHrmpChannelDigests, paraKey),
	}
}

// ContentsOf returns the queued inbound messages for channel c.
func (p *Plane) ContentsOf(c paratypes.ChannelId) []InboundHrmpMessage {
	v, _ := p.contents.Get(c)
	return v
}

// WatermarkOf returns the recipient's last-acknowledged block, if any.
func (p *Plane) WatermarkOf(recip paratypes.ParaId) (paratypes.BlockNumber, bool) {
	has, _ := p.hasWatermark.Get(recip)
	if !has {
		return 0, false
	}
	v, _ := p.watermarks.Get(recip)
	return v, true
}

// DigestsOf returns recip's ascending, nonempty-sender-list digest entries.
func (p *Plane) DigestsOf(recip paratypes.ParaId) []DigestEntry {
	v, _ := p.digests.Get(recip)
	return v
}

// Send implements spec.md §4.5's Send step for a single (channel, message)
// pair: validates against the channel's limits, appends to the content
// FIFO, advances the channel's mqc_head, and records the sender in the
// recipient's digest for currentBlock.
func (p *Plane) Send(c paratypes.ChannelId, msg []byte, currentBlock paratypes.BlockNumber) error {
	ch, ok := p.registry.ChannelOf(c)
	if !ok {
		return ErrMessageNoSuchChannel
	}
	if uint32(len(msg)) > ch.LimitMessageSize {
		return ErrMessageOversize
	}
	if ch.UsedPlaces+1 > ch.LimitUsedPlaces {
		return ErrMessagePlacesExceeded
	}
	if uint64(ch.UsedBytes)+uint64(len(msg)) > uint64(ch.LimitUsedBytes) {
		return ErrMessageBytesExceeded
	}

	contents := p.ContentsOf(c)
	contents = append(contents, InboundHrmpMessage{SentAt: currentBlock, Data: msg})
	p.contents.Set(c, contents)

	ch.UsedPlaces++
	ch.UsedBytes += uint32(len(msg))
	head := paratypes.ZeroHash
	if ch.HasMqcHead {
		head = ch.MqcHead
	}
	ch.MqcHead = mqc.Append(p.hashing, head, currentBlock, msg)
	ch.HasMqcHead = true
	p.registry.channels.Set(c, ch)

	p.appendDigest(c.Recipient, c.Sender, currentBlock)

	p.log.Debug("hrmp message sent", "channel", c, "block", currentBlock)
	return nil
}

func (p *Plane) appendDigest(recip, sender paratypes.ParaId, block paratypes.BlockNumber) {
	entries := p.DigestsOf(recip)
	if n := len(entries); n > 0 && entries[n-1].Block == block {
		if senders2, ok := common.InsertUnique(entries[n-1].Senders, sender); ok {
			entries[n-1].Senders = senders2
			p.digests.Set(recip, entries)
		}
		return
	}
	entries = append(entries, DigestEntry{Block: block, Senders: []paratypes.ParaId{sender}})
	p.digests.Set(recip, entries)
}

// AdvanceWatermark implements spec.md §4.5's Receive-acknowledgment step:
// validates the candidate-supplied watermark w against the prior watermark,
// currentBlock, and the recipient's digest history, then drops the
// acknowledged message prefix from every ingress channel and prunes the
// digest.
func (p *Plane) AdvanceWatermark(recip paratypes.ParaId, w, currentBlock paratypes.BlockNumber) error {
	if prior, ok := p.WatermarkOf(recip); ok && w < prior {
		return ErrWatermarkInvalid
	}
	if w > currentBlock {
		return ErrWatermarkInvalid
	}

	digests := p.DigestsOf(recip)
	if len(digests) > 0 {
		matches := false
		for _, d := range digests {
			if d.Block == w {
				matches = true
				break
			}
		}
		if !matches && w > digests[0].Block {
			return ErrWatermarkInvalid
		}
	}

	for _, sender := range p.registry.IngressOf(recip) {
		c := paratypes.ChannelId{Sender: sender, Recipient: recip}
		p.dropAcknowledgedPrefix(c, w)
	}

	kept := make([]DigestEntry, 0, len(digests))
	for _, d := range digests {
		if d.Block > w {
			kept = append(kept, d)
		}
	}
	p.digests.Set(recip, kept)
	p.hasWatermark.Set(recip, true)
	p.watermarks.Set(recip, w)

	return nil
}

// PruneClosedChannels deletes the content queue for every channel id the
// registry just tore down (spec.md §4.4 Teardown: "delete HrmpChannelContents[C]").
// Digests are recipient-keyed and shared across a recipient's ingress
// channels, so they are left to the normal watermark-driven pruning in
// AdvanceWatermark rather than being touched here.
func (p *Plane) PruneClosedChannels(closed []paratypes.ChannelId) {
	for _, c := range closed {
		p.contents.Delete(c)
	}
}

func (p *Plane) dropAcknowledgedPrefix(c paratypes.ChannelId, w paratypes.BlockNumber) {
	contents := p.ContentsOf(c)
	cut := 0
	var droppedBytes uint32
	for cut < len(contents) && contents[cut].SentAt <= w {
		droppedBytes += uint32(len(contents[cut].Data))
		cut++
	}
	if cut == 0 {
		return
	}

	p.contents.Set(c, append([]InboundHrmpMessage(nil), contents[cut:]...))

	ch, ok := p.registry.ChannelOf(c)
	if !ok {
		return
	}
	ch.UsedPlaces -= uint32(cut)
	ch.UsedBytes -= droppedBytes
	p.registry.channels.Set(c, ch)
}
