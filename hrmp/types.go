// Package hrmp implements horizontal relay-routed message passing: the
// channel open/accept/close lifecycle (spec.md §4.4) and the per-channel
// message plane with watermark-based acknowledgement (spec.md §4.5).
package hrmp

import (
	"sort"

	"github.com/relaychain/parachains-router/paratypes"
)

// OpenRequest is a pending (unconfirmed or confirmed-but-not-yet-open)
// HRMP channel proposal. LimitMessageSize is carried here even though
// spec.md §4.4's struct sketch omits it, because §4.4's own Initiate
// step lists it as a caller-supplied parameter that must survive until
// Materialize creates the Channel.
type OpenRequest struct {
	Confirmed        bool
	Age              paratypes.SessionIndex
	SenderDeposit    paratypes.Balance
	RecipientDeposit paratypes.Balance
	LimitUsedPlaces  uint32
	LimitUsedBytes   uint32
	LimitMessageSize uint32
}

// Channel is an open HRMP channel's metadata.
type Channel struct {
	SenderDeposit    paratypes.Balance
	RecipientDeposit paratypes.Balance
	LimitUsedPlaces  uint32
	LimitUsedBytes   uint32
	LimitMessageSize uint32
	UsedPlaces       uint32
	UsedBytes        uint32
	MqcHead          paratypes.Hash
	HasMqcHead       bool
}

// InboundHrmpMessage is one queued message in a channel's content FIFO.
type InboundHrmpMessage struct {
	SentAt paratypes.BlockNumber
	Data   []byte
}

// DigestEntry records that, at Block, the listed (sorted, unique, nonempty)
// Senders appended a message to the owning recipient's inbound channels.
type DigestEntry struct {
	Block   paratypes.BlockNumber
	Senders []paratypes.ParaId
}

func channelKey(c paratypes.ChannelId) []byte {
	return []byte{
		byte(c.Sender >> 24), byte(c.Sender >> 16), byte(c.Sender >> 8), byte(c.Sender),
		byte(c.Recipient >> 24), byte(c.Recipient >> 16), byte(c.Recipient >> 8), byte(c.Recipient),
	}
}

func paraKey(p paratypes.ParaId) []byte {
	return []byte{byte(p >> 24), byte(p >> 16), byte(p >> 8), byte(p)}
}

func noKey(struct{}) []byte { return nil }

// insertChannelSorted inserts c into the ascending, duplicate-free list list,
// reporting whether an insertion happened. ChannelId has no native ordering
// over its pair the way scalar ParaIds do, so the HRMP channel-id list
// companions get their own binary-search helper rather than reusing
// common.InsertUnique (which is scoped to single-word integer keys).
func insertChannelSorted(list []paratypes.ChannelId, c paratypes.ChannelId) ([]paratypes.ChannelId, bool) {
	i := sort.Search(len(list), func(i int) bool { return !list[i].Less(c) })
	if i < len(list) && list[i] == c {
		return list, false
	}
	list = append(list, paratypes.ChannelId{})
	copy(list[i+1:], list[i:])
	list[i] = c
	return list, true
}
