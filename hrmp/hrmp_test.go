package hrmp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaychain/parachains-router/config"
	"github.com/relaychain/parachains-router/host/hosttest"
	"github.com/relaychain/parachains-router/kv"
	"github.com/relaychain/parachains-router/paratypes"
)

func newTestRegistry() (*Registry, *hosttest.DepositLedger) {
	ledger := hosttest.NewDepositLedger()
	return NewRegistry(kv.NewMemoryStore(), ledger), ledger
}

func openAndMaterialize(t *testing.T, r *Registry, cfg config.Config, s, recip paratypes.ParaId) paratypes.ChannelId {
	t.Helper()
	require.NoError(t, r.Initiate(cfg, s, recip, 10, 1000, 100, paratypes.NewBalance(1000)))
	require.NoError(t, r.Accept(cfg, s, recip, paratypes.NewBalance(1000)))
	r.MaterializeConfirmed(cfg)
	return paratypes.ChannelId{Sender: s, Recipient: recip}
}

func TestInitiateRejectsDuplicateAndPending(t *testing.T) {
	r, _ := newTestRegistry()
	cfg := config.Default()

	require.NoError(t, r.Initiate(cfg, 1, 2, 1, 1, 1, paratypes.ZeroBalance()))
	assert.ErrorIs(t, r.Initiate(cfg, 1, 2, 1, 1, 1, paratypes.ZeroBalance()), ErrOpenRequestInvalid)
	assert.ErrorIs(t, r.Initiate(cfg, 1, 2, 1, 1, 1, paratypes.ZeroBalance()), ErrOpenAlreadyPending)
}

func TestInitiateRejectsLimitsExceedingConfig(t *testing.T) {
	r, _ := newTestRegistry()
	cfg := config.Default()

	err := r.Initiate(cfg, 1, 2, cfg.HrmpChannelMaxPlaces+1, 1, 1, paratypes.ZeroBalance())
	assert.ErrorIs(t, err, ErrOpenLimitsExceedCfg)
}

func TestInitiateRejectsSenderCap(t *testing.T) {
	r, _ := newTestRegistry()
	cfg := config.Default()
	cfg.HrmpMaxParachainOutboundChannels = 1

	require.NoError(t, r.Initiate(cfg, 1, 2, 1, 1, 1, paratypes.ZeroBalance()))
	assert.ErrorIs(t, r.Initiate(cfg, 1, 3, 1, 1, 1, paratypes.ZeroBalance()), ErrOpenSenderCapped)
}

func TestAcceptRejectsMissingAndCap(t *testing.T) {
	r, _ := newTestRegistry()
	cfg := config.Default()

	assert.ErrorIs(t, r.Accept(cfg, 1, 2, paratypes.ZeroBalance()), ErrAcceptNoSuchRequest)

	cfg.HrmpMaxParachainInboundChannels = 1
	require.NoError(t, r.Initiate(cfg, 1, 2, 1, 1, 1, paratypes.ZeroBalance()))
	require.NoError(t, r.Initiate(cfg, 3, 2, 1, 1, 1, paratypes.ZeroBalance()))
	require.NoError(t, r.Accept(cfg, 1, 2, paratypes.ZeroBalance()))
	assert.ErrorIs(t, r.Accept(cfg, 3, 2, paratypes.ZeroBalance()), ErrAcceptRecipientCap)
}

// Invariant 3 & 5 (spec.md §8): materializing a confirmed request populates
// both ingress/egress indexes and decrements both pending-request counters.
func TestMaterializeUpdatesIndexesAndCounters(t *testing.T) {
	r, _ := newTestRegistry()
	cfg := config.Default()

	c := openAndMaterialize(t, r, cfg, 1, 2)

	_, ok := r.ChannelOf(c)
	require.True(t, ok)
	assert.Equal(t, []paratypes.ParaId{1}, r.IngressOf(2))
	assert.Equal(t, []paratypes.ParaId{2}, r.EgressOf(1))

	count, _ := r.openReqCount.Get(1)
	assert.Equal(t, uint32(0), count)
	accepted, _ := r.acceptedCount.Get(2)
	assert.Equal(t, uint32(0), accepted)
}

func TestInitiateAndAcceptHoldDeposits(t *testing.T) {
	r, ledger := newTestRegistry()
	cfg := config.Default()

	require.NoError(t, r.Initiate(cfg, 1, 2, 1, 1, 1, paratypes.NewBalance(10)))
	require.NoError(t, r.Accept(cfg, 1, 2, paratypes.NewBalance(20)))

	require.Len(t, ledger.Holds, 2)
	assert.Equal(t, uint64(10), ledger.Holds[0].Amount.Uint64())
	assert.Equal(t, uint64(20), ledger.Holds[1].Amount.Uint64())
}

func TestAgeOpenRequestsDropsAndRefundsAfterTTL(t *testing.T) {
	r, ledger := newTestRegistry()
	cfg := config.Default()
	cfg.HrmpOpenRequestTTL = 2

	require.NoError(t, r.Initiate(cfg, 1, 2, 1, 1, 1, paratypes.NewBalance(500)))

	r.AgeOpenRequests(cfg)
	req, ok := r.openReq.Get(paratypes.ChannelId{Sender: 1, Recipient: 2})
	require.True(t, ok)
	assert.Equal(t, paratypes.SessionIndex(1), req.Age)
	assert.Empty(t, ledger.Releases)

	r.AgeOpenRequests(cfg)
	_, ok = r.openReq.Get(paratypes.ChannelId{Sender: 1, Recipient: 2})
	assert.False(t, ok)
	require.Len(t, ledger.Releases, 1)
	assert.Equal(t, uint64(500), ledger.Releases[0].Amount.Uint64())
}

func TestProcessCloseRequestsTearsDownChannel(t *testing.T) {
	r, ledger := newTestRegistry()
	cfg := config.Default()
	c := openAndMaterialize(t, r, cfg, 1, 2)

	require.NoError(t, r.Close(c))
	closed := r.ProcessCloseRequests()

	assert.Equal(t, []paratypes.ChannelId{c}, closed)
	_, ok := r.ChannelOf(c)
	assert.False(t, ok)
	assert.Empty(t, r.IngressOf(2))
	assert.Empty(t, r.EgressOf(1))
	assert.Len(t, ledger.Releases, 2)
}

func TestScheduleCloseForParaCoversBothDirections(t *testing.T) {
	r, _ := newTestRegistry()
	cfg := config.Default()
	c1 := openAndMaterialize(t, r, cfg, 1, 2)
	c2 := openAndMaterialize(t, r, cfg, 2, 3)

	r.ScheduleCloseForPara(2)
	closed := r.ProcessCloseRequests()

	assert.ElementsMatch(t, []paratypes.ChannelId{c1, c2}, closed)
}

func newTestPlane(t *testing.T) (*Registry, *Plane) {
	t.Helper()
	r, _ := newTestRegistry()
	return r, NewPlane(kv.NewMemoryStore(), r, hosttest.Hashing{})
}

func TestSendRejectsMissingChannel(t *testing.T) {
	_, p := newTestPlane(t)
	err := p.Send(paratypes.ChannelId{Sender: 1, Recipient: 2}, []byte("hi"), 1)
	assert.ErrorIs(t, err, ErrMessageNoSuchChannel)
}

func TestSendRejectsOversizeAndCapacity(t *testing.T) {
	r, p := newTestPlane(t)
	cfg := config.Default()
	require.NoError(t, r.Initiate(cfg, 1, 2, 1, 4, 3, paratypes.ZeroBalance()))
	require.NoError(t, r.Accept(cfg, 1, 2, paratypes.ZeroBalance()))
	r.MaterializeConfirmed(cfg)
	c := paratypes.ChannelId{Sender: 1, Recipient: 2}

	assert.ErrorIs(t, p.Send(c, []byte("abcd"), 1), ErrMessageOversize)
	require.NoError(t, p.Send(c, []byte("abc"), 1))
	assert.ErrorIs(t, p.Send(c, []byte("x"), 1), ErrMessagePlacesExceeded)
}

// Invariant 4 & 6 (spec.md §8): used_places/used_bytes track the content
// queue exactly, and digest entries are nonempty with ascending blocks.
func TestSendUpdatesChannelAndDigest(t *testing.T) {
	r, p := newTestPlane(t)
	cfg := config.Default()
	require.NoError(t, r.Initiate(cfg, 1, 2, 10, 1000, 100, paratypes.ZeroBalance()))
	require.NoError(t, r.Accept(cfg, 1, 2, paratypes.ZeroBalance()))
	r.MaterializeConfirmed(cfg)
	c := paratypes.ChannelId{Sender: 1, Recipient: 2}

	require.NoError(t, p.Send(c, []byte("one"), 5))
	require.NoError(t, p.Send(c, []byte("two"), 5))
	require.NoError(t, p.Send(c, []byte("three"), 6))

	ch, _ := r.ChannelOf(c)
	assert.Equal(t, uint32(3), ch.UsedPlaces)
	assert.Equal(t, uint32(len("one")+len("two")+len("three")), ch.UsedBytes)
	assert.True(t, ch.HasMqcHead)

	digests := p.DigestsOf(2)
	require.Len(t, digests, 2)
	assert.Equal(t, paratypes.BlockNumber(5), digests[0].Block)
	assert.Equal(t, []paratypes.ParaId{1}, digests[0].Senders)
	assert.Equal(t, paratypes.BlockNumber(6), digests[1].Block)
}

func TestAdvanceWatermarkDropsAcknowledgedPrefixAndPrunesDigest(t *testing.T) {
	r, p := newTestPlane(t)
	cfg := config.Default()
	require.NoError(t, r.Initiate(cfg, 1, 2, 10, 1000, 100, paratypes.ZeroBalance()))
	require.NoError(t, r.Accept(cfg, 1, 2, paratypes.ZeroBalance()))
	r.MaterializeConfirmed(cfg)
	c := paratypes.ChannelId{Sender: 1, Recipient: 2}

	require.NoError(t, p.Send(c, []byte("a"), 5))
	require.NoError(t, p.Send(c, []byte("bb"), 10))

	require.NoError(t, p.AdvanceWatermark(2, 5, 10))
	assert.Len(t, p.ContentsOf(c), 1)
	ch, _ := r.ChannelOf(c)
	assert.Equal(t, uint32(1), ch.UsedPlaces)
	assert.Equal(t, uint32(2), ch.UsedBytes)
	assert.Len(t, p.DigestsOf(2), 1)

	require.NoError(t, p.AdvanceWatermark(2, 10, 10))
	assert.Empty(t, p.ContentsOf(c))
	assert.Empty(t, p.DigestsOf(2))
}

func TestAdvanceWatermarkRejectsNonMonotonicOrFuture(t *testing.T) {
	_, p := newTestPlane(t)
	require.NoError(t, p.AdvanceWatermark(2, 5, 10))
	assert.ErrorIs(t, p.AdvanceWatermark(2, 4, 10), ErrWatermarkInvalid)
	assert.ErrorIs(t, p.AdvanceWatermark(2, 20, 10), ErrWatermarkInvalid)
}

func TestPruneClosedChannelsDeletesContents(t *testing.T) {
	r, p := newTestPlane(t)
	cfg := config.Default()
	c := openAndMaterialize(t, r, cfg, 1, 2)
	require.NoError(t, p.Send(c, []byte("x"), 1))

	require.NoError(t, r.Close(c))
	closed := r.ProcessCloseRequests()
	p.PruneClosedChannels(closed)

	assert.Empty(t, p.ContentsOf(c))
}
