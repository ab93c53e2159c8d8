package dmp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaychain/parachains-router/config"
	"github.com/relaychain/parachains-router/host/hosttest"
	"github.com/relaychain/parachains-router/kv"
	"github.com/relaychain/parachains-router/paratypes"
)

func newTestEngine() *Engine {
	return New(kv.NewMemoryStore(), hosttest.Hashing{})
}

// S2 — DMP length & head.
func TestDmpLengthAndHead(t *testing.T) {
	e := newTestEngine()
	cfg := config.Default()
	const A, B paratypes.ParaId = 1312, 228

	assert.Equal(t, uint32(0), e.DmqLength(A))
	assert.Equal(t, uint32(0), e.DmqLength(B))

	for _, m := range []byte{1, 2, 3} {
		require.NoError(t, e.QueueDownwardMessage(cfg, A, 1, []byte{m}))
	}

	assert.Equal(t, uint32(3), e.DmqLength(A))
	assert.Equal(t, uint32(0), e.DmqLength(B))

	_, ok := e.DmqMqcHead(A)
	assert.True(t, ok)
	_, ok = e.DmqMqcHead(B)
	assert.False(t, ok)
}

// S3 — processed-messages predicate.
func TestCheckProcessedDownwardMessages(t *testing.T) {
	e := newTestEngine()
	cfg := config.Default()
	const A paratypes.ParaId = 1

	assert.True(t, e.CheckProcessedDownwardMessages(A, 0))
	assert.False(t, e.CheckProcessedDownwardMessages(A, 1))

	for _, m := range []byte{1, 2, 3} {
		require.NoError(t, e.QueueDownwardMessage(cfg, A, 1, []byte{m}))
	}

	assert.False(t, e.CheckProcessedDownwardMessages(A, 0))
	for n := uint32(1); n <= 3; n++ {
		assert.True(t, e.CheckProcessedDownwardMessages(A, n))
	}
	assert.False(t, e.CheckProcessedDownwardMessages(A, 4))
}

// S4 — DMP pruning.
func TestPruneDMQ(t *testing.T) {
	e := newTestEngine()
	cfg := config.Default()
	const A paratypes.ParaId = 1

	for _, m := range []byte{1, 2, 3} {
		require.NoError(t, e.QueueDownwardMessage(cfg, A, 1, []byte{m}))
	}

	e.PruneDMQ(A, 0)
	assert.Equal(t, uint32(3), e.DmqLength(A))

	e.PruneDMQ(A, 2)
	assert.Equal(t, uint32(1), e.DmqLength(A))
}

func TestPruneDMQBeyondLengthClears(t *testing.T) {
	e := newTestEngine()
	cfg := config.Default()
	const A paratypes.ParaId = 1
	require.NoError(t, e.QueueDownwardMessage(cfg, A, 1, []byte{1}))

	e.PruneDMQ(A, 50)
	assert.Equal(t, uint32(0), e.DmqLength(A))
}

func TestPruneDMQDoesNotClearHead(t *testing.T) {
	e := newTestEngine()
	cfg := config.Default()
	const A paratypes.ParaId = 1
	require.NoError(t, e.QueueDownwardMessage(cfg, A, 1, []byte{1}))

	headBefore, _ := e.DmqMqcHead(A)
	e.PruneDMQ(A, 1)
	headAfter, ok := e.DmqMqcHead(A)
	assert.True(t, ok)
	assert.Equal(t, headBefore, headAfter)
}

// S5 — critical size.
func TestQueueDownwardMessageCriticalSize(t *testing.T) {
	e := newTestEngine()
	cfg := config.Default()
	cfg.CriticalDownwardMessageSize = 7
	const A paratypes.ParaId = 1

	require.NoError(t, e.QueueDownwardMessage(cfg, A, 1, make([]byte, 4)))
	err := e.QueueDownwardMessage(cfg, A, 1, make([]byte, 9))
	assert.ErrorIs(t, err, ErrMessageTooLarge)
	// The rejected message must not have been enqueued.
	assert.Equal(t, uint32(1), e.DmqLength(A))
}

func TestRemoveParaClearsQueueAndHead(t *testing.T) {
	e := newTestEngine()
	cfg := config.Default()
	const A paratypes.ParaId = 1
	require.NoError(t, e.QueueDownwardMessage(cfg, A, 1, []byte{1}))

	e.RemovePara(A)
	assert.Equal(t, uint32(0), e.DmqLength(A))
	_, ok := e.DmqMqcHead(A)
	assert.False(t, ok)
}
