package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaychain/parachains-router/paratypes"
)

// S1 — scheduled cleanup (spec.md §8).
func TestScenarioS1ScheduledCleanup(t *testing.T) {
	r := newTestRouter()
	cfg := r.Config()

	const (
		paraA paratypes.ParaId = 1312
		paraB paratypes.ParaId = 228
		paraC paratypes.ParaId = 123
	)

	for _, msg := range []byte{1, 2, 3} {
		require.NoError(t, r.DMP.QueueDownwardMessage(cfg, paraA, 1, []byte{msg}))
	}
	for _, msg := range []byte{4, 5, 6} {
		require.NoError(t, r.DMP.QueueDownwardMessage(cfg, paraB, 1, []byte{msg}))
	}
	for _, msg := range []byte{7, 8, 9} {
		require.NoError(t, r.DMP.QueueDownwardMessage(cfg, paraC, 1, []byte{msg}))
	}

	r.ScheduleParaCleanup(paraA)

	// Advance to block 2, no session change: all three queues still
	// nonempty.
	assert.Equal(t, uint32(3), r.DMP.DmqLength(paraA))
	assert.Equal(t, uint32(3), r.DMP.DmqLength(paraB))
	assert.Equal(t, uint32(3), r.DMP.DmqLength(paraC))

	r.ScheduleParaCleanup(paraB)

	// Advance to block 3 with a session change.
	r.OnNewSession()

	assert.Equal(t, uint32(0), r.DMP.DmqLength(paraA))
	assert.Equal(t, uint32(0), r.DMP.DmqLength(paraB))
	assert.Equal(t, uint32(3), r.DMP.DmqLength(paraC))
	assert.Empty(t, r.OutgoingParas())
}
