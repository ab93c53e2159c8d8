package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTOMLOverridesSubset(t *testing.T) {
	data := []byte(`
CriticalDownwardMessageSize = 7
HrmpOpenRequestTTL = 5
`)
	cfg, err := ParseTOML(data)
	require.NoError(t, err)

	assert.Equal(t, uint32(7), cfg.CriticalDownwardMessageSize)
	assert.EqualValues(t, 5, cfg.HrmpOpenRequestTTL)

	// Untouched fields keep their Default() values.
	def := Default()
	assert.Equal(t, def.MaxUpwardQueueCount, cfg.MaxUpwardQueueCount)
	assert.Equal(t, def.HrmpChannelMaxBytes, cfg.HrmpChannelMaxBytes)
}

func TestDefaultIsInternallyConsistent(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.PreferredDispatchableUpwardMessagesStepWeight.GreaterOrEqual(
		cfg.DispatchableUpwardMessageCriticalWeight))
}
