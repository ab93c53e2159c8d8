package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/relaychain/parachains-router/paratypes"
)

func paratypesWeight(v uint64) paratypes.Weight   { return paratypes.NewWeight(v) }
func paratypesBalance(v uint64) paratypes.Balance { return paratypes.NewBalance(v) }
func sessionIndex(v uint32) paratypes.SessionIndex { return paratypes.SessionIndex(v) }

// fileConfig mirrors Config's fields for TOML decoding, matching
// go-ethereum's genesis/config file loading convention (BurntSushi/toml) of
// decoding into a plain struct rather than a CLI flag set. This is an
// optional affordance: the router itself never reads files or flags
// (spec.md §6: "No CLI, no environment variables").
type fileConfig struct {
	CriticalDownwardMessageSize uint32

	MaxUpwardMessageNumPerCandidate uint32
	MaxUpwardQueueCount             uint32
	MaxUpwardQueueSize              uint32

	PreferredDispatchableUpwardMessagesStepWeight uint64
	DispatchableUpwardMessageCriticalWeight       uint64

	HrmpOpenRequestTTL               uint32
	HrmpSenderDeposit                uint64
	HrmpRecipientDeposit             uint64
	HrmpMaxParachainInboundChannels  uint32
	HrmpMaxParachainOutboundChannels uint32
	HrmpChannelMaxPlaces             uint32
	HrmpChannelMaxBytes              uint32
	HrmpChannelMaxMessageSize        uint32
}

// LoadTOML reads a Config from a TOML file at path, starting from
// Default() so that an abbreviated file only needs to set the options it
// wants to override.
func LoadTOML(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseTOML(raw)
}

// ParseTOML decodes TOML bytes into a Config, layered over Default().
func ParseTOML(data []byte) (Config, error) {
	cfg := Default()
	fc := toFileConfig(cfg)
	if err := toml.Unmarshal(data, &fc); err != nil {
		return Config{}, err
	}
	return fromFileConfig(fc), nil
}

func toFileConfig(c Config) fileConfig {
	return fileConfig{
		CriticalDownwardMessageSize:                   c.CriticalDownwardMessageSize,
		MaxUpwardMessageNumPerCandidate:                c.MaxUpwardMessageNumPerCandidate,
		MaxUpwardQueueCount:                             c.MaxUpwardQueueCount,
		MaxUpwardQueueSize:                              c.MaxUpwardQueueSize,
		PreferredDispatchableUpwardMessagesStepWeight: c.PreferredDispatchableUpwardMessagesStepWeight.Uint64(),
		DispatchableUpwardMessageCriticalWeight:       c.DispatchableUpwardMessageCriticalWeight.Uint64(),
		HrmpOpenRequestTTL:                             uint32(c.HrmpOpenRequestTTL),
		HrmpSenderDeposit:                              c.HrmpSenderDeposit.Uint64(),
		HrmpRecipientDeposit:                            c.HrmpRecipientDeposit.Uint64(),
		HrmpMaxParachainInboundChannels:                c.HrmpMaxParachainInboundChannels,
		HrmpMaxParachainOutboundChannels:               c.HrmpMaxParachainOutboundChannels,
		HrmpChannelMaxPlaces:                            c.HrmpChannelMaxPlaces,
		HrmpChannelMaxBytes:                             c.HrmpChannelMaxBytes,
		HrmpChannelMaxMessageSize:                       c.HrmpChannelMaxMessageSize,
	}
}

func fromFileConfig(fc fileConfig) Config {
	return Config{
		CriticalDownwardMessageSize:                    fc.CriticalDownwardMessageSize,
		MaxUpwardMessageNumPerCandidate:                 fc.MaxUpwardMessageNumPerCandidate,
		MaxUpwardQueueCount:                              fc.MaxUpwardQueueCount,
		MaxUpwardQueueSize:                               fc.MaxUpwardQueueSize,
		PreferredDispatchableUpwardMessagesStepWeight: paratypesWeight(fc.PreferredDispatchableUpwardMessagesStepWeight),
		DispatchableUpwardMessageCriticalWeight:       paratypesWeight(fc.DispatchableUpwardMessageCriticalWeight),
		HrmpOpenRequestTTL:                             sessionIndex(fc.HrmpOpenRequestTTL),
		HrmpSenderDeposit:                              paratypesBalance(fc.HrmpSenderDeposit),
		HrmpRecipientDeposit:                            paratypesBalance(fc.HrmpRecipientDeposit),
		HrmpMaxParachainInboundChannels:                 fc.HrmpMaxParachainInboundChannels,
		HrmpMaxParachainOutboundChannels:                fc.HrmpMaxParachainOutboundChannels,
		HrmpChannelMaxPlaces:                             fc.HrmpChannelMaxPlaces,
		HrmpChannelMaxBytes:                              fc.HrmpChannelMaxBytes,
		HrmpChannelMaxMessageSize:                        fc.HrmpChannelMaxMessageSize,
	}
}
