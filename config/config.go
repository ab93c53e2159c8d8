// Package config defines the router's read-only tunable bundle (spec.md §6
// "Configuration"), modeled on go-ethereum's params.ChainConfig: a plain
// struct of protocol constants, cheap to copy, read by every engine but
// mutated by none of them.
package config

import "github.com/relaychain/parachains-router/paratypes"

// Config bundles every option spec.md §6 names.
type Config struct {
	// DMP
	CriticalDownwardMessageSize uint32

	// UMP acceptance
	MaxUpwardMessageNumPerCandidate uint32
	MaxUpwardQueueCount             uint32
	MaxUpwardQueueSize              uint32

	// UMP dispatch
	PreferredDispatchableUpwardMessagesStepWeight paratypes.Weight
	DispatchableUpwardMessageCriticalWeight       paratypes.Weight

	// HRMP
	HrmpOpenRequestTTL              paratypes.SessionIndex
	HrmpSenderDeposit               paratypes.Balance
	HrmpRecipientDeposit            paratypes.Balance
	HrmpMaxParachainInboundChannels uint32
	HrmpMaxParachainOutboundChannels uint32
	HrmpChannelMaxPlaces            uint32
	HrmpChannelMaxBytes             uint32
	HrmpChannelMaxMessageSize       uint32
}

// Default returns a Config with conservative, internally-consistent
// defaults, suitable as a starting point for tests and for hosts that only
// want to override a handful of options.
func Default() Config {
	return Config{
		CriticalDownwardMessageSize: 1 << 16,

		MaxUpwardMessageNumPerCandidate: 16,
		MaxUpwardQueueCount:             8192,
		MaxUpwardQueueSize:              1 << 20,

		PreferredDispatchableUpwardMessagesStepWeight: paratypes.NewWeight(100_000_000),
		DispatchableUpwardMessageCriticalWeight:       paratypes.NewWeight(10_000_000),

		HrmpOpenRequestTTL:               2,
		HrmpSenderDeposit:                paratypes.NewBalance(1_000_000),
		HrmpRecipientDeposit:             paratypes.NewBalance(1_000_000),
		HrmpMaxParachainInboundChannels:  4,
		HrmpMaxParachainOutboundChannels: 4,
		HrmpChannelMaxPlaces:             512,
		HrmpChannelMaxBytes:              1 << 20,
		HrmpChannelMaxMessageSize:        1 << 16,
	}
}
