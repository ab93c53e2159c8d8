package kv

// Key prefixes, assigned once in this file per spec.md §9's guidance on
// macro-generated storage maps: "a single module owning the key-prefix
// assignments." Every engine imports its prefix from here rather than
// constructing one inline, so a renamed constant cannot silently collide
// with another engine's keyspace.
const (
	PrefixOutgoingParas = "op/"

	PrefixDownwardMessageQueues     = "dmq/"
	PrefixDownwardMessageQueueHeads = "dmqh/"

	PrefixRelayDispatchQueues     = "rdq/"
	PrefixRelayDispatchQueueSize  = "rdqs/"
	PrefixNeedsDispatch           = "nd/"
	PrefixNextDispatchRoundStart  = "ndrs/"

	PrefixHrmpOpenChannelRequests     = "hocr/"
	PrefixHrmpOpenChannelRequestsList = "hocrl/"
	PrefixHrmpOpenChannelRequestCount = "hocrc/"
	PrefixHrmpAcceptedChannelReqCount = "haccrc/"
	PrefixHrmpCloseChannelRequests    = "hccr/"
	PrefixHrmpCloseChannelReqList     = "hccrl/"
	PrefixHrmpChannels                = "hc/"
	PrefixHrmpIngressChannelsIndex    = "hici/"
	PrefixHrmpEgressChannelsIndex     = "heci/"
	PrefixHrmpChannelContents         = "hcc/"
	PrefixHrmpWatermarks              = "hwm/"
	PrefixHrmpChannelDigests          = "hcd/"
)
