package router

import (
	"github.com/relaychain/parachains-router/dmp"
	"github.com/relaychain/parachains-router/hrmp"
	"github.com/relaychain/parachains-router/ump"
)

// Error kinds surfaced to callers (spec.md §7). These are aliases onto the
// sentinels each engine already defines — Router does not wrap or reinterpret
// them, it just gives callers a single import for the full error surface.
var (
	ErrDownwardMessageTooLarge = dmp.ErrMessageTooLarge
	ErrUpwardMessagesRejected  = ump.ErrUpwardMessagesRejected
	ErrHrmpOpenRequestInvalid  = hrmp.ErrOpenRequestInvalid
	ErrHrmpAcceptInvalid       = hrmp.ErrAcceptInvalid
	ErrHrmpMessageRejected     = hrmp.ErrMessageRejected
	ErrHrmpWatermarkInvalid    = hrmp.ErrWatermarkInvalid
)
