package hrmp

import "errors"

// Open-channel request errors. spec.md §7 names a single HrmpOpenRequestInvalid
// kind and notes subkinds should be distinguished "if caller needs them" —
// original_source's runtime pallet does distinguish these at the call site
// (ChannelAlreadyExists / OpenHrmpChannelAlreadyExists / ... as distinct
// dispatch errors), so this router supplements the collapsed spec kind with
// the original's split, wrapping a common sentinel for callers that only
// want the coarse kind (see DESIGN.md).
var (
	ErrOpenRequestInvalid  = errors.New("hrmp: open request invalid")
	ErrOpenChannelExists   = wrap(ErrOpenRequestInvalid, "channel already exists")
	ErrOpenAlreadyPending  = wrap(ErrOpenRequestInvalid, "open request already pending")
	ErrOpenSenderCapped    = wrap(ErrOpenRequestInvalid, "sender's pending open-request count at configured cap")
	ErrOpenLimitsExceedCfg = wrap(ErrOpenRequestInvalid, "requested limits exceed configured channel caps")

	ErrAcceptInvalid       = errors.New("hrmp: accept invalid")
	ErrAcceptNoSuchRequest = wrap(ErrAcceptInvalid, "no pending open request for channel")
	ErrAcceptAlreadyDone   = wrap(ErrAcceptInvalid, "open request already confirmed")
	ErrAcceptRecipientCap  = wrap(ErrAcceptInvalid, "recipient's accepted-request count at configured cap")

	ErrCloseNoSuchChannel = errors.New("hrmp: no such channel to close")

	ErrMessageRejected       = errors.New("hrmp: message rejected")
	ErrMessageNoSuchChannel  = wrap(ErrMessageRejected, "no such channel")
	ErrMessageOversize       = wrap(ErrMessageRejected, "message exceeds channel's limit_message_size")
	ErrMessagePlacesExceeded = wrap(ErrMessageRejected, "channel's limit_used_places would be exceeded")
	ErrMessageBytesExceeded  = wrap(ErrMessageRejected, "channel's limit_used_bytes would be exceeded")

	ErrWatermarkInvalid = errors.New("hrmp: watermark invalid")
)

// wrappedError lets subkinds satisfy errors.Is against both the specific
// sentinel and the coarser kind spec.md §7 names, without pulling in a
// third-party errors package.
type wrappedError struct {
	parent error
	msg    string
}

func (e *wrappedError) Error() string { return e.msg }
func (e *wrappedError) Unwrap() error { return e.parent }

func wrap(parent error, msg string) error {
	return &wrappedError{parent: parent, msg: "hrmp: " + msg}
}
