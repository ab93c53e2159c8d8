// Package mqc implements the Message Queue Chain accumulator (spec.md
// §4.1): an append-only hash chain over a message stream, letting a
// receiver reproduce and verify the chain head from a known prior head
// without needing the pruned messages themselves.
package mqc

import (
	"encoding/binary"

	"github.com/relaychain/parachains-router/host"
	"github.com/relaychain/parachains-router/paratypes"
)

// Append computes the new MQC head after appending msg sent at block,
// given the current head (paratypes.ZeroHash if the chain has never been
// appended to). Pure and deterministic: the same (head, block, msg)
// triple always yields the same result, which is the property that makes
// the chain verifiable end-to-end by an independent party reproducing it
// from a known prior head (spec.md §4.1).
//
//	headᵢ = H( headᵢ₋₁ ‖ Bᵢ ‖ H(mᵢ) )
//
// The canonical encoding of the tuple is a fixed-width concatenation:
// 32 bytes of prior head, 8 bytes of big-endian block number, 32 bytes of
// H(msg). This must stay bit-exact with the publicly advertised scheme;
// do not change the field order or widths.
func Append(h host.Hashing, head paratypes.Hash, block paratypes.BlockNumber, msg []byte) paratypes.Hash {
	msgHash := h.Hash(msg)

	buf := make([]byte, 0, paratypes.HashLength+8+paratypes.HashLength)
	buf = append(buf, head[:]...)

	var blockBytes [8]byte
	binary.BigEndian.PutUint64(blockBytes[:], uint64(block))
	buf = append(buf, blockBytes[:]...)

	buf = append(buf, msgHash[:]...)

	return h.Hash(buf)
}
