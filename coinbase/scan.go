// Package coinbase implements the merged-mining coinbase-script scanner
// and constructor: locating the magic-marker-prefixed chain-merkle root
// inside a parent coinbase input script, and building one.
package coinbase

import (
	"bytes"
	"encoding/binary"
)

// MergedMiningHeader is the four-byte magic marker that identifies a
// merged-mining commitment inside a coinbase script. It is normative and
// must never be parameterized per chain.
var MergedMiningHeader = [4]byte{0xfa, 0xbe, 'm', 'm'}

// legacyRootOffsetLimit is the historical byte budget ("8-12 bytes are
// enough to encode extraNonce and nBits") within which a chain-merkle root
// must start when no magic marker is present. Normative; do not
// parameterize.
const legacyRootOffsetLimit = 20

// tailLen is the number of bytes required after the chain-merkle root:
// a little-endian tree_size followed by a little-endian nonce.
const tailLen = 8

// ScanError enumerates every reason the coinbase scanner can reject a
// script. Each is a distinct value so the caller can log precisely.
type ScanError int

const (
	// ErrMissingRoot means the expected little-endian chain-merkle root
	// does not appear anywhere in the script.
	ErrMissingRoot ScanError = iota + 1
	// ErrMultipleHeaders means the magic marker appears more than once.
	ErrMultipleHeaders
	// ErrHeaderNotAdjacent means a magic marker is present but does not
	// immediately precede the chain-merkle root.
	ErrHeaderNotAdjacent
	// ErrRootTooLate means no magic marker is present and the root starts
	// at or beyond the legacy offset limit.
	ErrRootTooLate
	// ErrTruncatedTail means fewer than 8 bytes follow the root.
	ErrTruncatedTail
)

func (e ScanError) Error() string {
	switch e {
	case ErrMissingRoot:
		return "chain merkle root not found in coinbase script"
	case ErrMultipleHeaders:
		return "multiple merged-mining headers in coinbase script"
	case ErrHeaderNotAdjacent:
		return "merged-mining header is not immediately before chain merkle root"
	case ErrRootTooLate:
		return "chain merkle root does not start within the legacy offset budget"
	case ErrTruncatedTail:
		return "coinbase script does not contain room for tree size and nonce"
	default:
		return "unknown coinbase scan error"
	}
}

// Result is everything Scan recovers from a coinbase script: the offsets
// of the header (if present) and root, and the parsed trailing pair.
type Result struct {
	HeaderPos int // -1 if the magic marker was absent.
	RootPos   int
	TreeSize  uint32
	Nonce     uint32
}

// Scan locates the magic-marker-prefixed (or, for backward compatibility,
// bare) chain-merkle root inside script and parses the tree-size/nonce
// pair that must follow it.
//
// expectedRootLE is the 32-byte chain-merkle root in little-endian order —
// the byte order in which it is embedded in the coinbase, which is the
// reverse of a Hash's big-endian display order.
func Scan(script []byte, expectedRootLE []byte) (Result, error) {
	var res Result

	headerPos := bytes.Index(script, MergedMiningHeader[:])
	rootPos := bytes.Index(script, expectedRootLE)
	if rootPos < 0 {
		return res, ErrMissingRoot
	}

	if headerPos >= 0 {
		if second := bytes.Index(script[headerPos+1:], MergedMiningHeader[:]); second >= 0 {
			return res, ErrMultipleHeaders
		}
		if headerPos+len(MergedMiningHeader) != rootPos {
			return res, ErrHeaderNotAdjacent
		}
	} else {
		if rootPos >= legacyRootOffsetLimit {
			return res, ErrRootTooLate
		}
	}

	tailStart := rootPos + len(expectedRootLE)
	if len(script)-tailStart < tailLen {
		return res, ErrTruncatedTail
	}

	res.HeaderPos = headerPos
	res.RootPos = rootPos
	res.TreeSize = binary.LittleEndian.Uint32(script[tailStart : tailStart+4])
	res.Nonce = binary.LittleEndian.Uint32(script[tailStart+4 : tailStart+8])
	return res, nil
}
