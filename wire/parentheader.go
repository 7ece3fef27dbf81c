// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/auxmerge/auxd/chainhash"
)

// ParentBlockHeaderLen is the fixed 80-byte size of a serialized
// ParentBlockHeader: version(4) + prev(32) + merkle root(32) + time(4) +
// bits(4) + nonce(4).
const ParentBlockHeaderLen = 80

// ParentBlockHeader is the subset of a parent-chain block header the
// AuxPoW binding needs: enough to recompute its own double-SHA256 hash
// and to anchor the coinbase transaction's Merkle branch. The parent
// chain's actual proof-of-work hash function (e.g. Bitcoin's
// double-SHA256, or a parent-specific alternative) is an external
// collaborator; GetHash here always applies double-SHA256 over the
// 80-byte encoding, matching the Hash256 primitive this package assumes.
type ParentBlockHeader struct {
	Version    int32
	PrevBlock  chainhash.Hash
	MerkleRoot chainhash.Hash
	Time       uint32
	Bits       uint32
	Nonce      uint32
}

// GetHash computes the double-SHA256 hash of the 80-byte little-endian
// serialization of the header.
func (h *ParentBlockHeader) GetHash() chainhash.Hash {
	var buf [ParentBlockHeaderLen]byte
	writeParentHeaderBuf(&buf, h)
	return chainhash.DoubleHashH(buf[:])
}

// Serialize encodes the header to w as 80 little-endian bytes.
func (h *ParentBlockHeader) Serialize(w io.Writer) error {
	var buf [ParentBlockHeaderLen]byte
	writeParentHeaderBuf(&buf, h)
	_, err := w.Write(buf[:])
	return err
}

// Deserialize decodes the header from r, which must yield exactly 80
// bytes.
func (h *ParentBlockHeader) Deserialize(r io.Reader) error {
	var buf [ParentBlockHeaderLen]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return err
	}
	h.Version = int32(littleEndian.Uint32(buf[0:4]))
	copy(h.PrevBlock[:], buf[4:36])
	copy(h.MerkleRoot[:], buf[36:68])
	h.Time = littleEndian.Uint32(buf[68:72])
	h.Bits = littleEndian.Uint32(buf[72:76])
	h.Nonce = littleEndian.Uint32(buf[76:80])
	return nil
}

func writeParentHeaderBuf(buf *[ParentBlockHeaderLen]byte, h *ParentBlockHeader) {
	littleEndian.PutUint32(buf[0:4], uint32(h.Version))
	copy(buf[4:36], h.PrevBlock[:])
	copy(buf[36:68], h.MerkleRoot[:])
	littleEndian.PutUint32(buf[68:72], h.Time)
	littleEndian.PutUint32(buf[72:76], h.Bits)
	littleEndian.PutUint32(buf[76:80], h.Nonce)
}
