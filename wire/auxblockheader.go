// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/auxmerge/auxd/chainhash"
)

// VersionAuxPow is the block-version bit that marks a header as carrying
// an AuxPow. A header with this bit clear was mined directly against the
// auxiliary chain's own proof-of-work and AuxPow must be nil.
const VersionAuxPow = int32(1 << 8)

// AuxBlockHeader is an auxiliary chain's own block header together with
// the optional AuxPow binding it to parent-chain work. AuxPow is a single
// pointer shared with whatever assembled it (a mined template, a decoded
// wire message); nothing here copies it, so callers must not mutate an
// AuxPow reachable from more than one header.
type AuxBlockHeader struct {
	Version    int32
	PrevBlock  chainhash.Hash
	MerkleRoot chainhash.Hash
	Time       uint32
	Bits       uint32
	Nonce      uint32
	AuxPow     *AuxPow
}

// HasAuxPow reports whether the version bit requires an AuxPow and one
// is actually attached.
func (h *AuxBlockHeader) HasAuxPow() bool {
	return h.Version&VersionAuxPow != 0 && h.AuxPow != nil
}

// Serialize encodes the header followed by, when VersionAuxPow is set,
// the AuxPow.
func (h *AuxBlockHeader) Serialize(w io.Writer) error {
	if err := writeElement(w, h.Version); err != nil {
		return err
	}
	if _, err := w.Write(h.PrevBlock[:]); err != nil {
		return err
	}
	if _, err := w.Write(h.MerkleRoot[:]); err != nil {
		return err
	}
	if err := writeElement(w, h.Time); err != nil {
		return err
	}
	if err := writeElement(w, h.Bits); err != nil {
		return err
	}
	if err := writeElement(w, h.Nonce); err != nil {
		return err
	}
	if h.Version&VersionAuxPow == 0 {
		return nil
	}
	if h.AuxPow == nil {
		return fmt.Errorf("wire: VersionAuxPow set but AuxPow is nil")
	}
	return h.AuxPow.Serialize(w)
}

// Deserialize decodes the header from r, reading a trailing AuxPow only
// when VersionAuxPow is set.
func (h *AuxBlockHeader) Deserialize(r io.Reader) error {
	if err := readElement(r, &h.Version); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, h.PrevBlock[:]); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, h.MerkleRoot[:]); err != nil {
		return err
	}
	if err := readElement(r, &h.Time); err != nil {
		return err
	}
	if err := readElement(r, &h.Bits); err != nil {
		return err
	}
	if err := readElement(r, &h.Nonce); err != nil {
		return err
	}
	if h.Version&VersionAuxPow == 0 {
		h.AuxPow = nil
		return nil
	}
	h.AuxPow = new(AuxPow)
	return h.AuxPow.Deserialize(r)
}
