// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "io"

// MerkleTx is a parent-chain transaction together with the Merkle branch
// proving its inclusion in a specific parent block. Index is the single
// canonical position this proof uses both ways: Check requires it to be
// 0 (a coinbase must be the block's first transaction) and then reuses
// the very same value as the leaf index MerkleBranch.HasRoot walks the
// branch with, so the two checks can never diverge the way two
// independent index fields could.
type MerkleTx struct {
	Tx           MsgTx
	ParentBlock  ParentBlockHeaderHash
	MerkleBranch MerkleBranch
	Index        int32
}

// ParentBlockHeaderHash is carried alongside a MerkleTx for diagnostic
// purposes only; the verifier never relies on it — the actual parent
// block identity is established by the Merkle branch matching
// ParentBlockHeader.MerkleRoot.
type ParentBlockHeaderHash [32]byte

// Serialize encodes the MerkleTx to w: the transaction, the (unused for
// verification) parent block hash, the Merkle branch, then the index.
func (mtx *MerkleTx) Serialize(w io.Writer) error {
	if err := mtx.Tx.Serialize(w); err != nil {
		return err
	}
	if _, err := w.Write(mtx.ParentBlock[:]); err != nil {
		return err
	}
	if err := mtx.MerkleBranch.Serialize(w); err != nil {
		return err
	}
	return writeElement(w, mtx.Index)
}

// Deserialize decodes the MerkleTx from r.
func (mtx *MerkleTx) Deserialize(r io.Reader) error {
	if err := mtx.Tx.Deserialize(r); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, mtx.ParentBlock[:]); err != nil {
		return err
	}
	if err := mtx.MerkleBranch.Deserialize(r); err != nil {
		return err
	}
	return readElement(r, &mtx.Index)
}

// SerializeSize returns the number of bytes Serialize would write.
func (mtx *MerkleTx) SerializeSize() int {
	return mtx.Tx.SerializeSize() + len(mtx.ParentBlock) + mtx.MerkleBranch.SerializeSize() + 4
}
