// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
)

// MaxCoinbaseTxSize bounds the coinbase transaction carried inside an
// AuxPow. Deserialize applies it after the transaction has been decoded,
// so it rejects an oversized coinbase but does not stop it being read.
const MaxCoinbaseTxSize = 100000

// AuxPow binds an auxiliary block to the parent-chain work that mined it:
// a coinbase transaction (with its Merkle branch into the parent block),
// the chain-merkle branch locating this auxiliary chain's slot, the slot
// index itself, and the parent block header.
//
// AuxPow is immutable after construction; verifiers only read it. See
// package auxpow for the verification algorithm.
type AuxPow struct {
	CoinbaseTx        MerkleTx
	ChainMerkleBranch MerkleBranch
	ChainIndex        int32
	ParentBlockHeader ParentBlockHeader
}

// Serialize encodes the AuxPow using the byte layout of spec.md §6: the
// MerkleTx, the chain-merkle branch, the chain index, then the 80-byte
// parent header.
func (a *AuxPow) Serialize(w io.Writer) error {
	if err := a.CoinbaseTx.Serialize(w); err != nil {
		return err
	}
	if err := a.ChainMerkleBranch.Serialize(w); err != nil {
		return err
	}
	if err := writeElement(w, a.ChainIndex); err != nil {
		return err
	}
	return a.ParentBlockHeader.Serialize(w)
}

// Deserialize decodes an AuxPow from r.
func (a *AuxPow) Deserialize(r io.Reader) error {
	if err := a.CoinbaseTx.Deserialize(r); err != nil {
		return err
	}
	if a.CoinbaseTx.Tx.SerializeSize() > MaxCoinbaseTxSize {
		return fmt.Errorf("auxpow coinbase transaction too large")
	}
	if err := a.ChainMerkleBranch.Deserialize(r); err != nil {
		return err
	}
	if err := readElement(r, &a.ChainIndex); err != nil {
		return err
	}
	return a.ParentBlockHeader.Deserialize(r)
}

// SerializeSize returns the number of bytes Serialize would write.
func (a *AuxPow) SerializeSize() int {
	return a.CoinbaseTx.SerializeSize() + a.ChainMerkleBranch.SerializeSize() + 4 + ParentBlockHeaderLen
}

// String renders a human-readable dump of the AuxPow for logs and test
// failures.
func (a *AuxPow) String() string {
	parentHash := a.ParentBlockHeader.GetHash()
	return fmt.Sprintf(
		"AuxPow{coinbase=%s chainIndex=%d chainBranchLen=%d parentHash=%s parentMerkleRoot=%s}",
		a.CoinbaseTx.Tx.TxHash(), a.ChainIndex, a.ChainMerkleBranch.Size(), parentHash, a.ParentBlockHeader.MerkleRoot,
	)
}
