// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/auxmerge/auxd/chainhash"
	"github.com/auxmerge/auxd/merkle"
)

// MaxChainBranchHashes is the longest chain-merkle branch this package
// will (de)serialize. Longer branches are rejected at decode time so a
// malicious peer cannot force an unbounded allocation.
const MaxChainBranchHashes = merkle.MaxBranchLength

// MerkleBranch is an ordered list of sibling hashes, serialized as a
// varint-length vector of hashes. It carries no index of its own: per
// spec.md §6, a Merkle proof has exactly one leaf index, owned by the
// structure that positions the branch (MerkleTx.Index for the
// transaction-in-parent-block proof, AuxPow.ChainIndex for the
// chain-merkle proof) — callers pass that index explicitly to
// DetermineRoot/HasRoot rather than the branch duplicating it.
type MerkleBranch struct {
	Hashes []chainhash.Hash
}

// Size returns the number of sibling hashes in the branch.
func (mb *MerkleBranch) Size() int {
	return len(mb.Hashes)
}

// DetermineRoot reconstructs the Merkle root implied by component, this
// branch, and index, via merkle.CheckBranch.
func (mb *MerkleBranch) DetermineRoot(component chainhash.Hash, index uint32) chainhash.Hash {
	return merkle.CheckBranch(component, mb.Hashes, index)
}

// HasRoot reports whether this branch, applied to component at index,
// reconstructs the given root.
func (mb *MerkleBranch) HasRoot(component chainhash.Hash, index uint32, root chainhash.Hash) bool {
	got := mb.DetermineRoot(component, index)
	return got.IsEqual(&root)
}

// Serialize encodes the branch to w.
func (mb *MerkleBranch) Serialize(w io.Writer) error {
	if err := WriteVarInt(w, 0, uint64(len(mb.Hashes))); err != nil {
		return err
	}
	for i := range mb.Hashes {
		if err := writeElement(w, &mb.Hashes[i]); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize decodes the branch from r, rejecting more than
// MaxChainBranchHashes siblings.
func (mb *MerkleBranch) Deserialize(r io.Reader) error {
	n, err := ReadVarInt(r, 0)
	if err != nil {
		return err
	}
	if n > uint64(MaxChainBranchHashes) {
		return fmt.Errorf("merkle branch too large: %d > %d", n, MaxChainBranchHashes)
	}
	mb.Hashes = make([]chainhash.Hash, n)
	for i := range mb.Hashes {
		if err := readElement(r, &mb.Hashes[i]); err != nil {
			return err
		}
	}
	return nil
}

// SerializeSize returns the number of bytes Serialize would write.
func (mb *MerkleBranch) SerializeSize() int {
	return VarIntSerializeSize(uint64(len(mb.Hashes))) + chainhash.HashSize*len(mb.Hashes)
}

