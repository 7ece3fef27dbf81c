// Package merkle implements the generic leaf-to-root Merkle proof
// primitive shared by both layers of an AuxPoW binding: the
// transaction-in-parent-block proof and the chain-in-chains-merkle-tree
// proof use the exact same reconstruction.
package merkle

import (
	"github.com/auxmerge/auxd/chainhash"
)

// MaxBranchLength is the longest chain (or transaction) Merkle branch this
// package will walk. Both the AuxPoW chain-merkle branch and the
// coinbase-in-block branch are bounded at 30 siblings by the wider
// protocol; CheckBranch itself places no limit, callers enforce it.
const MaxBranchLength = 30

// CheckBranch reconstructs the Merkle root implied by a leaf hash, an
// ordered list of sibling hashes, and a leaf index. At each step the
// current hash is combined with the next sibling; which side the sibling
// falls on is the index's next least-significant bit, then index is
// shifted right one step — the same plain bit-shift walk the original
// AuxPoW implementation uses.
//
// An empty branch returns leaf unchanged. Once index's low bits are
// exhausted, further shifts just keep yielding 0, matching an index
// logically padded with zero bits above its width; CheckBranch does not
// special-case this since the caller rejects on the resulting root
// mismatch regardless.
func CheckBranch(leaf chainhash.Hash, branch []chainhash.Hash, index uint32) chainhash.Hash {
	h := leaf

	for _, sibling := range branch {
		var buf [chainhash.HashSize * 2]byte
		if index&1 == 0 {
			copy(buf[:chainhash.HashSize], h[:])
			copy(buf[chainhash.HashSize:], sibling[:])
		} else {
			copy(buf[:chainhash.HashSize], sibling[:])
			copy(buf[chainhash.HashSize:], h[:])
		}
		h = chainhash.DoubleHashH(buf[:])
		index >>= 1
	}

	return h
}
