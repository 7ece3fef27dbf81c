// Package auxpow implements the consensus-critical AuxPoW verifier: the
// orchestration of the two Merkle checks, the coinbase scan, and the
// deterministic slot assignment described in spec.md §4.3.
package auxpow

import (
	"github.com/auxmerge/auxd/chainhash"
	"github.com/auxmerge/auxd/coinbase"
	"github.com/auxmerge/auxd/merkle"
	"github.com/auxmerge/auxd/wire"
)

// MaxChainMerkleBranch is the longest chain-merkle branch Check accepts.
const MaxChainMerkleBranch = 30

// RejectReason enumerates every reason Check can reject an AuxPow. Each is
// a distinct value so callers can log precisely and decide independently
// whether a rejection is a protocol violation, a stale-work artifact, or
// an assembly bug.
type RejectReason int

const (
	// RejectNone is the zero value, returned alongside a nil error on
	// acceptance; it is never itself returned as an error.
	RejectNone RejectReason = iota
	RejectNotCoinbase
	RejectChainBranchTooLong
	RejectTxMerkleMismatch
	RejectMissingRoot
	RejectMultipleHeaders
	RejectHeaderNotAdjacent
	RejectRootTooLate
	RejectTruncatedTail
	RejectSizeMismatch
	RejectWrongIndex
	// RejectAlreadySpent is not returned by Check itself; it is reserved
	// for callers (see package chainreg) layering a replay ledger on top
	// of a passing Check result.
	RejectAlreadySpent
)

func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "accepted"
	case RejectNotCoinbase:
		return "not-coinbase"
	case RejectChainBranchTooLong:
		return "chain-branch-too-long"
	case RejectTxMerkleMismatch:
		return "tx-merkle-mismatch"
	case RejectMissingRoot:
		return "missing-root"
	case RejectMultipleHeaders:
		return "multiple-headers"
	case RejectHeaderNotAdjacent:
		return "header-not-adjacent"
	case RejectRootTooLate:
		return "root-too-late"
	case RejectTruncatedTail:
		return "truncated-tail"
	case RejectSizeMismatch:
		return "size-mismatch"
	case RejectWrongIndex:
		return "wrong-index"
	case RejectAlreadySpent:
		return "already-spent"
	default:
		return "unknown-reject-reason"
	}
}

// Error allows a RejectReason to be returned as an error directly.
func (r RejectReason) Error() string {
	return r.String()
}

// lcgMultiplier and lcgIncrement are the classic glibc LCG constants used
// by the deterministic slot formula. They are normative, not chosen for
// statistical quality — see spec.md §4.3.
const (
	lcgMultiplier uint32 = 1103515245
	lcgIncrement  uint32 = 12345
)

// expectedSlot computes the deterministic chain-merkle-tree slot for a
// given coinbase nonce and chain ID, using wrapping 32-bit unsigned
// arithmetic exactly as the consensus formula requires.
func expectedSlot(nonce, chainID, treeSize uint32) uint32 {
	rand := nonce*lcgMultiplier + lcgIncrement
	rand += chainID
	rand = rand*lcgMultiplier + lcgIncrement
	return rand % treeSize
}

// Check verifies that auxPow binds auxBlockHash to real parent-chain work
// for the given chainID, performing in order: the coinbase shape check,
// the chain-branch length check, the chain-merkle root reconstruction,
// the transaction-in-parent-block check, the coinbase scan, the tree-size
// match, and the deterministic slot check. It is pure, deterministic, and
// total — it never retries, never performs I/O, and always returns either
// nil (accept) or a RejectReason (which itself implements error).
func Check(auxPow *wire.AuxPow, auxBlockHash chainhash.Hash, chainID uint32) error {
	// 1. Coinbase shape.
	if auxPow.CoinbaseTx.Index != 0 {
		return RejectNotCoinbase
	}

	// 2. Chain-branch length.
	if auxPow.ChainMerkleBranch.Size() > MaxChainMerkleBranch {
		return RejectChainBranchTooLong
	}

	// 3. Chain root reconstruction, then the single normative reversal to
	// the little-endian form embedded in the coinbase script.
	rootBE := merkle.CheckBranch(auxBlockHash, auxPow.ChainMerkleBranch.Hashes, uint32(auxPow.ChainIndex))
	rootLE := rootBE.Reversed()

	// 4. Transaction-in-parent. Reuses auxPow.CoinbaseTx.Index — already
	// constrained to 0 by step 1 — as the branch's leaf position, so the
	// Merkle walk can never diverge from the coinbase-position check.
	coinbaseHash := auxPow.CoinbaseTx.Tx.TxHash()
	txIndex := uint32(auxPow.CoinbaseTx.Index)
	if !auxPow.CoinbaseTx.MerkleBranch.HasRoot(coinbaseHash, txIndex, auxPow.ParentBlockHeader.MerkleRoot) {
		return RejectTxMerkleMismatch
	}

	// 5. Coinbase scan.
	if len(auxPow.CoinbaseTx.Tx.TxIn) == 0 {
		return RejectNotCoinbase
	}
	script := auxPow.CoinbaseTx.Tx.TxIn[0].SignatureScript
	scanResult, err := coinbase.Scan(script, rootLE[:])
	if err != nil {
		return scanRejectReason(err)
	}

	// 6. Size match.
	treeSize := uint32(1) << uint(auxPow.ChainMerkleBranch.Size())
	if scanResult.TreeSize != treeSize {
		return RejectSizeMismatch
	}

	// 7. Deterministic slot.
	wantIndex := expectedSlot(scanResult.Nonce, chainID, treeSize)
	if uint32(auxPow.ChainIndex) != wantIndex {
		log.Debugf("auxpow: wrong slot for chain %d: got %d want %d", chainID, auxPow.ChainIndex, wantIndex)
		return RejectWrongIndex
	}

	log.Tracef("auxpow: accepted for chain %d at slot %d", chainID, auxPow.ChainIndex)
	return nil
}

func scanRejectReason(err error) RejectReason {
	se, ok := err.(coinbase.ScanError)
	if !ok {
		return RejectMissingRoot
	}
	switch se {
	case coinbase.ErrMissingRoot:
		return RejectMissingRoot
	case coinbase.ErrMultipleHeaders:
		return RejectMultipleHeaders
	case coinbase.ErrHeaderNotAdjacent:
		return RejectHeaderNotAdjacent
	case coinbase.ErrRootTooLate:
		return RejectRootTooLate
	case coinbase.ErrTruncatedTail:
		return RejectTruncatedTail
	default:
		return RejectMissingRoot
	}
}
