// Package mining implements the coinbase/extra-nonce side of merged
// mining: building a block's coinbase commitment and advancing the
// extra-nonce counter between hashing attempts, per spec.md §4.4.
package mining

import (
	"github.com/auxmerge/auxd/chainhash"
	"github.com/auxmerge/auxd/coinbase"
	"github.com/auxmerge/auxd/wire"
)

// extraNonceResetThreshold is the value at or above which the extra-nonce
// counter resets to 1 once real time has also advanced, so the search
// space is refreshed via time rather than exhausted via the counter.
const extraNonceResetThreshold = 0x7f

// PrevBlockInfo is the minimal view of the previous block the nonce
// driver needs: its median time past, used as a floor for the new
// block's timestamp.
type PrevBlockInfo interface {
	MedianTimePast() int64
}

// Block is the auxiliary chain's own block under construction. Only the
// fields the coinbase/extra-nonce driver touches are modeled; block
// assembly, transaction selection, and the Equihash solution search
// belong to external collaborators per spec.md §1.
type Block struct {
	Bits         uint32
	Transactions []*wire.MsgTx // Transactions[0] must be the coinbase.
	MerkleRoot   chainhash.Hash
}

// Coinbase returns the block's coinbase transaction.
func (b *Block) Coinbase() *wire.MsgTx {
	return b.Transactions[0]
}

// NonceState carries the mutable extra-nonce bookkeeping a miner keeps
// across hashing attempts for a single block template.
type NonceState struct {
	ExtraNonce uint32
	PrevTime   int64
}

// IncrementExtraNonce advances state before a fresh hashing attempt:
// it computes the new block time as the later of the previous block's
// median-time-past-plus-one and the caller-supplied adjusted network
// time, advances the extra-nonce counter (resetting it to 1 once both the
// counter threshold and real time have moved past the last reset), then
// rebuilds the coinbase's input-zero script and recomputes the block's
// Merkle root from the transaction list.
//
// auxPayload is passed to coinbase.Build unchanged: the chain-merkle
// root (or multi-chain commitment) followed by the tree_size/nonce pair
// the scanner expects after it.
func IncrementExtraNonce(block *Block, prevBlock PrevBlockInfo, state *NonceState, adjustedNetworkTime int64, auxPayload []byte) {
	now := prevBlock.MedianTimePast() + 1
	if adjustedNetworkTime > now {
		now = adjustedNetworkTime
	}

	state.ExtraNonce++
	if state.ExtraNonce >= extraNonceResetThreshold && now > state.PrevTime+1 {
		state.ExtraNonce = 1
		state.PrevTime = now
	}

	coinbaseTx := block.Coinbase()
	coinbaseTx.TxIn[0].SignatureScript = coinbase.Build(block.Bits, state.ExtraNonce, auxPayload)

	block.MerkleRoot = buildMerkleRoot(block.Transactions)
	log.Tracef("mining: rebuilt coinbase with extraNonce=%d, merkle root %s", state.ExtraNonce, block.MerkleRoot)
}

// buildMerkleRoot computes a block's transaction Merkle root from its
// full transaction list, duplicating the final hash at each level when
// the level has an odd number of entries — the standard Bitcoin-style
// block Merkle tree construction (distinct from the branch-reconstruction
// primitive in package merkle, which walks a single leaf's proof rather
// than building the whole tree).
func buildMerkleRoot(txs []*wire.MsgTx) chainhash.Hash {
	if len(txs) == 0 {
		return chainhash.Hash{}
	}

	level := make([]chainhash.Hash, len(txs))
	for i, tx := range txs {
		level[i] = tx.TxHash()
	}

	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}
		next := make([]chainhash.Hash, len(level)/2)
		for i := range next {
			var buf [chainhash.HashSize * 2]byte
			copy(buf[:chainhash.HashSize], level[2*i][:])
			copy(buf[chainhash.HashSize:], level[2*i+1][:])
			next[i] = chainhash.DoubleHashH(buf[:])
		}
		level = next
	}

	return level[0]
}
