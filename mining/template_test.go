package mining

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/auxmerge/auxd/chainhash"
	"github.com/auxmerge/auxd/coinbase"
	"github.com/auxmerge/auxd/wire"
)

type fixedPrevBlock struct {
	mtp int64
}

func (f fixedPrevBlock) MedianTimePast() int64 { return f.mtp }

func newBlock(numOtherTxs int) *Block {
	txs := make([]*wire.MsgTx, 1+numOtherTxs)
	txs[0] = &wire.MsgTx{TxIn: []wire.TxIn{{SignatureScript: []byte{0}}}, TxOut: []wire.TxOut{{}}}
	for i := 1; i < len(txs); i++ {
		txs[i] = &wire.MsgTx{TxIn: []wire.TxIn{{Sequence: uint32(i)}}, TxOut: []wire.TxOut{{Value: int64(i)}}}
	}
	return &Block{Bits: 0x1d00ffff, Transactions: txs}
}

func TestIncrementExtraNonceAdvancesCounter(t *testing.T) {
	block := newBlock(1)
	prev := fixedPrevBlock{mtp: 1000}
	state := &NonceState{}

	IncrementExtraNonce(block, prev, state, 1000, []byte{0xde, 0xad})
	require.Equal(t, uint32(1), state.ExtraNonce)

	IncrementExtraNonce(block, prev, state, 1000, []byte{0xde, 0xad})
	require.Equal(t, uint32(2), state.ExtraNonce)
}

func TestIncrementExtraNonceRebuildsCoinbaseScript(t *testing.T) {
	block := newBlock(0)
	prev := fixedPrevBlock{mtp: 1000}
	state := &NonceState{}
	payload := []byte{0xca, 0xfe}

	IncrementExtraNonce(block, prev, state, 1000, payload)

	script := block.Coinbase().TxIn[0].SignatureScript
	require.Contains(t, string(script), string(coinbase.MergedMiningHeader[:]))
}

func TestIncrementExtraNonceRecomputesMerkleRoot(t *testing.T) {
	block := newBlock(1)
	prev := fixedPrevBlock{mtp: 1000}
	state := &NonceState{}

	before := block.MerkleRoot
	IncrementExtraNonce(block, prev, state, 1000, []byte{1})
	after := block.MerkleRoot

	require.NotEqual(t, before, after)
	require.False(t, after.IsEqual(&chainhash.Hash{}))
}

func TestIncrementExtraNonceResetsAfterThresholdAndTimeAdvance(t *testing.T) {
	block := newBlock(0)
	prev := fixedPrevBlock{mtp: 1000}
	state := &NonceState{ExtraNonce: extraNonceResetThreshold, PrevTime: 1000}

	// adjustedNetworkTime pushes now past state.PrevTime+1, so the
	// counter resets to 1 instead of continuing to climb.
	IncrementExtraNonce(block, prev, state, 1002, []byte{1})
	require.Equal(t, uint32(1), state.ExtraNonce)
	require.Equal(t, int64(1002), state.PrevTime)
}

func TestIncrementExtraNonceUsesLaterOfMedianTimeAndNetworkTime(t *testing.T) {
	block := newBlock(0)
	prev := fixedPrevBlock{mtp: 5000}
	state := &NonceState{ExtraNonce: extraNonceResetThreshold, PrevTime: 1000}

	// adjustedNetworkTime is behind the previous block's median time
	// past, so "now" is prev.MedianTimePast()+1. "now" is only observable
	// through the reset branch, which records it as PrevTime.
	IncrementExtraNonce(block, prev, state, 1, []byte{1})
	require.Equal(t, uint32(1), state.ExtraNonce)
	require.Equal(t, int64(5001), state.PrevTime)
}

func TestBuildMerkleRootSingleTransaction(t *testing.T) {
	tx := &wire.MsgTx{TxOut: []wire.TxOut{{}}}
	root := buildMerkleRoot([]*wire.MsgTx{tx})
	require.Equal(t, tx.TxHash(), root)
}

func TestBuildMerkleRootOddCountDuplicatesLast(t *testing.T) {
	tx1 := &wire.MsgTx{TxOut: []wire.TxOut{{Value: 1}}}
	tx2 := &wire.MsgTx{TxOut: []wire.TxOut{{Value: 2}}}
	tx3 := &wire.MsgTx{TxOut: []wire.TxOut{{Value: 3}}}

	root := buildMerkleRoot([]*wire.MsgTx{tx1, tx2, tx3})

	h1, h2, h3 := tx1.TxHash(), tx2.TxHash(), tx3.TxHash()
	var buf12, buf33 [64]byte
	copy(buf12[:32], h1[:])
	copy(buf12[32:], h2[:])
	copy(buf33[:32], h3[:])
	copy(buf33[32:], h3[:])
	left := chainhash.DoubleHashH(buf12[:])
	right := chainhash.DoubleHashH(buf33[:])

	var top [64]byte
	copy(top[:32], left[:])
	copy(top[32:], right[:])
	want := chainhash.DoubleHashH(top[:])

	require.Equal(t, want, root)
}
