package auxpow

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/auxmerge/auxd/chainhash"
	"github.com/auxmerge/auxd/coinbase"
	"github.com/auxmerge/auxd/merkle"
	"github.com/auxmerge/auxd/wire"
)

func hashWithLastByte(b byte) chainhash.Hash {
	var h chainhash.Hash
	h[chainhash.HashSize-1] = b
	return h
}

func appendTail(payload []byte, treeSize, nonce uint32) []byte {
	var tail [8]byte
	binary.LittleEndian.PutUint32(tail[0:4], treeSize)
	binary.LittleEndian.PutUint32(tail[4:8], nonce)
	return append(payload, tail[:]...)
}

// buildValidAuxPow constructs a self-consistent AuxPow for chainID and
// auxBlockHash with a chain-merkle branch of the given length, choosing
// a chain index that actually satisfies the deterministic slot formula
// for nonce 0 at that tree size.
func buildValidAuxPow(chainID uint32, auxBlockHash chainhash.Hash, branchLen int) *wire.AuxPow {
	branch := make([]chainhash.Hash, branchLen)
	for i := range branch {
		branch[i] = hashWithLastByte(byte(100 + i))
	}
	treeSize := uint32(1) << uint(branchLen)
	const nonce = 0
	chainIndex := expectedSlot(nonce, chainID, treeSize)

	rootBE := merkle.CheckBranch(auxBlockHash, branch, chainIndex)
	rootLE := rootBE.Reversed()

	payload := appendTail(append([]byte{}, rootLE[:]...), treeSize, nonce)
	script := coinbase.Build(0x1d00ffff, 1, payload)

	coinbaseTx := wire.MsgTx{
		Version: 1,
		TxIn: []wire.TxIn{{
			PreviousOutPoint: wire.OutPoint{Index: 0xffffffff},
			SignatureScript:  script,
		}},
		TxOut: []wire.TxOut{{Value: 0, PkScript: nil}},
	}
	coinbaseHash := coinbaseTx.TxHash()

	return &wire.AuxPow{
		CoinbaseTx: wire.MerkleTx{
			Tx:           coinbaseTx,
			MerkleBranch: wire.MerkleBranch{Hashes: nil},
			Index:        0,
		},
		ChainMerkleBranch: wire.MerkleBranch{Hashes: branch},
		ChainIndex:        int32(chainIndex),
		ParentBlockHeader: wire.ParentBlockHeader{MerkleRoot: coinbaseHash},
	}
}

func TestCheckAcceptsSelfConsistentAuxPow(t *testing.T) {
	auxBlockHash := hashWithLastByte(1)
	ap := buildValidAuxPow(7, auxBlockHash, 0)
	require.NoError(t, Check(ap, auxBlockHash, 7))
}

func TestCheckAcceptsLegacyRootPlacement(t *testing.T) {
	auxBlockHash := hashWithLastByte(1)
	const chainID = 3
	const nonce = 0
	treeSize := uint32(1)
	chainIndex := expectedSlot(nonce, chainID, treeSize)

	rootBE := merkle.CheckBranch(auxBlockHash, nil, chainIndex)
	rootLE := rootBE.Reversed()

	// Root placed at script offset 0, no marker: the legacy path.
	script := appendTail(append([]byte{}, rootLE[:]...), treeSize, nonce)

	coinbaseTx := wire.MsgTx{
		Version: 1,
		TxIn:    []wire.TxIn{{SignatureScript: script}},
		TxOut:   []wire.TxOut{{}},
	}
	ap := &wire.AuxPow{
		CoinbaseTx:        wire.MerkleTx{Tx: coinbaseTx, Index: 0},
		ChainMerkleBranch: wire.MerkleBranch{Hashes: nil},
		ChainIndex:        int32(chainIndex),
		ParentBlockHeader: wire.ParentBlockHeader{MerkleRoot: coinbaseTx.TxHash()},
	}

	require.NoError(t, Check(ap, auxBlockHash, chainID))
}

func TestCheckRejectsRootTooLate(t *testing.T) {
	auxBlockHash := hashWithLastByte(1)
	const chainID = 3
	const nonce = 0
	treeSize := uint32(1)
	chainIndex := expectedSlot(nonce, chainID, treeSize)

	rootBE := merkle.CheckBranch(auxBlockHash, nil, chainIndex)
	rootLE := rootBE.Reversed()

	prefix := make([]byte, 25) // root starts at offset 25, past the legacy limit
	script := append(prefix, rootLE[:]...)
	script = appendTail(script, treeSize, nonce)

	coinbaseTx := wire.MsgTx{
		Version: 1,
		TxIn:    []wire.TxIn{{SignatureScript: script}},
		TxOut:   []wire.TxOut{{}},
	}
	ap := &wire.AuxPow{
		CoinbaseTx:        wire.MerkleTx{Tx: coinbaseTx, Index: 0},
		ChainMerkleBranch: wire.MerkleBranch{Hashes: nil},
		ChainIndex:        int32(chainIndex),
		ParentBlockHeader: wire.ParentBlockHeader{MerkleRoot: coinbaseTx.TxHash()},
	}

	err := Check(ap, auxBlockHash, chainID)
	require.Equal(t, RejectRootTooLate, err)
}

func TestCheckRejectsWrongIndex(t *testing.T) {
	auxBlockHash := hashWithLastByte(1)
	const chainID = 7
	const nonce = 0
	branch := []chainhash.Hash{hashWithLastByte(9), hashWithLastByte(10)}
	treeSize := uint32(4)
	// Use the slot after the one the LCG actually selects, and build the
	// chain-merkle root for that slot, so the embedded root, tree_size and
	// nonce are all found and only the slot check fails.
	chainIndex := (expectedSlot(nonce, chainID, treeSize) + 1) % treeSize

	rootBE := merkle.CheckBranch(auxBlockHash, branch, chainIndex)
	rootLE := rootBE.Reversed()

	payload := appendTail(append([]byte{}, rootLE[:]...), treeSize, nonce)
	script := coinbase.Build(0x1d00ffff, 1, payload)

	coinbaseTx := wire.MsgTx{TxIn: []wire.TxIn{{SignatureScript: script}}, TxOut: []wire.TxOut{{}}}
	ap := &wire.AuxPow{
		CoinbaseTx:        wire.MerkleTx{Tx: coinbaseTx, Index: 0},
		ChainMerkleBranch: wire.MerkleBranch{Hashes: branch},
		ChainIndex:        int32(chainIndex),
		ParentBlockHeader: wire.ParentBlockHeader{MerkleRoot: coinbaseTx.TxHash()},
	}

	err := Check(ap, auxBlockHash, chainID)
	require.Equal(t, RejectWrongIndex, err)
}

func TestCheckRejectsChainBranchTooLong(t *testing.T) {
	auxBlockHash := hashWithLastByte(1)
	ap := buildValidAuxPow(7, auxBlockHash, MaxChainMerkleBranch+1)

	err := Check(ap, auxBlockHash, 7)
	require.Equal(t, RejectChainBranchTooLong, err)
}

func TestCheckAcceptsExactlyMaxChainBranch(t *testing.T) {
	auxBlockHash := hashWithLastByte(1)
	ap := buildValidAuxPow(7, auxBlockHash, MaxChainMerkleBranch)

	require.NoError(t, Check(ap, auxBlockHash, 7))
}

func TestCheckRejectsNotCoinbase(t *testing.T) {
	auxBlockHash := hashWithLastByte(1)
	ap := buildValidAuxPow(7, auxBlockHash, 0)
	ap.CoinbaseTx.Index = 1

	err := Check(ap, auxBlockHash, 7)
	require.Equal(t, RejectNotCoinbase, err)
}

func TestCheckRejectsTxMerkleMismatch(t *testing.T) {
	auxBlockHash := hashWithLastByte(1)
	ap := buildValidAuxPow(7, auxBlockHash, 0)
	ap.ParentBlockHeader.MerkleRoot = hashWithLastByte(0xff)

	err := Check(ap, auxBlockHash, 7)
	require.Equal(t, RejectTxMerkleMismatch, err)
}

func TestCheckRejectsSizeMismatch(t *testing.T) {
	auxBlockHash := hashWithLastByte(1)
	const chainID = 7
	const nonce = 0
	branch := []chainhash.Hash{hashWithLastByte(9), hashWithLastByte(10)}
	treeSize := uint32(4)
	chainIndex := expectedSlot(nonce, chainID, treeSize)

	rootBE := merkle.CheckBranch(auxBlockHash, branch, chainIndex)
	rootLE := rootBE.Reversed()

	// Embed a tree_size that does not match 1 << len(branch).
	payload := appendTail(append([]byte{}, rootLE[:]...), treeSize+1, nonce)
	script := coinbase.Build(0x1d00ffff, 1, payload)

	coinbaseTx := wire.MsgTx{TxIn: []wire.TxIn{{SignatureScript: script}}, TxOut: []wire.TxOut{{}}}
	ap := &wire.AuxPow{
		CoinbaseTx:        wire.MerkleTx{Tx: coinbaseTx, Index: 0},
		ChainMerkleBranch: wire.MerkleBranch{Hashes: branch},
		ChainIndex:        int32(chainIndex),
		ParentBlockHeader: wire.ParentBlockHeader{MerkleRoot: coinbaseTx.TxHash()},
	}

	err := Check(ap, auxBlockHash, chainID)
	require.Equal(t, RejectSizeMismatch, err)
}

func TestCheckIsDeterministic(t *testing.T) {
	auxBlockHash := hashWithLastByte(1)
	ap := buildValidAuxPow(7, auxBlockHash, 3)

	first := Check(ap, auxBlockHash, 7)
	second := Check(ap, auxBlockHash, 7)
	require.Equal(t, first, second)
}
