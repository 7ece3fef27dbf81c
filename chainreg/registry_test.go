package chainreg

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/auxmerge/auxd/auxpow"
	"github.com/auxmerge/auxd/chainhash"
	"github.com/auxmerge/auxd/coinbase"
	"github.com/auxmerge/auxd/merkle"
	"github.com/auxmerge/auxd/wire"
)

// lcgSlot mirrors the deterministic slot formula normatively fixed by
// spec.md §4.3 (the same arithmetic auxpow.Check applies internally);
// it is duplicated here, rather than imported, because it is unexported
// from package auxpow and this test only needs it to build fixtures.
func lcgSlot(nonce, chainID, treeSize uint32) uint32 {
	const mul, inc = uint32(1103515245), uint32(12345)
	rand := nonce*mul + inc
	rand += chainID
	rand = rand*mul + inc
	return rand % treeSize
}

func appendTail(payload []byte, treeSize, nonce uint32) []byte {
	var tail [8]byte
	binary.LittleEndian.PutUint32(tail[0:4], treeSize)
	binary.LittleEndian.PutUint32(tail[4:8], nonce)
	return append(payload, tail[:]...)
}

func validAuxPow(chainID uint32, auxBlockHash chainhash.Hash) *wire.AuxPow {
	const treeSize, nonce = 1, 0
	chainIndex := lcgSlot(nonce, chainID, treeSize)

	rootBE := merkle.CheckBranch(auxBlockHash, nil, chainIndex)
	rootLE := rootBE.Reversed()

	payload := appendTail(append([]byte{}, rootLE[:]...), treeSize, nonce)
	script := coinbase.Build(0x1d00ffff, 1, payload)

	tx := wire.MsgTx{TxIn: []wire.TxIn{{SignatureScript: script}}, TxOut: []wire.TxOut{{}}}
	return &wire.AuxPow{
		CoinbaseTx:        wire.MerkleTx{Tx: tx, Index: 0},
		ChainMerkleBranch: wire.MerkleBranch{Hashes: nil},
		ChainIndex:        int32(chainIndex),
		ParentBlockHeader: wire.ParentBlockHeader{MerkleRoot: tx.TxHash()},
	}
}

func newRegistry(t *testing.T, chainID uint32) *Registry {
	t.Helper()
	store, err := OpenSlotStore(t.TempDir(), [16]byte{1, 2, 3, 4})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewRegistry(ChainParams{Name: "test-chain", ChainID: chainID}, store, NewVerifiedCache(16))
}

func TestRegistrySubmitAcceptsFreshAuxPow(t *testing.T) {
	r := newRegistry(t, 7)
	auxBlockHash := chainhash.Hash{1}
	ap := validAuxPow(7, auxBlockHash)

	require.NoError(t, r.Submit(ap, auxBlockHash))
}

func TestRegistrySubmitRejectsReplay(t *testing.T) {
	r := newRegistry(t, 7)
	auxBlockHash := chainhash.Hash{1}
	ap := validAuxPow(7, auxBlockHash)

	require.NoError(t, r.Submit(ap, auxBlockHash))

	err := r.Submit(ap, auxBlockHash)
	require.Equal(t, auxpow.RejectAlreadySpent, err)
}

func TestRegistrySubmitRejectsInvalidAuxPow(t *testing.T) {
	r := newRegistry(t, 7)
	auxBlockHash := chainhash.Hash{1}
	ap := validAuxPow(7, auxBlockHash)
	ap.ParentBlockHeader.MerkleRoot = chainhash.Hash{0xff}

	err := r.Submit(ap, auxBlockHash)
	require.Equal(t, auxpow.RejectTxMerkleMismatch, err)
}

func TestRegistrySubmitCachesResult(t *testing.T) {
	r := newRegistry(t, 7)
	auxBlockHash := chainhash.Hash{1}
	ap := validAuxPow(7, auxBlockHash)
	ap.ParentBlockHeader.MerkleRoot = chainhash.Hash{0xff}

	err1 := r.Submit(ap, auxBlockHash)
	err2 := r.Submit(ap, auxBlockHash)
	require.Equal(t, err1, err2)

	cached, ok := r.Cache.Lookup(ap.CoinbaseTx.Tx.TxHash(), auxBlockHash, 7)
	require.True(t, ok)
	require.Equal(t, auxpow.RejectTxMerkleMismatch, cached)
}

func TestRegistryWithoutSlotStoreSkipsReplayTracking(t *testing.T) {
	r := NewRegistry(ChainParams{Name: "no-store", ChainID: 7}, nil, NewVerifiedCache(16))
	auxBlockHash := chainhash.Hash{1}
	ap := validAuxPow(7, auxBlockHash)

	require.NoError(t, r.Submit(ap, auxBlockHash))
	require.NoError(t, r.Submit(ap, auxBlockHash))
}

func TestSlotStoreSeenRecord(t *testing.T) {
	store, err := OpenSlotStore(t.TempDir(), [16]byte{9})
	require.NoError(t, err)
	defer store.Close()

	var txid [32]byte
	txid[0] = 0xaa

	seen, err := store.Seen(txid, 3)
	require.NoError(t, err)
	require.False(t, seen)

	require.NoError(t, store.Record(txid, 3))

	seen, err = store.Seen(txid, 3)
	require.NoError(t, err)
	require.True(t, seen)

	// A different chain ID is a distinct slot.
	seen, err = store.Seen(txid, 4)
	require.NoError(t, err)
	require.False(t, seen)
}

func TestVerifiedCacheLookupStore(t *testing.T) {
	cache := NewVerifiedCache(4)
	var txid, auxHash [32]byte
	txid[0] = 1
	auxHash[0] = 2

	_, ok := cache.Lookup(txid, auxHash, 7)
	require.False(t, ok)

	cache.Store(txid, auxHash, 7, auxpow.RejectWrongIndex)
	got, ok := cache.Lookup(txid, auxHash, 7)
	require.True(t, ok)
	require.Equal(t, auxpow.RejectWrongIndex, got)
}
