// Package chainreg provides the anti-replay ledger and verification
// cache a merged-mining server keeps around the stateless auxpow
// checker: a durable record of which (parent coinbase, chain) pairs
// have already been submitted, and a hot-path cache of already-verified
// AuxPow results, per SPEC_FULL.md §4.5.
package chainreg

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/aead/siphash"
	"github.com/syndtr/goleveldb/leveldb"
)

// ChainParams names the auxiliary chain a Registry is scoped to: a
// display name and its merged-mining chain ID. The coinbase magic marker
// is not a per-chain parameter. Distinct auxiliary chains sharing one
// parent get distinct ChainParams and distinct Registry instances.
type ChainParams struct {
	Name    string
	ChainID uint32
}

// SlotStore is a durable, LevelDB-backed ledger recording which parent
// coinbase transactions have already been spent proving work for a
// chain ID, so a parent block cannot be replayed to credit the same
// auxiliary work twice. Keys are the siphash of the coinbase txid
// concatenated with the chain ID, rather than the raw txid, so the
// on-disk ledger never leaks which parent transactions were involved.
type SlotStore struct {
	db      *leveldb.DB
	hashKey [16]byte
}

// OpenSlotStore opens (creating if necessary) the LevelDB ledger at
// path. hashKey is the 16-byte siphash key used to derive lookup keys;
// callers that want a stable key across restarts must persist it
// themselves, or call NewSlotStoreKey once and keep the result.
func OpenSlotStore(path string, hashKey [16]byte) (*SlotStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("chainreg: open slot store: %w", err)
	}
	return &SlotStore{db: db, hashKey: hashKey}, nil
}

// NewSlotStoreKey generates a fresh random siphash key suitable for
// OpenSlotStore.
func NewSlotStoreKey() ([16]byte, error) {
	var key [16]byte
	if _, err := rand.Read(key[:]); err != nil {
		return key, fmt.Errorf("chainreg: generate slot store key: %w", err)
	}
	return key, nil
}

// Close releases the underlying database handle.
func (s *SlotStore) Close() error {
	return s.db.Close()
}

// Seen reports whether coinbaseTxid has already been recorded against
// chainID.
func (s *SlotStore) Seen(coinbaseTxid [32]byte, chainID uint32) (bool, error) {
	has, err := s.db.Has(s.key(coinbaseTxid, chainID), nil)
	if err != nil {
		return false, fmt.Errorf("chainreg: slot store lookup: %w", err)
	}
	return has, nil
}

// Record marks coinbaseTxid as spent against chainID. It is idempotent:
// recording the same pair twice is not an error.
func (s *SlotStore) Record(coinbaseTxid [32]byte, chainID uint32) error {
	if err := s.db.Put(s.key(coinbaseTxid, chainID), []byte{1}, nil); err != nil {
		return fmt.Errorf("chainreg: slot store record: %w", err)
	}
	return nil
}

func (s *SlotStore) key(coinbaseTxid [32]byte, chainID uint32) []byte {
	// siphash.New64 only fails on a wrong-length key, which never happens
	// here since hashKey is fixed-size.
	h, _ := siphash.New64(s.hashKey[:])
	h.Write(coinbaseTxid[:])
	var chainIDBuf [4]byte
	binary.LittleEndian.PutUint32(chainIDBuf[:], chainID)
	h.Write(chainIDBuf[:])

	sum := make([]byte, 8)
	binary.BigEndian.PutUint64(sum, h.Sum64())
	return sum
}
