package chainreg

import (
	"github.com/decred/dcrd/lru"
)

// verifiedKey identifies one verification outcome: a specific AuxPow
// (by its coinbase transaction hash) checked against a specific
// auxiliary block hash and chain ID. The same AuxPow can be resubmitted
// against the same aux block by a slow or retrying client; caching the
// outcome spares a repeat Merkle walk and coinbase scan.
type verifiedKey struct {
	coinbaseTxid [32]byte
	auxBlockHash [32]byte
	chainID      uint32
}

// VerifiedCache is a bounded, in-memory LRU of recent auxpow.Check
// outcomes, keyed by the triple that determines the result. It never
// replaces SlotStore: the cache only saves redundant verification work
// within a short window, while SlotStore is the durable record deciding
// whether a passing AuxPow may still be credited.
type VerifiedCache struct {
	results *lru.Map[verifiedKey, error]
}

// NewVerifiedCache creates a cache holding up to limit entries.
func NewVerifiedCache(limit uint64) *VerifiedCache {
	return &VerifiedCache{results: lru.NewMap[verifiedKey, error](limit)}
}

// Lookup returns a previously cached Check result for the given triple,
// if any.
func (c *VerifiedCache) Lookup(coinbaseTxid, auxBlockHash [32]byte, chainID uint32) (error, bool) {
	key := verifiedKey{coinbaseTxid: coinbaseTxid, auxBlockHash: auxBlockHash, chainID: chainID}
	v, ok := c.results.Get(key)
	if !ok {
		return nil, false
	}
	return v, true
}

// Store records the outcome of auxpow.Check for the given triple. err
// is nil for an accepted AuxPow and the RejectReason otherwise.
func (c *VerifiedCache) Store(coinbaseTxid, auxBlockHash [32]byte, chainID uint32, err error) {
	key := verifiedKey{coinbaseTxid: coinbaseTxid, auxBlockHash: auxBlockHash, chainID: chainID}
	c.results.Put(key, err)
}
