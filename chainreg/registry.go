package chainreg

import (
	"github.com/auxmerge/auxd/auxpow"
	"github.com/auxmerge/auxd/chainhash"
	"github.com/auxmerge/auxd/wire"
)

// Registry ties ChainParams, the durable SlotStore, and the hot-path
// VerifiedCache together behind the single entry point a merged-mining
// server calls for each submitted AuxPow.
type Registry struct {
	Params ChainParams
	Slots  *SlotStore
	Cache  *VerifiedCache
}

// NewRegistry builds a Registry for params, backed by slots and cache.
// Either may be nil: a nil cache disables memoization, a nil slots store
// disables replay tracking (suitable for a verify-only client with no
// local database).
func NewRegistry(params ChainParams, slots *SlotStore, cache *VerifiedCache) *Registry {
	return &Registry{Params: params, Slots: slots, Cache: cache}
}

// Submit verifies auxPow against auxBlockHash for the registry's chain,
// consulting and updating the verified-result cache, and — on a fresh
// acceptance — checking and updating the replay ledger. It returns nil
// only for an AuxPow that both passes auxpow.Check and has not already
// been recorded as spent.
func (r *Registry) Submit(auxPow *wire.AuxPow, auxBlockHash chainhash.Hash) error {
	coinbaseTxid := auxPow.CoinbaseTx.Tx.TxHash()

	var err error
	cached := false
	if r.Cache != nil {
		err, cached = r.Cache.Lookup(coinbaseTxid, auxBlockHash, r.Params.ChainID)
	}

	if !cached {
		err = auxpow.Check(auxPow, auxBlockHash, r.Params.ChainID)
		if r.Cache != nil {
			r.Cache.Store(coinbaseTxid, auxBlockHash, r.Params.ChainID, err)
		}
	}
	if err != nil {
		return err
	}

	if r.Slots == nil {
		return nil
	}

	seen, err := r.Slots.Seen(coinbaseTxid, r.Params.ChainID)
	if err != nil {
		return err
	}
	if seen {
		log.Warnf("chainreg: replayed coinbase %s for chain %q", coinbaseTxid, r.Params.Name)
		return auxpow.RejectAlreadySpent
	}
	log.Debugf("chainreg: recording new submission for chain %q", r.Params.Name)
	return r.Slots.Record(coinbaseTxid, r.Params.ChainID)
}
