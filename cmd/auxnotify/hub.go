// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/auxmerge/auxd/auxpow"
	"github.com/auxmerge/auxd/notify"
)

// verdict is the JSON payload pushed to every subscriber on each
// auxpow.Check outcome.
type verdict struct {
	ChainName    string `json:"chain_name"`
	ChainID      uint32 `json:"chain_id"`
	CoinbaseTxid string `json:"coinbase_txid"`
	AuxBlockHash string `json:"aux_block_hash"`
	Accepted     bool   `json:"accepted"`
	Reason       string `json:"reason,omitempty"`
	Signature    string `json:"signature_hex"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// hub fans every published verdict out to each currently-connected
// subscriber. A slow or disconnected subscriber is dropped rather than
// allowed to block the broadcast.
type hub struct {
	signer *notify.Signer

	mu   sync.Mutex
	subs map[*websocket.Conn]chan []byte
}

func newHub(signer *notify.Signer) *hub {
	return &hub{signer: signer, subs: make(map[*websocket.Conn]chan []byte)}
}

// ServeHTTP upgrades the connection and registers it as a subscriber
// until the client disconnects.
func (h *hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("auxnotify: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	out := make(chan []byte, 16)
	h.mu.Lock()
	h.subs[conn] = out
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.subs, conn)
		h.mu.Unlock()
	}()

	for msg := range out {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// Publish signs and broadcasts the outcome of one auxpow.Check call.
func (h *hub) Publish(chainName string, chainID uint32, coinbaseTxid, auxBlockHash string, checkErr error) {
	v := verdict{
		ChainName:    chainName,
		ChainID:      chainID,
		CoinbaseTxid: coinbaseTxid,
		AuxBlockHash: auxBlockHash,
		Accepted:     checkErr == nil,
	}
	if checkErr != nil {
		if reason, ok := checkErr.(auxpow.RejectReason); ok {
			v.Reason = reason.String()
		} else {
			v.Reason = checkErr.Error()
		}
	}

	payload, err := json.Marshal(&v)
	if err != nil {
		log.Errorf("auxnotify: marshal verdict: %v", err)
		return
	}
	v.Signature = hex.EncodeToString(h.signer.Sign(payload))

	signed, err := json.Marshal(&v)
	if err != nil {
		log.Errorf("auxnotify: marshal signed verdict: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, ch := range h.subs {
		select {
		case ch <- signed:
		default:
			log.Warnf("auxnotify: dropping slow subscriber %s", conn.RemoteAddr())
			delete(h.subs, conn)
			close(ch)
		}
	}
}
