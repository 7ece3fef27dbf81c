// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"

	"github.com/auxmerge/auxd/chainhash"
)

// OutPoint defines a parent-chain transaction outpoint by hash and index
// of the output being referenced.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// TxIn defines a parent-chain transaction input. SignatureScript is the
// only field the AuxPoW core inspects (it carries the merged-mining
// commitment for the coinbase input); everything else is carried purely
// so the coinbase transaction round-trips through serialization intact.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
}

// TxOut defines a parent-chain transaction output.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// MsgTx implements the parent-chain transaction the core assumes is
// pre-parsed by an external collaborator (spec.md §1). Only the surface
// the AuxPoW binding touches — inputs (for the coinbase script) and a
// stable TxHash — is modeled here; script execution, signing, and the
// full opcode set belong to that external parser.
type MsgTx struct {
	Version  int32
	TxIn     []TxIn
	TxOut    []TxOut
	LockTime uint32
}

// IsCoinBase determines whether tx is a coinbase transaction: exactly one
// input referencing a null previous outpoint.
func (tx *MsgTx) IsCoinBase() bool {
	if len(tx.TxIn) != 1 {
		return false
	}
	prev := &tx.TxIn[0].PreviousOutPoint
	return prev.Index == 0xffffffff && prev.Hash == chainhash.Hash{}
}

// TxHash computes the double-SHA256 hash of the serialized transaction.
func (tx *MsgTx) TxHash() chainhash.Hash {
	var buf bytes.Buffer
	_ = tx.Serialize(&buf)
	return chainhash.DoubleHashH(buf.Bytes())
}

// SerializeSize returns the number of bytes it would take to serialize tx.
func (tx *MsgTx) SerializeSize() int {
	var buf bytes.Buffer
	_ = tx.Serialize(&buf)
	return buf.Len()
}

// Serialize encodes tx to w using the native little-endian parent-chain
// transaction encoding.
func (tx *MsgTx) Serialize(w io.Writer) error {
	if err := writeElement(w, tx.Version); err != nil {
		return err
	}
	if err := WriteVarInt(w, 0, uint64(len(tx.TxIn))); err != nil {
		return err
	}
	for _, in := range tx.TxIn {
		if err := writeElement(w, &in.PreviousOutPoint.Hash); err != nil {
			return err
		}
		if err := writeElement(w, in.PreviousOutPoint.Index); err != nil {
			return err
		}
		if err := WriteVarInt(w, 0, uint64(len(in.SignatureScript))); err != nil {
			return err
		}
		if _, err := w.Write(in.SignatureScript); err != nil {
			return err
		}
		if err := writeElement(w, in.Sequence); err != nil {
			return err
		}
	}
	if err := WriteVarInt(w, 0, uint64(len(tx.TxOut))); err != nil {
		return err
	}
	for _, out := range tx.TxOut {
		if err := writeElement(w, uint64(out.Value)); err != nil {
			return err
		}
		if err := WriteVarInt(w, 0, uint64(len(out.PkScript))); err != nil {
			return err
		}
		if _, err := w.Write(out.PkScript); err != nil {
			return err
		}
	}
	return writeElement(w, tx.LockTime)
}

// Deserialize decodes tx from r using the native little-endian
// parent-chain transaction encoding.
func (tx *MsgTx) Deserialize(r io.Reader) error {
	if err := readElement(r, &tx.Version); err != nil {
		return err
	}
	inCount, err := ReadVarInt(r, 0)
	if err != nil {
		return err
	}
	tx.TxIn = make([]TxIn, inCount)
	for i := range tx.TxIn {
		in := &tx.TxIn[i]
		if err := readElement(r, &in.PreviousOutPoint.Hash); err != nil {
			return err
		}
		if err := readElement(r, &in.PreviousOutPoint.Index); err != nil {
			return err
		}
		scriptLen, err := ReadVarInt(r, 0)
		if err != nil {
			return err
		}
		in.SignatureScript = nil
		if scriptLen > 0 {
			in.SignatureScript = make([]byte, scriptLen)
			if _, err := io.ReadFull(r, in.SignatureScript); err != nil {
				return err
			}
		}
		if err := readElement(r, &in.Sequence); err != nil {
			return err
		}
	}
	outCount, err := ReadVarInt(r, 0)
	if err != nil {
		return err
	}
	tx.TxOut = make([]TxOut, outCount)
	for i := range tx.TxOut {
		out := &tx.TxOut[i]
		var value uint64
		if err := readElement(r, &value); err != nil {
			return err
		}
		out.Value = int64(value)
		scriptLen, err := ReadVarInt(r, 0)
		if err != nil {
			return err
		}
		out.PkScript = nil
		if scriptLen > 0 {
			out.PkScript = make([]byte, scriptLen)
			if _, err := io.ReadFull(r, out.PkScript); err != nil {
				return err
			}
		}
	}
	return readElement(r, &tx.LockTime)
}
