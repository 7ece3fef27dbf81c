// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wire implements the AuxPoW byte layout: the little-endian,
// varint-length-prefixed serialization of a MerkleTx, the chain-merkle
// branch, the chain index, and the 80-byte parent block header.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/auxmerge/auxd/chainhash"
)

var littleEndian = binary.LittleEndian

// binarySerializer provides a pool of reusable byte buffers for
// serializing and deserializing integer types to and from io.Reader and
// io.Writer, avoiding an allocation on every field read or write.
var binarySerializer = scratchPool{}

type scratchPool struct {
	pool sync.Pool
}

func (p *scratchPool) Borrow() []byte {
	if v := p.pool.Get(); v != nil {
		return v.([]byte)
	}
	return make([]byte, 8)
}

func (p *scratchPool) Return(b []byte) {
	p.pool.Put(b)
}

// MaxVarIntPayload is the maximum payload size, in bytes, for a variable
// length integer.
const MaxVarIntPayload = 9

// ReadVarInt reads a variable length integer from r and returns it as a
// uint64, using the Bitcoin-style compact encoding (single byte for values
// below 0xfd, prefixed 2/4/8-byte forms above that).
func ReadVarInt(r io.Reader, pver uint32) (uint64, error) {
	buf := binarySerializer.Borrow()
	defer binarySerializer.Return(buf)

	if _, err := io.ReadFull(r, buf[:1]); err != nil {
		return 0, err
	}
	discriminant := buf[0]

	var rv uint64
	switch discriminant {
	case 0xff:
		if _, err := io.ReadFull(r, buf[:8]); err != nil {
			return 0, err
		}
		rv = littleEndian.Uint64(buf[:8])
	case 0xfe:
		if _, err := io.ReadFull(r, buf[:4]); err != nil {
			return 0, err
		}
		rv = uint64(littleEndian.Uint32(buf[:4]))
	case 0xfd:
		if _, err := io.ReadFull(r, buf[:2]); err != nil {
			return 0, err
		}
		rv = uint64(littleEndian.Uint16(buf[:2]))
	default:
		rv = uint64(discriminant)
	}

	return rv, nil
}

// WriteVarInt serializes val to w using the Bitcoin-style compact
// variable length integer encoding.
func WriteVarInt(w io.Writer, pver uint32, val uint64) error {
	buf := binarySerializer.Borrow()
	defer binarySerializer.Return(buf)

	if val < 0xfd {
		buf[0] = byte(val)
		_, err := w.Write(buf[:1])
		return err
	}

	if val <= 0xffff {
		buf[0] = 0xfd
		littleEndian.PutUint16(buf[1:3], uint16(val))
		_, err := w.Write(buf[:3])
		return err
	}

	if val <= 0xffffffff {
		buf[0] = 0xfe
		littleEndian.PutUint32(buf[1:5], uint32(val))
		_, err := w.Write(buf[:5])
		return err
	}

	buf[0] = 0xff
	littleEndian.PutUint64(buf[1:9], val)
	_, err := w.Write(buf[:9])
	return err
}

// VarIntSerializeSize returns the number of bytes it would take to
// serialize val as a variable length integer.
func VarIntSerializeSize(val uint64) int {
	switch {
	case val < 0xfd:
		return 1
	case val <= 0xffff:
		return 3
	case val <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// writeElement writes a single scalar field (the set this package needs:
// fixed-width integers and chainhash.Hash values) to w in little-endian
// byte order.
func writeElement(w io.Writer, element interface{}) error {
	buf := binarySerializer.Borrow()
	defer binarySerializer.Return(buf)

	switch e := element.(type) {
	case int32:
		littleEndian.PutUint32(buf[:4], uint32(e))
		_, err := w.Write(buf[:4])
		return err
	case uint32:
		littleEndian.PutUint32(buf[:4], e)
		_, err := w.Write(buf[:4])
		return err
	case uint64:
		littleEndian.PutUint64(buf[:8], e)
		_, err := w.Write(buf[:8])
		return err
	case *chainhash.Hash:
		_, err := w.Write(e[:])
		return err
	default:
		return fmt.Errorf("wire: writeElement: unsupported type %T", element)
	}
}

// readElement reads a single scalar field from r into the value pointed to
// by element.
func readElement(r io.Reader, element interface{}) error {
	buf := binarySerializer.Borrow()
	defer binarySerializer.Return(buf)

	switch e := element.(type) {
	case *int32:
		if _, err := io.ReadFull(r, buf[:4]); err != nil {
			return err
		}
		*e = int32(littleEndian.Uint32(buf[:4]))
		return nil
	case *uint32:
		if _, err := io.ReadFull(r, buf[:4]); err != nil {
			return err
		}
		*e = littleEndian.Uint32(buf[:4])
		return nil
	case *uint64:
		if _, err := io.ReadFull(r, buf[:8]); err != nil {
			return err
		}
		*e = littleEndian.Uint64(buf[:8])
		return nil
	case *chainhash.Hash:
		_, err := io.ReadFull(r, e[:])
		return err
	default:
		return fmt.Errorf("wire: readElement: unsupported type %T", element)
	}
}
