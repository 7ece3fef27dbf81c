package coinbase

import (
	"encoding/binary"
	"errors"
)

// opPush2 is the "push the number 2" opcode (OP_2 / OP_1 + 1, value 0x52 in
// standard script numbering), used here purely as a version placeholder in
// case the embedding format grows a second revision.
const opPush2 = 0x52

// Build assembles a coinbase input script carrying the merged-mining
// commitment: [push bits][push extraNonce][OP_2][push marker||payload].
//
// payload is the aux_payload the scanner expects to find after the
// marker: the chain-merkle root (or, for multiple merged chains, the
// caller-assembled chains-merkle-tree commitment) followed by the
// little-endian tree_size/nonce pair Scan parses back out. Build does
// not interpret it — it only prepends the magic marker and wraps the
// result as a length-prefixed push, per the normative coinbase-script
// shape.
func Build(bits uint32, extraNonce uint32, payload []byte) []byte {
	tagged := make([]byte, 0, len(MergedMiningHeader)+len(payload))
	tagged = append(tagged, MergedMiningHeader[:]...)
	tagged = append(tagged, payload...)

	var b scriptBuilder
	b.pushUint32(bits)
	b.pushUint32(extraNonce)
	b.pushOpcode(opPush2)
	b.pushData(tagged)
	return b.bytes
}

// StripMarker fails unless payload begins with the magic merged-mining
// marker, returning the suffix with the marker removed. It is the inverse
// of the tagging Build performs, used by tools that reverse the embedding.
func StripMarker(payload []byte) ([]byte, error) {
	if len(payload) < len(MergedMiningHeader) {
		return nil, errors.New("payload shorter than merged-mining header")
	}
	for i, b := range MergedMiningHeader {
		if payload[i] != b {
			return nil, errors.New("payload does not begin with merged-mining header")
		}
	}
	return payload[len(MergedMiningHeader):], nil
}

// scriptBuilder accumulates the minimal set of script pushes the
// merged-mining coinbase needs. The full transaction-script language
// (opcodes, signature verification, parsing) is an external collaborator
// per this repo's scope; this builder only emits the three push forms the
// normative coinbase shape requires.
type scriptBuilder struct {
	bytes []byte
}

// pushUint32 emits the canonical minimal-push encoding of a 4-byte
// little-endian integer, trimming trailing zero bytes the way script
// numbers are minimally encoded, but always as an explicit data push so
// the scanner's offset arithmetic (tailLen, legacyRootOffsetLimit) stays
// exact for values in the ranges actually used (bits, extraNonce).
func (b *scriptBuilder) pushUint32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	n := 4
	for n > 1 && buf[n-1] == 0 {
		n--
	}
	b.pushData(buf[:n])
}

func (b *scriptBuilder) pushOpcode(op byte) {
	b.bytes = append(b.bytes, op)
}

func (b *scriptBuilder) pushData(data []byte) {
	l := len(data)
	switch {
	case l < 0x4c:
		b.bytes = append(b.bytes, byte(l))
	case l <= 0xff:
		b.bytes = append(b.bytes, 0x4c, byte(l))
	case l <= 0xffff:
		var lb [2]byte
		binary.LittleEndian.PutUint16(lb[:], uint16(l))
		b.bytes = append(b.bytes, 0x4d, lb[0], lb[1])
	default:
		var lb [4]byte
		binary.LittleEndian.PutUint32(lb[:], uint32(l))
		b.bytes = append(b.bytes, 0x4e, lb[0], lb[1], lb[2], lb[3])
	}
	b.bytes = append(b.bytes, data...)
}
