package chainhash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashStringRoundTrip(t *testing.T) {
	var h Hash
	for i := range h {
		h[i] = byte(i)
	}

	s := h.String()
	got, err := NewHashFromStr(s)
	require.NoError(t, err)
	require.True(t, got.IsEqual(&h))
}

func TestReversed(t *testing.T) {
	var h Hash
	for i := range h {
		h[i] = byte(i)
	}

	r := h.Reversed()
	for i := range h {
		require.Equal(t, h[i], r[HashSize-1-i])
	}
	back := r.Reversed()
	require.True(t, back.IsEqual(&h))
}

func TestSetBytesWrongLength(t *testing.T) {
	var h Hash
	err := h.SetBytes([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestDoubleHashDeterministic(t *testing.T) {
	got := DoubleHashB([]byte("aux"))
	again := DoubleHashB([]byte("aux"))
	require.Equal(t, got, again)
	require.Len(t, got, HashSize)

	other := DoubleHashB([]byte("pow"))
	require.NotEqual(t, got, other)
}
