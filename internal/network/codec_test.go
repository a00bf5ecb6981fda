package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		main MainType
		sub  SubType
		body []byte
	}{
		{"empty body", MainNetwork, SubJoin, nil},
		{"short body", MainGame, SubPlayerMoved, []byte(`{"x":2,"y":1}`)},
		{"exact multiple of 8", MainGame, SubCountdown, []byte("12345678")},
		{"one byte over a multiple of 8", MainError, SubUnknown, []byte("123456789")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			framed := Encode(tc.main, tc.sub, tc.body)
			require.True(t, len(framed) >= HeaderSize)

			var hdr [HeaderSize]byte
			copy(hdr[:], framed[:HeaderSize])
			h, err := DecodeHeader(hdr)
			require.NoError(t, err)
			assert.Equal(t, tc.main, h.Main)
			assert.Equal(t, tc.sub, h.Sub)
			assert.Equal(t, uint32(len(tc.body)), h.BodyLength)

			rest := framed[HeaderSize:]
			body, err := DecodeBody(h, rest)
			require.NoError(t, err)
			assert.Equal(t, tc.body, body)
		})
	}
}

func TestPaddedBodyLength(t *testing.T) {
	assert.Equal(t, uint32(0), PaddedBodyLength(0))
	assert.Equal(t, uint32(8), PaddedBodyLength(1))
	assert.Equal(t, uint32(8), PaddedBodyLength(8))
	assert.Equal(t, uint32(16), PaddedBodyLength(9))
}

func TestDecodeHeaderRejectsUnknownMain(t *testing.T) {
	framed := Encode(MainNetwork, SubJoin, []byte("x"))
	// Corrupt main_type to an undeclared category.
	framed[0] = 0xFF
	framed[1] = 0xFF

	var hdr [HeaderSize]byte
	copy(hdr[:], framed[:HeaderSize])
	_, err := DecodeHeader(hdr)
	assert.Error(t, err)
}

func TestDecodeHeaderRejectsSubOutOfRange(t *testing.T) {
	// GAME main_type with a sub_type outside every declared subrange.
	framed := Encode(MainGame, SubType(999), nil)
	var hdr [HeaderSize]byte
	copy(hdr[:], framed[:HeaderSize])
	_, err := DecodeHeader(hdr)
	assert.Error(t, err)
}

func TestDecodeBodyRejectsLengthMismatch(t *testing.T) {
	h := Header{Main: MainGame, Sub: SubPlayerMoved, BodyLength: 10}
	_, err := DecodeBody(h, make([]byte, 8)) // too short for padded(10)=16
	assert.Error(t, err)
}
