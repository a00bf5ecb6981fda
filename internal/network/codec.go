package network

import (
	"encoding/binary"
	"fmt"
)

// Encode emits Header ∥ Body ∥ Padding for the given category, kind and
// body. The header always carries the unpadded body length; the returned
// slice is padded to a multiple of 8 bytes.
func Encode(main MainType, sub SubType, body []byte) []byte {
	bodyLen := uint32(len(body))
	padded := PaddedBodyLength(bodyLen)

	buf := make([]byte, HeaderSize+padded)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(main))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(sub))
	binary.LittleEndian.PutUint32(buf[4:8], bodyLen)
	copy(buf[HeaderSize:], body)
	// buf is zero-initialized by make, so the padding bytes are already 0.

	return buf
}

// DecodeHeader parses the fixed 8-byte header and validates it.
func DecodeHeader(raw [HeaderSize]byte) (Header, error) {
	h := Header{
		Main:       MainType(binary.LittleEndian.Uint16(raw[0:2])),
		Sub:        SubType(binary.LittleEndian.Uint16(raw[2:4])),
		BodyLength: binary.LittleEndian.Uint32(raw[4:8]),
	}
	if err := h.Validate(); err != nil {
		return Header{}, err
	}
	return h, nil
}

// DecodeBody validates that framed carries exactly the header's declared
// body length plus padding, then slices off the padding.
func DecodeBody(h Header, framed []byte) ([]byte, error) {
	padded := PaddedBodyLength(h.BodyLength)
	if uint32(len(framed)) != padded {
		return nil, fmt.Errorf("network: expected %d padded body bytes, got %d", padded, len(framed))
	}
	return framed[:h.BodyLength], nil
}
