// Package network implements the framed binary wire protocol and the
// per-connection read/write state built on top of it.
package network

import "fmt"

// MainType is the top-level category of a packet.
type MainType uint16

// SubType is the packet kind within a MainType's subrange.
type SubType uint16

const (
	MainNetwork MainType = 1
	MainGame    MainType = 2
	MainError   MainType = 3
)

// Network sub types (101-199).
const (
	SubJoin  SubType = 101
	SubLeft  SubType = 102
	SubClose SubType = 103
)

// Game sub types (201-299).
const (
	SubRoomCreate       SubType = 201
	SubCountdown        SubType = 202
	SubGameStart        SubType = 203
	SubPlayerMoved      SubType = 204
	SubPlayerComeInMap  SubType = 205
	SubPlayerComeOutMap SubType = 206
	SubPlayerFinished   SubType = 207
	SubGameEnd          SubType = 208
)

// Error sub types (301-399).
const (
	SubUnknown SubType = 301
)

// HeaderSize is the fixed, wire-exact size of a packet header.
const HeaderSize = 8

// MaxBodyLength caps a single packet body; the framer (not the codec)
// enforces this to bound per-connection memory.
const MaxBodyLength = 10 * 1024 * 1024

// Header is the fixed 8-byte little-endian packet header.
type Header struct {
	Main       MainType
	Sub        SubType
	BodyLength uint32
}

// Validate reports whether Main is a declared category and Sub falls in
// that category's subrange.
func (h Header) Validate() error {
	switch h.Main {
	case MainNetwork:
		if h.Sub < 101 || h.Sub > 199 {
			return fmt.Errorf("network: sub_type %d out of range [101,199]", h.Sub)
		}
	case MainGame:
		if h.Sub < 201 || h.Sub > 299 {
			return fmt.Errorf("network: sub_type %d out of range [201,299]", h.Sub)
		}
	case MainError:
		if h.Sub < 301 || h.Sub > 399 {
			return fmt.Errorf("network: sub_type %d out of range [301,399]", h.Sub)
		}
	default:
		return fmt.Errorf("network: unknown main_type %d", h.Main)
	}
	return nil
}

// PaddedBodyLength rounds n up to the next multiple of 8.
func PaddedBodyLength(n uint32) uint32 {
	return (n + 7) / 8 * 8
}
