package dicekit

import (
	"encoding/binary"

	"github.com/LumeraProtocol/fairdice/pkg/errors"
)

// BetSize is the length of the canonical bet serialization.
const BetSize = 8 + AddressSize + 16 + 1 + 8 + 1

// Seed is the 128-bit client seed, stored as two 64-bit halves.
type Seed struct {
	Lo uint64
	Hi uint64
}

// Bytes returns the seed as 16 little-endian bytes.
func (s Seed) Bytes() [16]byte {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[0:8], s.Lo)
	binary.LittleEndian.PutUint64(b[8:16], s.Hi)
	return b
}

// SeedFromBytes is the inverse of Seed.Bytes.
func SeedFromBytes(b [16]byte) Seed {
	return Seed{
		Lo: binary.LittleEndian.Uint64(b[0:8]),
		Hi: binary.LittleEndian.Uint64(b[8:16]),
	}
}

// Bet is the wager committed by a player. It is never mutated once created.
type Bet struct {
	Slot   uint64
	Player Address
	Seed   Seed
	Roll   uint8
	Amount uint64
	Bump   uint8
}

// MarshalBet returns the bytes the house signs and the verifier compares:
// slot(8 LE) | player(32) | seed(16 LE) | roll(1) | amount(8 LE) | bump(1).
// Both sides must use this routine.
func MarshalBet(b Bet) []byte {
	out := make([]byte, BetSize)
	binary.LittleEndian.PutUint64(out[0:8], b.Slot)
	copy(out[8:40], b.Player[:])
	seed := b.Seed.Bytes()
	copy(out[40:56], seed[:])
	out[56] = b.Roll
	binary.LittleEndian.PutUint64(out[57:65], b.Amount)
	out[65] = b.Bump
	return out
}

// UnmarshalBet decodes bytes produced by MarshalBet.
func UnmarshalBet(data []byte) (Bet, error) {
	if len(data) != BetSize {
		return Bet{}, errors.Errorf("bet record is %d bytes, want %d", len(data), BetSize)
	}
	var b Bet
	b.Slot = binary.LittleEndian.Uint64(data[0:8])
	copy(b.Player[:], data[8:40])
	var seed [16]byte
	copy(seed[:], data[40:56])
	b.Seed = SeedFromBytes(seed)
	b.Roll = data[56]
	b.Amount = binary.LittleEndian.Uint64(data[57:65])
	b.Bump = data[65]
	return b, nil
}
