package dicekit

import (
	"crypto/sha256"
	"encoding/binary"
	"math/big"
	"math/bits"

	sdkmath "cosmossdk.io/math"

	"github.com/LumeraProtocol/fairdice/pkg/ed25519ix"
	"github.com/LumeraProtocol/fairdice/pkg/errors"
)

const (
	// DefaultHouseEdgeBps is 1.5%.
	DefaultHouseEdgeBps uint16 = 150
	// BpsDenominator is 100% in basis points.
	BpsDenominator = 10000
	MinRoll        uint8 = 2
	MaxRoll        uint8 = 96
	rollSides            = 100
	maxBits              = 128
)

// Outcome is the result of resolving a bet.
type Outcome struct {
	Roll   uint8
	Win    bool
	Payout uint64
}

// DeriveRoll hashes the signature with SHA-256, adds the two little-endian
// 128-bit halves of the digest modulo 2^128 and maps the sum into [1, 100].
func DeriveRoll(sig [ed25519ix.SignatureSize]byte) uint8 {
	h := sha256.Sum256(sig[:])

	loLo := binary.LittleEndian.Uint64(h[0:8])
	loHi := binary.LittleEndian.Uint64(h[8:16])
	hiLo := binary.LittleEndian.Uint64(h[16:24])
	hiHi := binary.LittleEndian.Uint64(h[24:32])

	sumLo, carry := bits.Add64(loLo, hiLo, 0)
	sumHi, _ := bits.Add64(loHi, hiHi, carry)

	return uint8(bits.Rem64(sumHi, sumLo, rollSides)) + 1
}

// ComputePayout returns amount * (10000 - edgeBps) / (targetRoll - 1) / 100.
// Operands and intermediates are limited to 128 bits; any step that would
// exceed that, underflow or divide by zero fails with ErrOverflow.
func ComputePayout(amount sdkmath.Uint, targetRoll uint8, edgeBps uint16) (sdkmath.Uint, error) {
	if amount.BigInt().BitLen() > maxBits {
		return sdkmath.Uint{}, errors.Errorf("amount %s wider than %d bits: %w", amount, maxBits, ErrOverflow)
	}
	if edgeBps > BpsDenominator {
		return sdkmath.Uint{}, errors.Errorf("house edge %d bps: %w", edgeBps, ErrOverflow)
	}
	if targetRoll < 2 {
		return sdkmath.Uint{}, errors.Errorf("target roll %d leaves no winning outcomes: %w", targetRoll, ErrOverflow)
	}

	product := amount.Mul(sdkmath.NewUint(uint64(BpsDenominator - edgeBps)))
	if product.BigInt().BitLen() > maxBits {
		return sdkmath.Uint{}, errors.Errorf("payout product exceeds %d bits: %w", maxBits, ErrOverflow)
	}

	return product.QuoUint64(uint64(targetRoll - 1)).QuoUint64(100), nil
}

// Payout is ComputePayout for u64 wagers. The result must fit the u64
// transfer amount.
func Payout(amount uint64, targetRoll uint8, edgeBps uint16) (uint64, error) {
	p, err := ComputePayout(sdkmath.NewUint(amount), targetRoll, edgeBps)
	if err != nil {
		return 0, err
	}
	if !fitsUint64(p.BigInt()) {
		return 0, errors.Errorf("payout %s exceeds u64: %w", p, ErrOverflow)
	}
	return p.Uint64(), nil
}

// Resolve derives the roll from sig and settles bet. The player wins when the
// roll is strictly below the target.
func Resolve(sig [ed25519ix.SignatureSize]byte, bet Bet, edgeBps uint16) (Outcome, error) {
	out := Outcome{Roll: DeriveRoll(sig)}
	if bet.Roll <= out.Roll {
		return out, nil
	}
	payout, err := Payout(bet.Amount, bet.Roll, edgeBps)
	if err != nil {
		return Outcome{}, err
	}
	out.Win = true
	out.Payout = payout
	return out, nil
}

func fitsUint64(v *big.Int) bool {
	return v.Sign() >= 0 && v.IsUint64()
}
