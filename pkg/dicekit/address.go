package dicekit

import (
	"bytes"

	"github.com/LumeraProtocol/fairdice/pkg/errors"
	"github.com/btcsuite/btcutil/base58"
)

// AddressSize is the length of an account address or public key.
const AddressSize = 32

// Address identifies an account. It is rendered in base58.
type Address [AddressSize]byte

// Ed25519ProgramID is the native signature-verification program.
var Ed25519ProgramID = MustParseAddress("Ed25519SigVerify111111111111111111111111111")

// ParseAddress decodes a base58 address.
func ParseAddress(s string) (Address, error) {
	var a Address
	raw := base58.Decode(s)
	if len(raw) != AddressSize {
		return a, errors.Errorf("invalid address %q: decoded %d bytes", s, len(raw))
	}
	copy(a[:], raw)
	return a, nil
}

// MustParseAddress is ParseAddress for package-level constants.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Address) String() string {
	return base58.Encode(a[:])
}

func (a Address) Equal(b Address) bool {
	return bytes.Equal(a[:], b[:])
}

func (a Address) IsZero() bool {
	return a == Address{}
}
