package dicekit

import "github.com/LumeraProtocol/fairdice/pkg/errors"

// Verification errors.
var (
	ErrEd25519Program    = errors.New("ed25519 program error")
	ErrEd25519Accounts   = errors.New("ed25519 accounts error")
	ErrEd25519DataLength = errors.New("ed25519 data length error")
	ErrEd25519Header     = errors.New("ed25519 header error")
	ErrEd25519Pubkey     = errors.New("ed25519 pubkey error")
	ErrEd25519Signature  = errors.New("ed25519 signature error")
	ErrEd25519Message    = errors.New("ed25519 message error")
)

// ErrOverflow covers every checked arithmetic failure in payout computation.
var ErrOverflow = errors.New("overflow")
