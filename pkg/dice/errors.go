package dice

import "github.com/LumeraProtocol/fairdice/pkg/errors"

// Policy errors.
var (
	ErrBumpMissing       = errors.New("bump error")
	ErrMinimumBet        = errors.New("bet below minimum")
	ErrMaximumBet        = errors.New("maximum bet exceeded")
	ErrMinimumRoll       = errors.New("minimum roll is 2")
	ErrMaximumRoll       = errors.New("maximum roll is 96")
	ErrTimeoutNotReached = errors.New("timeout not yet reached")
	ErrPlayerMismatch    = errors.New("player does not own bet")
	ErrBetNotFound       = errors.New("bet not found")
	ErrSignerMissing     = errors.New("required signer missing")
	ErrInvalidAccount    = errors.New("account does not derive from its seeds")
)
