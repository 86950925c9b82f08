package ledger

import (
	"github.com/LumeraProtocol/fairdice/pkg/errors"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAccountInUse      = errors.New("account already in use")
	ErrMissingSigner     = errors.New("missing required signature")
	ErrInvalidSeeds      = errors.New("seeds do not derive the source account")
	ErrInstructionIndex  = errors.New("instruction index out of range")
	ErrSignatureInvalid  = errors.New("ed25519 signature verification failed")
	ErrAmountOutOfRange  = errors.New("amount out of range")
	ErrBusy              = errors.New("ledger busy")
)

// classify maps SQLite contention to ErrBusy so callers can retry.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var se sqlite3.Error
	if errors.As(err, &se) && (se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked) {
		return errors.Errorf("%v: %w", err, ErrBusy)
	}
	return err
}
