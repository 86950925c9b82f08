//go:generate mockgen -destination=host_mock.go -package=dice -source=interface.go
package dice

import (
	"context"

	"github.com/LumeraProtocol/fairdice/pkg/dicekit"
)

// Seeds derive a program address: label, identity, optional extra bytes
// and bump, hashed in that order.
type Seeds struct {
	Label    []byte
	Identity dicekit.Address
	Extra    []byte
	Bump     uint8
}

// VaultSeeds returns the seeds of the house vault.
func VaultSeeds(house dicekit.Address, bump uint8) Seeds {
	return Seeds{Label: []byte(VaultLabel), Identity: house, Bump: bump}
}

// BetSeeds returns the seeds of the bet with seed in vault.
func BetSeeds(vault dicekit.Address, seed dicekit.Seed, bump uint8) Seeds {
	s := seed.Bytes()
	return Seeds{Label: []byte(BetLabel), Identity: vault, Extra: s[:], Bump: bump}
}

// Host is the capability set the program needs from the runtime. One Host
// value serves exactly one atomic unit of work.
type Host interface {
	// IsSigner reports whether addr signed the current unit of work.
	IsSigner(ctx context.Context, addr dicekit.Address) bool
	// IsDerived reports whether seeds derive addr under this program.
	IsDerived(ctx context.Context, addr dicekit.Address, seeds Seeds) bool
	// CurrentSlot returns the host clock.
	CurrentSlot(ctx context.Context) (uint64, error)
	// LoadInstruction returns the instruction at index of the current unit of work.
	LoadInstruction(ctx context.Context, index int) (dicekit.Instruction, error)
	// Transfer moves funds from an account whose owner signed the unit of work.
	Transfer(ctx context.Context, from, to dicekit.Address, amount uint64) error
	// TransferSigned moves funds out of a program-derived account proven by seeds.
	TransferSigned(ctx context.Context, from, to dicekit.Address, amount uint64, seeds Seeds) error
	// CreateBet stores a new bet record funded by payer. It fails if addr is in use.
	CreateBet(ctx context.Context, payer, addr dicekit.Address, bet dicekit.Bet) error
	// LoadBet returns the bet at addr or ErrBetNotFound.
	LoadBet(ctx context.Context, addr dicekit.Address) (dicekit.Bet, error)
	// CloseBet destroys the bet at addr and releases its backing value to receiver.
	CloseBet(ctx context.Context, addr, receiver dicekit.Address) error
}
