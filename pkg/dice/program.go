// Package dice implements the three operations of the dice program on top of
// a Host supplied by the runtime.
package dice

import (
	"context"

	"github.com/LumeraProtocol/fairdice/pkg/dicekit"
	"github.com/LumeraProtocol/fairdice/pkg/ed25519ix"
	"github.com/LumeraProtocol/fairdice/pkg/errors"
	"github.com/LumeraProtocol/fairdice/pkg/logtrace"
)

// SignatureInstructionIndex is where the house's Ed25519 instruction must sit.
const SignatureInstructionIndex = 0

// Accounts names the accounts of one operation.
type Accounts struct {
	Player dicekit.Address
	House  dicekit.Address
	Vault  dicekit.Address
	Bet    dicekit.Address
}

// Program is stateless apart from its deployment parameters and is safe to
// share between goroutines.
type Program struct {
	cfg Config
}

func NewProgram(cfg Config) (*Program, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Program{cfg: cfg}, nil
}

func (p *Program) Config() Config { return p.cfg }

// PlaceBet records a new bet and deposits the wager into the vault.
func (p *Program) PlaceBet(ctx context.Context, host Host, accts Accounts, bumps Bumps, seed dicekit.Seed, roll uint8, amount uint64) (dicekit.Bet, error) {
	if amount < p.cfg.MinBet {
		return dicekit.Bet{}, errors.Errorf("amount %d < %d: %w", amount, p.cfg.MinBet, ErrMinimumBet)
	}
	if amount > p.cfg.MaxBet {
		return dicekit.Bet{}, errors.Errorf("amount %d > %d: %w", amount, p.cfg.MaxBet, ErrMaximumBet)
	}
	if roll < dicekit.MinRoll {
		return dicekit.Bet{}, ErrMinimumRoll
	}
	if roll > dicekit.MaxRoll {
		return dicekit.Bet{}, ErrMaximumRoll
	}
	betBump, err := bumps.bet()
	if err != nil {
		return dicekit.Bet{}, err
	}
	vaultBump, err := bumps.vault()
	if err != nil {
		return dicekit.Bet{}, err
	}
	if err := requireSigner(ctx, host, "player", accts.Player); err != nil {
		return dicekit.Bet{}, err
	}
	if err := requireDerived(ctx, host, "vault", accts.Vault, VaultSeeds(accts.House, vaultBump)); err != nil {
		return dicekit.Bet{}, err
	}
	if err := requireDerived(ctx, host, "bet", accts.Bet, BetSeeds(accts.Vault, seed, betBump)); err != nil {
		return dicekit.Bet{}, err
	}

	slot, err := host.CurrentSlot(ctx)
	if err != nil {
		return dicekit.Bet{}, errors.Errorf("read slot: %w", err)
	}

	bet := dicekit.Bet{
		Slot:   slot,
		Player: accts.Player,
		Seed:   seed,
		Roll:   roll,
		Amount: amount,
		Bump:   betBump,
	}
	if err := host.CreateBet(ctx, accts.Player, accts.Bet, bet); err != nil {
		return dicekit.Bet{}, errors.Errorf("create bet: %w", err)
	}
	if err := host.Transfer(ctx, accts.Player, accts.Vault, amount); err != nil {
		return dicekit.Bet{}, errors.Errorf("deposit wager: %w", err)
	}

	logtrace.Info(ctx, "bet placed", logtrace.Fields{
		logtrace.FieldModule:     "dice",
		logtrace.FieldBetAddress: accts.Bet.String(),
		logtrace.FieldPlayer:     accts.Player.String(),
		logtrace.FieldSlot:       slot,
		logtrace.FieldTargetRoll: roll,
		logtrace.FieldAmount:     amount,
	})
	return bet, nil
}

// ResolveBet checks the house signature carried by instruction 0, settles the
// bet and destroys it. A winning payout is paid from the vault.
func (p *Program) ResolveBet(ctx context.Context, host Host, accts Accounts, bumps Bumps, sig [ed25519ix.SignatureSize]byte) (dicekit.Outcome, error) {
	if err := requireSigner(ctx, host, "house", accts.House); err != nil {
		return dicekit.Outcome{}, err
	}
	bet, err := p.loadOwnedBet(ctx, host, accts)
	if err != nil {
		return dicekit.Outcome{}, err
	}

	ix, err := host.LoadInstruction(ctx, SignatureInstructionIndex)
	if err != nil {
		return dicekit.Outcome{}, errors.Errorf("load signature instruction: %w", err)
	}
	if err := dicekit.VerifyInstruction(ix, accts.House, sig, dicekit.MarshalBet(bet)); err != nil {
		logtrace.Warn(ctx, "house signature rejected", logtrace.Fields{
			logtrace.FieldModule:     "dice",
			logtrace.FieldBetAddress: accts.Bet.String(),
			logtrace.FieldError:      err.Error(),
		})
		return dicekit.Outcome{}, err
	}

	outcome, err := dicekit.Resolve(sig, bet, p.cfg.HouseEdgeBps)
	if err != nil {
		return dicekit.Outcome{}, err
	}

	if outcome.Win {
		vaultBump, err := bumps.vault()
		if err != nil {
			return dicekit.Outcome{}, err
		}
		if err := host.TransferSigned(ctx, accts.Vault, accts.Player, outcome.Payout, VaultSeeds(accts.House, vaultBump)); err != nil {
			return dicekit.Outcome{}, errors.Errorf("pay out: %w", err)
		}
	}
	if err := host.CloseBet(ctx, accts.Bet, accts.Player); err != nil {
		return dicekit.Outcome{}, errors.Errorf("close bet: %w", err)
	}

	logtrace.Info(ctx, "bet resolved", logtrace.Fields{
		logtrace.FieldModule:     "dice",
		logtrace.FieldBetAddress: accts.Bet.String(),
		logtrace.FieldTargetRoll: bet.Roll,
		logtrace.FieldRoll:       outcome.Roll,
		logtrace.FieldPayout:     outcome.Payout,
	})
	return outcome, nil
}

// RefundBet returns the full wager once more than RefundTimeout slots have
// passed since the commit slot, and destroys the bet.
func (p *Program) RefundBet(ctx context.Context, host Host, accts Accounts, bumps Bumps) (uint64, error) {
	if err := requireSigner(ctx, host, "player", accts.Player); err != nil {
		return 0, err
	}
	bet, err := p.loadOwnedBet(ctx, host, accts)
	if err != nil {
		return 0, err
	}

	slot, err := host.CurrentSlot(ctx)
	if err != nil {
		return 0, errors.Errorf("read slot: %w", err)
	}
	if !p.RefundDue(bet, slot) {
		return 0, errors.Errorf("bet slot %d, current slot %d, timeout %d: %w", bet.Slot, slot, p.cfg.RefundTimeout, ErrTimeoutNotReached)
	}

	vaultBump, err := bumps.vault()
	if err != nil {
		return 0, err
	}
	if err := host.TransferSigned(ctx, accts.Vault, accts.Player, bet.Amount, VaultSeeds(accts.House, vaultBump)); err != nil {
		return 0, errors.Errorf("refund wager: %w", err)
	}
	if err := host.CloseBet(ctx, accts.Bet, accts.Player); err != nil {
		return 0, errors.Errorf("close bet: %w", err)
	}

	logtrace.Info(ctx, "bet refunded", logtrace.Fields{
		logtrace.FieldModule:     "dice",
		logtrace.FieldBetAddress: accts.Bet.String(),
		logtrace.FieldSlot:       slot,
		logtrace.FieldAmount:     bet.Amount,
	})
	return bet.Amount, nil
}

// RefundDue reports whether bet may be refunded at slot. A clock behind the
// commit slot never qualifies.
func (p *Program) RefundDue(bet dicekit.Bet, slot uint64) bool {
	return slot > bet.Slot && slot-bet.Slot > p.cfg.RefundTimeout
}

// loadOwnedBet loads the bet at accts.Bet and checks that it belongs to
// accts.Player and sits at the address its own seed and bump derive in
// accts.Vault.
func (p *Program) loadOwnedBet(ctx context.Context, host Host, accts Accounts) (dicekit.Bet, error) {
	bet, err := host.LoadBet(ctx, accts.Bet)
	if err != nil {
		return dicekit.Bet{}, errors.Errorf("load bet %s: %w", accts.Bet, err)
	}
	if !bet.Player.Equal(accts.Player) {
		return dicekit.Bet{}, errors.Errorf("bet %s belongs to %s: %w", accts.Bet, bet.Player, ErrPlayerMismatch)
	}
	if err := requireDerived(ctx, host, "bet", accts.Bet, BetSeeds(accts.Vault, bet.Seed, bet.Bump)); err != nil {
		return dicekit.Bet{}, err
	}
	return bet, nil
}

func requireSigner(ctx context.Context, host Host, role string, addr dicekit.Address) error {
	if !host.IsSigner(ctx, addr) {
		return errors.Errorf("%s %s: %w", role, addr, ErrSignerMissing)
	}
	return nil
}

func requireDerived(ctx context.Context, host Host, role string, addr dicekit.Address, seeds Seeds) error {
	if !host.IsDerived(ctx, addr, seeds) {
		return errors.Errorf("%s %s: %w", role, addr, ErrInvalidAccount)
	}
	return nil
}
