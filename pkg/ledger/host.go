package ledger

import (
	"context"
	"database/sql"

	"github.com/LumeraProtocol/fairdice/pkg/dice"
	"github.com/LumeraProtocol/fairdice/pkg/dicekit"
	"github.com/LumeraProtocol/fairdice/pkg/errors"
	"github.com/jmoiron/sqlx"
)

// Host is the dice.Host view of one unit of work. It is only valid inside
// the Execute callback that produced it.
type Host struct {
	tx        *sqlx.Tx
	txn       Transaction
	programID dicekit.Address
	betRent   uint64
}

var _ dice.Host = (*Host)(nil)

func (h *Host) IsSigner(_ context.Context, addr dicekit.Address) bool {
	return h.signed(addr)
}

func (h *Host) IsDerived(_ context.Context, addr dicekit.Address, seeds dice.Seeds) bool {
	return seedsAddress(h.programID, seeds).Equal(addr)
}

func (h *Host) CurrentSlot(ctx context.Context) (uint64, error) {
	var slot int64
	if err := h.tx.GetContext(ctx, &slot, `SELECT slot FROM clock WHERE id = 0`); err != nil {
		return 0, classify(err)
	}
	return uint64(slot), nil
}

func (h *Host) LoadInstruction(_ context.Context, index int) (dicekit.Instruction, error) {
	if index < 0 || index >= len(h.txn.Instructions) {
		return dicekit.Instruction{}, errors.Errorf("index %d of %d: %w", index, len(h.txn.Instructions), ErrInstructionIndex)
	}
	return h.txn.Instructions[index], nil
}

func (h *Host) Transfer(ctx context.Context, from, to dicekit.Address, amount uint64) error {
	if !h.signed(from) {
		return errors.Errorf("transfer from %s: %w", from, ErrMissingSigner)
	}
	return h.move(ctx, from, to, amount)
}

func (h *Host) TransferSigned(ctx context.Context, from, to dicekit.Address, amount uint64, seeds dice.Seeds) error {
	if derived := seedsAddress(h.programID, seeds); !derived.Equal(from) {
		return errors.Errorf("seeds derive %s, not %s: %w", derived, from, ErrInvalidSeeds)
	}
	return h.move(ctx, from, to, amount)
}

func (h *Host) CreateBet(ctx context.Context, payer, addr dicekit.Address, bet dicekit.Bet) error {
	var exists int
	err := h.tx.GetContext(ctx, &exists, `SELECT 1 FROM bets WHERE address = ?`, addr.String())
	if err == nil {
		return errors.Errorf("bet %s: %w", addr, ErrAccountInUse)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return classify(err)
	}

	if !h.signed(payer) {
		return errors.Errorf("bet payer %s: %w", payer, ErrMissingSigner)
	}
	if err := debit(ctx, h.tx, payer, h.betRent); err != nil {
		return errors.Errorf("bet rent: %w", err)
	}

	slot, err := toDB(bet.Slot)
	if err != nil {
		return err
	}
	rent, err := toDB(h.betRent)
	if err != nil {
		return err
	}
	_, err = h.tx.ExecContext(ctx,
		`INSERT INTO bets (address, player, slot, rent, data) VALUES (?, ?, ?, ?, ?)`,
		addr.String(), bet.Player.String(), slot, rent, dicekit.MarshalBet(bet),
	)
	return classify(err)
}

func (h *Host) LoadBet(ctx context.Context, addr dicekit.Address) (dicekit.Bet, error) {
	return loadBet(ctx, h.tx, addr)
}

func (h *Host) CloseBet(ctx context.Context, addr, receiver dicekit.Address) error {
	var rent int64
	err := h.tx.GetContext(ctx, &rent, `SELECT rent FROM bets WHERE address = ?`, addr.String())
	if errors.Is(err, sql.ErrNoRows) {
		return errNoBet(addr)
	}
	if err != nil {
		return classify(err)
	}
	if _, err := h.tx.ExecContext(ctx, `DELETE FROM bets WHERE address = ?`, addr.String()); err != nil {
		return classify(err)
	}
	return credit(ctx, h.tx, receiver, uint64(rent))
}

func (h *Host) move(ctx context.Context, from, to dicekit.Address, amount uint64) error {
	if err := debit(ctx, h.tx, from, amount); err != nil {
		return err
	}
	return credit(ctx, h.tx, to, amount)
}

func (h *Host) signed(addr dicekit.Address) bool {
	for _, s := range h.txn.Signers {
		if s.Equal(addr) {
			return true
		}
	}
	return false
}

func errNoBet(addr dicekit.Address) error {
	return errors.Errorf("bet %s: %w", addr, dice.ErrBetNotFound)
}
