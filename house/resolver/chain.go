//go:generate mockgen -destination=chain_mock.go -package=resolver -source=chain.go
package resolver

import (
	"context"
	"encoding/binary"

	"github.com/LumeraProtocol/fairdice/pkg/dice"
	"github.com/LumeraProtocol/fairdice/pkg/dicekit"
	"github.com/LumeraProtocol/fairdice/pkg/ed25519ix"
	"github.com/LumeraProtocol/fairdice/pkg/ledger"
)

// Instruction discriminators of the dice program.
const (
	OpPlaceBet byte = iota + 1
	OpResolveBet
	OpRefundBet
)

// Chain is the runtime the resolver submits to.
type Chain interface {
	ProgramID() dicekit.Address
	PendingBets(ctx context.Context) ([]ledger.BetRecord, error)
	// Resolve submits tx and runs the resolve operation inside it.
	Resolve(ctx context.Context, tx ledger.Transaction, accts dice.Accounts, bumps dice.Bumps, sig [ed25519ix.SignatureSize]byte) (dicekit.Outcome, error)
}

// LocalChain runs the dice program against a local ledger.
type LocalChain struct {
	ledger  *ledger.Ledger
	program *dice.Program
}

var _ Chain = (*LocalChain)(nil)

func NewLocalChain(l *ledger.Ledger, p *dice.Program) *LocalChain {
	return &LocalChain{ledger: l, program: p}
}

func (c *LocalChain) Ledger() *ledger.Ledger { return c.ledger }

func (c *LocalChain) Program() *dice.Program { return c.program }

func (c *LocalChain) ProgramID() dicekit.Address { return c.ledger.ProgramID() }

func (c *LocalChain) PendingBets(ctx context.Context) ([]ledger.BetRecord, error) {
	return c.ledger.PendingBets(ctx)
}

// Place submits a place-bet signed by player.
func (c *LocalChain) Place(ctx context.Context, player, house dicekit.Address, seed dicekit.Seed, roll uint8, amount uint64) (dicekit.Bet, dicekit.Address, error) {
	accts, bumps := ledger.Accounts(c.ProgramID(), house, player, seed)
	tx := ledger.Transaction{
		Instructions: []dicekit.Instruction{c.instruction(OpPlaceBet, accts, placeData(seed, roll, amount))},
		Signers:      []dicekit.Address{player},
	}
	var bet dicekit.Bet
	err := c.ledger.Execute(ctx, tx, func(ctx context.Context, host *ledger.Host) error {
		var err error
		bet, err = c.program.PlaceBet(ctx, host, accts, bumps, seed, roll, amount)
		return err
	})
	return bet, accts.Bet, err
}

func (c *LocalChain) Resolve(ctx context.Context, tx ledger.Transaction, accts dice.Accounts, bumps dice.Bumps, sig [ed25519ix.SignatureSize]byte) (dicekit.Outcome, error) {
	var out dicekit.Outcome
	err := c.ledger.Execute(ctx, tx, func(ctx context.Context, host *ledger.Host) error {
		var err error
		out, err = c.program.ResolveBet(ctx, host, accts, bumps, sig)
		return err
	})
	return out, err
}

// Refund submits a refund-bet signed by player.
func (c *LocalChain) Refund(ctx context.Context, player, house dicekit.Address, seed dicekit.Seed) (uint64, error) {
	accts, bumps := ledger.Accounts(c.ProgramID(), house, player, seed)
	tx := ledger.Transaction{
		Instructions: []dicekit.Instruction{c.instruction(OpRefundBet, accts, nil)},
		Signers:      []dicekit.Address{player},
	}
	var amount uint64
	err := c.ledger.Execute(ctx, tx, func(ctx context.Context, host *ledger.Host) error {
		var err error
		amount, err = c.program.RefundBet(ctx, host, accts, bumps)
		return err
	})
	return amount, err
}

// ResolveTransaction builds the two-instruction resolve transaction: the
// house's Ed25519 verification first, then the program call.
func ResolveTransaction(programID dicekit.Address, accts dice.Accounts, msg []byte, sig [ed25519ix.SignatureSize]byte) (ledger.Transaction, error) {
	data, err := ed25519ix.NewInstructionData(accts.House, sig, msg)
	if err != nil {
		return ledger.Transaction{}, err
	}
	return ledger.Transaction{
		Instructions: []dicekit.Instruction{
			{ProgramID: dicekit.Ed25519ProgramID, Data: data},
			programInstruction(programID, OpResolveBet, accts, sig[:]),
		},
		Signers: []dicekit.Address{accts.House},
	}, nil
}

func (c *LocalChain) instruction(op byte, accts dice.Accounts, payload []byte) dicekit.Instruction {
	return programInstruction(c.ProgramID(), op, accts, payload)
}

func programInstruction(programID dicekit.Address, op byte, accts dice.Accounts, payload []byte) dicekit.Instruction {
	return dicekit.Instruction{
		ProgramID: programID,
		Accounts: []dicekit.AccountMeta{
			{Address: accts.Player, IsSigner: op != OpResolveBet, IsWritable: true},
			{Address: accts.House, IsSigner: op == OpResolveBet},
			{Address: accts.Vault, IsWritable: true},
			{Address: accts.Bet, IsWritable: true},
		},
		Data: append([]byte{op}, payload...),
	}
}

func placeData(seed dicekit.Seed, roll uint8, amount uint64) []byte {
	s := seed.Bytes()
	out := make([]byte, 0, len(s)+1+8)
	out = append(out, s[:]...)
	out = append(out, roll)
	return binary.LittleEndian.AppendUint64(out, amount)
}
