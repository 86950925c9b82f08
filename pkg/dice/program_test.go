package dice

import (
	"bytes"
	"context"
	"crypto/sha256"
	"testing"

	"github.com/LumeraProtocol/fairdice/pkg/dicekit"
	"github.com/LumeraProtocol/fairdice/pkg/ed25519ix"
	"github.com/LumeraProtocol/fairdice/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakeHost is an in-memory Host for one unit of work.
type fakeHost struct {
	slot         uint64
	instructions []dicekit.Instruction
	balances     map[dicekit.Address]uint64
	bets         map[dicekit.Address]dicekit.Bet
	signers      map[dicekit.Address]bool
	signedSeeds  []Seeds
}

var _ Host = (*fakeHost)(nil)

func newFakeHost() *fakeHost {
	return &fakeHost{
		balances: map[dicekit.Address]uint64{},
		bets:     map[dicekit.Address]dicekit.Bet{},
		signers:  map[dicekit.Address]bool{testAccounts.Player: true, testAccounts.House: true},
	}
}

// fakeDerive stands in for the runtime's address derivation.
func fakeDerive(seeds Seeds) dicekit.Address {
	h := sha256.New()
	h.Write(seeds.Label)
	h.Write(seeds.Identity[:])
	h.Write(seeds.Extra)
	h.Write([]byte{seeds.Bump})
	var a dicekit.Address
	copy(a[:], h.Sum(nil))
	return a
}

func (h *fakeHost) IsSigner(_ context.Context, a dicekit.Address) bool { return h.signers[a] }

func (h *fakeHost) IsDerived(_ context.Context, a dicekit.Address, seeds Seeds) bool {
	return fakeDerive(seeds) == a
}

func (h *fakeHost) CurrentSlot(context.Context) (uint64, error) { return h.slot, nil }

func (h *fakeHost) LoadInstruction(_ context.Context, index int) (dicekit.Instruction, error) {
	if index < 0 || index >= len(h.instructions) {
		return dicekit.Instruction{}, errors.Errorf("no instruction at %d", index)
	}
	return h.instructions[index], nil
}

func (h *fakeHost) Transfer(_ context.Context, from, to dicekit.Address, amount uint64) error {
	if h.balances[from] < amount {
		return errors.New("insufficient funds")
	}
	h.balances[from] -= amount
	h.balances[to] += amount
	return nil
}

func (h *fakeHost) TransferSigned(ctx context.Context, from, to dicekit.Address, amount uint64, seeds Seeds) error {
	h.signedSeeds = append(h.signedSeeds, seeds)
	return h.Transfer(ctx, from, to, amount)
}

func (h *fakeHost) CreateBet(_ context.Context, _, addr dicekit.Address, bet dicekit.Bet) error {
	if _, ok := h.bets[addr]; ok {
		return errors.New("account in use")
	}
	h.bets[addr] = bet
	return nil
}

func (h *fakeHost) LoadBet(_ context.Context, addr dicekit.Address) (dicekit.Bet, error) {
	bet, ok := h.bets[addr]
	if !ok {
		return dicekit.Bet{}, ErrBetNotFound
	}
	return bet, nil
}

func (h *fakeHost) CloseBet(_ context.Context, addr, _ dicekit.Address) error {
	if _, ok := h.bets[addr]; !ok {
		return ErrBetNotFound
	}
	delete(h.bets, addr)
	return nil
}

func addr(b byte) dicekit.Address {
	var a dicekit.Address
	copy(a[:], bytes.Repeat([]byte{b}, dicekit.AddressSize))
	return a
}

func sigOf(b byte) [ed25519ix.SignatureSize]byte {
	var sig [ed25519ix.SignatureSize]byte
	copy(sig[:], bytes.Repeat([]byte{b}, ed25519ix.SignatureSize))
	return sig
}

var (
	testSeed     = dicekit.Seed{Lo: 42}
	testVault    = fakeDerive(VaultSeeds(addr(2), 254))
	testAccounts = Accounts{
		Player: addr(1),
		House:  addr(2),
		Vault:  testVault,
		Bet:    fakeDerive(BetSeeds(testVault, testSeed, 253)),
	}
)

func testProgram(t *testing.T) *Program {
	t.Helper()
	cfg := DefaultConfig()
	cfg.MinBet = 1_000
	p, err := NewProgram(cfg)
	require.NoError(t, err)
	return p
}

func bothBumps() Bumps { return Bumps{Vault: Bump(254), Bet: Bump(253)} }

// place puts a 1_000_000 wager on roll 50 at slot 100.
func place(t *testing.T, p *Program, h *fakeHost) dicekit.Bet {
	t.Helper()
	h.slot = 100
	h.balances[testAccounts.Player] += 5_000_000
	h.balances[testAccounts.Vault] += 50_000_000
	bet, err := p.PlaceBet(context.Background(), h, testAccounts, bothBumps(), testSeed, 50, 1_000_000)
	require.NoError(t, err)
	return bet
}

func signWith(t *testing.T, h *fakeHost, bet dicekit.Bet, sig [ed25519ix.SignatureSize]byte) {
	t.Helper()
	data, err := ed25519ix.NewInstructionData(testAccounts.House, sig, dicekit.MarshalBet(bet))
	require.NoError(t, err)
	h.instructions = []dicekit.Instruction{{ProgramID: dicekit.Ed25519ProgramID, Data: data}}
}

func TestNewProgramValidatesConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HouseEdgeBps = 10001
	_, err := NewProgram(cfg)
	require.Error(t, err)

	cfg = DefaultConfig()
	cfg.MinBet = cfg.MaxBet + 1
	_, err = NewProgram(cfg)
	require.Error(t, err)
}

func TestPlaceBet(t *testing.T) {
	p := testProgram(t)
	h := newFakeHost()
	bet := place(t, p, h)

	assert.Equal(t, dicekit.Bet{
		Slot:   100,
		Player: testAccounts.Player,
		Seed:   testSeed,
		Roll:   50,
		Amount: 1_000_000,
		Bump:   253,
	}, bet)
	assert.Equal(t, bet, h.bets[testAccounts.Bet])
	assert.Equal(t, uint64(4_000_000), h.balances[testAccounts.Player])
	assert.Equal(t, uint64(51_000_000), h.balances[testAccounts.Vault])
}

func TestPlaceBetPolicy(t *testing.T) {
	p := testProgram(t)
	cases := []struct {
		name   string
		roll   uint8
		amount uint64
		bumps  Bumps
		want   error
	}{
		{name: "below minimum", roll: 50, amount: 999, bumps: bothBumps(), want: ErrMinimumBet},
		{name: "above maximum", roll: 50, amount: DefaultMaxBet + 1, bumps: bothBumps(), want: ErrMaximumBet},
		{name: "roll 1", roll: 1, amount: 1_000, bumps: bothBumps(), want: ErrMinimumRoll},
		{name: "roll 97", roll: 97, amount: 1_000, bumps: bothBumps(), want: ErrMaximumRoll},
		{name: "missing bet bump", roll: 50, amount: 1_000, bumps: Bumps{Vault: Bump(1)}, want: ErrBumpMissing},
		{name: "missing vault bump", roll: 50, amount: 1_000, bumps: Bumps{Bet: Bump(253)}, want: ErrBumpMissing},
		{name: "wrong vault bump", roll: 50, amount: 1_000, bumps: Bumps{Vault: Bump(1), Bet: Bump(253)}, want: ErrInvalidAccount},
		{name: "wrong bet bump", roll: 50, amount: 1_000, bumps: Bumps{Vault: Bump(254), Bet: Bump(1)}, want: ErrInvalidAccount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newFakeHost()
			h.balances[testAccounts.Player] = DefaultMaxBet * 2
			_, err := p.PlaceBet(context.Background(), h, testAccounts, tc.bumps, testSeed, tc.roll, tc.amount)
			require.True(t, errors.Is(err, tc.want), "got %v", err)
			require.Empty(t, h.bets)
		})
	}
}

func TestPlaceBetBoundsAccepted(t *testing.T) {
	p := testProgram(t)
	for _, roll := range []uint8{2, 96} {
		h := newFakeHost()
		h.balances[testAccounts.Player] = DefaultMaxBet
		_, err := p.PlaceBet(context.Background(), h, testAccounts, bothBumps(), testSeed, roll, DefaultMaxBet)
		require.NoError(t, err, "roll %d", roll)
	}
}

func TestResolveBetWin(t *testing.T) {
	p := testProgram(t)
	h := newFakeHost()
	bet := place(t, p, h)

	sig := sigOf(0x06) // rolls 7
	signWith(t, h, bet, sig)

	out, err := p.ResolveBet(context.Background(), h, testAccounts, bothBumps(), sig)
	require.NoError(t, err)
	require.Equal(t, dicekit.Outcome{Roll: 7, Win: true, Payout: 1_000_000 * 9850 / 49 / 100}, out)
	require.Equal(t, uint64(2_010_204), out.Payout)

	assert.NotContains(t, h.bets, testAccounts.Bet)
	assert.Equal(t, uint64(4_000_000+2_010_204), h.balances[testAccounts.Player])
	require.Len(t, h.signedSeeds, 1)
	assert.Equal(t, VaultSeeds(testAccounts.House, 254), h.signedSeeds[0])
}

func TestResolveBetLoss(t *testing.T) {
	p := testProgram(t)
	h := newFakeHost()
	bet := place(t, p, h)

	sig := sigOf(0x00) // rolls 73
	signWith(t, h, bet, sig)

	// a loss never touches the vault, so no vault bump is needed
	out, err := p.ResolveBet(context.Background(), h, testAccounts, Bumps{}, sig)
	require.NoError(t, err)
	require.Equal(t, dicekit.Outcome{Roll: 73}, out)
	assert.NotContains(t, h.bets, testAccounts.Bet)
	assert.Equal(t, uint64(4_000_000), h.balances[testAccounts.Player])
	assert.Equal(t, uint64(51_000_000), h.balances[testAccounts.Vault])
}

func TestResolveBetTwice(t *testing.T) {
	p := testProgram(t)
	h := newFakeHost()
	bet := place(t, p, h)
	sig := sigOf(0x00)
	signWith(t, h, bet, sig)

	_, err := p.ResolveBet(context.Background(), h, testAccounts, bothBumps(), sig)
	require.NoError(t, err)
	_, err = p.ResolveBet(context.Background(), h, testAccounts, bothBumps(), sig)
	require.True(t, errors.Is(err, ErrBetNotFound))
}

func TestResolveBetRejections(t *testing.T) {
	p := testProgram(t)

	t.Run("signature of another bet", func(t *testing.T) {
		h := newFakeHost()
		bet := place(t, p, h)
		bet.Seed.Lo++
		signWith(t, h, bet, sigOf(0x06))
		_, err := p.ResolveBet(context.Background(), h, testAccounts, bothBumps(), sigOf(0x06))
		require.True(t, errors.Is(err, dicekit.ErrEd25519Message))
		require.Contains(t, h.bets, testAccounts.Bet)
	})

	t.Run("argument differs from signed signature", func(t *testing.T) {
		h := newFakeHost()
		bet := place(t, p, h)
		signWith(t, h, bet, sigOf(0x00))
		_, err := p.ResolveBet(context.Background(), h, testAccounts, bothBumps(), sigOf(0x06))
		require.True(t, errors.Is(err, dicekit.ErrEd25519Signature))
	})

	t.Run("no signature instruction", func(t *testing.T) {
		h := newFakeHost()
		place(t, p, h)
		_, err := p.ResolveBet(context.Background(), h, testAccounts, bothBumps(), sigOf(0x06))
		require.Error(t, err)
		require.Contains(t, h.bets, testAccounts.Bet)
	})

	t.Run("player mismatch", func(t *testing.T) {
		h := newFakeHost()
		bet := place(t, p, h)
		signWith(t, h, bet, sigOf(0x06))
		accts := testAccounts
		accts.Player = addr(9)
		_, err := p.ResolveBet(context.Background(), h, accts, bothBumps(), sigOf(0x06))
		require.True(t, errors.Is(err, ErrPlayerMismatch))
	})

	t.Run("winning bet without vault bump", func(t *testing.T) {
		h := newFakeHost()
		bet := place(t, p, h)
		signWith(t, h, bet, sigOf(0x06))
		_, err := p.ResolveBet(context.Background(), h, testAccounts, Bumps{Bet: Bump(1)}, sigOf(0x06))
		require.True(t, errors.Is(err, ErrBumpMissing))
	})
}

func TestRefundBet(t *testing.T) {
	p := testProgram(t)
	h := newFakeHost()
	place(t, p, h)

	h.slot = 100 + DefaultRefundTimeout
	_, err := p.RefundBet(context.Background(), h, testAccounts, bothBumps())
	require.True(t, errors.Is(err, ErrTimeoutNotReached))
	require.Contains(t, h.bets, testAccounts.Bet)

	h.slot = 100 + DefaultRefundTimeout + 1
	refunded, err := p.RefundBet(context.Background(), h, testAccounts, bothBumps())
	require.NoError(t, err)
	require.Equal(t, uint64(1_000_000), refunded)
	assert.NotContains(t, h.bets, testAccounts.Bet)
	assert.Equal(t, uint64(5_000_000), h.balances[testAccounts.Player])

	_, err = p.RefundBet(context.Background(), h, testAccounts, bothBumps())
	require.True(t, errors.Is(err, ErrBetNotFound))
}

func TestRefundBetClockBehindCommit(t *testing.T) {
	p := testProgram(t)
	h := newFakeHost()
	place(t, p, h)

	h.slot = 5
	_, err := p.RefundBet(context.Background(), h, testAccounts, bothBumps())
	require.True(t, errors.Is(err, ErrTimeoutNotReached))
}

func TestRefundBetMissingVaultBump(t *testing.T) {
	p := testProgram(t)
	h := newFakeHost()
	place(t, p, h)

	h.slot = 10_000
	_, err := p.RefundBet(context.Background(), h, testAccounts, Bumps{})
	require.True(t, errors.Is(err, ErrBumpMissing))
}

func TestResolveBetLossNeverPaysOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	host := NewMockHost(ctrl)
	p := testProgram(t)

	bet := dicekit.Bet{Slot: 1, Player: testAccounts.Player, Seed: testSeed, Roll: 50, Amount: 1_000_000, Bump: 253}
	sig := sigOf(0x00)
	data, err := ed25519ix.NewInstructionData(testAccounts.House, sig, dicekit.MarshalBet(bet))
	require.NoError(t, err)

	gomock.InOrder(
		host.EXPECT().IsSigner(gomock.Any(), testAccounts.House).Return(true),
		host.EXPECT().LoadBet(gomock.Any(), testAccounts.Bet).Return(bet, nil),
		host.EXPECT().IsDerived(gomock.Any(), testAccounts.Bet, BetSeeds(testAccounts.Vault, bet.Seed, bet.Bump)).Return(true),
		host.EXPECT().LoadInstruction(gomock.Any(), 0).Return(dicekit.Instruction{ProgramID: dicekit.Ed25519ProgramID, Data: data}, nil),
		host.EXPECT().CloseBet(gomock.Any(), testAccounts.Bet, testAccounts.Player).Return(nil),
	)

	out, err := p.ResolveBet(context.Background(), host, testAccounts, bothBumps(), sig)
	require.NoError(t, err)
	require.False(t, out.Win)
}

func TestPlaceBetRejectsSubstitutedAccounts(t *testing.T) {
	p := testProgram(t)

	t.Run("vault", func(t *testing.T) {
		h := newFakeHost()
		h.balances[testAccounts.Player] = 5_000_000
		accts := testAccounts
		accts.Vault = addr(0xDD)
		_, err := p.PlaceBet(context.Background(), h, accts, bothBumps(), testSeed, 50, 1_000_000)
		require.True(t, errors.Is(err, ErrInvalidAccount), "got %v", err)
		assert.Empty(t, h.bets)
		assert.Equal(t, uint64(5_000_000), h.balances[testAccounts.Player])
		assert.Zero(t, h.balances[addr(0xDD)])
	})

	t.Run("bet", func(t *testing.T) {
		h := newFakeHost()
		h.balances[testAccounts.Player] = 5_000_000
		_, err := p.PlaceBet(context.Background(), h, testAccounts, bothBumps(), dicekit.Seed{Lo: 43}, 50, 1_000_000)
		require.True(t, errors.Is(err, ErrInvalidAccount), "got %v", err)
		assert.Empty(t, h.bets)
	})

	t.Run("unsigned player", func(t *testing.T) {
		h := newFakeHost()
		h.balances[testAccounts.Player] = 5_000_000
		delete(h.signers, testAccounts.Player)
		_, err := p.PlaceBet(context.Background(), h, testAccounts, bothBumps(), testSeed, 50, 1_000_000)
		require.True(t, errors.Is(err, ErrSignerMissing), "got %v", err)
		assert.Empty(t, h.bets)
	})
}

func TestSettleChecksBetAddress(t *testing.T) {
	p := testProgram(t)

	t.Run("stored bump differs", func(t *testing.T) {
		h := newFakeHost()
		bet := place(t, p, h)
		bet.Bump = 1
		h.bets[testAccounts.Bet] = bet
		signWith(t, h, bet, sigOf(0x06))

		_, err := p.ResolveBet(context.Background(), h, testAccounts, bothBumps(), sigOf(0x06))
		require.True(t, errors.Is(err, ErrInvalidAccount), "got %v", err)

		h.slot = 10_000
		_, err = p.RefundBet(context.Background(), h, testAccounts, bothBumps())
		require.True(t, errors.Is(err, ErrInvalidAccount), "got %v", err)
		require.Contains(t, h.bets, testAccounts.Bet)
	})

	t.Run("vault substituted on refund", func(t *testing.T) {
		h := newFakeHost()
		place(t, p, h)
		h.slot = 10_000
		accts := testAccounts
		accts.Vault = addr(0xDD)
		_, err := p.RefundBet(context.Background(), h, accts, bothBumps())
		require.True(t, errors.Is(err, ErrInvalidAccount), "got %v", err)
		require.Contains(t, h.bets, testAccounts.Bet)
	})
}

func TestSettleRequiresSigner(t *testing.T) {
	p := testProgram(t)

	t.Run("resolve without house", func(t *testing.T) {
		h := newFakeHost()
		bet := place(t, p, h)
		signWith(t, h, bet, sigOf(0x06))
		delete(h.signers, testAccounts.House)
		_, err := p.ResolveBet(context.Background(), h, testAccounts, bothBumps(), sigOf(0x06))
		require.True(t, errors.Is(err, ErrSignerMissing), "got %v", err)
	})

	t.Run("refund without player", func(t *testing.T) {
		h := newFakeHost()
		place(t, p, h)
		h.slot = 10_000
		delete(h.signers, testAccounts.Player)
		_, err := p.RefundBet(context.Background(), h, testAccounts, bothBumps())
		require.True(t, errors.Is(err, ErrSignerMissing), "got %v", err)
		require.Contains(t, h.bets, testAccounts.Bet)
	})
}
