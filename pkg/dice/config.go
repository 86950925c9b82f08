package dice

import (
	"github.com/LumeraProtocol/fairdice/pkg/dicekit"
	"github.com/LumeraProtocol/fairdice/pkg/errors"
)

const (
	VaultLabel = "vault"
	BetLabel   = "bet"

	// LamportsPerSol is the base-unit scale of wagers.
	LamportsPerSol uint64 = 1_000_000_000

	DefaultMinBet        = LamportsPerSol / 100
	DefaultMaxBet        = 100 * LamportsPerSol
	DefaultRefundTimeout = 1000
)

// Config holds the protocol parameters fixed at deployment.
type Config struct {
	HouseEdgeBps  uint16
	MinBet        uint64
	MaxBet        uint64
	RefundTimeout uint64
}

// DefaultConfig returns the protocol defaults: 1.5% edge, 0.01–100 SOL wagers
// and a 1000-slot refund timeout.
func DefaultConfig() Config {
	return Config{
		HouseEdgeBps:  dicekit.DefaultHouseEdgeBps,
		MinBet:        DefaultMinBet,
		MaxBet:        DefaultMaxBet,
		RefundTimeout: DefaultRefundTimeout,
	}
}

func (c Config) Validate() error {
	if c.HouseEdgeBps > dicekit.BpsDenominator {
		return errors.Errorf("house edge %d bps exceeds %d", c.HouseEdgeBps, dicekit.BpsDenominator)
	}
	if c.MinBet == 0 {
		return errors.New("minimum bet must be positive")
	}
	if c.MinBet > c.MaxBet {
		return errors.Errorf("minimum bet %d exceeds maximum %d", c.MinBet, c.MaxBet)
	}
	return nil
}

// Bumps carries the derivation bumps of the accounts an operation touches.
// A nil field means the caller did not supply that bump.
type Bumps struct {
	Vault *uint8
	Bet   *uint8
}

// Bump returns a pointer to b, for building Bumps literals.
func Bump(b uint8) *uint8 { return &b }

func (b Bumps) vault() (uint8, error) {
	if b.Vault == nil {
		return 0, errors.Errorf("vault bump: %w", ErrBumpMissing)
	}
	return *b.Vault, nil
}

func (b Bumps) bet() (uint8, error) {
	if b.Bet == nil {
		return 0, errors.Errorf("bet bump: %w", ErrBumpMissing)
	}
	return *b.Bet, nil
}
