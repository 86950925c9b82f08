package cmd

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"cosmossdk.io/math"
	"github.com/LumeraProtocol/fairdice/house/resolver"
	"github.com/LumeraProtocol/fairdice/pkg/dice"
	"github.com/LumeraProtocol/fairdice/pkg/dicekit"
	"github.com/LumeraProtocol/fairdice/pkg/keyring"
	"github.com/LumeraProtocol/fairdice/pkg/ledger"
)

// openChain opens the configured ledger and wraps it with the dice program.
func openChain() (*resolver.LocalChain, func(), error) {
	if err := appConfig.EnsureDirs(); err != nil {
		return nil, nil, err
	}
	program, err := dice.NewProgram(appConfig.Dice())
	if err != nil {
		return nil, nil, fmt.Errorf("invalid program config: %w", err)
	}
	l, err := ledger.Open(appConfig.GetLedgerPath(), appConfig.LedgerOptions())
	if err != nil {
		return nil, nil, err
	}
	return resolver.NewLocalChain(l, program), func() { _ = l.Close() }, nil
}

func resolverConfig() resolver.Config {
	return resolver.Config{
		PollInterval:    appConfig.Resolver.PollInterval,
		MaxPerSecond:    appConfig.Resolver.MaxPerSecond,
		RetryMaxElapsed: appConfig.Resolver.RetryMaxElapsed,
	}
}

func openKeyring() (*keyring.Keyring, error) {
	return keyring.New(appConfig.GetKeyringDir())
}

// houseAddress returns the configured house address without decrypting the key.
func houseAddress() (dicekit.Address, error) {
	kr, err := openKeyring()
	if err != nil {
		return dicekit.Address{}, err
	}
	return kr.Address(appConfig.House.KeyName)
}

func loadHouseKey() (*keyring.Key, error) {
	kr, err := openKeyring()
	if err != nil {
		return nil, err
	}
	key, err := kr.Load(appConfig.House.KeyName, appConfig.Passphrase())
	if err != nil {
		return nil, fmt.Errorf("load house key %q (passphrase from $%s): %w", appConfig.House.KeyName, appConfig.House.PassphraseEnv, err)
	}
	return key, nil
}

func vaultOf(house dicekit.Address) (dicekit.Address, uint8) {
	return ledger.VaultAddress(appConfig.ProgramID(), house)
}

// resolveAddress accepts a base58 address or one of the aliases "house" and "vault".
func resolveAddress(s string) (dicekit.Address, error) {
	switch s {
	case "house":
		return houseAddress()
	case "vault":
		house, err := houseAddress()
		if err != nil {
			return dicekit.Address{}, err
		}
		vault, _ := vaultOf(house)
		return vault, nil
	}
	return dicekit.ParseAddress(s)
}

var (
	two64   = new(big.Int).Lsh(big.NewInt(1), 64)
	maxSeed = math.NewUintFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)))
)

// parseSeed reads a decimal 128-bit seed. An empty string picks a random one.
func parseSeed(s string) (dicekit.Seed, error) {
	if s == "" {
		var b [16]byte
		if _, err := rand.Read(b[:]); err != nil {
			return dicekit.Seed{}, err
		}
		return dicekit.SeedFromBytes(b), nil
	}

	v, err := math.ParseUint(s)
	if err != nil {
		return dicekit.Seed{}, fmt.Errorf("invalid seed %q: %w", s, err)
	}
	if v.GT(maxSeed) {
		return dicekit.Seed{}, fmt.Errorf("seed %s does not fit in 128 bits", s)
	}

	hi, lo := new(big.Int).QuoRem(v.BigInt(), two64, new(big.Int))
	return dicekit.Seed{Lo: lo.Uint64(), Hi: hi.Uint64()}, nil
}

// formatSeed renders a seed in the decimal form parseSeed accepts.
func formatSeed(seed dicekit.Seed) string {
	v := new(big.Int).Mul(new(big.Int).SetUint64(seed.Hi), two64)
	return math.NewUintFromBigInt(v).AddUint64(seed.Lo).String()
}
