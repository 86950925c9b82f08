package ledger

import (
	"github.com/LumeraProtocol/fairdice/pkg/dice"
	"github.com/LumeraProtocol/fairdice/pkg/dicekit"
	"lukechampine.com/blake3"
)

// DeriveAddress computes a program-derived address:
// blake3(seeds... | bump | programID | "ProgramDerivedAddress").
func DeriveAddress(programID dicekit.Address, seeds [][]byte, bump uint8) dicekit.Address {
	h := blake3.New(dicekit.AddressSize, nil)
	for _, s := range seeds {
		_, _ = h.Write(s)
	}
	_, _ = h.Write([]byte{bump})
	_, _ = h.Write(programID[:])
	_, _ = h.Write([]byte(pdaMarker))

	var out dicekit.Address
	copy(out[:], h.Sum(nil))
	return out
}

// FindAddress returns the canonical address and bump for seeds. The simulator
// accepts every bump, so the canonical bump is always 255.
func FindAddress(programID dicekit.Address, seeds [][]byte) (dicekit.Address, uint8) {
	const bump = 255
	return DeriveAddress(programID, seeds, bump), bump
}

// VaultAddress returns the house vault and its bump.
func VaultAddress(programID, house dicekit.Address) (dicekit.Address, uint8) {
	return FindAddress(programID, [][]byte{[]byte(dice.VaultLabel), house[:]})
}

// BetAddress returns the address of the bet with seed in vault, and its bump.
func BetAddress(programID, vault dicekit.Address, seed dicekit.Seed) (dicekit.Address, uint8) {
	s := seed.Bytes()
	return FindAddress(programID, [][]byte{[]byte(dice.BetLabel), vault[:], s[:]})
}

// Accounts resolves every account and bump of a bet placed by player against house.
func Accounts(programID, house, player dicekit.Address, seed dicekit.Seed) (dice.Accounts, dice.Bumps) {
	vault, vaultBump := VaultAddress(programID, house)
	bet, betBump := BetAddress(programID, vault, seed)
	return dice.Accounts{Player: player, House: house, Vault: vault, Bet: bet},
		dice.Bumps{Vault: dice.Bump(vaultBump), Bet: dice.Bump(betBump)}
}

func seedsAddress(programID dicekit.Address, seeds dice.Seeds) dicekit.Address {
	return DeriveAddress(programID, [][]byte{seeds.Label, seeds.Identity[:], seeds.Extra}, seeds.Bump)
}
