// Package dicekit provides small, pure building blocks of the fairdice
// protocol: the bet record and its canonical bytes, verification of the
// house's Ed25519 instruction, roll derivation and payout arithmetic.
//
// Scope:
//   - Canonical bet serialization shared by the house signer and the verifier
//   - Cross-checking a parsed Ed25519 instruction against signer, signature and message
//   - Deterministic roll derivation from the revealed signature
//   - Overflow-checked 128-bit payout computation
//
// Non-goals:
//   - No ledger, clock or transfer access (see package dice)
//   - No logging; keep functions small and deterministic
package dicekit
