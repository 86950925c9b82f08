// Package ed25519ix encodes and decodes the payload of a native Ed25519
// signature-verification instruction.
//
// Layout:
//   - byte 0: number of signatures (N)
//   - byte 1: padding
//   - N offset tables of 14 bytes each
//   - the public keys, signatures and messages referenced by those tables
//
// Scope:
//   - Pack/unpack of the 14-byte offset table
//   - Parsing of the count-prefixed bundle into signature entries
//   - Building the canonical single-signature payload
//
// Non-goals:
//   - No cryptographic verification (the host's precompile does that)
//   - No logging; functions are small and deterministic
package ed25519ix
