package dicekit

import (
	"bytes"

	"github.com/LumeraProtocol/fairdice/pkg/ed25519ix"
	"github.com/LumeraProtocol/fairdice/pkg/errors"
)

// VerifyInstruction checks that ix is an Ed25519 verification instruction
// carrying exactly one in-place signature of message by signer, and that the
// signature equals sig. The cryptographic check itself is done by the host.
func VerifyInstruction(ix Instruction, signer Address, sig [ed25519ix.SignatureSize]byte, message []byte) error {
	if !ix.ProgramID.Equal(Ed25519ProgramID) {
		return errors.Errorf("instruction targets %s: %w", ix.ProgramID, ErrEd25519Program)
	}
	if len(ix.Accounts) != 0 {
		return errors.Errorf("instruction carries %d accounts: %w", len(ix.Accounts), ErrEd25519Accounts)
	}

	bundle, err := ed25519ix.Unpack(ix.Data)
	if err != nil {
		return err
	}
	return VerifyBundle(bundle, signer, sig, message)
}

// VerifyBundle applies the signer/signature/message checks to a parsed bundle.
func VerifyBundle(bundle ed25519ix.Bundle, signer Address, sig [ed25519ix.SignatureSize]byte, message []byte) error {
	if len(bundle) != 1 {
		return errors.Errorf("got %d signatures: %w", len(bundle), ErrEd25519DataLength)
	}
	entry := bundle[0]

	if !entry.Verifiable {
		return ErrEd25519Header
	}
	if entry.PublicKey == nil || Address(*entry.PublicKey) != signer {
		return ErrEd25519Pubkey
	}
	if entry.Signature == nil || *entry.Signature != sig {
		return ErrEd25519Signature
	}
	if entry.Message == nil || !bytes.Equal(entry.Message, message) {
		return ErrEd25519Message
	}
	return nil
}
