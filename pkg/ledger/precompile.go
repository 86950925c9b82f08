package ledger

import (
	"crypto/ed25519"

	"github.com/LumeraProtocol/fairdice/pkg/dicekit"
	"github.com/LumeraProtocol/fairdice/pkg/ed25519ix"
	"github.com/LumeraProtocol/fairdice/pkg/errors"
)

// verifyEd25519Instructions runs the native signature check over every
// instruction addressed to the Ed25519 program. Fields stored in another
// instruction are fetched from it.
func verifyEd25519Instructions(ixs []dicekit.Instruction) error {
	for i, ix := range ixs {
		if !ix.ProgramID.Equal(dicekit.Ed25519ProgramID) {
			continue
		}
		bundle, err := ed25519ix.Unpack(ix.Data)
		if err != nil {
			return errors.Errorf("instruction %d: %w", i, err)
		}
		for j, entry := range bundle {
			if err := verifyEntry(ixs, entry); err != nil {
				return errors.Errorf("instruction %d signature %d: %w", i, j, err)
			}
		}
	}
	return nil
}

func verifyEntry(ixs []dicekit.Instruction, e ed25519ix.Entry) error {
	o := e.Offsets
	var (
		pk, sig, msg []byte
		err          error
	)

	if e.PublicKey != nil {
		pk = e.PublicKey[:]
	} else if pk, err = external(ixs, o.PublicKeyInstructionIndex, o.PublicKeyOffset, ed25519ix.PublicKeySize); err != nil {
		return err
	}
	if e.Signature != nil {
		sig = e.Signature[:]
	} else if sig, err = external(ixs, o.SignatureInstructionIndex, o.SignatureOffset, ed25519ix.SignatureSize); err != nil {
		return err
	}
	if e.Message != nil {
		msg = e.Message
	} else if msg, err = external(ixs, o.MessageInstructionIndex, o.MessageDataOffset, int(o.MessageDataSize)); err != nil {
		return err
	}

	if !ed25519.Verify(ed25519.PublicKey(pk), msg, sig) {
		return ErrSignatureInvalid
	}
	return nil
}

// external reads a field the parser left in another instruction.
func external(ixs []dicekit.Instruction, index, offset uint16, size int) ([]byte, error) {
	if int(index) >= len(ixs) {
		return nil, errors.Errorf("index %d of %d: %w", index, len(ixs), ErrInstructionIndex)
	}
	data := ixs[index].Data
	end := int(offset) + size
	if end > len(data) {
		return nil, errors.Errorf("range [%d:%d] of instruction %d: %w", offset, end, index, ed25519ix.ErrInvalidInstructionData)
	}
	return data[offset:end], nil
}
