package ed25519ix

import (
	"math"

	"github.com/LumeraProtocol/fairdice/pkg/errors"
)

// Entry is one signature triple resolved against the payload. Absent fields
// are nil. Verifiable is true only when all three fields are embedded.
type Entry struct {
	Verifiable bool
	Offsets    OffsetTable
	PublicKey  *[PublicKeySize]byte
	Signature  *[SignatureSize]byte
	Message    []byte
}

// Bundle is the ordered list of entries of one instruction payload.
type Bundle []Entry

// Unpack parses an Ed25519 instruction payload.
func Unpack(data []byte) (Bundle, error) {
	if len(data) < OffsetsStart {
		return nil, errors.Errorf("payload is %d bytes: %w", len(data), ErrInvalidInstructionData)
	}
	count := int(data[0])
	if count == 0 && len(data) > OffsetsStart {
		return nil, errors.Errorf("zero signatures with %d trailing bytes: %w", len(data)-OffsetsStart, ErrInvalidInstructionData)
	}
	expected := saturatingAdd(saturatingMul(count, OffsetsSize), OffsetsStart)
	if len(data) < expected {
		return nil, errors.Errorf("payload is %d bytes, need %d for %d signatures: %w", len(data), expected, count, ErrInvalidInstructionData)
	}

	bundle := make(Bundle, 0, count)
	for i := 0; i < count; i++ {
		start := OffsetsStart + i*OffsetsSize
		offsets, err := UnpackOffsets(data[start : start+OffsetsSize])
		if err != nil {
			return nil, err
		}
		entry, err := resolveEntry(data, offsets)
		if err != nil {
			return nil, errors.Errorf("signature %d: %w", i, err)
		}
		bundle = append(bundle, entry)
	}
	return bundle, nil
}

func resolveEntry(data []byte, offsets OffsetTable) (Entry, error) {
	entry := Entry{Verifiable: true, Offsets: offsets}

	pk, err := slice(data, offsets.PublicKeyRef())
	if err != nil {
		return Entry{}, errors.Errorf("public key: %w", err)
	}
	if pk == nil {
		entry.Verifiable = false
	} else {
		entry.PublicKey = (*[PublicKeySize]byte)(pk)
	}

	sig, err := slice(data, offsets.SignatureRef())
	if err != nil {
		return Entry{}, errors.Errorf("signature: %w", err)
	}
	if sig == nil {
		entry.Verifiable = false
	} else {
		entry.Signature = (*[SignatureSize]byte)(sig)
	}

	msg, err := slice(data, offsets.MessageRef())
	if err != nil {
		return Entry{}, errors.Errorf("message: %w", err)
	}
	if msg == nil {
		entry.Verifiable = false
	} else {
		entry.Message = msg
	}

	return entry, nil
}

// slice returns a copy of the referenced bytes, or nil for an External ref.
func slice(data []byte, ref FieldRef) ([]byte, error) {
	switch r := ref.(type) {
	case Embedded:
		end := r.Offset + r.Size
		if r.Offset < 0 || end > len(data) {
			return nil, errors.Errorf("range [%d:%d] exceeds %d bytes: %w", r.Offset, end, len(data), ErrInvalidInstructionData)
		}
		out := make([]byte, r.Size)
		copy(out, data[r.Offset:end])
		return out, nil
	case External:
		return nil, nil
	default:
		return nil, errors.Errorf("unknown field reference %T: %w", ref, ErrInvalidInstructionData)
	}
}

func saturatingMul(a, b int) int {
	if a != 0 && b > math.MaxInt/a {
		return math.MaxInt
	}
	return a * b
}

func saturatingAdd(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// NewInstructionData builds the canonical single-signature payload:
// [1, 0, offsets, pubkey, signature, message].
func NewInstructionData(pubkey [PublicKeySize]byte, sig [SignatureSize]byte, msg []byte) ([]byte, error) {
	offsets, err := Pack(len(msg))
	if err != nil {
		return nil, err
	}
	data := make([]byte, 0, canonicalMsgOffset+len(msg))
	data = append(data, 1, 0)
	data = append(data, offsets[:]...)
	data = append(data, pubkey[:]...)
	data = append(data, sig[:]...)
	data = append(data, msg...)
	return data, nil
}
