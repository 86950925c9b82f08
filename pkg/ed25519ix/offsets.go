package ed25519ix

import (
	"encoding/binary"

	"github.com/LumeraProtocol/fairdice/pkg/errors"
)

const (
	PublicKeySize         = 32
	SignatureSize         = 64
	OffsetsSize           = 14
	OffsetsStart          = 2
	DataStart             = OffsetsStart + OffsetsSize
	CurrentInstruction    = 0xFFFF
	canonicalPubkeyOffset = DataStart
	canonicalSigOffset    = canonicalPubkeyOffset + PublicKeySize
	canonicalMsgOffset    = canonicalSigOffset + SignatureSize
)

// ErrInvalidInstructionData is returned for any malformed payload.
var ErrInvalidInstructionData = errors.New("invalid instruction data")

// OffsetTable locates one signature/public-key/message triple.
type OffsetTable struct {
	SignatureOffset           uint16
	SignatureInstructionIndex uint16
	PublicKeyOffset           uint16
	PublicKeyInstructionIndex uint16
	MessageDataOffset         uint16
	MessageDataSize           uint16
	MessageInstructionIndex   uint16
}

// FieldRef says where a field's bytes live. It is either Embedded (in the
// buffer being parsed) or External (in another instruction).
type FieldRef interface {
	isFieldRef()
}

// Embedded refers to Size bytes at Offset of the current buffer.
type Embedded struct {
	Offset int
	Size   int
}

// External refers to data in instruction Index, which this package does not resolve.
type External struct {
	Index uint16
}

func (Embedded) isFieldRef() {}
func (External) isFieldRef() {}

func fieldRef(index, offset uint16, size int) FieldRef {
	if index == CurrentInstruction {
		return Embedded{Offset: int(offset), Size: size}
	}
	return External{Index: index}
}

// PublicKeyRef returns the location of the public key.
func (o OffsetTable) PublicKeyRef() FieldRef {
	return fieldRef(o.PublicKeyInstructionIndex, o.PublicKeyOffset, PublicKeySize)
}

// SignatureRef returns the location of the signature.
func (o OffsetTable) SignatureRef() FieldRef {
	return fieldRef(o.SignatureInstructionIndex, o.SignatureOffset, SignatureSize)
}

// MessageRef returns the location of the message.
func (o OffsetTable) MessageRef() FieldRef {
	return fieldRef(o.MessageInstructionIndex, o.MessageDataOffset, int(o.MessageDataSize))
}

// NewOffsetTable returns the canonical in-place layout for a message of the
// given length: public key at 16, signature at 48, message at 112.
func NewOffsetTable(messageLen int) (OffsetTable, error) {
	if messageLen < 0 || messageLen > 0xFFFF {
		return OffsetTable{}, errors.Errorf("message length %d out of range: %w", messageLen, ErrInvalidInstructionData)
	}
	return OffsetTable{
		SignatureOffset:           canonicalSigOffset,
		SignatureInstructionIndex: CurrentInstruction,
		PublicKeyOffset:           canonicalPubkeyOffset,
		PublicKeyInstructionIndex: CurrentInstruction,
		MessageDataOffset:         canonicalMsgOffset,
		MessageDataSize:           uint16(messageLen),
		MessageInstructionIndex:   CurrentInstruction,
	}, nil
}

// Pack returns the 14-byte canonical offset table for a message of messageLen bytes.
func Pack(messageLen int) ([OffsetsSize]byte, error) {
	o, err := NewOffsetTable(messageLen)
	if err != nil {
		return [OffsetsSize]byte{}, err
	}
	return o.Bytes(), nil
}

// Bytes encodes the table as seven little-endian u16 values.
func (o OffsetTable) Bytes() [OffsetsSize]byte {
	var b [OffsetsSize]byte
	binary.LittleEndian.PutUint16(b[0:2], o.SignatureOffset)
	binary.LittleEndian.PutUint16(b[2:4], o.SignatureInstructionIndex)
	binary.LittleEndian.PutUint16(b[4:6], o.PublicKeyOffset)
	binary.LittleEndian.PutUint16(b[6:8], o.PublicKeyInstructionIndex)
	binary.LittleEndian.PutUint16(b[8:10], o.MessageDataOffset)
	binary.LittleEndian.PutUint16(b[10:12], o.MessageDataSize)
	binary.LittleEndian.PutUint16(b[12:14], o.MessageInstructionIndex)
	return b
}

// UnpackOffsets decodes a 14-byte offset table.
func UnpackOffsets(b []byte) (OffsetTable, error) {
	if len(b) != OffsetsSize {
		return OffsetTable{}, errors.Errorf("offset table is %d bytes, want %d: %w", len(b), OffsetsSize, ErrInvalidInstructionData)
	}
	return OffsetTable{
		SignatureOffset:           binary.LittleEndian.Uint16(b[0:2]),
		SignatureInstructionIndex: binary.LittleEndian.Uint16(b[2:4]),
		PublicKeyOffset:           binary.LittleEndian.Uint16(b[4:6]),
		PublicKeyInstructionIndex: binary.LittleEndian.Uint16(b[6:8]),
		MessageDataOffset:         binary.LittleEndian.Uint16(b[8:10]),
		MessageDataSize:           binary.LittleEndian.Uint16(b[10:12]),
		MessageInstructionIndex:   binary.LittleEndian.Uint16(b[12:14]),
	}, nil
}
