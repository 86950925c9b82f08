package ed25519ix

import (
	"testing"

	"github.com/LumeraProtocol/fairdice/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestOffsetTableRoundTrip(t *testing.T) {
	tables := []OffsetTable{
		{},
		{SignatureOffset: 48, SignatureInstructionIndex: 0xFFFF, PublicKeyOffset: 16, PublicKeyInstructionIndex: 0xFFFF, MessageDataOffset: 112, MessageDataSize: 66, MessageInstructionIndex: 0xFFFF},
		{SignatureOffset: 1, SignatureInstructionIndex: 2, PublicKeyOffset: 3, PublicKeyInstructionIndex: 4, MessageDataOffset: 5, MessageDataSize: 6, MessageInstructionIndex: 7},
		{SignatureOffset: 0xFFFF, SignatureInstructionIndex: 0, PublicKeyOffset: 0x1234, PublicKeyInstructionIndex: 0xABCD, MessageDataOffset: 0x8000, MessageDataSize: 0xFFFF, MessageInstructionIndex: 1},
	}
	for _, want := range tables {
		b := want.Bytes()
		got, err := UnpackOffsets(b[:])
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestPackCanonicalLayout(t *testing.T) {
	b, err := Pack(66)
	require.NoError(t, err)
	require.Equal(t, [OffsetsSize]byte{
		48, 0, 0xFF, 0xFF,
		16, 0, 0xFF, 0xFF,
		112, 0, 66, 0, 0xFF, 0xFF,
	}, b)

	o, err := UnpackOffsets(b[:])
	require.NoError(t, err)
	require.Equal(t, Embedded{Offset: 16, Size: PublicKeySize}, o.PublicKeyRef())
	require.Equal(t, Embedded{Offset: 48, Size: SignatureSize}, o.SignatureRef())
	require.Equal(t, Embedded{Offset: 112, Size: 66}, o.MessageRef())
}

func TestPackRejectsOversizedMessage(t *testing.T) {
	_, err := Pack(0x10000)
	require.True(t, errors.Is(err, ErrInvalidInstructionData))
}

func TestUnpackOffsetsWrongLength(t *testing.T) {
	for _, n := range []int{0, 1, 13, 15, 28} {
		_, err := UnpackOffsets(make([]byte, n))
		require.Error(t, err, "length %d", n)
		require.True(t, errors.Is(err, ErrInvalidInstructionData))
	}
}

func TestFieldRefExternal(t *testing.T) {
	o := OffsetTable{PublicKeyInstructionIndex: 3, SignatureInstructionIndex: 0, MessageInstructionIndex: 0xFFFE}
	require.Equal(t, External{Index: 3}, o.PublicKeyRef())
	require.Equal(t, External{Index: 0}, o.SignatureRef())
	require.Equal(t, External{Index: 0xFFFE}, o.MessageRef())
}
