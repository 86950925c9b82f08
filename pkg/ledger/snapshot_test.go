package ledger

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/LumeraProtocol/fairdice/pkg/dicekit"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.place(t, dicekit.Seed{Lo: 11}, 40)
	_, err := e.ledger.Advance(ctx, 12)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, e.ledger.Export(ctx, &buf))

	restored, err := Open(filepath.Join(t.TempDir(), SQLiteFilename), Options{ProgramID: e.ledger.ProgramID(), BetRent: DefaultBetRent})
	require.NoError(t, err)
	defer restored.Close()
	require.NoError(t, restored.Import(ctx, bytes.NewReader(buf.Bytes())))

	slot, err := restored.Slot(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(12), slot)

	for _, addr := range []dicekit.Address{e.player, e.house} {
		want := e.balance(t, addr)
		got, err := restored.Balance(ctx, addr)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	want, err := e.ledger.PendingBets(ctx)
	require.NoError(t, err)
	got, err := restored.PendingBets(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestImportRejectsForeignProgram(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	var buf bytes.Buffer
	require.NoError(t, e.ledger.Export(ctx, &buf))

	other, err := Open(filepath.Join(t.TempDir(), SQLiteFilename), Options{BetRent: DefaultBetRent})
	require.NoError(t, err)
	defer other.Close()
	require.Error(t, other.Import(ctx, &buf))

	require.Error(t, e.ledger.Import(ctx, bytes.NewReader([]byte("not zstd"))))
}
