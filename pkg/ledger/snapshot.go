package ledger

import (
	"context"
	"io"

	"github.com/LumeraProtocol/fairdice/pkg/dicekit"
	"github.com/LumeraProtocol/fairdice/pkg/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/zstd"
)

const snapshotVersion = 1

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type snapshotAccount struct {
	Address  string `json:"address" db:"address"`
	Lamports int64  `json:"lamports" db:"lamports"`
}

type snapshotBet struct {
	Address string `json:"address" db:"address"`
	Player  string `json:"player" db:"player"`
	Slot    int64  `json:"slot" db:"slot"`
	Rent    int64  `json:"rent" db:"rent"`
	Data    []byte `json:"data" db:"data"`
}

type snapshot struct {
	Version   int               `json:"version"`
	ProgramID string            `json:"program_id"`
	Slot      int64             `json:"slot"`
	Accounts  []snapshotAccount `json:"accounts"`
	Bets      []snapshotBet     `json:"bets"`
}

// Export writes the whole ledger state to w as zstd-compressed JSON.
func (l *Ledger) Export(ctx context.Context, w io.Writer) error {
	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return classify(err)
	}
	defer func() { _ = tx.Rollback() }()

	snap := snapshot{Version: snapshotVersion, ProgramID: l.programID.String()}
	if err := tx.GetContext(ctx, &snap.Slot, `SELECT slot FROM clock WHERE id = 0`); err != nil {
		return classify(err)
	}
	if err := tx.SelectContext(ctx, &snap.Accounts, `SELECT address, lamports FROM accounts ORDER BY address`); err != nil {
		return classify(err)
	}
	if err := tx.SelectContext(ctx, &snap.Bets, `SELECT address, player, slot, rent, data FROM bets ORDER BY slot, address`); err != nil {
		return classify(err)
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return errors.Errorf("create zstd writer: %w", err)
	}
	if err := json.NewEncoder(zw).Encode(&snap); err != nil {
		_ = zw.Close()
		return errors.Errorf("encode snapshot: %w", err)
	}
	return zw.Close()
}

// Import replaces the ledger state with a snapshot written by Export. The
// snapshot must come from the same program id.
func (l *Ledger) Import(ctx context.Context, r io.Reader) error {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return errors.Errorf("create zstd reader: %w", err)
	}
	defer zr.Close()

	var snap snapshot
	if err := json.NewDecoder(zr).Decode(&snap); err != nil {
		return errors.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return errors.Errorf("unsupported snapshot version %d", snap.Version)
	}
	if snap.ProgramID != l.programID.String() {
		return errors.Errorf("snapshot belongs to program %s, ledger runs %s", snap.ProgramID, l.programID)
	}
	for _, b := range snap.Bets {
		if _, err := dicekit.UnmarshalBet(b.Data); err != nil {
			return errors.Errorf("snapshot bet %s: %w", b.Address, err)
		}
	}

	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return classify(err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{`DELETE FROM accounts`, `DELETE FROM bets`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return classify(err)
		}
	}
	if _, err := tx.ExecContext(ctx, `UPDATE clock SET slot = ? WHERE id = 0`, snap.Slot); err != nil {
		return classify(err)
	}
	for _, a := range snap.Accounts {
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO accounts (address, lamports) VALUES (:address, :lamports)`, a); err != nil {
			return classify(err)
		}
	}
	for _, b := range snap.Bets {
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO bets (address, player, slot, rent, data) VALUES (:address, :player, :slot, :rent, :data)`, b); err != nil {
			return classify(err)
		}
	}
	return classify(tx.Commit())
}
