// Package ledger is a local stand-in for the chain runtime: a SQLite-backed
// account ledger with a slot clock, program-derived vaults and the native
// Ed25519 signature check. Each Execute call is one atomic unit of work.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/LumeraProtocol/fairdice/pkg/dicekit"
	"github.com/LumeraProtocol/fairdice/pkg/errors"
	"github.com/LumeraProtocol/fairdice/pkg/logtrace"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const createAccountsTable = `
CREATE TABLE IF NOT EXISTS accounts (
  address TEXT PRIMARY KEY,
  lamports INTEGER NOT NULL
);`

const createBetsTable = `
CREATE TABLE IF NOT EXISTS bets (
  address TEXT PRIMARY KEY,
  player TEXT NOT NULL,
  slot INTEGER NOT NULL,
  rent INTEGER NOT NULL,
  data BLOB NOT NULL
);`

const createClockTable = `
CREATE TABLE IF NOT EXISTS clock (
  id INTEGER PRIMARY KEY CHECK (id = 0),
  slot INTEGER NOT NULL
);`

// Options configure a Ledger.
type Options struct {
	ProgramID dicekit.Address
	BetRent   uint64
}

type Ledger struct {
	db        *sqlx.DB
	programID dicekit.Address
	betRent   uint64
}

// BetRecord is a stored bet and its address.
type BetRecord struct {
	Address dicekit.Address
	Bet     dicekit.Bet
}

// Open opens (or creates) the ledger database at dbPath.
func Open(dbPath string, opts Options) (*Ledger, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open ledger sqlite database")
	}
	// one writer; transactions serialize on this connection
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		fmt.Sprintf("PRAGMA cache_size=-%d;", DBCacheSizeKiB),
		fmt.Sprintf("PRAGMA busy_timeout=%d;", int64(DBBusyTimeout/time.Millisecond)),
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "cannot set sqlite database parameter")
		}
	}

	for name, stmt := range map[string]string{
		"accounts": createAccountsTable,
		"bets":     createBetsTable,
		"clock":    createClockTable,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "cannot create "+name+" table")
		}
	}
	if _, err := db.Exec(`INSERT OR IGNORE INTO clock (id, slot) VALUES (0, 0)`); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "cannot initialize clock")
	}

	return &Ledger{db: db, programID: opts.ProgramID, betRent: opts.BetRent}, nil
}

func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

func (l *Ledger) ProgramID() dicekit.Address { return l.programID }

// Slot returns the current slot.
func (l *Ledger) Slot(ctx context.Context) (uint64, error) {
	var slot int64
	if err := l.db.GetContext(ctx, &slot, `SELECT slot FROM clock WHERE id = 0`); err != nil {
		return 0, classify(err)
	}
	return uint64(slot), nil
}

// Advance moves the clock forward by n slots and returns the new slot.
func (l *Ledger) Advance(ctx context.Context, n uint64) (uint64, error) {
	delta, err := toDB(n)
	if err != nil {
		return 0, err
	}
	if _, err := l.db.ExecContext(ctx, `UPDATE clock SET slot = slot + ? WHERE id = 0`, delta); err != nil {
		return 0, classify(err)
	}
	return l.Slot(ctx)
}

// Balance returns the lamports held by addr. Unknown accounts hold zero.
func (l *Ledger) Balance(ctx context.Context, addr dicekit.Address) (uint64, error) {
	return balance(ctx, l.db, addr)
}

// Airdrop credits amount to addr.
func (l *Ledger) Airdrop(ctx context.Context, addr dicekit.Address, amount uint64) error {
	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return classify(err)
	}
	if err := credit(ctx, tx, addr, amount); err != nil {
		_ = tx.Rollback()
		return err
	}
	return classify(tx.Commit())
}

// Bet returns the bet stored at addr.
func (l *Ledger) Bet(ctx context.Context, addr dicekit.Address) (dicekit.Bet, error) {
	return loadBet(ctx, l.db, addr)
}

// PendingBets lists every bet that has not been resolved or refunded, oldest first.
func (l *Ledger) PendingBets(ctx context.Context) ([]BetRecord, error) {
	var rows []struct {
		Address string `db:"address"`
		Data    []byte `db:"data"`
	}
	if err := l.db.SelectContext(ctx, &rows, `SELECT address, data FROM bets ORDER BY slot, address`); err != nil {
		return nil, classify(err)
	}

	out := make([]BetRecord, 0, len(rows))
	for _, r := range rows {
		addr, err := dicekit.ParseAddress(r.Address)
		if err != nil {
			return nil, err
		}
		bet, err := dicekit.UnmarshalBet(r.Data)
		if err != nil {
			return nil, errors.Wrap(err, "decode bet "+r.Address)
		}
		out = append(out, BetRecord{Address: addr, Bet: bet})
	}
	return out, nil
}

// Transaction is the input of one unit of work.
type Transaction struct {
	Instructions []dicekit.Instruction
	Signers      []dicekit.Address
}

// Execute runs fn as one atomic unit of work. Ed25519 instructions in tx are
// verified first; any error from them or from fn rolls everything back.
func (l *Ledger) Execute(ctx context.Context, tx Transaction, fn func(ctx context.Context, host *Host) error) error {
	if err := verifyEd25519Instructions(tx.Instructions); err != nil {
		return err
	}

	dbtx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return classify(err)
	}

	host := &Host{tx: dbtx, txn: tx, programID: l.programID, betRent: l.betRent}
	if err := fn(ctx, host); err != nil {
		if rbErr := dbtx.Rollback(); rbErr != nil {
			logtrace.Warn(ctx, "ledger rollback failed", logtrace.Fields{
				logtrace.FieldModule: "ledger",
				logtrace.FieldError:  rbErr.Error(),
			})
		}
		logtrace.Debug(ctx, "unit of work aborted", logtrace.Fields{
			logtrace.FieldModule: "ledger",
			logtrace.FieldError:  err.Error(),
		})
		return classify(err)
	}
	if err := dbtx.Commit(); err != nil {
		return classify(err)
	}
	return nil
}

type querier interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

func balance(ctx context.Context, q querier, addr dicekit.Address) (uint64, error) {
	var lamports int64
	err := q.GetContext(ctx, &lamports, `SELECT lamports FROM accounts WHERE address = ?`, addr.String())
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, classify(err)
	}
	return uint64(lamports), nil
}

func credit(ctx context.Context, tx *sqlx.Tx, addr dicekit.Address, amount uint64) error {
	cur, err := balance(ctx, tx, addr)
	if err != nil {
		return err
	}
	if amount > math.MaxInt64-cur {
		return errors.Errorf("credit %d to %s: %w", amount, addr, ErrAmountOutOfRange)
	}
	return setBalance(ctx, tx, addr, cur+amount)
}

func debit(ctx context.Context, tx *sqlx.Tx, addr dicekit.Address, amount uint64) error {
	cur, err := balance(ctx, tx, addr)
	if err != nil {
		return err
	}
	if cur < amount {
		return errors.Errorf("%s holds %d, needs %d: %w", addr, cur, amount, ErrInsufficientFunds)
	}
	return setBalance(ctx, tx, addr, cur-amount)
}

func setBalance(ctx context.Context, tx *sqlx.Tx, addr dicekit.Address, lamports uint64) error {
	v, err := toDB(lamports)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO accounts (address, lamports) VALUES (?, ?)
		 ON CONFLICT(address) DO UPDATE SET lamports=excluded.lamports`,
		addr.String(), v,
	)
	return classify(err)
}

func loadBet(ctx context.Context, q querier, addr dicekit.Address) (dicekit.Bet, error) {
	var data []byte
	err := q.GetContext(ctx, &data, `SELECT data FROM bets WHERE address = ?`, addr.String())
	if errors.Is(err, sql.ErrNoRows) {
		return dicekit.Bet{}, errNoBet(addr)
	}
	if err != nil {
		return dicekit.Bet{}, classify(err)
	}
	return dicekit.UnmarshalBet(data)
}

func toDB(v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, errors.Errorf("%d: %w", v, ErrAmountOutOfRange)
	}
	return int64(v), nil
}
