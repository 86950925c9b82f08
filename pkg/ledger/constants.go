package ledger

import "time"

const (
	SQLiteFilename = "ledger.db"

	DBBusyTimeout  = 5 * time.Second
	DBCacheSizeKiB = 16 * 1024

	// DefaultBetRent is the balance locked in a bet record while it exists.
	DefaultBetRent uint64 = 1_405_920

	pdaMarker = "ProgramDerivedAddress"
)
