package selaras

import (
	"context"
)

// Driver is the execution transport and history store for one target
// database. It persists which changesets ran and executes rendered SQL; it
// never decides eligibility, that is the filter's job.
type Driver interface {
	// SetChangeLogTableName sets the name of the table that records ran
	// changesets.
	SetChangeLogTableName(name string)

	// EnsureChangeLogTable creates the changelog history table if it does
	// not already exist.
	EnsureChangeLogTable(ctx context.Context) error

	// LoadRanChangeSets returns the full execution history. If reverse is
	// true, the most recently executed entries come first.
	LoadRanChangeSets(ctx context.Context, reverse bool) ([]RanChangeSet, error)

	// UpdateCheckSum overwrites the stored checksum of one history record,
	// identified by the changeset identity triple.
	UpdateCheckSum(ctx context.Context, id, author, filePath, checkSum string) error

	// MarkRan records that a changeset was applied. Re-applying an already
	// recorded changeset refreshes its stored checksum and execution time.
	MarkRan(ctx context.Context, ran RanChangeSet) error

	// RemoveRan deletes the history record for a rolled-back changeset.
	RemoveRan(ctx context.Context, id, author, filePath string) error

	// Execute runs one rendered SQL statement against the target database.
	Execute(ctx context.Context, sql string) error

	// Close releases the underlying database connection.
	Close() error
}
