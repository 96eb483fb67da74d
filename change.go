package selaras

// Change is a single declarative schema operation within a changeset. Every
// variant follows the same three-phase contract: Validate rejects structurally
// incomplete definitions, GenerateStatements compiles the change into an
// ordered sequence of dialect-neutral statements, and Inverses produces the
// rollback counterpart. A variant with no meaningful inverse returns
// ErrRollbackNotSupported instead of fabricating statements.
type Change interface {
	// Name returns the change's type tag, e.g. "createTable".
	Name() string

	// Validate checks structural completeness against the target database.
	// It runs strictly before compilation and returns a *DefinitionError on
	// failure.
	Validate(db Database) error

	// GenerateStatements compiles the change. Statement order within the
	// returned slice is a contract: later statements may assume the effects
	// of earlier ones.
	GenerateStatements(db Database) ([]SqlStatement, error)

	// Inverses returns the changes that undo this one, or
	// ErrRollbackNotSupported. Inverses are lossy: rolling back a creation
	// is destruction, not restoration.
	Inverses() ([]Change, error)

	// ConfirmationMessage returns the human-readable line logged after the
	// change is applied.
	ConfirmationMessage() string

	// Fingerprint returns a deterministic serialization of the declared
	// content, used as the change's contribution to the changeset checksum.
	Fingerprint() string
}
