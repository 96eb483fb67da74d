package selaras

import (
	"errors"
	"fmt"
)

var (
	ErrConfigNotProvided        = errors.New("config not provided")
	ErrDriverNotProvided        = errors.New("driver not provided")
	ErrDatabaseNotProvided      = errors.New("database not provided")
	ErrSelarasNotProvided       = errors.New("selaras instance not provided")
	ErrChangeSetIDNotProvided   = errors.New("changeset id not provided")
	ErrChangeSetFileExists      = errors.New("changeset file already exists")
	ErrInvalidRollbackStep      = errors.New("invalid rollback step")
	ErrRollbackNotSupported     = errors.New("rollback is not supported for this change")
	ErrChangeSetDirNotProvided  = errors.New("changeset directory not provided")
	ErrChangeSetFileNameInvalid = errors.New("invalid changeset file name")
)

// DefinitionError reports a structurally incomplete change definition. It is
// raised by Change.Validate before any statement is compiled.
type DefinitionError struct {
	Change  Change
	Message string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("invalid %s definition: %s", e.Change.Name(), e.Message)
}

// UnsupportedChangeError reports a change that cannot be compiled because it
// requires information the compiler does not have.
type UnsupportedChangeError struct {
	Change  Change
	Message string
}

func (e *UnsupportedChangeError) Error() string {
	return fmt.Sprintf("unsupported %s change: %s", e.Change.Name(), e.Message)
}

// UnsupportedStatementError reports that no generator can render a statement
// kind against a given dialect.
type UnsupportedStatementError struct {
	StatementKind string
	Dialect       string
}

func (e *UnsupportedStatementError) Error() string {
	return fmt.Sprintf("statement %q is not supported on dialect %q", e.StatementKind, e.Dialect)
}
