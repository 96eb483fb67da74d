package selaras

import (
	"context"
	"fmt"
	"strings"
)

// Precondition is a guard evaluated before a changelog executes. Check
// returns nil when the guard holds.
type Precondition interface {
	Name() string
	Check(ctx context.Context, db Database) error
}

// ErrorPrecondition records one precondition evaluation failure together
// with the changelog and precondition it originated from.
type ErrorPrecondition struct {
	Cause        error
	ChangeLog    *ChangeLog
	Precondition Precondition
}

func (e ErrorPrecondition) String() string {
	changeLog := "<unknown changelog>"
	if e.ChangeLog != nil {
		changeLog = e.ChangeLog.LogicalFilePath
	}
	return fmt.Sprintf("%s (%s): %v", e.Precondition.Name(), changeLog, e.Cause)
}

// PreconditionError is the batched failure raised after one changelog's
// precondition pass. It always carries at least one ErrorPrecondition, in
// evaluation order, so the caller can report every broken precondition in a
// single run.
type PreconditionError struct {
	errored []ErrorPrecondition
}

// NewPreconditionError wraps a single evaluation failure.
func NewPreconditionError(cause error, changeLog *ChangeLog, precondition Precondition) *PreconditionError {
	return NewPreconditionErrorFrom(ErrorPrecondition{
		Cause:        cause,
		ChangeLog:    changeLog,
		Precondition: precondition,
	})
}

// NewPreconditionErrorFrom wraps one or more pre-built failures.
func NewPreconditionErrorFrom(errored ...ErrorPrecondition) *PreconditionError {
	return &PreconditionError{errored: errored}
}

func (e *PreconditionError) Error() string {
	lines := make([]string, 0, len(e.errored))
	for _, errored := range e.errored {
		lines = append(lines, errored.String())
	}
	return fmt.Sprintf("%d precondition(s) failed: %s", len(e.errored), strings.Join(lines, "; "))
}

// ErrorPreconditions returns the collected failures in evaluation order.
func (e *PreconditionError) ErrorPreconditions() []ErrorPrecondition {
	return e.errored
}

// EvaluatePreconditions checks every sibling precondition of a changelog
// scope. A failure never short-circuits its siblings: all failures are
// collected and raised once, as a single *PreconditionError, after the whole
// scope has been evaluated.
func EvaluatePreconditions(ctx context.Context, db Database, changeLog *ChangeLog, preconditions []Precondition) error {
	var errored []ErrorPrecondition
	for _, precondition := range preconditions {
		if err := precondition.Check(ctx, db); err != nil {
			errored = append(errored, ErrorPrecondition{
				Cause:        err,
				ChangeLog:    changeLog,
				Precondition: precondition,
			})
		}
	}
	if len(errored) > 0 {
		return NewPreconditionErrorFrom(errored...)
	}
	return nil
}

// DbmsPrecondition guards a changelog to one database dialect.
type DbmsPrecondition struct {
	Type string
}

func (p *DbmsPrecondition) Name() string { return "dbms" }

func (p *DbmsPrecondition) Check(ctx context.Context, db Database) error {
	if !strings.EqualFold(p.Type, db.DialectName()) {
		return fmt.Errorf("expected dialect %q, running against %q", p.Type, db.DialectName())
	}
	return nil
}

// FuncPrecondition adapts an arbitrary check function, mostly useful for
// project-specific guards.
type FuncPrecondition struct {
	PreconditionName string
	CheckFunc        func(ctx context.Context, db Database) error
}

func (p *FuncPrecondition) Name() string {
	if p.PreconditionName == "" {
		return "func"
	}
	return p.PreconditionName
}

func (p *FuncPrecondition) Check(ctx context.Context, db Database) error {
	return p.CheckFunc(ctx, db)
}
