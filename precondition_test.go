package selaras

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPrecondition struct {
	name string
	err  error
}

func (p *stubPrecondition) Name() string { return p.name }

func (p *stubPrecondition) Check(ctx context.Context, db Database) error { return p.err }

func TestEvaluatePreconditions_AllPass(t *testing.T) {
	changeLog := &ChangeLog{LogicalFilePath: "db/changelog.go"}

	err := EvaluatePreconditions(context.TODO(), &PostgresDatabase{}, changeLog, []Precondition{
		&stubPrecondition{name: "first"},
		&stubPrecondition{name: "second"},
	})

	assert.NoError(t, err)
}

func TestEvaluatePreconditions_SiblingsAreNotShortCircuited(t *testing.T) {
	changeLog := &ChangeLog{LogicalFilePath: "db/changelog.go"}
	first := &stubPrecondition{name: "first", err: errors.New("table missing")}
	second := &stubPrecondition{name: "second"}
	third := &stubPrecondition{name: "third", err: errors.New("wrong version")}

	err := EvaluatePreconditions(context.TODO(), &PostgresDatabase{}, changeLog, []Precondition{first, second, third})

	var preconditionErr *PreconditionError
	require.ErrorAs(t, err, &preconditionErr)

	errored := preconditionErr.ErrorPreconditions()
	require.Len(t, errored, 2)

	// Failures are kept in evaluation order, each referencing its own
	// originating precondition and changelog.
	assert.Same(t, first, errored[0].Precondition)
	assert.Equal(t, "table missing", errored[0].Cause.Error())
	assert.Same(t, changeLog, errored[0].ChangeLog)

	assert.Same(t, third, errored[1].Precondition)
	assert.Equal(t, "wrong version", errored[1].Cause.Error())
	assert.Same(t, changeLog, errored[1].ChangeLog)
}

func TestNewPreconditionError_FromTriple(t *testing.T) {
	changeLog := &ChangeLog{LogicalFilePath: "db/changelog.go"}
	precondition := &stubPrecondition{name: "dbms"}
	cause := errors.New("expected postgres")

	err := NewPreconditionError(cause, changeLog, precondition)

	require.Len(t, err.ErrorPreconditions(), 1)
	assert.Equal(t, cause, err.ErrorPreconditions()[0].Cause)
	assert.Contains(t, err.Error(), "1 precondition(s) failed")
	assert.Contains(t, err.Error(), "db/changelog.go")
}

func TestNewPreconditionErrorFrom_PreBuiltSequence(t *testing.T) {
	changeLog := &ChangeLog{LogicalFilePath: "db/changelog.go"}
	errored := []ErrorPrecondition{
		{Cause: errors.New("a"), ChangeLog: changeLog, Precondition: &stubPrecondition{name: "one"}},
		{Cause: errors.New("b"), ChangeLog: changeLog, Precondition: &stubPrecondition{name: "two"}},
	}

	err := NewPreconditionErrorFrom(errored...)

	assert.Equal(t, errored, err.ErrorPreconditions())
	assert.Contains(t, err.Error(), "2 precondition(s) failed")
}

func TestDbmsPrecondition(t *testing.T) {
	precondition := &DbmsPrecondition{Type: "postgres"}

	assert.NoError(t, precondition.Check(context.TODO(), &PostgresDatabase{}))
	assert.Error(t, precondition.Check(context.TODO(), &MySqlDatabase{}))
}

func TestFuncPrecondition(t *testing.T) {
	called := false
	precondition := &FuncPrecondition{
		PreconditionName: "custom",
		CheckFunc: func(ctx context.Context, db Database) error {
			called = true
			return nil
		},
	}

	assert.Equal(t, "custom", precondition.Name())
	assert.NoError(t, precondition.Check(context.TODO(), &SqliteDatabase{}))
	assert.True(t, called)
}
