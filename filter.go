package selaras

import (
	"context"
	"fmt"
)

// CheckSumUpdater persists a reconciled checksum for a previously ran
// changeset. It is the only write the filter ever performs.
type CheckSumUpdater interface {
	UpdateCheckSum(ctx context.Context, id, author, filePath, checkSum string) error
}

// ShouldRunFilter decides, against a history snapshot taken at construction,
// whether a changeset still needs to run. It never executes a change.
//
// Path comparison case sensitivity is injected explicitly instead of being
// inferred from the host, so decisions are deterministic across
// environments. The filter assumes changeset identities are unique; when the
// history holds duplicate identities the first record encountered governs.
type ShouldRunFilter struct {
	ran                  []RanChangeSet
	updater              CheckSumUpdater
	caseInsensitivePaths bool
}

// NewShouldRunFilter builds a filter over an eagerly loaded history
// snapshot. The snapshot is held for the filter's lifetime; concurrent writes
// to the store by other actors are not observed.
func NewShouldRunFilter(ran []RanChangeSet, updater CheckSumUpdater, caseInsensitivePaths bool) *ShouldRunFilter {
	return &ShouldRunFilter{
		ran:                  ran,
		updater:              updater,
		caseInsensitivePaths: caseInsensitivePaths,
	}
}

// findRan returns the first history record matching the changeset's
// identity, or nil. At most one record is ever consulted per changeset.
func (f *ShouldRunFilter) findRan(changeSet *ChangeSet) *RanChangeSet {
	for i := range f.ran {
		ran := &f.ran[i]
		if ran.ID == changeSet.ID &&
			ran.Author == changeSet.Author &&
			pathEquals(ran.FilePath, changeSet.FilePath, f.caseInsensitivePaths) {
			return ran
		}
	}
	return nil
}

// ReconcileCheckSum updates the stored checksum of the matching history
// record when the changeset's current checksum has drifted from it. The
// write happens regardless of whether the changeset will re-execute, so
// later runs compare against the newest content. A failed write is fatal:
// continuing would base decisions on a state the store does not hold.
func (f *ShouldRunFilter) ReconcileCheckSum(ctx context.Context, changeSet *ChangeSet) error {
	ran := f.findRan(changeSet)
	if ran == nil {
		return nil
	}

	checkSum := changeSet.CheckSum()
	if checkSum == ran.CheckSum {
		return nil
	}

	if err := f.updater.UpdateCheckSum(ctx, changeSet.ID, changeSet.Author, changeSet.FilePath, checkSum); err != nil {
		return fmt.Errorf("failed to reconcile checksum for %s: %w", changeSet, err)
	}
	return nil
}

// Decide reports whether the changeset must run. Unseen changesets always
// run; seen ones run again only when marked runAlways, or marked runOnChange
// with a checksum drifted from the one recorded at last execution. The held
// snapshot keeps the originally recorded checksums, so the decision is the
// same whether ReconcileCheckSum ran first or not.
func (f *ShouldRunFilter) Decide(changeSet *ChangeSet) bool {
	ran := f.findRan(changeSet)
	if ran == nil {
		return true
	}
	if changeSet.RunAlways {
		return true
	}
	if changeSet.RunOnChange && changeSet.CheckSum() != ran.CheckSum {
		return true
	}
	return false
}

// ShouldRun reconciles the recorded checksum and then decides eligibility.
// Callers wanting dry-run semantics call Decide alone.
func (f *ShouldRunFilter) ShouldRun(ctx context.Context, changeSet *ChangeSet) (bool, error) {
	if err := f.ReconcileCheckSum(ctx, changeSet); err != nil {
		return false, err
	}
	return f.Decide(changeSet), nil
}
