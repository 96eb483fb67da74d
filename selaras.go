// Package selaras manages declarative database schema changesets in Go
// projects. It decides which changesets still need to run against a target
// database, compiles each pending change into dialect-neutral statements,
// renders them for the target dialect, and supports rollback through inverse
// changes.
package selaras

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"
)

// Selaras is the main struct for managing and executing schema changesets.
type Selaras struct {
	driver               Driver
	database             Database
	changeLog            *ChangeLog
	changeSetFilesDir    string
	caseInsensitivePaths bool
	debugSql             bool
	identities           map[string]struct{}
	mu                   sync.Mutex
}

// New creates a new Selaras instance using the provided configuration.
// It validates and sets defaults for missing fields and applies the
// changelog table name to the driver.
func New(config *Config) (*Selaras, error) {
	if config == nil {
		return nil, ErrConfigNotProvided
	}
	if config.Driver == nil {
		return nil, ErrDriverNotProvided
	}
	if config.Database == nil {
		return nil, ErrDatabaseNotProvided
	}

	if config.ChangeSetFilesDir == "" {
		config.ChangeSetFilesDir = "changesets"
	}
	if config.ChangeLogTableName == "" {
		config.ChangeLogTableName = defaultChangeLogTableName
	}

	if _, err := sanitizeTableName(config.ChangeLogTableName); err != nil {
		return nil, fmt.Errorf("invalid changelog table name: %w", err)
	}

	config.Driver.SetChangeLogTableName(config.ChangeLogTableName)

	return &Selaras{
		driver:               config.Driver,
		database:             config.Database,
		changeLog:            &ChangeLog{LogicalFilePath: "changelog"},
		changeSetFilesDir:    config.ChangeSetFilesDir,
		caseInsensitivePaths: config.CaseInsensitivePaths,
		debugSql:             config.DebugSql,
		identities:           make(map[string]struct{}),
	}, nil
}

// Register appends one or more changesets to the changelog in the given
// order. Identity (id, author, normalized path) must be unique across the
// changelog.
func (s *Selaras) Register(changeSets ...*ChangeSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, changeSet := range changeSets {
		if changeSet.ID == "" {
			return ErrChangeSetIDNotProvided
		}
		changeSet.FilePath = normalizePath(changeSet.FilePath)

		identity := changeSet.String()
		if s.caseInsensitivePaths {
			identity = fmt.Sprintf("%s::%s::%s", foldPath(changeSet.FilePath), changeSet.ID, changeSet.Author)
		}
		if _, exists := s.identities[identity]; exists {
			return fmt.Errorf("changeset %s registered more than once", changeSet)
		}
		s.identities[identity] = struct{}{}
		s.changeLog.ChangeSets = append(s.changeLog.ChangeSets, changeSet)
	}

	return nil
}

// Require adds preconditions guarding the whole changelog. They are
// evaluated once per Update, before any changeset is considered.
func (s *Selaras) Require(preconditions ...Precondition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changeLog.Preconditions = append(s.changeLog.Preconditions, preconditions...)
}

// Create generates a new changeset file scaffold using the given name and
// author. The generated file includes a timestamp prefix and a constructor
// returning an empty changeset.
func (s *Selaras) Create(name string, author string) error {
	if name == "" {
		return ErrChangeSetIDNotProvided
	}
	if !changeSetDirExists(s.changeSetFilesDir) {
		return fmt.Errorf("changeset directory %q does not exist", s.changeSetFilesDir)
	}

	changeSetID, err := sanitizeChangeSetID(name)
	if err != nil {
		return err
	}

	changeSetID = fmt.Sprintf("%s_%s", time.Now().Format("20060102150405"), changeSetID)
	changeSetFileName := fmt.Sprintf("%s/%s.go", s.changeSetFilesDir, changeSetID)

	if fileExists(changeSetFileName) {
		return ErrChangeSetFileExists
	}

	template, err := changeSetFileTemplate(getPackageNameFromChangeSetDir(s.changeSetFilesDir), changeSetID, author)
	if err != nil {
		return err
	}

	err = os.WriteFile(changeSetFileName, []byte(template), 0644)
	if err != nil {
		return err
	}
	log.Printf("changeset file created: %s\n", changeSetFileName)

	return nil
}

// Update applies all pending changesets in changelog order. Changesets that
// already ran are skipped unless marked runAlways, or runOnChange with a
// drifted checksum. Processing is strictly sequential: one changeset
// completes, including its checksum reconciliation, before the next is
// considered.
func (s *Selaras) Update(ctx context.Context) error {
	if err := s.driver.EnsureChangeLogTable(ctx); err != nil {
		return err
	}

	if err := EvaluatePreconditions(ctx, s.database, s.changeLog, s.changeLog.Preconditions); err != nil {
		return err
	}

	ranChangeSets, err := s.driver.LoadRanChangeSets(ctx, false)
	if err != nil {
		return err
	}

	filter := NewShouldRunFilter(ranChangeSets, s.driver, s.caseInsensitivePaths)

	applied := 0
	for _, changeSet := range s.changeLog.ChangeSets {
		run, err := filter.ShouldRun(ctx, changeSet)
		if err != nil {
			return err
		}
		if !run {
			continue
		}

		log.Printf("📦 Applying changeset: %s\n", changeSet)

		if err := s.applyChangeSet(ctx, changeSet); err != nil {
			log.Printf("❌ Changeset failed: %s - %s\n", changeSet, err)
			return err
		}

		if err := s.driver.MarkRan(ctx, RanChangeSet{
			ID:         changeSet.ID,
			Author:     changeSet.Author,
			FilePath:   changeSet.FilePath,
			CheckSum:   changeSet.CheckSum(),
			ExecutedAt: time.Now(),
		}); err != nil {
			return fmt.Errorf("failed to record changeset %s: %w", changeSet, err)
		}

		log.Printf("✅ Applied: %s\n", changeSet)
		applied++
	}

	if applied == 0 {
		log.Println("✅ No changesets to run")
	}

	return nil
}

func (s *Selaras) applyChangeSet(ctx context.Context, changeSet *ChangeSet) error {
	for _, change := range changeSet.Changes {
		if err := change.Validate(s.database); err != nil {
			return err
		}

		statements, err := change.GenerateStatements(s.database)
		if err != nil {
			return err
		}

		for _, statement := range statements {
			sqlText, err := Generators().Generate(statement, s.database)
			if err != nil {
				return err
			}
			if s.debugSql {
				log.Println("🧾 Running SQL:")
				fmt.Println("================================================")
				fmt.Println(sqlText)
				fmt.Println("================================================")
			}
			if err := s.driver.Execute(ctx, sqlText); err != nil {
				return fmt.Errorf("failed to execute %s: %w", statement.StatementKind(), err)
			}
		}

		log.Printf("   %s\n", change.ConfirmationMessage())
	}
	return nil
}

// Rollback undoes the last `step` applied changesets by executing the
// inverse of each of their changes, most recent first. A change without a
// meaningful inverse aborts the rollback with ErrRollbackNotSupported.
func (s *Selaras) Rollback(ctx context.Context, step int) error {
	if step <= 0 {
		return ErrInvalidRollbackStep
	}

	ranChangeSets, err := s.driver.LoadRanChangeSets(ctx, true)
	if err != nil {
		return err
	}

	if len(ranChangeSets) == 0 {
		log.Println("✅ No changesets to rollback")
		return nil
	}

	if step > len(ranChangeSets) {
		step = len(ranChangeSets)
	}

	rolledBack := 0
	for i := 0; i < step; i++ {
		ran := ranChangeSets[i]
		changeSet := s.findRegistered(ran)
		if changeSet == nil {
			log.Printf("⚠️  Changeset not registered, skipping rollback for: %s::%s::%s\n", ran.FilePath, ran.ID, ran.Author)
			continue
		}

		log.Printf("🔄 Rolling back: %s\n", changeSet)

		if err := s.rollbackChangeSet(ctx, changeSet); err != nil {
			log.Printf("❌ Rollback failed: %s - %s\n", changeSet, err)
			return err
		}

		if err := s.driver.RemoveRan(ctx, changeSet.ID, changeSet.Author, changeSet.FilePath); err != nil {
			return fmt.Errorf("failed to remove changeset record %s: %w", changeSet, err)
		}

		log.Printf("✅ Rolled back: %s\n", changeSet)
		rolledBack++
	}

	if rolledBack == 0 {
		log.Println("✅ No changesets to rollback")
	}

	return nil
}

func (s *Selaras) rollbackChangeSet(ctx context.Context, changeSet *ChangeSet) error {
	// Changes are undone in reverse declaration order.
	for i := len(changeSet.Changes) - 1; i >= 0; i-- {
		change := changeSet.Changes[i]

		inverses, err := change.Inverses()
		if err != nil {
			return fmt.Errorf("cannot rollback %s change of %s: %w", change.Name(), changeSet, err)
		}

		for _, inverse := range inverses {
			if err := inverse.Validate(s.database); err != nil {
				return err
			}
			statements, err := inverse.GenerateStatements(s.database)
			if err != nil {
				return err
			}
			for _, statement := range statements {
				sqlText, err := Generators().Generate(statement, s.database)
				if err != nil {
					return err
				}
				if s.debugSql {
					log.Println("🧾 Running SQL:")
					fmt.Println("================================================")
					fmt.Println(sqlText)
					fmt.Println("================================================")
				}
				if err := s.driver.Execute(ctx, sqlText); err != nil {
					return fmt.Errorf("failed to execute %s: %w", statement.StatementKind(), err)
				}
			}
		}
	}
	return nil
}

func (s *Selaras) findRegistered(ran RanChangeSet) *ChangeSet {
	for _, changeSet := range s.changeLog.ChangeSets {
		if changeSet.ID == ran.ID &&
			changeSet.Author == ran.Author &&
			pathEquals(changeSet.FilePath, ran.FilePath, s.caseInsensitivePaths) {
			return changeSet
		}
	}
	return nil
}

// Reset rolls back every applied changeset and reapplies the changelog from
// scratch.
func (s *Selaras) Reset(ctx context.Context) error {
	ranChangeSets, err := s.driver.LoadRanChangeSets(ctx, true)
	if err != nil {
		return fmt.Errorf("failed to load ran changesets: %w", err)
	}

	if len(ranChangeSets) == 0 {
		log.Println("✅ No changesets to reset")
		return nil
	}

	log.Printf("🔁 Resetting %d applied changeset(s)...\n", len(ranChangeSets))

	if err := s.Rollback(ctx, len(ranChangeSets)); err != nil {
		return fmt.Errorf("rollback failed during reset: %w", err)
	}

	if err := s.Update(ctx); err != nil {
		return fmt.Errorf("update failed during reset: %w", err)
	}

	log.Println("✅ Changelog reset completed successfully")
	return nil
}

// Status returns every registered changeset with its execution state and a
// dry-run eligibility decision. Status never writes: checksum
// reconciliation is left to Update.
func (s *Selaras) Status(ctx context.Context) (ChangeSetStatusList, error) {
	if err := s.driver.EnsureChangeLogTable(ctx); err != nil {
		return nil, err
	}

	ranChangeSets, err := s.driver.LoadRanChangeSets(ctx, false)
	if err != nil {
		return nil, err
	}

	filter := NewShouldRunFilter(ranChangeSets, s.driver, s.caseInsensitivePaths)

	statuses := make(ChangeSetStatusList, 0, len(s.changeLog.ChangeSets))
	for _, changeSet := range s.changeLog.ChangeSets {
		status := ChangeSetStatus{
			ChangeSet: changeSet,
			CheckSum:  changeSet.CheckSum(),
			WillRun:   filter.Decide(changeSet),
		}
		if ran := filter.findRan(changeSet); ran != nil {
			status.IsExecuted = true
			executedAt := ran.ExecutedAt
			status.ExecutedAt = &executedAt
		}
		statuses = append(statuses, status)
	}

	return statuses, nil
}

// ValidateChanges checks the structural completeness of every registered
// change without touching the database.
func (s *Selaras) ValidateChanges() error {
	for _, changeSet := range s.changeLog.ChangeSets {
		for _, change := range changeSet.Changes {
			if err := change.Validate(s.database); err != nil {
				return fmt.Errorf("changeset %s: %w", changeSet, err)
			}
		}
	}
	return nil
}
