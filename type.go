package selaras

import (
	"fmt"
	"time"
)

// ChangeSet is one uniquely identified unit of schema change intent.
// Its identity is the triple (ID, Author, FilePath); the file path is
// normalized to forward slashes when the changeset is registered.
type ChangeSet struct {
	ID          string
	Author      string
	FilePath    string
	RunAlways   bool
	RunOnChange bool
	Changes     []Change
	Comment     string
}

// CheckSum returns the content fingerprint of the changeset's declared
// changes. It is a pure function of the declared content: two changesets
// declaring the same changes always produce the same checksum.
func (c *ChangeSet) CheckSum() string {
	payloads := make([]string, 0, len(c.Changes))
	for _, change := range c.Changes {
		payloads = append(payloads, change.Fingerprint())
	}
	return computeCheckSum(payloads)
}

func (c *ChangeSet) String() string {
	return fmt.Sprintf("%s::%s::%s", c.FilePath, c.ID, c.Author)
}

// RanChangeSet is the persisted record that a changeset was previously
// applied, along with the checksum recorded at that time. It is created by
// the execution transport and only read by the execution filter.
type RanChangeSet struct {
	ID         string
	Author     string
	FilePath   string
	CheckSum   string
	ExecutedAt time.Time
}

// ChangeLog is an ordered collection of changesets sharing a logical path,
// guarded by zero or more preconditions.
type ChangeLog struct {
	LogicalFilePath string
	Preconditions   []Precondition
	ChangeSets      []*ChangeSet
}

// Column describes one column of a table change. It is owned exclusively by
// the change that declares it.
type Column struct {
	Name          string
	Type          string
	DefaultValue  string
	AutoIncrement bool
	Remarks       string
	Constraints   *Constraints
}

// Constraints carries the optional constraint declarations of a Column.
// Nullable is tri-state: nil means "not declared", which is distinct from
// explicitly nullable.
type Constraints struct {
	Nullable             *bool
	PrimaryKey           bool
	PrimaryKeyName       string
	Unique               bool
	UniqueConstraintName string
	References           string
	ForeignKeyName       string
	DeleteCascade        bool
	Deferrable           bool
	InitiallyDeferred    bool
}

// Config configures a Selaras engine instance.
type Config struct {
	Driver               Driver
	Database             Database
	ChangeLogTableName   string
	ChangeSetFilesDir    string
	CaseInsensitivePaths bool
	DebugSql             bool
}

// ChangeSetStatus pairs a registered changeset with its execution state.
type ChangeSetStatus struct {
	ChangeSet  *ChangeSet
	CheckSum   string
	IsExecuted bool
	ExecutedAt *time.Time
	WillRun    bool
}

type ChangeSetStatusList []ChangeSetStatus

// Print writes the status list to stdout as an ASCII table.
func (l ChangeSetStatusList) Print() {
	var tableData [][]string
	tableData = append(tableData, []string{"Changeset", "Executed", "Executed At", "Pending"})

	for _, status := range l {
		executedAt := "N/A"
		if status.ExecutedAt != nil {
			executedAt = status.ExecutedAt.Format(time.RFC3339)
		}
		row := []string{
			status.ChangeSet.String(),
			fmt.Sprintf("%t", status.IsExecuted),
			executedAt,
			fmt.Sprintf("%t", status.WillRun),
		}
		tableData = append(tableData, row)
	}

	printTable(tableData)
}
