package selaras

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// helper to capture output
func captureOutput(f func()) string {
	old := os.Stdout // keep backup
	r, w, _ := os.Pipe()
	os.Stdout = w

	f() // call the function

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String()
}

func TestChangeSetString(t *testing.T) {
	changeSet := &ChangeSet{ID: "001", Author: "andi", FilePath: "db/changelog.go"}
	assert.Equal(t, "db/changelog.go::001::andi", changeSet.String())
}

func TestChangeSetStatusList_Print(t *testing.T) {
	now := time.Now()

	statuses := ChangeSetStatusList{
		{
			ChangeSet:  &ChangeSet{ID: "001", Author: "andi", FilePath: "db/changelog.go"},
			IsExecuted: true,
			ExecutedAt: &now,
		},
		{
			ChangeSet: &ChangeSet{ID: "002", Author: "budi", FilePath: "db/changelog.go"},
			WillRun:   true,
		},
	}

	output := captureOutput(func() {
		statuses.Print()
	})

	assert.Contains(t, output, "Changeset")
	assert.Contains(t, output, "db/changelog.go::001::andi")
	assert.Contains(t, output, "db/changelog.go::002::budi")
	assert.Contains(t, output, "true")
	assert.Contains(t, output, "N/A")
}

func TestChangeSetStatusList_PrintEmpty(t *testing.T) {
	output := captureOutput(func() {
		printTable(nil)
	})
	assert.Contains(t, output, "No data to display.")
}
