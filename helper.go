package selaras

import (
	"fmt"
	"go/format"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const defaultChangeLogTableName = "database_changelog"

func fileExists(fileName string) bool {
	_, err := os.Stat(fileName)
	return !os.IsNotExist(err)
}

func changeSetDirExists(changeSetFilesDir string) bool {
	_, err := os.Stat(changeSetFilesDir)
	return !os.IsNotExist(err)
}

// trimToEmpty trims surrounding whitespace; a blank declaration resolves to
// "none".
func trimToEmpty(s string) string {
	return strings.TrimSpace(s)
}

// normalizePath converts backslash separators to forward slashes so
// changeset identity paths compare the same however the changelog was
// authored.
func normalizePath(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}

// foldPath lowercases a normalized path for case-insensitive identity keys.
func foldPath(path string) string {
	return strings.ToLower(normalizePath(path))
}

// pathEquals compares two normalized changeset paths under the injected
// case sensitivity policy.
func pathEquals(a, b string, caseInsensitive bool) bool {
	a = normalizePath(a)
	b = normalizePath(b)
	if caseInsensitive {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// escapeSqlString doubles single quotes for embedding remarks text in a SQL
// string literal.
func escapeSqlString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func printTable(data [][]string) {
	if len(data) == 0 {
		fmt.Println("No data to display.")
		return
	}

	colWidths := make([]int, len(data[0]))
	for _, row := range data {
		for colIdx, col := range row {
			if len(col) > colWidths[colIdx] {
				colWidths[colIdx] = len(col)
			}
		}
	}

	printRow := func(row []string) {
		fmt.Print("|")
		for i, col := range row {
			format := fmt.Sprintf(" %%-%ds |", colWidths[i])
			fmt.Printf(format, col)
		}
		fmt.Println()
	}

	printSeparator := func() {
		fmt.Print("+")
		for _, width := range colWidths {
			fmt.Print(strings.Repeat("-", width+2) + "+")
		}
		fmt.Println()
	}

	printSeparator()
	printRow(data[0])
	printSeparator()

	for _, row := range data[1:] {
		printRow(row)
	}
	printSeparator()

}

func sanitizeChangeSetID(id string) (string, error) {
	id = strings.ReplaceAll(id, "-", "_")
	id = strings.ReplaceAll(id, " ", "_")
	id = strings.ToLower(id)
	id = strings.TrimSpace(id)
	id = strings.Trim(id, "_")
	if len(id) > 200 {
		id = id[:200]
	}

	valid := regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	if !valid.MatchString(id) {
		return "", fmt.Errorf("%w: %s", ErrChangeSetFileNameInvalid, id)
	}

	return id, nil
}

func sanitizeTableName(name string) (string, error) {
	valid := regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	if !valid.MatchString(name) {
		return "", fmt.Errorf("invalid table name: %s", name)
	}

	return name, nil
}

func changeSetIDToFuncName(changeSetID string) (string, error) {
	re := regexp.MustCompile(`^\d{14}_`)
	matches := re.FindStringSubmatch(changeSetID)
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", ErrChangeSetFileNameInvalid, changeSetID)
	}
	timestamp := strings.TrimRight(matches[0], "_")
	nameWithoutTimestamp := strings.TrimPrefix(changeSetID, timestamp)

	parts := strings.Split(nameWithoutTimestamp, "_")
	for i, part := range parts {
		parts[i] = cases.Title(language.English).String(part)
	}

	return fmt.Sprintf("ChangeSet%s%s", timestamp, strings.Join(parts, "")), nil
}

func getPackageNameFromChangeSetDir(changeSetFilesDir string) string {
	parts := strings.Split(changeSetFilesDir, "/")
	if len(parts) == 0 {
		return "changesets"
	}
	return parts[len(parts)-1]
}

func changeSetFileTemplate(packageName string, changeSetID string, author string) (string, error) {
	funcName, err := changeSetIDToFuncName(changeSetID)
	if err != nil {
		return "", err
	}

	changeSetTemplate := fmt.Sprintf(`
		package %s

		import "github.com/ruangdeveloper/selaras"

		func %s() *selaras.ChangeSet {
			return &selaras.ChangeSet{
				ID:       "%s",
				Author:   "%s",
				FilePath: "%s/%s.go",
				Changes:  []selaras.Change{},
			}
		}
	`,
		packageName,
		funcName,
		changeSetID,
		author,
		packageName,
		changeSetID,
	)

	formatted, err := format.Source([]byte(changeSetTemplate))
	if err != nil {
		return "", err
	}

	return string(formatted), nil
}
