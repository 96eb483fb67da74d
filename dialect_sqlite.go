package selaras

import "strings"

// SqliteDatabase describes a SQLite target. SQLite has no schemas, no
// tablespaces, and no remarks statements; remarks are silently skipped by the
// change compiler because no generator is registered for them.
type SqliteDatabase struct{}

func (d *SqliteDatabase) DialectName() string { return "sqlite" }

func (d *SqliteDatabase) DefaultSchemaName() string { return "" }

func (d *SqliteDatabase) QuoteObject(name string) string {
	return `"` + name + `"`
}

func (d *SqliteDatabase) ColumnType(abstractType string, autoIncrement bool) string {
	switch strings.ToLower(abstractType) {
	case "int", "integer", "bigint", "boolean":
		return "INTEGER"
	case "datetime", "timestamp", "text", "clob", "varchar":
		return "TEXT"
	case "currency":
		return "REAL"
	default:
		if strings.HasPrefix(strings.ToLower(abstractType), "varchar") {
			return "TEXT"
		}
		return strings.ToUpper(abstractType)
	}
}

func registerSqliteGenerators(r *GeneratorRegistry) {
	// An INTEGER PRIMARY KEY aliases the rowid, so no identity clause is
	// emitted.
	dialect := createTableDialect{}

	r.Register(StatementCreateTable, "sqlite", func(statement SqlStatement, db Database) (string, error) {
		return generateCreateTable(statement, db, dialect)
	})

	r.Register(StatementDropTable, "sqlite", func(statement SqlStatement, db Database) (string, error) {
		return generateDropTable(statement, db, "", false)
	})
}
