package selaras

import (
	"fmt"
	"strings"
)

// PostgresDatabase describes a PostgreSQL target.
type PostgresDatabase struct {
	Schema string
}

func (d *PostgresDatabase) DialectName() string { return "postgres" }

func (d *PostgresDatabase) DefaultSchemaName() string {
	if d.Schema == "" {
		return "public"
	}
	return d.Schema
}

func (d *PostgresDatabase) QuoteObject(name string) string {
	return `"` + name + `"`
}

// ColumnType folds auto-increment into the serial types; the renderer emits
// no separate identity clause for PostgreSQL.
func (d *PostgresDatabase) ColumnType(abstractType string, autoIncrement bool) string {
	switch strings.ToLower(abstractType) {
	case "int", "integer":
		if autoIncrement {
			return "SERIAL"
		}
		return "INTEGER"
	case "bigint":
		if autoIncrement {
			return "BIGSERIAL"
		}
		return "BIGINT"
	case "boolean":
		return "BOOLEAN"
	case "datetime", "timestamp":
		return "TIMESTAMP WITHOUT TIME ZONE"
	case "text", "clob":
		return "TEXT"
	case "currency":
		return "NUMERIC(15, 2)"
	default:
		return strings.ToUpper(abstractType)
	}
}

func registerPostgresGenerators(r *GeneratorRegistry) {
	dialect := createTableDialect{
		supportsTablespace: true,
		supportsDeferrable: true,
		useSchemaPrefix:    true,
	}

	r.Register(StatementCreateTable, "postgres", func(statement SqlStatement, db Database) (string, error) {
		return generateCreateTable(statement, db, dialect)
	})

	r.Register(StatementDropTable, "postgres", func(statement SqlStatement, db Database) (string, error) {
		return generateDropTable(statement, db, "CASCADE", true)
	})

	r.Register(StatementSetTableRemarks, "postgres", func(statement SqlStatement, db Database) (string, error) {
		remarks, ok := statement.(*SetTableRemarksStatement)
		if !ok {
			return "", fmt.Errorf("expected *SetTableRemarksStatement, got %T", statement)
		}
		return fmt.Sprintf("COMMENT ON TABLE %s IS '%s'",
			qualifiedName(db, remarks.SchemaName, remarks.TableName, true),
			escapeSqlString(remarks.Remarks)), nil
	})

	r.Register(StatementSetColumnRemarks, "postgres", func(statement SqlStatement, db Database) (string, error) {
		remarks, ok := statement.(*SetColumnRemarksStatement)
		if !ok {
			return "", fmt.Errorf("expected *SetColumnRemarksStatement, got %T", statement)
		}
		return fmt.Sprintf("COMMENT ON COLUMN %s.%s IS '%s'",
			qualifiedName(db, remarks.SchemaName, remarks.TableName, true),
			db.QuoteObject(remarks.ColumnName),
			escapeSqlString(remarks.Remarks)), nil
	})
}
