package selaras

import (
	"fmt"
	"strings"
)

// MySqlDatabase describes a MySQL target.
type MySqlDatabase struct {
	Schema string
}

func (d *MySqlDatabase) DialectName() string { return "mysql" }

func (d *MySqlDatabase) DefaultSchemaName() string { return d.Schema }

func (d *MySqlDatabase) QuoteObject(name string) string {
	return "`" + name + "`"
}

func (d *MySqlDatabase) ColumnType(abstractType string, autoIncrement bool) string {
	switch strings.ToLower(abstractType) {
	case "int", "integer":
		return "INT"
	case "bigint":
		return "BIGINT"
	case "boolean":
		return "TINYINT(1)"
	case "datetime", "timestamp":
		return "DATETIME"
	case "text", "clob":
		return "TEXT"
	case "currency":
		return "DECIMAL(15, 2)"
	default:
		return strings.ToUpper(abstractType)
	}
}

func registerMySqlGenerators(r *GeneratorRegistry) {
	dialect := createTableDialect{
		autoIncrementClause: "AUTO_INCREMENT",
		supportsTablespace:  true,
		useSchemaPrefix:     true,
	}

	r.Register(StatementCreateTable, "mysql", func(statement SqlStatement, db Database) (string, error) {
		return generateCreateTable(statement, db, dialect)
	})

	r.Register(StatementDropTable, "mysql", func(statement SqlStatement, db Database) (string, error) {
		return generateDropTable(statement, db, "", true)
	})

	// Column remarks need a full column redefinition on MySQL, so only table
	// remarks are supported.
	r.Register(StatementSetTableRemarks, "mysql", func(statement SqlStatement, db Database) (string, error) {
		remarks, ok := statement.(*SetTableRemarksStatement)
		if !ok {
			return "", fmt.Errorf("expected *SetTableRemarksStatement, got %T", statement)
		}
		return fmt.Sprintf("ALTER TABLE %s COMMENT = '%s'",
			qualifiedName(db, remarks.SchemaName, remarks.TableName, true),
			escapeSqlString(remarks.Remarks)), nil
	})
}
