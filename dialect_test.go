package selaras

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorRegistry_UnknownStatementKind(t *testing.T) {
	registry := NewGeneratorRegistry()
	statement := &DropTableStatement{TableName: "users"}

	assert.False(t, registry.Supports(statement, &PostgresDatabase{}))

	_, err := registry.Generate(statement, &PostgresDatabase{})
	var unsupportedErr *UnsupportedStatementError
	require.ErrorAs(t, err, &unsupportedErr)
	assert.Equal(t, StatementDropTable, unsupportedErr.StatementKind)
	assert.Equal(t, "postgres", unsupportedErr.Dialect)
}

func TestGeneratorRegistry_ExactDialectBeatsWildcard(t *testing.T) {
	registry := NewGeneratorRegistry()
	registry.Register(StatementRawSql, anyDialect, func(statement SqlStatement, db Database) (string, error) {
		return "generic", nil
	})
	registry.Register(StatementRawSql, "postgres", func(statement SqlStatement, db Database) (string, error) {
		return "specific", nil
	})

	sql, err := registry.Generate(&RawSqlStatement{Sql: "SELECT 1"}, &PostgresDatabase{})
	require.NoError(t, err)
	assert.Equal(t, "specific", sql)

	sql, err = registry.Generate(&RawSqlStatement{Sql: "SELECT 1"}, &MySqlDatabase{})
	require.NoError(t, err)
	assert.Equal(t, "generic", sql)
}

func TestGenerateCreateTable_MySql(t *testing.T) {
	statement := &CreateTableStatement{
		SchemaName: "app",
		TableName:  "users",
	}
	statement.AddPrimaryKeyColumn("id", "INT", "", "pk_users")
	statement.AddColumn("email", "VARCHAR(255)", "")
	statement.AddColumn("active", "TINYINT(1)", "1")
	statement.AddConstraint(NotNullConstraint{Column: "email"})
	statement.AddConstraint(AutoIncrementConstraint{Column: "id"})

	sql, err := Generators().Generate(statement, &MySqlDatabase{Schema: "app"})
	require.NoError(t, err)

	assert.Equal(t,
		"CREATE TABLE `app`.`users` ("+
			"`id` INT AUTO_INCREMENT, "+
			"`email` VARCHAR(255) NOT NULL, "+
			"`active` TINYINT(1) DEFAULT 1, "+
			"CONSTRAINT `pk_users` PRIMARY KEY (`id`))",
		sql)
}

func TestGenerateCreateTable_PostgresForeignKeyAndTablespace(t *testing.T) {
	statement := &CreateTableStatement{
		SchemaName: "public",
		TableName:  "orders",
		Tablespace: "fast_disk",
	}
	statement.AddColumn("user_id", "INTEGER", "")
	statement.AddConstraint(ForeignKeyConstraint{
		Name:              "fk_orders_users",
		Column:            "user_id",
		References:        "users(id)",
		DeleteCascade:     true,
		Deferrable:        true,
		InitiallyDeferred: true,
	})
	statement.AddConstraint(UniqueConstraint{Name: "uq_orders_user", Columns: []string{"user_id"}})

	sql, err := Generators().Generate(statement, &PostgresDatabase{})
	require.NoError(t, err)

	assert.Equal(t,
		`CREATE TABLE "public"."orders" (`+
			`"user_id" INTEGER, `+
			`CONSTRAINT "fk_orders_users" FOREIGN KEY ("user_id") REFERENCES users(id) ON DELETE CASCADE DEFERRABLE INITIALLY DEFERRED, `+
			`CONSTRAINT "uq_orders_user" UNIQUE ("user_id")) TABLESPACE fast_disk`,
		sql)
}

func TestGenerateCreateTable_SqliteIgnoresSchemaAndTablespace(t *testing.T) {
	statement := &CreateTableStatement{
		SchemaName: "ignored",
		TableName:  "users",
		Tablespace: "ignored_too",
	}
	statement.AddPrimaryKeyColumn("id", "INTEGER", "", "")

	sql, err := Generators().Generate(statement, &SqliteDatabase{})
	require.NoError(t, err)

	assert.Equal(t, `CREATE TABLE "users" ("id" INTEGER, PRIMARY KEY ("id"))`, sql)
}

func TestGenerateDropTable(t *testing.T) {
	statement := &DropTableStatement{
		SchemaName:         "public",
		TableName:          "users",
		CascadeConstraints: true,
	}

	sql, err := Generators().Generate(statement, &PostgresDatabase{})
	require.NoError(t, err)
	assert.Equal(t, `DROP TABLE "public"."users" CASCADE`, sql)

	// MySQL has no cascade clause on DROP TABLE.
	sql, err = Generators().Generate(statement, &MySqlDatabase{})
	require.NoError(t, err)
	assert.Equal(t, "DROP TABLE `public`.`users`", sql)
}

func TestGenerateRemarks(t *testing.T) {
	tableRemarks := &SetTableRemarksStatement{
		SchemaName: "public",
		TableName:  "users",
		Remarks:    "everyone's users",
	}

	sql, err := Generators().Generate(tableRemarks, &PostgresDatabase{})
	require.NoError(t, err)
	assert.Equal(t, `COMMENT ON TABLE "public"."users" IS 'everyone''s users'`, sql)

	sql, err = Generators().Generate(tableRemarks, &MySqlDatabase{})
	require.NoError(t, err)
	assert.Equal(t, "ALTER TABLE `public`.`users` COMMENT = 'everyone''s users'", sql)

	columnRemarks := &SetColumnRemarksStatement{
		SchemaName: "public",
		TableName:  "users",
		ColumnName: "email",
		Remarks:    "login address",
	}

	sql, err = Generators().Generate(columnRemarks, &PostgresDatabase{})
	require.NoError(t, err)
	assert.Equal(t, `COMMENT ON COLUMN "public"."users"."email" IS 'login address'`, sql)

	// Column remarks are not representable on MySQL or SQLite.
	assert.False(t, Generators().Supports(columnRemarks, &MySqlDatabase{}))
	assert.False(t, Generators().Supports(columnRemarks, &SqliteDatabase{}))
}

func TestColumnTypeMapping(t *testing.T) {
	tests := []struct {
		db            Database
		abstractType  string
		autoIncrement bool
		expected      string
	}{
		{&MySqlDatabase{}, "int", false, "INT"},
		{&MySqlDatabase{}, "boolean", false, "TINYINT(1)"},
		{&MySqlDatabase{}, "varchar(255)", false, "VARCHAR(255)"},
		{&PostgresDatabase{}, "int", true, "SERIAL"},
		{&PostgresDatabase{}, "bigint", true, "BIGSERIAL"},
		{&PostgresDatabase{}, "datetime", false, "TIMESTAMP WITHOUT TIME ZONE"},
		{&SqliteDatabase{}, "bigint", false, "INTEGER"},
		{&SqliteDatabase{}, "varchar(40)", false, "TEXT"},
	}

	for _, tt := range tests {
		result := tt.db.ColumnType(tt.abstractType, tt.autoIncrement)
		if result != tt.expected {
			t.Errorf("%s.ColumnType(%q, %t) = %q, want %q",
				tt.db.DialectName(), tt.abstractType, tt.autoIncrement, result, tt.expected)
		}
	}
}
