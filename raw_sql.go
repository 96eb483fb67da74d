package selaras

import "fmt"

// RawSqlChange executes user-authored SQL verbatim. A rollback script may be
// declared alongside it; without one the change reports rollback as
// unsupported rather than guessing an inverse.
type RawSqlChange struct {
	Sql         string
	RollbackSql string
}

func (c *RawSqlChange) Name() string { return "sql" }

func (c *RawSqlChange) Validate(db Database) error {
	if trimToEmpty(c.Sql) == "" {
		return &DefinitionError{Change: c, Message: "sql is required"}
	}
	return nil
}

func (c *RawSqlChange) GenerateStatements(db Database) ([]SqlStatement, error) {
	return []SqlStatement{&RawSqlStatement{Sql: c.Sql}}, nil
}

func (c *RawSqlChange) Inverses() ([]Change, error) {
	if trimToEmpty(c.RollbackSql) == "" {
		return nil, ErrRollbackNotSupported
	}
	return []Change{&RawSqlChange{Sql: c.RollbackSql}}, nil
}

func (c *RawSqlChange) ConfirmationMessage() string {
	return "custom sql executed"
}

func (c *RawSqlChange) Fingerprint() string {
	return fmt.Sprintf("sql:%s;rollback=%s", c.Sql, c.RollbackSql)
}
