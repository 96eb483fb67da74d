package selaras

import "fmt"

// DropTableChange drops an existing table. Dropping a table destroys its
// data, so the change has no inverse.
type DropTableChange struct {
	SchemaName         string
	TableName          string
	CascadeConstraints bool
}

func (c *DropTableChange) Name() string { return "dropTable" }

func (c *DropTableChange) Validate(db Database) error {
	if trimToEmpty(c.TableName) == "" {
		return &DefinitionError{Change: c, Message: "table name is required"}
	}
	return nil
}

func (c *DropTableChange) GenerateStatements(db Database) ([]SqlStatement, error) {
	schemaName := c.SchemaName
	if schemaName == "" {
		schemaName = db.DefaultSchemaName()
	}
	return []SqlStatement{
		&DropTableStatement{
			SchemaName:         schemaName,
			TableName:          c.TableName,
			CascadeConstraints: c.CascadeConstraints,
		},
	}, nil
}

func (c *DropTableChange) Inverses() ([]Change, error) {
	return nil, ErrRollbackNotSupported
}

func (c *DropTableChange) ConfirmationMessage() string {
	return fmt.Sprintf("table %s dropped", c.TableName)
}

func (c *DropTableChange) Fingerprint() string {
	return fmt.Sprintf("dropTable:%s.%s;cascade=%t", c.SchemaName, c.TableName, c.CascadeConstraints)
}
