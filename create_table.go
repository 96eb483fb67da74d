package selaras

import (
	"fmt"
	"strings"
)

// CreateTableChange creates a new table with the declared columns and
// constraints.
type CreateTableChange struct {
	SchemaName string
	TableName  string
	Tablespace string
	Remarks    string
	Columns    []Column
}

func (c *CreateTableChange) Name() string { return "createTable" }

// Validate rejects a table definition with no columns, or with a column
// missing its name or type. Validation does not depend on the target dialect
// beyond receiving it.
func (c *CreateTableChange) Validate(db Database) error {
	if len(c.Columns) == 0 {
		return &DefinitionError{Change: c, Message: "no columns defined"}
	}
	for _, column := range c.Columns {
		if trimToEmpty(column.Name) == "" {
			return &DefinitionError{Change: c, Message: "column name is required"}
		}
		if trimToEmpty(column.Type) == "" {
			return &DefinitionError{Change: c, Message: fmt.Sprintf("column %q requires a type", column.Name)}
		}
	}
	return nil
}

// GenerateStatements compiles the change into, in order: one create-table
// statement, an optional table remarks statement, and zero or more column
// remarks statements in column declaration order. Remarks statements are
// emitted only when the target dialect can render them; the table statement
// must exist before remarks can attach to it.
func (c *CreateTableChange) GenerateStatements(db Database) ([]SqlStatement, error) {
	schemaName := c.SchemaName
	if schemaName == "" {
		schemaName = db.DefaultSchemaName()
	}

	statement := &CreateTableStatement{
		SchemaName: schemaName,
		TableName:  c.TableName,
		Tablespace: trimToEmpty(c.Tablespace),
	}

	for _, column := range c.Columns {
		constraints := column.Constraints
		columnType := db.ColumnType(column.Type, column.AutoIncrement)
		defaultValue := trimToEmpty(column.DefaultValue)

		if constraints != nil && constraints.PrimaryKey {
			statement.AddPrimaryKeyColumn(column.Name, columnType, defaultValue, constraints.PrimaryKeyName)
		} else {
			statement.AddColumn(column.Name, columnType, defaultValue)
		}

		if constraints != nil {
			if constraints.Nullable != nil && !*constraints.Nullable {
				statement.AddConstraint(NotNullConstraint{Column: column.Name})
			}

			if constraints.References != "" {
				if trimToEmpty(constraints.ForeignKeyName) == "" {
					return nil, &UnsupportedChangeError{
						Change:  c,
						Message: fmt.Sprintf("column %q references %s but declares no foreign key name", column.Name, constraints.References),
					}
				}
				statement.AddConstraint(ForeignKeyConstraint{
					Name:              constraints.ForeignKeyName,
					Column:            column.Name,
					References:        constraints.References,
					DeleteCascade:     constraints.DeleteCascade,
					Deferrable:        constraints.Deferrable,
					InitiallyDeferred: constraints.InitiallyDeferred,
				})
			}

			if constraints.Unique {
				statement.AddConstraint(UniqueConstraint{
					Name:    constraints.UniqueConstraintName,
					Columns: []string{column.Name},
				})
			}
		}

		if column.AutoIncrement {
			statement.AddConstraint(AutoIncrementConstraint{Column: column.Name})
		}
	}

	statements := []SqlStatement{statement}

	if remarks := trimToEmpty(c.Remarks); remarks != "" {
		remarksStatement := &SetTableRemarksStatement{
			SchemaName: schemaName,
			TableName:  c.TableName,
			Remarks:    remarks,
		}
		if Generators().Supports(remarksStatement, db) {
			statements = append(statements, remarksStatement)
		}
	}

	for _, column := range c.Columns {
		columnRemarks := trimToEmpty(column.Remarks)
		if columnRemarks == "" {
			continue
		}
		remarksStatement := &SetColumnRemarksStatement{
			SchemaName: schemaName,
			TableName:  c.TableName,
			ColumnName: column.Name,
			Remarks:    columnRemarks,
		}
		if Generators().Supports(remarksStatement, db) {
			statements = append(statements, remarksStatement)
		}
	}

	return statements, nil
}

// Inverses returns a single drop-table change for the same schema and table.
func (c *CreateTableChange) Inverses() ([]Change, error) {
	return []Change{
		&DropTableChange{
			SchemaName: c.SchemaName,
			TableName:  c.TableName,
		},
	}, nil
}

func (c *CreateTableChange) ConfirmationMessage() string {
	return fmt.Sprintf("table %s created", c.TableName)
}

func (c *CreateTableChange) Fingerprint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "createTable:%s.%s;tablespace=%s;remarks=%s", c.SchemaName, c.TableName, c.Tablespace, c.Remarks)
	for _, column := range c.Columns {
		fmt.Fprintf(&b, ";column=%s %s default=%s autoIncrement=%t remarks=%s",
			column.Name, column.Type, column.DefaultValue, column.AutoIncrement, column.Remarks)
		if constraints := column.Constraints; constraints != nil {
			nullable := "unset"
			if constraints.Nullable != nil {
				nullable = fmt.Sprintf("%t", *constraints.Nullable)
			}
			fmt.Fprintf(&b, " constraints(nullable=%s pk=%t pkName=%s unique=%t uniqueName=%s references=%s fkName=%s cascade=%t deferrable=%t initiallyDeferred=%t)",
				nullable, constraints.PrimaryKey, constraints.PrimaryKeyName,
				constraints.Unique, constraints.UniqueConstraintName,
				constraints.References, constraints.ForeignKeyName,
				constraints.DeleteCascade, constraints.Deferrable, constraints.InitiallyDeferred)
		}
	}
	return b.String()
}
