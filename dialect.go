package selaras

import (
	"fmt"
	"strings"
	"sync"
)

// Database abstracts the target database for compilation: its dialect name,
// default schema, identifier quoting, and the mapping from abstract column
// types to concrete storage types.
type Database interface {
	DialectName() string
	DefaultSchemaName() string

	// ColumnType resolves a declared abstract type to the dialect's concrete
	// type expression. autoIncrement matters for dialects that fold identity
	// into the type itself (e.g. SERIAL).
	ColumnType(abstractType string, autoIncrement bool) string

	// QuoteObject quotes a schema, table or column identifier.
	QuoteObject(name string) string
}

// GenerateFunc renders one statement kind against one dialect.
type GenerateFunc func(statement SqlStatement, db Database) (string, error)

// anyDialect registers a generator for every dialect; exact-dialect entries
// take precedence.
const anyDialect = "*"

// GeneratorRegistry maps (statement kind, dialect name) to a generator,
// resolved at call time.
type GeneratorRegistry struct {
	mu         sync.RWMutex
	generators map[string]map[string]GenerateFunc
}

func NewGeneratorRegistry() *GeneratorRegistry {
	return &GeneratorRegistry{
		generators: make(map[string]map[string]GenerateFunc),
	}
}

// Register installs a generator for a statement kind and dialect name,
// replacing any previous registration.
func (r *GeneratorRegistry) Register(kind string, dialect string, fn GenerateFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byDialect, ok := r.generators[kind]
	if !ok {
		byDialect = make(map[string]GenerateFunc)
		r.generators[kind] = byDialect
	}
	byDialect[dialect] = fn
}

func (r *GeneratorRegistry) lookup(kind string, dialect string) (GenerateFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byDialect, ok := r.generators[kind]
	if !ok {
		return nil, false
	}
	if fn, ok := byDialect[dialect]; ok {
		return fn, true
	}
	fn, ok := byDialect[anyDialect]
	return fn, ok
}

// Supports reports whether the statement can be rendered against the given
// database's dialect.
func (r *GeneratorRegistry) Supports(statement SqlStatement, db Database) bool {
	_, ok := r.lookup(statement.StatementKind(), db.DialectName())
	return ok
}

// Generate renders the statement to concrete SQL, or returns an
// *UnsupportedStatementError when no generator is registered for the
// dialect.
func (r *GeneratorRegistry) Generate(statement SqlStatement, db Database) (string, error) {
	fn, ok := r.lookup(statement.StatementKind(), db.DialectName())
	if !ok {
		return "", &UnsupportedStatementError{
			StatementKind: statement.StatementKind(),
			Dialect:       db.DialectName(),
		}
	}
	return fn(statement, db)
}

var defaultGenerators = newDefaultGenerators()

// Generators returns the registry holding the built-in generators. Callers
// may register additional dialects on it.
func Generators() *GeneratorRegistry {
	return defaultGenerators
}

func newDefaultGenerators() *GeneratorRegistry {
	r := NewGeneratorRegistry()
	r.Register(StatementRawSql, anyDialect, generateRawSql)
	registerMySqlGenerators(r)
	registerPostgresGenerators(r)
	registerSqliteGenerators(r)
	return r
}

func generateRawSql(statement SqlStatement, db Database) (string, error) {
	raw, ok := statement.(*RawSqlStatement)
	if !ok {
		return "", fmt.Errorf("expected *RawSqlStatement, got %T", statement)
	}
	return raw.Sql, nil
}

// createTableDialect captures the dialect quirks the shared create-table
// renderer needs.
type createTableDialect struct {
	autoIncrementClause string
	supportsTablespace  bool
	supportsDeferrable  bool
	useSchemaPrefix     bool
}

func qualifiedName(db Database, schemaName, objectName string, useSchemaPrefix bool) string {
	if useSchemaPrefix && schemaName != "" {
		return db.QuoteObject(schemaName) + "." + db.QuoteObject(objectName)
	}
	return db.QuoteObject(objectName)
}

// generateCreateTable renders a CreateTableStatement using the caller's
// dialect quirks. Column order follows declaration order; table-level
// constraints follow the statement's attachment order within each clause
// group.
func generateCreateTable(statement SqlStatement, db Database, dialect createTableDialect) (string, error) {
	create, ok := statement.(*CreateTableStatement)
	if !ok {
		return "", fmt.Errorf("expected *CreateTableStatement, got %T", statement)
	}

	notNull := make(map[string]bool)
	autoIncrement := make(map[string]bool)
	for _, constraint := range create.Constraints {
		switch c := constraint.(type) {
		case NotNullConstraint:
			notNull[c.Column] = true
		case AutoIncrementConstraint:
			autoIncrement[c.Column] = true
		}
	}

	var defs []string
	for _, column := range create.Columns {
		def := db.QuoteObject(column.Name) + " " + column.Type
		if autoIncrement[column.Name] && dialect.autoIncrementClause != "" {
			def += " " + dialect.autoIncrementClause
		}
		if column.DefaultValue != "" {
			def += " DEFAULT " + column.DefaultValue
		}
		if notNull[column.Name] {
			def += " NOT NULL"
		}
		defs = append(defs, def)
	}

	if pkColumns := create.PrimaryKeyColumns(); len(pkColumns) > 0 {
		quoted := make([]string, len(pkColumns))
		for i, name := range pkColumns {
			quoted[i] = db.QuoteObject(name)
		}
		clause := "PRIMARY KEY (" + strings.Join(quoted, ", ") + ")"
		if create.PrimaryKeyName != "" {
			clause = "CONSTRAINT " + db.QuoteObject(create.PrimaryKeyName) + " " + clause
		}
		defs = append(defs, clause)
	}

	for _, constraint := range create.Constraints {
		switch c := constraint.(type) {
		case ForeignKeyConstraint:
			clause := fmt.Sprintf("CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s",
				db.QuoteObject(c.Name), db.QuoteObject(c.Column), c.References)
			if c.DeleteCascade {
				clause += " ON DELETE CASCADE"
			}
			if dialect.supportsDeferrable && c.Deferrable {
				clause += " DEFERRABLE"
				if c.InitiallyDeferred {
					clause += " INITIALLY DEFERRED"
				}
			}
			defs = append(defs, clause)
		case UniqueConstraint:
			quoted := make([]string, len(c.Columns))
			for i, name := range c.Columns {
				quoted[i] = db.QuoteObject(name)
			}
			clause := "UNIQUE (" + strings.Join(quoted, ", ") + ")"
			if c.Name != "" {
				clause = "CONSTRAINT " + db.QuoteObject(c.Name) + " " + clause
			}
			defs = append(defs, clause)
		}
	}

	sql := fmt.Sprintf("CREATE TABLE %s (%s)",
		qualifiedName(db, create.SchemaName, create.TableName, dialect.useSchemaPrefix),
		strings.Join(defs, ", "))

	if dialect.supportsTablespace && create.Tablespace != "" {
		sql += " TABLESPACE " + create.Tablespace
	}

	return sql, nil
}

func generateDropTable(statement SqlStatement, db Database, cascadeClause string, useSchemaPrefix bool) (string, error) {
	drop, ok := statement.(*DropTableStatement)
	if !ok {
		return "", fmt.Errorf("expected *DropTableStatement, got %T", statement)
	}
	sql := "DROP TABLE " + qualifiedName(db, drop.SchemaName, drop.TableName, useSchemaPrefix)
	if drop.CascadeConstraints && cascadeClause != "" {
		sql += " " + cascadeClause
	}
	return sql, nil
}
