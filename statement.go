package selaras

// Statement kinds used as generator registry keys.
const (
	StatementCreateTable      = "createTable"
	StatementDropTable        = "dropTable"
	StatementSetTableRemarks  = "setTableRemarks"
	StatementSetColumnRemarks = "setColumnRemarks"
	StatementRawSql           = "rawSql"
)

// SqlStatement is a dialect-neutral schema operation awaiting rendering.
// Statements never carry concrete SQL text; they are created by a Change,
// rendered once by a generator, and discarded.
type SqlStatement interface {
	StatementKind() string
}

// StatementColumn is one column of a CreateTableStatement with its concrete
// storage type already resolved against the target database.
type StatementColumn struct {
	Name         string
	Type         string
	DefaultValue string
	PrimaryKey   bool
}

// ColumnConstraint is a table-level constraint attached to a
// CreateTableStatement. The order in which constraints were attached is
// significant and must be preserved by generators.
type ColumnConstraint interface {
	constraint()
}

type NotNullConstraint struct {
	Column string
}

type ForeignKeyConstraint struct {
	Name              string
	Column            string
	References        string
	DeleteCascade     bool
	Deferrable        bool
	InitiallyDeferred bool
}

type UniqueConstraint struct {
	Name    string
	Columns []string
}

type AutoIncrementConstraint struct {
	Column string
}

func (NotNullConstraint) constraint()       {}
func (ForeignKeyConstraint) constraint()    {}
func (UniqueConstraint) constraint()        {}
func (AutoIncrementConstraint) constraint() {}

// CreateTableStatement is the primary statement emitted by a table creation
// change.
type CreateTableStatement struct {
	SchemaName     string
	TableName      string
	Tablespace     string
	Columns        []StatementColumn
	PrimaryKeyName string
	Constraints    []ColumnConstraint
}

func (s *CreateTableStatement) StatementKind() string { return StatementCreateTable }

// AddColumn appends a plain column.
func (s *CreateTableStatement) AddColumn(name, columnType, defaultValue string) {
	s.Columns = append(s.Columns, StatementColumn{
		Name:         name,
		Type:         columnType,
		DefaultValue: defaultValue,
	})
}

// AddPrimaryKeyColumn appends a column that is part of the primary key. An
// explicit constraint name, when given, names the primary key; the last
// non-empty name wins for composite keys.
func (s *CreateTableStatement) AddPrimaryKeyColumn(name, columnType, defaultValue, constraintName string) {
	s.Columns = append(s.Columns, StatementColumn{
		Name:         name,
		Type:         columnType,
		DefaultValue: defaultValue,
		PrimaryKey:   true,
	})
	if constraintName != "" {
		s.PrimaryKeyName = constraintName
	}
}

// AddConstraint appends a table-level constraint, preserving attachment order.
func (s *CreateTableStatement) AddConstraint(c ColumnConstraint) {
	s.Constraints = append(s.Constraints, c)
}

// PrimaryKeyColumns returns the names of the primary key columns in
// declaration order.
func (s *CreateTableStatement) PrimaryKeyColumns() []string {
	var names []string
	for _, col := range s.Columns {
		if col.PrimaryKey {
			names = append(names, col.Name)
		}
	}
	return names
}

type DropTableStatement struct {
	SchemaName         string
	TableName          string
	CascadeConstraints bool
}

func (s *DropTableStatement) StatementKind() string { return StatementDropTable }

type SetTableRemarksStatement struct {
	SchemaName string
	TableName  string
	Remarks    string
}

func (s *SetTableRemarksStatement) StatementKind() string { return StatementSetTableRemarks }

type SetColumnRemarksStatement struct {
	SchemaName string
	TableName  string
	ColumnName string
	Remarks    string
}

func (s *SetColumnRemarksStatement) StatementKind() string { return StatementSetColumnRemarks }

// RawSqlStatement carries user-authored SQL verbatim. It is the one statement
// whose rendering is dialect independent.
type RawSqlStatement struct {
	Sql string
}

func (s *RawSqlStatement) StatementKind() string { return StatementRawSql }
