// Package selaras provides a PostgreSQL changelog driver for recording and
// executing schema changesets.
package selaras

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresDriver manages database connections and changelog bookkeeping for
// PostgreSQL.
type PostgresDriver struct {
	db                 *sql.DB
	changeLogTableName string
}

// NewPostgresDriver creates and returns a new instance of PostgresDriver.
// It opens a connection to the given PostgreSQL database using the provided
// credentials and schema.
func NewPostgresDriver(
	host string,
	port string,
	user string,
	password string,
	database string,
	schema string,
) (*PostgresDriver, error) {
	dsn := "host=%s port=%s user=%s password=%s dbname=%s sslmode=disable search_path=%s"
	dsn = fmt.Sprintf(dsn, host, port, user, password, database, schema)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &PostgresDriver{
		db:                 db,
		changeLogTableName: defaultChangeLogTableName,
	}, nil
}

// Close closes the database connection.
func (p *PostgresDriver) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// SetChangeLogTableName sets the name of the table used to record ran
// changesets. If the provided name is empty, the default is used.
func (p *PostgresDriver) SetChangeLogTableName(name string) {
	if name == "" {
		name = defaultChangeLogTableName
	}
	p.changeLogTableName = name
}

// EnsureChangeLogTable creates the changelog history table if it does not
// exist.
func (p *PostgresDriver) EnsureChangeLogTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(255) NOT NULL,
			author VARCHAR(255) NOT NULL,
			filename VARCHAR(255) NOT NULL,
			checksum VARCHAR(128),
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (id, author, filename)
		);
	`, p.changeLogTableName)
	_, err := p.db.ExecContext(ctx, query)
	return err
}

// LoadRanChangeSets returns the execution history from the changelog table.
// If reverse is true, the most recently executed entries come first.
func (p *PostgresDriver) LoadRanChangeSets(ctx context.Context, reverse bool) ([]RanChangeSet, error) {
	order := "ASC"
	if reverse {
		order = "DESC"
	}

	query := fmt.Sprintf(
		`SELECT id, author, filename, checksum, executed_at FROM %s ORDER BY executed_at %s, id %s`,
		p.changeLogTableName, order, order,
	)

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ranChangeSets := []RanChangeSet{}

	for rows.Next() {
		var ran RanChangeSet
		var checkSum sql.NullString

		if err := rows.Scan(&ran.ID, &ran.Author, &ran.FilePath, &checkSum, &ran.ExecutedAt); err != nil {
			return nil, err
		}
		ran.CheckSum = checkSum.String

		ranChangeSets = append(ranChangeSets, ran)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ranChangeSets, nil
}

// UpdateCheckSum overwrites the stored checksum of one history record.
func (p *PostgresDriver) UpdateCheckSum(ctx context.Context, id, author, filePath, checkSum string) error {
	query := fmt.Sprintf(
		`UPDATE %s SET checksum = $1 WHERE id = $2 AND author = $3 AND filename = $4`,
		p.changeLogTableName,
	)
	_, err := p.db.ExecContext(ctx, query, checkSum, id, author, filePath)
	return err
}

// MarkRan records that a changeset was applied.
func (p *PostgresDriver) MarkRan(ctx context.Context, ran RanChangeSet) error {
	executedAt := ran.ExecutedAt
	if executedAt.IsZero() {
		executedAt = time.Now()
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (id, author, filename, checksum, executed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id, author, filename) DO UPDATE
		SET checksum = EXCLUDED.checksum, executed_at = EXCLUDED.executed_at
	`, p.changeLogTableName)
	_, err := p.db.ExecContext(ctx, query, ran.ID, ran.Author, ran.FilePath, ran.CheckSum, executedAt)
	return err
}

// RemoveRan deletes the history record for a rolled-back changeset.
func (p *PostgresDriver) RemoveRan(ctx context.Context, id, author, filePath string) error {
	query := fmt.Sprintf(
		`DELETE FROM %s WHERE id = $1 AND author = $2 AND filename = $3`,
		p.changeLogTableName,
	)
	_, err := p.db.ExecContext(ctx, query, id, author, filePath)
	return err
}

// Execute runs one rendered SQL statement.
func (p *PostgresDriver) Execute(ctx context.Context, sqlText string) error {
	if sqlText == "" {
		return nil
	}
	_, err := p.db.ExecContext(ctx, sqlText)
	return err
}
