package selaras

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SqliteDriver manages a SQLite database file as a migration target.
type SqliteDriver struct {
	db                 *sql.DB
	changeLogTableName string
}

// NewSqliteDriver opens (or creates) the SQLite database at the given path.
func NewSqliteDriver(path string) (*SqliteDriver, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &SqliteDriver{
		db:                 db,
		changeLogTableName: defaultChangeLogTableName,
	}, nil
}

func (s *SqliteDriver) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SqliteDriver) SetChangeLogTableName(name string) {
	if name == "" {
		name = defaultChangeLogTableName
	}
	s.changeLogTableName = name
}

func (s *SqliteDriver) EnsureChangeLogTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT NOT NULL,
			author TEXT NOT NULL,
			filename TEXT NOT NULL,
			checksum TEXT,
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (id, author, filename)
		);
	`, s.changeLogTableName)
	_, err := s.db.ExecContext(ctx, query)
	return err
}

func (s *SqliteDriver) LoadRanChangeSets(ctx context.Context, reverse bool) ([]RanChangeSet, error) {
	order := "ASC"
	if reverse {
		order = "DESC"
	}

	query := fmt.Sprintf(
		`SELECT id, author, filename, checksum, executed_at FROM %s ORDER BY executed_at %s, id %s`,
		s.changeLogTableName, order, order,
	)

	rows, err := s.db.QueryContext(ctx, query)
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

func (s *SqliteDriver) UpdateCheckSum(ctx context.Context, id, author, filePath, checkSum string) error {
	query := fmt.Sprintf(
		`UPDATE %s SET checksum = ? WHERE id = ? AND author = ? AND filename = ?`,
		s.changeLogTableName,
	)
	_, err := s.db.ExecContext(ctx, query, checkSum, id, author, filePath)
	return err
}

func (s *SqliteDriver) MarkRan(ctx context.Context, ran RanChangeSet) error {
	executedAt := ran.ExecutedAt
	if executedAt.IsZero() {
		executedAt = time.Now()
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (id, author, filename, checksum, executed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id, author, filename) DO UPDATE
		SET checksum = excluded.checksum, executed_at = excluded.executed_at
	`, s.changeLogTableName)
	_, err := s.db.ExecContext(ctx, query, ran.ID, ran.Author, ran.FilePath, ran.CheckSum, executedAt)
	return err
}

func (s *SqliteDriver) RemoveRan(ctx context.Context, id, author, filePath string) error {
	query := fmt.Sprintf(
		`DELETE FROM %s WHERE id = ? AND author = ? AND filename = ?`,
		s.changeLogTableName,
	)
	_, err := s.db.ExecContext(ctx, query, id, author, filePath)
	return err
}

func (s *SqliteDriver) Execute(ctx context.Context, sqlText string) error {
	if sqlText == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, sqlText)
	return err
}
