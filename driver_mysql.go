package selaras

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

type MySqlDriver struct {
	db                 *sql.DB
	changeLogTableName string
}

func NewMySqlDriver(
	host string,
	port string,
	user string,
	password string,
	database string,
	charset string,
) (*MySqlDriver, error) {
	if charset == "" {
		charset = "utf8mb4"
	}
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		user,
		password,
		host,
		port,
		database,
		charset,
	)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &MySqlDriver{
		db:                 db,
		changeLogTableName: defaultChangeLogTableName,
	}, nil
}

func (m *MySqlDriver) Close() error {
	if m.db != nil {
		if err := m.db.Close(); err != nil {
			return err
		}
	}
	return nil
}

func (m *MySqlDriver) SetChangeLogTableName(name string) {
	if name == "" {
		name = defaultChangeLogTableName
	}
	m.changeLogTableName = name
}

func (m *MySqlDriver) EnsureChangeLogTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(255) NOT NULL,
			author VARCHAR(255) NOT NULL,
			filename VARCHAR(255) NOT NULL,
			checksum VARCHAR(128),
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (id, author, filename)
		)
	`, m.changeLogTableName)
	_, err := m.db.ExecContext(ctx, query)

	if err != nil {
		return err
	}
	return nil
}

func (m *MySqlDriver) LoadRanChangeSets(ctx context.Context, reverse bool) ([]RanChangeSet, error) {
	order := "ASC"
	if reverse {
		order = "DESC"
	}

	query := fmt.Sprintf(
		`SELECT id, author, filename, checksum, executed_at FROM %s ORDER BY executed_at %s, id %s`,
		m.changeLogTableName, order, order,
	)

	rows, err := m.db.QueryContext(ctx, query)
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

func (m *MySqlDriver) UpdateCheckSum(ctx context.Context, id, author, filePath, checkSum string) error {
	query := fmt.Sprintf(
		`UPDATE %s SET checksum = ? WHERE id = ? AND author = ? AND filename = ?`,
		m.changeLogTableName,
	)
	_, err := m.db.ExecContext(ctx, query, checkSum, id, author, filePath)

	if err != nil {
		return err
	}
	return nil
}

func (m *MySqlDriver) MarkRan(ctx context.Context, ran RanChangeSet) error {
	executedAt := ran.ExecutedAt
	if executedAt.IsZero() {
		executedAt = time.Now()
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (id, author, filename, checksum, executed_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE checksum = VALUES(checksum), executed_at = VALUES(executed_at)
	`, m.changeLogTableName)
	_, err := m.db.ExecContext(ctx, query, ran.ID, ran.Author, ran.FilePath, ran.CheckSum, executedAt)

	if err != nil {
		return err
	}
	return nil
}

func (m *MySqlDriver) RemoveRan(ctx context.Context, id, author, filePath string) error {
	query := fmt.Sprintf(
		`DELETE FROM %s WHERE id = ? AND author = ? AND filename = ?`,
		m.changeLogTableName,
	)
	_, err := m.db.ExecContext(ctx, query, id, author, filePath)

	if err != nil {
		return err
	}
	return nil
}

func (m *MySqlDriver) Execute(ctx context.Context, sqlText string) error {
	if sqlText == "" {
		return nil
	}

	_, err := m.db.ExecContext(ctx, sqlText)

	if err != nil {
		return err
	}
	return nil
}
