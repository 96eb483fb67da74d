package selaras

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestNewMySqlDriver(t *testing.T) {
	// Create a mock database connection
	db, mock, err := sqlmock.New(
		sqlmock.MonitorPingsOption(true),
	)
	if err != nil {
		t.Fatalf("could not create mock db: %v", err)
	}
	defer db.Close()

	// Simulate a successful ping to the DB
	mock.ExpectPing().WillReturnError(nil)

	driver := &MySqlDriver{
		db:                 db,
		changeLogTableName: defaultChangeLogTableName,
	}

	assert.NotNil(t, driver)
}

func TestEnsureChangeLogTableMySqlDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("could not create mock db: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS database_changelog").WillReturnResult(sqlmock.NewResult(1, 1))

	driver := &MySqlDriver{
		db:                 db,
		changeLogTableName: defaultChangeLogTableName,
	}

	err = driver.EnsureChangeLogTable(context.Background())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadRanChangeSetsMySqlDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("could not create mock db: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "author", "filename", "checksum", "executed_at"}).
		AddRow("001", "andi", "db/changelog.go", "1:abc", time.Now()).
		AddRow("002", "budi", "db/changelog.go", "1:def", time.Now())

	mock.ExpectQuery("SELECT id, author, filename, checksum, executed_at FROM database_changelog").
		WillReturnRows(rows)

	driver := &MySqlDriver{
		db:                 db,
		changeLogTableName: defaultChangeLogTableName,
	}

	ranChangeSets, err := driver.LoadRanChangeSets(context.Background(), false)
	assert.NoError(t, err)
	assert.Len(t, ranChangeSets, 2)
	assert.Equal(t, "001", ranChangeSets[0].ID)
	assert.Equal(t, "andi", ranChangeSets[0].Author)
	assert.Equal(t, "1:abc", ranChangeSets[0].CheckSum)
}

func TestLoadRanChangeSetsMySqlDriver_NullCheckSum(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("could not create mock db: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "author", "filename", "checksum", "executed_at"}).
		AddRow("001", "andi", "db/changelog.go", nil, time.Now())

	mock.ExpectQuery("SELECT id, author, filename, checksum, executed_at FROM database_changelog").
		WillReturnRows(rows)

	driver := &MySqlDriver{
		db:                 db,
		changeLogTableName: defaultChangeLogTableName,
	}

	ranChangeSets, err := driver.LoadRanChangeSets(context.Background(), false)
	assert.NoError(t, err)
	assert.Len(t, ranChangeSets, 1)
	assert.Empty(t, ranChangeSets[0].CheckSum)
}

func TestUpdateCheckSumMySqlDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("could not create mock db: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE database_changelog SET checksum").
		WithArgs("1:new", "001", "andi", "db/changelog.go").
		WillReturnResult(sqlmock.NewResult(0, 1))

	driver := &MySqlDriver{
		db:                 db,
		changeLogTableName: defaultChangeLogTableName,
	}

	err = driver.UpdateCheckSum(context.Background(), "001", "andi", "db/changelog.go", "1:new")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkRanMySqlDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("could not create mock db: %v", err)
	}
	defer db.Close()

	executedAt := time.Now()
	mock.ExpectExec("INSERT INTO database_changelog").
		WithArgs("001", "andi", "db/changelog.go", "1:abc", executedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	driver := &MySqlDriver{
		db:                 db,
		changeLogTableName: defaultChangeLogTableName,
	}

	err = driver.MarkRan(context.Background(), RanChangeSet{
		ID:         "001",
		Author:     "andi",
		FilePath:   "db/changelog.go",
		CheckSum:   "1:abc",
		ExecutedAt: executedAt,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveRanMySqlDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("could not create mock db: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM database_changelog").
		WithArgs("001", "andi", "db/changelog.go").
		WillReturnResult(sqlmock.NewResult(0, 1))

	driver := &MySqlDriver{
		db:                 db,
		changeLogTableName: defaultChangeLogTableName,
	}

	err = driver.RemoveRan(context.Background(), "001", "andi", "db/changelog.go")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteMySqlDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("could not create mock db: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("CREATE TABLE `app`.`users`").WillReturnResult(sqlmock.NewResult(0, 0))

	driver := &MySqlDriver{
		db:                 db,
		changeLogTableName: defaultChangeLogTableName,
	}

	err = driver.Execute(context.Background(), "CREATE TABLE `app`.`users` (`id` INT)")
	assert.NoError(t, err)

	// Empty SQL is a no-op.
	err = driver.Execute(context.Background(), "")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
