package db

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"nbacorpus/logger"
	"nbacorpus/store"
	"nbacorpus/table"
	"nbacorpus/utils"
)

//go:embed migrations/*.sql
var migrations embed.FS

type DatabaseDataset struct {
	Key       string `db:"key"`
	Columns   string `db:"columns"`
	RowCount  int    `db:"row_count"`
	UpdatedAt string `db:"updated_at"`
}

type DatabaseRow struct {
	Key   string `db:"key"`
	Idx   int    `db:"idx"`
	Cells string `db:"cells"`
}

// DatasetStore keeps tables in SQLite. It implements store.Repository.
type DatasetStore struct {
	db  *sqlx.DB
	now func() time.Time
}

var _ store.Repository = (*DatasetStore)(nil)

// Open creates the database file if needed, runs migrations and connects.
func Open(file string) (*DatasetStore, error) {
	if err := SetupDatabase(file); err != nil {
		return nil, err
	}
	if err := RunMigrations(file); err != nil {
		return nil, err
	}
	conn, err := sqlx.Open("sqlite3", file+"?_foreign_keys=on")
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	conn.SetMaxOpenConns(1)
	return &DatasetStore{db: conn, now: time.Now}, nil
}

func SetupDatabase(file string) error {
	_, err := os.Stat(file)
	if os.IsNotExist(err) {
		logger.Named("db").Info(context.Background(), "database file not found, creating a new one", logger.String("file", file))
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return utils.ErrorWithTrace(err)
		}
		f, err := os.Create(file)
		if err != nil {
			return utils.ErrorWithTrace(err)
		}
		f.Close()
	} else if err != nil {
		return utils.ErrorWithTrace(err)
	}
	return nil
}

func RunMigrations(file string) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return utils.ErrorWithTrace(err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite3://"+file)
	if err != nil {
		return utils.ErrorWithTrace(err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return utils.ErrorWithTrace(err)
	}
	return nil
}

func (s *DatasetStore) Close() error {
	return s.db.Close()
}

func (s *DatasetStore) Put(ctx context.Context, key string, t *table.Table) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}
	columns, err := json.Marshal(t.Columns)
	if err != nil {
		return utils.ErrorWithTrace(err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return utils.ErrorWithTrace(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM dataset_rows WHERE key = ?`, key); err != nil {
		return utils.ErrorWithTrace(err)
	}

	dataset := DatabaseDataset{
		Key:       key,
		Columns:   string(columns),
		RowCount:  t.Len(),
		UpdatedAt: s.now().UTC().Format(time.RFC3339),
	}
	query := `
		REPLACE INTO datasets (key, columns, row_count, updated_at)
		VALUES (:key, :columns, :row_count, :updated_at)
	`
	if _, err := tx.NamedExecContext(ctx, query, dataset); err != nil {
		return utils.ErrorWithTrace(err)
	}

	rowQuery := `INSERT INTO dataset_rows (key, idx, cells) VALUES (:key, :idx, :cells)`
	for i, row := range t.Rows {
		cells, err := json.Marshal(row)
		if err != nil {
			return utils.ErrorWithTrace(err)
		}
		if _, err := tx.NamedExecContext(ctx, rowQuery, DatabaseRow{Key: key, Idx: i, Cells: string(cells)}); err != nil {
			return utils.ErrorWithTrace(err)
		}
	}

	return tx.Commit()
}

func (s *DatasetStore) Get(ctx context.Context, key string) (*table.Table, error) {
	if err := store.ValidateKey(key); err != nil {
		return nil, err
	}

	dataset := DatabaseDataset{}
	err := s.db.GetContext(ctx, &dataset, `SELECT * FROM datasets WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, key)
	}
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}

	t := table.New()
	if err := json.Unmarshal([]byte(dataset.Columns), &t.Columns); err != nil {
		return nil, &store.CacheReadFailure{Key: key, Err: err}
	}

	rows := []DatabaseRow{}
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM dataset_rows WHERE key = ? ORDER BY idx`, key); err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	for _, r := range rows {
		var cells []string
		if err := json.Unmarshal([]byte(r.Cells), &cells); err != nil {
			return nil, &store.CacheReadFailure{Key: key, Err: err}
		}
		t.Rows = append(t.Rows, cells)
	}
	if len(t.Rows) != dataset.RowCount {
		return nil, &store.CacheReadFailure{Key: key, Err: fmt.Errorf("expected %d rows, found %d", dataset.RowCount, len(t.Rows))}
	}
	return t, nil
}

func (s *DatasetStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := store.ValidateKey(key); err != nil {
		return false, err
	}
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM datasets WHERE key = ?`, key); err != nil {
		return false, utils.ErrorWithTrace(err)
	}
	return count > 0, nil
}

func (s *DatasetStore) Keys(ctx context.Context) ([]string, error) {
	keys := []string{}
	if err := s.db.SelectContext(ctx, &keys, `SELECT key FROM datasets ORDER BY key`); err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	return keys, nil
}
