package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/andrewowest/Hypnosis/internal/model"
)

// SQLiteStore adapts SQLite to the Store contract. Durability and atomic
// replacement are delegated to the database; injection order is preserved
// through a monotonic seq column.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(full)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS directives (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		id         TEXT NOT NULL UNIQUE,
		content    TEXT NOT NULL,
		priority   REAL NOT NULL,
		category   TEXT,
		metadata   TEXT,
		created_at TEXT NOT NULL,
		tombstoned INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_directives_tombstoned ON directives(tombstoned);
	CREATE INDEX IF NOT EXISTS idx_directives_priority ON directives(priority DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Write(ctx context.Context, d model.Directive) error {
	var metaJSON *string
	if len(d.Metadata) > 0 {
		b, err := json.Marshal(d.Metadata)
		if err != nil {
			return fmt.Errorf("encode metadata: %w", err)
		}
		m := string(b)
		metaJSON = &m
	}
	var category *string
	if d.Category != "" {
		category = &d.Category
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO directives (id, content, priority, category, metadata, created_at, tombstoned)
		 VALUES (?, ?, ?, ?, ?, ?, 0)`,
		d.ID, d.Content, d.Priority, category, metaJSON,
		d.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert directive: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ReadAll(ctx context.Context) ([]model.Directive, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, priority, category, metadata, created_at, tombstoned
		 FROM directives ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ds []model.Directive
	for rows.Next() {
		d, err := scanDirective(rows)
		if err != nil {
			return nil, err
		}
		ds = append(ds, d)
	}
	return ds, rows.Err()
}

func (s *SQLiteStore) AppendTombstone(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE directives SET tombstoned = 1 WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) ReplaceAll(ctx context.Context, ds []model.Directive) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM directives`); err != nil {
		return fmt.Errorf("clear directives: %w", err)
	}
	for _, d := range ds {
		var metaJSON *string
		if len(d.Metadata) > 0 {
			b, err := json.Marshal(d.Metadata)
			if err != nil {
				return fmt.Errorf("encode metadata: %w", err)
			}
			m := string(b)
			metaJSON = &m
		}
		var category *string
		if d.Category != "" {
			category = &d.Category
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO directives (id, content, priority, category, metadata, created_at, tombstoned)
			 VALUES (?, ?, ?, ?, ?, ?, 0)`,
			d.ID, d.Content, d.Priority, category, metaJSON,
			d.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("insert directive: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDirective(row scanner) (model.Directive, error) {
	var d model.Directive
	var category, metaJSON sql.NullString
	var createdAt string
	var tombstoned int

	err := row.Scan(&d.ID, &d.Content, &d.Priority, &category, &metaJSON, &createdAt, &tombstoned)
	if err != nil {
		return d, err
	}

	d.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	if category.Valid {
		d.Category = category.String
	}
	if metaJSON.Valid {
		json.Unmarshal([]byte(metaJSON.String), &d.Metadata)
	}
	d.Tombstoned = tombstoned != 0
	return d, nil
}
