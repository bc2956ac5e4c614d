package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-landing/components/landing"
	"github.com/goliatone/go-landing/pkg/layoutstore/sqlitestore/migrations"
)

const migrationTable = "schema_migrations"

// Store persists page layouts in SQLite, one row per page.
type Store struct {
	sqlDB *sql.DB
}

var _ landing.LayoutStore = (*Store)(nil)

// Open opens and migrates a layout database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveLayout upserts the full ordered sequence for pageID.
func (s *Store) SaveLayout(ctx context.Context, pageID string, widgets []landing.WidgetConfig) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	pageID = strings.TrimSpace(pageID)
	if pageID == "" {
		return fmt.Errorf("page id is required")
	}
	if widgets == nil {
		widgets = []landing.WidgetConfig{}
	}
	payload, err := json.Marshal(widgets)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO page_layouts (page_id, widgets_json, widget_count, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(page_id) DO UPDATE SET
		    widgets_json = excluded.widgets_json,
		    widget_count = excluded.widget_count,
		    updated_at = excluded.updated_at`,
		pageID,
		string(payload),
		len(widgets),
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	return nil
}

// LoadLayout returns the stored sequence or an empty one.
func (s *Store) LoadLayout(ctx context.Context, pageID string) ([]landing.WidgetConfig, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	pageID = strings.TrimSpace(pageID)
	if pageID == "" {
		return nil, fmt.Errorf("page id is required")
	}
	var payload string
	row := s.sqlDB.QueryRowContext(ctx, `SELECT widgets_json FROM page_layouts WHERE page_id = ?`, pageID)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []landing.WidgetConfig{}, nil
		}
		return nil, fmt.Errorf("load layout: %w", err)
	}
	var widgets []landing.WidgetConfig
	if err := json.Unmarshal([]byte(payload), &widgets); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	return widgets, nil
}

// Pages lists the page ids with a stored layout.
func (s *Store) Pages(ctx context.Context) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT page_id FROM page_layouts ORDER BY page_id`)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// applyMigrations executes each embedded migration at most once.
func applyMigrations(sqlDB *sql.DB, migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if _, err := sqlDB.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`, migrationTable)); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		var found int
		err := sqlDB.QueryRow("SELECT 1 FROM "+migrationTable+" WHERE name = ?", file).Scan(&found)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		upSQL := extractUp(string(content))
		if strings.TrimSpace(upSQL) == "" {
			continue
		}
		tx, err := sqlDB.BeginTx(context.Background(), nil)
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", file, err)
		}
		if _, err := tx.Exec(upSQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", file, err)
		}
		if _, err := tx.Exec(
			"INSERT INTO "+migrationTable+" (name, applied_at) VALUES (?, ?)",
			file,
			time.Now().UTC().UnixMilli(),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}
	}
	return nil
}

func extractUp(content string) string {
	upIdx := strings.Index(content, "-- +migrate Up")
	if upIdx == -1 {
		return content
	}
	body := content[upIdx+len("-- +migrate Up"):]
	if downIdx := strings.Index(body, "-- +migrate Down"); downIdx != -1 {
		body = body[:downIdx]
	}
	return body
}
