package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"menu-customizer/internal/model"

	_ "modernc.org/sqlite"
)

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL + busy_timeout: the TUI and a `watch` process may share one data dir.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSettingsSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSettingsSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			plugin_id TEXT PRIMARY KEY,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// LoadSettings reads the settings object. It returns (nil, nil) when nothing was saved yet.
func (s Store) LoadSettings(ctx context.Context) (*model.Settings, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var js string
	err = db.QueryRowContext(ctx, `SELECT json FROM settings WHERE plugin_id = ?`, model.PluginID).Scan(&js)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var st model.Settings
	if err := json.Unmarshal([]byte(js), &st); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if st.Version == 0 {
		if v := readMeta(ctx, db, "version"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				st.Version = n
			}
		}
	}
	return &st, nil
}

func (s Store) SaveSettings(ctx context.Context, st *model.Settings) error {
	if st == nil {
		return errors.New("nil settings")
	}
	if st.Version == 0 {
		st.Version = model.SettingsVersion
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}

	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "version", strconv.Itoa(st.Version)); err != nil {
		return err
	}
	nowMs := time.Now().UTC().UnixMilli()
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO settings(plugin_id, json, updated_at_unixms) VALUES(?, ?, ?)`,
		model.PluginID, string(raw), nowMs); err != nil {
		return err
	}
	return tx.Commit()
}

func readMeta(ctx context.Context, db *sql.DB, k string) string {
	var v string
	_ = db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, k).Scan(&v)
	return strings.TrimSpace(v)
}
