package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"menu-customizer/internal/model"
)

const sqliteFileName = "menucustom.sqlite"

type Store struct {
	Dir string
}

// DefaultDir is the data directory used when neither --dir nor the config names one.
func DefaultDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("store dir is empty")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

// Load returns the persisted settings, seeding defaults when nothing was stored yet.
// The second return value reports whether seeding changed anything (callers should persist).
func (s Store) Load(ctx context.Context) (*model.Settings, bool, error) {
	st, err := s.LoadSettings(ctx)
	if err != nil {
		return nil, false, err
	}
	if st == nil {
		return model.NewSettings(), true, nil
	}
	return st, normalizeSettings(st), nil
}

// normalizeSettings fills in missing structure on a loaded settings object.
func normalizeSettings(st *model.Settings) bool {
	changed := false
	if st.Version == 0 {
		st.Version = model.SettingsVersion
		changed = true
	}
	// An emptied primary scope is reseeded; it is never discovered.
	if len(st.PrimaryMenu.Items) == 0 {
		st.PrimaryMenu.Items = model.SeedItems(model.DefaultPrimaryItems)
		changed = true
	}
	for _, scope := range model.AllScopes() {
		ss := st.Scope(scope)
		if ss.Items == nil {
			ss.Items = []model.Item{}
			changed = true
		}
		if ss.Categories == nil {
			ss.Categories = []model.Category{}
			changed = true
		}
	}
	return changed
}
