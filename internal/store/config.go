package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultSettleDelay is how long the host gets to finish re-rendering its menus after a
	// lifecycle signal before the customizations are re-applied.
	DefaultSettleDelay = 500 * time.Millisecond

	// DefaultScrollMarginRows is the TUI auto-scroll edge zone, in rows.
	DefaultScrollMarginRows = 2
)

type GlobalConfig struct {
	// HostDocument is the path of the host's menu markup (the external item source).
	HostDocument string `json:"hostDocument,omitempty"`

	// DataDir overrides where the settings database lives.
	DataDir string `json:"dataDir,omitempty"`

	SaveDebounceMs   int    `json:"saveDebounceMs,omitempty"`
	SettleDelayMs    int    `json:"settleDelayMs,omitempty"`
	ScrollMarginRows int    `json:"scrollMarginRows,omitempty"`
	LogLevel         string `json:"logLevel,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.menucustom).
	if v := strings.TrimSpace(os.Getenv("MENUCUSTOM_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".menucustom"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig reads the global config and applies MENUCUSTOM_* environment overrides.
func LoadConfig() (*GlobalConfig, error) {
	cfg, err := LoadConfigFile()
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadConfigFile reads config.json as stored, without environment overrides.
// Use it for read-modify-write so overrides never leak into the file.
func LoadConfigFile() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	cfg := &GlobalConfig{}
	b, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if err == nil {
		if err := json.Unmarshal(b, cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (c *GlobalConfig) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("MENUCUSTOM_HOST")); v != "" {
		c.HostDocument = v
	}
	if v := strings.TrimSpace(os.Getenv("MENUCUSTOM_DIR")); v != "" {
		c.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("MENUCUSTOM_LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
	if n, ok := envInt("MENUCUSTOM_SAVE_DEBOUNCE_MS"); ok {
		c.SaveDebounceMs = n
	}
	if n, ok := envInt("MENUCUSTOM_SETTLE_DELAY_MS"); ok {
		c.SettleDelayMs = n
	}
	if n, ok := envInt("MENUCUSTOM_SCROLL_MARGIN_ROWS"); ok {
		c.ScrollMarginRows = n
	}
}

func envInt(k string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (c *GlobalConfig) SaveDebounce() time.Duration {
	if c == nil || c.SaveDebounceMs <= 0 {
		return DefaultSaveDebounce
	}
	return time.Duration(c.SaveDebounceMs) * time.Millisecond
}

func (c *GlobalConfig) SettleDelay() time.Duration {
	if c == nil || c.SettleDelayMs <= 0 {
		return DefaultSettleDelay
	}
	return time.Duration(c.SettleDelayMs) * time.Millisecond
}

func (c *GlobalConfig) ScrollMargin() int {
	if c == nil || c.ScrollMarginRows <= 0 {
		return DefaultScrollMarginRows
	}
	return c.ScrollMarginRows
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// Unique temp name + rename: the TUI and a watch process may write concurrently.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}
