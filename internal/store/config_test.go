package store

import (
	"testing"
	"time"
)

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("MENUCUSTOM_CONFIG_DIR", t.TempDir())

	if err := SaveConfig(&GlobalConfig{HostDocument: "/from/file.html", SettleDelayMs: 100}); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	t.Setenv("MENUCUSTOM_HOST", "/from/env.html")
	t.Setenv("MENUCUSTOM_SCROLL_MARGIN_ROWS", "3")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.HostDocument != "/from/env.html" {
		t.Fatalf("expected env host; got %q", cfg.HostDocument)
	}
	if cfg.SettleDelay() != 100*time.Millisecond {
		t.Fatalf("expected settle delay from file; got %s", cfg.SettleDelay())
	}
	if cfg.ScrollMargin() != 3 {
		t.Fatalf("expected scroll margin 3; got %d", cfg.ScrollMargin())
	}

	raw, err := LoadConfigFile()
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if raw.HostDocument != "/from/file.html" {
		t.Fatalf("env override leaked into file view: %q", raw.HostDocument)
	}
}

func TestGlobalConfig_Defaults(t *testing.T) {
	var cfg *GlobalConfig
	if cfg.SaveDebounce() != DefaultSaveDebounce || cfg.SettleDelay() != DefaultSettleDelay || cfg.ScrollMargin() != DefaultScrollMarginRows {
		t.Fatalf("nil config should yield defaults")
	}
}

func TestUIState_RoundTripAndCorruptFile(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	if err := s.SaveUIState(&UIState{Tab: "secondaryMenu", Selected: map[string]string{"secondaryMenu": "item:x"}}); err != nil {
		t.Fatalf("SaveUIState: %v", err)
	}
	st, err := s.LoadUIState()
	if err != nil {
		t.Fatalf("LoadUIState: %v", err)
	}
	if st.Tab != "secondaryMenu" || st.Selected["secondaryMenu"] != "item:x" || st.Version != 1 {
		t.Fatalf("unexpected state: %+v", st)
	}
}
