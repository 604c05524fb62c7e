package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestUIState_RoundTripAndCorruption(t *testing.T) {
	s := Store{Dir: t.TempDir()}

	st, err := s.LoadUIState()
	if err != nil || st.Version != 1 || st.Tab != "" {
		t.Fatalf("missing state: %+v err=%v", st, err)
	}

	in := &UIState{Tab: "secondaryMenu", Selected: map[string]string{"secondaryMenu": "item:sd_gen"}}
	if err := s.SaveUIState(in); err != nil {
		t.Fatalf("SaveUIState: %v", err)
	}
	path := filepath.Join(s.Dir, "ui_state.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s: %v", path, err)
	}

	out, err := s.LoadUIState()
	if err != nil {
		t.Fatalf("LoadUIState: %v", err)
	}
	if out.Tab != "secondaryMenu" || out.Selected["secondaryMenu"] != "item:sd_gen" {
		t.Fatalf("state = %+v", out)
	}

	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err = s.LoadUIState()
	if err != nil || out.Tab != "" || out.Version != 1 {
		t.Fatalf("corrupted state should load empty: %+v err=%v", out, err)
	}
}
