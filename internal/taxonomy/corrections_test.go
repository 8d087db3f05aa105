package taxonomy

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCorrections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrections.json")
	content := `[
  {"productName": "Aftenposten mandag til lørdag", "field": "promocode", "old": "AB-D16", "new": "AP-D16"}
]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	corrections, err := LoadCorrections(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(corrections) != 1 || corrections[0].New != "AP-D16" {
		t.Fatalf("corrections=%+v", corrections)
	}
}

func TestLoadCorrectionsRejectsUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrections.json")
	content := `[{"productName": "X", "field": "price", "old": "1", "new": "2"}]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadCorrections(path); err == nil {
		t.Fatalf("expected error")
	}
}
