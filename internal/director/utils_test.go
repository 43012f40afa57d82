package director

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGenerateScriptPath(t *testing.T) {
	path := GenerateScriptPath(DefaultScriptsDir, "lobby")

	if !strings.Contains(path, "script_lobby_") {
		t.Errorf("Path should contain 'script_lobby_': %s", path)
	}
	if !strings.HasPrefix(path, filepath.Join("internal", "scripts")) {
		t.Errorf("Path should be in internal/scripts: %s", path)
	}

	t.Logf("Generated path: %s", path)
}

func TestFindLatestScript(t *testing.T) {
	testDir := t.TempDir()

	files := []string{
		filepath.Join(testDir, "script_lobby_2026-02-12_10-00-00.yaml"),
		filepath.Join(testDir, "script_lobby_2026-02-13_01-00-00.yaml"),
		filepath.Join(testDir, "script_lobby_2026-02-11_15-30-00.yaml"),
	}

	for i, f := range files {
		if err := os.WriteFile(f, []byte("test"), 0644); err != nil {
			t.Fatal(err)
		}
		// Set different modification times
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		os.Chtimes(f, modTime, modTime)
	}
	os.WriteFile(filepath.Join(testDir, "notes.txt"), []byte("x"), 0644)

	latest, err := FindLatestScript(testDir)
	if err != nil {
		t.Fatalf("FindLatestScript failed: %v", err)
	}

	t.Logf("Latest script: %s", latest)

	if latest != files[len(files)-1] {
		t.Errorf("Expected latest to be %s, got %s", files[len(files)-1], latest)
	}

	if _, err := FindLatestScript(t.TempDir()); err == nil {
		t.Error("expected error for a directory without scripts")
	}
}
