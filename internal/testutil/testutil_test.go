package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/banshee-data/roimine/internal/monitoring"
)

func TestCaptureLogs(t *testing.T) {
	var rec *LogRecorder
	t.Run("capture", func(t *testing.T) {
		rec = CaptureLogs(t)
		monitoring.Logf("[Test] %d regions", 3)
		monitoring.Logf("[Test] done")
	})
	got := rec.Lines()
	if len(got) != 2 || got[0] != "[Test] 3 regions" || got[1] != "[Test] done" {
		t.Fatalf("lines = %q", got)
	}

	// The subtest cleanup restored the previous logger.
	monitoring.Logf("[Test] after")
	if n := len(rec.Lines()); n != 2 {
		t.Fatalf("recorder kept receiving after cleanup: %d lines", n)
	}
}

func TestMuteLogs(t *testing.T) {
	rec := CaptureLogs(t)
	t.Run("muted", func(t *testing.T) {
		MuteLogs(t)
		monitoring.Logf("dropped")
	})
	monitoring.Logf("kept")
	if got := rec.Lines(); len(got) != 1 || got[0] != "kept" {
		t.Fatalf("lines = %q", got)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := WriteFile(t, dir, filepath.Join("nested", "cfg.json"), `{"radius": 1}`)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"radius": 1}` {
		t.Fatalf("content = %q", data)
	}
}
