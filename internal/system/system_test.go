package system

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFindLatestFile(t *testing.T) {
	dir := t.TempDir()
	names := []string{"a.mp3", "b.WAV", "c.txt"}
	for i, n := range names {
		p := filepath.Join(dir, n)
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		mod := time.Now().Add(time.Duration(i) * time.Minute)
		os.Chtimes(p, mod, mod)
	}

	got, err := FindLatestAudio(dir)
	if err != nil {
		t.Fatalf("FindLatestAudio failed: %v", err)
	}
	if filepath.Base(got) != "b.WAV" {
		t.Errorf("expected b.WAV, got %s", got)
	}

	if _, err := FindLatestFile(dir, ".pdf"); err == nil {
		t.Error("expected error when nothing matches")
	}
}

func TestDefaultQuality(t *testing.T) {
	tests := map[string]int{
		"h264_videotoolbox": 75,
		"h264_nvenc":        28,
		"libx264":           23,
	}
	for enc, want := range tests {
		if got := DefaultQuality(enc); got != want {
			t.Errorf("%s: expected %d, got %d", enc, want, got)
		}
	}
}

func TestFramePoolReuse(t *testing.T) {
	pool := NewFramePool()
	rect := image.Rect(0, 0, 64, 32)

	a := pool.Get(rect)
	if a.Rect != rect {
		t.Fatalf("unexpected bounds %v", a.Rect)
	}
	pool.Put(a)
	pool.Put(image.NewRGBA(image.Rect(0, 0, 8, 8))) // foreign size is dropped
	pool.Put(nil)

	b := pool.Get(rect)
	if b.Rect != rect {
		t.Errorf("unexpected bounds %v", b.Rect)
	}
	if n := pool.Allocated(); n < 1 || n > 2 {
		t.Errorf("unexpected allocation count %d", n)
	}
}

func TestWorkersFor(t *testing.T) {
	frame := 1280 * 720 * 4
	tests := []struct {
		name  string
		stats HostStats
		want  int
	}{
		{"cpu bound", HostStats{LogicalCores: 8, MemAvailable: 16 << 30}, 8},
		{"memory bound", HostStats{LogicalCores: 8, MemAvailable: uint64(frame) * 2 * 4 * 3}, 3},
		{"tiny host", HostStats{LogicalCores: 0, MemAvailable: 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := workersFor(tt.stats, frame); got != tt.want {
				t.Errorf("expected %d workers, got %d", tt.want, got)
			}
		})
	}
}
