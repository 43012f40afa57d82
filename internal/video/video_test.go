package video

import (
	"context"
	"image"
	"image/png"
	"os"
	"strings"
	"testing"

	"github.com/ivlev/lobbyreel/internal/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		OutputVideo:   "out.mp4",
		TotalDuration: 10,
		Width:         1280,
		Height:        720,
		FPS:           30,
		FadeDuration:  0.5,
		VideoEncoder:  "libx264",
		Quality:       23,
	}
}

func argValue(args []string, flag string) (string, bool) {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			return args[i+1], true
		}
	}
	return "", false
}

func TestBuildFFmpegArgs(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *config.Config)
		wantGraph []string
		wantMaps  int
	}{
		{"video only", func(c *config.Config) {}, []string{"fade=t=in", "fade=t=out:st=9.500"}, 1},
		{"no fade", func(c *config.Config) { c.FadeDuration = 0 }, nil, 1},
		{"audio", func(c *config.Config) { c.AudioPath = "voice.mp3" }, []string{"[vout]"}, 2},
		{"background", func(c *config.Config) { c.BackgroundAudio = "bg.mp3"; c.BackgroundVolume = 0.2 }, []string{"[1:a]volume="}, 2},
		{"mix", func(c *config.Config) {
			c.AudioPath = "voice.mp3"
			c.BackgroundAudio = "bg.mp3"
		}, []string{"[2:a]volume=", "amix=inputs=2"}, 2},
	}

	e := &FFmpegEncoder{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(cfg)
			args := e.buildFFmpegArgs(cfg)
			t.Logf("ffmpeg %s", strings.Join(args, " "))

			if size, _ := argValue(args, "-video_size"); size != "1280x720" {
				t.Errorf("video size %q", size)
			}
			if args[len(args)-1] != "out.mp4" {
				t.Errorf("output must be last, got %q", args[len(args)-1])
			}
			graph, hasGraph := argValue(args, "-filter_complex")
			if len(tt.wantGraph) == 0 && hasGraph {
				t.Errorf("unexpected filter graph %q", graph)
			}
			for _, want := range tt.wantGraph {
				if !strings.Contains(graph, want) {
					t.Errorf("filter graph %q should contain %q", graph, want)
				}
			}
			maps := 0
			for _, a := range args {
				if a == "-map" {
					maps++
				}
			}
			if maps != tt.wantMaps {
				t.Errorf("expected %d -map, got %d", tt.wantMaps, maps)
			}
		})
	}
}

func TestBuildFFmpegArgsLoopsBackground(t *testing.T) {
	cfg := baseConfig()
	cfg.BackgroundAudio = "bg.mp3"
	args := (&FFmpegEncoder{}).buildFFmpegArgs(cfg)
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-stream_loop -1 -i bg.mp3") {
		t.Errorf("background audio must loop: %s", joined)
	}
	if d, _ := argValue(args, "-t"); d != "10.000000" {
		t.Errorf("output must be cut to the reel duration, got %q", d)
	}
}

func TestFadeFilter(t *testing.T) {
	if got := FadeFilter(config.FrameParams{Duration: 0.8, FadeDuration: 0.5}); got != "" {
		t.Errorf("short reel should skip fades, got %q", got)
	}
	got := FadeFilter(config.FrameParams{Duration: 4, FadeDuration: 1})
	if got != "fade=t=in:st=0:d=1.000,fade=t=out:st=3.000:d=1.000" {
		t.Errorf("unexpected filter %q", got)
	}
}

func TestQualityArgs(t *testing.T) {
	tests := []struct {
		encoder string
		quality int
		want    string
	}{
		{"libx264", 23, "-crf 23 -preset medium"},
		{"h264_nvenc", 28, "-cq 28"},
		{"h264_videotoolbox", 75, "-b:v 7500k"},
	}
	for _, tt := range tests {
		t.Run(tt.encoder, func(t *testing.T) {
			if got := strings.Join(QualityArgs(tt.encoder, tt.quality), " "); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPNGSequence(t *testing.T) {
	dir := t.TempDir()
	cfg := baseConfig()
	cfg.FramesDir = dir
	w, err := PNGSequence{}.Start(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := w.WriteFrame(image.NewRGBA(image.Rect(0, 0, 8, 4))); err != nil {
			t.Fatalf("WriteFrame %d: %v", i, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(FramePath(dir, 2))
	if err != nil {
		t.Fatalf("third frame missing: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 4 {
		t.Errorf("unexpected size %v", img.Bounds())
	}
	if _, err := (PNGSequence{}).Start(context.Background(), baseConfig()); err == nil {
		t.Error("expected error without frames dir")
	}
}

func TestWriteRawRGBASubImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = byte(i)
	}
	sub := img.SubImage(image.Rect(1, 1, 3, 3)).(*image.RGBA)
	var buf strings.Builder
	if err := writeRawRGBA(&buf, sub); err != nil {
		t.Fatalf("writeRawRGBA: %v", err)
	}
	if buf.Len() != 2*2*4 {
		t.Errorf("expected 16 bytes, got %d", buf.Len())
	}
}
