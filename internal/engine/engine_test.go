package engine

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/lobbyreel/internal/analyzer"
	"github.com/ivlev/lobbyreel/internal/config"
	"github.com/ivlev/lobbyreel/internal/director"
	"github.com/ivlev/lobbyreel/internal/mascot"
	"github.com/ivlev/lobbyreel/internal/scene"
	"github.com/ivlev/lobbyreel/internal/video"
)

// memoryEncoder counts frames instead of spawning ffmpeg
type memoryEncoder struct {
	frames int
	closed bool
	size   image.Rectangle
}

func (e *memoryEncoder) Start(ctx context.Context, cfg *config.Config) (video.FrameWriter, error) {
	return e, nil
}

func (e *memoryEncoder) WriteFrame(img *image.RGBA) error {
	if e.size.Empty() {
		e.size = img.Bounds()
	}
	if img.Bounds() != e.size {
		return fmt.Errorf("frame %d has size %v", e.frames, img.Bounds())
	}
	e.frames++
	return nil
}

func (e *memoryEncoder) Close() error {
	e.closed = true
	return nil
}

func preset(t *testing.T, name string) *scene.Page {
	t.Helper()
	page, err := scene.Preset(name)
	if err != nil {
		t.Fatalf("preset %s: %v", name, err)
	}
	return page
}

func TestBuildWorld(t *testing.T) {
	tests := []struct {
		page      string
		mapper    bool
		lobby     bool
		mascot    string
		minEffect int
	}{
		{"scroll-lobby", true, false, "", 4},
		{"construction", true, false, "tilt", 7},
		{"lobby", false, true, "", 3},
		{"login", false, false, "panda", 2},
	}
	for _, tt := range tests {
		t.Run(tt.page, func(t *testing.T) {
			w, err := BuildWorld(preset(t, tt.page), 1)
			if err != nil {
				t.Fatalf("BuildWorld: %v", err)
			}
			if (w.Mapper != nil) != tt.mapper {
				t.Errorf("mapper present = %v, want %v", w.Mapper != nil, tt.mapper)
			}
			if (w.Lobby != nil) != tt.lobby {
				t.Errorf("lobby present = %v, want %v", w.Lobby != nil, tt.lobby)
			}
			kind := ""
			if w.Ctx.Mascot != nil {
				kind = w.Ctx.Mascot.Kind
			}
			if kind != tt.mascot {
				t.Errorf("mascot %q, want %q", kind, tt.mascot)
			}
			if len(w.Effects) < tt.minEffect {
				t.Errorf("expected at least %d effects, got %d", tt.minEffect, len(w.Effects))
			}
			for _, e := range w.Effects {
				t.Logf("%s: %s", tt.page, e.Name())
			}
		})
	}
}

func TestScrollDrivesSections(t *testing.T) {
	page := preset(t, "scroll-lobby")
	w, err := BuildWorld(page, 1)
	if err != nil {
		t.Fatalf("BuildWorld: %v", err)
	}
	extent := page.ScrollExtent()

	steps := []struct {
		percent float64
		active  string
	}{
		{0, "intro"},
		{0.35, ""},
		{0.5, "login-section"},
		{1, "construction-section"},
	}
	for _, s := range steps {
		w.ScrollTo(s.percent * extent)
		w.Scheduler.Frame(1.0 / 30)
		shown := w.Ctx.Board.Shown()
		got := ""
		if len(shown) > 0 {
			got = shown[0]
		}
		if got != s.active || len(shown) > 1 {
			t.Errorf("at %.2f: shown %v, want %q", s.percent, shown, s.active)
		}
	}
}

func TestDispatchLogin(t *testing.T) {
	w, err := BuildWorld(preset(t, "login"), 1)
	if err != nil {
		t.Fatalf("BuildWorld: %v", err)
	}
	login, ok := w.Mascot.(*mascot.Login)
	if !ok {
		t.Fatalf("expected login mascot, got %T", w.Mascot)
	}

	script := []director.Action{
		{Kind: director.ActionPointer, X: 1280, Y: 360},
		{Kind: director.ActionFocus, Target: "password"},
		{Kind: director.ActionToggle, Target: "password"},
		{Kind: director.ActionSignUp},
	}
	for _, a := range script {
		if err := w.Dispatch(a); err != nil {
			t.Fatalf("%s: %v", a.Kind, err)
		}
	}
	if login.State() != mascot.Peek {
		t.Errorf("expected peek, got %s", login.State())
	}
	if !w.Ctx.Mascot.PanelRight {
		t.Error("sign-up should slide the panel")
	}
	if w.Pointer.X != 1 {
		t.Errorf("pointer NDC x = %.2f, want 1", w.Pointer.X)
	}

	if err := w.Dispatch(director.Action{Kind: director.ActionClick}); err == nil {
		t.Error("click on a page without planets should fail")
	}
	if err := w.Dispatch(director.Action{Kind: director.ActionFocus, Target: "phone"}); err == nil {
		t.Error("unknown field should fail")
	}
}

func TestDispatchLobby(t *testing.T) {
	w, err := BuildWorld(preset(t, "lobby"), 1)
	if err != nil {
		t.Fatalf("BuildWorld: %v", err)
	}
	w.Scheduler.Frame(1.0 / 30)
	if err := w.Dispatch(director.Action{Kind: director.ActionAim, Target: "login"}); err != nil {
		t.Fatalf("aim: %v", err)
	}
	if err := w.Dispatch(director.Action{Kind: director.ActionClick}); err != nil {
		t.Fatalf("click: %v", err)
	}
	if w.Lobby.Focused() != "login" {
		t.Errorf("focused %q, want login", w.Lobby.Focused())
	}
	if err := w.Dispatch(director.Action{Kind: director.ActionFocus, Target: "email"}); err == nil {
		t.Error("form action on the lobby should fail")
	}
}

func TestRunStreamsEveryFrame(t *testing.T) {
	for _, name := range []string{"scroll-lobby", "lobby", "login"} {
		t.Run(name, func(t *testing.T) {
			cfg := &config.Config{
				TotalDuration: 2,
				Width:         160,
				Height:        90,
				FPS:           10,
				Workers:       3,
				Seed:          7,
			}
			enc := &memoryEncoder{}
			project := NewReelProject(cfg, preset(t, name), enc)
			if err := project.Run(context.Background()); err != nil {
				t.Fatalf("Run: %v", err)
			}
			if enc.frames != 20 {
				t.Errorf("expected 20 frames, got %d", enc.frames)
			}
			if !enc.closed {
				t.Error("encoder not closed")
			}
			if project.Script.Duration != 2 {
				t.Errorf("script should be fitted to 2s, got %.2f", project.Script.Duration)
			}
			t.Logf("%s: %d keyframes, %d actions", name, len(project.Script.Keyframes), len(project.Script.Actions))
		})
	}
}

func TestRunStopsOnRenderError(t *testing.T) {
	page := preset(t, "lobby")
	// too long for a QR code: the detail card cannot be drawn
	for i := range page.Planets {
		page.Planets[i].URL = "https://example.com/" + strings.Repeat("x", 4000)
	}
	cfg := &config.Config{
		TotalDuration: 12,
		Width:         160,
		Height:        90,
		FPS:           5,
		Workers:       4,
		Seed:          3,
	}
	enc := &memoryEncoder{}
	err := NewReelProject(cfg, page, enc).Run(context.Background())
	if err == nil {
		t.Fatal("expected a render error")
	}
	t.Logf("Run: %v", err)
	if !strings.Contains(err.Error(), "qr") {
		t.Errorf("unexpected error: %v", err)
	}
	if want := cfg.Params().FrameCount(); enc.frames >= want {
		t.Errorf("encoder received all %d frames despite the failure", want)
	}
	if !enc.closed {
		t.Error("encoder not closed")
	}
}

func TestRunGenerateScript(t *testing.T) {
	out := filepath.Join(t.TempDir(), "scripts", "tour.yaml")
	cfg := &config.Config{
		GenerateScript: true,
		ScriptOutput:   out,
		TotalDuration:  12,
		Width:          160,
		Height:         90,
		FPS:            10,
	}
	enc := &memoryEncoder{}
	if err := NewReelProject(cfg, preset(t, "construction"), enc).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if enc.frames != 0 {
		t.Errorf("script generation must not render, got %d frames", enc.frames)
	}

	script, err := director.ReadScript(out)
	if err != nil {
		t.Fatalf("ReadScript: %v", err)
	}
	if script.Page != "construction" {
		t.Errorf("page %q", script.Page)
	}

	// replay the written script
	cfg = &config.Config{ScriptInput: out, Width: 160, Height: 90, FPS: 5, Workers: 2}
	enc = &memoryEncoder{}
	if err := NewReelProject(cfg, preset(t, "construction"), enc).Run(context.Background()); err != nil {
		t.Fatalf("Run with script: %v", err)
	}
	if want := cfg.Params().FrameCount(); enc.frames != want {
		t.Errorf("expected %d frames, got %d", want, enc.frames)
	}
}

func TestVerify(t *testing.T) {
	det, err := analyzer.NewDetector("contrast")
	if err != nil {
		t.Fatalf("NewDetector: %v", err)
	}
	for _, name := range []string{"scroll-lobby", "construction"} {
		t.Run(name, func(t *testing.T) {
			results, err := Verify(preset(t, name), 320, 180, det)
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
			for _, r := range results {
				t.Logf("%.2f: expected %q, found %v %v", r.Percent, r.Expected, r.Found, r.Block.Rect)
				if !r.OK() {
					t.Errorf("at %.2f: expected %q, card found = %v", r.Percent, r.Expected, r.Found)
				}
			}
		})
	}

	if _, err := Verify(preset(t, "lobby"), 320, 180, det); err == nil {
		t.Error("lobby has no sections to verify")
	}
}
