package stage

import (
	"math"
	"testing"

	"github.com/ivlev/lobbyreel/internal/scene"
	"github.com/ivlev/lobbyreel/internal/scroll"
)

func newLobbyContext(t *testing.T) (*Context, *scroll.Mapper) {
	t.Helper()
	page, err := scene.Preset("scroll-lobby")
	if err != nil {
		t.Fatalf("Preset failed: %v", err)
	}
	page.Camera.Follow = "snap"
	ctx := NewContext(page)

	path, err := scroll.NewPath(scene.Vecs(page.Camera.Path))
	if err != nil {
		t.Fatalf("NewPath failed: %v", err)
	}
	sections, err := page.ScrollSections()
	if err != nil {
		t.Fatalf("ScrollSections failed: %v", err)
	}
	m, err := scroll.NewMapper(scroll.Options{
		Path:     path,
		LookAt:   page.Camera.LookAt.Vec(),
		Sections: sections,
		Mode:     scroll.Snap,
	}, ctx.Camera, ctx.Board)
	if err != nil {
		t.Fatalf("NewMapper failed: %v", err)
	}
	return ctx, m
}

func TestBoardIgnoresUnknownIDs(t *testing.T) {
	b := NewBoard("intro", "login-section")
	if b.SetVisible("missing", true) {
		t.Error("unknown id should be rejected")
	}
	if !b.SetVisible("intro", true) {
		t.Error("known id should be accepted")
	}
	if got := b.Shown(); len(got) != 1 || got[0] != "intro" {
		t.Errorf("unexpected shown list %v", got)
	}
}

func TestSchedulerDrivesMapper(t *testing.T) {
	ctx, m := newLobbyContext(t)
	sched := NewScheduler(ctx, Document{Height: 2880, ViewportHeight: 720})
	sched.OnScroll(m)
	sched.OnFrame(m)

	first := ctx.Page.Camera.Path[0].Vec()
	last := ctx.Page.Camera.Path[len(ctx.Page.Camera.Path)-1].Vec()

	sched.Scroll(0)
	sched.Frame(1.0 / 30)
	if ctx.Camera.Position != first {
		t.Errorf("expected camera at %+v, got %+v", first, ctx.Camera.Position)
	}
	if got := ctx.Board.Shown(); len(got) != 1 || got[0] != "intro" {
		t.Errorf("expected intro visible, got %v", got)
	}

	p := sched.Scroll(sched.Extent() * 0.55)
	if math.Abs(p-0.55) > 1e-12 {
		t.Errorf("expected percent 0.55, got %f", p)
	}
	if got := ctx.Board.Shown(); len(got) != 1 || got[0] != "login-section" {
		t.Errorf("expected login-section visible, got %v", got)
	}

	sched.Scroll(sched.Extent())
	sched.Frame(1.0 / 30)
	if ctx.Camera.Position != last {
		t.Errorf("expected camera at %+v, got %+v", last, ctx.Camera.Position)
	}
	if got := ctx.Board.Shown(); len(got) != 1 || got[0] != "construction-section" {
		t.Errorf("expected construction-section visible, got %v", got)
	}
	if ctx.Frame != 2 {
		t.Errorf("expected 2 frames, got %d", ctx.Frame)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	ctx, _ := newLobbyContext(t)
	ctx.Fields[0].Points = []float32{1, 2, 3}
	ctx.Board.SetVisible("intro", true)

	snap := ctx.Snapshot()
	ctx.Fields[0].Points[0] = 42
	ctx.Bodies[0].Scale = 7
	ctx.Camera.Position.X = 99
	ctx.Board.SetVisible("intro", false)

	if snap.Fields[0].Points[0] != 1 {
		t.Error("snapshot shares field points")
	}
	if snap.Bodies[0].Scale != 1 {
		t.Error("snapshot shares bodies")
	}
	if snap.Camera.Position.X == 99 {
		t.Error("snapshot shares camera")
	}
	if !snap.Visible["intro"] {
		t.Error("snapshot shares visibility")
	}
}
