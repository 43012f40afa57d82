package effects

import (
	"math"
	"math/rand"
	"testing"

	"github.com/ivlev/lobbyreel/internal/geom"
	"github.com/ivlev/lobbyreel/internal/scene"
	"github.com/ivlev/lobbyreel/internal/stage"
)

func newContext(t *testing.T, preset string) *stage.Context {
	t.Helper()
	page, err := scene.Preset(preset)
	if err != nil {
		t.Fatalf("Preset failed: %v", err)
	}
	return stage.NewContext(page)
}

func TestForPageBuildsDeclaredEffects(t *testing.T) {
	tests := []struct {
		preset string
		want   []string
	}{
		{"lobby", []string{"spin:core", "pulse:core", "stars:stars"}},
		{"login", []string{"spin:mountain", "snow:snow"}},
	}

	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			ctx := newContext(t, tt.preset)
			got := ForPage(ctx, rand.New(rand.NewSource(1)), &Pointer{})
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d effects, got %d", len(tt.want), len(got))
			}
			for i, e := range got {
				if e.Name() != tt.want[i] {
					t.Errorf("effect %d: expected %s, got %s", i, tt.want[i], e.Name())
				}
			}
		})
	}
}

func TestPulseRange(t *testing.T) {
	ctx := newContext(t, "lobby")
	core := ctx.Body("core")
	p := &Pulse{Ctx: ctx, Body: core, Base: 3}

	for i := 0; i < 120; i++ {
		ctx.Elapsed = float64(i) / 30
		p.Tick(1.0 / 30)
		if core.Emissive < 3-1e-6 || core.Emissive > 5+1e-6 {
			t.Fatalf("emissive out of range at t=%.2f: %f", ctx.Elapsed, core.Emissive)
		}
		if core.Scale < 1-1e-6 || core.Scale > 1.05+1e-6 {
			t.Fatalf("scale out of range at t=%.2f: %f", ctx.Elapsed, core.Scale)
		}
	}

	ctx.Elapsed = 0
	p.Tick(0)
	if math.Abs(core.Emissive-4) > 1e-6 {
		t.Errorf("expected emissive 4 at t=0, got %f", core.Emissive)
	}
}

func TestSpinScalesWithFrameTime(t *testing.T) {
	body := &stage.Body{ID: "b"}
	s := &Spin{Body: body, Rate: geom.V(0, 0.01, 0)}

	// two 30 fps frames cover the same time as four 60 fps frames
	s.Tick(1.0 / 30)
	s.Tick(1.0 / 30)
	if math.Abs(body.Rotation.Y-0.04) > 1e-12 {
		t.Errorf("expected rotation 0.04, got %f", body.Rotation.Y)
	}
}

func TestOrbitHold(t *testing.T) {
	ctx := stage.NewContext(&scene.Page{Name: "t"})
	body := &stage.Body{ID: "planet"}
	o := &Orbit{Ctx: ctx, Body: body, Radius: 20, Speed: 0.5}

	ctx.Elapsed = 0
	o.Tick(0)
	if !body.Position.ApproxEqual(geom.V(20, 0, 0), 1e-5) {
		t.Errorf("expected start at (20,0,0), got %+v", body.Position)
	}

	ctx.Elapsed = math.Pi
	o.Tick(0)
	held := body.Position
	if math.Abs(held.Len()-20) > 1e-4 {
		t.Errorf("planet left its orbit: radius %f", held.Len())
	}
	if !held.ApproxEqual(geom.V(0, 0, -20), 1e-4) {
		t.Errorf("expected quarter turn at (0,0,-20), got %+v", held)
	}

	o.Hold = true
	ctx.Elapsed = 5
	o.Tick(0)
	if body.Position != held {
		t.Errorf("held planet moved: %+v", body.Position)
	}
}

func TestBobAroundBase(t *testing.T) {
	ctx := stage.NewContext(&scene.Page{Name: "t"})
	body := &stage.Body{ID: "penguin", Position: geom.V(0, 1, 0)}
	b := &Bob{Ctx: ctx, Body: body, Phase: 2, BaseY: 1}
	for i := 0; i < 100; i++ {
		ctx.Elapsed = float64(i) * 0.05
		b.Tick(0.05)
		if math.Abs(body.Position.Y-1) > 0.1+1e-6 {
			t.Fatalf("bob exceeded amplitude: y=%f", body.Position.Y)
		}
	}
}

func TestStarFieldInsideCube(t *testing.T) {
	f := &stage.Field{ID: "stars"}
	NewStarField(f, 1000, 100, geom.V(0, 0.0001, 0), nil, rand.New(rand.NewSource(7)))
	if len(f.Points) != 3000 {
		t.Fatalf("expected 3000 coordinates, got %d", len(f.Points))
	}
	for i, v := range f.Points {
		if v < -50 || v > 50 {
			t.Fatalf("coordinate %d out of cube: %f", i, v)
		}
	}
	if !f.Static {
		t.Error("star field should be static")
	}
}

func TestStarFieldFollowsPointer(t *testing.T) {
	f := &stage.Field{ID: "stars"}
	ptr := &Pointer{X: 0.5, Y: -1}
	s := NewStarField(f, 10, 10, geom.V(0, 1, 0), ptr, rand.New(rand.NewSource(1)))
	s.Tick(1.0 / 60)
	if math.Abs(f.Rotation.X-0.05) > 1e-12 || math.Abs(f.Rotation.Y+0.025) > 1e-12 {
		t.Errorf("unexpected rotation %+v", f.Rotation)
	}
}

func TestSnowFieldWraps(t *testing.T) {
	f := &stage.Field{ID: "snow"}
	s := NewSnowField(f, 150, 1280, 720, rand.New(rand.NewSource(3)))

	for i := 0; i < 150; i++ {
		dx, dy := s.Speed(i)
		if dy < 0.5 || dy >= 1.5 {
			t.Fatalf("flake %d: vertical speed %f out of range", i, dy)
		}
		if dx < -0.5 || dx >= 0.5 {
			t.Fatalf("flake %d: drift %f out of range", i, dx)
		}
	}

	// push flake 0 just past the bottom
	f.Points[1] = 720
	s.Tick(1.0 / 60)
	if f.Points[1] != -10 {
		t.Errorf("expected flake to restart at y=-10, got %f", f.Points[1])
	}

	for frame := 0; frame < 600; frame++ {
		s.Tick(1.0 / 60)
	}
	for i := 0; i < 150; i++ {
		x, y := f.Points[i*3], f.Points[i*3+1]
		if x < 0 || x > 1280 {
			t.Fatalf("flake %d left the viewport horizontally: x=%f", i, x)
		}
		if y < -10 || y > 720+1.5 {
			t.Fatalf("flake %d left the viewport vertically: y=%f", i, y)
		}
	}
}
