package scroll

import (
	"math"
	"testing"

	"github.com/ivlev/lobbyreel/internal/geom"
)

type recordingCamera struct {
	poses []Pose
}

func (c *recordingCamera) SetPose(p Pose) { c.poses = append(c.poses, p) }

type recordingBoard struct {
	known   map[string]bool
	visible map[string]bool
	misses  int
}

func newRecordingBoard(ids ...string) *recordingBoard {
	b := &recordingBoard{known: map[string]bool{}, visible: map[string]bool{}}
	for _, id := range ids {
		b.known[id] = true
	}
	return b
}

func (b *recordingBoard) SetVisible(id string, visible bool) bool {
	if !b.known[id] {
		b.misses++
		return false
	}
	b.visible[id] = visible
	return true
}

func (b *recordingBoard) shown() []string {
	var out []string
	for _, id := range []string{"A", "B", "C"} {
		if b.visible[id] {
			out = append(out, id)
		}
	}
	return out
}

func newTestMapper(t *testing.T, mode FollowMode, cam CameraSink, board VisibilitySink) *Mapper {
	t.Helper()
	path, err := NewPath(lobbyPath)
	if err != nil {
		t.Fatalf("NewPath failed: %v", err)
	}
	m, err := NewMapper(Options{
		Path:     path,
		LookAt:   geom.V(0, 0, -20),
		Sections: testSections(t),
		Mode:     mode,
	}, cam, board)
	if err != nil {
		t.Fatalf("NewMapper failed: %v", err)
	}
	return m
}

func TestMapperEndToEndSnap(t *testing.T) {
	cam := &recordingCamera{}
	board := newRecordingBoard("A", "B", "C")
	m := newTestMapper(t, Snap, cam, board)

	// offset 0 of max 1000
	m.OnScrollChanged(ComputeScrollPercent(0, 1720, 720))
	if len(cam.poses) != 1 {
		t.Fatalf("expected 1 camera write, got %d", len(cam.poses))
	}
	if cam.poses[0].Position != lobbyPath[0] {
		t.Errorf("expected camera at first control point, got %+v", cam.poses[0].Position)
	}
	if got := board.shown(); len(got) != 1 || got[0] != "A" {
		t.Errorf("expected only A visible, got %v", got)
	}

	// offset 500 of max 1000
	m.OnScrollChanged(ComputeScrollPercent(500, 1720, 720))
	pos := cam.poses[len(cam.poses)-1].Position
	path, _ := NewPath(lobbyPath)
	traveled := path.ArcLength(0, path.ParamAt(0.5))
	if math.Abs(traveled/path.Length()-0.5) > 1e-3 {
		t.Errorf("expected camera ~50%% along the path, got %.4f", traveled/path.Length())
	}
	if !pos.ApproxEqual(path.PointAt(0.5), 1e-9) {
		t.Errorf("snap mode should write the path point, got %+v", pos)
	}
	if got := board.shown(); len(got) != 1 || got[0] != "B" {
		t.Errorf("expected only B visible, got %v", got)
	}

	// into the gap: everything hidden
	m.OnScrollChanged(0.75)
	if got := board.shown(); len(got) != 0 {
		t.Errorf("expected nothing visible in the gap, got %v", got)
	}
	if m.Active() != None {
		t.Errorf("expected no active section, got %q", m.Active())
	}
}

func TestMapperEaseFollow(t *testing.T) {
	cam := &recordingCamera{}
	m := newTestMapper(t, Ease, cam, nil)

	m.OnScrollChanged(0)
	if len(cam.poses) != 0 {
		t.Fatalf("ease mode must not write on scroll, got %d writes", len(cam.poses))
	}
	m.OnScrollChanged(1)

	start := lobbyPath[0]
	end := lobbyPath[len(lobbyPath)-1]
	m.Tick(1.0 / 60)
	first := cam.poses[0].Position
	expected := start.Lerp(end, DefaultDamping)
	if !first.ApproxEqual(expected, 1e-9) {
		t.Errorf("first eased position %+v, expected %+v", first, expected)
	}

	prevDist := first.Dist(end)
	for i := 0; i < 300; i++ {
		m.Tick(1.0 / 60)
		d := m.Current().Position.Dist(end)
		if d > prevDist {
			t.Fatalf("ease moved away from target at frame %d", i)
		}
		prevDist = d
	}
	if prevDist > 1e-3 {
		t.Errorf("expected camera to settle on the target, still %.5f away", prevDist)
	}
}

func TestMapperStartPosition(t *testing.T) {
	path, _ := NewPath(lobbyPath)
	start := geom.V(0, 0, 50)
	cam := &recordingCamera{}
	m, err := NewMapper(Options{Path: path, Mode: Ease, Damping: 0.5, Start: &start}, cam, nil)
	if err != nil {
		t.Fatalf("NewMapper failed: %v", err)
	}
	m.OnScrollChanged(0)
	m.Tick(0.016)
	expected := start.Lerp(lobbyPath[0], 0.5)
	if !cam.poses[0].Position.ApproxEqual(expected, 1e-9) {
		t.Errorf("expected %+v, got %+v", expected, cam.poses[0].Position)
	}
}

func TestMapperPureQueries(t *testing.T) {
	m := newTestMapper(t, Snap, nil, nil)
	for _, p := range []float64{0, 0.2, 0.5, 0.77, 1} {
		a, b := m.PoseAt(p), m.PoseAt(p)
		if a != b {
			t.Errorf("PoseAt(%.2f) not idempotent", p)
		}
		if m.ActiveSectionAt(p) != m.ActiveSectionAt(p) {
			t.Errorf("ActiveSectionAt(%.2f) not idempotent", p)
		}
	}
	if m.PoseAt(2) != m.PoseAt(1) || m.PoseAt(-1) != m.PoseAt(0) {
		t.Error("out-of-range percent should be clamped")
	}
	if m.PoseAt(0.5).Target != geom.V(0, 0, -20) {
		t.Error("fixed look-at target expected")
	}
}

func TestMapperMissingElementsAreIgnored(t *testing.T) {
	board := newRecordingBoard("B")
	m := newTestMapper(t, Snap, nil, board)

	m.OnScrollChanged(0.1)
	m.OnScrollChanged(0.5)
	if board.misses == 0 {
		t.Error("expected writes to unknown elements to be attempted and ignored")
	}
	if !board.visible["B"] {
		t.Error("known element should still be updated")
	}
	if m.Active() != "B" {
		t.Errorf("expected B active, got %q", m.Active())
	}
}

func TestMapperLookAtPath(t *testing.T) {
	path, _ := NewPath(lobbyPath)
	look, _ := NewPath([]geom.Vec3{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: -50}})
	m, err := NewMapper(Options{Path: path, LookAtPath: look}, nil, nil)
	if err != nil {
		t.Fatalf("NewMapper failed: %v", err)
	}
	if got := m.PoseAt(0.5).Target; !got.ApproxEqual(geom.V(0, 0, -25), 1e-6) {
		t.Errorf("expected interpolated look-at, got %+v", got)
	}
}

func TestNewMapperRejectsBadDamping(t *testing.T) {
	path, _ := NewPath(lobbyPath)
	for _, d := range []float64{1.5, -0.1, math.NaN(), math.Inf(1)} {
		if _, err := NewMapper(Options{Path: path, Mode: Ease, Damping: d}, nil, nil); err == nil {
			t.Errorf("expected error for damping %g", d)
		}
	}
	if _, err := NewMapper(Options{}, nil, nil); err == nil {
		t.Error("expected error for missing path")
	}
}
