package scroll

import (
	"fmt"
	"strings"

	"github.com/ivlev/lobbyreel/internal/geom"
)

// FollowMode selects how the camera follows the path target
type FollowMode int

const (
	// Snap writes the path point to the camera on every update
	Snap FollowMode = iota
	// Ease moves the camera towards the path point by a fixed fraction per frame
	Ease
)

// DefaultDamping is the per-frame easing fraction used by Ease
const DefaultDamping = 0.05

func (m FollowMode) String() string {
	switch m {
	case Snap:
		return "snap"
	case Ease:
		return "ease"
	}
	return fmt.Sprintf("FollowMode(%d)", int(m))
}

// ParseFollowMode accepts "snap" and "ease"; empty means snap
func ParseFollowMode(s string) (FollowMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "snap":
		return Snap, nil
	case "ease", "lerp":
		return Ease, nil
	}
	return Snap, fmt.Errorf("unknown follow mode: %s", s)
}

// Pose is a camera position and the point it looks at
type Pose struct {
	Position geom.Vec3
	Target   geom.Vec3
}

// CameraSink receives camera poses
type CameraSink interface {
	SetPose(Pose)
}

// VisibilitySink toggles the "visible" state of content sections.
// It returns false when the element is unknown; the mapper ignores that.
type VisibilitySink interface {
	SetVisible(id string, visible bool) bool
}

// Options configures a Mapper. Path is required; LookAtPath, when set,
// overrides the fixed LookAt point.
type Options struct {
	Path       *Path
	LookAt     geom.Vec3
	LookAtPath *Path
	Sections   Sections
	Mode       FollowMode
	Damping    float64
	// Start is the camera position before the first update. Nil starts on the path.
	Start *geom.Vec3
}

// Mapper turns a scroll fraction into a camera pose and an active section
// and pushes both to its sinks. It is not safe for concurrent use; all calls
// come from the single frame loop.
type Mapper struct {
	path       *Path
	lookAt     geom.Vec3
	lookAtPath *Path
	sections   Sections
	mode       FollowMode
	damping    float64

	camera CameraSink
	board  VisibilitySink

	percent float64
	target  Pose
	current Pose
	active  string
	started bool
}

// NewMapper builds a mapper; nil sinks are allowed and simply receive nothing
func NewMapper(opts Options, camera CameraSink, board VisibilitySink) (*Mapper, error) {
	if opts.Path == nil {
		return nil, ErrTooFewPoints
	}
	damping := opts.Damping
	if damping == 0 {
		damping = DefaultDamping
	}
	if !(damping > 0 && damping <= 1) {
		return nil, fmt.Errorf("damping must be in (0,1], got %g", damping)
	}
	m := &Mapper{
		path:       opts.Path,
		lookAt:     opts.LookAt,
		lookAtPath: opts.LookAtPath,
		sections:   opts.Sections,
		mode:       opts.Mode,
		damping:    damping,
		camera:     camera,
		board:      board,
	}
	if opts.Start != nil {
		m.current = Pose{Position: *opts.Start, Target: m.lookAtAt(0)}
		m.started = true
	}
	return m, nil
}

// PoseAt is the path pose for a scroll fraction; it has no side effects
func (m *Mapper) PoseAt(percent float64) Pose {
	percent = Clamp01(percent)
	return Pose{
		Position: m.path.PointAt(percent),
		Target:   m.lookAtAt(percent),
	}
}

func (m *Mapper) lookAtAt(percent float64) geom.Vec3 {
	if m.lookAtPath != nil {
		return m.lookAtPath.PointAt(percent)
	}
	return m.lookAt
}

// ActiveSectionAt returns the section id for a scroll fraction, or None
func (m *Mapper) ActiveSectionAt(percent float64) string {
	return m.sections.ActiveAt(percent)
}

// OnScrollChanged records a new scroll fraction, updates the camera target
// and republishes section visibility.
func (m *Mapper) OnScrollChanged(percent float64) {
	m.percent = Clamp01(percent)
	m.target = m.PoseAt(m.percent)
	if !m.started {
		m.current = m.target
		m.started = true
	}
	if m.mode == Snap {
		m.current = m.target
		m.writeCamera()
	}
	m.publishSections()
}

// Tick advances the follow behaviour by one frame. Ease applies the damping
// fraction once per call regardless of dt.
func (m *Mapper) Tick(dt float64) {
	if !m.started {
		return
	}
	if m.mode == Ease {
		m.current = Pose{
			Position: m.current.Position.Lerp(m.target.Position, m.damping),
			Target:   m.current.Target.Lerp(m.target.Target, m.damping),
		}
	} else {
		m.current = m.target
	}
	m.writeCamera()
}

func (m *Mapper) writeCamera() {
	if m.camera != nil {
		m.camera.SetPose(m.current)
	}
}

// publishSections hides every section and shows the active one
func (m *Mapper) publishSections() {
	m.active = m.sections.ActiveAt(m.percent)
	if m.board == nil {
		return
	}
	for _, s := range m.sections {
		m.board.SetVisible(s.ID, s.ID == m.active)
	}
}

// Percent is the last scroll fraction received
func (m *Mapper) Percent() float64 { return m.percent }

// Active is the section made visible by the last scroll update
func (m *Mapper) Active() string { return m.active }

// Current is the pose last written to the camera
func (m *Mapper) Current() Pose { return m.current }

// Target is the path pose the camera is heading to
func (m *Mapper) Target() Pose { return m.target }

// Mode reports the follow mode
func (m *Mapper) Mode() FollowMode { return m.mode }

// Sections returns the threshold set
func (m *Mapper) Sections() Sections { return m.sections }
