package lobby

import (
	"math"

	"github.com/ivlev/lobbyreel/internal/geom"
	"github.com/ivlev/lobbyreel/internal/stage"
)

// FlightDuration is the length of every focus/unfocus camera move, in seconds
const FlightDuration = 1.6

// lookDistance is how far ahead of the camera the starting look-at point sits
const lookDistance = 10

// Flight moves the camera between two poses with cosine easing
type Flight struct {
	cam        *stage.Camera
	fromPos    geom.Vec3
	fromLook   geom.Vec3
	toPos      geom.Vec3
	toLook     geom.Vec3
	duration   float64
	elapsed    float64
	onComplete func()
	done       bool
}

// NewFlight starts a flight from the camera's current pose
func NewFlight(cam *stage.Camera, toPos, toLook geom.Vec3, duration float64, onComplete func()) *Flight {
	dir := cam.Target.Sub(cam.Position).Normalize()
	return &Flight{
		cam:        cam,
		fromPos:    cam.Position,
		fromLook:   cam.Position.Add(dir.Scale(lookDistance)),
		toPos:      toPos,
		toLook:     toLook,
		duration:   duration,
		onComplete: onComplete,
	}
}

// Ease maps linear progress to 0.5(1 - cos(pi*alpha))
func Ease(alpha float64) float64 {
	return 0.5 * (1 - math.Cos(math.Pi*alpha))
}

// Step advances the flight and writes the camera. It reports whether
// the flight is still running after this step.
func (f *Flight) Step(dt float64) bool {
	if f.done {
		return false
	}
	f.elapsed += dt
	alpha := 1.0
	if f.duration > 0 {
		alpha = math.Min(f.elapsed/f.duration, 1)
	}
	e := Ease(alpha)
	f.cam.Position = f.fromPos.Lerp(f.toPos, e)
	f.cam.Target = f.fromLook.Lerp(f.toLook, e)
	if alpha < 1 {
		return true
	}
	f.done = true
	if f.onComplete != nil {
		f.onComplete()
	}
	return false
}

func (f *Flight) Done() bool { return f.done }
