package effects

import (
	"github.com/chewxy/math32"

	"github.com/ivlev/lobbyreel/internal/geom"
	"github.com/ivlev/lobbyreel/internal/stage"
)

const twoPi = 2 * math32.Pi

// Pulse breathes the emissive intensity and size of a glowing body
type Pulse struct {
	Ctx  *stage.Context
	Body *stage.Body
	Base float64
}

func (p *Pulse) Name() string { return "pulse:" + p.Body.ID }

// Tick sets emissive = base + 2*pulse and scale = 1 + 0.05*pulse, pulse = sin(1.5t)/2 + 1/2
func (p *Pulse) Tick(float64) {
	pulse := PulseAt(p.Ctx.Elapsed)
	p.Body.Emissive = p.Base + float64(pulse)*2
	p.Body.Scale = 1 + float64(pulse)*0.05
}

// PulseAt is the pulse phase in [0,1] at time t
func PulseAt(t float64) float32 {
	return math32.Sin(float32(t)*1.5)*0.5 + 0.5
}

// Bob floats a body up and down around its resting height
type Bob struct {
	Ctx   *stage.Context
	Body  *stage.Body
	Phase float64
	BaseY float64
}

func (b *Bob) Name() string { return "bob:" + b.Body.ID }

func (b *Bob) Tick(float64) {
	b.Body.Position.Y = b.BaseY + float64(math32.Sin(float32(b.Ctx.Elapsed)*2+float32(b.Phase))*0.1)
}

// Orbit swings a body around the Y axis: angle = elapsed * speed.
// While Hold is set the body keeps its last position.
type Orbit struct {
	Ctx    *stage.Context
	Body   *stage.Body
	Center geom.Vec3
	Radius float64
	Speed  float64
	Hold   bool
	angle  float32
}

func (o *Orbit) Name() string { return "orbit:" + o.Body.ID }

func (o *Orbit) Tick(float64) {
	if o.Hold {
		return
	}
	o.angle = math32.Mod(float32(o.Ctx.Elapsed)*float32(o.Speed), twoPi)
	o.Body.Position = o.PositionAt(o.angle)
}

// Angle is the current pivot rotation in radians
func (o *Orbit) Angle() float32 { return o.angle }

// PositionAt places the body on its orbit for a pivot rotation
func (o *Orbit) PositionAt(angle float32) geom.Vec3 {
	s, c := math32.Sincos(angle)
	return o.Center.Add(geom.V(o.Radius*float64(c), 0, -o.Radius*float64(s)))
}
