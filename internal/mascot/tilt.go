package mascot

import "github.com/ivlev/lobbyreel/internal/stage"

const (
	tiltDegrees = 15
	tiltScale   = 1.1
)

// Tilt leans the construction illustration towards the pointer
type Tilt struct {
	m      *stage.Mascot
	width  float64
	height float64
}

func NewTilt(ctx *stage.Context) *Tilt {
	ctx.Mascot = &stage.Mascot{Kind: "tilt", LeftOpen: true, RightOpen: true, EyeScaleY: 1, TiltScale: 1}
	return &Tilt{
		m:      ctx.Mascot,
		width:  float64(ctx.Page.Viewport.Width),
		height: float64(ctx.Page.Viewport.Height),
	}
}

// PointerMove sets rotateX = -(y-0.5)*15deg and rotateY = (x-0.5)*15deg
func (t *Tilt) PointerMove(x, y float64) {
	if t.width <= 0 || t.height <= 0 {
		return
	}
	t.m.TiltX = -(y/t.height - 0.5) * tiltDegrees
	t.m.TiltY = (x/t.width - 0.5) * tiltDegrees
	t.m.TiltScale = tiltScale
}

// Leave resets the tilt when the pointer exits the window
func (t *Tilt) Leave() {
	t.m.TiltX, t.m.TiltY, t.m.TiltScale = 0, 0, 1
}
