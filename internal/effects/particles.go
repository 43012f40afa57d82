package effects

import (
	"math/rand"

	"github.com/ivlev/lobbyreel/internal/geom"
	"github.com/ivlev/lobbyreel/internal/stage"
)

// Pointer sensitivity of pointer-driven star fields, radians per unit offset
const pointerTilt = 0.05

// StarField scatters points uniformly in a cube and turns the whole field.
// With a pointer the field leans toward it instead of spinning.
type StarField struct {
	Field   *stage.Field
	Rate    geom.Vec3
	Pointer *Pointer
}

func NewStarField(f *stage.Field, count int, spread float64, rate geom.Vec3, pointer *Pointer, rng *rand.Rand) *StarField {
	half := float32(spread) / 2
	f.Points = make([]float32, 0, count*3)
	for i := 0; i < count; i++ {
		f.Points = append(f.Points,
			rng.Float32()*float32(spread)-half,
			rng.Float32()*float32(spread)-half,
			rng.Float32()*float32(spread)-half,
		)
	}
	f.Static = true
	return &StarField{Field: f, Rate: rate, Pointer: pointer}
}

func (s *StarField) Name() string { return "stars:" + s.Field.ID }

func (s *StarField) Tick(dt float64) {
	if s.Pointer != nil {
		s.Field.Rotation.X = -s.Pointer.Y * pointerTilt
		s.Field.Rotation.Y = -s.Pointer.X * pointerTilt
		return
	}
	s.Field.Rotation = s.Field.Rotation.Add(s.Rate.Scale(dt * refFrameRate))
}

// SnowField drops flakes across the viewport in pixel space.
// Points hold x, y and radius per flake.
type SnowField struct {
	Field         *stage.Field
	Width, Height float32
	speedX        []float32
	speedY        []float32
	rng           *rand.Rand
}

func NewSnowField(f *stage.Field, count int, width, height float64, rng *rand.Rand) *SnowField {
	s := &SnowField{
		Field:  f,
		Width:  float32(width),
		Height: float32(height),
		speedX: make([]float32, count),
		speedY: make([]float32, count),
		rng:    rng,
	}
	f.Points = make([]float32, 0, count*3)
	for i := 0; i < count; i++ {
		f.Points = append(f.Points,
			rng.Float32()*s.Width,
			rng.Float32()*s.Height,
			rng.Float32()*2+1,
		)
		s.speedY[i] = rng.Float32() + 0.5
		s.speedX[i] = rng.Float32() - 0.5
	}
	return s
}

func (s *SnowField) Name() string { return "snow:" + s.Field.ID }

// Tick moves every flake. Flakes below the bottom edge restart at y = -10
// with a fresh x; flakes leaving a side re-enter from the other side.
func (s *SnowField) Tick(dt float64) {
	step := float32(dt * refFrameRate)
	pts := s.Field.Points
	for i := range s.speedY {
		x, y := &pts[i*3], &pts[i*3+1]
		*y += s.speedY[i] * step
		*x += s.speedX[i] * step
		if *y > s.Height {
			*y = -10
			*x = s.rng.Float32() * s.Width
		}
		if *x > s.Width {
			*x = 0
		} else if *x < 0 {
			*x = s.Width
		}
	}
}

// Speed reports the per-reference-frame velocity of flake i
func (s *SnowField) Speed(i int) (dx, dy float32) {
	return s.speedX[i], s.speedY[i]
}
