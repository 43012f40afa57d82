package geom

import "math"

// Basis is an orthonormal camera frame
type Basis struct {
	Right, Up, Forward Vec3
}

// LookAtBasis builds a right-handed camera frame looking from eye towards target.
// When forward is parallel to up, the world Z axis is used as a fallback up vector.
func LookAtBasis(eye, target, up Vec3) Basis {
	forward := target.Sub(eye).Normalize()
	if forward.LenSq() == 0 {
		forward = Vec3{0, 0, -1}
	}
	right := forward.Cross(up).Normalize()
	if right.LenSq() == 0 {
		right = forward.Cross(Vec3{0, 0, 1}).Normalize()
	}
	return Basis{Right: right, Up: right.Cross(forward), Forward: forward}
}

// Lens describes a perspective projection
type Lens struct {
	FOV    float64 // vertical field of view in degrees
	Aspect float64 // width / height
	Near   float64
	Far    float64
}

// Projected is a point in normalized device coordinates (-1..1, +Y up)
type Projected struct {
	X, Y  float64
	Depth float64 // distance along the view direction
	Scale float64 // screen-space units per world unit at this depth (NDC height)
}

func (l Lens) tanHalf() float64 {
	fov := l.FOV
	if fov <= 0 {
		fov = 60
	}
	return math.Tan(fov * math.Pi / 360)
}

// Project maps a world point to NDC. ok is false when the point is outside the near/far range.
func (l Lens) Project(eye Vec3, b Basis, p Vec3) (Projected, bool) {
	rel := p.Sub(eye)
	depth := rel.Dot(b.Forward)
	near := l.Near
	if near <= 0 {
		near = 0.1
	}
	if depth < near || (l.Far > 0 && depth > l.Far) {
		return Projected{}, false
	}
	th := l.tanHalf()
	aspect := l.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	scale := 1 / (depth * th)
	return Projected{
		X:     rel.Dot(b.Right) * scale / aspect,
		Y:     rel.Dot(b.Up) * scale,
		Depth: depth,
		Scale: scale,
	}, true
}

// RayThrough returns the world-space ray through an NDC point
func (l Lens) RayThrough(eye Vec3, b Basis, ndcX, ndcY float64) Ray {
	th := l.tanHalf()
	aspect := l.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	dir := b.Forward.
		Add(b.Right.Scale(ndcX * th * aspect)).
		Add(b.Up.Scale(ndcY * th))
	return Ray{Origin: eye, Dir: dir.Normalize()}
}

// Ray is a half-line with a normalized direction
type Ray struct {
	Origin, Dir Vec3
}

// IntersectSphere returns the distance to the nearest hit in front of the origin
func (r Ray) IntersectSphere(center Vec3, radius float64) (float64, bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Dir)
	c := oc.LenSq() - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}
