package scroll

import (
	"errors"
	"math"
	"sort"

	"github.com/ivlev/lobbyreel/internal/geom"
)

// ErrTooFewPoints is returned when a path has fewer than two control points
var ErrTooFewPoints = errors.New("camera path needs at least 2 control points")

// samplesPerSegment controls the arc-length table resolution
const samplesPerSegment = 100

// Path is a centripetal Catmull-Rom curve through fixed control points,
// addressable both by curve parameter and by arc-length fraction.
type Path struct {
	points  []geom.Vec3
	lengths []float64 // cumulative arc length at t = i/(len-1)
}

// NewPath copies the control points and precomputes the arc-length table
func NewPath(points []geom.Vec3) (*Path, error) {
	if len(points) < 2 {
		return nil, ErrTooFewPoints
	}
	p := &Path{points: make([]geom.Vec3, len(points))}
	copy(p.points, points)

	divisions := samplesPerSegment * (len(points) - 1)
	p.lengths = make([]float64, divisions+1)
	prev := p.Point(0)
	for i := 1; i <= divisions; i++ {
		cur := p.Point(float64(i) / float64(divisions))
		p.lengths[i] = p.lengths[i-1] + cur.Dist(prev)
		prev = cur
	}
	return p, nil
}

// Points returns a copy of the control points
func (p *Path) Points() []geom.Vec3 {
	out := make([]geom.Vec3, len(p.points))
	copy(out, p.points)
	return out
}

// Length is the (sampled) total arc length of the curve
func (p *Path) Length() float64 {
	return p.lengths[len(p.lengths)-1]
}

// Point evaluates the curve at parameter t in [0,1], where control point i sits at i/(n-1)
func (p *Path) Point(t float64) geom.Vec3 {
	n := len(p.points)
	t = Clamp01(t)
	if t == 0 {
		return p.points[0]
	}
	if t == 1 {
		return p.points[n-1]
	}

	pos := float64(n-1) * t
	seg := int(math.Floor(pos))
	weight := pos - float64(seg)
	if weight == 0 {
		return p.points[seg]
	}

	p1 := p.points[seg]
	p2 := p.points[seg+1]
	var p0, p3 geom.Vec3
	if seg > 0 {
		p0 = p.points[seg-1]
	} else {
		p0 = p1.Scale(2).Sub(p2)
	}
	if seg+2 < n {
		p3 = p.points[seg+2]
	} else {
		p3 = p2.Scale(2).Sub(p1)
	}

	dt0 := math.Pow(p0.Sub(p1).LenSq(), 0.25)
	dt1 := math.Pow(p1.Sub(p2).LenSq(), 0.25)
	dt2 := math.Pow(p2.Sub(p3).LenSq(), 0.25)
	if dt1 < 1e-4 {
		dt1 = 1
	}
	if dt0 < 1e-4 {
		dt0 = dt1
	}
	if dt2 < 1e-4 {
		dt2 = dt1
	}

	return geom.Vec3{
		X: nonuniformCubic(p0.X, p1.X, p2.X, p3.X, dt0, dt1, dt2).at(weight),
		Y: nonuniformCubic(p0.Y, p1.Y, p2.Y, p3.Y, dt0, dt1, dt2).at(weight),
		Z: nonuniformCubic(p0.Z, p1.Z, p2.Z, p3.Z, dt0, dt1, dt2).at(weight),
	}
}

// ParamAt maps an arc-length fraction u to the curve parameter t
func (p *Path) ParamAt(u float64) float64 {
	u = Clamp01(u)
	last := len(p.lengths) - 1
	total := p.lengths[last]
	if total <= 0 {
		return u
	}
	target := u * total

	// first index whose cumulative length reaches the target
	i := sort.SearchFloat64s(p.lengths, target)
	if i <= 0 {
		return 0
	}
	if i > last {
		return 1
	}
	if p.lengths[i] == target {
		return float64(i) / float64(last)
	}
	before := p.lengths[i-1]
	segLen := p.lengths[i] - before
	frac := 0.0
	if segLen > 0 {
		frac = (target - before) / segLen
	}
	return (float64(i-1) + frac) / float64(last)
}

// PointAt evaluates the curve at arc-length fraction u.
// u=0 and u=1 return the first and last control points exactly.
func (p *Path) PointAt(u float64) geom.Vec3 {
	return p.Point(p.ParamAt(u))
}

// ArcLength returns the sampled arc length between parameters t0 and t1
func (p *Path) ArcLength(t0, t1 float64) float64 {
	return p.lengthAtParam(t1) - p.lengthAtParam(t0)
}

func (p *Path) lengthAtParam(t float64) float64 {
	t = Clamp01(t)
	last := len(p.lengths) - 1
	pos := t * float64(last)
	i := int(math.Floor(pos))
	if i >= last {
		return p.lengths[last]
	}
	frac := pos - float64(i)
	return p.lengths[i] + (p.lengths[i+1]-p.lengths[i])*frac
}

// cubic holds polynomial coefficients c0 + c1*t + c2*t^2 + c3*t^3
type cubic struct {
	c0, c1, c2, c3 float64
}

func (c cubic) at(t float64) float64 {
	t2 := t * t
	return c.c0 + c.c1*t + c.c2*t2 + c.c3*t2*t
}

func hermite(x0, x1, t0, t1 float64) cubic {
	return cubic{
		c0: x0,
		c1: t0,
		c2: -3*x0 + 3*x1 - 2*t0 - t1,
		c3: 2*x0 - 2*x1 + t0 + t1,
	}
}

// nonuniformCubic builds the segment x1..x2 with knot spacings dt0, dt1, dt2
func nonuniformCubic(x0, x1, x2, x3, dt0, dt1, dt2 float64) cubic {
	t1 := (x1-x0)/dt0 - (x2-x0)/(dt0+dt1) + (x2-x1)/dt1
	t2 := (x2-x1)/dt1 - (x3-x1)/(dt1+dt2) + (x3-x2)/dt2
	return hermite(x1, x2, t1*dt1, t2*dt1)
}
