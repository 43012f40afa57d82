package renderer

import (
	"math"

	"github.com/ivlev/lobbyreel/internal/geom"
)

// mesh is a unit-sized polygon soup in local coordinates
type mesh struct {
	verts []geom.Vec3
	faces [][]int
	// flat meshes are drawn from both sides
	flat bool
}

var meshes = map[string]*mesh{
	"box":         boxMesh(),
	"icosahedron": icosahedronMesh(),
	"sphere":      sphereMesh(8, 12),
	"cone":        coneMesh(12),
	"disc":        discMesh(32),
}

// boxMesh is a cube with half-extent 1
func boxMesh() *mesh {
	v := []geom.Vec3{
		{X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: -1},
		{X: -1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: 1},
	}
	return &mesh{verts: v, faces: [][]int{
		{0, 3, 2, 1}, // back
		{4, 5, 6, 7}, // front
		{0, 1, 5, 4}, // bottom
		{3, 7, 6, 2}, // top
		{0, 4, 7, 3}, // left
		{1, 2, 6, 5}, // right
	}}
}

// icosahedronMesh has radius 1
func icosahedronMesh() *mesh {
	t := (1 + math.Sqrt(5)) / 2
	raw := []geom.Vec3{
		{X: -1, Y: t}, {X: 1, Y: t}, {X: -1, Y: -t}, {X: 1, Y: -t},
		{Y: -1, Z: t}, {Y: 1, Z: t}, {Y: -1, Z: -t}, {Y: 1, Z: -t},
		{X: t, Z: -1}, {X: t, Z: 1}, {X: -t, Z: -1}, {X: -t, Z: 1},
	}
	for i := range raw {
		raw[i] = raw[i].Normalize()
	}
	return &mesh{verts: raw, faces: [][]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}}
}

// sphereMesh is a UV sphere of radius 1
func sphereMesh(rings, segments int) *mesh {
	m := &mesh{}
	for r := 0; r <= rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		for s := 0; s < segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			m.verts = append(m.verts, geom.V(
				math.Sin(phi)*math.Cos(theta),
				math.Cos(phi),
				-math.Sin(phi)*math.Sin(theta),
			))
		}
	}
	idx := func(r, s int) int { return r*segments + s%segments }
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			m.faces = append(m.faces, []int{idx(r, s), idx(r+1, s), idx(r+1, s+1), idx(r, s+1)})
		}
	}
	return m
}

// coneMesh has base radius 1 at y=-0.5 and apex at y=0.5
func coneMesh(segments int) *mesh {
	m := &mesh{verts: []geom.Vec3{geom.V(0, 0.5, 0)}}
	for s := 0; s < segments; s++ {
		theta := 2 * math.Pi * float64(s) / float64(segments)
		m.verts = append(m.verts, geom.V(math.Cos(theta), -0.5, -math.Sin(theta)))
	}
	base := make([]int, segments)
	for s := 0; s < segments; s++ {
		next := (s+1)%segments + 1
		m.faces = append(m.faces, []int{0, s + 1, next})
		base[segments-1-s] = s + 1
	}
	m.faces = append(m.faces, base)
	return m
}

// discMesh is a flat circle of radius 1 in the XZ plane
func discMesh(segments int) *mesh {
	m := &mesh{flat: true}
	face := make([]int, segments)
	for s := 0; s < segments; s++ {
		theta := 2 * math.Pi * float64(s) / float64(segments)
		m.verts = append(m.verts, geom.V(math.Cos(theta), 0, -math.Sin(theta)))
		face[s] = s
	}
	m.faces = [][]int{face}
	return m
}

// edges lists every unique edge of the mesh
func (m *mesh) edges() [][2]int {
	seen := make(map[[2]int]bool)
	var out [][2]int
	for _, f := range m.faces {
		for i := range f {
			a, b := f[i], f[(i+1)%len(f)]
			if a > b {
				a, b = b, a
			}
			if !seen[[2]int{a, b}] {
				seen[[2]int{a, b}] = true
				out = append(out, [2]int{a, b})
			}
		}
	}
	return out
}
