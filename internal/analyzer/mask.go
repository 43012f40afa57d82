package analyzer

import "image"

// mask is a binary image in frame coordinates
type mask struct {
	origin image.Point
	w, h   int
	on     []bool
}

func newMask(r image.Rectangle) *mask {
	return &mask{origin: r.Min, w: r.Dx(), h: r.Dy(), on: make([]bool, r.Dx()*r.Dy())}
}

// edgeMask marks pixels whose Sobel gradient magnitude exceeds threshold.
// The one pixel frame border is never marked.
func edgeMask(gray *image.Gray, threshold float64) *mask {
	m := newMask(gray.Bounds())
	limit := threshold * threshold
	at := func(x, y int) float64 { return float64(gray.Pix[y*gray.Stride+x]) }

	for y := 1; y < m.h-1; y++ {
		for x := 1; x < m.w-1; x++ {
			gx := at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1)
			gy := at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1)
			m.on[y*m.w+x] = gx*gx+gy*gy > limit
		}
	}
	return m
}

// dilate grows marked areas with a size x size square, iterations times.
// Pixels closer than size/2 to the border are cleared, as the window does
// not fit there.
func (m *mask) dilate(size, iterations int) {
	half := size / 2
	rows := make([]bool, len(m.on))
	for ; iterations > 0; iterations-- {
		// separable max: along rows, then along columns
		for i := range rows {
			rows[i] = false
		}
		for y := 0; y < m.h; y++ {
			for x := half; x < m.w-half; x++ {
				for k := -half; k <= half; k++ {
					if m.on[y*m.w+x+k] {
						rows[y*m.w+x] = true
						break
					}
				}
			}
		}
		for i := range m.on {
			m.on[i] = false
		}
		for y := half; y < m.h-half; y++ {
			for x := half; x < m.w-half; x++ {
				for k := -half; k <= half; k++ {
					if rows[(y+k)*m.w+x] {
						m.on[y*m.w+x] = true
						break
					}
				}
			}
		}
	}
}

// regions returns the bounding boxes of 4-connected marked areas in scan order
func (m *mask) regions() []image.Rectangle {
	seen := make([]bool, len(m.on))
	var out []image.Rectangle
	var stack []int

	for start, on := range m.on {
		if !on || seen[start] {
			continue
		}
		minX, minY := start%m.w, start/m.w
		maxX, maxY := minX, minY
		seen[start] = true
		stack = append(stack[:0], start)

		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%m.w, i/m.w
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)

			push := func(j int) {
				if m.on[j] && !seen[j] {
					seen[j] = true
					stack = append(stack, j)
				}
			}
			if x > 0 {
				push(i - 1)
			}
			if x < m.w-1 {
				push(i + 1)
			}
			if y > 0 {
				push(i - m.w)
			}
			if y < m.h-1 {
				push(i + m.w)
			}
		}
		out = append(out, image.Rect(minX, minY, maxX+1, maxY+1).Add(m.origin))
	}
	return out
}
