package scroll

import (
	"fmt"
	"math"
)

// None is the identifier reported when no section contains the scroll position
const None = ""

// Section is a named scroll window. The window is [Start, End), or (Start, End)
// when StartExclusive is set. A window ending at 1 also contains 1, so the
// bottom of the page always belongs to the last section.
type Section struct {
	ID             string
	Start          float64
	End            float64
	StartExclusive bool
}

// Contains reports whether percent falls inside the window
func (s Section) Contains(percent float64) bool {
	if s.StartExclusive {
		if percent <= s.Start {
			return false
		}
	} else if percent < s.Start {
		return false
	}
	if percent < s.End {
		return true
	}
	return s.End == 1 && percent == 1
}

// Sections is an ordered threshold set; declaration order breaks ties between overlapping windows
type Sections []Section

// NewSections validates and copies a threshold set
func NewSections(list []Section) (Sections, error) {
	seen := make(map[string]bool, len(list))
	out := make(Sections, len(list))
	for i, s := range list {
		if s.ID == None {
			return nil, fmt.Errorf("section %d: empty id", i)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("section %q: duplicate id", s.ID)
		}
		seen[s.ID] = true
		if math.IsNaN(s.Start) || math.IsNaN(s.End) || s.Start < 0 || s.End > 1 || s.Start >= s.End {
			return nil, fmt.Errorf("section %q: invalid window [%g, %g]", s.ID, s.Start, s.End)
		}
		out[i] = s
	}
	return out, nil
}

// ActiveAt returns the first section containing percent, or None
func (ss Sections) ActiveAt(percent float64) string {
	percent = Clamp01(percent)
	for _, s := range ss {
		if s.Contains(percent) {
			return s.ID
		}
	}
	return None
}

// IDs lists section identifiers in declaration order
func (ss Sections) IDs() []string {
	ids := make([]string, len(ss))
	for i, s := range ss {
		ids[i] = s.ID
	}
	return ids
}

// Overlaps reports pairs of windows that share scroll positions.
// Overlaps are legal; the earlier section wins.
func (ss Sections) Overlaps() [][2]string {
	var pairs [][2]string
	for i := 0; i < len(ss); i++ {
		for j := i + 1; j < len(ss); j++ {
			if ss[i].Start < ss[j].End && ss[j].Start < ss[i].End {
				pairs = append(pairs, [2]string{ss[i].ID, ss[j].ID})
			}
		}
	}
	return pairs
}
