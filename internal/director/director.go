package director

import (
	"fmt"
	"sort"

	"github.com/ivlev/lobbyreel/internal/lobby"
	"github.com/ivlev/lobbyreel/internal/scene"
)

const (
	introDuration = 1.0 // top of the page before the first move
	outroDuration = 1.0 // hold at the end
	aimLead       = 0.5 // hover before clicking a planet
)

// Director plans scroll scripts that tour a page
type Director struct {
	ViewportWidth  int
	ViewportHeight int
	MinDwell       float64 // Minimum time per section (seconds)
	MaxDwell       float64 // Maximum time per section (seconds)
}

// NewDirector creates a new Director with default settings
func NewDirector(viewportWidth, viewportHeight int) *Director {
	return &Director{
		ViewportWidth:  viewportWidth,
		ViewportHeight: viewportHeight,
		MinDwell:       1.0,
		MaxDwell:       3.0,
	}
}

// GenerateScript plans a tour of the page lasting about totalDuration seconds.
// Scroll pages visit every section in order, the lobby visits every planet
// and login pages play through the form.
func (d *Director) GenerateScript(page *scene.Page, totalDuration float64) (*Script, error) {
	if page == nil {
		return nil, fmt.Errorf("no page")
	}
	if totalDuration <= 0 {
		return nil, fmt.Errorf("invalid duration %.2f", totalDuration)
	}

	script := &Script{Version: "1.0", Page: page.Name}
	switch {
	case len(page.Sections) > 0:
		d.planSections(script, page, totalDuration)
	case len(page.Planets) > 0:
		d.planPlanets(script, page, totalDuration)
	case page.Mascot == "panda" || page.Mascot == "penguin":
		d.planLogin(script, totalDuration)
	default:
		script.Keyframes = []Keyframe{
			{Time: 0, Focus: "full_view"},
			{Time: totalDuration, Focus: "full_view"},
		}
	}

	script.Duration = script.End() + outroDuration
	if script.Duration < totalDuration {
		script.Duration = totalDuration
	}
	return script, nil
}

// sortSections orders sections by where they start on the page
func (d *Director) sortSections(sections []scene.Section) []scene.Section {
	sorted := make([]scene.Section, len(sections))
	copy(sorted, sections)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	return sorted
}

// calculateDwellTime determines how long to stay on each stop
func (d *Director) calculateDwellTime(totalDuration float64, stops int) float64 {
	// Reserve time for intro/outro (full view)
	available := totalDuration - introDuration - outroDuration
	if available <= 0 {
		available = totalDuration
	}

	dwell := available / float64(stops)

	if dwell < d.MinDwell {
		dwell = d.MinDwell
	}
	if dwell > d.MaxDwell {
		dwell = d.MaxDwell
	}

	return dwell
}

func (d *Director) planSections(script *Script, page *scene.Page, totalDuration float64) {
	extent := page.ScrollExtent()
	if extent < 0 {
		extent = 0
	}
	sections := d.sortSections(page.Sections)
	dwell := d.calculateDwellTime(totalDuration, len(sections)+1)

	script.Keyframes = append(script.Keyframes, Keyframe{Time: 0, Focus: "top", Offset: 0})
	current := introDuration

	for i, s := range sections {
		mid := (s.Start + s.End) / 2
		script.Keyframes = append(script.Keyframes, Keyframe{
			Time:   current,
			Focus:  s.ID,
			Offset: mid * extent,
		})
		if page.Mascot == "tilt" {
			// sweep the pointer across the illustration while reading
			x := float64(d.ViewportWidth) * 0.25
			if i%2 == 1 {
				x = float64(d.ViewportWidth) * 0.75
			}
			script.Actions = append(script.Actions, Action{
				Time: current, Kind: ActionPointer,
				X: x, Y: float64(d.ViewportHeight) * (0.3 + 0.2*float64(i%3)),
			})
		}
		current += dwell
	}

	script.Keyframes = append(script.Keyframes, Keyframe{Time: current, Focus: "bottom", Offset: extent})
	if page.Mascot == "tilt" {
		script.Actions = append(script.Actions, Action{Time: current, Kind: ActionLeave})
	}
}

func (d *Director) planPlanets(script *Script, page *scene.Page, totalDuration float64) {
	dwell := d.calculateDwellTime(totalDuration, len(page.Planets))

	script.Keyframes = append(script.Keyframes, Keyframe{Time: 0, Focus: "overview"})
	current := introDuration

	for _, p := range page.Planets {
		script.Actions = append(script.Actions,
			Action{Time: current, Kind: ActionAim, Target: p.ID},
			Action{Time: current + aimLead, Kind: ActionClick, Target: p.ID},
			Action{Time: current + aimLead + lobby.FlightDuration + dwell, Kind: ActionUnfocus, Target: p.ID},
		)
		current += aimLead + 2*lobby.FlightDuration + dwell + aimLead
	}

	script.Keyframes = append(script.Keyframes, Keyframe{Time: current, Focus: "overview"})
}

func (d *Director) planLogin(script *Script, totalDuration float64) {
	w, h := float64(d.ViewportWidth), float64(d.ViewportHeight)
	steps := []Action{
		{Kind: ActionPointer, X: w * 0.1, Y: h * 0.2},
		{Kind: ActionPointer, X: w * 0.9, Y: h * 0.8},
		{Kind: ActionFocus, Target: "email"},
		{Kind: ActionFocus, Target: "password"},
		{Kind: ActionToggle, Target: "password"},
		{Kind: ActionToggle, Target: "password"},
		{Kind: ActionBlur},
		{Kind: ActionSignUp},
		{Kind: ActionSignIn},
	}
	// Form steps are short beats, not sections to read
	dwell := d.calculateDwellTime(totalDuration, len(steps)) / 2
	if dwell < 0.5 {
		dwell = 0.5
	}

	script.Keyframes = append(script.Keyframes, Keyframe{Time: 0, Focus: "form"})
	current := introDuration
	for _, a := range steps {
		a.Time = current
		script.Actions = append(script.Actions, a)
		current += dwell
	}
	script.Keyframes = append(script.Keyframes, Keyframe{Time: current, Focus: "form"})
}
