package scene

import (
	"fmt"
	"math"
	"sort"
)

// Preset returns a fresh copy of a built-in page descriptor
func Preset(name string) (*Page, error) {
	build, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, PresetNames())
	}
	return build(), nil
}

// PresetNames lists built-in descriptors in alphabetical order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var presets = map[string]func() *Page{
	"scroll-lobby": scrollLobby,
	"construction": construction,
	"lobby":        solarLobby,
	"login":        login,
}

// scrollLobby is the scroll-driven journey through the lobby content
func scrollLobby() *Page {
	return &Page{
		Name:           "scroll-lobby",
		Title:          "Lobby",
		Viewport:       Viewport{Width: 1280, Height: 720},
		DocumentHeight: 2880,
		Background:     "#05010f",
		Camera: Camera{
			FOV:      75,
			Near:     0.1,
			Far:      1000,
			Position: Point{0, 2, 15},
			LookAt:   Point{0, 0, -20},
			Path: []Point{
				{0, 2, 15},
				{5, 4, 5},
				{-10, 6, -10},
				{15, 8, -25},
				{0, 10, -40},
			},
			Follow:  "ease",
			Damping: 0.05,
		},
		Sections: []Section{
			{ID: "intro", Title: "Welcome", Text: "Scroll to travel through the lobby", Start: 0, End: 0.3},
			{ID: "login-section", Title: "Login Project", Text: "A mascot that hides its eyes", Start: 0.4, End: 0.7},
			{ID: "construction-section", Title: "Under Construction", Text: "Penguins at work", Start: 0.8, End: 1.0},
		},
		Bodies: []Body{
			{ID: "core", Shape: "icosahedron", Position: Point{0, 0, -20}, Size: 7, Color: "#ff00ff", Emissive: 3, Wireframe: true, Pulse: true, Spin: Point{0.0005, 0.001, 0}},
			{ID: "login-beacon", Shape: "sphere", Position: Point{18, 6, -30}, Size: 3, Color: "#00ffff", Emissive: 1.5, Wireframe: true, Spin: Point{0, 0.002, 0}},
			{ID: "construction-beacon", Shape: "sphere", Position: Point{-4, 9, -55}, Size: 3, Color: "#ff00ff", Emissive: 1.5, Wireframe: true, Spin: Point{0, 0.002, 0}},
			{ID: "floor", Shape: "grid", Position: Point{0, -15, -20}, Size: 200, Divisions: 20, Color: "#ff00ff", AccentColor: "#404040"},
		},
		Fields: []Field{
			{ID: "stars", Kind: "stars", Count: 5000, Spread: 100, Size: 0.05, Color: "#ffffff", Opacity: 0.8, Spin: Point{0, 0.0001, 0}},
		},
	}
}

// construction is the construction-in-progress page: a straight dolly towards the ice block
func construction() *Page {
	return &Page{
		Name:           "construction",
		Title:          "Page under construction",
		Viewport:       Viewport{Width: 1280, Height: 720},
		DocumentHeight: 2880,
		Background:     "#bfe3f5",
		Camera: Camera{
			FOV:      75,
			Near:     0.1,
			Far:      1000,
			Position: Point{0, 5, 20},
			LookAt:   Point{0, 2.5, 0},
			Path:     []Point{{0, 5, 20}, {0, 0, 5}},
			Follow:   "snap",
		},
		Sections: []Section{
			{ID: "intro-construction", Title: "We are building", Text: "The penguins are on it", Start: 0, End: 0.3},
			{ID: "tech-explanation", Title: "How it works", Text: "Scroll drives the camera", Start: 0.35, End: 0.7, StartExclusive: true},
			{ID: "threejs-explanation", Title: "Rendered in 3D", Text: "Every frame is projected on the fly", Start: 0.75, End: 1.0, StartExclusive: true},
		},
		Bodies: []Body{
			{ID: "ground", Shape: "disc", Position: Point{0, 0, 0}, Size: 20, Color: "#e0e0e0"},
			{ID: "ice-block", Shape: "box", Position: Point{0, 2.5, 0}, Size: 2.5, Color: "#82cff5", Opacity: 0.8, Spin: Point{0, 0.005, 0}},
			{ID: "penguin-1", Shape: "penguin", Position: Point{5, 0, 5}, Size: 0.8, Color: "#222222", AccentColor: "#ffd700", Rotation: Point{0, -math.Pi / 4, 0}, Spin: Point{0, 0.005, 0}, Bob: true},
			{ID: "penguin-2", Shape: "penguin", Position: Point{-5, 0, 3}, Size: 0.8, Color: "#222222", AccentColor: "#ffd700", Rotation: Point{0, math.Pi / 2, 0}, Spin: Point{0, 0.005, 0}, Bob: true},
			{ID: "penguin-3", Shape: "penguin", Position: Point{0, 0, 7}, Size: 0.8, Color: "#222222", AccentColor: "#ffd700", Spin: Point{0, 0.005, 0}, Bob: true},
		},
		Mascot: "tilt",
	}
}

// solarLobby is the solar-system navigation page with clickable planets
func solarLobby() *Page {
	return &Page{
		Name:           "lobby",
		Title:          "Solar lobby",
		Viewport:       Viewport{Width: 1280, Height: 720},
		DocumentHeight: 720,
		Background:     "#000000",
		Camera: Camera{
			FOV:      75,
			Near:     0.1,
			Far:      1000,
			Position: Point{0, 0, 50},
			LookAt:   Point{0, 0, 0},
		},
		Bodies: []Body{
			{ID: "core", Shape: "icosahedron", Position: Point{0, 0, 0}, Size: 7, Color: "#ff00ff", Emissive: 3, Wireframe: true, Pulse: true, Spin: Point{0.0005, 0.001, 0}},
			{ID: "grid-magenta", Shape: "grid", Position: Point{0, -15, 0}, Size: 200, Divisions: 20, Color: "#ff00ff", AccentColor: "#404040"},
			{ID: "grid-cyan", Shape: "grid", Position: Point{0, -15, 0}, Size: 200, Divisions: 20, Color: "#00ffff", AccentColor: "#404040", Rotation: Point{0, math.Pi / 4, 0}},
		},
		Fields: []Field{
			{ID: "stars", Kind: "stars", Count: 15000, Spread: 2000, Size: 0.7, Color: "#ffffff", Spin: Point{0, 0.0001, 0}},
		},
		Planets: []Planet{
			{ID: "login", Name: "Login Project", URL: "pages/login/index.html", OrbitRadius: 20, Speed: 0.5, Radius: 3, Color: "#00ffff"},
			{ID: "construction", Name: "Página em Construção", URL: "pages/construction/index.html", OrbitRadius: 35, Speed: 0.3, Radius: 3, Color: "#ff00ff"},
		},
	}
}

// login is the login page: a slowly turning mountain, falling snow and the panda
func login() *Page {
	return &Page{
		Name:           "login",
		Title:          "Login",
		Viewport:       Viewport{Width: 1280, Height: 720},
		DocumentHeight: 720,
		Background:     "#1d2b36",
		Camera: Camera{
			FOV:      75,
			Near:     0.1,
			Far:      1000,
			Position: Point{0, 0, 15},
			LookAt:   Point{0, 0, 0},
		},
		Bodies: []Body{
			{ID: "mountain", Shape: "cone", Position: Point{0, -5, -20}, Size: 10, Height: 16, Color: "#304d5b", Spin: Point{0, 0.001, 0}},
		},
		Fields: []Field{
			{ID: "snow", Kind: "snow", Count: 150, Size: 2, Color: "#f8f9fa", Opacity: 0.8},
		},
		Mascot: "panda",
	}
}
