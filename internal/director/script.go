package director

import "fmt"

// Script is a timed plan for one reel: scroll keyframes plus the pointer
// and form actions replayed against the page.
type Script struct {
	Version   string     `yaml:"version"`
	Page      string     `yaml:"page"`
	Duration  float64    `yaml:"duration"` // Total duration in seconds
	Keyframes []Keyframe `yaml:"keyframes"`
	Actions   []Action   `yaml:"actions,omitempty"`
}

// Keyframe is a scroll position at a specific time
type Keyframe struct {
	Time   float64 `yaml:"time"`   // Time offset in seconds
	Focus  string  `yaml:"focus"`  // Section or label the keyframe is aimed at
	Offset float64 `yaml:"offset"` // Scroll offset in document pixels
}

// Action is a discrete UI event fired once when the reel clock passes Time
type Action struct {
	Time   float64 `yaml:"time"`
	Kind   string  `yaml:"kind"`
	Target string  `yaml:"target,omitempty"`
	X      float64 `yaml:"x,omitempty"` // viewport pixels, for pointer actions
	Y      float64 `yaml:"y,omitempty"`
}

// Action kinds understood by the engine
const (
	ActionPointer = "pointer" // move the pointer to (X, Y)
	ActionLeave   = "leave"   // pointer leaves the window
	ActionAim     = "aim"     // point at a planet
	ActionClick   = "click"   // click whatever is hovered
	ActionUnfocus = "unfocus" // close the planet detail card
	ActionFocus   = "focus"   // focus a form field
	ActionBlur    = "blur"    // clear form focus
	ActionToggle  = "toggle"  // show/hide a password field
	ActionSignUp  = "sign-up" // slide to the sign-up panel
	ActionSignIn  = "sign-in" // slide back to sign-in
)

var actionKinds = map[string]bool{
	ActionPointer: true, ActionLeave: true, ActionAim: true, ActionClick: true, ActionUnfocus: true,
	ActionFocus: true, ActionBlur: true, ActionToggle: true, ActionSignUp: true, ActionSignIn: true,
}

// Validate checks that keyframes and actions are in time order
func (s *Script) Validate() error {
	if len(s.Keyframes) == 0 {
		return fmt.Errorf("script has no keyframes")
	}
	for i, kf := range s.Keyframes {
		if kf.Time < 0 || kf.Offset < 0 {
			return fmt.Errorf("keyframe %d: negative time or offset", i)
		}
		if i > 0 && kf.Time < s.Keyframes[i-1].Time {
			return fmt.Errorf("keyframe %d: time %.2f goes backwards", i, kf.Time)
		}
	}
	for i, a := range s.Actions {
		if !actionKinds[a.Kind] {
			return fmt.Errorf("action %d: unknown kind %q", i, a.Kind)
		}
		if i > 0 && a.Time < s.Actions[i-1].Time {
			return fmt.Errorf("action %d: time %.2f goes backwards", i, a.Time)
		}
	}
	return nil
}

// End is the time of the last keyframe or action
func (s *Script) End() float64 {
	end := 0.0
	if n := len(s.Keyframes); n > 0 {
		end = s.Keyframes[n-1].Time
	}
	if n := len(s.Actions); n > 0 && s.Actions[n-1].Time > end {
		end = s.Actions[n-1].Time
	}
	return end
}

// Scale stretches every timestamp by k, used to fit a soundtrack
func (s *Script) Scale(k float64) {
	for i := range s.Keyframes {
		s.Keyframes[i].Time *= k
	}
	for i := range s.Actions {
		s.Actions[i].Time *= k
	}
	s.Duration *= k
}
