package mascot

import (
	"fmt"

	"github.com/ivlev/lobbyreel/internal/stage"
)

// EyeState is what the login mascot is doing with its eyes
type EyeState int

const (
	Open     EyeState = iota // tracking the pointer
	LookDown                 // watching the user type
	Closed                   // password being typed
	Peek                     // password revealed: right eye open
)

func (s EyeState) String() string {
	switch s {
	case Open:
		return "open"
	case LookDown:
		return "look-down"
	case Closed:
		return "closed"
	case Peek:
		return "peek"
	}
	return fmt.Sprintf("EyeState(%d)", int(s))
}

const (
	maxEyeShift   = 4 // px
	lookDownShift = 5 // px
	squintScaleY  = 0.1
)

// Default form fields of the login page and their input types
var DefaultInputs = map[string]string{
	"name":     "text",
	"email":    "email",
	"password": "password",
}

// Login drives the login page mascot (panda or penguin) and the sign-in /
// sign-up slider from form and pointer events.
type Login struct {
	m       *stage.Mascot
	width   float64
	height  float64
	inputs  map[string]string
	focused string
	state   EyeState
}

// NewLogin attaches a login mascot of the given kind to ctx
func NewLogin(ctx *stage.Context, kind string) *Login {
	ctx.Mascot = &stage.Mascot{
		Kind:      kind,
		LeftOpen:  true,
		RightOpen: true,
		EyeScaleY: 1,
		TiltScale: 1,
	}
	inputs := make(map[string]string, len(DefaultInputs))
	for k, v := range DefaultInputs {
		inputs[k] = v
	}
	return &Login{
		m:      ctx.Mascot,
		width:  float64(ctx.Page.Viewport.Width),
		height: float64(ctx.Page.Viewport.Height),
		inputs: inputs,
	}
}

// State returns the current eye state
func (l *Login) State() EyeState { return l.state }

// InputType returns the current type of a form field ("" if unknown)
func (l *Login) InputType(name string) string { return l.inputs[name] }

// PointerMove makes the panda's pupils follow the pointer (viewport pixels)
// unless a field has focus.
func (l *Login) PointerMove(x, y float64) {
	if l.focused != "" || l.m.Kind != "panda" || l.width <= 0 || l.height <= 0 {
		return
	}
	l.m.EyeOffsetX = (x/l.width*2 - 1) * maxEyeShift
	l.m.EyeOffsetY = (y/l.height*2 - 1) * maxEyeShift
}

// Focus puts a form field in focus. Password fields close the eyes,
// everything else makes the mascot look down at the form.
func (l *Login) Focus(name string) bool {
	typ, ok := l.inputs[name]
	if !ok {
		return false
	}
	l.focused = name
	if typ == "password" {
		l.state = Closed
		l.m.LeftOpen, l.m.RightOpen = false, false
		l.m.EyeScaleY = squintScaleY
	} else {
		l.state = LookDown
		l.m.EyeOffsetX, l.m.EyeOffsetY = 0, lookDownShift
		l.m.EyeScaleY = 1
	}
	if l.m.Kind == "penguin" {
		// the penguin only reacts to the password field
		l.m.LeftOpen, l.m.RightOpen = true, true
		if typ != "password" {
			l.m.EyeOffsetY = 0
		}
	}
	return true
}

// Blur clears focus and reopens both eyes centered
func (l *Login) Blur() {
	l.focused = ""
	l.state = Open
	l.m.LeftOpen, l.m.RightOpen = true, true
	l.m.EyeOffsetX, l.m.EyeOffsetY = 0, 0
	l.m.EyeScaleY = 1
}

// TogglePassword flips a password field between hidden and shown.
// Showing it lets the right eye peek; hiding closes it again.
func (l *Login) TogglePassword(name string) bool {
	switch l.inputs[name] {
	case "password":
		l.inputs[name] = "text"
		l.m.RightOpen = true
		if !l.m.LeftOpen {
			l.state = Peek
		}
	case "text":
		if DefaultInputs[name] != "password" {
			return false
		}
		l.inputs[name] = "password"
		l.m.RightOpen = false
		if l.state == Peek {
			l.state = Closed
		}
	default:
		return false
	}
	return true
}

// SignUp slides the form panel to the sign-up side
func (l *Login) SignUp() { l.m.PanelRight = true }

// SignIn slides the form panel back
func (l *Login) SignIn() { l.m.PanelRight = false }
