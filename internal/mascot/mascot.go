package mascot

import (
	"fmt"

	"github.com/ivlev/lobbyreel/internal/stage"
)

// Controller reacts to pointer movement in viewport pixels
type Controller interface {
	PointerMove(x, y float64)
}

// New attaches the mascot declared by the page, or returns nil when the page has none
func New(ctx *stage.Context) (Controller, error) {
	switch kind := ctx.Page.Mascot; kind {
	case "":
		return nil, nil
	case "panda", "penguin":
		return NewLogin(ctx, kind), nil
	case "tilt":
		return NewTilt(ctx), nil
	default:
		return nil, fmt.Errorf("unknown mascot: %s", kind)
	}
}
