package annotation

import (
	"fmt"
	"image/color"

	"github.com/google/uuid"
	"github.com/philipparndt/guideline/pkg/geometry"
)

// Orientation of a guide line in the viewing plane
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
}

// Mode selects one of the four guide line slots of a model
type Mode int

const (
	Mode1 Mode = iota + 1
	Mode2
	Mode3
	Mode4
)

// Modes lists the defined slots in order
var Modes = []Mode{Mode1, Mode2, Mode3, Mode4}

// Valid reports whether the mode is one of the four defined slots
func (m Mode) Valid() bool {
	return m >= Mode1 && m <= Mode4
}

func (m Mode) String() string {
	return fmt.Sprintf("%d", int(m))
}

// Orientation returns the line orientation for the slot: odd slots are
// horizontal, even slots vertical. ok is false for undefined slots.
func (m Mode) Orientation() (o Orientation, ok bool) {
	if !m.Valid() {
		return 0, false
	}
	if m%2 == 1 {
		return Horizontal, true
	}
	return Vertical, true
}

// palette holds the original and mirrored-copy colour for each slot
var palette = map[Mode][2]color.RGBA{
	Mode1: {{R: 230, G: 60, B: 60, A: 255}, {R: 255, G: 160, B: 160, A: 255}},
	Mode2: {{R: 60, G: 200, B: 80, A: 255}, {R: 160, G: 240, B: 170, A: 255}},
	Mode3: {{R: 60, G: 110, B: 230, A: 255}, {R: 160, G: 190, B: 255, A: 255}},
	Mode4: {{R: 230, G: 200, B: 40, A: 255}, {R: 255, G: 235, B: 150, A: 255}},
}

// Line is a guide segment placed in front of the model
type Line struct {
	ID          uuid.UUID
	Orientation Orientation
	Start       geometry.Vector3
	End         geometry.Vector3
	Mode        Mode
	Original    bool // false for mirrored copies
	Draggable   bool
	Source      uuid.UUID // original line a mirrored copy was derived from
}

// Color returns the display colour: the slot colour for originals and the
// lighter copy colour for mirrored lines
func (l *Line) Color() color.RGBA {
	colors, ok := palette[l.Mode]
	if !ok {
		return color.RGBA{R: 128, G: 128, B: 128, A: 255}
	}
	if l.Original {
		return colors[0]
	}
	return colors[1]
}

// Endpoints returns both endpoints
func (l *Line) Endpoints() [2]geometry.Vector3 {
	return [2]geometry.Vector3{l.Start, l.End}
}

// translate moves the line along its constrained axis: Y for horizontal
// lines, X for vertical lines
func (l *Line) translate(amount float64) {
	switch l.Orientation {
	case Horizontal:
		l.Start.Y += amount
		l.End.Y += amount
	case Vertical:
		l.Start.X += amount
		l.End.X += amount
	}
}

func (l *Line) String() string {
	kind := "original"
	if !l.Original {
		kind = "mirror"
	}
	return fmt.Sprintf("%s %s line mode %d (%.2f, %.2f)-(%.2f, %.2f)",
		kind, l.Orientation, l.Mode, l.Start.X, l.Start.Y, l.End.X, l.End.Y)
}
