package annotation

import (
	"github.com/google/uuid"
	"github.com/philipparndt/guideline/pkg/geometry"
	"github.com/rs/zerolog"
)

// Scene is the part of the host renderer the tool needs: putting line
// primitives into the scene and taking them out again. The tool owns the
// lines; the scene only keeps a reference for drawing.
type Scene interface {
	Attach(line *Line)
	Detach(line *Line)
}

// Options configures line geometry and the drag variant
type Options struct {
	Depth            float64 // Z of every line endpoint, in front of the model
	HorizontalSpan   float64 // length of a horizontal line, starting at the click X
	VerticalHalfSpan float64 // half length of a vertical line around the click Y
	DragDamping      float64 // factor applied to pointer deltas while dragging
	Draggable        bool    // enables BeginDrag/UpdateDrag/EndDrag
	Logger           zerolog.Logger
}

// DefaultOptions returns the geometry used for a camera at z=25
func DefaultOptions() Options {
	return Options{
		Depth:            24,
		HorizontalSpan:   2,
		VerticalHalfSpan: 1,
		DragDamping:      0.2,
		Logger:           zerolog.Nop(),
	}
}

// Tool manages the guide lines of the active model. It is not safe for
// concurrent use; all calls are expected on the UI event loop.
type Tool struct {
	scene     Scene
	opts      Options
	log       zerolog.Logger
	mode      Mode
	originals map[Mode]*Line
	mirrors   []*Line
	mirrored  bool
}

// NewTool creates a tool that attaches its lines to scene
func NewTool(scene Scene, opts Options) *Tool {
	return &Tool{
		scene:     scene,
		opts:      opts,
		log:       opts.Logger.With().Str("component", "annotation").Logger(),
		mode:      Mode1,
		originals: make(map[Mode]*Line),
	}
}

// Options returns the options the tool was created with
func (t *Tool) Options() Options {
	return t.opts
}

// Mode returns the slot used by the next AddLine
func (t *Tool) Mode() Mode {
	return t.mode
}

// SetMode selects the slot for subsequent AddLine calls. Values outside 1..4
// are stored as given; AddLine ignores them.
func (t *Tool) SetMode(mode Mode) {
	t.mode = mode
	t.log.Debug().Int("mode", int(mode)).Msg("Mode selected")
}

// Mirrored reports whether CopyLines ran since the last reset
func (t *Tool) Mirrored() bool {
	return t.mirrored
}

// AddLine places an original line for the current slot at the clicked point,
// replacing any original already in that slot. It returns nil when the
// current mode is not a defined slot.
func (t *Tool) AddLine(x, y float64) *Line {
	return t.addLine(t.mode, x, y)
}

func (t *Tool) addLine(mode Mode, x, y float64) *Line {
	orientation, ok := mode.Orientation()
	if !ok {
		t.log.Debug().Int("mode", int(mode)).Msg("Ignoring line for undefined mode")
		return nil
	}

	line := &Line{
		ID:          uuid.New(),
		Orientation: orientation,
		Mode:        mode,
		Original:    true,
		Draggable:   t.opts.Draggable,
	}

	d := t.opts.Depth
	if orientation == Horizontal {
		line.Start = geometry.NewVector3(x, y, d)
		line.End = geometry.NewVector3(x+t.opts.HorizontalSpan, y, d)
	} else {
		line.Start = geometry.NewVector3(x, y+t.opts.VerticalHalfSpan, d)
		line.End = geometry.NewVector3(x, y-t.opts.VerticalHalfSpan, d)
	}

	if previous, exists := t.originals[mode]; exists {
		t.scene.Detach(previous)
	}
	t.originals[mode] = line
	t.scene.Attach(line)

	t.log.Debug().Stringer("line", line).Msg("Line added")
	return line
}

// RemoveLine removes the tracked line with the given id, original or mirror.
// Unknown ids are ignored and reported as false.
func (t *Tool) RemoveLine(id uuid.UUID) bool {
	for mode, line := range t.originals {
		if line.ID == id {
			delete(t.originals, mode)
			t.scene.Detach(line)
			t.log.Debug().Stringer("line", line).Msg("Line removed")
			return true
		}
	}

	for i, line := range t.mirrors {
		if line.ID == id {
			t.mirrors = append(t.mirrors[:i], t.mirrors[i+1:]...)
			t.scene.Detach(line)
			t.log.Debug().Stringer("line", line).Msg("Mirrored line removed")
			return true
		}
	}

	return false
}

// CopyLines mirrors every original line across X=0. Mirrors from an earlier
// call are discarded first, so repeated calls leave exactly one mirror per
// original.
func (t *Tool) CopyLines() []*Line {
	for _, mirror := range t.mirrors {
		t.scene.Detach(mirror)
	}
	t.mirrors = t.mirrors[:0]

	for _, mode := range Modes {
		original, ok := t.originals[mode]
		if !ok {
			continue
		}
		mirror := &Line{
			ID:          uuid.New(),
			Orientation: original.Orientation,
			Start:       original.Start.MirrorX(),
			End:         original.End.MirrorX(),
			Mode:        original.Mode,
			Original:    false,
			Draggable:   original.Draggable,
			Source:      original.ID,
		}
		t.mirrors = append(t.mirrors, mirror)
		t.scene.Attach(mirror)
	}

	t.mirrored = true
	t.log.Debug().Int("count", len(t.mirrors)).Msg("Lines mirrored")

	out := make([]*Line, len(t.mirrors))
	copy(out, t.mirrors)
	return out
}

// Line returns the tracked line with the given id
func (t *Tool) Line(id uuid.UUID) (*Line, bool) {
	for _, line := range t.originals {
		if line.ID == id {
			return line, true
		}
	}
	for _, line := range t.mirrors {
		if line.ID == id {
			return line, true
		}
	}
	return nil, false
}

// Original returns the original line in a slot
func (t *Tool) Original(mode Mode) (*Line, bool) {
	line, ok := t.originals[mode]
	return line, ok
}

// Lines returns all tracked lines: originals in slot order, then mirrors
func (t *Tool) Lines() []*Line {
	lines := make([]*Line, 0, len(t.originals)+len(t.mirrors))
	for _, mode := range Modes {
		if line, ok := t.originals[mode]; ok {
			lines = append(lines, line)
		}
	}
	return append(lines, t.mirrors...)
}

// Len returns the number of tracked lines
func (t *Tool) Len() int {
	return len(t.originals) + len(t.mirrors)
}

// LinesData reads the first endpoint of each original line into a record.
// Slots without a line leave their keys unset. Location is left empty for
// the caller.
func (t *Tool) LinesData() Record {
	var rec Record
	for _, mode := range Modes {
		line, ok := t.originals[mode]
		if !ok {
			continue
		}
		rec.set(mode, line.Start)
	}
	return rec
}

// Restore replaces the current lines with originals rebuilt from a record.
// Horizontal lines start at x=0 and vertical lines are centred on y=0 since
// a record only keeps the constrained coordinate. The current mode is kept.
func (t *Tool) Restore(rec Record) {
	t.clear()
	for _, mode := range Modes {
		v, ok := rec.Value(mode)
		if !ok {
			continue
		}
		orientation, _ := mode.Orientation()
		if orientation == Horizontal {
			t.addLine(mode, 0, v)
		} else {
			t.addLine(mode, v, 0)
		}
	}
}

// Reset removes every line, selects mode 1 and clears the mirrored flag
func (t *Tool) Reset() {
	t.clear()
	t.mode = Mode1
	t.log.Debug().Msg("Tool reset")
}

func (t *Tool) clear() {
	for _, mode := range Modes {
		if line, ok := t.originals[mode]; ok {
			t.scene.Detach(line)
		}
	}
	for _, line := range t.mirrors {
		t.scene.Detach(line)
	}
	t.originals = make(map[Mode]*Line)
	t.mirrors = nil
	t.mirrored = false
}
