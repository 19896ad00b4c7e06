package annotation

import (
	"github.com/google/uuid"
	"github.com/philipparndt/guideline/pkg/geometry"
)

// Hit is the result of a host ray cast at a pointer position
type Hit struct {
	LineID uuid.UUID        // uuid.Nil when only the backing plane was hit
	Point  geometry.Vector3 // world position of the hit
}

// OnLine reports whether the ray hit a guide line
func (h Hit) OnLine() bool {
	return h.LineID != uuid.Nil
}

// Picker performs the host's hit test for a viewport pointer position
type Picker interface {
	Pick(pos geometry.Vector2) (Hit, bool)
}

// Pointer translates pointer events of the viewport into tool operations
type Pointer struct {
	tool     *Tool
	picker   Picker
	dragging uuid.UUID
	last     geometry.Vector2
}

// NewPointer creates a pointer controller for tool
func NewPointer(tool *Tool, picker Picker) *Pointer {
	return &Pointer{tool: tool, picker: picker}
}

// Press handles a primary button press. On empty space a line is added for
// the current mode. On a line the line is dragged when dragging is enabled,
// otherwise it is removed.
func (p *Pointer) Press(pos geometry.Vector2) {
	hit, ok := p.picker.Pick(pos)
	if !ok {
		return
	}

	if !hit.OnLine() {
		p.tool.AddLine(hit.Point.X, hit.Point.Y)
		return
	}

	if !p.tool.Options().Draggable {
		p.tool.RemoveLine(hit.LineID)
		return
	}

	p.grab(hit)
}

// Grab starts dragging the line under pos without adding or removing lines.
// It reports whether a drag started.
func (p *Pointer) Grab(pos geometry.Vector2) bool {
	hit, ok := p.picker.Pick(pos)
	if !ok || !hit.OnLine() {
		return false
	}
	return p.grab(hit)
}

func (p *Pointer) grab(hit Hit) bool {
	if !p.tool.BeginDrag(hit.LineID) {
		return false
	}
	p.dragging = hit.LineID
	p.last = hit.Point.XY()
	return true
}

// Move handles pointer motion; it only has an effect while dragging
func (p *Pointer) Move(pos geometry.Vector2) {
	if p.dragging == uuid.Nil {
		return
	}

	hit, ok := p.picker.Pick(pos)
	if !ok {
		return
	}
	current := hit.Point.XY()
	p.tool.UpdateDrag(p.dragging, current.Sub(p.last))
	p.last = current
}

// Release handles the primary button release and ends an active drag
func (p *Pointer) Release(pos geometry.Vector2) {
	if p.dragging == uuid.Nil {
		return
	}
	p.Move(pos)
	p.tool.EndDrag(p.dragging)
	p.dragging = uuid.Nil
}

// SecondaryClick removes the line under the pointer, if any
func (p *Pointer) SecondaryClick(pos geometry.Vector2) {
	hit, ok := p.picker.Pick(pos)
	if !ok || !hit.OnLine() {
		return
	}
	p.tool.RemoveLine(hit.LineID)
}

// Dragging reports whether a drag is in progress
func (p *Pointer) Dragging() bool {
	return p.dragging != uuid.Nil
}

// Cancel drops an active drag without locking the line, for example when
// the model is switched mid-drag
func (p *Pointer) Cancel() {
	p.dragging = uuid.Nil
}
