package annotation

import (
	"github.com/google/uuid"
	"github.com/philipparndt/guideline/pkg/geometry"
)

// BeginDrag starts dragging a line. It only succeeds for a tracked line that
// has not been released after an earlier drag.
func (t *Tool) BeginDrag(id uuid.UUID) bool {
	if !t.opts.Draggable {
		return false
	}
	line, ok := t.Line(id)
	if !ok || !line.Draggable {
		return false
	}
	t.log.Debug().Stringer("line", line).Msg("Drag started")
	return true
}

// UpdateDrag moves a draggable line along its constrained axis by the
// damped pointer delta. Horizontal lines follow delta.Y, vertical lines
// follow delta.X.
func (t *Tool) UpdateDrag(id uuid.UUID, delta geometry.Vector2) bool {
	if !t.opts.Draggable {
		return false
	}
	line, ok := t.Line(id)
	if !ok || !line.Draggable {
		return false
	}

	amount := delta.X
	if line.Orientation == Horizontal {
		amount = delta.Y
	}
	line.translate(amount * t.opts.DragDamping)
	return true
}

// EndDrag locks the line in place; it can no longer be dragged until the
// tool is reset
func (t *Tool) EndDrag(id uuid.UUID) {
	line, ok := t.Line(id)
	if !ok || !line.Draggable {
		return
	}
	line.Draggable = false
	t.log.Debug().Stringer("line", line).Msg("Drag finished")
}
