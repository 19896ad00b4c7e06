package scene

import (
	"sync"

	"github.com/philipparndt/guideline/pkg/annotation"
)

// Overlay holds the guide lines currently in the scene, in attach order.
// Renderers read it from their draw loop while the tool mutates it from
// input handlers.
type Overlay struct {
	mu    sync.RWMutex
	lines []*annotation.Line
}

// NewOverlay creates an empty overlay
func NewOverlay() *Overlay {
	return &Overlay{}
}

// Attach adds a line to the scene
func (o *Overlay) Attach(line *annotation.Line) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, existing := range o.lines {
		if existing == line {
			return
		}
	}
	o.lines = append(o.lines, line)
}

// Detach removes a line from the scene
func (o *Overlay) Detach(line *annotation.Line) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i, existing := range o.lines {
		if existing == line {
			o.lines = append(o.lines[:i], o.lines[i+1:]...)
			return
		}
	}
}

// Lines returns a snapshot of the attached lines
func (o *Overlay) Lines() []*annotation.Line {
	o.mu.RLock()
	defer o.mu.RUnlock()

	out := make([]*annotation.Line, len(o.lines))
	copy(out, o.lines)
	return out
}

// Len returns the number of attached lines
func (o *Overlay) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.lines)
}
