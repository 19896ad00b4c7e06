package scene

import (
	"math"

	"github.com/philipparndt/guideline/pkg/annotation"
	"github.com/philipparndt/guideline/pkg/geometry"
	"github.com/philipparndt/guideline/pkg/viewer"
)

// Picker hit-tests viewport positions against the overlay lines and the
// backing plane behind the model
type Picker struct {
	camera     *viewer.OrthoCamera
	overlay    *Overlay
	tolerance  float64 // pixels
	planeDepth float64
}

// NewPicker creates a picker for the given camera and overlay
func NewPicker(camera *viewer.OrthoCamera, overlay *Overlay, tolerance, planeDepth float64) *Picker {
	return &Picker{
		camera:     camera,
		overlay:    overlay,
		tolerance:  tolerance,
		planeDepth: planeDepth,
	}
}

// Pick returns the closest line within the pixel tolerance of pos. Without a
// line the backing plane is hit. Nothing is hit while the viewport has no
// size.
func (p *Picker) Pick(pos geometry.Vector2) (annotation.Hit, bool) {
	if p.camera.Width <= 0 || p.camera.Height <= 0 {
		return annotation.Hit{}, false
	}

	world := p.camera.Unproject(pos.X, pos.Y)

	var (
		best     *annotation.Line
		bestDist = math.Inf(1)
	)

	lines := p.overlay.Lines()
	// Later lines are drawn on top, so they win ties
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		ax, ay := p.camera.Project(line.Start)
		bx, by := p.camera.Project(line.End)
		dist := geometry.DistanceToSegment(pos, geometry.NewVector2(ax, ay), geometry.NewVector2(bx, by))
		if dist <= p.tolerance && dist < bestDist {
			best = line
			bestDist = dist
		}
	}

	if best != nil {
		return annotation.Hit{
			LineID: best.ID,
			Point:  geometry.NewVector3(world.X, world.Y, best.Start.Z),
		}, true
	}

	return annotation.Hit{
		Point: geometry.NewVector3(world.X, world.Y, p.planeDepth),
	}, true
}
