package viewer

import (
	"math"

	"github.com/philipparndt/guideline/pkg/geometry"
)

// OrthoCamera is a front-facing orthographic camera looking down -Z.
// Rotation is disabled; only zoom and pan change the view.
type OrthoCamera struct {
	Target  geometry.Vector2 // world point at the viewport centre
	Scale   float64          // pixels per world unit at zoom 1
	Zoom    float64
	MinZoom float64
	MaxZoom float64
	Z       float64 // camera position on the Z axis
	Width   float64 // viewport size in pixels
	Height  float64
}

// NewOrthoCamera creates a camera at distance z. The zoom limits mirror an
// orbit control's min/max distance: moving to minDistance magnifies by
// z/minDistance, moving to maxDistance by z/maxDistance.
func NewOrthoCamera(scale, z, minDistance, maxDistance float64) *OrthoCamera {
	c := &OrthoCamera{
		Scale:   scale,
		Zoom:    1,
		MinZoom: 1,
		MaxZoom: 1,
		Z:       z,
	}
	if maxDistance > 0 {
		c.MinZoom = z / maxDistance
	}
	if minDistance > 0 {
		c.MaxZoom = z / minDistance
	}
	if c.MinZoom > c.MaxZoom {
		c.MinZoom, c.MaxZoom = c.MaxZoom, c.MinZoom
	}
	c.Zoom = math.Max(c.MinZoom, math.Min(c.MaxZoom, 1))
	return c
}

// Resize updates the viewport size
func (c *OrthoCamera) Resize(width, height float64) {
	c.Width = width
	c.Height = height
}

// PixelsPerUnit returns the current screen scale
func (c *OrthoCamera) PixelsPerUnit() float64 {
	return c.Scale * c.Zoom
}

// VisibleHeight returns the world height covered by the viewport
func (c *OrthoCamera) VisibleHeight() float64 {
	ppu := c.PixelsPerUnit()
	if ppu == 0 {
		return 0
	}
	return c.Height / ppu
}

// Project converts a world position to viewport pixels (Y down)
func (c *OrthoCamera) Project(p geometry.Vector3) (x, y float64) {
	ppu := c.PixelsPerUnit()
	x = c.Width/2 + (p.X-c.Target.X)*ppu
	y = c.Height/2 - (p.Y-c.Target.Y)*ppu
	return x, y
}

// Unproject converts viewport pixels to a world position in the XY plane
func (c *OrthoCamera) Unproject(x, y float64) geometry.Vector2 {
	ppu := c.PixelsPerUnit()
	if ppu == 0 {
		return c.Target
	}
	return geometry.Vector2{
		X: c.Target.X + (x-c.Width/2)/ppu,
		Y: c.Target.Y - (y-c.Height/2)/ppu,
	}
}

// ZoomBy multiplies the zoom, clamped to the configured limits
func (c *OrthoCamera) ZoomBy(factor float64) {
	if factor <= 0 {
		return
	}
	c.Zoom = math.Max(c.MinZoom, math.Min(c.MaxZoom, c.Zoom*factor))
}

// Pan moves the view by a pointer delta in pixels, so the world point under
// the pointer follows it
func (c *OrthoCamera) Pan(dx, dy float64) {
	ppu := c.PixelsPerUnit()
	if ppu == 0 {
		return
	}
	c.Target.X -= dx / ppu
	c.Target.Y += dy / ppu
}

// Reset restores zoom 1 (within limits) and centres the view on target
func (c *OrthoCamera) Reset(target geometry.Vector2) {
	c.Target = target
	c.Zoom = math.Max(c.MinZoom, math.Min(c.MaxZoom, 1))
}
