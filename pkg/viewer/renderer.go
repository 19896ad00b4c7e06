package viewer

import (
	"image"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/guideline/pkg/annotation"
	"github.com/philipparndt/guideline/pkg/geometry"
)

// LineSource provides the guide lines to draw
type LineSource interface {
	Lines() []*annotation.Line
}

// Viewport is a fyne widget showing the model through an orthographic camera.
// Taps place and remove guide lines through the pointer controller, drags on
// a line move it, drags elsewhere pan and scrolling zooms.
type Viewport struct {
	widget.BaseWidget

	camera  *OrthoCamera
	pointer *annotation.Pointer
	lines   LineSource

	mu        sync.Mutex
	triangles []geometry.Triangle
	offset    geometry.Vector3

	raster      *canvas.Raster
	dragStarted bool
	draggingOn  bool // dragging a guide line rather than panning
	secondary   bool
	lastDrag    geometry.Vector2

	// OnChanged is called after the pointer changed the lines
	OnChanged func()
}

var (
	_ fyne.Tappable          = (*Viewport)(nil)
	_ fyne.SecondaryTappable = (*Viewport)(nil)
	_ fyne.Draggable         = (*Viewport)(nil)
	_ fyne.Scrollable        = (*Viewport)(nil)
	_ desktop.Mouseable      = (*Viewport)(nil)
)

// NewViewport creates a viewport widget
func NewViewport(camera *OrthoCamera, pointer *annotation.Pointer, lines LineSource) *Viewport {
	v := &Viewport{
		camera:  camera,
		pointer: pointer,
		lines:   lines,
	}
	v.raster = canvas.NewRaster(v.generate)
	v.ExtendBaseWidget(v)
	return v
}

// SetMesh replaces the displayed mesh
func (v *Viewport) SetMesh(triangles []geometry.Triangle, offset geometry.Vector3) {
	v.mu.Lock()
	v.triangles = triangles
	v.offset = offset
	v.mu.Unlock()
	v.Refresh()
}

// Camera returns the viewport camera
func (v *Viewport) Camera() *OrthoCamera {
	return v.camera
}

// generate renders at pixel resolution; the camera works in logical units
func (v *Viewport) generate(w, h int) image.Image {
	v.mu.Lock()
	frame := Frame{Triangles: v.triangles, Offset: v.offset, Lines: v.lines.Lines()}
	v.mu.Unlock()

	cam := *v.camera
	if cam.Width > 0 {
		cam.Scale *= float64(w) / cam.Width
	}
	cam.Width = float64(w)
	cam.Height = float64(h)
	return RenderFrame(&cam, frame)
}

func toVector(pos fyne.Position) geometry.Vector2 {
	return geometry.NewVector2(float64(pos.X), float64(pos.Y))
}

func (v *Viewport) changed() {
	v.Refresh()
	if v.OnChanged != nil {
		v.OnChanged()
	}
}

// Tapped places a line on empty space or acts on the line under the pointer
func (v *Viewport) Tapped(event *fyne.PointEvent) {
	pos := toVector(event.Position)
	v.pointer.Press(pos)
	v.pointer.Release(pos)
	v.changed()
}

// TappedSecondary removes the line under the pointer
func (v *Viewport) TappedSecondary(event *fyne.PointEvent) {
	v.pointer.SecondaryClick(toVector(event.Position))
	v.changed()
}

// MouseDown remembers the button so secondary drags always pan
func (v *Viewport) MouseDown(event *desktop.MouseEvent) {
	v.secondary = event.Button == desktop.MouseButtonSecondary
}

// MouseUp is required by desktop.Mouseable
func (v *Viewport) MouseUp(*desktop.MouseEvent) {}

// Dragged moves a grabbed line or pans the view
func (v *Viewport) Dragged(event *fyne.DragEvent) {
	if !v.dragStarted {
		v.dragStarted = true
		start := event.Position.Subtract(event.Dragged)
		v.draggingOn = !v.secondary && v.pointer.Grab(toVector(start))
	}

	if v.draggingOn {
		v.lastDrag = toVector(event.Position)
		v.pointer.Move(v.lastDrag)
		v.changed()
		return
	}

	v.camera.Pan(float64(event.Dragged.DX), float64(event.Dragged.DY))
	v.Refresh()
}

// DragEnd releases a grabbed line
func (v *Viewport) DragEnd() {
	if v.draggingOn {
		v.pointer.Release(v.lastDrag)
		v.changed()
	}
	v.dragStarted = false
	v.draggingOn = false
}

// Scrolled zooms the camera
func (v *Viewport) Scrolled(event *fyne.ScrollEvent) {
	v.camera.ZoomBy(math.Pow(1.0015, float64(event.Scrolled.DY)))
	v.Refresh()
}

// CreateRenderer creates the renderer for the widget
func (v *Viewport) CreateRenderer() fyne.WidgetRenderer {
	return &viewportRenderer{viewport: v}
}

type viewportRenderer struct {
	viewport *Viewport
}

func (r *viewportRenderer) Layout(size fyne.Size) {
	r.viewport.camera.Resize(float64(size.Width), float64(size.Height))
	r.viewport.raster.Resize(size)
}

func (r *viewportRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 400)
}

func (r *viewportRenderer) Refresh() {
	canvas.Refresh(r.viewport.raster)
}

func (r *viewportRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.viewport.raster}
}

func (r *viewportRenderer) Destroy() {}
