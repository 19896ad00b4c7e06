package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/guideline/pkg/geometry"
)

// resetCameraView centres the view on the origin at zoom 1
func (app *App) resetCameraView() {
	app.Camera.ortho.Reset(geometry.Vector2{})
}

// updateCamera syncs the raylib camera with the orthographic camera. The
// camera always looks straight down -Z; only pan and zoom change.
func (app *App) updateCamera() {
	ortho := app.Camera.ortho
	ortho.Resize(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))

	x := float32(ortho.Target.X)
	y := float32(ortho.Target.Y)
	app.Camera.camera = rl.Camera3D{
		Position: rl.Vector3{X: x, Y: y, Z: float32(ortho.Z)},
		Target:   rl.Vector3{X: x, Y: y, Z: 0},
		Up:       rl.Vector3{X: 0, Y: 1, Z: 0},
		// For orthographic projection raylib reads fovy as the visible height
		Fovy:       float32(ortho.VisibleHeight()),
		Projection: rl.CameraOrthographic,
	}
}

// doPan pans by a mouse delta in pixels
func (app *App) doPan(delta rl.Vector2) {
	app.Camera.ortho.Pan(float64(delta.X), float64(delta.Y))
}

// doZoom zooms by mouse wheel steps
func (app *App) doZoom(wheel float32) {
	factor := 1.1
	if wheel < 0 {
		factor = 1 / factor
	}
	app.Camera.ortho.ZoomBy(factor)
}
