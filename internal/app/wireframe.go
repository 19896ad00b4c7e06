package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

type edgeKey struct {
	a, b rl.Vector3
}

// drawWireframe draws every mesh edge once on top of the filled mesh
func (app *App) drawWireframe() {
	wireframeColor := rl.NewColor(100, 100, 100, 200)
	offset := app.Model.model.Offset
	shift := rl.Vector3{X: float32(offset.X), Y: float32(offset.Y), Z: float32(offset.Z)}

	drawnEdges := make(map[edgeKey]bool)
	for _, triangle := range app.Model.model.Mesh.Triangles {
		v1 := rl.Vector3Add(rl.Vector3{X: float32(triangle.V1.X), Y: float32(triangle.V1.Y), Z: float32(triangle.V1.Z)}, shift)
		v2 := rl.Vector3Add(rl.Vector3{X: float32(triangle.V2.X), Y: float32(triangle.V2.Y), Z: float32(triangle.V2.Z)}, shift)
		v3 := rl.Vector3Add(rl.Vector3{X: float32(triangle.V3.X), Y: float32(triangle.V3.Y), Z: float32(triangle.V3.Z)}, shift)

		for _, edge := range [][2]rl.Vector3{{v1, v2}, {v2, v3}, {v3, v1}} {
			key := edgeKey{edge[0], edge[1]}
			reverse := edgeKey{edge[1], edge[0]}
			if drawnEdges[key] || drawnEdges[reverse] {
				continue
			}
			drawnEdges[key] = true
			rl.DrawLine3D(edge[0], edge[1], wireframeColor)
		}
	}
}
