package viewer

import (
	"image"
	"image/color"
	"math"

	"github.com/philipparndt/guideline/pkg/annotation"
	"github.com/philipparndt/guideline/pkg/geometry"
)

var (
	// Background is the colour of the backing plane
	Background = color.RGBA{R: 0x20, G: 0x22, B: 0x26, A: 0xff}
	meshColor  = color.RGBA{R: 0xe8, G: 0xd8, B: 0xc8, A: 0xff}
	lightDir   = geometry.NewVector3(0.3, 0.4, 1).Normalize()
)

// Frame is everything drawn in one viewport image
type Frame struct {
	Triangles []geometry.Triangle
	Offset    geometry.Vector3 // model translation
	Lines     []*annotation.Line
}

// RenderFrame rasterizes the mesh with flat shading and draws the guide lines
// on top. The image size follows the camera viewport.
func RenderFrame(camera *OrthoCamera, frame Frame) *image.RGBA {
	width := int(camera.Width)
	height := int(camera.Height)
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = Background.R
		img.Pix[i+1] = Background.G
		img.Pix[i+2] = Background.B
		img.Pix[i+3] = Background.A
	}

	zbuffer := make([]float64, width*height)
	for i := range zbuffer {
		zbuffer[i] = math.Inf(1)
	}

	for _, triangle := range frame.Triangles {
		v1 := triangle.V1.Add(frame.Offset)
		v2 := triangle.V2.Add(frame.Offset)
		v3 := triangle.V3.Add(frame.Offset)

		x1, y1 := camera.Project(v1)
		x2, y2 := camera.Project(v2)
		x3, y3 := camera.Project(v3)

		// Depth is the distance from the camera; smaller is closer
		fillTriangleWithDepth(img, zbuffer,
			x1, y1, camera.Z-v1.Z,
			x2, y2, camera.Z-v2.Z,
			x3, y3, camera.Z-v3.Z,
			shade(triangle))
	}

	for _, line := range frame.Lines {
		ax, ay := camera.Project(line.Start)
		bx, by := camera.Project(line.End)
		col := line.Color()
		// Two pixels wide
		drawLine(img, int(ax), int(ay), int(bx), int(by), col)
		if line.Orientation == annotation.Horizontal {
			drawLine(img, int(ax), int(ay)+1, int(bx), int(by)+1, col)
		} else {
			drawLine(img, int(ax)+1, int(ay), int(bx)+1, int(by), col)
		}
	}

	return img
}

func shade(triangle geometry.Triangle) color.RGBA {
	normal := triangle.Normal
	if normal.Length() == 0 {
		normal = triangle.CalculateNormal()
	}
	intensity := math.Abs(normal.Normalize().Dot(lightDir))
	intensity = 0.35 + 0.65*intensity
	return color.RGBA{
		R: uint8(float64(meshColor.R) * intensity),
		G: uint8(float64(meshColor.G) * intensity),
		B: uint8(float64(meshColor.B) * intensity),
		A: 0xff,
	}
}

// fillTriangleWithDepth fills a triangle with depth testing
func fillTriangleWithDepth(img *image.RGBA, zbuffer []float64, x1, y1, z1, x2, y2, z2, x3, y3, z3 float64, col color.RGBA) {
	// Convert to integers for pixel operations
	vertices := [][3]float64{
		{x1, y1, z1},
		{x2, y2, z2},
		{x3, y3, z3},
	}

	// Sort vertices by Y coordinate (top to bottom)
	if vertices[0][1] > vertices[1][1] {
		vertices[0], vertices[1] = vertices[1], vertices[0]
	}
	if vertices[1][1] > vertices[2][1] {
		vertices[1], vertices[2] = vertices[2], vertices[1]
	}
	if vertices[0][1] > vertices[1][1] {
		vertices[0], vertices[1] = vertices[1], vertices[0]
	}

	x1, y1, z1 = vertices[0][0], vertices[0][1], vertices[0][2]
	x2, y2, z2 = vertices[1][0], vertices[1][1], vertices[1][2]
	x3, y3, z3 = vertices[2][0], vertices[2][1], vertices[2][2]

	bounds := img.Bounds()
	width := bounds.Max.X

	// Scanline algorithm with depth interpolation
	for y := int(math.Max(0, y1)); y <= int(math.Min(float64(bounds.Max.Y-1), y3)); y++ {
		fy := float64(y)

		var xStart, xEnd, zStart, zEnd float64
		foundStart := false
		foundEnd := false

		// Find intersections with triangle edges
		// Edge 1-2
		if y1 != y2 && fy >= y1 && fy <= y2 {
			t := (fy - y1) / (y2 - y1)
			x := x1 + t*(x2-x1)
			z := z1 + t*(z2-z1)
			if !foundStart {
				xStart, zStart = x, z
				foundStart = true
			} else {
				xEnd, zEnd = x, z
				foundEnd = true
			}
		}

		// Edge 2-3
		if y2 != y3 && fy >= y2 && fy <= y3 {
			t := (fy - y2) / (y3 - y2)
			x := x2 + t*(x3-x2)
			z := z2 + t*(z3-z2)
			if !foundStart {
				xStart, zStart = x, z
				foundStart = true
			} else {
				xEnd, zEnd = x, z
				foundEnd = true
			}
		}

		// Edge 1-3
		if y1 != y3 && fy >= y1 && fy <= y3 {
			t := (fy - y1) / (y3 - y1)
			x := x1 + t*(x3-x1)
			z := z1 + t*(z3-z1)
			if !foundStart {
				xStart, zStart = x, z
				foundStart = true
			} else {
				xEnd, zEnd = x, z
				foundEnd = true
			}
		}

		if foundStart && foundEnd {
			// Ensure xStart < xEnd
			if xStart > xEnd {
				xStart, xEnd = xEnd, xStart
				zStart, zEnd = zEnd, zStart
			}

			// Clamp to image bounds
			xStartInt := int(math.Max(0, xStart))
			xEndInt := int(math.Min(float64(bounds.Max.X-1), xEnd))

			// Draw horizontal line with depth testing
			for x := xStartInt; x <= xEndInt; x++ {
				// Interpolate depth
				t := 0.0
				if xEnd != xStart {
					t = (float64(x) - xStart) / (xEnd - xStart)
				}
				z := zStart + t*(zEnd-zStart)

				// Depth test - draw if closer (smaller z)
				idx := y*width + x
				if idx >= 0 && idx < len(zbuffer) {
					if z < zbuffer[idx] {
						zbuffer[idx] = z
						img.SetRGBA(x, y, col)
					}
				}
			}
		}
	}
}

// drawLine draws a line on an image using Bresenham's algorithm
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := img.Bounds()

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	var sx, sy int
	if x1 < x2 {
		sx = 1
	} else {
		sx = -1
	}
	if y1 < y2 {
		sy = 1
	} else {
		sy = -1
	}

	err := dx - dy

	for {
		// Check bounds
		if x1 >= 0 && x1 < bounds.Max.X && y1 >= 0 && y1 < bounds.Max.Y {
			img.SetRGBA(x1, y1, col)
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
