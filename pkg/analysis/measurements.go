package analysis

import (
	"fmt"
	"math"

	"github.com/philipparndt/guideline/pkg/geometry"
	"github.com/philipparndt/guideline/pkg/stl"
)

// Summary describes a character mesh: its extent in world units and how
// dense the triangulation is.
type Summary struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	SurfaceArea   float64
	TriangleCount int
	EdgeCount     int // unique edges, shared edges counted once
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
}

type edgeKey struct {
	a, b geometry.Vector3
}

func newEdgeKey(a, b geometry.Vector3) edgeKey {
	if b.X < a.X || (b.X == a.X && (b.Y < a.Y || (b.Y == a.Y && b.Z < a.Z))) {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// Summarize measures a mesh
func Summarize(model *stl.Model) Summary {
	s := Summary{
		BoundingBox:   model.BoundingBox(),
		SurfaceArea:   model.SurfaceArea(),
		TriangleCount: model.TriangleCount(),
	}
	if s.TriangleCount == 0 {
		s.BoundingBox = geometry.BoundingBox{}
		return s
	}
	s.Dimensions = s.BoundingBox.Size()

	seen := make(map[edgeKey]struct{}, s.TriangleCount*3/2)
	s.MinEdgeLength = math.MaxFloat64
	total := 0.0
	for _, t := range model.Triangles {
		for _, e := range [][2]geometry.Vector3{{t.V1, t.V2}, {t.V2, t.V3}, {t.V3, t.V1}} {
			key := newEdgeKey(e[0], e[1])
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}

			length := e[0].Distance(e[1])
			total += length
			s.MinEdgeLength = math.Min(s.MinEdgeLength, length)
			s.MaxEdgeLength = math.Max(s.MaxEdgeLength, length)
		}
	}
	s.EdgeCount = len(seen)
	s.AvgEdgeLength = total / float64(s.EdgeCount)
	return s
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}
