package scene

import (
	"context"
	"fmt"

	"github.com/philipparndt/guideline/pkg/controls"
	"github.com/philipparndt/guideline/pkg/geometry"
	"github.com/philipparndt/guideline/pkg/stl"
	"github.com/philipparndt/guideline/pkg/vpd"
	"github.com/rs/zerolog"
)

// Model is a loaded character: its mesh, the morph dictionary and the poses
// that can be applied to it
type Model struct {
	Path   string
	Mesh   *stl.Model
	Offset geometry.Vector3 // translation applied when drawing
	Morphs []string         // morph dictionary in index order
	Poses  []*vpd.Pose

	influences []float64
	active     int
	log        zerolog.Logger
}

// Progress receives the load progress in percent
type Progress func(percent float64)

// LoadAssets loads the mesh at path and then every pose file strictly in
// the given order. The first failure aborts the load.
func LoadAssets(ctx context.Context, path string, morphs []string, posePaths []string, progress Progress, log zerolog.Logger) (*Model, error) {
	if progress == nil {
		progress = func(float64) {}
	}
	steps := float64(1 + len(posePaths))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Debug().Str("model", path).Msg("Loading model")
	mesh, err := stl.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", path, err)
	}
	progress(100 / steps)

	m := &Model{
		Path:       path,
		Mesh:       mesh,
		Morphs:     append([]string(nil), morphs...),
		influences: make([]float64, len(morphs)),
		active:     controls.RestPose,
		log:        log,
	}

	for i, posePath := range posePaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pose, err := vpd.ParseFile(posePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load pose %s: %w", posePath, err)
		}
		m.Poses = append(m.Poses, pose)
		progress(100 * float64(i+2) / steps)
	}

	log.Info().
		Str("model", path).
		Int("triangles", mesh.TriangleCount()).
		Int("poses", len(m.Poses)).
		Msg("Model loaded")
	return m, nil
}

// SetMorphInfluence sets the weight of a morph by dictionary index. Values
// are clamped to 0..1; unknown indices are ignored.
func (m *Model) SetMorphInfluence(index int, value float64) {
	if index < 0 || index >= len(m.influences) {
		return
	}
	m.influences[index] = clamp01(value)
}

// Influence returns the weight of a morph
func (m *Model) Influence(index int) float64 {
	if index < 0 || index >= len(m.influences) {
		return 0
	}
	return m.influences[index]
}

// MorphIndex looks up a morph by name
func (m *Model) MorphIndex(name string) (int, bool) {
	for i, morph := range m.Morphs {
		if morph == name {
			return i, true
		}
	}
	return 0, false
}

// ApplyPose makes a loaded pose active; controls.RestPose returns to the rest
// pose. Morph weights stored in the pose are copied into the influences of
// matching morphs.
func (m *Model) ApplyPose(index int) {
	if index == controls.RestPose {
		m.active = controls.RestPose
		m.log.Debug().Msg("Rest pose applied")
		return
	}
	if index < 0 || index >= len(m.Poses) {
		m.log.Warn().Int("index", index).Msg("Ignoring unknown pose")
		return
	}

	m.active = index
	pose := m.Poses[index]
	for _, weight := range pose.Morphs {
		if i, ok := m.MorphIndex(weight.Name); ok {
			m.influences[i] = clamp01(weight.Weight)
		}
	}
	m.log.Debug().Str("pose", pose.Name).Int("bones", len(pose.Bones)).Msg("Pose applied")
}

// ActivePose returns the applied pose, or nil in the rest pose
func (m *Model) ActivePose() *vpd.Pose {
	if m.active == controls.RestPose {
		return nil
	}
	return m.Poses[m.active]
}

// ActivePoseIndex returns the index of the applied pose or controls.RestPose
func (m *Model) ActivePoseIndex() int {
	return m.active
}

// Bounds returns the bounding box of the mesh including the draw offset
func (m *Model) Bounds() geometry.BoundingBox {
	return m.Mesh.BoundingBox().Translate(m.Offset)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
