package scene

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/guideline/pkg/annotation"
	"github.com/philipparndt/guideline/pkg/controls"
	"github.com/philipparndt/guideline/pkg/geometry"
	"github.com/philipparndt/guideline/pkg/viewer"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangleSTL = `solid test
facet normal 0 0 1
  outer loop
    vertex 0 0 0
    vertex 1 0 0
    vertex 0 1 0
  endloop
endfacet
endsolid test
`

const smilePose = `Vocaloid Pose Data file
model.osm;
1;
Bone0{center
  0.0,1.0,0.0;
  0.0,0.0,0.0,1.0;
}
Morph0{smile
  0.75;
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadAssets_Sequential(t *testing.T) {
	dir := t.TempDir()
	model := writeFile(t, dir, "a.stl", triangleSTL)
	pose1 := writeFile(t, dir, "01.vpd", smilePose)
	pose2 := writeFile(t, dir, "02.vpd", smilePose)

	var progress []float64
	m, err := LoadAssets(context.Background(), model, []string{"blink", "smile"}, []string{pose1, pose2},
		func(p float64) { progress = append(progress, p) }, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, 1, m.Mesh.TriangleCount())
	require.Len(t, m.Poses, 2)
	assert.Equal(t, "01.vpd", m.Poses[0].Name)
	assert.Equal(t, "02.vpd", m.Poses[1].Name)
	require.Len(t, progress, 3)
	assert.InDelta(t, 100, progress[2], 1e-9)
	assert.Less(t, progress[0], progress[1])
	assert.Equal(t, controls.RestPose, m.ActivePoseIndex())
	assert.Nil(t, m.ActivePose())
}

func TestModel_BoundsIncludeOffset(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.stl", triangleSTL)
	m, err := LoadAssets(context.Background(), path, nil, nil, nil, zerolog.Nop())
	require.NoError(t, err)

	m.Offset = geometry.NewVector3(0, -10, 0)
	bounds := m.Bounds()

	assert.Equal(t, geometry.NewVector3(0, -10, 0), bounds.Min)
	assert.Equal(t, geometry.NewVector3(1, -9, 0), bounds.Max)
	assert.Equal(t, geometry.NewVector3(1, 1, 0), bounds.Size())
}

func TestLoadAssets_PoseFailureAborts(t *testing.T) {
	dir := t.TempDir()
	model := writeFile(t, dir, "a.stl", triangleSTL)
	broken := writeFile(t, dir, "broken.vpd", "not a pose")

	_, err := LoadAssets(context.Background(), model, nil, []string{broken}, nil, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.vpd")
}

func TestLoadAssets_MissingModel(t *testing.T) {
	_, err := LoadAssets(context.Background(), filepath.Join(t.TempDir(), "none.stl"), nil, nil, nil, zerolog.Nop())
	require.Error(t, err)
}

func TestLoadAssets_Cancelled(t *testing.T) {
	dir := t.TempDir()
	model := writeFile(t, dir, "a.stl", triangleSTL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadAssets(ctx, model, nil, nil, nil, zerolog.Nop())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestModel_Controls(t *testing.T) {
	dir := t.TempDir()
	model := writeFile(t, dir, "a.stl", triangleSTL)
	pose := writeFile(t, dir, "01.vpd", smilePose)

	m, err := LoadAssets(context.Background(), model, []string{"blink", "smile"}, []string{pose}, nil, zerolog.Nop())
	require.NoError(t, err)

	panel := controls.NewPanel(controls.Build(m.Morphs, []string{pose}, m))
	require.NoError(t, panel.Set("blink", 1.5))
	assert.Equal(t, 1.0, m.Influence(0))

	require.NoError(t, panel.Select("pose", "01.vpd"))
	assert.Equal(t, 0, m.ActivePoseIndex())
	assert.Equal(t, "01.vpd", m.ActivePose().Name)
	assert.Equal(t, 0.75, m.Influence(1))

	require.NoError(t, panel.Set("pose", controls.RestPose))
	assert.Nil(t, m.ActivePose())

	m.ApplyPose(7)
	assert.Equal(t, controls.RestPose, m.ActivePoseIndex())
	m.SetMorphInfluence(9, 1)
	assert.Equal(t, 0.0, m.Influence(9))
}

func TestOverlay_AttachDetach(t *testing.T) {
	overlay := NewOverlay()
	tool := annotation.NewTool(overlay, annotation.DefaultOptions())

	tool.SetMode(annotation.Mode1)
	first := tool.AddLine(0, 0)
	tool.SetMode(annotation.Mode2)
	second := tool.AddLine(1, 1)
	assert.Equal(t, []*annotation.Line{first, second}, overlay.Lines())

	overlay.Attach(first)
	assert.Equal(t, 2, overlay.Len())

	tool.CopyLines()
	assert.Equal(t, 4, overlay.Len())

	tool.Reset()
	assert.Equal(t, 0, overlay.Len())
}

func newTestPicker() (*Picker, *annotation.Tool) {
	camera := viewer.NewOrthoCamera(30, 25, 10, 100)
	camera.Resize(900, 600)
	overlay := NewOverlay()
	tool := annotation.NewTool(overlay, annotation.DefaultOptions())
	return NewPicker(camera, overlay, 6, -1.2), tool
}

func TestPicker_HitsLine(t *testing.T) {
	picker, tool := newTestPicker()
	line := tool.AddLine(0, 0)

	hit, ok := picker.Pick(geometry.NewVector2(480, 303))
	require.True(t, ok)
	assert.True(t, hit.OnLine())
	assert.Equal(t, line.ID, hit.LineID)
	assert.InDelta(t, 1.0, hit.Point.X, 1e-9)
	assert.InDelta(t, 24.0, hit.Point.Z, 1e-9)
}

func TestPicker_FallsBackToPlane(t *testing.T) {
	picker, tool := newTestPicker()
	tool.AddLine(0, 0)

	hit, ok := picker.Pick(geometry.NewVector2(480, 330))
	require.True(t, ok)
	assert.False(t, hit.OnLine())
	assert.InDelta(t, 1.0, hit.Point.X, 1e-9)
	assert.InDelta(t, -1.0, hit.Point.Y, 1e-9)
	assert.InDelta(t, -1.2, hit.Point.Z, 1e-9)
}

func TestPicker_PrefersClosestLine(t *testing.T) {
	picker, tool := newTestPicker()
	tool.SetMode(annotation.Mode1)
	tool.AddLine(0, 0)
	tool.SetMode(annotation.Mode3)
	upper := tool.AddLine(0, 0.2)

	// y=0.2 projects to 294px; the pointer is 1px from it and 5px from y=0
	hit, ok := picker.Pick(geometry.NewVector2(470, 295))
	require.True(t, ok)
	assert.Equal(t, upper.ID, hit.LineID)
}

func TestPicker_ZeroViewport(t *testing.T) {
	camera := viewer.NewOrthoCamera(30, 25, 10, 100)
	picker := NewPicker(camera, NewOverlay(), 6, -1.2)

	_, ok := picker.Pick(geometry.NewVector2(1, 1))
	assert.False(t, ok)
}

func TestPicker_DrivesPointer(t *testing.T) {
	camera := viewer.NewOrthoCamera(30, 25, 10, 100)
	camera.Resize(900, 600)
	overlay := NewOverlay()
	opts := annotation.DefaultOptions()
	opts.Draggable = true
	tool := annotation.NewTool(overlay, opts)
	pointer := annotation.NewPointer(tool, NewPicker(camera, overlay, 6, -1.2))

	pointer.Press(geometry.NewVector2(450, 300))
	line, ok := tool.Original(annotation.Mode1)
	require.True(t, ok)
	assert.InDelta(t, 0.0, line.Start.Y, 1e-9)

	pointer.Press(geometry.NewVector2(460, 300))
	require.True(t, pointer.Dragging())
	pointer.Move(geometry.NewVector2(460, 150))
	pointer.Release(geometry.NewVector2(460, 150))

	// 150px up is 5 world units, damped by 0.2
	assert.InDelta(t, 1.0, line.Start.Y, 1e-9)
	assert.False(t, line.Draggable)
}
