package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "guideline.yaml", `
logLevel: debug
models:
  - path: models/a.stl
    morphs: [blink, smile]
  - path: /abs/b.stl
poses:
  - vpds/01.vpd
  - vpds/02.vpd
annotation:
  draggable: true
export:
  path: out.json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	require.Len(t, cfg.Models, 2)
	assert.Equal(t, []string{"blink", "smile"}, cfg.Models[0].Morphs)
	assert.Equal(t, []string{"models/a.stl", "/abs/b.stl"}, cfg.ModelPaths())
	assert.True(t, cfg.Annotation.Draggable)
	assert.Equal(t, "out.json", cfg.Export.Path)

	dir := filepath.Dir(path)
	assert.Equal(t, filepath.Join(dir, "models/a.stl"), cfg.Resolve(cfg.Models[0].Path))
	assert.Equal(t, "/abs/b.stl", cfg.Resolve(cfg.Models[1].Path))
	assert.Equal(t, []string{filepath.Join(dir, "vpds/01.vpd"), filepath.Join(dir, "vpds/02.vpd")}, cfg.ResolvedPoses())

	m, ok := cfg.ModelByPath("/abs/b.stl")
	require.True(t, ok)
	assert.Empty(t, m.Morphs)
}

func TestLoad_DefaultValues(t *testing.T) {
	path := writeConfig(t, "guideline.json", `{"models": [{"path": "a.stl"}]}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30.0, cfg.Camera.Scale)
	assert.Equal(t, 25.0, cfg.Camera.Z)
	assert.Equal(t, 10.0, cfg.Camera.MinDistance)
	assert.Equal(t, 100.0, cfg.Camera.MaxDistance)
	assert.Equal(t, -10.0, cfg.Camera.OffsetY)
	assert.False(t, cfg.Annotation.Draggable)
	assert.Equal(t, 24.0, cfg.Annotation.Depth)
	assert.Equal(t, -1.2, cfg.Annotation.PlaneDepth)
	assert.Equal(t, 2.0, cfg.Annotation.HorizontalSpan)
	assert.Equal(t, 1.0, cfg.Annotation.VerticalHalfSpan)
	assert.Equal(t, 0.2, cfg.Annotation.DragDamping)
	assert.Equal(t, 6.0, cfg.Annotation.PickTolerance)
	assert.Equal(t, "modellist.json", cfg.Export.Path)
	assert.False(t, cfg.Store.Enabled)
	assert.Equal(t, "guideline.db", cfg.Store.Path)
	assert.True(t, cfg.Watch)

	opts := cfg.ToolOptions()
	assert.Equal(t, 24.0, opts.Depth)
	assert.Equal(t, 0.2, opts.DragDamping)
	assert.False(t, opts.Draggable)
}

func TestLoad_NoModels(t *testing.T) {
	path := writeConfig(t, "guideline.yaml", "logLevel: info\n")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrNoModels)
}

func TestLoad_ModelWithoutPath(t *testing.T) {
	path := writeConfig(t, "guideline.yaml", "models:\n  - morphs: [a]\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing path")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}
