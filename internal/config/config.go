package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/philipparndt/guideline/pkg/annotation"
	"github.com/spf13/viper"
)

// DefaultFile is looked up in the working directory when no path is given
const DefaultFile = "guideline.yaml"

// ErrNoModels is returned when the configuration lists no model
var ErrNoModels = errors.New("no models configured")

// Model is one entry of the model list
type Model struct {
	Path   string   `mapstructure:"path"`
	Morphs []string `mapstructure:"morphs"`
}

// CameraConfig holds the orthographic camera setup
type CameraConfig struct {
	Scale       float64 `mapstructure:"scale"`       // pixels per world unit at zoom 1
	Z           float64 `mapstructure:"z"`           // camera distance in front of the model
	MinDistance float64 `mapstructure:"minDistance"` // closest zoom
	MaxDistance float64 `mapstructure:"maxDistance"` // farthest zoom
	OffsetY     float64 `mapstructure:"offsetY"`     // vertical model offset
}

// AnnotationConfig holds the guide line settings
type AnnotationConfig struct {
	Draggable        bool    `mapstructure:"draggable"`
	Depth            float64 `mapstructure:"depth"`
	PlaneDepth       float64 `mapstructure:"planeDepth"`
	HorizontalSpan   float64 `mapstructure:"horizontalSpan"`
	VerticalHalfSpan float64 `mapstructure:"verticalHalfSpan"`
	DragDamping      float64 `mapstructure:"dragDamping"`
	PickTolerance    float64 `mapstructure:"pickTolerance"` // pixels
}

// ExportConfig holds the export target
type ExportConfig struct {
	Path string `mapstructure:"path"`
}

// StoreConfig holds the annotation history database
type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Config is the complete application configuration
type Config struct {
	LogLevel   string           `mapstructure:"logLevel"`
	Models     []Model          `mapstructure:"models"`
	Poses      []string         `mapstructure:"poses"`
	Camera     CameraConfig     `mapstructure:"camera"`
	Annotation AnnotationConfig `mapstructure:"annotation"`
	Export     ExportConfig     `mapstructure:"export"`
	Store      StoreConfig      `mapstructure:"store"`
	Watch      bool             `mapstructure:"watch"`

	// Dir is the directory of the config file; relative paths resolve against it
	Dir string `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")

	v.SetDefault("camera.scale", 30.0)
	v.SetDefault("camera.z", 25.0)
	v.SetDefault("camera.minDistance", 10.0)
	v.SetDefault("camera.maxDistance", 100.0)
	v.SetDefault("camera.offsetY", -10.0)

	v.SetDefault("annotation.draggable", false)
	v.SetDefault("annotation.depth", 24.0)
	v.SetDefault("annotation.planeDepth", -1.2)
	v.SetDefault("annotation.horizontalSpan", 2.0)
	v.SetDefault("annotation.verticalHalfSpan", 1.0)
	v.SetDefault("annotation.dragDamping", 0.2)
	v.SetDefault("annotation.pickTolerance", 6.0)

	v.SetDefault("export.path", "modellist.json")

	v.SetDefault("store.enabled", false)
	v.SetDefault("store.path", "guideline.db")

	v.SetDefault("watch", true)
}

// Load reads the configuration file (YAML, JSON or TOML by extension) and
// applies defaults. An empty path uses DefaultFile in the working directory.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}

	if len(cfg.Models) == 0 {
		return nil, ErrNoModels
	}
	for i, m := range cfg.Models {
		if m.Path == "" {
			return nil, fmt.Errorf("model %d: missing path", i)
		}
	}

	cfg.Dir = filepath.Dir(path)
	return &cfg, nil
}

// Resolve returns path relative to the config file directory unless it is
// absolute
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.Dir == "" {
		return path
	}
	return filepath.Join(c.Dir, path)
}

// ModelPaths returns the model locations as written in the config; these
// are the locations used in exported records
func (c *Config) ModelPaths() []string {
	paths := make([]string, len(c.Models))
	for i, m := range c.Models {
		paths[i] = m.Path
	}
	return paths
}

// ResolvedPoses returns the pose file paths resolved against the config dir
func (c *Config) ResolvedPoses() []string {
	paths := make([]string, len(c.Poses))
	for i, p := range c.Poses {
		paths[i] = c.Resolve(p)
	}
	return paths
}

// ModelByPath finds the model entry for a location
func (c *Config) ModelByPath(path string) (Model, bool) {
	for _, m := range c.Models {
		if m.Path == path {
			return m, true
		}
	}
	return Model{}, false
}

// ToolOptions converts the annotation settings into tool options
func (c *Config) ToolOptions() annotation.Options {
	opts := annotation.DefaultOptions()
	opts.Draggable = c.Annotation.Draggable
	opts.Depth = c.Annotation.Depth
	opts.HorizontalSpan = c.Annotation.HorizontalSpan
	opts.VerticalHalfSpan = c.Annotation.VerticalHalfSpan
	opts.DragDamping = c.Annotation.DragDamping
	return opts
}
