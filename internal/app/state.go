package app

import (
	"sync"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/guideline/internal/config"
	"github.com/philipparndt/guideline/internal/scene"
	"github.com/philipparndt/guideline/internal/session"
	"github.com/philipparndt/guideline/pkg/annotation"
	"github.com/philipparndt/guideline/pkg/controls"
	"github.com/philipparndt/guideline/pkg/viewer"
	"github.com/philipparndt/guideline/pkg/watcher"
	"github.com/rs/zerolog"
)

// CameraState holds the raylib camera and the orthographic camera math
// shared with picking
type CameraState struct {
	camera rl.Camera3D
	ortho  *viewer.OrthoCamera
}

// ModelData holds the active model and its GPU resources
type ModelData struct {
	model    *scene.Model
	mesh     rl.Mesh
	material rl.Material
	hasMesh  bool
	index    int
}

// ViewSettings holds display settings
type ViewSettings struct {
	showFilled    bool
	showWireframe bool
	showPanel     bool
}

// AnnotationState wires the line tool to the scene
type AnnotationState struct {
	overlay *scene.Overlay
	tool    *annotation.Tool
	picker  *scene.Picker
	pointer *annotation.Pointer
}

// InteractionState holds mouse state
type InteractionState struct {
	isPanning    bool
	mouseDownPos rl.Vector2
	lastMousePos rl.Vector2
	activeSlider int // index into the panel descriptors, -1 when none
}

// FileWatchState holds file watching and reload state
type FileWatchState struct {
	fileWatcher      *watcher.FileWatcher
	mu               sync.Mutex
	needsReload      bool
	isLoading        bool
	loadingStartTime time.Time
	loadedModel      *scene.Model
}

// PanelState holds the debug panel of the active model
type PanelState struct {
	panel  *controls.Panel
	bounds []panelRow
}

// UIState holds overlay messages
type UIState struct {
	font        rl.Font
	notice      string // blocking notice; input is suspended while set
	status      string
	statusUntil time.Time
}

// App is the raylib front-end
type App struct {
	cfg     *config.Config
	log     zerolog.Logger
	session *session.Session

	Camera      CameraState
	Model       ModelData
	View        ViewSettings
	Annotation  AnnotationState
	Interaction InteractionState
	FileWatch   FileWatchState
	Panel       PanelState
	UI          UIState
}
