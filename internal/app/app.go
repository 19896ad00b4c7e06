package app

import (
	"context"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/guideline/internal/config"
	"github.com/philipparndt/guideline/internal/scene"
	"github.com/philipparndt/guideline/internal/session"
	"github.com/philipparndt/guideline/internal/store"
	"github.com/philipparndt/guideline/pkg/annotation"
	"github.com/philipparndt/guideline/pkg/viewer"
	"github.com/philipparndt/guideline/version"
	"github.com/rs/zerolog"
)

var backgroundColor = rl.NewColor(32, 34, 38, 255)

func newApp(cfg *config.Config, log zerolog.Logger) *App {
	ortho := viewer.NewOrthoCamera(cfg.Camera.Scale, cfg.Camera.Z, cfg.Camera.MinDistance, cfg.Camera.MaxDistance)
	overlay := scene.NewOverlay()

	opts := cfg.ToolOptions()
	opts.Logger = log
	tool := annotation.NewTool(overlay, opts)
	picker := scene.NewPicker(ortho, overlay, cfg.Annotation.PickTolerance, cfg.Annotation.PlaneDepth)

	return &App{
		cfg: cfg,
		log: log,
		Camera: CameraState{
			ortho: ortho,
		},
		View: ViewSettings{
			showFilled: true,
			showPanel:  true,
		},
		Annotation: AnnotationState{
			overlay: overlay,
			tool:    tool,
			picker:  picker,
			pointer: annotation.NewPointer(tool, picker),
		},
		Interaction: InteractionState{activeSlider: -1},
	}
}

// Run opens the viewer window and blocks until it is closed
func Run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app := newApp(cfg, log)

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagMsaa4xHint) // Must be before InitWindow
	rl.InitWindow(1400, 900, fmt.Sprintf("guideline %s", version.GetVersion()))
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)
	// Escape dismisses notices instead of closing the window
	rl.SetExitKey(rl.KeyNull)

	app.UI.font = rl.GetFontDefault()
	app.Model.material = rl.LoadMaterialDefault()

	exportPath := cfg.Resolve(cfg.Export.Path)
	deps := session.Deps{
		Loader:   app,
		Notifier: app,
		Exporter: session.FileExporter{Path: exportPath},
		Logger:   log,
	}

	if cfg.Store.Enabled {
		st, err := store.Open(cfg.Resolve(cfg.Store.Path), log)
		if err != nil {
			return err
		}
		defer st.Close()
		deps.Recorder = st
	}

	sess, err := session.New(cfg.ModelPaths(), app.Annotation.tool, deps)
	if err != nil {
		return err
	}
	app.session = sess

	if doc, err := annotation.LoadDocument(exportPath); err != nil {
		log.Warn().Err(err).Str("path", exportPath).Msg("Ignoring earlier export")
	} else {
		sess.Preload(doc)
	}

	if cfg.Watch {
		if err := app.setupFileWatcher(ctx); err != nil {
			log.Warn().Err(err).Msg("Auto-reload will not be available")
		} else {
			defer app.FileWatch.fileWatcher.Close()
		}
	}

	if err := sess.Start(ctx); err != nil {
		return err
	}

	for !rl.WindowShouldClose() {
		app.checkReload(ctx)
		// Must run on the main thread
		app.applyLoadedModel()

		app.handleInput(ctx)
		app.updateCamera()

		rl.BeginDrawing()
		rl.ClearBackground(backgroundColor)

		rl.BeginMode3D(app.Camera.camera)
		if app.Model.hasMesh && app.View.showFilled {
			offset := app.Model.model.Offset
			transform := rl.MatrixTranslate(float32(offset.X), float32(offset.Y), float32(offset.Z))
			rl.DrawMesh(app.Model.mesh, app.Model.material, transform)
		}
		if app.Model.hasMesh && app.View.showWireframe {
			app.drawWireframe()
		}
		rl.EndMode3D()

		app.drawGuideLines()
		app.drawUI()

		rl.EndDrawing()
	}

	if app.Model.hasMesh {
		rl.UnloadMesh(&app.Model.mesh)
	}
	return nil
}
