package app

import (
	"context"
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/guideline/internal/scene"
	"github.com/philipparndt/guideline/pkg/controls"
	"github.com/philipparndt/guideline/pkg/geometry"
	"github.com/philipparndt/guideline/pkg/watcher"
)

// loadModel loads the mesh and pose files of a configured model location
func (app *App) loadModel(ctx context.Context, location string) (*scene.Model, error) {
	entry, _ := app.cfg.ModelByPath(location)
	path := app.cfg.Resolve(location)

	model, err := scene.LoadAssets(ctx, path, entry.Morphs, app.cfg.ResolvedPoses(), func(percent float64) {
		app.log.Debug().Str("model", location).Float64("percent", percent).Msg("Loading")
	}, app.log)
	if err != nil {
		return nil, err
	}
	model.Offset = geometry.NewVector3(0, app.cfg.Camera.OffsetY, 0)
	return model, nil
}

// Load switches the scene to another model. It runs on the main thread since
// the mesh is uploaded to the GPU.
func (app *App) Load(ctx context.Context, index int, location string) error {
	model, err := app.loadModel(ctx, location)
	if err != nil {
		return err
	}

	app.Annotation.pointer.Cancel()
	app.setModel(model)
	app.Model.index = index
	app.resetCameraView()

	if app.FileWatch.fileWatcher != nil {
		if err := app.watchModel(model.Path); err != nil {
			app.log.Warn().Err(err).Str("model", model.Path).Msg("Failed to watch model")
		}
	}
	return nil
}

// setModel replaces the mesh and rebuilds the debug panel
func (app *App) setModel(model *scene.Model) {
	newMesh := stlToRaylibMesh(model.Mesh)

	if app.Model.hasMesh {
		oldMesh := app.Model.mesh
		rl.UnloadMesh(&oldMesh)
	}
	app.Model.mesh = newMesh
	app.Model.hasMesh = true
	app.Model.model = model

	panel := controls.NewPanel(controls.Build(model.Morphs, app.cfg.ResolvedPoses(), model))
	panel.Init()
	app.Panel.panel = panel
	app.Interaction.activeSlider = -1
}

// setupFileWatcher creates the watcher used for the active model
func (app *App) setupFileWatcher(ctx context.Context) error {
	fw, err := watcher.NewFileWatcher(500*time.Millisecond, app.log)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	fw.Start(ctx)
	app.FileWatch.fileWatcher = fw
	return nil
}

// watchModel makes the active model the only watched file
func (app *App) watchModel(path string) error {
	fw := app.FileWatch.fileWatcher
	// RemoveAll always empties the watcher, so a failure here must not stop
	// the new model from being watched
	if err := fw.RemoveAll(); err != nil {
		app.log.Warn().Err(err).Msg("Failed to drop previous watch")
	}

	return fw.Watch([]string{path}, func(changedFile string) {
		app.log.Info().Str("file", changedFile).Msg("Model file changed")
		app.FileWatch.mu.Lock()
		app.FileWatch.needsReload = true
		app.FileWatch.mu.Unlock()
	})
}

// checkReload starts a background reload when the watched file changed
func (app *App) checkReload(ctx context.Context) {
	app.FileWatch.mu.Lock()
	defer app.FileWatch.mu.Unlock()

	if !app.FileWatch.needsReload || app.FileWatch.isLoading || app.Model.model == nil {
		return
	}
	app.FileWatch.needsReload = false
	app.FileWatch.isLoading = true
	app.FileWatch.loadingStartTime = time.Now()

	location := app.session.Location()
	app.log.Info().Str("model", location).Msg("Reloading model")

	// Mesh upload happens later on the main thread
	go func() {
		model, err := app.loadModel(ctx, location)

		app.FileWatch.mu.Lock()
		defer app.FileWatch.mu.Unlock()
		if err != nil {
			app.log.Error().Err(err).Str("model", location).Msg("Failed to reload model")
			app.FileWatch.isLoading = false
			return
		}
		app.FileWatch.loadedModel = model
	}()
}

// applyLoadedModel swaps in a reloaded model; must be called on the main
// thread. Guide lines and the camera are kept.
func (app *App) applyLoadedModel() {
	app.FileWatch.mu.Lock()
	model := app.FileWatch.loadedModel
	app.FileWatch.loadedModel = nil
	started := app.FileWatch.loadingStartTime
	if model != nil {
		app.FileWatch.isLoading = false
	}
	app.FileWatch.mu.Unlock()

	if model == nil {
		return
	}
	// The user may have navigated while the reload was running
	if model.Path != app.Model.model.Path {
		return
	}

	pose := app.Model.model.ActivePoseIndex()
	app.setModel(model)
	if pose != controls.RestPose {
		if err := app.Panel.panel.Set("pose", float64(pose)); err != nil {
			app.log.Warn().Err(err).Msg("Failed to restore pose")
		}
	}

	app.log.Info().
		Str("model", model.Path).
		Dur("elapsed", time.Since(started)).
		Msg("Model reloaded")
}
