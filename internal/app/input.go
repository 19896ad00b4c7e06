package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/guideline/internal/session"
	"github.com/philipparndt/guideline/pkg/geometry"
)

// Notice shows a blocking notice; input is suspended until it is dismissed
func (app *App) Notice(message string) {
	app.UI.notice = message
}

func (app *App) setStatus(message string) {
	app.UI.status = message
	app.UI.statusUntil = time.Now().Add(4 * time.Second)
}

// handleInput processes user input
func (app *App) handleInput(ctx context.Context) {
	if app.UI.notice != "" {
		app.handleNoticeInput()
		return
	}

	app.handleKeys(ctx)
	app.handleMouse()
}

func (app *App) handleNoticeInput() {
	// Typed characters would otherwise reach the session once dismissed
	for rl.GetCharPressed() != 0 {
	}

	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyEscape) || rl.IsKeyPressed(rl.KeySpace) ||
		rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		app.UI.notice = ""
	}
}

func (app *App) handleKeys(ctx context.Context) {
	if rl.IsKeyPressed(rl.KeyHome) {
		app.resetCameraView()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		app.View.showPanel = !app.View.showPanel
	}

	for {
		ch := rl.GetCharPressed()
		if ch == 0 {
			break
		}

		switch key := rune(ch); key {
		case 'w', 'W':
			app.View.showWireframe = !app.View.showWireframe
		case 'f', 'F':
			app.View.showFilled = !app.View.showFilled
		case 'p', 'P':
			if err := app.Panel.panel.Cycle("pose"); err != nil {
				app.log.Warn().Err(err).Msg("Failed to switch pose")
			}
		case 's', 'S':
			if err := app.session.HandleKey(ctx, key); err != nil {
				app.reportError(err)
				continue
			}
			app.setStatus(fmt.Sprintf("Exported %d models to %s", app.session.Len(), app.cfg.Resolve(app.cfg.Export.Path)))
		default:
			if err := app.session.HandleKey(ctx, key); err != nil {
				app.reportError(err)
			}
		}

		// Navigation may have replaced the model; stop consuming keys for
		// this frame so the next ones act on the new state
		if app.UI.notice != "" {
			return
		}
	}
}

// reportError surfaces a session error; navigation limits were already
// shown as a notice
func (app *App) reportError(err error) {
	if errors.Is(err, session.ErrFirstModel) || errors.Is(err, session.ErrLastModel) {
		return
	}
	app.log.Error().Err(err).Msg("Operation failed")
	app.Notice(err.Error())
}

func (app *App) handleMouse() {
	mouse := rl.GetMousePosition()
	pos := geometry.NewVector2(float64(mouse.X), float64(mouse.Y))
	pointer := app.Annotation.pointer

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		app.doZoom(wheel)
	}

	if app.handlePanelMouse(mouse) {
		return
	}

	// Right drag pans, a right click without movement removes a line
	if rl.IsMouseButtonPressed(rl.MouseRightButton) {
		app.Interaction.isPanning = false
		app.Interaction.lastMousePos = mouse
		app.Interaction.mouseDownPos = mouse
	}
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		if rl.Vector2Distance(mouse, app.Interaction.mouseDownPos) > 3 {
			app.Interaction.isPanning = true
		}
		if app.Interaction.isPanning {
			app.doPan(rl.Vector2Subtract(mouse, app.Interaction.lastMousePos))
		}
		app.Interaction.lastMousePos = mouse
	}
	if rl.IsMouseButtonReleased(rl.MouseRightButton) {
		if !app.Interaction.isPanning {
			pointer.SecondaryClick(pos)
		}
		app.Interaction.isPanning = false
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		pointer.Press(pos)
	}
	if rl.IsMouseButtonDown(rl.MouseLeftButton) && pointer.Dragging() {
		pointer.Move(pos)
	}
	if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		pointer.Release(pos)
	}
}
