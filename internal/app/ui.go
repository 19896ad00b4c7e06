package app

import (
	"fmt"
	"path/filepath"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/guideline/pkg/controls"
	"github.com/philipparndt/guideline/version"
)

const (
	panelWidth     = float32(260)
	panelRowHeight = float32(34)
	panelMargin    = float32(10)
)

// panelRow is the screen layout of one control
type panelRow struct {
	bounds rl.Rectangle
	bar    rl.Rectangle // slider track, empty for enums
	index  int
}

// layoutPanel computes the control rows for the current screen size
func (app *App) layoutPanel() []panelRow {
	if app.Panel.panel == nil || !app.View.showPanel {
		return nil
	}

	x := float32(rl.GetScreenWidth()) - panelWidth - panelMargin
	y := panelMargin + 24
	descriptors := app.Panel.panel.Descriptors()
	rows := make([]panelRow, 0, len(descriptors))
	group := ""
	for i, d := range descriptors {
		if d.Group != group {
			group = d.Group
			y += 20
		}
		row := panelRow{
			bounds: rl.Rectangle{X: x, Y: y, Width: panelWidth, Height: panelRowHeight},
			index:  i,
		}
		if d.Kind == controls.Slider {
			row.bar = rl.Rectangle{X: x + 8, Y: y + 20, Width: panelWidth - 16, Height: 8}
		}
		rows = append(rows, row)
		y += panelRowHeight
	}
	return rows
}

func (app *App) panelRect() rl.Rectangle {
	rows := app.Panel.bounds
	if len(rows) == 0 {
		return rl.Rectangle{}
	}
	last := rows[len(rows)-1].bounds
	top := panelMargin
	return rl.Rectangle{X: last.X, Y: top, Width: panelWidth, Height: last.Y + last.Height - top + 6}
}

// handlePanelMouse drives the control panel. It reports whether the mouse
// event belonged to the panel.
func (app *App) handlePanelMouse(mouse rl.Vector2) bool {
	panel := app.Panel.panel
	if panel == nil {
		return false
	}
	descriptors := panel.Descriptors()

	if app.Interaction.activeSlider >= 0 {
		if !rl.IsMouseButtonDown(rl.MouseLeftButton) {
			app.Interaction.activeSlider = -1
			return true
		}
		for _, row := range app.Panel.bounds {
			if row.index == app.Interaction.activeSlider {
				app.setSlider(descriptors[row.index], row.bar, mouse.X)
			}
		}
		return true
	}

	if !rl.CheckCollisionPointRec(mouse, app.panelRect()) {
		return false
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		for _, row := range app.Panel.bounds {
			if !rl.CheckCollisionPointRec(mouse, row.bounds) {
				continue
			}
			d := descriptors[row.index]
			switch d.Kind {
			case controls.Enum:
				if err := panel.Cycle(d.Name); err != nil {
					app.log.Warn().Err(err).Str("control", d.Name).Msg("Failed to change control")
				}
			case controls.Slider:
				app.Interaction.activeSlider = row.index
				app.setSlider(d, row.bar, mouse.X)
			}
		}
	}
	return true
}

func (app *App) setSlider(d controls.Descriptor, bar rl.Rectangle, mouseX float32) {
	t := (mouseX - bar.X) / bar.Width
	value := d.Min + float64(t)*(d.Max-d.Min)
	if err := app.Panel.panel.Set(d.Name, value); err != nil {
		app.log.Warn().Err(err).Str("control", d.Name).Msg("Failed to change control")
	}
}

// drawUI draws the user interface
func (app *App) drawUI() {
	y := float32(10)
	lineHeight := float32(20)
	fontSize16 := float32(16)
	fontSize14 := float32(14)
	fontSize12 := float32(12)

	text := func(s string, size float32, col rl.Color) {
		rl.DrawTextEx(app.UI.font, s, rl.Vector2{X: 10, Y: y}, size, 1, col)
		y += lineHeight
	}

	tool := app.Annotation.tool

	// === MODEL ===
	text("Model:", fontSize16, rl.Yellow)
	text(fmt.Sprintf("  %d / %d  %s", app.session.Index()+1, app.session.Len(), filepath.Base(app.session.Location())), fontSize14, rl.White)
	if app.Model.model != nil {
		text(fmt.Sprintf("  Triangles: %d", app.Model.model.Mesh.TriangleCount()), fontSize14, rl.White)
		if bounds := app.Model.model.Bounds(); !bounds.Empty() {
			text(fmt.Sprintf("  Y: %.2f .. %.2f", bounds.Min.Y, bounds.Max.Y), fontSize14, rl.White)
		}
	}
	y += lineHeight

	// === LINES ===
	text("Lines:", fontSize16, rl.Yellow)
	modeText := fmt.Sprintf("  Mode: %d", int(tool.Mode()))
	if orientation, ok := tool.Mode().Orientation(); ok {
		modeText += fmt.Sprintf(" (%s)", orientation)
	}
	text(modeText, fontSize14, rl.Green)
	mirrored := "no"
	if tool.Mirrored() {
		mirrored = "yes"
	}
	text(fmt.Sprintf("  Lines: %d | Mirrored: %s", tool.Len(), mirrored), fontSize14, rl.White)
	y += lineHeight

	// === KEYS ===
	text("Keys:", fontSize16, rl.Yellow)
	text("  1-4: Mode | Q: Mirror lines", fontSize14, rl.LightGray)
	text("  A: Previous | D: Next | S: Save", fontSize14, rl.LightGray)
	if tool.Options().Draggable {
		text("  Left Click: Add | Left Drag: Move line", fontSize14, rl.LightGray)
	} else {
		text("  Left Click: Add / remove line", fontSize14, rl.LightGray)
	}
	text("  Right Click: Remove | Right Drag: Pan", fontSize14, rl.LightGray)
	text("  Wheel: Zoom | Home: Reset view", fontSize14, rl.LightGray)
	text("  W: Wireframe | F: Fill | P: Pose | Tab: Panel", fontSize14, rl.LightGray)

	if app.UI.status != "" && time.Now().Before(app.UI.statusUntil) {
		y += lineHeight
		text(app.UI.status, fontSize14, rl.NewColor(100, 200, 255, 255))
	}

	app.Panel.bounds = app.layoutPanel()
	app.drawPanel()

	app.FileWatch.mu.Lock()
	loading, started := app.FileWatch.isLoading, app.FileWatch.loadingStartTime
	app.FileWatch.mu.Unlock()
	if loading {
		app.drawLoading(started)
	}

	// Version and FPS in bottom-left corner
	bottomY := float32(rl.GetScreenHeight()) - 30
	versionText := fmt.Sprintf("v%s", version.GetVersion())
	rl.DrawTextEx(app.UI.font, versionText, rl.Vector2{X: 10, Y: bottomY}, fontSize12, 1, rl.Gray)
	fpsText := fmt.Sprintf("FPS: %d", rl.GetFPS())
	versionWidth := rl.MeasureTextEx(app.UI.font, versionText, fontSize12, 1).X
	rl.DrawTextEx(app.UI.font, fpsText, rl.Vector2{X: 10 + versionWidth + 15, Y: bottomY}, fontSize12, 1, rl.Lime)

	if app.UI.notice != "" {
		app.drawNotice()
	}
}

func (app *App) drawPanel() {
	if len(app.Panel.bounds) == 0 {
		return
	}
	panel := app.Panel.panel
	descriptors := panel.Descriptors()

	rect := app.panelRect()
	rl.DrawRectangleRec(rect, rl.NewColor(0, 0, 0, 180))
	rl.DrawRectangleLinesEx(rect, 1, rl.DarkGray)
	rl.DrawTextEx(app.UI.font, "Controls", rl.Vector2{X: rect.X + 8, Y: rect.Y + 6}, 16, 1, rl.Yellow)

	group := ""
	for _, row := range app.Panel.bounds {
		d := descriptors[row.index]
		if d.Group != group {
			group = d.Group
			rl.DrawTextEx(app.UI.font, group, rl.Vector2{X: row.bounds.X + 8, Y: row.bounds.Y - 18}, 14, 1, rl.Gray)
		}

		value, _ := panel.Value(d.Name)
		labelPos := rl.Vector2{X: row.bounds.X + 8, Y: row.bounds.Y + 2}

		switch d.Kind {
		case controls.Enum:
			label, _ := d.Label(value)
			rl.DrawTextEx(app.UI.font, fmt.Sprintf("%s: < %s >", d.Name, label), labelPos, 14, 1, rl.White)
		case controls.Slider:
			rl.DrawTextEx(app.UI.font, fmt.Sprintf("%s: %.2f", d.Name, value), labelPos, 14, 1, rl.White)
			rl.DrawRectangleRec(row.bar, rl.NewColor(60, 60, 60, 255))
			fill := row.bar
			if d.Max > d.Min {
				fill.Width = row.bar.Width * float32((value-d.Min)/(d.Max-d.Min))
			}
			rl.DrawRectangleRec(fill, rl.NewColor(100, 200, 255, 255))
		}
	}
}

func (app *App) drawLoading(started time.Time) {
	elapsed := time.Since(started).Seconds()
	loadingText := fmt.Sprintf("Reloading... (%.1fs)", elapsed)

	screenWidth := float32(rl.GetScreenWidth())
	boxWidth := float32(250)
	boxHeight := float32(40)
	boxX := (screenWidth - boxWidth) / 2
	boxY := float32(20)

	rl.DrawRectangle(int32(boxX), int32(boxY), int32(boxWidth), int32(boxHeight), rl.NewColor(0, 0, 0, 180))
	rl.DrawRectangleLines(int32(boxX), int32(boxY), int32(boxWidth), int32(boxHeight), rl.Yellow)

	textSize := rl.MeasureTextEx(app.UI.font, loadingText, 18, 1)
	rl.DrawTextEx(app.UI.font, loadingText,
		rl.Vector2{X: boxX + (boxWidth-textSize.X)/2, Y: boxY + (boxHeight-textSize.Y)/2}, 18, 1, rl.Yellow)
}

// drawNotice dims the view and shows the blocking notice
func (app *App) drawNotice() {
	screenWidth := float32(rl.GetScreenWidth())
	screenHeight := float32(rl.GetScreenHeight())
	rl.DrawRectangle(0, 0, int32(screenWidth), int32(screenHeight), rl.NewColor(0, 0, 0, 140))

	hint := "Press Enter to continue"
	messageSize := rl.MeasureTextEx(app.UI.font, app.UI.notice, 20, 1)
	hintSize := rl.MeasureTextEx(app.UI.font, hint, 14, 1)

	boxWidth := max(messageSize.X, hintSize.X) + 60
	boxHeight := float32(100)
	boxX := (screenWidth - boxWidth) / 2
	boxY := (screenHeight - boxHeight) / 2

	rl.DrawRectangle(int32(boxX), int32(boxY), int32(boxWidth), int32(boxHeight), rl.NewColor(30, 30, 30, 240))
	rl.DrawRectangleLines(int32(boxX), int32(boxY), int32(boxWidth), int32(boxHeight), rl.Yellow)
	rl.DrawTextEx(app.UI.font, app.UI.notice,
		rl.Vector2{X: boxX + (boxWidth-messageSize.X)/2, Y: boxY + 28}, 20, 1, rl.White)
	rl.DrawTextEx(app.UI.font, hint,
		rl.Vector2{X: boxX + (boxWidth-hintSize.X)/2, Y: boxY + 64}, 14, 1, rl.LightGray)
}
