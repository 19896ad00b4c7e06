package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/guideline/internal/config"
	"github.com/philipparndt/guideline/internal/logging"
	"github.com/philipparndt/guideline/internal/scene"
	"github.com/philipparndt/guideline/internal/session"
	"github.com/philipparndt/guideline/internal/store"
	"github.com/philipparndt/guideline/pkg/annotation"
	"github.com/philipparndt/guideline/pkg/controls"
	"github.com/philipparndt/guideline/pkg/geometry"
	"github.com/philipparndt/guideline/pkg/viewer"
	"github.com/philipparndt/guideline/version"
	"github.com/rs/zerolog"
)

type App struct {
	ctx    context.Context
	window fyne.Window
	cfg    *config.Config
	log    zerolog.Logger

	tool     *annotation.Tool
	pointer  *annotation.Pointer
	camera   *viewer.OrthoCamera
	viewport *viewer.Viewport
	session  *session.Session
	model    *scene.Model

	panelBox   *fyne.Container
	modeSelect *widget.RadioGroup
	modelLabel *widget.Label
	modeLabel  *widget.Label
	linesLabel *widget.Label
	status     *widget.Label
	noticeOpen bool
}

func main() {
	path := ""
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel, nil)

	a := app.NewWithID("com.github.philipparndt.guideline")
	w := a.NewWindow(fmt.Sprintf("guideline %s", version.GetVersion()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gui := newApp(ctx, w, cfg, log)

	exportPath := cfg.Resolve(cfg.Export.Path)
	deps := session.Deps{
		Loader:   gui,
		Notifier: gui,
		Exporter: session.FileExporter{Path: exportPath},
		Logger:   log,
	}
	if cfg.Store.Enabled {
		st, err := store.Open(cfg.Resolve(cfg.Store.Path), log)
		if err != nil {
			log.Error().Err(err).Msg("History store not available")
		} else {
			defer st.Close()
			deps.Recorder = st
		}
	}

	sess, err := session.New(cfg.ModelPaths(), gui.tool, deps)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	gui.session = sess

	if doc, err := annotation.LoadDocument(exportPath); err != nil {
		log.Warn().Err(err).Str("path", exportPath).Msg("Ignoring earlier export")
	} else {
		sess.Preload(doc)
	}

	w.SetContent(gui.buildUI())
	w.Canvas().SetOnTypedRune(gui.handleRune)
	w.Canvas().SetOnTypedKey(gui.handleKey)

	if err := sess.Start(ctx); err != nil {
		dialog.ShowError(err, w)
	}
	gui.updateInfo()

	w.Resize(fyne.NewSize(1200, 800))
	w.ShowAndRun()
}

func newApp(ctx context.Context, w fyne.Window, cfg *config.Config, log zerolog.Logger) *App {
	camera := viewer.NewOrthoCamera(cfg.Camera.Scale, cfg.Camera.Z, cfg.Camera.MinDistance, cfg.Camera.MaxDistance)
	overlay := scene.NewOverlay()

	opts := cfg.ToolOptions()
	opts.Logger = log
	tool := annotation.NewTool(overlay, opts)
	picker := scene.NewPicker(camera, overlay, cfg.Annotation.PickTolerance, cfg.Annotation.PlaneDepth)
	pointer := annotation.NewPointer(tool, picker)

	a := &App{
		ctx:     ctx,
		window:  w,
		cfg:     cfg,
		log:     log,
		tool:    tool,
		pointer: pointer,
		camera:  camera,
	}
	a.viewport = viewer.NewViewport(camera, pointer, overlay)
	a.viewport.OnChanged = a.updateInfo
	return a
}

func (a *App) buildUI() fyne.CanvasObject {
	a.modelLabel = widget.NewLabel("")
	a.modelLabel.Wrapping = fyne.TextWrapWord
	a.modeLabel = widget.NewLabel("")
	a.linesLabel = widget.NewLabel("")
	a.status = widget.NewLabel("")
	a.status.Wrapping = fyne.TextWrapWord
	a.panelBox = container.NewVBox()

	modes := make([]string, len(annotation.Modes))
	for i, m := range annotation.Modes {
		modes[i] = modeName(m)
	}
	a.modeSelect = widget.NewRadioGroup(modes, nil)
	a.modeSelect.Selected = modeName(a.tool.Mode())
	a.modeSelect.OnChanged = func(selected string) {
		for _, m := range annotation.Modes {
			if modeName(m) == selected {
				a.tool.SetMode(m)
			}
		}
		a.updateInfo()
	}

	mirrorButton := widget.NewButton("Mirror Lines (Q)", func() { a.handleRune('q') })
	prevButton := widget.NewButton("Previous (A)", func() { a.handleRune('a') })
	nextButton := widget.NewButton("Next (D)", func() { a.handleRune('d') })
	saveButton := widget.NewButton("Save (S)", func() { a.handleRune('s') })
	exportButton := widget.NewButton("Export As...", a.exportAs)
	resetButton := widget.NewButton("Reset View", a.resetView)

	instructions := widget.NewLabel(instructionText(a.cfg.Annotation.Draggable))
	instructions.Wrapping = fyne.TextWrapWord

	side := container.NewVBox(
		widget.NewLabel("Model:"),
		widget.NewSeparator(),
		a.modelLabel,
		container.NewGridWithColumns(2, prevButton, nextButton),
		widget.NewSeparator(),
		widget.NewLabel("Guide Lines:"),
		widget.NewSeparator(),
		a.modeSelect,
		a.modeLabel,
		a.linesLabel,
		mirrorButton,
		widget.NewSeparator(),
		widget.NewLabel("Controls:"),
		a.panelBox,
		widget.NewSeparator(),
		instructions,
		layout.NewSpacer(),
		container.NewGridWithColumns(2, saveButton, exportButton),
		resetButton,
		a.status,
	)

	scroll := container.NewVScroll(side)
	scroll.SetMinSize(fyne.NewSize(300, 0))

	return container.NewBorder(nil, nil, nil, scroll, a.viewport)
}

// instructionText describes the pointer bindings. With dragging enabled a
// left click on a line grabs it instead of removing it.
func instructionText(draggable bool) string {
	text := "Click to place a line in the current mode.\n"
	if draggable {
		text += "Drag a line to move it once; right click a line to remove it.\n"
	} else {
		text += "Click a line again or right click it to remove it.\n"
	}
	return text + "Drag empty space to pan, scroll to zoom."
}

func modeName(m annotation.Mode) string {
	if o, ok := m.Orientation(); ok {
		return fmt.Sprintf("%s %s", m, o)
	}
	return m.String()
}

// Load implements session.Loader
func (a *App) Load(ctx context.Context, _ int, location string) error {
	entry, _ := a.cfg.ModelByPath(location)
	model, err := scene.LoadAssets(ctx, a.cfg.Resolve(location), entry.Morphs, a.cfg.ResolvedPoses(), nil, a.log)
	if err != nil {
		return err
	}
	model.Offset = geometry.NewVector3(0, a.cfg.Camera.OffsetY, 0)

	a.pointer.Cancel()
	a.model = model
	a.viewport.SetMesh(model.Mesh.Triangles, model.Offset)
	a.camera.Reset(geometry.Vector2{})
	a.buildPanel(model)
	return nil
}

// buildPanel turns the control descriptors of a model into fyne widgets,
// one accordion section per group
func (a *App) buildPanel(model *scene.Model) {
	panel := controls.NewPanel(controls.Build(model.Morphs, a.cfg.ResolvedPoses(), model))
	panel.Init()

	items := make([]*widget.AccordionItem, 0)
	for _, group := range panel.Groups() {
		box := container.NewVBox()
		for _, d := range panel.Descriptors() {
			if d.Group == group {
				box.Add(a.controlWidget(panel, d))
			}
		}
		items = append(items, widget.NewAccordionItem(group, box))
	}

	accordion := widget.NewAccordion(items...)
	if len(items) > 0 {
		accordion.Open(0)
	}
	a.panelBox.Objects = []fyne.CanvasObject{accordion}
	a.panelBox.Refresh()
}

func (a *App) controlWidget(panel *controls.Panel, d controls.Descriptor) fyne.CanvasObject {
	value, _ := panel.Value(d.Name)
	name := d.Name

	switch d.Kind {
	case controls.Enum:
		labels := make([]string, len(d.Choices))
		for i, c := range d.Choices {
			labels[i] = c.Label
		}
		sel := widget.NewSelect(labels, nil)
		sel.Selected, _ = d.Label(value)
		sel.OnChanged = func(label string) {
			if err := panel.Select(name, label); err != nil {
				a.log.Warn().Err(err).Str("control", name).Msg("Failed to change control")
			}
			a.viewport.Refresh()
		}
		return container.NewVBox(widget.NewLabel(name), sel)
	default:
		valueLabel := widget.NewLabel(fmt.Sprintf("%s: %.2f", name, value))
		slider := widget.NewSlider(d.Min, d.Max)
		slider.Step = d.Step
		slider.Value = value
		slider.OnChanged = func(v float64) {
			if err := panel.Set(name, v); err != nil {
				a.log.Warn().Err(err).Str("control", name).Msg("Failed to change control")
			}
			current, _ := panel.Value(name)
			valueLabel.SetText(fmt.Sprintf("%s: %.2f", name, current))
		}
		return container.NewVBox(valueLabel, slider)
	}
}

// Notice implements session.Notifier. Keys are ignored until the dialog is
// closed.
func (a *App) Notice(message string) {
	a.noticeOpen = true
	d := dialog.NewInformation("guideline", message, a.window)
	d.SetOnClosed(func() { a.noticeOpen = false })
	d.Show()
}

func (a *App) handleRune(r rune) {
	if a.noticeOpen {
		return
	}

	err := a.session.HandleKey(a.ctx, r)
	switch {
	case err == nil:
		if r == 's' || r == 'S' {
			a.status.SetText(fmt.Sprintf("Exported %d models to %s", a.session.Len(), a.cfg.Resolve(a.cfg.Export.Path)))
		}
	case errors.Is(err, session.ErrFirstModel), errors.Is(err, session.ErrLastModel):
		// already shown as a notice
	default:
		a.log.Error().Err(err).Msg("Operation failed")
		dialog.ShowError(err, a.window)
	}

	a.updateInfo()
	a.viewport.Refresh()
}

func (a *App) handleKey(ev *fyne.KeyEvent) {
	if ev.Name == fyne.KeyHome {
		a.resetView()
	}
}

func (a *App) resetView() {
	a.camera.Reset(geometry.Vector2{})
	a.viewport.Refresh()
}

// exportAs commits the active model and writes the model list to a file the
// user picks
func (a *App) exportAs() {
	a.session.Commit(a.ctx)
	doc := a.session.Document()

	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err == nil && writer == nil {
			err = session.ErrExportCancelled
		}
		if err != nil {
			a.exportFailed(err)
			return
		}
		defer writer.Close()

		if err := annotation.WriteDocument(writer, doc); err != nil {
			a.exportFailed(err)
			dialog.ShowError(err, a.window)
			return
		}
		a.log.Info().Str("path", writer.URI().Path()).Int("models", len(doc.ModelList)).Msg("Model list exported")
		a.status.SetText(fmt.Sprintf("Exported %d models to %s", len(doc.ModelList), writer.URI().Path()))
	}, a.window)
	save.SetFileName(filepath.Base(a.cfg.Export.Path))
	save.Show()
}

func (a *App) exportFailed(err error) {
	a.log.Warn().Err(err).Msg("Export failed")
	a.status.SetText(fmt.Sprintf("Export failed: %v", err))
}

func (a *App) updateInfo() {
	if a.modelLabel == nil || a.session == nil {
		return
	}
	text := fmt.Sprintf("%d / %d  %s", a.session.Index()+1, a.session.Len(), filepath.Base(a.session.Location()))
	if a.model != nil {
		text += fmt.Sprintf("\nTriangles: %d", a.model.Mesh.TriangleCount())
		if bounds := a.model.Bounds(); !bounds.Empty() {
			text += fmt.Sprintf("\nY: %.2f .. %.2f", bounds.Min.Y, bounds.Max.Y)
		}
	}
	a.modelLabel.SetText(text)
	a.modeLabel.SetText(fmt.Sprintf("Mode: %s", modeName(a.tool.Mode())))
	if selected := modeName(a.tool.Mode()); a.modeSelect.Selected != selected {
		a.modeSelect.Selected = selected
		a.modeSelect.Refresh()
	}

	mirrored := "no"
	if a.tool.Mirrored() {
		mirrored = "yes"
	}
	a.linesLabel.SetText(fmt.Sprintf("Lines: %d | Mirrored: %s", a.tool.Len(), mirrored))
}
