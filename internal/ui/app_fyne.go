//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"gocanvaseditor/internal/crash"
	"gocanvaseditor/internal/domain"
	"gocanvaseditor/internal/editor"
	"gocanvaseditor/internal/export"
	applog "gocanvaseditor/internal/log"
	"gocanvaseditor/internal/raster"
	"gocanvaseditor/internal/tools"
	"gocanvaseditor/internal/vector"
	"gocanvaseditor/internal/version"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".webp"}

// Run opens the editor window and blocks until it is closed.
func Run(opts Options) error {
	if opts.Editor == nil {
		return fmt.Errorf("ui: editor is required")
	}
	ed := opts.Editor
	l := applog.WithComponent("ui")
	l.Info("starting UI")
	defer crash.Recover(ed.Rescue)

	fyneApp := app.NewWithID("gocanvaseditor")
	w := fyneApp.NewWindow("Go Canvas Editor")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	zoom := widget.NewLabel("100%")
	ctrl := tools.New(ed, opts.Fonts)
	cv := NewEditorCanvas(ed, ctrl)

	// Layer panel
	var layers []domain.Layer
	layerList := widget.NewList(
		func() int { return len(layers) },
		func() fyne.CanvasObject { return widget.NewLabel("layer") },
		func(id widget.ListItemID, o fyne.CanvasObject) {
			// top of the stack first
			ly := layers[len(layers)-1-id]
			name := ly.Name
			if !ly.Visible {
				name += " (hidden)"
			}
			o.(*widget.Label).SetText(name)
		},
	)
	opacity := widget.NewSlider(0, 100)
	visible := widget.NewCheck("Visible", nil)
	blend := widget.NewSelect(blendNames(), nil)
	historyList := widget.NewList(
		func() int {
			if l, ok := activeLayer(ed); ok {
				return l.History.Len()
			}
			return 0
		},
		func() fyne.CanvasObject { return widget.NewLabel("entry") },
		func(id widget.ListItemID, o fyne.CanvasObject) {
			l, ok := activeLayer(ed)
			if !ok || id >= l.History.Len() {
				return
			}
			text := l.History.At(id).Name
			if id == l.History.Index() {
				text = "▶ " + text
			}
			o.(*widget.Label).SetText(text)
		},
	)

	refreshing := false
	refreshPanels := func() {
		refreshing = true
		defer func() { refreshing = false }()
		im, ok := ed.Active()
		layers = nil
		if ok {
			layers = im.Layers
			zoom.SetText(zoomLabel(im.View))
			w.SetTitle(fmt.Sprintf("Go Canvas Editor - %s (%dx%d)", im.Name, im.Width, im.Height))
		} else {
			w.SetTitle("Go Canvas Editor")
		}
		layerList.Refresh()
		historyList.Refresh()
		if ly, ok := activeLayer(ed); ok {
			opacity.SetValue(ly.Opacity)
			visible.SetChecked(ly.Visible)
			blend.SetSelected(string(ly.Blend))
		}
	}
	cv.OnChange = refreshPanels

	layerList.OnSelected = func(id widget.ListItemID) {
		if refreshing || id >= len(layers) {
			return
		}
		if err := ed.SetActiveLayer(layers[len(layers)-1-id].ID); err == nil {
			refreshPanels()
		}
	}
	historyList.OnSelected = func(id widget.ListItemID) {
		if refreshing {
			return
		}
		if ly, ok := activeLayer(ed); ok && ed.SelectHistory(ly.ID, id) == nil {
			cv.Invalidate()
		}
	}
	opacity.OnChangeEnded = func(v float64) {
		if ly, ok := activeLayer(ed); ok && !refreshing {
			_ = ed.SetLayerOpacity(ly.ID, v)
			cv.Invalidate()
		}
	}
	visible.OnChanged = func(v bool) {
		if ly, ok := activeLayer(ed); ok && !refreshing {
			_ = ed.SetLayerVisibility(ly.ID, v)
			cv.Invalidate()
		}
	}
	blend.OnChanged = func(s string) {
		if ly, ok := activeLayer(ed); ok && !refreshing {
			if m, err := raster.ParseBlendMode(s); err == nil {
				_ = ed.SetLayerBlendMode(ly.ID, m)
				cv.Invalidate()
			}
		}
	}

	withLayer := func(fn func(id string) error) func() {
		return func() {
			if ly, ok := activeLayer(ed); ok {
				if fn(ly.ID) == nil {
					cv.Invalidate()
				}
			}
		}
	}
	layerButtons := container.NewHBox(
		widget.NewButtonWithIcon("", theme.ContentAddIcon(), func() {
			if _, err := ed.AddLayer(); err == nil {
				cv.Invalidate()
			}
		}),
		widget.NewButtonWithIcon("", theme.DeleteIcon(), withLayer(ed.DeleteLayer)),
		widget.NewButtonWithIcon("", theme.MoveUpIcon(), withLayer(func(id string) error { return ed.MoveLayer(id, editor.Up) })),
		widget.NewButtonWithIcon("", theme.MoveDownIcon(), withLayer(func(id string) error { return ed.MoveLayer(id, editor.Down) })),
		widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() { renameLayer(ed, cv, w) }),
	)
	right := container.NewVSplit(
		container.NewBorder(container.NewVBox(widget.NewLabel("Layers"), layerButtons), container.NewVBox(visible, opacity, blend), nil, nil, layerList),
		container.NewBorder(widget.NewLabel("History"), nil, nil, nil, historyList),
	)

	// Tool bar
	toolSelect := widget.NewRadioGroup(toolTitles(), func(title string) {
		if t, ok := toolForTitle(title); ok {
			ctrl.SetTool(t)
			status.SetText(title)
			cv.Refresh()
		}
	})
	toolSelect.Horizontal = true
	toolSelect.SetSelected(toolTitle(tools.Select))

	openImage := func() { showOpen(ed, cv, w, l) }
	exportImage := func() { showExport(ed, w, l) }
	undo := withLayer(ed.Undo)
	redo := withLayer(ed.Redo)
	rotate := func() {
		if ed.Rotate() == nil {
			cv.Invalidate()
		}
	}
	fit := func() { ed.Fit(toSize(cv.Size())); cv.Invalidate() }
	bar := widget.NewToolbar(
		widget.NewToolbarAction(theme.FolderOpenIcon(), openImage),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), exportImage),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentUndoIcon(), undo),
		widget.NewToolbarAction(theme.ContentRedoIcon(), redo),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), rotate),
		widget.NewToolbarAction(theme.ZoomFitIcon(), fit),
		widget.NewToolbarAction(theme.ZoomInIcon(), func() { zoomBy(ed, cv, 1.25) }),
		widget.NewToolbarAction(theme.ZoomOutIcon(), func() { zoomBy(ed, cv, 0.8) }),
	)
	applyCrop := widget.NewButton("Apply Crop", func() {
		if ctrl.Tool() != tools.Crop {
			return
		}
		if ed.ApplyCrop(ctrl.CropRect()) == nil {
			toolSelect.SetSelected(toolTitle(tools.Select))
			cv.Invalidate()
		}
	})
	top := container.NewVBox(bar, container.NewHBox(toolSelect, applyCrop))
	bottom := container.NewBorder(nil, nil, nil, zoom, status)

	split := container.NewHSplit(cv, right)
	split.SetOffset(0.78)
	w.SetContent(container.NewBorder(top, bottom, nil, nil, split))

	// Menus
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open…", openImage),
		fyne.NewMenuItem("Export…", exportImage),
		fyne.NewMenuItem("Close Image", func() {
			if im, ok := ed.Active(); ok && ed.DeleteImage(im.ID) == nil {
				cv.Invalidate()
			}
		}),
	)
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", undo),
		fyne.NewMenuItem("Redo", redo),
	)
	imageMenu := fyne.NewMenu("Image",
		fyne.NewMenuItem("Rotate 90°", rotate),
		fyne.NewMenuItem("Flip Horizontal", func() {
			if ed.Flip(editor.Horizontal) == nil {
				cv.Invalidate()
			}
		}),
		fyne.NewMenuItem("Flip Vertical", func() {
			if ed.Flip(editor.Vertical) == nil {
				cv.Invalidate()
			}
		}),
		fyne.NewMenuItem("Resize…", func() { showSizeDialog(ed, cv, w, "Resize Image", false) }),
		fyne.NewMenuItem("Canvas Size…", func() { showSizeDialog(ed, cv, w, "Canvas Size", true) }),
		fyne.NewMenuItem("Filters…", func() { showFilters(ed, cv, w) }),
		fyne.NewMenuItem("AI Edit…", func() { showAIEdit(ed, cv, w, status) }),
	)
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Fit", fit),
		fyne.NewMenuItem("Actual Size", func() { ed.SetZoom(100, toSize(cv.Size())); cv.Invalidate() }),
	)
	aboutMenu := fyne.NewMenu("About", fyne.NewMenuItem("About Go Canvas Editor", func() {
		exe, _ := os.Executable()
		info := fmt.Sprintf("Go Canvas Editor\nVersion: %s\nOS: %s\nArch: %s\nGo: %s\nExecutable: %s",
			version.String(), runtime.GOOS, runtime.GOARCH, runtime.Version(), exe)
		dialog.ShowInformation("Installation Environment", info, w)
	}))
	w.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, imageMenu, viewMenu, aboutMenu))

	// Editor errors arrive from timers as well as the UI goroutine.
	done := make(chan struct{})
	go func() {
		for {
			select {
			case err := <-ed.Errors():
				fyne.Do(func() { status.SetText(err.Error()) })
			case <-done:
				return
			}
		}
	}()
	// Thumbnails and filter commits land asynchronously.
	ticker := time.NewTicker(500 * time.Millisecond)
	go func() {
		for {
			select {
			case <-ticker.C:
				fyne.Do(cv.syncIfChanged)
			case <-done:
				return
			}
		}
	}()

	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		ticker.Stop()
		close(done)
		ed.Flush()
		w.Close()
	})

	for _, p := range opts.Open {
		if err := loadFile(ed, p); err != nil {
			l.Error("open image failed", slog.String("path", p), slog.Any("err", err))
			status.SetText(err.Error())
		}
	}
	cv.Invalidate()

	w.ShowAndRun()
	return nil
}

func activeLayer(ed *editor.Editor) (domain.Layer, bool) {
	im, ok := ed.Active()
	if !ok {
		return domain.Layer{}, false
	}
	return im.ActiveLayer()
}

func blendNames() []string {
	out := make([]string, len(raster.AllBlendModes))
	for i, m := range raster.AllBlendModes {
		out[i] = string(m)
	}
	return out
}

func loadFile(ed *editor.Editor, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if _, err := ed.LoadImage(filepath.Base(path), "", data); err != nil {
		return err
	}
	// fitted to the real container on first layout
	ed.Fit(vector.Size{})
	return nil
}

func zoomBy(ed *editor.Editor, cv *EditorCanvas, f float64) {
	if im, ok := ed.Active(); ok {
		ed.SetZoom(im.View.Zoom*f, toSize(cv.Size()))
		cv.Invalidate()
	}
}

func showOpen(ed *editor.Editor, cv *EditorCanvas, w fyne.Window, l *slog.Logger) {
	open := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		if r == nil {
			return
		}
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		if _, err := ed.LoadImage(r.URI().Name(), r.URI().MimeType(), data); err != nil {
			dialog.ShowError(err, w)
			return
		}
		l.Info("image opened", slog.String("uri", r.URI().String()))
		ed.Fit(toSize(cv.Size()))
		cv.Invalidate()
	}, w)
	open.SetFilter(fstorage.NewExtensionFileFilter(imageExtensions))
	open.Show()
}

func showExport(ed *editor.Editor, w fyne.Window, l *slog.Logger) {
	im, ok := ed.Active()
	if !ok {
		dialog.ShowInformation("Export", "No image open.", w)
		return
	}
	save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		if uc == nil {
			return
		}
		outPath := uc.URI().Path()
		f, err := export.FormatForPath(outPath)
		if err != nil {
			_ = uc.Close()
			dialog.ShowError(err, w)
			return
		}
		ed.Flush()
		err = ed.Export(im.ID, uc, f)
		if cerr := uc.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		l.Info("image exported", slog.String("path", outPath), slog.String("format", string(f)))
		dialog.ShowInformation("Export", "Exported to "+outPath, w)
	}, w)
	save.SetFileName(strings.TrimSuffix(im.Name, filepath.Ext(im.Name)) + ".png")
	save.SetFilter(fstorage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".bmp", ".pdf"}))
	save.Show()
}

func renameLayer(ed *editor.Editor, cv *EditorCanvas, w fyne.Window) {
	ly, ok := activeLayer(ed)
	if !ok {
		return
	}
	name := widget.NewEntry()
	name.SetText(ly.Name)
	dialog.NewForm("Rename Layer", "Rename", "Cancel", []*widget.FormItem{
		widget.NewFormItem("Name", name),
	}, func(ok bool) {
		if !ok {
			return
		}
		if err := ed.RenameLayer(ly.ID, name.Text); err != nil {
			dialog.ShowError(err, w)
			return
		}
		cv.Invalidate()
	}, w).Show()
}

func showSizeDialog(ed *editor.Editor, cv *EditorCanvas, w fyne.Window, title string, withAnchor bool) {
	im, ok := ed.Active()
	if !ok {
		return
	}
	width := widget.NewEntry()
	width.SetText(fmt.Sprint(im.Width))
	height := widget.NewEntry()
	height.SetText(fmt.Sprint(im.Height))
	anchors := make([]string, len(raster.AllAnchors))
	for i, a := range raster.AllAnchors {
		anchors[i] = string(a)
	}
	anchor := widget.NewSelect(anchors, nil)
	anchor.SetSelected(string(raster.AnchorCenter))
	items := []*widget.FormItem{
		widget.NewFormItem("Width", width),
		widget.NewFormItem("Height", height),
	}
	if withAnchor {
		items = append(items, widget.NewFormItem("Anchor", anchor))
	}
	dialog.NewForm(title, "Apply", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		var wv, hv int
		if _, err := fmt.Sscan(width.Text, &wv); err != nil {
			dialog.ShowError(fmt.Errorf("width: %w", err), w)
			return
		}
		if _, err := fmt.Sscan(height.Text, &hv); err != nil {
			dialog.ShowError(fmt.Errorf("height: %w", err), w)
			return
		}
		var err error
		if withAnchor {
			err = ed.CanvasSize(wv, hv, raster.Anchor(anchor.Selected))
		} else {
			err = ed.Resize(wv, hv)
		}
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		cv.Invalidate()
	}, w).Show()
}

func showFilters(ed *editor.Editor, cv *EditorCanvas, w fyne.Window) {
	ly, ok := activeLayer(ed)
	if !ok {
		return
	}
	f := ly.Filters
	type slot struct {
		label    string
		min, max float64
		v        *float64
	}
	slots := []slot{
		{"Brightness", 0, 200, &f.Brightness},
		{"Contrast", 0, 200, &f.Contrast},
		{"Saturate", 0, 200, &f.Saturate},
		{"Grayscale", 0, 100, &f.Grayscale},
		{"Sepia", 0, 100, &f.Sepia},
		{"Invert", 0, 100, &f.Invert},
		{"Hue", 0, 360, &f.HueRotate},
	}
	var items []*widget.FormItem
	for _, s := range slots {
		s := s
		sl := widget.NewSlider(s.min, s.max)
		sl.SetValue(*s.v)
		sl.OnChanged = func(v float64) {
			*s.v = v
			// live preview; the bake happens after the debounce
			_ = ed.SetFilters(ly.ID, f)
			cv.Invalidate()
		}
		items = append(items, widget.NewFormItem(s.label, sl))
	}
	dialog.NewForm("Filters", "Done", "Reset", items, func(ok bool) {
		if !ok {
			_ = ed.SetFilters(ly.ID, raster.DefaultFilters())
		}
		cv.Invalidate()
	}, w).Show()
}

func showAIEdit(ed *editor.Editor, cv *EditorCanvas, w fyne.Window, status *widget.Label) {
	prompt := widget.NewMultiLineEntry()
	prompt.SetPlaceHolder("Describe the change")
	dialog.NewForm("AI Edit", "Generate", "Cancel", []*widget.FormItem{
		widget.NewFormItem("Prompt", prompt),
	}, func(ok bool) {
		if !ok {
			return
		}
		text := prompt.Text
		status.SetText("Generating…")
		go func() {
			err := ed.AIEdit(context.Background(), text)
			fyne.Do(func() {
				if err != nil {
					dialog.ShowError(err, w)
					status.SetText("AI edit failed")
					return
				}
				status.SetText("AI edit applied")
				cv.Invalidate()
			})
		}()
	}, w).Show()
}

// EditorCanvas shows the active image and feeds pointer input to a tool
// controller. Pointer events use widget-local coordinates as screen space.
type EditorCanvas struct {
	widget.BaseWidget
	ed   *editor.Editor
	ctrl *tools.Controller

	composite *image.RGBA
	rendered  string // signature of the composite currently shown
	last      fyne.Position
	down      bool

	// OnChange runs after anything that may alter layers or history.
	OnChange func()
}

// NewEditorCanvas creates the canvas widget.
func NewEditorCanvas(ed *editor.Editor, ctrl *tools.Controller) *EditorCanvas {
	c := &EditorCanvas{ed: ed, ctrl: ctrl}
	c.ExtendBaseWidget(c)
	return c
}

// signature changes whenever the active image's pixels or stack may have.
func signature(im domain.Image) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%dx%d", im.ID, im.Width, im.Height)
	for _, l := range im.Layers {
		fmt.Fprintf(&b, "|%s:%p:%v:%v:%s:%v", l.ID, l.Src, l.Visible, l.Opacity, l.Blend, l.Filters)
	}
	return b.String()
}

// Invalidate recomposites the active image and redraws.
func (c *EditorCanvas) Invalidate() {
	im, ok := c.ed.Active()
	c.composite, c.rendered = nil, ""
	if ok {
		if out, err := c.ed.Composite(im.ID); err == nil {
			c.composite, c.rendered = out, signature(im)
		}
	}
	c.Refresh()
	if c.OnChange != nil {
		c.OnChange()
	}
}

func (c *EditorCanvas) syncIfChanged() {
	im, ok := c.ed.Active()
	if !ok {
		if c.rendered != "" {
			c.Invalidate()
		}
		return
	}
	if signature(im) != c.rendered {
		c.Invalidate()
	}
}

func (c *EditorCanvas) after(err error) {
	if err != nil {
		applog.WithComponent("ui").Debug("gesture failed", slog.Any("err", err))
	}
	c.syncIfChanged()
	c.Refresh()
}

func (c *EditorCanvas) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	c.down = true
	c.last = e.Position
	c.after(c.ctrl.PointerDown(0, toPt(e.Position)))
}

func (c *EditorCanvas) MouseUp(e *desktop.MouseEvent) {
	if !c.down {
		return
	}
	c.down = false
	c.after(c.ctrl.PointerUp(0, toPt(e.Position)))
}

func (c *EditorCanvas) Dragged(e *fyne.DragEvent) {
	c.last = e.Position
	c.ctrl.PointerMove(0, toPt(e.Position))
	c.Refresh()
}

func (c *EditorCanvas) DragEnd() {}

func (c *EditorCanvas) MouseIn(e *desktop.MouseEvent) { c.last = e.Position }

func (c *EditorCanvas) MouseMoved(e *desktop.MouseEvent) {
	c.last = e.Position
	if c.ctrl.Tool() == tools.Text {
		c.ctrl.Hover(toPt(e.Position))
		c.Refresh()
	}
}

func (c *EditorCanvas) MouseOut() {
	c.down = false
	c.after(c.ctrl.Leave(toPt(c.last)))
}

func (c *EditorCanvas) Scrolled(e *fyne.ScrollEvent) {
	c.ed.WheelZoom(toPt(e.Position), wheelDelta(e))
	c.Refresh()
	if c.OnChange != nil {
		c.OnChange()
	}
}

// Resize keeps fitted images fitted.
func (c *EditorCanvas) Resize(size fyne.Size) {
	c.BaseWidget.Resize(size)
	if im, ok := c.ed.Active(); ok && im.IsFitted {
		c.ed.Fit(toSize(size))
		c.Refresh()
	}
}

func (c *EditorCanvas) MinSize() fyne.Size { return fyne.NewSize(320, 240) }

func (c *EditorCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 30, G: 30, B: 34, A: 255})
	paper := canvas.NewRectangle(color.RGBA{R: 200, G: 200, B: 200, A: 255})
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScalePixels
	overlay := canvas.NewImageFromImage(nil)
	overlay.FillMode = canvas.ImageFillStretch
	crop := canvas.NewRectangle(color.Transparent)
	crop.StrokeColor = color.RGBA{R: 0, G: 170, B: 255, A: 255}
	crop.StrokeWidth = 1
	crop.Hide()
	r := &editorCanvasRenderer{c: c, bg: bg, paper: paper, img: img, overlay: overlay, crop: crop}
	r.objects = []fyne.CanvasObject{bg, paper, img, overlay, crop}
	return r
}

type editorCanvasRenderer struct {
	c         *EditorCanvas
	bg, paper *canvas.Rectangle
	img       *canvas.Image
	overlay   *canvas.Image
	crop      *canvas.Rectangle
	objects   []fyne.CanvasObject
}

func (r *editorCanvasRenderer) Destroy()                     {}
func (r *editorCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *editorCanvasRenderer) MinSize() fyne.Size           { return r.c.MinSize() }

func (r *editorCanvasRenderer) Refresh() {
	r.img.Image = r.c.composite
	if ov := r.c.ctrl.Overlay(); ov != nil {
		r.overlay.Image = ov
		r.overlay.Show()
	} else {
		r.overlay.Image = nil
		r.overlay.Hide()
	}
	r.Layout(r.c.Size())
	canvas.Refresh(r.img)
	canvas.Refresh(r.overlay)
	canvas.Refresh(r.c)
}

func (r *editorCanvasRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	im, ok := r.c.ed.Active()
	if !ok || r.c.composite == nil {
		r.paper.Hide()
		r.img.Hide()
		r.crop.Hide()
		return
	}
	pos, sz := placement(im.View, imageSize(im))
	for _, o := range []fyne.CanvasObject{r.paper, r.img, r.overlay} {
		o.Move(pos)
		o.Resize(sz)
	}
	r.paper.Show()
	r.img.Show()
	if r.c.ctrl.Tool() == tools.Crop {
		cr := r.c.ctrl.CropRect()
		tl := im.View.CanvasToScreen(cr.Min())
		cs := im.View.ScaledSize(cr.Size())
		r.crop.Move(fyne.NewPos(float32(tl.X), float32(tl.Y)))
		r.crop.Resize(fyne.NewSize(float32(cs.W), float32(cs.H)))
		r.crop.Show()
	} else {
		r.crop.Hide()
	}
}
