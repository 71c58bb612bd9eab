/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gocanvaseditor/internal/codec"
	"gocanvaseditor/internal/domain"
	"gocanvaseditor/internal/editor"
	"gocanvaseditor/internal/export"
	applog "gocanvaseditor/internal/log"
	"gocanvaseditor/internal/raster"
	"gocanvaseditor/internal/textlayout"
	"gocanvaseditor/internal/tools"
	"gocanvaseditor/internal/vector"
)

// Result describes a finished run.
type Result struct {
	ImageID  string
	Width    int
	Height   int
	Exported []string
}

// Run loads the document's image into ed, executes its steps in order and
// writes the exports. Pending filter commits are flushed before each export
// and at the end. fonts may be nil.
func Run(ctx context.Context, ed *editor.Editor, doc Document, fonts textlayout.Provider) (Result, error) {
	l := applog.WithOperation(applog.WithComponent("script"), "run")

	src := doc.resolve(doc.Load.Path)
	data, err := os.ReadFile(src)
	if err != nil {
		return Result{}, fmt.Errorf("load %s: %w", src, err)
	}
	name := doc.Load.Name
	if name == "" {
		name = filepath.Base(src)
	}
	im, err := ed.LoadImage(name, codec.MimeFor(strings.TrimPrefix(filepath.Ext(src), ".")), data)
	if err != nil {
		return Result{}, err
	}
	l = l.With(slog.String("image_id", im.ID))
	if doc.Viewport != nil {
		ed.Fit(vector.Size{W: doc.Viewport.Width, H: doc.Viewport.Height})
	}

	ctrl := tools.New(ed, fonts)
	ctrl.SetSettings(doc.Settings)

	for i, st := range doc.Steps {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if err := runStep(ctx, ed, ctrl, doc, st); err != nil {
			return Result{}, fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
		l.Debug("step done", slog.Int("step", i+1), slog.String("op", string(st.Op)))
	}
	ed.Flush()

	res := Result{ImageID: im.ID}
	for _, ex := range doc.Export {
		path, err := writeExport(ed, im.ID, doc, ex)
		if err != nil {
			return Result{}, err
		}
		res.Exported = append(res.Exported, path)
	}
	if cur, ok := ed.Image(im.ID); ok {
		res.Width, res.Height = cur.Width, cur.Height
	}
	l.Info("edit script finished", slog.Int("steps", len(doc.Steps)), slog.Int("exports", len(res.Exported)))
	return res, nil
}

func runStep(ctx context.Context, ed *editor.Editor, ctrl *tools.Controller, doc Document, st Step) error {
	switch st.Op {
	case OpTool:
		t, err := tools.ParseTool(st.Tool)
		if err != nil {
			return err
		}
		ctrl.SetTool(t)
		return nil
	case OpGesture:
		return gesture(ed, ctrl, st)
	case OpResize:
		return ed.Resize(st.Width, st.Height)
	case OpCanvas:
		a, err := raster.ParseAnchor(st.Anchor)
		if err != nil {
			return err
		}
		return ed.CanvasSize(st.Width, st.Height, a)
	case OpRotate:
		return ed.Rotate()
	case OpFlip:
		if strings.EqualFold(st.Axis, "vertical") {
			return ed.Flip(editor.Vertical)
		}
		return ed.Flip(editor.Horizontal)
	case OpCrop:
		r := ctrl.CropRect()
		if st.Rect != nil {
			r = st.Rect.vector()
		}
		if err := ed.ApplyCrop(r); err != nil {
			return err
		}
		ctrl.SetTool(tools.Select)
		return nil
	case OpFilters:
		_, layer, err := activeLayer(ed)
		if err != nil {
			return err
		}
		return ed.SetFilters(layer.ID, raster.Filters(*st.Filters))
	case OpAddLayer:
		layer, err := ed.AddLayer()
		if err != nil {
			return err
		}
		if st.Name != "" {
			return ed.RenameLayer(layer.ID, st.Name)
		}
		return nil
	case OpLayer:
		return layerStep(ed, st)
	case OpUndo, OpRedo, OpHistory:
		_, layer, err := activeLayer(ed)
		if err != nil {
			return err
		}
		switch st.Op {
		case OpUndo:
			return ed.Undo(layer.ID)
		case OpRedo:
			return ed.Redo(layer.ID)
		}
		return ed.SelectHistory(layer.ID, st.Entry)
	case OpAI:
		return ed.AIEdit(ctx, st.Prompt)
	case OpZoom:
		ed.SetZoom(st.Zoom, viewportSize(ed, doc))
		return nil
	case OpFit:
		ed.Fit(viewportSize(ed, doc))
		return nil
	case OpFlush:
		ed.Flush()
		return nil
	}
	return fmt.Errorf("unknown op %q", st.Op)
}

// gesture replays one pointer: hover at the first point, press, move
// through the rest and release at the last.
func gesture(ed *editor.Editor, ctrl *tools.Controller, st Step) error {
	im, ok := ed.Active()
	if !ok {
		return fmt.Errorf("no image loaded")
	}
	pts := make([]vector.Pt, 0, len(st.Points))
	for _, p := range st.Points {
		if len(p) != 2 {
			return fmt.Errorf("point %v needs two coordinates", p)
		}
		pt := vector.P(p[0], p[1])
		if st.Space != SpaceScreen {
			pt = im.View.CanvasToScreen(pt)
		}
		pts = append(pts, pt)
	}
	if len(pts) == 0 {
		return fmt.Errorf("gesture needs points")
	}
	const pointer = 1
	ctrl.Hover(pts[0])
	if err := ctrl.PointerDown(pointer, pts[0]); err != nil {
		return err
	}
	for _, p := range pts[1:] {
		ctrl.PointerMove(pointer, p)
	}
	return ctrl.PointerUp(pointer, pts[len(pts)-1])
}

func layerStep(ed *editor.Editor, st Step) error {
	im, layer, err := activeLayer(ed)
	if err != nil {
		return err
	}
	if st.Index != nil {
		if *st.Index >= len(im.Layers) {
			return fmt.Errorf("layer index %d out of range (%d layers)", *st.Index, len(im.Layers))
		}
		layer = im.Layers[*st.Index]
		if err := ed.SetActiveLayer(layer.ID); err != nil {
			return err
		}
	}
	if st.Name != "" {
		if err := ed.RenameLayer(layer.ID, st.Name); err != nil {
			return err
		}
	}
	if st.Opacity != nil {
		if err := ed.SetLayerOpacity(layer.ID, *st.Opacity); err != nil {
			return err
		}
	}
	if st.Blend != "" {
		mode, err := raster.ParseBlendMode(st.Blend)
		if err != nil {
			return err
		}
		if err := ed.SetLayerBlendMode(layer.ID, mode); err != nil {
			return err
		}
	}
	if st.Visible != nil {
		if err := ed.SetLayerVisibility(layer.ID, *st.Visible); err != nil {
			return err
		}
	}
	switch strings.ToLower(st.Move) {
	case "up":
		return ed.MoveLayer(layer.ID, editor.Up)
	case "down":
		return ed.MoveLayer(layer.ID, editor.Down)
	}
	return nil
}

func activeLayer(ed *editor.Editor) (domain.Image, domain.Layer, error) {
	im, ok := ed.Active()
	if !ok {
		return domain.Image{}, domain.Layer{}, fmt.Errorf("no image loaded")
	}
	layer, ok := im.ActiveLayer()
	if !ok {
		return im, domain.Layer{}, fmt.Errorf("no active layer")
	}
	return im, layer, nil
}

// viewportSize falls back to the image size when the script sets no viewport.
func viewportSize(ed *editor.Editor, doc Document) vector.Size {
	if doc.Viewport != nil {
		return vector.Size{W: doc.Viewport.Width, H: doc.Viewport.Height}
	}
	im, _ := ed.Active()
	return vector.Size{W: float64(im.Width), H: float64(im.Height)}
}

func writeExport(ed *editor.Editor, imageID string, doc Document, ex Export) (string, error) {
	path := doc.resolve(ex.Path)
	f, err := export.FormatForPath(path)
	if ex.Format != "" {
		f, err = export.ParseFormat(ex.Format)
	}
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := ed.Export(imageID, out, f); err != nil {
		_ = out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return path, nil
}
