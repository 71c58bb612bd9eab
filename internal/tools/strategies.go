/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package tools

import (
	"gocanvaseditor/internal/brush"
	"gocanvaseditor/internal/crop"
	"gocanvaseditor/internal/gradient"
	"gocanvaseditor/internal/raster"
	"gocanvaseditor/internal/shapes"
	"gocanvaseditor/internal/textlayout"
	"gocanvaseditor/internal/vector"
)

const textCommitName = "Add Text"

// panTool drags the view by the screen delta.
type panTool struct {
	last vector.Pt
}

func (t *panTool) GestureStart(c *Controller, ev Event) error {
	t.last = ev.Screen
	c.state = Panning
	return nil
}

func (t *panTool) GestureMove(c *Controller, ev Event) {
	if c.state != Panning {
		return
	}
	if s, ok := c.target.Surface(); ok {
		c.target.SetView(s.View.PanBy(ev.Screen.Sub(t.last)))
	}
	t.last = ev.Screen
}

func (t *panTool) GestureEnd(c *Controller, _ Event) error {
	c.state = Idle
	return nil
}

// brushTool stamps dabs into the overlay; the pen merges them with
// source-over and the eraser with destination-out.
type brushTool struct {
	erase  bool
	engine *brush.Engine
	last   vector.Pt
}

func (t *brushTool) settings(c *Controller) brush.Settings {
	if t.erase {
		return c.settings.Eraser
	}
	return c.settings.Pen
}

func (t *brushTool) GestureStart(c *Controller, ev Event) error {
	ov, ok := c.ensureOverlay()
	if !ok {
		return nil
	}
	t.engine = brush.New(t.settings(c))
	t.engine.Dab(ov, ev.Canvas)
	t.last = ev.Canvas
	c.state = Drawing
	return nil
}

func (t *brushTool) GestureMove(c *Controller, ev Event) {
	if c.state != Drawing || t.engine == nil {
		return
	}
	t.engine.Segment(c.overlay, t.last, ev.Canvas)
	t.last = ev.Canvas
}

func (t *brushTool) GestureEnd(c *Controller, _ Event) error {
	if c.state != Drawing || t.engine == nil {
		c.state = Idle
		return nil
	}
	opacity := t.engine.Settings().Opacity
	t.engine = nil
	c.state = Idle
	if t.erase {
		return c.commitOverlay("Erase", opacity, true)
	}
	return c.commitOverlay("Draw", opacity, false)
}

func (t *brushTool) Cancel(*Controller) { t.engine = nil }

// shapeTool redraws the preview from the gesture start on every move.
type shapeTool struct {
	start vector.Pt
}

func (t *shapeTool) GestureStart(c *Controller, ev Event) error {
	if _, ok := c.ensureOverlay(); !ok {
		return nil
	}
	t.start = ev.Canvas
	c.state = Drawing
	return nil
}

func (t *shapeTool) GestureMove(c *Controller, ev Event) {
	if c.state != Drawing {
		return
	}
	raster.Clear(c.overlay)
	shapes.Draw(c.overlay, c.settings.Shape, t.start, ev.Canvas)
}

func (t *shapeTool) GestureEnd(c *Controller, _ Event) error {
	if c.state != Drawing {
		return nil
	}
	c.state = Idle
	return c.commitOverlay("Shape", vector.Clamp(c.settings.Shape.Opacity, 0, 100), false)
}

// gradientTool fills the whole overlay on every move.
type gradientTool struct {
	start vector.Pt
}

func (t *gradientTool) GestureStart(c *Controller, ev Event) error {
	if _, ok := c.ensureOverlay(); !ok {
		return nil
	}
	t.start = ev.Canvas
	c.state = Drawing
	return nil
}

func (t *gradientTool) GestureMove(c *Controller, ev Event) {
	if c.state != Drawing {
		return
	}
	raster.Clear(c.overlay)
	gradient.Fill(c.overlay, c.settings.Gradient, t.start, ev.Canvas)
}

func (t *gradientTool) GestureEnd(c *Controller, _ Event) error {
	if c.state != Drawing {
		return nil
	}
	c.state = Idle
	return c.commitOverlay("Gradient", vector.Clamp(c.settings.Gradient.Opacity, 0, 100), false)
}

// textTool previews the text under the pointer; a press places it.
type textTool struct {
	at      vector.Pt
	preview bool
}

func (t *textTool) Hover(c *Controller, ev Event) {
	ov, ok := c.ensureOverlay()
	if !ok {
		return
	}
	textlayout.Draw(ov, c.fonts, c.settings.Text, ev.Canvas)
	t.at, t.preview = ev.Canvas, true
	c.state = TextPreview
}

// GestureStart commits when a preview is showing. The text is drawn again at
// the preview position, so settings changed since the last hover apply.
func (t *textTool) GestureStart(c *Controller, _ Event) error {
	if !t.preview {
		return nil
	}
	ov, ok := c.ensureOverlay()
	if !ok {
		return nil
	}
	textlayout.Draw(ov, c.fonts, c.settings.Text, t.at)
	t.preview = false
	c.state = Idle
	return c.commitOverlay(textCommitName, 100, false)
}

func (t *textTool) GestureMove(*Controller, Event) {}

// GestureEnd has nothing to commit; it only drops the preview.
func (t *textTool) GestureEnd(c *Controller, _ Event) error {
	t.preview = false
	c.clearOverlay()
	c.state = Idle
	return nil
}

func (t *textTool) Cancel(c *Controller) { t.preview = false }

// cropTool adjusts the crop rectangle; applying it is a separate operation.
type cropTool struct{}

func (cropTool) GestureStart(c *Controller, ev Event) error {
	s, ok := c.target.Surface()
	if !ok {
		return nil
	}
	if c.crop.Begin(ev.Canvas, s.View.Scale()) != crop.None {
		c.state = CropAdjusting
	}
	return nil
}

func (cropTool) GestureMove(c *Controller, ev Event) {
	if c.state == CropAdjusting {
		c.crop.Move(ev.Canvas)
	}
}

func (cropTool) GestureEnd(c *Controller, _ Event) error {
	c.crop.End()
	c.state = Idle
	return nil
}

func (cropTool) Cancel(c *Controller) { c.crop.End() }
