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
	"image"
	"log/slog"
	"sort"

	"gocanvaseditor/internal/crop"
	applog "gocanvaseditor/internal/log"
	"gocanvaseditor/internal/raster"
	"gocanvaseditor/internal/textlayout"
	"gocanvaseditor/internal/vector"
	"gocanvaseditor/internal/viewport"
)

// Controller is the per-canvas interaction state machine. It is not safe for
// concurrent use; one goroutine feeds it events.
type Controller struct {
	target   Target
	fonts    textlayout.Provider
	log      *slog.Logger
	settings Settings

	tool       Tool
	state      State
	strategies map[Tool]strategy
	overlay    *image.RGBA
	crop       *crop.Controller
	// cropFor is the image and size the crop rectangle was reset for.
	cropFor cropKey

	// pointers holds the screen position of every pointer that is down.
	pointers map[int]vector.Pt
	primary  int
	pinch    viewport.Pinch
}

// New creates a controller in the Select tool. fonts may be nil, in which
// case text uses the basic fixed face.
func New(target Target, fonts textlayout.Provider) *Controller {
	if fonts == nil {
		fonts = textlayout.BasicProvider{}
	}
	c := &Controller{
		target:   target,
		fonts:    fonts,
		log:      applog.WithComponent("tools"),
		settings: DefaultSettings(),
		tool:     Select,
		pointers: map[int]vector.Pt{},
		primary:  -1,
		crop:     crop.New(vector.Size{}),
	}
	c.strategies = map[Tool]strategy{
		Select:   &panTool{},
		Pen:      &brushTool{erase: false},
		Eraser:   &brushTool{erase: true},
		Shapes:   &shapeTool{},
		Gradient: &gradientTool{},
		Text:     &textTool{},
		Crop:     &cropTool{},
	}
	return c
}

func (c *Controller) Tool() Tool           { return c.tool }
func (c *Controller) State() State         { return c.state }
func (c *Controller) Settings() Settings   { return c.settings }
func (c *Controller) Overlay() *image.RGBA { return c.overlay }

// SetSettings replaces the tool options; an active gesture keeps going with
// the new values on its next event.
func (c *Controller) SetSettings(s Settings) { c.settings = s }

// SetTool switches tools. Any gesture in flight is cancelled and the overlay
// cleared; entering Crop resets the crop rectangle to the full canvas.
func (c *Controller) SetTool(t Tool) {
	c.cancelGesture()
	c.tool = t
	c.clearOverlay()
	if t == Crop {
		c.ResetCrop()
	}
	c.log.Debug("tool selected", "tool", string(t))
}

type cropKey struct {
	image string
	w, h  int
}

func keyOf(s Surface) cropKey { return cropKey{image: s.ImageID, w: s.Width, h: s.Height} }

// ResetCrop sets the crop rectangle to the current canvas.
func (c *Controller) ResetCrop() {
	s, ok := c.target.Surface()
	if !ok {
		c.cropFor = cropKey{}
		c.crop.Reset(vector.Size{})
		return
	}
	c.cropFor = keyOf(s)
	c.crop.Reset(vector.Size{W: float64(s.Width), H: float64(s.Height)})
}

// syncCrop resets the crop rectangle when the active image or its size
// changed since the last reset.
func (c *Controller) syncCrop() {
	if s, ok := c.target.Surface(); ok && keyOf(s) != c.cropFor {
		c.ResetCrop()
	}
}

// CropRect is the crop rectangle in canvas units, reset to the full canvas
// if another image became active.
func (c *Controller) CropRect() vector.Rect {
	c.syncCrop()
	return c.crop.Rect()
}

// SetCropRect replaces the crop rectangle, clamped to the canvas.
func (c *Controller) SetCropRect(r vector.Rect) {
	c.syncCrop()
	c.crop.SetRect(r)
}

// PointerDown handles a press. A second pointer cancels the running gesture
// and starts a pinch. Tools that commit on press (text) return the commit
// error.
func (c *Controller) PointerDown(id int, screen vector.Pt) error {
	c.pointers[id] = screen
	switch n := len(c.pointers); {
	case n == 1:
		return c.startPrimary(id)
	case c.state != Pinching:
		c.cancelGesture()
		c.clearOverlay()
		c.primary = -1
		c.startPinch()
	}
	return nil
}

// PointerMove handles motion of a pressed pointer.
func (c *Controller) PointerMove(id int, screen vector.Pt) {
	if _, down := c.pointers[id]; !down {
		c.Hover(screen)
		return
	}
	c.pointers[id] = screen
	if c.state == Pinching {
		a, b := c.pinchPoints()
		c.target.SetView(c.pinch.Update(a, b))
		return
	}
	if id != c.primary {
		return
	}
	if ev, ok := c.event(screen); ok {
		c.strategies[c.tool].GestureMove(c, ev)
	}
}

// PointerUp handles a release. Only the end of a single-pointer gesture can
// commit; the returned error comes from the commit. Lifting a finger out of a
// pinch that leaves one pointer down starts a new gesture at that pointer.
func (c *Controller) PointerUp(id int, screen vector.Pt) error {
	if _, down := c.pointers[id]; !down {
		return nil
	}
	delete(c.pointers, id)
	if c.state == Pinching {
		c.state = Idle
		switch len(c.pointers) {
		case 0:
		case 1:
			for rest := range c.pointers {
				return c.startPrimary(rest)
			}
		default:
			c.startPinch()
		}
		return nil
	}
	if id != c.primary {
		return nil
	}
	c.primary = -1
	ev, ok := c.event(screen)
	if !ok {
		c.state = Idle
		return nil
	}
	return c.strategies[c.tool].GestureEnd(c, ev)
}

// PointerCancel drops a pointer without committing anything.
func (c *Controller) PointerCancel(id int) {
	delete(c.pointers, id)
	if id == c.primary || c.state == Pinching {
		c.cancelGesture()
		c.clearOverlay()
		c.primary = -1
	}
}

// Hover handles motion with no pointer pressed.
func (c *Controller) Hover(screen vector.Pt) {
	if len(c.pointers) > 0 {
		return
	}
	h, ok := c.strategies[c.tool].(hoverer)
	if !ok {
		return
	}
	if ev, ok := c.event(screen); ok {
		h.Hover(c, ev)
	}
}

// Leave is called when the pointer exits the canvas; it behaves like a
// release of the primary pointer.
func (c *Controller) Leave(screen vector.Pt) error {
	if c.primary >= 0 {
		return c.PointerUp(c.primary, screen)
	}
	if c.state == TextPreview {
		c.clearOverlay()
		c.state = Idle
	}
	return nil
}

// startPrimary makes id the single active pointer and begins the current
// tool's gesture at its position.
func (c *Controller) startPrimary(id int) error {
	c.primary = id
	ev, ok := c.event(c.pointers[id])
	if !ok {
		return nil
	}
	return c.strategies[c.tool].GestureStart(c, ev)
}

func (c *Controller) startPinch() {
	a, b := c.pinchPoints()
	if s, ok := c.target.Surface(); ok {
		c.pinch = viewport.StartPinch(s.View, a, b)
		c.state = Pinching
	}
}

// pinchPoints returns the two lowest-id pointers that are down.
func (c *Controller) pinchPoints() (a, b vector.Pt) {
	ids := make([]int, 0, len(c.pointers))
	for id := range c.pointers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	if len(ids) > 0 {
		a = c.pointers[ids[0]]
	}
	if len(ids) > 1 {
		b = c.pointers[ids[1]]
	}
	return a, b
}

func (c *Controller) event(screen vector.Pt) (Event, bool) {
	s, ok := c.target.Surface()
	if !ok {
		return Event{}, false
	}
	if c.tool == Crop && keyOf(s) != c.cropFor && c.crop.Active() == crop.None {
		c.ResetCrop()
	}
	return Event{Screen: screen, Canvas: s.View.ScreenToCanvas(screen)}, true
}

func (c *Controller) cancelGesture() {
	if cl, ok := c.strategies[c.tool].(canceller); ok {
		cl.Cancel(c)
	}
	c.state = Idle
}

// ensureOverlay returns a cleared overlay sized to the active canvas.
func (c *Controller) ensureOverlay() (*image.RGBA, bool) {
	s, ok := c.target.Surface()
	if !ok {
		return nil, false
	}
	if c.overlay == nil || !raster.SameSize(c.overlay, s.Width, s.Height) {
		ov, err := raster.NewSurface(s.Width, s.Height)
		if err != nil {
			c.log.Warn("overlay allocation failed", "err", err)
			return nil, false
		}
		c.overlay = ov
	} else {
		raster.Clear(c.overlay)
	}
	return c.overlay, true
}

func (c *Controller) clearOverlay() {
	raster.Clear(c.overlay)
}

// commitOverlay merges the overlay into a copy of the active layer and hands
// it to the target.
func (c *Controller) commitOverlay(prefix string, opacity float64, erase bool) error {
	defer c.clearOverlay()
	s, ok := c.target.Surface()
	if !ok || c.overlay == nil {
		return nil
	}
	dst, err := raster.Fit(s.Layer, s.Width, s.Height)
	if err != nil {
		return err
	}
	if dst == s.Layer {
		dst = raster.Clone(s.Layer)
	}
	if erase {
		raster.EraseOut(dst, c.overlay, opacity/100)
	} else {
		raster.MergeOver(dst, c.overlay, opacity/100)
	}
	name := prefix
	if prefix != textCommitName {
		name = c.target.NextName(prefix)
	}
	c.log.Debug("commit", "name", name, "tool", string(c.tool))
	return c.target.Commit(dst, name)
}
