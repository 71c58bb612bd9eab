/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package crop tracks the interactive crop rectangle: handle hit testing,
// edge and body drags, and clamping to the canvas.
package crop

import (
	"math"

	"gocanvaseditor/internal/vector"
)

// MinSide is the smallest width or height a drag can produce.
const MinSide = 5.0

// HandleSize is the side of the square grab box around each handle, in
// screen pixels.
const HandleSize = 20.0

// Handle identifies what a crop drag is moving.
type Handle int

const (
	None Handle = iota
	TopLeft
	Top
	TopRight
	Right
	BottomRight
	Bottom
	BottomLeft
	Left
	Body
)

var handleNames = [...]string{"none", "tl", "t", "tr", "r", "br", "b", "bl", "l", "body"}

func (h Handle) String() string {
	if h < 0 || int(h) >= len(handleNames) {
		return "unknown"
	}
	return handleNames[h]
}

// hitOrder is the priority used when handles overlap.
var hitOrder = []Handle{TopLeft, Top, TopRight, Right, BottomRight, Bottom, BottomLeft, Left}

func (h Handle) point(r vector.Rect) vector.Pt {
	x0, y0, x1, y1 := r.X, r.Y, r.X+r.W, r.Y+r.H
	xm, ym := r.X+r.W/2, r.Y+r.H/2
	switch h {
	case TopLeft:
		return vector.P(x0, y0)
	case Top:
		return vector.P(xm, y0)
	case TopRight:
		return vector.P(x1, y0)
	case Right:
		return vector.P(x1, ym)
	case BottomRight:
		return vector.P(x1, y1)
	case Bottom:
		return vector.P(xm, y1)
	case BottomLeft:
		return vector.P(x0, y1)
	case Left:
		return vector.P(x0, ym)
	}
	return r.Center()
}

func (h Handle) movesLeft() bool   { return h == TopLeft || h == Left || h == BottomLeft }
func (h Handle) movesRight() bool  { return h == TopRight || h == Right || h == BottomRight }
func (h Handle) movesTop() bool    { return h == TopLeft || h == Top || h == TopRight }
func (h Handle) movesBottom() bool { return h == BottomLeft || h == Bottom || h == BottomRight }

// Controller holds the crop rectangle in canvas coordinates.
// Not safe for concurrent use.
type Controller struct {
	canvas vector.Size
	rect   vector.Rect

	active    Handle
	start     vector.Pt
	startRect vector.Rect
}

// New starts with the rectangle covering the whole canvas.
func New(canvas vector.Size) *Controller {
	c := &Controller{}
	c.Reset(canvas)
	return c
}

// Reset sets the rectangle to the full canvas and drops any drag.
func (c *Controller) Reset(canvas vector.Size) {
	c.canvas = canvas
	c.rect = vector.R(0, 0, canvas.W, canvas.H)
	c.active = None
}

func (c *Controller) Rect() vector.Rect { return c.rect }
func (c *Controller) Active() Handle    { return c.active }

// SetRect replaces the rectangle, clamped to the canvas.
func (c *Controller) SetRect(r vector.Rect) { c.rect = c.clamp(r.Normalize()) }

// HitTest returns the handle under p. size is the grab box side in canvas
// units; a handle is hit when p lies inside the box centred on it.
func (c *Controller) HitTest(p vector.Pt, size float64) Handle {
	half := size / 2
	for _, h := range hitOrder {
		d := h.point(c.rect).Sub(p)
		if math.Abs(d.X) <= half && math.Abs(d.Y) <= half {
			return h
		}
	}
	if c.rect.Contains(p) {
		return Body
	}
	return None
}

// Begin starts a drag at p and reports the grabbed handle. scale converts
// the screen handle size into canvas units.
func (c *Controller) Begin(p vector.Pt, scale float64) Handle {
	if scale <= 0 {
		scale = 1
	}
	c.active = c.HitTest(p, HandleSize/scale)
	c.start = p
	c.startRect = c.rect
	return c.active
}

// Move applies the drag to p.
func (c *Controller) Move(p vector.Pt) {
	if c.active == None {
		return
	}
	d := p.Sub(c.start)
	s := c.startRect
	r := s
	if c.active == Body {
		r.X, r.Y = s.X+d.X, s.Y+d.Y
		r.X = vector.Clamp(r.X, 0, math.Max(0, c.canvas.W-r.W))
		r.Y = vector.Clamp(r.Y, 0, math.Max(0, c.canvas.H-r.H))
		c.rect = r
		return
	}
	if c.active.movesLeft() {
		r.X = math.Min(s.X+s.W-MinSide, s.X+d.X)
		r.W = s.X + s.W - r.X
	}
	if c.active.movesRight() {
		r.W = math.Max(MinSide, s.W+d.X)
	}
	if c.active.movesTop() {
		r.Y = math.Min(s.Y+s.H-MinSide, s.Y+d.Y)
		r.H = s.Y + s.H - r.Y
	}
	if c.active.movesBottom() {
		r.H = math.Max(MinSide, s.H+d.Y)
	}
	c.rect = c.clamp(r)
}

// End finishes the drag. The rectangle is kept; nothing is committed.
func (c *Controller) End() { c.active = None }

// clamp pulls r inside the canvas, shrinking it by any overflow.
func (c *Controller) clamp(r vector.Rect) vector.Rect {
	if r.X < 0 {
		r.W += r.X
		r.X = 0
	}
	if r.Y < 0 {
		r.H += r.Y
		r.Y = 0
	}
	if over := r.X + r.W - c.canvas.W; over > 0 {
		r.W -= over
	}
	if over := r.Y + r.H - c.canvas.H; over > 0 {
		r.H -= over
	}
	return r
}
