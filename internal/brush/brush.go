/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package brush stamps soft round dabs along pointer segments.
//
// Dabs are painted at full strength into an overlay; the tool's opacity is
// applied once when the overlay is merged into the layer, so a stroke that
// crosses itself never gets darker than a single pass.
package brush

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"gocanvaseditor/internal/vector"
)

const (
	MinSize = 1.0
	MaxSize = 500.0
)

// Settings describe the pen and eraser tips.
type Settings struct {
	Color    vector.Color `json:"color" yaml:"color"`
	Size     float64      `json:"size" yaml:"size"`         // diameter in canvas units
	Opacity  float64      `json:"opacity" yaml:"opacity"`   // percent, 0..100
	Hardness float64      `json:"hardness" yaml:"hardness"` // percent, 0..100
}

// DefaultSettings is a 10px black pen.
func DefaultSettings() Settings {
	return Settings{Color: vector.Color{A: 255}, Size: 10, Opacity: 100, Hardness: 100}
}

// Normalize clamps the numeric fields.
func (s Settings) Normalize() Settings {
	s.Size = vector.Clamp(s.Size, MinSize, MaxSize)
	s.Opacity = vector.Clamp(s.Opacity, 0, 100)
	s.Hardness = vector.Clamp(s.Hardness, 0, 100)
	return s
}

// Engine renders dabs for one set of settings. Not safe for concurrent use.
type Engine struct {
	s       Settings
	scratch *gg.Context
	side    int
}

// New returns an engine for s.
func New(s Settings) *Engine {
	s = s.Normalize()
	side := int(math.Ceil(s.Size)) + 3
	return &Engine{s: s, scratch: gg.NewContext(side, side), side: side}
}

// Settings returns the normalized settings.
func (e *Engine) Settings() Settings { return e.s }

// Segment stamps dabs from p0 to p1, one per canvas unit, into dst.
// A zero length segment stamps a single dab.
func (e *Engine) Segment(dst *image.RGBA, p0, p1 vector.Pt) {
	dist := p0.Dist(p1)
	angle := p0.Angle(p1)
	cos, sin := math.Cos(angle), math.Sin(angle)
	for i := 0.0; i <= dist; i++ {
		e.Dab(dst, vector.P(p0.X+cos*i, p0.Y+sin*i))
	}
}

// Dab stamps a single dab centred at c. Overlapping coverage keeps the
// larger alpha.
func (e *Engine) Dab(dst *image.RGBA, c vector.Pt) {
	r := e.s.Size / 2
	ox := int(math.Floor(c.X-r)) - 1
	oy := int(math.Floor(c.Y-r)) - 1
	lx, ly := c.X-float64(ox), c.Y-float64(oy)

	dc := e.scratch
	dc.SetColor(color.Transparent)
	dc.Clear()
	dc.SetFillStyle(e.gradient(lx, ly, r))
	dc.DrawCircle(lx, ly, r)
	dc.Fill()

	maxAlpha(dst, dc.Image().(*image.RGBA), image.Pt(ox, oy))
}

func (e *Engine) gradient(x, y, r float64) gg.Gradient {
	solid := e.s.Color.NRGBA()
	solid.A = 255
	edge := solid
	edge.A = 0
	g := gg.NewRadialGradient(x, y, 0, x, y, r)
	g.AddColorStop(0, solid)
	if h := e.s.Hardness / 100; h > 0 {
		g.AddColorStop(h, solid)
	}
	g.AddColorStop(1, edge)
	return g
}

// maxAlpha writes stamp into dst at off, keeping per pixel whichever of the
// two has more coverage.
func maxAlpha(dst, stamp *image.RGBA, off image.Point) {
	sb := stamp.Bounds()
	r := sb.Add(off).Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		di := dst.PixOffset(r.Min.X, y)
		si := stamp.PixOffset(r.Min.X-off.X, y-off.Y)
		for x := r.Min.X; x < r.Max.X; x, di, si = x+1, di+4, si+4 {
			if stamp.Pix[si+3] > dst.Pix[di+3] {
				copy(dst.Pix[di:di+4], stamp.Pix[si:si+4])
			}
		}
	}
}
