/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package shapes builds outline paths for the shape tool and rasterizes them
// with gg.
package shapes

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/fogleman/gg"

	"gocanvaseditor/internal/vector"
)

// Kind selects the shape drawn between the gesture start and end points.
type Kind string

const (
	Line             Kind = "line"
	Rectangle        Kind = "rectangle"
	Circle           Kind = "circle"
	Ellipse          Kind = "ellipse"
	Triangle         Kind = "triangle"
	RoundedRectangle Kind = "rounded-rectangle"
)

var Kinds = []Kind{Line, Rectangle, Circle, Ellipse, Triangle, RoundedRectangle}

// ParseKind accepts a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown shape %q", s)
}

// Settings for the shape tool.
type Settings struct {
	Kind    Kind          `json:"kind" yaml:"kind"`
	Stroke  vector.Stroke `json:"stroke" yaml:"stroke"`
	Fill    vector.Fill   `json:"fill" yaml:"fill"`
	Opacity float64       `json:"opacity" yaml:"opacity"` // percent, applied on commit
}

// DefaultSettings is a 2px black rectangle outline.
func DefaultSettings() Settings {
	return Settings{
		Kind:    Rectangle,
		Stroke:  vector.Stroke{Color: vector.Color{A: 255}, Width: 2},
		Fill:    vector.Fill{Color: vector.Color{R: 255, G: 255, B: 255, A: 255}},
		Opacity: 100,
	}
}

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498307936

// Outline returns the path of kind k spanning start to end.
func Outline(k Kind, start, end vector.Pt) vector.Path {
	var p vector.Path
	switch k {
	case Line:
		p.MoveTo(start.X, start.Y)
		p.LineTo(end.X, end.Y)
	case Rectangle:
		r := vector.RectFromPoints(start, end)
		p.MoveTo(r.X, r.Y)
		p.LineTo(r.X+r.W, r.Y)
		p.LineTo(r.X+r.W, r.Y+r.H)
		p.LineTo(r.X, r.Y+r.H)
		p.Close()
	case Circle:
		rad := start.Dist(end)
		ellipse(&p, start, rad, rad)
	case Ellipse:
		r := vector.RectFromPoints(start, end)
		ellipse(&p, r.Center(), r.W/2, r.H/2)
	case Triangle:
		r := vector.RectFromPoints(start, end)
		p.MoveTo(r.X+r.W/2, r.Y)
		p.LineTo(r.X+r.W, r.Y+r.H)
		p.LineTo(r.X, r.Y+r.H)
		p.Close()
	case RoundedRectangle:
		roundedRect(&p, vector.RectFromPoints(start, end))
	}
	return p
}

func ellipse(p *vector.Path, c vector.Pt, rx, ry float64) {
	kx, ky := rx*kappa, ry*kappa
	p.MoveTo(c.X+rx, c.Y)
	p.CubicTo(c.X+rx, c.Y+ky, c.X+kx, c.Y+ry, c.X, c.Y+ry)
	p.CubicTo(c.X-kx, c.Y+ry, c.X-rx, c.Y+ky, c.X-rx, c.Y)
	p.CubicTo(c.X-rx, c.Y-ky, c.X-kx, c.Y-ry, c.X, c.Y-ry)
	p.CubicTo(c.X+kx, c.Y-ry, c.X+rx, c.Y-ky, c.X+rx, c.Y)
	p.Close()
}

// roundedRect uses a corner radius of a fifth of the shorter side.
func roundedRect(p *vector.Path, r vector.Rect) {
	rad := 0.2 * math.Min(r.W, r.H)
	k := rad * (1 - kappa)
	x0, y0, x1, y1 := r.X, r.Y, r.X+r.W, r.Y+r.H
	p.MoveTo(x0+rad, y0)
	p.LineTo(x1-rad, y0)
	p.CubicTo(x1-k, y0, x1, y0+k, x1, y0+rad)
	p.LineTo(x1, y1-rad)
	p.CubicTo(x1, y1-k, x1-k, y1, x1-rad, y1)
	p.LineTo(x0+rad, y1)
	p.CubicTo(x0+k, y1, x0, y1-k, x0, y1-rad)
	p.LineTo(x0, y0+rad)
	p.CubicTo(x0, y0+k, x0+k, y0, x0+rad, y0)
	p.Close()
}

// Draw rasterizes the shape into dst at full strength: fill first when
// enabled, then the stroke when its width is positive.
func Draw(dst *image.RGBA, s Settings, start, end vector.Pt) {
	path := Outline(s.Kind, start, end)
	if path.Empty() {
		return
	}
	dc := gg.NewContextForRGBA(dst)
	dc.SetLineJoinRound()
	dc.SetLineCapRound()
	if s.Fill.Enabled && s.Kind != Line {
		path.Trace(dc)
		dc.SetColor(s.Fill.Color.NRGBA())
		dc.Fill()
	}
	if s.Stroke.Width > 0 {
		path.Trace(dc)
		dc.SetColor(s.Stroke.Color.NRGBA())
		dc.SetLineWidth(s.Stroke.Width)
		dc.Stroke()
	}
}
