/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package viewport maps between screen and canvas coordinates and owns the
// pan, zoom and fit math of the editor view.
//
// A Transform is a plain value; every operation returns a new Transform. The
// effective scale is (Zoom/100)*BaseScale, where BaseScale is the fit factor
// and Zoom is the user's percentage on top of it.
package viewport

import (
	"math"

	"gocanvaseditor/internal/vector"
)

const (
	MinZoom = 10
	MaxZoom = 10000
	// WheelFactor is the zoom multiplier applied per wheel notch.
	WheelFactor = 1.1
)

// Transform is the pan offset and scale of one image view.
type Transform struct {
	Zoom      float64   `json:"zoom"`      // percent, [MinZoom, MaxZoom]
	BaseScale float64   `json:"baseScale"` // fit factor
	Pan       vector.Pt `json:"panOffset"` // screen position of the canvas origin
}

// Default is the identity view: 100% zoom, unit scale, no pan.
func Default() Transform { return Transform{Zoom: 100, BaseScale: 1} }

// ClampZoom limits z to [MinZoom, MaxZoom]. NaN falls back to 100.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 100
	}
	return vector.Clamp(z, MinZoom, MaxZoom)
}

// Scale returns the effective canvas-to-screen factor.
func (t Transform) Scale() float64 {
	bs := t.BaseScale
	if bs <= 0 {
		bs = 1
	}
	return (t.Zoom / 100) * bs
}

// Matrix returns the canvas-to-screen affine transform.
func (t Transform) Matrix() vector.Affine2D {
	s := t.Scale()
	return vector.Translate(t.Pan.X, t.Pan.Y).Mul(vector.Scale(s, s))
}

// ScreenToCanvas resolves a screen point to canvas space.
func (t Transform) ScreenToCanvas(p vector.Pt) vector.Pt {
	return p.Sub(t.Pan).Div(t.Scale())
}

// CanvasToScreen projects a canvas point to screen space.
func (t Transform) CanvasToScreen(p vector.Pt) vector.Pt {
	return p.Mul(t.Scale()).Add(t.Pan)
}

// ScreenToCanvasLen converts a screen distance to canvas units.
func (t Transform) ScreenToCanvasLen(d float64) float64 { return d / t.Scale() }

// ScaledSize is the on-screen size of a canvas.
func (t Transform) ScaledSize(canvas vector.Size) vector.Size {
	s := t.Scale()
	return vector.Size{W: canvas.W * s, H: canvas.H * s}
}

// Fit centers the canvas in the container at the largest scale that shows it
// whole, and resets zoom to 100. Empty canvas or container yields a unit
// scale and zero pan.
func Fit(canvas, container vector.Size) Transform {
	if canvas.Empty() || container.Empty() {
		return Default()
	}
	bs := math.Min(container.W/canvas.W, container.H/canvas.H)
	return Transform{
		Zoom:      100,
		BaseScale: bs,
		Pan: vector.Pt{
			X: (container.W - canvas.W*bs) / 2,
			Y: (container.H - canvas.H*bs) / 2,
		},
	}
}

// ZoomAt changes zoom while keeping the canvas point under pivot fixed on
// screen. The requested zoom is clamped first.
func (t Transform) ZoomAt(pivot vector.Pt, newZoom float64) Transform {
	newZoom = ClampZoom(newZoom)
	old := t.Zoom
	if old <= 0 {
		old = 100
	}
	ratio := newZoom / old
	t.Pan = pivot.Sub(pivot.Sub(t.Pan).Mul(ratio))
	t.Zoom = newZoom
	return t
}

// WheelZoom applies one wheel event at pivot. Negative deltaY (wheel up)
// zooms in by WheelFactor, positive zooms out.
func (t Transform) WheelZoom(pivot vector.Pt, deltaY float64) Transform {
	switch {
	case deltaY < 0:
		return t.ZoomAt(pivot, t.Zoom*WheelFactor)
	case deltaY > 0:
		return t.ZoomAt(pivot, t.Zoom/WheelFactor)
	default:
		return t
	}
}

// SetZoom changes zoom around the container centre; used when zoom changes
// without an accompanying pan change (zoom slider, presets).
func (t Transform) SetZoom(newZoom float64, container vector.Size) Transform {
	center := vector.Pt{X: container.W / 2, Y: container.H / 2}
	return t.ZoomAt(center, newZoom)
}

// PanBy shifts the view by a screen-space delta.
func (t Transform) PanBy(d vector.Pt) Transform {
	t.Pan = t.Pan.Add(d)
	return t
}
