/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package ui hosts the desktop front end. The Fyne window is only compiled
// with -tags fyne and cgo; other builds get a stub Run.
package ui

import (
	"errors"
	"fmt"
	"math"

	"fyne.io/fyne/v2"

	"gocanvaseditor/internal/domain"
	"gocanvaseditor/internal/editor"
	"gocanvaseditor/internal/textlayout"
	"gocanvaseditor/internal/tools"
	"gocanvaseditor/internal/vector"
	"gocanvaseditor/internal/viewport"
)

// ErrUnavailable is returned by Run when the binary carries no desktop UI.
var ErrUnavailable = errors.New("desktop UI unavailable")

// Options configures the desktop window.
type Options struct {
	Editor *editor.Editor
	Fonts  textlayout.Provider
	// Open lists images loaded at start.
	Open []string
}

// toPt converts a widget-local position to screen space.
func toPt(p fyne.Position) vector.Pt { return vector.Pt{X: float64(p.X), Y: float64(p.Y)} }

func imageSize(im domain.Image) vector.Size {
	return vector.Size{W: float64(im.Width), H: float64(im.Height)}
}

func toSize(s fyne.Size) vector.Size { return vector.Size{W: float64(s.Width), H: float64(s.Height)} }

// wheelDelta maps a Fyne scroll to a wheel delta: scrolling up reports a
// positive DY and zooms in.
func wheelDelta(e *fyne.ScrollEvent) float64 {
	if e == nil {
		return 0
	}
	return -float64(e.Scrolled.DY)
}

// placement is where the canvas lands inside the widget.
func placement(v viewport.Transform, canvas vector.Size) (fyne.Position, fyne.Size) {
	s := v.ScaledSize(canvas)
	return fyne.NewPos(float32(v.Pan.X), float32(v.Pan.Y)), fyne.NewSize(float32(s.W), float32(s.H))
}

// toolTitle is the toolbar label of t.
func toolTitle(t tools.Tool) string {
	switch t {
	case tools.Select:
		return "Select"
	case tools.Pen:
		return "Pen"
	case tools.Eraser:
		return "Eraser"
	case tools.Shapes:
		return "Shapes"
	case tools.Gradient:
		return "Gradient"
	case tools.Text:
		return "Text"
	case tools.Crop:
		return "Crop"
	}
	return string(t)
}

func toolTitles() []string {
	out := make([]string, len(tools.AllTools))
	for i, t := range tools.AllTools {
		out[i] = toolTitle(t)
	}
	return out
}

func toolForTitle(title string) (tools.Tool, bool) {
	for _, t := range tools.AllTools {
		if toolTitle(t) == title {
			return t, true
		}
	}
	return "", false
}

// zoomLabel formats the status-bar zoom readout.
func zoomLabel(v viewport.Transform) string {
	return fmt.Sprintf("%d%%", int(math.Round(v.Zoom)))
}
