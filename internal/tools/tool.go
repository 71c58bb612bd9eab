/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package tools turns pointer events into raster edits. A Controller owns the
// preview overlay and dispatches gestures to one strategy per tool; finished
// gestures are committed to the active layer through a Target.
package tools

import (
	"fmt"
	"image"
	"strings"

	"gocanvaseditor/internal/brush"
	"gocanvaseditor/internal/gradient"
	"gocanvaseditor/internal/shapes"
	"gocanvaseditor/internal/textlayout"
	"gocanvaseditor/internal/vector"
	"gocanvaseditor/internal/viewport"
)

// Tool names an interaction mode.
type Tool string

const (
	Select   Tool = "select"
	Pen      Tool = "pen"
	Eraser   Tool = "eraser"
	Shapes   Tool = "shapes"
	Gradient Tool = "gradient"
	Text     Tool = "text"
	Crop     Tool = "crop"
)

var AllTools = []Tool{Select, Pen, Eraser, Shapes, Gradient, Text, Crop}

func ParseTool(s string) (Tool, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range AllTools {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tool %q", s)
}

// State of the controller between events.
type State int

const (
	Idle State = iota
	Drawing
	Panning
	CropAdjusting
	TextPreview
	Pinching
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case Panning:
		return "panning"
	case CropAdjusting:
		return "crop-adjusting"
	case TextPreview:
		return "text-preview"
	case Pinching:
		return "pinching"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Settings groups the options of every tool.
type Settings struct {
	Pen      brush.Settings      `json:"pen" yaml:"pen"`
	Eraser   brush.Settings      `json:"eraser" yaml:"eraser"`
	Shape    shapes.Settings     `json:"shape" yaml:"shape"`
	Gradient gradient.Settings   `json:"gradient" yaml:"gradient"`
	Text     textlayout.Settings `json:"text" yaml:"text"`
}

// DefaultSettings returns the stock options. The eraser defaults to a 20px
// hard tip.
func DefaultSettings() Settings {
	er := brush.DefaultSettings()
	er.Size = 20
	return Settings{
		Pen:      brush.DefaultSettings(),
		Eraser:   er,
		Shape:    shapes.DefaultSettings(),
		Gradient: gradient.DefaultSettings(),
		Text:     textlayout.DefaultSettings(),
	}
}

// Surface is what the controller needs to know about the active image.
type Surface struct {
	ImageID       string
	Width, Height int
	View          viewport.Transform
	Layer         *image.RGBA // active layer raster, read-only
}

// Target receives the results of gestures. The editor implements it.
type Target interface {
	// Surface reports the active image and layer; ok is false when there is
	// nothing to draw on.
	Surface() (Surface, bool)
	SetView(viewport.Transform)
	// NextName numbers a commit: prefix plus one more than the matching
	// history entries of the active layer.
	NextName(prefix string) string
	Commit(src *image.RGBA, name string) error
}

// Event is one pointer sample in screen coordinates.
type Event struct {
	Screen vector.Pt
	Canvas vector.Pt
}

// strategy implements one tool.
type strategy interface {
	GestureStart(c *Controller, ev Event) error
	GestureMove(c *Controller, ev Event)
	GestureEnd(c *Controller, ev Event) error
}

// hoverer is implemented by tools that react to pointer motion without a
// button held.
type hoverer interface {
	Hover(c *Controller, ev Event)
}

// canceller is implemented by tools that hold gesture state.
type canceller interface {
	Cancel(c *Controller)
}
