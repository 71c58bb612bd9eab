/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package script runs headless editing sessions described by a YAML or JSON
// document: load one image, configure tools, replay gestures and operations,
// then export.
package script

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"gocanvaseditor/internal/raster"
	"gocanvaseditor/internal/tools"
	"gocanvaseditor/internal/vector"
)

// CurrentVersion is the document version this package writes and reads.
const CurrentVersion = 1

// Document is a parsed edit script.
//
//	version: 1
//	load: {path: photo.png}
//	settings: {pen: {size: 8, color: "#ff0000"}}
//	steps:
//	  - {op: tool, tool: pen}
//	  - {op: gesture, points: [[10, 10], [80, 40]]}
//	  - {op: rotate}
//	export:
//	  - {path: out/photo.pdf}
type Document struct {
	Version  int            `yaml:"version" json:"version"`
	Load     Load           `yaml:"load" json:"load"`
	Settings tools.Settings `yaml:"settings" json:"settings"`
	Viewport *Viewport      `yaml:"viewport,omitempty" json:"viewport,omitempty"`
	Steps    []Step         `yaml:"steps" json:"steps"`
	Export   []Export       `yaml:"export" json:"export"`

	// BaseDir resolves relative paths; ParseFile sets it to the script's directory.
	BaseDir string `yaml:"-" json:"-"`
}

// Load names the image opened before any step runs.
type Load struct {
	Path string `yaml:"path" json:"path"`
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
}

// Viewport, when set, fits the image into a container of this size so
// screen-space gestures see the same transform as the desktop canvas.
type Viewport struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Op names a step.
type Op string

const (
	OpTool     Op = "tool"
	OpGesture  Op = "gesture"
	OpResize   Op = "resize"
	OpCanvas   Op = "canvas"
	OpRotate   Op = "rotate"
	OpFlip     Op = "flip"
	OpCrop     Op = "crop"
	OpFilters  Op = "filters"
	OpAddLayer Op = "add-layer"
	OpLayer    Op = "layer"
	OpUndo     Op = "undo"
	OpRedo     Op = "redo"
	OpHistory  Op = "history"
	OpAI       Op = "ai"
	OpZoom     Op = "zoom"
	OpFit      Op = "fit"
	OpFlush    Op = "flush"
)

// Space selects the coordinate system of gesture points.
type Space string

const (
	SpaceCanvas Space = "canvas"
	SpaceScreen Space = "screen"
)

// Step is one action. Which fields matter depends on Op.
type Step struct {
	Op Op `yaml:"op" json:"op"`

	Tool   string      `yaml:"tool,omitempty" json:"tool,omitempty"`
	Points [][]float64 `yaml:"points,omitempty" json:"points,omitempty"`
	Space  Space       `yaml:"space,omitempty" json:"space,omitempty"`

	Width  int    `yaml:"width,omitempty" json:"width,omitempty"`
	Height int    `yaml:"height,omitempty" json:"height,omitempty"`
	Anchor string `yaml:"anchor,omitempty" json:"anchor,omitempty"`
	Axis   string `yaml:"axis,omitempty" json:"axis,omitempty"`
	Rect   *Rect  `yaml:"rect,omitempty" json:"rect,omitempty"`

	Filters *FilterSet `yaml:"filters,omitempty" json:"filters,omitempty"`

	// layer properties; Index selects a layer by stack position (0 = bottom)
	Index   *int     `yaml:"index,omitempty" json:"index,omitempty"`
	Name    string   `yaml:"name,omitempty" json:"name,omitempty"`
	Opacity *float64 `yaml:"opacity,omitempty" json:"opacity,omitempty"`
	Blend   string   `yaml:"blend,omitempty" json:"blend,omitempty"`
	Visible *bool    `yaml:"visible,omitempty" json:"visible,omitempty"`
	Move    string   `yaml:"move,omitempty" json:"move,omitempty"`

	Entry  int     `yaml:"entry,omitempty" json:"entry,omitempty"`
	Prompt string  `yaml:"prompt,omitempty" json:"prompt,omitempty"`
	Zoom   float64 `yaml:"zoom,omitempty" json:"zoom,omitempty"`
}

// Rect is a canvas-space rectangle.
type Rect struct {
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

func (r Rect) vector() vector.Rect { return vector.R(r.X, r.Y, r.Width, r.Height) }

// FilterSet decodes filter values over the identity settings, so a step
// naming only sepia leaves brightness at 100.
type FilterSet raster.Filters

func (f *FilterSet) UnmarshalYAML(n *yaml.Node) error {
	v := raster.DefaultFilters()
	if err := n.Decode(&v); err != nil {
		return err
	}
	*f = FilterSet(v)
	return nil
}

// Export writes the flattened image. Format defaults to the path extension.
type Export struct {
	Path   string `yaml:"path" json:"path"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
}

// Problem is one schema violation.
type Problem struct {
	Field   string
	Message string
}

func (p Problem) String() string {
	if p.Field == "" || p.Field == "(root)" {
		return p.Message
	}
	return p.Field + ": " + p.Message
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.String()
	}
	return fmt.Sprintf("invalid edit script: %s", strings.Join(parts, "; "))
}
