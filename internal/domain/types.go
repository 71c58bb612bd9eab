/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the editing session data model: images made of ordered
// raster layers, each with its own undo history. Values are treated as
// immutable; every With* helper returns a modified copy and never touches the
// receiver's slices or rasters.

import (
	"image"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"gocanvaseditor/internal/history"
	"gocanvaseditor/internal/raster"
	"gocanvaseditor/internal/viewport"
)

const (
	// MaxNameLen bounds image and layer names, in runes.
	MaxNameLen = 50
	// MaxCanvasSide bounds image width and height.
	MaxCanvasSide = 4096

	BackgroundLayerName = "Background"
	NewLayerName        = "New Layer"
	SeedOriginal        = "Original"
	SeedCreated         = "Created"
)

// Layer is one independently editable raster.
type Layer struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Src     *image.RGBA      `json:"-"`
	Visible bool             `json:"isVisible"`
	Opacity float64          `json:"opacity"` // 0..100
	Blend   raster.BlendMode `json:"blendMode"`
	Filters raster.Filters   `json:"filters"`
	History history.Store    `json:"-"`
}

// NewLayer creates a visible, fully opaque layer seeded with one history
// entry. limit caps the history; zero means history.DefaultLimit.
func NewLayer(name string, src *image.RGBA, seed string, limit int) Layer {
	return Layer{
		ID:      uuid.NewString(),
		Name:    TruncateName(name),
		Src:     src,
		Visible: true,
		Opacity: 100,
		Blend:   raster.BlendNormal,
		Filters: raster.DefaultFilters(),
		History: history.SeedWithLimit(history.NewEntry(src, seed), limit),
	}
}

// Commit stores src as the layer raster and appends a history entry.
func (l Layer) Commit(src *image.RGBA, name string) Layer {
	l.Src = src
	l.History = l.History.Commit(history.NewEntry(src, name))
	return l
}

// Compositor returns the compositor's view of l.
func (l Layer) Compositor() raster.Layer {
	return raster.Layer{ID: l.ID, Src: l.Src, Visible: l.Visible, Opacity: l.Opacity, Blend: l.Blend, Filters: l.Filters}
}

// Image is one loaded document.
type Image struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	MimeType      string             `json:"mimeType"`
	Layers        []Layer            `json:"layers"` // bottom to top
	ActiveLayerID string             `json:"activeLayerId,omitempty"`
	View          viewport.Transform `json:"view"`
	Width         int                `json:"width"`
	Height        int                `json:"height"`
	IsFitted      bool               `json:"isFitted"`
	Preview       *image.RGBA        `json:"-"`
}

// NewImage wraps a decoded raster into an image with a single Background layer.
func NewImage(name, mime string, src *image.RGBA, historyLimit int) Image {
	w, h := raster.Size(src)
	bg := NewLayer(BackgroundLayerName, src, SeedOriginal, historyLimit)
	return Image{
		ID:            uuid.NewString(),
		Name:          TruncateName(name),
		MimeType:      mime,
		Layers:        []Layer{bg},
		ActiveLayerID: bg.ID,
		View:          viewport.Default(),
		Width:         w,
		Height:        h,
	}
}

// LayerIndex returns the position of layer id, or -1.
func (im Image) LayerIndex(id string) int {
	for i, l := range im.Layers {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// Layer returns the layer with the given id.
func (im Image) Layer(id string) (Layer, bool) {
	if i := im.LayerIndex(id); i >= 0 {
		return im.Layers[i], true
	}
	return Layer{}, false
}

// ActiveLayer returns the active layer, if any.
func (im Image) ActiveLayer() (Layer, bool) { return im.Layer(im.ActiveLayerID) }

// WithLayer replaces the layer that has l's id.
func (im Image) WithLayer(l Layer) Image {
	i := im.LayerIndex(l.ID)
	if i < 0 {
		return im
	}
	layers := append([]Layer(nil), im.Layers...)
	layers[i] = l
	im.Layers = layers
	return im
}

// WithLayers replaces the whole stack.
func (im Image) WithLayers(layers []Layer) Image {
	im.Layers = append([]Layer(nil), layers...)
	return im
}

// AddLayer appends l on top and makes it active.
func (im Image) AddLayer(l Layer) Image {
	im.Layers = append(append([]Layer(nil), im.Layers...), l)
	im.ActiveLayerID = l.ID
	return im
}

// RemoveLayer drops layer id. When it was active the topmost remaining layer
// becomes active, or none if the stack is empty.
func (im Image) RemoveLayer(id string) Image {
	i := im.LayerIndex(id)
	if i < 0 {
		return im
	}
	layers := make([]Layer, 0, len(im.Layers)-1)
	layers = append(layers, im.Layers[:i]...)
	layers = append(layers, im.Layers[i+1:]...)
	im.Layers = layers
	if im.ActiveLayerID == id {
		im.ActiveLayerID = ""
		if n := len(layers); n > 0 {
			im.ActiveLayerID = layers[n-1].ID
		}
	}
	return im
}

// MoveLayer shifts layer id by delta positions (positive is up), clamped to
// the stack.
func (im Image) MoveLayer(id string, delta int) Image {
	i := im.LayerIndex(id)
	if i < 0 {
		return im
	}
	j := min(max(i+delta, 0), len(im.Layers)-1)
	if i == j {
		return im
	}
	layers := append([]Layer(nil), im.Layers...)
	l := layers[i]
	if j > i {
		copy(layers[i:j], layers[i+1:j+1])
	} else {
		copy(layers[j+1:i+1], layers[j:i])
	}
	layers[j] = l
	im.Layers = layers
	return im
}

// CompositorLayers returns the stack in compositor form.
func (im Image) CompositorLayers() []raster.Layer {
	out := make([]raster.Layer, len(im.Layers))
	for i, l := range im.Layers {
		out[i] = l.Compositor()
	}
	return out
}

// TruncateName trims s and cuts it to MaxNameLen runes.
func TruncateName(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= MaxNameLen {
		return s
	}
	return string([]rune(s)[:MaxNameLen])
}
