/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package editor

import (
	"math"
	"strings"
	"unicode/utf8"

	"gocanvaseditor/internal/codec"
	"gocanvaseditor/internal/domain"
	"gocanvaseditor/internal/errs"
	"gocanvaseditor/internal/raster"
	"gocanvaseditor/internal/vector"
)

// Direction is a one-step layer move.
type Direction int

const (
	Down Direction = -1
	Up   Direction = 1
)

// LoadImage decodes data and adds it as a new active image with a single
// Background layer. An empty mime uses the detected format.
func (e *Editor) LoadImage(name, mime string, data []byte) (domain.Image, error) {
	const op = "Failed to load image"
	img, detected, err := codec.Decode(data)
	if err != nil {
		return domain.Image{}, e.fail(err)
	}
	w, h := raster.Size(img)
	if w < 1 || h < 1 || w > e.opts.MaxCanvas || h > e.opts.MaxCanvas {
		return domain.Image{}, e.fail(errs.Invalid(op, "image is %dx%d, the limit is %dx%d", w, h, e.opts.MaxCanvas, e.opts.MaxCanvas))
	}
	if strings.TrimSpace(mime) == "" {
		mime = detected
	}
	im := domain.NewImage(name, mime, raster.Clone(img), e.opts.HistoryLimit)
	e.mu.Lock()
	e.images = append(e.images, im)
	e.activeID = im.ID
	e.mu.Unlock()
	e.log.Info("image loaded", "image_id", im.ID, "name", im.Name, "mime", mime, "w", w, "h", h)
	e.scheduleThumb(im.ID)
	return im, nil
}

// DeleteImage removes an image and its history. The image after it, or else
// the one before, becomes active.
func (e *Editor) DeleteImage(id string) error {
	e.mu.Lock()
	i := e.indexLocked(id)
	if i < 0 {
		e.mu.Unlock()
		return e.fail(errs.Invalid("Failed to delete image", "unknown image %q", id))
	}
	images := make([]domain.Image, 0, len(e.images)-1)
	images = append(images, e.images[:i]...)
	images = append(images, e.images[i+1:]...)
	e.images = images
	delete(e.compositors, id)
	if e.activeID == id {
		e.activeID = ""
		switch {
		case i < len(images):
			e.activeID = images[i].ID
		case len(images) > 0:
			e.activeID = images[len(images)-1].ID
		}
	}
	e.mu.Unlock()
	e.filters.CancelPrefix(id + "/")
	e.thumbs.Cancel(id)
	e.log.Info("image deleted", "image_id", id)
	return nil
}

// SetActiveImage selects an image.
func (e *Editor) SetActiveImage(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.indexLocked(id) < 0 {
		return e.fail(errs.Invalid("Failed to select image", "unknown image %q", id))
	}
	e.activeID = id
	return nil
}

// SetActiveLayer selects a layer of the active image.
func (e *Editor) SetActiveLayer(id string) error {
	const op = "Failed to select layer"
	return e.update(op, func(im domain.Image) (domain.Image, error) {
		if im.LayerIndex(id) < 0 {
			return im, errs.Invalid(op, "unknown layer %q", id)
		}
		im.ActiveLayerID = id
		return im, nil
	})
}

// AddLayer puts a transparent layer on top of the active image and selects it.
func (e *Editor) AddLayer() (domain.Layer, error) {
	const op = "Failed to add layer"
	var added domain.Layer
	err := e.update(op, func(im domain.Image) (domain.Image, error) {
		src, err := raster.NewSurface(im.Width, im.Height)
		if err != nil {
			return im, errs.Wrap(op, errs.ErrRenderContextUnavailable, err)
		}
		added = domain.NewLayer(domain.NewLayerName, src, domain.SeedCreated, e.opts.HistoryLimit)
		return im.AddLayer(added), nil
	})
	return added, err
}

// DeleteLayer removes a layer and its history. Deleting the last layer
// leaves the image without an active layer.
func (e *Editor) DeleteLayer(id string) error {
	const op = "Failed to delete layer"
	return e.update(op, func(im domain.Image) (domain.Image, error) {
		if im.LayerIndex(id) < 0 {
			return im, errs.Invalid(op, "unknown layer %q", id)
		}
		e.filters.Cancel(filterKey(im.ID, id))
		return im.RemoveLayer(id), nil
	})
}

// MoveLayer shifts a layer one step in the stack.
func (e *Editor) MoveLayer(id string, dir Direction) error {
	const op = "Failed to move layer"
	return e.update(op, func(im domain.Image) (domain.Image, error) {
		if im.LayerIndex(id) < 0 {
			return im, errs.Invalid(op, "unknown layer %q", id)
		}
		return im.MoveLayer(id, int(dir)), nil
	})
}

// RenameLayer sets a layer name of 1 to domain.MaxNameLen characters after
// trimming.
func (e *Editor) RenameLayer(id, name string) error {
	const op = "Failed to rename layer"
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < 1 || n > domain.MaxNameLen {
		return e.fail(errs.Invalid(op, "layer name must be 1-%d characters", domain.MaxNameLen))
	}
	return e.editLayer(op, id, func(l domain.Layer) (domain.Layer, error) {
		l.Name = name
		return l, nil
	})
}

// SetLayerVisibility shows or hides a layer.
func (e *Editor) SetLayerVisibility(id string, visible bool) error {
	return e.editLayer("Failed to change layer visibility", id, func(l domain.Layer) (domain.Layer, error) {
		l.Visible = visible
		return l, nil
	})
}

// SetLayerOpacity sets the layer opacity, clamped to 0..100.
func (e *Editor) SetLayerOpacity(id string, opacity float64) error {
	return e.editLayer("Failed to change layer opacity", id, func(l domain.Layer) (domain.Layer, error) {
		if math.IsNaN(opacity) {
			opacity = 100
		}
		l.Opacity = vector.Clamp(opacity, 0, 100)
		return l, nil
	})
}

// SetLayerBlendMode sets how a layer combines with the layers below.
func (e *Editor) SetLayerBlendMode(id string, mode raster.BlendMode) error {
	const op = "Failed to change blend mode"
	if !mode.Valid() {
		return e.fail(errs.Invalid(op, "unknown blend mode %q", mode))
	}
	return e.editLayer(op, id, func(l domain.Layer) (domain.Layer, error) {
		l.Blend = mode
		return l, nil
	})
}

func (e *Editor) editLayer(op, id string, fn func(domain.Layer) (domain.Layer, error)) error {
	return e.update(op, func(im domain.Image) (domain.Image, error) {
		l, ok := im.Layer(id)
		if !ok {
			return im, errs.Invalid(op, "unknown layer %q", id)
		}
		l, err := fn(l)
		if err != nil {
			return im, err
		}
		return im.WithLayer(l), nil
	})
}
