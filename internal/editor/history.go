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
	"gocanvaseditor/internal/domain"
	"gocanvaseditor/internal/errs"
	"gocanvaseditor/internal/raster"
)

const filterCommitPrefix = "Filter"

func filterKey(imageID, layerID string) string { return imageID + "/" + layerID }

// SetFilters updates the live filters of a layer in the active image. The
// filters are baked into the raster after the filter delay, unless another
// change for the layer arrives first or history is navigated.
func (e *Editor) SetFilters(layerID string, f raster.Filters) error {
	const op = "Failed to apply filters"
	f = f.Clamp()
	var imageID string
	err := e.update(op, func(im domain.Image) (domain.Image, error) {
		l, ok := im.Layer(layerID)
		if !ok {
			return im, errs.Invalid(op, "unknown layer %q", layerID)
		}
		l.Filters = f
		imageID = im.ID
		return im.WithLayer(l), nil
	})
	if err != nil {
		return err
	}
	e.scheduleFilter(imageID, layerID)
	return nil
}

// PendingFilters lists the "image/layer" keys with a filter commit waiting.
func (e *Editor) PendingFilters() []string { return e.filters.Pending() }

func (e *Editor) scheduleFilter(imageID, layerID string) {
	e.filters.Schedule(filterKey(imageID, layerID), func() { e.commitFilters(imageID, layerID) })
}

// commitFilters bakes the live filters of one layer into a new history entry
// and resets them.
func (e *Editor) commitFilters(imageID, layerID string) {
	im, ok := e.Image(imageID)
	if !ok {
		return
	}
	l, ok := im.Layer(layerID)
	if !ok || l.Filters.IsIdentity() {
		return
	}
	baked := l.Filters.Apply(l.Src)

	e.mu.Lock()
	cur, ok := e.imageLocked(imageID)
	if !ok {
		e.mu.Unlock()
		return
	}
	cl, ok := cur.Layer(layerID)
	switch {
	case !ok || cl.Filters != l.Filters:
		// deleted, or a newer change has its own commit pending
		e.mu.Unlock()
		return
	case cl.Src != l.Src:
		e.mu.Unlock()
		e.scheduleFilter(imageID, layerID)
		return
	}
	cl = cl.Commit(baked, cl.History.NextName(filterCommitPrefix))
	cl.Filters = raster.DefaultFilters()
	e.storeLocked(cur.WithLayer(cl))
	e.mu.Unlock()
	e.log.Debug("filters committed", "image_id", imageID, "layer_id", layerID)
	e.scheduleThumb(imageID)
}

func (e *Editor) imageLocked(id string) (domain.Image, bool) {
	if i := e.indexLocked(id); i >= 0 {
		return e.images[i], true
	}
	return domain.Image{}, false
}

// SelectHistory moves a layer of the active image to history entry i. The
// layer raster is restored and its filters reset. When the entry has other
// dimensions than the image, the image takes them and is no longer fitted.
// Pending filter commits of the image are cancelled.
func (e *Editor) SelectHistory(layerID string, i int) error {
	const op = "Failed to restore history"
	return e.update(op, func(im domain.Image) (domain.Image, error) {
		l, ok := im.Layer(layerID)
		if !ok {
			return im, errs.Invalid(op, "unknown layer %q", layerID)
		}
		st, err := l.History.Select(i)
		if err != nil {
			return im, errs.Wrap(op, errs.ErrInvalidInput, err)
		}
		e.filters.CancelPrefix(im.ID + "/")
		entry := st.At(i)
		l.History = st
		l.Src = entry.Raster
		l.Filters = raster.DefaultFilters()
		im = im.WithLayer(l)
		if entry.Width != im.Width || entry.Height != im.Height {
			im.Width, im.Height = entry.Width, entry.Height
			im.IsFitted = false
		}
		return im, nil
	})
}

// Undo steps a layer one entry back; a no-op at the oldest entry.
func (e *Editor) Undo(layerID string) error { return e.step(layerID, -1) }

// Redo steps a layer one entry forward; a no-op at the tip.
func (e *Editor) Redo(layerID string) error { return e.step(layerID, 1) }

func (e *Editor) step(layerID string, delta int) error {
	im, ok := e.Active()
	if !ok {
		return e.fail(errs.Invalid("Failed to restore history", "no active image"))
	}
	l, ok := im.Layer(layerID)
	if !ok {
		return e.fail(errs.Invalid("Failed to restore history", "unknown layer %q", layerID))
	}
	i := l.History.Index() + delta
	if i < 0 || i >= l.History.Len() {
		return nil
	}
	return e.SelectHistory(layerID, i)
}
