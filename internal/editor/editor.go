/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package editor is the editing session: the list of loaded images, the
// active selection, and every operation that changes them.
//
// Images are immutable domain values. Operations build a new value and swap
// it into the list under the editor mutex. Batch operations (resize, rotate,
// flip, canvas size, crop, filter bake, AI edit) snapshot the image, compute
// the new rasters without the lock and swap the result in at the end; when
// two of them race the last swap wins.
//
// The editor implements tools.Target, so a tools.Controller commits straight
// into the active layer.
package editor

import (
	"context"
	"image"
	"log/slog"
	"sync"
	"time"

	"gocanvaseditor/internal/domain"
	"gocanvaseditor/internal/errs"
	applog "gocanvaseditor/internal/log"
	"gocanvaseditor/internal/raster"
	"gocanvaseditor/internal/tools"
	"gocanvaseditor/internal/viewport"
)

const (
	DefaultFilterDelay = 800 * time.Millisecond
	DefaultThumbDelay  = 500 * time.Millisecond
	DefaultThumbMax    = 300
	errorBuffer        = 16
)

// RemoteEditor produces an edited image from pixels and a prompt.
// *aiedit.Client satisfies it.
type RemoteEditor interface {
	Edit(ctx context.Context, pixels []byte, mime, prompt string) ([]byte, string, error)
}

// PreviewStore persists encoded thumbnails. *storage.Previews satisfies it.
type PreviewStore interface {
	Put(ctx context.Context, key string, png []byte) error
}

// Options tunes an editor. Zero values select the defaults.
type Options struct {
	HistoryLimit int
	MaxCanvas    int
	FilterDelay  time.Duration
	ThumbDelay   time.Duration
	ThumbMax     int
	Remote       RemoteEditor
	Previews     PreviewStore
}

func (o Options) withDefaults() Options {
	if o.MaxCanvas <= 0 || o.MaxCanvas > domain.MaxCanvasSide {
		o.MaxCanvas = domain.MaxCanvasSide
	}
	if o.FilterDelay <= 0 {
		o.FilterDelay = DefaultFilterDelay
	}
	if o.ThumbDelay <= 0 {
		o.ThumbDelay = DefaultThumbDelay
	}
	if o.ThumbMax <= 0 {
		o.ThumbMax = DefaultThumbMax
	}
	return o
}

// Editor holds the session state. It is safe for concurrent use.
type Editor struct {
	mu          sync.Mutex
	images      []domain.Image
	activeID    string
	compositors map[string]*raster.Compositor

	opts    Options
	log     *slog.Logger
	errs    chan error
	filters *debouncer
	thumbs  *debouncer
}

var _ tools.Target = (*Editor)(nil)

// New creates an empty session.
func New(opts Options) *Editor {
	opts = opts.withDefaults()
	return &Editor{
		compositors: map[string]*raster.Compositor{},
		opts:        opts,
		log:         applog.WithComponent("editor"),
		errs:        make(chan error, errorBuffer),
		filters:     newDebouncer(opts.FilterDelay),
		thumbs:      newDebouncer(opts.ThumbDelay),
	}
}

// Errors is the session's error sink. Every failed operation is delivered
// once, besides being returned to the caller. Errors are dropped when nobody
// drains the channel.
func (e *Editor) Errors() <-chan error { return e.errs }

func (e *Editor) fail(err error) error {
	if err == nil {
		return nil
	}
	select {
	case e.errs <- err:
	default:
		e.log.Warn("error sink full, dropping", "op", errs.Label(err), "err", err)
	}
	e.log.Error("operation failed", "op", errs.Label(err), "err", err)
	return err
}

// Flush runs pending filter commits and then pending thumbnails.
func (e *Editor) Flush() {
	e.filters.Flush()
	e.thumbs.Flush()
}

// Close cancels every pending debounced job.
func (e *Editor) Close() {
	e.filters.Stop()
	e.thumbs.Stop()
}

// Images returns the loaded images in load order.
func (e *Editor) Images() []domain.Image {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.Image(nil), e.images...)
}

// Image returns the image with the given id.
func (e *Editor) Image(id string) (domain.Image, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := e.indexLocked(id); i >= 0 {
		return e.images[i], true
	}
	return domain.Image{}, false
}

// Active returns the active image.
func (e *Editor) Active() (domain.Image, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeLocked()
}

func (e *Editor) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, im := range e.images {
		if im.ID == id {
			return i
		}
	}
	return -1
}

func (e *Editor) activeLocked() (domain.Image, bool) {
	if i := e.indexLocked(e.activeID); i >= 0 {
		return e.images[i], true
	}
	return domain.Image{}, false
}

// storeLocked swaps im into the list. It reports false when the image was
// deleted in the meantime.
func (e *Editor) storeLocked(im domain.Image) bool {
	i := e.indexLocked(im.ID)
	if i < 0 {
		return false
	}
	e.images[i] = im
	return true
}

// update applies fn to the active image under the lock and schedules a
// thumbnail when fn succeeds.
func (e *Editor) update(op string, fn func(im domain.Image) (domain.Image, error)) error {
	e.mu.Lock()
	im, ok := e.activeLocked()
	if !ok {
		e.mu.Unlock()
		return e.fail(errs.Invalid(op, "no active image"))
	}
	next, err := fn(im)
	if err != nil {
		e.mu.Unlock()
		return e.fail(err)
	}
	e.storeLocked(next)
	e.mu.Unlock()
	e.scheduleThumb(next.ID)
	return nil
}

// batch snapshots the active image, runs fn without the lock and swaps the
// result in.
func (e *Editor) batch(op string, fn func(im domain.Image) (domain.Image, error)) error {
	im, ok := e.Active()
	if !ok {
		return e.fail(errs.Invalid(op, "no active image"))
	}
	start := time.Now()
	next, err := fn(im)
	if err != nil {
		return e.fail(err)
	}
	e.mu.Lock()
	stored := e.storeLocked(next)
	e.mu.Unlock()
	if !stored {
		e.log.Debug("image gone before batch finished", "op", op, "image_id", im.ID)
		return nil
	}
	applog.WithOperation(e.log, op).Debug("batch applied", "image_id", im.ID, "took", time.Since(start))
	e.scheduleThumb(next.ID)
	return nil
}

func (e *Editor) compositor(imageID string) *raster.Compositor {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.compositors[imageID]
	if !ok {
		c = raster.NewCompositor()
		e.compositors[imageID] = c
	}
	return c
}

// Surface exposes the active layer to the tool controller.
func (e *Editor) Surface() (tools.Surface, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	im, ok := e.activeLocked()
	if !ok {
		return tools.Surface{}, false
	}
	l, ok := im.ActiveLayer()
	if !ok {
		return tools.Surface{}, false
	}
	return tools.Surface{ImageID: im.ID, Width: im.Width, Height: im.Height, View: im.View, Layer: l.Src}, true
}

// SetView replaces the active image's view. A manual view is no longer fitted.
func (e *Editor) SetView(v viewport.Transform) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if im, ok := e.activeLocked(); ok {
		v.Zoom = viewport.ClampZoom(v.Zoom)
		im.View = v
		im.IsFitted = false
		e.storeLocked(im)
	}
}

// NextName numbers a tool commit on the active layer.
func (e *Editor) NextName(prefix string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if im, ok := e.activeLocked(); ok {
		if l, ok := im.ActiveLayer(); ok {
			return l.History.NextName(prefix)
		}
	}
	return prefix + " 1"
}

// Commit stores a tool result on the active layer.
func (e *Editor) Commit(src *image.RGBA, name string) error {
	const op = "Failed to update layer"
	return e.update(op, func(im domain.Image) (domain.Image, error) {
		l, ok := im.ActiveLayer()
		if !ok {
			return im, errs.Invalid(op, "no active layer")
		}
		if !raster.SameSize(src, im.Width, im.Height) {
			w, h := raster.Size(src)
			return im, errs.Invalid(op, "raster is %dx%d, canvas is %dx%d", w, h, im.Width, im.Height)
		}
		return im.WithLayer(l.Commit(src, name)), nil
	})
}
