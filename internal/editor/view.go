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
	"context"
	"image"
	"io"

	"gocanvaseditor/internal/codec"
	"gocanvaseditor/internal/domain"
	"gocanvaseditor/internal/errs"
	"gocanvaseditor/internal/export"
	applog "gocanvaseditor/internal/log"
	"gocanvaseditor/internal/raster"
	"gocanvaseditor/internal/vector"
	"gocanvaseditor/internal/viewport"
)

func canvasSize(im domain.Image) vector.Size {
	return vector.Size{W: float64(im.Width), H: float64(im.Height)}
}

// Composite flattens the visible layers of an image.
func (e *Editor) Composite(id string) (*image.RGBA, error) {
	const op = "Failed to render image"
	im, ok := e.Image(id)
	if !ok {
		return nil, e.fail(errs.Invalid(op, "unknown image %q", id))
	}
	out, err := e.flatten(im)
	if err != nil {
		return nil, e.fail(errs.Wrap(op, errs.ErrRenderContextUnavailable, err))
	}
	return out, nil
}

func (e *Editor) flatten(im domain.Image) (*image.RGBA, error) {
	return e.compositor(im.ID).Composite(im.Width, im.Height, im.CompositorLayers())
}

// Rescue flattens the active image without reporting to the error sink.
// It returns nil, nil when no image is open.
func (e *Editor) Rescue() (image.Image, error) {
	im, ok := e.Active()
	if !ok {
		return nil, nil
	}
	out, err := e.flatten(im)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Export writes the flattened image to w.
func (e *Editor) Export(id string, w io.Writer, f export.Format) error {
	const op = "Failed to export image"
	flat, err := e.Composite(id)
	if err != nil {
		return err
	}
	if f == export.PDF {
		im, _ := e.Image(id)
		err = export.WritePDF(w, flat, export.PDFOptions{Title: im.Name})
	} else {
		err = export.Write(w, flat, f)
	}
	if err != nil {
		return e.fail(relabel(op, err))
	}
	return nil
}

func (e *Editor) view(fn func(im domain.Image) domain.Image) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if im, ok := e.activeLocked(); ok {
		e.storeLocked(fn(im))
	}
}

// Fit centres the active image in the container at the largest scale that
// shows it whole.
func (e *Editor) Fit(container vector.Size) {
	e.view(func(im domain.Image) domain.Image {
		im.View = viewport.Fit(canvasSize(im), container)
		im.IsFitted = true
		return im
	})
}

// ZoomAt sets the zoom percentage keeping the canvas point under pivot fixed.
func (e *Editor) ZoomAt(pivot vector.Pt, zoom float64) {
	e.view(func(im domain.Image) domain.Image {
		im.View = im.View.ZoomAt(pivot, zoom)
		im.IsFitted = false
		return im
	})
}

// WheelZoom applies one mouse wheel step at pivot.
func (e *Editor) WheelZoom(pivot vector.Pt, deltaY float64) {
	e.view(func(im domain.Image) domain.Image {
		im.View = im.View.WheelZoom(pivot, deltaY)
		im.IsFitted = false
		return im
	})
}

// SetZoom changes zoom around the container centre.
func (e *Editor) SetZoom(zoom float64, container vector.Size) {
	e.view(func(im domain.Image) domain.Image {
		im.View = im.View.SetZoom(zoom, container)
		im.IsFitted = false
		return im
	})
}

// SetPan moves the canvas origin to p in screen space.
func (e *Editor) SetPan(p vector.Pt) {
	e.view(func(im domain.Image) domain.Image {
		im.View.Pan = p
		im.IsFitted = false
		return im
	})
}

// ScrollbarDrag pans one axis for a thumb drag of delta screen units.
func (e *Editor) ScrollbarDrag(axis viewport.Axis, startPan vector.Pt, delta float64, container vector.Size) {
	e.view(func(im domain.Image) domain.Image {
		im.View = im.View.ScrollbarDrag(axis, startPan, delta, canvasSize(im), container)
		im.IsFitted = false
		return im
	})
}

func (e *Editor) scheduleThumb(imageID string) {
	e.thumbs.Schedule(imageID, func() { e.renderThumb(imageID) })
}

// renderThumb refreshes Image.Preview. Failures are only logged.
func (e *Editor) renderThumb(imageID string) {
	log := applog.WithOperation(e.log, "thumbnail")
	im, ok := e.Image(imageID)
	if !ok {
		return
	}
	flat, err := e.flatten(im)
	if err != nil {
		log.Warn("composite failed", "image_id", imageID, "err", err)
		return
	}
	thumb, err := raster.Thumbnail(flat, e.opts.ThumbMax)
	if err != nil {
		log.Warn("downsample failed", "image_id", imageID, "err", err)
		return
	}
	e.mu.Lock()
	if cur, ok := e.imageLocked(imageID); ok {
		cur.Preview = thumb
		e.storeLocked(cur)
	}
	e.mu.Unlock()

	if e.opts.Previews == nil {
		return
	}
	data, err := codec.EncodePNG(thumb)
	if err == nil {
		err = e.opts.Previews.Put(context.Background(), imageID, data)
	}
	if err != nil {
		log.Warn("preview cache write failed", "image_id", imageID, "err", err)
	}
}
