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
	"errors"
	"image"

	"gocanvaseditor/internal/aiedit"
	"gocanvaseditor/internal/codec"
	"gocanvaseditor/internal/domain"
	"gocanvaseditor/internal/errs"
	applog "gocanvaseditor/internal/log"
	"gocanvaseditor/internal/raster"
	"gocanvaseditor/internal/vector"
)

// FlipAxis selects a mirror direction.
type FlipAxis int

const (
	Horizontal FlipAxis = iota
	Vertical
)

const aiCommitName = "AI Generation"

func (e *Editor) checkSize(op string, w, h int) error {
	if w < 1 || h < 1 || w > e.opts.MaxCanvas || h > e.opts.MaxCanvas {
		return errs.Invalid(op, "size %dx%d must be between 1x1 and %dx%d", w, h, e.opts.MaxCanvas, e.opts.MaxCanvas)
	}
	return nil
}

// Resize resamples every layer of the active image to w×h.
func (e *Editor) Resize(w, h int) error {
	const op = "Failed to resize image"
	if err := e.checkSize(op, w, h); err != nil {
		return e.fail(err)
	}
	return e.batch(op, func(im domain.Image) (domain.Image, error) {
		return transformLayers(op, im, w, h, func(src *image.RGBA) (*image.RGBA, error) {
			return raster.Resize(src, w, h)
		}, fixedName("Resize"))
	})
}

// Rotate turns every layer a quarter turn clockwise.
func (e *Editor) Rotate() error {
	const op = "Failed to rotate image"
	return e.batch(op, func(im domain.Image) (domain.Image, error) {
		return transformLayers(op, im, im.Height, im.Width, func(src *image.RGBA) (*image.RGBA, error) {
			return raster.Rotate90(src), nil
		}, numberedName("Rotate"))
	})
}

// Flip mirrors every layer.
func (e *Editor) Flip(axis FlipAxis) error {
	const op = "Failed to flip image"
	fn, name := raster.FlipH, "Flip Horizontal"
	if axis == Vertical {
		fn, name = raster.FlipV, "Flip Vertical"
	}
	return e.batch(op, func(im domain.Image) (domain.Image, error) {
		return transformLayers(op, im, im.Width, im.Height, func(src *image.RGBA) (*image.RGBA, error) {
			return fn(src), nil
		}, numberedName(name))
	})
}

// CanvasSize changes the canvas to w×h without scaling, placing the old
// pixels at the anchor.
func (e *Editor) CanvasSize(w, h int, anchor raster.Anchor) error {
	const op = "Failed to resize canvas"
	if err := e.checkSize(op, w, h); err != nil {
		return e.fail(err)
	}
	return e.batch(op, func(im domain.Image) (domain.Image, error) {
		return transformLayers(op, im, w, h, func(src *image.RGBA) (*image.RGBA, error) {
			return raster.CanvasResize(src, w, h, anchor)
		}, fixedName("Canvas Size"))
	})
}

// ApplyCrop crops every layer to r, given in canvas units. The rectangle is
// rounded and limited to the canvas first.
func (e *Editor) ApplyCrop(r vector.Rect) error {
	const op = "Failed to crop image"
	ir := r.Normalize().Round()
	if ir.Dx() <= 0 || ir.Dy() <= 0 {
		return e.fail(errs.Invalid(op, "crop area %dx%d is empty", ir.Dx(), ir.Dy()))
	}
	return e.batch(op, func(im domain.Image) (domain.Image, error) {
		cr := ir.Intersect(image.Rect(0, 0, im.Width, im.Height))
		if cr.Empty() {
			return im, errs.Invalid(op, "crop area %v is outside the canvas", ir)
		}
		return transformLayers(op, im, cr.Dx(), cr.Dy(), func(src *image.RGBA) (*image.RGBA, error) {
			return raster.Crop(src, cr.Intersect(src.Bounds()))
		}, numberedName("Crop"))
	})
}

// AIEdit sends the active layer with prompt to the generative edit service
// and commits the returned image, resized to the canvas, on that layer.
func (e *Editor) AIEdit(ctx context.Context, prompt string) error {
	const op = "Failed to generate AI image"
	if e.opts.Remote == nil {
		return e.fail(errs.New(op, errs.ErrRemoteEditFailure, "no generative edit service configured"))
	}
	if err := aiedit.ValidatePrompt(prompt); err != nil {
		return e.fail(err)
	}
	return e.batch(op, func(im domain.Image) (domain.Image, error) {
		l, ok := im.ActiveLayer()
		if !ok {
			return im, errs.Invalid(op, "no active layer")
		}
		pixels, err := codec.EncodePNG(l.Src)
		if err != nil {
			return im, errs.Wrap(op, errs.ErrRenderContextUnavailable, err)
		}
		ctx := applog.ContextWithLayer(applog.ContextWithImage(ctx, im.ID), l.ID)
		e.log.InfoContext(ctx, "requesting generative edit", "bytes", len(pixels))
		data, _, err := e.opts.Remote.Edit(ctx, pixels, codec.MimePNG, prompt)
		if err != nil {
			return im, relabel(op, err)
		}
		img, _, err := codec.Decode(data)
		if err != nil {
			return im, relabel(op, err)
		}
		out, err := raster.Resize(img, im.Width, im.Height)
		if err != nil {
			return im, relabel(op, err)
		}
		return im.WithLayer(l.Commit(out, aiCommitName)), nil
	})
}

func fixedName(name string) func(domain.Layer) string {
	return func(domain.Layer) string { return name }
}

func numberedName(prefix string) func(domain.Layer) string {
	return func(l domain.Layer) string { return l.History.NextNameAtCursor(prefix) }
}

// transformLayers runs fn over every layer and commits each result. The
// image takes the w×h size. Nothing is kept if any layer fails.
func transformLayers(op string, im domain.Image, w, h int, fn func(*image.RGBA) (*image.RGBA, error), name func(domain.Layer) string) (domain.Image, error) {
	layers := make([]domain.Layer, len(im.Layers))
	for i, l := range im.Layers {
		out, err := fn(l.Src)
		if err != nil {
			return im, relabel(op, err)
		}
		layers[i] = l.Commit(out, name(l))
	}
	im = im.WithLayers(layers)
	im.Width, im.Height = w, h
	im.IsFitted = false
	return im, nil
}

var kinds = []error{errs.ErrInvalidInput, errs.ErrDecodeFailure, errs.ErrRemoteEditFailure, errs.ErrRenderContextUnavailable}

// relabel puts err under op, keeping its kind. Unclassified errors count as
// a render failure.
func relabel(op string, err error) error {
	if errs.Label(err) == op {
		return err
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return errs.Wrap(op, k, err)
		}
	}
	return errs.Wrap(op, errs.ErrRenderContextUnavailable, err)
}
