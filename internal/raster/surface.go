/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package raster holds the pixel-level building blocks of the editor: surface
// allocation, the layer compositor with its blend modes and filter chain, and
// the whole-raster transforms used by batch operations.
//
// All functions treat their inputs as read-only and return freshly allocated
// *image.RGBA values with a zero origin.
package raster

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/anthonynsimon/bild/clone"

	"gocanvaseditor/internal/errs"
)

// MaxSurfaceSide bounds any single scratch allocation. Editor limits are
// tighter; this only guards against runaway requests.
const MaxSurfaceSide = 16384

// NewSurface allocates a transparent w×h surface.
func NewSurface(w, h int) (*image.RGBA, error) {
	if w <= 0 || h <= 0 || w > MaxSurfaceSide || h > MaxSurfaceSide {
		return nil, errs.New("allocate surface", errs.ErrRenderContextUnavailable, "cannot allocate %dx%d surface", w, h)
	}
	return image.NewRGBA(image.Rect(0, 0, w, h)), nil
}

// Clone copies any image into a new zero-origin RGBA.
func Clone(img image.Image) *image.RGBA {
	if img == nil {
		return nil
	}
	return normalize(clone.AsRGBA(img))
}

// normalize rebases an image so its bounds start at (0,0).
func normalize(img *image.RGBA) *image.RGBA {
	if img == nil || img.Bounds().Min == (image.Point{}) {
		return img
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Size returns the pixel dimensions of img, or zero for nil.
func Size(img image.Image) (w, h int) {
	if img == nil {
		return 0, 0
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

// SameSize reports whether img has exactly the given dimensions.
func SameSize(img image.Image, w, h int) bool {
	iw, ih := Size(img)
	return iw == w && ih == h
}

// Clear resets every pixel of img to transparent in place. Only used on
// scratch surfaces that are owned by the caller.
func Clear(img *image.RGBA) {
	if img == nil {
		return
	}
	clear(img.Pix)
}

// Fit returns img on a w×h surface, placed at the origin. Images that
// already match are returned as is.
func Fit(img image.Image, w, h int) (*image.RGBA, error) {
	if rgba, ok := img.(*image.RGBA); ok && SameSize(rgba, w, h) && rgba.Bounds().Min == (image.Point{}) {
		return rgba, nil
	}
	out, err := NewSurface(w, h)
	if err != nil {
		return nil, fmt.Errorf("fit raster: %w", err)
	}
	if img != nil {
		draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	}
	return out, nil
}
