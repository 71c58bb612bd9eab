/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	xdraw "golang.org/x/image/draw"

	"gocanvaseditor/internal/errs"
)

func alphaColor(opacity float64) color.Alpha {
	return color.Alpha{A: to8(opacity)}
}

// Resize resamples img to w×h with a Catmull-Rom filter.
func Resize(img image.Image, w, h int) (*image.RGBA, error) {
	if w <= 0 || h <= 0 || w > MaxSurfaceSide || h > MaxSurfaceSide {
		return nil, errs.Invalid("resize", "target %dx%d out of range", w, h)
	}
	if SameSize(img, w, h) {
		return Clone(img), nil
	}
	return normalize(transform.Resize(img, w, h, transform.CatmullRom)), nil
}

// Rotate90 turns img a quarter turn clockwise. The output has the input's
// width and height swapped.
func Rotate90(img image.Image) *image.RGBA {
	src := Clone(img)
	w, h := Size(src)
	out := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := src.PixOffset(x, y)
			di := out.PixOffset(h-1-y, x)
			copy(out.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return out
}

// FlipH mirrors img left to right.
func FlipH(img image.Image) *image.RGBA { return normalize(transform.FlipH(img)) }

// FlipV mirrors img top to bottom.
func FlipV(img image.Image) *image.RGBA { return normalize(transform.FlipV(img)) }

// Crop returns the part of img inside r, which must lie within its bounds.
func Crop(img image.Image, r image.Rectangle) (*image.RGBA, error) {
	r = r.Canon()
	if r.Empty() {
		return nil, errs.Invalid("crop", "empty crop rectangle %v", r)
	}
	b := img.Bounds()
	if !r.Add(b.Min).In(b) {
		return nil, errs.Invalid("crop", "crop rectangle %v outside %dx%d", r, b.Dx(), b.Dy())
	}
	return normalize(transform.Crop(img, r.Add(b.Min))), nil
}

// Anchor names where existing pixels sit when the canvas is resized.
type Anchor string

const (
	AnchorTopLeft     Anchor = "top-left"
	AnchorTop         Anchor = "top"
	AnchorTopRight    Anchor = "top-right"
	AnchorLeft        Anchor = "left"
	AnchorCenter      Anchor = "center"
	AnchorRight       Anchor = "right"
	AnchorBottomLeft  Anchor = "bottom-left"
	AnchorBottom      Anchor = "bottom"
	AnchorBottomRight Anchor = "bottom-right"
)

// AllAnchors lists the anchors in reading order.
var AllAnchors = []Anchor{
	AnchorTopLeft, AnchorTop, AnchorTopRight,
	AnchorLeft, AnchorCenter, AnchorRight,
	AnchorBottomLeft, AnchorBottom, AnchorBottomRight,
}

// ParseAnchor accepts the anchor names case-insensitively; empty means center.
func ParseAnchor(s string) (Anchor, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "middle" {
		return AnchorCenter, nil
	}
	for _, a := range AllAnchors {
		if string(a) == s {
			return a, nil
		}
	}
	return AnchorCenter, fmt.Errorf("unknown anchor %q", s)
}

// Offset returns where the top-left of an old×oldH raster lands on a
// newW×newH canvas. Offsets are negative when the canvas shrinks.
func (a Anchor) Offset(oldW, oldH, newW, newH int) image.Point {
	dx, dy := newW-oldW, newH-oldH
	var p image.Point
	switch a {
	case AnchorTop, AnchorCenter, AnchorBottom:
		p.X = floorHalf(dx)
	case AnchorTopRight, AnchorRight, AnchorBottomRight:
		p.X = dx
	}
	switch a {
	case AnchorLeft, AnchorCenter, AnchorRight:
		p.Y = floorHalf(dy)
	case AnchorBottomLeft, AnchorBottom, AnchorBottomRight:
		p.Y = dy
	}
	return p
}

func floorHalf(v int) int {
	if v < 0 {
		return -((-v + 1) / 2)
	}
	return v / 2
}

// CanvasResize places img on a transparent w×h canvas at the anchor offset.
// Pixels outside the new canvas are discarded.
func CanvasResize(img image.Image, w, h int, a Anchor) (*image.RGBA, error) {
	out, err := NewSurface(w, h)
	if err != nil {
		return nil, fmt.Errorf("canvas resize: %w", err)
	}
	ow, oh := Size(img)
	off := a.Offset(ow, oh, w, h)
	dr := image.Rect(off.X, off.Y, off.X+ow, off.Y+oh)
	draw.Draw(out, dr, img, img.Bounds().Min, draw.Src)
	return out, nil
}

// Thumbnail downsamples img so its longer side is at most maxSide, keeping
// the aspect ratio. Smaller images are copied unchanged.
func Thumbnail(img image.Image, maxSide int) (*image.RGBA, error) {
	w, h := Size(img)
	if w == 0 || h == 0 {
		return nil, errs.Invalid("thumbnail", "empty image")
	}
	if maxSide <= 0 {
		return nil, errs.Invalid("thumbnail", "max side %d", maxSide)
	}
	if w <= maxSide && h <= maxSide {
		return Clone(img), nil
	}
	tw, th := maxSide, maxSide
	if w >= h {
		th = max(1, h*maxSide/w)
	} else {
		tw = max(1, w*maxSide/h)
	}
	out := image.NewRGBA(image.Rect(0, 0, tw, th))
	xdraw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return out, nil
}
