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
	"errors"
	"image"
	"image/color"
	"testing"

	"gocanvaseditor/internal/errs"
)

var (
	red  = color.RGBA{255, 0, 0, 255}
	blue = color.RGBA{0, 0, 255, 255}
)

func TestRotate90Clockwise(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(0, 0, red)
	src.SetRGBA(1, 0, blue)
	out := Rotate90(src)
	if w, h := Size(out); w != 1 || h != 2 {
		t.Fatalf("rotated size = %dx%d", w, h)
	}
	if out.RGBAAt(0, 0) != red || out.RGBAAt(0, 1) != blue {
		t.Fatalf("unexpected rotation: top=%v bottom=%v", out.RGBAAt(0, 0), out.RGBAAt(0, 1))
	}
	back := Rotate90(Rotate90(Rotate90(out)))
	if back.RGBAAt(0, 0) != red || back.RGBAAt(1, 0) != blue {
		t.Fatalf("four quarter turns should be identity")
	}
}

func TestFlip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(0, 0, red)
	if FlipH(src).RGBAAt(1, 0) != red {
		t.Fatalf("FlipH did not mirror horizontally")
	}
	if FlipV(src).RGBAAt(0, 1) != red {
		t.Fatalf("FlipV did not mirror vertically")
	}
}

func TestCrop(t *testing.T) {
	src := solid(200, 200, blue)
	src.SetRGBA(10, 10, red)
	out, err := Crop(src, image.Rect(10, 10, 110, 60))
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}
	if w, h := Size(out); w != 100 || h != 50 {
		t.Fatalf("crop size = %dx%d", w, h)
	}
	if out.Bounds().Min != (image.Point{}) || out.RGBAAt(0, 0) != red {
		t.Fatalf("crop not rebased to origin")
	}
	if _, err := Crop(src, image.Rect(150, 150, 250, 250)); !errors.Is(err, errs.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for out of bounds crop, got %v", err)
	}
	if _, err := Crop(src, image.Rect(5, 5, 5, 9)); !errors.Is(err, errs.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty crop, got %v", err)
	}
}

func TestAnchorOffsets(t *testing.T) {
	tests := []struct {
		a          Anchor
		oldW, oldH int
		newW, newH int
		want       image.Point
	}{
		{AnchorTopLeft, 2, 2, 6, 6, image.Pt(0, 0)},
		{AnchorCenter, 2, 2, 5, 5, image.Pt(1, 1)},
		{AnchorBottomRight, 2, 2, 6, 4, image.Pt(4, 2)},
		{AnchorTop, 4, 4, 8, 8, image.Pt(2, 0)},
		{AnchorLeft, 4, 4, 8, 8, image.Pt(0, 2)},
		{AnchorCenter, 5, 5, 2, 2, image.Pt(-2, -2)},
		{AnchorRight, 5, 5, 2, 2, image.Pt(-3, -2)},
	}
	for _, tc := range tests {
		if got := tc.a.Offset(tc.oldW, tc.oldH, tc.newW, tc.newH); got != tc.want {
			t.Fatalf("%s offset %dx%d->%dx%d = %v, want %v", tc.a, tc.oldW, tc.oldH, tc.newW, tc.newH, got, tc.want)
		}
	}
}

func TestParseAnchor(t *testing.T) {
	if a, err := ParseAnchor(""); err != nil || a != AnchorCenter {
		t.Fatalf("empty anchor = %q, %v", a, err)
	}
	if a, err := ParseAnchor("Bottom-Left"); err != nil || a != AnchorBottomLeft {
		t.Fatalf("mixed case anchor = %q, %v", a, err)
	}
	if _, err := ParseAnchor("nowhere"); err == nil {
		t.Fatalf("expected error for unknown anchor")
	}
}

func TestCanvasResizePlacesPixels(t *testing.T) {
	src := solid(2, 2, red)
	out, err := CanvasResize(src, 4, 4, AnchorCenter)
	if err != nil {
		t.Fatalf("CanvasResize: %v", err)
	}
	if out.RGBAAt(0, 0).A != 0 || out.RGBAAt(1, 1) != red || out.RGBAAt(2, 2) != red || out.RGBAAt(3, 3).A != 0 {
		t.Fatalf("pixels not centered")
	}
}

func TestResize(t *testing.T) {
	out, err := Resize(solid(10, 10, red), 20, 5)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if w, h := Size(out); w != 20 || h != 5 {
		t.Fatalf("resized to %dx%d", w, h)
	}
	if _, err := Resize(solid(1, 1, red), 0, 5); !errors.Is(err, errs.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestThumbnailKeepsAspect(t *testing.T) {
	out, err := Thumbnail(solid(600, 300, red), 300)
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	if w, h := Size(out); w != 300 || h != 150 {
		t.Fatalf("thumbnail = %dx%d, want 300x150", w, h)
	}
	out, _ = Thumbnail(solid(100, 400, red), 300)
	if w, h := Size(out); w != 75 || h != 300 {
		t.Fatalf("tall thumbnail = %dx%d, want 75x300", w, h)
	}
	small, _ := Thumbnail(solid(20, 10, red), 300)
	if w, h := Size(small); w != 20 || h != 10 {
		t.Fatalf("small image should not be upscaled: %dx%d", w, h)
	}
}

func TestNewSurfaceLimits(t *testing.T) {
	if _, err := NewSurface(0, 1); !errors.Is(err, errs.ErrRenderContextUnavailable) {
		t.Fatalf("expected ErrRenderContextUnavailable, got %v", err)
	}
	img, err := NewSurface(3, 2)
	if err != nil || img.Bounds().Dx() != 3 {
		t.Fatalf("NewSurface(3,2) = %v, %v", img, err)
	}
}

func TestCloneRebasesAndCopies(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	src.SetNRGBA(1, 2, color.NRGBA{B: 255, A: 255})
	sub := src.SubImage(image.Rect(1, 1, 4, 3))

	got := Clone(sub)
	if got.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Fatalf("bounds = %v", got.Bounds())
	}
	if px := got.RGBAAt(0, 1); px != blue {
		t.Fatalf("pixel = %+v, want blue", px)
	}
	got.SetRGBA(0, 1, red)
	if src.NRGBAAt(1, 2).B != 255 {
		t.Fatalf("clone shares pixels with its source")
	}

	rgba := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if c := Clone(rgba); &c.Pix[0] == &rgba.Pix[0] {
		t.Fatalf("RGBA clone reused the buffer")
	}
	if Clone(nil) != nil {
		t.Fatalf("Clone(nil) should be nil")
	}
}
