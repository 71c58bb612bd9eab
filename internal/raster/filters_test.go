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
	"image"
	"image/color"
	"testing"
)

func TestFiltersClamp(t *testing.T) {
	f := Filters{Brightness: 500, Contrast: -1, Saturate: 100, Grayscale: 120, HueRotate: 400}.Clamp()
	if f.Brightness != 200 || f.Contrast != 0 || f.Grayscale != 100 || f.HueRotate != 360 {
		t.Fatalf("unexpected clamp result: %+v", f)
	}
}

func TestIdentityFiltersCopy(t *testing.T) {
	src := solid(2, 2, color.RGBA{10, 20, 30, 255})
	out := DefaultFilters().Apply(src)
	if out == src {
		t.Fatalf("Apply must return a new raster")
	}
	if out.RGBAAt(1, 1) != src.RGBAAt(1, 1) {
		t.Fatalf("identity filters changed pixels")
	}
}

func TestGrayscaleKeepsAlpha(t *testing.T) {
	// premultiplied red at half coverage
	src := solid(1, 1, color.RGBA{128, 0, 0, 128})
	f := DefaultFilters()
	f.Grayscale = 100
	got := f.Apply(src).RGBAAt(0, 0)
	if got.A != 128 {
		t.Fatalf("alpha after grayscale = %d, want 128", got.A)
	}
	if got.R != got.G || got.G != got.B {
		t.Fatalf("grayscale output not gray: %v", got)
	}
	if got.R > got.A {
		t.Fatalf("output not premultiplied: %v", got)
	}
}

func TestBrightnessBrightens(t *testing.T) {
	src := solid(1, 1, color.RGBA{100, 100, 100, 255})
	f := DefaultFilters()
	f.Brightness = 150
	if got := f.Apply(src).RGBAAt(0, 0); got.R <= 100 {
		t.Fatalf("brightness 150%% did not brighten: %v", got)
	}
}

func TestPartialInvertMixes(t *testing.T) {
	src := solid(1, 1, color.RGBA{255, 0, 0, 255})
	f := DefaultFilters()
	f.Invert = 50
	got := f.Apply(src).RGBAAt(0, 0)
	if !near(got.R, 128, 2) || !near(got.G, 128, 2) {
		t.Fatalf("half invert of red = %v", got)
	}
}

func TestPremultiplyRoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Pix = []uint8{60, 30, 0, 120}
	premultiply(unpremultiply(img))
	if !near(img.Pix[0], 60, 1) || !near(img.Pix[1], 30, 1) || img.Pix[3] != 120 {
		t.Fatalf("round trip drifted: %v", img.Pix)
	}
}
