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
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/effect"
)

// Filters are the per-layer adjustment settings, in CSS filter units.
// They are applied in field order.
type Filters struct {
	Brightness float64 `json:"brightness" yaml:"brightness"` // percent, 0..200
	Contrast   float64 `json:"contrast" yaml:"contrast"`     // percent, 0..200
	Saturate   float64 `json:"saturate" yaml:"saturate"`     // percent, 0..200
	Grayscale  float64 `json:"grayscale" yaml:"grayscale"`   // percent, 0..100
	Sepia      float64 `json:"sepia" yaml:"sepia"`           // percent, 0..100
	Invert     float64 `json:"invert" yaml:"invert"`         // percent, 0..100
	HueRotate  float64 `json:"hueRotate" yaml:"hueRotate"`   // degrees, 0..360
}

// DefaultFilters leaves pixels untouched.
func DefaultFilters() Filters {
	return Filters{Brightness: 100, Contrast: 100, Saturate: 100}
}

// IsIdentity reports whether applying f is a no-op.
func (f Filters) IsIdentity() bool { return f == DefaultFilters() }

// Clamp limits every field to its range.
func (f Filters) Clamp() Filters {
	f.Brightness = clampNaN(f.Brightness, 0, 200, 100)
	f.Contrast = clampNaN(f.Contrast, 0, 200, 100)
	f.Saturate = clampNaN(f.Saturate, 0, 200, 100)
	f.Grayscale = clampNaN(f.Grayscale, 0, 100, 0)
	f.Sepia = clampNaN(f.Sepia, 0, 100, 0)
	f.Invert = clampNaN(f.Invert, 0, 100, 0)
	f.HueRotate = clampNaN(f.HueRotate, 0, 360, 0)
	return f
}

func clampNaN(v, lo, hi, def float64) float64 {
	if math.IsNaN(v) {
		return def
	}
	return math.Max(lo, math.Min(hi, v))
}

// Apply runs the filter chain over img and returns a new raster. The chain
// works on straight (unpremultiplied) color so translucent pixels keep their
// alpha and hue.
func (f Filters) Apply(img image.Image) *image.RGBA {
	f = f.Clamp()
	if f.IsIdentity() {
		return Clone(img)
	}
	straight := unpremultiply(Clone(img))
	var cur image.Image = straight
	if f.Brightness != 100 {
		cur = adjust.Brightness(cur, f.Brightness/100-1)
	}
	if f.Contrast != 100 {
		cur = adjust.Contrast(cur, f.Contrast/100-1)
	}
	if f.Saturate != 100 {
		cur = adjust.Saturation(cur, f.Saturate/100-1)
	}
	if f.Grayscale > 0 {
		cur = partial(cur, effect.Grayscale(cur), f.Grayscale)
	}
	if f.Sepia > 0 {
		cur = partial(cur, effect.Sepia(cur), f.Sepia)
	}
	if f.Invert > 0 {
		cur = partial(cur, effect.Invert(cur), f.Invert)
	}
	if deg := int(math.Round(f.HueRotate)) % 360; deg != 0 {
		cur = adjust.Hue(cur, deg)
	}
	return premultiply(withAlpha(Clone(cur), straight))
}

// withAlpha copies the alpha channel of src into dst. Some bild effects
// return opaque gray images; filters never change coverage.
func withAlpha(dst, src *image.RGBA) *image.RGBA {
	for i := 3; i < len(dst.Pix) && i < len(src.Pix); i += 4 {
		dst.Pix[i] = src.Pix[i]
	}
	return dst
}

// partial mixes the effected image over the original by pct percent.
func partial(orig, effected image.Image, pct float64) image.Image {
	if pct >= 100 {
		return effected
	}
	return blend.Opacity(orig, effected, pct/100)
}

// unpremultiply rewrites p in place so its bytes hold straight color.
// The result is only meaningful to bild's channel math and must be
// premultiplied again before it is drawn.
func unpremultiply(p *image.RGBA) *image.RGBA {
	for i := 0; i+3 < len(p.Pix); i += 4 {
		a := uint32(p.Pix[i+3])
		if a == 0 || a == 255 {
			continue
		}
		p.Pix[i] = uint8(min(255, (uint32(p.Pix[i])*255+a/2)/a))
		p.Pix[i+1] = uint8(min(255, (uint32(p.Pix[i+1])*255+a/2)/a))
		p.Pix[i+2] = uint8(min(255, (uint32(p.Pix[i+2])*255+a/2)/a))
	}
	return p
}

// premultiply is the inverse of unpremultiply, in place.
func premultiply(p *image.RGBA) *image.RGBA {
	for i := 0; i+3 < len(p.Pix); i += 4 {
		a := uint32(p.Pix[i+3])
		switch a {
		case 255:
			continue
		case 0:
			p.Pix[i], p.Pix[i+1], p.Pix[i+2] = 0, 0, 0
			continue
		}
		p.Pix[i] = uint8((uint32(p.Pix[i])*a + 127) / 255)
		p.Pix[i+1] = uint8((uint32(p.Pix[i+1])*a + 127) / 255)
		p.Pix[i+2] = uint8((uint32(p.Pix[i+2])*a + 127) / 255)
	}
	return p
}
