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

// Blend modes follow W3C Compositing and Blending Level 1. Separable modes
// mix each channel independently; hue, saturation, color and luminosity work
// on the whole RGB triplet through SetLum/SetSat/ClipColor.

import (
	"fmt"
	"math"
	"strings"
)

// BlendMode is the pixel-combination function used when painting a layer.
// Values are the CSS names so they round-trip through scripts and configs.
type BlendMode string

const (
	BlendNormal     BlendMode = "normal"
	BlendMultiply   BlendMode = "multiply"
	BlendScreen     BlendMode = "screen"
	BlendOverlay    BlendMode = "overlay"
	BlendDarken     BlendMode = "darken"
	BlendLighten    BlendMode = "lighten"
	BlendColorDodge BlendMode = "color-dodge"
	BlendColorBurn  BlendMode = "color-burn"
	BlendHardLight  BlendMode = "hard-light"
	BlendSoftLight  BlendMode = "soft-light"
	BlendDifference BlendMode = "difference"
	BlendExclusion  BlendMode = "exclusion"
	BlendHue        BlendMode = "hue"
	BlendSaturation BlendMode = "saturation"
	BlendColor      BlendMode = "color"
	BlendLuminosity BlendMode = "luminosity"
)

// AllBlendModes lists every supported mode in menu order.
var AllBlendModes = []BlendMode{
	BlendNormal, BlendMultiply, BlendScreen, BlendOverlay, BlendDarken, BlendLighten,
	BlendColorDodge, BlendColorBurn, BlendHardLight, BlendSoftLight, BlendDifference,
	BlendExclusion, BlendHue, BlendSaturation, BlendColor, BlendLuminosity,
}

// ParseBlendMode accepts the CSS name in any case; empty means normal.
func ParseBlendMode(s string) (BlendMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return BlendNormal, nil
	}
	for _, m := range AllBlendModes {
		if string(m) == s {
			return m, nil
		}
	}
	return BlendNormal, fmt.Errorf("unknown blend mode %q", s)
}

// Valid reports whether m is one of AllBlendModes.
func (m BlendMode) Valid() bool {
	_, err := ParseBlendMode(string(m))
	return err == nil
}

// separable returns the per-channel blend function B(cb, cs) for m, or nil for
// non-separable modes and normal.
func (m BlendMode) separable() func(cb, cs float64) float64 {
	switch m {
	case BlendMultiply:
		return func(cb, cs float64) float64 { return cb * cs }
	case BlendScreen:
		return screen
	case BlendOverlay:
		return func(cb, cs float64) float64 { return hardLight(cs, cb) }
	case BlendDarken:
		return math.Min
	case BlendLighten:
		return math.Max
	case BlendColorDodge:
		return colorDodge
	case BlendColorBurn:
		return colorBurn
	case BlendHardLight:
		return func(cb, cs float64) float64 { return hardLight(cb, cs) }
	case BlendSoftLight:
		return softLight
	case BlendDifference:
		return func(cb, cs float64) float64 { return math.Abs(cb - cs) }
	case BlendExclusion:
		return func(cb, cs float64) float64 { return cb + cs - 2*cb*cs }
	}
	return nil
}

func screen(cb, cs float64) float64 { return cb + cs - cb*cs }

// hardLight is also overlay with the arguments swapped.
func hardLight(cb, cs float64) float64 {
	if cs <= 0.5 {
		return cb * 2 * cs
	}
	return screen(cb, 2*cs-1)
}

func colorDodge(cb, cs float64) float64 {
	switch {
	case cb == 0:
		return 0
	case cs >= 1:
		return 1
	default:
		return math.Min(1, cb/(1-cs))
	}
}

func colorBurn(cb, cs float64) float64 {
	switch {
	case cb >= 1:
		return 1
	case cs <= 0:
		return 0
	default:
		return 1 - math.Min(1, (1-cb)/cs)
	}
}

func softLight(cb, cs float64) float64 {
	if cs <= 0.5 {
		return cb - (1-2*cs)*cb*(1-cb)
	}
	var d float64
	if cb <= 0.25 {
		d = ((16*cb-12)*cb + 4) * cb
	} else {
		d = math.Sqrt(cb)
	}
	return cb + (2*cs-1)*(d-cb)
}

// mix returns B(Cb, Cs) for the full triplet.
func (m BlendMode) mix(br, bg, bb, sr, sg, sb float64) (float64, float64, float64) {
	if f := m.separable(); f != nil {
		return f(br, sr), f(bg, sg), f(bb, sb)
	}
	switch m {
	case BlendHue:
		r, g, b := setSat(sr, sg, sb, sat(br, bg, bb))
		return setLum(r, g, b, lum(br, bg, bb))
	case BlendSaturation:
		r, g, b := setSat(br, bg, bb, sat(sr, sg, sb))
		return setLum(r, g, b, lum(br, bg, bb))
	case BlendColor:
		return setLum(sr, sg, sb, lum(br, bg, bb))
	case BlendLuminosity:
		return setLum(br, bg, bb, lum(sr, sg, sb))
	}
	return sr, sg, sb
}

func lum(r, g, b float64) float64 { return 0.3*r + 0.59*g + 0.11*b }
func sat(r, g, b float64) float64 { return math.Max(r, math.Max(g, b)) - math.Min(r, math.Min(g, b)) }

func clipColor(r, g, b float64) (float64, float64, float64) {
	l := lum(r, g, b)
	n := math.Min(r, math.Min(g, b))
	x := math.Max(r, math.Max(g, b))
	if n < 0 {
		r = l + (r-l)*l/(l-n)
		g = l + (g-l)*l/(l-n)
		b = l + (b-l)*l/(l-n)
	}
	if x > 1 {
		r = l + (r-l)*(1-l)/(x-l)
		g = l + (g-l)*(1-l)/(x-l)
		b = l + (b-l)*(1-l)/(x-l)
	}
	return r, g, b
}

func setLum(r, g, b, l float64) (float64, float64, float64) {
	d := l - lum(r, g, b)
	return clipColor(r+d, g+d, b+d)
}

func setSat(r, g, b, s float64) (float64, float64, float64) {
	c := [3]float64{r, g, b}
	// order indices by value: lo, mid, hi
	lo, mid, hi := 0, 1, 2
	if c[lo] > c[mid] {
		lo, mid = mid, lo
	}
	if c[mid] > c[hi] {
		mid, hi = hi, mid
	}
	if c[lo] > c[mid] {
		lo, mid = mid, lo
	}
	var out [3]float64
	if c[hi] > c[lo] {
		out[mid] = (c[mid] - c[lo]) * s / (c[hi] - c[lo])
		out[hi] = s
	}
	return out[0], out[1], out[2]
}
