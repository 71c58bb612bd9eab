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
	"image/draw"
	"sync"
)

// Layer is the compositor's view of one editor layer.
type Layer struct {
	ID      string
	Src     *image.RGBA
	Visible bool
	Opacity float64 // percent, 0..100
	Blend   BlendMode
	Filters Filters
}

type cacheEntry struct {
	src     *image.RGBA
	w, h    int
	filters Filters
	out     *image.RGBA
}

// Stats reports cache activity since the compositor was created.
type Stats struct {
	Entries int
	Hits    int
	Misses  int
}

// Compositor flattens layer stacks. It memoizes filtered layer rasters by
// layer id; an entry is reused while the raster pointer, its size and the
// filter values are unchanged. Safe for concurrent use.
type Compositor struct {
	mu     sync.Mutex
	cache  map[string]cacheEntry
	hits   int
	misses int
}

// NewCompositor returns an empty compositor.
func NewCompositor() *Compositor {
	return &Compositor{cache: map[string]cacheEntry{}}
}

// Stats returns a snapshot of cache counters.
func (c *Compositor) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Entries: len(c.cache), Hits: c.hits, Misses: c.misses}
}

// Invalidate drops the cached result for one layer.
func (c *Compositor) Invalidate(layerID string) {
	c.mu.Lock()
	delete(c.cache, layerID)
	c.mu.Unlock()
}

// Composite paints the visible layers bottom to top onto a new w×h surface.
// Cache entries for ids not present in layers are pruned.
func (c *Compositor) Composite(w, h int, layers []Layer) (*image.RGBA, error) {
	out, err := NewSurface(w, h)
	if err != nil {
		return nil, fmt.Errorf("composite: %w", err)
	}
	live := make(map[string]struct{}, len(layers))
	for _, l := range layers {
		live[l.ID] = struct{}{}
		if !l.Visible || l.Src == nil || l.Opacity <= 0 {
			continue
		}
		src := c.filtered(l)
		Blend(out, src, l.Blend, l.Opacity/100)
	}
	c.prune(live)
	return out, nil
}

func (c *Compositor) filtered(l Layer) *image.RGBA {
	if l.Filters.Clamp().IsIdentity() {
		return l.Src
	}
	w, h := Size(l.Src)
	c.mu.Lock()
	e, ok := c.cache[l.ID]
	if ok && e.src == l.Src && e.w == w && e.h == h && e.filters == l.Filters {
		c.hits++
		c.mu.Unlock()
		return e.out
	}
	c.misses++
	c.mu.Unlock()

	out := l.Filters.Apply(l.Src)
	c.mu.Lock()
	c.cache[l.ID] = cacheEntry{src: l.Src, w: w, h: h, filters: l.Filters, out: out}
	c.mu.Unlock()
	return out
}

func (c *Compositor) prune(live map[string]struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id := range c.cache {
		if _, ok := live[id]; !ok {
			delete(c.cache, id)
		}
	}
}

// Blend composites src onto dst in place with the given mode and opacity
// (0..1). Both images are premultiplied; src is aligned at dst's origin.
func Blend(dst, src *image.RGBA, mode BlendMode, opacity float64) {
	if opacity <= 0 || src == nil {
		return
	}
	if opacity > 1 {
		opacity = 1
	}
	if mode == "" || mode == BlendNormal {
		MergeOver(dst, src, opacity)
		return
	}
	sep := mode.separable()
	r := dst.Bounds().Intersect(src.Bounds().Sub(src.Bounds().Min).Add(dst.Bounds().Min))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		di := dst.PixOffset(r.Min.X, y)
		si := src.PixOffset(src.Bounds().Min.X+r.Min.X-dst.Bounds().Min.X, src.Bounds().Min.Y+y-dst.Bounds().Min.Y)
		for x := r.Min.X; x < r.Max.X; x, di, si = x+1, di+4, si+4 {
			as := float64(src.Pix[si+3]) / 255 * opacity
			if as == 0 {
				continue
			}
			ab := float64(dst.Pix[di+3]) / 255
			// premultiplied channels, source scaled by opacity
			sp := [3]float64{
				float64(src.Pix[si]) / 255 * opacity,
				float64(src.Pix[si+1]) / 255 * opacity,
				float64(src.Pix[si+2]) / 255 * opacity,
			}
			bp := [3]float64{
				float64(dst.Pix[di]) / 255,
				float64(dst.Pix[di+1]) / 255,
				float64(dst.Pix[di+2]) / 255,
			}
			var cs, cb [3]float64
			for k := 0; k < 3; k++ {
				cs[k] = sp[k] / as
				if ab > 0 {
					cb[k] = bp[k] / ab
				}
			}
			var mixed [3]float64
			if sep != nil {
				for k := 0; k < 3; k++ {
					mixed[k] = sep(cb[k], cs[k])
				}
			} else {
				mixed[0], mixed[1], mixed[2] = mode.mix(cb[0], cb[1], cb[2], cs[0], cs[1], cs[2])
			}
			ao := as + ab - as*ab
			for k := 0; k < 3; k++ {
				co := (1-as)*bp[k] + (1-ab)*sp[k] + as*ab*clamp01(mixed[k])
				dst.Pix[di+k] = to8(min(co, ao))
			}
			dst.Pix[di+3] = to8(ao)
		}
	}
}

// MergeOver draws src over dst with source-over at the given opacity.
func MergeOver(dst *image.RGBA, src image.Image, opacity float64) {
	if opacity <= 0 || src == nil {
		return
	}
	if opacity >= 1 {
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Over)
		return
	}
	mask := image.NewUniform(alphaColor(opacity))
	draw.DrawMask(dst, dst.Bounds(), src, src.Bounds().Min, mask, image.Point{}, draw.Over)
}

// EraseOut applies destination-out: every dst pixel keeps (1 - a·opacity)
// of itself, where a is the mask alpha at that pixel. Color ratios are kept.
func EraseOut(dst *image.RGBA, mask *image.RGBA, opacity float64) {
	if opacity <= 0 || mask == nil {
		return
	}
	opacity = min(opacity, 1)
	r := dst.Bounds().Intersect(mask.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		di := dst.PixOffset(r.Min.X, y)
		mi := mask.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x, di, mi = x+1, di+4, mi+4 {
			a := float64(mask.Pix[mi+3]) / 255 * opacity
			if a == 0 {
				continue
			}
			keep := 1 - a
			for k := 0; k < 4; k++ {
				dst.Pix[di+k] = to8(float64(dst.Pix[di+k]) / 255 * keep)
			}
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func to8(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}
