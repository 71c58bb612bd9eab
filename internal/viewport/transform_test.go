/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package viewport

import (
	"math"
	"testing"

	"gocanvaseditor/internal/vector"
)

const eps = 1e-9

func TestScreenCanvasRoundTrip(t *testing.T) {
	views := []Transform{
		Default(),
		{Zoom: 250, BaseScale: 0.37, Pan: vector.Pt{X: -120.5, Y: 33}},
		{Zoom: 10, BaseScale: 2, Pan: vector.Pt{X: 400, Y: 300}},
		{Zoom: 10000, BaseScale: 0.01, Pan: vector.Pt{X: 1, Y: -1}},
	}
	pts := []vector.Pt{{X: 0, Y: 0}, {X: 17.25, Y: 3}, {X: 4096, Y: 4096}, {X: -50, Y: 12}}
	for _, v := range views {
		for _, p := range pts {
			back := v.ScreenToCanvas(v.CanvasToScreen(p))
			if !back.Near(p, 1e-6) {
				t.Fatalf("round trip with %+v: %+v -> %+v", v, p, back)
			}
			m := v.Matrix().Apply(p)
			if !m.Near(v.CanvasToScreen(p), eps) {
				t.Fatalf("Matrix disagrees with CanvasToScreen: %+v vs %+v", m, v.CanvasToScreen(p))
			}
		}
	}
}

func TestFitKeepsCanvasInsideContainer(t *testing.T) {
	cases := []struct{ canvas, container vector.Size }{
		{vector.Size{W: 200, H: 100}, vector.Size{W: 800, H: 600}},
		{vector.Size{W: 4000, H: 300}, vector.Size{W: 1024, H: 768}},
		{vector.Size{W: 300, H: 4000}, vector.Size{W: 1024, H: 768}},
		{vector.Size{W: 640, H: 480}, vector.Size{W: 640, H: 480}},
	}
	for _, c := range cases {
		v := Fit(c.canvas, c.container)
		if v.Zoom != 100 {
			t.Fatalf("zoom not reset: %v", v.Zoom)
		}
		s := v.ScaledSize(c.canvas)
		if s.W > c.container.W+eps || s.H > c.container.H+eps {
			t.Fatalf("scaled %+v exceeds container %+v", s, c.container)
		}
		if math.Abs(s.W-c.container.W) > 1e-6 && math.Abs(s.H-c.container.H) > 1e-6 {
			t.Fatalf("neither side touches the container: %+v in %+v", s, c.container)
		}
		// centered
		if math.Abs(v.Pan.X*2+s.W-c.container.W) > 1e-6 || math.Abs(v.Pan.Y*2+s.H-c.container.H) > 1e-6 {
			t.Fatalf("canvas not centered: pan=%+v scaled=%+v", v.Pan, s)
		}
	}
}

func TestFitEmptyFallsBack(t *testing.T) {
	v := Fit(vector.Size{}, vector.Size{W: 100, H: 100})
	if v.BaseScale != 1 || v.Pan != (vector.Pt{}) || v.Zoom != 100 {
		t.Fatalf("unexpected fallback view: %+v", v)
	}
}

func TestZoomAtClamps(t *testing.T) {
	v := Default()
	if got := v.ZoomAt(vector.Pt{}, 999999).Zoom; got != MaxZoom {
		t.Fatalf("zoom = %v, want %v", got, MaxZoom)
	}
	if got := v.ZoomAt(vector.Pt{}, 0).Zoom; got != MinZoom {
		t.Fatalf("zoom = %v, want %v", got, MinZoom)
	}
}

func TestZoomAtKeepsPivotFixed(t *testing.T) {
	v := Transform{Zoom: 100, BaseScale: 0.5, Pan: vector.Pt{X: 40, Y: 20}}
	pivot := vector.Pt{X: 300, Y: 180}
	before := v.ScreenToCanvas(pivot)
	for _, z := range []float64{150, 33, 800, 10000} {
		after := v.ZoomAt(pivot, z).ScreenToCanvas(pivot)
		if !after.Near(before, 1e-6) {
			t.Fatalf("pivot drifted at zoom %v: %+v -> %+v", z, before, after)
		}
	}
}

func TestWheelZoom(t *testing.T) {
	v := Default()
	in := v.WheelZoom(vector.Pt{X: 10, Y: 10}, -120)
	if math.Abs(in.Zoom-110) > eps {
		t.Fatalf("wheel up zoom = %v, want 110", in.Zoom)
	}
	out := v.WheelZoom(vector.Pt{X: 10, Y: 10}, 120)
	if math.Abs(out.Zoom-100/1.1) > eps {
		t.Fatalf("wheel down zoom = %v", out.Zoom)
	}
	if v.WheelZoom(vector.Pt{}, 0) != v {
		t.Fatalf("zero delta should not change the view")
	}
}

func TestSetZoomRecentersOnContainer(t *testing.T) {
	container := vector.Size{W: 800, H: 600}
	v := Fit(vector.Size{W: 400, H: 300}, container)
	center := vector.Pt{X: 400, Y: 300}
	before := v.ScreenToCanvas(center)
	z := v.SetZoom(300, container)
	if !z.ScreenToCanvas(center).Near(before, 1e-6) {
		t.Fatalf("container centre moved in canvas space")
	}
}

func TestPinchUsesInitialSnapshot(t *testing.T) {
	v := Transform{Zoom: 100, BaseScale: 1, Pan: vector.Pt{X: 0, Y: 0}}
	p := StartPinch(v, vector.Pt{X: 100, Y: 100}, vector.Pt{X: 200, Y: 100})
	// Many intermediate updates must not accumulate drift.
	for i := 0; i < 50; i++ {
		p.Update(vector.Pt{X: 100 - float64(i), Y: 100}, vector.Pt{X: 200 + float64(i), Y: 100})
	}
	got := p.Update(vector.Pt{X: 50, Y: 100}, vector.Pt{X: 250, Y: 100})
	if math.Abs(got.Zoom-200) > eps {
		t.Fatalf("pinch zoom = %v, want 200", got.Zoom)
	}
	want := v.ZoomAt(vector.Pt{X: 150, Y: 100}, 200)
	if !got.Pan.Near(want.Pan, eps) {
		t.Fatalf("pinch pan = %+v, want %+v", got.Pan, want.Pan)
	}
}

func TestPinchPivotsOnStartMidpoint(t *testing.T) {
	v := Default()
	p := StartPinch(v, vector.Pt{X: 0, Y: 0}, vector.Pt{X: 100, Y: 0})
	if p.Pivot() != (vector.Pt{X: 50, Y: 0}) {
		t.Fatalf("pivot = %+v", p.Pivot())
	}
	// Both fingers drift right while spreading; the pivot stays put.
	p.Update(vector.Pt{X: 40, Y: 0}, vector.Pt{X: 190, Y: 0})
	got := p.Update(vector.Pt{X: 100, Y: 0}, vector.Pt{X: 300, Y: 0})
	if math.Abs(got.Zoom-200) > eps {
		t.Fatalf("zoom = %v, want 200", got.Zoom)
	}
	if !got.Pan.Near(vector.Pt{X: -50, Y: 0}, eps) {
		t.Fatalf("pan = %+v, want {-50 0}", got.Pan)
	}
	if p.Start() != v {
		t.Fatalf("snapshot changed: %+v", p.Start())
	}
}

func TestScrollbarDragSingleAxis(t *testing.T) {
	canvas := vector.Size{W: 1000, H: 1000}
	container := vector.Size{W: 500, H: 400}
	v := Transform{Zoom: 100, BaseScale: 1, Pan: vector.Pt{X: -250, Y: -300}}
	got := v.ScrollbarDrag(Horizontal, v.Pan, 50, canvas, container)
	if math.Abs(got.Pan.X-(-350)) > 1e-9 || got.Pan.Y != v.Pan.Y {
		t.Fatalf("unexpected pan after horizontal drag: %+v", got.Pan)
	}
	fits := vector.Size{W: 100, H: 100}
	if v.ScrollbarDrag(Vertical, v.Pan, 50, fits, container) != v {
		t.Fatalf("drag should be a no-op when the canvas fits")
	}
}

func TestScrollbarsVisibility(t *testing.T) {
	container := vector.Size{W: 500, H: 400}
	v := Transform{Zoom: 100, BaseScale: 1, Pan: vector.Pt{X: -250, Y: 0}}
	h, vs := v.Scrollbars(vector.Size{W: 1000, H: 300}, container)
	if !h.Visible || vs.Visible {
		t.Fatalf("expected only the horizontal scrollbar: h=%+v v=%+v", h, vs)
	}
	if math.Abs(h.Len-250) > eps {
		t.Fatalf("thumb length = %v, want 250", h.Len)
	}
	// the visible window starts 250 scaled units in, a quarter of the way
	if math.Abs(h.Pos-125) > eps {
		t.Fatalf("thumb pos = %v, want 125", h.Pos)
	}
}
