/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package shapes

import (
	"image"
	"math"
	"testing"

	"gocanvaseditor/internal/vector"
)

func TestOutlineBounds(t *testing.T) {
	tests := []struct {
		kind       Kind
		start, end vector.Pt
		want       vector.Rect
	}{
		{Line, vector.P(10, 20), vector.P(5, 2), vector.R(5, 2, 5, 18)},
		{Rectangle, vector.P(30, 30), vector.P(10, 20), vector.R(10, 20, 20, 10)},
		{Circle, vector.P(50, 50), vector.P(53, 54), vector.R(45, 45, 10, 10)},
		{Ellipse, vector.P(0, 0), vector.P(40, 20), vector.R(0, 0, 40, 20)},
		{Triangle, vector.P(0, 0), vector.P(40, 20), vector.R(0, 0, 40, 20)},
		{RoundedRectangle, vector.P(40, 20), vector.P(0, 0), vector.R(0, 0, 40, 20)},
	}
	for _, tc := range tests {
		p := Outline(tc.kind, tc.start, tc.end)
		got := p.Bounds()
		if math.Abs(got.X-tc.want.X) > 1e-9 || math.Abs(got.Y-tc.want.Y) > 1e-9 ||
			math.Abs(got.W-tc.want.W) > 1e-9 || math.Abs(got.H-tc.want.H) > 1e-9 {
			t.Fatalf("%s bounds = %+v, want %+v", tc.kind, got, tc.want)
		}
	}
}

func TestTriangleApexAtTopMiddle(t *testing.T) {
	p := Outline(Triangle, vector.P(0, 0), vector.P(40, 20))
	if d := p.Cmds[0].Data; d[0] != 20 || d[1] != 0 {
		t.Fatalf("apex = (%v,%v), want (20,0)", d[0], d[1])
	}
}

func TestDrawFilledRectangle(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 50, 50))
	s := DefaultSettings()
	s.Fill.Enabled = true
	s.Fill.Color = vector.Color{R: 255, A: 255}
	s.Stroke.Width = 0
	Draw(dst, s, vector.P(10, 10), vector.P(40, 40))
	if c := dst.RGBAAt(25, 25); c.R != 255 || c.A != 255 {
		t.Fatalf("interior = %v, want opaque red", c)
	}
	if dst.RGBAAt(5, 5).A != 0 {
		t.Fatalf("fill leaked outside the box")
	}
}

func TestStrokeOnlyLeavesInteriorEmpty(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 50, 50))
	Draw(dst, DefaultSettings(), vector.P(10, 10), vector.P(40, 40))
	if dst.RGBAAt(25, 25).A != 0 {
		t.Fatalf("unfilled rectangle painted its interior")
	}
	if dst.RGBAAt(10, 25).A == 0 {
		t.Fatalf("stroke missing on left edge")
	}
}

func TestRoundedCornerIsCut(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 110, 110))
	s := DefaultSettings()
	s.Kind = RoundedRectangle
	s.Fill.Enabled = true
	s.Stroke.Width = 0
	Draw(dst, s, vector.P(10, 10), vector.P(110, 110))
	if dst.RGBAAt(11, 11).A != 0 {
		t.Fatalf("corner should be rounded off")
	}
	if dst.RGBAAt(60, 11).A == 0 {
		t.Fatalf("top edge should be filled")
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind("Rounded-Rectangle"); err != nil || k != RoundedRectangle {
		t.Fatalf("ParseKind = %q, %v", k, err)
	}
	if _, err := ParseKind("star"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
