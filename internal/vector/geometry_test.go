/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"image"
	"math"
	"testing"
)

func TestRectContainsAndInset(t *testing.T) {
	r := R(10, 20, 100, 50)
	if !r.Contains(Pt{10, 20}) || !r.Contains(Pt{110, 70}) {
		t.Fatalf("expected edge points to be contained")
	}
	in := r.Inset(5, 5)
	if in.X != 15 || in.Y != 25 || in.W != 90 || in.H != 40 {
		t.Fatalf("unexpected inset: %+v", in)
	}
}

func TestRectNormalizeAndRound(t *testing.T) {
	r := R(50, 40, -30, -20).Normalize()
	if r != R(20, 20, 30, 20) {
		t.Fatalf("unexpected normalized rect: %+v", r)
	}
	got := R(9.6, 10.4, 99.5, 49.6).Round()
	if want := image.Rect(10, 10, 110, 60); got != want {
		t.Fatalf("Round() = %v, want %v", got, want)
	}
	if RectFromPoints(Pt{5, 5}, Pt{1, 2}) != R(1, 2, 4, 3) {
		t.Fatalf("RectFromPoints did not normalize")
	}
}

func TestAffineBasic(t *testing.T) {
	m := Translate(10, 5).Mul(Scale(2, 3))
	p := m.Apply(Pt{1, 1})
	if p.X != 12 || p.Y != 8 { // (1*2+10, 1*3+5)
		t.Fatalf("unexpected transform result: %+v", p)
	}
}

func TestAffineInvertRoundTrip(t *testing.T) {
	m := Translate(-40, 12.5).Mul(Rotate(0.3)).Mul(Scale(1.5, 0.75))
	inv, ok := m.Invert()
	if !ok {
		t.Fatalf("expected invertible matrix")
	}
	for _, p := range []Pt{{0, 0}, {10, -3}, {1234.5, 87.25}} {
		back := inv.Apply(m.Apply(p))
		if !back.Near(p, 1e-9) {
			t.Fatalf("round trip of %+v gave %+v", p, back)
		}
	}
	if _, ok := Scale(0, 1).Invert(); ok {
		t.Fatalf("singular matrix reported invertible")
	}
}

func TestPointHelpers(t *testing.T) {
	a, b := Pt{0, 0}, Pt{3, 4}
	if d := a.Dist(b); d != 5 {
		t.Fatalf("Dist = %v, want 5", d)
	}
	if m := a.Mid(b); m != (Pt{1.5, 2}) {
		t.Fatalf("Mid = %+v", m)
	}
	if ang := a.Angle(Pt{0, 1}); math.Abs(ang-math.Pi/2) > 1e-12 {
		t.Fatalf("Angle = %v, want pi/2", ang)
	}
	if Clamp(15, 0, 10) != 10 || Clamp(-1, 0, 10) != 0 || Clamp(5, 0, 10) != 5 {
		t.Fatalf("Clamp misbehaves")
	}
}
