/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"fmt"
	"strings"
	"testing"
)

type recorder struct{ b strings.Builder }

func (r *recorder) MoveTo(x, y float64) { fmt.Fprintf(&r.b, "M%g,%g ", x, y) }
func (r *recorder) LineTo(x, y float64) { fmt.Fprintf(&r.b, "L%g,%g ", x, y) }
func (r *recorder) ClosePath()          { r.b.WriteString("Z") }
func (r *recorder) QuadraticTo(x1, y1, x2, y2 float64) {
	fmt.Fprintf(&r.b, "Q%g,%g,%g,%g ", x1, y1, x2, y2)
}
func (r *recorder) CubicTo(x1, y1, x2, y2, x3, y3 float64) {
	fmt.Fprintf(&r.b, "C%g,%g,%g,%g,%g,%g ", x1, y1, x2, y2, x3, y3)
}

func TestPathBoundsAndTrace(t *testing.T) {
	var p Path
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	p.QuadTo(12, 5, 10, 10)
	p.LineTo(0, 10)
	p.Close()

	b := p.Bounds()
	if b.X != 0 || b.Y != 0 || b.W != 12 || b.H != 10 {
		t.Fatalf("unexpected bounds: %+v", b)
	}

	var rec recorder
	p.Trace(&rec)
	if got, want := rec.b.String(), "M0,0 L10,0 Q12,5,10,10 L0,10 Z"; got != want {
		t.Fatalf("trace = %q, want %q", got, want)
	}
}

func TestEmptyPathBounds(t *testing.T) {
	var p Path
	if !p.Empty() {
		t.Fatalf("new path should be empty")
	}
	if b := p.Bounds(); b != (Rect{}) {
		t.Fatalf("expected zero bounds, got %+v", b)
	}
}

func TestCurveBoundsIncludeControlPoints(t *testing.T) {
	cases := []struct {
		name  string
		build func(p *Path)
		want  Rect
	}{
		{"quad above", func(p *Path) { p.MoveTo(0, 0); p.QuadTo(5, -8, 10, 0) }, Rect{X: 0, Y: -8, W: 10, H: 8}},
		{"cubic s-curve", func(p *Path) {
			p.MoveTo(0, 0)
			p.CubicTo(30, -10, 40, 10, 50, 0)
		}, Rect{X: 0, Y: -10, W: 50, H: 20}},
		{"lone point", func(p *Path) { p.MoveTo(3, 4); p.Close() }, Rect{X: 3, Y: 4}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var p Path
			c.build(&p)
			if got := p.Bounds(); got != c.want {
				t.Fatalf("bounds = %+v, want %+v", got, c.want)
			}
		})
	}
}
