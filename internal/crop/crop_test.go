/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package crop

import (
	"testing"

	"gocanvaseditor/internal/vector"
)

func TestStartsAtFullCanvas(t *testing.T) {
	c := New(vector.Size{W: 200, H: 100})
	if got := c.Rect(); got != vector.R(0, 0, 200, 100) {
		t.Fatalf("initial rect = %+v", got)
	}
}

func TestHitTestPriority(t *testing.T) {
	c := New(vector.Size{W: 200, H: 200})
	c.SetRect(vector.R(50, 50, 10, 10))
	// tl and t overlap at this size; tl wins
	if h := c.HitTest(vector.P(52, 50), 20); h != TopLeft {
		t.Fatalf("hit = %v, want tl", h)
	}
	c.SetRect(vector.R(0, 0, 200, 200))
	tests := []struct {
		p    vector.Pt
		want Handle
	}{
		{vector.P(100, 2), Top},
		{vector.P(198, 100), Right},
		{vector.P(195, 195), BottomRight},
		{vector.P(3, 100), Left},
		{vector.P(100, 100), Body},
		{vector.P(300, 300), None},
	}
	for _, tc := range tests {
		if h := c.HitTest(tc.p, 20); h != tc.want {
			t.Fatalf("HitTest(%v) = %v, want %v", tc.p, h, tc.want)
		}
	}
}

func TestHandleBoxScalesWithZoom(t *testing.T) {
	c := New(vector.Size{W: 200, H: 200})
	// a 20px screen box at 4x zoom is 5 canvas units wide, 2.5 each way
	if h := c.Begin(vector.P(100, 4), 4); h != Body {
		t.Fatalf("handle at 4 units should miss at 4x zoom, got %v", h)
	}
	c.End()
	if h := c.Begin(vector.P(100, 2), 4); h != Top {
		t.Fatalf("handle at 2 units should hit at 4x zoom, got %v", h)
	}
}

func TestHandleGrabIsSquare(t *testing.T) {
	c := New(vector.Size{W: 200, H: 200})
	tests := []struct {
		p    vector.Pt
		want Handle
	}{
		{vector.P(9, 9), TopLeft},   // box corner, outside a 10 unit circle
		{vector.P(10, 10), TopLeft}, // edge inclusive
		{vector.P(12, 3), Body},     // inside a 20 unit circle, outside the box
		{vector.P(3, 12), Body},
	}
	for _, tc := range tests {
		if h := c.Begin(tc.p, 1); h != tc.want {
			t.Fatalf("Begin(%v) = %v, want %v", tc.p, h, tc.want)
		}
		c.End()
	}
}

func TestDragLeftKeepsRightEdge(t *testing.T) {
	c := New(vector.Size{W: 200, H: 200})
	c.Begin(vector.P(0, 100), 1)
	c.Move(vector.P(250, 100))
	r := c.Rect()
	if r.X != 195 || r.W != 5 {
		t.Fatalf("left drag past right edge = %+v, want x=195 w=5", r)
	}
	c.Move(vector.P(40, 100))
	r = c.Rect()
	if r.X != 40 || r.X+r.W != 200 {
		t.Fatalf("left drag = %+v", r)
	}
}

func TestDragBottomRightMinimum(t *testing.T) {
	c := New(vector.Size{W: 200, H: 200})
	c.Begin(vector.P(200, 200), 1)
	c.Move(vector.P(-100, -100))
	if r := c.Rect(); r.W != MinSide || r.H != MinSide {
		t.Fatalf("rect = %+v, want minimum size", r)
	}
}

func TestDragOutsideClamps(t *testing.T) {
	c := New(vector.Size{W: 200, H: 200})
	c.SetRect(vector.R(50, 50, 100, 100))
	c.Begin(vector.P(150, 100), 1)
	c.Move(vector.P(400, 100))
	if r := c.Rect(); r.X+r.W != 200 {
		t.Fatalf("right drag overflow not clamped: %+v", r)
	}
	c.End()
	c.Begin(vector.P(50, 50), 1)
	c.Move(vector.P(-30, -20))
	if r := c.Rect(); r.X != 0 || r.Y != 0 || r.X+r.W != 200 || r.Y+r.H != 150 {
		t.Fatalf("top-left overflow = %+v", r)
	}
}

func TestBodyDragStaysInside(t *testing.T) {
	c := New(vector.Size{W: 200, H: 200})
	c.SetRect(vector.R(10, 10, 100, 50))
	c.Begin(vector.P(60, 35), 1)
	c.Move(vector.P(500, -500))
	if r := c.Rect(); r != vector.R(100, 0, 100, 50) {
		t.Fatalf("body drag = %+v", r)
	}
	c.End()
	if c.Active() != None {
		t.Fatalf("End should clear the active handle")
	}
}
