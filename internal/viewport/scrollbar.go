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

import "gocanvaseditor/internal/vector"

// Axis selects a scrollbar.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// Scrollbar describes one scrollbar thumb in screen units along its axis.
type Scrollbar struct {
	Visible bool
	Pos     float64 // thumb offset from the track start
	Len     float64 // thumb length
}

// Scrollbars returns the thumbs for both axes. A thumb is visible only when
// the scaled canvas overflows the container along that axis.
func (t Transform) Scrollbars(canvas, container vector.Size) (h, v Scrollbar) {
	scaled := t.ScaledSize(canvas)
	h = thumb(scaled.W, container.W, t.Pan.X)
	v = thumb(scaled.H, container.H, t.Pan.Y)
	return h, v
}

func thumb(scaled, container, pan float64) Scrollbar {
	if scaled <= container || container <= 0 {
		return Scrollbar{}
	}
	l := container / scaled * container
	pos := vector.Clamp(-pan/scaled*container, 0, container-l)
	return Scrollbar{Visible: true, Pos: pos, Len: l}
}

// ScrollbarDrag maps a thumb drag of delta screen units, measured from the
// drag start, to a pan change on that axis only. startPan is the pan at drag
// start. Dragging is a no-op when the canvas fits the container on that axis.
func (t Transform) ScrollbarDrag(axis Axis, startPan vector.Pt, delta float64, canvas, container vector.Size) Transform {
	scaled := t.ScaledSize(canvas)
	switch axis {
	case Horizontal:
		if scaled.W <= container.W || container.W <= 0 {
			return t
		}
		t.Pan.X = startPan.X - delta/container.W*scaled.W
	case Vertical:
		if scaled.H <= container.H || container.H <= 0 {
			return t
		}
		t.Pan.Y = startPan.Y - delta/container.H*scaled.H
	}
	return t
}
