/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"testing"

	"fyne.io/fyne/v2"

	"gocanvaseditor/internal/tools"
	"gocanvaseditor/internal/vector"
	"gocanvaseditor/internal/viewport"
)

func TestWheelDeltaZoomsInOnScrollUp(t *testing.T) {
	up := &fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, 10)}
	v := viewport.Default().WheelZoom(vector.Pt{}, wheelDelta(up))
	if v.Zoom <= 100 {
		t.Fatalf("scroll up should zoom in, got %v", v.Zoom)
	}
	if wheelDelta(nil) != 0 {
		t.Fatalf("nil event should be a no-op")
	}
}

func TestPlacementFollowsTransform(t *testing.T) {
	v := viewport.Fit(vector.Size{W: 200, H: 100}, vector.Size{W: 400, H: 400})
	pos, size := placement(v, vector.Size{W: 200, H: 100})
	if size.Width != 400 || size.Height != 200 {
		t.Fatalf("size = %v", size)
	}
	if pos.X != 0 || pos.Y != 100 {
		t.Fatalf("pos = %v", pos)
	}
	if got := toPt(fyne.NewPos(3, 4)); got != (vector.Pt{X: 3, Y: 4}) {
		t.Fatalf("toPt = %v", got)
	}
}

func TestToolTitlesRoundTrip(t *testing.T) {
	titles := toolTitles()
	if len(titles) != len(tools.AllTools) {
		t.Fatalf("titles = %v", titles)
	}
	for i, title := range titles {
		got, ok := toolForTitle(title)
		if !ok || got != tools.AllTools[i] {
			t.Fatalf("toolForTitle(%q) = %q, %v", title, got, ok)
		}
	}
	if _, ok := toolForTitle("Lasso"); ok {
		t.Fatalf("unknown title accepted")
	}
	if zoomLabel(viewport.Transform{Zoom: 149.6}) != "150%" {
		t.Fatalf("zoom label")
	}
}
