/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package brush

import (
	"image"
	"testing"

	"gocanvaseditor/internal/raster"
	"gocanvaseditor/internal/vector"
)

func TestSelfOverlapNeverExceedsSinglePass(t *testing.T) {
	s := DefaultSettings()
	s.Size = 8
	s.Opacity = 50
	e := New(s)
	overlay := image.NewRGBA(image.Rect(0, 0, 40, 40))
	a, b := vector.P(5.5, 20.5), vector.P(35.5, 20.5)
	e.Segment(overlay, a, b)
	e.Segment(overlay, b, a)
	e.Segment(overlay, a, b)
	if got := overlay.RGBAAt(20, 20).A; got != 255 {
		t.Fatalf("overlay alpha at stroke center = %d, want 255", got)
	}

	layer := image.NewRGBA(overlay.Bounds())
	raster.MergeOver(layer, overlay, e.Settings().Opacity/100)
	for i := 3; i < len(layer.Pix); i += 4 {
		if layer.Pix[i] > 128 {
			t.Fatalf("pixel alpha %d exceeds 50%% opacity", layer.Pix[i])
		}
	}
}

func TestSoftDabFadesOut(t *testing.T) {
	s := DefaultSettings()
	s.Size = 20
	s.Hardness = 0
	e := New(s)
	dst := image.NewRGBA(image.Rect(0, 0, 30, 30))
	e.Dab(dst, vector.P(15.5, 15.5))
	center, off := dst.RGBAAt(15, 15).A, dst.RGBAAt(22, 15).A
	if center <= off {
		t.Fatalf("soft dab should fade: center=%d off=%d", center, off)
	}
	if dst.RGBAAt(0, 0).A != 0 {
		t.Fatalf("dab leaked outside its radius")
	}
}

func TestZeroLengthSegmentStampsOnce(t *testing.T) {
	e := New(DefaultSettings())
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	e.Segment(dst, vector.P(10, 10), vector.P(10, 10))
	if dst.RGBAAt(10, 10).A == 0 {
		t.Fatalf("expected a dab at the segment start")
	}
}

func TestDabClipsAtEdges(t *testing.T) {
	e := New(DefaultSettings())
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	e.Dab(dst, vector.P(0, 0))
	if dst.RGBAAt(0, 0).A == 0 {
		t.Fatalf("corner dab not drawn")
	}
}

func TestNormalize(t *testing.T) {
	s := Settings{Size: 0, Opacity: 150, Hardness: -3}.Normalize()
	if s.Size != MinSize || s.Opacity != 100 || s.Hardness != 0 {
		t.Fatalf("unexpected normalize: %+v", s)
	}
}
