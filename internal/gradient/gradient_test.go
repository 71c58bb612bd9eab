/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package gradient

import (
	"image"
	"testing"

	"gocanvaseditor/internal/vector"
)

func TestLinearFillsWholeSurface(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 100, 20))
	s := DefaultSettings()
	Fill(dst, s, vector.P(20, 10), vector.P(80, 10))
	left, mid, right := dst.RGBAAt(0, 10), dst.RGBAAt(50, 10), dst.RGBAAt(99, 10)
	if left.A != 255 || right.A != 255 {
		t.Fatalf("gradient must cover the full surface: left=%v right=%v", left, right)
	}
	if left.R > 10 || right.R < 245 {
		t.Fatalf("stops not clamped beyond the ends: left=%v right=%v", left, right)
	}
	if mid.R < 100 || mid.R > 155 {
		t.Fatalf("midpoint = %v, want mid gray", mid)
	}
}

func TestRadialCentredOnStart(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 60, 60))
	s := DefaultSettings()
	s.Kind = Radial
	Fill(dst, s, vector.P(30, 30), vector.P(50, 30))
	center, outside := dst.RGBAAt(30, 30), dst.RGBAAt(0, 0)
	if center.R > 20 {
		t.Fatalf("center should be near the start color: %v", center)
	}
	if outside.R < 245 || outside.A != 255 {
		t.Fatalf("outside the radius should hold the end color: %v", outside)
	}
}

func TestParseKind(t *testing.T) {
	if k, _ := ParseKind(""); k != Linear {
		t.Fatalf("empty kind = %q", k)
	}
	if _, err := ParseKind("conic"); err == nil {
		t.Fatalf("expected error for unknown gradient kind")
	}
}
