/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"image"
	"testing"

	"gocanvaseditor/internal/vector"
)

func TestLayoutSplitsLines(t *testing.T) {
	box := Layout(BasicProvider{}, FontSpec{}, "ab\ncdef")
	if len(box.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(box.Lines))
	}
	if box.Lines[0].Width != 14 || box.Width != 28 {
		t.Fatalf("unexpected widths: line0=%v box=%v", box.Lines[0].Width, box.Width)
	}
	if box.Height != 2*box.Metrics.Height {
		t.Fatalf("height = %v, want two font heights", box.Height)
	}
}

func TestMeasure_Deterministic(t *testing.T) {
	w1, h1 := Measure(BasicProvider{}, FontSpec{}, "ABC")
	w2, _ := Measure(BasicProvider{}, FontSpec{}, "A")
	if w1 != 3*w2 || h1 <= 0 {
		t.Fatalf("unexpected measure: w1=%v w2=%v h=%v", w1, w2, h1)
	}
}

func TestGoFontLibrary(t *testing.T) {
	lib, err := NewGoFontLibrary()
	if err != nil {
		t.Fatalf("NewGoFontLibrary: %v", err)
	}
	for _, spec := range []FontSpec{
		{Family: FamilyGo, Bold: true, Italic: true},
		{Family: FamilyGoMono, Italic: true},
	} {
		if lib.find(spec) == nil {
			t.Fatalf("no font for %+v", spec)
		}
	}
	p := NewOTProvider(lib)
	_, m := p.Resolve(FontSpec{Family: FamilyGo, SizePx: 40})
	if m.Height < 40 {
		t.Fatalf("40px Go font height = %v", m.Height)
	}
	f1, _ := p.Resolve(FontSpec{Family: FamilyGo, SizePx: 40})
	f2, _ := p.Resolve(FontSpec{Family: FamilyGo, SizePx: 40})
	if f1 != f2 {
		t.Fatalf("faces not cached")
	}
	_, fb := p.Resolve(FontSpec{Family: "Nope"})
	if fb.Height != 13 {
		t.Fatalf("unknown family should fall back to basicfont, got %+v", fb)
	}
}

func TestLoadTTFMissingFile(t *testing.T) {
	if err := NewFontLibrary().LoadTTF("X", false, false, "/does/not/exist.ttf"); err == nil {
		t.Fatalf("expected error for missing font file")
	}
}

func TestDrawTopBaselineAndAlign(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 200, 80))
	s := DefaultSettings()
	s.Content = "HH"
	s.Align = AlignRight
	Draw(dst, BasicProvider{}, s, vector.P(100, 20))
	var painted bool
	for y := 0; y < 80; y++ {
		for x := 0; x < 200; x++ {
			if dst.RGBAAt(x, y).A == 0 {
				continue
			}
			painted = true
			if y < 18 {
				t.Fatalf("pixel above the text top at (%d,%d)", x, y)
			}
			if x > 101 {
				t.Fatalf("right aligned text extends past anchor at x=%d", x)
			}
		}
	}
	if !painted {
		t.Fatalf("nothing drawn")
	}
}

func TestParseAlign(t *testing.T) {
	if a, err := ParseAlign("Center"); err != nil || a != AlignCenter {
		t.Fatalf("ParseAlign = %q, %v", a, err)
	}
	if _, err := ParseAlign("justify"); err == nil {
		t.Fatalf("expected error")
	}
}
