/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"image"
	"strings"

	"github.com/fogleman/gg"

	"gocanvaseditor/internal/vector"
)

// Align is the horizontal alignment of each line around the anchor x.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

func ParseAlign(s string) (Align, error) {
	switch a := Align(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return AlignLeft, nil
	case AlignLeft, AlignCenter, AlignRight:
		return a, nil
	}
	return "", fmt.Errorf("unknown text align %q", s)
}

func (a Align) factor() float64 {
	switch a {
	case AlignCenter:
		return 0.5
	case AlignRight:
		return 1
	}
	return 0
}

// Settings for the text tool.
type Settings struct {
	Content string       `json:"content" yaml:"content"`
	Family  string       `json:"family" yaml:"family"`
	Size    float64      `json:"size" yaml:"size"`
	Color   vector.Color `json:"color" yaml:"color"`
	Bold    bool         `json:"bold" yaml:"bold"`
	Italic  bool         `json:"italic" yaml:"italic"`
	Align   Align        `json:"align" yaml:"align"`
}

// DefaultSettings is 32px black Go Regular.
func DefaultSettings() Settings {
	return Settings{Content: "Text", Family: FamilyGo, Size: 32, Color: vector.Color{A: 255}, Align: AlignLeft}
}

func (s Settings) Font() FontSpec {
	return FontSpec{Family: s.Family, SizePx: s.Size, Bold: s.Bold, Italic: s.Italic}
}

// Draw renders s.Content into dst with its top edge at at.Y. Each line is
// placed one font height below the previous one.
func Draw(dst *image.RGBA, p Provider, s Settings, at vector.Pt) TextBox {
	box := Layout(p, s.Font(), s.Content)
	if s.Content == "" {
		return box
	}
	if p == nil {
		p = BasicProvider{}
	}
	face, _ := p.Resolve(s.Font())
	dc := gg.NewContextForRGBA(dst)
	dc.SetFontFace(face)
	dc.SetColor(s.Color.NRGBA())
	f := s.Align.factor()
	for i, ln := range box.Lines {
		baseline := at.Y + float64(i)*box.Metrics.Height + box.Metrics.Ascent
		dc.DrawString(ln.Text, at.X-f*ln.Width, baseline)
	}
	return box
}
