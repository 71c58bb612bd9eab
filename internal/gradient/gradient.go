/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package gradient fills surfaces with two-stop linear and radial gradients.
package gradient

import (
	"fmt"
	"image"
	"strings"

	"github.com/fogleman/gg"

	"gocanvaseditor/internal/vector"
)

type Kind string

const (
	Linear Kind = "linear"
	Radial Kind = "radial"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Linear, "":
		return Linear, nil
	case Radial:
		return Radial, nil
	}
	return "", fmt.Errorf("unknown gradient %q", s)
}

// Settings for the gradient tool.
type Settings struct {
	Kind    Kind         `json:"kind" yaml:"kind"`
	From    vector.Color `json:"from" yaml:"from"`
	To      vector.Color `json:"to" yaml:"to"`
	Opacity float64      `json:"opacity" yaml:"opacity"` // percent, applied on commit
}

// DefaultSettings runs black to white.
func DefaultSettings() Settings {
	return Settings{
		Kind:    Linear,
		From:    vector.Color{A: 255},
		To:      vector.Color{R: 255, G: 255, B: 255, A: 255},
		Opacity: 100,
	}
}

// Fill paints the gradient over the whole of dst. Linear runs start to end;
// radial is centred on start with a radius of |end - start|.
func Fill(dst *image.RGBA, s Settings, start, end vector.Pt) {
	var g gg.Gradient
	if s.Kind == Radial {
		g = gg.NewRadialGradient(start.X, start.Y, 0, start.X, start.Y, start.Dist(end))
	} else {
		g = gg.NewLinearGradient(start.X, start.Y, end.X, end.Y)
	}
	g.AddColorStop(0, s.From.NRGBA())
	g.AddColorStop(1, s.To.NRGBA())

	dc := gg.NewContextForRGBA(dst)
	b := dst.Bounds()
	dc.DrawRectangle(float64(b.Min.X), float64(b.Min.Y), float64(b.Dx()), float64(b.Dy()))
	dc.SetFillStyle(g)
	dc.Fill()
}
