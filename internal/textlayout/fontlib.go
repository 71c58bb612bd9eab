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
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Families bundled with every library.
const (
	FamilyGo     = "Go"
	FamilyGoMono = "Go Mono"
)

// FontLibrary stores loaded OpenType fonts mapped by family/bold/italic.
type FontLibrary struct {
	mu    sync.RWMutex
	fonts map[fontKey]*opentype.Font
}

type fontKey struct {
	family string
	bold   bool
	italic bool
}

func NewFontLibrary() *FontLibrary { return &FontLibrary{fonts: make(map[fontKey]*opentype.Font)} }

// NewGoFontLibrary returns a library preloaded with the Go font family.
func NewGoFontLibrary() (*FontLibrary, error) {
	fl := NewFontLibrary()
	builtin := []struct {
		key  fontKey
		data []byte
	}{
		{fontKey{FamilyGo, false, false}, goregular.TTF},
		{fontKey{FamilyGo, true, false}, gobold.TTF},
		{fontKey{FamilyGo, false, true}, goitalic.TTF},
		{fontKey{FamilyGo, true, true}, gobolditalic.TTF},
		{fontKey{FamilyGoMono, false, false}, gomono.TTF},
		{fontKey{FamilyGoMono, true, false}, gomonobold.TTF},
	}
	for _, b := range builtin {
		if err := fl.add(b.key, b.data); err != nil {
			return nil, fmt.Errorf("load %s: %w", b.key.family, err)
		}
	}
	return fl, nil
}

// LoadTTF loads a font file into the library under the given family and style.
func (fl *FontLibrary) LoadTTF(family string, bold, italic bool, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	if err := fl.add(fontKey{family: family, bold: bold, italic: italic}, data); err != nil {
		return fmt.Errorf("parse font %s: %w", path, err)
	}
	return nil
}

func (fl *FontLibrary) add(k fontKey, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return err
	}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.fonts == nil {
		fl.fonts = make(map[fontKey]*opentype.Font)
	}
	fl.fonts[k] = f
	return nil
}

// Families lists the loaded family names.
func (fl *FontLibrary) Families() []string {
	fl.mu.RLock()
	defer fl.mu.RUnlock()
	seen := map[string]bool{}
	var out []string
	for k := range fl.fonts {
		if !seen[k.family] {
			seen[k.family] = true
			out = append(out, k.family)
		}
	}
	return out
}

func (fl *FontLibrary) find(spec FontSpec) *opentype.Font {
	if fl == nil {
		return nil
	}
	fl.mu.RLock()
	defer fl.mu.RUnlock()
	if f, ok := fl.fonts[fontKey{family: spec.Family, bold: spec.Bold, italic: spec.Italic}]; ok {
		return f
	}
	// same family, drop italic then bold
	for _, k := range []fontKey{
		{spec.Family, spec.Bold, false},
		{spec.Family, false, spec.Italic},
		{spec.Family, false, false},
	} {
		if f, ok := fl.fonts[k]; ok {
			return f
		}
	}
	return nil
}

// OTProvider resolves FontSpec using a FontLibrary and falls back to another
// Provider. Faces are cached per font and size.
type OTProvider struct {
	Lib      *FontLibrary
	Fallback Provider

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

type faceKey struct {
	f    *opentype.Font
	size float64
}

func NewOTProvider(lib *FontLibrary) *OTProvider { return &OTProvider{Lib: lib} }

func (p *OTProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	if spec.SizePx <= 0 {
		spec.SizePx = 12
	}
	if spec.Family == "" {
		spec.Family = FamilyGo
	}
	if f := p.Lib.find(spec); f != nil {
		if face, err := p.face(f, spec.SizePx); err == nil {
			return face, metricsOf(face)
		}
	}
	fb := p.Fallback
	if fb == nil {
		fb = BasicProvider{}
	}
	return fb.Resolve(spec)
}

func (p *OTProvider) face(f *opentype.Font, size float64) (font.Face, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	k := faceKey{f, size}
	if face, ok := p.faces[k]; ok {
		return face, nil
	}
	// DPI 72 makes points equal to pixels.
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, err
	}
	if p.faces == nil {
		p.faces = make(map[faceKey]font.Face)
	}
	p.faces[k] = face
	return face, nil
}
