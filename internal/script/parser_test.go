/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package script

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseKeepsDefaultSettings(t *testing.T) {
	doc, err := Parse([]byte(`
load: {path: in.png}
settings:
  pen: {size: 8, color: "#ff0000"}
steps:
  - {op: tool, tool: pen}
  - {op: gesture, points: [[1, 2], [3, 4]]}
  - op: filters
    filters: {sepia: 50}
export:
  - {path: out.png}
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Version != CurrentVersion {
		t.Fatalf("version = %d", doc.Version)
	}
	if doc.Settings.Pen.Size != 8 || doc.Settings.Pen.Color.R != 255 {
		t.Fatalf("pen settings = %+v", doc.Settings.Pen)
	}
	if doc.Settings.Eraser.Size != 20 {
		t.Fatalf("eraser default lost: %+v", doc.Settings.Eraser)
	}
	if len(doc.Steps) != 3 || doc.Steps[1].Points[1][0] != 3 {
		t.Fatalf("steps = %+v", doc.Steps)
	}
	f := doc.Steps[2].Filters
	if f == nil || f.Sepia != 50 || f.Brightness != 100 || f.Contrast != 100 {
		t.Fatalf("filters = %+v", f)
	}
}

func TestParseAcceptsJSON(t *testing.T) {
	doc, err := Parse([]byte(`{"load": {"path": "a.jpg"}, "steps": [{"op": "rotate"}]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Load.Path != "a.jpg" || doc.Steps[0].Op != OpRotate {
		t.Fatalf("doc = %+v", doc)
	}
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	cases := []struct {
		name, src, want string
	}{
		{"empty", ``, "empty"},
		{"no load", `steps: []`, "load"},
		{"unknown op", "load: {path: a.png}\nsteps: [{op: explode}]", "steps.0.op"},
		{"gesture without points", "load: {path: a.png}\nsteps: [{op: gesture}]", "points"},
		{"short point", "load: {path: a.png}\nsteps: [{op: gesture, points: [[1]]}]", "steps.0.points.0"},
		{"resize without height", "load: {path: a.png}\nsteps: [{op: resize, width: 10}]", "height"},
		{"bad format", "load: {path: a.png}\nexport: [{path: a.gif, format: gif}]", "export.0.format"},
		{"unknown field", "load: {path: a.png}\nextra: 1", "extra"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.src))
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("load: [unclosed")); err == nil {
		t.Fatalf("expected syntax error")
	}
}

func TestParseFileResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edit.yaml")
	if err := os.WriteFile(path, []byte("load: {path: photo.png}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if got := doc.resolve(doc.Load.Path); got != filepath.Join(dir, "photo.png") {
		t.Fatalf("resolve = %q", got)
	}
	abs := filepath.Join(dir, "x.png")
	if got := doc.resolve(abs); got != abs {
		t.Fatalf("absolute path changed: %q", got)
	}
}

func TestSchemaIsJSON(t *testing.T) {
	if s := Schema(); len(s) == 0 || s[0] != '{' {
		t.Fatalf("schema not embedded")
	}
}
