/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"encoding/json"
	"image"
	"strings"
	"testing"
)

func layerNames(im Image) string {
	var parts []string
	for _, l := range im.Layers {
		parts = append(parts, l.Name)
	}
	return strings.Join(parts, ",")
}

func TestNewImageHasBackground(t *testing.T) {
	im := NewImage("photo.png", "image/png", image.NewRGBA(image.Rect(0, 0, 8, 6)), 0)
	if len(im.Layers) != 1 || im.Layers[0].Name != BackgroundLayerName {
		t.Fatalf("unexpected layers: %s", layerNames(im))
	}
	if im.Width != 8 || im.Height != 6 || im.ActiveLayerID != im.Layers[0].ID {
		t.Fatalf("unexpected image: %+v", im)
	}
	cur, ok := im.Layers[0].History.Current()
	if !ok || cur.Name != SeedOriginal {
		t.Fatalf("seed entry = %+v", cur)
	}
	if im.View.Zoom != 100 {
		t.Fatalf("zoom = %v", im.View.Zoom)
	}
}

func TestAddRemoveKeepsReceiver(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	im := NewImage("a", "image/png", src, 0)
	top := NewLayer(NewLayerName, image.NewRGBA(image.Rect(0, 0, 2, 2)), SeedCreated, 0)
	im2 := im.AddLayer(top)
	if len(im.Layers) != 1 || len(im2.Layers) != 2 {
		t.Fatalf("AddLayer mutated receiver")
	}
	if im2.ActiveLayerID != top.ID {
		t.Fatalf("new layer should be active")
	}
	im3 := im2.RemoveLayer(top.ID)
	if im3.ActiveLayerID != im.Layers[0].ID {
		t.Fatalf("active should fall back to topmost remaining layer")
	}
	im4 := im3.RemoveLayer(im.Layers[0].ID)
	if len(im4.Layers) != 0 || im4.ActiveLayerID != "" {
		t.Fatalf("empty stack should have no active layer")
	}
}

func TestMoveLayer(t *testing.T) {
	im := NewImage("a", "image/png", image.NewRGBA(image.Rect(0, 0, 1, 1)), 0)
	for _, n := range []string{"b", "c"} {
		im = im.AddLayer(NewLayer(n, nil, SeedCreated, 0))
	}
	bottom := im.Layers[0].ID
	moved := im.MoveLayer(bottom, 1)
	if got := layerNames(moved); got != "b,Background,c" {
		t.Fatalf("move up = %s", got)
	}
	if got := layerNames(moved.MoveLayer(bottom, 5)); got != "b,c,Background" {
		t.Fatalf("clamped move = %s", got)
	}
	if got := layerNames(im.MoveLayer(im.Layers[2].ID, -2)); got != "c,Background,b" {
		t.Fatalf("move down = %s", got)
	}
	if got := layerNames(im); got != "Background,b,c" {
		t.Fatalf("receiver changed: %s", got)
	}
}

func TestCommitAppendsHistory(t *testing.T) {
	l := NewLayer("x", image.NewRGBA(image.Rect(0, 0, 1, 1)), SeedOriginal, 0)
	next := image.NewRGBA(image.Rect(0, 0, 1, 1))
	l2 := l.Commit(next, "Draw 1")
	if l2.Src != next || l2.History.Len() != 2 || l.History.Len() != 1 {
		t.Fatalf("unexpected commit result")
	}
}

func TestTruncateName(t *testing.T) {
	long := strings.Repeat("ä", 60)
	if got := TruncateName(long); len([]rune(got)) != MaxNameLen {
		t.Fatalf("truncated to %d runes", len([]rune(got)))
	}
	if got := TruncateName("  bg  "); got != "bg" {
		t.Fatalf("TruncateName = %q", got)
	}
}

func TestImageJSONOmitsRasters(t *testing.T) {
	im := NewImage("a", "image/png", image.NewRGBA(image.Rect(0, 0, 1, 1)), 0)
	b, err := json.Marshal(im)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"blendMode":"normal"`) || strings.Contains(string(b), "Pix") {
		t.Fatalf("unexpected json: %s", b)
	}
}
