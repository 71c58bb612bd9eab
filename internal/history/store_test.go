/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package history

import (
	"fmt"
	"image"
	"testing"
)

func entry(name string) Entry {
	return NewEntry(image.NewRGBA(image.Rect(0, 0, 4, 3)), name)
}

func TestSeedAndCommit(t *testing.T) {
	s := Seed(entry("Original"))
	if s.Len() != 1 || s.Index() != 0 {
		t.Fatalf("unexpected seed state: len=%d idx=%d", s.Len(), s.Index())
	}
	s2 := s.Commit(entry("Draw 1"))
	if s2.Len() != 2 || s2.Index() != 1 {
		t.Fatalf("after commit: len=%d idx=%d", s2.Len(), s2.Index())
	}
	if s.Len() != 1 {
		t.Fatalf("commit mutated the receiver")
	}
	cur, ok := s2.Current()
	if !ok || cur.Name != "Draw 1" || cur.Width != 4 || cur.Height != 3 {
		t.Fatalf("unexpected current entry: %+v ok=%v", cur, ok)
	}
}

func TestCapEvictsOldest(t *testing.T) {
	s := Seed(entry("Original"))
	for i := 1; i <= 30; i++ {
		s = s.Commit(entry(fmt.Sprintf("Draw %d", i)))
		if s.Len() > DefaultLimit {
			t.Fatalf("len %d exceeds cap", s.Len())
		}
		if s.Index() != s.Len()-1 {
			t.Fatalf("cursor %d not at tip %d", s.Index(), s.Len()-1)
		}
	}
	if got := s.At(0).Name; got != "Draw 11" {
		t.Fatalf("oldest entry = %q, want %q", got, "Draw 11")
	}
}

func TestUndoThenCommitTruncates(t *testing.T) {
	s := Seed(entry("Original"))
	for i := 1; i <= 6; i++ {
		s = s.Commit(entry(fmt.Sprintf("Draw %d", i)))
	}
	const k = 2
	sel, err := s.Select(k)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sel.Len() != 7 {
		t.Fatalf("select discarded entries: len=%d", sel.Len())
	}
	next := sel.Commit(entry("Shape 1"))
	if next.Len() != k+2 {
		t.Fatalf("len = %d, want %d", next.Len(), k+2)
	}
	if cur, _ := next.Current(); cur.Name != "Shape 1" {
		t.Fatalf("tip = %q", cur.Name)
	}
}

func TestSelectOutOfRange(t *testing.T) {
	s := Seed(entry("Original"))
	if _, err := s.Select(3); err == nil {
		t.Fatalf("expected error for out of range index")
	}
	if _, err := s.Select(-1); err == nil {
		t.Fatalf("expected error for negative index")
	}
}

func TestUndoRedoCursor(t *testing.T) {
	s := Seed(entry("Original")).Commit(entry("Draw 1"))
	u := s.Undo()
	if u.Index() != 0 || !u.CanRedo() || u.CanUndo() {
		t.Fatalf("unexpected undo state idx=%d", u.Index())
	}
	if u.Undo().Index() != 0 {
		t.Fatalf("undo past the oldest entry moved the cursor")
	}
	if r := u.Redo(); r.Index() != 1 || r.CanRedo() {
		t.Fatalf("unexpected redo state idx=%d", r.Index())
	}
}

func TestNaming(t *testing.T) {
	s := Seed(entry("Original")).
		Commit(entry("Draw 1")).
		Commit(entry("Crop 1")).
		Commit(entry("Draw 2"))
	if got := s.NextName("Draw"); got != "Draw 3" {
		t.Fatalf("NextName = %q", got)
	}
	back, _ := s.Select(1)
	if got := back.NextName("Draw"); got != "Draw 3" {
		t.Fatalf("NextName counts every entry, got %q", got)
	}
	if got := back.NextNameAtCursor("Crop"); got != "Crop 1" {
		t.Fatalf("NextNameAtCursor = %q, want Crop 1", got)
	}
	if got := s.CountPrefix("Crop"); got != 1 {
		t.Fatalf("CountPrefix = %d", got)
	}
}

func TestCustomLimit(t *testing.T) {
	s := SeedWithLimit(entry("Original"), 3)
	for i := 0; i < 5; i++ {
		s = s.Commit(entry("x"))
	}
	if s.Len() != 3 || s.Limit() != 3 {
		t.Fatalf("len=%d limit=%d", s.Len(), s.Limit())
	}
	if names := s.Names(); len(names) != 3 || names[0] != "x" {
		t.Fatalf("unexpected names %v", names)
	}
}
