/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package history implements the per-layer undo/redo store.
//
// A Store is an immutable value: Commit and Select return a new Store and never
// touch the receiver, so snapshots held elsewhere stay valid after later
// edits. Entries reference rasters that are never mutated after creation.
package history

import (
	"fmt"
	"image"
	"strings"
)

// DefaultLimit is the maximum number of entries a layer keeps.
const DefaultLimit = 20

// Entry is a frozen snapshot of a layer raster at one edit step.
type Entry struct {
	Raster *image.RGBA
	Name   string
	Width  int
	Height int
}

// NewEntry builds an entry whose dimensions are taken from the raster.
func NewEntry(raster *image.RGBA, name string) Entry {
	e := Entry{Raster: raster, Name: name}
	if raster != nil {
		e.Width = raster.Bounds().Dx()
		e.Height = raster.Bounds().Dy()
	}
	return e
}

// Store is an append-only sequence of entries with a cursor.
// The zero value is an empty store; use Seed to create a usable one.
type Store struct {
	entries []Entry
	index   int
	limit   int
}

// Seed returns a store holding a single entry with the cursor on it.
func Seed(e Entry) Store { return SeedWithLimit(e, DefaultLimit) }

// SeedWithLimit is Seed with a custom cap; limit <= 0 uses DefaultLimit.
func SeedWithLimit(e Entry, limit int) Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return Store{entries: []Entry{e}, index: 0, limit: limit}
}

func (s Store) Len() int   { return len(s.entries) }
func (s Store) Index() int { return s.index }
func (s Store) Limit() int { return s.limit }

// At returns the entry at i. It panics when i is out of range, like a slice.
func (s Store) At(i int) Entry { return s.entries[i] }

// Current returns the entry under the cursor. ok is false for an empty store.
func (s Store) Current() (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[s.index], true
}

// Entries returns a copy of all entries, oldest first.
func (s Store) Entries() []Entry { return append([]Entry(nil), s.entries...) }

// Names lists entry labels, oldest first.
func (s Store) Names() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Name
	}
	return out
}

// Commit appends e after the cursor. Entries after the cursor are discarded
// first; afterwards the oldest entries are evicted until the cap holds and the
// cursor sits on the new tip.
func (s Store) Commit(e Entry) Store {
	limit := s.limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	keep := 0
	if len(s.entries) > 0 {
		keep = s.index + 1
	}
	next := make([]Entry, 0, keep+1)
	next = append(next, s.entries[:keep]...)
	next = append(next, e)
	if drop := len(next) - limit; drop > 0 {
		next = next[drop:]
	}
	return Store{entries: next, index: len(next) - 1, limit: limit}
}

// Select moves the cursor to i without discarding any entry.
func (s Store) Select(i int) (Store, error) {
	if i < 0 || i >= len(s.entries) {
		return s, fmt.Errorf("history index %d out of range [0,%d)", i, len(s.entries))
	}
	s.index = i
	return s, nil
}

// CanUndo and CanRedo report whether the cursor can move.
func (s Store) CanUndo() bool { return s.index > 0 }
func (s Store) CanRedo() bool { return s.index < len(s.entries)-1 }

// Undo moves the cursor one step back; a no-op at the oldest entry.
func (s Store) Undo() Store {
	if s.CanUndo() {
		s.index--
	}
	return s
}

// Redo moves the cursor one step forward; a no-op at the tip.
func (s Store) Redo() Store {
	if s.CanRedo() {
		s.index++
	}
	return s
}

// CountPrefix counts entries whose name starts with prefix.
func (s Store) CountPrefix(prefix string) int {
	return countPrefix(s.entries, prefix)
}

// NextName numbers a tool commit: prefix plus one more than the matching
// entries anywhere in the store.
func (s Store) NextName(prefix string) string {
	return fmt.Sprintf("%s %d", prefix, countPrefix(s.entries, prefix)+1)
}

// NextNameAtCursor numbers a batch operation, counting only the entries that
// survive truncation (up to and including the cursor).
func (s Store) NextNameAtCursor(prefix string) string {
	n := 0
	if len(s.entries) > 0 {
		n = countPrefix(s.entries[:s.index+1], prefix)
	}
	return fmt.Sprintf("%s %d", prefix, n+1)
}

func countPrefix(entries []Entry, prefix string) int {
	n := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name, prefix) {
			n++
		}
	}
	return n
}
