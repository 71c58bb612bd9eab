/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package editor

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// debouncer runs at most one pending callback per key, delay after the last
// Schedule for that key. Callbacks run on timer goroutines, or on the caller's
// goroutine for Flush, never while the debouncer lock is held.
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	pending map[string]*pendingCall
}

type pendingCall struct {
	timer *time.Timer
	fn    func()
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, pending: map[string]*pendingCall{}}
}

// Schedule replaces any pending callback for key and restarts its timer.
func (d *debouncer) Schedule(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
	}
	p := &pendingCall{fn: fn}
	p.timer = time.AfterFunc(d.delay, func() { d.fire(key, p) })
	d.pending[key] = p
}

func (d *debouncer) fire(key string, p *pendingCall) {
	d.mu.Lock()
	if d.pending[key] != p {
		// replaced, cancelled or flushed meanwhile
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.mu.Unlock()
	p.fn()
}

// Cancel drops the pending callback for key.
func (d *debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
		delete(d.pending, key)
	}
}

// CancelPrefix drops every pending callback whose key starts with prefix.
func (d *debouncer) CancelPrefix(prefix string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for k, p := range d.pending {
		if strings.HasPrefix(k, prefix) {
			p.timer.Stop()
			delete(d.pending, k)
		}
	}
}

// Pending lists the keys waiting to fire, sorted.
func (d *debouncer) Pending() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	keys := make([]string, 0, len(d.pending))
	for k := range d.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Flush runs every pending callback now, in key order, on the calling
// goroutine.
func (d *debouncer) Flush() {
	d.mu.Lock()
	keys := make([]string, 0, len(d.pending))
	for k := range d.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fns := make([]func(), 0, len(keys))
	for _, k := range keys {
		p := d.pending[k]
		p.timer.Stop()
		fns = append(fns, p.fn)
		delete(d.pending, k)
	}
	d.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Stop cancels everything.
func (d *debouncer) Stop() { d.CancelPrefix("") }
