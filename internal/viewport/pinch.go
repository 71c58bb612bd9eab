/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package viewport

import "gocanvaseditor/internal/vector"

// Pinch tracks a two-pointer zoom gesture. All updates are computed from the
// snapshot taken at start, never from incremental deltas.
type Pinch struct {
	start     Transform
	startDist float64
	pivot     vector.Pt
}

// StartPinch snapshots the view, the initial finger distance and the
// midpoint the zoom pivots on for the whole gesture.
func StartPinch(t Transform, a, b vector.Pt) Pinch {
	return Pinch{start: t, startDist: a.Dist(b), pivot: a.Mid(b)}
}

// Update returns the view for the current finger positions.
func (p Pinch) Update(a, b vector.Pt) Transform {
	if p.startDist <= 0 {
		return p.start
	}
	ratio := a.Dist(b) / p.startDist
	return p.start.ZoomAt(p.pivot, p.start.Zoom*ratio)
}

// Pivot is the midpoint of the fingers when the pinch began.
func (p Pinch) Pivot() vector.Pt { return p.pivot }

// Start returns the view snapshot the pinch began with.
func (p Pinch) Start() Transform { return p.start }
