/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"context"
	"errors"
	"log/slog"
)

type ctxKey int

const (
	imageKey ctxKey = iota
	layerKey
)

// ContextWithImage tags ctx so records logged with it carry image_id.
func ContextWithImage(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, imageKey, id)
}

// ContextWithLayer tags ctx so records logged with it carry layer_id.
func ContextWithLayer(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, layerKey, id)
}

// ImageFrom returns the image id stored on ctx.
func ImageFrom(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(imageKey).(string)
	return id, ok && id != ""
}

// LayerFrom returns the layer id stored on ctx.
func LayerFrom(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(layerKey).(string)
	return id, ok && id != ""
}

// contextIDs copies the context's image and layer ids onto each record.
type contextIDs struct{ next slog.Handler }

func withContextIDs(h slog.Handler) slog.Handler { return contextIDs{next: h} }

func (c contextIDs) Enabled(ctx context.Context, l slog.Level) bool { return c.next.Enabled(ctx, l) }

func (c contextIDs) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := ImageFrom(ctx); ok {
		r.AddAttrs(slog.String("image_id", id))
	}
	if id, ok := LayerFrom(ctx); ok {
		r.AddAttrs(slog.String("layer_id", id))
	}
	return c.next.Handle(ctx, r)
}

func (c contextIDs) WithAttrs(as []slog.Attr) slog.Handler {
	return contextIDs{next: c.next.WithAttrs(as)}
}

func (c contextIDs) WithGroup(name string) slog.Handler {
	return contextIDs{next: c.next.WithGroup(name)}
}

// fanout sends every record to all handlers that accept its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(as []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(as)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (d discard) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discard) WithGroup(string) slog.Handler           { return d }
