/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package log configures the process-wide slog logger: a console handler,
// an optional rotating JSON file, and enrichment with the image and layer
// ids carried on a context.
package log

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	lj "gopkg.in/natefinch/lumberjack.v2"

	"gocanvaseditor/internal/version"
)

// Options controls logger initialization.
//
// Environment (see FromEnv):
//   - GCE_LOG_LEVEL=debug|info|warn|error
//   - GCE_LOG_FORMAT=console|json|none
//   - GCE_LOG_SOURCE=true|false
//   - GCE_LOG_FILE=<path> enables the rotating JSON file
//   - GCE_LOG_MAX_SIZE_MB, GCE_LOG_MAX_BACKUPS, GCE_LOG_MAX_AGE_DAYS tune rotation
type Options struct {
	Level     string
	Format    string // console, json or none
	AddSource bool
	// Console receives console output; nil means stderr.
	Console io.Writer

	File       string
	MaxSizeMB  int // default 10
	MaxBackups int // default 3
	MaxAgeDays int // default 28
}

var (
	mu      sync.RWMutex
	current *slog.Logger
	file    *lj.Logger
)

// L returns the application logger, initializing it from the environment on first use.
func L() *slog.Logger {
	mu.RLock()
	l := current
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Init replaces the application logger and slog.Default. A previously opened
// log file is closed.
func Init(opts Options) {
	lvl := parseLevel(opts.Level)
	var hs []slog.Handler

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "none", "off":
	case "json":
		hs = append(hs, slog.NewJSONHandler(console, &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource}))
	default:
		hs = append(hs, newConsoleHandler(console, lvl, opts.AddSource))
	}

	var fw *lj.Logger
	if path := strings.TrimSpace(opts.File); path != "" {
		fw = &lj.Logger{
			Filename:   path,
			MaxSize:    orDefault(opts.MaxSizeMB, 10),
			MaxBackups: orDefault(opts.MaxBackups, 3),
			MaxAge:     orDefault(opts.MaxAgeDays, 28),
			Compress:   true,
		}
		hs = append(hs, slog.NewJSONHandler(fw, &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource}))
	}

	var h slog.Handler
	switch len(hs) {
	case 0:
		h = discard{}
	case 1:
		h = hs[0]
	default:
		h = fanout(hs)
	}
	logger := slog.New(withContextIDs(h)).With(
		slog.String("app", "gocanvaseditor"),
		slog.String("ver", version.Version),
		slog.Time("ts_init", time.Now()),
	)

	mu.Lock()
	old := file
	current, file = logger, fw
	mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	slog.SetDefault(logger)
}

// Close flushes and closes the log file, if any. Logging keeps working on
// the console; the file is reopened by lumberjack on the next write.
func Close() error {
	mu.Lock()
	f := file
	file = nil
	mu.Unlock()
	if f == nil {
		return nil
	}
	return f.Close()
}

// FromEnv builds Options from GCE_LOG_* variables.
func FromEnv() Options {
	return Options{
		Level:      getenv("GCE_LOG_LEVEL", "info"),
		Format:     getenv("GCE_LOG_FORMAT", "console"),
		AddSource:  strings.EqualFold(getenv("GCE_LOG_SOURCE", "false"), "true"),
		File:       os.Getenv("GCE_LOG_FILE"),
		MaxSizeMB:  envInt("GCE_LOG_MAX_SIZE_MB"),
		MaxBackups: envInt("GCE_LOG_MAX_BACKUPS"),
		MaxAgeDays: envInt("GCE_LOG_MAX_AGE_DAYS"),
	}
}

// WithComponent returns a logger with the component attribute pre-set.
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// WithOperation annotates the logger with an operation name.
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
