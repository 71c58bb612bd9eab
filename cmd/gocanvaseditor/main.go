/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gocanvaseditor/internal/aiedit"
	"gocanvaseditor/internal/codec"
	"gocanvaseditor/internal/config"
	"gocanvaseditor/internal/crash"
	"gocanvaseditor/internal/editor"
	"gocanvaseditor/internal/export"
	applog "gocanvaseditor/internal/log"
	"gocanvaseditor/internal/raster"
	"gocanvaseditor/internal/script"
	"gocanvaseditor/internal/storage"
	"gocanvaseditor/internal/textlayout"
	"gocanvaseditor/internal/ui"
	"gocanvaseditor/internal/version"
)

// current is the editor rescued by the crash handler.
var current *editor.Editor

func rescue() (image.Image, error) {
	if current == nil {
		return nil, nil
	}
	return current.Rescue()
}

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Go Canvas Editor")
	_, _ = fmt.Fprintf(w, "Version: %s\n", version.String())
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  gocanvaseditor version|-v|--version          Show version")
	_, _ = fmt.Fprintln(w, "  gocanvaseditor apply <script.yaml>           Run an edit script")
	_, _ = fmt.Fprintln(w, "  gocanvaseditor info <image>                  Print size and format of an image")
	_, _ = fmt.Fprintln(w, "  gocanvaseditor flatten <out> <images...>     Stack images as layers and export the composite")
	_, _ = fmt.Fprintln(w, "  gocanvaseditor thumb <in> <out.png>          Write the preview thumbnail of an image")
	_, _ = fmt.Fprintln(w, "  gocanvaseditor ui [<image>...]               Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	defer crash.Recover(rescue)

	cfg, apiKey, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Warning: config:", err)
		cfg = config.Defaults()
	}
	applog.Init(cfg.Logging.LogOptions())
	l := applog.WithComponent("cli")
	l.Debug("start", slog.Int("args", len(os.Args)))

	code := run(context.Background(), cfg, apiKey, os.Args[1:], os.Stdout)
	_ = applog.Close()
	if code != 0 {
		os.Exit(code)
	}
}

// run dispatches one command and returns the process exit code.
func run(ctx context.Context, cfg config.AppConfig, apiKey string, args []string, out io.Writer) int {
	l := applog.WithComponent("cli")
	if len(args) == 0 {
		usage(out)
		return 0
	}
	need := func(n int, msg string) bool {
		if len(args) < n {
			_, _ = fmt.Fprintln(out, msg)
			usage(out)
			return false
		}
		return true
	}
	fail := func(op string, err error) int {
		l.Error(op+" failed", slog.Any("err", err))
		_, _ = fmt.Fprintln(out, "Error:", err)
		return 1
	}

	switch args[0] {
	case "version", "--version", "-v":
		_, _ = fmt.Fprintln(out, "Go Canvas Editor")
		_, _ = fmt.Fprintln(out, version.String())
		return 0
	case "info":
		if !need(2, "info requires <image>") {
			return 2
		}
		if err := info(args[1], out); err != nil {
			return fail("info", err)
		}
		return 0
	}

	sess, err := openSession(cfg, apiKey)
	if err != nil {
		return fail("session", err)
	}
	defer sess.Close()
	current = sess.ed

	switch args[0] {
	case "apply":
		if !need(2, "apply requires <script.yaml>") {
			return 2
		}
		doc, err := script.ParseFile(args[1])
		if err != nil {
			return fail("apply", err)
		}
		l.Info("apply script", slog.String("path", args[1]), slog.Int("steps", len(doc.Steps)))
		res, err := script.Run(ctx, sess.ed, doc, sess.fonts)
		if err != nil {
			return fail("apply", err)
		}
		_, _ = fmt.Fprintf(out, "Result: %dx%d\n", res.Width, res.Height)
		for _, p := range res.Exported {
			_, _ = fmt.Fprintln(out, "Wrote", p)
		}
		return 0
	case "flatten":
		if !need(3, "flatten requires <out> and at least one image") {
			return 2
		}
		if err := flatten(sess.ed, args[1], args[2:]); err != nil {
			return fail("flatten", err)
		}
		_, _ = fmt.Fprintln(out, "Wrote", args[1])
		return 0
	case "thumb":
		if !need(3, "thumb requires <in> and <out.png>") {
			return 2
		}
		if err := thumb(ctx, sess, args[1], args[2]); err != nil {
			return fail("thumb", err)
		}
		_, _ = fmt.Fprintln(out, "Wrote", args[2])
		return 0
	case "ui":
		if err := ui.Run(ui.Options{Editor: sess.ed, Fonts: sess.fonts, Open: args[1:]}); err != nil {
			_, _ = fmt.Fprintln(out, "Error:", err)
			if errors.Is(err, ui.ErrUnavailable) {
				return 2
			}
			return 1
		}
		return 0
	}
	usage(out)
	return 2
}

// session bundles the editor with the resources it was built from.
type session struct {
	ed       *editor.Editor
	fonts    textlayout.Provider
	previews *storage.Previews
}

func openSession(cfg config.AppConfig, apiKey string) (*session, error) {
	l := applog.WithComponent("cli")
	lib, err := textlayout.NewGoFontLibrary()
	if err != nil {
		return nil, err
	}
	for _, f := range cfg.Editor.Fonts {
		if err := lib.LoadTTF(f.Family, f.Bold, f.Italic, f.Path); err != nil {
			l.Warn("font not loaded", slog.String("family", f.Family), slog.String("path", f.Path), slog.Any("err", err))
		}
	}
	previews, err := storage.OpenPreviews(cfg.Previews.Path, cfg.Previews.MaxBytes)
	if err != nil {
		return nil, err
	}
	opts := editor.Options{
		HistoryLimit: cfg.Editor.HistoryLimit,
		MaxCanvas:    cfg.Editor.MaxCanvas,
		FilterDelay:  cfg.Editor.FilterDelay(),
		ThumbDelay:   cfg.Editor.ThumbnailDelay(),
		ThumbMax:     cfg.Editor.ThumbnailMax,
		Previews:     previews,
	}
	if apiKey != "" {
		opts.Remote = aiedit.New(cfg.AI.BaseURL, cfg.AI.Model, apiKey, cfg.AI.Timeout())
	}
	return &session{ed: editor.New(opts), fonts: textlayout.NewOTProvider(lib), previews: previews}, nil
}

func (s *session) Close() {
	s.ed.Close()
	if err := s.previews.Close(); err != nil {
		applog.WithComponent("cli").Warn("close previews failed", slog.Any("err", err))
	}
}

func info(path string, out io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	img, mime, err := codec.Decode(data)
	if err != nil {
		return err
	}
	b := img.Bounds()
	_, _ = fmt.Fprintf(out, "%s: %dx%d %s (%d bytes)\n", filepath.Base(path), b.Dx(), b.Dy(), mime, len(data))
	return nil
}

// flatten opens the first image as the background and adds every further
// image as a layer scaled to the canvas.
func flatten(ed *editor.Editor, outPath string, inputs []string) error {
	f, err := export.FormatForPath(outPath)
	if err != nil {
		return err
	}
	bg, err := os.ReadFile(inputs[0])
	if err != nil {
		return err
	}
	im, err := ed.LoadImage(filepath.Base(inputs[0]), "", bg)
	if err != nil {
		return err
	}
	for _, p := range inputs[1:] {
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		img, _, err := codec.Decode(data)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		src, err := raster.Resize(img, im.Width, im.Height)
		if err != nil {
			return err
		}
		layer, err := ed.AddLayer()
		if err != nil {
			return err
		}
		if err := ed.RenameLayer(layer.ID, filepath.Base(p)); err != nil {
			return err
		}
		if err := ed.Commit(src, "Import"); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	w, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := ed.Export(im.ID, w, f); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// thumb renders the preview the editor keeps for an image and writes it as PNG.
func thumb(ctx context.Context, s *session, in, outPath string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	im, err := s.ed.LoadImage(filepath.Base(in), "", data)
	if err != nil {
		return err
	}
	s.ed.Flush()
	png, err := s.previews.Get(ctx, im.ID)
	if err != nil {
		return err
	}
	if png == nil {
		cur, _ := s.ed.Image(im.ID)
		if cur.Preview == nil {
			return fmt.Errorf("no preview rendered for %s", in)
		}
		if png, err = codec.EncodePNG(cur.Preview); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outPath, png, 0o644)
}
