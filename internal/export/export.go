/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export writes flattened composites to files and streams.
package export

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gocanvaseditor/internal/codec"
	"gocanvaseditor/internal/errs"
)

// Format is an output file type.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	BMP  Format = "bmp"
	PDF  Format = "pdf"
)

// Formats lists the supported output types.
var Formats = []Format{PNG, JPEG, BMP, PDF}

// ParseFormat accepts a format name or a file extension, with or without the
// dot. Empty means PNG.
func ParseFormat(s string) (Format, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	switch s {
	case "", "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	case "pdf":
		return PDF, nil
	}
	return "", errs.Invalid("Failed to export image", "unsupported format %q", s)
}

// FormatForPath picks the format from a file name.
func FormatForPath(path string) (Format, error) { return ParseFormat(filepath.Ext(path)) }

// Mime returns the MIME type written for f.
func (f Format) Mime() string {
	switch f {
	case JPEG:
		return codec.MimeJPEG
	case BMP:
		return codec.MimeBMP
	case PDF:
		return "application/pdf"
	}
	return codec.MimePNG
}

// Write encodes img to w.
func Write(w io.Writer, img image.Image, f Format) error {
	if img == nil || img.Bounds().Empty() {
		return errs.Invalid("Failed to export image", "nothing to export")
	}
	if f == PDF {
		return WritePDF(w, img, PDFOptions{})
	}
	return codec.Encode(w, img, f.Mime())
}

// WriteFile writes img to path, creating parent directories. The format
// follows the file extension.
func WriteFile(path string, img image.Image) error {
	f, err := FormatForPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(out, img, f); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
