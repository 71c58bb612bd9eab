/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package codec decodes uploaded image bytes and encodes flattened rasters.
package codec

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"gocanvaseditor/internal/errs"
)

// MaxUploadBytes is the largest accepted input file.
const MaxUploadBytes = 10 << 20

// Default JPEG quality for exports.
const JPEGQuality = 92

const (
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
	MimeGIF  = "image/gif"
	MimeBMP  = "image/bmp"
	MimeTIFF = "image/tiff"
	MimeWebP = "image/webp"
)

// Decode parses data in any registered format and reports its MIME type.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", errs.Invalid("Failed to load image", "empty file")
	}
	if len(data) > MaxUploadBytes {
		return nil, "", errs.Invalid("Failed to load image", "file is %d bytes, limit is %d", len(data), MaxUploadBytes)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", errs.Wrap("Failed to load image", errs.ErrDecodeFailure, err)
	}
	return img, MimeFor(format), nil
}

// DecodeReader reads at most MaxUploadBytes+1 from r and decodes it.
func DecodeReader(r io.Reader) (image.Image, string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, "", errs.Wrap("Failed to load image", errs.ErrDecodeFailure, err)
	}
	return Decode(data)
}

// MimeFor maps an image.Decode format name to a MIME type.
func MimeFor(format string) string {
	switch strings.ToLower(format) {
	case "png":
		return MimePNG
	case "jpeg", "jpg":
		return MimeJPEG
	case "gif":
		return MimeGIF
	case "bmp":
		return MimeBMP
	case "tiff":
		return MimeTIFF
	case "webp":
		return MimeWebP
	}
	return "application/octet-stream"
}

// Encode writes img as mime. PNG is used for empty or unknown types that
// cannot be written natively.
func Encode(w io.Writer, img image.Image, mime string) error {
	var err error
	switch strings.ToLower(mime) {
	case MimeJPEG, "jpeg", "jpg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case MimeBMP, "bmp":
		err = bmp.Encode(w, img)
	default:
		err = png.Encode(w, img)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", mime, err)
	}
	return nil
}

// EncodePNG returns the PNG bytes of img.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
