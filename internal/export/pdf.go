/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/jung-kurt/gofpdf"

	"gocanvaseditor/internal/codec"
)

// PDFOptions controls PDF export. Units are points.
type PDFOptions struct {
	Title string
	// DPI maps pixels to page size. Zero means 72, one point per pixel.
	DPI float64
}

// PageSize returns the page size in points for a w×h pixel image.
func (o PDFOptions) PageSize(w, h int) (float64, float64) {
	dpi := o.DPI
	if dpi <= 0 {
		dpi = 72
	}
	return float64(w) * 72 / dpi, float64(h) * 72 / dpi
}

// WritePDF writes a single page sized to img with img embedded as PNG.
func WritePDF(w io.Writer, img image.Image, opt PDFOptions) error {
	b := img.Bounds()
	wd, ht := opt.PageSize(b.Dx(), b.Dy())
	data, err := codec.EncodePNG(img)
	if err != nil {
		return err
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	if opt.Title != "" {
		pdf.SetTitle(opt.Title, true)
	}
	pdf.SetAuthor("Go Canvas Editor", false)
	pdf.SetCreator("gocanvaseditor", false)
	pdf.AddPage()

	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("composite", imgOpts, bytes.NewReader(data))
	pdf.ImageOptions("composite", 0, 0, wd, ht, false, imgOpts, 0, "")
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
