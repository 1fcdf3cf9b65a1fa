/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"flowdraft/internal/render"
	"flowdraft/internal/vector"
)

// PDFOptions controls PDF export behavior.
// One scene unit maps to one point; the page is the scene bounds.
// Text uses the built-in Helvetica so nothing has to be embedded.
type PDFOptions struct {
	Title  string
	Author string
	// Grid draws the scene's grid dots. They are skipped by default since
	// thousands of tiny circles bloat the file.
	Grid bool
}

// WritePDF draws s on a single page.
func WritePDF(w io.Writer, s render.Scene, opt PDFOptions) error {
	if s.Bounds.Empty() {
		return fmt.Errorf("write pdf: empty scene bounds %+v", s.Bounds)
	}
	size := gofpdf.SizeType{Wd: float64(s.Bounds.W), Ht: float64(s.Bounds.H)}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "pt", Size: size})
	if opt.Title != "" {
		pdf.SetTitle(opt.Title, true)
	}
	author := opt.Author
	if author == "" {
		author = "flowdraft"
	}
	pdf.SetAuthor(author, true)
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPageFormat("", size)

	ox, oy := float64(s.Bounds.X), float64(s.Bounds.Y)
	pt := func(p vector.Pt) (float64, float64) { return float64(p.X) - ox, float64(p.Y) - oy }
	poly := func(pts []vector.Pt) []gofpdf.PointType {
		out := make([]gofpdf.PointType, len(pts))
		for i, p := range pts {
			out[i].X, out[i].Y = pt(p)
		}
		return out
	}

	setFillColor(pdf, s.Background)
	pdf.Rect(0, 0, size.Wd, size.Ht, "F")

	if opt.Grid {
		setFillColor(pdf, s.Grid)
		for _, d := range s.GridDots {
			x, y := pt(d)
			pdf.Circle(x, y, 0.75, "F")
		}
	}

	pdf.SetLineJoinStyle("round")
	pdf.SetLineCapStyle("square")
	for _, wi := range s.Wires {
		setDrawColor(pdf, wi.Color)
		setFillColor(pdf, wi.Color)
		pdf.SetLineWidth(float64(wi.Width))
		for i := 1; i < len(wi.Points); i++ {
			x0, y0 := pt(wi.Points[i-1])
			x1, y1 := pt(wi.Points[i])
			pdf.Line(x0, y0, x1, y1)
		}
		pdf.Polygon(poly(wi.Arrow[:]), "F")
		if wi.Title != "" {
			pdf.SetFontSize(10)
			setTextColor(pdf, s.Text)
			x, y := pt(wi.TitleAt)
			pdf.Text(x-pdf.GetStringWidth(wi.Title)/2, y-4, wi.Title)
		}
	}

	pdf.SetFontSize(12)
	for _, b := range s.Boxes {
		setFillColor(pdf, b.Fill)
		setDrawColor(pdf, b.Stroke)
		pdf.SetLineWidth(float64(b.StrokeWidth))
		pdf.Polygon(poly(b.Outline), "FD")
		if b.Title != "" {
			setTextColor(pdf, s.Text)
			x, y := pt(b.Rect.Center())
			pdf.Text(x-pdf.GetStringWidth(b.Title)/2, y+4, b.Title)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func setDrawColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

func setTextColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
}
