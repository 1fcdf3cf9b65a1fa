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
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	xvector "golang.org/x/image/vector"

	"flowdraft/internal/flow"
	"flowdraft/internal/render"
	"flowdraft/internal/vector"
)

// PNGOptions controls raster export.
// - Scale: output pixels per scene unit, 1 when zero
// - MaxPixels: refuse images larger than this, 64 MP when zero
type PNGOptions struct {
	Scale     float32
	MaxPixels int
}

const defaultMaxPixels = 64 << 20

// raster maps scene coordinates into the image and rasterizes filled paths.
type raster struct {
	img    *image.RGBA
	rz     *xvector.Rasterizer
	origin vector.Pt
	scale  float32
}

// Rasterize draws s into a new RGBA image.
func Rasterize(s render.Scene, opt PNGOptions) (*image.RGBA, error) {
	scale := opt.Scale
	if scale <= 0 {
		scale = 1
	}
	limit := opt.MaxPixels
	if limit <= 0 {
		limit = defaultMaxPixels
	}
	w := int(math.Ceil(float64(s.Bounds.W * scale)))
	h := int(math.Ceil(float64(s.Bounds.H * scale)))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("rasterize: empty scene bounds %+v", s.Bounds)
	}
	if w*h > limit {
		return nil, fmt.Errorf("rasterize: %dx%d exceeds %d pixels", w, h, limit)
	}

	r := &raster{
		img:    image.NewRGBA(image.Rect(0, 0, w, h)),
		rz:     xvector.NewRasterizer(w, h),
		origin: s.Bounds.Min(),
		scale:  scale,
	}
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(s.Background.ToRGBA()), image.Point{}, draw.Src)

	dot := scale
	if dot < 1 {
		dot = 1
	}
	for _, p := range s.GridDots {
		q := r.px(p)
		r.fillRect(q.X-dot/2, q.Y-dot/2, dot, dot, s.Grid.ToRGBA())
	}

	for _, wi := range s.Wires {
		c := wi.Color.ToRGBA()
		hw := wi.Width * scale / 2
		for i := 1; i < len(wi.Points); i++ {
			a, b := r.px(wi.Points[i-1]), r.px(wi.Points[i])
			x0, x1 := min(a.X, b.X), max(a.X, b.X)
			y0, y1 := min(a.Y, b.Y), max(a.Y, b.Y)
			r.fillRect(x0-hw, y0-hw, x1-x0+2*hw, y1-y0+2*hw, c)
		}
		r.fillPolygon(wi.Arrow[:], c)
		if wi.Title != "" {
			r.text(wi.TitleAt, -4, wi.Title, s.Text.ToRGBA())
		}
	}

	for _, b := range s.Boxes {
		r.fillPolygon(b.Outline, b.Stroke.ToRGBA())
		r.fillPolygon(render.Outline(innerBox(b)), b.Fill.ToRGBA())
		if b.Title != "" {
			r.text(b.Rect.Center(), 4, b.Title, s.Text.ToRGBA())
		}
	}
	return r.img, nil
}

// WritePNG rasterizes s and encodes it.
func WritePNG(w io.Writer, s render.Scene, opt PNGOptions) error {
	img, err := Rasterize(s, opt)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func (r *raster) px(p vector.Pt) vector.Pt {
	return p.Sub(r.origin).Mul(r.scale)
}

func (r *raster) fillRect(x, y, w, h float32, c color.RGBA) {
	r.rz.Reset(r.img.Bounds().Dx(), r.img.Bounds().Dy())
	r.rz.MoveTo(x, y)
	r.rz.LineTo(x+w, y)
	r.rz.LineTo(x+w, y+h)
	r.rz.LineTo(x, y+h)
	r.rz.ClosePath()
	r.rz.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{})
}

// fillPolygon fills pts given in scene coordinates.
func (r *raster) fillPolygon(pts []vector.Pt, c color.RGBA) {
	if len(pts) < 3 {
		return
	}
	r.rz.Reset(r.img.Bounds().Dx(), r.img.Bounds().Dy())
	p := r.px(pts[0])
	r.rz.MoveTo(p.X, p.Y)
	for _, q := range pts[1:] {
		q = r.px(q)
		r.rz.LineTo(q.X, q.Y)
	}
	r.rz.ClosePath()
	r.rz.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{})
}

// text centers s horizontally on at, shifted dy pixels from the baseline.
func (r *raster) text(at vector.Pt, dy int, s string, c color.RGBA) {
	d := &font.Drawer{Dst: r.img, Src: image.NewUniform(c), Face: basicfont.Face7x13}
	p := r.px(at)
	width := d.MeasureString(s).Ceil()
	d.Dot = fixed.P(int(p.X)-width/2, int(p.Y)+dy)
	d.DrawString(s)
}

// innerBox is b shrunk by its stroke width, so filling it over the stroke
// colored silhouette leaves a border.
func innerBox(b render.BoxItem) flow.Box {
	sw := b.StrokeWidth
	if 2*sw >= b.Rect.W || 2*sw >= b.Rect.H {
		sw = 0
	}
	return flow.Box{
		Kind:   b.Kind,
		Center: b.Rect.Center(),
		Size:   vector.Size{W: b.Rect.W - 2*sw, H: b.Rect.H - 2*sw},
	}
}
