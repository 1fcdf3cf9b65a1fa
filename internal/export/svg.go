/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bufio"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"flowdraft/internal/render"
	"flowdraft/internal/vector"
)

// SVGOptions controls SVG export. Title becomes the document <title>.
type SVGOptions struct {
	Title string
}

// WriteSVG draws s as a standalone SVG document. The viewBox is the scene
// bounds, so coordinates stay in scene units.
func WriteSVG(w io.Writer, s render.Scene, opt SVGOptions) error {
	bw := bufio.NewWriter(w)
	canvas := svg.New(bw)

	x0, y0 := floor(s.Bounds.X), floor(s.Bounds.Y)
	vw, vh := ceil(s.Bounds.X+s.Bounds.W)-x0, ceil(s.Bounds.Y+s.Bounds.H)-y0
	canvas.Startview(vw, vh, x0, y0, vw, vh)
	if opt.Title != "" {
		canvas.Title(opt.Title)
	}
	canvas.Rect(x0, y0, vw, vh, "fill:"+s.Background.Hex())

	if len(s.GridDots) > 0 {
		canvas.Group("fill:" + s.Grid.Hex())
		for _, p := range s.GridDots {
			canvas.Circle(round(p.X), round(p.Y), 1)
		}
		canvas.Gend()
	}

	for _, wi := range s.Wires {
		canvas.Gid(fmt.Sprintf("wire-%d", wi.ID))
		xs, ys := ints(wi.Points)
		canvas.Polyline(xs, ys, fmt.Sprintf("fill:none;stroke:%s;stroke-width:%g;stroke-linejoin:round", wi.Color.Hex(), wi.Width))
		ax, ay := ints(wi.Arrow[:])
		canvas.Polygon(ax, ay, "fill:"+wi.Color.Hex())
		if wi.Title != "" {
			canvas.Text(round(wi.TitleAt.X), round(wi.TitleAt.Y)-4, wi.Title,
				"text-anchor:middle;font-family:Helvetica,Arial,sans-serif;font-size:10px;fill:"+s.Text.Hex())
		}
		canvas.Gend()
	}

	for _, b := range s.Boxes {
		canvas.Gid(fmt.Sprintf("box-%d", b.ID))
		xs, ys := ints(b.Outline)
		canvas.Polygon(xs, ys, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%g", b.Fill.Hex(), b.Stroke.Hex(), b.StrokeWidth))
		if b.Title != "" {
			c := b.Rect.Center()
			canvas.Text(round(c.X), round(c.Y)+4, b.Title,
				"text-anchor:middle;font-family:Helvetica,Arial,sans-serif;font-size:12px;fill:"+s.Text.Hex())
		}
		canvas.Gend()
	}

	canvas.End()
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func round(v float32) int { return int(math.Round(float64(v))) }
func floor(v float32) int { return int(math.Floor(float64(v))) }
func ceil(v float32) int  { return int(math.Ceil(float64(v))) }

func ints(pts []vector.Pt) (xs, ys []int) {
	xs = make([]int, len(pts))
	ys = make([]int, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = round(p.X), round(p.Y)
	}
	return xs, ys
}
