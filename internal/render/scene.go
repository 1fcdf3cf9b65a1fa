/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"math"
	"slices"

	"flowdraft/internal/flow"
	"flowdraft/internal/vector"
)

// BoxItem is a box ready to draw. Outline is the silhouette in scene coordinates.
type BoxItem struct {
	ID          flow.BoxID
	Kind        flow.ShapeKind
	Rect        vector.Rect
	Outline     []vector.Pt
	Fill        vector.Color
	Stroke      vector.Color
	StrokeWidth float32
	Title       string
	Selected    bool
}

// WireItem is a routed wire ready to draw. Points excludes the arrowhead.
type WireItem struct {
	ID      flow.WireID
	Mode    flow.Mode
	Color   vector.Color
	Width   float32
	Points  []vector.Pt
	Arrow   [3]vector.Pt
	Title   string
	TitleAt vector.Pt
}

// Scene is a flattened, ordered draw list: background, grid, wires, boxes.
type Scene struct {
	Bounds     vector.Rect
	Background vector.Color
	Grid       vector.Color
	GridDots   []vector.Pt
	Text       vector.Color
	Wires      []WireItem
	Boxes      []BoxItem
}

type SceneOptions struct {
	// Margin grows the diagram bounds on every side.
	Margin float32
	// Grid adds dots every Theme.GridStep.
	Grid     bool
	Selected []flow.BoxID
}

// maxGridDots keeps huge scenes from producing millions of dots.
const maxGridDots = 250_000

// Build snapshots d into a Scene using th.
func Build(d *flow.Diagram, th Theme, opts SceneOptions) Scene {
	s := Scene{
		Bounds:     d.Bounds().Inset(-opts.Margin, -opts.Margin),
		Background: th.Background,
		Grid:       th.Grid,
		Text:       th.Text,
	}
	if opts.Grid {
		s.GridDots = gridDots(s.Bounds, th.GridStep)
	}
	for _, w := range d.Wires() {
		pts := w.Route.Waypoints()
		s.Wires = append(s.Wires, WireItem{
			ID:      w.ID,
			Mode:    w.Mode,
			Color:   th.ModeColor(w.Mode),
			Width:   th.WireWidth,
			Points:  pts,
			Arrow:   w.Route.Arrowhead(),
			Title:   w.Title,
			TitleAt: labelAnchor(pts),
		})
	}
	for _, b := range d.Boxes() {
		item := BoxItem{
			ID:          b.ID,
			Kind:        b.Kind,
			Rect:        b.Rect(),
			Outline:     Node(b, th).Outline(),
			Fill:        th.BoxFill,
			Stroke:      th.BoxStroke,
			StrokeWidth: th.StrokeWidth,
			Title:       b.Title,
		}
		if slices.Contains(opts.Selected, b.ID) {
			item.Selected = true
			item.Stroke = Highlight(th.BoxStroke, 0.6)
			item.StrokeWidth = th.StrokeWidth * 2
		}
		s.Boxes = append(s.Boxes, item)
	}
	return s
}

func gridDots(r vector.Rect, step float32) []vector.Pt {
	if step <= 0 || r.Empty() {
		return nil
	}
	x0 := float32(math.Ceil(float64(r.X/step))) * step
	y0 := float32(math.Ceil(float64(r.Y/step))) * step
	nx := int((r.X+r.W-x0)/step) + 1
	ny := int((r.Y+r.H-y0)/step) + 1
	if nx <= 0 || ny <= 0 || nx*ny > maxGridDots {
		return nil
	}
	dots := make([]vector.Pt, 0, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			dots = append(dots, vector.Pt{X: x0 + float32(i)*step, Y: y0 + float32(j)*step})
		}
	}
	return dots
}

// labelAnchor is the midpoint of the longest segment.
func labelAnchor(pts []vector.Pt) vector.Pt {
	if len(pts) == 0 {
		return vector.Pt{}
	}
	best, bestLen := pts[0], float32(-1)
	for i := 1; i < len(pts); i++ {
		if l := pts[i].Dist(pts[i-1]); l > bestLen {
			best, bestLen = pts[i-1].Add(pts[i]).Mul(0.5), l
		}
	}
	return best
}
