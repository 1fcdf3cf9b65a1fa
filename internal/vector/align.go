/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Alignment guides for dragging boxes when grid snapping is off. A dragged box
// snaps its edges or center to those of nearby boxes, independently per axis.

import "math"

// AlignOptions controls which features are considered and the capture distance.
type AlignOptions struct {
	// Threshold is the maximum distance at which alignment kicks in. Defaults to 6.
	Threshold float32
	Edges     bool
	Centers   bool
}

// Axis of a guide line.
type Axis uint8

const (
	Vertical Axis = iota + 1
	Horizontal
)

func (a Axis) String() string {
	switch a {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	}
	return "none"
}

// Guide is a line to draw while a box is aligned to another.
// Pos is the x of a vertical guide or the y of a horizontal one.
type Guide struct {
	Axis     Axis
	Center   bool
	Pos      float32
	From, To Pt
}

type candidate struct {
	delta float32
	dist  float32
	guide Guide
}

// Align moves r onto the closest matching edge or center among others and
// returns the adjusted rect plus the guides that justify the move.
func Align(r Rect, others []Rect, opts AlignOptions) (Rect, []Guide) {
	if opts.Threshold <= 0 {
		opts.Threshold = 6
	}
	bestX := candidate{dist: math.MaxFloat32}
	bestY := candidate{dist: math.MaxFloat32}

	consider := func(best *candidate, delta float32, g Guide) {
		d := float32(math.Abs(float64(delta)))
		if d <= opts.Threshold && d < best.dist {
			*best = candidate{delta: delta, dist: d, guide: g}
		}
	}

	for _, o := range others {
		if opts.Edges {
			for _, ox := range []float32{o.X, o.X + o.W} {
				for _, rx := range []float32{r.X, r.X + r.W} {
					consider(&bestX, rx-ox, verticalGuide(ox, r, o, false))
				}
			}
			for _, oy := range []float32{o.Y, o.Y + o.H} {
				for _, ry := range []float32{r.Y, r.Y + r.H} {
					consider(&bestY, ry-oy, horizontalGuide(oy, r, o, false))
				}
			}
		}
		if opts.Centers {
			rc, oc := r.Center(), o.Center()
			consider(&bestX, rc.X-oc.X, verticalGuide(oc.X, r, o, true))
			consider(&bestY, rc.Y-oc.Y, horizontalGuide(oc.Y, r, o, true))
		}
	}

	var guides []Guide
	out := r
	if bestX.dist != math.MaxFloat32 {
		out.X = FloatRound(r.X-bestX.delta, 3)
		guides = append(guides, bestX.guide)
	}
	if bestY.dist != math.MaxFloat32 {
		out.Y = FloatRound(r.Y-bestY.delta, 3)
		guides = append(guides, bestY.guide)
	}
	return out, guides
}

func verticalGuide(x float32, a, b Rect, center bool) Guide {
	x = FloatRound(x, 3)
	return Guide{
		Axis:   Vertical,
		Center: center,
		Pos:    x,
		From:   Pt{x, min(a.Y, b.Y)},
		To:     Pt{x, max(a.Y+a.H, b.Y+b.H)},
	}
}

func horizontalGuide(y float32, a, b Rect, center bool) Guide {
	y = FloatRound(y, 3)
	return Guide{
		Axis:   Horizontal,
		Center: center,
		Pos:    y,
		From:   Pt{min(a.X, b.X), y},
		To:     Pt{max(a.X+a.W, b.X+b.W), y},
	}
}
