/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Path commands and shapes.

type PathOp uint8

const (
	MoveTo PathOp = iota
	LineTo
	QuadTo // quadratic bezier (cx, cy, x, y)
	Close
)

type PathCmd struct {
	Op   PathOp
	Data [4]float32 // enough for quad; unused slots are zero
}

type Path struct{ Cmds []PathCmd }

func (p *Path) MoveTo(x, y float32) {
	p.Cmds = append(p.Cmds, PathCmd{Op: MoveTo, Data: [4]float32{x, y}})
}
func (p *Path) LineTo(x, y float32) {
	p.Cmds = append(p.Cmds, PathCmd{Op: LineTo, Data: [4]float32{x, y}})
}
func (p *Path) QuadTo(cx, cy, x, y float32) {
	p.Cmds = append(p.Cmds, PathCmd{Op: QuadTo, Data: [4]float32{cx, cy, x, y}})
}
func (p *Path) Close() { p.Cmds = append(p.Cmds, PathCmd{Op: Close}) }

// Polyline builds an open path through pts.
func Polyline(pts []Pt) Path {
	var p Path
	for i, q := range pts {
		if i == 0 {
			p.MoveTo(q.X, q.Y)
			continue
		}
		p.LineTo(q.X, q.Y)
	}
	return p
}

// Polygon builds a closed path through pts.
func Polygon(pts []Pt) Path {
	p := Polyline(pts)
	if len(pts) > 0 {
		p.Close()
	}
	return p
}

// Vertices returns the on-curve points of the path in order. Control points are skipped.
func (p *Path) Vertices() []Pt {
	out := make([]Pt, 0, len(p.Cmds))
	for _, c := range p.Cmds {
		switch c.Op {
		case MoveTo, LineTo:
			out = append(out, Pt{c.Data[0], c.Data[1]})
		case QuadTo:
			out = append(out, Pt{c.Data[2], c.Data[3]})
		}
	}
	return out
}

// Bounds returns an axis-aligned bounding box of the path. Control points are
// included, which over-approximates curves slightly.
func (p *Path) Bounds() Rect {
	var pts []Pt
	for _, c := range p.Cmds {
		switch c.Op {
		case MoveTo, LineTo:
			pts = append(pts, Pt{c.Data[0], c.Data[1]})
		case QuadTo:
			pts = append(pts, Pt{c.Data[0], c.Data[1]}, Pt{c.Data[2], c.Data[3]})
		}
	}
	return BoundsOf(pts...)
}
