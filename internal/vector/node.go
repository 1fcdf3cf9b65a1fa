/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "math"

// Node is a scene item that can be rendered by different backends.
// Geometry is defined in local coordinates and placed with Transform.
type Node interface {
	Bounds() Rect
	Transform() Affine2D
	SetTransform(Affine2D)
	Fill() Fill
	Stroke() Stroke
	SetFill(Fill)
	SetStroke(Stroke)
	Hit(p Pt) bool
	// Outline is the silhouette as a closed polygon in scene coordinates.
	Outline() []Pt
}

type baseNode struct {
	xf     Affine2D
	fill   Fill
	stroke Stroke
}

func (b *baseNode) Transform() Affine2D     { return b.xf }
func (b *baseNode) SetTransform(m Affine2D) { b.xf = m }
func (b *baseNode) Fill() Fill              { return b.fill }
func (b *baseNode) Stroke() Stroke          { return b.stroke }
func (b *baseNode) SetFill(f Fill)          { b.fill = f }
func (b *baseNode) SetStroke(s Stroke)      { b.stroke = s }

func (b *baseNode) apply(pts []Pt) []Pt {
	out := make([]Pt, len(pts))
	for i, p := range pts {
		out[i] = b.xf.Apply(p)
	}
	return out
}

func corners(r Rect) []Pt {
	return []Pt{{r.X, r.Y}, {r.X + r.W, r.Y}, {r.X + r.W, r.Y + r.H}, {r.X, r.Y + r.H}}
}

// RectNode draws an axis-aligned rectangle before transform.
type RectNode struct {
	baseNode
	rect Rect
}

func NewRect(r Rect, f Fill, s Stroke) *RectNode {
	return &RectNode{baseNode: baseNode{xf: Identity, fill: f, stroke: s}, rect: r}
}

func (n *RectNode) Rect() Rect    { return n.rect }
func (n *RectNode) Bounds() Rect  { return BoundsOf(n.Outline()...) }
func (n *RectNode) Outline() []Pt { return n.apply(corners(n.rect)) }

func (n *RectNode) Hit(p Pt) bool {
	return n.rect.Contains(n.xf.Invert().Apply(p))
}

// RoundedRectNode uses uniform radii for simplicity.
type RoundedRectNode struct {
	baseNode
	rect Rect
	r    float32
}

func NewRoundedRect(r Rect, radius float32, f Fill, s Stroke) *RoundedRectNode {
	radius = max(0, min(radius, min(r.W, r.H)/2))
	return &RoundedRectNode{baseNode: baseNode{xf: Identity, fill: f, stroke: s}, rect: r, r: radius}
}

func (n *RoundedRectNode) Rect() Rect      { return n.rect }
func (n *RoundedRectNode) Radius() float32 { return n.r }
func (n *RoundedRectNode) Bounds() Rect    { return BoundsOf(n.apply(corners(n.rect))...) }

func (n *RoundedRectNode) Hit(p Pt) bool {
	q := n.xf.Invert().Apply(p)
	if !n.rect.Contains(q) {
		return false
	}
	// the two bands between the corner arcs
	if n.rect.Inset(n.r, 0).Contains(q) || n.rect.Inset(0, n.r).Contains(q) {
		return true
	}
	cx := []float32{n.rect.X + n.r, n.rect.X + n.rect.W - n.r}
	cy := []float32{n.rect.Y + n.r, n.rect.Y + n.rect.H - n.r}
	r2 := n.r * n.r
	for _, x := range cx {
		for _, y := range cy {
			dx := q.X - x
			dy := q.Y - y
			if dx*dx+dy*dy <= r2 {
				return true
			}
		}
	}
	return false
}

// arcSteps is the number of segments used per quarter circle in Outline.
const arcSteps = 6

// Outline samples each corner arc with arcSteps segments, clockwise from the top-left.
func (n *RoundedRectNode) Outline() []Pt {
	if n.r == 0 {
		return n.apply(corners(n.rect))
	}
	x0, y0 := n.rect.X, n.rect.Y
	x1, y1 := n.rect.X+n.rect.W, n.rect.Y+n.rect.H
	centers := []Pt{{x0 + n.r, y0 + n.r}, {x1 - n.r, y0 + n.r}, {x1 - n.r, y1 - n.r}, {x0 + n.r, y1 - n.r}}
	var pts []Pt
	for i, c := range centers {
		start := math.Pi + float64(i)*math.Pi/2
		for s := 0; s <= arcSteps; s++ {
			a := start + float64(s)*(math.Pi/2)/arcSteps
			pts = append(pts, Pt{
				X: c.X + n.r*float32(math.Cos(a)),
				Y: c.Y + n.r*float32(math.Sin(a)),
			})
		}
	}
	return n.apply(pts)
}

// PolygonNode is a closed polygon such as the condition diamond.
type PolygonNode struct {
	baseNode
	pts []Pt
}

func NewPolygon(pts []Pt, f Fill, s Stroke) *PolygonNode {
	return &PolygonNode{baseNode: baseNode{xf: Identity, fill: f, stroke: s}, pts: append([]Pt(nil), pts...)}
}

// NewDiamond returns the rhombus touching the midpoints of r's edges.
func NewDiamond(r Rect, f Fill, s Stroke) *PolygonNode {
	c := r.Center()
	return NewPolygon([]Pt{{c.X, r.Y}, {r.X + r.W, c.Y}, {c.X, r.Y + r.H}, {r.X, c.Y}}, f, s)
}

func (n *PolygonNode) Bounds() Rect  { return BoundsOf(n.Outline()...) }
func (n *PolygonNode) Outline() []Pt { return n.apply(n.pts) }
func (n *PolygonNode) Path() Path    { return Polygon(n.Outline()) }

// Hit uses the even-odd crossing rule in local coordinates; boundary points count as hits.
func (n *PolygonNode) Hit(p Pt) bool {
	q := n.xf.Invert().Apply(p)
	in := false
	for i, j := 0, len(n.pts)-1; i < len(n.pts); j, i = i, i+1 {
		a, b := n.pts[i], n.pts[j]
		if onSegment(q, a, b) {
			return true
		}
		if (a.Y > q.Y) != (b.Y > q.Y) {
			x := a.X + (q.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if q.X < x {
				in = !in
			}
		}
	}
	return in
}

func onSegment(p, a, b Pt) bool {
	cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
	if math.Abs(float64(cross)) > 1e-3 {
		return false
	}
	return p.X >= min(a.X, b.X) && p.X <= max(a.X, b.X) && p.Y >= min(a.Y, b.Y) && p.Y <= max(a.Y, b.Y)
}

// Group is a container for child nodes with its own transform.
type Group struct {
	baseNode
	Children []Node
}

func NewGroup(children ...Node) *Group {
	g := &Group{baseNode: baseNode{xf: Identity}}
	g.Children = append(g.Children, children...)
	return g
}

func (g *Group) Bounds() Rect {
	var b Rect
	for i, c := range g.Children {
		if i == 0 {
			b = c.Bounds()
			continue
		}
		b = b.Union(c.Bounds())
	}
	return BoundsOf(g.apply(corners(b))...)
}

// Outline of a group is the outline of its bounds.
func (g *Group) Outline() []Pt { return corners(g.Bounds()) }

// Hit returns true when any child is hit, testing top-most first.
func (g *Group) Hit(p Pt) bool {
	q := g.xf.Invert().Apply(p)
	for i := len(g.Children) - 1; i >= 0; i-- {
		if g.Children[i].Hit(q) {
			return true
		}
	}
	return false
}
