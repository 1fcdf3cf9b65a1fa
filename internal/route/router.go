/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package route computes orthogonal wire routes between box sockets.
//
// The router is a pure function of two socket points, their facings and a
// clearance. It classifies the pair into one of the I/Z/S, C or L families and
// emits axis-aligned waypoints followed by an arrowhead at the destination.
package route

import (
	"fmt"

	"flowdraft/internal/vector"
)

const (
	DefaultMinLen         float32 = 20
	DefaultArrowLength    float32 = 7
	DefaultArrowHalfWidth float32 = 5
)

// Options controls clearance and arrowhead size.
type Options struct {
	// MinLen is the distance a route travels straight out of a socket before
	// turning, and the offset used to clear a box. Must be > 0.
	MinLen float32
	// ArrowLength and ArrowHalfWidth size the arrowhead; zero picks the defaults.
	ArrowLength    float32
	ArrowHalfWidth float32
}

func DefaultOptions() Options {
	return Options{MinLen: DefaultMinLen, ArrowLength: DefaultArrowLength, ArrowHalfWidth: DefaultArrowHalfWidth}
}

func (o Options) normalized() Options {
	if o.ArrowLength <= 0 {
		o.ArrowLength = DefaultArrowLength
	}
	if o.ArrowHalfWidth <= 0 {
		o.ArrowHalfWidth = DefaultArrowHalfWidth
	}
	return o
}

// Compute routes from the fs socket of from to the ts socket of to.
func Compute(from Anchor, fs Socket, to Anchor, ts Socket, opts Options) Route {
	mustSockets(fs, ts)
	return Between(from.SocketPoint(fs), fs, to.SocketPoint(ts), ts, opts)
}

// Between routes two raw socket points. It panics on invalid sockets or a
// non-positive MinLen; any geometry is accepted.
func Between(pf vector.Pt, fs Socket, pt vector.Pt, ts Socket, opts Options) Route {
	mustSockets(fs, ts)
	if opts.MinLen <= 0 {
		panic(fmt.Sprintf("route: MinLen must be > 0, got %v", opts.MinLen))
	}
	opts = opts.normalized()

	var (
		kind Kind
		mid  []vector.Pt
	)
	switch {
	case fs.OppositeOf(ts):
		kind, mid = opposite(pf, fs, pt, ts, opts.MinLen)
	case fs == ts:
		kind, mid = CWrap, wrap(pf, pt, fs, opts.MinLen)
	default:
		kind, mid = corner(pf, fs, pt, ts, opts.MinLen)
	}

	pts := make([]vector.Pt, 0, len(mid)+2)
	pts = append(pts, pf)
	pts = append(pts, mid...)
	pts = append(pts, pt)
	return Route{
		kind:  kind,
		pts:   simplify(pts),
		arrow: arrowhead(pt, ts, opts.ArrowLength, opts.ArrowHalfWidth),
	}
}

func mustSockets(fs, ts Socket) {
	if !fs.Valid() || !ts.Valid() {
		panic(fmt.Sprintf("route: invalid sockets %v -> %v", fs, ts))
	}
}

// opposite handles the I/Z/S family: the two sockets face each other's axis.
func opposite(pf vector.Pt, fs Socket, pt vector.Pt, ts Socket, m float32) (Kind, []vector.Pt) {
	d := pt.Sub(pf)
	perp := d.Y
	if fs.Vertical() {
		perp = d.X
	}
	if perp == 0 {
		return Straight, nil
	}

	// Room is measured along the exit direction; equality counts as room.
	if d.Dot(fs.Facing()) >= 2*m {
		if fs.Vertical() {
			y := pf.Y + d.Y/2
			return ZCross, []vector.Pt{{X: pf.X, Y: y}, {X: pt.X, Y: y}}
		}
		x := pf.X + d.X/2
		return ZCross, []vector.Pt{{X: x, Y: pf.Y}, {X: x, Y: pt.Y}}
	}

	of := fs.Facing().Mul(m)
	ot := ts.Facing().Mul(m)
	if fs.Vertical() {
		x := pf.X + d.X/2
		return SDetour, []vector.Pt{
			{X: pf.X, Y: pf.Y + of.Y},
			{X: x, Y: pf.Y + of.Y},
			{X: x, Y: pt.Y + ot.Y},
			{X: pt.X, Y: pt.Y + ot.Y},
		}
	}
	y := pf.Y + d.Y/2
	return SDetour, []vector.Pt{
		{X: pf.X + of.X, Y: pf.Y},
		{X: pf.X + of.X, Y: y},
		{X: pt.X + ot.X, Y: y},
		{X: pt.X + ot.X, Y: pt.Y},
	}
}

// wrap handles identical sockets. The offset line clears whichever endpoint
// reaches further in the shared facing.
func wrap(pf, pt vector.Pt, s Socket, m float32) []vector.Pt {
	switch s {
	case Top:
		y := min(pf.Y, pt.Y) - m
		return []vector.Pt{{X: pf.X, Y: y}, {X: pt.X, Y: y}}
	case Bottom:
		y := max(pf.Y, pt.Y) + m
		return []vector.Pt{{X: pf.X, Y: y}, {X: pt.X, Y: y}}
	case Left:
		x := min(pf.X, pt.X) - m
		return []vector.Pt{{X: x, Y: pf.Y}, {X: x, Y: pt.Y}}
	default:
		x := max(pf.X, pt.X) + m
		return []vector.Pt{{X: x, Y: pf.Y}, {X: x, Y: pt.Y}}
	}
}

// corner handles perpendicular sockets. Only the source facing decides
// between the inside and outside flavor.
func corner(pf vector.Pt, fs Socket, pt vector.Pt, ts Socket, m float32) (Kind, []vector.Pt) {
	if pt.Sub(pf).Dot(fs.Facing()) > 0 {
		if fs.Vertical() {
			return LInside, []vector.Pt{{X: pf.X, Y: pt.Y}}
		}
		return LInside, []vector.Pt{{X: pt.X, Y: pf.Y}}
	}

	o1 := pf.Add(fs.Facing().Mul(m))
	o3 := pt.Add(ts.Facing().Mul(m))
	c := vector.Pt{X: o1.X, Y: o3.Y}
	if fs.Vertical() {
		c = vector.Pt{X: o3.X, Y: o1.Y}
	}
	if c.Eq(o1) {
		// The clearance points share the exit axis, so the plain corner would
		// run back over the exit leg. Jog out along the destination facing.
		jog := ts.Facing().Mul(m)
		return LOutside, []vector.Pt{o1, o1.Add(jog), o3.Add(jog)}
	}
	return LOutside, []vector.Pt{o1, c, o3}
}

// arrowhead returns the two wings and the tip. Wings sit outside the face,
// the tip is the socket point itself.
func arrowhead(p vector.Pt, s Socket, length, half float32) [3]vector.Pt {
	switch s {
	case Top:
		return [3]vector.Pt{{X: p.X - half, Y: p.Y - length}, {X: p.X + half, Y: p.Y - length}, p}
	case Right:
		return [3]vector.Pt{{X: p.X + length, Y: p.Y - half}, {X: p.X + length, Y: p.Y + half}, p}
	case Bottom:
		return [3]vector.Pt{{X: p.X + half, Y: p.Y + length}, {X: p.X - half, Y: p.Y + length}, p}
	default:
		return [3]vector.Pt{{X: p.X - length, Y: p.Y - half}, {X: p.X - length, Y: p.Y + half}, p}
	}
}

// simplify drops repeated points and interior points that continue in the
// same direction. Reversals are kept, as are both endpoints.
func simplify(pts []vector.Pt) []vector.Pt {
	first, last := pts[0], pts[len(pts)-1]
	dedup := make([]vector.Pt, 0, len(pts))
	dedup = append(dedup, first)
	for _, p := range pts[1 : len(pts)-1] {
		if !p.Eq(dedup[len(dedup)-1]) {
			dedup = append(dedup, p)
		}
	}
	if len(dedup) > 1 && dedup[len(dedup)-1].Eq(last) {
		dedup = dedup[:len(dedup)-1]
	}
	dedup = append(dedup, last)

	out := make([]vector.Pt, 0, len(dedup))
	out = append(out, first)
	for i := 1; i < len(dedup)-1; i++ {
		if direction(out[len(out)-1], dedup[i]) == direction(dedup[i], dedup[i+1]) {
			continue
		}
		out = append(out, dedup[i])
	}
	return append(out, last)
}

func direction(a, b vector.Pt) vector.Pt {
	return vector.Pt{X: sign(b.X - a.X), Y: sign(b.Y - a.Y)}
}

func sign(v float32) float32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
