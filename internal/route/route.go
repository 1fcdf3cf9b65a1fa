/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package route

import (
	"fmt"
	"slices"

	"flowdraft/internal/vector"
)

// Kind is the routing family a route was classified into.
type Kind uint8

const (
	Straight Kind = iota + 1
	ZCross
	SDetour
	CWrap
	LInside
	LOutside
)

func (k Kind) String() string {
	switch k {
	case Straight:
		return "straight"
	case ZCross:
		return "z-cross"
	case SDetour:
		return "s-detour"
	case CWrap:
		return "c-wrap"
	case LInside:
		return "l-inside"
	case LOutside:
		return "l-outside"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Route is an immutable routed polyline plus its arrowhead.
type Route struct {
	kind  Kind
	pts   []vector.Pt
	arrow [3]vector.Pt
}

func (r Route) Kind() Kind { return r.kind }

// Empty reports whether r is the zero Route.
func (r Route) Empty() bool { return len(r.pts) == 0 }

// Waypoints returns the orthogonal polyline from start socket to end socket.
func (r Route) Waypoints() []vector.Pt { return slices.Clone(r.pts) }

// Points returns the waypoints followed by the arrowhead wings and tip.
func (r Route) Points() []vector.Pt {
	out := make([]vector.Pt, 0, len(r.pts)+3)
	out = append(out, r.pts...)
	return append(out, r.arrow[:]...)
}

func (r Route) Start() vector.Pt {
	if len(r.pts) == 0 {
		return vector.Pt{}
	}
	return r.pts[0]
}

func (r Route) End() vector.Pt {
	if len(r.pts) == 0 {
		return vector.Pt{}
	}
	return r.pts[len(r.pts)-1]
}

func (r Route) Arrowhead() [3]vector.Pt { return r.arrow }

// Path returns the full route including the arrowhead as an open polyline.
func (r Route) Path() vector.Path { return vector.Polyline(r.Points()) }

func (r Route) Bounds() vector.Rect { return vector.BoundsOf(r.Points()...) }

func (r Route) Equal(o Route) bool {
	return r.kind == o.kind && r.arrow == o.arrow && slices.Equal(r.pts, o.pts)
}
