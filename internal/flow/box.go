/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package flow

import (
	"slices"

	"flowdraft/internal/route"
	"flowdraft/internal/vector"
)

// BoxID indexes the diagram's box arena. IDs are never reused.
type BoxID int

// WireID indexes the diagram's wire arena. IDs are never reused.
type WireID int

// Box is a movable diagram element. Size is fixed at creation.
// In lists wires ending at the box, Out lists wires leaving it.
type Box struct {
	ID     BoxID
	Kind   ShapeKind
	Title  string
	Center vector.Pt
	Size   vector.Size
	In     []WireID
	Out    []WireID
}

func (b Box) Rect() vector.Rect { return vector.Centered(b.Center, b.Size) }

// SocketPoint makes Box a route.Anchor.
func (b Box) SocketPoint(s route.Socket) vector.Pt { return route.SocketPoint(b.Rect(), s) }

func (b Box) clone() Box {
	b.In = slices.Clone(b.In)
	b.Out = slices.Clone(b.Out)
	return b
}

// Endpoint is one end of a wire.
type Endpoint struct {
	Box    BoxID
	Socket route.Socket
}

// Wire is a directed connector between two sockets. Route is derived from the
// endpoint boxes and is recomputed whenever either of them moves.
type Wire struct {
	ID    WireID
	From  Endpoint
	To    Endpoint
	Mode  Mode
	Title string
	Route route.Route
}

func removeID[T comparable](ids []T, id T) []T {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}
