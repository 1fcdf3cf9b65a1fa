/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render turns a diagram into backend-neutral draw items: box
// silhouettes, wire polylines, grid dots and labels, plus the view transform.
package render

import (
	"flowdraft/internal/flow"
	"flowdraft/internal/vector"
)

// Roundness of trigger corners as a fraction of the half short side.
const Roundness = 0.75

// ShapeFunc builds a silhouette of size sz centered at the origin.
type ShapeFunc func(sz vector.Size, f vector.Fill, s vector.Stroke) vector.Node

var shapes = map[flow.ShapeKind]ShapeFunc{
	flow.Trigger: func(sz vector.Size, f vector.Fill, s vector.Stroke) vector.Node {
		return vector.NewRoundedRect(vector.Centered(vector.Pt{}, sz), Roundness*min(sz.W, sz.H)/2, f, s)
	},
	flow.Condition: func(sz vector.Size, f vector.Fill, s vector.Stroke) vector.Node {
		return vector.NewDiamond(vector.Centered(vector.Pt{}, sz), f, s)
	},
	flow.Operation: func(sz vector.Size, f vector.Fill, s vector.Stroke) vector.Node {
		return vector.NewRect(vector.Centered(vector.Pt{}, sz), f, s)
	},
}

// Node returns the styled silhouette of b placed at its center.
// Unknown kinds fall back to a plain rectangle.
func Node(b flow.Box, th Theme) vector.Node {
	build, ok := shapes[b.Kind]
	if !ok {
		build = shapes[flow.Operation]
	}
	n := build(b.Size,
		vector.Fill{Color: th.BoxFill, Enabled: true},
		vector.Stroke{Color: th.BoxStroke, Width: th.StrokeWidth, Join: vector.JoinRound, Enabled: th.StrokeWidth > 0})
	n.SetTransform(vector.Translate(b.Center.X, b.Center.Y))
	return n
}

// Outline returns the silhouette polygon of b in scene coordinates.
func Outline(b flow.Box) []vector.Pt { return Node(b, Theme{}).Outline() }
