/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package flow

import (
	"flowdraft/internal/route"
	"flowdraft/internal/vector"
)

// Report is a read-only JSON snapshot of a diagram and its computed routes.
// It is an export format; diagrams are not loaded back from it.
type Report struct {
	ID      string        `json:"id"`
	Options ReportOptions `json:"options"`
	Boxes   []BoxReport   `json:"boxes"`
	Wires   []WireReport  `json:"wires"`
}

type ReportOptions struct {
	MinLen   float32 `json:"minLen"`
	GridSnap float32 `json:"gridSnap"`
}

type Point struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

type BoxReport struct {
	ID     int       `json:"id"`
	Kind   ShapeKind `json:"kind"`
	Title  string    `json:"title,omitempty"`
	Center Point     `json:"center"`
	Width  float32   `json:"width"`
	Height float32   `json:"height"`
}

type EndpointReport struct {
	Box    int          `json:"box"`
	Socket route.Socket `json:"socket"`
}

type WireReport struct {
	ID     int            `json:"id"`
	From   EndpointReport `json:"from"`
	To     EndpointReport `json:"to"`
	Mode   Mode           `json:"mode"`
	Title  string         `json:"title,omitempty"`
	Kind   route.Kind     `json:"kind"`
	Points []Point        `json:"points"`
	Arrow  []Point        `json:"arrow"`
}

func (d *Diagram) Report() Report {
	opts := d.Options()
	r := Report{
		ID:      d.ID().String(),
		Options: ReportOptions{MinLen: opts.MinLen, GridSnap: opts.GridSnap},
		Boxes:   []BoxReport{},
		Wires:   []WireReport{},
	}
	for _, b := range d.Boxes() {
		r.Boxes = append(r.Boxes, BoxReport{
			ID:     int(b.ID),
			Kind:   b.Kind,
			Title:  b.Title,
			Center: toPoint(b.Center),
			Width:  b.Size.W,
			Height: b.Size.H,
		})
	}
	for _, w := range d.Wires() {
		arrow := w.Route.Arrowhead()
		r.Wires = append(r.Wires, WireReport{
			ID:     int(w.ID),
			From:   EndpointReport{Box: int(w.From.Box), Socket: w.From.Socket},
			To:     EndpointReport{Box: int(w.To.Box), Socket: w.To.Socket},
			Mode:   w.Mode,
			Title:  w.Title,
			Kind:   w.Route.Kind(),
			Points: toPoints(w.Route.Waypoints()),
			Arrow:  toPoints(arrow[:]),
		})
	}
	return r
}

// TryReport is Report for callers that may run while a panicking mutation
// still holds the diagram lock, such as crash handlers. It reports false
// instead of blocking.
func (d *Diagram) TryReport() (Report, bool) {
	if !d.mu.TryRLock() {
		return Report{}, false
	}
	d.mu.RUnlock()
	return d.Report(), true
}

func toPoint(p vector.Pt) Point { return Point{X: p.X, Y: p.Y} }

func toPoints(pts []vector.Pt) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = toPoint(p)
	}
	return out
}
