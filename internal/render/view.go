/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import "flowdraft/internal/vector"

const (
	ZoomStep float32 = 1.25
	MinZoom  float32 = 0.125
	MaxZoom  float32 = 8
)

// View maps scene coordinates to screen coordinates: screen = scene*Zoom + Offset.
// It is owned by whoever displays the diagram and passed to render calls.
type View struct {
	Zoom   float32
	Offset vector.Pt
}

func NewView() View { return View{Zoom: 1} }

func (v View) Transform() vector.Affine2D {
	return vector.Translate(v.Offset.X, v.Offset.Y).Mul(vector.Scale(v.Zoom, v.Zoom))
}

func (v View) ToScreen(p vector.Pt) vector.Pt { return v.Transform().Apply(p) }
func (v View) ToScene(p vector.Pt) vector.Pt  { return v.Transform().Invert().Apply(p) }

// ZoomIn scales up by ZoomStep around the screen point anchor. It refuses
// (returns false) when the result would leave (MinZoom, MaxZoom).
func (v *View) ZoomIn(anchor vector.Pt) bool { return v.zoomBy(ZoomStep, anchor) }

// ZoomOut is the inverse of ZoomIn.
func (v *View) ZoomOut(anchor vector.Pt) bool { return v.zoomBy(1/ZoomStep, anchor) }

func (v *View) zoomBy(f float32, anchor vector.Pt) bool {
	z := v.Zoom * f
	if z <= MinZoom || z >= MaxZoom {
		return false
	}
	// keep the scene point under anchor fixed
	p := v.ToScene(anchor)
	v.Zoom = z
	v.Offset = anchor.Sub(p.Mul(z))
	return true
}

// Pan shifts the view by a screen-space delta.
func (v *View) Pan(d vector.Pt) { v.Offset = v.Offset.Add(d) }

// Fit centers r in a screen of size sz at the largest allowed zoom that shows all of it.
func (v *View) Fit(r vector.Rect, sz vector.Size) {
	if r.Empty() || sz.W <= 0 || sz.H <= 0 {
		return
	}
	z := min(sz.W/r.W, sz.H/r.H)
	z = min(max(z, MinZoom*ZoomStep), MaxZoom/ZoomStep)
	c := r.Center()
	v.Zoom = z
	v.Offset = vector.Pt{X: sz.W/2 - c.X*z, Y: sz.H/2 - c.Y*z}
}
