/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"testing"

	"flowdraft/internal/flow"
	"flowdraft/internal/vector"
)

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#001800")
	if err != nil || c != vector.RGB(0, 24, 0) {
		t.Fatalf("ParseHex: %v %v", c, err)
	}
	if c, err := ParseHex("c0c0c0"); err != nil || c != vector.RGB(192, 192, 192) {
		t.Fatalf("ParseHex without #: %v %v", c, err)
	}
	if _, err := ParseHex("#nothex"); err == nil {
		t.Fatalf("expected error for invalid hex")
	}
}

func TestWithPalette(t *testing.T) {
	th, err := DefaultTheme().WithPalette(Palette{Background: "#ffffff", True: "#00ff00"})
	if err != nil {
		t.Fatalf("palette: %v", err)
	}
	if th.Background != vector.RGB(255, 255, 255) || th.ModeColor(flow.True) != vector.RGB(0, 255, 0) {
		t.Fatalf("palette not applied: %+v", th)
	}
	if th.BoxFill != DefaultTheme().BoxFill {
		t.Fatalf("empty entries must keep defaults")
	}
	if _, err := DefaultTheme().WithPalette(Palette{Grid: "zz"}); err == nil {
		t.Fatalf("expected error for bad palette entry")
	}
}

func TestThemeByName(t *testing.T) {
	if th, err := ThemeByName("LIGHT"); err != nil || th.Name != "light" {
		t.Fatalf("ThemeByName: %v %v", th.Name, err)
	}
	if _, err := ThemeByName("neon"); err == nil {
		t.Fatalf("expected unknown theme error")
	}
}

func TestHighlightLightens(t *testing.T) {
	c := vector.RGB(0, 0, 64)
	h := Highlight(c, 0.5)
	if int(h.R)+int(h.G)+int(h.B) <= 64 {
		t.Fatalf("highlight should be lighter, got %+v", h)
	}
	if Highlight(c, 0) != c {
		t.Fatalf("t=0 should keep the color, got %+v", Highlight(c, 0))
	}
	if w := Highlight(c, 1); w.R < 250 || w.G < 250 || w.B < 250 {
		t.Fatalf("t=1 should reach white, got %+v", w)
	}
}

func TestShapeStrategy(t *testing.T) {
	box := func(k flow.ShapeKind) flow.Box {
		return flow.Box{Kind: k, Center: vector.P(100, 50), Size: vector.Size{W: 80, H: 80}}
	}
	rr, ok := Node(box(flow.Trigger), DefaultTheme()).(*vector.RoundedRectNode)
	if !ok || rr.Radius() != 30 {
		t.Fatalf("trigger should be a rounded rect with radius 30, got %T", Node(box(flow.Trigger), DefaultTheme()))
	}
	if _, ok := Node(box(flow.Condition), DefaultTheme()).(*vector.PolygonNode); !ok {
		t.Fatalf("condition should be a diamond polygon")
	}
	op := Node(box(flow.Operation), DefaultTheme())
	if _, ok := op.(*vector.RectNode); !ok {
		t.Fatalf("operation should be a plain rect")
	}
	if b := op.Bounds(); b != vector.R(60, 10, 80, 80) {
		t.Fatalf("silhouette should sit at the box center, got %+v", b)
	}
	d := Outline(box(flow.Condition))
	if len(d) != 4 || !d[0].Eq(vector.P(100, 10)) || !d[1].Eq(vector.P(140, 50)) {
		t.Fatalf("unexpected diamond outline %v", d)
	}
	if !Node(box(flow.Condition), DefaultTheme()).Hit(vector.P(100, 50)) {
		t.Fatalf("center should hit")
	}
}

func TestViewZoomLimits(t *testing.T) {
	v := NewView()
	in := 0
	for v.ZoomIn(vector.Pt{}) {
		in++
	}
	if in != 9 || v.Zoom >= MaxZoom {
		t.Fatalf("expected 9 zoom-in steps below the max, got %d (zoom %v)", in, v.Zoom)
	}
	v = NewView()
	out := 0
	for v.ZoomOut(vector.Pt{}) {
		out++
	}
	if out != 9 || v.Zoom <= MinZoom {
		t.Fatalf("expected 9 zoom-out steps above the min, got %d (zoom %v)", out, v.Zoom)
	}
}

func TestViewRoundTripAndAnchor(t *testing.T) {
	v := NewView()
	v.Pan(vector.P(100, 50))
	anchor := vector.P(300, 200)
	before := v.ToScene(anchor)
	if !v.ZoomIn(anchor) {
		t.Fatalf("zoom in refused")
	}
	if after := v.ToScene(anchor).Round(3); !after.Eq(before.Round(3)) {
		t.Fatalf("anchor should stay fixed: %v vs %v", before, after)
	}
	p := vector.P(12, -34)
	if got := v.ToScene(v.ToScreen(p)).Round(3); !got.Eq(p) {
		t.Fatalf("round trip mismatch: %v", got)
	}
}

func TestViewFit(t *testing.T) {
	v := NewView()
	v.Fit(vector.R(0, 0, 200, 100), vector.Size{W: 400, H: 400})
	if v.Zoom != 2 {
		t.Fatalf("expected zoom 2, got %v", v.Zoom)
	}
	if c := v.ToScreen(vector.P(100, 50)); !c.Eq(vector.P(200, 200)) {
		t.Fatalf("rect center should map to screen center, got %v", c)
	}
}

func TestBuildScene(t *testing.T) {
	d := flow.NewSample(flow.DefaultOptions())
	s := Build(d, DefaultTheme(), SceneOptions{Margin: 20, Grid: true, Selected: []flow.BoxID{1}})
	if len(s.Boxes) != 4 || len(s.Wires) != 3 {
		t.Fatalf("expected 4 boxes and 3 wires, got %d/%d", len(s.Boxes), len(s.Wires))
	}
	if s.Bounds != vector.R(-60, -60, 280, 440) {
		t.Fatalf("unexpected bounds %+v", s.Bounds)
	}
	if len(s.GridDots) != 15*23 {
		t.Fatalf("unexpected grid dot count %d", len(s.GridDots))
	}
	if s.Wires[1].Color != flow.True.Color() || s.Wires[2].Color != flow.False.Color() {
		t.Fatalf("wire colors should follow modes")
	}
	if !s.Boxes[1].Selected || s.Boxes[1].Stroke == DefaultTheme().BoxStroke || s.Boxes[0].Selected {
		t.Fatalf("selection not applied: %+v", s.Boxes[1])
	}
	if s.Boxes[2].Title != "Action 1" {
		t.Fatalf("titles should carry over")
	}
	// straight wire from (0,200) to (0,280)
	if at := s.Wires[1].TitleAt; !at.Eq(vector.P(0, 240)) {
		t.Fatalf("unexpected label anchor %v", at)
	}
}
