//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// These tests need fyne and cgo. To run locally:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"flowdraft/internal/config"
	"flowdraft/internal/vector"
)

func newCanvas(t *testing.T) *FlowCanvas {
	t.Helper()
	test.NewTempApp(t)
	s, err := NewSession(Options{Config: config.Defaults()})
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	fc := NewFlowCanvas(s)
	fc.Resize(fyne.NewSize(800, 600))
	return fc
}

func TestFlowCanvasDefaults(t *testing.T) {
	fc := newCanvas(t)
	if !fc.Grid() {
		t.Fatalf("grid should be on by default")
	}
	if sz := fc.PreferredSize(); sz.Width != 800 || sz.Height != 600 {
		t.Fatalf("unexpected PreferredSize: %v", sz)
	}
	r, ok := fc.CreateRenderer().(*flowCanvasRenderer)
	if !ok {
		t.Fatalf("expected flowCanvasRenderer")
	}
	r.Layout(fyne.NewSize(800, 600))
	if r.img.Image == nil || !r.img.Visible() {
		t.Fatalf("scene should be rasterized")
	}
	b := fc.Session().Scene(true).Bounds
	if sz := r.img.Size(); sz.Width != b.W || sz.Height != b.H {
		t.Fatalf("image size %v, want scene bounds %v", sz, b)
	}
}

func TestFlowCanvasDragMovesBoxAndUndoes(t *testing.T) {
	fc := newCanvas(t)
	changes := 0
	fc.OnChange = func() { changes++ }

	// grab the trigger at its center and drag it right by 100
	fc.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(50, 0)}, Dragged: fyne.NewDelta(50, 0)})
	fc.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(100, 0)}, Dragged: fyne.NewDelta(50, 0)})
	fc.DragEnd()

	b, _ := fc.Session().Diagram().Box(0)
	if b.Center.X < 50 {
		t.Fatalf("expected trigger dragged right, got %v", b.Center)
	}
	if changes == 0 {
		t.Fatalf("OnChange should run after the drag")
	}
	if ok, err := fc.Session().Undo(); !ok || err != nil {
		t.Fatalf("undo: %v %v", ok, err)
	}
	if b, _ := fc.Session().Diagram().Box(0); !b.Center.Eq(vector.P(0, 0)) {
		t.Fatalf("undo should restore (0,0), got %v", b.Center)
	}
}

func TestFlowCanvasDragOnEmptySpacePans(t *testing.T) {
	fc := newCanvas(t)
	fc.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(530, 530)}, Dragged: fyne.NewDelta(30, 30)})
	fc.DragEnd()
	if v := fc.Session().View(); !v.Offset.Eq(vector.P(30, 30)) {
		t.Fatalf("expected pan by (30,30), got %v", v.Offset)
	}
}

func TestFlowCanvasZoomAndFit(t *testing.T) {
	fc := newCanvas(t)
	fc.ZoomIn()
	if z := fc.Session().View().Zoom; z <= 1 {
		t.Fatalf("zoom in should increase zoom, got %v", z)
	}
	fc.Scrolled(&fyne.ScrollEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(10, 10)}, Scrolled: fyne.NewDelta(0, -1)})
	fc.Fit()
	v := fc.Session().View()
	b := fc.Session().Diagram().Bounds().Inset(-40, -40)
	tl, br := v.ToScreen(b.Min()), v.ToScreen(b.Max())
	if tl.X < -0.5 || tl.Y < -0.5 || br.X > 800.5 || br.Y > 600.5 {
		t.Fatalf("fit should keep the diagram on screen: %v %v", tl, br)
	}
}

func TestRasterScaleCapsPixels(t *testing.T) {
	r := vector.R(0, 0, 4000, 4000)
	if s := rasterScale(r, 1); s != 1 {
		t.Fatalf("small rasters keep the zoom, got %v", s)
	}
	if s := rasterScale(r, 8); s >= 8 || r.W*s*r.H*s > maxCanvasPixels*1.01 {
		t.Fatalf("large rasters must be capped, got %v", s)
	}
}
