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

package ui

import (
	"image/color"
	"log/slog"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"flowdraft/internal/editor"
	"flowdraft/internal/export"
	applog "flowdraft/internal/log"
	"flowdraft/internal/vector"
)

// FlowCanvas shows a diagram and turns pointer input into editor actions:
// drag a box to move it, drag empty space to pan, scroll to zoom.
type FlowCanvas struct {
	widget.BaseWidget

	session *editor.Session
	grid    bool

	dragMode dragMode
	guides   []vector.Guide

	// OnChange runs after every edit, selection or view change.
	OnChange func()

	log *slog.Logger
}

// dragMode represents current interaction kind.
type dragMode int

const (
	dragNone dragMode = iota
	dragPan
	dragBox
)

func NewFlowCanvas(s *editor.Session) *FlowCanvas {
	fc := &FlowCanvas{session: s, grid: true, log: applog.WithComponent("ui")}
	fc.ExtendBaseWidget(fc)
	return fc
}

func (c *FlowCanvas) Session() *editor.Session { return c.session }

// SetSession swaps the edited diagram and drops any drag in progress.
func (c *FlowCanvas) SetSession(s *editor.Session) {
	c.session = s
	c.dragMode = dragNone
	c.guides = nil
	c.changed()
}

func (c *FlowCanvas) SetGrid(on bool) {
	c.grid = on
	c.Refresh()
}

func (c *FlowCanvas) Grid() bool { return c.grid }

// PreferredSize sets a decent default size for the widget.
func (c *FlowCanvas) PreferredSize() fyne.Size { return fyne.NewSize(800, 600) }

func (c *FlowCanvas) CreateRenderer() fyne.WidgetRenderer {
	th := c.session.Theme()
	bg := canvas.NewRectangle(th.Background.ToRGBA())
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScaleFastest
	r := &flowCanvasRenderer{fc: c, bg: bg, img: img}
	r.objects = []fyne.CanvasObject{bg, img}
	return r
}

func pos(p vector.Pt) fyne.Position  { return fyne.NewPos(p.X, p.Y) }
func toPt(p fyne.Position) vector.Pt { return vector.P(p.X, p.Y) }

func (c *FlowCanvas) toScene(p fyne.Position) vector.Pt {
	v := c.session.View()
	return v.ToScene(toPt(p))
}

func (c *FlowCanvas) changed() {
	c.Refresh()
	if c.OnChange != nil {
		c.OnChange()
	}
}

// Tapped selects the box under the pointer.
func (c *FlowCanvas) Tapped(e *fyne.PointEvent) {
	c.session.Select(c.toScene(e.Position))
	c.changed()
}

// Dragged moves the grabbed box, or pans when the drag started on empty space.
func (c *FlowCanvas) Dragged(e *fyne.DragEvent) {
	if c.dragMode == dragNone {
		start := c.toScene(e.Position.Subtract(e.Dragged))
		if c.session.BeginDrag(start) {
			c.dragMode = dragBox
		} else {
			c.dragMode = dragPan
		}
	}
	switch c.dragMode {
	case dragPan:
		c.session.Pan(vector.P(e.Dragged.DX, e.Dragged.DY))
	case dragBox:
		guides, err := c.session.DragTo(c.toScene(e.Position))
		if err != nil {
			c.log.Warn("drag failed", slog.Any("err", err))
			c.dragMode = dragNone
		}
		c.guides = guides
	}
	c.Refresh()
}

func (c *FlowCanvas) DragEnd() {
	if c.dragMode == dragBox {
		if m, ok := c.session.EndDrag(); ok {
			c.log.Info("box moved", slog.Int("box", int(m.Box)), slog.Any("to", m.To))
		}
	}
	c.dragMode = dragNone
	c.guides = nil
	c.changed()
}

// Scrolled zooms around the pointer.
func (c *FlowCanvas) Scrolled(e *fyne.ScrollEvent) {
	anchor := toPt(e.Position)
	if e.Scrolled.DY > 0 {
		c.session.ZoomIn(anchor)
	} else if e.Scrolled.DY < 0 {
		c.session.ZoomOut(anchor)
	}
	c.changed()
}

// ZoomIn and ZoomOut zoom around the widget center.
func (c *FlowCanvas) ZoomIn() {
	c.session.ZoomIn(c.center())
	c.changed()
}

func (c *FlowCanvas) ZoomOut() {
	c.session.ZoomOut(c.center())
	c.changed()
}

// Fit zooms so the whole diagram is visible.
func (c *FlowCanvas) Fit() {
	sz := c.Size()
	if sz.Width <= 0 || sz.Height <= 0 {
		sz = c.PreferredSize()
	}
	v := c.session.View()
	v.Fit(c.session.Diagram().Bounds().Inset(-40, -40), vector.Size{W: sz.Width, H: sz.Height})
	c.session.SetView(v)
	c.changed()
}

// maxCanvasPixels caps the raster behind the canvas. Beyond it the image is
// drawn at a lower resolution and stretched.
const maxCanvasPixels = 16 << 20

func rasterScale(r vector.Rect, zoom float32) float32 {
	area := r.W * r.H * zoom * zoom
	if area <= maxCanvasPixels || area <= 0 {
		return zoom
	}
	return float32(math.Sqrt(float64(maxCanvasPixels / (r.W * r.H))))
}

func (c *FlowCanvas) center() vector.Pt {
	sz := c.Size()
	return vector.P(sz.Width/2, sz.Height/2)
}

// flowCanvasRenderer rasterizes the editor scene once per refresh and places
// the image with the view transform. Alignment guides are drawn as lines on top.
type flowCanvasRenderer struct {
	fc      *FlowCanvas
	objects []fyne.CanvasObject
	bg      *canvas.Rectangle
	img     *canvas.Image
	guides  []*canvas.Line
}

func (r *flowCanvasRenderer) Destroy()                     {}
func (r *flowCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *flowCanvasRenderer) MinSize() fyne.Size           { return fyne.NewSize(200, 150) }
func (r *flowCanvasRenderer) Refresh()                     { r.Layout(r.fc.Size()); canvas.Refresh(r.fc) }

func (r *flowCanvasRenderer) Layout(size fyne.Size) {
	s := r.fc.session
	th := s.Theme()
	r.bg.FillColor = th.Background.ToRGBA()
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))

	v := s.View()
	scene := s.Scene(r.fc.grid)
	img, err := export.Rasterize(scene, export.PNGOptions{Scale: rasterScale(scene.Bounds, v.Zoom)})
	if err != nil {
		r.fc.log.Debug("scene not drawn", slog.Any("err", err))
		r.img.Hide()
	} else {
		r.img.Image = img
		r.img.Move(pos(v.ToScreen(scene.Bounds.Min())))
		r.img.Resize(fyne.NewSize(scene.Bounds.W*v.Zoom, scene.Bounds.H*v.Zoom))
		r.img.Show()
		r.img.Refresh()
	}

	for len(r.guides) < len(r.fc.guides) {
		ln := canvas.NewLine(color.RGBA{R: 255, G: 0, B: 255, A: 255})
		ln.StrokeWidth = 1
		r.guides = append(r.guides, ln)
		r.objects = append(r.objects, ln)
	}
	for i, ln := range r.guides {
		if i >= len(r.fc.guides) {
			ln.Hide()
			continue
		}
		g := r.fc.guides[i]
		ln.Position1 = pos(v.ToScreen(g.From))
		ln.Position2 = pos(v.ToScreen(g.To))
		ln.Show()
		ln.Refresh()
	}
}
