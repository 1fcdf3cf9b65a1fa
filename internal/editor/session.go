/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor ties a diagram to interactive editing: dragging boxes,
// undo/redo of moves, selection and the view transform.
package editor

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"flowdraft/internal/flow"
	applog "flowdraft/internal/log"
	"flowdraft/internal/render"
	"flowdraft/internal/undo"
	"flowdraft/internal/vector"
)

var ErrNoDrag = errors.New("no drag in progress")

type drag struct {
	box   flow.BoxID
	grab  vector.Pt // box center minus pointer
	start vector.Pt
}

// Session is one editing context. All coordinates are scene coordinates
// unless a method says otherwise. It is safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	diagram  *flow.Diagram
	history  *undo.History
	view     render.View
	theme    render.Theme
	align    vector.AlignOptions
	drag     *drag
	selected flow.BoxID

	now func() time.Time
	log *slog.Logger
}

func NewSession(d *flow.Diagram, h *undo.History, th render.Theme) *Session {
	if h == nil {
		h = undo.NewHistory(undo.Config{})
	}
	return &Session{
		diagram:  d,
		history:  h,
		view:     render.NewView(),
		theme:    th,
		align:    vector.AlignOptions{Edges: true, Centers: true},
		selected: -1,
		now:      time.Now,
		log:      applog.WithComponent("editor"),
	}
}

func (s *Session) Diagram() *flow.Diagram { return s.diagram }
func (s *Session) History() *undo.History { return s.history }

func (s *Session) Theme() render.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

func (s *Session) SetTheme(th render.Theme) {
	s.mu.Lock()
	s.theme = th
	s.mu.Unlock()
}

func (s *Session) View() render.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *Session) SetView(v render.View) {
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
}

// Selected returns the selected box, if any.
func (s *Session) Selected() (flow.BoxID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected, s.selected >= 0
}

// HitTest returns the topmost box whose silhouette contains p.
func (s *Session) HitTest(p vector.Pt) (flow.BoxID, bool) {
	th := s.Theme()
	boxes := s.diagram.Boxes()
	for i := len(boxes) - 1; i >= 0; i-- {
		if render.Node(boxes[i], th).Hit(p) {
			return boxes[i].ID, true
		}
	}
	return -1, false
}

// Select hit-tests p and selects the box under it, or clears the selection.
func (s *Session) Select(p vector.Pt) (flow.BoxID, bool) {
	id, ok := s.HitTest(p)
	s.mu.Lock()
	s.selected = id
	s.mu.Unlock()
	return id, ok
}

// BeginDrag grabs the box under p. It reports false when p hits nothing.
func (s *Session) BeginDrag(p vector.Pt) bool {
	id, ok := s.Select(p)
	if !ok {
		return false
	}
	b, ok := s.diagram.Box(id)
	if !ok {
		return false
	}
	s.mu.Lock()
	s.drag = &drag{box: id, grab: b.Center.Sub(p), start: b.Center}
	s.mu.Unlock()
	return true
}

// Dragging reports whether a drag is in progress.
func (s *Session) Dragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag != nil
}

// DragTo moves the grabbed box so it keeps its grab offset to p. With grid
// snapping disabled the box aligns to nearby boxes; the returned guides show
// which edges or centers matched.
func (s *Session) DragTo(p vector.Pt) ([]vector.Guide, error) {
	s.mu.Lock()
	dr := s.drag
	align := s.align
	s.mu.Unlock()
	if dr == nil {
		return nil, ErrNoDrag
	}

	target := p.Add(dr.grab)
	var guides []vector.Guide
	if s.diagram.Options().GridSnap <= 0 {
		b, ok := s.diagram.Box(dr.box)
		if !ok {
			return nil, fmt.Errorf("drag: box %d: %w", dr.box, flow.ErrUnknownBox)
		}
		var others []vector.Rect
		for _, o := range s.diagram.Boxes() {
			if o.ID != dr.box {
				others = append(others, o.Rect())
			}
		}
		var r vector.Rect
		r, guides = vector.Align(vector.Centered(target, b.Size), others, align)
		target = r.Center()
	}
	if _, err := s.diagram.MoveBox(dr.box, target); err != nil {
		return nil, fmt.Errorf("drag: %w", err)
	}
	return guides, nil
}

// EndDrag finishes the drag and records it as a single undo entry when the
// box actually moved.
func (s *Session) EndDrag() (undo.Move, bool) {
	s.mu.Lock()
	dr := s.drag
	s.drag = nil
	s.mu.Unlock()
	if dr == nil {
		return undo.Move{}, false
	}
	b, ok := s.diagram.Box(dr.box)
	if !ok || b.Center.Eq(dr.start) {
		return undo.Move{}, false
	}
	m := undo.Move{Box: dr.box, From: dr.start, To: b.Center, TS: s.now()}
	s.history.Push(m)
	s.log.Debug("drag recorded", slog.Int("box", int(m.Box)), slog.Any("from", m.From), slog.Any("to", m.To))
	return m, true
}

// CancelDrag puts the grabbed box back where the drag started.
func (s *Session) CancelDrag() error {
	s.mu.Lock()
	dr := s.drag
	s.drag = nil
	s.mu.Unlock()
	if dr == nil {
		return ErrNoDrag
	}
	_, err := s.diagram.Place(dr.box, dr.start)
	return err
}

// Undo reverts the newest recorded move.
func (s *Session) Undo() (bool, error) {
	m, ok := s.history.Undo()
	if !ok {
		return false, nil
	}
	if _, err := s.diagram.Place(m.Box, m.From); err != nil {
		return false, fmt.Errorf("undo: %w", err)
	}
	return true, nil
}

// Redo replays the newest undone move.
func (s *Session) Redo() (bool, error) {
	m, ok := s.history.Redo()
	if !ok {
		return false, nil
	}
	if _, err := s.diagram.Place(m.Box, m.To); err != nil {
		return false, fmt.Errorf("redo: %w", err)
	}
	return true, nil
}

// RemoveSelected deletes the selected box with its wires and forgets its history.
func (s *Session) RemoveSelected() error {
	s.mu.Lock()
	id := s.selected
	s.selected = -1
	s.mu.Unlock()
	if id < 0 {
		return nil
	}
	if err := s.diagram.RemoveBox(id); err != nil {
		return err
	}
	s.history.Forget(id)
	return nil
}

// ZoomIn zooms around a screen point.
func (s *Session) ZoomIn(anchor vector.Pt) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.ZoomIn(anchor)
}

func (s *Session) ZoomOut(anchor vector.Pt) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.ZoomOut(anchor)
}

// Pan shifts the view by a screen-space delta.
func (s *Session) Pan(d vector.Pt) {
	s.mu.Lock()
	s.view.Pan(d)
	s.mu.Unlock()
}

// Scene builds the draw list with the current selection highlighted.
func (s *Session) Scene(grid bool) render.Scene {
	s.mu.Lock()
	th := s.theme
	var sel []flow.BoxID
	if s.selected >= 0 {
		sel = []flow.BoxID{s.selected}
	}
	s.mu.Unlock()
	return render.Build(s.diagram, th, render.SceneOptions{Margin: th.GridStep, Grid: grid, Selected: sel})
}
