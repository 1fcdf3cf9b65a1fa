/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package ui hosts the desktop editor. The window itself needs the fyne
// build tag and cgo; everything else here builds headless.
package ui

import (
	"fmt"
	"strings"

	"flowdraft/internal/config"
	"flowdraft/internal/editor"
	"flowdraft/internal/flow"
	"flowdraft/internal/undo"
)

// Diagram names accepted by Options.Diagram.
const (
	DiagramSample  = "sample"
	DiagramGallery = "gallery"
	DiagramEmpty   = "empty"
)

// Options configures Run.
type Options struct {
	Config config.AppConfig
	// Diagram picks the initial content: sample (default), gallery or empty.
	Diagram string
}

// NewSession builds the editing session the window starts with.
func NewSession(opts Options) (*editor.Session, error) {
	th, err := opts.Config.Theme()
	if err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}
	d, err := newDiagram(opts.Diagram, opts.Config.DiagramOptions())
	if err != nil {
		return nil, err
	}
	return editor.NewSession(d, undo.NewHistory(undo.Config{}), th), nil
}

func newDiagram(name string, o flow.Options) (*flow.Diagram, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", DiagramSample:
		return flow.NewSample(o), nil
	case DiagramGallery:
		return flow.NewGallery(o), nil
	case DiagramEmpty:
		return flow.New(o), nil
	}
	return nil, fmt.Errorf("unknown diagram %q (want %s, %s or %s)", name, DiagramSample, DiagramGallery, DiagramEmpty)
}

// statusText describes the selection, or the diagram when nothing is selected.
func statusText(s *editor.Session) string {
	d := s.Diagram()
	id, ok := s.Selected()
	if !ok {
		b, wi := d.Counts()
		return fmt.Sprintf("%d boxes, %d wires, zoom %.0f%%", b, wi, s.View().Zoom*100)
	}
	box, _ := d.Box(id)
	var kinds []string
	for _, wid := range d.WiresOf(id) {
		if w, ok := d.Wire(wid); ok {
			kinds = append(kinds, fmt.Sprintf("#%d %s", w.ID, w.Route.Kind()))
		}
	}
	title := box.Title
	if title == "" {
		title = box.Kind.String()
	}
	if len(kinds) == 0 {
		return fmt.Sprintf("%s at %v", title, box.Center)
	}
	return fmt.Sprintf("%s at %v: %s", title, box.Center, strings.Join(kinds, ", "))
}
