/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package undo

import (
	"sync"
	"time"

	"flowdraft/internal/flow"
	"flowdraft/internal/vector"
)

// Move records one box displacement. TS is when the move finished.
type Move struct {
	Box  flow.BoxID
	From vector.Pt
	To   vector.Pt
	TS   time.Time
}

// Inverse returns the move that restores From.
func (m Move) Inverse() Move { return Move{Box: m.Box, From: m.To, To: m.From, TS: m.TS} }

// Config controls depth and coalescing.
type Config struct {
	// MaxDepth caps the undo stack; the oldest entries are dropped first.
	MaxDepth int
	// MinInterval merges consecutive moves of the same box recorded within the
	// interval into one entry.
	MinInterval time.Duration
}

// History is an undo/redo stack of box moves. It is safe for concurrent use.
type History struct {
	cfg  Config
	mu   sync.Mutex
	undo []Move
	redo []Move
}

func NewHistory(cfg Config) *History {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 100
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &History{cfg: cfg}
}

// Push records m. A move of the same box within MinInterval of the previous
// entry extends it instead: the entry keeps its From and takes the new To.
// Any push clears the redo stack.
func (h *History) Push(m Move) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.redo = nil
	if n := len(h.undo); n > 0 {
		last := &h.undo[n-1]
		if last.Box == m.Box && m.TS.Sub(last.TS) < h.cfg.MinInterval {
			last.To = m.To
			last.TS = m.TS
			return
		}
	}
	h.undo = append(h.undo, m)
	if over := len(h.undo) - h.cfg.MaxDepth; over > 0 {
		h.undo = append([]Move{}, h.undo[over:]...)
	}
}

// Undo pops the newest move and returns it; apply its From to revert.
func (h *History) Undo() (Move, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undo) == 0 {
		return Move{}, false
	}
	m := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, m)
	return m, true
}

// Redo pops the newest undone move; apply its To to replay.
func (h *History) Redo() (Move, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.redo) == 0 {
		return Move{}, false
	}
	m := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, m)
	return m, true
}

// Forget drops every entry that refers to box, e.g. after it was removed.
func (h *History) Forget(box flow.BoxID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	keep := func(s []Move) []Move {
		out := s[:0]
		for _, m := range s {
			if m.Box != box {
				out = append(out, m)
			}
		}
		return out
	}
	h.undo = keep(h.undo)
	h.redo = keep(h.redo)
}

func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo, h.redo = nil, nil
}

// Stats returns the stack sizes for diagnostics.
func (h *History) Stats() (undo, redo int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo), len(h.redo)
}
