/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package undo

import (
	"testing"
	"time"

	"flowdraft/internal/vector"
)

func TestUndoRedoBasic(t *testing.T) {
	h := NewHistory(Config{MaxDepth: 10, MinInterval: 10 * time.Millisecond})
	t0 := time.Now()
	h.Push(Move{Box: 1, From: vector.P(0, 0), To: vector.P(20, 0), TS: t0})
	h.Push(Move{Box: 1, From: vector.P(20, 0), To: vector.P(40, 0), TS: t0.Add(20 * time.Millisecond)})
	if u, r := h.Stats(); u != 2 || r != 0 {
		t.Fatalf("expected 2/0 entries, got %d/%d", u, r)
	}
	m, ok := h.Undo()
	if !ok || !m.From.Eq(vector.P(20, 0)) {
		t.Fatalf("undo expected the second move, got ok=%v %+v", ok, m)
	}
	m, ok = h.Redo()
	if !ok || !m.To.Eq(vector.P(40, 0)) {
		t.Fatalf("redo expected the second move, got ok=%v %+v", ok, m)
	}
	if _, ok := h.Redo(); ok {
		t.Fatalf("redo stack should be empty")
	}
}

func TestCoalesceSameBox(t *testing.T) {
	h := NewHistory(Config{MinInterval: 50 * time.Millisecond})
	t0 := time.Now()
	h.Push(Move{Box: 2, From: vector.P(0, 0), To: vector.P(20, 0), TS: t0})
	h.Push(Move{Box: 2, From: vector.P(20, 0), To: vector.P(40, 0), TS: t0.Add(10 * time.Millisecond)})
	h.Push(Move{Box: 2, From: vector.P(40, 0), To: vector.P(60, 20), TS: t0.Add(40 * time.Millisecond)})
	if u, _ := h.Stats(); u != 1 {
		t.Fatalf("expected one coalesced entry, got %d", u)
	}
	m, _ := h.Undo()
	if !m.From.Eq(vector.P(0, 0)) || !m.To.Eq(vector.P(60, 20)) {
		t.Fatalf("coalesced move should span the whole drag, got %+v", m)
	}
}

func TestNoCoalesceAcrossBoxes(t *testing.T) {
	h := NewHistory(Config{MinInterval: time.Second})
	t0 := time.Now()
	h.Push(Move{Box: 1, TS: t0})
	h.Push(Move{Box: 2, TS: t0})
	if u, _ := h.Stats(); u != 2 {
		t.Fatalf("different boxes must not coalesce, got %d", u)
	}
}

func TestPushClearsRedo(t *testing.T) {
	h := NewHistory(Config{MinInterval: time.Millisecond})
	t0 := time.Now()
	h.Push(Move{Box: 1, TS: t0})
	h.Undo()
	if _, r := h.Stats(); r != 1 {
		t.Fatalf("expected one redo entry")
	}
	h.Push(Move{Box: 3, TS: t0.Add(time.Second)})
	if _, r := h.Stats(); r != 0 {
		t.Fatalf("push should clear redo, got %d", r)
	}
}

func TestMaxDepth(t *testing.T) {
	h := NewHistory(Config{MaxDepth: 3, MinInterval: time.Millisecond})
	t0 := time.Now()
	for i := 0; i < 10; i++ {
		h.Push(Move{Box: 1, To: vector.P(float32(i), 0), TS: t0.Add(time.Duration(i) * time.Second)})
	}
	if u, _ := h.Stats(); u != 3 {
		t.Fatalf("expected depth cap 3, got %d", u)
	}
	m, _ := h.Undo()
	if m.To.X != 9 {
		t.Fatalf("newest entry should survive the cap, got %+v", m)
	}
}

func TestForgetAndClear(t *testing.T) {
	h := NewHistory(Config{MinInterval: time.Millisecond})
	t0 := time.Now()
	h.Push(Move{Box: 1, TS: t0})
	h.Push(Move{Box: 2, TS: t0.Add(time.Second)})
	h.Push(Move{Box: 1, TS: t0.Add(2 * time.Second)})
	h.Forget(1)
	if u, _ := h.Stats(); u != 1 {
		t.Fatalf("expected only box 2 left, got %d", u)
	}
	h.Clear()
	if u, r := h.Stats(); u != 0 || r != 0 {
		t.Fatalf("clear should empty both stacks")
	}
	if inv := (Move{Box: 1, From: vector.P(1, 2), To: vector.P(3, 4)}).Inverse(); !inv.From.Eq(vector.P(3, 4)) {
		t.Fatalf("unexpected inverse %+v", inv)
	}
}
