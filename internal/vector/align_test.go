/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "testing"

func TestAlign_Edges(t *testing.T) {
	other := R(0, 0, 80, 80)
	moving := R(3, 204, 80, 80) // left edge 3 away, far below
	got, guides := Align(moving, []Rect{other}, AlignOptions{Threshold: 6, Edges: true})
	if got.X != 0 {
		t.Fatalf("expected X aligned to 0, got %v", got.X)
	}
	if got.Y != 204 {
		t.Fatalf("Y should be untouched, got %v", got.Y)
	}
	if len(guides) != 1 || guides[0].Axis != Vertical || guides[0].Pos != 0 {
		t.Fatalf("expected one vertical guide at x=0, got %+v", guides)
	}
	if guides[0].From.Y != 0 || guides[0].To.Y != 284 {
		t.Fatalf("guide should span both boxes: %+v", guides[0])
	}
}

func TestAlign_Centers(t *testing.T) {
	other := R(0, 0, 80, 80)
	moving := R(162, 2, 80, 80)
	got, guides := Align(moving, []Rect{other}, AlignOptions{Threshold: 5, Centers: true})
	if got.Y != 0 {
		t.Fatalf("expected centers aligned vertically, got Y=%v", got.Y)
	}
	if got.X != 162 {
		t.Fatalf("X should stay, got %v", got.X)
	}
	if len(guides) != 1 || guides[0].Axis != Horizontal || !guides[0].Center {
		t.Fatalf("expected one horizontal center guide, got %+v", guides)
	}
}

func TestAlign_NothingInRange(t *testing.T) {
	moving := R(500, 500, 80, 80)
	got, guides := Align(moving, []Rect{R(0, 0, 80, 80)}, AlignOptions{Edges: true, Centers: true})
	if got != moving || len(guides) != 0 {
		t.Fatalf("expected no alignment, got %+v %+v", got, guides)
	}
}
