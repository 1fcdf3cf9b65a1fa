/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "testing"

func TestRectNode_HitAndBounds(t *testing.T) {
	n := NewRect(R(-40, -40, 80, 80), Fill{Enabled: true, Color: White}, Stroke{Enabled: true, Width: 1})
	n.SetTransform(Translate(160, 320))
	if !n.Hit(Pt{160, 320}) || !n.Hit(Pt{120, 280}) {
		t.Fatalf("expected hit after translation")
	}
	if n.Hit(Pt{0, 0}) {
		t.Fatalf("unexpected hit at origin")
	}
	b := n.Bounds()
	if b.X != 120 || b.Y != 280 || b.W != 80 || b.H != 80 {
		t.Fatalf("unexpected bounds: %+v", b)
	}
}

func TestRoundedRectNode_HitAndOutline(t *testing.T) {
	n := NewRoundedRect(R(0, 0, 100, 100), 20, Fill{Enabled: true}, Stroke{})
	if !n.Hit(Pt{10, 10}) {
		t.Fatalf("expected hit inside corner arc")
	}
	if n.Hit(Pt{1, 1}) {
		t.Fatalf("expected miss in the cut-off corner")
	}
	if n.Hit(Pt{-5, -5}) {
		t.Fatalf("expected miss outside")
	}
	out := n.Outline()
	if len(out) != 4*(arcSteps+1) {
		t.Fatalf("unexpected outline length %d", len(out))
	}
	b := BoundsOf(out...).Round(3)
	if b.X != 0 || b.Y != 0 || b.W != 100 || b.H != 100 {
		t.Fatalf("outline bounds should match rect, got %+v", b)
	}
}

func TestRoundedRectRadiusClamped(t *testing.T) {
	n := NewRoundedRect(R(0, 0, 80, 40), 75, Fill{}, Stroke{})
	if n.Radius() != 20 {
		t.Fatalf("radius should clamp to half the short side, got %v", n.Radius())
	}
}

func TestDiamondHit(t *testing.T) {
	n := NewDiamond(R(-40, -40, 80, 80), Fill{Enabled: true}, Stroke{})
	if !n.Hit(Pt{0, 0}) || !n.Hit(Pt{0, -40}) || !n.Hit(Pt{19, 19}) {
		t.Fatalf("expected hits inside and on the diamond")
	}
	if n.Hit(Pt{35, 35}) {
		t.Fatalf("corner of the bounding box is outside the diamond")
	}
	if out := n.Outline(); len(out) != 4 || !out[1].Eq(Pt{40, 0}) {
		t.Fatalf("unexpected diamond outline: %+v", out)
	}
}

func TestGroupHitTopMost(t *testing.T) {
	a := NewRect(R(0, 0, 10, 10), Fill{}, Stroke{})
	b := NewRect(R(100, 0, 10, 10), Fill{}, Stroke{})
	g := NewGroup(a, b)
	if !g.Hit(Pt{105, 5}) || g.Hit(Pt{50, 5}) {
		t.Fatalf("group hit mismatch")
	}
	if bb := g.Bounds(); bb.W != 110 || bb.H != 10 {
		t.Fatalf("unexpected group bounds: %+v", bb)
	}
}
