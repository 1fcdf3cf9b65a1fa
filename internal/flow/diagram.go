/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package flow holds the diagram aggregate: boxes, wires and the re-route
// cascade that keeps wire geometry in sync with box positions.
package flow

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	applog "flowdraft/internal/log"
	"flowdraft/internal/route"
	"flowdraft/internal/vector"
)

// Options configures a diagram. Zero fields fall back to DefaultOptions.
type Options struct {
	// MinLen is the routing clearance handed to the router.
	MinLen float32
	// GridSnap rounds moved box centers to multiples of this step; <= 0 disables snapping.
	GridSnap float32
	// Scene bounds box centers.
	Scene   vector.Rect
	BoxSize vector.Size

	ArrowLength    float32
	ArrowHalfWidth float32
}

func DefaultOptions() Options {
	return Options{
		MinLen:         route.DefaultMinLen,
		GridSnap:       20,
		Scene:          vector.R(-5000, -500, 10000, 10000),
		BoxSize:        vector.Size{W: 80, H: 80},
		ArrowLength:    route.DefaultArrowLength,
		ArrowHalfWidth: route.DefaultArrowHalfWidth,
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.MinLen <= 0 {
		o.MinLen = def.MinLen
	}
	if o.Scene.Empty() {
		o.Scene = def.Scene
	}
	if o.BoxSize.W <= 0 || o.BoxSize.H <= 0 {
		o.BoxSize = def.BoxSize
	}
	return o
}

// RouteOptions is the router configuration derived from o.
func (o Options) RouteOptions() route.Options {
	return route.Options{MinLen: o.MinLen, ArrowLength: o.ArrowLength, ArrowHalfWidth: o.ArrowHalfWidth}
}

// ChangeKind tells subscribers what happened.
type ChangeKind uint8

const (
	BoxAdded ChangeKind = iota + 1
	BoxMoved
	BoxRemoved
	WireAdded
	WireRerouted
	WireRemoved
)

func (k ChangeKind) String() string {
	switch k {
	case BoxAdded:
		return "box-added"
	case BoxMoved:
		return "box-moved"
	case BoxRemoved:
		return "box-removed"
	case WireAdded:
		return "wire-added"
	case WireRerouted:
		return "wire-rerouted"
	case WireRemoved:
		return "wire-removed"
	}
	return fmt.Sprintf("change(%d)", uint8(k))
}

// Change is delivered to subscribers after the diagram lock is released.
// Box is -1 for wire-only changes; Wires lists the affected wires.
type Change struct {
	Kind  ChangeKind
	Box   BoxID
	Wires []WireID
}

// Diagram owns boxes and wires. Boxes and wires reference each other by ID;
// removed entries leave nil tombstones so IDs stay stable.
// A Diagram is safe for concurrent use.
type Diagram struct {
	mu    sync.RWMutex
	id    uuid.UUID
	opts  Options
	boxes []*Box
	wires []*Wire

	subMu   sync.Mutex
	subs    map[int]func(Change)
	nextSub int

	log *slog.Logger
}

func New(opts Options) *Diagram {
	return &Diagram{
		id:   uuid.New(),
		opts: opts.normalized(),
		subs: map[int]func(Change){},
		log:  applog.WithComponent("flow"),
	}
}

func (d *Diagram) ID() uuid.UUID { return d.id }

func (d *Diagram) Options() Options {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.opts
}

// Subscribe registers fn for change notifications and returns a func that
// removes it. fn runs on the goroutine that made the change.
func (d *Diagram) Subscribe(fn func(Change)) (unsubscribe func()) {
	d.subMu.Lock()
	defer d.subMu.Unlock()
	id := d.nextSub
	d.nextSub++
	d.subs[id] = fn
	return func() {
		d.subMu.Lock()
		delete(d.subs, id)
		d.subMu.Unlock()
	}
}

func (d *Diagram) notify(changes ...Change) {
	d.subMu.Lock()
	fns := make([]func(Change), 0, len(d.subs))
	for i := 0; i < d.nextSub; i++ {
		if fn, ok := d.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	d.subMu.Unlock()
	for _, c := range changes {
		for _, fn := range fns {
			fn(c)
		}
	}
}

// AddBox places a new box centered at c. Creation does not snap; only moves do.
func (d *Diagram) AddBox(kind ShapeKind, c vector.Pt, title string) (BoxID, error) {
	if !kind.Valid() {
		return -1, fmt.Errorf("add box: %w", ErrInvalidShape)
	}
	d.mu.Lock()
	id := BoxID(len(d.boxes))
	d.boxes = append(d.boxes, &Box{ID: id, Kind: kind, Title: title, Center: c, Size: d.opts.BoxSize})
	d.mu.Unlock()

	d.log.Debug("box added", slog.Int("box", int(id)), slog.String("kind", kind.String()))
	d.notify(Change{Kind: BoxAdded, Box: id})
	return id, nil
}

// Connect creates a wire from the fs socket of from to the ts socket of to
// and routes it. A box may wire to itself only between distinct sockets.
func (d *Diagram) Connect(from BoxID, fs route.Socket, to BoxID, ts route.Socket, mode Mode, title string) (WireID, error) {
	if !fs.Valid() || !ts.Valid() {
		return -1, fmt.Errorf("connect %v -> %v: %w", fs, ts, ErrInvalidSocket)
	}
	if !mode.Valid() {
		return -1, fmt.Errorf("connect: %w", ErrInvalidMode)
	}
	if from == to && fs == ts {
		return -1, fmt.Errorf("connect box %d %v: %w", from, fs, ErrSelfLoop)
	}

	d.mu.Lock()
	fb, err := d.boxLocked(from)
	if err != nil {
		d.mu.Unlock()
		return -1, fmt.Errorf("connect: %w", err)
	}
	tb, err := d.boxLocked(to)
	if err != nil {
		d.mu.Unlock()
		return -1, fmt.Errorf("connect: %w", err)
	}
	id := WireID(len(d.wires))
	w := &Wire{
		ID:    id,
		From:  Endpoint{Box: from, Socket: fs},
		To:    Endpoint{Box: to, Socket: ts},
		Mode:  mode,
		Title: title,
		Route: route.Compute(*fb, fs, *tb, ts, d.opts.RouteOptions()),
	}
	d.wires = append(d.wires, w)
	fb.Out = append(fb.Out, id)
	tb.In = append(tb.In, id)
	d.mu.Unlock()

	d.log.Debug("wire added", slog.Int("wire", int(id)), slog.String("kind", w.Route.Kind().String()))
	d.notify(Change{Kind: WireAdded, Box: -1, Wires: []WireID{id}})
	return id, nil
}

// MoveBox moves a box center to p, clamped to the scene and snapped to the
// grid, then re-routes every attached wire before returning. It returns the
// position actually applied.
func (d *Diagram) MoveBox(id BoxID, p vector.Pt) (vector.Pt, error) {
	return d.move(id, p, true)
}

// Place is MoveBox without grid snapping. Undo uses it to restore positions
// that were never on the grid.
func (d *Diagram) Place(id BoxID, p vector.Pt) (vector.Pt, error) {
	return d.move(id, p, false)
}

func (d *Diagram) move(id BoxID, p vector.Pt, snap bool) (vector.Pt, error) {
	d.mu.Lock()
	b, err := d.boxLocked(id)
	if err != nil {
		d.mu.Unlock()
		return vector.Pt{}, fmt.Errorf("move box: %w", err)
	}
	p = d.opts.Scene.Clamp(p)
	if snap {
		p = p.Snap(d.opts.GridSnap)
	}
	b.Center = p
	wires := d.attachedLocked(b)
	for _, wid := range wires {
		d.rerouteLocked(d.wires[wid])
	}
	d.mu.Unlock()

	d.log.Debug("box moved", slog.Int("box", int(id)), slog.Any("pos", p), slog.Int("wires", len(wires)))
	d.notify(Change{Kind: BoxMoved, Box: id, Wires: wires})
	return p, nil
}

// MoveBy moves a box by delta; see MoveBox.
func (d *Diagram) MoveBy(id BoxID, delta vector.Pt) (vector.Pt, error) {
	d.mu.RLock()
	b, err := d.boxLocked(id)
	var c vector.Pt
	if err == nil {
		c = b.Center
	}
	d.mu.RUnlock()
	if err != nil {
		return vector.Pt{}, fmt.Errorf("move box: %w", err)
	}
	return d.MoveBox(id, c.Add(delta))
}

// Reroute recomputes one wire from the current box positions.
func (d *Diagram) Reroute(id WireID) error {
	d.mu.Lock()
	w, err := d.wireLocked(id)
	if err != nil {
		d.mu.Unlock()
		return fmt.Errorf("reroute: %w", err)
	}
	d.rerouteLocked(w)
	d.mu.Unlock()
	d.notify(Change{Kind: WireRerouted, Box: -1, Wires: []WireID{id}})
	return nil
}

// RerouteAll recomputes every wire, e.g. after routing options changed.
func (d *Diagram) RerouteAll() {
	d.mu.Lock()
	var ids []WireID
	for _, w := range d.wires {
		if w != nil {
			d.rerouteLocked(w)
			ids = append(ids, w.ID)
		}
	}
	d.mu.Unlock()
	if len(ids) > 0 {
		d.notify(Change{Kind: WireRerouted, Box: -1, Wires: ids})
	}
}

// SetRouting replaces the routing clearance and arrow size and re-routes all wires.
func (d *Diagram) SetRouting(minLen, arrowLength, arrowHalfWidth float32) {
	d.mu.Lock()
	if minLen > 0 {
		d.opts.MinLen = minLen
	}
	d.opts.ArrowLength = arrowLength
	d.opts.ArrowHalfWidth = arrowHalfWidth
	d.mu.Unlock()
	d.RerouteAll()
}

// SetGridSnap changes the snap step for subsequent moves; <= 0 disables snapping.
func (d *Diagram) SetGridSnap(step float32) {
	d.mu.Lock()
	d.opts.GridSnap = step
	d.mu.Unlock()
}

func (d *Diagram) RemoveWire(id WireID) error {
	d.mu.Lock()
	if _, err := d.wireLocked(id); err != nil {
		d.mu.Unlock()
		return fmt.Errorf("remove wire: %w", err)
	}
	d.removeWireLocked(id)
	d.mu.Unlock()
	d.notify(Change{Kind: WireRemoved, Box: -1, Wires: []WireID{id}})
	return nil
}

// RemoveBox removes a box together with every wire attached to it.
func (d *Diagram) RemoveBox(id BoxID) error {
	d.mu.Lock()
	b, err := d.boxLocked(id)
	if err != nil {
		d.mu.Unlock()
		return fmt.Errorf("remove box: %w", err)
	}
	wires := d.attachedLocked(b)
	for _, wid := range wires {
		d.removeWireLocked(wid)
	}
	d.boxes[id] = nil
	d.mu.Unlock()

	d.log.Debug("box removed", slog.Int("box", int(id)), slog.Int("wires", len(wires)))
	changes := make([]Change, 0, 2)
	if len(wires) > 0 {
		changes = append(changes, Change{Kind: WireRemoved, Box: -1, Wires: wires})
	}
	d.notify(append(changes, Change{Kind: BoxRemoved, Box: id})...)
	return nil
}

// Box returns a copy of the box.
func (d *Diagram) Box(id BoxID) (Box, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	b, err := d.boxLocked(id)
	if err != nil {
		return Box{}, false
	}
	return b.clone(), true
}

// Wire returns a copy of the wire.
func (d *Diagram) Wire(id WireID) (Wire, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	w, err := d.wireLocked(id)
	if err != nil {
		return Wire{}, false
	}
	return *w, true
}

// Boxes returns copies of all live boxes in creation order.
func (d *Diagram) Boxes() []Box {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Box, 0, len(d.boxes))
	for _, b := range d.boxes {
		if b != nil {
			out = append(out, b.clone())
		}
	}
	return out
}

// Wires returns copies of all live wires in creation order.
func (d *Diagram) Wires() []Wire {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Wire, 0, len(d.wires))
	for _, w := range d.wires {
		if w != nil {
			out = append(out, *w)
		}
	}
	return out
}

// WiresOf lists the wires attached to a box, incoming first.
func (d *Diagram) WiresOf(id BoxID) []WireID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	b, err := d.boxLocked(id)
	if err != nil {
		return nil
	}
	return d.attachedLocked(b)
}

// BoxAt returns the topmost box whose rectangle contains p. Later boxes are on top.
func (d *Diagram) BoxAt(p vector.Pt) (BoxID, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for i := len(d.boxes) - 1; i >= 0; i-- {
		if b := d.boxes[i]; b != nil && b.Rect().Contains(p) {
			return b.ID, true
		}
	}
	return -1, false
}

// Bounds covers all boxes and routes; the zero Rect for an empty diagram.
func (d *Diagram) Bounds() vector.Rect {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var (
		r    vector.Rect
		seen bool
	)
	add := func(o vector.Rect) {
		if !seen {
			r, seen = o, true
			return
		}
		r = r.Union(o)
	}
	for _, b := range d.boxes {
		if b != nil {
			add(b.Rect())
		}
	}
	for _, w := range d.wires {
		if w != nil {
			add(w.Route.Bounds())
		}
	}
	return r
}

// Counts returns the number of live boxes and wires.
func (d *Diagram) Counts() (boxes, wires int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, b := range d.boxes {
		if b != nil {
			boxes++
		}
	}
	for _, w := range d.wires {
		if w != nil {
			wires++
		}
	}
	return boxes, wires
}

func (d *Diagram) boxLocked(id BoxID) (*Box, error) {
	if id < 0 || int(id) >= len(d.boxes) || d.boxes[id] == nil {
		return nil, fmt.Errorf("box %d: %w", id, ErrUnknownBox)
	}
	return d.boxes[id], nil
}

func (d *Diagram) wireLocked(id WireID) (*Wire, error) {
	if id < 0 || int(id) >= len(d.wires) || d.wires[id] == nil {
		return nil, fmt.Errorf("wire %d: %w", id, ErrUnknownWire)
	}
	return d.wires[id], nil
}

// attachedLocked lists In then Out; a self-loop appears once.
func (d *Diagram) attachedLocked(b *Box) []WireID {
	out := make([]WireID, 0, len(b.In)+len(b.Out))
	out = append(out, b.In...)
	for _, id := range b.Out {
		if w := d.wires[id]; w != nil && w.To.Box == b.ID {
			continue
		}
		out = append(out, id)
	}
	return out
}

func (d *Diagram) rerouteLocked(w *Wire) {
	fb, tb := d.boxes[w.From.Box], d.boxes[w.To.Box]
	w.Route = route.Compute(*fb, w.From.Socket, *tb, w.To.Socket, d.opts.RouteOptions())
}

func (d *Diagram) removeWireLocked(id WireID) {
	w := d.wires[id]
	if w == nil {
		return
	}
	if fb := d.boxes[w.From.Box]; fb != nil {
		fb.Out = removeID(fb.Out, id)
	}
	if tb := d.boxes[w.To.Box]; tb != nil {
		tb.In = removeID(tb.In, id)
	}
	d.wires[id] = nil
}
