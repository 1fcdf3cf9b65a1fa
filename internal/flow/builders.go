/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package flow

import (
	"flowdraft/internal/route"
	"flowdraft/internal/vector"
)

// NewSample builds the small trigger -> condition -> two actions flow.
func NewSample(opts Options) *Diagram {
	d := New(opts)
	trigger := mustBox(d, Trigger, vector.P(0, 0), "Trigger")
	cond := mustBox(d, Condition, vector.P(0, 160), "Condition")
	act1 := mustBox(d, Operation, vector.P(0, 320), "Action 1")
	act2 := mustBox(d, Operation, vector.P(160, 320), "Action 2")
	mustWire(d, trigger, route.Bottom, cond, route.Top, Normal)
	mustWire(d, cond, route.Bottom, act1, route.Top, True)
	mustWire(d, cond, route.Right, act2, route.Left, False)
	return d
}

// GallerySatellite is one box wired from a gallery group's base.
type GallerySatellite struct {
	Name       string
	Center     vector.Pt
	FromSocket route.Socket // on the base
	ToSocket   route.Socket // on the satellite
	Mode       Mode
}

// GalleryGroup is a base trigger plus four satellites, laid out so each wire
// lands in one routing family.
type GalleryGroup struct {
	Name       string
	Base       vector.Pt
	Satellites [4]GallerySatellite
}

var Gallery = []GalleryGroup{
	{Name: "I", Base: vector.P(0, 0), Satellites: [4]GallerySatellite{
		{"I_t", vector.P(0, -120), route.Top, route.Bottom, True},
		{"I_b", vector.P(0, 120), route.Bottom, route.Top, False},
		{"I_l", vector.P(-120, 0), route.Left, route.Right, Error},
		{"I_r", vector.P(120, 0), route.Right, route.Left, Normal},
	}},
	{Name: "LI", Base: vector.P(400, 0), Satellites: [4]GallerySatellite{
		{"LI_tr", vector.P(520, -120), route.Top, route.Left, True},
		{"LI_bl", vector.P(280, 120), route.Bottom, route.Right, False},
		{"LI_tl", vector.P(280, -120), route.Left, route.Bottom, Error},
		{"LI_br", vector.P(520, 120), route.Right, route.Top, Normal},
	}},
	{Name: "LO", Base: vector.P(800, 0), Satellites: [4]GallerySatellite{
		{"LO_t", vector.P(910, -120), route.Left, route.Top, True},
		{"LO_b", vector.P(690, 120), route.Right, route.Bottom, False},
		{"LO_l", vector.P(690, -120), route.Bottom, route.Left, Error},
		{"LO_r", vector.P(910, 120), route.Top, route.Right, Normal},
	}},
	{Name: "Z", Base: vector.P(0, 400), Satellites: [4]GallerySatellite{
		{"Z_tr", vector.P(120, 280), route.Top, route.Bottom, True},
		{"Z_bl", vector.P(-120, 520), route.Bottom, route.Top, False},
		{"Z_tl", vector.P(-120, 280), route.Left, route.Right, Error},
		{"Z_br", vector.P(120, 520), route.Right, route.Left, Normal},
	}},
	{Name: "S", Base: vector.P(400, 400), Satellites: [4]GallerySatellite{
		{"S_tr", vector.P(520, 280), route.Bottom, route.Top, True},
		{"S_bl", vector.P(280, 520), route.Top, route.Bottom, False},
		{"S_tl", vector.P(280, 280), route.Right, route.Left, Error},
		{"S_br", vector.P(520, 520), route.Left, route.Right, Normal},
	}},
	{Name: "Ca", Base: vector.P(0, 800), Satellites: [4]GallerySatellite{
		{"Ca_tr", vector.P(120, 680), route.Top, route.Top, True},
		{"Ca_bl", vector.P(-120, 920), route.Bottom, route.Bottom, False},
		{"Ca_tl", vector.P(-120, 680), route.Left, route.Left, Error},
		{"Ca_br", vector.P(120, 920), route.Right, route.Right, Normal},
	}},
	{Name: "Cb", Base: vector.P(400, 800), Satellites: [4]GallerySatellite{
		{"Cb_tr", vector.P(520, 680), route.Bottom, route.Bottom, True},
		{"Cb_bl", vector.P(280, 920), route.Top, route.Top, False},
		{"Cb_tl", vector.P(280, 680), route.Right, route.Right, Error},
		{"Cb_br", vector.P(520, 920), route.Left, route.Left, Normal},
	}},
	{Name: "C (S-wrap)", Base: vector.P(800, 800), Satellites: [4]GallerySatellite{
		{"CS_tr", vector.P(880, 680), route.Bottom, route.Top, True},
		{"CS_bl", vector.P(720, 920), route.Top, route.Bottom, False},
		{"CS_tl", vector.P(680, 720), route.Right, route.Left, Error},
		{"CS_br", vector.P(920, 880), route.Left, route.Right, Normal},
	}},
}

// NewGallery lays out every Gallery group in one diagram.
func NewGallery(opts Options) *Diagram {
	d := New(opts)
	for _, g := range Gallery {
		base := mustBox(d, Trigger, g.Base, g.Name)
		for _, s := range g.Satellites {
			sat := mustBox(d, Operation, s.Center, s.Name)
			mustWire(d, base, s.FromSocket, sat, s.ToSocket, s.Mode)
		}
	}
	return d
}

// The builders only use static, valid input; a failure is a programming error.

func mustBox(d *Diagram, kind ShapeKind, c vector.Pt, title string) BoxID {
	id, err := d.AddBox(kind, c, title)
	if err != nil {
		panic(err)
	}
	return id
}

func mustWire(d *Diagram, from BoxID, fs route.Socket, to BoxID, ts route.Socket, mode Mode) WireID {
	id, err := d.Connect(from, fs, to, ts, mode, "")
	if err != nil {
		panic(err)
	}
	return id
}
