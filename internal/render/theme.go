/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"flowdraft/internal/flow"
	"flowdraft/internal/vector"
)

// Theme holds the colors and line widths shared by all backends.
type Theme struct {
	Name        string
	Background  vector.Color
	Grid        vector.Color
	BoxFill     vector.Color
	BoxStroke   vector.Color
	Text        vector.Color
	Modes       [len(flow.Modes)]vector.Color
	GridStep    float32
	StrokeWidth float32
	WireWidth   float32
}

// DefaultTheme is the dark green editor look.
func DefaultTheme() Theme {
	th := Theme{
		Name:        "dark",
		Background:  vector.RGB(0, 24, 0),
		Grid:        vector.RGB(0, 64, 0),
		BoxFill:     vector.RGB(0, 0, 64),
		BoxStroke:   vector.RGB(192, 192, 192),
		Text:        vector.RGB(224, 224, 224),
		GridStep:    20,
		StrokeWidth: 2,
		WireWidth:   2,
	}
	for _, m := range flow.Modes {
		th.Modes[m] = m.Color()
	}
	return th
}

// LightTheme suits printed exports.
func LightTheme() Theme {
	th := DefaultTheme()
	th.Name = "light"
	th.Background = vector.RGB(255, 255, 255)
	th.Grid = vector.RGB(220, 220, 220)
	th.BoxFill = vector.RGB(230, 236, 250)
	th.BoxStroke = vector.RGB(64, 64, 64)
	th.Text = vector.RGB(16, 16, 16)
	th.Modes[flow.Normal] = vector.RGB(96, 96, 96)
	return th
}

func ThemeByName(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "dark":
		return DefaultTheme(), nil
	case "light":
		return LightTheme(), nil
	}
	return Theme{}, fmt.Errorf("unknown theme %q", name)
}

// Palette carries hex overrides, typically from the config file. Empty
// entries keep the theme's color.
type Palette struct {
	Background string
	Grid       string
	BoxFill    string
	BoxStroke  string
	Text       string
	Normal     string
	True       string
	False      string
	Error      string
}

// WithPalette returns th with every non-empty palette entry applied.
func (th Theme) WithPalette(p Palette) (Theme, error) {
	entries := []struct {
		hex string
		dst *vector.Color
	}{
		{p.Background, &th.Background},
		{p.Grid, &th.Grid},
		{p.BoxFill, &th.BoxFill},
		{p.BoxStroke, &th.BoxStroke},
		{p.Text, &th.Text},
		{p.Normal, &th.Modes[flow.Normal]},
		{p.True, &th.Modes[flow.True]},
		{p.False, &th.Modes[flow.False]},
		{p.Error, &th.Modes[flow.Error]},
	}
	for _, e := range entries {
		if e.hex == "" {
			continue
		}
		c, err := ParseHex(e.hex)
		if err != nil {
			return th, err
		}
		*e.dst = c
	}
	return th, nil
}

func (th Theme) ModeColor(m flow.Mode) vector.Color {
	if !m.Valid() {
		return th.Modes[flow.Normal]
	}
	return th.Modes[m]
}

// ParseHex parses "#rrggbb" (the leading # is optional).
func ParseHex(s string) (vector.Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return vector.Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return vector.RGB(r, g, b), nil
}

// Highlight blends c toward white in Lab space; t=0 keeps c, t=1 gives white.
func Highlight(c vector.Color, t float64) vector.Color {
	switch {
	case t <= 0:
		return c
	case t >= 1:
		return vector.Color{R: 255, G: 255, B: 255, A: c.A}
	}
	src, ok := colorful.MakeColor(c.ToRGBA())
	if !ok {
		return c
	}
	r, g, b := src.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, t).Clamped().RGB255()
	return vector.Color{R: r, G: g, B: b, A: c.A}
}
