/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package export

import (
	"fmt"
	"path/filepath"

	"flowdraft/internal/flow"
	"flowdraft/internal/render"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// BatchOptions controls exporting one diagram to several formats at once.
//
// Path semantics:
//   - Files are named <Name>.<format> inside OutDir.
//   - An empty OutDir means ./exports/<preset>.
//
// Theme and Grid fall back to the preset when nil.
type BatchOptions struct {
	Preset  PresetName
	Formats []string // allowed: svg, png, pdf, json; empty means preset defaults
	Name    string   // base file name, "diagram" when empty
	OutDir  string
	Theme   *render.Theme
	Grid    *bool
	Scale   float32
}

// BatchExport runs exports according to the given preset and returns the
// written paths in format order.
func BatchExport(d *flow.Diagram, opt BatchOptions) ([]string, error) {
	if d == nil {
		return nil, fmt.Errorf("diagram is nil")
	}

	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}

	baseOut := opt.OutDir
	if baseOut == "" {
		preset := string(opt.Preset)
		if preset == "" {
			preset = "default"
		}
		baseOut = filepath.Join("exports", preset)
	}
	name := opt.Name
	if name == "" {
		name = "diagram"
	}

	eo := Options{Theme: presetTheme(opt.Preset), Grid: presetIncludeGrid(opt.Preset), Title: name, Scale: opt.Scale}
	if opt.Theme != nil {
		eo.Theme = *opt.Theme
	}
	if opt.Grid != nil {
		eo.Grid = *opt.Grid
	}

	var written []string
	for _, raw := range formats {
		f, err := ParseFormat(raw)
		if err != nil {
			return written, err
		}
		out := filepath.Join(baseOut, name+"."+string(f))
		if err := exportAs(out, f, d, eo); err != nil {
			return written, fmt.Errorf("%s: %w", f, err)
		}
		written = append(written, out)
	}
	return written, nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetWeb:
		return []string{"svg", "png"}
	case PresetPrint:
		return []string{"pdf", "svg"}
	default:
		return []string{"svg"}
	}
}

func presetTheme(p PresetName) render.Theme {
	if p == PresetPrint {
		return render.LightTheme()
	}
	return render.DefaultTheme()
}

func presetIncludeGrid(p PresetName) bool {
	switch p {
	case PresetWeb:
		return true
	case PresetPrint:
		return false
	default:
		return false
	}
}
