/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export writes diagrams to SVG, PNG, PDF and a JSON route report.
// The image backends draw a render.Scene, so what is exported matches what
// the editor shows.
package export

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"flowdraft/internal/flow"
	applog "flowdraft/internal/log"
	"flowdraft/internal/render"
)

// Format is an output file format.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
)

var Formats = []Format{FormatSVG, FormatPNG, FormatPDF, FormatJSON}

// ParseFormat accepts a format name with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format: %s", s)
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("no file extension in %q", path)
	}
	return ParseFormat(ext)
}

// Options bundles everything one export needs besides the diagram.
type Options struct {
	// Theme defaults to render.DefaultTheme when its Name is empty.
	Theme render.Theme
	Grid  bool
	// Margin around the diagram bounds, the theme grid step when zero.
	Margin float32
	Title  string
	Scale  float32
}

func (o Options) scene(d *flow.Diagram) render.Scene {
	if o.Theme.Name == "" {
		o.Theme = render.DefaultTheme()
	}
	margin := o.Margin
	if margin <= 0 {
		margin = o.Theme.GridStep
	}
	return render.Build(d, o.Theme, render.SceneOptions{Margin: margin, Grid: o.Grid})
}

// Write renders d in format f to w.
func Write(w io.Writer, f Format, d *flow.Diagram, opt Options) error {
	switch f {
	case FormatSVG:
		return WriteSVG(w, opt.scene(d), SVGOptions{Title: opt.Title})
	case FormatPNG:
		return WritePNG(w, opt.scene(d), PNGOptions{Scale: opt.Scale})
	case FormatPDF:
		return WritePDF(w, opt.scene(d), PDFOptions{Title: opt.Title, Grid: opt.Grid})
	case FormatJSON:
		var buf bytes.Buffer
		if err := WriteReport(&buf, d.Report()); err != nil {
			return err
		}
		if err := ValidateReport(buf.Bytes()); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	}
	return fmt.Errorf("unknown format: %s", f)
}

// ExportFile writes d to path, choosing the format by extension. Parent
// directories are created as needed.
func ExportFile(path string, d *flow.Diagram, opt Options) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	return exportAs(path, f, d, opt)
}

func exportAs(path string, f Format, d *flow.Diagram, opt Options) error {
	l := applog.WithOperation(applog.WithComponent("export"), "export")
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure out dir: %w", err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", f, err)
	}
	if err := Write(out, f, d, opt); err != nil {
		_ = out.Close()
		return fmt.Errorf("write %s: %w", f, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", f, err)
	}
	l.Info("exported", slog.String("format", string(f)), slog.String("path", path), slog.String("diagram", d.ID().String()))
	return nil
}
