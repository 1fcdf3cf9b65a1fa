/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flowdraft/internal/flow"
	"flowdraft/internal/render"
)

func sampleScene() render.Scene {
	return render.Build(flow.NewSample(flow.DefaultOptions()), render.DefaultTheme(), render.SceneOptions{Margin: 20})
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, sampleScene(), SVGOptions{Title: "sample"}); err != nil {
		t.Fatalf("svg: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`viewBox="-60 -60 280 440"`,
		"<title>sample</title>",
		`id="wire-2"`,
		`id="box-3"`,
		"Action 2",
		"#00c000", // true wire
		"</svg>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("svg output missing %q", want)
		}
	}
	if strings.Count(out, "<polyline") != 3 {
		t.Fatalf("expected one polyline per wire")
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, sampleScene(), PNGOptions{}); err != nil {
		t.Fatalf("png: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 280 || b.Dy() != 440 {
		t.Fatalf("unexpected size %v", b)
	}
	rgba := func(x, y int) color.RGBA {
		r, g, b, a := img.At(x, y).RGBA()
		return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
	}
	if c := rgba(1, 1); c != (color.RGBA{0, 24, 0, 255}) {
		t.Fatalf("expected background, got %v", c)
	}
	// inside the trigger, left of its title
	if c := rgba(30, 60); c != (color.RGBA{0, 0, 64, 255}) {
		t.Fatalf("expected box fill, got %v", c)
	}
	// on the trigger -> condition wire at scene (0,80)
	if c := rgba(60, 140); c != (color.RGBA{192, 192, 192, 255}) {
		t.Fatalf("expected wire color, got %v", c)
	}
}

func TestRasterizeLimits(t *testing.T) {
	if _, err := Rasterize(sampleScene(), PNGOptions{MaxPixels: 100}); err == nil {
		t.Fatalf("expected pixel limit error")
	}
	if _, err := Rasterize(render.Scene{}, PNGOptions{}); err == nil {
		t.Fatalf("expected empty bounds error")
	}
	img, err := Rasterize(sampleScene(), PNGOptions{Scale: 0.5})
	if err != nil {
		t.Fatalf("rasterize: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 140 || b.Dy() != 220 {
		t.Fatalf("scale not applied: %v", b)
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, sampleScene(), PDFOptions{Title: "sample"}); err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("not a pdf")
	}
	if err := WritePDF(&buf, render.Scene{}, PDFOptions{}); err == nil {
		t.Fatalf("expected error for empty scene")
	}
}

func TestReportRoundTripValidates(t *testing.T) {
	d := flow.NewGallery(flow.DefaultOptions())
	var buf bytes.Buffer
	if err := WriteReport(&buf, d.Report()); err != nil {
		t.Fatalf("report: %v", err)
	}
	if err := ValidateReport(buf.Bytes()); err != nil {
		t.Fatalf("report should validate: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if wires := decoded["wires"].([]any); len(wires) != 32 {
		t.Fatalf("expected 32 gallery wires, got %d", len(wires))
	}
}

func TestValidateReportRejects(t *testing.T) {
	bad := []string{
		`{}`,
		`{"id":"x","options":{"minLen":20,"gridSnap":20},"boxes":[],"wires":[],"extra":1}`,
		`{"id":"x","options":{"minLen":20,"gridSnap":20},"boxes":[{"id":0,"kind":"blob","center":{"x":0,"y":0},"width":80,"height":80}],"wires":[]}`,
	}
	for _, doc := range bad {
		if err := ValidateReport([]byte(doc)); !errors.Is(err, ErrInvalidReport) {
			t.Fatalf("expected ErrInvalidReport for %s, got %v", doc, err)
		}
	}
	if err := ValidateReport([]byte(`{not json`)); err == nil || errors.Is(err, ErrInvalidReport) {
		t.Fatalf("malformed JSON should fail to load, got %v", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]Format{"a.svg": FormatSVG, "b.PNG": FormatPNG, "dir/c.pdf": FormatPDF, "r.json": FormatJSON}
	for path, want := range cases {
		if got, err := FormatFromPath(path); err != nil || got != want {
			t.Fatalf("%s: got %q %v", path, got, err)
		}
	}
	for _, path := range []string{"noext", "x.cbz"} {
		if _, err := FormatFromPath(path); err == nil {
			t.Fatalf("%s: expected error", path)
		}
	}
}

func TestExportFileCreatesDirs(t *testing.T) {
	dir := t.TempDir()
	d := flow.NewSample(flow.DefaultOptions())
	for _, name := range []string{"a/b/sample.svg", "sample.png", "sample.pdf", "sample.json"} {
		path := filepath.Join(dir, name)
		if err := ExportFile(path, d, Options{}); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if st, err := os.Stat(path); err != nil || st.Size() == 0 {
			t.Fatalf("%s: missing or empty output", name)
		}
	}
}

func TestBatchExportPresets(t *testing.T) {
	dir := t.TempDir()
	d := flow.NewSample(flow.DefaultOptions())

	web, err := BatchExport(d, BatchOptions{Preset: PresetWeb, OutDir: filepath.Join(dir, "web"), Name: "flow"})
	if err != nil {
		t.Fatalf("web: %v", err)
	}
	if len(web) != 2 || filepath.Base(web[0]) != "flow.svg" || filepath.Base(web[1]) != "flow.png" {
		t.Fatalf("unexpected web outputs %v", web)
	}

	pr, err := BatchExport(d, BatchOptions{Preset: PresetPrint, OutDir: filepath.Join(dir, "print")})
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if len(pr) != 2 || filepath.Base(pr[0]) != "diagram.pdf" {
		t.Fatalf("unexpected print outputs %v", pr)
	}
	svg, err := os.ReadFile(pr[1])
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	// print uses the light theme without grid dots
	if !strings.Contains(string(svg), "#ffffff") || strings.Contains(string(svg), "<circle") {
		t.Fatalf("print preset should be light without grid")
	}

	if _, err := BatchExport(d, BatchOptions{Formats: []string{"cbz"}, OutDir: dir}); err == nil {
		t.Fatalf("expected unknown format error")
	}
	if _, err := BatchExport(nil, BatchOptions{}); err == nil {
		t.Fatalf("expected nil diagram error")
	}
}
