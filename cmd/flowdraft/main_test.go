/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"flowdraft/internal/export"
)

// run executes the CLI against a config file in a temp dir.
func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	argv := append([]string{"flowdraft", "--config", cfgPath}, args...)
	err := newApp(&out, &errOut).Run(argv)
	return out.String(), err
}

func tempConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.yaml")
}

func TestVersion(t *testing.T) {
	out, err := run(t, tempConfig(t), "version")
	if err != nil || !strings.HasPrefix(out, "flowdraft ") {
		t.Fatalf("version: %q %v", out, err)
	}
}

func TestRouteCommand(t *testing.T) {
	cfg := tempConfig(t)
	out, err := run(t, cfg, "route", "0,0", "bottom", "100,100", "top")
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if !strings.Contains(out, "kind: z-cross") || !strings.Contains(out, "points: (0,0) (0,50) (100,50) (100,100)") {
		t.Fatalf("unexpected route output:\n%s", out)
	}

	out, err = run(t, cfg, "route", "--json", "0,0", "r", "200,0", "l")
	if err != nil {
		t.Fatalf("route --json: %v", err)
	}
	var got struct {
		Kind   string `json:"kind"`
		Points []struct{ X, Y float32 }
		Arrow  []struct{ X, Y float32 }
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if got.Kind != "straight" || len(got.Points) != 2 || len(got.Arrow) != 3 {
		t.Fatalf("unexpected json route %+v", got)
	}
}

func TestRouteRejectsBadInput(t *testing.T) {
	cfg := tempConfig(t)
	for _, args := range [][]string{
		{"route", "0,0", "bottom", "100,100"},
		{"route", "0;0", "bottom", "100,100", "top"},
		{"route", "0,0", "up", "100,100", "top"},
		{"route", "--min-len", "0", "0,0", "bottom", "100,100", "top"},
	} {
		_, err := run(t, cfg, args...)
		var ec cli.ExitCoder
		if !errors.As(err, &ec) || ec.ExitCode() != 2 {
			t.Fatalf("%v: expected exit code 2, got %v", args, err)
		}
	}
}

func TestShowSample(t *testing.T) {
	out, err := run(t, tempConfig(t), "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"Trigger.bottom", "Condition.top", "Action 2.left", "z-cross", "false", "4 boxes, 3 wires"} {
		if !strings.Contains(out, want) {
			t.Fatalf("show output lacks %q:\n%s", want, out)
		}
	}
	if _, err := run(t, tempConfig(t), "show", "--diagram", "spiral"); err == nil {
		t.Fatalf("expected unknown diagram error")
	}
}

func TestExportCommand(t *testing.T) {
	cfg := tempConfig(t)
	dir := t.TempDir()
	out, err := run(t, cfg, "export", "-d", "gallery", "-o", dir, "-f", "svg", "-f", "json", "--name", "g")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if lines := strings.Fields(out); len(lines) != 2 {
		t.Fatalf("expected two written paths, got %q", out)
	}
	data, err := os.ReadFile(filepath.Join(dir, "g.json"))
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if err := export.ValidateReport(data); err != nil {
		t.Fatalf("exported report invalid: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "g.svg")); err != nil {
		t.Fatalf("svg missing: %v", err)
	}

	file := filepath.Join(dir, "one", "sample.png")
	if _, err := run(t, cfg, "export", "-o", file); err != nil {
		t.Fatalf("single file export: %v", err)
	}
	if fi, err := os.Stat(file); err != nil || fi.Size() == 0 {
		t.Fatalf("png not written: %v", err)
	}

	if _, err := run(t, cfg, "export", "--preset", "poster", "-o", dir); err == nil {
		t.Fatalf("expected unknown preset error")
	}
}

func TestConfigSetGet(t *testing.T) {
	cfg := tempConfig(t)
	if _, err := run(t, cfg, "config", "set", "canvas.min_len", "40"); err != nil {
		t.Fatalf("set: %v", err)
	}
	out, err := run(t, cfg, "config", "get", "canvas.min_len")
	if err != nil || strings.TrimSpace(out) != "40" {
		t.Fatalf("get: %q %v", out, err)
	}
	out, err = run(t, cfg, "config", "validate")
	if err != nil || strings.TrimSpace(out) != "ok" {
		t.Fatalf("validate: %q %v", out, err)
	}
	out, _ = run(t, cfg, "config", "path")
	if strings.TrimSpace(out) != cfg {
		t.Fatalf("path: %q", out)
	}
	if _, err := run(t, cfg, "config", "set", "colors.grid", "green"); err == nil {
		t.Fatalf("invalid color must not be saved")
	}
	if _, err := run(t, cfg, "config", "get", "canvas.zoom"); err == nil {
		t.Fatalf("expected unknown key error")
	}

	t.Setenv("FLOW_MIN_LEN", "35")
	out, _ = run(t, cfg, "config", "list")
	if !strings.Contains(out, "canvas.min_len = 35 (from FLOW_MIN_LEN)") {
		t.Fatalf("list should show env override:\n%s", out)
	}
	// the file keeps its own value
	if _, err := run(t, cfg, "config", "set", "general.theme", "light"); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	data, _ := os.ReadFile(cfg)
	if !strings.Contains(string(data), "min_len: 40") {
		t.Fatalf("env value leaked into the file:\n%s", data)
	}
}
