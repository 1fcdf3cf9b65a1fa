/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"flowdraft/internal/vector"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	t.Setenv(EnvConfigFile, filepath.Join(t.TempDir(), "nope.yaml"))
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg != Defaults() {
		t.Fatalf("expected defaults, got %#v", cfg)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
general:
  theme: Light
canvas:
  min_len: 40
  grid_snap: -1
colors:
  mode_true: "#00ff00"
logging:
  level: DEBUG
`)
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.General.Theme != "light" || cfg.Canvas.MinLen != 40 || cfg.Logging.Level != "debug" {
		t.Fatalf("file values not merged: %#v", cfg)
	}
	if cfg.Canvas.BoxWidth != 80 || cfg.Routing.ArrowLength != 7 {
		t.Fatalf("unset values should keep defaults: %#v", cfg)
	}
	o := cfg.DiagramOptions()
	if o.GridSnap != 0 || o.MinLen != 40 || o.Scene != vector.R(-5000, -500, 10000, 10000) {
		t.Fatalf("unexpected diagram options %+v", o)
	}
	th, err := cfg.Theme()
	if err != nil {
		t.Fatalf("theme: %v", err)
	}
	if th.Name != "light" || th.Modes[1] != vector.RGB(0, 255, 0) {
		t.Fatalf("theme overrides not applied: %+v", th)
	}
}

func TestInvalidFileKeepsDefaults(t *testing.T) {
	for name, content := range map[string]string{
		"schema": "canvas:\n  min_len: -3\n",
		"color":  "colors:\n  grid: green\n",
		"key":    "canvas:\n  zoom: 2\n",
		"yaml":   "canvas: [unclosed\n",
	} {
		cfg, err := LoadFrom(writeConfig(t, content))
		if !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
		if cfg != Defaults() {
			t.Fatalf("%s: invalid file must not change defaults", name)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvGridSnap, "10")
	t.Setenv(EnvMinLen, "35")
	t.Setenv(EnvTheme, "LIGHT")
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "X:/flow.log")
	cfg, err := LoadFrom(writeConfig(t, "canvas:\n  min_len: 40\n"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Canvas.GridSnap != 10 || cfg.Canvas.MinLen != 35 || cfg.General.Theme != "light" {
		t.Fatalf("canvas env overrides not applied: %#v", cfg)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "X:/flow.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
	if env, ok := EnvOverrideFor("canvas.min_len"); !ok || env != EnvMinLen {
		t.Fatalf("EnvOverrideFor: %q %v", env, ok)
	}
	if _, ok := EnvOverrideFor("routing.arrow_length"); ok {
		t.Fatalf("arrow_length has no env override")
	}
	if lo := cfg.LogOptions(); lo.Level != "error" || !lo.AddSource {
		t.Fatalf("unexpected log options %+v", lo)
	}
}

func TestEnvMinLenIgnoresGarbage(t *testing.T) {
	t.Setenv(EnvMinLen, "wide")
	cfg, _ := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if cfg.Canvas.MinLen != 20 {
		t.Fatalf("garbage env must be ignored, got %v", cfg.Canvas.MinLen)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := Defaults()
	if err := cfg.Set("canvas.min_len", "30"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := cfg.Set("colors.box_fill", "#102030"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := cfg.Set("logging.source", "true"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != cfg {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", got, cfg)
	}

	bad := Defaults()
	_ = bad.Set("colors.grid", "not-a-color")
	if err := SaveTo(path, bad); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("save should validate, got %v", err)
	}
}

func TestGetSetKeys(t *testing.T) {
	cfg := Defaults()
	if v, err := cfg.Get("canvas.grid_snap"); err != nil || v != "20" {
		t.Fatalf("get grid_snap: %q %v", v, err)
	}
	if v, _ := cfg.Get("logging.source"); v != "false" {
		t.Fatalf("get source: %q", v)
	}
	if err := cfg.Set("canvas.min_len", "abc"); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := cfg.Get("nope"); err == nil {
		t.Fatalf("expected unknown key error")
	}
	for _, k := range Keys() {
		if _, err := cfg.Get(k); err != nil {
			t.Fatalf("key %s: %v", k, err)
		}
	}
}

func TestLoadFileIgnoresEnv(t *testing.T) {
	t.Setenv(EnvMinLen, "35")
	cfg, err := LoadFile(writeConfig(t, "canvas:\n  min_len: 40\n"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Canvas.MinLen != 40 {
		t.Fatalf("env must not leak into the file view, got %v", cfg.Canvas.MinLen)
	}
}
