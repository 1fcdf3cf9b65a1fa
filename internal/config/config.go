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
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"flowdraft/internal/flow"
	applog "flowdraft/internal/log"
	"flowdraft/internal/render"
	"flowdraft/internal/vector"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Zero values in the file mean "use the default"; a negative grid_snap turns snapping off.

type GeneralConfig struct {
	Theme string `yaml:"theme,omitempty"` // "dark" | "light"
}

type SceneConfig struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	W float32 `yaml:"w"`
	H float32 `yaml:"h"`
}

type CanvasConfig struct {
	GridSnap  float32     `yaml:"grid_snap"`
	MinLen    float32     `yaml:"min_len"`
	BoxWidth  float32     `yaml:"box_width"`
	BoxHeight float32     `yaml:"box_height"`
	Scene     SceneConfig `yaml:"scene"`
}

type RoutingConfig struct {
	ArrowLength    float32 `yaml:"arrow_length"`
	ArrowHalfWidth float32 `yaml:"arrow_half_width"`
}

// ColorsConfig holds "#rrggbb" overrides on top of the theme.
type ColorsConfig struct {
	Background string `yaml:"background,omitempty"`
	Grid       string `yaml:"grid,omitempty"`
	BoxFill    string `yaml:"box_fill,omitempty"`
	BoxStroke  string `yaml:"box_stroke,omitempty"`
	Text       string `yaml:"text,omitempty"`
	Normal     string `yaml:"mode_normal,omitempty"`
	True       string `yaml:"mode_true,omitempty"`
	False      string `yaml:"mode_false,omitempty"`
	Error      string `yaml:"mode_error,omitempty"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file,omitempty"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Canvas        CanvasConfig  `yaml:"canvas"`
	Routing       RoutingConfig `yaml:"routing"`
	Colors        ColorsConfig  `yaml:"colors"`
	Logging       LoggingConfig `yaml:"logging"`
}

//go:embed config.schema.json
var schema []byte

// ErrInvalidConfig marks a config file that failed to parse or validate.
var ErrInvalidConfig = errors.New("invalid config")

// Defaults returns the application defaults.
func Defaults() AppConfig {
	d := flow.DefaultOptions()
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{Theme: "dark"},
		Canvas: CanvasConfig{
			GridSnap:  d.GridSnap,
			MinLen:    d.MinLen,
			BoxWidth:  d.BoxSize.W,
			BoxHeight: d.BoxSize.H,
			Scene:     SceneConfig{X: d.Scene.X, Y: d.Scene.Y, W: d.Scene.W, H: d.Scene.H},
		},
		Routing: RoutingConfig{ArrowLength: d.ArrowLength, ArrowHalfWidth: d.ArrowHalfWidth},
		Logging: LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvConfigFile = "FLOW_CONFIG"
	EnvGridSnap   = "FLOW_GRID_SNAP"
	EnvMinLen     = "FLOW_MIN_LEN"
	EnvTheme      = "FLOW_THEME"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "FLOW_LOG_LEVEL"
	EnvLogFormat = "FLOW_LOG_FORMAT"
	EnvLogSource = "FLOW_LOG_SOURCE"
	EnvLogFile   = "FLOW_LOG_FILE"
)

// ConfigPath returns the per-user config file path. FLOW_CONFIG wins when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "flowdraft")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "flowdraft")
	default:
		if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
			base = filepath.Join(x, "flowdraft")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "flowdraft")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file. See LoadFrom.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	return LoadFrom(path)
}

// LoadFrom reads path (a missing file is fine), merges it over the defaults
// and applies environment overrides. A file that fails to parse or validate
// is ignored: the returned config is still usable and the error wraps
// ErrInvalidConfig.
func LoadFrom(path string) (AppConfig, error) {
	cfg, err := LoadFile(path)
	applyEnvOverrides(&cfg)
	return cfg, err
}

// LoadFile is LoadFrom without environment overrides. Use it when the
// result is written back to disk.
func LoadFile(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		fileCfg, err := parse(data)
		if err != nil {
			applog.WithComponent("config").Warn("config file ignored", "path", path, "err", err)
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

func parse(data []byte) (AppConfig, error) {
	var cfg AppConfig
	if err := Validate(data); err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Validate checks YAML config data against the embedded schema.
func Validate(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if doc == nil {
		return nil
	}
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
	}
	return nil
}

// Save writes the user config YAML to ConfigPath.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo validates cfg and writes it to path.
func SaveTo(path string, cfg AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := Validate(data); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if t := strings.ToLower(strings.TrimSpace(src.General.Theme)); t != "" {
		dst.General.Theme = t
	}
	// canvas and routing: zero keeps the default
	mergeFloat(&dst.Canvas.GridSnap, src.Canvas.GridSnap)
	mergeFloat(&dst.Canvas.MinLen, src.Canvas.MinLen)
	mergeFloat(&dst.Canvas.BoxWidth, src.Canvas.BoxWidth)
	mergeFloat(&dst.Canvas.BoxHeight, src.Canvas.BoxHeight)
	if src.Canvas.Scene.W > 0 && src.Canvas.Scene.H > 0 {
		dst.Canvas.Scene = src.Canvas.Scene
	}
	mergeFloat(&dst.Routing.ArrowLength, src.Routing.ArrowLength)
	mergeFloat(&dst.Routing.ArrowHalfWidth, src.Routing.ArrowHalfWidth)
	// colors are empty unless overridden
	dst.Colors = src.Colors
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func mergeFloat(dst *float32, v float32) {
	if v != 0 {
		*dst = v
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v, ok := envFloat(EnvGridSnap); ok {
		cfg.Canvas.GridSnap = v
	}
	if v, ok := envFloat(EnvMinLen); ok && v > 0 {
		cfg.Canvas.MinLen = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTheme)); v != "" {
		cfg.General.Theme = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func envFloat(key string) (float32, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return 0, false
	}
	return float32(f), true
}

func parseBool(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env := map[string]string{
		"canvas.grid_snap": EnvGridSnap,
		"canvas.min_len":   EnvMinLen,
		"general.theme":    EnvTheme,
		"logging.level":    EnvLogLevel,
		"logging.format":   EnvLogFormat,
		"logging.source":   EnvLogSource,
		"logging.file":     EnvLogFile,
	}[key]
	if env != "" && os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}

// DiagramOptions maps the canvas and routing sections onto flow options.
func (c AppConfig) DiagramOptions() flow.Options {
	o := flow.Options{
		MinLen:         c.Canvas.MinLen,
		GridSnap:       c.Canvas.GridSnap,
		Scene:          vector.R(c.Canvas.Scene.X, c.Canvas.Scene.Y, c.Canvas.Scene.W, c.Canvas.Scene.H),
		BoxSize:        vector.Size{W: c.Canvas.BoxWidth, H: c.Canvas.BoxHeight},
		ArrowLength:    c.Routing.ArrowLength,
		ArrowHalfWidth: c.Routing.ArrowHalfWidth,
	}
	if o.GridSnap < 0 {
		o.GridSnap = 0
	}
	return o
}

// Theme resolves the named theme and applies the color overrides.
func (c AppConfig) Theme() (render.Theme, error) {
	th, err := render.ThemeByName(c.General.Theme)
	if err != nil {
		return th, err
	}
	return th.WithPalette(render.Palette{
		Background: c.Colors.Background,
		Grid:       c.Colors.Grid,
		BoxFill:    c.Colors.BoxFill,
		BoxStroke:  c.Colors.BoxStroke,
		Text:       c.Colors.Text,
		Normal:     c.Colors.Normal,
		True:       c.Colors.True,
		False:      c.Colors.False,
		Error:      c.Colors.Error,
	})
}

// LogOptions maps the logging section onto log options.
func (c AppConfig) LogOptions() applog.Options {
	return applog.Options{Level: c.Logging.Level, Format: c.Logging.Format, AddSource: c.Logging.Source, File: c.Logging.File}
}
