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
	"fmt"
	"sort"
	"strconv"
)

// field binds a dotted key to a string or float32 field of AppConfig.
type field struct {
	str func(*AppConfig) *string
	num func(*AppConfig) *float32
	flg func(*AppConfig) *bool
}

var fields = map[string]field{
	"general.theme":            {str: func(c *AppConfig) *string { return &c.General.Theme }},
	"canvas.grid_snap":         {num: func(c *AppConfig) *float32 { return &c.Canvas.GridSnap }},
	"canvas.min_len":           {num: func(c *AppConfig) *float32 { return &c.Canvas.MinLen }},
	"canvas.box_width":         {num: func(c *AppConfig) *float32 { return &c.Canvas.BoxWidth }},
	"canvas.box_height":        {num: func(c *AppConfig) *float32 { return &c.Canvas.BoxHeight }},
	"canvas.scene.x":           {num: func(c *AppConfig) *float32 { return &c.Canvas.Scene.X }},
	"canvas.scene.y":           {num: func(c *AppConfig) *float32 { return &c.Canvas.Scene.Y }},
	"canvas.scene.w":           {num: func(c *AppConfig) *float32 { return &c.Canvas.Scene.W }},
	"canvas.scene.h":           {num: func(c *AppConfig) *float32 { return &c.Canvas.Scene.H }},
	"routing.arrow_length":     {num: func(c *AppConfig) *float32 { return &c.Routing.ArrowLength }},
	"routing.arrow_half_width": {num: func(c *AppConfig) *float32 { return &c.Routing.ArrowHalfWidth }},
	"colors.background":        {str: func(c *AppConfig) *string { return &c.Colors.Background }},
	"colors.grid":              {str: func(c *AppConfig) *string { return &c.Colors.Grid }},
	"colors.box_fill":          {str: func(c *AppConfig) *string { return &c.Colors.BoxFill }},
	"colors.box_stroke":        {str: func(c *AppConfig) *string { return &c.Colors.BoxStroke }},
	"colors.text":              {str: func(c *AppConfig) *string { return &c.Colors.Text }},
	"colors.mode_normal":       {str: func(c *AppConfig) *string { return &c.Colors.Normal }},
	"colors.mode_true":         {str: func(c *AppConfig) *string { return &c.Colors.True }},
	"colors.mode_false":        {str: func(c *AppConfig) *string { return &c.Colors.False }},
	"colors.mode_error":        {str: func(c *AppConfig) *string { return &c.Colors.Error }},
	"logging.level":            {str: func(c *AppConfig) *string { return &c.Logging.Level }},
	"logging.format":           {str: func(c *AppConfig) *string { return &c.Logging.Format }},
	"logging.source":           {flg: func(c *AppConfig) *bool { return &c.Logging.Source }},
	"logging.file":             {str: func(c *AppConfig) *string { return &c.Logging.File }},
}

// Keys lists every settable key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of key formatted as text.
func (c AppConfig) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("unknown config key %q", key)
	}
	switch {
	case f.str != nil:
		return *f.str(&c), nil
	case f.num != nil:
		return strconv.FormatFloat(float64(*f.num(&c)), 'f', -1, 32), nil
	default:
		return strconv.FormatBool(*f.flg(&c)), nil
	}
}

// Set parses value into key. The result is not validated; SaveTo does that.
func (c *AppConfig) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	switch {
	case f.str != nil:
		*f.str(c) = value
	case f.num != nil:
		v, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*f.num(c) = float32(v)
	default:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*f.flg(c) = v
	}
	return nil
}
