/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package flow

import (
	"fmt"
	"strings"

	"flowdraft/internal/vector"
)

// Mode is the wire category. It selects the stroke color and, once flows
// run, which branch a wire belongs to.
type Mode uint8

const (
	Normal Mode = iota
	True
	False
	Error
)

var Modes = [...]Mode{Normal, True, False, Error}

func (m Mode) Valid() bool { return m <= Error }

// Color returns the default stroke color for the mode.
func (m Mode) Color() vector.Color {
	switch m {
	case True:
		return vector.RGB(0, 192, 0)
	case False:
		return vector.RGB(192, 0, 0)
	case Error:
		return vector.RGB(192, 192, 0)
	default:
		return vector.RGB(192, 192, 192)
	}
}

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case True:
		return "true"
	case False:
		return "false"
	case Error:
		return "error"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if strings.EqualFold(strings.TrimSpace(s), m.String()) {
			return m, nil
		}
	}
	return Normal, fmt.Errorf("unknown mode %q", s)
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ShapeKind is the box variant. All kinds share the same box record and
// differ only in silhouette.
type ShapeKind uint8

const (
	Trigger ShapeKind = iota
	Condition
	Operation
)

var ShapeKinds = [...]ShapeKind{Trigger, Condition, Operation}

func (k ShapeKind) Valid() bool { return k <= Operation }

func (k ShapeKind) String() string {
	switch k {
	case Trigger:
		return "trigger"
	case Condition:
		return "condition"
	case Operation:
		return "operation"
	}
	return fmt.Sprintf("shape(%d)", uint8(k))
}

func ParseShapeKind(s string) (ShapeKind, error) {
	for _, k := range ShapeKinds {
		if strings.EqualFold(strings.TrimSpace(s), k.String()) {
			return k, nil
		}
	}
	return Trigger, fmt.Errorf("unknown shape %q", s)
}

func (k ShapeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *ShapeKind) UnmarshalText(b []byte) error {
	v, err := ParseShapeKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
