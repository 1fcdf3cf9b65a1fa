/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package route

import (
	"fmt"
	"strings"

	"flowdraft/internal/vector"
)

// Socket names the face of a box a wire attaches to. The zero value is not a valid socket.
type Socket uint8

const (
	Top Socket = iota + 1
	Right
	Bottom
	Left
)

// Sockets lists the valid sockets in clockwise order.
var Sockets = [...]Socket{Top, Right, Bottom, Left}

func (s Socket) Valid() bool { return s >= Top && s <= Left }

// Opposite returns the antipodal face.
func (s Socket) Opposite() Socket {
	switch s {
	case Top:
		return Bottom
	case Bottom:
		return Top
	case Left:
		return Right
	case Right:
		return Left
	}
	panic(fmt.Sprintf("route: invalid socket %d", uint8(s)))
}

// OppositeOf reports whether s and o face away from each other on the same axis.
// A socket is never opposite of itself.
func (s Socket) OppositeOf(o Socket) bool {
	switch {
	case s == Top && o == Bottom, s == Bottom && o == Top:
		return true
	case s == Left && o == Right, s == Right && o == Left:
		return true
	}
	return false
}

// Vertical reports whether the socket faces up or down.
func (s Socket) Vertical() bool { return s == Top || s == Bottom }

// Facing is the unit vector pointing out of the face, in scene coordinates (y grows downward).
func (s Socket) Facing() vector.Pt {
	switch s {
	case Top:
		return vector.Pt{X: 0, Y: -1}
	case Right:
		return vector.Pt{X: 1, Y: 0}
	case Bottom:
		return vector.Pt{X: 0, Y: 1}
	case Left:
		return vector.Pt{X: -1, Y: 0}
	}
	panic(fmt.Sprintf("route: invalid socket %d", uint8(s)))
}

func (s Socket) String() string {
	switch s {
	case Top:
		return "top"
	case Right:
		return "right"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	}
	return fmt.Sprintf("socket(%d)", uint8(s))
}

// ParseSocket accepts socket names case-insensitively, plus the single letters t, r, b and l.
func ParseSocket(s string) (Socket, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top", "t":
		return Top, nil
	case "right", "r":
		return Right, nil
	case "bottom", "b":
		return Bottom, nil
	case "left", "l":
		return Left, nil
	}
	return 0, fmt.Errorf("unknown socket %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Socket) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid socket %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Socket) UnmarshalText(b []byte) error {
	v, err := ParseSocket(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Anchor is anything that can place a socket in scene coordinates, typically a box.
type Anchor interface {
	SocketPoint(s Socket) vector.Pt
}

// SocketPoint returns the midpoint of the named face of r.
func SocketPoint(r vector.Rect, s Socket) vector.Pt {
	c := r.Center()
	switch s {
	case Top:
		return vector.Pt{X: c.X, Y: r.Y}
	case Bottom:
		return vector.Pt{X: c.X, Y: r.Y + r.H}
	case Left:
		return vector.Pt{X: r.X, Y: c.Y}
	case Right:
		return vector.Pt{X: r.X + r.W, Y: c.Y}
	}
	panic(fmt.Sprintf("route: invalid socket %d", uint8(s)))
}
