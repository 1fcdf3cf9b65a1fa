/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package flow

import "errors"

var (
	ErrUnknownBox    = errors.New("unknown box")
	ErrUnknownWire   = errors.New("unknown wire")
	ErrInvalidSocket = errors.New("invalid socket")
	ErrInvalidMode   = errors.New("invalid mode")
	ErrInvalidShape  = errors.New("invalid shape")
	// ErrSelfLoop is returned when a wire would leave and enter the same socket.
	ErrSelfLoop = errors.New("wire starts and ends on the same socket")
)
