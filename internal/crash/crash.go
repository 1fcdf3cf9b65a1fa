/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package crash turns panics at the CLI and UI entry points into a crash
// report plus a snapshot of the diagram being edited.
package crash

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"flowdraft/internal/export"
	"flowdraft/internal/flow"
	applog "flowdraft/internal/log"
	"flowdraft/internal/telemetry"
	"flowdraft/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

var (
	// reportDir receives crash reports and snapshots.
	reportDir           = os.TempDir
	stderr    io.Writer = os.Stderr

	// upload sends the report when the user opted in to crash uploads.
	upload = telemetry.UploadCrash
)

const uploadTimeout = 3 * time.Second

// Recover captures a panic, logs an error with stacktrace, writes a crash
// report and, when d is given, a JSON snapshot of the diagram. It then exits
// with code 2.
//
// Usage: defer crash.Recover(d)
func Recover(d *flow.Diagram) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	reportPath, report, err := writeReport(d, r, stack)
	if err != nil {
		l.Error("crash report failed", slog.Any("err", err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	if err := upload(ctx, report); err != nil {
		l.Warn("crash upload failed", slog.Any("err", err))
	}
	cancel()
	if d != nil {
		if path, err := writeSnapshot(d); err != nil {
			l.Error("diagram snapshot failed", slog.Any("err", err))
		} else {
			l.Info("diagram snapshot written", slog.String("path", path))
		}
	}

	if _, err := fmt.Fprintf(stderr, "A fatal error occurred. A crash report was saved to: %s\nVersion: %s\n", reportPath, version.String()); err != nil {
		l.Error("failed to write crash message to stderr", slog.Any("err", err))
	}
	exitFn(2)
}

func stamp() string { return time.Now().Format("20060102-150405.000") }

func writeReport(d *flow.Diagram, panicVal any, stack []byte) (string, []byte, error) {
	path := filepath.Join(reportDir(), fmt.Sprintf("flowdraft-crash-%s.log", stamp()))

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "flowdraft crash report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if d != nil {
		_, _ = fmt.Fprintf(&buf, "Diagram: %s\n", d.ID())
		if rep, ok := d.TryReport(); ok {
			_, _ = fmt.Fprintf(&buf, "Boxes: %d\nWires: %d\n", len(rep.Boxes), len(rep.Wires))
		} else {
			_, _ = fmt.Fprintf(&buf, "Boxes/Wires: unavailable (diagram locked)\n")
		}
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	return path, buf.Bytes(), os.WriteFile(path, buf.Bytes(), 0o644)
}

// writeSnapshot saves the diagram's route report next to the crash report.
func writeSnapshot(d *flow.Diagram) (string, error) {
	rep, ok := d.TryReport()
	if !ok {
		return "", fmt.Errorf("diagram %s is locked", d.ID())
	}
	path := filepath.Join(reportDir(), fmt.Sprintf("flowdraft-crash-%s.json", stamp()))
	f, err := os.Create(path)
	if err != nil {
		return path, err
	}
	if err := export.WriteReport(f, rep); err != nil {
		_ = f.Close()
		return path, err
	}
	return path, f.Close()
}
