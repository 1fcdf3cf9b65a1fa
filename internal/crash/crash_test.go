/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package crash

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flowdraft/internal/export"
	"flowdraft/internal/flow"
)

// uploaded collects reports passed to the upload hook.
var uploaded [][]byte

// redirect sends reports to a temp dir and captures stderr, uploads and the exit code.
func redirect(t *testing.T) (dir string, out *bytes.Buffer, code *int) {
	t.Helper()
	dir = t.TempDir()
	out = &bytes.Buffer{}
	code = new(int)
	uploaded = nil
	oldDir, oldErr, oldExit, oldUpload := reportDir, stderr, exitFn, upload
	reportDir = func() string { return dir }
	stderr = out
	exitFn = func(c int) { *code = c }
	upload = func(_ context.Context, b []byte) error {
		uploaded = append(uploaded, b)
		return nil
	}
	t.Cleanup(func() { reportDir, stderr, exitFn, upload = oldDir, oldErr, oldExit, oldUpload })
	return dir, out, code
}

func find(t *testing.T, dir, suffix string) string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "flowdraft-crash-") && strings.HasSuffix(e.Name(), suffix) {
			return filepath.Join(dir, e.Name())
		}
	}
	t.Fatalf("no crash file with suffix %s in %s", suffix, dir)
	return ""
}

func TestWriteReportWithoutDiagram(t *testing.T) {
	dir, _, _ := redirect(t)
	path, report, err := writeReport(nil, "boom", []byte("stacktrace"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("report should land in %s, got %s", dir, path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.Equal(b, report) {
		t.Fatalf("returned report differs from the file")
	}
	s := string(b)
	if !strings.Contains(s, "flowdraft crash report") || !strings.Contains(s, "Panic: boom") {
		t.Fatalf("unexpected report: %s", s)
	}
	if strings.Contains(s, "Diagram:") {
		t.Fatalf("no diagram section expected")
	}
}

// TestRecoverWritesReportAndSnapshot ensures Recover handles a panic, writes
// both files and does not terminate the test process due to injected exitFn.
func TestRecoverWritesReportAndSnapshot(t *testing.T) {
	dir, out, code := redirect(t)
	d := flow.NewSample(flow.DefaultOptions())

	func() {
		defer Recover(d)
		panic("boom")
	}()

	if *code != 2 {
		t.Fatalf("expected exit code 2, got %d", *code)
	}
	b, err := os.ReadFile(find(t, dir, ".log"))
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	for _, want := range []string{"Panic: boom", "Diagram: " + d.ID().String(), "Boxes: 4", "Wires: 3"} {
		if !bytes.Contains(b, []byte(want)) {
			t.Fatalf("report missing %q: %s", want, b)
		}
	}
	snap, err := os.ReadFile(find(t, dir, ".json"))
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if err := export.ValidateReport(snap); err != nil {
		t.Fatalf("snapshot should be a valid route report: %v", err)
	}
	if !strings.Contains(out.String(), "crash report was saved") {
		t.Fatalf("stderr message missing: %q", out.String())
	}
	if len(uploaded) != 1 || !bytes.Equal(uploaded[0], b) {
		t.Fatalf("the written report should be handed to the uploader")
	}
}

func TestRecoverWithoutPanicIsNoop(t *testing.T) {
	_, out, code := redirect(t)
	func() {
		defer Recover(nil)
	}()
	if *code != 0 || out.Len() != 0 || len(uploaded) != 0 {
		t.Fatalf("Recover without panic must do nothing")
	}
}
