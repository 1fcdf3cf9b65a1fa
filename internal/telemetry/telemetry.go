/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package telemetry sends opt-in anonymous usage events and crash reports.
// Events carry counts only: no titles, coordinates or file paths.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"flowdraft/internal/flow"
	applog "flowdraft/internal/log"
	"flowdraft/internal/version"
)

// Env vars read by FromEnv. Nothing is sent unless FLOW_TELEMETRY_OPT_IN is
// truthy and the matching URL is set.
const (
	EnvOptIn    = "FLOW_TELEMETRY_OPT_IN"
	EnvURL      = "FLOW_TELEMETRY_URL"
	EnvCrashURL = "FLOW_CRASH_UPLOAD_URL"
	EnvTimeout  = "FLOW_TELEMETRY_TIMEOUT"
)

const defaultTimeout = 1500 * time.Millisecond

type Config struct {
	OptIn     bool
	EventsURL string
	CrashURL  string
	// Timeout bounds each HTTP request.
	Timeout time.Duration
}

func FromEnv() Config {
	cfg := Config{
		OptIn:     parseBool(os.Getenv(EnvOptIn)),
		EventsURL: strings.TrimSpace(os.Getenv(EnvURL)),
		CrashURL:  strings.TrimSpace(os.Getenv(EnvCrashURL)),
		Timeout:   defaultTimeout,
	}
	if v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(EnvTimeout))); err == nil && v > 0 {
		cfg.Timeout = v
	}
	return cfg
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Event is the JSON body posted to the events URL.
type Event struct {
	Name    string         `json:"name"`
	Time    time.Time      `json:"ts"`
	Version string         `json:"version"`
	OS      string         `json:"os"`
	Arch    string         `json:"arch"`
	Diagram string         `json:"diagram,omitempty"`
	Props   map[string]any `json:"props,omitempty"`
}

// DiagramProps summarizes d as box and wire counts plus wires per route kind.
func DiagramProps(d *flow.Diagram) map[string]any {
	kinds := map[string]int{}
	for _, w := range d.Wires() {
		kinds[w.Route.Kind().String()]++
	}
	boxes, wires := d.Counts()
	return map[string]any{"boxes": boxes, "wires": wires, "kinds": kinds}
}

// Client queues events and posts them from one background goroutine.
// A full queue drops events; senders never block.
type Client struct {
	cfg     Config
	log     *slog.Logger
	http    *http.Client
	q       chan Event
	pending sync.WaitGroup
	done    chan struct{}
	once    sync.Once
}

func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	c := &Client{
		cfg:  cfg,
		log:  applog.WithComponent("telemetry"),
		http: &http.Client{Timeout: cfg.Timeout},
		q:    make(chan Event, 64),
		done: make(chan struct{}),
	}
	go c.loop()
	return c
}

// Enabled reports whether events are sent at all.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.EventsURL != "" }

// Track queues an event named name. d may be nil; when set, its summary is
// merged under props.
func (c *Client) Track(name string, d *flow.Diagram, props map[string]any) {
	if !c.Enabled() || name == "" {
		return
	}
	ev := Event{
		Name:    name,
		Time:    time.Now().UTC(),
		Version: version.Version,
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
		Props:   map[string]any{},
	}
	if d != nil {
		ev.Diagram = d.ID().String()
		for k, v := range DiagramProps(d) {
			ev.Props[k] = v
		}
	}
	for k, v := range props {
		ev.Props[k] = v
	}
	c.pending.Add(1)
	select {
	case c.q <- ev:
	default:
		c.pending.Done()
		c.log.Debug("telemetry queue full, event dropped", slog.String("event", name))
	}
}

// Flush waits until every queued event was sent or ctx ends.
func (c *Client) Flush(ctx context.Context) error {
	if c == nil {
		return nil
	}
	drained := make(chan struct{})
	go func() {
		c.pending.Wait()
		close(drained)
	}()
	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the sender. Queued events that were not flushed are lost.
func (c *Client) Close() { c.once.Do(func() { close(c.done) }) }

func (c *Client) loop() {
	for {
		select {
		case <-c.done:
			return
		case ev := <-c.q:
			body, err := json.Marshal(ev)
			if err == nil {
				err = c.post(context.Background(), c.cfg.EventsURL, "application/json", body)
			}
			if err != nil {
				c.log.Debug("telemetry send failed", slog.String("event", ev.Name), slog.Any("err", err))
			}
			c.pending.Done()
		}
	}
}

// UploadCrash posts a crash report and waits for the answer. It is a no-op
// unless the user opted in and a crash URL is configured.
func (c *Client) UploadCrash(ctx context.Context, report []byte) error {
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" {
		return nil
	}
	return c.post(ctx, c.cfg.CrashURL, "text/plain; charset=utf-8", report)
}

func (c *Client) post(ctx context.Context, url, contentType string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("post %s: %s", url, resp.Status)
	}
	return nil
}

var (
	defaultClient *Client
	defaultOnce   sync.Once
)

// Default returns the process-wide client configured from the environment.
func Default() *Client {
	defaultOnce.Do(func() { defaultClient = New(FromEnv()) })
	return defaultClient
}

func Track(name string, d *flow.Diagram, props map[string]any) { Default().Track(name, d, props) }
func Flush(ctx context.Context) error                          { return Default().Flush(ctx) }
func UploadCrash(ctx context.Context, report []byte) error     { return Default().UploadCrash(ctx, report) }
