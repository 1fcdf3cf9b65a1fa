/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"flowdraft/internal/config"
	"flowdraft/internal/crash"
	"flowdraft/internal/flow"
	applog "flowdraft/internal/log"
	"flowdraft/internal/telemetry"
	"flowdraft/internal/version"
)

// current is the diagram a command is working on, for crash reports.
var current *flow.Diagram

func main() {
	applog.Init(applog.FromEnv())
	defer func() { crash.Recover(current) }()

	err := newApp(os.Stdout, os.Stderr).Run(os.Args)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	_ = telemetry.Flush(ctx)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var ec cli.ExitCoder
		if errors.As(err, &ec) {
			os.Exit(ec.ExitCode())
		}
		os.Exit(1)
	}
}

// env carries what every command needs: the loaded config and the
// writers output goes to.
type env struct {
	cfg     config.AppConfig
	cfgPath string
	out     io.Writer
	log     *slog.Logger
}

func newApp(out, errOut io.Writer) *cli.App {
	e := &env{out: out}
	return &cli.App{
		Name:      "flowdraft",
		Usage:     "flow diagrams with orthogonal auto-routed wires",
		Version:   version.Version,
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "config file (default: user config dir)",
				EnvVars: []string{config.EnvConfigFile},
			},
		},
		Before: func(c *cli.Context) error { return e.load(c.String("config")) },
		Commands: []*cli.Command{
			versionCommand(e),
			routeCommand(e),
			showCommand(e),
			exportCommand(e),
			configCommand(e),
			uiCommand(e),
		},
		HideHelpCommand: true,
		// main decides the exit code
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// load reads the config and (re)initializes logging from it. A broken
// config file is not fatal: defaults are used and a warning is logged.
func (e *env) load(path string) error {
	var err error
	if path == "" {
		if path, err = config.ConfigPath(); err != nil {
			return err
		}
	}
	e.cfgPath = path
	cfg, err := config.LoadFrom(path)
	e.cfg = cfg
	applog.Init(cfg.LogOptions())
	e.log = applog.WithComponent("cli")
	if err != nil {
		if !errors.Is(err, config.ErrInvalidConfig) {
			return err
		}
		e.log.Warn("config ignored", slog.String("path", path), slog.Any("err", err))
	}
	e.log.Debug("config loaded", slog.String("path", path))
	return nil
}

func versionCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print version information",
		Action: func(c *cli.Context) error {
			_, err := fmt.Fprintln(e.out, version.String())
			return err
		},
	}
}
