/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/urfave/cli/v2"

	"flowdraft/internal/config"
	"flowdraft/internal/export"
	"flowdraft/internal/flow"
	applog "flowdraft/internal/log"
	"flowdraft/internal/route"
	"flowdraft/internal/telemetry"
	"flowdraft/internal/ui"
	"flowdraft/internal/vector"
)

var diagramFlag = &cli.StringFlag{
	Name:    "diagram",
	Aliases: []string{"d"},
	Usage:   "diagram to use: sample, gallery or empty",
	Value:   ui.DiagramSample,
}

// diagram builds the named diagram with the configured options.
func (e *env) diagram(name string) (*flow.Diagram, error) {
	s, err := ui.NewSession(ui.Options{Config: e.cfg, Diagram: name})
	if err != nil {
		return nil, cli.Exit(err.Error(), 2)
	}
	current = s.Diagram()
	return current, nil
}

func routeCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "route",
		Usage:     "route a single wire between two socket points",
		ArgsUsage: "FROM_X,FROM_Y FROM_SOCKET TO_X,TO_Y TO_SOCKET",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "min-len", Usage: "clearance from sockets and boxes (default: config)"},
			&cli.BoolFlag{Name: "json", Usage: "print the route as JSON"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 4 {
				return cli.Exit("route needs 4 arguments: "+c.Command.ArgsUsage, 2)
			}
			pf, err := parsePoint(c.Args().Get(0))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			fs, err := route.ParseSocket(c.Args().Get(1))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			pt, err := parsePoint(c.Args().Get(2))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			ts, err := route.ParseSocket(c.Args().Get(3))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			opts := e.cfg.DiagramOptions().RouteOptions()
			if c.IsSet("min-len") {
				opts.MinLen = float32(c.Float64("min-len"))
			}
			if opts.MinLen <= 0 {
				return cli.Exit(fmt.Sprintf("min-len must be > 0, got %v", opts.MinLen), 2)
			}
			r := route.Between(pf, fs, pt, ts, opts)
			telemetry.Track("route", nil, map[string]any{"kind": r.Kind().String()})
			e.log.Debug("routed", slog.String("kind", r.Kind().String()), slog.Int("points", len(r.Points())))
			arrow := r.Arrowhead()

			if c.Bool("json") {
				enc := json.NewEncoder(e.out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Kind   route.Kind   `json:"kind"`
					Points []flow.Point `json:"points"`
					Arrow  []flow.Point `json:"arrow"`
				}{r.Kind(), points(r.Points()), points(arrow[:])})
			}
			st := lipgloss.NewRenderer(e.out).NewStyle().Bold(true)
			fmt.Fprintf(e.out, "%s %s\n", st.Render("kind:"), r.Kind())
			fmt.Fprintf(e.out, "%s %s\n", st.Render("points:"), formatPoints(r.Points()))
			fmt.Fprintf(e.out, "%s %s\n", st.Render("arrow:"), formatPoints(arrow[:]))
			return nil
		},
	}
}

func showCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "print the wires of a diagram with their route kinds",
		Flags: []cli.Flag{diagramFlag},
		Action: func(c *cli.Context) error {
			d, err := e.diagram(c.String("diagram"))
			if err != nil {
				return err
			}
			th, err := e.cfg.Theme()
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			re := lipgloss.NewRenderer(e.out)
			header := re.NewStyle().Bold(true).Padding(0, 1)
			cell := re.NewStyle().Padding(0, 1)

			wires := d.Wires()
			rows := make([][]string, 0, len(wires))
			for _, w := range wires {
				rows = append(rows, []string{
					strconv.Itoa(int(w.ID)),
					endpoint(d, w.From),
					endpoint(d, w.To),
					w.Mode.String(),
					w.Route.Kind().String(),
					strconv.Itoa(len(w.Route.Points())),
				})
			}
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(re.NewStyle().Foreground(lipgloss.Color(th.Grid.Hex()))).
				Headers("wire", "from", "to", "mode", "kind", "points").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return header
					}
					if col == 3 {
						return cell.Foreground(lipgloss.Color(th.ModeColor(wires[row].Mode).Hex()))
					}
					return cell
				})
			boxes, n := d.Counts()
			fmt.Fprintln(e.out, t.Render())
			fmt.Fprintf(e.out, "%d boxes, %d wires\n", boxes, n)
			return nil
		},
	}
}

func exportCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "export a diagram to svg, png, pdf or json",
		Flags: []cli.Flag{
			diagramFlag,
			&cli.StringFlag{Name: "preset", Usage: "web or print; picks formats, theme and grid"},
			&cli.StringSliceFlag{Name: "format", Aliases: []string{"f"}, Usage: "output format, repeatable"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output directory, or a file path ending in a format extension"},
			&cli.StringFlag{Name: "name", Usage: "base file name inside the output directory", Value: "diagram"},
			&cli.Float64Flag{Name: "scale", Usage: "PNG pixels per scene unit", Value: 1},
			&cli.BoolFlag{Name: "grid", Usage: "draw grid dots"},
		},
		Action: func(c *cli.Context) error {
			d, err := e.diagram(c.String("diagram"))
			if err != nil {
				return err
			}
			l := applog.WithOperation(e.log, "export")
			out := c.String("out")

			if _, err := export.FormatFromPath(out); out != "" && err == nil && !c.IsSet("preset") && !c.IsSet("format") {
				th, err := e.cfg.Theme()
				if err != nil {
					return cli.Exit(err.Error(), 2)
				}
				opt := export.Options{Theme: th, Grid: c.Bool("grid"), Title: c.String("name"), Scale: float32(c.Float64("scale"))}
				if err := export.ExportFile(out, d, opt); err != nil {
					return err
				}
				telemetry.Track("export", d, map[string]any{"formats": 1})
				fmt.Fprintln(e.out, out)
				return nil
			}

			preset := export.PresetName(strings.ToLower(c.String("preset")))
			switch preset {
			case "", export.PresetWeb, export.PresetPrint:
			default:
				return cli.Exit(fmt.Sprintf("unknown preset %q (want web or print)", preset), 2)
			}
			bo := export.BatchOptions{
				Preset:  preset,
				Formats: c.StringSlice("format"),
				Name:    c.String("name"),
				OutDir:  out,
				Scale:   float32(c.Float64("scale")),
			}
			if preset == "" {
				th, err := e.cfg.Theme()
				if err != nil {
					return cli.Exit(err.Error(), 2)
				}
				bo.Theme = &th
			}
			if c.IsSet("grid") {
				g := c.Bool("grid")
				bo.Grid = &g
			}
			paths, err := export.BatchExport(d, bo)
			if err != nil {
				return err
			}
			l.Info("batch export done", slog.Int("files", len(paths)))
			telemetry.Track("export", d, map[string]any{"formats": len(paths), "preset": string(preset)})
			for _, p := range paths {
				fmt.Fprintln(e.out, p)
			}
			return nil
		},
	}
}

func configCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "inspect or change the user configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "path",
				Usage: "print the config file path",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprintln(e.out, e.cfgPath)
					return err
				},
			},
			{
				Name:  "list",
				Usage: "print every key with its effective value",
				Action: func(c *cli.Context) error {
					for _, k := range config.Keys() {
						v, _ := e.cfg.Get(k)
						line := fmt.Sprintf("%s = %s", k, v)
						if env, ok := config.EnvOverrideFor(k); ok && os.Getenv(env) != "" {
							line += fmt.Sprintf(" (from %s)", env)
						}
						fmt.Fprintln(e.out, line)
					}
					return nil
				},
			},
			{
				Name:      "get",
				Usage:     "print one effective value",
				ArgsUsage: "KEY",
				Action: func(c *cli.Context) error {
					v, err := e.cfg.Get(c.Args().First())
					if err != nil {
						return cli.Exit(err.Error(), 2)
					}
					_, err = fmt.Fprintln(e.out, v)
					return err
				},
			},
			{
				Name:      "set",
				Usage:     "change one value in the config file",
				ArgsUsage: "KEY VALUE",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return cli.Exit("set needs KEY and VALUE", 2)
					}
					cfg, err := config.LoadFile(e.cfgPath)
					if err != nil {
						return err
					}
					if err := cfg.Set(c.Args().Get(0), c.Args().Get(1)); err != nil {
						return cli.Exit(err.Error(), 2)
					}
					if err := config.SaveTo(e.cfgPath, cfg); err != nil {
						return err
					}
					e.log.Info("config saved", slog.String("path", e.cfgPath), slog.String("key", c.Args().Get(0)))
					return nil
				},
			},
			{
				Name:      "validate",
				Usage:     "check a config file against the schema",
				ArgsUsage: "[FILE]",
				Action: func(c *cli.Context) error {
					path := e.cfgPath
					if c.NArg() > 0 {
						path = c.Args().First()
					}
					data, err := os.ReadFile(path)
					if err != nil {
						return err
					}
					if err := config.Validate(data); err != nil {
						return cli.Exit(err.Error(), 1)
					}
					_, err = fmt.Fprintln(e.out, "ok")
					return err
				},
			},
		},
	}
}

func uiCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "ui",
		Usage: "open the desktop editor",
		Flags: []cli.Flag{diagramFlag},
		Action: func(c *cli.Context) error {
			return ui.Run(ui.Options{Config: e.cfg, Diagram: c.String("diagram")})
		},
	}
}

func parsePoint(s string) (vector.Pt, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return vector.Pt{}, fmt.Errorf("point %q: want X,Y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 32)
	if err != nil {
		return vector.Pt{}, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 32)
	if err != nil {
		return vector.Pt{}, fmt.Errorf("point %q: %w", s, err)
	}
	return vector.P(float32(x), float32(y)), nil
}

func points(pts []vector.Pt) []flow.Point {
	out := make([]flow.Point, len(pts))
	for i, p := range pts {
		out[i] = flow.Point{X: p.X, Y: p.Y}
	}
	return out
}

func formatPoints(pts []vector.Pt) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("(%g,%g)", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func endpoint(d *flow.Diagram, ep flow.Endpoint) string {
	name := strconv.Itoa(int(ep.Box))
	if b, ok := d.Box(ep.Box); ok && b.Title != "" {
		name = b.Title
	}
	return name + "." + ep.Socket.String()
}
