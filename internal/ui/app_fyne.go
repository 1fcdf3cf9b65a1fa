//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"flowdraft/internal/crash"
	"flowdraft/internal/export"
	"flowdraft/internal/flow"
	applog "flowdraft/internal/log"
	"flowdraft/internal/render"
	"flowdraft/internal/telemetry"
	"flowdraft/internal/version"
)

// Run opens the editor window and blocks until it is closed.
func Run(opts Options) error {
	applog.Init(opts.Config.LogOptions())
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("diagram", opts.Diagram))

	session, err := NewSession(opts)
	if err != nil {
		return err
	}
	defer func() { crash.Recover(session.Diagram()) }()
	telemetry.Track("ui-start", session.Diagram(), nil)

	fyneApp := app.NewWithID("flowdraft")
	w := fyneApp.NewWindow("Flowdraft")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 640 {
		winW = 640
	}
	if winH < 480 {
		winH = 480
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	fc := NewFlowCanvas(session)
	fc.OnChange = func() { status.SetText(statusText(fc.Session())) }

	unsubscribe := session.Diagram().Subscribe(func(flow.Change) { fc.Refresh() })
	open := func(name string) {
		o := opts
		o.Diagram = name
		s, err := NewSession(o)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		unsubscribe()
		unsubscribe = s.Diagram().Subscribe(func(flow.Change) { fc.Refresh() })
		session = s
		fc.SetSession(s)
		fc.Fit()
		l.Info("diagram opened", slog.String("name", name))
	}

	undoAct := func() {
		if _, err := fc.Session().Undo(); err != nil {
			dialog.ShowError(err, w)
		}
		fc.changed()
	}
	redoAct := func() {
		if _, err := fc.Session().Redo(); err != nil {
			dialog.ShowError(err, w)
		}
		fc.changed()
	}
	deleteAct := func() {
		if err := fc.Session().RemoveSelected(); err != nil {
			dialog.ShowError(err, w)
		}
		fc.changed()
	}
	toggleTheme := func() {
		s := fc.Session()
		next := render.LightTheme()
		if s.Theme().Name == next.Name {
			next = render.DefaultTheme()
		}
		s.SetTheme(next)
		fc.changed()
	}

	exportAct := func() {
		d := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			defer uc.Close()
			path := uc.URI().Path()
			f, err := export.FormatFromPath(path)
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			s := fc.Session()
			eo := export.Options{Theme: s.Theme(), Grid: fc.Grid(), Title: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
			if err := export.Write(uc, f, s.Diagram(), eo); err != nil {
				dialog.ShowError(err, w)
				return
			}
			addRecentExportDir(prefs, filepath.Dir(path))
			status.SetText("Exported " + path)
			l.Info("exported", slog.String("path", path), slog.String("format", string(f)))
		}, w)
		d.SetFileName("diagram.svg")
		if dirs := loadRecentExportDirs(prefs); len(dirs) > 0 {
			if lister, err := fstorage.ListerForURI(fstorage.NewFileURI(dirs[0])); err == nil {
				d.SetLocation(lister)
			}
		}
		d.Show()
	}

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.ZoomInIcon(), fc.ZoomIn),
		widget.NewToolbarAction(theme.ZoomOutIcon(), fc.ZoomOut),
		widget.NewToolbarAction(theme.ZoomFitIcon(), fc.Fit),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentUndoIcon(), undoAct),
		widget.NewToolbarAction(theme.ContentRedoIcon(), redoAct),
		widget.NewToolbarAction(theme.DeleteIcon(), deleteAct),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.GridIcon(), func() { fc.SetGrid(!fc.Grid()) }),
		widget.NewToolbarAction(theme.ColorPaletteIcon(), toggleTheme),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), exportAct),
	)

	exportItem := fyne.NewMenuItem("Export…", exportAct)
	exportItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyE, Modifier: fyne.KeyModifierControl}
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Sample", func() { open(DiagramSample) }),
		fyne.NewMenuItem("Gallery", func() { open(DiagramGallery) }),
		fyne.NewMenuItem("Empty", func() { open(DiagramEmpty) }),
		fyne.NewMenuItemSeparator(),
		exportItem,
	)
	undoItem := fyne.NewMenuItem("Undo", undoAct)
	undoItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl}
	redoItem := fyne.NewMenuItem("Redo", redoAct)
	redoItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierControl}
	editMenu := fyne.NewMenu("Edit", undoItem, redoItem, fyne.NewMenuItem("Delete", deleteAct))
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", fc.ZoomIn),
		fyne.NewMenuItem("Zoom Out", fc.ZoomOut),
		fyne.NewMenuItem("Fit", fc.Fit),
		fyne.NewMenuItem("Toggle Grid", func() { fc.SetGrid(!fc.Grid()) }),
		fyne.NewMenuItem("Toggle Theme", toggleTheme),
	)
	aboutMenu := fyne.NewMenu("Help", fyne.NewMenuItem("About", func() {
		dialog.ShowInformation("About", version.String(), w)
	}))
	w.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, aboutMenu))

	for _, sc := range []struct {
		key fyne.KeyName
		fn  func()
	}{{fyne.KeyZ, undoAct}, {fyne.KeyY, redoAct}, {fyne.KeyE, exportAct}} {
		fn := sc.fn
		w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: sc.key, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { fn() })
	}
	w.Canvas().SetOnTypedKey(func(e *fyne.KeyEvent) {
		switch e.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			deleteAct()
		case fyne.KeyEscape:
			if err := fc.Session().CancelDrag(); err != nil {
				l.Warn("cancel drag", slog.Any("err", err))
			}
			fc.changed()
		}
	})

	w.SetContent(container.NewBorder(toolbar, status, nil, nil, fc))
	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		unsubscribe()
		w.Close()
	})
	status.SetText(statusText(session))
	w.ShowAndRun()
	l.Info("UI closed")
	return nil
}

const recentExportKey = "recent.exportDirs"
const recentMax = 5

func loadRecentExportDirs(p fyne.Preferences) []string {
	raw := p.StringWithFallback(recentExportKey, "")
	var items []string
	if strings.TrimSpace(raw) != "" {
		_ = json.Unmarshal([]byte(raw), &items)
	}
	out := make([]string, 0, len(items))
	for _, s := range items {
		if fi, err := os.Stat(s); err == nil && fi.IsDir() {
			out = append(out, s)
		}
	}
	return out
}

func addRecentExportDir(p fyne.Preferences, dir string) {
	if strings.TrimSpace(dir) == "" {
		return
	}
	abs, _ := filepath.Abs(dir)
	out := []string{abs}
	for _, s := range loadRecentExportDirs(p) {
		if !strings.EqualFold(s, abs) {
			out = append(out, s)
		}
	}
	if len(out) > recentMax {
		out = out[:recentMax]
	}
	b, _ := json.Marshal(out)
	p.SetString(recentExportKey, string(b))
}
