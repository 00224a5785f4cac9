// Package main wires the Naga remapper front-end together.
//
// Goroutines and ownership:
//   - The fyne main loop owns every widget. Other goroutines reach it through
//     fyne.Do (see ui.MainWindow.Apply and ui.TrayAdapter.Refresh).
//   - control.Controller.Run is the only goroutine that touches the key
//     mapping. The window, the tray menu and the config watcher post commands
//     to it with EnqueueCommand, which gives up after a short timeout instead
//     of blocking the UI.
//   - session.Coordinator runs at most one remapping worker and is the only
//     writer of the shared state.Session flag.
//   - tray.Poller reads that flag on its own ticker and refreshes the tray
//     when it flips. It never takes the coordinator lock.
package main

import (
	"context"
	"embed"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"NagaGUI/chime"
	"NagaGUI/config"
	"NagaGUI/control"
	"NagaGUI/engine"
	"NagaGUI/session"
	"NagaGUI/settings"
	"NagaGUI/state"
	"NagaGUI/tray"
	"NagaGUI/ui"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/jonboulle/clockwork"
)

// shutdownWait bounds how long exit waits for a stopped worker.
const shutdownWait = engine.DefaultGrace + time.Second

// AppManager holds the long-lived components.
type AppManager struct {
	fyneApp    fyne.App
	settings   *settings.Settings
	store      *config.Store
	state      *state.Session
	coord      *session.Coordinator
	ctrl       *control.Controller
	chime      *chime.Player
	content    embed.FS
	mainWindow *ui.MainWindow

	ctx    context.Context
	cancel context.CancelFunc
}

// NewAppManager builds the core and restores the last used config.
func NewAppManager(fyneApp fyne.App, s *settings.Settings, store *config.Store, content embed.FS) *AppManager {
	a := &AppManager{
		fyneApp:  fyneApp,
		settings: s,
		store:    store,
		state:    state.New(),
		chime:    chime.New(s.Sounds),
		content:  content,
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())

	a.coord = session.NewCoordinator(engine.Resolve(s.Engine), a.state)
	a.ctrl = control.New(store, a.coord,
		control.WithNotifier(a.chime),
		control.WithFileWatch(true),
		control.WithOnChange(a.onViewChanged),
	)
	a.ctrl.Bootstrap()
	return a
}

// AttachWindow sets the main window. It must be called before Start.
func (a *AppManager) AttachWindow(w *ui.MainWindow) {
	a.mainWindow = w
}

// Start launches the background goroutines and installs the tray.
func (a *AppManager) Start() {
	go a.ctrl.Run(a.ctx)
	go a.tick(a.ctx)
	go a.watchSignals(a.ctx)

	desk, ok := a.fyneApp.(desktop.App)
	if !ok {
		slog.Info("system tray not supported, closing the window quits")
		return
	}

	presenter := tray.NewPresenter(tray.Actions{
		ShowWindow: a.ShowWindow,
		Start:      func() { a.EnqueueCommand(control.Command{Type: control.CmdStart}) },
		Stop:       func() { a.EnqueueCommand(control.Command{Type: control.CmdStop}) },
		Quit:       a.Quit,
	})
	adapter := ui.NewTrayAdapter(desk, presenter, map[string]fyne.Resource{
		tray.IconActive:   a.resource("assets/" + tray.IconActive + ".svg"),
		tray.IconInactive: a.resource("assets/" + tray.IconInactive + ".svg"),
	})
	adapter.Set(a.state.Get())

	poller := tray.NewPoller(a.state, adapter, a.settings.PollInterval, clockwork.NewRealClock())
	go poller.Run(a.ctx)

	w := a.mainWindow.Window()
	w.SetCloseIntercept(w.Hide)
}

// EnqueueCommand forwards cmd to the command loop.
func (a *AppManager) EnqueueCommand(cmd control.Command) {
	a.ctrl.Enqueue(cmd)
}

// CurrentView returns the last published view.
func (a *AppManager) CurrentView() control.View {
	return a.ctrl.View()
}

// ConfigDir returns the directory holding the app's own files.
func (a *AppManager) ConfigDir() string {
	return a.store.Dir()
}

// ShowWindow brings the main window back from the tray.
func (a *AppManager) ShowWindow() {
	w := a.mainWindow.Window()
	w.Show()
	w.RequestFocus()
}

// Quit ends the fyne main loop. Shutdown does the cleanup afterwards.
func (a *AppManager) Quit() {
	a.fyneApp.Quit()
}

// Shutdown stops any running session and the background goroutines. It runs
// after the fyne main loop has returned.
func (a *AppManager) Shutdown() {
	a.coord.Shutdown()
	// Give the remapper its interrupt grace so it is not left running
	// without a parent once this process exits.
	if !a.coord.Wait(shutdownWait) {
		slog.Warn("remapping worker still running at exit")
	}
	a.cancel()
}

func (a *AppManager) onViewChanged(v control.View) {
	if a.mainWindow != nil {
		a.mainWindow.Apply(v)
	}
}

// tick keeps the uptime label current while a session runs.
func (a *AppManager) tick(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if a.state.Get() {
				a.mainWindow.RefreshUptime(now)
			}
		}
	}
}

// watchSignals quits cleanly on SIGINT/SIGTERM so the worker is stopped
// before the process goes away.
func (a *AppManager) watchSignals(ctx context.Context) {
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-sigCtx.Done()
	if ctx.Err() != nil {
		return
	}
	slog.Info("signal received, quitting")
	fyne.Do(a.Quit)
}

func (a *AppManager) resource(name string) fyne.Resource {
	data, err := a.content.ReadFile(name)
	if err != nil {
		slog.Warn("failed to load asset", "name", name, "error", err)
		return nil
	}
	return fyne.NewStaticResource(path.Base(name), data)
}

func loadIcon() fyne.Resource {
	data, err := content.ReadFile("assets/icon.svg")
	if err != nil {
		slog.Warn("failed to load icon", "error", err)
		return nil
	}
	return fyne.NewStaticResource("icon.svg", data)
}
