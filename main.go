package main

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"NagaGUI/config"
	"NagaGUI/i18n"
	"NagaGUI/logging"
	"NagaGUI/session"
	"NagaGUI/settings"
	"NagaGUI/ui"

	"fyne.io/fyne/v2/app"
)

const appID = "io.github.config2014naga.gui"

//go:embed assets/*
var content embed.FS

func main() {
	os.Exit(run())
}

func run() int {
	s, err := settings.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	logCloser := logging.Init(s.LogLevel, s.LogFormat, s.LogFile)
	defer logCloser.Close()

	i18n.Init(s.Lang)

	store := config.NewStore(s.ConfigDir)
	lock, err := session.LockInstance(store.Dir())
	switch {
	case errors.Is(err, session.ErrAnotherInstance):
		slog.Error(i18n.T("Another instance is already running"), "dir", store.Dir())
		return 1
	case err != nil:
		slog.Warn("running without instance lock", "error", err)
	default:
		defer func() {
			if err := lock.Release(); err != nil {
				slog.Warn("failed to release instance lock", "error", err)
			}
		}()
	}

	fyneApp := app.NewWithID(appID)
	if res := loadIcon(); res != nil {
		fyneApp.SetIcon(res)
	}
	fyneApp.Settings().SetTheme(ui.NewCustomTheme(nil, nil))

	a := NewAppManager(fyneApp, s, store, content)
	defer a.Shutdown()

	w := ui.CreateMainWindow(a, fyneApp)
	a.AttachWindow(w)
	a.Start()

	slog.Info("naga gui started", "config_dir", store.Dir(), "engine", s.Engine)
	w.Window().ShowAndRun()
	return 0
}
