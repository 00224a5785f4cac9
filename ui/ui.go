package ui

import (
	"fmt"
	"image/color"
	"time"

	"NagaGUI/control"
	"NagaGUI/i18n"
	"NagaGUI/keymap"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	windowWidth  = 560
	windowHeight = 620
)

// App is what the main window needs from the application.
type App interface {
	EnqueueCommand(cmd control.Command)
	CurrentView() control.View
	ConfigDir() string
	Quit()
}

// MainWindow holds the widgets that mirror the published control.View.
type MainWindow struct {
	app    App
	window fyne.Window

	keySelects    [keymap.MaxButton + 1]*widget.Select
	indicatorText *canvas.Text
	indicatorRect *canvas.Rectangle
	uptimeLabel   *widget.Label
	statusLabel   *widget.Label
	loadedLabel   *widget.Label
	clearButton   *widget.Button
	startButton   *widget.Button
	stopButton    *widget.Button

	// syncing is set while a view is applied so that programmatic
	// selection changes are not sent back as edits.
	syncing bool
	current control.View
}

// CreateMainWindow builds the main window. Call Apply to populate it.
func CreateMainWindow(a App, fyneApp fyne.App) *MainWindow {
	title := fyneApp.Metadata().Name
	if title == "" {
		title = "Config 2014 Naga GUI"
	}
	mw := &MainWindow{app: a, window: fyneApp.NewWindow(title)}

	tabs := container.NewAppTabs(
		container.NewTabItemWithIcon(i18n.T("Key Mappings"), theme.ListIcon(), mw.buildMappingsTab()),
		container.NewTabItemWithIcon(i18n.T("Settings"), theme.SettingsIcon(), mw.buildSettingsTab()),
		container.NewTabItemWithIcon(i18n.T("About"), theme.InfoIcon(), mw.buildAboutTab()),
	)

	content := container.NewBorder(mw.buildHeader(), mw.buildStatusBar(), nil, nil, tabs)

	mw.window.SetMainMenu(mw.buildMainMenu())
	mw.window.SetContent(content)
	mw.window.Resize(fyne.NewSize(windowWidth, windowHeight))
	mw.apply(a.CurrentView())
	return mw
}

// Window returns the underlying fyne window.
func (mw *MainWindow) Window() fyne.Window {
	return mw.window
}

// Apply shows v. It may be called from any goroutine.
func (mw *MainWindow) Apply(v control.View) {
	fyne.Do(func() { mw.apply(v) })
}

// RefreshUptime redraws the uptime of the current session. It may be called
// from any goroutine.
func (mw *MainWindow) RefreshUptime(now time.Time) {
	fyne.Do(func() { mw.setUptime(now) })
}

func (mw *MainWindow) apply(v control.View) {
	mw.syncing = true
	defer func() { mw.syncing = false }()
	mw.current = v

	for b := keymap.MinButton; b <= keymap.MaxButton; b++ {
		key, ok := v.Key(b)
		if !ok {
			key = unmappedLabel()
		}
		if mw.keySelects[b].Selected != key {
			mw.keySelects[b].SetSelected(key)
		}
	}

	if v.Active {
		mw.indicatorText.Text = i18n.T("ACTIVE")
		mw.indicatorRect.FillColor = withAlpha(activeColor, 0x40)
		mw.startButton.Hide()
		mw.stopButton.Show()
	} else {
		mw.indicatorText.Text = i18n.T("INACTIVE")
		mw.indicatorRect.FillColor = withAlpha(inactiveColor, 0x40)
		mw.stopButton.Hide()
		mw.startButton.Show()
	}
	mw.indicatorText.Refresh()
	mw.indicatorRect.Refresh()
	mw.setUptime(time.Now())

	if v.LoadedPath != "" {
		mw.loadedLabel.SetText(v.LoadedPath)
		mw.clearButton.Enable()
	} else {
		mw.loadedLabel.SetText(i18n.T("No config loaded"))
		mw.clearButton.Disable()
	}
	mw.statusLabel.SetText(v.Status)
}

func (mw *MainWindow) setUptime(now time.Time) {
	if !mw.current.Active || mw.current.Session.StartedAt.IsZero() {
		mw.uptimeLabel.SetText("")
		return
	}
	mw.uptimeLabel.SetText(fmt.Sprintf(i18n.T("Uptime %s"), FormatUptime(now.Sub(mw.current.Session.StartedAt))))
}

func (mw *MainWindow) buildHeader() fyne.CanvasObject {
	mw.indicatorText = canvas.NewText(i18n.T("INACTIVE"), theme.Color(theme.ColorNameForeground))
	mw.indicatorText.TextStyle.Bold = true
	mw.indicatorText.TextSize = indicatorTextSize

	mw.indicatorRect = canvas.NewRectangle(withAlpha(inactiveColor, 0x40))
	mw.indicatorRect.CornerRadius = cornerRadius
	mw.indicatorRect.SetMinSize(fyne.NewSize(indicatorWidth, 0))

	indicator := container.NewStack(mw.indicatorRect, container.NewCenter(mw.indicatorText))
	mw.uptimeLabel = widget.NewLabel("")

	mw.startButton = widget.NewButtonWithIcon(i18n.T("Start"), theme.MediaPlayIcon(), func() {
		mw.app.EnqueueCommand(control.Command{Type: control.CmdStart})
	})
	mw.startButton.Importance = widget.HighImportance

	mw.stopButton = widget.NewButtonWithIcon(i18n.T("Stop"), theme.MediaStopIcon(), func() {
		mw.app.EnqueueCommand(control.Command{Type: control.CmdStop})
	})
	mw.stopButton.Importance = widget.DangerImportance
	mw.stopButton.Hide()

	controlStack := container.NewStack(mw.startButton, mw.stopButton)

	return container.NewPadded(container.NewHBox(indicator, mw.uptimeLabel, layout.NewSpacer(), controlStack))
}

func (mw *MainWindow) buildMappingsTab() fyne.CanvasObject {
	options := append([]string{unmappedLabel()}, keymap.ValidKeys()...)

	form := container.New(layout.NewFormLayout())
	for b := keymap.MinButton; b <= keymap.MaxButton; b++ {
		button := b
		sel := widget.NewSelect(options, nil)
		sel.SetSelected(unmappedLabel())
		sel.OnChanged = func(choice string) {
			mw.onKeyChosen(button, choice)
		}
		mw.keySelects[b] = sel
		form.Add(widget.NewLabel(fmt.Sprintf(i18n.T("Button %d"), b)))
		form.Add(sel)
	}

	actions := container.NewHBox(
		widget.NewButtonWithIcon(i18n.T("Browse..."), theme.FolderOpenIcon(), mw.showOpenDialog),
		widget.NewButtonWithIcon(i18n.T("Save As..."), theme.DocumentSaveIcon(), mw.showSaveDialog),
	)

	return container.NewBorder(nil, actions, nil, nil, container.NewVScroll(form))
}

func (mw *MainWindow) onKeyChosen(button int, choice string) {
	if mw.syncing {
		return
	}
	if choice == unmappedLabel() || choice == "" {
		mw.app.EnqueueCommand(control.Command{Type: control.CmdUnsetKey, Button: button})
		return
	}
	mw.app.EnqueueCommand(control.Command{Type: control.CmdSetKey, Button: button, Key: choice})
}

func (mw *MainWindow) buildSettingsTab() fyne.CanvasObject {
	dir := mw.app.ConfigDir()

	dirLabel := widget.NewLabelWithStyle(dir, fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})
	dirLabel.Wrapping = fyne.TextWrapBreak
	copyButton := widget.NewButtonWithIcon(i18n.T("Copy"), theme.ContentCopyIcon(), func() {
		mw.window.Clipboard().SetContent(dir)
		mw.app.EnqueueCommand(control.Command{Type: control.CmdStatus, Message: i18n.T("Path copied to clipboard")})
	})

	mw.loadedLabel = widget.NewLabelWithStyle(i18n.T("No config loaded"), fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})
	mw.loadedLabel.Wrapping = fyne.TextWrapBreak
	mw.clearButton = widget.NewButtonWithIcon(i18n.T("Clear (Use Default)"), theme.DeleteIcon(), func() {
		mw.app.EnqueueCommand(control.Command{Type: control.CmdClear})
	})
	mw.clearButton.Disable()

	return container.NewVBox(
		widget.NewLabel(i18n.T("Config directory:")),
		container.NewBorder(nil, nil, nil, copyButton, dirLabel),
		widget.NewSeparator(),
		widget.NewLabel(i18n.T("Currently loaded config:")),
		mw.loadedLabel,
		container.NewHBox(mw.clearButton),
	)
}

func (mw *MainWindow) buildAboutTab() fyne.CanvasObject {
	heading := widget.NewLabelWithStyle("Config 2014 Naga Key Remapper", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	body := widget.NewLabel(i18n.T("aboutBody"))
	body.Wrapping = fyne.TextWrapWord

	return container.NewVScroll(container.NewVBox(
		heading,
		widget.NewLabel(i18n.T("GUI Configuration Tool")),
		widget.NewSeparator(),
		body,
	))
}

func (mw *MainWindow) buildStatusBar() fyne.CanvasObject {
	mw.statusLabel = widget.NewLabel("")
	mw.statusLabel.Truncation = fyne.TextTruncateEllipsis
	return container.NewVBox(widget.NewSeparator(), mw.statusLabel)
}

func (mw *MainWindow) buildMainMenu() *fyne.MainMenu {
	quit := fyne.NewMenuItem(i18n.T("Quit"), mw.app.Quit)
	quit.IsQuit = true
	return fyne.NewMainMenu(fyne.NewMenu(i18n.T("File"),
		fyne.NewMenuItem(i18n.T("Browse..."), mw.showOpenDialog),
		fyne.NewMenuItem(i18n.T("Save As..."), mw.showSaveDialog),
		fyne.NewMenuItemSeparator(),
		quit,
	))
}

func (mw *MainWindow) showOpenDialog() {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.window)
			return
		}
		if rc == nil {
			return
		}
		path := rc.URI().Path()
		rc.Close()
		mw.app.EnqueueCommand(control.Command{Type: control.CmdLoad, Path: path})
	}, mw.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".toml"}))
	mw.startIn(d.SetLocation)
	d.Show()
}

func (mw *MainWindow) showSaveDialog() {
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.window)
			return
		}
		if wc == nil {
			return
		}
		// The config store writes the file itself with an atomic replace.
		path := wc.URI().Path()
		wc.Close()
		mw.app.EnqueueCommand(control.Command{Type: control.CmdSave, Path: path})
	}, mw.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".toml"}))
	d.SetFileName("config.toml")
	mw.startIn(d.SetLocation)
	d.Show()
}

// startIn points a file dialog at the config directory when it exists.
func (mw *MainWindow) startIn(setLocation func(fyne.ListableURI)) {
	uri, err := storage.ListerForURI(storage.NewFileURI(mw.app.ConfigDir()))
	if err != nil {
		return
	}
	setLocation(uri)
}

func unmappedLabel() string {
	return i18n.T("(unmapped)")
}

func withAlpha(c color.Color, alpha uint8) color.NRGBA {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: alpha}
}
