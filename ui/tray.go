package ui

import (
	"log/slog"

	"NagaGUI/tray"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// TrayHost is the part of desktop.App the tray adapter drives.
type TrayHost interface {
	SetSystemTrayMenu(menu *fyne.Menu)
	SetSystemTrayIcon(icon fyne.Resource)
}

// TrayAdapter turns poller refreshes into system tray updates.
type TrayAdapter struct {
	host      TrayHost
	presenter *tray.Presenter
	icons     map[string]fyne.Resource
}

// NewTrayAdapter creates an adapter. icons maps tray.IconActive and
// tray.IconInactive to resources; missing entries fall back to theme icons.
func NewTrayAdapter(host TrayHost, presenter *tray.Presenter, icons map[string]fyne.Resource) *TrayAdapter {
	return &TrayAdapter{host: host, presenter: presenter, icons: icons}
}

// Refresh implements tray.Refresher. It is called from the poller goroutine.
func (t *TrayAdapter) Refresh(active bool) {
	fyne.Do(func() { t.Set(active) })
	slog.Debug("tray refreshed", "active", active)
}

// Set installs the menu and icon for active. It must run on the fyne thread.
func (t *TrayAdapter) Set(active bool) {
	t.host.SetSystemTrayMenu(BuildTrayMenu(t.presenter.Title(), t.presenter.Menu(active)))
	t.host.SetSystemTrayIcon(t.icon(t.presenter.IconName(active)))
}

func (t *TrayAdapter) icon(name string) fyne.Resource {
	if res, ok := t.icons[name]; ok && res != nil {
		return res
	}
	if name == tray.IconActive {
		return theme.MediaPlayIcon()
	}
	return theme.ComputerIcon()
}

// BuildTrayMenu converts presenter items into a fyne menu.
func BuildTrayMenu(title string, items []tray.MenuItem) *fyne.Menu {
	out := make([]*fyne.MenuItem, 0, len(items))
	for _, it := range items {
		if it.IsSeparator() {
			out = append(out, fyne.NewMenuItemSeparator())
			continue
		}
		mi := fyne.NewMenuItem(it.Label, it.Action)
		mi.Disabled = it.Disabled
		mi.IsQuit = it.IsQuit
		out = append(out, mi)
	}
	return fyne.NewMenu(title, out...)
}
