package tray

import "NagaGUI/i18n"

// Icon names from the freedesktop icon theme.
const (
	IconActive   = "input-gaming"
	IconInactive = "input-mouse"
)

// MenuItem is a toolkit-independent tray menu entry. A zero Label marks a separator.
type MenuItem struct {
	Label    string
	Disabled bool
	IsQuit   bool
	Action   func()
}

// IsSeparator reports whether the item is a separator.
func (m MenuItem) IsSeparator() bool {
	return m.Label == ""
}

// Actions are the commands reachable from the tray menu.
type Actions struct {
	ShowWindow func()
	Start      func()
	Stop       func()
	Quit       func()
}

// Presenter describes what the tray shows for a given state.
type Presenter struct {
	actions Actions
}

func NewPresenter(a Actions) *Presenter {
	return &Presenter{actions: a}
}

func (p *Presenter) Title() string {
	return "Config 2014 Naga GUI"
}

func (p *Presenter) IconName(active bool) string {
	if active {
		return IconActive
	}
	return IconInactive
}

func (p *Presenter) Menu(active bool) []MenuItem {
	status := MenuItem{Label: "○ " + i18n.T("Remapping Inactive"), Disabled: true}
	toggle := MenuItem{Label: i18n.T("Start Remapping"), Action: p.actions.Start}
	if active {
		status.Label = "● " + i18n.T("Remapping Active")
		toggle = MenuItem{Label: i18n.T("Stop Remapping"), Action: p.actions.Stop}
	}

	return []MenuItem{
		status,
		{},
		{Label: i18n.T("Show Window"), Action: p.actions.ShowWindow},
		toggle,
		{},
		{Label: i18n.T("Quit"), IsQuit: true, Action: p.actions.Quit},
	}
}
