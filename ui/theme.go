package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

const (
	cornerRadius      = 6
	indicatorWidth    = 110
	indicatorTextSize = 16
)

var (
	activeColor   = color.NRGBA{R: 0x3c, G: 0xb3, B: 0x71, A: 0xff}
	inactiveColor = color.NRGBA{R: 0x8a, G: 0x8f, B: 0x98, A: 0xff}
	accentColor   = color.NRGBA{R: 0x44, G: 0xd6, B: 0x2c, A: 0xff}
)

// CustomTheme tints the default theme with the Naga accent colour and can
// optionally swap the UI fonts.
type CustomTheme struct {
	fyne.Theme
	medium fyne.Resource
	bold   fyne.Resource
}

// NewCustomTheme creates the application theme. Nil fonts keep the defaults.
func NewCustomTheme(mediumFont, boldFont fyne.Resource) fyne.Theme {
	return &CustomTheme{Theme: theme.DefaultTheme(), medium: mediumFont, bold: boldFont}
}

// Color overrides the primary and success colours.
func (t *CustomTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return accentColor
	case theme.ColorNameSuccess:
		return activeColor
	}
	return t.Theme.Color(name, variant)
}

// Font returns the font for the given style.
func (t *CustomTheme) Font(style fyne.TextStyle) fyne.Resource {
	if style.Monospace || style.Symbol {
		return t.Theme.Font(style)
	}
	if style.Bold && t.bold != nil {
		return t.bold
	}
	if t.medium != nil {
		return t.medium
	}
	return t.Theme.Font(style)
}
