package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// paletteEntry holds the light and dark value of one themed colour
type paletteEntry struct {
	light, dark color.Color
}

// appPalette overrides the default colours; anything missing falls through.
var appPalette = map[fyne.ThemeColorName]paletteEntry{
	theme.ColorNamePrimary: {
		light: color.NRGBA{R: 29, G: 185, B: 84, A: 255},
		dark:  color.NRGBA{R: 30, G: 215, B: 96, A: 255},
	},
	theme.ColorNameSuccess: {
		light: color.NRGBA{R: 29, G: 185, B: 84, A: 255},
		dark:  color.NRGBA{R: 30, G: 215, B: 96, A: 255},
	},
	theme.ColorNameError: {
		light: color.NRGBA{R: 183, G: 28, B: 28, A: 255},
		dark:  color.NRGBA{R: 239, G: 83, B: 80, A: 255},
	},
	theme.ColorNameBackground: {
		light: color.NRGBA{R: 248, G: 248, B: 248, A: 255},
		dark:  color.NRGBA{R: 18, G: 18, B: 18, A: 255},
	},
	theme.ColorNameInputBackground: {
		light: color.NRGBA{R: 238, G: 238, B: 238, A: 255},
		dark:  color.NRGBA{R: 40, G: 40, B: 40, A: 255},
	},
}

// appSizes keeps the options form and the output list dense
var appSizes = map[fyne.ThemeSizeName]float32{
	theme.SizeNamePadding:        3,
	theme.SizeNameInnerPadding:   6,
	theme.SizeNameLineSpacing:    2,
	theme.SizeNameScrollBar:      12,
	theme.SizeNameText:           13,
	theme.SizeNameHeadingText:    16,
	theme.SizeNameSubHeadingText: 14,
	theme.SizeNameCaptionText:    10,
	theme.SizeNameInputRadius:    3,
}

// AppTheme is the application theme: a green accent and tight spacing so
// long tool output fits on screen.
type AppTheme struct {
	fallback fyne.Theme
}

// NewAppTheme creates the application theme on top of the default one
func NewAppTheme() fyne.Theme {
	return &AppTheme{fallback: theme.DefaultTheme()}
}

func (t *AppTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if c, ok := appPalette[name]; ok {
		if variant == theme.VariantDark {
			return c.dark
		}
		return c.light
	}
	return t.fallback.Color(name, variant)
}

func (t *AppTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.fallback.Font(style)
}

func (t *AppTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.fallback.Icon(name)
}

func (t *AppTheme) Size(name fyne.ThemeSizeName) float32 {
	if s, ok := appSizes[name]; ok {
		return s
	}
	return t.fallback.Size(name)
}
