package domain

import (
	"errors"
	"fmt"
	"regexp"
)

const CustomThemeName = "custom"

var (
	ErrUnknownTheme = errors.New("unknown theme")
	ErrInvalidShade = errors.New("invalid theme shade")
)

var shadePattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ThemeConfig is a named palette of five shades, lightest first.
type ThemeConfig struct {
	Name   string    `json:"name"`
	Shades [5]string `json:"shades"`
}

var themePresets = map[string][5]string{
	"indigo":  {"#eef2ff", "#c7d2fe", "#818cf8", "#4f46e5", "#312e81"},
	"emerald": {"#ecfdf5", "#a7f3d0", "#34d399", "#059669", "#064e3b"},
	"rose":    {"#fff1f2", "#fecdd3", "#fb7185", "#e11d48", "#881337"},
	"amber":   {"#fffbeb", "#fde68a", "#fbbf24", "#d97706", "#78350f"},
	"slate":   {"#f8fafc", "#cbd5e1", "#64748b", "#334155", "#0f172a"},
}

const DefaultThemeName = "indigo"

func DefaultTheme() ThemeConfig {
	theme, _ := PresetTheme(DefaultThemeName)
	return theme
}

func PresetTheme(name string) (ThemeConfig, error) {
	shades, ok := themePresets[name]
	if !ok {
		return ThemeConfig{}, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	return ThemeConfig{Name: name, Shades: shades}, nil
}

func PresetThemeNames() []string {
	return []string{"indigo", "emerald", "rose", "amber", "slate"}
}

func CustomTheme(shades [5]string) (ThemeConfig, error) {
	for i, shade := range shades {
		if !shadePattern.MatchString(shade) {
			return ThemeConfig{}, fmt.Errorf("%w: shade %d is %q", ErrInvalidShade, i+1, shade)
		}
	}
	return ThemeConfig{Name: CustomThemeName, Shades: shades}, nil
}
