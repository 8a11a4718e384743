package ui

import (
	"image/color"
	"os"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"gopkg.in/yaml.v3"
)

// Theme defines colors and styles used across the picker. Host apps can
// supply their own theme via SetTheme or a YAML theme file.
type Theme struct {
	TitleColor     color.Color // Panel title in the top border
	BorderColor    color.Color // Border of unfocused panels
	BorderFocus    color.Color // Border of the focused panel
	BorderStyle    string      // Border style (normal|rounded)
	HeaderFG       color.Color // Column header text
	CursorFG       color.Color // Row under cursor foreground
	CursorBG       color.Color // Row under cursor background
	CheckedColor   color.Color // Selection checkbox glyph
	ZebraBG        color.Color // Odd row background
	MatchFG        color.Color // Filter match highlight foreground
	MatchBG        color.Color // Filter match highlight background
	FilterColor    color.Color // Filter indicator in the bottom border
	FooterColor    color.Color // Footer counters
	StatusError    color.Color // Error banner text
	StatusSuccess  color.Color // Success/confirmation accents
	SeparatorColor color.Color // Column separators and scrollbar track
	KeyColor       color.Color // Preview key column
	ValueColor     color.Color // Preview value column
}

var currentTheme Theme

// DefaultTheme returns the built-in dark palette.
func DefaultTheme() Theme {
	return Theme{
		TitleColor:     lipgloss.Color("81"),  // cyan titles
		BorderColor:    lipgloss.Color("238"), // subtle borders when unfocused
		BorderFocus:    lipgloss.Color("81"),  // cyan border marks focus
		BorderStyle:    "normal",
		HeaderFG:       lipgloss.Color("81"),
		CursorFG:       lipgloss.Color("250"),
		CursorBG:       lipgloss.Color("24"), // deep teal cursor row
		CheckedColor:   lipgloss.Color("114"),
		ZebraBG:        lipgloss.Color("236"),
		MatchFG:        lipgloss.Color("229"),
		MatchBG:        lipgloss.Color("58"), // dim olive behind matches
		FilterColor:    lipgloss.Color("81"),
		FooterColor:    lipgloss.Color("244"),
		StatusError:    lipgloss.Color("203"),
		StatusSuccess:  lipgloss.Color("114"),
		SeparatorColor: lipgloss.Color("238"),
		KeyColor:       lipgloss.Color("81"),
		ValueColor:     lipgloss.Color("246"),
	}
}

// LightTheme returns a palette readable on light terminal backgrounds.
func LightTheme() Theme {
	th := DefaultTheme()
	th.TitleColor = lipgloss.Color("25")
	th.BorderColor = lipgloss.Color("250")
	th.BorderFocus = lipgloss.Color("25")
	th.HeaderFG = lipgloss.Color("25")
	th.CursorFG = lipgloss.Color("231")
	th.CursorBG = lipgloss.Color("31")
	th.ZebraBG = lipgloss.Color("254")
	th.MatchFG = lipgloss.Color("16")
	th.MatchBG = lipgloss.Color("222")
	th.ValueColor = lipgloss.Color("240")
	th.FooterColor = lipgloss.Color("245")
	return th
}

// SetTheme overrides the global theme.
func SetTheme(t Theme) {
	t.BorderStyle = normalizeBorderStyle(t.BorderStyle)
	currentTheme = t
}

// CurrentTheme returns the currently configured theme.
func CurrentTheme() Theme {
	if currentTheme == (Theme{}) {
		currentTheme = DefaultTheme()
	}
	return currentTheme
}

// ColorValue stores a color token (number or name) and marshals numerics as YAML ints.
type ColorValue string

func (c ColorValue) MarshalYAML() (interface{}, error) {
	if c == "" {
		return "", nil
	}
	s := string(c)
	if _, err := strconv.Atoi(s); err == nil {
		return &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!int",
			Value: s,
		}, nil
	}
	return s, nil
}

func (c *ColorValue) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		*c = ""
		return nil
	}
	// Accept both ints and strings; store the literal value.
	*c = ColorValue(value.Value)
	return nil
}

// ThemeConfig is a YAML-friendly theme configuration (colors accept ints or strings).
type ThemeConfig struct {
	TitleColor     ColorValue `yaml:"title_color" yamlcomment:"Panel title color"`
	BorderColor    ColorValue `yaml:"border_color" yamlcomment:"Unfocused border color"`
	BorderFocus    ColorValue `yaml:"border_focus" yamlcomment:"Focused border color"`
	BorderStyle    string     `yaml:"border_style" yamlcomment:"Border style (normal|rounded)"`
	HeaderFG       ColorValue `yaml:"header_fg" yamlcomment:"Column header color"`
	CursorFG       ColorValue `yaml:"cursor_fg" yamlcomment:"Cursor row foreground"`
	CursorBG       ColorValue `yaml:"cursor_bg" yamlcomment:"Cursor row background"`
	CheckedColor   ColorValue `yaml:"checked_color" yamlcomment:"Selection checkbox color"`
	ZebraBG        ColorValue `yaml:"zebra_bg" yamlcomment:"Odd row background"`
	MatchFG        ColorValue `yaml:"match_fg" yamlcomment:"Filter match foreground"`
	MatchBG        ColorValue `yaml:"match_bg" yamlcomment:"Filter match background"`
	FilterColor    ColorValue `yaml:"filter_color" yamlcomment:"Filter indicator color"`
	FooterColor    ColorValue `yaml:"footer_color" yamlcomment:"Footer counter color"`
	StatusError    ColorValue `yaml:"status_error" yamlcomment:"Error banner color"`
	StatusSuccess  ColorValue `yaml:"status_success" yamlcomment:"Success accent color"`
	SeparatorColor ColorValue `yaml:"separator_color" yamlcomment:"Separator and scrollbar color"`
	KeyColor       ColorValue `yaml:"key_color" yamlcomment:"Preview key column color"`
	ValueColor     ColorValue `yaml:"value_color" yamlcomment:"Preview value column color"`
}

// ThemeFromConfig builds a Theme from a ThemeConfig, falling back to defaults
// for fields left empty.
func ThemeFromConfig(cfg ThemeConfig) Theme {
	th := DefaultTheme()
	set := func(val ColorValue, dst *color.Color) {
		if val != "" {
			*dst = lipgloss.Color(string(val))
		}
	}
	set(cfg.TitleColor, &th.TitleColor)
	set(cfg.BorderColor, &th.BorderColor)
	set(cfg.BorderFocus, &th.BorderFocus)
	if cfg.BorderStyle != "" {
		th.BorderStyle = normalizeBorderStyle(cfg.BorderStyle)
	}
	set(cfg.HeaderFG, &th.HeaderFG)
	set(cfg.CursorFG, &th.CursorFG)
	set(cfg.CursorBG, &th.CursorBG)
	set(cfg.CheckedColor, &th.CheckedColor)
	set(cfg.ZebraBG, &th.ZebraBG)
	set(cfg.MatchFG, &th.MatchFG)
	set(cfg.MatchBG, &th.MatchBG)
	set(cfg.FilterColor, &th.FilterColor)
	set(cfg.FooterColor, &th.FooterColor)
	set(cfg.StatusError, &th.StatusError)
	set(cfg.StatusSuccess, &th.StatusSuccess)
	set(cfg.SeparatorColor, &th.SeparatorColor)
	set(cfg.KeyColor, &th.KeyColor)
	set(cfg.ValueColor, &th.ValueColor)
	return th
}

// LoadThemeFile reads a YAML theme file and returns a Theme.
func LoadThemeFile(path string) (Theme, error) {
	var cfg ThemeConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Theme{}, err
	}
	return ThemeFromConfig(cfg), nil
}

func normalizeBorderStyle(val string) string {
	v := strings.TrimSpace(strings.ToLower(val))
	switch v {
	case "", "normal", "square":
		return "normal"
	case "rounded", "round":
		return "rounded"
	default:
		return "normal"
	}
}

func borderForStyle(style string) lipgloss.Border {
	switch normalizeBorderStyle(style) {
	case "rounded":
		return lipgloss.RoundedBorder()
	default:
		return lipgloss.NormalBorder()
	}
}

func borderForTheme(th Theme) lipgloss.Border {
	return borderForStyle(th.BorderStyle)
}
