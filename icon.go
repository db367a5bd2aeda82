package docframe

import (
	"context"
	"io"
	"regexp"
)

// Icon defaults applied when a field is absent from configuration.
const (
	DefaultThemeColor = "#2563eb"
	DefaultLine1Text  = "aide"
	DefaultLine1Color = "#94a3b8"
	DefaultLine1Size  = 0.25
	DefaultLine2Color = "#ffffff"
	DefaultLine2Size  = 0.45
)

// IconSizes are the side lengths, in pixels, of the generated icons.
var IconSizes = []int{192, 512}

// Vertical text positions as fractions of the icon side length. They are
// fixed rather than derived from glyph metrics.
const (
	Line1Position = 0.35
	Line2Position = 0.70
)

// IconSettings is the icon section of the PWA configuration as written by the
// user. Nil fields take their defaults; an empty string is a value, so
// Line1Text "" hides the first line.
type IconSettings struct {
	Background *string  `json:"background,omitempty" yaml:"background,omitempty"`
	Line1Text  *string  `json:"line1_text,omitempty" yaml:"line1_text,omitempty"`
	Line1Color *string  `json:"line1_color,omitempty" yaml:"line1_color,omitempty"`
	Line1Size  *float64 `json:"line1_size,omitempty" yaml:"line1_size,omitempty"`
	Line2Text  *string  `json:"line2_text,omitempty" yaml:"line2_text,omitempty"`
	Line2Color *string  `json:"line2_color,omitempty" yaml:"line2_color,omitempty"`
	Line2Size  *float64 `json:"line2_size,omitempty" yaml:"line2_size,omitempty"`
}

// PWAConfig is the progressive web app section of the configuration.
type PWAConfig struct {
	ThemeColor string       `json:"theme_color,omitempty" yaml:"theme_color,omitempty"`
	Icon       IconSettings `json:"icon" yaml:"icon"`
}

// IconsEnabled reports whether icon generation is configured. The second
// text line is required; its absence opts out of generation.
func (c PWAConfig) IconsEnabled() bool {
	return c.Icon.Line2Text != nil && *c.Icon.Line2Text != ""
}

// IconConfig returns the normalized icon configuration with defaults
// substituted for missing fields.
func (c PWAConfig) IconConfig() IconConfig {
	themeColor := c.ThemeColor
	if themeColor == "" {
		themeColor = DefaultThemeColor
	}
	s := c.Icon
	return IconConfig{
		Background: stringOr(s.Background, themeColor),
		Line1Text:  stringOr(s.Line1Text, DefaultLine1Text),
		Line1Color: stringOr(s.Line1Color, DefaultLine1Color),
		Line1Size:  floatOr(s.Line1Size, DefaultLine1Size),
		Line2Text:  stringOr(s.Line2Text, ""),
		Line2Color: stringOr(s.Line2Color, DefaultLine2Color),
		Line2Size:  floatOr(s.Line2Size, DefaultLine2Size),
	}
}

// IconConfig is the normalized set of fields that determine how an icon looks.
// Only these fields participate in the asset hash.
type IconConfig struct {
	Background string
	Line1Text  string
	Line1Color string
	Line1Size  float64
	Line2Text  string
	Line2Color string
	Line2Size  float64
}

// IconService keeps generated icon assets current.
type IconService interface {
	// EnsureIcons regenerates the icons in dir when they are missing, carry
	// a stale hash, or force is set. It reports whether icons were written.
	// It returns (false, nil) when icon generation is not configured.
	EnsureIcons(ctx context.Context, dir string, cfg PWAConfig, force bool) (bool, error)
}

// IconRenderer renders a single square icon of the given size, with hash
// embedded as a recoverable marker.
type IconRenderer interface {
	Render(w io.Writer, size int, cfg IconConfig, hash string) error
}

// iconHashRe matches the marker written by IconHashComment.
var iconHashRe = regexp.MustCompile(`<!-- docframe-icon-hash: ([a-f0-9]+) -->`)

// IconHashComment returns the body of the XML comment that marks an icon with
// its configuration hash.
func IconHashComment(hash string) string {
	return " docframe-icon-hash: " + hash + " "
}

// ParseIconHash returns the configuration hash embedded in a generated icon.
func ParseIconHash(content []byte) (string, bool) {
	m := iconHashRe.FindSubmatch(content)
	if m == nil {
		return "", false
	}
	return string(m[1]), true
}

func stringOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
