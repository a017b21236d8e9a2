package backdrop

import (
	"github.com/pkg/errors"
)

// Default style values, matching the initial state of the editor.
const (
	DefaultPadding       = 50
	DefaultRadius        = 16
	DefaultShadowOffsetY = 8
	DefaultShadowBlur    = 20
	DefaultShadowOpacity = 30

	// MaxShadowBlur bounds the shadow blur. The blur cost grows with the
	// kernel radius, three times the standard deviation of blur/2.
	MaxShadowBlur = 100
)

// Shadow describes the drop shadow cast by the decorated image.
// The horizontal offset is always zero.
type Shadow struct {
	Enabled bool    `yaml:"enabled"`
	OffsetY int     `yaml:"offsetY"`
	Blur    float64 `yaml:"blur"`
	Opacity int     `yaml:"opacity"` // percentage, 0..100
}

// active reports whether the shadow produces any visible pixel.
func (s Shadow) active() bool {
	return s.Enabled && s.Blur > 0 && s.Opacity > 0
}

// alpha converts the opacity percentage to an alpha value in [0, 1].
func (s Shadow) alpha() float64 {
	return float64(s.Opacity) / 100
}

// Style holds the parameters of a single render call. It is passed by value
// and never mutated by the renderer.
type Style struct {
	Padding    int    `yaml:"padding"`
	Radius     int    `yaml:"radius"`
	Background string `yaml:"background"`
	Shadow     Shadow `yaml:"shadow"`
}

// DefaultStyle returns the style the editor starts with.
func DefaultStyle() Style {
	return Style{
		Padding:    DefaultPadding,
		Radius:     DefaultRadius,
		Background: Backgrounds[0].Value,
		Shadow: Shadow{
			Enabled: true,
			OffsetY: DefaultShadowOffsetY,
			Blur:    DefaultShadowBlur,
			Opacity: DefaultShadowOpacity,
		},
	}
}

// Validate checks the numeric constraints of the style.
func (s Style) Validate() error {
	switch {
	case s.Padding < 0:
		return errors.Wrapf(ErrInvalidStyle, "negative padding %d", s.Padding)
	case s.Radius < 0:
		return errors.Wrapf(ErrInvalidStyle, "negative border radius %d", s.Radius)
	case s.Shadow.Blur < 0:
		return errors.Wrapf(ErrInvalidStyle, "negative shadow blur %v", s.Shadow.Blur)
	case !(s.Shadow.Blur <= MaxShadowBlur):
		return errors.Wrapf(ErrInvalidStyle, "shadow blur %v above %d", s.Shadow.Blur, MaxShadowBlur)
	case s.Shadow.Opacity < 0 || s.Shadow.Opacity > 100:
		return errors.Wrapf(ErrInvalidStyle, "shadow opacity %d outside 0..100", s.Shadow.Opacity)
	}
	return nil
}
