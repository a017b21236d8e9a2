package backdrop

import (
	"image/color"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"

	"github.com/esimov/backdrop/utils"
)

// DefaultFill is painted when a linear-gradient spec cannot be parsed.
const DefaultFill = "#667eea"

var (
	gradientRe = regexp.MustCompile(`^linear-gradient\((\d+)deg,\s*(.+)\)`)
	stopRe     = regexp.MustCompile(`^(.+?)\s+(\d+(?:\.\d+)?)%$`)

	defaultFill = color.NRGBA{R: 0x66, G: 0x7e, B: 0xea, A: 0xff}
	// An unparsable solid color leaves the canvas fill style at its initial value.
	initialFill = color.NRGBA{A: 0xff}
)

// Stop is a gradient color stop; Pos lies in [0, 1].
type Stop struct {
	Pos   float64
	Color color.NRGBA
}

// Gradient is a linear gradient resolved to device space. The gradient line
// crosses the canvas center and spans the full canvas diagonal, so it covers
// the canvas whatever the angle.
type Gradient struct {
	Angle          float64
	X0, Y0, X1, Y1 float64
	Stops          []Stop
}

// ParseGradient parses a `linear-gradient(<angle>deg, <stop>, ...)` spec for a
// canvas of the given size. Stops without an explicit percentage are spread
// evenly by their index; a single stop lands at 0.
func ParseGradient(spec string, width, height int) (*Gradient, error) {
	m := gradientRe.FindStringSubmatch(strings.TrimSpace(spec))
	if m == nil {
		return nil, errors.Errorf("malformed linear-gradient %q", spec)
	}
	angle, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid gradient angle %q", m[1])
	}

	g := &Gradient{Angle: angle}
	g.X0, g.Y0, g.X1, g.Y1 = gradientLine(angle, float64(width), float64(height))

	tokens := splitStops(m[2])
	for i, tok := range tokens {
		pos := 0.0
		if len(tokens) > 1 {
			pos = float64(i) / float64(len(tokens)-1)
		}
		colorTok := tok
		if sm := stopRe.FindStringSubmatch(tok); sm != nil {
			pct, err := strconv.ParseFloat(sm[2], 64)
			if err == nil {
				colorTok, pos = strings.TrimSpace(sm[1]), utils.Clamp(pct/100, 0, 1)
			}
		}
		c, err := ParseColor(colorTok)
		if err != nil {
			return nil, errors.Wrapf(err, "gradient stop %d", i)
		}
		g.Stops = append(g.Stops, Stop{Pos: pos, Color: c})
	}
	return g, nil
}

// gradientLine converts a CSS angle (0deg points up, clockwise) into the
// endpoints of a gradient line centered on the canvas.
func gradientLine(angle, w, h float64) (x0, y0, x1, y1 float64) {
	rad := (angle - 90) * math.Pi / 180
	half := math.Hypot(w, h) / 2
	cx, cy := w/2, h/2
	dx, dy := math.Cos(rad)*half, math.Sin(rad)*half

	return cx - dx, cy - dy, cx + dx, cy + dy
}

// splitStops splits the stop list on the commas found outside parentheses,
// so functional colors like rgb(1, 2, 3) stay in one piece.
func splitStops(list string) []string {
	var (
		stops []string
		depth int
		start int
	)
	for i, r := range list {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				stops = append(stops, strings.TrimSpace(list[start:i]))
				start = i + 1
			}
		}
	}
	return append(stops, strings.TrimSpace(list[start:]))
}

// Fill is a resolved background paint: a gradient when Gradient is set,
// otherwise the solid Color.
type Fill struct {
	Color    color.NRGBA
	Gradient *Gradient
}

// ResolveBackground turns a background spec into a paint for a canvas of the
// given size. It never fails: a malformed gradient falls back to DefaultFill
// and a malformed solid color to opaque black.
func ResolveBackground(spec string, width, height int) Fill {
	spec = strings.TrimSpace(spec)

	if strings.HasPrefix(spec, "linear-gradient") {
		g, err := ParseGradient(spec, width, height)
		if err != nil {
			Logger().Warn("background gradient fell back to the default fill",
				"spec", spec, "fill", DefaultFill, "error", err)
			return Fill{Color: defaultFill}
		}
		return Fill{Gradient: g}
	}

	c, err := ParseColor(spec)
	if err != nil {
		Logger().Warn("background color fell back to black", "spec", spec, "error", err)
		return Fill{Color: initialFill}
	}
	return Fill{Color: c}
}

// Pattern returns the gg paint for the fill.
func (f Fill) Pattern() gg.Pattern {
	if f.Gradient == nil {
		return gg.NewSolidPattern(f.Color)
	}
	g := f.Gradient
	lg := gg.NewLinearGradient(g.X0, g.Y0, g.X1, g.Y1)
	for _, s := range g.Stops {
		lg.AddColorStop(s.Pos, s.Color)
	}
	return lg
}
