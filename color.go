package backdrop

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
	"golang.org/x/image/colornames"

	"github.com/esimov/backdrop/utils"
)

var (
	colorLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Hash", Pattern: `#[0-9A-Fa-f]+`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.?\d*|\.\d+)(?:%|deg|grad|rad|turn)?`},
		{Name: "Ident", Pattern: `[A-Za-z][A-Za-z0-9-]*`},
		{Name: "Punct", Pattern: `[(),/]`},
	})

	colorParser = participle.MustBuild[cssColor](
		participle.Lexer(colorLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
)

// cssColor is the AST of a single CSS color token.
type cssColor struct {
	Hex  *string    `parser:"  @Hash"`
	Func *colorFunc `parser:"| @@"`
	Name *string    `parser:"| @Ident"`
}

// colorFunc captures the functional notations rgb(), rgba(), hsl() and hsla(),
// both in the legacy comma separated and the modern space separated syntax.
type colorFunc struct {
	Name  string   `parser:"@Ident '('"`
	Args  []string `parser:"@Number ( ','? @Number )*"`
	Alpha *string  `parser:"( '/' @Number )? ')'"`
}

// ParseColor parses a CSS color token into a non-premultiplied color.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.NRGBA{}, errors.New("empty color")
	}
	ast, err := colorParser.ParseString("", s)
	if err != nil {
		return color.NRGBA{}, errors.Wrapf(err, "invalid color %q", s)
	}

	switch {
	case ast.Hex != nil:
		return parseHex(*ast.Hex)
	case ast.Func != nil:
		return ast.Func.eval()
	case ast.Name != nil:
		return namedColor(*ast.Name)
	}
	return color.NRGBA{}, errors.Errorf("invalid color %q", s)
}

// parseHex converts the #rgb, #rgba, #rrggbb and #rrggbbaa notations.
func parseHex(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")

	switch len(hex) {
	case 3, 4:
		var expanded strings.Builder
		for _, r := range hex {
			expanded.WriteRune(r)
			expanded.WriteRune(r)
		}
		hex = expanded.String()
	case 6, 8:
	default:
		return color.NRGBA{}, errors.Errorf("invalid hex color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, errors.Wrapf(err, "invalid hex color %q", s)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

func namedColor(name string) (color.NRGBA, error) {
	name = strings.ToLower(name)
	if name == "transparent" {
		return color.NRGBA{}, nil
	}
	c, ok := colornames.Map[name]
	if !ok {
		return color.NRGBA{}, errors.Errorf("unknown color name %q", name)
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
}

func (f *colorFunc) eval() (color.NRGBA, error) {
	args := f.Args
	alpha := 1.0

	if f.Alpha != nil {
		args = append(args, *f.Alpha)
	}
	if len(args) != 3 && len(args) != 4 {
		return color.NRGBA{}, errors.Errorf("%s() expects 3 or 4 arguments, got %d", f.Name, len(args))
	}
	if len(args) == 4 {
		a, err := parseAlpha(args[3])
		if err != nil {
			return color.NRGBA{}, err
		}
		alpha = a
	}

	switch strings.ToLower(f.Name) {
	case "rgb", "rgba":
		var ch [3]uint8
		for i := 0; i < 3; i++ {
			v, err := parseChannel(args[i])
			if err != nil {
				return color.NRGBA{}, err
			}
			ch[i] = v
		}
		return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: unitToByte(alpha)}, nil
	case "hsl", "hsla":
		h, err := parseHue(args[0])
		if err != nil {
			return color.NRGBA{}, err
		}
		s, err := parsePercent(args[1])
		if err != nil {
			return color.NRGBA{}, err
		}
		l, err := parsePercent(args[2])
		if err != nil {
			return color.NRGBA{}, err
		}
		r, g, b := hslToRGB(h, s, l)
		return color.NRGBA{R: unitToByte(r), G: unitToByte(g), B: unitToByte(b), A: unitToByte(alpha)}, nil
	}
	return color.NRGBA{}, errors.Errorf("unsupported color function %s()", f.Name)
}

// parseChannel reads an rgb() channel given either as 0..255 or as a percentage.
func parseChannel(s string) (uint8, error) {
	if strings.HasSuffix(s, "%") {
		p, err := parsePercent(s)
		if err != nil {
			return 0, err
		}
		return unitToByte(p), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid color channel %q", s)
	}
	return uint8(math.Round(utils.Clamp(v, 0, 255))), nil
}

// parseAlpha reads an alpha value given either as 0..1 or as a percentage.
func parseAlpha(s string) (float64, error) {
	if strings.HasSuffix(s, "%") {
		return parsePercent(s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid alpha %q", s)
	}
	return utils.Clamp(v, 0, 1), nil
}

// parsePercent converts "42%" to 0.42, clamped to [0, 1].
func parsePercent(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid percentage %q", s)
	}
	return utils.Clamp(v/100, 0, 1), nil
}

// parseHue returns the hue in degrees normalized to [0, 360).
func parseHue(s string) (float64, error) {
	unit := 1.0
	for _, u := range []struct {
		suffix string
		scale  float64
	}{
		{"deg", 1},
		{"grad", 0.9},
		{"rad", 180 / math.Pi},
		{"turn", 360},
	} {
		if strings.HasSuffix(s, u.suffix) {
			s, unit = strings.TrimSuffix(s, u.suffix), u.scale
			break
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid hue %q", s)
	}
	h := math.Mod(v*unit, 360)
	if h < 0 {
		h += 360
	}
	return h, nil
}

// hslToRGB converts hue (degrees), saturation and lightness (0..1) to RGB in 0..1.
func hslToRGB(h, s, l float64) (float64, float64, float64) {
	c := (1 - utils.Abs(2*l-1)) * s
	hp := h / 60
	x := c * (1 - utils.Abs(math.Mod(hp, 2)-1))

	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := l - c/2
	return r + m, g + m, b + m
}

func unitToByte(v float64) uint8 {
	return uint8(math.Round(utils.Clamp(v, 0, 1) * 255))
}
