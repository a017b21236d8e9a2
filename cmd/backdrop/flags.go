package main

import (
	"errors"
	"flag"

	"github.com/esimov/backdrop"
)

// options holds the command line flags. Decoration flags only override the
// configuration file when they are explicitly set.
type options struct {
	in, out     string
	paste       bool
	config      string
	preset      string
	background  string
	padding     int
	radius      int
	shadow      bool
	offsetY     int
	blur        float64
	opacity     int
	shapeShadow bool
	download    string
	copy        bool
	scale       float64
	watch       bool
	listPresets bool
	verbose     bool

	set map[string]bool
}

func parseFlags(fs *flag.FlagSet, args []string) (*options, error) {
	o := &options{set: make(map[string]bool)}

	fs.StringVar(&o.in, "in", pipeName, "Source image")
	fs.BoolVar(&o.paste, "paste", false, "Read the source image from the clipboard")
	fs.StringVar(&o.out, "out", "", "Destination PNG (- for stdout)")
	fs.StringVar(&o.config, "config", "", "YAML style file")
	fs.StringVar(&o.preset, "preset", "", "Background preset name")
	fs.StringVar(&o.background, "bg", "", "Background: color, linear-gradient() or preset name")
	fs.IntVar(&o.padding, "padding", backdrop.DefaultPadding, "Padding around the image")
	fs.IntVar(&o.radius, "radius", backdrop.DefaultRadius, "Corner radius")
	fs.BoolVar(&o.shadow, "shadow", true, "Cast a drop shadow")
	fs.IntVar(&o.offsetY, "offset", backdrop.DefaultShadowOffsetY, "Shadow vertical offset")
	fs.Float64Var(&o.blur, "blur", backdrop.DefaultShadowBlur, "Shadow blur")
	fs.IntVar(&o.opacity, "opacity", backdrop.DefaultShadowOpacity, "Shadow opacity (0-100)")
	fs.BoolVar(&o.shapeShadow, "shape", false, "Always cast the shadow from the image pixels")
	fs.StringVar(&o.download, "download", "", "Save a screenshot-<ms>.png into this directory")
	fs.BoolVar(&o.copy, "copy", false, "Copy the decorated image to the clipboard")
	fs.Float64Var(&o.scale, "scale", 1, "Export scale factor")
	fs.BoolVar(&o.watch, "watch", false, "Re-render whenever the source or the config file changes")
	fs.BoolVar(&o.listPresets, "presets", false, "List the background presets")
	fs.BoolVar(&o.verbose, "v", false, "Verbose logging")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })

	if o.paste && o.set["in"] {
		return nil, errors.New("-paste and -in cannot be used together")
	}
	return o, nil
}

// style overlays the explicitly set flags on the configuration and resolves
// the final style. cfg is left untouched.
func (o *options) style(cfg *backdrop.Config) (backdrop.Style, error) {
	c := *cfg
	s := &c.Style

	if o.set["preset"] {
		c.Preset = o.preset
	}
	if o.set["bg"] {
		c.Preset = ""
		s.Background = o.background
	}
	if o.set["padding"] {
		s.Padding = o.padding
	}
	if o.set["radius"] {
		s.Radius = o.radius
	}
	if o.set["shadow"] {
		s.Shadow.Enabled = o.shadow
	}
	if o.set["offset"] {
		s.Shadow.OffsetY = o.offsetY
	}
	if o.set["blur"] {
		s.Shadow.Blur = o.blur
	}
	if o.set["opacity"] {
		s.Shadow.Opacity = o.opacity
	}
	return c.Resolve()
}
