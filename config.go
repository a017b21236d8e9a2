package backdrop

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Background is a named background fill.
type Background struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Backgrounds lists the built-in background presets. The first one is the default.
var Backgrounds = []Background{
	{Name: "Blue Gradient", Value: "linear-gradient(135deg, #667eea 0%, #764ba2 100%)"},
	{Name: "Purple Gradient", Value: "linear-gradient(135deg, #f093fb 0%, #f5576c 100%)"},
	{Name: "Green Gradient", Value: "linear-gradient(135deg, #4facfe 0%, #00f2fe 100%)"},
	{Name: "Orange Gradient", Value: "linear-gradient(135deg, #fa709a 0%, #fee140 100%)"},
	{Name: "Sunset Gradient", Value: "linear-gradient(135deg, #ff9a9e 0%, #fecfef 50%, #fecfef 100%)"},
	{Name: "Forest Gradient", Value: "linear-gradient(135deg, #56ab2f 0%, #a8e6cf 100%)"},
	{Name: "Aurora Gradient", Value: "linear-gradient(135deg, #00c6ff 0%, #0072ff 100%)"},
	{Name: "Mint Gradient", Value: "linear-gradient(135deg, #74b9ff 0%, #0984e3 100%)"},
	{Name: "Lavender Gradient", Value: "linear-gradient(135deg, #a29bfe 0%, #6c5ce7 100%)"},
	{Name: "Rainbow Gradient", Value: "linear-gradient(135deg, #ff6b6b 0%, #feca57 25%, #48dbfb 50%, #ff9ff3 75%, #54a0ff 100%)"},
	{Name: "Tropical Gradient", Value: "linear-gradient(135deg, #ff9a56 0%, #ff6b95 50%, #c44569 100%)"},
	{Name: "Northern Lights", Value: "linear-gradient(135deg, #12c2e9 0%, #c471ed 50%, #f64f59 100%)"},
	{Name: "Dark", Value: "#1a1a1a"},
	{Name: "Light", Value: "#f8f9fa"},
}

// Config is the optional YAML parameter store. Fields missing from the file
// keep their DefaultStyle value.
//
//	preset: Sunset Gradient
//	style:
//	  padding: 40
//	  radius: 12
//	  shadow:
//	    enabled: true
//	    offsetY: 8
//	    blur: 20
//	    opacity: 30
//	presets:
//	  - name: Brand
//	    value: linear-gradient(90deg, #0b3d91 0%, #fc3d21 100%)
type Config struct {
	Style   Style        `yaml:"style"`
	Preset  string       `yaml:"preset,omitempty"`
	Presets []Background `yaml:"presets,omitempty"`
}

// DefaultConfig returns a configuration holding the default style.
func DefaultConfig() *Config {
	return &Config{Style: DefaultStyle()}
}

// LoadConfig reads the YAML file at path. An empty path or a missing file
// yields the default configuration.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %s", path)
	}
	for i, p := range cfg.Presets {
		if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Value) == "" {
			return nil, errors.Errorf("config %s: preset #%d needs both a name and a value", path, i+1)
		}
	}
	return cfg, nil
}

// Lookup finds a background preset by name, case-insensitively. Presets
// declared in the config shadow the built-in ones.
func (c *Config) Lookup(name string) (Background, bool) {
	name = strings.TrimSpace(name)
	for _, set := range [][]Background{c.Presets, Backgrounds} {
		for _, b := range set {
			if strings.EqualFold(b.Name, name) {
				return b, true
			}
		}
	}
	return Background{}, false
}

// All returns the config presets followed by the built-in ones.
func (c *Config) All() []Background {
	all := make([]Background, 0, len(c.Presets)+len(Backgrounds))
	all = append(all, c.Presets...)
	return append(all, Backgrounds...)
}

// Background returns the value of the preset called nameOrValue, or
// nameOrValue itself when no preset carries that name.
func (c *Config) Background(nameOrValue string) string {
	if b, ok := c.Lookup(nameOrValue); ok {
		return b.Value
	}
	return nameOrValue
}

// Resolve applies the selected preset to the configured style and validates it.
func (c *Config) Resolve() (Style, error) {
	style := c.Style
	if c.Preset != "" {
		b, ok := c.Lookup(c.Preset)
		if !ok {
			return Style{}, errors.Errorf("unknown background preset %q", c.Preset)
		}
		style.Background = b.Value
	} else {
		style.Background = c.Background(style.Background)
	}
	if err := style.Validate(); err != nil {
		return Style{}, err
	}
	return style, nil
}
