package epdimg

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
)

// Screen is the size images are fitted into.
type Screen struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Validate checks the screen can hold packed rows: the driver addresses whole
// bytes, so the width must be even.
func (s Screen) Validate() error {
	switch {
	case s.Width <= 0 || s.Height <= 0:
		return fmt.Errorf("%w: screen %dx%d", ErrInvalidDimensions, s.Width, s.Height)
	case s.Width%2 != 0:
		return fmt.Errorf("%w: screen width %d must be even", ErrInvalidDimensions, s.Width)
	}
	return nil
}

// Config is the configuration file.
type Config struct {
	Screen Screen `toml:"screen"`
	// Exif applies the EXIF orientation of the input.
	Exif bool `toml:"exif"`
	// Filter is the resampling filter name, see Filters.
	Filter string `toml:"filter"`
	// Rotate rotates inputs clockwise by 0, 90, 180 or 270 degrees.
	Rotate int `toml:"rotate"`

	Images []Job `toml:"image"`
}

// DefaultConfig is a 1200x825 panel (ED097TC2).
var DefaultConfig = Config{
	Screen: Screen{Width: 1200, Height: 825},
	Filter: "lanczos",
}

// Filters are the resampling filters usable when shrinking images.
var Filters = map[string]imaging.ResampleFilter{
	"nearest":    imaging.NearestNeighbor,
	"box":        imaging.Box,
	"linear":     imaging.Linear,
	"hermite":    imaging.Hermite,
	"mitchell":   imaging.MitchellNetravali,
	"catmullrom": imaging.CatmullRom,
	"bspline":    imaging.BSpline,
	"gaussian":   imaging.Gaussian,
	"bartlett":   imaging.Bartlett,
	"lanczos":    imaging.Lanczos,
	"hann":       imaging.Hann,
	"hamming":    imaging.Hamming,
	"blackman":   imaging.Blackman,
	"welch":      imaging.Welch,
	"cosine":     imaging.Cosine,
}

// FilterNames lists the keys of Filters, sorted.
func FilterNames() []string {
	names := maps.Keys(Filters)
	sort.Strings(names)
	return names
}

// ParseFilter looks up a filter by name.
func ParseFilter(name string) (imaging.ResampleFilter, error) {
	f, ok := Filters[strings.ToLower(name)]
	if !ok {
		return imaging.ResampleFilter{}, fmt.Errorf("unknown filter %q, expected one of %v", name, FilterNames())
	}
	return f, nil
}

// LoadConfig reads a TOML config file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return Config{}, fmt.Errorf("%s: unknown keys %v", path, undecoded)
	}

	if _, err := cfg.Options(nil); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Options validates the config and turns it into conversion options.
func (c Config) Options(log logrus.FieldLogger) (Options, error) {
	if err := c.Screen.Validate(); err != nil {
		return Options{}, err
	}

	filter, err := ParseFilter(c.Filter)
	if err != nil {
		return Options{}, err
	}

	switch c.Rotate {
	case 0, 90, 180, 270:
	default:
		return Options{}, fmt.Errorf("rotation must be 0, 90, 180 or 270 degrees, got %d", c.Rotate)
	}

	return Options{
		Screen: c.Screen,
		Exif:   c.Exif,
		Rotate: c.Rotate,
		Filter: filter,
		Log:    log,
	}, nil
}
