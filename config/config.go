// Package config provides viewer preferences loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/pict"
	"github.com/gogpu/pict/imageio"
)

// Preferences represents the persisted viewer settings.
type Preferences struct {
	// Interaction
	ZoomSpeed  float64 `yaml:"zoom_speed"`
	AutoCenter bool    `yaml:"auto_center"`

	// Encoding
	JPEGQuality  int     `yaml:"jpeg_quality"`
	WebPQuality  float32 `yaml:"webp_quality"`
	WebPLossless bool    `yaml:"webp_lossless"`

	// Resampling filter for resize operations.
	ResizeFilter string `yaml:"resize_filter"`

	// Canvas matte
	CheckerCell   float64 `yaml:"checker_cell"`
	CheckerColorA string  `yaml:"checker_color_a"`
	CheckerColorB string  `yaml:"checker_color_b"`
}

// Defaults returns Preferences with default values.
func Defaults() Preferences {
	return Preferences{
		ZoomSpeed:    1.0,
		AutoCenter:   true,
		JPEGQuality:  90,
		WebPQuality:  90,
		ResizeFilter: string(imageio.FilterLanczos),
		CheckerCell:  pict.CanvasMatte.CellSize,
	}
}

// Clamp restricts every field to its valid range, replacing unusable
// values with defaults. Bad preferences degrade, they never fail.
func (p *Preferences) Clamp() {
	if p.ZoomSpeed < 0.1 || p.ZoomSpeed > 10 {
		p.ZoomSpeed = 1.0
	}
	if p.JPEGQuality < 1 || p.JPEGQuality > 100 {
		p.JPEGQuality = 90
	}
	if p.WebPQuality < 1 || p.WebPQuality > 100 {
		p.WebPQuality = 90
	}
	if _, ok := parseFilter(p.ResizeFilter); !ok {
		p.ResizeFilter = string(imageio.FilterLanczos)
	}
	if p.CheckerCell < 2 || p.CheckerCell > 256 {
		p.CheckerCell = pict.CanvasMatte.CellSize
	}
}

// LoadFromFile loads preferences from a YAML file, starting from the
// defaults. A missing file yields the defaults with no error.
func LoadFromFile(path string) (Preferences, error) {
	p := Defaults()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return p, nil
	}
	if err != nil {
		return p, err
	}

	if err := yaml.Unmarshal(data, &p); err != nil {
		return Defaults(), fmt.Errorf("config: parse %s: %w", path, err)
	}
	p.Clamp()
	return p, nil
}

// SaveToFile writes preferences as YAML, creating parent directories
// as needed.
func (p Preferences) SaveToFile(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// SaveOptions converts the encoding preferences for imageio.
func (p Preferences) SaveOptions() imageio.SaveOptions {
	return imageio.SaveOptions{
		JPEGQuality:  p.JPEGQuality,
		WebPQuality:  p.WebPQuality,
		WebPLossless: p.WebPLossless,
	}
}

// Filter returns the configured resize filter.
func (p Preferences) Filter() imageio.Filter {
	f, ok := parseFilter(p.ResizeFilter)
	if !ok {
		return imageio.FilterLanczos
	}
	return f
}

// Matte builds the canvas checker from the configured cell size and
// colors. Unset or malformed colors keep the stock grays.
func (p Preferences) Matte() pict.CheckerSpec {
	spec := pict.CanvasMatte
	if p.CheckerCell > 0 {
		spec.CellSize = p.CheckerCell
	}
	if c, ok := ParseColor(p.CheckerColorA); ok {
		spec.ColorA = c
	}
	if c, ok := ParseColor(p.CheckerColorB); ok {
		spec.ColorB = c
	}
	return spec
}

// ParseColor parses a "#rrggbb" hex string.
func ParseColor(hex string) (pict.RGBA, bool) {
	if len(hex) == 7 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return pict.RGBA{}, false
	}
	var rgb [3]uint8
	for i := range rgb {
		hi, ok1 := hexValue(hex[i*2])
		lo, ok2 := hexValue(hex[i*2+1])
		if !ok1 || !ok2 {
			return pict.RGBA{}, false
		}
		rgb[i] = hi<<4 | lo
	}
	return pict.RGB(
		float64(rgb[0])/255,
		float64(rgb[1])/255,
		float64(rgb[2])/255,
	), true
}

func hexValue(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

func parseFilter(name string) (imageio.Filter, bool) {
	switch imageio.Filter(name) {
	case imageio.FilterNearest, imageio.FilterLinear, imageio.FilterCatmullRom,
		imageio.FilterGaussian, imageio.FilterLanczos:
		return imageio.Filter(name), true
	}
	return "", false
}
