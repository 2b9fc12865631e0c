// Package render resolves magnitude buckets to colors and draws earthquake
// rows for terminals.
package render

import (
	"errors"
	"fmt"
	"os"

	"github.com/gookit/color"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/quake-report/internal/domain"
)

// Palette maps each magnitude bucket to a hex color such as "#E75F40".
type Palette map[domain.MagnitudeBucket]string

// DefaultPalette returns the stock bucket colors, cool blues for small
// events through deep reds for the largest.
func DefaultPalette() Palette {
	return Palette{
		domain.Bucket0to1:   "#4A7BA7",
		domain.Bucket2:      "#04B4B3",
		domain.Bucket3:      "#10CAC9",
		domain.Bucket4:      "#F5A623",
		domain.Bucket5:      "#FF7D50",
		domain.Bucket6:      "#FC6644",
		domain.Bucket7:      "#E75F40",
		domain.Bucket8:      "#E13A20",
		domain.Bucket9:      "#D93218",
		domain.Bucket10Plus: "#C03823",
	}
}

// Color returns the hex color for bucket, falling back to the default
// palette when p has no entry.
func (p Palette) Color(bucket domain.MagnitudeBucket) string {
	if c, ok := p[bucket]; ok {
		return c
	}
	return DefaultPalette()[bucket]
}

// LoadPalette reads a YAML file of bucket token to hex color overrides and
// applies them on top of DefaultPalette. An empty path returns the defaults.
//
//	magnitude7: "#FF0000"
//	magnitude10plus: "#800000"
func LoadPalette(path string) (Palette, error) {
	p := DefaultPalette()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read palette: %w", err)
	}

	var overrides map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse palette %s: %w", path, err)
	}

	var errs []error
	for token, hex := range overrides {
		bucket, err := domain.ParseMagnitudeBucket(token)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !validHex(hex) {
			errs = append(errs, fmt.Errorf("palette %s: invalid hex color %q", token, hex))
			continue
		}
		p[bucket] = hex
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("load palette %s: %w", path, errors.Join(errs...))
	}
	return p, nil
}

func validHex(hex string) bool {
	return len(hex) > 0 && hex[0] == '#' && len(color.HexToRgb(hex)) == 3
}
