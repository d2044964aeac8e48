package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Color is a 0xAARRGGBB value written in YAML as "#RRGGBB" or "#AARRGGBB".
type Color uint32

// ParseColor parses "#RRGGBB" (opaque) or "#AARRGGBB".
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return 0, fmt.Errorf("color %q must be #RRGGBB or #AARRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: invalid hex digits", s)
	}
	if len(hex) == 6 {
		v |= 0xff000000
	}
	return Color(v), nil
}

// ARGB returns the packed pixel value.
func (c Color) ARGB() uint32 { return uint32(c) }

func (c Color) String() string {
	if c>>24 == 0xff {
		return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
	}
	return fmt.Sprintf("#%08x", uint32(c))
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	parsed, err := ParseColor(value.Value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Color) MarshalYAML() (any, error) {
	return c.String(), nil
}
