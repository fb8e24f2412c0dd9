package gamedata

import (
	"fmt"
	"strconv"
	"strings"
)

// RGB is a display colour authored in content files. The core never draws;
// hosts convert it to whatever their renderer uses.
type RGB struct {
	R, G, B uint8
}

// ParseHexColor converts a hex color string (e.g., "#FF0000" or "FF0000") to RGB.
func ParseHexColor(hex string) (RGB, error) {
	// Remove leading # if present
	hex = strings.TrimPrefix(hex, "#")

	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("invalid hex color length: %s", hex)
	}

	r, err := strconv.ParseUint(hex[0:2], 16, 8)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid red component in %s: %w", hex, err)
	}

	g, err := strconv.ParseUint(hex[2:4], 16, 8)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid green component in %s: %w", hex, err)
	}

	b, err := strconv.ParseUint(hex[4:6], 16, 8)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid blue component in %s: %w", hex, err)
	}

	return RGB{R: uint8(r), G: uint8(g), B: uint8(b)}, nil
}

// Hex returns the colour in "#RRGGBB" form.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
