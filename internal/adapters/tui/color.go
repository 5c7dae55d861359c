package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// fallbackColor paints segments whose color does not parse.
var fallbackColor = tcell.NewRGBColor(0x99, 0x99, 0x99) //nolint:gochecknoglobals // immutable color

// emptyDiscColor paints a wheel with no weight.
var emptyDiscColor = tcell.NewRGBColor(0xdd, 0xdd, 0xdd) //nolint:gochecknoglobals // immutable color

// ParseColor converts a "#rrggbb" segment color to a terminal color.
func ParseColor(hex string) tcell.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallbackColor
	}
	return fromColorful(c)
}

// hueColor returns a saturated color for hue in degrees.
func hueColor(hue float64) tcell.Color {
	return fromColorful(colorful.Hsv(hue, 0.85, 1))
}

func fromColorful(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// contrastText picks black or white text for a background.
func contrastText(hex string) tcell.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return tcell.ColorBlack
	}
	_, _, l := c.Hsl()
	if l > 0.6 {
		return tcell.ColorBlack
	}
	return tcell.ColorWhite
}
