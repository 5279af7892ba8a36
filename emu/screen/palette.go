package screen

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Default shades cover every combination of the two display planes: bit 0
// from the light plane, bit 1 from the dark plane. The greens mimic the
// classic passive LCD look.
var defaultShades = [4]color.RGBA{
	{R: 0x9B, G: 0xBC, B: 0x0F, A: 0xFF}, // both planes clear
	{R: 0x30, G: 0x62, B: 0x30, A: 0xFF}, // light plane set
	{R: 0x55, G: 0x7E, B: 0x55, A: 0xFF}, // dark plane set
	{R: 0x0F, G: 0x38, B: 0x0F, A: 0xFF}, // both planes set
}

// loadPalette returns the default shades with any `palette` overrides from
// the config applied, given as up to four RRGGBB hex strings from
// background to darkest.
func loadPalette() [4]color.RGBA {
	shades := defaultShades

	for i, entry := range viper.GetStringSlice("palette") {
		if i >= len(shades) {
			break
		}
		if c, ok := parseRGB(entry); ok {
			shades[i] = c
		}
	}
	return shades
}

func parseRGB(s string) (color.RGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, true
}
