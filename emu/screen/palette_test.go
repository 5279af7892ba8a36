package screen

import (
	"image/color"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/spf13/viper"
)

func TestLoadPaletteDefaults(t *testing.T) {
	viper.Reset()
	assert.Equal(t, defaultShades, loadPalette())
}

func TestLoadPaletteOverrides(t *testing.T) {
	viper.Reset()
	viper.Set("palette", []string{"#000000", "ffffff", "bogus"})
	defer viper.Reset()

	shades := loadPalette()

	assert.Equal(t, color.RGBA{A: 0xFF}, shades[0])
	assert.Equal(t, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, shades[1])
	assert.Equal(t, defaultShades[2], shades[2])
	assert.Equal(t, defaultShades[3], shades[3])
}
