package chip8

import (
	"fmt"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func pixelAt(p *[PlaneBytes]uint8, x, y int) bool {
	return p[y*rowBytes+x/8]&(0x80>>(x%8)) != 0
}

func TestDrawSpriteCollision(t *testing.T) {
	s := New()
	s.HiRes = true
	s.I = 0x300
	s.Memory[0x300] = 0xFF

	assert.False(t, s.DrawSprite(0, 0, 1))
	for x := 0; x < 8; x++ {
		assert.True(t, pixelAt(&s.Display[0], x, 0))
	}

	// Drawing the same sprite again clears it and signals collision.
	assert.True(t, s.DrawSprite(0, 0, 1))
	for x := 0; x < 8; x++ {
		assert.False(t, pixelAt(&s.Display[0], x, 0))
	}
}

func TestDrawSpriteWrapsRightEdge(t *testing.T) {
	s := New()
	s.HiRes = true
	s.I = 0x300
	s.Memory[0x300] = 0xFF
	s.Memory[0x301] = 0xFF

	assert.False(t, s.DrawSprite(124, 0, 0))

	for x := 124; x < 128; x++ {
		assert.True(t, pixelAt(&s.Display[0], x, 0))
	}
	for x := 0; x < 12; x++ {
		assert.True(t, pixelAt(&s.Display[0], x, 0))
	}
	assert.False(t, pixelAt(&s.Display[0], 12, 0))
	assert.False(t, pixelAt(&s.Display[0], 123, 0))
}

func TestDrawSpriteWideAtEveryOffset(t *testing.T) {
	s := New()
	s.HiRes = true
	s.I = 0x300
	s.Memory[0x300] = 0xFF
	s.Memory[0x301] = 0xFF

	for x := 0; x < ScreenWidth; x++ {
		assert.False(t, s.DrawSprite(uint8(x), 0, 0), fmt.Sprintf("x %d", x))

		set := 0
		for col := 0; col < ScreenWidth; col++ {
			if pixelAt(&s.Display[0], col, 0) {
				set++
			}
		}
		assert.Equal(t, 16, set, fmt.Sprintf("x %d", x))

		// Erase by redrawing; every pixel overlaps, so it collides.
		assert.True(t, s.DrawSprite(uint8(x), 0, 0), fmt.Sprintf("x %d", x))
	}
}

func TestDrawSpriteWrapsBottomEdge(t *testing.T) {
	s := New()
	s.HiRes = true
	s.I = 0x300
	s.Memory[0x300] = 0x80
	s.Memory[0x301] = 0x80

	s.DrawSprite(0, 63, 2)

	assert.True(t, pixelAt(&s.Display[0], 0, 63))
	assert.True(t, pixelAt(&s.Display[0], 0, 0))
}

func TestDrawSpriteLowResExpansion(t *testing.T) {
	s := New()
	s.I = 0x300
	s.Memory[0x300] = 0x80

	s.DrawSprite(1, 1, 1)

	// One low-res pixel becomes a 2x2 block at twice the coordinates.
	for _, pt := range [][2]int{{2, 2}, {3, 2}, {2, 3}, {3, 3}} {
		assert.True(t, pixelAt(&s.Display[0], pt[0], pt[1]))
	}
	assert.False(t, pixelAt(&s.Display[0], 4, 2))
	assert.False(t, pixelAt(&s.Display[0], 2, 4))
}

func TestDrawSpriteLowResWide(t *testing.T) {
	s := New()
	s.I = 0x300
	s.Memory[0x300] = 0x80 // left column, row 0
	s.Memory[0x301] = 0x01 // right column, row 0

	s.DrawSprite(0, 0, 0)

	assert.True(t, pixelAt(&s.Display[0], 0, 0))
	assert.True(t, pixelAt(&s.Display[0], 1, 1))
	// Bit 0 of the right byte lands at low-res column 15.
	assert.True(t, pixelAt(&s.Display[0], 30, 0))
	assert.True(t, pixelAt(&s.Display[0], 31, 1))
}

func TestDrawSpriteLowResWrapsRightEdge(t *testing.T) {
	s := New()
	s.I = 0x300
	s.Memory[0x300] = 0xFF

	// Low-res column 63 doubles to 126; six of the eight doubled pixels
	// wrap around to the left edge.
	s.DrawSprite(63, 0, 1)

	for _, col := range []int{126, 127, 0, 1, 12, 13} {
		assert.True(t, pixelAt(&s.Display[0], col, 0), fmt.Sprintf("column %d", col))
		assert.True(t, pixelAt(&s.Display[0], col, 1), fmt.Sprintf("column %d", col))
	}
	assert.False(t, pixelAt(&s.Display[0], 14, 0))
	assert.False(t, pixelAt(&s.Display[0], 125, 0))
}

func TestDrawSpritePlaneSelection(t *testing.T) {
	s := New()
	s.HiRes = true
	s.I = 0x300
	s.Memory[0x300] = 0x80

	s.Planes = PlaneBoth
	s.DrawSprite(0, 0, 1)
	assert.True(t, pixelAt(&s.Display[0], 0, 0))
	assert.True(t, pixelAt(&s.Display[1], 0, 0))

	s.Planes = PlaneDark
	assert.True(t, s.DrawSprite(0, 0, 1))
	assert.True(t, pixelAt(&s.Display[0], 0, 0))
	assert.False(t, pixelAt(&s.Display[1], 0, 0))
}

func TestScrollRight(t *testing.T) {
	s := New()
	s.Display[0][0] = 0x80 // pixel at (0, 0)

	s.ScrollRight()

	assert.False(t, pixelAt(&s.Display[0], 0, 0))
	assert.True(t, pixelAt(&s.Display[0], 4, 0))
}

func TestScrollLeft(t *testing.T) {
	s := New()
	s.Display[0][1] = 0x80 // pixel at (8, 0)

	s.ScrollLeft()

	assert.False(t, pixelAt(&s.Display[0], 8, 0))
	assert.True(t, pixelAt(&s.Display[0], 4, 0))
}

func TestScrollLeftCrossesWordBoundary(t *testing.T) {
	s := New()
	s.Display[0][2] = 0x80 // pixel at (16, 0), start of the second word

	s.ScrollLeft()

	assert.True(t, pixelAt(&s.Display[0], 12, 0))
	assert.False(t, pixelAt(&s.Display[0], 16, 0))
}

func TestScrollDown(t *testing.T) {
	s := New()
	s.Display[0][0] = 0x80 // pixel at (0, 0)

	s.ScrollDown(3)

	assert.False(t, pixelAt(&s.Display[0], 0, 0))
	assert.True(t, pixelAt(&s.Display[0], 0, 3))
}

func TestScrollUp(t *testing.T) {
	s := New()
	s.Display[0][5*rowBytes] = 0x80 // pixel at (0, 5)

	s.ScrollUp(2)

	assert.False(t, pixelAt(&s.Display[0], 0, 5))
	assert.True(t, pixelAt(&s.Display[0], 0, 3))
}

func TestClearRespectsPlaneSelection(t *testing.T) {
	s := New()
	s.Display[0][0] = 0xFF
	s.Display[1][0] = 0xFF

	s.Planes = PlaneDark
	s.Clear()

	assert.Equal(t, uint8(0xFF), s.Display[0][0])
	assert.Equal(t, uint8(0x00), s.Display[1][0])
}

func TestSaveRestoreScreen(t *testing.T) {
	s := New()
	s.Display[0][10] = 0xAA
	s.Display[1][20] = 0x55

	var buf [2 * PlaneBytes]uint8
	s.SaveScreen(&buf)

	restored := New()
	restored.RestoreScreen(&buf)

	assert.Equal(t, s.Display, restored.Display)
}
