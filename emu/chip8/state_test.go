package chip8

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestNewState(t *testing.T) {
	s := New()

	assert.Equal(t, uint16(ProgramStart), s.PC)
	assert.Equal(t, PlaneLight, s.Planes)
	assert.False(t, s.HiRes)
	assert.False(t, s.FromState)
	assert.Equal(t, uint8(MajorVersion), s.Version.Major)

	// Small font glyph 0 at address 0, big font glyph 0 at address 80.
	assert.Equal(t, uint8(0xF0), s.Memory[0])
	assert.Equal(t, uint8(0xFF), s.Memory[80])
	assert.Equal(t, uint8(0x00), s.Memory[240])
}

func TestStackBounds(t *testing.T) {
	var st Stack

	for i := 0; i < StackCapacity; i++ {
		assert.NoError(t, st.Push(uint16(0x200+i)))
	}
	assert.Equal(t, StackCapacity, st.Depth())

	err := st.Push(0xABC)
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, StackCapacity, st.Depth())

	for i := StackCapacity - 1; i >= 0; i-- {
		addr, err := st.Pop()
		assert.NoError(t, err)
		assert.Equal(t, uint16(0x200+i), addr)
	}

	_, err = st.Pop()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
}

func TestTimerAccessors(t *testing.T) {
	s := New()

	s.SetDelay(42)
	s.SetSound(7)
	assert.Equal(t, uint8(42), s.Delay())
	assert.Equal(t, uint8(7), s.Sound())
}

func TestRandByteSeedContinuity(t *testing.T) {
	a := New()
	b := New()
	a.RandSeed = 0xDEADBEEF
	b.RandSeed = 0xDEADBEEF

	for i := 0; i < 32; i++ {
		assert.Equal(t, a.randByte(), b.randByte())
	}
	assert.Equal(t, a.RandSeed, b.RandSeed)
}
