package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"chirp8/emu/chip8"

	"github.com/retroenv/retrogolib/assert"
)

func TestStartRejectsBadRefreshRate(t *testing.T) {
	defer func(old int) { refreshRate = old }(refreshRate)

	for _, rate := range []int{0, -1, 500} {
		refreshRate = rate
		err := Start(startCmd, []string{"game.ch8"})
		assert.True(t, errors.Is(err, chip8.ErrInvalidArgument))
	}
}

func TestLoadInputDispatch(t *testing.T) {
	dir := t.TempDir()

	image, err := chip8.PackROM([]byte{0x00, 0xFD})
	assert.NoError(t, err)
	romPath := filepath.Join(dir, "game.ch8")
	assert.NoError(t, os.WriteFile(romPath, image, 0644))

	s, err := loadInput(romPath)
	assert.NoError(t, err)
	assert.False(t, s.FromState)

	savePath := filepath.Join(dir, "game.c8sv")
	assert.NoError(t, os.WriteFile(savePath, chip8.EncodeSnapshot(s), 0644))

	r, err := loadInput(savePath)
	assert.NoError(t, err)
	assert.True(t, r.FromState)

	badPath := filepath.Join(dir, "game.bin")
	assert.NoError(t, os.WriteFile(badPath, image, 0644))
	_, err = loadInput(badPath)
	assert.True(t, errors.Is(err, chip8.ErrRomLoad))

	_, err = loadInput(filepath.Join(dir, "missing.ch8"))
	assert.True(t, errors.Is(err, chip8.ErrRomLoad))
}
