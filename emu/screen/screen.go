package screen

import (
	"fmt"
	"image/color"
	"sync/atomic"
	"time"

	"chirp8/emu/chip8"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/pixelgl"
)

// Window renders the emulated display with pixel and samples the host
// keyboard for the machine. Update must run on the main thread; Poll is
// called from the emulator goroutine and only reads the atomic key
// snapshot taken by the last Update.
type Window struct {
	win    *pixelgl.Window
	pic    *pixel.PictureData
	keymap [chip8.NumKeys]pixelgl.Button
	keys   [chip8.NumKeys]uint32
	shades [4]color.RGBA
	frame  time.Duration
	last   time.Time
}

// New opens the emulator window at the given integer scale factor.
func New(refresh, scale int) (*Window, error) {
	if refresh <= 0 {
		refresh = 60
	}
	if scale <= 0 {
		scale = 8
	}

	cfg := pixelgl.WindowConfig{
		Title:     "chirp8",
		Bounds:    pixel.R(0, 0, float64(chip8.ScreenWidth*scale), float64(chip8.ScreenHeight*scale)),
		Resizable: false,
		VSync:     true,
	}
	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	return &Window{
		win:    win,
		pic:    pixel.MakePictureData(pixel.R(0, 0, chip8.ScreenWidth, chip8.ScreenHeight)),
		keymap: loadKeymap(),
		shades: loadPalette(),
		frame:  time.Second / time.Duration(refresh),
	}, nil
}

// Poll returns the key snapshot taken by the last Update. It implements
// chip8.Keypad and is safe to call from the emulator goroutine.
func (w *Window) Poll() [chip8.NumKeys]bool {
	var board [chip8.NumKeys]bool
	for i := range w.keys {
		board[i] = atomic.LoadUint32(&w.keys[i]) != 0
	}
	return board
}

// Update redraws the display planes, refreshes the key snapshot and
// paces the caller to the configured refresh rate. The alarm flag
// inverts the palette for the silent alarm visual.
func (w *Window) Update(st *chip8.State, alarm bool) {
	if w.win.Closed() {
		// Treat a closed window as the kill key so the emulator
		// goroutine unwinds through its normal exit path.
		atomic.StoreUint32(&w.keys[chip8.KeyKill], 1)
		time.Sleep(w.frame)
		return
	}

	w.scanKeys()
	w.blit(st, alarm)

	w.win.Clear(w.shades[0])
	sprite := pixel.NewSprite(w.pic, w.pic.Bounds())
	scale := w.win.Bounds().W() / chip8.ScreenWidth
	sprite.Draw(w.win, pixel.IM.Scaled(pixel.ZV, scale).Moved(w.win.Bounds().Center()))
	w.win.Update()

	// VSync alone tracks the monitor, not the requested refresh rate.
	if wait := w.frame - time.Since(w.last); wait > 0 {
		time.Sleep(wait)
	}
	w.last = time.Now()
}

func (w *Window) scanKeys() {
	for i, btn := range w.keymap {
		var v uint32
		if w.win.Pressed(btn) {
			v = 1
		}
		atomic.StoreUint32(&w.keys[i], v)
	}
}

func (w *Window) blit(st *chip8.State, alarm bool) {
	for y := 0; y < chip8.ScreenHeight; y++ {
		for x := 0; x < chip8.ScreenWidth; x++ {
			idx := planeBit(&st.Display[0], x, y) | planeBit(&st.Display[1], x, y)<<1
			if alarm {
				idx = 3 - idx
			}
			// PictureData rows run bottom-up.
			w.pic.Pix[(chip8.ScreenHeight-1-y)*w.pic.Stride+x] = w.shades[idx]
		}
	}
}

func planeBit(p *[chip8.PlaneBytes]uint8, x, y int) int {
	if p[y*chip8.ScreenWidth/8+x/8]&(0x80>>(x%8)) != 0 {
		return 1
	}
	return 0
}
