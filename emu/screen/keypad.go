package screen

import (
	"strconv"

	"chirp8/emu/chip8"

	"github.com/faiface/pixel/pixelgl"
	"github.com/spf13/viper"
)

// The hexadecimal keypad maps onto the left-hand block of a QWERTY
// keyboard:
//
//	1 2 3 C        1 2 3 4
//	4 5 6 D   <-   Q W E R
//	7 8 9 E        A S D F
//	A 0 B F        Z X C V
var defaultKeymap = [chip8.NumKeys]pixelgl.Button{
	0x1: pixelgl.Key1, 0x2: pixelgl.Key2, 0x3: pixelgl.Key3, 0xC: pixelgl.Key4,
	0x4: pixelgl.KeyQ, 0x5: pixelgl.KeyW, 0x6: pixelgl.KeyE, 0xD: pixelgl.KeyR,
	0x7: pixelgl.KeyA, 0x8: pixelgl.KeyS, 0x9: pixelgl.KeyD, 0xE: pixelgl.KeyF,
	0xA: pixelgl.KeyZ, 0x0: pixelgl.KeyX, 0xB: pixelgl.KeyC, 0xF: pixelgl.KeyV,

	chip8.KeyKill: pixelgl.KeyEscape,
	chip8.KeySave: pixelgl.KeyF1,
}

var buttonByName = map[string]pixelgl.Button{
	"0": pixelgl.Key0, "1": pixelgl.Key1, "2": pixelgl.Key2, "3": pixelgl.Key3,
	"4": pixelgl.Key4, "5": pixelgl.Key5, "6": pixelgl.Key6, "7": pixelgl.Key7,
	"8": pixelgl.Key8, "9": pixelgl.Key9,
	"a": pixelgl.KeyA, "b": pixelgl.KeyB, "c": pixelgl.KeyC, "d": pixelgl.KeyD,
	"e": pixelgl.KeyE, "f": pixelgl.KeyF, "g": pixelgl.KeyG, "h": pixelgl.KeyH,
	"i": pixelgl.KeyI, "j": pixelgl.KeyJ, "k": pixelgl.KeyK, "l": pixelgl.KeyL,
	"m": pixelgl.KeyM, "n": pixelgl.KeyN, "o": pixelgl.KeyO, "p": pixelgl.KeyP,
	"q": pixelgl.KeyQ, "r": pixelgl.KeyR, "s": pixelgl.KeyS, "t": pixelgl.KeyT,
	"u": pixelgl.KeyU, "v": pixelgl.KeyV, "w": pixelgl.KeyW, "x": pixelgl.KeyX,
	"y": pixelgl.KeyY, "z": pixelgl.KeyZ,
	"space": pixelgl.KeySpace,
	"esc":   pixelgl.KeyEscape,
}

// loadKeymap returns the default keymap with any `keys` overrides from
// the config applied. Override entries map a hex keypad digit to a host
// key name, e.g. `keys: {"5": "space"}`.
func loadKeymap() [chip8.NumKeys]pixelgl.Button {
	keymap := defaultKeymap

	for digit, name := range viper.GetStringMapString("keys") {
		idx, err := strconv.ParseUint(digit, 16, 8)
		if err != nil || idx > 0xF {
			continue
		}
		if btn, ok := buttonByName[name]; ok {
			keymap[idx] = btn
		}
	}
	return keymap
}
