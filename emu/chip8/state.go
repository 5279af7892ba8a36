package chip8

import (
	"sync/atomic"
	"time"
)

// Version of the engine. The major number gates program image and save
// snapshot compatibility; the minor number covers backwards (but not
// forward) compatible feature changes.
const (
	MajorVersion = 1
	MinorVersion = 0
	PatchVersion = 0
)

const (
	MemorySize    = 4096
	ProgramStart  = 0x200
	StackCapacity = 16
	NumRegisters  = 16

	ScreenWidth  = 128
	ScreenHeight = 64
	PlaneBytes   = ScreenWidth / 8 * ScreenHeight
)

// Plane selects which of the two monochrome bit-planes the draw, clear and
// scroll opcodes affect. Single-plane mode behaves as classic CHIP-8/SCHIP;
// both planes together give the XO-CHIP four shade display.
type Plane uint8

const (
	PlaneNone  Plane = 0
	PlaneLight Plane = 1 << 0
	PlaneDark  Plane = 1 << 1
	PlaneBoth        = PlaneLight | PlaneDark
)

// Version is stamped into every program image and save snapshot.
type Version struct {
	Major uint8
	Minor uint8
	Patch uint8
}

// Stack is the fixed-capacity call stack. Push and Pop are the only
// mutators; exceeding capacity or popping empty fails without corrupting
// the stored addresses.
type Stack struct {
	data [StackCapacity]uint16
	sp   uint8
}

// Push appends a return address.
func (st *Stack) Push(addr uint16) error {
	if st.sp == StackCapacity {
		return ErrStackOverflow
	}
	st.data[st.sp] = addr
	st.sp++
	return nil
}

// Pop removes and returns the most recently pushed address.
func (st *Stack) Pop() (uint16, error) {
	if st.sp == 0 {
		return 0, ErrStackUnderflow
	}
	st.sp--
	return st.data[st.sp], nil
}

// Depth reports the number of stored return addresses.
func (st *Stack) Depth() int {
	return int(st.sp)
}

// State is the complete mutable state of one running program. It is created
// once per run, either fresh via New or restored from a snapshot, and
// discarded when the run ends.
//
// The delay and sound timers are accessed through their atomic accessors
// because the session's timer driver decrements them from a second
// goroutine. Everything else is owned by the step loop.
type State struct {
	Version   Version
	Stack     Stack
	RandSeed  uint32
	PC        uint16
	I         uint16
	FromState bool
	HiRes     bool
	Planes    Plane
	V         [NumRegisters]uint8
	delay     uint32
	sound     uint32
	RPL       [16]uint8
	Memory    [MemorySize]uint8
	Display   [2][PlaneBytes]uint8
}

// New returns a zeroed state with the built-in fonts loaded, PC at the
// program start and a fresh PRNG seed.
func New() *State {
	s := &State{
		Version: Version{MajorVersion, MinorVersion, PatchVersion},
		PC:      ProgramStart,
		Planes:  PlaneLight,
	}
	s.loadFont()
	s.RandSeed = uint32(time.Now().UnixNano())
	return s
}

func (s *State) loadFont() {
	copy(s.Memory[:], fontSprites[:])
}

// Delay returns the current delay timer value.
func (s *State) Delay() uint8 {
	return uint8(atomic.LoadUint32(&s.delay))
}

// SetDelay stores a new delay timer value.
func (s *State) SetDelay(v uint8) {
	atomic.StoreUint32(&s.delay, uint32(v))
}

// Sound returns the current sound timer value.
func (s *State) Sound() uint8 {
	return uint8(atomic.LoadUint32(&s.sound))
}

// SetSound stores a new sound timer value.
func (s *State) SetSound(v uint8) {
	atomic.StoreUint32(&s.sound, uint32(v))
}

// randByte advances the PRNG and returns the next byte of its stream. The
// generator state lives in RandSeed so that a restored snapshot continues
// the same sequence.
func (s *State) randByte() uint8 {
	s.RandSeed = s.RandSeed*1103515245 + 12345
	return uint8(s.RandSeed >> 16)
}

// Built-in hexadecimal font sprites, loaded at address 0. The small font
// uses 5 bytes per glyph; the big SUPER-CHIP font (10 bytes per glyph,
// digits A-F included) starts at index 80.
var fontSprites = [240]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, 0x20, 0x60, 0x20, 0x20, 0x70, 0xF0, 0x10,
	0xF0, 0x80, 0xF0, 0xF0, 0x10, 0xF0, 0x10, 0xF0, 0x90, 0x90, 0xF0, 0x10,
	0x10, 0xF0, 0x80, 0xF0, 0x10, 0xF0, 0xF0, 0x80, 0xF0, 0x90, 0xF0, 0xF0,
	0x10, 0x20, 0x40, 0x40, 0xF0, 0x90, 0xF0, 0x90, 0xF0, 0xF0, 0x90, 0xF0,
	0x10, 0xF0, 0xF0, 0x90, 0xF0, 0x90, 0x90, 0xE0, 0x90, 0xE0, 0x90, 0xE0,
	0xF0, 0x80, 0x80, 0x80, 0xF0, 0xE0, 0x90, 0x90, 0x90, 0xE0, 0xF0, 0x80,
	0xF0, 0x80, 0xF0, 0xF0, 0x80, 0xF0, 0x80, 0x80, 0xFF, 0xFF, 0xC3, 0xC3,
	0xC3, 0xC3, 0xC3, 0xC3, 0xFF, 0xFF, 0x18, 0x78, 0x78, 0x18, 0x18, 0x18,
	0x18, 0x18, 0xFF, 0xFF, 0xFF, 0xFF, 0x03, 0x03, 0xFF, 0xFF, 0xC0, 0xC0,
	0xFF, 0xFF, 0xFF, 0xFF, 0x03, 0x03, 0xFF, 0xFF, 0x03, 0x03, 0xFF, 0xFF,
	0xC3, 0xC3, 0xC3, 0xC3, 0xFF, 0xFF, 0x03, 0x03, 0x03, 0x03, 0xFF, 0xFF,
	0xC0, 0xC0, 0xFF, 0xFF, 0x03, 0x03, 0xFF, 0xFF, 0xFF, 0xFF, 0xC0, 0xC0,
	0xFF, 0xFF, 0xC3, 0xC3, 0xFF, 0xFF, 0xFF, 0xFF, 0x03, 0x03, 0x06, 0x0C,
	0x18, 0x18, 0x18, 0x18, 0xFF, 0xFF, 0xC3, 0xC3, 0xFF, 0xFF, 0xC3, 0xC3,
	0xFF, 0xFF, 0xFF, 0xFF, 0xC3, 0xC3, 0xFF, 0xFF, 0x03, 0x03, 0xFF, 0xFF,
	0x7E, 0xFF, 0xC3, 0xC3, 0xC3, 0xFF, 0xFF, 0xC3, 0xC3, 0xC3, 0xFC, 0xFC,
	0xC3, 0xC3, 0xFC, 0xFC, 0xC3, 0xC3, 0xFC, 0xFC, 0x3C, 0xFF, 0xC3, 0xC0,
	0xC0, 0xC0, 0xC0, 0xC3, 0xFF, 0x3C, 0xFC, 0xFE, 0xC3, 0xC3, 0xC3, 0xC3,
	0xC3, 0xC3, 0xFE, 0xFC, 0xFF, 0xFF, 0xC0, 0xC0, 0xFF, 0xFF, 0xC0, 0xC0,
	0xFF, 0xFF, 0xFF, 0xFF, 0xC0, 0xC0, 0xFF, 0xFF, 0xC0, 0xC0, 0xC0, 0xC0,
}
