package chip8

import (
	"encoding/binary"
	"fmt"
)

// MaxProgramSize is the number of bytes a decompressed program may occupy
// between the program start and the end of the address space.
const MaxProgramSize = MemorySize - ProgramStart

const (
	codecFlag   = 0xFF
	codecWindow = 1024
	codecMaxRun = 63
)

// Decompress expands a compressed program image payload. The format is
// byte oriented, scanning left to right:
//
//	xx          any byte other than FF is copied verbatim
//	FF nn oo    low 6 bits of nn are a nonzero run length; the top 2 bits
//	            of nn and all of oo form a 10-bit back-reference offset;
//	            each of the n emitted bytes copies output[len-offset-1],
//	            so overlapping runs repeat patterns
//	FF 00       a single literal FF byte
//
// It fails with ErrRomLoad if the output would not fit the program space,
// if it produces no bytes, or if the input is truncated mid-escape.
func Decompress(src []byte) ([]byte, error) {
	out := make([]byte, 0, MaxProgramSize)

	for i := 0; i < len(src); {
		switch {
		case src[i] != codecFlag:
			out = append(out, src[i])
			i++
		case i+1 >= len(src):
			return nil, fmt.Errorf("%w: truncated escape sequence", ErrRomLoad)
		case src[i+1]&codecMaxRun != 0:
			if i+2 >= len(src) {
				return nil, fmt.Errorf("%w: truncated back-reference", ErrRomLoad)
			}
			n := int(src[i+1] & codecMaxRun)
			offset := int(src[i+1]&0xC0)<<2 | int(src[i+2])
			for j := 0; j < n; j++ {
				pos := len(out) - offset - 1
				if pos < 0 {
					return nil, fmt.Errorf("%w: back-reference before output start", ErrRomLoad)
				}
				out = append(out, out[pos])
			}
			i += 3
		default:
			out = append(out, codecFlag)
			i += 2
		}

		if len(out) > MaxProgramSize {
			return nil, fmt.Errorf("%w: program exceeds %d bytes", ErrRomLoad, MaxProgramSize)
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty program", ErrRomLoad)
	}
	return out, nil
}

// Compress encodes a byte sequence into the codec format understood by
// Decompress. Matching is greedy over a sliding window, preferring the
// farthest candidate on length ties; a back-reference is only emitted when
// the bytes it covers would cost more than the three escape bytes to
// encode literally.
func Compress(src []byte) []byte {
	var out []byte

	for i := 0; i < len(src); {
		start := i - codecWindow
		if start < 0 {
			start = 0
		}

		bestLen, bestPos := 0, 0
		for j := start; j < i; j++ {
			if src[j] != src[i] {
				continue
			}
			l := 0
			for i+l < len(src) && src[j+l] == src[i+l] {
				l++
			}
			if l > bestLen {
				bestLen, bestPos = l, j
			}
		}
		if bestLen > codecMaxRun {
			bestLen = codecMaxRun
		}

		cost := 0
		for k := 0; k < bestLen; k++ {
			if src[bestPos+k] == codecFlag {
				cost += 2
			} else {
				cost++
			}
		}

		switch {
		case cost > 3:
			offset := i - bestPos - 1
			out = append(out, codecFlag, uint8((offset&0x300)>>2)|uint8(bestLen), uint8(offset))
			i += bestLen
		case src[i] == codecFlag:
			out = append(out, codecFlag, 0x00)
			i++
		default:
			out = append(out, src[i])
			i++
		}
	}

	return out
}

func checkVersion(v Version) error {
	if v.Major != MajorVersion || v.Minor > MinorVersion {
		return fmt.Errorf("%w: file version %d.%d.%d, engine %d.%d.%d",
			ErrVersion, v.Major, v.Minor, v.Patch,
			MajorVersion, MinorVersion, PatchVersion)
	}
	return nil
}

// LoadROM builds a fresh state from a program image: a three byte version
// header followed by the compressed program, expanded at the program
// start address. Images with a different major version or a newer minor
// version than the engine are rejected.
func LoadROM(data []byte) (*State, error) {
	if len(data) <= 3 {
		return nil, fmt.Errorf("%w: image too short", ErrRomLoad)
	}
	if len(data)-3 > MaxProgramSize {
		return nil, fmt.Errorf("%w: image too large", ErrRomLoad)
	}

	if err := checkVersion(Version{data[0], data[1], data[2]}); err != nil {
		return nil, err
	}

	program, err := Decompress(data[3:])
	if err != nil {
		return nil, err
	}

	s := New()
	copy(s.Memory[ProgramStart:], program)
	return s, nil
}

// PackROM wraps a raw program in the versioned, compressed image format
// read by LoadROM.
func PackROM(raw []byte) ([]byte, error) {
	if len(raw) == 0 || len(raw) > MaxProgramSize {
		return nil, fmt.Errorf("%w: program must be 1-%d bytes", ErrRomLoad, MaxProgramSize)
	}
	out := []byte{MajorVersion, MinorVersion, PatchVersion}
	return append(out, Compress(raw)...), nil
}

// SnapshotSize is the exact byte length of a serialized save snapshot.
const SnapshotSize = 3 + // version
	1 + 2*StackCapacity + // stack pointer and entries
	4 + // PRNG seed
	2 + 2 + // pc, I
	1 + 1 + 1 + // from_state, hires, planes
	NumRegisters +
	1 + 1 + // delay and sound timers
	16 + // rpl bytes
	MemorySize +
	2*PlaneBytes

// EncodeSnapshot serializes the full machine state, including the PRNG
// seed and the visible screen of both planes, into the fixed big-endian
// save snapshot layout.
func EncodeSnapshot(s *State) []byte {
	buf := make([]byte, 0, SnapshotSize)

	buf = append(buf, s.Version.Major, s.Version.Minor, s.Version.Patch)
	buf = append(buf, s.Stack.sp)
	for _, addr := range s.Stack.data {
		buf = appendUint16(buf, addr)
	}
	buf = appendUint32(buf, s.RandSeed)
	buf = appendUint16(buf, s.PC)
	buf = appendUint16(buf, s.I)
	buf = append(buf, boolByte(s.FromState), boolByte(s.HiRes), uint8(s.Planes))
	buf = append(buf, s.V[:]...)
	buf = append(buf, s.Delay(), s.Sound())
	buf = append(buf, s.RPL[:]...)
	buf = append(buf, s.Memory[:]...)

	var screen [2 * PlaneBytes]uint8
	s.SaveScreen(&screen)
	buf = append(buf, screen[:]...)

	return buf
}

// DecodeSnapshot restores a state from its serialized form. The snapshot
// must have the exact expected size and pass the same version gate as
// program images. The restored state resumes the saved display contents
// and pseudo-random sequence rather than reinitializing them.
func DecodeSnapshot(data []byte) (*State, error) {
	if len(data) != SnapshotSize {
		return nil, fmt.Errorf("%w: snapshot is %d bytes, want %d", ErrVersion, len(data), SnapshotSize)
	}

	if err := checkVersion(Version{data[0], data[1], data[2]}); err != nil {
		return nil, err
	}

	s := &State{
		Version: Version{data[0], data[1], data[2]},
	}
	off := 3

	s.Stack.sp = data[off]
	off++
	if s.Stack.sp > StackCapacity {
		return nil, fmt.Errorf("%w: corrupt stack pointer", ErrVersion)
	}
	for i := range s.Stack.data {
		s.Stack.data[i] = binary.BigEndian.Uint16(data[off:])
		off += 2
	}

	s.RandSeed = binary.BigEndian.Uint32(data[off:])
	off += 4
	s.PC = binary.BigEndian.Uint16(data[off:])
	off += 2
	s.I = binary.BigEndian.Uint16(data[off:])
	off += 2

	s.FromState = data[off] != 0
	s.HiRes = data[off+1] != 0
	s.Planes = Plane(data[off+2]) & PlaneBoth
	off += 3

	copy(s.V[:], data[off:])
	off += NumRegisters
	s.SetDelay(data[off])
	s.SetSound(data[off+1])
	off += 2
	copy(s.RPL[:], data[off:])
	off += len(s.RPL)
	copy(s.Memory[:], data[off:])
	off += MemorySize

	var screen [2 * PlaneBytes]uint8
	copy(screen[:], data[off:])
	s.RestoreScreen(&screen)

	s.FromState = true
	return s, nil
}

func appendUint16(buf []byte, v uint16) []byte {
	return append(buf, uint8(v>>8), uint8(v))
}

func appendUint32(buf []byte, v uint32) []byte {
	return append(buf, uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v))
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
