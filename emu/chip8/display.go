package chip8

import "encoding/binary"

const rowBytes = ScreenWidth / 8

// DrawSprite composites the sprite stored at I onto the selected planes
// and reports whether any set pixel was cleared (the collision signal).
// n == 0 selects the 16-wide form with 16 rows, otherwise the sprite is 8
// pixels wide and n rows tall. In low-res mode coordinates and sprite data
// are scaled 2x onto the same 128x64 grid before drawing.
func (s *State) DrawSprite(x, y, n uint8) bool {
	if s.HiRes {
		if n == 0 {
			return s.drawPlanes(s.spriteRows16(16), x, y)
		}
		return s.drawPlanes(s.spriteRows8(int(n)), x, y)
	}
	if n == 0 {
		// Split into two interleaved 8-wide draws to keep the
		// expanded row buffers small.
		left, right := s.splitWide(16)
		collided := s.drawPlanes(expand(left), x*2, y*2)
		return s.drawPlanes(expand(right), (x+8)*2, y*2) || collided
	}
	return s.drawPlanes(expand(s.spriteBytes(int(n))), x*2, y*2)
}

// drawPlanes draws the same row data independently against each active
// plane and ORs the collision results.
func (s *State) drawPlanes(rows []uint16, x, y uint8) bool {
	collided := false
	if s.Planes&PlaneLight != 0 {
		collided = drawRows(&s.Display[0], rows, x, y) || collided
	}
	if s.Planes&PlaneDark != 0 {
		collided = drawRows(&s.Display[1], rows, x, y) || collided
	}
	return collided
}

// drawRows XOR-composites 16-bit sprite rows onto one plane. Each output
// row is written as two aligned 64-bit words; the pre-XOR overlap between
// sprite data and the current row accumulates into the collision result.
// A sprite crossing the right edge is split: the overflowing columns are
// masked off, shifted to start at x=0 and drawn by a single recursive
// call, so they wrap onto the same rows. The split can only happen once
// per draw because the sprite width is fixed.
func drawRows(p *[PlaneBytes]uint8, rows []uint16, x, y uint8) bool {
	x %= ScreenWidth
	y %= ScreenHeight

	mask := uint16(0xFFFF)
	collided := false

	if int(x)+16 > ScreenWidth {
		off := int(x) + 16 - ScreenWidth
		mask <<= off

		left := make([]uint16, len(rows))
		for i, row := range rows {
			left[i] = (row &^ mask) << (16 - off)
		}
		collided = drawRows(p, left, 0, y)
	}

	for i, row := range rows {
		base := (int(y) + i) % ScreenHeight * rowBytes
		hi := binary.BigEndian.Uint64(p[base:])
		lo := binary.BigEndian.Uint64(p[base+8:])

		data := uint64(row & mask)
		shift := 112 - int(x)
		var dHi, dLo uint64
		switch {
		case shift >= 64:
			dHi = data << (shift - 64)
		case shift >= 0:
			dHi = data >> (64 - shift)
			dLo = data << shift
		default:
			dLo = data >> -shift
		}

		if dHi&hi != 0 || dLo&lo != 0 {
			collided = true
		}
		binary.BigEndian.PutUint64(p[base:], hi^dHi)
		binary.BigEndian.PutUint64(p[base+8:], lo^dLo)
	}
	return collided
}

// spriteRows16 reads n 16-bit rows from memory at I.
func (s *State) spriteRows16(n int) []uint16 {
	rows := make([]uint16, n)
	for i := range rows {
		hi := s.Memory[(s.I+uint16(2*i))&0xFFF]
		lo := s.Memory[(s.I+uint16(2*i+1))&0xFFF]
		rows[i] = uint16(hi)<<8 | uint16(lo)
	}
	return rows
}

// spriteRows8 reads n 8-bit rows from memory at I, left aligned into the
// 16-bit row format used by drawRows.
func (s *State) spriteRows8(n int) []uint16 {
	rows := make([]uint16, n)
	for i := range rows {
		rows[i] = uint16(s.Memory[(s.I+uint16(i))&0xFFF]) << 8
	}
	return rows
}

func (s *State) spriteBytes(n int) []uint8 {
	rows := make([]uint8, n)
	for i := range rows {
		rows[i] = s.Memory[(s.I+uint16(i))&0xFFF]
	}
	return rows
}

// splitWide splits a 16-wide sprite into its left and right byte columns.
func (s *State) splitWide(n int) (left, right []uint8) {
	left = make([]uint8, n)
	right = make([]uint8, n)
	for i := 0; i < n; i++ {
		left[i] = s.Memory[(s.I+uint16(2*i))&0xFFF]
		right[i] = s.Memory[(s.I+uint16(2*i+1))&0xFFF]
	}
	return left, right
}

// expand scales 8-bit low-res rows to their high-res equivalents: every
// source bit becomes a 2x2 block.
func expand(rows []uint8) []uint16 {
	out := make([]uint16, 0, 2*len(rows))
	for _, row := range rows {
		var d uint16
		for j := 0; j < 8; j++ {
			if row&(0x80>>j) != 0 {
				d |= 0x3 << (14 - 2*j)
			}
		}
		out = append(out, d, d)
	}
	return out
}

func (s *State) selectedPlanes() []*[PlaneBytes]uint8 {
	ps := make([]*[PlaneBytes]uint8, 0, 2)
	if s.Planes&PlaneLight != 0 {
		ps = append(ps, &s.Display[0])
	}
	if s.Planes&PlaneDark != 0 {
		ps = append(ps, &s.Display[1])
	}
	return ps
}

// Clear zeroes the selected planes.
func (s *State) Clear() {
	for _, p := range s.selectedPlanes() {
		*p = [PlaneBytes]uint8{}
	}
}

// ScrollRight shifts every row of the selected planes right by 4 pixels,
// threading a carry nibble between adjacent aligned words.
func (s *State) ScrollRight() {
	for _, p := range s.selectedPlanes() {
		for row := 0; row < ScreenHeight; row++ {
			base := row * rowBytes
			carry := uint16(0)
			for j := 0; j < rowBytes; j += 2 {
				w := binary.BigEndian.Uint16(p[base+j:])
				binary.BigEndian.PutUint16(p[base+j:], w>>4|carry<<12)
				carry = w & 0xF
			}
		}
	}
}

// ScrollLeft shifts every row of the selected planes left by 4 pixels.
func (s *State) ScrollLeft() {
	for _, p := range s.selectedPlanes() {
		for row := 0; row < ScreenHeight; row++ {
			base := row * rowBytes
			carry := uint16(0)
			for j := rowBytes - 2; j >= 0; j -= 2 {
				w := binary.BigEndian.Uint16(p[base+j:])
				binary.BigEndian.PutUint16(p[base+j:], w<<4|carry)
				carry = w >> 12
			}
		}
	}
}

// ScrollDown moves the selected planes down by n rows, zero-filling the
// vacated rows at the top.
func (s *State) ScrollDown(n uint8) {
	if n == 0 || n >= ScreenHeight {
		return
	}
	for _, p := range s.selectedPlanes() {
		copy(p[int(n)*rowBytes:], p[:(ScreenHeight-int(n))*rowBytes])
		for i := 0; i < int(n)*rowBytes; i++ {
			p[i] = 0
		}
	}
}

// ScrollUp moves the selected planes up by n rows, zero-filling the
// vacated rows at the bottom.
func (s *State) ScrollUp(n uint8) {
	if n == 0 || n >= ScreenHeight {
		return
	}
	for _, p := range s.selectedPlanes() {
		copy(p[:], p[int(n)*rowBytes:])
		for i := (ScreenHeight - int(n)) * rowBytes; i < PlaneBytes; i++ {
			p[i] = 0
		}
	}
}

// SaveScreen copies the visible 128x64 region of both planes into the
// caller-supplied buffer, light plane first.
func (s *State) SaveScreen(dst *[2 * PlaneBytes]uint8) {
	copy(dst[:PlaneBytes], s.Display[0][:])
	copy(dst[PlaneBytes:], s.Display[1][:])
}

// RestoreScreen reverses SaveScreen.
func (s *State) RestoreScreen(src *[2 * PlaneBytes]uint8) {
	copy(s.Display[0][:], src[:PlaneBytes])
	copy(s.Display[1][:], src[PlaneBytes:])
}
