package chip8

import (
	"errors"
	"fmt"
)

// Keypad supplies the keyboard snapshot read by the engine. Indices 0-15
// are the CHIP-8 keys 0x0-0xF, KeyKill requests an immediate exit and
// KeySave an exit with a save snapshot. The engine only reads snapshots;
// key mapping policy belongs to the collaborator.
type Keypad interface {
	Poll() [NumKeys]bool
}

const (
	KeyKill = 16
	KeySave = 17
	NumKeys = 18
)

// VM owns the fetch-decode-execute loop over one state record. It is the
// only writer of the state apart from the session's timer driver, which
// touches nothing but the timer cells.
type VM struct {
	state *State
	keys  Keypad
}

// NewVM returns a VM executing the given state.
func NewVM(state *State, keys Keypad) *VM {
	return &VM{state: state, keys: keys}
}

// State returns the machine state the VM executes.
func (vm *VM) State() *State {
	return vm.state
}

func first(op uint16) uint8  { return uint8(op >> 12) }
func second(op uint16) uint8 { return uint8(op>>8) & 0xF }
func third(op uint16) uint8  { return uint8(op>>4) & 0xF }
func last(op uint16) uint8   { return uint8(op) & 0xF }

// Step fetches the next instruction, advances the program counter and
// executes the instruction. Any returned error ends the run.
func (vm *VM) Step() error {
	s := vm.state
	if s.PC > 0xFFE {
		return fmt.Errorf("%w: pc %#04x", ErrInvalidAddress, s.PC)
	}
	op := uint16(s.Memory[s.PC])<<8 | uint16(s.Memory[s.PC+1])
	s.PC += 2

	return vm.dispatch(op)
}

// Run executes instructions until the program terminates, a handler fails
// or the keyboard collaborator signals kill or save-and-exit. The signals
// are polled once per instruction for bounded latency.
func (vm *VM) Run() (Outcome, error) {
	for {
		if err := vm.Step(); err != nil {
			switch {
			case errors.Is(err, errSilentExit):
				return SilentExit, nil
			case errors.Is(err, errExitAndSave):
				return ExitAndSave, nil
			}
			return Done, err
		}

		board := vm.keys.Poll()
		if board[KeyKill] {
			return SilentExit, nil
		}
		if board[KeySave] {
			return ExitAndSave, nil
		}
	}
}

func invalidOpcode(op uint16) error {
	return fmt.Errorf("%w: %#04x", ErrInvalidOpcode, op)
}

func (vm *VM) dispatch(op uint16) error {
	s := vm.state

	switch first(op) {
	case 0x0:
		return vm.dispatch0(op)
	case 0x1:
		s.PC = op & 0xFFF
	case 0x2:
		return vm.opCall(op)
	case 0x3:
		if s.V[second(op)] == uint8(op) {
			s.PC += 2
		}
	case 0x4:
		if s.V[second(op)] != uint8(op) {
			s.PC += 2
		}
	case 0x5:
		return vm.dispatch5(op)
	case 0x6:
		s.V[second(op)] = uint8(op)
	case 0x7:
		s.V[second(op)] += uint8(op)
	case 0x8:
		return vm.dispatch8(op)
	case 0x9:
		if last(op) != 0 {
			return invalidOpcode(op)
		}
		if s.V[second(op)] != s.V[third(op)] {
			s.PC += 2
		}
	case 0xA:
		s.I = op & 0xFFF
	case 0xB:
		s.PC = (op&0xFFF + uint16(s.V[0])) & 0xFFF
	case 0xC:
		s.V[second(op)] = s.randByte() & uint8(op)
	case 0xD:
		vm.opDraw(op)
	case 0xE:
		return vm.dispatchE(op)
	case 0xF:
		return vm.dispatchF(op)
	}
	return nil
}

func (vm *VM) dispatch0(op uint16) error {
	s := vm.state

	if second(op) != 0 {
		return invalidOpcode(op)
	}

	switch third(op) {
	case 0xC:
		s.ScrollDown(last(op))
		return nil
	case 0xD:
		s.ScrollUp(last(op))
		return nil
	case 0xE:
		switch last(op) {
		case 0x0:
			s.Clear()
			return nil
		case 0xE:
			pc, err := s.Stack.Pop()
			if err != nil {
				return err
			}
			s.PC = pc
			return nil
		}
	case 0xF:
		switch last(op) {
		case 0xB:
			s.ScrollRight()
			return nil
		case 0xC:
			s.ScrollLeft()
			return nil
		case 0xD:
			return errSilentExit
		case 0xE:
			s.HiRes = false
			return nil
		case 0xF:
			s.HiRes = true
			return nil
		}
	}
	return invalidOpcode(op)
}

func (vm *VM) opCall(op uint16) error {
	s := vm.state
	err := s.Stack.Push(s.PC)
	s.PC = op & 0xFFF
	return err
}

func (vm *VM) dispatch5(op uint16) error {
	s := vm.state
	x, y := second(op), third(op)

	switch last(op) {
	case 0x0:
		if s.V[x] == s.V[y] {
			s.PC += 2
		}
	case 0x2:
		// Store Vx..Vy at I onward without updating I.
		for i := x; i <= y; i++ {
			s.Memory[(s.I+uint16(i-x))&0xFFF] = s.V[i]
		}
	case 0x3:
		for i := x; i <= y; i++ {
			s.V[i] = s.Memory[(s.I+uint16(i-x))&0xFFF]
		}
	default:
		return invalidOpcode(op)
	}
	return nil
}

func (vm *VM) dispatch8(op uint16) error {
	s := vm.state
	x, y := second(op), third(op)

	switch last(op) {
	case 0x0:
		s.V[x] = s.V[y]
	case 0x1:
		s.V[x] |= s.V[y]
	case 0x2:
		s.V[x] &= s.V[y]
	case 0x3:
		s.V[x] ^= s.V[y]
	case 0x4:
		sum := uint16(s.V[x]) + uint16(s.V[y])
		s.V[x] = uint8(sum)
		s.V[0xF] = uint8(sum >> 8)
	case 0x5:
		vx, vy := s.V[x], s.V[y]
		s.V[x] = vx - vy
		if vy > vx {
			s.V[0xF] = 0
		} else {
			s.V[0xF] = 1
		}
	case 0x6:
		// Shifts read Vy as the source, per the original instruction set.
		vy := s.V[y]
		s.V[x] = vy >> 1
		s.V[0xF] = vy & 1
	case 0x7:
		vx, vy := s.V[x], s.V[y]
		s.V[x] = vy - vx
		if vx > vy {
			s.V[0xF] = 0
		} else {
			s.V[0xF] = 1
		}
	case 0xE:
		vy := s.V[y]
		s.V[x] = vy << 1
		s.V[0xF] = vy >> 7
	default:
		return invalidOpcode(op)
	}
	return nil
}

func (vm *VM) opDraw(op uint16) {
	s := vm.state
	if s.DrawSprite(s.V[second(op)], s.V[third(op)], last(op)) {
		s.V[0xF] = 1
	} else {
		s.V[0xF] = 0
	}
}

func (vm *VM) dispatchE(op uint16) error {
	s := vm.state
	key := s.V[second(op)]

	switch uint8(op) {
	case 0x9E:
		// Keys >= 16 never match "pressed".
		if key >= 16 {
			return nil
		}
		if vm.keys.Poll()[key] {
			s.PC += 2
		}
	case 0xA1:
		// Keys >= 16 always match "not pressed".
		if key >= 16 || !vm.keys.Poll()[key] {
			s.PC += 2
		}
	default:
		return invalidOpcode(op)
	}
	return nil
}

// opKeyWait blocks until a key transitions from pressed to released across
// two consecutive polls. The lowest key index observed releasing wins.
// The kill and save-and-exit signals abort the wait, and with it the run.
func (vm *VM) opKeyWait(op uint16) error {
	old := vm.keys.Poll()

	for {
		now := vm.keys.Poll()

		if now[KeyKill] {
			return errSilentExit
		}
		if now[KeySave] {
			return errExitAndSave
		}

		for i := 0; i < 16; i++ {
			if old[i] && !now[i] {
				vm.state.V[second(op)] = uint8(i)
				return nil
			}
		}

		old = now
	}
}

func (vm *VM) dispatchF(op uint16) error {
	s := vm.state
	x := second(op)

	switch third(op) {
	case 0x0:
		switch last(op) {
		case 0x1:
			// Fn01 - select the active planes from the middle nibble.
			if x > uint8(PlaneBoth) {
				return invalidOpcode(op)
			}
			s.Planes = Plane(x)
			return nil
		case 0x7:
			s.V[x] = s.Delay()
			return nil
		case 0xA:
			return vm.opKeyWait(op)
		}
	case 0x1:
		switch last(op) {
		case 0x5:
			s.SetDelay(s.V[x])
			return nil
		case 0x8:
			s.SetSound(s.V[x])
			return nil
		case 0xE:
			s.I += uint16(s.V[x])
			if s.I&^uint16(0xFFF) != 0 {
				s.V[0xF] = 1
			} else {
				s.V[0xF] = 0
			}
			s.I &= 0xFFF
			return nil
		}
	case 0x2:
		if last(op) == 0x9 {
			if s.V[x] > 0xF {
				return invalidOpcode(op)
			}
			s.I = uint16(s.V[x]) * 5
			return nil
		}
	case 0x3:
		switch last(op) {
		case 0x0:
			// Big font; digits A-F are an Octo extension.
			if s.V[x] > 0xF {
				return invalidOpcode(op)
			}
			s.I = uint16(s.V[x])*10 + 80
			return nil
		case 0x3:
			num := s.V[x]
			for j := 2; j >= 0; j-- {
				s.Memory[(s.I+uint16(j))&0xFFF] = num % 10
				num /= 10
			}
			return nil
		}
	case 0x5:
		if last(op) == 0x5 {
			for j := uint8(0); j <= x; j++ {
				s.Memory[(s.I+uint16(j))&0xFFF] = s.V[j]
			}
			s.I = (s.I + uint16(x) + 1) & 0xFFF
			return nil
		}
	case 0x6:
		if last(op) == 0x5 {
			for j := uint8(0); j <= x; j++ {
				s.V[j] = s.Memory[(s.I+uint16(j))&0xFFF]
			}
			s.I = (s.I + uint16(x) + 1) & 0xFFF
			return nil
		}
	case 0x7:
		if last(op) == 0x5 {
			// RPL storage is faked as in-memory bytes; it persists
			// only through save snapshots.
			copy(s.RPL[:x+1], s.V[:x+1])
			return nil
		}
	case 0x8:
		if last(op) == 0x5 {
			copy(s.V[:x+1], s.RPL[:x+1])
			return nil
		}
	}
	return invalidOpcode(op)
}
