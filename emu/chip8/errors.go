package chip8

import "errors"

// Error taxonomy. Every failure of the engine or the compositor is terminal
// to the current run and surfaces as one of these, usually wrapped with
// context via fmt.Errorf and %w.
var (
	ErrInvalidArgument = errors.New("invalid program parameter")
	ErrRomLoad         = errors.New("failed loading ROM")
	ErrVersion         = errors.New("invalid format")
	ErrStackOverflow   = errors.New("stack overflow")
	ErrStackUnderflow  = errors.New("stack underflow")
	ErrOutOfMemory     = errors.New("out of memory")
	ErrInvalidOpcode   = errors.New("invalid instruction")
	ErrInvalidAddress  = errors.New("address out of range")
)

// Deliberate run terminations. These thread through the step loop like
// errors but are mapped to outcomes by Run, never surfaced to the caller.
var (
	errSilentExit  = errors.New("silent exit")
	errExitAndSave = errors.New("exit and save")
)

// Outcome is the result of a completed run.
type Outcome int

const (
	// Done is a normal completion; no snapshot is needed.
	Done Outcome = iota
	// ExitAndSave asks the caller to persist a save snapshot.
	ExitAndSave
	// SilentExit terminates with no message.
	SilentExit
)

// Message returns the user-facing message for a run result. The caller
// owns all messaging; the engine only produces the error values.
func Message(err error) string {
	switch {
	case err == nil:
		return "Done"
	case errors.Is(err, ErrInvalidArgument):
		return "Error: invalid program parameter"
	case errors.Is(err, ErrRomLoad):
		return "Error: failed loading ROM"
	case errors.Is(err, ErrVersion):
		return "Error: invalid format"
	case errors.Is(err, ErrStackOverflow):
		return "Error: stack overflow"
	case errors.Is(err, ErrStackUnderflow):
		return "Error: stack underflow"
	case errors.Is(err, ErrOutOfMemory):
		return "Error: out of memory"
	case errors.Is(err, ErrInvalidOpcode):
		return "Error: invalid instruction"
	case errors.Is(err, ErrInvalidAddress):
		return "Error: address out of range"
	default:
		return "Error: unknown error"
	}
}
