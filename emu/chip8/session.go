package chip8

import (
	"sync/atomic"
	"time"
)

const timerHz = 60

// Session couples a VM with the periodic timer driver. The driver
// goroutine is the sole decrementer of the delay and sound timers; the
// step loop only ever stores fresh values into them, so no compound
// read-modify-write crosses the goroutine boundary. The timer cells are
// handed to the driver when Run starts and revoked when it returns.
type Session struct {
	vm    *VM
	state *State
	alarm uint32
	stop  chan struct{}
	done  chan struct{}
}

// NewSession returns a session executing the given state.
func NewSession(state *State, keys Keypad) *Session {
	return &Session{
		vm:    NewVM(state, keys),
		state: state,
	}
}

// State returns the machine state the session executes.
func (se *Session) State() *State {
	return se.state
}

// Run drives the fetch-decode-execute loop to completion or failure, with
// the timer driver running for the duration of the call.
func (se *Session) Run() (Outcome, error) {
	se.startTimers()
	defer se.stopTimers()

	return se.vm.Run()
}

// AlarmActive reports whether the sound timer is asking for the silent
// alarm visual. Safe to call from any goroutine.
func (se *Session) AlarmActive() bool {
	return atomic.LoadUint32(&se.alarm) != 0
}

// SoundActive reports whether the sound timer is running.
func (se *Session) SoundActive() bool {
	return se.state.Sound() > 0
}

func (se *Session) startTimers() {
	se.stop = make(chan struct{})
	se.done = make(chan struct{})

	go func() {
		defer close(se.done)

		ticker := time.NewTicker(time.Second / timerHz)
		defer ticker.Stop()

		for {
			select {
			case <-se.stop:
				return
			case <-ticker.C:
				se.tick()
			}
		}
	}()
}

func (se *Session) stopTimers() {
	close(se.stop)
	<-se.done
}

// tick decrements both timers toward zero and tracks the sound timer
// edges that toggle the alarm visual.
func (se *Session) tick() {
	s := se.state

	if d := atomic.LoadUint32(&s.delay); d > 0 {
		atomic.StoreUint32(&s.delay, d-1)
	}

	snd := atomic.LoadUint32(&s.sound)
	if snd > 0 {
		snd--
		atomic.StoreUint32(&s.sound, snd)
	}

	if snd > 0 {
		atomic.StoreUint32(&se.alarm, 1)
	} else {
		atomic.StoreUint32(&se.alarm, 0)
	}
}
