package chip8

import (
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
)

func TestSessionRunsToExit(t *testing.T) {
	s := New()
	s.Memory[0x200] = 0x00
	s.Memory[0x201] = 0xFD

	sess := NewSession(s, &stubKeys{})
	outcome, err := sess.Run()
	assert.NoError(t, err)
	assert.Equal(t, SilentExit, outcome)
	assert.Equal(t, s, sess.State())
}

func TestSessionDecrementsTimers(t *testing.T) {
	s := New()
	s.SetDelay(10)
	s.SetSound(10)

	// A program spinning on the delay timer until it hits zero:
	//	0x200  F007  V0 = delay
	//	0x202  3000  skip if V0 == 0
	//	0x204  1200  jump 0x200
	//	0x206  00FD  exit
	copy(s.Memory[0x200:], []byte{0xF0, 0x07, 0x30, 0x00, 0x12, 0x00, 0x00, 0xFD})

	sess := NewSession(s, &stubKeys{})

	type result struct {
		outcome Outcome
		err     error
	}
	done := make(chan result, 1)
	go func() {
		outcome, err := sess.Run()
		done <- result{outcome, err}
	}()

	select {
	case res := <-done:
		assert.NoError(t, res.err)
		assert.Equal(t, SilentExit, res.outcome)
	case <-time.After(30 * time.Second):
		t.Fatal("session did not run the delay timer down")
	}
	assert.Equal(t, uint8(0), s.Delay())
}

func TestSessionAlarmFollowsSoundTimer(t *testing.T) {
	s := New()
	sess := NewSession(s, &stubKeys{})

	assert.False(t, sess.AlarmActive())
	assert.False(t, sess.SoundActive())

	s.SetSound(120)
	assert.True(t, sess.SoundActive())
}
