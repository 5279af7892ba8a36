package sound

import (
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	toneHz     = 440
)

// Beeper plays the single square-wave tone of the buzzer. The gate flag
// is flipped from the front-end loop while the speaker pulls samples on
// its own goroutine, so it is atomic.
type Beeper struct {
	gate  uint32
	phase int
}

// NewBeeper initializes the speaker and starts streaming. The stream is
// silent until SetActive(true).
func NewBeeper() (*Beeper, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	b := &Beeper{}
	speaker.Play(b)
	return b, nil
}

// SetActive opens or closes the tone gate.
func (b *Beeper) SetActive(active bool) {
	var v uint32
	if active {
		v = 1
	}
	atomic.StoreUint32(&b.gate, v)
}

// Stream implements beep.Streamer.
func (b *Beeper) Stream(samples [][2]float64) (int, bool) {
	if atomic.LoadUint32(&b.gate) == 0 {
		for i := range samples {
			samples[i][0] = 0
			samples[i][1] = 0
		}
		return len(samples), true
	}

	period := int(sampleRate) / toneHz
	for i := range samples {
		v := 0.25
		if b.phase < period/2 {
			v = -0.25
		}
		samples[i][0] = v
		samples[i][1] = v
		b.phase = (b.phase + 1) % period
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (b *Beeper) Err() error {
	return nil
}
