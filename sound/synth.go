package sound

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/jakecoffman/cp"
)

const rate = beep.SampleRate(SampleRate)

// Tone describes one impact sound.
type Tone struct {
	Freq   float64
	Gain   float64
	Pan    float64
	Length time.Duration
}

// decay fades a stream out exponentially over total samples.
type decay struct {
	streamer beep.Streamer
	position int
	total    int
}

func (d *decay) Stream(samples [][2]float64) (int, bool) {
	n, ok := d.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		t := float64(d.position) / float64(max(d.total, 1))
		// short attack avoids a click at the start
		env := math.Exp(-5*t) * math.Min(1, float64(d.position)/64)
		samples[i][0] *= env
		samples[i][1] *= env
		d.position++
	}
	return n, ok
}

func (d *decay) Err() error { return d.streamer.Err() }

// Render synthesizes tone as 16-bit little-endian stereo PCM at SampleRate,
// the format ebiten's audio players take.
func Render(tone Tone) ([]byte, error) {
	if tone.Length <= 0 || tone.Gain <= 0 {
		return nil, nil
	}
	sine, err := generators.SineTone(rate, tone.Freq)
	if err != nil {
		return nil, fmt.Errorf("sound: tone %.1fHz: %w", tone.Freq, err)
	}
	n := rate.N(tone.Length)

	var s beep.Streamer = &decay{streamer: beep.Take(n, sine), total: n}
	s = &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(cp.Clamp01(tone.Gain))}
	s = &effects.Pan{Streamer: s, Pan: cp.Clamp(tone.Pan, -1, 1)}

	out := make([]byte, 0, n*4)
	buf := make([][2]float64, 512)
	for {
		got, ok := s.Stream(buf)
		for _, frame := range buf[:got] {
			out = binary.LittleEndian.AppendUint16(out, uint16(toPCM(frame[0])))
			out = binary.LittleEndian.AppendUint16(out, uint16(toPCM(frame[1])))
		}
		if !ok || got == 0 {
			break
		}
	}
	return out, s.Err()
}

func toPCM(v float64) int16 {
	return int16(cp.Clamp(v, -1, 1) * math.MaxInt16)
}
