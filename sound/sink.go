package sound

import (
	"log"
	"math"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bouncyballs/physics"
)

// Voice plays rendered PCM.
type Voice interface {
	Play(pcm []byte)
}

// Sink turns collision events into sounds. Each key is rate limited by
// Cooldown and at most MaxPerFrame sounds start per frame.
type Sink struct {
	cfg   Config
	voice Voice
	now   func() time.Time

	last    map[uint64]time.Time
	started int
}

func NewSink(cfg Config, voice Voice) *Sink {
	return &Sink{
		cfg:   cfg,
		voice: voice,
		now:   time.Now,
		last:  make(map[uint64]time.Time),
	}
}

func (s *Sink) SetConfig(cfg Config) {
	s.cfg = cfg
}

// OnCollision implements physics.EventSink.
func (s *Sink) OnCollision(ev physics.CollisionEvent) {
	if s == nil || !s.cfg.Enabled || s.voice == nil {
		return
	}
	if s.cfg.MaxPerFrame > 0 && s.started >= s.cfg.MaxPerFrame {
		return
	}
	now := s.now()
	if t, ok := s.last[ev.Key]; ok && now.Sub(t) < s.cfg.Cooldown {
		return
	}
	s.last[ev.Key] = now

	pcm, err := Render(s.ToneFor(ev))
	if err != nil {
		log.Printf("sound: render: %v", err)
		return
	}
	if len(pcm) == 0 {
		return
	}
	s.started++
	s.voice.Play(pcm)
}

// ToneFor maps an event to a tone: pitch from radius, gain from strength and
// pan from the horizontal position.
func (s *Sink) ToneFor(ev physics.CollisionEvent) Tone {
	ref := s.cfg.RefRadius
	if !(ref > 0) {
		ref = DefaultConfig().RefRadius
	}
	r := math.Max(ev.Radius, 1)
	freq := s.cfg.BaseFreq * math.Sqrt(ref/r)
	gain := s.cfg.Volume * cp.Clamp01(ev.Strength)
	if ev.Kind == physics.ContactWall {
		// walls are softer and a fifth lower
		freq *= 2.0 / 3.0
		gain *= 0.8
	}
	return Tone{
		Freq:   freq,
		Gain:   gain,
		Pan:    cp.Clamp01(ev.X)*2 - 1,
		Length: s.cfg.Length,
	}
}

// EndFrame resets the per-frame budget and forgets expired keys.
func (s *Sink) EndFrame() {
	if s == nil {
		return
	}
	s.started = 0
	now := s.now()
	for k, t := range s.last {
		if now.Sub(t) >= s.cfg.Cooldown {
			delete(s.last, k)
		}
	}
}

// Reset forgets all keys.
func (s *Sink) Reset() {
	clear(s.last)
	s.started = 0
}
