package sound

import (
	"github.com/hajimehoshi/ebiten/v2/audio"
)

// Player is a Voice backed by ebiten's audio context.
type Player struct {
	ctx     *audio.Context
	playing []*audio.Player
}

// NewPlayer reuses the process-wide audio context or creates it.
func NewPlayer() *Player {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(SampleRate)
	}
	return &Player{ctx: ctx}
}

func (p *Player) Play(pcm []byte) {
	p.prune()
	player := p.ctx.NewPlayerFromBytes(pcm)
	player.Play()
	p.playing = append(p.playing, player)
}

// prune closes finished players.
func (p *Player) prune() {
	kept := p.playing[:0]
	for _, pl := range p.playing {
		if pl.IsPlaying() {
			kept = append(kept, pl)
			continue
		}
		_ = pl.Close()
	}
	clear(p.playing[len(kept):])
	p.playing = kept
}
