package audio

import (
	"fmt"
	"sync"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/cbegin/keyclack-go/internal/voice"
)

var (
	audioContextOnce sync.Once
	audioContext     *ebitaudio.Context
	audioSampleRate  int
)

// ebiten allows one audio context per process.
func sharedAudioContext(sampleRate int) (*ebitaudio.Context, error) {
	audioContextOnce.Do(func() {
		audioSampleRate = sampleRate
		audioContext = ebitaudio.NewContext(sampleRate)
	})
	if audioSampleRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", audioSampleRate, sampleRate)
	}
	return audioContext, nil
}

// EbitenDevice plays buffers through ebiten's audio context. The context is
// always stereo, so mono buffers are duplicated to both channels.
type EbitenDevice struct {
	ctx *ebitaudio.Context
}

func NewEbitenDevice(sampleRate int) (*EbitenDevice, error) {
	ctx, err := sharedAudioContext(sampleRate)
	if err != nil {
		return nil, err
	}
	return &EbitenDevice{ctx: ctx}, nil
}

func (d *EbitenDevice) Play(buf voice.Buffer) error {
	p := d.ctx.NewPlayerFromBytes(buf.Stereo16LE())
	p.Play()
	waitDrained(buf, p.IsPlaying)
	return p.Close()
}

// Close is a no-op; the shared context lives until the process exits.
func (d *EbitenDevice) Close() error { return nil }
