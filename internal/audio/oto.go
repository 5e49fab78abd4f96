package audio

import (
	"bytes"

	"github.com/ebitengine/oto/v3"

	"github.com/cbegin/keyclack-go/internal/voice"
)

// OtoDevice drives oto directly with a mono s16 context.
type OtoDevice struct {
	ctx *oto.Context
}

func NewOtoDevice(sampleRate int) (*OtoDevice, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: voice.Channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready
	return &OtoDevice{ctx: ctx}, nil
}

func (d *OtoDevice) Play(buf voice.Buffer) error {
	if err := d.ctx.Err(); err != nil {
		return err
	}
	p := d.ctx.NewPlayer(bytes.NewReader(buf.PCM16LE()))
	p.Play()
	waitDrained(buf, p.IsPlaying)
	return p.Close()
}

func (d *OtoDevice) Close() error {
	return d.ctx.Suspend()
}
