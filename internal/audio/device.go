package audio

import (
	"fmt"
	"strings"
	"time"

	"github.com/cbegin/keyclack-go/internal/voice"
)

// Device plays one buffer and returns once it has finished sounding.
type Device interface {
	Play(buf voice.Buffer) error
	Close() error
}

// Output names accepted by Open.
const (
	OutputEbiten = "ebiten"
	OutputOto    = "oto"
	OutputPaplay = "paplay"
	OutputNone   = "none"
)

// Open returns the named output device.
func Open(name string) (Device, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case OutputEbiten, "":
		return NewEbitenDevice(voice.SampleRate)
	case OutputOto:
		return NewOtoDevice(voice.SampleRate)
	case OutputPaplay:
		return NewPaplayDevice(), nil
	case OutputNone:
		return &Discard{}, nil
	default:
		return nil, fmt.Errorf("unknown output %q (expected %s|%s|%s|%s)", name, OutputEbiten, OutputOto, OutputPaplay, OutputNone)
	}
}

const (
	drainPoll  = 5 * time.Millisecond
	drainSlack = 250 * time.Millisecond
)

// waitDrained polls playing until it reports false or the buffer's duration
// plus some slack has passed.
func waitDrained(buf voice.Buffer, playing func() bool) {
	deadline := time.Now().Add(buf.Duration() + drainSlack)
	for playing() && time.Now().Before(deadline) {
		time.Sleep(drainPoll)
	}
}
